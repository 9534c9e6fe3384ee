package group

import (
	"context"

	"github.com/fkhayef/membership/internal/apperr"
)

// Common errors
var (
	ErrGroupNotFound = apperr.NotFound("group not found")
)

// Store is the persistence the group service needs
type Store interface {
	GetByID(ctx context.Context, id int64) (*Group, error)
	Placement(ctx context.Context, groupID int64) (*Placement, error)
	RolesForPerson(ctx context.Context, personID int64) ([]*Role, error)
	GetRoles(ctx context.Context, groupID int64) ([]*Role, error)
	PersonIDsWithRolesInLayer(ctx context.Context, layerGroupID int64, roleTypes []string) ([]int64, error)
}

// Service handles group business logic
type Service struct {
	repo Store
}

// NewService creates a new group service
func NewService(repo Store) *Service {
	return &Service{repo: repo}
}

// GetByID retrieves a group by its ID
func (s *Service) GetByID(ctx context.Context, id int64) (*Group, error) {
	group, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, ErrGroupNotFound
	}
	return group, nil
}

// GetByIDWithRoles retrieves a group with its active roles
func (s *Service) GetByIDWithRoles(ctx context.Context, id int64) (*Group, []*Role, error) {
	group, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	roles, err := s.repo.GetRoles(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	return group, roles, nil
}

// Placement resolves where a group sits in the layer hierarchy
func (s *Service) Placement(ctx context.Context, groupID int64) (*Placement, error) {
	p, err := s.repo.Placement(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrGroupNotFound
	}
	return p, nil
}

// Placements resolves several groups, skipping none
func (s *Service) Placements(ctx context.Context, groupIDs []int64) ([]Placement, error) {
	out := make([]Placement, 0, len(groupIDs))
	for _, id := range groupIDs {
		p, err := s.Placement(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, nil
}

// RolesForPerson retrieves the active group roles of a person
func (s *Service) RolesForPerson(ctx context.Context, personID int64) ([]*Role, error) {
	return s.repo.RolesForPerson(ctx, personID)
}

// Responsibles returns the people with layer write roles in the given layer
func (s *Service) Responsibles(ctx context.Context, layerGroupID int64) ([]int64, error) {
	return s.repo.PersonIDsWithRolesInLayer(ctx, layerGroupID, WriteRoleTypes())
}

// WriteRolesOn filters roles down to those granting write access on the
// placed group
func WriteRolesOn(roles []*Role, p Placement) []*Role {
	var out []*Role
	for _, r := range roles {
		if r.WritesOn(p) {
			out = append(out, r)
		}
	}
	return out
}
