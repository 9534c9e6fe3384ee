package event

import (
	"context"
	"time"

	"github.com/fkhayef/membership/internal/apperr"
)

// Common errors
var (
	ErrEventNotFound = apperr.NotFound("event not found")
)

// Store is the persistence the event service needs
type Store interface {
	GetByID(ctx context.Context, id int64) (*Event, error)
	ListApplicationPossibleCourses(ctx context.Context, kindID int64, now time.Time) ([]*Event, error)
}

// Service handles event lookups
type Service struct {
	repo Store
	now  func() time.Time
}

// NewService creates a new event service
func NewService(repo Store) *Service {
	return &Service{repo: repo, now: time.Now}
}

// GetByID retrieves an event by its ID
func (s *Service) GetByID(ctx context.Context, id int64) (*Event, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, ErrEventNotFound
	}
	return e, nil
}

// GetInGroup retrieves an event reached through one of its groups. Events
// not linked to the group are reported as missing.
func (s *Service) GetInGroup(ctx context.Context, groupID, eventID int64) (*Event, error) {
	e, err := s.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !e.BelongsTo(groupID) {
		return nil, ErrEventNotFound
	}
	return e, nil
}

// Alternatives lists the other courses of the same kind that currently
// accept applications. They are the choices for priority 2 and 3.
func (s *Service) Alternatives(ctx context.Context, e *Event) ([]*Event, error) {
	if !e.IsCourse() || e.KindID == nil {
		return nil, nil
	}

	courses, err := s.repo.ListApplicationPossibleCourses(ctx, *e.KindID, s.now())
	if err != nil {
		return nil, err
	}

	out := make([]*Event, 0, len(courses))
	for _, c := range courses {
		if c.ID != e.ID {
			out = append(out, c)
		}
	}
	return out, nil
}
