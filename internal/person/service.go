package person

import (
	"context"

	"github.com/fkhayef/membership/internal/apperr"
)

// Common errors
var (
	ErrPersonNotFound = apperr.NotFound("person not found")
)

// Store is the persistence the person service needs
type Store interface {
	GetByID(ctx context.Context, id int64) (*Person, error)
	GetByIDs(ctx context.Context, ids []int64) (map[int64]*Person, error)
}

// Service handles person business logic
type Service struct {
	repo Store
}

// NewService creates a new person service
func NewService(repo Store) *Service {
	return &Service{repo: repo}
}

// GetByID retrieves a person by their ID
func (s *Service) GetByID(ctx context.Context, id int64) (*Person, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrPersonNotFound
	}
	return p, nil
}

// GetByIDs retrieves several people keyed by id
func (s *Service) GetByIDs(ctx context.Context, ids []int64) (map[int64]*Person, error) {
	return s.repo.GetByIDs(ctx, ids)
}
