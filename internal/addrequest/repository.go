package addrequest

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fkhayef/membership/internal/database"
)

// Repository handles add request data persistence
type Repository struct {
	db database.DBTX
}

// NewRepository creates a new add request repository
func NewRepository(db database.DBTX) *Repository {
	return &Repository{db: db}
}

// Create stores a request. A second request for the same person and body
// replaces the requester and role type of the first.
func (r *Repository) Create(ctx context.Context, req *Request) error {
	query := `
		INSERT INTO person_add_requests (person_id, requester_id, body_type, body_id, role_type)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (person_id, body_type, body_id)
		DO UPDATE SET requester_id = EXCLUDED.requester_id, role_type = EXCLUDED.role_type
		RETURNING id, created_at
	`

	err := r.db.QueryRowContext(ctx, query,
		req.PersonID,
		req.RequesterID,
		req.BodyType,
		req.BodyID,
		req.RoleType,
	).Scan(&req.ID, &req.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create add request: %w", err)
	}

	return nil
}

// GetByID retrieves a request by its ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*Request, error) {
	query := `
		SELECT id, person_id, requester_id, body_type, body_id, role_type, created_at
		FROM person_add_requests
		WHERE id = $1
	`

	req := &Request{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&req.ID,
		&req.PersonID,
		&req.RequesterID,
		&req.BodyType,
		&req.BodyID,
		&req.RoleType,
		&req.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get add request: %w", err)
	}

	return req, nil
}
