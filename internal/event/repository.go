package event

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/fkhayef/membership/internal/database"
)

// Repository handles event data persistence
type Repository struct {
	db database.DBTX
}

// NewRepository creates a new event repository
func NewRepository(db database.DBTX) *Repository {
	return &Repository{db: db}
}

const eventColumns = `
	e.id, e.name, e.kind, e.kind_id, e.participant_role_type,
	e.supports_applications, e.priorization, e.participation_role_labels,
	e.application_opening_at, e.application_closing_at, e.starts_at,
	e.minimum_age, e.created_at,
	COALESCE(ARRAY(SELECT eg.group_id FROM events_groups eg WHERE eg.event_id = e.id ORDER BY eg.group_id), '{}')
`

func scanEvent(row interface{ Scan(...any) error }) (*Event, error) {
	e := &Event{}
	var groupIDs pq.Int64Array
	err := row.Scan(
		&e.ID,
		&e.Name,
		&e.Kind,
		&e.KindID,
		&e.ParticipantRoleType,
		&e.SupportsApplications,
		&e.Priorization,
		&e.ParticipationRoleLabels,
		&e.ApplicationOpeningAt,
		&e.ApplicationClosingAt,
		&e.StartsAt,
		&e.MinimumAge,
		&e.CreatedAt,
		&groupIDs,
	)
	if err != nil {
		return nil, err
	}
	e.GroupIDs = groupIDs
	return e, nil
}

// GetByID retrieves an event with its group ids
func (r *Repository) GetByID(ctx context.Context, id int64) (*Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events e WHERE e.id = $1`

	e, err := scanEvent(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return e, nil
}

// ListApplicationPossibleCourses lists courses of the given kind accepting
// applications at now, ordered by start date
func (r *Repository) ListApplicationPossibleCourses(ctx context.Context, kindID int64, now time.Time) ([]*Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events e
		WHERE e.kind = $1
		  AND e.kind_id = $2
		  AND e.supports_applications
		  AND (e.application_opening_at IS NULL OR e.application_opening_at <= $3::date)
		  AND (e.application_closing_at IS NULL OR e.application_closing_at >= $3::date)
		ORDER BY e.starts_at NULLS LAST, e.name
	`

	rows, err := r.db.QueryContext(ctx, query, KindCourse, kindID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate events: %w", err)
	}
	return events, nil
}
