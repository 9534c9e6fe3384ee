package participation

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/fkhayef/membership/internal/database"
	"github.com/fkhayef/membership/internal/event"
	"github.com/fkhayef/membership/internal/person"
)

// Repository handles participation data persistence
type Repository struct {
	db     database.DBTX
	conn   *sql.DB
	people *person.Repository
}

// NewRepository creates a new participation repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db, conn: db, people: person.NewRepository(db)}
}

// InTx runs fn with a repository bound to a transaction. Nested calls reuse
// the surrounding transaction.
func (r *Repository) InTx(ctx context.Context, fn func(Store) error) error {
	if r.conn == nil {
		return fn(r)
	}
	return database.WithTx(ctx, r.conn, func(tx *sql.Tx) error {
		return fn(&Repository{db: tx, people: person.NewRepository(tx)})
	})
}

const participationColumns = `
	p.id, p.event_id, p.person_id, p.active, p.additional_information,
	p.application_id, p.created_at,
	a.id, a.priority_1_id, a.priority_2_id, a.priority_3_id,
	a.waiting_list, a.approved, a.rejected
`

const participationFrom = `
	FROM event_participations p
	LEFT JOIN event_applications a ON a.id = p.application_id
`

func scanParticipation(row interface{ Scan(...any) error }) (*Participation, error) {
	p := &Participation{}
	var (
		appID                           sql.NullInt64
		prio1, prio2, prio3             sql.NullInt64
		waitingList, approved, rejected sql.NullBool
	)
	err := row.Scan(
		&p.ID,
		&p.EventID,
		&p.PersonID,
		&p.Active,
		&p.AdditionalInformation,
		&p.ApplicationID,
		&p.CreatedAt,
		&appID,
		&prio1,
		&prio2,
		&prio3,
		&waitingList,
		&approved,
		&rejected,
	)
	if err != nil {
		return nil, err
	}

	if appID.Valid {
		p.Application = &Application{
			ID:          appID.Int64,
			Priority1ID: nullInt(prio1),
			Priority2ID: nullInt(prio2),
			Priority3ID: nullInt(prio3),
			WaitingList: waitingList.Bool,
			Approved:    approved.Bool,
			Rejected:    rejected.Bool,
		}
	}
	return p, nil
}

func nullInt(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	id := v.Int64
	return &id
}

// GetByID retrieves a participation with person, application and roles
func (r *Repository) GetByID(ctx context.Context, id int64) (*Participation, error) {
	query := `SELECT ` + participationColumns + participationFrom + ` WHERE p.id = $1`

	p, err := scanParticipation(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get participation: %w", err)
	}

	if err := r.hydrate(ctx, []*Participation{p}); err != nil {
		return nil, err
	}
	return p, nil
}

// ListForEvent retrieves the active participations of an event
func (r *Repository) ListForEvent(ctx context.Context, eventID int64) ([]*Participation, error) {
	query := `SELECT ` + participationColumns + participationFrom + `
		WHERE p.event_id = $1 AND p.active
		ORDER BY p.id
	`
	return r.list(ctx, query, eventID)
}

// ListApplicationCandidates retrieves every participation that may show up
// in the application market of an event: its own participations and all
// applications choosing it or waiting for a place
func (r *Repository) ListApplicationCandidates(ctx context.Context, eventID int64) ([]*Participation, error) {
	query := `SELECT ` + participationColumns + participationFrom + `
		WHERE p.event_id = $1
		   OR a.priority_1_id = $1
		   OR a.priority_2_id = $1
		   OR a.priority_3_id = $1
		   OR a.waiting_list
		ORDER BY p.id
	`
	return r.list(ctx, query, eventID)
}

func (r *Repository) list(ctx context.Context, query string, args ...any) ([]*Participation, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list participations: %w", err)
	}
	defer rows.Close()

	var ps []*Participation
	for rows.Next() {
		p, err := scanParticipation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan participation: %w", err)
		}
		ps = append(ps, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate participations: %w", err)
	}

	if err := r.hydrate(ctx, ps); err != nil {
		return nil, err
	}
	return ps, nil
}

// hydrate loads roles and people of the given participations
func (r *Repository) hydrate(ctx context.Context, ps []*Participation) error {
	if len(ps) == 0 {
		return nil
	}

	ids := make([]int64, len(ps))
	personIDs := make([]int64, len(ps))
	byID := make(map[int64]*Participation, len(ps))
	for i, p := range ps {
		ids[i] = p.ID
		personIDs[i] = p.PersonID
		byID[p.ID] = p
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, participation_id, type, label
		FROM event_roles
		WHERE participation_id = ANY($1)
		ORDER BY id
	`, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("failed to load roles: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		role := &Role{}
		if err := rows.Scan(&role.ID, &role.ParticipationID, &role.Type, &role.Label); err != nil {
			return fmt.Errorf("failed to scan role: %w", err)
		}
		if p := byID[role.ParticipationID]; p != nil {
			p.Roles = append(p.Roles, role)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate roles: %w", err)
	}

	people, err := r.people.GetByIDs(ctx, personIDs)
	if err != nil {
		return err
	}
	for _, p := range ps {
		p.Person = people[p.PersonID]
	}
	return nil
}

// Create inserts a participation and its application if it has one
func (r *Repository) Create(ctx context.Context, p *Participation) error {
	if a := p.Application; a != nil {
		err := r.db.QueryRowContext(ctx, `
			INSERT INTO event_applications (priority_1_id, priority_2_id, priority_3_id, waiting_list)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		`, a.Priority1ID, a.Priority2ID, a.Priority3ID, a.WaitingList).Scan(&a.ID)
		if err != nil {
			return fmt.Errorf("failed to create application: %w", err)
		}
		p.ApplicationID = &a.ID
	}

	query := `
		INSERT INTO event_participations (event_id, person_id, application_id, active, additional_information)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		p.EventID,
		p.PersonID,
		p.ApplicationID,
		p.Active,
		p.AdditionalInformation,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create participation: %w", err)
	}
	return nil
}

// CreateRole inserts an event role
func (r *Repository) CreateRole(ctx context.Context, role *Role) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO event_roles (participation_id, type, label)
		VALUES ($1, $2, $3)
		RETURNING id
	`, role.ParticipationID, role.Type, role.Label).Scan(&role.ID)
	if err != nil {
		return fmt.Errorf("failed to create role: %w", err)
	}
	return nil
}

// DeleteRoles removes the roles of type t and returns how many were removed
func (r *Repository) DeleteRoles(ctx context.Context, participationID int64, t event.RoleType) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM event_roles WHERE participation_id = $1 AND type = $2`,
		participationID, t,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to delete roles: %w", err)
	}
	return res.RowsAffected()
}

// SetActive updates the active flag of a participation
func (r *Repository) SetActive(ctx context.Context, participationID int64, active bool) error {
	return r.exec(ctx, "failed to update participation",
		`UPDATE event_participations SET active = $2 WHERE id = $1`, participationID, active)
}

// SetWaitingList updates the waiting list flag of an application
func (r *Repository) SetWaitingList(ctx context.Context, applicationID int64, waitingList bool) error {
	return r.exec(ctx, "failed to update application",
		`UPDATE event_applications SET waiting_list = $2 WHERE id = $1`, applicationID, waitingList)
}

// MoveToEvent reassigns a participation to another event
func (r *Repository) MoveToEvent(ctx context.Context, participationID, eventID int64) error {
	return r.exec(ctx, "failed to move participation",
		`UPDATE event_participations SET event_id = $2 WHERE id = $1`, participationID, eventID)
}

// Delete removes a participation with its roles and application
func (r *Repository) Delete(ctx context.Context, id int64) error {
	var appID sql.NullInt64
	err := r.db.QueryRowContext(ctx,
		`DELETE FROM event_participations WHERE id = $1 RETURNING application_id`, id,
	).Scan(&appID)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrParticipationNotFound
		}
		return fmt.Errorf("failed to delete participation: %w", err)
	}

	if appID.Valid {
		return r.exec(ctx, "failed to delete application",
			`DELETE FROM event_applications WHERE id = $1`, appID.Int64)
	}
	return nil
}

func (r *Repository) exec(ctx context.Context, msg, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", msg, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", msg, err)
	}
	if n == 0 {
		return ErrParticipationNotFound
	}
	return nil
}

// EventRolesForPerson returns the event role types of a person keyed by
// event id
func (r *Repository) EventRolesForPerson(ctx context.Context, personID int64) (map[int64][]event.RoleType, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT p.event_id, r.type
		FROM event_roles r
		JOIN event_participations p ON p.id = r.participation_id
		WHERE p.person_id = $1
		ORDER BY p.event_id, r.id
	`, personID)
	if err != nil {
		return nil, fmt.Errorf("failed to load event roles: %w", err)
	}
	defer rows.Close()

	out := make(map[int64][]event.RoleType)
	for rows.Next() {
		var (
			eventID int64
			t       event.RoleType
		)
		if err := rows.Scan(&eventID, &t); err != nil {
			return nil, fmt.Errorf("failed to scan event role: %w", err)
		}
		out[eventID] = append(out[eventID], t)
	}
	return out, rows.Err()
}
