package job

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// PostgresQueue stores jobs in the jobs table
type PostgresQueue struct {
	db          *sql.DB
	lockTimeout time.Duration
	maxAttempts int
	now         func() time.Time
}

// NewPostgresQueue creates a queue. Locks older than lockTimeout are
// considered abandoned and the job is handed out again.
func NewPostgresQueue(db *sql.DB, lockTimeout time.Duration, maxAttempts int) *PostgresQueue {
	return &PostgresQueue{
		db:          db,
		lockTimeout: lockTimeout,
		maxAttempts: maxAttempts,
		now:         time.Now,
	}
}

// Enqueue stores a job ready to run now
func (q *PostgresQueue) Enqueue(ctx context.Context, kind string, payload any) (uuid.UUID, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to encode %s payload: %w", kind, err)
	}

	id := uuid.New()
	_, err = q.db.ExecContext(ctx, `
		INSERT INTO jobs (id, kind, payload, run_at)
		VALUES ($1, $2, $3, $4)
	`, id, kind, body, q.now())
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to enqueue %s: %w", kind, err)
	}
	return id, nil
}

// Reserve locks the next ready job. Concurrent workers skip each other's
// rows.
func (q *PostgresQueue) Reserve(ctx context.Context) (*Job, error) {
	now := q.now()
	query := `
		UPDATE jobs
		SET locked_at = $1, attempts = attempts + 1
		WHERE id = (
			SELECT id FROM jobs
			WHERE failed_at IS NULL
			  AND run_at <= $1
			  AND (locked_at IS NULL OR locked_at < $2)
			ORDER BY run_at, created_at
			LIMIT 1
			FOR UPDATE SKIP LOCKED
		)
		RETURNING id, kind, payload, attempts, run_at, last_error, created_at
	`

	j := &Job{}
	var payload []byte
	err := q.db.QueryRowContext(ctx, query, now, now.Add(-q.lockTimeout)).Scan(
		&j.ID,
		&j.Kind,
		&payload,
		&j.Attempts,
		&j.RunAt,
		&j.LastError,
		&j.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrEmpty
		}
		return nil, fmt.Errorf("failed to reserve job: %w", err)
	}
	j.Payload = payload
	return j, nil
}

// Complete removes a finished job
func (q *PostgresQueue) Complete(ctx context.Context, j *Job) error {
	if _, err := q.db.ExecContext(ctx, `DELETE FROM jobs WHERE id = $1`, j.ID); err != nil {
		return fmt.Errorf("failed to complete job %s: %w", j.ID, err)
	}
	return nil
}

// Fail records cause and schedules a retry, or marks the job as failed for
// good once it used up its attempts
func (q *PostgresQueue) Fail(ctx context.Context, j *Job, cause error) error {
	msg := cause.Error()
	now := q.now()

	var err error
	if j.Attempts >= q.maxAttempts {
		_, err = q.db.ExecContext(ctx, `
			UPDATE jobs SET locked_at = NULL, last_error = $2, failed_at = $3
			WHERE id = $1
		`, j.ID, msg, now)
	} else {
		_, err = q.db.ExecContext(ctx, `
			UPDATE jobs SET locked_at = NULL, last_error = $2, run_at = $3
			WHERE id = $1
		`, j.ID, msg, now.Add(Backoff(j.Attempts)))
	}
	if err != nil {
		return fmt.Errorf("failed to record failure of job %s: %w", j.ID, err)
	}
	return nil
}
