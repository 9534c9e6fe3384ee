// Package job is the outbound task queue. Jobs are stored in the jobs table,
// reserved by workers and retried with backoff until they succeed or run out
// of attempts.
package job

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Job kinds
const (
	KindParticipationConfirmation = "participation_confirmation"
	KindMailingListSync           = "mailing_list_sync"
	KindAddRequestNotification    = "add_request_notification"
)

// ParticipationConfirmation asks for the confirmation mail of a participation
type ParticipationConfirmation struct {
	ParticipationID int64 `json:"participation_id"`
}

// MailingListSync asks to push the subscribers of a list to the remote list
type MailingListSync struct {
	MailingListID int64 `json:"mailing_list_id"`

	// RequestedByID receives the report, zero for none
	RequestedByID int64 `json:"requested_by_id,omitempty"`
}

// AddRequestNotification asks to notify about a person add request
type AddRequestNotification struct {
	RequestID int64 `json:"request_id"`
}

// Job is a queued task
type Job struct {
	ID        uuid.UUID
	Kind      string
	Payload   json.RawMessage
	Attempts  int
	RunAt     time.Time
	LastError *string
	CreatedAt time.Time
}

// ErrEmpty is returned by Reserve when no job is ready
var ErrEmpty = errors.New("job: no job ready")

// Enqueuer submits jobs
type Enqueuer interface {
	Enqueue(ctx context.Context, kind string, payload any) (uuid.UUID, error)
}

// Queue is the full queue interface used by workers
type Queue interface {
	Enqueuer
	Reserve(ctx context.Context) (*Job, error)
	Complete(ctx context.Context, j *Job) error
	Fail(ctx context.Context, j *Job, cause error) error
}

// Backoff is the delay before the next attempt after attempts failures
func Backoff(attempts int) time.Duration {
	if attempts < 1 {
		attempts = 1
	}
	return time.Duration(attempts*attempts) * 10 * time.Second
}
