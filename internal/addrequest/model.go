package addrequest

import (
	"time"

	"github.com/fkhayef/membership/internal/mailer"
)

// Request asks for a person to be added to a group, event or mailing list.
// It stays open until the person or one of their responsibles decides.
type Request struct {
	ID          int64           `json:"id"`
	PersonID    int64           `json:"person_id"`
	RequesterID int64           `json:"requester_id"`
	BodyType    mailer.BodyKind `json:"body_type"`
	BodyID      int64           `json:"body_id"`
	RoleType    *string         `json:"role_type,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}
