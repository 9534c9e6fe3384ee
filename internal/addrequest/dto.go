package addrequest

import "github.com/fkhayef/membership/internal/mailer"

// CreateRequest is the body of POST /person_add_requests
type CreateRequest struct {
	PersonID int64   `json:"person_id" validate:"required,gt=0"`
	BodyType string  `json:"body_type" validate:"required,oneof=Group Event MailingList"`
	BodyID   int64   `json:"body_id" validate:"required,gt=0"`
	RoleType *string `json:"role_type,omitempty" validate:"omitempty,max=255"`
}

// RequestResponse represents a stored request
type RequestResponse struct {
	ID          int64  `json:"id"`
	PersonID    int64  `json:"person_id"`
	RequesterID int64  `json:"requester_id"`
	BodyType    string `json:"body_type"`
	BodyID      int64  `json:"body_id"`
	BodyName    string `json:"body_name"`
	RoleType    string `json:"role_type,omitempty"`
	CreatedAt   string `json:"created_at"`
}

// ToResponse converts a request with its resolved body
func (r *Request) ToResponse(body mailer.Body) *RequestResponse {
	resp := &RequestResponse{
		ID:          r.ID,
		PersonID:    r.PersonID,
		RequesterID: r.RequesterID,
		BodyType:    string(r.BodyType),
		BodyID:      r.BodyID,
		BodyName:    body.DisplayName(),
		CreatedAt:   r.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if r.RoleType != nil {
		resp.RoleType = *r.RoleType
	}
	return resp
}
