package addrequest

import (
	"context"
	"log"

	"github.com/fkhayef/membership/internal/apperr"
	"github.com/fkhayef/membership/internal/authz"
	"github.com/fkhayef/membership/internal/job"
	"github.com/fkhayef/membership/internal/mailer"
	"github.com/fkhayef/membership/internal/person"
)

// Common errors
var (
	ErrRequestNotFound = apperr.NotFound("add request not found")
)

// Store is the persistence the add request features need
type Store interface {
	Create(ctx context.Context, req *Request) error
	GetByID(ctx context.Context, id int64) (*Request, error)
}

// PersonLookup loads people
type PersonLookup interface {
	GetByID(ctx context.Context, id int64) (*person.Person, error)
	GetByIDs(ctx context.Context, ids []int64) (map[int64]*person.Person, error)
}

// Service handles add requests
type Service struct {
	store  Store
	bodies *BodyResolver
	people PersonLookup
	authz  authz.Authorizer
	jobs   job.Enqueuer
}

// NewService creates a new add request service
func NewService(store Store, bodies *BodyResolver, people PersonLookup, az authz.Authorizer, jobs job.Enqueuer) *Service {
	return &Service{store: store, bodies: bodies, people: people, authz: az, jobs: jobs}
}

// Create stores a request to add a person to a body and enqueues the
// notification. The requester needs write permission on the body.
func (s *Service) Create(ctx context.Context, actorID int64, in CreateRequest) (*Request, mailer.Body, error) {
	if err := apperr.Validate(in); err != nil {
		return nil, mailer.Body{}, err
	}

	body, target, err := s.bodies.Resolve(ctx, mailer.BodyKind(in.BodyType), in.BodyID)
	if err != nil {
		return nil, mailer.Body{}, err
	}
	if err := s.authz.Authorize(ctx, actorID, authz.ActionUpdate, target); err != nil {
		return nil, mailer.Body{}, err
	}

	if _, err := s.people.GetByID(ctx, in.PersonID); err != nil {
		return nil, mailer.Body{}, err
	}
	if in.PersonID == actorID {
		return nil, mailer.Body{}, apperr.Validation(map[string]string{
			"person_id": "cannot request to add yourself",
		})
	}

	req := &Request{
		PersonID:    in.PersonID,
		RequesterID: actorID,
		BodyType:    body.Kind,
		BodyID:      body.ID,
		RoleType:    in.RoleType,
	}
	if err := s.store.Create(ctx, req); err != nil {
		return nil, mailer.Body{}, err
	}

	id, err := s.jobs.Enqueue(ctx, job.KindAddRequestNotification, job.AddRequestNotification{RequestID: req.ID})
	if err != nil {
		log.Printf("failed to enqueue notification for add request %d: %v", req.ID, err)
	} else {
		log.Printf("enqueued notification job %s for add request %d", id, req.ID)
	}

	return req, body, nil
}
