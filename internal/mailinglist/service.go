package mailinglist

import (
	"context"
	"fmt"
	"log"

	"github.com/fkhayef/membership/internal/apperr"
	"github.com/fkhayef/membership/internal/authz"
	"github.com/fkhayef/membership/internal/job"
	"github.com/fkhayef/membership/internal/person"
)

// Common errors
var (
	ErrMailingListNotFound = apperr.NotFound("mailing list not found")
)

// Store is the persistence the mailing list features need
type Store interface {
	GetByID(ctx context.Context, id int64) (*MailingList, error)
	SubscriberEmails(ctx context.Context, listID int64) ([]string, error)
}

// PersonLookup loads people
type PersonLookup interface {
	GetByID(ctx context.Context, id int64) (*person.Person, error)
}

// Service handles mailing list business logic
type Service struct {
	store  Store
	people PersonLookup
	authz  authz.Authorizer
	jobs   job.Enqueuer
}

// NewService creates a new mailing list service
func NewService(store Store, people PersonLookup, az authz.Authorizer, jobs job.Enqueuer) *Service {
	return &Service{store: store, people: people, authz: az, jobs: jobs}
}

// SyncStarted describes an enqueued synchronization
type SyncStarted struct {
	List     *MailingList
	Message  string
	Location string
}

// GetByID retrieves a mailing list by its ID
func (s *Service) GetByID(ctx context.Context, id int64) (*MailingList, error) {
	l, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, ErrMailingListNotFound
	}
	return l, nil
}

// Synchronize enqueues the push of the list's subscribers to Mailchimp.
// The actor needs update permission on the list's group.
func (s *Service) Synchronize(ctx context.Context, actorID, listID int64) (*SyncStarted, error) {
	l, err := s.GetByID(ctx, listID)
	if err != nil {
		return nil, err
	}
	if err := s.authz.Authorize(ctx, actorID, authz.ActionUpdate, authz.GroupTarget(l.GroupID)); err != nil {
		return nil, err
	}

	actor, err := s.people.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}

	id, err := s.jobs.Enqueue(ctx, job.KindMailingListSync, job.MailingListSync{MailingListID: l.ID, RequestedByID: actor.ID})
	if err != nil {
		return nil, fmt.Errorf("failed to enqueue synchronization: %w", err)
	}
	log.Printf("enqueued synchronization job %s for mailing list %d", id, l.ID)

	msg := "The synchronization with Mailchimp was started."
	if email := actor.EmailAddress(); email != "" {
		msg += " A report will be sent to " + email + " when it has finished."
	}
	return &SyncStarted{
		List:     l,
		Message:  msg,
		Location: fmt.Sprintf("/mailing_lists/%d/subscriptions", l.ID),
	}, nil
}
