package mailinglist

import (
	"context"
	"log"

	"github.com/fkhayef/membership/internal/job"
	"github.com/fkhayef/membership/internal/mailer"
)

// Synchronizer pushes subscribers to the remote list and reports back to
// the person who asked for it
type Synchronizer struct {
	store     Store
	people    PersonLookup
	remote    Remote
	composer  *mailer.Composer
	transport mailer.Transport
}

// NewSynchronizer creates the handler for synchronization jobs
func NewSynchronizer(store Store, people PersonLookup, remote Remote, composer *mailer.Composer, transport mailer.Transport) *Synchronizer {
	return &Synchronizer{store: store, people: people, remote: remote, composer: composer, transport: transport}
}

// Handle runs one synchronization. Lists removed in the meantime or not
// connected to Mailchimp are skipped.
func (s *Synchronizer) Handle(ctx context.Context, payload job.MailingListSync) error {
	l, err := s.store.GetByID(ctx, payload.MailingListID)
	if err != nil {
		return err
	}
	if l == nil {
		log.Printf("sync: mailing list %d is gone", payload.MailingListID)
		return nil
	}
	if l.RemoteID() == "" {
		log.Printf("sync: mailing list %d has no mailchimp list", l.ID)
		return nil
	}

	emails, err := s.store.SubscriberEmails(ctx, l.ID)
	if err != nil {
		return err
	}

	result, err := s.remote.Subscribe(ctx, l.RemoteID(), emails)
	if err != nil {
		return err
	}
	log.Printf("sync: mailing list %d pushed %d subscribers (%d created, %d updated, %d errors)",
		l.ID, len(emails), result.Created, result.Updated, len(result.Errors))

	return s.report(ctx, payload.RequestedByID, l, len(emails))
}

// report mails the summary to personID. Failures are only logged.
func (s *Synchronizer) report(ctx context.Context, personID int64, l *MailingList, subscribers int) error {
	if personID == 0 {
		return nil
	}
	p, err := s.people.GetByID(ctx, personID)
	if err != nil {
		log.Printf("sync: report for list %d: %v", l.ID, err)
		return nil
	}
	if p.EmailAddress() == "" {
		return nil
	}

	msg, err := s.composer.SynchronizationReport(ctx, p, l.ID, l.Name, subscribers)
	if err == nil {
		err = s.transport.Send(ctx, msg)
	}
	if err != nil {
		log.Printf("sync: report for list %d: %v", l.ID, err)
	}
	return nil
}
