package participation

import (
	"context"
	"log"

	"github.com/fkhayef/membership/internal/event"
	"github.com/fkhayef/membership/internal/job"
	"github.com/fkhayef/membership/internal/mailer"
)

// EventGetter loads an event by id
type EventGetter interface {
	GetByID(ctx context.Context, id int64) (*event.Event, error)
}

// ConfirmationSender mails the registration confirmation to the participant
type ConfirmationSender struct {
	store     Store
	events    EventGetter
	composer  *mailer.Composer
	transport mailer.Transport
}

// NewConfirmationSender creates the handler for confirmation jobs
func NewConfirmationSender(store Store, events EventGetter, composer *mailer.Composer, transport mailer.Transport) *ConfirmationSender {
	return &ConfirmationSender{store: store, events: events, composer: composer, transport: transport}
}

// Handle sends the confirmation. Participations deleted in the meantime and
// people without email are skipped.
func (c *ConfirmationSender) Handle(ctx context.Context, payload job.ParticipationConfirmation) error {
	p, err := c.store.GetByID(ctx, payload.ParticipationID)
	if err != nil {
		return err
	}
	if p == nil {
		log.Printf("confirmation: participation %d is gone", payload.ParticipationID)
		return nil
	}
	if p.Person == nil || p.Person.EmailAddress() == "" {
		log.Printf("confirmation: person of participation %d has no email", p.ID)
		return nil
	}

	ev, err := c.events.GetByID(ctx, p.EventID)
	if err != nil {
		return err
	}

	var groupID int64
	if len(ev.GroupIDs) > 0 {
		groupID = ev.GroupIDs[0]
	}

	msg, err := c.composer.ParticipationConfirmation(ctx, p.Person, ev, groupID, p.ID)
	if err != nil {
		return err
	}
	return c.transport.Send(ctx, msg)
}
