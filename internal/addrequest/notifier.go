package addrequest

import (
	"context"
	"log"
	"sort"

	"github.com/fkhayef/membership/internal/job"
	"github.com/fkhayef/membership/internal/mailer"
	"github.com/fkhayef/membership/internal/person"
)

// Notifier mails add requests to the requested person or, when they have
// no email, to the responsibles of their primary layer
type Notifier struct {
	store     Store
	bodies    *BodyResolver
	groups    GroupLookup
	people    PersonLookup
	composer  *mailer.Composer
	transport mailer.Transport
}

// NewNotifier creates the handler for add request notification jobs
func NewNotifier(store Store, bodies *BodyResolver, groups GroupLookup, people PersonLookup, composer *mailer.Composer, transport mailer.Transport) *Notifier {
	return &Notifier{store: store, bodies: bodies, groups: groups, people: people, composer: composer, transport: transport}
}

// Handle sends the notification of one request
func (n *Notifier) Handle(ctx context.Context, payload job.AddRequestNotification) error {
	req, err := n.store.GetByID(ctx, payload.RequestID)
	if err != nil {
		return err
	}
	if req == nil {
		log.Printf("add request: request %d is gone", payload.RequestID)
		return nil
	}

	mail, err := n.build(ctx, req)
	if err != nil {
		return err
	}

	var msg *mailer.Message
	if mail.Person.EmailAddress() != "" {
		msg, err = n.composer.AskPersonToAdd(ctx, mail)
	} else {
		msg, err = n.askResponsibles(ctx, mail)
	}
	if err != nil {
		return err
	}
	if msg == nil || len(msg.To) == 0 {
		log.Printf("add request: nobody to notify for request %d", req.ID)
		return nil
	}
	return n.transport.Send(ctx, msg)
}

func (n *Notifier) build(ctx context.Context, req *Request) (mailer.AddRequest, error) {
	p, err := n.people.GetByID(ctx, req.PersonID)
	if err != nil {
		return mailer.AddRequest{}, err
	}
	requester, err := n.people.GetByID(ctx, req.RequesterID)
	if err != nil {
		return mailer.AddRequest{}, err
	}
	roles, err := n.groups.RolesForPerson(ctx, requester.ID)
	if err != nil {
		return mailer.AddRequest{}, err
	}

	body, _, err := n.bodies.Resolve(ctx, req.BodyType, req.BodyID)
	if err != nil {
		return mailer.AddRequest{}, err
	}
	placement, err := n.groups.Placement(ctx, body.GroupID)
	if err != nil {
		return mailer.AddRequest{}, err
	}

	return mailer.AddRequest{
		Person:         p,
		Requester:      requester,
		RequesterRoles: roles,
		Body:           body,
		BodyPlacement:  *placement,
	}, nil
}

func (n *Notifier) askResponsibles(ctx context.Context, mail mailer.AddRequest) (*mailer.Message, error) {
	if mail.Person.PrimaryGroupID == nil {
		return nil, nil
	}
	primary, err := n.groups.Placement(ctx, *mail.Person.PrimaryGroupID)
	if err != nil {
		return nil, err
	}

	ids, err := n.groups.Responsibles(ctx, primary.LayerGroupID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}
	byID, err := n.people.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	responsibles := make([]*person.Person, 0, len(byID))
	for _, p := range byID {
		responsibles = append(responsibles, p)
	}
	sort.Slice(responsibles, func(i, j int) bool { return person.LessByName(responsibles[i], responsibles[j]) })

	return n.composer.AskResponsibles(ctx, mail, responsibles, primary.LayerGroupID)
}
