package addrequest

import (
	"context"

	"github.com/fkhayef/membership/internal/apperr"
	"github.com/fkhayef/membership/internal/authz"
	"github.com/fkhayef/membership/internal/event"
	"github.com/fkhayef/membership/internal/group"
	"github.com/fkhayef/membership/internal/mailer"
	"github.com/fkhayef/membership/internal/mailinglist"
)

// GroupLookup loads groups, their placement and their people
type GroupLookup interface {
	GetByID(ctx context.Context, id int64) (*group.Group, error)
	Placement(ctx context.Context, groupID int64) (*group.Placement, error)
	RolesForPerson(ctx context.Context, personID int64) ([]*group.Role, error)
	Responsibles(ctx context.Context, layerGroupID int64) ([]int64, error)
}

// EventLookup loads events
type EventLookup interface {
	GetByID(ctx context.Context, id int64) (*event.Event, error)
}

// ListLookup loads mailing lists
type ListLookup interface {
	GetByID(ctx context.Context, id int64) (*mailinglist.MailingList, error)
}

// BodyResolver turns a body reference into something mails and permission
// checks can use
type BodyResolver struct {
	groups GroupLookup
	events EventLookup
	lists  ListLookup
}

// NewBodyResolver creates a body resolver
func NewBodyResolver(groups GroupLookup, events EventLookup, lists ListLookup) *BodyResolver {
	return &BodyResolver{groups: groups, events: events, lists: lists}
}

// Resolve loads the body and the target its write permission is checked on
func (r *BodyResolver) Resolve(ctx context.Context, kind mailer.BodyKind, id int64) (mailer.Body, authz.Target, error) {
	switch kind {
	case mailer.BodyGroup:
		g, err := r.groups.GetByID(ctx, id)
		if err != nil {
			return mailer.Body{}, authz.Target{}, err
		}
		return mailer.Body{Kind: kind, ID: g.ID, GroupID: g.ID, Name: g.DisplayNameWithType()}, authz.GroupTarget(g.ID), nil

	case mailer.BodyEvent:
		ev, err := r.events.GetByID(ctx, id)
		if err != nil {
			return mailer.Body{}, authz.Target{}, err
		}
		if len(ev.GroupIDs) == 0 {
			return mailer.Body{}, authz.Target{}, event.ErrEventNotFound
		}
		return mailer.Body{Kind: kind, ID: ev.ID, GroupID: ev.GroupIDs[0], Name: ev.Name}, authz.EventTarget(ev), nil

	case mailer.BodyMailingList:
		l, err := r.lists.GetByID(ctx, id)
		if err != nil {
			return mailer.Body{}, authz.Target{}, err
		}
		return mailer.Body{Kind: kind, ID: l.ID, GroupID: l.GroupID, Name: l.Name}, authz.GroupTarget(l.GroupID), nil
	}

	return mailer.Body{}, authz.Target{}, apperr.Validation(map[string]string{
		"body_type": "must be one of Group, Event, MailingList",
	})
}
