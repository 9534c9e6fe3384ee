package market

import (
	"context"

	"github.com/fkhayef/membership/internal/authz"
	"github.com/fkhayef/membership/internal/event"
	"github.com/fkhayef/membership/internal/participation"
)

// Market holds both views of an event
type Market struct {
	Event        *event.Event
	Participants []*participation.Participation
	Applications []*participation.Participation
}

// Service handles the application market
type Service struct {
	store  participation.Store
	events participation.EventLookup
	authz  authz.Authorizer
}

// NewService creates a new market service
func NewService(store participation.Store, events participation.EventLookup, az authz.Authorizer) *Service {
	return &Service{store: store, events: events, authz: az}
}

func (s *Service) event(ctx context.Context, actorID, groupID, eventID int64) (*event.Event, error) {
	ev, err := s.events.GetInGroup(ctx, groupID, eventID)
	if err != nil {
		return nil, err
	}
	if err := s.authz.Authorize(ctx, actorID, authz.ActionApplicationMarket, authz.EventTarget(ev)); err != nil {
		return nil, err
	}
	return ev, nil
}

func (s *Service) participation(ctx context.Context, store participation.Store, id int64) (*participation.Participation, error) {
	p, err := store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, participation.ErrParticipationNotFound
	}
	return p, nil
}

// Index loads the participants and the pending applications of an event
func (s *Service) Index(ctx context.Context, actorID, groupID, eventID int64) (*Market, error) {
	ev, err := s.event(ctx, actorID, groupID, eventID)
	if err != nil {
		return nil, err
	}

	candidates, err := s.store.ListApplicationCandidates(ctx, ev.ID)
	if err != nil {
		return nil, err
	}

	return &Market{
		Event:        ev,
		Participants: Participants(ev, candidates),
		Applications: PendingApplications(ev, candidates),
	}, nil
}

// AddParticipant gives the participation a participant role of the event.
// A participation registered for another event is moved to this one. Each
// call creates a new role.
func (s *Service) AddParticipant(ctx context.Context, actorID, groupID, eventID, participationID int64) (*participation.Participation, *event.Event, error) {
	ev, err := s.event(ctx, actorID, groupID, eventID)
	if err != nil {
		return nil, nil, err
	}

	var updated *participation.Participation
	err = s.store.InTx(ctx, func(tx participation.Store) error {
		p, err := s.participation(ctx, tx, participationID)
		if err != nil {
			return err
		}
		if p.EventID != ev.ID {
			if err := tx.MoveToEvent(ctx, p.ID, ev.ID); err != nil {
				return err
			}
		}
		if err := tx.CreateRole(ctx, &participation.Role{ParticipationID: p.ID, Type: ev.ParticipantType()}); err != nil {
			return err
		}
		if err := tx.SetActive(ctx, p.ID, true); err != nil {
			return err
		}
		updated, err = s.participation(ctx, tx, p.ID)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return updated, ev, nil
}

// RemoveParticipant deletes the participant roles of the event. A
// participation left without roles becomes inactive and returns to the
// event of its first priority.
func (s *Service) RemoveParticipant(ctx context.Context, actorID, groupID, eventID, participationID int64) (*participation.Participation, *event.Event, error) {
	ev, err := s.event(ctx, actorID, groupID, eventID)
	if err != nil {
		return nil, nil, err
	}

	var updated *participation.Participation
	err = s.store.InTx(ctx, func(tx participation.Store) error {
		p, err := s.participation(ctx, tx, participationID)
		if err != nil {
			return err
		}
		if _, err := tx.DeleteRoles(ctx, p.ID, ev.ParticipantType()); err != nil {
			return err
		}
		updated, err = s.participation(ctx, tx, p.ID)
		if err != nil {
			return err
		}
		if len(updated.Roles) > 0 {
			return nil
		}
		if updated.Active {
			if err := tx.SetActive(ctx, p.ID, false); err != nil {
				return err
			}
			updated.Active = false
		}
		if home := priorityOne(updated); home != 0 && home != updated.EventID {
			if err := tx.MoveToEvent(ctx, p.ID, home); err != nil {
				return err
			}
			updated.EventID = home
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return updated, ev, nil
}

// SetWaitingList sets the waiting list flag of the participation's
// application. Roles are left untouched.
func (s *Service) SetWaitingList(ctx context.Context, actorID, groupID, eventID, participationID int64, waitingList bool) (*participation.Participation, *event.Event, error) {
	ev, err := s.event(ctx, actorID, groupID, eventID)
	if err != nil {
		return nil, nil, err
	}

	p, err := s.participation(ctx, s.store, participationID)
	if err != nil {
		return nil, nil, err
	}
	if p.Application == nil {
		return nil, nil, participation.ErrApplicationNotFound
	}

	if err := s.store.SetWaitingList(ctx, p.Application.ID, waitingList); err != nil {
		return nil, nil, err
	}
	p.Application.WaitingList = waitingList
	return p, ev, nil
}

func priorityOne(p *participation.Participation) int64 {
	if p.Application == nil || p.Application.Priority1ID == nil {
		return 0
	}
	return *p.Application.Priority1ID
}
