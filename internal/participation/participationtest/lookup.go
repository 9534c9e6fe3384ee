package participationtest

import (
	"context"
	"sort"

	"github.com/fkhayef/membership/internal/event"
	"github.com/fkhayef/membership/internal/person"
)

// Events is an in-memory participation.EventLookup
type Events map[int64]*event.Event

// GetInGroup returns the event when it belongs to the group
func (e Events) GetInGroup(_ context.Context, groupID, eventID int64) (*event.Event, error) {
	ev, ok := e[eventID]
	if !ok || !ev.BelongsTo(groupID) {
		return nil, event.ErrEventNotFound
	}
	return ev, nil
}

// GetByID returns the event
func (e Events) GetByID(_ context.Context, id int64) (*event.Event, error) {
	ev, ok := e[id]
	if !ok {
		return nil, event.ErrEventNotFound
	}
	return ev, nil
}

// Alternatives returns the other courses
func (e Events) Alternatives(_ context.Context, ev *event.Event) ([]*event.Event, error) {
	var out []*event.Event
	for id, other := range e {
		if id != ev.ID && other.IsCourse() {
			out = append(out, other)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// People is an in-memory participation.PersonLookup
type People map[int64]*person.Person

// GetByID returns the person
func (p People) GetByID(_ context.Context, id int64) (*person.Person, error) {
	found, ok := p[id]
	if !ok {
		return nil, person.ErrPersonNotFound
	}
	return found, nil
}
