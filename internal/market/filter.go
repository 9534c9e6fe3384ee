// Package market implements the application market of an event: the
// participants and pending applications views and the actions moving
// applications between them.
package market

import (
	"sort"

	"github.com/fkhayef/membership/internal/event"
	"github.com/fkhayef/membership/internal/participation"
	"github.com/fkhayef/membership/internal/person"
)

// Participants returns the participations of ev holding a role of its
// participant type, ordered by name
func Participants(ev *event.Event, ps []*participation.Participation) []*participation.Participation {
	participantType := ev.ParticipantType()
	return selectSorted(ps, func(p *participation.Participation) bool {
		return p.EventID == ev.ID && p.HasRoleType(participantType)
	})
}

// PendingApplications returns the undecided applications choosing ev or
// waiting on the national list, ordered by name. Participations already
// holding a participant role are left out.
func PendingApplications(ev *event.Event, ps []*participation.Participation) []*participation.Participation {
	participantType := ev.ParticipantType()
	return selectSorted(ps, func(p *participation.Participation) bool {
		a := p.Application
		if a == nil || !a.Pending() || p.HasRoleType(participantType) {
			return false
		}
		return a.References(ev.ID) || a.WaitingList
	})
}

func selectSorted(ps []*participation.Participation, keep func(*participation.Participation) bool) []*participation.Participation {
	seen := make(map[int64]bool, len(ps))
	out := make([]*participation.Participation, 0, len(ps))
	for _, p := range ps {
		if seen[p.ID] || !keep(p) {
			continue
		}
		seen[p.ID] = true
		out = append(out, p)
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Person, out[j].Person
		if a == nil || b == nil {
			return out[i].ID < out[j].ID
		}
		if person.LessByName(a, b) {
			return true
		}
		if person.LessByName(b, a) {
			return false
		}
		return out[i].ID < out[j].ID
	})
	return out
}
