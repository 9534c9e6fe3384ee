package participation

import (
	"time"

	"github.com/fkhayef/membership/internal/event"
	"github.com/fkhayef/membership/internal/person"
)

// LifecycleState is where a participation stands after an operation
type LifecycleState string

const (
	StateDraft        LifecycleState = "draft"
	StateCreated      LifecycleState = "created"
	StateRoleAssigned LifecycleState = "role_assigned"
	StateRolePending  LifecycleState = "role_pending"
)

// Participation is a person's registration for an event
type Participation struct {
	ID                    int64     `json:"id"`
	EventID               int64     `json:"event_id"`
	PersonID              int64     `json:"person_id"`
	Active                bool      `json:"active"`
	AdditionalInformation string    `json:"additional_information"`
	ApplicationID         *int64    `json:"application_id,omitempty"`
	CreatedAt             time.Time `json:"created_at"`

	// Populated on load
	Person      *person.Person `json:"person,omitempty"`
	Application *Application   `json:"application,omitempty"`
	Roles       []*Role        `json:"roles,omitempty"`
}

// HasRoleType reports whether the participation holds a role of type t
func (p *Participation) HasRoleType(t event.RoleType) bool {
	for _, r := range p.Roles {
		if r.Type == t {
			return true
		}
	}
	return false
}

// HasRoleLabel reports whether one of the roles carries label
func (p *Participation) HasRoleLabel(label string) bool {
	for _, r := range p.Roles {
		if r.Label != nil && *r.Label == label {
			return true
		}
	}
	return false
}

// HasLeaderRole reports whether the participation belongs to the leader team
func (p *Participation) HasLeaderRole() bool {
	for _, r := range p.Roles {
		if r.Type.IsLeader() {
			return true
		}
	}
	return false
}

// TopRank is the best rank among the roles, used to order lists
func (p *Participation) TopRank() int {
	best := event.RoleType("").Rank()
	for _, r := range p.Roles {
		if rank := r.Type.Rank(); rank < best {
			best = rank
		}
	}
	return best
}

// Application is the course application attached to a participation
type Application struct {
	ID          int64  `json:"id"`
	Priority1ID *int64 `json:"priority_1_id,omitempty"`
	Priority2ID *int64 `json:"priority_2_id,omitempty"`
	Priority3ID *int64 `json:"priority_3_id,omitempty"`
	WaitingList bool   `json:"waiting_list"`
	Approved    bool   `json:"approved"`
	Rejected    bool   `json:"rejected"`
}

// Pending reports whether the application is neither approved nor rejected
func (a *Application) Pending() bool {
	return !a.Approved && !a.Rejected
}

// Priority returns the rank at which the application chose the event, zero
// if it did not choose it
func (a *Application) Priority(eventID int64) int {
	for i, id := range []*int64{a.Priority1ID, a.Priority2ID, a.Priority3ID} {
		if id != nil && *id == eventID {
			return i + 1
		}
	}
	return 0
}

// References reports whether the event is one of the chosen priorities
func (a *Application) References(eventID int64) bool {
	return a.Priority(eventID) > 0
}

// Role is a role held by a participation in its event
type Role struct {
	ID              int64          `json:"id"`
	ParticipationID int64          `json:"participation_id"`
	Type            event.RoleType `json:"type"`
	Label           *string        `json:"label,omitempty"`
}

func (r *Role) String() string {
	if r.Label != nil && *r.Label != "" {
		return r.Type.Label() + " (" + *r.Label + ")"
	}
	return r.Type.Label()
}
