// Package authz decides what a person may do with events, participations and
// mailing lists. Grants come from group roles evaluated against the layer
// hierarchy and from leader roles held in the event itself.
package authz

import (
	"context"

	"github.com/fkhayef/membership/internal/event"
	"github.com/fkhayef/membership/internal/group"
)

// Action is an operation checked against a resource
type Action string

const (
	ActionApplicationMarket   Action = "application_market"
	ActionIndexParticipations Action = "index_participations"
	ActionCreate              Action = "create"
	ActionShow                Action = "show"
	ActionShowDetails         Action = "show_details"
	ActionDestroy             Action = "destroy"
	ActionParticipate         Action = "participate"
	ActionUpdate              Action = "update"
)

// Reason codes reported with a decision
const (
	ReasonGroupWrite        = "group_write"
	ReasonGroupRead         = "group_read"
	ReasonEventLeader       = "event_leader"
	ReasonEventRole         = "event_role"
	ReasonOwner             = "owner"
	ReasonContactData       = "contact_data"
	ReasonApplicationsOpen  = "applications_open"
	ReasonNoApplications    = "applications_not_supported"
	ReasonApplicationClosed = "applications_closed"
	ReasonDenied            = "access_denied"
	ReasonUnknownAction     = "unknown_action"
)

// Decision is the outcome of a permission check
type Decision struct {
	Allowed bool
	Reason  string
}

func allow(reason string) Decision { return Decision{Allowed: true, Reason: reason} }
func deny(reason string) Decision  { return Decision{Reason: reason} }

// Actor is the person a check is made for with everything the policy needs
// to know about them
type Actor struct {
	PersonID int64
	Roles    []*group.Role

	// EventRoles holds the role types of the actor's participations keyed by
	// event id
	EventRoles map[int64][]event.RoleType
}

// Resource describes what is accessed. Placements locate the groups the
// resource belongs to. Event fields are zero for resources outside events.
type Resource struct {
	Placements           []group.Placement
	EventID              int64
	SupportsApplications bool
	ApplicationPossible  bool

	// OwnerPersonID is set for participations
	OwnerPersonID int64
}

// Policy evaluates a permission check
type Policy interface {
	CheckPermission(ctx context.Context, actor Actor, action Action, res Resource) Decision
}

// RolePolicy grants access from group and event roles
type RolePolicy struct{}

// NewRolePolicy creates the default policy
func NewRolePolicy() RolePolicy {
	return RolePolicy{}
}

// CheckPermission implements Policy
func (RolePolicy) CheckPermission(_ context.Context, actor Actor, action Action, res Resource) Decision {
	switch action {
	case ActionApplicationMarket:
		if !res.SupportsApplications {
			return deny(ReasonNoApplications)
		}
		return full(actor, res)

	case ActionCreate, ActionDestroy:
		return full(actor, res)

	case ActionUpdate:
		if isOwner(actor, res) {
			return allow(ReasonOwner)
		}
		return full(actor, res)

	case ActionIndexParticipations:
		return read(actor, res)

	case ActionShow:
		if isOwner(actor, res) {
			return allow(ReasonOwner)
		}
		return read(actor, res)

	case ActionShowDetails:
		if isOwner(actor, res) {
			return allow(ReasonOwner)
		}
		if d := full(actor, res); d.Allowed {
			return d
		}
		for _, r := range actor.Roles {
			if r.Has(group.PermContactData) && readsOnAny(r, res.Placements) {
				return allow(ReasonContactData)
			}
		}
		return deny(ReasonDenied)

	case ActionParticipate:
		if !res.SupportsApplications {
			return allow(ReasonNoApplications)
		}
		if res.ApplicationPossible {
			return allow(ReasonApplicationsOpen)
		}
		return deny(ReasonApplicationClosed)
	}

	return deny(ReasonUnknownAction)
}

// full grants write access on the resource: a write role on one of its
// groups or a leader role in its event
func full(actor Actor, res Resource) Decision {
	for _, r := range actor.Roles {
		for _, p := range res.Placements {
			if r.WritesOn(p) {
				return allow(ReasonGroupWrite)
			}
		}
	}
	if res.EventID != 0 {
		for _, t := range actor.EventRoles[res.EventID] {
			if t.IsLeader() {
				return allow(ReasonEventLeader)
			}
		}
	}
	return deny(ReasonDenied)
}

func read(actor Actor, res Resource) Decision {
	if d := full(actor, res); d.Allowed {
		return d
	}
	for _, r := range actor.Roles {
		if readsOnAny(r, res.Placements) {
			return allow(ReasonGroupRead)
		}
	}
	if res.EventID != 0 && len(actor.EventRoles[res.EventID]) > 0 {
		return allow(ReasonEventRole)
	}
	return deny(ReasonDenied)
}

func readsOnAny(r *group.Role, ps []group.Placement) bool {
	for _, p := range ps {
		if r.ReadsOn(p) {
			return true
		}
	}
	return false
}

func isOwner(actor Actor, res Resource) bool {
	return res.OwnerPersonID != 0 && res.OwnerPersonID == actor.PersonID
}
