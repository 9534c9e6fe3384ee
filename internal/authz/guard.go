package authz

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/fkhayef/membership/internal/apperr"
	"github.com/fkhayef/membership/internal/event"
	"github.com/fkhayef/membership/internal/group"
)

// Target names the resource of a check in domain terms. The guard resolves
// it into a Resource.
type Target struct {
	GroupIDs      []int64
	Event         *event.Event
	OwnerPersonID int64
}

// EventTarget targets an event through its groups
func EventTarget(e *event.Event) Target {
	return Target{GroupIDs: e.GroupIDs, Event: e}
}

// ParticipationTarget targets a participation of a person in an event
func ParticipationTarget(e *event.Event, personID int64) Target {
	return Target{GroupIDs: e.GroupIDs, Event: e, OwnerPersonID: personID}
}

// GroupTarget targets a resource owned by a single group
func GroupTarget(groupID int64) Target {
	return Target{GroupIDs: []int64{groupID}}
}

// Authorizer is what services depend on to check permissions
type Authorizer interface {
	Authorize(ctx context.Context, personID int64, action Action, target Target) error
	Can(ctx context.Context, personID int64, action Action, target Target) (bool, error)
}

// RoleSource loads the group roles of a person
type RoleSource interface {
	RolesForPerson(ctx context.Context, personID int64) ([]*group.Role, error)
}

// EventRoleSource loads the event roles of a person keyed by event id
type EventRoleSource interface {
	EventRolesForPerson(ctx context.Context, personID int64) (map[int64][]event.RoleType, error)
}

// PlacementSource resolves groups into the layer hierarchy
type PlacementSource interface {
	Placements(ctx context.Context, groupIDs []int64) ([]group.Placement, error)
}

// Guard loads the actor and the resource and asks the policy
type Guard struct {
	policy     Policy
	roles      RoleSource
	eventRoles EventRoleSource
	placements PlacementSource
	now        func() time.Time
}

// NewGuard creates a guard evaluating policy
func NewGuard(policy Policy, roles RoleSource, eventRoles EventRoleSource, placements PlacementSource) *Guard {
	return &Guard{
		policy:     policy,
		roles:      roles,
		eventRoles: eventRoles,
		placements: placements,
		now:        time.Now,
	}
}

// Check returns the policy decision for the person
func (g *Guard) Check(ctx context.Context, personID int64, action Action, target Target) (Decision, error) {
	actor, err := g.actor(ctx, personID)
	if err != nil {
		return Decision{}, err
	}

	res, err := g.resource(ctx, target)
	if err != nil {
		return Decision{}, err
	}

	return g.policy.CheckPermission(ctx, actor, action, res), nil
}

// Can reports whether the person may perform action
func (g *Guard) Can(ctx context.Context, personID int64, action Action, target Target) (bool, error) {
	d, err := g.Check(ctx, personID, action, target)
	if err != nil {
		return false, err
	}
	return d.Allowed, nil
}

// Authorize returns a Forbidden error when the person may not perform action
func (g *Guard) Authorize(ctx context.Context, personID int64, action Action, target Target) error {
	d, err := g.Check(ctx, personID, action, target)
	if err != nil {
		return err
	}
	if !d.Allowed {
		log.Printf("authz: person %d denied %s (%s)", personID, action, d.Reason)
		return apperr.Forbidden(fmt.Sprintf("not allowed to %s", action))
	}
	return nil
}

func (g *Guard) actor(ctx context.Context, personID int64) (Actor, error) {
	roles, err := g.roles.RolesForPerson(ctx, personID)
	if err != nil {
		return Actor{}, fmt.Errorf("failed to load roles: %w", err)
	}

	eventRoles, err := g.eventRoles.EventRolesForPerson(ctx, personID)
	if err != nil {
		return Actor{}, fmt.Errorf("failed to load event roles: %w", err)
	}

	return Actor{PersonID: personID, Roles: roles, EventRoles: eventRoles}, nil
}

func (g *Guard) resource(ctx context.Context, target Target) (Resource, error) {
	placements, err := g.placements.Placements(ctx, target.GroupIDs)
	if err != nil {
		return Resource{}, fmt.Errorf("failed to resolve groups: %w", err)
	}

	res := Resource{Placements: placements, OwnerPersonID: target.OwnerPersonID}
	if e := target.Event; e != nil {
		res.EventID = e.ID
		res.SupportsApplications = e.SupportsApplications
		res.ApplicationPossible = e.ApplicationPossible(g.now())
	}
	return res, nil
}
