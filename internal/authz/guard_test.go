package authz

import (
	"context"
	"testing"

	"github.com/fkhayef/membership/internal/apperr"
	"github.com/fkhayef/membership/internal/event"
	"github.com/fkhayef/membership/internal/group"
)

type fakeSources struct {
	roles      map[int64][]*group.Role
	eventRoles map[int64]map[int64][]event.RoleType
	placements map[int64]group.Placement
}

func (f *fakeSources) RolesForPerson(_ context.Context, personID int64) ([]*group.Role, error) {
	return f.roles[personID], nil
}

func (f *fakeSources) EventRolesForPerson(_ context.Context, personID int64) (map[int64][]event.RoleType, error) {
	return f.eventRoles[personID], nil
}

func (f *fakeSources) Placements(_ context.Context, groupIDs []int64) ([]group.Placement, error) {
	out := make([]group.Placement, 0, len(groupIDs))
	for _, id := range groupIDs {
		out = append(out, f.placements[id])
	}
	return out, nil
}

func TestGuardAuthorize(t *testing.T) {
	src := &fakeSources{
		roles:      map[int64][]*group.Role{1: {topLeader}},
		eventRoles: map[int64]map[int64][]event.RoleType{2: {5: {event.RoleParticipant}}},
		placements: map[int64]group.Placement{10: eventPlacement},
	}
	guard := NewGuard(NewRolePolicy(), src, src, src)
	ev := &event.Event{ID: 5, SupportsApplications: true, GroupIDs: []int64{10}}

	if err := guard.Authorize(context.Background(), 1, ActionApplicationMarket, EventTarget(ev)); err != nil {
		t.Fatalf("leader should access market: %v", err)
	}

	err := guard.Authorize(context.Background(), 2, ActionApplicationMarket, EventTarget(ev))
	if apperr.KindOf(err) != apperr.KindForbidden {
		t.Fatalf("err = %v, want forbidden", err)
	}

	ok, err := guard.Can(context.Background(), 2, ActionShow, ParticipationTarget(ev, 2))
	if err != nil || !ok {
		t.Fatalf("owner should see participation: %v %v", ok, err)
	}
}
