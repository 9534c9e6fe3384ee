package participation_test

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/fkhayef/membership/internal/apperr"
	"github.com/fkhayef/membership/internal/authz"
	"github.com/fkhayef/membership/internal/authz/authztest"
	"github.com/fkhayef/membership/internal/event"
	"github.com/fkhayef/membership/internal/job"
	"github.com/fkhayef/membership/internal/market"
	"github.com/fkhayef/membership/internal/participation"
	"github.com/fkhayef/membership/internal/participation/participationtest"
	"github.com/fkhayef/membership/internal/person"
)

const (
	groupID  int64 = 1
	actorID  int64 = 1
	otherID  int64 = 9
	courseID int64 = 5
	simpleID int64 = 6
)

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func intPtr(v int) *int { return &v }

func int64Ptr(v int64) *int64 { return &v }

type fixture struct {
	store   *participationtest.Store
	events  participationtest.Events
	people  participationtest.People
	authz   *authztest.Authorizer
	queue   *job.MemoryQueue
	service *participation.Service
}

func newFixture(allowed ...authz.Action) *fixture {
	f := &fixture{
		store: participationtest.NewStore(),
		events: participationtest.Events{
			courseID: {
				ID:                   courseID,
				Name:                 "Basic course",
				Kind:                 event.KindCourse,
				SupportsApplications: true,
				MinimumAge:           intPtr(16),
				StartsAt:             date(2026, 7, 1),
				GroupIDs:             []int64{groupID},
			},
			simpleID: {
				ID:                      simpleID,
				Name:                    "Summer camp",
				Kind:                    event.KindSimple,
				ParticipationRoleLabels: []string{"Kitchen"},
				GroupIDs:                []int64{groupID},
			},
		},
		people: participationtest.People{
			actorID: {ID: actorID, FirstName: "Anna", LastName: "Actor", Birthday: date(2000, 5, 4)},
			otherID: {ID: otherID, FirstName: "Otto", LastName: "Other", Birthday: date(2001, 1, 1)},
		},
		authz: authztest.Allow(allowed...),
		queue: job.NewMemoryQueue(3),
	}
	for _, p := range f.people {
		f.store.AddPerson(p)
	}
	f.service = participation.NewService(f.store, f.events, f.people, f.authz, f.queue)
	f.service.SetClock(func() time.Time { return now })
	return f
}

func (f *fixture) confirmations() int {
	n := 0
	for _, j := range f.queue.Pending() {
		if j.Kind == job.KindParticipationConfirmation {
			n++
		}
	}
	return n
}

func TestCreateCourseSelfRegistrationWaitsForMarket(t *testing.T) {
	f := newFixture(authz.ActionParticipate)

	res, err := f.service.Create(context.Background(), actorID, groupID, courseID, participation.CreateParticipationRequest{})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	p := res.Participation
	if res.State != participation.StateRolePending {
		t.Fatalf("state = %s", res.State)
	}
	if p.Active || len(p.Roles) != 0 || f.store.RoleCount() != 0 {
		t.Fatalf("application should not get a role: %+v", p)
	}
	if p.Application == nil || *p.Application.Priority1ID != courseID {
		t.Fatalf("application = %+v", p.Application)
	}
	if f.confirmations() != 1 {
		t.Fatalf("confirmations = %d, want 1", f.confirmations())
	}
	if !strings.Contains(res.Notice, "<i>Print</i>") {
		t.Fatalf("notice = %q", res.Notice)
	}
}

func TestCreateCourseSelfRegistrationChecksPreconditions(t *testing.T) {
	f := newFixture(authz.ActionParticipate)
	f.people[actorID].Birthday = date(2015, 1, 1)

	_, err := f.service.Create(context.Background(), actorID, groupID, courseID, participation.CreateParticipationRequest{})

	e, ok := apperr.As(err)
	if !ok || e.Kind != apperr.KindPrecondition {
		t.Fatalf("err = %v, want precondition error", err)
	}
	if e.Location != "/groups/1/events/5" {
		t.Fatalf("location = %q", e.Location)
	}
	if !strings.Contains(e.Message, "Minimum age of 16") {
		t.Fatalf("message = %q", e.Message)
	}
	if f.store.Count() != 0 || len(f.queue.Pending()) != 0 {
		t.Fatal("nothing may be stored or enqueued")
	}
}

func TestCreateForSomeoneElseAssignsRoleWithoutConfirmation(t *testing.T) {
	f := newFixture(authz.ActionCreate, authz.ActionParticipate)

	res, err := f.service.Create(context.Background(), actorID, groupID, courseID, participation.CreateParticipationRequest{
		PersonID: int64Ptr(otherID),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	p := res.Participation
	if res.State != participation.StateRoleAssigned || !p.Active {
		t.Fatalf("state = %s active = %v", res.State, p.Active)
	}
	if len(p.Roles) != 1 || p.Roles[0].Type != event.RoleCourseParticipant {
		t.Fatalf("roles = %+v", p.Roles)
	}
	if p.PersonID != otherID {
		t.Fatalf("person = %d", p.PersonID)
	}
	if f.confirmations() != 0 {
		t.Fatal("registering someone else must not send a confirmation")
	}
	if strings.Contains(res.Notice, "Print") {
		t.Fatalf("notice = %q", res.Notice)
	}
}

func TestCreateForSomeoneElseOnSimpleEvent(t *testing.T) {
	f := newFixture(authz.ActionCreate, authz.ActionParticipate)
	ctx := context.Background()

	res, err := f.service.Create(ctx, actorID, groupID, simpleID, participation.CreateParticipationRequest{
		ForSomeoneElse: true,
		PersonID:       int64Ptr(otherID),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	p := res.Participation
	if res.State != participation.StateRoleAssigned || !p.Active {
		t.Fatalf("state = %s active = %v", res.State, p.Active)
	}
	if len(p.Roles) != 1 || p.Roles[0].Type != event.RoleParticipant {
		t.Fatalf("roles = %+v", p.Roles)
	}
	if p.Application != nil {
		t.Fatalf("application = %+v, want none", p.Application)
	}
	if p.PersonID != otherID {
		t.Fatalf("person = %d", p.PersonID)
	}
	if f.confirmations() != 0 {
		t.Fatal("registering someone else must not send a confirmation")
	}

	stored, err := f.store.ListForEvent(ctx, simpleID)
	if err != nil {
		t.Fatalf("ListForEvent: %v", err)
	}
	participants := market.Participants(f.events[simpleID], stored)
	if len(participants) != 1 || participants[0].ID != p.ID {
		t.Fatalf("participants = %+v", participants)
	}
}

func TestCreateForSomeoneElseRequiresCreate(t *testing.T) {
	f := newFixture(authz.ActionParticipate)

	_, err := f.service.Create(context.Background(), actorID, groupID, simpleID, participation.CreateParticipationRequest{
		ForSomeoneElse: true,
		PersonID:       int64Ptr(otherID),
	})
	if apperr.KindOf(err) != apperr.KindForbidden {
		t.Fatalf("err = %v, want forbidden", err)
	}
	if f.store.Count() != 0 {
		t.Fatal("nothing may be stored")
	}
}

func TestCreateSimpleEventSelfRegistration(t *testing.T) {
	f := newFixture(authz.ActionParticipate)

	res, err := f.service.Create(context.Background(), actorID, groupID, simpleID, participation.CreateParticipationRequest{
		AdditionalInformation: "vegetarian",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	p := res.Participation
	if res.State != participation.StateRoleAssigned || !p.Active || p.Application != nil {
		t.Fatalf("participation = %+v", p)
	}
	if len(p.Roles) != 1 || p.Roles[0].Type != event.RoleParticipant {
		t.Fatalf("roles = %+v", p.Roles)
	}
	if f.confirmations() != 1 {
		t.Fatalf("confirmations = %d, want 1", f.confirmations())
	}
	if strings.Contains(res.Notice, "Print") {
		t.Fatalf("notice = %q", res.Notice)
	}
}

func TestCreateRollsBackWhenRoleFails(t *testing.T) {
	f := newFixture(authz.ActionParticipate)
	f.store.FailOn["CreateRole"] = errors.New("connection reset")

	_, err := f.service.Create(context.Background(), actorID, groupID, simpleID, participation.CreateParticipationRequest{})
	if err == nil {
		t.Fatal("expected error")
	}
	if f.store.Count() != 0 || f.store.RoleCount() != 0 {
		t.Fatalf("store kept %d participations", f.store.Count())
	}
	if len(f.queue.Pending()) != 0 {
		t.Fatal("no confirmation for a failed registration")
	}
}

func TestCreateUnknownEvent(t *testing.T) {
	f := newFixture(authz.ActionParticipate)

	_, err := f.service.Create(context.Background(), actorID, 2, simpleID, participation.CreateParticipationRequest{})
	if !errors.Is(err, event.ErrEventNotFound) {
		t.Fatalf("err = %v", err)
	}
}

func TestNewOffersAlternativesWithPriorization(t *testing.T) {
	f := newFixture(authz.ActionParticipate)
	f.events[courseID].Priorization = true
	f.events[7] = &event.Event{ID: 7, Name: "Advanced course", Kind: event.KindCourse, GroupIDs: []int64{groupID}}

	draft, err := f.service.New(context.Background(), actorID, groupID, courseID, participation.CreateParticipationRequest{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if len(draft.Alternatives) != 1 || draft.Alternatives[0].ID != 7 {
		t.Fatalf("alternatives = %+v", draft.Alternatives)
	}
	if f.store.Count() != 0 {
		t.Fatal("New must not store anything")
	}
}

func seedListed(f *fixture) {
	people := []*person.Person{
		{ID: 20, FirstName: "Zora", LastName: "Zulu"},
		{ID: 21, FirstName: "Bert", LastName: "Beta"},
		{ID: 22, FirstName: "Ada", LastName: "Alpha"},
		{ID: 23, FirstName: "Ina", LastName: "Inactive"},
		{ID: 24, FirstName: "Rolf", LastName: "Roleless"},
	}
	for _, p := range people {
		f.store.AddPerson(p)
	}

	kitchen := "Kitchen"
	f.store.Seed(&participation.Participation{EventID: simpleID, PersonID: 21, Active: true, Roles: []*participation.Role{{Type: event.RoleParticipant}}})
	f.store.Seed(&participation.Participation{EventID: simpleID, PersonID: 20, Active: true, Roles: []*participation.Role{{Type: event.RoleLeader}}})
	f.store.Seed(&participation.Participation{EventID: simpleID, PersonID: 22, Active: true, Roles: []*participation.Role{{Type: event.RoleCook, Label: &kitchen}}})
	f.store.Seed(&participation.Participation{EventID: simpleID, PersonID: 23, Active: false, Roles: []*participation.Role{{Type: event.RoleParticipant}}})
	f.store.Seed(&participation.Participation{EventID: simpleID, PersonID: 24, Active: true})
}

func personIDs(ps []*participation.Participation) []int64 {
	ids := make([]int64, len(ps))
	for i, p := range ps {
		ids[i] = p.PersonID
	}
	return ids
}

func TestList(t *testing.T) {
	tests := []struct {
		filter string
		want   []int64
	}{
		{filter: "", want: []int64{20, 22, 21}},
		{filter: participation.FilterAll, want: []int64{20, 22, 21}},
		{filter: participation.FilterLeaders, want: []int64{20}},
		{filter: participation.FilterParticipants, want: []int64{21}},
		{filter: "Kitchen", want: []int64{22}},
		{filter: "Unknown", want: []int64{20, 22, 21}},
	}

	f := newFixture(authz.ActionIndexParticipations)
	seedListed(f)

	for _, tt := range tests {
		t.Run("filter "+tt.filter, func(t *testing.T) {
			ps, _, err := f.service.List(context.Background(), actorID, groupID, simpleID, tt.filter)
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			got := personIDs(ps)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("got %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestListRequiresPermission(t *testing.T) {
	f := newFixture()

	_, _, err := f.service.List(context.Background(), actorID, groupID, simpleID, "")
	if apperr.KindOf(err) != apperr.KindForbidden {
		t.Fatalf("err = %v, want forbidden", err)
	}
}

func TestDestroy(t *testing.T) {
	f := newFixture(authz.ActionDestroy)
	id := f.store.Seed(&participation.Participation{
		EventID:     courseID,
		PersonID:    actorID,
		Application: &participation.Application{Priority1ID: int64Ptr(courseID)},
	})

	location, err := f.service.Destroy(context.Background(), actorID, groupID, courseID, id)
	if err != nil {
		t.Fatalf("Destroy: %v", err)
	}
	if location != "/groups/1/events/5/application_market" {
		t.Fatalf("location = %q", location)
	}
	if f.store.Count() != 0 {
		t.Fatal("participation still stored")
	}
}

func TestDestroyParticipationOfOtherEvent(t *testing.T) {
	f := newFixture(authz.ActionDestroy)
	id := f.store.Seed(&participation.Participation{EventID: courseID, PersonID: actorID})

	_, err := f.service.Destroy(context.Background(), actorID, groupID, simpleID, id)
	if !errors.Is(err, participation.ErrParticipationNotFound) {
		t.Fatalf("err = %v", err)
	}
	if f.store.Count() != 1 {
		t.Fatal("participation must remain")
	}
}

func TestExportCSVFormat(t *testing.T) {
	tests := []struct {
		name    string
		details bool
		allowed []authz.Action
		full    bool
	}{
		{name: "address by default", allowed: []authz.Action{authz.ActionIndexParticipations, authz.ActionShowDetails}},
		{name: "details without permission", details: true, allowed: []authz.Action{authz.ActionIndexParticipations}},
		{name: "details with permission", details: true, allowed: []authz.Action{authz.ActionIndexParticipations, authz.ActionShowDetails}, full: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(tt.allowed...)
			seedListed(f)

			out, err := f.service.ExportCSV(context.Background(), actorID, groupID, simpleID, participation.FilterAll, tt.details)
			if err != nil {
				t.Fatalf("ExportCSV: %v", err)
			}
			lines := strings.Split(strings.TrimSpace(string(out)), "\n")
			if len(lines) != 4 {
				t.Fatalf("got %d lines", len(lines))
			}
			if full := strings.Contains(lines[0], "Birthday"); full != tt.full {
				t.Fatalf("header = %q", lines[0])
			}
		})
	}
}

func itoa(v int64) string {
	return strconv.FormatInt(v, 10)
}
