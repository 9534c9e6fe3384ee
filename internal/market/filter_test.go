package market

import (
	"testing"

	"github.com/fkhayef/membership/internal/event"
	"github.com/fkhayef/membership/internal/participation"
	"github.com/fkhayef/membership/internal/person"
)

const (
	courseID int64 = 5
	otherID  int64 = 8
)

func int64Ptr(v int64) *int64 { return &v }

func entry(id int64, lastName string, eventID int64, a *participation.Application, roles ...event.RoleType) *participation.Participation {
	p := &participation.Participation{
		ID:          id,
		EventID:     eventID,
		PersonID:    id,
		Person:      &person.Person{ID: id, FirstName: "P", LastName: lastName},
		Application: a,
	}
	for _, t := range roles {
		p.Roles = append(p.Roles, &participation.Role{ParticipationID: id, Type: t})
	}
	return p
}

func marketFixture() (*event.Event, map[string]*participation.Participation) {
	ev := &event.Event{ID: courseID, Kind: event.KindCourse, SupportsApplications: true}
	ps := map[string]*participation.Participation{
		"prio1":         entry(1, "Prio One", courseID, &participation.Application{Priority1ID: int64Ptr(courseID)}),
		"prio2":         entry(2, "Prio Two", otherID, &participation.Application{Priority1ID: int64Ptr(otherID), Priority2ID: int64Ptr(courseID)}),
		"prio3":         entry(3, "Prio Three", otherID, &participation.Application{Priority3ID: int64Ptr(courseID)}),
		"waiting":       entry(4, "Waiting", otherID, &participation.Application{Priority1ID: int64Ptr(otherID), WaitingList: true}),
		"other":         entry(5, "Other", otherID, &participation.Application{Priority1ID: int64Ptr(otherID)}),
		"otherAssigned": entry(6, "Other Assigned", otherID, &participation.Application{Priority2ID: int64Ptr(courseID)}, event.RoleCourseParticipant),
		"participant":   entry(7, "Participant", courseID, &participation.Application{Priority2ID: int64Ptr(courseID)}, event.RoleCourseParticipant),
		"leader":        entry(8, "Leader", courseID, nil, event.RoleLeader),
		"approved":      entry(9, "Approved", otherID, &participation.Application{Priority2ID: int64Ptr(courseID), Approved: true}),
		"rejected":      entry(10, "Rejected", otherID, &participation.Application{Priority1ID: int64Ptr(courseID), Rejected: true}),
	}
	return ev, ps
}

func all(ps map[string]*participation.Participation) []*participation.Participation {
	out := make([]*participation.Participation, 0, len(ps)*2)
	for _, p := range ps {
		out = append(out, p)
	}
	// duplicates from joins must collapse
	out = append(out, ps["prio1"], ps["prio1"], ps["participant"])
	return out
}

func contains(ps []*participation.Participation, p *participation.Participation) bool {
	for _, q := range ps {
		if q.ID == p.ID {
			return true
		}
	}
	return false
}

func TestParticipants(t *testing.T) {
	ev, ps := marketFixture()
	got := Participants(ev, all(ps))

	if len(got) != 1 || got[0] != ps["participant"] {
		t.Fatalf("participants = %v", got)
	}
}

func TestPendingApplications(t *testing.T) {
	ev, ps := marketFixture()
	got := PendingApplications(ev, all(ps))

	for _, name := range []string{"prio1", "prio2", "prio3", "waiting"} {
		if !contains(got, ps[name]) {
			t.Errorf("pending should include %s", name)
		}
	}
	for _, name := range []string{"participant", "other", "otherAssigned", "leader", "approved", "rejected"} {
		if contains(got, ps[name]) {
			t.Errorf("pending should not include %s", name)
		}
	}
	if len(got) != 4 {
		t.Fatalf("got %d pending, want 4", len(got))
	}
}

func TestViewsAreDisjoint(t *testing.T) {
	ev, ps := marketFixture()
	list := all(ps)
	for _, p := range Participants(ev, list) {
		if contains(PendingApplications(ev, list), p) {
			t.Fatalf("participation %d is in both views", p.ID)
		}
	}
}

func TestPendingApplicationsOrderedByName(t *testing.T) {
	ev, ps := marketFixture()
	got := PendingApplications(ev, all(ps))

	want := []string{"Prio One", "Prio Three", "Prio Two", "Waiting"}
	for i, p := range got {
		if p.Person.LastName != want[i] {
			t.Fatalf("position %d = %s, want %s", i, p.Person.LastName, want[i])
		}
	}
}

func TestParticipantsUseConfiguredRoleType(t *testing.T) {
	ev, ps := marketFixture()
	ev.ParticipantRoleType = event.RoleParticipant
	ps["simple"] = entry(11, "Simple", courseID, nil, event.RoleParticipant)

	got := Participants(ev, all(ps))
	if len(got) != 1 || got[0] != ps["simple"] {
		t.Fatalf("participants = %v", got)
	}
	if !contains(PendingApplications(ev, all(ps)), ps["otherAssigned"]) {
		t.Fatal("course participant role of another type does not assign for this event")
	}
}
