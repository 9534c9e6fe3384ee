package event

import (
	"testing"
	"time"

	"github.com/fkhayef/membership/internal/person"
)

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestParticipantTypeDefaultsByKind(t *testing.T) {
	tests := []struct {
		name string
		ev   Event
		want RoleType
	}{
		{name: "simple", ev: Event{Kind: KindSimple}, want: RoleParticipant},
		{name: "course", ev: Event{Kind: KindCourse}, want: RoleCourseParticipant},
		{name: "configured", ev: Event{Kind: KindCourse, ParticipantRoleType: RoleSpeaker}, want: RoleSpeaker},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.ev.ParticipantType(); got != tt.want {
				t.Fatalf("ParticipantType() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestApplicationPossible(t *testing.T) {
	now := time.Date(2024, time.March, 10, 15, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		ev   Event
		want bool
	}{
		{name: "no applications", ev: Event{}, want: false},
		{name: "open ended", ev: Event{SupportsApplications: true}, want: true},
		{name: "opens today", ev: Event{SupportsApplications: true, ApplicationOpeningAt: date(2024, time.March, 10)}, want: true},
		{name: "opens tomorrow", ev: Event{SupportsApplications: true, ApplicationOpeningAt: date(2024, time.March, 11)}, want: false},
		{name: "closes today", ev: Event{SupportsApplications: true, ApplicationClosingAt: date(2024, time.March, 10)}, want: true},
		{name: "closed yesterday", ev: Event{SupportsApplications: true, ApplicationClosingAt: date(2024, time.March, 9)}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.ev.ApplicationPossible(now); got != tt.want {
				t.Fatalf("ApplicationPossible() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRoleRankPutsLeadersFirst(t *testing.T) {
	if RoleLeader.Rank() >= RoleCook.Rank() || RoleCook.Rank() >= RoleParticipant.Rank() {
		t.Fatal("unexpected rank order")
	}
	if RoleType("unknown").Rank() <= RoleCourseParticipant.Rank() {
		t.Fatal("unknown types should sort last")
	}
}

func TestPreconditionChecker(t *testing.T) {
	now := time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC)
	minAge := 16
	course := &Event{
		Kind:                 KindCourse,
		SupportsApplications: true,
		StartsAt:             date(2024, time.June, 1),
		MinimumAge:           &minAge,
	}

	t.Run("old enough at start", func(t *testing.T) {
		p := &person.Person{Birthday: date(2008, time.June, 1)}
		c := NewPreconditionChecker(course, p, now)
		if !c.Valid() {
			t.Fatalf("expected valid, got %q", c.ErrorsText())
		}
	})

	t.Run("too young at start", func(t *testing.T) {
		p := &person.Person{Birthday: date(2008, time.June, 2)}
		c := NewPreconditionChecker(course, p, now)
		if c.Valid() {
			t.Fatal("expected invalid")
		}
		if len(c.Errors()) != 1 {
			t.Fatalf("errors = %v", c.Errors())
		}
	})

	t.Run("missing birthday", func(t *testing.T) {
		c := NewPreconditionChecker(course, &person.Person{}, now)
		if c.Valid() {
			t.Fatal("expected invalid")
		}
	})

	t.Run("closed course", func(t *testing.T) {
		closed := *course
		closed.MinimumAge = nil
		closed.ApplicationClosingAt = date(2024, time.March, 1)
		c := NewPreconditionChecker(&closed, &person.Person{}, now)
		if c.Valid() || c.ErrorsText() == "" {
			t.Fatal("expected closed course to fail")
		}
	})
}
