package event

import (
	"time"

	"github.com/lib/pq"
)

// Kind distinguishes plain events from courses
type Kind string

const (
	KindSimple Kind = "simple"
	KindCourse Kind = "course"
)

// RoleType is the type of a role a participation holds in an event
type RoleType string

const (
	RoleLeader            RoleType = "leader"
	RoleAssistantLeader   RoleType = "assistant_leader"
	RoleCook              RoleType = "cook"
	RoleTreasurer         RoleType = "treasurer"
	RoleSpeaker           RoleType = "speaker"
	RoleParticipant       RoleType = "participant"
	RoleCourseParticipant RoleType = "course_participant"
)

// roleRank orders roles in participation lists, leaders first
var roleRank = map[RoleType]int{
	RoleLeader:            0,
	RoleAssistantLeader:   1,
	RoleCook:              2,
	RoleTreasurer:         3,
	RoleSpeaker:           4,
	RoleParticipant:       5,
	RoleCourseParticipant: 5,
}

var roleLabels = map[RoleType]string{
	RoleLeader:            "Leader",
	RoleAssistantLeader:   "Assistant Leader",
	RoleCook:              "Cook",
	RoleTreasurer:         "Treasurer",
	RoleSpeaker:           "Speaker",
	RoleParticipant:       "Participant",
	RoleCourseParticipant: "Participant",
}

// Rank is the list position of the role type. Unknown types sort last.
func (t RoleType) Rank() int {
	if r, ok := roleRank[t]; ok {
		return r
	}
	return len(roleRank)
}

// Label is the human readable name of the role type
func (t RoleType) Label() string {
	if l, ok := roleLabels[t]; ok {
		return l
	}
	return string(t)
}

// IsLeader reports whether the role belongs to the leader team
func (t RoleType) IsLeader() bool {
	return t == RoleLeader || t == RoleAssistantLeader
}

// KnownRoleType reports whether name is a registered event role type
func KnownRoleType(name string) bool {
	_, ok := roleRank[RoleType(name)]
	return ok
}

// Event represents an event or a course
type Event struct {
	ID                      int64          `json:"id"`
	Name                    string         `json:"name"`
	Kind                    Kind           `json:"kind"`
	KindID                  *int64         `json:"kind_id,omitempty"`
	ParticipantRoleType     RoleType       `json:"participant_role_type"`
	SupportsApplications    bool           `json:"supports_applications"`
	Priorization            bool           `json:"priorization"`
	ParticipationRoleLabels pq.StringArray `json:"participation_role_labels"`
	ApplicationOpeningAt    *time.Time     `json:"application_opening_at,omitempty"`
	ApplicationClosingAt    *time.Time     `json:"application_closing_at,omitempty"`
	StartsAt                *time.Time     `json:"starts_at,omitempty"`
	MinimumAge              *int           `json:"minimum_age,omitempty"`
	CreatedAt               time.Time      `json:"created_at"`

	// Populated from events_groups
	GroupIDs []int64 `json:"group_ids,omitempty"`
}

// DefaultParticipantRoleType is the participant role type events of kind
// get when none is configured
func DefaultParticipantRoleType(kind Kind) RoleType {
	if kind == KindCourse {
		return RoleCourseParticipant
	}
	return RoleParticipant
}

// IsCourse reports whether the event is a course
func (e *Event) IsCourse() bool {
	return e.Kind == KindCourse
}

// ParticipantType returns the configured participant role type, falling
// back to the default of the event kind
func (e *Event) ParticipantType() RoleType {
	if e.ParticipantRoleType != "" {
		return e.ParticipantRoleType
	}
	return DefaultParticipantRoleType(e.Kind)
}

// HasRoleLabel reports whether label is one of the event's role labels
func (e *Event) HasRoleLabel(label string) bool {
	for _, l := range e.ParticipationRoleLabels {
		if l == label {
			return true
		}
	}
	return false
}

// BelongsTo reports whether the event is linked to the group
func (e *Event) BelongsTo(groupID int64) bool {
	for _, id := range e.GroupIDs {
		if id == groupID {
			return true
		}
	}
	return false
}

// ApplicationPossible reports whether applications are open at now. Opening
// and closing dates are inclusive, a missing date leaves that side open.
func (e *Event) ApplicationPossible(now time.Time) bool {
	if !e.SupportsApplications {
		return false
	}
	today := truncateDay(now)
	if e.ApplicationOpeningAt != nil && today.Before(truncateDay(*e.ApplicationOpeningAt)) {
		return false
	}
	if e.ApplicationClosingAt != nil && today.After(truncateDay(*e.ApplicationClosingAt)) {
		return false
	}
	return true
}

func (e *Event) String() string {
	return e.Name
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
