package mailer

import "fmt"

// BodyKind is the type of thing a person is requested to be added to
type BodyKind string

const (
	BodyGroup       BodyKind = "Group"
	BodyEvent       BodyKind = "Event"
	BodyMailingList BodyKind = "MailingList"
)

// Body is a group, event or mailing list. GroupID is the group the body is
// reached through and equals ID for groups.
type Body struct {
	Kind    BodyKind
	ID      int64
	GroupID int64
	Name    string
}

type bodyKindInfo struct {
	path  func(b Body) string
	label string
}

var bodyKinds = map[BodyKind]bodyKindInfo{
	BodyGroup: {
		path:  func(b Body) string { return fmt.Sprintf("/groups/%d", b.ID) },
		label: "",
	},
	BodyEvent: {
		path:  func(b Body) string { return fmt.Sprintf("/groups/%d/events/%d", b.GroupID, b.ID) },
		label: "Event",
	},
	BodyMailingList: {
		path:  func(b Body) string { return fmt.Sprintf("/groups/%d/mailing_lists/%d", b.GroupID, b.ID) },
		label: "Mailing list",
	},
}

// KnownBodyKind reports whether kind is a supported body type
func KnownBodyKind(kind string) bool {
	_, ok := bodyKinds[BodyKind(kind)]
	return ok
}

// Path is the application path of the body
func (b Body) Path() string {
	info, ok := bodyKinds[b.Kind]
	if !ok {
		return ""
	}
	return info.path(b)
}

// Label is the body kind label. Groups carry their type in the name.
func (b Body) Label() string {
	return bodyKinds[b.Kind].label
}

// DisplayName is the label followed by the name
func (b Body) DisplayName() string {
	if l := b.Label(); l != "" {
		return l + " " + b.Name
	}
	return b.Name
}
