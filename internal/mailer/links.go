package mailer

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Links builds absolute application URLs
type Links struct {
	BaseURL string
}

// NewLinks creates a link builder for baseURL
func NewLinks(baseURL string) Links {
	return Links{BaseURL: strings.TrimRight(baseURL, "/")}
}

func (l Links) abs(path string) string {
	return l.BaseURL + path
}

// BodyURL links to the group, event or mailing list
func (l Links) BodyURL(b Body) string {
	return l.abs(b.Path())
}

// RequestedPersonURL links the person to their add request for body
func (l Links) RequestedPersonURL(personID int64, b Body) string {
	q := url.Values{}
	q.Set("body_id", strconv.FormatInt(b.ID, 10))
	q.Set("body_type", string(b.Kind))
	return l.abs(fmt.Sprintf("/people/%d?%s", personID, q.Encode()))
}

// ResponsiblesRequestURL links the responsibles of a layer to the add
// requests of one of their people
func (l Links) ResponsiblesRequestURL(layerGroupID int64, b Body, personID int64) string {
	q := url.Values{}
	q.Set("body_id", strconv.FormatInt(b.ID, 10))
	q.Set("body_type", string(b.Kind))
	q.Set("person_id", strconv.FormatInt(personID, 10))
	return l.abs(fmt.Sprintf("/groups/%d/person_add_requests?%s", layerGroupID, q.Encode()))
}

// ParticipationURL links to a participation
func (l Links) ParticipationURL(groupID, eventID, participationID int64) string {
	return l.abs(fmt.Sprintf("/groups/%d/events/%d/participations/%d", groupID, eventID, participationID))
}

// SubscriptionsURL links to the subscriptions of a mailing list
func (l Links) SubscriptionsURL(mailingListID int64) string {
	return l.abs(fmt.Sprintf("/mailing_lists/%d/subscriptions", mailingListID))
}
