package mailinglist

import "time"

// Subscriber types
const (
	SubscriberPerson = "Person"
	SubscriberGroup  = "Group"
)

// MailingList is a list of subscribers owned by a group
type MailingList struct {
	ID              int64     `json:"id"`
	GroupID         int64     `json:"group_id"`
	Name            string    `json:"name"`
	MailchimpListID *string   `json:"mailchimp_list_id,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// RemoteID is the id of the list at Mailchimp, empty if not connected
func (l *MailingList) RemoteID() string {
	if l.MailchimpListID == nil {
		return ""
	}
	return *l.MailchimpListID
}
