package mailer

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fkhayef/membership/internal/database"
)

// Content keys
const (
	ContentAddRequestPerson          = "person_add_request_person"
	ContentAddRequestResponsibles    = "person_add_request_responsibles"
	ContentParticipationConfirmation = "event_participation_confirmation"
	ContentMailingListSynchronized   = "mailing_list_synchronized"
)

// Content is a mail template. Placeholders are written as {name}.
type Content struct {
	Key     string
	Subject string
	Body    string
}

var defaultContents = map[string]Content{
	ContentAddRequestPerson: {
		Key:     ContentAddRequestPerson,
		Subject: "Release of your personal data",
		Body: `<p>Hello {recipient-name}</p>` +
			`<p>{requester-name} would like to add you to {request-body-link}.</p>` +
			`<p>{requester-name} has the following roles with write permissions:<br/>{requester-roles}</p>` +
			`<p>{request-link}</p>`,
	},
	ContentAddRequestResponsibles: {
		Key:     ContentAddRequestResponsibles,
		Subject: "Release of personal data",
		Body: `<p>Hello {recipient-names}</p>` +
			`<p>{requester-name} would like to add {person-name} to {request-body-link}.</p>` +
			`<p>{requester-name} has the following roles with write permissions:<br/>{requester-roles}</p>` +
			`<p>{request-link}</p>`,
	},
	ContentParticipationConfirmation: {
		Key:     ContentParticipationConfirmation,
		Subject: "Registration confirmation",
		Body: `<p>Hello {recipient-name}</p>` +
			`<p>You are registered for {event-name}.</p>` +
			`<p>{participation-link}</p>`,
	},
	ContentMailingListSynchronized: {
		Key:     ContentMailingListSynchronized,
		Subject: "Mailing list synchronized",
		Body: `<p>Hello {recipient-name}</p>` +
			`<p>{list-name} was synchronized with Mailchimp: {subscriber-count} subscribers.</p>` +
			`<p>{subscriptions-link}</p>`,
	},
}

// ContentStore loads customized mail templates
type ContentStore interface {
	GetContent(ctx context.Context, key string) (*Content, error)
}

// ContentRepository reads templates from the custom_contents table
type ContentRepository struct {
	db database.DBTX
}

// NewContentRepository creates a new content repository
func NewContentRepository(db database.DBTX) *ContentRepository {
	return &ContentRepository{db: db}
}

// GetContent returns the stored template or nil
func (r *ContentRepository) GetContent(ctx context.Context, key string) (*Content, error) {
	c := &Content{}
	err := r.db.QueryRowContext(ctx,
		`SELECT key, subject, body FROM custom_contents WHERE key = $1`, key,
	).Scan(&c.Key, &c.Subject, &c.Body)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get content %s: %w", key, err)
	}
	return c, nil
}
