package mailinglist

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fkhayef/membership/internal/database"
)

// Repository handles mailing list data persistence
type Repository struct {
	db database.DBTX
}

// NewRepository creates a new mailing list repository
func NewRepository(db database.DBTX) *Repository {
	return &Repository{db: db}
}

// GetByID retrieves a mailing list by its ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*MailingList, error) {
	query := `
		SELECT id, group_id, name, mailchimp_list_id, created_at
		FROM mailing_lists
		WHERE id = $1
	`

	l := &MailingList{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&l.ID,
		&l.GroupID,
		&l.Name,
		&l.MailchimpListID,
		&l.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get mailing list: %w", err)
	}

	return l, nil
}

// SubscriberEmails returns the addresses of everyone subscribed directly or
// through an active role in a subscribed group, without excluded people
func (r *Repository) SubscriberEmails(ctx context.Context, listID int64) ([]string, error) {
	query := `
		SELECT DISTINCT p.email
		FROM people p
		WHERE p.email IS NOT NULL AND p.email <> ''
		  AND (
			p.id IN (
				SELECT s.subscriber_id FROM subscriptions s
				WHERE s.mailing_list_id = $1 AND s.subscriber_type = $2 AND NOT s.excluded
			)
			OR p.id IN (
				SELECT r.person_id FROM roles r
				JOIN subscriptions s ON s.subscriber_type = $3 AND s.subscriber_id = r.group_id
				WHERE s.mailing_list_id = $1 AND r.deleted_at IS NULL
			)
		  )
		  AND p.id NOT IN (
			SELECT s.subscriber_id FROM subscriptions s
			WHERE s.mailing_list_id = $1 AND s.subscriber_type = $2 AND s.excluded
		  )
		ORDER BY p.email
	`

	rows, err := r.db.QueryContext(ctx, query, listID, SubscriberPerson, SubscriberGroup)
	if err != nil {
		return nil, fmt.Errorf("failed to get subscribers: %w", err)
	}
	defer rows.Close()

	var emails []string
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, fmt.Errorf("failed to scan subscriber: %w", err)
		}
		emails = append(emails, email)
	}
	return emails, rows.Err()
}
