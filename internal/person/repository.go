package person

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/fkhayef/membership/internal/database"
)

// Repository handles person data persistence
type Repository struct {
	db database.DBTX
}

// NewRepository creates a new person repository with database dependency injected
func NewRepository(db database.DBTX) *Repository {
	return &Repository{db: db}
}

const personColumns = `
	id, first_name, last_name, nickname, company_name, company, email,
	address, zip_code, town, country, gender, birthday, additional_information,
	primary_group_id, created_at
`

func scanPerson(row interface{ Scan(...any) error }) (*Person, error) {
	p := &Person{}
	err := row.Scan(
		&p.ID,
		&p.FirstName,
		&p.LastName,
		&p.Nickname,
		&p.CompanyName,
		&p.Company,
		&p.Email,
		&p.Address,
		&p.ZipCode,
		&p.Town,
		&p.Country,
		&p.Gender,
		&p.Birthday,
		&p.AdditionalInformation,
		&p.PrimaryGroupID,
		&p.CreatedAt,
	)
	return p, err
}

// GetByID retrieves a person with phone numbers and social accounts
func (r *Repository) GetByID(ctx context.Context, id int64) (*Person, error) {
	query := `SELECT ` + personColumns + ` FROM people WHERE id = $1`

	p, err := scanPerson(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get person: %w", err)
	}

	if err := r.LoadContacts(ctx, []*Person{p}); err != nil {
		return nil, err
	}
	return p, nil
}

// GetByIDs retrieves people keyed by id. Missing ids are absent from the map.
func (r *Repository) GetByIDs(ctx context.Context, ids []int64) (map[int64]*Person, error) {
	people := make(map[int64]*Person, len(ids))
	if len(ids) == 0 {
		return people, nil
	}

	query := `SELECT ` + personColumns + ` FROM people WHERE id = ANY($1)`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to get people: %w", err)
	}
	defer rows.Close()

	list := make([]*Person, 0, len(ids))
	for rows.Next() {
		p, err := scanPerson(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan person: %w", err)
		}
		people[p.ID] = p
		list = append(list, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate people: %w", err)
	}

	if err := r.LoadContacts(ctx, list); err != nil {
		return nil, err
	}
	return people, nil
}

// LoadContacts fills phone numbers and social accounts of the given people
func (r *Repository) LoadContacts(ctx context.Context, people []*Person) error {
	if len(people) == 0 {
		return nil
	}
	byID := make(map[int64]*Person, len(people))
	ids := make([]int64, 0, len(people))
	for _, p := range people {
		byID[p.ID] = p
		ids = append(ids, p.ID)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, person_id, label, number, public
		FROM phone_numbers
		WHERE person_id = ANY($1)
		ORDER BY id
	`, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("failed to load phone numbers: %w", err)
	}
	for rows.Next() {
		n := &PhoneNumber{}
		var personID int64
		if err := rows.Scan(&n.ID, &personID, &n.Label, &n.Number, &n.Public); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan phone number: %w", err)
		}
		byID[personID].PhoneNumbers = append(byID[personID].PhoneNumbers, n)
	}
	rows.Close()

	rows, err = r.db.QueryContext(ctx, `
		SELECT id, person_id, label, name, public
		FROM social_accounts
		WHERE person_id = ANY($1)
		ORDER BY id
	`, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("failed to load social accounts: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		a := &SocialAccount{}
		var personID int64
		if err := rows.Scan(&a.ID, &personID, &a.Label, &a.Name, &a.Public); err != nil {
			return fmt.Errorf("failed to scan social account: %w", err)
		}
		byID[personID].SocialAccounts = append(byID[personID].SocialAccounts, a)
	}
	return rows.Err()
}
