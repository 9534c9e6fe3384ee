package person

import (
	"strings"
	"time"
)

// Person represents a person in the system
type Person struct {
	ID                    int64      `json:"id"`
	FirstName             string     `json:"first_name"`
	LastName              string     `json:"last_name"`
	Nickname              string     `json:"nickname"`
	CompanyName           string     `json:"company_name"`
	Company               bool       `json:"company"`
	Email                 *string    `json:"email,omitempty"`
	Address               string     `json:"address"`
	ZipCode               string     `json:"zip_code"`
	Town                  string     `json:"town"`
	Country               string     `json:"country"`
	Gender                string     `json:"gender"`
	Birthday              *time.Time `json:"birthday,omitempty"`
	AdditionalInformation string     `json:"additional_information"`
	PrimaryGroupID        *int64     `json:"primary_group_id,omitempty"`
	CreatedAt             time.Time  `json:"created_at"`

	// Populated on demand
	PhoneNumbers   []*PhoneNumber   `json:"phone_numbers,omitempty"`
	SocialAccounts []*SocialAccount `json:"social_accounts,omitempty"`
}

// PhoneNumber is a labelled phone number of a person
type PhoneNumber struct {
	ID     int64  `json:"id"`
	Label  string `json:"label"`
	Number string `json:"number"`
	Public bool   `json:"public"`
}

// SocialAccount is a labelled messenger or social network handle
type SocialAccount struct {
	ID     int64  `json:"id"`
	Label  string `json:"label"`
	Name   string `json:"name"`
	Public bool   `json:"public"`
}

// FullName is first and last name
func (p *Person) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// String is the display name: the company name for companies, otherwise
// the full name followed by the nickname.
func (p *Person) String() string {
	if p.Company && p.CompanyName != "" {
		return p.CompanyName
	}
	name := p.FullName()
	if p.Nickname != "" {
		if name == "" {
			return p.Nickname
		}
		return name + " / " + p.Nickname
	}
	return name
}

// GreetingName is the name used to address the person in mails
func (p *Person) GreetingName() string {
	if p.Nickname != "" {
		return p.Nickname
	}
	if p.FirstName != "" {
		return p.FirstName
	}
	return p.String()
}

// EmailAddress returns the main email or the empty string
func (p *Person) EmailAddress() string {
	if p.Email == nil {
		return ""
	}
	return *p.Email
}

// CompleteAddress joins street, zip code, town and country on separate lines
func (p *Person) CompleteAddress() string {
	var lines []string
	if p.Address != "" {
		lines = append(lines, p.Address)
	}
	if town := strings.TrimSpace(p.ZipCode + " " + p.Town); town != "" {
		lines = append(lines, town)
	}
	if p.Country != "" {
		lines = append(lines, p.Country)
	}
	return strings.Join(lines, "\n")
}

// PublicPhoneNumbers filters phone numbers visible to everybody
func (p *Person) PublicPhoneNumbers() []*PhoneNumber {
	var out []*PhoneNumber
	for _, n := range p.PhoneNumbers {
		if n.Public {
			out = append(out, n)
		}
	}
	return out
}

// PublicSocialAccounts filters social accounts visible to everybody
func (p *Person) PublicSocialAccounts() []*SocialAccount {
	var out []*SocialAccount
	for _, a := range p.SocialAccounts {
		if a.Public {
			out = append(out, a)
		}
	}
	return out
}

// sortName is the collation key for name ordering. Companies sort by their
// company name.
func (p *Person) sortName() []string {
	last := p.LastName
	if p.Company && p.CompanyName != "" {
		last = p.CompanyName
	}
	return []string{strings.ToLower(last), strings.ToLower(p.FirstName), strings.ToLower(p.Nickname)}
}

// LessByName orders people by last name, first name and nickname
func LessByName(a, b *Person) bool {
	ka, kb := a.sortName(), b.sortName()
	for i := range ka {
		if ka[i] != kb[i] {
			return ka[i] < kb[i]
		}
	}
	return a.ID < b.ID
}
