package export

import "strings"

// AddressStrategy exports names, email, postal address and roles
type AddressStrategy struct{}

var addressHeader = []string{
	"First name",
	"Last name",
	"Nickname",
	"Company name",
	"Company",
	"Email",
	"Address",
	"Zip code",
	"Town",
	"Country",
	"Roles",
}

// Table renders the address columns
func (s *AddressStrategy) Table(rows []Row) [][]string {
	table := make([][]string, 0, len(rows)+1)
	table = append(table, append([]string(nil), addressHeader...))
	for _, r := range rows {
		table = append(table, addressRecord(r))
	}
	return table
}

func addressRecord(r Row) []string {
	p := r.Person
	return []string{
		p.FirstName,
		p.LastName,
		p.Nickname,
		p.CompanyName,
		boolLabel(p.Company),
		p.EmailAddress(),
		p.Address,
		p.ZipCode,
		p.Town,
		p.Country,
		strings.Join(r.Roles, ", "),
	}
}
