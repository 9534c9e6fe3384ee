package export

import (
	"sort"
	"strings"
)

// FullStrategy exports the address columns plus personal details, every
// phone number and social account, and the application
type FullStrategy struct{}

// Table renders the full columns. Phone numbers and social accounts get one
// column per label found in rows.
func (s *FullStrategy) Table(rows []Row) [][]string {
	phoneLabels, accountLabels := contactLabels(rows)

	header := append([]string(nil), addressHeader...)
	header = append(header, "Gender", "Birthday", "Personal information")
	for _, l := range phoneLabels {
		header = append(header, "Phone number "+l)
	}
	for _, l := range accountLabels {
		header = append(header, "Social account "+l)
	}
	header = append(header, "Participation information", "Priority 1", "Priority 2", "Priority 3", "Waiting list")

	table := make([][]string, 0, len(rows)+1)
	table = append(table, header)
	for _, r := range rows {
		table = append(table, fullRecord(r, phoneLabels, accountLabels))
	}
	return table
}

func fullRecord(r Row, phoneLabels, accountLabels []string) []string {
	p := r.Person
	record := addressRecord(r)

	birthday := ""
	if p.Birthday != nil {
		birthday = p.Birthday.Format("2006-01-02")
	}
	record = append(record, p.Gender, birthday, p.AdditionalInformation)

	phones := make(map[string][]string)
	for _, n := range p.PhoneNumbers {
		phones[n.Label] = append(phones[n.Label], n.Number)
	}
	for _, l := range phoneLabels {
		record = append(record, strings.Join(phones[l], ", "))
	}

	accounts := make(map[string][]string)
	for _, a := range p.SocialAccounts {
		accounts[a.Label] = append(accounts[a.Label], a.Name)
	}
	for _, l := range accountLabels {
		record = append(record, strings.Join(accounts[l], ", "))
	}

	record = append(record, r.AdditionalInformation)
	if a := r.Application; a != nil {
		record = append(record, a.Priority1, a.Priority2, a.Priority3, boolLabel(a.WaitingList))
	} else {
		record = append(record, "", "", "", "")
	}
	return record
}

func contactLabels(rows []Row) (phones, accounts []string) {
	seenPhone := make(map[string]bool)
	seenAccount := make(map[string]bool)
	for _, r := range rows {
		for _, n := range r.Person.PhoneNumbers {
			if !seenPhone[n.Label] {
				seenPhone[n.Label] = true
				phones = append(phones, n.Label)
			}
		}
		for _, a := range r.Person.SocialAccounts {
			if !seenAccount[a.Label] {
				seenAccount[a.Label] = true
				accounts = append(accounts, a.Label)
			}
		}
	}
	sort.Strings(phones)
	sort.Strings(accounts)
	return phones, accounts
}
