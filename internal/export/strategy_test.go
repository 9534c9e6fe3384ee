package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/fkhayef/membership/internal/person"
)

func sampleRows() []Row {
	email := "tom@example.com"
	birthday := time.Date(2001, time.April, 3, 0, 0, 0, 0, time.UTC)
	return []Row{
		{
			Person: &person.Person{
				FirstName:             "Tom",
				LastName:              "Tester",
				Nickname:              "Tomy",
				Email:                 &email,
				Address:               "Main Street 1",
				ZipCode:               "3000",
				Town:                  "Bern",
				Gender:                "m",
				Birthday:              &birthday,
				AdditionalInformation: "vegetarian",
				PhoneNumbers: []*person.PhoneNumber{
					{Label: "Mobile", Number: "079 123 45 67"},
					{Label: "Home", Number: "031 123 45 67", Public: true},
				},
				SocialAccounts: []*person.SocialAccount{{Label: "Skype", Name: "tomy"}},
			},
			Roles:                 []string{"Participant"},
			AdditionalInformation: "arrives late",
			Application:           &ApplicationInfo{Priority1: "Course A", Priority2: "Course B", WaitingList: true},
		},
		{
			Person: &person.Person{FirstName: "Ann", LastName: "Other", Company: true, CompanyName: "Acme"},
			Roles:  []string{"Leader", "Cook"},
		},
	}
}

func TestFactory(t *testing.T) {
	f := NewFactory()

	s, err := f.Create(FormatAddress)
	if err != nil {
		t.Fatalf("Create(address): %v", err)
	}
	if _, ok := s.(*AddressStrategy); !ok {
		t.Fatalf("address strategy = %T", s)
	}

	s, err = f.Create(FormatFull)
	if err != nil {
		t.Fatalf("Create(full): %v", err)
	}
	if _, ok := s.(*FullStrategy); !ok {
		t.Fatalf("full strategy = %T", s)
	}

	if _, err := f.Create("PDF"); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestAddressExcludesFullColumns(t *testing.T) {
	table := (&AddressStrategy{}).Table(sampleRows())

	header := strings.Join(table[0], "|")
	for _, col := range []string{"Gender", "Birthday", "Phone number", "Social account", "Priority 1", "Waiting list", "Personal information"} {
		if strings.Contains(header, col) {
			t.Fatalf("address header contains %q", col)
		}
	}

	if len(table) != 3 {
		t.Fatalf("rows = %d, want 3", len(table))
	}
	if table[2][10] != "Leader, Cook" {
		t.Fatalf("roles = %q", table[2][10])
	}
	for _, cell := range table[1] {
		if cell == "vegetarian" || cell == "079 123 45 67" {
			t.Fatalf("address export leaks %q", cell)
		}
	}
}

func TestFullIsSupersetOfAddress(t *testing.T) {
	rows := sampleRows()
	address := (&AddressStrategy{}).Table(rows)
	full := (&FullStrategy{}).Table(rows)

	for i := range address {
		for j, cell := range address[i] {
			if full[i][j] != cell {
				t.Fatalf("full[%d][%d] = %q, want %q", i, j, full[i][j], cell)
			}
		}
	}

	header := full[0]
	col := func(name string) int {
		for i, h := range header {
			if h == name {
				return i
			}
		}
		t.Fatalf("missing column %q in %v", name, header)
		return -1
	}

	tom := full[1]
	if tom[col("Birthday")] != "2001-04-03" {
		t.Fatalf("birthday = %q", tom[col("Birthday")])
	}
	if tom[col("Phone number Mobile")] != "079 123 45 67" {
		t.Fatal("non public phone numbers belong in the full export")
	}
	if tom[col("Social account Skype")] != "tomy" {
		t.Fatal("missing social account")
	}
	if tom[col("Priority 2")] != "Course B" || tom[col("Waiting list")] != "yes" {
		t.Fatal("missing application columns")
	}

	ann := full[2]
	if len(ann) != len(header) {
		t.Fatalf("record width %d, header width %d", len(ann), len(header))
	}
	if ann[col("Priority 1")] != "" {
		t.Fatal("rows without application have empty priorities")
	}
}

func TestCSV(t *testing.T) {
	out, err := CSV(&AddressStrategy{}, sampleRows())
	if err != nil {
		t.Fatalf("CSV: %v", err)
	}

	records, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(records) != 3 || records[1][0] != "Tom" {
		t.Fatalf("records = %v", records)
	}
}
