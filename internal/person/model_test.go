package person

import (
	"sort"
	"testing"
)

func TestPersonString(t *testing.T) {
	tests := []struct {
		name   string
		person Person
		want   string
	}{
		{name: "full name", person: Person{FirstName: "Anna", LastName: "Meier"}, want: "Anna Meier"},
		{name: "with nickname", person: Person{FirstName: "Anna", LastName: "Meier", Nickname: "Fuchs"}, want: "Anna Meier / Fuchs"},
		{name: "nickname only", person: Person{Nickname: "Fuchs"}, want: "Fuchs"},
		{name: "company", person: Person{FirstName: "Anna", Company: true, CompanyName: "Acme"}, want: "Acme"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.person.String(); got != tt.want {
				t.Fatalf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGreetingName(t *testing.T) {
	if got := (&Person{FirstName: "Anna", Nickname: "Fuchs"}).GreetingName(); got != "Fuchs" {
		t.Fatalf("greeting = %q, want Fuchs", got)
	}
	if got := (&Person{FirstName: "Anna", LastName: "Meier"}).GreetingName(); got != "Anna" {
		t.Fatalf("greeting = %q, want Anna", got)
	}
}

func TestCompleteAddress(t *testing.T) {
	p := &Person{Address: "Bahnhofstrasse 1", ZipCode: "3000", Town: "Bern", Country: "CH"}
	want := "Bahnhofstrasse 1\n3000 Bern\nCH"
	if got := p.CompleteAddress(); got != want {
		t.Fatalf("address = %q, want %q", got, want)
	}
	if got := (&Person{}).CompleteAddress(); got != "" {
		t.Fatalf("empty address = %q", got)
	}
}

func TestLessByName(t *testing.T) {
	people := []*Person{
		{ID: 1, FirstName: "Zoe", LastName: "Meier"},
		{ID: 2, FirstName: "Anna", LastName: "meier"},
		{ID: 3, FirstName: "Bea", LastName: "Ammann"},
		{ID: 4, Company: true, CompanyName: "Bauhaus"},
	}
	sort.Slice(people, func(i, j int) bool { return LessByName(people[i], people[j]) })

	want := []int64{3, 4, 2, 1}
	for i, p := range people {
		if p.ID != want[i] {
			t.Fatalf("position %d = %d, want %d", i, p.ID, want[i])
		}
	}
}

func TestToResponseHidesPrivateContacts(t *testing.T) {
	p := &Person{
		ID:        1,
		FirstName: "Anna",
		PhoneNumbers: []*PhoneNumber{
			{Label: "Mobile", Number: "079", Public: true},
			{Label: "Private", Number: "031", Public: false},
		},
		SocialAccounts: []*SocialAccount{{Label: "Skype", Name: "anna", Public: false}},
	}
	resp := p.ToResponse()
	if len(resp.PhoneNumbers) != 1 || resp.PhoneNumbers[0].Number != "079" {
		t.Fatalf("phone numbers = %+v", resp.PhoneNumbers)
	}
	if len(resp.SocialAccounts) != 0 {
		t.Fatalf("social accounts = %+v", resp.SocialAccounts)
	}
}
