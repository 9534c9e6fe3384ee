package person

// PersonResponse represents the public view of a person
type PersonResponse struct {
	ID              int64                    `json:"id"`
	Name            string                   `json:"name"`
	FirstName       string                   `json:"first_name"`
	LastName        string                   `json:"last_name"`
	Nickname        string                   `json:"nickname,omitempty"`
	Email           string                   `json:"email,omitempty"`
	CompleteAddress string                   `json:"complete_address,omitempty"`
	PhoneNumbers    []*PhoneNumberResponse   `json:"phone_numbers,omitempty"`
	SocialAccounts  []*SocialAccountResponse `json:"social_accounts,omitempty"`
}

// PhoneNumberResponse represents a phone number in a person response
type PhoneNumberResponse struct {
	Label  string `json:"label"`
	Number string `json:"number"`
}

// SocialAccountResponse represents a social account in a person response
type SocialAccountResponse struct {
	Label string `json:"label"`
	Name  string `json:"name"`
}

// ToResponse converts a Person model to a PersonResponse DTO. Only public
// phone numbers and social accounts are included.
func (p *Person) ToResponse() *PersonResponse {
	resp := &PersonResponse{
		ID:              p.ID,
		Name:            p.String(),
		FirstName:       p.FirstName,
		LastName:        p.LastName,
		Nickname:        p.Nickname,
		Email:           p.EmailAddress(),
		CompleteAddress: p.CompleteAddress(),
	}
	for _, n := range p.PublicPhoneNumbers() {
		resp.PhoneNumbers = append(resp.PhoneNumbers, &PhoneNumberResponse{Label: n.Label, Number: n.Number})
	}
	for _, a := range p.PublicSocialAccounts() {
		resp.SocialAccounts = append(resp.SocialAccounts, &SocialAccountResponse{Label: a.Label, Name: a.Name})
	}
	return resp
}
