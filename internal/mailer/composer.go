package mailer

import (
	"context"
	"html"
	"strconv"
	"strings"

	"github.com/fkhayef/membership/internal/event"
	"github.com/fkhayef/membership/internal/group"
	"github.com/fkhayef/membership/internal/person"
)

// Message is a composed mail
type Message struct {
	From     string
	Sender   string
	To       []string
	Subject  string
	HTMLBody string
}

// AddRequest is everything the add request mails talk about
type AddRequest struct {
	Person    *person.Person
	Requester *person.Person

	// RequesterRoles are all active group roles of the requester
	RequesterRoles []*group.Role

	Body Body

	// BodyPlacement locates the body's group in the layer hierarchy
	BodyPlacement group.Placement
}

// Composer renders mails from templates
type Composer struct {
	contents ContentStore
	links    Links
	from     string
}

// NewComposer creates a composer. from is the default sender address.
func NewComposer(contents ContentStore, links Links, from string) *Composer {
	return &Composer{contents: contents, links: links, from: from}
}

// Links returns the composer's link builder
func (c *Composer) Links() Links {
	return c.links
}

// AskPersonToAdd asks the requested person to release their data
func (c *Composer) AskPersonToAdd(ctx context.Context, req AddRequest) (*Message, error) {
	content, err := c.content(ctx, ContentAddRequestPerson)
	if err != nil {
		return nil, err
	}

	values := c.requestValues(req)
	values["recipient-name"] = html.EscapeString(req.Person.GreetingName())
	values["request-link"] = anchor(c.links.RequestedPersonURL(req.Person.ID, req.Body), "To the request")

	return &Message{
		From:     c.from,
		Sender:   c.sender(req.Requester),
		To:       []string{req.Person.EmailAddress()},
		Subject:  content.Subject,
		HTMLBody: render(content.Body, values),
	}, nil
}

// AskResponsibles asks the people responsible for the requested person's
// layer to release the person's data
func (c *Composer) AskResponsibles(ctx context.Context, req AddRequest, responsibles []*person.Person, personLayerID int64) (*Message, error) {
	content, err := c.content(ctx, ContentAddRequestResponsibles)
	if err != nil {
		return nil, err
	}

	to := make([]string, 0, len(responsibles))
	names := make([]string, 0, len(responsibles))
	for _, r := range responsibles {
		if email := r.EmailAddress(); email != "" {
			to = append(to, email)
		}
		names = append(names, r.GreetingName())
	}

	values := c.requestValues(req)
	values["recipient-names"] = html.EscapeString(strings.Join(names, ", "))
	values["request-link"] = anchor(c.links.ResponsiblesRequestURL(personLayerID, req.Body, req.Person.ID), "To the request")

	return &Message{
		From:     c.from,
		Sender:   c.sender(req.Requester),
		To:       to,
		Subject:  content.Subject,
		HTMLBody: render(content.Body, values),
	}, nil
}

// ParticipationConfirmation confirms a registration to the participant
func (c *Composer) ParticipationConfirmation(ctx context.Context, p *person.Person, ev *event.Event, groupID, participationID int64) (*Message, error) {
	content, err := c.content(ctx, ContentParticipationConfirmation)
	if err != nil {
		return nil, err
	}

	values := map[string]string{
		"recipient-name":     html.EscapeString(p.GreetingName()),
		"event-name":         html.EscapeString(ev.Name),
		"participation-link": anchor(c.links.ParticipationURL(groupID, ev.ID, participationID), "Show registration"),
	}

	return &Message{
		From:     c.from,
		Sender:   c.from,
		To:       []string{p.EmailAddress()},
		Subject:  content.Subject,
		HTMLBody: render(content.Body, values),
	}, nil
}

// SynchronizationReport tells the person who started a mailing list
// synchronization how many subscribers were pushed
func (c *Composer) SynchronizationReport(ctx context.Context, p *person.Person, listID int64, listName string, subscribers int) (*Message, error) {
	content, err := c.content(ctx, ContentMailingListSynchronized)
	if err != nil {
		return nil, err
	}

	values := map[string]string{
		"recipient-name":     html.EscapeString(p.GreetingName()),
		"list-name":          html.EscapeString(listName),
		"subscriber-count":   strconv.Itoa(subscribers),
		"subscriptions-link": anchor(c.links.SubscriptionsURL(listID), "Show subscriptions"),
	}

	return &Message{
		From:     c.from,
		Sender:   c.from,
		To:       []string{p.EmailAddress()},
		Subject:  content.Subject,
		HTMLBody: render(content.Body, values),
	}, nil
}

// WriteRoles lists the requester roles granting write access on the body,
// e.g. "Leader in Bottom One, Leader in TopGroup"
func WriteRoles(roles []*group.Role, p group.Placement) string {
	writers := group.WriteRolesOn(roles, p)
	names := make([]string, len(writers))
	for i, r := range writers {
		names[i] = r.String()
	}
	return strings.Join(names, ", ")
}

func (c *Composer) requestValues(req AddRequest) map[string]string {
	return map[string]string{
		"requester-name":     html.EscapeString(req.Requester.FullName()),
		"person-name":        html.EscapeString(req.Person.FullName()),
		"request-body-label": html.EscapeString(req.Body.Label()),
		"request-body-name":  html.EscapeString(req.Body.Name),
		"request-body-link":  anchor(c.links.BodyURL(req.Body), req.Body.DisplayName()),
		"requester-roles":    html.EscapeString(WriteRoles(req.RequesterRoles, req.BodyPlacement)),
	}
}

func (c *Composer) content(ctx context.Context, key string) (Content, error) {
	if c.contents != nil {
		custom, err := c.contents.GetContent(ctx, key)
		if err != nil {
			return Content{}, err
		}
		if custom != nil {
			return *custom, nil
		}
	}
	return defaultContents[key], nil
}

// sender puts the requester address into the local part of the default
// sender, so replies can be traced, e.g. noreply+tom=example.com@host
func (c *Composer) sender(requester *person.Person) string {
	email := requester.EmailAddress()
	at := strings.LastIndex(c.from, "@")
	if email == "" || at < 0 {
		return c.from
	}
	return c.from[:at] + "+" + strings.ReplaceAll(email, "@", "=") + c.from[at:]
}

func anchor(href, text string) string {
	return `<a href="` + href + `">` + html.EscapeString(text) + `</a>`
}

func render(tmpl string, values map[string]string) string {
	pairs := make([]string, 0, len(values)*2)
	for k, v := range values {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}
