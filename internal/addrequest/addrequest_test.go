package addrequest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/fkhayef/membership/internal/apperr"
	"github.com/fkhayef/membership/internal/authz"
	"github.com/fkhayef/membership/internal/authz/authztest"
	"github.com/fkhayef/membership/internal/event"
	"github.com/fkhayef/membership/internal/group"
	"github.com/fkhayef/membership/internal/job"
	"github.com/fkhayef/membership/internal/mailer"
	"github.com/fkhayef/membership/internal/mailinglist"
	"github.com/fkhayef/membership/internal/person"
	"github.com/fkhayef/membership/pkg/middleware"
)

func strPtr(s string) *string { return &s }

func int64Ptr(v int64) *int64 { return &v }

type memStore struct {
	requests map[int64]*Request
}

func (m *memStore) Create(_ context.Context, req *Request) error {
	req.ID = int64(len(m.requests) + 1)
	m.requests[req.ID] = req
	return nil
}

func (m *memStore) GetByID(_ context.Context, id int64) (*Request, error) {
	return m.requests[id], nil
}

type fakeGroups struct {
	groups       map[int64]*group.Group
	placements   map[int64]group.Placement
	roles        map[int64][]*group.Role
	responsibles map[int64][]int64
}

func (f *fakeGroups) GetByID(_ context.Context, id int64) (*group.Group, error) {
	if g, ok := f.groups[id]; ok {
		return g, nil
	}
	return nil, group.ErrGroupNotFound
}

func (f *fakeGroups) Placement(_ context.Context, id int64) (*group.Placement, error) {
	if p, ok := f.placements[id]; ok {
		return &p, nil
	}
	return nil, group.ErrGroupNotFound
}

func (f *fakeGroups) RolesForPerson(_ context.Context, personID int64) ([]*group.Role, error) {
	return f.roles[personID], nil
}

func (f *fakeGroups) Responsibles(_ context.Context, layerID int64) ([]int64, error) {
	return f.responsibles[layerID], nil
}

type fakeEvents map[int64]*event.Event

func (f fakeEvents) GetByID(_ context.Context, id int64) (*event.Event, error) {
	if ev, ok := f[id]; ok {
		return ev, nil
	}
	return nil, event.ErrEventNotFound
}

type fakeLists map[int64]*mailinglist.MailingList

func (f fakeLists) GetByID(_ context.Context, id int64) (*mailinglist.MailingList, error) {
	if l, ok := f[id]; ok {
		return l, nil
	}
	return nil, mailinglist.ErrMailingListNotFound
}

type fakePeople map[int64]*person.Person

func (f fakePeople) GetByID(_ context.Context, id int64) (*person.Person, error) {
	if p, ok := f[id]; ok {
		return p, nil
	}
	return nil, person.ErrPersonNotFound
}

func (f fakePeople) GetByIDs(_ context.Context, ids []int64) (map[int64]*person.Person, error) {
	out := make(map[int64]*person.Person)
	for _, id := range ids {
		if p, ok := f[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

type recordTransport struct {
	sent []*mailer.Message
}

func (r *recordTransport) Send(_ context.Context, msg *mailer.Message) error {
	r.sent = append(r.sent, msg)
	return nil
}

const (
	requesterID   int64 = 1
	personID      int64 = 2
	noEmailID     int64 = 3
	leaderID      int64 = 4
	topLayerID    int64 = 1
	bottomLayerID int64 = 10
)

type fixture struct {
	store     *memStore
	groups    *fakeGroups
	people    fakePeople
	queue     *job.MemoryQueue
	transport *recordTransport
	bodies    *BodyResolver
}

func newFixture() *fixture {
	f := &fixture{
		store: &memStore{requests: make(map[int64]*Request)},
		groups: &fakeGroups{
			groups: map[int64]*group.Group{
				topLayerID:    {ID: topLayerID, Type: "top_layer", Name: "Top", LayerGroupID: topLayerID},
				bottomLayerID: {ID: bottomLayerID, Type: "bottom_layer", Name: "Bottom One", LayerGroupID: bottomLayerID},
			},
			placements: map[int64]group.Placement{
				topLayerID:    {GroupID: topLayerID, LayerGroupID: topLayerID, LayerAncestorIDs: []int64{topLayerID}},
				bottomLayerID: {GroupID: bottomLayerID, LayerGroupID: bottomLayerID, LayerAncestorIDs: []int64{bottomLayerID, topLayerID}},
			},
			roles: map[int64][]*group.Role{
				requesterID: {
					{Type: "bottom_layer_leader", GroupID: bottomLayerID, LayerGroupID: bottomLayerID, GroupName: "Bottom One"},
					{Type: "bottom_layer_member", GroupID: bottomLayerID, LayerGroupID: bottomLayerID, GroupName: "Bottom One"},
				},
			},
			responsibles: map[int64][]int64{topLayerID: {leaderID}},
		},
		people: fakePeople{
			requesterID: {ID: requesterID, FirstName: "Rolf", LastName: "Requester", Email: strPtr("rolf@example.com")},
			personID:    {ID: personID, FirstName: "Pia", LastName: "Person", Email: strPtr("pia@example.com")},
			noEmailID:   {ID: noEmailID, FirstName: "Nora", LastName: "Nomail", PrimaryGroupID: int64Ptr(topLayerID)},
			leaderID:    {ID: leaderID, FirstName: "Lea", LastName: "Leader", Email: strPtr("lea@example.com")},
		},
		queue:     job.NewMemoryQueue(3),
		transport: &recordTransport{},
	}
	events := fakeEvents{5: {ID: 5, Name: "Camp", GroupIDs: []int64{bottomLayerID}}}
	lists := fakeLists{7: {ID: 7, GroupID: bottomLayerID, Name: "News"}}
	f.bodies = NewBodyResolver(f.groups, events, lists)
	return f
}

func (f *fixture) service(allowed ...authz.Action) *Service {
	return NewService(f.store, f.bodies, f.people, authztest.Allow(allowed...), f.queue)
}

func (f *fixture) notifier() *Notifier {
	composer := mailer.NewComposer(nil, mailer.NewLinks("http://test.host"), "noreply@test.host")
	return NewNotifier(f.store, f.bodies, f.groups, f.people, composer, f.transport)
}

func TestResolveBodies(t *testing.T) {
	f := newFixture()
	tests := []struct {
		kind    mailer.BodyKind
		id      int64
		name    string
		groupID int64
	}{
		{mailer.BodyGroup, bottomLayerID, "Bottom Layer Bottom One", bottomLayerID},
		{mailer.BodyEvent, 5, "Event Camp", bottomLayerID},
		{mailer.BodyMailingList, 7, "Mailing list News", bottomLayerID},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			body, _, err := f.bodies.Resolve(context.Background(), tt.kind, tt.id)
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			if body.DisplayName() != tt.name || body.GroupID != tt.groupID {
				t.Fatalf("body = %+v (%q)", body, body.DisplayName())
			}
		})
	}

	if _, _, err := f.bodies.Resolve(context.Background(), "Person", 1); apperr.KindOf(err) != apperr.KindValidation {
		t.Fatalf("unknown kind: %v", err)
	}
	if _, _, err := f.bodies.Resolve(context.Background(), mailer.BodyEvent, 99); apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("missing event: %v", err)
	}
}

func TestCreate(t *testing.T) {
	f := newFixture()

	req, body, err := f.service(authz.ActionUpdate).Create(context.Background(), requesterID, CreateRequest{
		PersonID: personID,
		BodyType: "Group",
		BodyID:   bottomLayerID,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if req.ID == 0 || req.RequesterID != requesterID || body.Kind != mailer.BodyGroup {
		t.Fatalf("request = %+v", req)
	}
	pending := f.queue.Pending()
	if len(pending) != 1 || pending[0].Kind != job.KindAddRequestNotification {
		t.Fatalf("jobs = %+v", pending)
	}
}

func TestCreateErrors(t *testing.T) {
	tests := []struct {
		name    string
		allowed []authz.Action
		in      CreateRequest
		want    apperr.Kind
	}{
		{name: "invalid body type", allowed: []authz.Action{authz.ActionUpdate}, in: CreateRequest{PersonID: personID, BodyType: "Person", BodyID: 1}, want: apperr.KindValidation},
		{name: "missing person id", allowed: []authz.Action{authz.ActionUpdate}, in: CreateRequest{BodyType: "Group", BodyID: bottomLayerID}, want: apperr.KindValidation},
		{name: "unknown person", allowed: []authz.Action{authz.ActionUpdate}, in: CreateRequest{PersonID: 99, BodyType: "Group", BodyID: bottomLayerID}, want: apperr.KindNotFound},
		{name: "yourself", allowed: []authz.Action{authz.ActionUpdate}, in: CreateRequest{PersonID: requesterID, BodyType: "Group", BodyID: bottomLayerID}, want: apperr.KindValidation},
		{name: "no write permission", in: CreateRequest{PersonID: personID, BodyType: "MailingList", BodyID: 7}, want: apperr.KindForbidden},
		{name: "unknown group", allowed: []authz.Action{authz.ActionUpdate}, in: CreateRequest{PersonID: personID, BodyType: "Group", BodyID: 99}, want: apperr.KindNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			_, _, err := f.service(tt.allowed...).Create(context.Background(), requesterID, tt.in)
			if apperr.KindOf(err) != tt.want {
				t.Fatalf("err = %v, want kind %v", err, tt.want)
			}
			if len(f.store.requests) != 0 || len(f.queue.Pending()) != 0 {
				t.Fatal("nothing may be stored or enqueued")
			}
		})
	}
}

func TestNotifierAsksPerson(t *testing.T) {
	f := newFixture()
	f.store.Create(context.Background(), &Request{PersonID: personID, RequesterID: requesterID, BodyType: mailer.BodyGroup, BodyID: bottomLayerID})

	if err := f.notifier().Handle(context.Background(), job.AddRequestNotification{RequestID: 1}); err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if len(f.transport.sent) != 1 {
		t.Fatalf("sent %d mails", len(f.transport.sent))
	}
	msg := f.transport.sent[0]
	if msg.To[0] != "pia@example.com" || msg.Sender != "noreply+rolf=example.com@test.host" {
		t.Fatalf("to = %v sender = %q", msg.To, msg.Sender)
	}
	if !strings.Contains(msg.HTMLBody, "Leader in Bottom One") || strings.Contains(msg.HTMLBody, "Member") {
		t.Fatalf("body = %s", msg.HTMLBody)
	}
}

func TestNotifierAsksResponsibles(t *testing.T) {
	f := newFixture()
	f.store.Create(context.Background(), &Request{PersonID: noEmailID, RequesterID: requesterID, BodyType: mailer.BodyEvent, BodyID: 5})

	if err := f.notifier().Handle(context.Background(), job.AddRequestNotification{RequestID: 1}); err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if len(f.transport.sent) != 1 {
		t.Fatalf("sent %d mails", len(f.transport.sent))
	}
	msg := f.transport.sent[0]
	if len(msg.To) != 1 || msg.To[0] != "lea@example.com" {
		t.Fatalf("to = %v", msg.To)
	}
	for _, want := range []string{"Hello Lea", "Nora Nomail", "/groups/1/person_add_requests?", "person_id=3"} {
		if !strings.Contains(msg.HTMLBody, want) {
			t.Errorf("body misses %q: %s", want, msg.HTMLBody)
		}
	}
}

func TestNotifierSkips(t *testing.T) {
	f := newFixture()
	f.people[noEmailID].PrimaryGroupID = nil
	f.store.Create(context.Background(), &Request{PersonID: noEmailID, RequesterID: requesterID, BodyType: mailer.BodyGroup, BodyID: bottomLayerID})

	n := f.notifier()
	for _, id := range []int64{1, 42} {
		if err := n.Handle(context.Background(), job.AddRequestNotification{RequestID: id}); err != nil {
			t.Fatalf("request %d: %v", id, err)
		}
	}
	if len(f.transport.sent) != 0 {
		t.Fatalf("sent %d mails", len(f.transport.sent))
	}
}

func TestHandlerCreate(t *testing.T) {
	f := newFixture()
	r := chi.NewRouter()
	r.Mount("/person_add_requests", NewHandler(f.service(authz.ActionUpdate)).Routes())

	body := `{"person_id":2,"body_type":"Event","body_id":5,"role_type":"participant"}`
	req := httptest.NewRequest(http.MethodPost, "/person_add_requests", strings.NewReader(body))
	req = req.WithContext(middleware.WithPersonID(req.Context(), requesterID))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
	}
	var out struct {
		Data RequestResponse `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Data.BodyName != "Event Camp" || out.Data.RoleType != "participant" {
		t.Fatalf("response = %+v", out.Data)
	}
}
