// Package participationtest provides an in-memory participation store for
// tests of the packages building on participations.
package participationtest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/fkhayef/membership/internal/event"
	"github.com/fkhayef/membership/internal/participation"
	"github.com/fkhayef/membership/internal/person"
)

// Store is an in-memory participation.Store. InTx rolls back every change
// made by a failing function.
type Store struct {
	mu             sync.Mutex
	nextID         int64
	participations map[int64]participation.Participation
	applications   map[int64]participation.Application
	roles          map[int64]participation.Role
	people         map[int64]*person.Person

	// FailOn makes the named method return the error, e.g. "CreateRole"
	FailOn map[string]error
}

var _ participation.Store = (*Store)(nil)

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		participations: make(map[int64]participation.Participation),
		applications:   make(map[int64]participation.Application),
		roles:          make(map[int64]participation.Role),
		people:         make(map[int64]*person.Person),
		FailOn:         make(map[string]error),
	}
}

// AddPerson makes p available for hydration
func (s *Store) AddPerson(p *person.Person) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.people[p.ID] = p
}

// Seed stores p with its application and roles and returns its id
func (s *Store) Seed(p *participation.Participation) int64 {
	ctx := context.Background()
	if err := s.Create(ctx, p); err != nil {
		panic(err)
	}
	for _, r := range p.Roles {
		r.ParticipationID = p.ID
		if err := s.CreateRole(ctx, r); err != nil {
			panic(err)
		}
	}
	return p.ID
}

// Count returns the number of stored participations
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.participations)
}

// RoleCount returns the number of stored roles
func (s *Store) RoleCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.roles)
}

func (s *Store) fail(method string) error {
	if err, ok := s.FailOn[method]; ok {
		return err
	}
	return nil
}

// InTx runs fn and restores the previous state when it fails
func (s *Store) InTx(ctx context.Context, fn func(participation.Store) error) error {
	s.mu.Lock()
	snapshot := s.snapshot()
	s.mu.Unlock()

	if err := fn(s); err != nil {
		s.mu.Lock()
		s.restore(snapshot)
		s.mu.Unlock()
		return err
	}
	return nil
}

type state struct {
	nextID         int64
	participations map[int64]participation.Participation
	applications   map[int64]participation.Application
	roles          map[int64]participation.Role
}

func (s *Store) snapshot() state {
	st := state{
		nextID:         s.nextID,
		participations: make(map[int64]participation.Participation, len(s.participations)),
		applications:   make(map[int64]participation.Application, len(s.applications)),
		roles:          make(map[int64]participation.Role, len(s.roles)),
	}
	for k, v := range s.participations {
		st.participations[k] = v
	}
	for k, v := range s.applications {
		st.applications[k] = v
	}
	for k, v := range s.roles {
		st.roles[k] = v
	}
	return st
}

func (s *Store) restore(st state) {
	s.nextID = st.nextID
	s.participations = st.participations
	s.applications = st.applications
	s.roles = st.roles
}

// hydrate returns a detached copy with application, roles and person
func (s *Store) hydrate(p participation.Participation) *participation.Participation {
	out := p
	out.Application = nil
	out.Roles = nil
	if p.ApplicationID != nil {
		if a, ok := s.applications[*p.ApplicationID]; ok {
			out.Application = &a
		}
	}

	ids := make([]int64, 0)
	for id, r := range s.roles {
		if r.ParticipationID == p.ID {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		r := s.roles[id]
		out.Roles = append(out.Roles, &r)
	}

	out.Person = s.people[p.PersonID]
	return &out
}

func (s *Store) sortedIDs() []int64 {
	ids := make([]int64, 0, len(s.participations))
	for id := range s.participations {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// GetByID returns the participation or nil
func (s *Store) GetByID(_ context.Context, id int64) (*participation.Participation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("GetByID"); err != nil {
		return nil, err
	}
	p, ok := s.participations[id]
	if !ok {
		return nil, nil
	}
	return s.hydrate(p), nil
}

// ListForEvent returns the active participations of the event
func (s *Store) ListForEvent(_ context.Context, eventID int64) ([]*participation.Participation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("ListForEvent"); err != nil {
		return nil, err
	}

	var out []*participation.Participation
	for _, id := range s.sortedIDs() {
		p := s.participations[id]
		if p.EventID == eventID && p.Active {
			out = append(out, s.hydrate(p))
		}
	}
	return out, nil
}

// ListApplicationCandidates mirrors the repository query
func (s *Store) ListApplicationCandidates(_ context.Context, eventID int64) ([]*participation.Participation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("ListApplicationCandidates"); err != nil {
		return nil, err
	}

	var out []*participation.Participation
	for _, id := range s.sortedIDs() {
		p := s.hydrate(s.participations[id])
		a := p.Application
		if p.EventID == eventID || (a != nil && (a.References(eventID) || a.WaitingList)) {
			out = append(out, p)
		}
	}
	return out, nil
}

// Create stores a participation and its application
func (s *Store) Create(_ context.Context, p *participation.Participation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("Create"); err != nil {
		return err
	}

	if p.Application != nil {
		s.nextID++
		p.Application.ID = s.nextID
		s.applications[p.Application.ID] = *p.Application
		appID := p.Application.ID
		p.ApplicationID = &appID
	}

	s.nextID++
	p.ID = s.nextID
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	stored := *p
	stored.Application = nil
	stored.Roles = nil
	stored.Person = nil
	s.participations[p.ID] = stored
	return nil
}

// CreateRole stores a role
func (s *Store) CreateRole(_ context.Context, role *participation.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("CreateRole"); err != nil {
		return err
	}
	if _, ok := s.participations[role.ParticipationID]; !ok {
		return participation.ErrParticipationNotFound
	}
	s.nextID++
	role.ID = s.nextID
	s.roles[role.ID] = *role
	return nil
}

// DeleteRoles removes the roles of type t
func (s *Store) DeleteRoles(_ context.Context, participationID int64, t event.RoleType) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("DeleteRoles"); err != nil {
		return 0, err
	}
	var n int64
	for id, r := range s.roles {
		if r.ParticipationID == participationID && r.Type == t {
			delete(s.roles, id)
			n++
		}
	}
	return n, nil
}

// SetActive updates the active flag
func (s *Store) SetActive(_ context.Context, participationID int64, active bool) error {
	return s.update(participationID, "SetActive", func(p *participation.Participation) {
		p.Active = active
	})
}

// MoveToEvent reassigns the participation
func (s *Store) MoveToEvent(_ context.Context, participationID, eventID int64) error {
	return s.update(participationID, "MoveToEvent", func(p *participation.Participation) {
		p.EventID = eventID
	})
}

func (s *Store) update(id int64, method string, fn func(*participation.Participation)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail(method); err != nil {
		return err
	}
	p, ok := s.participations[id]
	if !ok {
		return participation.ErrParticipationNotFound
	}
	fn(&p)
	s.participations[id] = p
	return nil
}

// SetWaitingList updates the waiting list flag of an application
func (s *Store) SetWaitingList(_ context.Context, applicationID int64, waitingList bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("SetWaitingList"); err != nil {
		return err
	}
	a, ok := s.applications[applicationID]
	if !ok {
		return participation.ErrParticipationNotFound
	}
	a.WaitingList = waitingList
	s.applications[applicationID] = a
	return nil
}

// Delete removes a participation with roles and application
func (s *Store) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("Delete"); err != nil {
		return err
	}
	p, ok := s.participations[id]
	if !ok {
		return participation.ErrParticipationNotFound
	}
	for rid, r := range s.roles {
		if r.ParticipationID == id {
			delete(s.roles, rid)
		}
	}
	if p.ApplicationID != nil {
		delete(s.applications, *p.ApplicationID)
	}
	delete(s.participations, id)
	return nil
}

// EventRolesForPerson returns role types keyed by event id
func (s *Store) EventRolesForPerson(_ context.Context, personID int64) (map[int64][]event.RoleType, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[int64][]event.RoleType)
	for _, id := range s.sortedIDs() {
		p := s.participations[id]
		if p.PersonID != personID {
			continue
		}
		for _, r := range s.hydrate(p).Roles {
			out[p.EventID] = append(out[p.EventID], r.Type)
		}
	}
	return out, nil
}
