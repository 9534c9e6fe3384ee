package participation

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strconv"
	"time"

	"github.com/fkhayef/membership/internal/apperr"
	"github.com/fkhayef/membership/internal/authz"
	"github.com/fkhayef/membership/internal/event"
	"github.com/fkhayef/membership/internal/export"
	"github.com/fkhayef/membership/internal/job"
	"github.com/fkhayef/membership/internal/person"
)

// Common errors
var (
	ErrParticipationNotFound = apperr.NotFound("participation not found")
	ErrApplicationNotFound   = apperr.NotFound("participation has no application")
)

// List filters
const (
	FilterAll          = "all"
	FilterLeaders      = "leaders"
	FilterParticipants = "participants"
)

// Store is the persistence the participation features need
type Store interface {
	InTx(ctx context.Context, fn func(Store) error) error

	GetByID(ctx context.Context, id int64) (*Participation, error)
	ListForEvent(ctx context.Context, eventID int64) ([]*Participation, error)
	ListApplicationCandidates(ctx context.Context, eventID int64) ([]*Participation, error)

	Create(ctx context.Context, p *Participation) error
	CreateRole(ctx context.Context, role *Role) error
	DeleteRoles(ctx context.Context, participationID int64, t event.RoleType) (int64, error)
	SetActive(ctx context.Context, participationID int64, active bool) error
	SetWaitingList(ctx context.Context, applicationID int64, waitingList bool) error
	MoveToEvent(ctx context.Context, participationID, eventID int64) error
	Delete(ctx context.Context, id int64) error

	EventRolesForPerson(ctx context.Context, personID int64) (map[int64][]event.RoleType, error)
}

// EventLookup loads events
type EventLookup interface {
	GetInGroup(ctx context.Context, groupID, eventID int64) (*event.Event, error)
	Alternatives(ctx context.Context, e *event.Event) ([]*event.Event, error)
}

// PersonLookup loads people
type PersonLookup interface {
	GetByID(ctx context.Context, id int64) (*person.Person, error)
}

// Service handles the participation lifecycle
type Service struct {
	store   Store
	events  EventLookup
	people  PersonLookup
	authz   authz.Authorizer
	jobs    job.Enqueuer
	exports *export.Factory
	now     func() time.Time
}

// NewService creates a new participation service
func NewService(store Store, events EventLookup, people PersonLookup, az authz.Authorizer, jobs job.Enqueuer) *Service {
	return &Service{
		store:   store,
		events:  events,
		people:  people,
		authz:   az,
		jobs:    jobs,
		exports: export.NewFactory(),
		now:     time.Now,
	}
}

// SetClock replaces the service's time source
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// Draft is a participation before it is saved
type Draft struct {
	Participation *Participation
	Event         *event.Event
	Alternatives  []*event.Event
}

// Result is a saved registration
type Result struct {
	Participation *Participation
	Event         *event.Event
	State         LifecycleState
	Notice        string
}

// assignsRoleOnCreate decides whether a new participation gets its
// participant role right away. Without applications every registration is
// a participant. With applications only people allowed to create
// participations skip the market, and only when registering someone else.
func assignsRoleOnCreate(supportsApplications, canCreate, forSomeoneElse bool) bool {
	return !supportsApplications || (canCreate && forSomeoneElse)
}

// New prepares a draft participation with the courses selectable as
// alternative priorities
func (s *Service) New(ctx context.Context, actorID, groupID, eventID int64, req CreateParticipationRequest) (*Draft, error) {
	ev, err := s.events.GetInGroup(ctx, groupID, eventID)
	if err != nil {
		return nil, err
	}

	intent, err := deriveIntent(req, ev, actorID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeRegistration(ctx, actorID, ev, intent); err != nil {
		return nil, err
	}
	if err := s.checkPreconditions(ctx, actorID, groupID, ev, intent); err != nil {
		return nil, err
	}

	draft := &Draft{
		Participation: &Participation{
			EventID:     ev.ID,
			PersonID:    intent.personID,
			Application: intent.application,
		},
		Event: ev,
	}

	if intent.application != nil && ev.Priorization {
		draft.Alternatives, err = s.events.Alternatives(ctx, ev)
		if err != nil {
			return nil, err
		}
	}
	return draft, nil
}

// Create registers a person for an event. The participation, its
// application and an automatic participant role are stored in one
// transaction. People registering themselves get a confirmation mail.
func (s *Service) Create(ctx context.Context, actorID, groupID, eventID int64, req CreateParticipationRequest) (*Result, error) {
	if err := apperr.Validate(req); err != nil {
		return nil, err
	}

	ev, err := s.events.GetInGroup(ctx, groupID, eventID)
	if err != nil {
		return nil, err
	}

	intent, err := deriveIntent(req, ev, actorID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeRegistration(ctx, actorID, ev, intent); err != nil {
		return nil, err
	}

	p, err := s.people.GetByID(ctx, intent.personID)
	if err != nil {
		return nil, err
	}

	if err := s.checkPreconditions(ctx, actorID, groupID, ev, intent); err != nil {
		return nil, err
	}

	canCreate, err := s.authz.Can(ctx, actorID, authz.ActionCreate, authz.EventTarget(ev))
	if err != nil {
		return nil, err
	}
	assign := assignsRoleOnCreate(ev.SupportsApplications, canCreate, intent.forSomeoneElse)

	participation := &Participation{
		EventID:               ev.ID,
		PersonID:              p.ID,
		Active:                assign,
		AdditionalInformation: req.AdditionalInformation,
		Application:           intent.application,
		Person:                p,
	}

	err = s.store.InTx(ctx, func(tx Store) error {
		if err := tx.Create(ctx, participation); err != nil {
			return err
		}
		if !assign {
			return nil
		}
		role := &Role{ParticipationID: participation.ID, Type: ev.ParticipantType()}
		if err := tx.CreateRole(ctx, role); err != nil {
			return err
		}
		participation.Roles = append(participation.Roles, role)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if participation.PersonID == actorID {
		s.enqueueConfirmation(ctx, participation)
	}

	result := &Result{
		Participation: participation,
		Event:         ev,
		State:         StateRolePending,
		Notice:        createdNotice(participation, ev, s.isCourseSelfRegistration(actorID, ev, intent)),
	}
	if assign {
		result.State = StateRoleAssigned
	}
	return result, nil
}

func (s *Service) enqueueConfirmation(ctx context.Context, p *Participation) {
	id, err := s.jobs.Enqueue(ctx, job.KindParticipationConfirmation, job.ParticipationConfirmation{ParticipationID: p.ID})
	if err != nil {
		log.Printf("failed to enqueue confirmation for participation %d: %v", p.ID, err)
		return
	}
	log.Printf("enqueued confirmation job %s for participation %d", id, p.ID)
}

func createdNotice(p *Participation, ev *event.Event, courseSelfRegistration bool) string {
	notice := "Participation " + FlashInfo(p, ev) + " was successfully created. Please check the contact data and adjust it if necessary."
	if courseSelfRegistration {
		notice += "<br />For the final registration, print this page via <i>Print</i>, sign it and send it by post to the given address."
	}
	return notice
}

func (s *Service) authorizeRegistration(ctx context.Context, actorID int64, ev *event.Event, intent registrationIntent) error {
	if intent.forSomeoneElse {
		return s.authz.Authorize(ctx, actorID, authz.ActionCreate, authz.EventTarget(ev))
	}
	return s.authz.Authorize(ctx, actorID, authz.ActionParticipate, authz.ParticipationTarget(ev, actorID))
}

func (s *Service) isCourseSelfRegistration(actorID int64, ev *event.Event, intent registrationIntent) bool {
	return ev.IsCourse() && intent.personID == actorID
}

// checkPreconditions runs the course checks for people applying themselves
func (s *Service) checkPreconditions(ctx context.Context, actorID, groupID int64, ev *event.Event, intent registrationIntent) error {
	if !s.isCourseSelfRegistration(actorID, ev, intent) {
		return nil
	}

	actor, err := s.people.GetByID(ctx, actorID)
	if err != nil {
		return err
	}

	checker := event.NewPreconditionChecker(ev, actor, s.now())
	if !checker.Valid() {
		return apperr.Precondition(checker.ErrorsText(), fmt.Sprintf("/groups/%d/events/%d", groupID, ev.ID))
	}
	return nil
}

// List returns the active participations of an event holding a role,
// ordered by role and name. filter is one of all, leaders, participants or
// a participation role label of the event; anything else lists all.
func (s *Service) List(ctx context.Context, actorID, groupID, eventID int64, filter string) ([]*Participation, *event.Event, error) {
	ev, err := s.events.GetInGroup(ctx, groupID, eventID)
	if err != nil {
		return nil, nil, err
	}
	if err := s.authz.Authorize(ctx, actorID, authz.ActionIndexParticipations, authz.EventTarget(ev)); err != nil {
		return nil, nil, err
	}

	all, err := s.store.ListForEvent(ctx, ev.ID)
	if err != nil {
		return nil, nil, err
	}

	keep := filterFunc(ev, filter)
	seen := make(map[int64]bool, len(all))
	out := make([]*Participation, 0, len(all))
	for _, p := range all {
		if seen[p.ID] || !p.Active || len(p.Roles) == 0 || !keep(p) {
			continue
		}
		seen[p.ID] = true
		out = append(out, p)
	}

	sort.SliceStable(out, func(i, j int) bool {
		ri, rj := out[i].TopRank(), out[j].TopRank()
		if ri != rj {
			return ri < rj
		}
		return lessByPerson(out[i], out[j])
	})
	return out, ev, nil
}

func filterFunc(ev *event.Event, filter string) func(*Participation) bool {
	switch {
	case filter == FilterLeaders:
		return (*Participation).HasLeaderRole
	case filter == FilterParticipants:
		participantType := ev.ParticipantType()
		return func(p *Participation) bool { return p.HasRoleType(participantType) }
	case filter != "" && filter != FilterAll && ev.HasRoleLabel(filter):
		return func(p *Participation) bool { return p.HasRoleLabel(filter) }
	}
	return func(*Participation) bool { return true }
}

func lessByPerson(a, b *Participation) bool {
	if a.Person == nil || b.Person == nil {
		return a.ID < b.ID
	}
	return person.LessByName(a.Person, b.Person)
}

// Show loads a participation of the event
func (s *Service) Show(ctx context.Context, actorID, groupID, eventID, id int64) (*Participation, *event.Event, error) {
	ev, p, err := s.load(ctx, groupID, eventID, id)
	if err != nil {
		return nil, nil, err
	}
	if err := s.authz.Authorize(ctx, actorID, authz.ActionShow, authz.ParticipationTarget(ev, p.PersonID)); err != nil {
		return nil, nil, err
	}
	if p.Person == nil {
		return nil, nil, person.ErrPersonNotFound
	}
	return p, ev, nil
}

// Destroy removes a participation and returns where the client continues
func (s *Service) Destroy(ctx context.Context, actorID, groupID, eventID, id int64) (string, error) {
	ev, p, err := s.load(ctx, groupID, eventID, id)
	if err != nil {
		return "", err
	}
	if err := s.authz.Authorize(ctx, actorID, authz.ActionDestroy, authz.ParticipationTarget(ev, p.PersonID)); err != nil {
		return "", err
	}

	err = s.store.InTx(ctx, func(tx Store) error {
		return tx.Delete(ctx, p.ID)
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("/groups/%d/events/%d/application_market", groupID, ev.ID), nil
}

func (s *Service) load(ctx context.Context, groupID, eventID, id int64) (*event.Event, *Participation, error) {
	ev, err := s.events.GetInGroup(ctx, groupID, eventID)
	if err != nil {
		return nil, nil, err
	}
	p, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if p == nil || p.EventID != ev.ID {
		return nil, nil, ErrParticipationNotFound
	}
	return ev, p, nil
}

// ExportCSV renders the filtered list. The full format is used when details
// are requested and the actor may see the details of the first entry.
func (s *Service) ExportCSV(ctx context.Context, actorID, groupID, eventID int64, filter string, details bool) ([]byte, error) {
	ps, ev, err := s.List(ctx, actorID, groupID, eventID, filter)
	if err != nil {
		return nil, err
	}

	format := export.FormatAddress
	if details && len(ps) > 0 {
		full, err := s.authz.Can(ctx, actorID, authz.ActionShowDetails, authz.ParticipationTarget(ev, ps[0].PersonID))
		if err != nil {
			return nil, err
		}
		if full {
			format = export.FormatFull
		}
	}

	strategy, err := s.exports.Create(format)
	if err != nil {
		return nil, err
	}
	return export.CSV(strategy, ExportRows(ps))
}

// ExportRows converts participations into export rows
func ExportRows(ps []*Participation) []export.Row {
	rows := make([]export.Row, 0, len(ps))
	for _, p := range ps {
		if p.Person == nil {
			continue
		}
		row := export.Row{Person: p.Person, AdditionalInformation: p.AdditionalInformation}
		for _, r := range p.Roles {
			row.Roles = append(row.Roles, r.String())
		}
		if a := p.Application; a != nil {
			row.Application = &export.ApplicationInfo{
				Priority1:   idString(a.Priority1ID),
				Priority2:   idString(a.Priority2ID),
				Priority3:   idString(a.Priority3ID),
				WaitingList: a.WaitingList,
			}
		}
		rows = append(rows, row)
	}
	return rows
}

func idString(id *int64) string {
	if id == nil {
		return ""
	}
	return strconv.FormatInt(*id, 10)
}
