package participation

import (
	"github.com/fkhayef/membership/internal/apperr"
	"github.com/fkhayef/membership/internal/event"
	"github.com/fkhayef/membership/internal/person"
)

// CreateParticipationRequest is the body of a registration. It is never
// modified after decoding; everything derived from it lives in a
// registrationIntent.
type CreateParticipationRequest struct {
	ForSomeoneElse        bool                `json:"for_someone_else"`
	PersonID              *int64              `json:"person_id,omitempty" validate:"omitempty,gt=0"`
	AdditionalInformation string              `json:"additional_information" validate:"max=5000"`
	Application           *ApplicationRequest `json:"application,omitempty"`
}

// ApplicationRequest carries the alternative course choices
type ApplicationRequest struct {
	Priority2ID *int64 `json:"priority_2_id,omitempty" validate:"omitempty,gt=0"`
	Priority3ID *int64 `json:"priority_3_id,omitempty" validate:"omitempty,gt=0"`
}

// registrationIntent is what a registration request means for an event and
// an actor
type registrationIntent struct {
	personID       int64
	forSomeoneElse bool
	application    *Application
}

// deriveIntent resolves the target person, the effective for-someone-else
// flag and the application of a registration
func deriveIntent(req CreateParticipationRequest, ev *event.Event, actorID int64) (registrationIntent, error) {
	intent := registrationIntent{personID: actorID}

	switch {
	case req.PersonID != nil && (req.ForSomeoneElse || ev.SupportsApplications):
		intent.personID = *req.PersonID
		intent.forSomeoneElse = true
	case req.ForSomeoneElse:
		return registrationIntent{}, apperr.Validation(map[string]string{
			"person_id": "is required when registering someone else",
		})
	case req.PersonID != nil:
		return registrationIntent{}, apperr.Validation(map[string]string{
			"person_id": "requires for_someone_else",
		})
	}

	if ev.SupportsApplications {
		id := ev.ID
		intent.application = &Application{Priority1ID: &id}
		if ev.Priorization && req.Application != nil {
			intent.application.Priority2ID = req.Application.Priority2ID
			intent.application.Priority3ID = req.Application.Priority3ID
		}
	}

	return intent, nil
}

// ParticipationResponse is a decorated participation
type ParticipationResponse struct {
	ID                    int64                  `json:"id"`
	EventID               int64                  `json:"event_id"`
	PersonID              int64                  `json:"person_id"`
	Person                *person.PersonResponse `json:"person,omitempty"`
	Active                bool                   `json:"active"`
	AdditionalInformation string                 `json:"additional_information,omitempty"`
	Roles                 []string               `json:"roles"`
	Application           *ApplicationResponse   `json:"application,omitempty"`
	State                 LifecycleState         `json:"state,omitempty"`
	FlashInfo             string                 `json:"flash_info"`
}

// ApplicationResponse is an application decorated for one event
type ApplicationResponse struct {
	ID                int64              `json:"id"`
	Priority1ID       *int64             `json:"priority_1_id,omitempty"`
	Priority2ID       *int64             `json:"priority_2_id,omitempty"`
	Priority3ID       *int64             `json:"priority_3_id,omitempty"`
	WaitingList       bool               `json:"waiting_list"`
	Priority          string             `json:"priority,omitempty"`
	Confirmation      Badge              `json:"confirmation"`
	WaitingListAction *WaitingListAction `json:"waiting_list_action,omitempty"`
}

// Badge is a short status marker
type Badge struct {
	Label string `json:"label"`
	Style string `json:"style"`
	Title string `json:"title"`
}

// WaitingListAction is the request toggling the waiting list flag
type WaitingListAction struct {
	Method string `json:"method"`
	Path   string `json:"path"`
	Title  string `json:"title"`
}

// NewParticipationResponse is the draft shown before registering
type NewParticipationResponse struct {
	Participation *ParticipationResponse `json:"participation"`
	Priorization  bool                   `json:"priorization"`
	Alternatives  []*AlternativeResponse `json:"alternatives,omitempty"`
}

// AlternativeResponse is a course selectable as priority 2 or 3
type AlternativeResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// CreateParticipationResponse is the result of a registration
type CreateParticipationResponse struct {
	Participation *ParticipationResponse `json:"participation"`
	Notice        string                 `json:"notice"`
}

// DestroyResponse tells the client where to continue
type DestroyResponse struct {
	Location string `json:"location"`
}
