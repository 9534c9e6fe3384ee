package participation

import (
	"fmt"
	"html"

	"github.com/fkhayef/membership/internal/event"
)

// Decorate renders p for ev, which was reached through the group groupID.
// Application details are shown relative to ev.
func Decorate(p *Participation, ev *event.Event, groupID int64) *ParticipationResponse {
	resp := &ParticipationResponse{
		ID:                    p.ID,
		EventID:               p.EventID,
		PersonID:              p.PersonID,
		Active:                p.Active,
		AdditionalInformation: p.AdditionalInformation,
		Roles:                 make([]string, 0, len(p.Roles)),
		FlashInfo:             FlashInfo(p, ev),
	}
	if p.Person != nil {
		resp.Person = p.Person.ToResponse()
	}
	for _, r := range p.Roles {
		resp.Roles = append(resp.Roles, r.String())
	}
	if a := p.Application; a != nil {
		resp.Application = &ApplicationResponse{
			ID:                a.ID,
			Priority1ID:       a.Priority1ID,
			Priority2ID:       a.Priority2ID,
			Priority3ID:       a.Priority3ID,
			WaitingList:       a.WaitingList,
			Priority:          PriorityLabel(a, ev.ID),
			Confirmation:      Confirmation(a),
			WaitingListAction: waitingListAction(a, p.ID, ev.ID, groupID),
		}
	}
	return resp
}

// FlashInfo names the person and the event, HTML escaped
func FlashInfo(p *Participation, ev *event.Event) string {
	name := ""
	if p.Person != nil {
		name = p.Person.String()
	}
	return fmt.Sprintf("of <i>%s</i> in <i>%s</i>", html.EscapeString(name), html.EscapeString(ev.Name))
}

// PriorityLabel is the rank at which a chose the event, or "Waiting list"
func PriorityLabel(a *Application, eventID int64) string {
	if prio := a.Priority(eventID); prio > 0 {
		return fmt.Sprintf("%d", prio)
	}
	if a.WaitingList {
		return "Waiting list"
	}
	return ""
}

// Confirmation is the approval badge of an application
func Confirmation(a *Application) Badge {
	switch {
	case a.Approved:
		return Badge{Label: "✓", Style: "success", Title: "Course approval confirmed"}
	case a.Rejected:
		return Badge{Label: "×", Style: "important", Title: "Course approval rejected"}
	default:
		return Badge{Label: "?", Style: "warning", Title: "Course approval open"}
	}
}

func waitingListAction(a *Application, participationID, eventID, groupID int64) *WaitingListAction {
	action := &WaitingListAction{
		Method: "POST",
		Path:   fmt.Sprintf("/groups/%d/events/%d/application_market/%d/waiting_list", groupID, eventID, participationID),
		Title:  "Put on the national waiting list",
	}
	if a.WaitingList {
		action.Method = "DELETE"
		action.Title = "Remove from the national waiting list"
	}
	return action
}
