package market

import "github.com/fkhayef/membership/internal/participation"

// IndexResponse is the application market of an event
type IndexResponse struct {
	EventID      int64                                  `json:"event_id"`
	EventName    string                                 `json:"event_name"`
	Participants []*participation.ParticipationResponse `json:"participants"`
	Applications []*participation.ParticipationResponse `json:"applications"`
}

// ToResponse decorates both views for the group the market was opened in
func (m *Market) ToResponse(groupID int64) *IndexResponse {
	return &IndexResponse{
		EventID:      m.Event.ID,
		EventName:    m.Event.Name,
		Participants: decorateAll(m, m.Participants, groupID),
		Applications: decorateAll(m, m.Applications, groupID),
	}
}

func decorateAll(m *Market, ps []*participation.Participation, groupID int64) []*participation.ParticipationResponse {
	out := make([]*participation.ParticipationResponse, len(ps))
	for i, p := range ps {
		out[i] = participation.Decorate(p, m.Event, groupID)
	}
	return out
}
