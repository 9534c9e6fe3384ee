package market

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/fkhayef/membership/internal/event"
	"github.com/fkhayef/membership/internal/participation"
	"github.com/fkhayef/membership/pkg/middleware"
	"github.com/fkhayef/membership/pkg/response"
)

// Handler handles HTTP requests for the application market
type Handler struct {
	service *Service
}

// NewHandler creates a new market handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for market endpoints. It is mounted below
// /groups/{groupId}/events/{eventId}/application_market.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.Index)
	r.Post("/{participationId}/participant", h.AddParticipant)
	r.Delete("/{participationId}/participant", h.RemoveParticipant)
	r.Post("/{participationId}/waiting_list", h.PutOnWaitingList)
	r.Delete("/{participationId}/waiting_list", h.RemoveFromWaitingList)

	return r
}

type request struct {
	actorID         int64
	groupID         int64
	eventID         int64
	participationID int64
}

type pathParam struct {
	name  string
	label string
	dst   *int64
}

// parseRequest reads the actor and the path ids. It writes the error
// response and returns false on failure.
func parseRequest(w http.ResponseWriter, r *http.Request, withParticipation bool) (request, bool) {
	var req request
	var ok bool
	if req.actorID, ok = middleware.GetPersonID(r.Context()); !ok {
		response.Unauthorized(w, "Authentication required")
		return req, false
	}

	params := []pathParam{
		{"groupId", "group", &req.groupID},
		{"eventId", "event", &req.eventID},
	}
	if withParticipation {
		params = append(params, pathParam{"participationId", "participation", &req.participationID})
	}

	for _, p := range params {
		id, err := strconv.ParseInt(chi.URLParam(r, p.name), 10, 64)
		if err != nil {
			response.BadRequest(w, "Invalid "+p.label+" ID")
			return req, false
		}
		*p.dst = id
	}
	return req, true
}

// Index handles GET /groups/{groupId}/events/{eventId}/application_market
// @Summary      Application market
// @Description  Participants of the event and the pending applications choosing it or waiting on the national list
// @Tags         application_market
// @Produce      json
// @Param        groupId path int true "Group ID"
// @Param        eventId path int true "Event ID"
// @Success      200 {object} response.APIResponse{data=IndexResponse}
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /groups/{groupId}/events/{eventId}/application_market [get]
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	req, ok := parseRequest(w, r, false)
	if !ok {
		return
	}

	m, err := h.service.Index(r.Context(), req.actorID, req.groupID, req.eventID)
	if err != nil {
		response.Fail(w, err, "Failed to load application market")
		return
	}
	response.JSON(w, http.StatusOK, m.ToResponse(req.groupID))
}

type action func(ctx context.Context, actorID, groupID, eventID, participationID int64) (*participation.Participation, *event.Event, error)

func (h *Handler) run(w http.ResponseWriter, r *http.Request, fn action, fallback string) {
	req, ok := parseRequest(w, r, true)
	if !ok {
		return
	}

	p, ev, err := fn(r.Context(), req.actorID, req.groupID, req.eventID, req.participationID)
	if err != nil {
		response.Fail(w, err, fallback)
		return
	}
	response.JSON(w, http.StatusOK, participation.Decorate(p, ev, req.groupID))
}

// AddParticipant handles POST /groups/{groupId}/events/{eventId}/application_market/{participationId}/participant
// @Summary      Assign an application
// @Tags         application_market
// @Produce      json
// @Param        groupId path int true "Group ID"
// @Param        eventId path int true "Event ID"
// @Param        participationId path int true "Participation ID"
// @Success      200 {object} response.APIResponse{data=participation.ParticipationResponse}
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /groups/{groupId}/events/{eventId}/application_market/{participationId}/participant [post]
func (h *Handler) AddParticipant(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, h.service.AddParticipant, "Failed to add participant")
}

// RemoveParticipant handles DELETE /groups/{groupId}/events/{eventId}/application_market/{participationId}/participant
// @Summary      Unassign a participant
// @Tags         application_market
// @Produce      json
// @Param        groupId path int true "Group ID"
// @Param        eventId path int true "Event ID"
// @Param        participationId path int true "Participation ID"
// @Success      200 {object} response.APIResponse{data=participation.ParticipationResponse}
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /groups/{groupId}/events/{eventId}/application_market/{participationId}/participant [delete]
func (h *Handler) RemoveParticipant(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, h.service.RemoveParticipant, "Failed to remove participant")
}

// PutOnWaitingList handles POST /groups/{groupId}/events/{eventId}/application_market/{participationId}/waiting_list
// @Summary      Put on the waiting list
// @Tags         application_market
// @Produce      json
// @Param        groupId path int true "Group ID"
// @Param        eventId path int true "Event ID"
// @Param        participationId path int true "Participation ID"
// @Success      200 {object} response.APIResponse{data=participation.ParticipationResponse}
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /groups/{groupId}/events/{eventId}/application_market/{participationId}/waiting_list [post]
func (h *Handler) PutOnWaitingList(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, h.waitingList(true), "Failed to update waiting list")
}

// RemoveFromWaitingList handles DELETE /groups/{groupId}/events/{eventId}/application_market/{participationId}/waiting_list
// @Summary      Remove from the waiting list
// @Tags         application_market
// @Produce      json
// @Param        groupId path int true "Group ID"
// @Param        eventId path int true "Event ID"
// @Param        participationId path int true "Participation ID"
// @Success      200 {object} response.APIResponse{data=participation.ParticipationResponse}
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /groups/{groupId}/events/{eventId}/application_market/{participationId}/waiting_list [delete]
func (h *Handler) RemoveFromWaitingList(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, h.waitingList(false), "Failed to update waiting list")
}

func (h *Handler) waitingList(value bool) action {
	return func(ctx context.Context, actorID, groupID, eventID, participationID int64) (*participation.Participation, *event.Event, error) {
		return h.service.SetWaitingList(ctx, actorID, groupID, eventID, participationID, value)
	}
}
