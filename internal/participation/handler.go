package participation

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/fkhayef/membership/pkg/middleware"
	"github.com/fkhayef/membership/pkg/response"
)

// Handler handles HTTP requests for participations of an event
type Handler struct {
	service *Service
}

// NewHandler creates a new participation handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for participation endpoints. It is mounted
// below /groups/{groupId}/events/{eventId}/participations.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.Index)
	r.Post("/", h.Create)
	r.Get("/new", h.New)
	r.Get("/{id}", h.Show)
	r.Get("/{id}/print", h.Print)
	r.Delete("/{id}", h.Destroy)

	return r
}

type scope struct {
	actorID int64
	groupID int64
	eventID int64
}

// parseScope reads the actor and the event path. It writes the error
// response and returns false on failure.
func parseScope(w http.ResponseWriter, r *http.Request) (scope, bool) {
	actorID, ok := middleware.GetPersonID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return scope{}, false
	}
	groupID, err := strconv.ParseInt(chi.URLParam(r, "groupId"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid group ID")
		return scope{}, false
	}
	eventID, err := strconv.ParseInt(chi.URLParam(r, "eventId"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid event ID")
		return scope{}, false
	}
	return scope{actorID: actorID, groupID: groupID, eventID: eventID}, true
}

func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid participation ID")
		return 0, false
	}
	return id, true
}

// Index handles GET /groups/{groupId}/events/{eventId}/participations
// @Summary      List participations
// @Description  List active participations with roles, ordered by role and name. Supports csv export.
// @Tags         participations
// @Produce      json
// @Produce      text/csv
// @Param        groupId path int true "Group ID"
// @Param        eventId path int true "Event ID"
// @Param        filter query string false "all, leaders, participants or a role label"
// @Param        format query string false "json (default), csv or pdf"
// @Param        details query bool false "Full csv export"
// @Success      200 {object} response.APIResponse{data=[]ParticipationResponse}
// @Failure      403 {object} response.APIResponse
// @Failure      406 {object} response.APIResponse
// @Router       /groups/{groupId}/events/{eventId}/participations [get]
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	sc, ok := parseScope(w, r)
	if !ok {
		return
	}
	filter := r.URL.Query().Get("filter")

	switch r.URL.Query().Get("format") {
	case "", "json":
	case "csv":
		details, _ := strconv.ParseBool(r.URL.Query().Get("details"))
		csv, err := h.service.ExportCSV(r.Context(), sc.actorID, sc.groupID, sc.eventID, filter, details)
		if err != nil {
			response.Fail(w, err, "Failed to export participations")
			return
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="participations.csv"`)
		w.WriteHeader(http.StatusOK)
		w.Write(csv)
		return
	default:
		response.NotAcceptable(w, "Unsupported format")
		return
	}

	ps, ev, err := h.service.List(r.Context(), sc.actorID, sc.groupID, sc.eventID, filter)
	if err != nil {
		response.Fail(w, err, "Failed to list participations")
		return
	}

	resp := make([]*ParticipationResponse, len(ps))
	for i, p := range ps {
		resp[i] = Decorate(p, ev, sc.groupID)
	}
	response.JSONWithMeta(w, http.StatusOK, resp, &response.Meta{Total: len(resp), Filter: filter})
}

// New handles GET /groups/{groupId}/events/{eventId}/participations/new
// @Summary      Prepare a participation
// @Description  Returns a draft participation with the courses selectable as alternative priorities
// @Tags         participations
// @Produce      json
// @Param        groupId path int true "Group ID"
// @Param        eventId path int true "Event ID"
// @Param        for_someone_else query bool false "Register someone else"
// @Param        person_id query int false "Person to register"
// @Success      200 {object} response.APIResponse{data=NewParticipationResponse}
// @Failure      403 {object} response.APIResponse
// @Failure      422 {object} response.APIResponse
// @Router       /groups/{groupId}/events/{eventId}/participations/new [get]
func (h *Handler) New(w http.ResponseWriter, r *http.Request) {
	sc, ok := parseScope(w, r)
	if !ok {
		return
	}

	var req CreateParticipationRequest
	req.ForSomeoneElse, _ = strconv.ParseBool(r.URL.Query().Get("for_someone_else"))
	if v := r.URL.Query().Get("person_id"); v != "" {
		personID, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			response.BadRequest(w, "Invalid person ID")
			return
		}
		req.PersonID = &personID
	}

	draft, err := h.service.New(r.Context(), sc.actorID, sc.groupID, sc.eventID, req)
	if err != nil {
		response.Fail(w, err, "Failed to prepare participation")
		return
	}

	resp := &NewParticipationResponse{
		Participation: Decorate(draft.Participation, draft.Event, sc.groupID),
		Priorization:  draft.Event.Priorization,
	}
	resp.Participation.State = StateDraft
	for _, alt := range draft.Alternatives {
		resp.Alternatives = append(resp.Alternatives, &AlternativeResponse{ID: alt.ID, Name: alt.Name})
	}
	response.JSON(w, http.StatusOK, resp)
}

// Create handles POST /groups/{groupId}/events/{eventId}/participations
// @Summary      Create a participation
// @Description  Register yourself or, with permission, someone else for an event
// @Tags         participations
// @Accept       json
// @Produce      json
// @Param        groupId path int true "Group ID"
// @Param        eventId path int true "Event ID"
// @Param        request body CreateParticipationRequest true "Participation"
// @Success      201 {object} response.APIResponse{data=CreateParticipationResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Failure      422 {object} response.APIResponse
// @Router       /groups/{groupId}/events/{eventId}/participations [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	sc, ok := parseScope(w, r)
	if !ok {
		return
	}

	var req CreateParticipationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	result, err := h.service.Create(r.Context(), sc.actorID, sc.groupID, sc.eventID, req)
	if err != nil {
		response.Fail(w, err, "Failed to create participation")
		return
	}

	p := Decorate(result.Participation, result.Event, sc.groupID)
	p.State = result.State
	response.JSON(w, http.StatusCreated, &CreateParticipationResponse{Participation: p, Notice: result.Notice})
}

// Show handles GET /groups/{groupId}/events/{eventId}/participations/{id}
// @Summary      Get a participation
// @Tags         participations
// @Produce      json
// @Param        groupId path int true "Group ID"
// @Param        eventId path int true "Event ID"
// @Param        id path int true "Participation ID"
// @Success      200 {object} response.APIResponse{data=ParticipationResponse}
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /groups/{groupId}/events/{eventId}/participations/{id} [get]
func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	sc, ok := parseScope(w, r)
	if !ok {
		return
	}
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	p, ev, err := h.service.Show(r.Context(), sc.actorID, sc.groupID, sc.eventID, id)
	if err != nil {
		response.Fail(w, err, "Failed to get participation")
		return
	}
	response.JSON(w, http.StatusOK, Decorate(p, ev, sc.groupID))
}

// Print handles GET /groups/{groupId}/events/{eventId}/participations/{id}/print
// @Summary      Printable participation
// @Tags         participations
// @Produce      html
// @Param        groupId path int true "Group ID"
// @Param        eventId path int true "Event ID"
// @Param        id path int true "Participation ID"
// @Success      200 {string} string "HTML page"
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /groups/{groupId}/events/{eventId}/participations/{id}/print [get]
func (h *Handler) Print(w http.ResponseWriter, r *http.Request) {
	sc, ok := parseScope(w, r)
	if !ok {
		return
	}
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	p, ev, err := h.service.Show(r.Context(), sc.actorID, sc.groupID, sc.eventID, id)
	if err != nil {
		response.Fail(w, err, "Failed to get participation")
		return
	}

	var buf bytes.Buffer
	if err := RenderPrint(&buf, p, ev); err != nil {
		response.Fail(w, err, "Failed to render participation")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// Destroy handles DELETE /groups/{groupId}/events/{eventId}/participations/{id}
// @Summary      Delete a participation
// @Description  Deletes the participation and points to the application market
// @Tags         participations
// @Produce      json
// @Param        groupId path int true "Group ID"
// @Param        eventId path int true "Event ID"
// @Param        id path int true "Participation ID"
// @Success      200 {object} response.APIResponse{data=DestroyResponse}
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /groups/{groupId}/events/{eventId}/participations/{id} [delete]
func (h *Handler) Destroy(w http.ResponseWriter, r *http.Request) {
	sc, ok := parseScope(w, r)
	if !ok {
		return
	}
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	location, err := h.service.Destroy(r.Context(), sc.actorID, sc.groupID, sc.eventID, id)
	if err != nil {
		response.Fail(w, err, "Failed to delete participation")
		return
	}
	response.JSON(w, http.StatusOK, &DestroyResponse{Location: location})
}
