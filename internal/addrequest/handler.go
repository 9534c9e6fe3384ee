package addrequest

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fkhayef/membership/pkg/middleware"
	"github.com/fkhayef/membership/pkg/response"
)

// Handler handles HTTP requests for person add requests
type Handler struct {
	service *Service
}

// NewHandler creates a new add request handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for add request endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)

	return r
}

// Create handles POST /person_add_requests
// @Summary      Request to add a person
// @Description  Stores the request and notifies the person or the responsibles of their layer
// @Tags         person_add_requests
// @Accept       json
// @Produce      json
// @Param        request body CreateRequest true "Add request"
// @Success      201 {object} response.APIResponse{data=RequestResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Failure      422 {object} response.APIResponse
// @Router       /person_add_requests [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.GetPersonID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var in CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	req, body, err := h.service.Create(r.Context(), actorID, in)
	if err != nil {
		response.Fail(w, err, "Failed to create add request")
		return
	}

	response.JSON(w, http.StatusCreated, req.ToResponse(body))
}
