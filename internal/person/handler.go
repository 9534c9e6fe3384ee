package person

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/fkhayef/membership/pkg/response"
)

// Handler handles HTTP requests for person operations
type Handler struct {
	service *Service
}

// NewHandler creates a new person handler with service dependency injected
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for person endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/{id}", h.GetByID)

	return r
}

// GetByID handles GET /people/{id}
// @Summary      Get person by ID
// @Description  Get a person with public contact data
// @Tags         people
// @Produce      json
// @Param        id path int true "Person ID"
// @Param        body_id query int false "Add request body ID"
// @Param        body_type query string false "Add request body type"
// @Success      200 {object} response.APIResponse{data=PersonResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /people/{id} [get]
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid person ID")
		return
	}

	p, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		response.Fail(w, err, "Failed to get person")
		return
	}

	response.JSON(w, http.StatusOK, p.ToResponse())
}
