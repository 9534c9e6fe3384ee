package group

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/fkhayef/membership/pkg/response"
)

// Handler handles HTTP requests for group operations
type Handler struct {
	service *Service
}

// NewHandler creates a new group handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for group endpoints. Event scoped routes are
// mounted by the caller below /{groupId}/events/{eventId}.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/{groupId}", h.GetByID)

	return r
}

// GetByID handles GET /groups/{groupId}
// @Summary      Get group by ID
// @Description  Get a group with its active roles
// @Tags         groups
// @Produce      json
// @Param        groupId path int true "Group ID"
// @Success      200 {object} response.APIResponse{data=GroupResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /groups/{groupId} [get]
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "groupId")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid group ID")
		return
	}

	group, roles, err := h.service.GetByIDWithRoles(r.Context(), id)
	if err != nil {
		response.Fail(w, err, "Failed to get group")
		return
	}

	groupResp := group.ToResponse()
	groupResp.Roles = make([]*RoleResponse, len(roles))
	for i, role := range roles {
		groupResp.Roles[i] = role.ToResponse()
	}

	response.JSON(w, http.StatusOK, groupResp)
}
