package mailinglist

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/fkhayef/membership/pkg/middleware"
	"github.com/fkhayef/membership/pkg/response"
)

// Handler handles HTTP requests for mailing lists
type Handler struct {
	service *Service
}

// NewHandler creates a new mailing list handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for mailing list endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/{id}/synchronizations", h.Synchronize)

	return r
}

// Synchronize handles POST /mailing_lists/{id}/synchronizations
// @Summary      Synchronize with Mailchimp
// @Description  Enqueues pushing the subscribers of the list to Mailchimp
// @Tags         mailing_lists
// @Produce      json
// @Param        id path int true "Mailing list ID"
// @Success      202 {object} response.APIResponse{data=SynchronizationResponse}
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /mailing_lists/{id}/synchronizations [post]
func (h *Handler) Synchronize(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.GetPersonID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid mailing list ID")
		return
	}

	started, err := h.service.Synchronize(r.Context(), actorID, id)
	if err != nil {
		response.Fail(w, err, "Failed to start synchronization")
		return
	}

	w.Header().Set("Location", started.Location)
	response.JSON(w, http.StatusAccepted, &SynchronizationResponse{
		MailingListID: started.List.ID,
		Message:       started.Message,
		Location:      started.Location,
	})
}
