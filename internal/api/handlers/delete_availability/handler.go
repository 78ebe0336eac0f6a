package delete_availability

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/agendly/appointment-service/internal/api/handlers"
	"github.com/agendly/appointment-service/internal/api/middleware"
	"github.com/agendly/appointment-service/internal/service/availabilities"
)

const msgAvailabilityNotFound = "availability not found"

type Handler struct {
	service AvailabilitiesService
	logger  Logger
}

func NewHandler(service AvailabilitiesService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle DELETE /api/v1/availabilities/{availabilityId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := middleware.TenantFromContext(r.Context())
	if !ok {
		handlers.RespondError(w, http.StatusUnauthorized, "missing tenant")
		return
	}

	availabilityID := mux.Vars(r)["availabilityId"]

	if err := h.service.Delete(r.Context(), availabilityID, tenantID); err != nil {
		switch {
		case errors.Is(err, availabilities.ErrAvailabilityNotFound):
			h.logger.Warn("DELETE /availabilities/%s - Availability not found: tenant=%s", availabilityID, tenantID)
			handlers.RespondNotFound(w, msgAvailabilityNotFound)

		default:
			h.logger.Error("DELETE /availabilities/%s - Failed to delete availability: %v", availabilityID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /availabilities/%s - Availability deleted successfully: tenant=%s", availabilityID, tenantID)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}
