package deactivate_availability

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/agendly/appointment-service/internal/api/handlers"
	"github.com/agendly/appointment-service/internal/api/middleware"
	"github.com/agendly/appointment-service/internal/service/availabilities"
)

const (
	msgAvailabilityNotFound = "availability not found"
	msgAccessDenied         = "availability belongs to another tenant"
)

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

// Handle PATCH /api/v1/availabilities/{availabilityId}/deactivate
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := middleware.TenantFromContext(r.Context())
	if !ok {
		handlers.RespondError(w, http.StatusUnauthorized, "missing tenant")
		return
	}

	availabilityID := mux.Vars(r)["availabilityId"]

	result, err := h.service.Deactivate(r.Context(), availabilityID, tenantID)
	if err != nil {
		switch {
		case errors.Is(err, availabilities.ErrAvailabilityNotFound):
			h.logger.Warn("PATCH /availabilities/%s/deactivate - Availability not found", availabilityID)
			handlers.RespondNotFound(w, msgAvailabilityNotFound)

		case errors.Is(err, availabilities.ErrAccessDenied):
			h.logger.Warn("PATCH /availabilities/%s/deactivate - Access denied: tenant=%s", availabilityID, tenantID)
			handlers.RespondForbidden(w, msgAccessDenied)

		default:
			h.logger.Error("PATCH /availabilities/%s/deactivate - Failed to deactivate: %v", availabilityID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /availabilities/%s/deactivate - Availability deactivated: tenant=%s", availabilityID, tenantID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
