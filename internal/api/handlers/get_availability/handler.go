package get_availability

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

// Handle GET /api/v1/availabilities/{availabilityId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := middleware.TenantFromContext(r.Context())
	if !ok {
		handlers.RespondError(w, http.StatusUnauthorized, "missing tenant")
		return
	}

	availabilityID := mux.Vars(r)["availabilityId"]

	result, err := h.service.GetByID(r.Context(), availabilityID, tenantID)
	if err != nil {
		switch {
		case errors.Is(err, availabilities.ErrAvailabilityNotFound):
			h.logger.Warn("GET /availabilities/%s - Availability not found", availabilityID)
			handlers.RespondNotFound(w, msgAvailabilityNotFound)

		case errors.Is(err, availabilities.ErrAccessDenied):
			h.logger.Warn("GET /availabilities/%s - Access denied: tenant=%s", availabilityID, tenantID)
			handlers.RespondForbidden(w, msgAccessDenied)

		default:
			h.logger.Error("GET /availabilities/%s - Failed to get availability: %v", availabilityID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
