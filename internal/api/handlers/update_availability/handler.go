package update_availability

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/agendly/appointment-service/internal/api/handlers"
	"github.com/agendly/appointment-service/internal/api/middleware"
	updateAvailability "github.com/agendly/appointment-service/internal/usecase/update_availability"
)

const (
	msgInvalidRequestBody   = "invalid request body"
	msgInvalidSlot          = "invalid availability data"
	msgAvailabilityNotFound = "availability not found"
	msgAccessDenied         = "availability belongs to another tenant"
	msgSlotConflict         = "an availability slot already covers this time window"
)

type Handler struct {
	useCase UpdateAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase UpdateAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PUT /api/v1/availabilities/{availabilityId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := middleware.TenantFromContext(r.Context())
	if !ok {
		handlers.RespondError(w, http.StatusUnauthorized, "missing tenant")
		return
	}

	availabilityID := mux.Vars(r)["availabilityId"]

	var req UpdateAvailabilityRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /availabilities/%s - Invalid request body: %v", availabilityID, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(availabilityID, tenantID))
	if err != nil {
		switch {
		case errors.Is(err, updateAvailability.ErrAvailabilityNotFound):
			h.logger.Warn("PUT /availabilities/%s - Availability not found", availabilityID)
			handlers.RespondNotFound(w, msgAvailabilityNotFound)

		case errors.Is(err, updateAvailability.ErrAccessDenied):
			h.logger.Warn("PUT /availabilities/%s - Access denied: tenant=%s", availabilityID, tenantID)
			handlers.RespondForbidden(w, msgAccessDenied)

		case errors.Is(err, updateAvailability.ErrTimeSlotConflict):
			h.logger.Warn("PUT /availabilities/%s - Slot conflict: tenant=%s", availabilityID, tenantID)
			handlers.RespondError(w, http.StatusConflict, msgSlotConflict)

		case errors.Is(err, updateAvailability.ErrInvalidInput), errors.Is(err, updateAvailability.ErrValidation):
			h.logger.Warn("PUT /availabilities/%s - Validation failed: %v", availabilityID, err)
			handlers.RespondBadRequest(w, msgInvalidSlot)

		default:
			h.logger.Error("PUT /availabilities/%s - Failed to update availability: %v", availabilityID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /availabilities/%s - Availability updated successfully: tenant=%s", availabilityID, tenantID)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
