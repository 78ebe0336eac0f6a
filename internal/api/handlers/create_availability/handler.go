package create_availability

import (
	"errors"
	"net/http"

	"github.com/agendly/appointment-service/internal/api/handlers"
	"github.com/agendly/appointment-service/internal/api/middleware"
	createAvailability "github.com/agendly/appointment-service/internal/usecase/create_availability"
)

const (
	msgInvalidRequestBody = "invalid request body"
	msgInvalidSlot        = "invalid availability data"
	msgTenantNotFound     = "tenant not found"
	msgSlotConflict       = "an availability slot already covers this time window"
)

type Handler struct {
	useCase CreateAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase CreateAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/availabilities
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := middleware.TenantFromContext(r.Context())
	if !ok {
		handlers.RespondError(w, http.StatusUnauthorized, "missing tenant")
		return
	}

	var req CreateAvailabilityRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /availabilities - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(tenantID))
	if err != nil {
		switch {
		case errors.Is(err, createAvailability.ErrTimeSlotConflict):
			h.logger.Warn("POST /availabilities - Slot conflict: tenant=%s, weekday=%d", tenantID, req.Weekday)
			handlers.RespondError(w, http.StatusConflict, msgSlotConflict)

		case errors.Is(err, createAvailability.ErrTenantNotFound):
			h.logger.Warn("POST /availabilities - Tenant not found: tenant=%s", tenantID)
			handlers.RespondNotFound(w, msgTenantNotFound)

		case errors.Is(err, createAvailability.ErrInvalidInput), errors.Is(err, createAvailability.ErrValidation):
			h.logger.Warn("POST /availabilities - Validation failed: tenant=%s, error=%v", tenantID, err)
			handlers.RespondBadRequest(w, msgInvalidSlot)

		default:
			h.logger.Error("POST /availabilities - Failed to create availability: tenant=%s, error=%v", tenantID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /availabilities - Availability created successfully: id=%s, tenant=%s", result.ID, tenantID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
