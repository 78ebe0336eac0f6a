package update_booking

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/agendly/appointment-service/internal/api/handlers"
	"github.com/agendly/appointment-service/internal/api/middleware"
	updateBooking "github.com/agendly/appointment-service/internal/usecase/update_booking"
)

const (
	msgInvalidRequestBody = "invalid request body"
	msgInvalidTimeRange   = "invalid time format, RFC 3339 expected"
	msgInvalidBooking     = "invalid booking data"
	msgBookingNotFound    = "booking not found"
	msgAccessDenied       = "booking belongs to another tenant"
	msgInvalidTransition  = "status transition is not allowed"
	msgSlotConflict       = "requested time slot conflicts with an existing booking"
)

type Handler struct {
	useCase UpdateBookingUseCase
	logger  Logger
}

func NewHandler(useCase UpdateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PUT /api/v1/bookings/{bookingId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := middleware.TenantFromContext(r.Context())
	if !ok {
		handlers.RespondError(w, http.StatusUnauthorized, "missing tenant")
		return
	}

	bookingID := mux.Vars(r)["bookingId"]

	var req UpdateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /bookings/%s - Invalid request body: %v", bookingID, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(bookingID, tenantID)
	if err != nil {
		h.logger.Warn("PUT /bookings/%s - Failed to parse request: %v", bookingID, err)
		handlers.RespondBadRequest(w, msgInvalidTimeRange)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, updateBooking.ErrBookingNotFound):
			h.logger.Warn("PUT /bookings/%s - Booking not found", bookingID)
			handlers.RespondNotFound(w, msgBookingNotFound)

		case errors.Is(err, updateBooking.ErrAccessDenied):
			h.logger.Warn("PUT /bookings/%s - Access denied: tenant=%s", bookingID, tenantID)
			handlers.RespondForbidden(w, msgAccessDenied)

		case errors.Is(err, updateBooking.ErrInvalidStatusTransition):
			h.logger.Warn("PUT /bookings/%s - Invalid status transition: %v", bookingID, err)
			handlers.RespondError(w, http.StatusConflict, msgInvalidTransition)

		case errors.Is(err, updateBooking.ErrTimeSlotConflict):
			h.logger.Warn("PUT /bookings/%s - Slot conflict: tenant=%s", bookingID, tenantID)
			handlers.RespondError(w, http.StatusConflict, msgSlotConflict)

		case errors.Is(err, updateBooking.ErrInvalidInput), errors.Is(err, updateBooking.ErrValidation):
			h.logger.Warn("PUT /bookings/%s - Validation failed: %v", bookingID, err)
			handlers.RespondBadRequest(w, msgInvalidBooking)

		default:
			h.logger.Error("PUT /bookings/%s - Failed to update booking: %v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /bookings/%s - Booking updated successfully: tenant=%s", bookingID, tenantID)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
