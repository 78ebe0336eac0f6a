package rate_booking

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/agendly/appointment-service/internal/api/handlers"
	"github.com/agendly/appointment-service/internal/api/middleware"
	"github.com/agendly/appointment-service/internal/service/bookings"
	"github.com/agendly/appointment-service/internal/service/bookings/models"
)

const (
	msgInvalidRequestBody = "invalid request body"
	msgInvalidRating      = "rating must be between 1 and 5"
	msgBookingNotFound    = "booking not found"
	msgAccessDenied       = "booking belongs to another tenant"
	msgCannotRate         = "only completed bookings can be rated"
)

type Handler struct {
	service BookingsService
	logger  Logger
}

func NewHandler(service BookingsService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/bookings/{bookingId}/rating
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := middleware.TenantFromContext(r.Context())
	if !ok {
		handlers.RespondError(w, http.StatusUnauthorized, "missing tenant")
		return
	}

	bookingID := mux.Vars(r)["bookingId"]

	var req RateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /bookings/%s/rating - Invalid request body: %v", bookingID, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Rate(r.Context(), bookingID, &models.RateBookingRequest{
		TenantID: tenantID,
		Rating:   req.Rating,
	})
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound):
			h.logger.Warn("PATCH /bookings/%s/rating - Booking not found", bookingID)
			handlers.RespondNotFound(w, msgBookingNotFound)

		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("PATCH /bookings/%s/rating - Access denied: tenant=%s", bookingID, tenantID)
			handlers.RespondForbidden(w, msgAccessDenied)

		case errors.Is(err, bookings.ErrCannotRate):
			h.logger.Warn("PATCH /bookings/%s/rating - Cannot rate", bookingID)
			handlers.RespondError(w, http.StatusConflict, msgCannotRate)

		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("PATCH /bookings/%s/rating - Invalid rating=%d", bookingID, req.Rating)
			handlers.RespondBadRequest(w, msgInvalidRating)

		default:
			h.logger.Error("PATCH /bookings/%s/rating - Failed to rate booking: %v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /bookings/%s/rating - Booking rated successfully: tenant=%s, rating=%d",
		bookingID, tenantID, req.Rating)
	handlers.RespondJSON(w, http.StatusOK, result)
}
