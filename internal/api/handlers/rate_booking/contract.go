package rate_booking

import (
	"context"

	"github.com/agendly/appointment-service/internal/service/bookings/models"
)

type BookingsService interface {
	Rate(ctx context.Context, bookingID string, req *models.RateBookingRequest) (*models.BookingResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
