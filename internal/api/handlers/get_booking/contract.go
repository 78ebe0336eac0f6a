package get_booking

import (
	"context"

	"github.com/agendly/appointment-service/internal/service/bookings/models"
)

type BookingsService interface {
	GetByID(ctx context.Context, id string, tenantID string) (*models.BookingResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
