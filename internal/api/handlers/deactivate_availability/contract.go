package deactivate_availability

import (
	"context"

	"github.com/agendly/appointment-service/internal/service/availabilities/models"
)

type AvailabilitiesService interface {
	Deactivate(ctx context.Context, id string, tenantID string) (*models.AvailabilityResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
