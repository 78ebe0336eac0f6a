package list_availabilities

import (
	"context"

	"github.com/agendly/appointment-service/internal/service/availabilities/models"
)

type AvailabilitiesService interface {
	List(ctx context.Context, req *models.ListAvailabilitiesRequest) (*models.AvailabilityListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
