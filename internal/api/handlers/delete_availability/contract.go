package delete_availability

import "context"

type AvailabilitiesService interface {
	Delete(ctx context.Context, id string, tenantID string) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
