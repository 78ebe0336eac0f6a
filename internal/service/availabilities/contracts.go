package availabilities

import (
	"context"
	"time"

	"github.com/agendly/appointment-service/internal/domain"
)

// AvailabilityRepository интерфейс репозитория слотов доступности
type AvailabilityRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Availability, error)
	GetByTenant(ctx context.Context, tenantID string, weekday *int) ([]*domain.Availability, error)
	Update(ctx context.Context, slot *domain.Availability) error
	Delete(ctx context.Context, id, tenantID string) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
