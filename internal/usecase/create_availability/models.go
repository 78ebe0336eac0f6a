package create_availability

import (
	"time"

	"github.com/agendly/appointment-service/internal/domain"
)

// Request модель запроса на создание слота доступности
type Request struct {
	TenantID  string // ID арендатора (из контекста запроса)
	Weekday   int    // День недели 0..6 (0 - первый день недели)
	StartTime string // Начало окна, "HH:MM"
	EndTime   string // Конец окна, "HH:MM"
	IsActive  *bool  // Активность слота (по умолчанию true)
}

// Response модель ответа с созданным слотом
type Response struct {
	ID        string
	TenantID  string
	Weekday   int
	StartTime string
	EndTime   string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// fromDomain конвертирует агрегат в response
func fromDomain(a *domain.Availability) *Response {
	return &Response{
		ID:        a.ID,
		TenantID:  a.TenantID,
		Weekday:   a.Weekday,
		StartTime: a.StartTime.String(),
		EndTime:   a.EndTime.String(),
		IsActive:  a.IsActive,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}
