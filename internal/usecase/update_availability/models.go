package update_availability

import (
	"time"

	"github.com/agendly/appointment-service/internal/domain"
)

// Request модель запроса на обновление слота доступности.
// Указанные поля заменяют текущие значения, неуказанные сохраняются.
type Request struct {
	ID        string  // ID слота
	TenantID  string  // ID арендатора (из контекста запроса, проверка владения)
	Weekday   *int    // Новый день недели (опционально)
	StartTime *string // Новое начало окна, "HH:MM" (опционально)
	EndTime   *string // Новый конец окна, "HH:MM" (опционально)
	IsActive  *bool   // Новая активность (опционально)
}

// Response модель ответа с обновлённым слотом
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
