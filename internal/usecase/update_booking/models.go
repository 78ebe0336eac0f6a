package update_booking

import (
	"time"

	"github.com/agendly/appointment-service/internal/domain"
)

// Request модель запроса на обновление бронирования.
// Указанные поля заменяют текущие значения, неуказанные сохраняются.
// nil в StaffUserID означает "оставить текущего сотрудника": снять
// сотрудника с бронирования через эту операцию нельзя.
type Request struct {
	ID             string                // ID бронирования
	TenantID       string                // ID арендатора (из контекста запроса, проверка владения)
	StaffUserID    *string               // Новый сотрудник (nil - оставить текущего)
	Status         *domain.BookingStatus // Новый статус (опционально)
	RequestedStart *time.Time            // Новое начало бронирования (опционально)
	RequestedEnd   *time.Time            // Новый конец бронирования (опционально)
	Notes          *string               // Новые заметки (опционально)
}

// Response модель ответа с обновлённым бронированием
type Response struct {
	ID             string
	TenantID       string
	CustomerID     *string
	ServiceID      *string
	StaffUserID    *string
	Status         string
	RequestedStart time.Time
	RequestedEnd   time.Time
	Notes          *string
	Rating         *int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// fromDomain конвертирует агрегат в response
func fromDomain(b *domain.Booking) *Response {
	return &Response{
		ID:             b.ID,
		TenantID:       b.TenantID,
		CustomerID:     b.CustomerID,
		ServiceID:      b.ServiceID,
		StaffUserID:    b.StaffUserID,
		Status:         string(b.Status),
		RequestedStart: b.RequestedStart,
		RequestedEnd:   b.RequestedEnd,
		Notes:          b.Notes,
		Rating:         b.Rating,
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
	}
}
