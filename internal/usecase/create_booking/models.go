package create_booking

import (
	"time"

	"github.com/agendly/appointment-service/internal/domain"
)

// Request модель запроса на создание бронирования
type Request struct {
	TenantID       string                // ID арендатора (из контекста запроса)
	CustomerID     *string               // ID клиента (опционально)
	ServiceID      *string               // ID услуги (опционально)
	StaffUserID    *string               // ID сотрудника (опционально)
	Status         *domain.BookingStatus // Начальный статус (по умолчанию pending)
	RequestedStart time.Time             // Начало бронирования (абсолютное время)
	RequestedEnd   time.Time             // Конец бронирования
	Notes          *string               // Заметки (опционально)
}

// Response модель ответа с созданным бронированием
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
