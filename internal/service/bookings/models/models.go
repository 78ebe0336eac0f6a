package models

import (
	"errors"
	"time"

	"github.com/agendly/appointment-service/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")
)

// Request модели

// ListBookingsRequest запрос на получение бронирований арендатора
type ListBookingsRequest struct {
	TenantID string  `json:"tenantId"`
	Status   *string `json:"status,omitempty"` // Фильтр по статусу (опционально)
}

// CancelBookingRequest запрос на отмену бронирования
type CancelBookingRequest struct {
	TenantID string  `json:"tenantId"`
	Reason   *string `json:"reason,omitempty"` // Причина отмены (опционально)
}

// RateBookingRequest запрос на выставление оценки бронированию
type RateBookingRequest struct {
	TenantID string `json:"tenantId"`
	Rating   int    `json:"rating"`
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID             string    `json:"id"`
	TenantID       string    `json:"tenantId"`
	CustomerID     *string   `json:"customerId,omitempty"`
	ServiceID      *string   `json:"serviceId,omitempty"`
	StaffUserID    *string   `json:"staffUserId,omitempty"`
	Status         string    `json:"status"`
	RequestedStart time.Time `json:"requestedStart"`
	RequestedEnd   time.Time `json:"requestedEnd"`
	Notes          *string   `json:"notes,omitempty"`
	Rating         *int      `json:"rating,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	return &BookingResponse{
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

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	if bookings == nil {
		return &BookingListResponse{
			Bookings: []BookingResponse{},
		}
	}

	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, len(bookings)),
	}

	for i, booking := range bookings {
		if bookingResp := FromDomainBooking(booking); bookingResp != nil {
			resp.Bookings[i] = *bookingResp
		}
	}

	return resp
}

// ToDomainBookingStatus конвертирует строку в domain.BookingStatus с валидацией
func ToDomainBookingStatus(status string) (domain.BookingStatus, error) {
	s := domain.BookingStatus(status)
	if !s.IsValid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}
