package create_booking

import (
	"time"

	"github.com/agendly/appointment-service/internal/domain"
	createBooking "github.com/agendly/appointment-service/internal/usecase/create_booking"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	CustomerID     *string `json:"customerId,omitempty"`
	ServiceID      *string `json:"serviceId,omitempty"`
	StaffUserID    *string `json:"staffUserId,omitempty"`
	Status         *string `json:"status,omitempty"`
	RequestedStart string  `json:"requestedStart"` // RFC 3339
	RequestedEnd   string  `json:"requestedEnd"`   // RFC 3339
	Notes          *string `json:"notes,omitempty"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID             string  `json:"id"`
	TenantID       string  `json:"tenantId"`
	CustomerID     *string `json:"customerId,omitempty"`
	ServiceID      *string `json:"serviceId,omitempty"`
	StaffUserID    *string `json:"staffUserId,omitempty"`
	Status         string  `json:"status"`
	RequestedStart string  `json:"requestedStart"`
	RequestedEnd   string  `json:"requestedEnd"`
	Notes          *string `json:"notes,omitempty"`
	Rating         *int    `json:"rating,omitempty"`
	CreatedAt      string  `json:"createdAt"`
	UpdatedAt      string  `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(tenantID string) (*createBooking.Request, error) {
	// Парсим временные границы
	start, err := time.Parse(time.RFC3339, r.RequestedStart)
	if err != nil {
		return nil, err
	}

	end, err := time.Parse(time.RFC3339, r.RequestedEnd)
	if err != nil {
		return nil, err
	}

	var status *domain.BookingStatus
	if r.Status != nil {
		s := domain.BookingStatus(*r.Status)
		status = &s
	}

	return &createBooking.Request{
		TenantID:       tenantID,
		CustomerID:     r.CustomerID,
		ServiceID:      r.ServiceID,
		StaffUserID:    r.StaffUserID,
		Status:         status,
		RequestedStart: start,
		RequestedEnd:   end,
		Notes:          r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:             resp.ID,
		TenantID:       resp.TenantID,
		CustomerID:     resp.CustomerID,
		ServiceID:      resp.ServiceID,
		StaffUserID:    resp.StaffUserID,
		Status:         resp.Status,
		RequestedStart: resp.RequestedStart.Format(time.RFC3339),
		RequestedEnd:   resp.RequestedEnd.Format(time.RFC3339),
		Notes:          resp.Notes,
		Rating:         resp.Rating,
		CreatedAt:      resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      resp.UpdatedAt.Format(time.RFC3339),
	}
}
