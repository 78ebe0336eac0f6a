package update_booking

import (
	"time"

	"github.com/agendly/appointment-service/internal/domain"
	updateBooking "github.com/agendly/appointment-service/internal/usecase/update_booking"
)

// UpdateBookingRequest HTTP request model.
// Указанные поля заменяют текущие значения, неуказанные сохраняются.
// Отсутствующий staffUserId оставляет текущего сотрудника: снять
// сотрудника с бронирования через этот endpoint нельзя.
type UpdateBookingRequest struct {
	StaffUserID    *string `json:"staffUserId,omitempty"`
	Status         *string `json:"status,omitempty"`
	RequestedStart *string `json:"requestedStart,omitempty"` // RFC 3339
	RequestedEnd   *string `json:"requestedEnd,omitempty"`   // RFC 3339
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
func (r *UpdateBookingRequest) ToUseCaseRequest(id, tenantID string) (*updateBooking.Request, error) {
	req := &updateBooking.Request{
		ID:          id,
		TenantID:    tenantID,
		StaffUserID: r.StaffUserID,
		Notes:       r.Notes,
	}

	if r.Status != nil {
		status := domain.BookingStatus(*r.Status)
		req.Status = &status
	}

	if r.RequestedStart != nil {
		start, err := time.Parse(time.RFC3339, *r.RequestedStart)
		if err != nil {
			return nil, err
		}
		req.RequestedStart = &start
	}

	if r.RequestedEnd != nil {
		end, err := time.Parse(time.RFC3339, *r.RequestedEnd)
		if err != nil {
			return nil, err
		}
		req.RequestedEnd = &end
	}

	return req, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *updateBooking.Response) *BookingResponse {
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
