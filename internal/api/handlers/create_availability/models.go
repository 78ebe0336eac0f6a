package create_availability

import (
	"time"

	createAvailability "github.com/agendly/appointment-service/internal/usecase/create_availability"
)

// CreateAvailabilityRequest HTTP request model
type CreateAvailabilityRequest struct {
	Weekday   int    `json:"weekday"`            // 0..6
	StartTime string `json:"startTime"`          // "09:00"
	EndTime   string `json:"endTime"`            // "17:00"
	IsActive  *bool  `json:"isActive,omitempty"` // по умолчанию true
}

// AvailabilityResponse HTTP response model
type AvailabilityResponse struct {
	ID        string `json:"id"`
	TenantID  string `json:"tenantId"`
	Weekday   int    `json:"weekday"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	IsActive  bool   `json:"isActive"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateAvailabilityRequest) ToUseCaseRequest(tenantID string) *createAvailability.Request {
	return &createAvailability.Request{
		TenantID:  tenantID,
		Weekday:   r.Weekday,
		StartTime: r.StartTime,
		EndTime:   r.EndTime,
		IsActive:  r.IsActive,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createAvailability.Response) *AvailabilityResponse {
	return &AvailabilityResponse{
		ID:        resp.ID,
		TenantID:  resp.TenantID,
		Weekday:   resp.Weekday,
		StartTime: resp.StartTime,
		EndTime:   resp.EndTime,
		IsActive:  resp.IsActive,
		CreatedAt: resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt: resp.UpdatedAt.Format(time.RFC3339),
	}
}
