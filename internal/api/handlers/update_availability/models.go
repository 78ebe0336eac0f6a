package update_availability

import (
	"time"

	updateAvailability "github.com/agendly/appointment-service/internal/usecase/update_availability"
)

// UpdateAvailabilityRequest HTTP request model.
// Указанные поля заменяют текущие значения, неуказанные сохраняются.
type UpdateAvailabilityRequest struct {
	Weekday   *int    `json:"weekday,omitempty"`
	StartTime *string `json:"startTime,omitempty"` // "09:00"
	EndTime   *string `json:"endTime,omitempty"`   // "17:00"
	IsActive  *bool   `json:"isActive,omitempty"`
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
func (r *UpdateAvailabilityRequest) ToUseCaseRequest(id, tenantID string) *updateAvailability.Request {
	return &updateAvailability.Request{
		ID:        id,
		TenantID:  tenantID,
		Weekday:   r.Weekday,
		StartTime: r.StartTime,
		EndTime:   r.EndTime,
		IsActive:  r.IsActive,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *updateAvailability.Response) *AvailabilityResponse {
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
