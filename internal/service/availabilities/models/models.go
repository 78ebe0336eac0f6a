package models

import (
	"time"

	"github.com/agendly/appointment-service/internal/domain"
)

// Request модели

// ListAvailabilitiesRequest запрос на получение слотов доступности арендатора
type ListAvailabilitiesRequest struct {
	TenantID string `json:"tenantId"`
	Weekday  *int   `json:"weekday,omitempty"` // Фильтр по дню недели (опционально)
}

// Response модели

// AvailabilityResponse ответ с данными слота доступности
type AvailabilityResponse struct {
	ID        string    `json:"id"`
	TenantID  string    `json:"tenantId"`
	Weekday   int       `json:"weekday"`
	StartTime string    `json:"startTime"` // "09:00"
	EndTime   string    `json:"endTime"`   // "17:00"
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AvailabilityListResponse ответ со списком слотов доступности
type AvailabilityListResponse struct {
	Availabilities []AvailabilityResponse `json:"availabilities"`
}

// Методы конвертации

// FromDomainAvailability конвертирует domain модель в DTO
func FromDomainAvailability(a *domain.Availability) *AvailabilityResponse {
	if a == nil {
		return nil
	}

	return &AvailabilityResponse{
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

// FromDomainAvailabilityList конвертирует список domain моделей в DTO
func FromDomainAvailabilityList(slots []*domain.Availability) *AvailabilityListResponse {
	if slots == nil {
		return &AvailabilityListResponse{
			Availabilities: []AvailabilityResponse{},
		}
	}

	resp := &AvailabilityListResponse{
		Availabilities: make([]AvailabilityResponse, len(slots)),
	}

	for i, slot := range slots {
		if slotResp := FromDomainAvailability(slot); slotResp != nil {
			resp.Availabilities[i] = *slotResp
		}
	}

	return resp
}
