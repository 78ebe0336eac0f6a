package availabilities

import (
	"context"
	"errors"
	"fmt"

	"github.com/agendly/appointment-service/internal/domain"
	availabilityRepo "github.com/agendly/appointment-service/internal/infra/storage/availability"
	"github.com/agendly/appointment-service/internal/service/availabilities/models"
)

// Service сервис для работы со слотами доступности
type Service struct {
	availabilityRepo AvailabilityRepository
	timeProvider     TimeProvider
	logger           Logger
}

// NewService создает новый экземпляр сервиса слотов доступности
func NewService(availabilityRepo AvailabilityRepository, logger Logger) *Service {
	return &Service{
		availabilityRepo: availabilityRepo,
		timeProvider:     &RealTimeProvider{},
		logger:           logger,
	}
}

// GetByID получает слот по ID.
// Слот доступен только в рамках своего арендатора.
func (s *Service) GetByID(ctx context.Context, id string, tenantID string) (*models.AvailabilityResponse, error) {
	s.logger.Info("GetByID: fetching availability id=%s for tenant=%s", id, tenantID)

	slot, err := s.getOwned(ctx, id, tenantID, "GetByID")
	if err != nil {
		return nil, err
	}

	s.logger.Info("GetByID: successfully fetched availability id=%s", id)
	return models.FromDomainAvailability(slot), nil
}

// List получает слоты доступности арендатора.
// Опционально фильтрует по дню недели.
func (s *Service) List(ctx context.Context, req *models.ListAvailabilitiesRequest) (*models.AvailabilityListResponse, error) {
	s.logger.Info("List: fetching availabilities for tenant=%s, weekday=%v", req.TenantID, req.Weekday)

	if req.Weekday != nil && (*req.Weekday < domain.MinWeekday || *req.Weekday > domain.MaxWeekday) {
		s.logger.Warn("List: invalid weekday=%d for tenant=%s", *req.Weekday, req.TenantID)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, domain.ErrInvalidWeekday)
	}

	slots, err := s.availabilityRepo.GetByTenant(ctx, req.TenantID, req.Weekday)
	if err != nil {
		s.logger.Error("List: repository error for tenant=%s: %v", req.TenantID, err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: successfully fetched %d availabilities for tenant=%s", len(slots), req.TenantID)
	return models.FromDomainAvailabilityList(slots), nil
}

// Deactivate выключает слот, не освобождая его окно.
// Деактивированный слот продолжает участвовать в проверке конфликтов,
// освобождает окно только удаление.
func (s *Service) Deactivate(ctx context.Context, id string, tenantID string) (*models.AvailabilityResponse, error) {
	s.logger.Info("Deactivate: deactivating availability id=%s for tenant=%s", id, tenantID)

	slot, err := s.getOwned(ctx, id, tenantID, "Deactivate")
	if err != nil {
		return nil, err
	}

	deactivated, err := domain.NewAvailability(domain.AvailabilityParams{
		ID:        slot.ID,
		TenantID:  slot.TenantID,
		Weekday:   slot.Weekday,
		StartTime: slot.StartTime,
		EndTime:   slot.EndTime,
		IsActive:  false,
		CreatedAt: slot.CreatedAt,
		UpdatedAt: s.timeProvider.Now(),
	})
	if err != nil {
		s.logger.Error("Deactivate: failed to rebuild availability id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: Deactivate - rebuild error: %v", ErrInternal, err)
	}

	if err := s.availabilityRepo.Update(ctx, deactivated); err != nil {
		if errors.Is(err, availabilityRepo.ErrAvailabilityNotFound) {
			s.logger.Warn("Deactivate: availability id=%s not found during update", id)
			return nil, ErrAvailabilityNotFound
		}
		s.logger.Error("Deactivate: repository error for availability id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: Deactivate - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Deactivate: successfully deactivated availability id=%s", id)
	return models.FromDomainAvailability(deactivated), nil
}

// Delete удаляет слот арендатора
func (s *Service) Delete(ctx context.Context, id string, tenantID string) error {
	s.logger.Info("Delete: deleting availability id=%s for tenant=%s", id, tenantID)

	if err := s.availabilityRepo.Delete(ctx, id, tenantID); err != nil {
		if errors.Is(err, availabilityRepo.ErrAvailabilityNotFound) {
			s.logger.Warn("Delete: availability id=%s not found for tenant=%s", id, tenantID)
			return ErrAvailabilityNotFound
		}
		s.logger.Error("Delete: repository error for availability id=%s: %v", id, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Delete: successfully deleted availability id=%s", id)
	return nil
}

// getOwned получает слот и проверяет принадлежность арендатору
func (s *Service) getOwned(ctx context.Context, id string, tenantID string, op string) (*domain.Availability, error) {
	slot, err := s.availabilityRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, availabilityRepo.ErrAvailabilityNotFound) {
			s.logger.Warn("%s: availability id=%s not found", op, id)
			return nil, ErrAvailabilityNotFound
		}
		s.logger.Error("%s: repository error for availability id=%s: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}

	if slot.TenantID != tenantID {
		s.logger.Warn("%s: availability id=%s belongs to tenant=%s, not tenant=%s", op, id, slot.TenantID, tenantID)
		return nil, ErrAccessDenied
	}

	return slot, nil
}
