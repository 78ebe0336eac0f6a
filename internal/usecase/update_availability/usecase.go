package update_availability

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/agendly/appointment-service/internal/domain"
	availabilityRepo "github.com/agendly/appointment-service/internal/infra/storage/availability"
	"github.com/agendly/appointment-service/pkg/txmanager"
	"github.com/agendly/appointment-service/pkg/types"
)

// UseCase use case для обновления слота доступности
type UseCase struct {
	availabilityRepo AvailabilityRepository
	txManager        TransactionManager
	timeProvider     TimeProvider
	logger           Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	availabilityRepo AvailabilityRepository,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		availabilityRepo: availabilityRepo,
		txManager:        txManager,
		timeProvider:     &RealTimeProvider{},
		logger:           logger,
	}
}

// Execute выполняет use case обновления слота доступности:
// загрузка текущего -> проверка владения -> слияние полей ->
// конструирование агрегата (повторная валидация) -> проверка конфликтов
// с исключением собственного id -> запись.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("UpdateAvailability: id=%s, tenant=%s", req.ID, req.TenantID)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("UpdateAvailability: validation failed: %v", err)
		return nil, err
	}

	// 2. Загружаем текущее состояние слота
	current, err := uc.availabilityRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, availabilityRepo.ErrAvailabilityNotFound) {
			uc.logger.Warn("UpdateAvailability: slot id=%s not found", req.ID)
			return nil, ErrAvailabilityNotFound
		}
		uc.logger.Error("UpdateAvailability: failed to get slot id=%s: %v", req.ID, err)
		return nil, fmt.Errorf("%w: failed to get slot: %v", ErrInternal, err)
	}

	// 3. Проверка владения: слот должен принадлежать арендатору запроса
	if current.TenantID != req.TenantID {
		uc.logger.Warn("UpdateAvailability: slot id=%s belongs to tenant=%s, not tenant=%s",
			req.ID, current.TenantID, req.TenantID)
		return nil, ErrAccessDenied
	}

	// 4. Сливаем указанные поля поверх текущих значений
	merged, err := uc.merge(current, req)
	if err != nil {
		uc.logger.Warn("UpdateAvailability: merge failed for id=%s: %v", req.ID, err)
		return nil, err
	}

	var result *domain.Availability

	// 5. Проверка конфликтов (по возможно новому weekday, без собственной
	// записи) и запись - в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		conflicts, err := uc.availabilityRepo.FindConflictingSlots(
			txCtx, merged.TenantID, merged.Weekday, merged.StartTime, merged.EndTime, &merged.ID)
		if err != nil {
			// 40001 возвращаем без обёртки: DoSerializable повторит транзакцию
			if txmanager.IsSerializationFailure(err) {
				return err
			}
			uc.logger.Error("UpdateAvailability: failed to find conflicts: %v", err)
			return fmt.Errorf("%w: failed to find conflicts: %v", ErrInternal, err)
		}
		if len(conflicts) > 0 {
			uc.logger.Warn("UpdateAvailability: %d conflicting slot(s) on weekday=%d", len(conflicts), merged.Weekday)
			return ErrTimeSlotConflict
		}

		if err := uc.availabilityRepo.Update(txCtx, merged); err != nil {
			if errors.Is(err, availabilityRepo.ErrAvailabilityNotFound) {
				return ErrAvailabilityNotFound
			}
			if txmanager.IsSerializationFailure(err) {
				return err
			}
			uc.logger.Error("UpdateAvailability: failed to update slot id=%s: %v", merged.ID, err)
			return fmt.Errorf("%w: failed to update slot: %v", ErrInternal, err)
		}

		result = merged
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("UpdateAvailability: successfully updated slot id=%s", result.ID)
	return fromDomain(result), nil
}

// merge строит новый агрегат из текущих значений и полей запроса.
// Агрегаты неизменяемы: обновление - это конструирование нового слота
// с тем же id, при котором все инварианты проверяются заново.
func (uc *UseCase) merge(current *domain.Availability, req *Request) (*domain.Availability, error) {
	params := domain.AvailabilityParams{
		ID:        current.ID,
		TenantID:  current.TenantID,
		Weekday:   current.Weekday,
		StartTime: current.StartTime,
		EndTime:   current.EndTime,
		IsActive:  current.IsActive,
		CreatedAt: current.CreatedAt,
		UpdatedAt: uc.timeProvider.Now(),
	}

	if req.Weekday != nil {
		params.Weekday = *req.Weekday
	}
	if req.StartTime != nil {
		startTime, err := types.NewTimeStringFromString(*req.StartTime)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid startTime: %v", ErrValidation, err)
		}
		params.StartTime = startTime
	}
	if req.EndTime != nil {
		endTime, err := types.NewTimeStringFromString(*req.EndTime)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid endTime: %v", ErrValidation, err)
		}
		params.EndTime = endTime
	}
	if req.IsActive != nil {
		params.IsActive = *req.IsActive
	}

	merged, err := domain.NewAvailability(params)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return merged, nil
}

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if strings.TrimSpace(req.ID) == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidInput)
	}
	if strings.TrimSpace(req.TenantID) == "" {
		return fmt.Errorf("%w: tenantId is required", ErrInvalidInput)
	}
	return nil
}
