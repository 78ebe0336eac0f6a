package create_availability

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/agendly/appointment-service/internal/domain"
	tenantRepo "github.com/agendly/appointment-service/internal/infra/storage/tenant"
	"github.com/agendly/appointment-service/pkg/txmanager"
	"github.com/agendly/appointment-service/pkg/types"
)

// UseCase use case для создания слота доступности
type UseCase struct {
	availabilityRepo AvailabilityRepository
	tenantRepo       TenantRepository
	txManager        TransactionManager
	timeProvider     TimeProvider
	logger           Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	availabilityRepo AvailabilityRepository,
	tenantRepo TenantRepository,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		availabilityRepo: availabilityRepo,
		tenantRepo:       tenantRepo,
		txManager:        txManager,
		timeProvider:     &RealTimeProvider{},
		logger:           logger,
	}
}

// Execute выполняет use case создания слота доступности:
// арендатор существует -> нет пересечений на tenant+weekday ->
// конструирование агрегата -> сохранение.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateAvailability: tenant=%s, weekday=%d, window=%s-%s",
		req.TenantID, req.Weekday, req.StartTime, req.EndTime)

	// 1. Валидация и парсинг входных данных
	startTime, endTime, err := validateRequest(req)
	if err != nil {
		uc.logger.Warn("CreateAvailability: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Арендатор должен существовать
	if _, err := uc.tenantRepo.GetByID(ctx, req.TenantID); err != nil {
		if errors.Is(err, tenantRepo.ErrTenantNotFound) {
			uc.logger.Warn("CreateAvailability: tenant id=%s not found", req.TenantID)
			return nil, ErrTenantNotFound
		}
		uc.logger.Error("CreateAvailability: failed to get tenant id=%s: %v", req.TenantID, err)
		return nil, fmt.Errorf("%w: failed to get tenant: %v", ErrInternal, err)
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	var result *domain.Availability

	// 4. Проверка конфликтов и запись - в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 4.1. Окно не должно пересекаться с существующими слотами
		// на тот же день недели этого арендатора
		conflicts, err := uc.availabilityRepo.FindConflictingSlots(
			txCtx, req.TenantID, req.Weekday, startTime, endTime, nil)
		if err != nil {
			// 40001 возвращаем без обёртки: DoSerializable повторит транзакцию
			if txmanager.IsSerializationFailure(err) {
				return err
			}
			uc.logger.Error("CreateAvailability: failed to find conflicts: %v", err)
			return fmt.Errorf("%w: failed to find conflicts: %v", ErrInternal, err)
		}
		if len(conflicts) > 0 {
			uc.logger.Warn("CreateAvailability: %d conflicting slot(s) on weekday=%d", len(conflicts), req.Weekday)
			return ErrTimeSlotConflict
		}

		// 4.2. Конструируем агрегат - здесь повторно проверяются инварианты
		slot, err := domain.NewAvailability(domain.AvailabilityParams{
			ID:        uuid.NewString(),
			TenantID:  req.TenantID,
			Weekday:   req.Weekday,
			StartTime: startTime,
			EndTime:   endTime,
			IsActive:  isActive,
			CreatedAt: now,
			UpdatedAt: now,
		})
		if err != nil {
			uc.logger.Warn("CreateAvailability: aggregate validation failed: %v", err)
			return fmt.Errorf("%w: %v", ErrValidation, err)
		}

		// 4.3. Сохраняем
		if err := uc.availabilityRepo.Create(txCtx, slot); err != nil {
			if txmanager.IsSerializationFailure(err) {
				return err
			}
			uc.logger.Error("CreateAvailability: failed to create slot: %v", err)
			return fmt.Errorf("%w: failed to create slot: %v", ErrInternal, err)
		}

		result = slot
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateAvailability: successfully created slot id=%s", result.ID)
	return fromDomain(result), nil
}

// validateRequest валидирует запрос и парсит времена окна
func validateRequest(req *Request) (types.TimeString, types.TimeString, error) {
	var zero types.TimeString

	if req.TenantID == "" {
		return zero, zero, fmt.Errorf("%w: tenantId is required", ErrInvalidInput)
	}

	if req.Weekday < domain.MinWeekday || req.Weekday > domain.MaxWeekday {
		return zero, zero, fmt.Errorf("%w: %v", ErrValidation, domain.ErrInvalidWeekday)
	}

	startTime, err := types.NewTimeStringFromString(req.StartTime)
	if err != nil {
		return zero, zero, fmt.Errorf("%w: invalid startTime: %v", ErrValidation, err)
	}

	endTime, err := types.NewTimeStringFromString(req.EndTime)
	if err != nil {
		return zero, zero, fmt.Errorf("%w: invalid endTime: %v", ErrValidation, err)
	}

	return startTime, endTime, nil
}
