package update_booking

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/agendly/appointment-service/internal/domain"
	bookingRepo "github.com/agendly/appointment-service/internal/infra/storage/booking"
	"github.com/agendly/appointment-service/pkg/txmanager"
)

// UseCase use case для обновления бронирования
type UseCase struct {
	bookingRepo  BookingRepository
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case обновления бронирования:
// загрузка текущего -> проверка владения -> проверка перехода статуса ->
// слияние полей -> конструирование агрегата (повторная валидация) ->
// проверка конфликтов с исключением собственного id -> запись.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("UpdateBooking: id=%s, tenant=%s", req.ID, req.TenantID)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("UpdateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Загружаем текущее состояние бронирования
	current, err := uc.bookingRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			uc.logger.Warn("UpdateBooking: booking id=%s not found", req.ID)
			return nil, ErrBookingNotFound
		}
		uc.logger.Error("UpdateBooking: failed to get booking id=%s: %v", req.ID, err)
		return nil, fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
	}

	// 3. Проверка владения: бронирование должно принадлежать арендатору запроса
	if current.TenantID != req.TenantID {
		uc.logger.Warn("UpdateBooking: booking id=%s belongs to tenant=%s, not tenant=%s",
			req.ID, current.TenantID, req.TenantID)
		return nil, ErrAccessDenied
	}

	// 4. Смена статуса допустима только по таблице переходов
	if req.Status != nil && !current.Status.CanTransitionTo(*req.Status) {
		uc.logger.Warn("UpdateBooking: transition %s -> %s is not allowed for id=%s",
			current.Status, *req.Status, req.ID)
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidStatusTransition, current.Status, *req.Status)
	}

	// 5. Сливаем указанные поля поверх текущих значений
	merged, err := uc.merge(current, req)
	if err != nil {
		uc.logger.Warn("UpdateBooking: merge failed for id=%s: %v", req.ID, err)
		return nil, err
	}

	var result *domain.Booking

	// 6. Проверка конфликтов и запись - в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 6.1. Конфликты проверяются только если у бронирования есть сотрудник;
		// собственная запись исключается из поиска
		if merged.StaffUserID != nil && !merged.IsCancelled() {
			conflicts, err := uc.bookingRepo.FindConflicting(
				txCtx, merged.TenantID, merged.RequestedStart, merged.RequestedEnd,
				merged.StaffUserID, &merged.ID)
			if err != nil {
				// 40001 возвращаем без обёртки: DoSerializable повторит транзакцию
				if txmanager.IsSerializationFailure(err) {
					return err
				}
				uc.logger.Error("UpdateBooking: failed to find conflicts: %v", err)
				return fmt.Errorf("%w: failed to find conflicts: %v", ErrInternal, err)
			}
			if len(conflicts) > 0 {
				uc.logger.Warn("UpdateBooking: %d conflicting booking(s) for staff=%s",
					len(conflicts), *merged.StaffUserID)
				return ErrTimeSlotConflict
			}
		}

		if err := uc.bookingRepo.Update(txCtx, merged); err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			if errors.Is(err, bookingRepo.ErrSlotTaken) {
				return ErrTimeSlotConflict
			}
			if txmanager.IsSerializationFailure(err) {
				return err
			}
			uc.logger.Error("UpdateBooking: failed to update booking id=%s: %v", merged.ID, err)
			return fmt.Errorf("%w: failed to update booking: %v", ErrInternal, err)
		}

		result = merged
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("UpdateBooking: successfully updated booking id=%s", result.ID)
	return fromDomain(result), nil
}

// merge строит новый агрегат из текущих значений и полей запроса.
// CreatedAt сохраняется из текущей записи: инвариант "начало не в прошлом"
// проверяется относительно момента создания, а не момента правки.
func (uc *UseCase) merge(current *domain.Booking, req *Request) (*domain.Booking, error) {
	params := domain.BookingParams{
		ID:             current.ID,
		TenantID:       current.TenantID,
		CustomerID:     current.CustomerID,
		ServiceID:      current.ServiceID,
		StaffUserID:    current.StaffUserID,
		Status:         current.Status,
		RequestedStart: current.RequestedStart,
		RequestedEnd:   current.RequestedEnd,
		Notes:          current.Notes,
		Rating:         current.Rating,
		CreatedAt:      current.CreatedAt,
		UpdatedAt:      uc.timeProvider.Now(),
	}

	if req.StaffUserID != nil {
		params.StaffUserID = req.StaffUserID
	}
	if req.Status != nil {
		params.Status = *req.Status
	}
	if req.RequestedStart != nil {
		params.RequestedStart = *req.RequestedStart
	}
	if req.RequestedEnd != nil {
		params.RequestedEnd = *req.RequestedEnd
	}
	if req.Notes != nil {
		params.Notes = req.Notes
	}

	merged, err := domain.NewBooking(params)
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
	if req.Status != nil && !req.Status.IsValid() {
		return fmt.Errorf("%w: %v: %s", ErrInvalidInput, domain.ErrInvalidStatus, *req.Status)
	}
	return nil
}
