package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/agendly/appointment-service/internal/domain"
	"github.com/agendly/appointment-service/internal/events"
	bookingRepo "github.com/agendly/appointment-service/internal/infra/storage/booking"
	customerRepo "github.com/agendly/appointment-service/internal/infra/storage/customer"
	serviceRepo "github.com/agendly/appointment-service/internal/infra/storage/service"
	tenantRepo "github.com/agendly/appointment-service/internal/infra/storage/tenant"
	"github.com/agendly/appointment-service/pkg/txmanager"
)

// UseCase use case для создания бронирования
type UseCase struct {
	bookingRepo  BookingRepository
	tenantRepo   TenantRepository
	customerRepo CustomerRepository
	serviceRepo  ServiceRepository
	txManager    TransactionManager
	publisher    EventPublisher
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case.
// publisher может быть nil, если публикация событий выключена.
func NewUseCase(
	bookingRepo BookingRepository,
	tenantRepo TenantRepository,
	customerRepo CustomerRepository,
	serviceRepo ServiceRepository,
	txManager TransactionManager,
	publisher EventPublisher,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		tenantRepo:   tenantRepo,
		customerRepo: customerRepo,
		serviceRepo:  serviceRepo,
		txManager:    txManager,
		publisher:    publisher,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case создания бронирования:
// референциальные проверки -> проверка конфликтов -> конструирование
// агрегата (повторная валидация) -> сохранение.
// Проверка конфликтов и insert выполняются в сериализуемой транзакции,
// чтобы закрыть гонку между конкурентными созданиями.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: tenant=%s, staff=%v, start=%s, end=%s",
		req.TenantID, ptrOrDash(req.StaffUserID),
		req.RequestedStart.Format(time.RFC3339), req.RequestedEnd.Format(time.RFC3339))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Арендатор должен существовать
	if _, err := uc.tenantRepo.GetByID(ctx, req.TenantID); err != nil {
		if errors.Is(err, tenantRepo.ErrTenantNotFound) {
			uc.logger.Warn("CreateBooking: tenant id=%s not found", req.TenantID)
			return nil, ErrTenantNotFound
		}
		uc.logger.Error("CreateBooking: failed to get tenant id=%s: %v", req.TenantID, err)
		return nil, fmt.Errorf("%w: failed to get tenant: %v", ErrInternal, err)
	}

	// 4. Клиент, если указан, должен существовать и принадлежать арендатору
	if req.CustomerID != nil {
		customer, err := uc.customerRepo.GetByID(ctx, *req.CustomerID)
		if err != nil {
			if errors.Is(err, customerRepo.ErrCustomerNotFound) {
				uc.logger.Warn("CreateBooking: customer id=%s not found", *req.CustomerID)
				return nil, ErrCustomerNotFound
			}
			uc.logger.Error("CreateBooking: failed to get customer id=%s: %v", *req.CustomerID, err)
			return nil, fmt.Errorf("%w: failed to get customer: %v", ErrInternal, err)
		}
		if !customer.BelongsTo(req.TenantID) {
			uc.logger.Warn("CreateBooking: customer id=%s belongs to tenant=%s, not tenant=%s",
				*req.CustomerID, customer.TenantID, req.TenantID)
			return nil, ErrCustomerWrongTenant
		}
	}

	// 5. Услуга, если указана, должна существовать и принадлежать арендатору
	if req.ServiceID != nil {
		svc, err := uc.serviceRepo.GetByID(ctx, *req.ServiceID)
		if err != nil {
			if errors.Is(err, serviceRepo.ErrServiceNotFound) {
				uc.logger.Warn("CreateBooking: service id=%s not found", *req.ServiceID)
				return nil, ErrServiceNotFound
			}
			uc.logger.Error("CreateBooking: failed to get service id=%s: %v", *req.ServiceID, err)
			return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
		}
		if !svc.BelongsTo(req.TenantID) {
			uc.logger.Warn("CreateBooking: service id=%s belongs to tenant=%s, not tenant=%s",
				*req.ServiceID, svc.TenantID, req.TenantID)
			return nil, ErrServiceWrongTenant
		}
	}

	// 6. Статус по умолчанию - pending
	status := domain.StatusPending
	if req.Status != nil {
		status = *req.Status
	}

	var result *domain.Booking

	// 7. Проверка конфликтов и запись - в сериализуемой транзакции
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 7.1. Бронирование без сотрудника ни с кем не конфликтует:
		// взаимное исключение слотов действует в пределах одного сотрудника
		if req.StaffUserID != nil {
			conflicts, err := uc.bookingRepo.FindConflicting(
				txCtx, req.TenantID, req.RequestedStart, req.RequestedEnd, req.StaffUserID, nil)
			if err != nil {
				// 40001 возвращаем без обёртки: DoSerializable повторит транзакцию
				if txmanager.IsSerializationFailure(err) {
					return err
				}
				uc.logger.Error("CreateBooking: failed to find conflicts: %v", err)
				return fmt.Errorf("%w: failed to find conflicts: %v", ErrInternal, err)
			}
			if len(conflicts) > 0 {
				uc.logger.Warn("CreateBooking: %d conflicting booking(s) for staff=%s",
					len(conflicts), *req.StaffUserID)
				return ErrTimeSlotConflict
			}
		}

		// 7.2. Конструируем агрегат - здесь повторно проверяются все инварианты
		booking, err := domain.NewBooking(domain.BookingParams{
			ID:             uuid.NewString(),
			TenantID:       req.TenantID,
			CustomerID:     req.CustomerID,
			ServiceID:      req.ServiceID,
			StaffUserID:    req.StaffUserID,
			Status:         status,
			RequestedStart: req.RequestedStart,
			RequestedEnd:   req.RequestedEnd,
			Notes:          req.Notes,
			CreatedAt:      now,
			UpdatedAt:      now,
		})
		if err != nil {
			uc.logger.Warn("CreateBooking: aggregate validation failed: %v", err)
			return fmt.Errorf("%w: %v", ErrValidation, err)
		}

		// 7.3. Сохраняем; exclusion constraint в БД страхует от гонки,
		// которую не успела поймать предварительная проверка
		if err := uc.bookingRepo.Create(txCtx, booking); err != nil {
			if errors.Is(err, bookingRepo.ErrSlotTaken) {
				return ErrTimeSlotConflict
			}
			if txmanager.IsSerializationFailure(err) {
				return err
			}
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		result = booking
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%s", result.ID)

	uc.publishCreated(ctx, result)

	return fromDomain(result), nil
}

// publishCreated публикует событие booking.created.
// Ошибка публикации логируется и не влияет на результат запроса.
func (uc *UseCase) publishCreated(ctx context.Context, b *domain.Booking) {
	if uc.publisher == nil {
		return
	}

	event := events.BookingCreated{
		BookingID:      b.ID,
		TenantID:       b.TenantID,
		CustomerID:     b.CustomerID,
		ServiceID:      b.ServiceID,
		StaffUserID:    b.StaffUserID,
		Status:         string(b.Status),
		RequestedStart: b.RequestedStart.Format(time.RFC3339),
		RequestedEnd:   b.RequestedEnd.Format(time.RFC3339),
		CreatedAt:      b.CreatedAt.Format(time.RFC3339),
	}

	if err := uc.publisher.PublishJSON(ctx, events.KeyBookingCreated, event); err != nil {
		uc.logger.Error("CreateBooking: failed to publish booking.created for id=%s: %v", b.ID, err)
	}
}

func ptrOrDash(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}
