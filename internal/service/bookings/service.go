package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/agendly/appointment-service/internal/domain"
	"github.com/agendly/appointment-service/internal/events"
	bookingRepo "github.com/agendly/appointment-service/internal/infra/storage/booking"
	"github.com/agendly/appointment-service/internal/service/bookings/models"
)

// Service сервис для работы с бронированиями
type Service struct {
	bookingRepo  BookingRepository
	publisher    EventPublisher
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса бронирований.
// publisher может быть nil, если публикация событий выключена.
func NewService(
	bookingRepo BookingRepository,
	publisher EventPublisher,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		publisher:    publisher,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// GetByID получает бронирование по ID.
// Бронирование доступно только в рамках своего арендатора.
func (s *Service) GetByID(ctx context.Context, id string, tenantID string) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%s for tenant=%s", id, tenantID)

	booking, err := s.getOwned(ctx, id, tenantID, "GetByID")
	if err != nil {
		return nil, err
	}

	s.logger.Info("GetByID: successfully fetched booking id=%s", id)
	return models.FromDomainBooking(booking), nil
}

// List получает бронирования арендатора.
// Опционально фильтрует по статусу.
func (s *Service) List(ctx context.Context, req *models.ListBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("List: fetching bookings for tenant=%s, status=%v", req.TenantID, req.Status)

	// Конвертируем статус из строки в domain.BookingStatus
	var domainStatus *domain.BookingStatus
	if req.Status != nil {
		status, err := models.ToDomainBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("List: invalid status=%s for tenant=%s", *req.Status, req.TenantID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	bookings, err := s.bookingRepo.GetByTenant(ctx, req.TenantID, domainStatus)
	if err != nil {
		s.logger.Error("List: repository error for tenant=%s: %v", req.TenantID, err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: successfully fetched %d bookings for tenant=%s", len(bookings), req.TenantID)
	return models.FromDomainBookingList(bookings), nil
}

// Cancel отменяет бронирование.
// Отмена возможна только из нетерминального статуса.
func (s *Service) Cancel(ctx context.Context, bookingID string, req *models.CancelBookingRequest) (*models.BookingResponse, error) {
	s.logger.Info("Cancel: cancelling booking id=%s for tenant=%s", bookingID, req.TenantID)

	booking, err := s.getOwned(ctx, bookingID, req.TenantID, "Cancel")
	if err != nil {
		return nil, err
	}

	// Проверяем, можно ли отменить бронирование
	if !booking.CanBeCancelled() {
		s.logger.Warn("Cancel: booking id=%s cannot be cancelled, status=%s", bookingID, booking.Status)
		return nil, ErrCannotCancel
	}

	cancelled, err := s.rebuild(booking, func(p *domain.BookingParams) {
		p.Status = domain.StatusCancelled
	})
	if err != nil {
		s.logger.Error("Cancel: failed to rebuild booking id=%s: %v", bookingID, err)
		return nil, fmt.Errorf("%w: Cancel - rebuild error: %v", ErrInternal, err)
	}

	if err := s.bookingRepo.Update(ctx, cancelled); err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("Cancel: booking id=%s not found during cancellation", bookingID)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("Cancel: repository error for booking id=%s: %v", bookingID, err)
		return nil, fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Cancel: successfully cancelled booking id=%s", bookingID)

	s.publishCancelled(ctx, cancelled, req.Reason)

	return models.FromDomainBooking(cancelled), nil
}

// Rate выставляет оценку завершённому бронированию
func (s *Service) Rate(ctx context.Context, bookingID string, req *models.RateBookingRequest) (*models.BookingResponse, error) {
	s.logger.Info("Rate: rating booking id=%s with %d for tenant=%s", bookingID, req.Rating, req.TenantID)

	booking, err := s.getOwned(ctx, bookingID, req.TenantID, "Rate")
	if err != nil {
		return nil, err
	}

	// Оценка допустима только для завершённого бронирования
	if !booking.CanBeRated() {
		s.logger.Warn("Rate: booking id=%s cannot be rated, status=%s", bookingID, booking.Status)
		return nil, ErrCannotRate
	}

	if req.Rating < domain.MinRating || req.Rating > domain.MaxRating {
		s.logger.Warn("Rate: rating=%d out of range for booking id=%s", req.Rating, bookingID)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, domain.ErrRatingOutOfRange)
	}

	rating := req.Rating
	rated, err := s.rebuild(booking, func(p *domain.BookingParams) {
		p.Rating = &rating
	})
	if err != nil {
		s.logger.Error("Rate: failed to rebuild booking id=%s: %v", bookingID, err)
		return nil, fmt.Errorf("%w: Rate - rebuild error: %v", ErrInternal, err)
	}

	if err := s.bookingRepo.Update(ctx, rated); err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("Rate: booking id=%s not found during update", bookingID)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("Rate: repository error for booking id=%s: %v", bookingID, err)
		return nil, fmt.Errorf("%w: Rate - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Rate: successfully rated booking id=%s with %d", bookingID, req.Rating)
	return models.FromDomainBooking(rated), nil
}

// Delete удаляет бронирование арендатора
func (s *Service) Delete(ctx context.Context, bookingID string, tenantID string) error {
	s.logger.Info("Delete: deleting booking id=%s for tenant=%s", bookingID, tenantID)

	if err := s.bookingRepo.Delete(ctx, bookingID, tenantID); err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("Delete: booking id=%s not found for tenant=%s", bookingID, tenantID)
			return ErrBookingNotFound
		}
		s.logger.Error("Delete: repository error for booking id=%s: %v", bookingID, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Delete: successfully deleted booking id=%s", bookingID)
	return nil
}

// Вспомогательные методы

// getOwned получает бронирование и проверяет принадлежность арендатору
func (s *Service) getOwned(ctx context.Context, id string, tenantID string, op string) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: booking id=%s not found", op, id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("%s: repository error for booking id=%s: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}

	if booking.TenantID != tenantID {
		s.logger.Warn("%s: booking id=%s belongs to tenant=%s, not tenant=%s", op, id, booking.TenantID, tenantID)
		return nil, ErrAccessDenied
	}

	return booking, nil
}

// rebuild конструирует новый агрегат из текущего с применением правки.
// Инварианты проверяются конструктором заново, UpdatedAt выставляется в now.
func (s *Service) rebuild(b *domain.Booking, apply func(*domain.BookingParams)) (*domain.Booking, error) {
	params := domain.BookingParams{
		ID:             b.ID,
		TenantID:       b.TenantID,
		CustomerID:     b.CustomerID,
		ServiceID:      b.ServiceID,
		StaffUserID:    b.StaffUserID,
		Status:         b.Status,
		RequestedStart: b.RequestedStart,
		RequestedEnd:   b.RequestedEnd,
		Notes:          b.Notes,
		Rating:         b.Rating,
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      s.timeProvider.Now(),
	}

	apply(&params)

	return domain.NewBooking(params)
}

// publishCancelled публикует событие booking.cancelled.
// Ошибка публикации логируется и не влияет на результат запроса.
func (s *Service) publishCancelled(ctx context.Context, b *domain.Booking, reason *string) {
	if s.publisher == nil {
		return
	}

	event := events.BookingCancelled{
		BookingID:   b.ID,
		TenantID:    b.TenantID,
		Reason:      reason,
		CancelledAt: b.UpdatedAt.Format(time.RFC3339),
	}

	if err := s.publisher.PublishJSON(ctx, events.KeyBookingCancelled, event); err != nil {
		s.logger.Error("Cancel: failed to publish booking.cancelled for id=%s: %v", b.ID, err)
	}
}
