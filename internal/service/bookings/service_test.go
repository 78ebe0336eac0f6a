package bookings

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agendly/appointment-service/internal/domain"
	"github.com/agendly/appointment-service/internal/events"
	bookingRepo "github.com/agendly/appointment-service/internal/infra/storage/booking"
	"github.com/agendly/appointment-service/internal/service/bookings/models"
	"github.com/agendly/appointment-service/pkg/ptr"
)

type fakeBookingRepo struct {
	bookings map[string]*domain.Booking
	updated  []*domain.Booking
	deleted  []string
}

func newFakeRepo(bookings ...*domain.Booking) *fakeBookingRepo {
	m := make(map[string]*domain.Booking, len(bookings))
	for _, b := range bookings {
		m[b.ID] = b
	}
	return &fakeBookingRepo{bookings: m}
}

func (f *fakeBookingRepo) GetByID(_ context.Context, id string) (*domain.Booking, error) {
	if b, ok := f.bookings[id]; ok {
		return b, nil
	}
	return nil, bookingRepo.ErrBookingNotFound
}

func (f *fakeBookingRepo) GetByTenant(_ context.Context, tenantID string, status *domain.BookingStatus) ([]*domain.Booking, error) {
	var out []*domain.Booking
	for _, b := range f.bookings {
		if b.TenantID != tenantID {
			continue
		}
		if status != nil && b.Status != *status {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

func (f *fakeBookingRepo) Update(_ context.Context, b *domain.Booking) error {
	if _, ok := f.bookings[b.ID]; !ok {
		return bookingRepo.ErrBookingNotFound
	}
	f.bookings[b.ID] = b
	f.updated = append(f.updated, b)
	return nil
}

func (f *fakeBookingRepo) Delete(_ context.Context, id string, tenantID string) error {
	b, ok := f.bookings[id]
	if !ok || b.TenantID != tenantID {
		return bookingRepo.ErrBookingNotFound
	}
	delete(f.bookings, id)
	f.deleted = append(f.deleted, id)
	return nil
}

type fakePublisher struct {
	keys   []string
	events []any
}

func (f *fakePublisher) PublishJSON(_ context.Context, key string, v any) error {
	f.keys = append(f.keys, key)
	f.events = append(f.events, v)
	return nil
}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

var (
	created = time.Date(2025, 10, 1, 9, 0, 0, 0, time.UTC)
	now     = time.Date(2025, 10, 15, 9, 0, 0, 0, time.UTC)
)

func booking(t *testing.T, id string, status domain.BookingStatus, mutate ...func(*domain.BookingParams)) *domain.Booking {
	t.Helper()
	params := domain.BookingParams{
		ID:             id,
		TenantID:       "tenant-1",
		StaffUserID:    ptr.Ptr("staff-1"),
		Status:         status,
		RequestedStart: created.Add(time.Hour),
		RequestedEnd:   created.Add(2 * time.Hour),
		CreatedAt:      created,
		UpdatedAt:      created,
	}
	for _, m := range mutate {
		m(&params)
	}
	b, err := domain.NewBooking(params)
	require.NoError(t, err)
	return b
}

func newTestService(repo *fakeBookingRepo, publisher EventPublisher) *Service {
	svc := NewService(repo, publisher, nopLogger{})
	svc.timeProvider = fixedTime{now: now}
	return svc
}

func TestGetByID(t *testing.T) {
	repo := newFakeRepo(booking(t, "booking-1", domain.StatusPending))
	svc := newTestService(repo, nil)

	resp, err := svc.GetByID(context.Background(), "booking-1", "tenant-1")
	require.NoError(t, err)
	assert.Equal(t, "booking-1", resp.ID)
	assert.Equal(t, string(domain.StatusPending), resp.Status)

	_, err = svc.GetByID(context.Background(), "missing", "tenant-1")
	assert.ErrorIs(t, err, ErrBookingNotFound)

	// Чужой арендатор не видит бронирование
	_, err = svc.GetByID(context.Background(), "booking-1", "tenant-2")
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestList(t *testing.T) {
	repo := newFakeRepo(
		booking(t, "booking-1", domain.StatusPending),
		booking(t, "booking-2", domain.StatusConfirmed),
		booking(t, "booking-3", domain.StatusConfirmed),
	)
	svc := newTestService(repo, nil)

	resp, err := svc.List(context.Background(), &models.ListBookingsRequest{TenantID: "tenant-1"})
	require.NoError(t, err)
	assert.Len(t, resp.Bookings, 3)

	resp, err = svc.List(context.Background(), &models.ListBookingsRequest{
		TenantID: "tenant-1",
		Status:   ptr.Ptr("confirmed"),
	})
	require.NoError(t, err)
	assert.Len(t, resp.Bookings, 2)

	_, err = svc.List(context.Background(), &models.ListBookingsRequest{
		TenantID: "tenant-1",
		Status:   ptr.Ptr("unknown"),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	resp, err = svc.List(context.Background(), &models.ListBookingsRequest{TenantID: "tenant-2"})
	require.NoError(t, err)
	assert.Empty(t, resp.Bookings)
}

func TestCancel(t *testing.T) {
	repo := newFakeRepo(booking(t, "booking-1", domain.StatusPending))
	publisher := &fakePublisher{}
	svc := newTestService(repo, publisher)

	reason := "customer request"
	resp, err := svc.Cancel(context.Background(), "booking-1", &models.CancelBookingRequest{
		TenantID: "tenant-1",
		Reason:   &reason,
	})
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusCancelled), resp.Status)
	assert.Equal(t, now, resp.UpdatedAt)
	require.Len(t, repo.updated, 1)

	// Событие отмены уносит причину
	require.Equal(t, []string{events.KeyBookingCancelled}, publisher.keys)
	event, ok := publisher.events[0].(events.BookingCancelled)
	require.True(t, ok)
	assert.Equal(t, "booking-1", event.BookingID)
	require.NotNil(t, event.Reason)
	assert.Equal(t, reason, *event.Reason)
}

func TestCancelFromConfirmed(t *testing.T) {
	repo := newFakeRepo(booking(t, "booking-1", domain.StatusConfirmed))
	svc := newTestService(repo, nil)

	resp, err := svc.Cancel(context.Background(), "booking-1", &models.CancelBookingRequest{TenantID: "tenant-1"})
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCancelled), resp.Status)
}

// Терминальные статусы отмене не подлежат
func TestCancelTerminalStatuses(t *testing.T) {
	for _, status := range []domain.BookingStatus{domain.StatusCancelled, domain.StatusCompleted} {
		repo := newFakeRepo(booking(t, "booking-1", status))
		svc := newTestService(repo, nil)

		_, err := svc.Cancel(context.Background(), "booking-1", &models.CancelBookingRequest{TenantID: "tenant-1"})
		assert.ErrorIs(t, err, ErrCannotCancel, "status %s", status)
		assert.Empty(t, repo.updated)
	}
}

func TestCancelAccessDenied(t *testing.T) {
	repo := newFakeRepo(booking(t, "booking-1", domain.StatusPending))
	publisher := &fakePublisher{}
	svc := newTestService(repo, publisher)

	_, err := svc.Cancel(context.Background(), "booking-1", &models.CancelBookingRequest{TenantID: "tenant-2"})
	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.Empty(t, publisher.keys)
}

func TestRate(t *testing.T) {
	repo := newFakeRepo(booking(t, "booking-1", domain.StatusCompleted))
	svc := newTestService(repo, nil)

	resp, err := svc.Rate(context.Background(), "booking-1", &models.RateBookingRequest{
		TenantID: "tenant-1",
		Rating:   5,
	})
	require.NoError(t, err)
	require.NotNil(t, resp.Rating)
	assert.Equal(t, 5, *resp.Rating)
	assert.Equal(t, now, resp.UpdatedAt)
}

func TestRateOnlyCompleted(t *testing.T) {
	for _, status := range []domain.BookingStatus{domain.StatusPending, domain.StatusConfirmed, domain.StatusCancelled} {
		repo := newFakeRepo(booking(t, "booking-1", status))
		svc := newTestService(repo, nil)

		_, err := svc.Rate(context.Background(), "booking-1", &models.RateBookingRequest{
			TenantID: "tenant-1",
			Rating:   5,
		})
		assert.ErrorIs(t, err, ErrCannotRate, "status %s", status)
	}
}

// Повторная оценка запрещена
func TestRateAlreadyRated(t *testing.T) {
	rated := booking(t, "booking-1", domain.StatusCompleted, func(p *domain.BookingParams) {
		p.Rating = ptr.Ptr(4)
	})
	repo := newFakeRepo(rated)
	svc := newTestService(repo, nil)

	_, err := svc.Rate(context.Background(), "booking-1", &models.RateBookingRequest{
		TenantID: "tenant-1",
		Rating:   5,
	})
	assert.ErrorIs(t, err, ErrCannotRate)
}

func TestRateOutOfRange(t *testing.T) {
	for _, rating := range []int{0, 6, -1} {
		repo := newFakeRepo(booking(t, "booking-1", domain.StatusCompleted))
		svc := newTestService(repo, nil)

		_, err := svc.Rate(context.Background(), "booking-1", &models.RateBookingRequest{
			TenantID: "tenant-1",
			Rating:   rating,
		})
		assert.ErrorIs(t, err, ErrInvalidInput, "rating %d", rating)
		assert.Empty(t, repo.updated)
	}
}

func TestDelete(t *testing.T) {
	repo := newFakeRepo(booking(t, "booking-1", domain.StatusPending))
	svc := newTestService(repo, nil)

	require.NoError(t, svc.Delete(context.Background(), "booking-1", "tenant-1"))
	assert.Equal(t, []string{"booking-1"}, repo.deleted)

	assert.ErrorIs(t, svc.Delete(context.Background(), "booking-1", "tenant-1"), ErrBookingNotFound)
}

// Удаление в рамках чужого арендатора выглядит как "не найдено"
func TestDeleteWrongTenant(t *testing.T) {
	repo := newFakeRepo(booking(t, "booking-1", domain.StatusPending))
	svc := newTestService(repo, nil)

	assert.ErrorIs(t, svc.Delete(context.Background(), "booking-1", "tenant-2"), ErrBookingNotFound)
	assert.Empty(t, repo.deleted)
}
