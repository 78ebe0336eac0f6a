package create_booking

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agendly/appointment-service/internal/domain"
	bookingRepo "github.com/agendly/appointment-service/internal/infra/storage/booking"
	customerRepo "github.com/agendly/appointment-service/internal/infra/storage/customer"
	serviceRepo "github.com/agendly/appointment-service/internal/infra/storage/service"
	tenantRepo "github.com/agendly/appointment-service/internal/infra/storage/tenant"
	"github.com/agendly/appointment-service/pkg/ptr"
	"github.com/agendly/appointment-service/pkg/txmanager"
)

// Фейки зависимостей use case

// fakeBookingRepo хранит бронирования в слайсе и фильтрует конфликты
// так же, как хранилище: арендатор, не отменённые, тот же сотрудник,
// полуоткрытое пересечение интервалов
type fakeBookingRepo struct {
	bookings  []*domain.Booking
	created   []*domain.Booking
	findErrs  []error
	createErr error
	findCalls int
}

func (f *fakeBookingRepo) Create(_ context.Context, b *domain.Booking) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, b)
	f.bookings = append(f.bookings, b)
	return nil
}

func (f *fakeBookingRepo) FindConflicting(_ context.Context, tenantID string, start, end time.Time, staffUserID *string, excludeID *string) ([]*domain.Booking, error) {
	f.findCalls++
	if len(f.findErrs) > 0 {
		err := f.findErrs[0]
		f.findErrs = f.findErrs[1:]
		if err != nil {
			return nil, err
		}
	}

	var conflicts []*domain.Booking
	for _, b := range f.bookings {
		if b.TenantID != tenantID || b.IsCancelled() {
			continue
		}
		if b.StaffUserID == nil || staffUserID == nil || *b.StaffUserID != *staffUserID {
			continue
		}
		if excludeID != nil && b.ID == *excludeID {
			continue
		}
		if domain.Overlaps(start, end, b.RequestedStart, b.RequestedEnd) {
			conflicts = append(conflicts, b)
		}
	}
	return conflicts, nil
}

type fakeTenantRepo struct {
	tenants map[string]*domain.Tenant
}

func (f *fakeTenantRepo) GetByID(_ context.Context, id string) (*domain.Tenant, error) {
	if t, ok := f.tenants[id]; ok {
		return t, nil
	}
	return nil, tenantRepo.ErrTenantNotFound
}

type fakeCustomerRepo struct {
	customers map[string]*domain.Customer
}

func (f *fakeCustomerRepo) GetByID(_ context.Context, id string) (*domain.Customer, error) {
	if c, ok := f.customers[id]; ok {
		return c, nil
	}
	return nil, customerRepo.ErrCustomerNotFound
}

type fakeServiceRepo struct {
	services map[string]*domain.Service
}

func (f *fakeServiceRepo) GetByID(_ context.Context, id string) (*domain.Service, error) {
	if s, ok := f.services[id]; ok {
		return s, nil
	}
	return nil, serviceRepo.ErrServiceNotFound
}

type fakeTxManager struct {
	calls int
}

func (f *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

type fakePublisher struct {
	keys []string
	err  error
}

func (f *fakePublisher) PublishJSON(_ context.Context, key string, _ any) error {
	f.keys = append(f.keys, key)
	return f.err
}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

var now = time.Date(2025, 10, 15, 9, 0, 0, 0, time.UTC)

func newTestUseCase(bookingRepo *fakeBookingRepo, publisher EventPublisher) (*UseCase, *fakeTxManager) {
	txMgr := &fakeTxManager{}
	uc := NewUseCase(
		bookingRepo,
		&fakeTenantRepo{tenants: map[string]*domain.Tenant{"tenant-1": {ID: "tenant-1"}}},
		&fakeCustomerRepo{customers: map[string]*domain.Customer{"customer-1": {ID: "customer-1", TenantID: "tenant-1"}}},
		&fakeServiceRepo{services: map[string]*domain.Service{"service-1": {ID: "service-1", TenantID: "tenant-1"}}},
		txMgr,
		publisher,
		nopLogger{},
	)
	uc.timeProvider = fixedTime{now: now}
	return uc, txMgr
}

func validRequest() *Request {
	return &Request{
		TenantID:       "tenant-1",
		StaffUserID:    ptr.Ptr("staff-1"),
		RequestedStart: now.Add(time.Hour),
		RequestedEnd:   now.Add(2 * time.Hour),
	}
}

// storedBooking строит существующее бронирование tenant-1 для наполнения фейка
func storedBooking(t *testing.T, id string, staffID *string, status domain.BookingStatus, start, end time.Time) *domain.Booking {
	t.Helper()
	b, err := domain.NewBooking(domain.BookingParams{
		ID:             id,
		TenantID:       "tenant-1",
		StaffUserID:    staffID,
		Status:         status,
		RequestedStart: start,
		RequestedEnd:   end,
		CreatedAt:      now.Add(-24 * time.Hour),
		UpdatedAt:      now.Add(-24 * time.Hour),
	})
	require.NoError(t, err)
	return b
}

func TestCreateBookingSuccess(t *testing.T) {
	repo := &fakeBookingRepo{}
	publisher := &fakePublisher{}
	uc, txMgr := newTestUseCase(repo, publisher)

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "tenant-1", resp.TenantID)
	assert.Equal(t, string(domain.StatusPending), resp.Status, "status defaults to pending")
	assert.Equal(t, now, resp.CreatedAt)
	assert.Equal(t, now, resp.UpdatedAt)

	require.Len(t, repo.created, 1)
	assert.Equal(t, resp.ID, repo.created[0].ID)
	assert.Equal(t, 1, txMgr.calls, "conflict check and insert run in one transaction")
	assert.Equal(t, 1, repo.findCalls)
	assert.Equal(t, []string{"booking.created"}, publisher.keys)
}

func TestCreateBookingExplicitStatus(t *testing.T) {
	repo := &fakeBookingRepo{}
	uc, _ := newTestUseCase(repo, nil)

	req := validRequest()
	req.Status = ptr.Ptr(domain.StatusConfirmed)

	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
}

func TestCreateBookingConflict(t *testing.T) {
	repo := &fakeBookingRepo{bookings: []*domain.Booking{
		storedBooking(t, "existing", ptr.Ptr("staff-1"), domain.StatusConfirmed,
			now.Add(time.Hour), now.Add(2*time.Hour)),
	}}
	uc, _ := newTestUseCase(repo, nil)

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrTimeSlotConflict)
	assert.Empty(t, repo.created, "insert must not happen on conflict")
}

// Пересечение с бронированием другого сотрудника конфликтом не считается:
// взаимное исключение слотов действует в пределах одного сотрудника
func TestCreateBookingOtherStaffDoesNotConflict(t *testing.T) {
	repo := &fakeBookingRepo{bookings: []*domain.Booking{
		storedBooking(t, "existing", ptr.Ptr("staff-1"), domain.StatusConfirmed,
			now.Add(time.Hour), now.Add(2*time.Hour)),
	}}
	uc, _ := newTestUseCase(repo, nil)

	req := validRequest()
	req.StaffUserID = ptr.Ptr("staff-2")

	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, 1, repo.findCalls)

	// То же окно для staff-1 по-прежнему конфликтует
	_, err = uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrTimeSlotConflict)
}

// Отменённое бронирование освобождает свой слот
func TestCreateBookingCancelledBookingDoesNotConflict(t *testing.T) {
	repo := &fakeBookingRepo{bookings: []*domain.Booking{
		storedBooking(t, "cancelled", ptr.Ptr("staff-1"), domain.StatusCancelled,
			now.Add(time.Hour), now.Add(2*time.Hour)),
	}}
	uc, _ := newTestUseCase(repo, nil)

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, 1, repo.findCalls, "conflict query runs, cancelled rows are filtered out")
}

// Бронирование без сотрудника ни с кем не конфликтует:
// запрос конфликтов вообще не выполняется.
func TestCreateBookingWithoutStaffSkipsConflictCheck(t *testing.T) {
	repo := &fakeBookingRepo{bookings: []*domain.Booking{
		storedBooking(t, "existing", ptr.Ptr("staff-1"), domain.StatusConfirmed,
			now.Add(time.Hour), now.Add(2*time.Hour)),
	}}
	uc, _ := newTestUseCase(repo, nil)

	req := validRequest()
	req.StaffUserID = nil

	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, 0, repo.findCalls)
}

func TestCreateBookingTenantNotFound(t *testing.T) {
	repo := &fakeBookingRepo{}
	uc, _ := newTestUseCase(repo, nil)

	req := validRequest()
	req.TenantID = "tenant-unknown"

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrTenantNotFound)
}

func TestCreateBookingCustomerWrongTenant(t *testing.T) {
	repo := &fakeBookingRepo{}
	txMgr := &fakeTxManager{}
	uc := NewUseCase(
		repo,
		&fakeTenantRepo{tenants: map[string]*domain.Tenant{"tenant-1": {ID: "tenant-1"}}},
		&fakeCustomerRepo{customers: map[string]*domain.Customer{"customer-1": {ID: "customer-1", TenantID: "tenant-2"}}},
		&fakeServiceRepo{},
		txMgr,
		nil,
		nopLogger{},
	)
	uc.timeProvider = fixedTime{now: now}

	req := validRequest()
	req.CustomerID = ptr.Ptr("customer-1")

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrCustomerWrongTenant)
	assert.Empty(t, repo.created)
}

func TestCreateBookingValidation(t *testing.T) {
	repo := &fakeBookingRepo{}
	uc, _ := newTestUseCase(repo, nil)

	// Пустой tenant отбрасывается до любых обращений к репозиториям
	req := validRequest()
	req.TenantID = " "
	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)

	// Окно с end <= start ловит доменный конструктор
	req = validRequest()
	req.RequestedEnd = req.RequestedStart
	_, err = uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrValidation)

	// Начало в прошлом
	req = validRequest()
	req.RequestedStart = now.Add(-time.Hour)
	req.RequestedEnd = now.Add(time.Hour)
	_, err = uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrValidation)

	assert.Empty(t, repo.created)
}

// retryingTxManager повторяет транзакцию при serialization failure,
// как настоящий менеджер
type retryingTxManager struct {
	attempts int
}

func (f *retryingTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	var err error
	for i := 0; i < 3; i++ {
		f.attempts++
		err = fn(ctx)
		if !txmanager.IsSerializationFailure(err) {
			return err
		}
	}
	return err
}

// SQLSTATE 40001 на проверке конфликтов должен приводить к повтору
// транзакции, а не к внутренней ошибке клиенту
func TestCreateBookingRetriesOnSerializationFailure(t *testing.T) {
	serErr := fmt.Errorf("%w: FindConflicting - execute query: %w",
		bookingRepo.ErrExecQuery, &pq.Error{Code: "40001"})

	repo := &fakeBookingRepo{findErrs: []error{serErr}}
	txMgr := &retryingTxManager{}
	uc := NewUseCase(
		repo,
		&fakeTenantRepo{tenants: map[string]*domain.Tenant{"tenant-1": {ID: "tenant-1"}}},
		&fakeCustomerRepo{},
		&fakeServiceRepo{},
		txMgr,
		nil,
		nopLogger{},
	)
	uc.timeProvider = fixedTime{now: now}

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, 2, txMgr.attempts, "first attempt fails with 40001, second succeeds")
	assert.Equal(t, 2, repo.findCalls)
	require.Len(t, repo.created, 1)
}

// Ошибка публикации события не влияет на результат запроса
func TestCreateBookingPublishFailureIsNotFatal(t *testing.T) {
	repo := &fakeBookingRepo{}
	publisher := &fakePublisher{err: assert.AnError}
	uc, _ := newTestUseCase(repo, publisher)

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)
	assert.NotEmpty(t, resp.ID)
}
