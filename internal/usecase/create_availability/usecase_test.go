package create_availability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agendly/appointment-service/internal/domain"
	tenantRepo "github.com/agendly/appointment-service/internal/infra/storage/tenant"
	"github.com/agendly/appointment-service/pkg/types"
)

// Фейковый репозиторий хранит слоты в памяти и фильтрует конфликты
// так же, как это делает настоящий: по дню недели и пересечению окон.
type fakeAvailabilityRepo struct {
	slots       []*domain.Availability
	findCalls   int
	lastExclude *string
}

func (f *fakeAvailabilityRepo) Create(_ context.Context, slot *domain.Availability) error {
	f.slots = append(f.slots, slot)
	return nil
}

func (f *fakeAvailabilityRepo) FindConflictingSlots(_ context.Context, tenantID string, weekday int, start, end types.TimeString, excludeID *string) ([]*domain.Availability, error) {
	f.findCalls++
	f.lastExclude = excludeID

	var conflicts []*domain.Availability
	for _, s := range f.slots {
		if s.TenantID != tenantID || s.Weekday != weekday {
			continue
		}
		if excludeID != nil && s.ID == *excludeID {
			continue
		}
		if domain.OverlapsClock(start, end, s.StartTime, s.EndTime) {
			conflicts = append(conflicts, s)
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

type fakeTxManager struct {
	calls int
}

func (f *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

var now = time.Date(2025, 10, 15, 9, 0, 0, 0, time.UTC)

func newTestUseCase(repo *fakeAvailabilityRepo) (*UseCase, *fakeTxManager) {
	txMgr := &fakeTxManager{}
	uc := NewUseCase(
		repo,
		&fakeTenantRepo{tenants: map[string]*domain.Tenant{"tenant-1": {ID: "tenant-1"}}},
		txMgr,
		nopLogger{},
	)
	uc.timeProvider = fixedTime{now: now}
	return uc, txMgr
}

func TestCreateAvailabilitySuccess(t *testing.T) {
	repo := &fakeAvailabilityRepo{}
	uc, txMgr := newTestUseCase(repo)

	resp, err := uc.Execute(context.Background(), &Request{
		TenantID:  "tenant-1",
		Weekday:   1,
		StartTime: "09:00",
		EndTime:   "12:00",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "tenant-1", resp.TenantID)
	assert.Equal(t, 1, resp.Weekday)
	assert.Equal(t, "09:00", resp.StartTime)
	assert.Equal(t, "12:00", resp.EndTime)
	assert.True(t, resp.IsActive, "slot is active by default")
	assert.Equal(t, now, resp.CreatedAt)

	require.Len(t, repo.slots, 1)
	assert.Equal(t, 1, txMgr.calls, "conflict check and insert run in one transaction")
	assert.Nil(t, repo.lastExclude, "creation excludes nothing")
}

// Граничащие окна одного дня недели не конфликтуют
func TestCreateAvailabilityAdjacentWindows(t *testing.T) {
	repo := &fakeAvailabilityRepo{}
	uc, _ := newTestUseCase(repo)

	_, err := uc.Execute(context.Background(), &Request{
		TenantID: "tenant-1", Weekday: 1, StartTime: "09:00", EndTime: "12:00",
	})
	require.NoError(t, err)

	_, err = uc.Execute(context.Background(), &Request{
		TenantID: "tenant-1", Weekday: 1, StartTime: "12:00", EndTime: "15:00",
	})
	require.NoError(t, err)
	assert.Len(t, repo.slots, 2)
}

func TestCreateAvailabilityConflict(t *testing.T) {
	repo := &fakeAvailabilityRepo{}
	uc, _ := newTestUseCase(repo)

	_, err := uc.Execute(context.Background(), &Request{
		TenantID: "tenant-1", Weekday: 1, StartTime: "09:00", EndTime: "12:00",
	})
	require.NoError(t, err)

	_, err = uc.Execute(context.Background(), &Request{
		TenantID: "tenant-1", Weekday: 1, StartTime: "11:00", EndTime: "13:00",
	})
	assert.ErrorIs(t, err, ErrTimeSlotConflict)
	assert.Len(t, repo.slots, 1, "conflicting slot must not be inserted")
}

// Тот же интервал в другой день недели не конфликтует
func TestCreateAvailabilityOtherWeekday(t *testing.T) {
	repo := &fakeAvailabilityRepo{}
	uc, _ := newTestUseCase(repo)

	_, err := uc.Execute(context.Background(), &Request{
		TenantID: "tenant-1", Weekday: 1, StartTime: "09:00", EndTime: "12:00",
	})
	require.NoError(t, err)

	_, err = uc.Execute(context.Background(), &Request{
		TenantID: "tenant-1", Weekday: 2, StartTime: "09:00", EndTime: "12:00",
	})
	require.NoError(t, err)
	assert.Len(t, repo.slots, 2)
}

func TestCreateAvailabilityTenantNotFound(t *testing.T) {
	repo := &fakeAvailabilityRepo{}
	uc, _ := newTestUseCase(repo)

	_, err := uc.Execute(context.Background(), &Request{
		TenantID: "tenant-unknown", Weekday: 1, StartTime: "09:00", EndTime: "12:00",
	})
	assert.ErrorIs(t, err, ErrTenantNotFound)
	assert.Empty(t, repo.slots)
}

func TestCreateAvailabilityValidation(t *testing.T) {
	repo := &fakeAvailabilityRepo{}
	uc, _ := newTestUseCase(repo)

	tests := []struct {
		name    string
		req     *Request
		wantErr error
	}{
		{
			name:    "blank tenant",
			req:     &Request{Weekday: 1, StartTime: "09:00", EndTime: "12:00"},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "weekday below range",
			req:     &Request{TenantID: "tenant-1", Weekday: -1, StartTime: "09:00", EndTime: "12:00"},
			wantErr: ErrValidation,
		},
		{
			name:    "weekday above range",
			req:     &Request{TenantID: "tenant-1", Weekday: 7, StartTime: "09:00", EndTime: "12:00"},
			wantErr: ErrValidation,
		},
		{
			name:    "malformed start time",
			req:     &Request{TenantID: "tenant-1", Weekday: 1, StartTime: "9am", EndTime: "12:00"},
			wantErr: ErrValidation,
		},
		{
			name:    "malformed end time",
			req:     &Request{TenantID: "tenant-1", Weekday: 1, StartTime: "09:00", EndTime: "25:00"},
			wantErr: ErrValidation,
		},
		{
			name:    "end equals start",
			req:     &Request{TenantID: "tenant-1", Weekday: 1, StartTime: "09:00", EndTime: "09:00"},
			wantErr: ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	assert.Empty(t, repo.slots)
}
