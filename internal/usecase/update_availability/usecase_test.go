package update_availability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agendly/appointment-service/internal/domain"
	availabilityRepo "github.com/agendly/appointment-service/internal/infra/storage/availability"
	"github.com/agendly/appointment-service/pkg/ptr"
	"github.com/agendly/appointment-service/pkg/types"
)

// Фейковый репозиторий хранит слоты в памяти и фильтрует конфликты
// так же, как настоящий: день недели, пересечение окон, исключение по id.
type fakeAvailabilityRepo struct {
	slots   map[string]*domain.Availability
	updated []*domain.Availability
}

func newFakeRepo(slots ...*domain.Availability) *fakeAvailabilityRepo {
	m := make(map[string]*domain.Availability, len(slots))
	for _, s := range slots {
		m[s.ID] = s
	}
	return &fakeAvailabilityRepo{slots: m}
}

func (f *fakeAvailabilityRepo) GetByID(_ context.Context, id string) (*domain.Availability, error) {
	if s, ok := f.slots[id]; ok {
		return s, nil
	}
	return nil, availabilityRepo.ErrAvailabilityNotFound
}

func (f *fakeAvailabilityRepo) Update(_ context.Context, slot *domain.Availability) error {
	if _, ok := f.slots[slot.ID]; !ok {
		return availabilityRepo.ErrAvailabilityNotFound
	}
	f.slots[slot.ID] = slot
	f.updated = append(f.updated, slot)
	return nil
}

func (f *fakeAvailabilityRepo) FindConflictingSlots(_ context.Context, tenantID string, weekday int, start, end types.TimeString, excludeID *string) ([]*domain.Availability, error) {
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

type fakeTxManager struct{}

func (fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
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

func slot(t *testing.T, id string, weekday int, start, end string) *domain.Availability {
	t.Helper()
	startTime, err := types.NewTimeStringFromString(start)
	require.NoError(t, err)
	endTime, err := types.NewTimeStringFromString(end)
	require.NoError(t, err)

	s, err := domain.NewAvailability(domain.AvailabilityParams{
		ID:        id,
		TenantID:  "tenant-1",
		Weekday:   weekday,
		StartTime: startTime,
		EndTime:   endTime,
		IsActive:  true,
		CreatedAt: created,
		UpdatedAt: created,
	})
	require.NoError(t, err)
	return s
}

func newTestUseCase(repo *fakeAvailabilityRepo) *UseCase {
	uc := NewUseCase(repo, fakeTxManager{}, nopLogger{})
	uc.timeProvider = fixedTime{now: now}
	return uc
}

func TestUpdateAvailabilitySuccess(t *testing.T) {
	repo := newFakeRepo(slot(t, "slot-1", 1, "09:00", "12:00"))
	uc := newTestUseCase(repo)

	resp, err := uc.Execute(context.Background(), &Request{
		ID:       "slot-1",
		TenantID: "tenant-1",
		EndTime:  ptr.Ptr("13:00"),
	})
	require.NoError(t, err)

	assert.Equal(t, "slot-1", resp.ID)
	assert.Equal(t, 1, resp.Weekday, "unspecified fields keep their values")
	assert.Equal(t, "09:00", resp.StartTime)
	assert.Equal(t, "13:00", resp.EndTime)
	assert.Equal(t, created, resp.CreatedAt, "createdAt survives the update")
	assert.Equal(t, now, resp.UpdatedAt)
	require.Len(t, repo.updated, 1)
}

// Обновление, сохраняющее прежнее окно, проходит: собственная запись
// исключается из проверки конфликтов.
func TestUpdateAvailabilitySelfExclusion(t *testing.T) {
	repo := newFakeRepo(slot(t, "slot-1", 1, "09:00", "12:00"))
	uc := newTestUseCase(repo)

	resp, err := uc.Execute(context.Background(), &Request{
		ID:       "slot-1",
		TenantID: "tenant-1",
		IsActive: ptr.Ptr(false),
	})
	require.NoError(t, err)
	assert.False(t, resp.IsActive)
	assert.Equal(t, "09:00", resp.StartTime)
}

func TestUpdateAvailabilityConflict(t *testing.T) {
	repo := newFakeRepo(
		slot(t, "slot-1", 1, "09:00", "12:00"),
		slot(t, "slot-2", 1, "13:00", "15:00"),
	)
	uc := newTestUseCase(repo)

	_, err := uc.Execute(context.Background(), &Request{
		ID:       "slot-1",
		TenantID: "tenant-1",
		EndTime:  ptr.Ptr("14:00"),
	})
	assert.ErrorIs(t, err, ErrTimeSlotConflict)
	assert.Empty(t, repo.updated)
}

// Перенос на другой день недели проверяет конфликты на новом дне
func TestUpdateAvailabilityWeekdayMove(t *testing.T) {
	repo := newFakeRepo(
		slot(t, "slot-1", 1, "09:00", "12:00"),
		slot(t, "slot-2", 2, "10:00", "11:00"),
	)
	uc := newTestUseCase(repo)

	_, err := uc.Execute(context.Background(), &Request{
		ID:       "slot-1",
		TenantID: "tenant-1",
		Weekday:  ptr.Ptr(2),
	})
	assert.ErrorIs(t, err, ErrTimeSlotConflict)

	resp, err := uc.Execute(context.Background(), &Request{
		ID:       "slot-1",
		TenantID: "tenant-1",
		Weekday:  ptr.Ptr(3),
	})
	require.NoError(t, err)
	assert.Equal(t, 3, resp.Weekday)
}

func TestUpdateAvailabilityNotFound(t *testing.T) {
	uc := newTestUseCase(newFakeRepo())

	_, err := uc.Execute(context.Background(), &Request{
		ID:       "missing",
		TenantID: "tenant-1",
	})
	assert.ErrorIs(t, err, ErrAvailabilityNotFound)
}

func TestUpdateAvailabilityAccessDenied(t *testing.T) {
	repo := newFakeRepo(slot(t, "slot-1", 1, "09:00", "12:00"))
	uc := newTestUseCase(repo)

	_, err := uc.Execute(context.Background(), &Request{
		ID:       "slot-1",
		TenantID: "tenant-2",
	})
	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.Empty(t, repo.updated)
}

func TestUpdateAvailabilityValidation(t *testing.T) {
	repo := newFakeRepo(slot(t, "slot-1", 1, "09:00", "12:00"))
	uc := newTestUseCase(repo)

	tests := []struct {
		name    string
		req     *Request
		wantErr error
	}{
		{
			name:    "blank id",
			req:     &Request{TenantID: "tenant-1"},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "blank tenant",
			req:     &Request{ID: "slot-1"},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "malformed start time",
			req:     &Request{ID: "slot-1", TenantID: "tenant-1", StartTime: ptr.Ptr("late")},
			wantErr: ErrValidation,
		},
		{
			name:    "merged window collapses",
			req:     &Request{ID: "slot-1", TenantID: "tenant-1", EndTime: ptr.Ptr("09:00")},
			wantErr: ErrValidation,
		},
		{
			name:    "weekday out of range",
			req:     &Request{ID: "slot-1", TenantID: "tenant-1", Weekday: ptr.Ptr(7)},
			wantErr: ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	assert.Empty(t, repo.updated)
}
