package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agendly/appointment-service/pkg/types"
)

func validAvailabilityParams(t *testing.T) AvailabilityParams {
	t.Helper()
	created := time.Date(2025, 10, 15, 9, 0, 0, 0, time.UTC)
	return AvailabilityParams{
		ID:        "slot-1",
		TenantID:  "tenant-1",
		Weekday:   1,
		StartTime: clock(t, "09:00"),
		EndTime:   clock(t, "17:00"),
		IsActive:  true,
		CreatedAt: created,
		UpdatedAt: created,
	}
}

func TestNewAvailability(t *testing.T) {
	a, err := NewAvailability(validAvailabilityParams(t))
	require.NoError(t, err)
	assert.Equal(t, "slot-1", a.ID)
	assert.Equal(t, 1, a.Weekday)
	assert.Equal(t, "09:00", a.StartTime.String())
	assert.True(t, a.IsActive)
}

func TestNewAvailabilityInvariants(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*AvailabilityParams)
		wantErr error
	}{
		{
			name:    "blank tenant",
			mutate:  func(p *AvailabilityParams) { p.TenantID = "" },
			wantErr: ErrBlankTenantID,
		},
		{
			name:    "weekday below range",
			mutate:  func(p *AvailabilityParams) { p.Weekday = -1 },
			wantErr: ErrInvalidWeekday,
		},
		{
			name:    "weekday above range",
			mutate:  func(p *AvailabilityParams) { p.Weekday = 7 },
			wantErr: ErrInvalidWeekday,
		},
		{
			name:    "zero start time",
			mutate:  func(p *AvailabilityParams) { p.StartTime = types.TimeString{} },
			wantErr: ErrInvalidTime,
		},
		{
			name:    "zero end time",
			mutate:  func(p *AvailabilityParams) { p.EndTime = types.TimeString{} },
			wantErr: ErrInvalidTime,
		},
		{
			name:    "end equals start",
			mutate:  func(p *AvailabilityParams) { p.EndTime = p.StartTime },
			wantErr: ErrEndTimeNotAfterStartTime,
		},
		{
			name: "end before start",
			mutate: func(p *AvailabilityParams) {
				p.StartTime = p.EndTime
				p.EndTime = clock(t, "08:00")
			},
			wantErr: ErrEndTimeNotAfterStartTime,
		},
		{
			name:    "updated before created",
			mutate:  func(p *AvailabilityParams) { p.UpdatedAt = p.CreatedAt.Add(-time.Minute) },
			wantErr: ErrUpdatedBeforeCreated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validAvailabilityParams(t)
			tt.mutate(&p)
			_, err := NewAvailability(p)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestNewAvailabilityWeekdayBoundaries(t *testing.T) {
	for _, weekday := range []int{MinWeekday, MaxWeekday} {
		p := validAvailabilityParams(t)
		p.Weekday = weekday
		_, err := NewAvailability(p)
		assert.NoError(t, err, "weekday %d must be accepted", weekday)
	}
}

func TestAvailabilityOverlapsWith(t *testing.T) {
	base := validAvailabilityParams(t)
	a, err := NewAvailability(base)
	require.NoError(t, err)

	// Тот же день, пересекающееся окно
	p := validAvailabilityParams(t)
	p.ID = "slot-2"
	p.StartTime = clock(t, "16:00")
	p.EndTime = clock(t, "18:00")
	overlapping, err := NewAvailability(p)
	require.NoError(t, err)
	assert.True(t, a.OverlapsWith(overlapping))

	// Другой день недели - никогда не конфликтует
	p.Weekday = 2
	otherDay, err := NewAvailability(p)
	require.NoError(t, err)
	assert.False(t, a.OverlapsWith(otherDay))

	// Граничащее окно того же дня
	p = validAvailabilityParams(t)
	p.ID = "slot-3"
	p.StartTime = clock(t, "17:00")
	p.EndTime = clock(t, "19:00")
	adjacent, err := NewAvailability(p)
	require.NoError(t, err)
	assert.False(t, a.OverlapsWith(adjacent))
}
