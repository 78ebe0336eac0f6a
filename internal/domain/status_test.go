package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBookingStatusIsValid(t *testing.T) {
	for _, s := range AllStatuses {
		assert.True(t, s.IsValid(), "status %q must be valid", s)
	}

	assert.False(t, BookingStatus("unknown").IsValid())
	assert.False(t, BookingStatus("").IsValid())
	assert.False(t, BookingStatus("Pending").IsValid())
}

func TestBookingStatusIsTerminal(t *testing.T) {
	assert.False(t, StatusPending.IsTerminal())
	assert.False(t, StatusConfirmed.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
	assert.True(t, StatusCompleted.IsTerminal())
	assert.False(t, BookingStatus("unknown").IsTerminal())
}

func TestBookingStatusCanTransitionTo(t *testing.T) {
	tests := []struct {
		from, to BookingStatus
		want     bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusCompleted, false},
		{StatusConfirmed, StatusCompleted, true},
		{StatusConfirmed, StatusCancelled, true},
		{StatusConfirmed, StatusPending, false},
		{StatusCancelled, StatusPending, false},
		{StatusCancelled, StatusConfirmed, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusCompleted, StatusConfirmed, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to), "%s -> %s", tt.from, tt.to)
	}

	// Запись того же статуса всегда разрешена, включая терминальные
	for _, s := range AllStatuses {
		assert.True(t, s.CanTransitionTo(s), "%s -> %s (no-op)", s, s)
	}

	// Переходы в/из неизвестного статуса запрещены
	assert.False(t, StatusPending.CanTransitionTo(BookingStatus("unknown")))
	assert.False(t, BookingStatus("unknown").CanTransitionTo(StatusPending))
}
