package domain

import (
	"strings"
	"time"

	"github.com/agendly/appointment-service/pkg/types"
)

// Availability represents one weekly recurring open slot of a tenant:
// a wall-clock window on a weekday (0..6, 0 = first day of the week).
// Like Booking it is an immutable, self-validating value object.
//
// Times are carried as types.TimeString (minutes since midnight inside,
// fixed-width "HH:MM" at the boundary), so window comparisons are numeric
// and never rely on string ordering.
type Availability struct {
	ID        string
	TenantID  string
	Weekday   int
	StartTime types.TimeString
	EndTime   types.TimeString
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// AvailabilityParams полный набор полей для конструирования слота
type AvailabilityParams struct {
	ID        string
	TenantID  string
	Weekday   int
	StartTime types.TimeString
	EndTime   types.TimeString
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewAvailability validates the candidate field set and returns an
// immutable Availability aggregate. A non-zero TimeString can only be
// obtained through parsing, so both times are guaranteed to be valid
// 24-hour HH:MM values once construction succeeds.
func NewAvailability(p AvailabilityParams) (*Availability, error) {
	if strings.TrimSpace(p.TenantID) == "" {
		return nil, ErrBlankTenantID
	}
	if p.Weekday < MinWeekday || p.Weekday > MaxWeekday {
		return nil, ErrInvalidWeekday
	}
	if p.StartTime.IsZero() || p.EndTime.IsZero() {
		return nil, ErrInvalidTime
	}
	if !p.EndTime.IsAfter(p.StartTime) {
		return nil, ErrEndTimeNotAfterStartTime
	}
	if p.UpdatedAt.Before(p.CreatedAt) {
		return nil, ErrUpdatedBeforeCreated
	}

	return &Availability{
		ID:        p.ID,
		TenantID:  p.TenantID,
		Weekday:   p.Weekday,
		StartTime: p.StartTime,
		EndTime:   p.EndTime,
		IsActive:  p.IsActive,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}, nil
}

// OverlapsWindow reports whether the slot's window intersects the given
// half-open wall-clock interval.
func (a *Availability) OverlapsWindow(start, end types.TimeString) bool {
	return OverlapsClock(a.StartTime, a.EndTime, start, end)
}

// OverlapsWith reports whether two slots collide: same weekday and
// intersecting windows. Slots on different weekdays never conflict.
func (a *Availability) OverlapsWith(other *Availability) bool {
	return a.Weekday == other.Weekday && a.OverlapsWindow(other.StartTime, other.EndTime)
}
