package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// Booking represents one reservation of an absolute time window within a
// tenant. The aggregate is an immutable value object: every construction,
// including reconstruction from storage, goes through NewBooking and either
// yields a fully valid booking or an error. There is no partially
// constructed state.
//
// CustomerID, ServiceID and StaffUserID are soft references: the aggregate
// only carries them, existence and tenant ownership are checked by the
// use-case layer.
type Booking struct {
	ID             string
	TenantID       string
	CustomerID     *string
	ServiceID      *string
	StaffUserID    *string
	Status         BookingStatus
	RequestedStart time.Time
	RequestedEnd   time.Time
	Notes          *string
	Rating         *int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// BookingParams полный набор полей для конструирования бронирования
type BookingParams struct {
	ID             string
	TenantID       string
	CustomerID     *string
	ServiceID      *string
	StaffUserID    *string
	Status         BookingStatus
	RequestedStart time.Time
	RequestedEnd   time.Time
	Notes          *string
	Rating         *int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewBooking validates the full candidate field set and returns an
// immutable Booking aggregate.
//
// The "no bookings in the past" rule uses the aggregate's own createdAt as
// the reference point: on the create path the orchestrator sets
// createdAt = now, so the check is equivalent to requestedStart >= now,
// while bookings reconstructed from storage keep their original reference
// point and stay valid after their window has passed.
func NewBooking(p BookingParams) (*Booking, error) {
	if strings.TrimSpace(p.TenantID) == "" {
		return nil, ErrBlankTenantID
	}
	if !p.Status.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, p.Status)
	}
	if p.UpdatedAt.Before(p.CreatedAt) {
		return nil, ErrUpdatedBeforeCreated
	}
	if !p.RequestedEnd.After(p.RequestedStart) {
		return nil, ErrEndNotAfterStart
	}
	if p.RequestedStart.Before(p.CreatedAt) {
		return nil, ErrStartInPast
	}
	if p.Rating != nil && (*p.Rating < MinRating || *p.Rating > MaxRating) {
		return nil, fmt.Errorf("%w: got %d", ErrRatingOutOfRange, *p.Rating)
	}
	if p.Notes != nil && utf8.RuneCountInString(*p.Notes) > MaxNotesLength {
		return nil, fmt.Errorf("%w: got %d characters", ErrNotesTooLong, utf8.RuneCountInString(*p.Notes))
	}

	return &Booking{
		ID:             p.ID,
		TenantID:       p.TenantID,
		CustomerID:     p.CustomerID,
		ServiceID:      p.ServiceID,
		StaffUserID:    p.StaffUserID,
		Status:         p.Status,
		RequestedStart: p.RequestedStart,
		RequestedEnd:   p.RequestedEnd,
		Notes:          p.Notes,
		Rating:         p.Rating,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}, nil
}

// IsPending returns true if the booking is awaiting confirmation
func (b *Booking) IsPending() bool {
	return b.Status == StatusPending
}

// IsConfirmed returns true if the booking has been confirmed
func (b *Booking) IsConfirmed() bool {
	return b.Status == StatusConfirmed
}

// IsCancelled returns true if the booking has been cancelled
func (b *Booking) IsCancelled() bool {
	return b.Status == StatusCancelled
}

// IsCompleted returns true if the booking has been completed
func (b *Booking) IsCompleted() bool {
	return b.Status == StatusCompleted
}

// CanBeCancelled returns true while the booking is still pending or confirmed
func (b *Booking) CanBeCancelled() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// CanBeRated returns true for a completed booking that has not been rated yet
func (b *Booking) CanBeRated() bool {
	return b.Status == StatusCompleted && b.Rating == nil
}

// OverlapsWindow reports whether the booking's window intersects the given
// half-open interval. Status is deliberately ignored here; excluding
// cancelled bookings is the conflict query's concern.
func (b *Booking) OverlapsWindow(start, end time.Time) bool {
	return Overlaps(b.RequestedStart, b.RequestedEnd, start, end)
}

// OverlapsWith reports whether two bookings occupy intersecting windows
func (b *Booking) OverlapsWith(other *Booking) bool {
	return b.OverlapsWindow(other.RequestedStart, other.RequestedEnd)
}
