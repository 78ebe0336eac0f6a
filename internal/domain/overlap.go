package domain

import (
	"time"

	"github.com/agendly/appointment-service/pkg/types"
)

// Overlaps reports whether two half-open intervals [aStart, aEnd) and
// [bStart, bEnd) intersect. Strict inequalities on both sides mean that
// intervals touching exactly at a boundary do NOT overlap, so consecutive
// bookings are legal:
//
//   [10:00, 11:00) vs [11:00, 12:00) -> false (граничат)
//   [10:00, 11:00) vs [10:30, 11:30) -> true
//
// The predicate is symmetric. Degenerate zero-length intervals are ruled
// out upstream by the end-after-start invariant.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// OverlapsClock is the same half-open predicate for wall-clock windows.
func OverlapsClock(aStart, aEnd, bStart, bEnd types.TimeString) bool {
	return aStart.IsBefore(bEnd) && aEnd.IsAfter(bStart)
}
