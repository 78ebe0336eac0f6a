package domain

// Business validation constants
const (
	MaxNotesLength = 1000

	MinRating = 1
	MaxRating = 5

	MinWeekday = 0
	MaxWeekday = 6
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)
