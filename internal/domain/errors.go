package domain

import "errors"

// Validation errors. Each broken invariant has its own sentinel so callers
// can tell the user exactly what was wrong.
var (
	// ErrBlankTenantID возвращается, когда tenantId пустой
	ErrBlankTenantID = errors.New("domain: tenant id must not be blank")

	// ErrInvalidStatus возвращается при статусе вне допустимого набора
	ErrInvalidStatus = errors.New("domain: invalid booking status")

	// ErrUpdatedBeforeCreated возвращается, когда updatedAt раньше createdAt
	ErrUpdatedBeforeCreated = errors.New("domain: updatedAt must not be before createdAt")

	// ErrEndNotAfterStart возвращается, когда конец интервала не позже начала
	ErrEndNotAfterStart = errors.New("domain: requested end must be after requested start")

	// ErrStartInPast возвращается, когда начало бронирования раньше момента создания
	ErrStartInPast = errors.New("domain: requested start must not be in the past")

	// ErrRatingOutOfRange возвращается при оценке вне диапазона 1..5
	ErrRatingOutOfRange = errors.New("domain: rating must be between 1 and 5")

	// ErrNotesTooLong возвращается, когда заметки длиннее 1000 символов
	ErrNotesTooLong = errors.New("domain: notes must not exceed 1000 characters")

	// ErrInvalidWeekday возвращается при дне недели вне диапазона 0..6
	ErrInvalidWeekday = errors.New("domain: weekday must be between 0 and 6")

	// ErrInvalidTime возвращается, когда время слота не задано или не распарсилось
	ErrInvalidTime = errors.New("domain: slot time must be a valid HH:MM value")

	// ErrEndTimeNotAfterStartTime возвращается, когда конец слота не позже начала
	ErrEndTimeNotAfterStartTime = errors.New("domain: slot end time must be after start time")
)
