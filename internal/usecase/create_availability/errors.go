package create_availability

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_availability: invalid input data")

	// ErrValidation возвращается, когда агрегат нарушает собственные инварианты
	ErrValidation = errors.New("create_availability: availability validation failed")

	// ErrTenantNotFound возвращается, когда арендатор не найден
	ErrTenantNotFound = errors.New("create_availability: tenant not found")

	// ErrTimeSlotConflict возвращается, когда окно пересекается с существующим
	// слотом на тот же день недели
	ErrTimeSlotConflict = errors.New("create_availability: an availability slot already covers this time window")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_availability: internal error")
)
