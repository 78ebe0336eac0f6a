package update_availability

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("update_availability: invalid input data")

	// ErrValidation возвращается, когда агрегат нарушает собственные инварианты
	ErrValidation = errors.New("update_availability: availability validation failed")

	// ErrAvailabilityNotFound возвращается, когда слот не найден
	ErrAvailabilityNotFound = errors.New("update_availability: availability not found")

	// ErrAccessDenied возвращается, когда слот принадлежит другому арендатору
	ErrAccessDenied = errors.New("update_availability: availability belongs to another tenant")

	// ErrTimeSlotConflict возвращается, когда новое окно пересекается с другим
	// слотом на тот же день недели
	ErrTimeSlotConflict = errors.New("update_availability: an availability slot already covers this time window")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("update_availability: internal error")
)
