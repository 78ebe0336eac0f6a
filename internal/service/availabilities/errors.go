package availabilities

import "errors"

var (
	// ErrAvailabilityNotFound возвращается, когда слот не найден
	ErrAvailabilityNotFound = errors.New("availability not found")

	// ErrAccessDenied возвращается, когда слот принадлежит другому арендатору
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
