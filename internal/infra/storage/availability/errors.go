package availability

import "errors"

var (
	// ErrAvailabilityNotFound возвращается, когда слот не найден
	ErrAvailabilityNotFound = errors.New("availability.repository: availability not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("availability.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("availability.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("availability.repository: failed to scan row")

	// ErrInvalidRow возвращается, когда сохранённая строка нарушает
	// инварианты агрегата
	ErrInvalidRow = errors.New("availability.repository: stored row violates availability invariants")
)
