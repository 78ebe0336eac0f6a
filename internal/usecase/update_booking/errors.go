package update_booking

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("update_booking: invalid input data")

	// ErrValidation возвращается, когда агрегат нарушает собственные инварианты
	ErrValidation = errors.New("update_booking: booking validation failed")

	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("update_booking: booking not found")

	// ErrAccessDenied возвращается, когда бронирование принадлежит другому арендатору
	ErrAccessDenied = errors.New("update_booking: booking belongs to another tenant")

	// ErrInvalidStatusTransition возвращается при недопустимом переходе статуса
	ErrInvalidStatusTransition = errors.New("update_booking: status transition is not allowed")

	// ErrTimeSlotConflict возвращается, когда новое окно пересекается с другим
	// активным бронированием того же сотрудника
	ErrTimeSlotConflict = errors.New("update_booking: time slot is already booked")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("update_booking: internal error")
)
