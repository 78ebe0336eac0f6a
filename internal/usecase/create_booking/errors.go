package create_booking

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrValidation возвращается, когда агрегат нарушает собственные инварианты
	ErrValidation = errors.New("create_booking: booking validation failed")

	// ErrTenantNotFound возвращается, когда арендатор не найден
	ErrTenantNotFound = errors.New("create_booking: tenant not found")

	// ErrCustomerNotFound возвращается, когда клиент не найден
	ErrCustomerNotFound = errors.New("create_booking: customer not found")

	// ErrCustomerWrongTenant возвращается, когда клиент принадлежит другому арендатору
	ErrCustomerWrongTenant = errors.New("create_booking: customer belongs to another tenant")

	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("create_booking: service not found")

	// ErrServiceWrongTenant возвращается, когда услуга принадлежит другому арендатору
	ErrServiceWrongTenant = errors.New("create_booking: service belongs to another tenant")

	// ErrTimeSlotConflict возвращается, когда на это время уже есть бронирование
	ErrTimeSlotConflict = errors.New("create_booking: a booking already exists in this time slot")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
