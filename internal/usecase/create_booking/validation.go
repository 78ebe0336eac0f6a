package create_booking

import (
	"fmt"
	"strings"
)

// validateRequest валидирует входные данные запроса.
// Инварианты агрегата здесь не дублируются: конструктор домена
// проверит их повторно при создании.
func validateRequest(req *Request) error {
	if strings.TrimSpace(req.TenantID) == "" {
		return fmt.Errorf("%w: tenantId is required", ErrInvalidInput)
	}

	if req.RequestedStart.IsZero() {
		return fmt.Errorf("%w: requestedStart is required", ErrInvalidInput)
	}

	if req.RequestedEnd.IsZero() {
		return fmt.Errorf("%w: requestedEnd is required", ErrInvalidInput)
	}

	if req.Status != nil && !req.Status.IsValid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidInput, *req.Status)
	}

	if req.CustomerID != nil && strings.TrimSpace(*req.CustomerID) == "" {
		return fmt.Errorf("%w: customerId must not be blank when supplied", ErrInvalidInput)
	}

	if req.ServiceID != nil && strings.TrimSpace(*req.ServiceID) == "" {
		return fmt.Errorf("%w: serviceId must not be blank when supplied", ErrInvalidInput)
	}

	if req.StaffUserID != nil && strings.TrimSpace(*req.StaffUserID) == "" {
		return fmt.Errorf("%w: staffUserId must not be blank when supplied", ErrInvalidInput)
	}

	return nil
}
