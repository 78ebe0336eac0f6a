package create_booking

import (
	"errors"
	"net/http"

	"github.com/agendly/appointment-service/internal/api/handlers"
	"github.com/agendly/appointment-service/internal/api/middleware"
	createBooking "github.com/agendly/appointment-service/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody  = "invalid request body"
	msgInvalidTimeRange    = "invalid time format, RFC 3339 expected"
	msgInvalidBooking      = "invalid booking data"
	msgTenantNotFound      = "tenant not found"
	msgCustomerNotFound    = "customer not found"
	msgServiceNotFound     = "service not found"
	msgCustomerWrongTenant = "customer belongs to another tenant"
	msgServiceWrongTenant  = "service belongs to another tenant"
	msgSlotConflict        = "requested time slot conflicts with an existing booking"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := middleware.TenantFromContext(r.Context())
	if !ok {
		handlers.RespondError(w, http.StatusUnauthorized, "missing tenant")
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Конвертируем HTTP запрос в модель use case (с парсингом времени)
	useCaseReq, err := req.ToUseCaseRequest(tenantID)
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTimeRange)
		return
	}

	// Вызываем use case
	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		// Обработка ошибок use case
		switch {
		case errors.Is(err, createBooking.ErrTimeSlotConflict):
			h.logger.Warn("POST /bookings - Slot conflict: tenant=%s", tenantID)
			handlers.RespondError(w, http.StatusConflict, msgSlotConflict)

		case errors.Is(err, createBooking.ErrTenantNotFound):
			h.logger.Warn("POST /bookings - Tenant not found: tenant=%s", tenantID)
			handlers.RespondNotFound(w, msgTenantNotFound)

		case errors.Is(err, createBooking.ErrCustomerNotFound):
			h.logger.Warn("POST /bookings - Customer not found: tenant=%s", tenantID)
			handlers.RespondNotFound(w, msgCustomerNotFound)

		case errors.Is(err, createBooking.ErrServiceNotFound):
			h.logger.Warn("POST /bookings - Service not found: tenant=%s", tenantID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, createBooking.ErrCustomerWrongTenant):
			h.logger.Warn("POST /bookings - Customer wrong tenant: tenant=%s", tenantID)
			handlers.RespondForbidden(w, msgCustomerWrongTenant)

		case errors.Is(err, createBooking.ErrServiceWrongTenant):
			h.logger.Warn("POST /bookings - Service wrong tenant: tenant=%s", tenantID)
			handlers.RespondForbidden(w, msgServiceWrongTenant)

		case errors.Is(err, createBooking.ErrInvalidInput), errors.Is(err, createBooking.ErrValidation):
			h.logger.Warn("POST /bookings - Validation failed: tenant=%s, error=%v", tenantID, err)
			handlers.RespondBadRequest(w, msgInvalidBooking)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: tenant=%s, error=%v", tenantID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	// Формируем HTTP ответ
	response := FromUseCaseResponse(result)

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%s, tenant=%s", result.ID, tenantID)
	handlers.RespondJSON(w, http.StatusCreated, response)
}
