package list_availabilities

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/agendly/appointment-service/internal/api/handlers"
	"github.com/agendly/appointment-service/internal/api/middleware"
	"github.com/agendly/appointment-service/internal/service/availabilities"
	"github.com/agendly/appointment-service/internal/service/availabilities/models"
)

const msgInvalidWeekday = "invalid weekday filter"

type Handler struct {
	service AvailabilitiesService
	logger  Logger
}

func NewHandler(service AvailabilitiesService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/availabilities?weekday=1
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := middleware.TenantFromContext(r.Context())
	if !ok {
		handlers.RespondError(w, http.StatusUnauthorized, "missing tenant")
		return
	}

	req := &models.ListAvailabilitiesRequest{TenantID: tenantID}
	if weekdayStr := r.URL.Query().Get("weekday"); weekdayStr != "" {
		weekday, err := strconv.Atoi(weekdayStr)
		if err != nil {
			h.logger.Warn("GET /availabilities - Invalid weekday=%q: tenant=%s", weekdayStr, tenantID)
			handlers.RespondBadRequest(w, msgInvalidWeekday)
			return
		}
		req.Weekday = &weekday
	}

	result, err := h.service.List(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, availabilities.ErrInvalidInput):
			h.logger.Warn("GET /availabilities - Invalid weekday filter: tenant=%s", tenantID)
			handlers.RespondBadRequest(w, msgInvalidWeekday)

		default:
			h.logger.Error("GET /availabilities - Failed to list availabilities: tenant=%s, error=%v", tenantID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
