package register_user

import (
	"errors"
	"net/http"

	"github.com/agendly/appointment-service/internal/api/handlers"
	"github.com/agendly/appointment-service/internal/api/middleware"
	"github.com/agendly/appointment-service/internal/service/users"
	"github.com/agendly/appointment-service/internal/service/users/models"
)

const (
	msgInvalidRequestBody = "invalid request body"
	msgInvalidUser        = "invalid user data"
	msgEmailTaken         = "email is already taken"
)

type Handler struct {
	service UsersService
	logger  Logger
}

func NewHandler(service UsersService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/users
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := middleware.TenantFromContext(r.Context())
	if !ok {
		handlers.RespondError(w, http.StatusUnauthorized, "missing tenant")
		return
	}

	var req RegisterUserRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /users - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Register(r.Context(), &models.RegisterUserRequest{
		TenantID: tenantID,
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		switch {
		case errors.Is(err, users.ErrEmailTaken):
			h.logger.Warn("POST /users - Email taken: tenant=%s", tenantID)
			handlers.RespondError(w, http.StatusConflict, msgEmailTaken)

		case errors.Is(err, users.ErrInvalidInput):
			h.logger.Warn("POST /users - Validation failed: tenant=%s, error=%v", tenantID, err)
			handlers.RespondBadRequest(w, msgInvalidUser)

		default:
			h.logger.Error("POST /users - Failed to register user: tenant=%s, error=%v", tenantID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /users - User registered successfully: id=%s, tenant=%s", result.ID, tenantID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
