package register_user

import (
	"context"

	"github.com/agendly/appointment-service/internal/service/users/models"
)

type UsersService interface {
	Register(ctx context.Context, req *models.RegisterUserRequest) (*models.UserResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
