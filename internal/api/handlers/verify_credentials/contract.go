package verify_credentials

import (
	"context"

	"github.com/agendly/appointment-service/internal/service/users/models"
)

type UsersService interface {
	VerifyCredentials(ctx context.Context, req *models.VerifyCredentialsRequest) (*models.UserResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
