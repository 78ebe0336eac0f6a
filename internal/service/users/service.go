package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/agendly/appointment-service/internal/domain"
	tenantRepo "github.com/agendly/appointment-service/internal/infra/storage/tenant"
	userRepo "github.com/agendly/appointment-service/internal/infra/storage/user"
	"github.com/agendly/appointment-service/internal/service/users/models"
	"github.com/agendly/appointment-service/pkg/password"
)

// Service сервис для работы с пользователями (сотрудниками)
type Service struct {
	userRepo     UserRepository
	tenantRepo   TenantRepository
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса пользователей
func NewService(userRepo UserRepository, tenantRepo TenantRepository, logger Logger) *Service {
	return &Service{
		userRepo:     userRepo,
		tenantRepo:   tenantRepo,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Register регистрирует нового сотрудника арендатора.
// Email уникален внутри арендатора, пароль хранится только как bcrypt-хэш.
func (s *Service) Register(ctx context.Context, req *models.RegisterUserRequest) (*models.UserResponse, error) {
	s.logger.Info("Register: registering user email=%s for tenant=%s", req.Email, req.TenantID)

	if err := validateRegisterRequest(req); err != nil {
		s.logger.Warn("Register: validation failed: %v", err)
		return nil, err
	}

	// Арендатор должен существовать
	if _, err := s.tenantRepo.GetByID(ctx, req.TenantID); err != nil {
		if errors.Is(err, tenantRepo.ErrTenantNotFound) {
			s.logger.Warn("Register: tenant id=%s not found", req.TenantID)
			return nil, fmt.Errorf("%w: tenant not found", ErrInvalidInput)
		}
		s.logger.Error("Register: failed to get tenant id=%s: %v", req.TenantID, err)
		return nil, fmt.Errorf("%w: Register - failed to get tenant: %v", ErrInternal, err)
	}

	role := domain.RoleStaff
	if req.Role != "" {
		role = domain.UserRole(req.Role)
		if role != domain.RoleStaff && role != domain.RoleAdmin {
			s.logger.Warn("Register: invalid role=%s", req.Role)
			return nil, fmt.Errorf("%w: invalid role: %s", ErrInvalidInput, req.Role)
		}
	}

	hash, err := password.Hash(req.Password, bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("Register: failed to hash password: %v", err)
		return nil, fmt.Errorf("%w: Register - failed to hash password: %v", ErrInternal, err)
	}

	now := s.timeProvider.Now()
	user := &domain.User{
		ID:           uuid.NewString(),
		TenantID:     req.TenantID,
		Name:         req.Name,
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, userRepo.ErrEmailTaken) {
			s.logger.Warn("Register: email=%s already taken for tenant=%s", user.Email, req.TenantID)
			return nil, ErrEmailTaken
		}
		s.logger.Error("Register: repository error for email=%s: %v", user.Email, err)
		return nil, fmt.Errorf("%w: Register - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Register: successfully registered user id=%s", user.ID)
	return models.FromDomainUser(user), nil
}

// VerifyCredentials проверяет пару email/пароль внутри арендатора.
// Неизвестный email и неверный пароль неразличимы для вызывающего.
func (s *Service) VerifyCredentials(ctx context.Context, req *models.VerifyCredentialsRequest) (*models.UserResponse, error) {
	s.logger.Info("VerifyCredentials: checking credentials for tenant=%s", req.TenantID)

	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.userRepo.GetByEmail(ctx, req.TenantID, email)
	if err != nil {
		if errors.Is(err, userRepo.ErrUserNotFound) {
			s.logger.Warn("VerifyCredentials: user not found for tenant=%s", req.TenantID)
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("VerifyCredentials: repository error: %v", err)
		return nil, fmt.Errorf("%w: VerifyCredentials - repository error: %v", ErrInternal, err)
	}

	if !password.Verify(user.PasswordHash, req.Password) {
		s.logger.Warn("VerifyCredentials: wrong password for user id=%s", user.ID)
		return nil, ErrInvalidCredentials
	}

	s.logger.Info("VerifyCredentials: credentials verified for user id=%s", user.ID)
	return models.FromDomainUser(user), nil
}

// GetByID получает пользователя по ID.
// Пользователь доступен только в рамках своего арендатора.
func (s *Service) GetByID(ctx context.Context, id string, tenantID string) (*models.UserResponse, error) {
	s.logger.Info("GetByID: fetching user id=%s for tenant=%s", id, tenantID)

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, userRepo.ErrUserNotFound) {
			s.logger.Warn("GetByID: user id=%s not found", id)
			return nil, ErrUserNotFound
		}
		s.logger.Error("GetByID: repository error for user id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	if !user.BelongsTo(tenantID) {
		s.logger.Warn("GetByID: user id=%s belongs to tenant=%s, not tenant=%s", id, user.TenantID, tenantID)
		return nil, ErrAccessDenied
	}

	s.logger.Info("GetByID: successfully fetched user id=%s", id)
	return models.FromDomainUser(user), nil
}

// validateRegisterRequest валидирует запрос на регистрацию
func validateRegisterRequest(req *models.RegisterUserRequest) error {
	if strings.TrimSpace(req.TenantID) == "" {
		return fmt.Errorf("%w: tenantId is required", ErrInvalidInput)
	}
	if strings.TrimSpace(req.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if strings.TrimSpace(req.Email) == "" || !strings.Contains(req.Email, "@") {
		return fmt.Errorf("%w: valid email is required", ErrInvalidInput)
	}
	if len(req.Password) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters", ErrInvalidInput)
	}
	return nil
}
