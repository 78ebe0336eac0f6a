package tenant

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/agendly/appointment-service/internal/domain"
	"github.com/agendly/appointment-service/pkg/dbmetrics"
	"github.com/agendly/appointment-service/pkg/psqlbuilder"
)

var (
	// ErrTenantNotFound возвращается, когда арендатор не найден
	ErrTenantNotFound = errors.New("tenant.repository: tenant not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("tenant.repository: failed to build query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("tenant.repository: failed to scan row")
)

var tenantColumns = []string{"id", "name", "email", "created_at", "updated_at"}

// Repository репозиторий для работы с арендаторами
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория арендаторов
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает арендатора по ID
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Tenant, error) {
	return r.getByWhere(ctx, squirrel.Eq{"id": id})
}

// GetByEmail получает арендатора по email
func (r *Repository) GetByEmail(ctx context.Context, email string) (*domain.Tenant, error) {
	return r.getByWhere(ctx, squirrel.Eq{"email": email})
}

func (r *Repository) getByWhere(ctx context.Context, where squirrel.Eq) (*domain.Tenant, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(tenantColumns...).
		From("tenants").
		Where(where).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: build select query: %v", ErrBuildQuery, err)
	}

	var t domain.Tenant
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&t.ID,
		&t.Name,
		&t.Email,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTenantNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: scan tenant: %v", ErrScanRow, err)
	}

	return &t, nil
}
