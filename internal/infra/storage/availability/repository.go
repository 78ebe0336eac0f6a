package availability

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/agendly/appointment-service/internal/domain"
	"github.com/agendly/appointment-service/pkg/dbmetrics"
	"github.com/agendly/appointment-service/pkg/psqlbuilder"
	"github.com/agendly/appointment-service/pkg/types"
)

var availabilityColumns = []string{
	"id",
	"tenant_id",
	"weekday",
	"start_time",
	"end_time",
	"is_active",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы со слотами доступности
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория слотов
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет новый слот доступности
func (r *Repository) Create(ctx context.Context, slot *domain.Availability) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("availabilities").
		Columns(availabilityColumns...).
		Values(
			slot.ID,
			slot.TenantID,
			slot.Weekday,
			slot.StartTime,
			slot.EndTime,
			slot.IsActive,
			slot.CreatedAt,
			slot.UpdatedAt,
		).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	// Ошибка драйвера оборачивается через %w: SQLSTATE (в том числе
	// 40001) должен оставаться доступным для errors.As выше по стеку
	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	return nil
}

// Update заменяет изменяемые поля слота
func (r *Repository) Update(ctx context.Context, slot *domain.Availability) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("availabilities").
		Set("weekday", slot.Weekday).
		Set("start_time", slot.StartTime).
		Set("end_time", slot.EndTime).
		Set("is_active", slot.IsActive).
		Set("updated_at", slot.UpdatedAt).
		Where(squirrel.Eq{"id": slot.ID, "tenant_id": slot.TenantID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Update - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Update - get rows affected: %w", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrAvailabilityNotFound
	}

	return nil
}

// Delete удаляет слот арендатора
func (r *Repository) Delete(ctx context.Context, id, tenantID string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("availabilities").
		Where(squirrel.Eq{"id": id, "tenant_id": tenantID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %w", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrAvailabilityNotFound
	}

	return nil
}

// GetByID получает слот по ID
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Availability, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(availabilityColumns...).
		From("availabilities").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	row := executor.QueryRowContext(ctx, query, args...)
	slot, err := scanAvailability(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAvailabilityNotFound
	}
	if err != nil {
		return nil, err
	}

	return slot, nil
}

// GetByTenant получает все слоты арендатора, опционально фильтруя по дню недели
func (r *Repository) GetByTenant(ctx context.Context, tenantID string, weekday *int) ([]*domain.Availability, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(availabilityColumns...).
		From("availabilities").
		Where(squirrel.Eq{"tenant_id": tenantID}).
		OrderBy("weekday ASC", "start_time ASC")

	if weekday != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"weekday": *weekday})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByTenant - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByTenant - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanAvailabilities(rows)
}

// GetByWeekday получает все слоты арендатора на день недели
func (r *Repository) GetByWeekday(ctx context.Context, weekday int, tenantID string) ([]*domain.Availability, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(availabilityColumns...).
		From("availabilities").
		Where(squirrel.Eq{"tenant_id": tenantID, "weekday": weekday}).
		OrderBy("start_time ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByWeekday - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByWeekday - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanAvailabilities(rows)
}

// FindConflictingSlots возвращает слоты арендатора на день недели,
// пересекающиеся с полуоткрытым окном [start, end). Хранилище отдаёт
// кандидатов по ключу tenant+weekday, фильтрация пересечения выполняется
// доменным предикатом - слоты, граничащие ровно по краю, не конфликтуют.
// Флаг is_active не учитывается: деактивированный слот продолжает
// занимать своё окно, освобождает его только удаление.
//
// excludeID исключает собственную запись при повторной проверке на update.
func (r *Repository) FindConflictingSlots(
	ctx context.Context,
	tenantID string,
	weekday int,
	start, end types.TimeString,
	excludeID *string,
) ([]*domain.Availability, error) {
	candidates, err := r.GetByWeekday(ctx, weekday, tenantID)
	if err != nil {
		return nil, err
	}

	conflicts := make([]*domain.Availability, 0)
	for _, slot := range candidates {
		if excludeID != nil && slot.ID == *excludeID {
			continue
		}
		if slot.OverlapsWindow(start, end) {
			conflicts = append(conflicts, slot)
		}
	}

	return conflicts, nil
}

// scanAvailability читает одну строку и реконструирует агрегат через
// валидирующий конструктор
func scanAvailability(scan func(dest ...interface{}) error) (*domain.Availability, error) {
	var p domain.AvailabilityParams

	err := scan(
		&p.ID,
		&p.TenantID,
		&p.Weekday,
		&p.StartTime,
		&p.EndTime,
		&p.IsActive,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("%w: scan availability: %w", ErrScanRow, err)
	}

	slot, err := domain.NewAvailability(p)
	if err != nil {
		return nil, fmt.Errorf("%w: id=%s: %v", ErrInvalidRow, p.ID, err)
	}
	return slot, nil
}

// scanAvailabilities сканирует результаты запроса в слайс слотов
func scanAvailabilities(rows *sql.Rows) ([]*domain.Availability, error) {
	slots := make([]*domain.Availability, 0)

	for rows.Next() {
		slot, err := scanAvailability(rows.Scan)
		if err != nil {
			return nil, err
		}
		slots = append(slots, slot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: rows error: %w", ErrScanRow, err)
	}

	return slots, nil
}
