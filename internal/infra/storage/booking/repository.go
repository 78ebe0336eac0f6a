package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/agendly/appointment-service/internal/domain"
	"github.com/agendly/appointment-service/pkg/dbmetrics"
	"github.com/agendly/appointment-service/pkg/psqlbuilder"
)

// exclusionViolation SQLSTATE код нарушения exclusion constraint.
// Схема содержит btree_gist constraint на (tenant_id, staff_user_id,
// интервал) для неотменённых бронирований, поэтому запись сама по себе
// является источником истины, а предварительная проверка конфликтов -
// оптимизацией с человекочитаемой ошибкой.
const exclusionViolation = "23P01"

var bookingColumns = []string{
	"id",
	"tenant_id",
	"customer_id",
	"service_id",
	"staff_user_id",
	"status",
	"requested_start",
	"requested_end",
	"notes",
	"rating",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет новое бронирование.
// Если в контексте передана активная транзакция, использует её.
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(bookingColumns...).
		Values(
			booking.ID,
			booking.TenantID,
			booking.CustomerID,
			booking.ServiceID,
			booking.StaffUserID,
			booking.Status,
			booking.RequestedStart,
			booking.RequestedEnd,
			booking.Notes,
			booking.Rating,
			booking.CreatedAt,
			booking.UpdatedAt,
		).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		if isExclusionViolation(err) {
			return ErrSlotTaken
		}
		// Ошибка драйвера оборачивается через %w: SQLSTATE (в том числе
		// 40001) должен оставаться доступным для errors.As выше по стеку
		return fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	return nil
}

// Update заменяет все изменяемые поля бронирования.
// Агрегаты неизменяемы, поэтому "обновление" - это запись нового
// полностью сконструированного агрегата с тем же id.
func (r *Repository) Update(ctx context.Context, booking *domain.Booking) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("customer_id", booking.CustomerID).
		Set("service_id", booking.ServiceID).
		Set("staff_user_id", booking.StaffUserID).
		Set("status", booking.Status).
		Set("requested_start", booking.RequestedStart).
		Set("requested_end", booking.RequestedEnd).
		Set("notes", booking.Notes).
		Set("rating", booking.Rating).
		Set("updated_at", booking.UpdatedAt).
		Where(squirrel.Eq{"id": booking.ID, "tenant_id": booking.TenantID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		if isExclusionViolation(err) {
			return ErrSlotTaken
		}
		return fmt.Errorf("%w: Update - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Update - get rows affected: %w", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

// Delete физически удаляет бронирование арендатора
func (r *Repository) Delete(ctx context.Context, id, tenantID string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("bookings").
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
		return ErrBookingNotFound
	}

	return nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	row := executor.QueryRowContext(ctx, query, args...)
	booking, err := scanBooking(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}

	return booking, nil
}

// GetByTenant получает бронирования арендатора, опционально фильтруя по статусу
func (r *Repository) GetByTenant(ctx context.Context, tenantID string, status *domain.BookingStatus) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"tenant_id": tenantID}).
		OrderBy("requested_start DESC")

	if status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *status})
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

	return scanBookings(rows)
}

// FindConflicting возвращает бронирования арендатора, пересекающиеся с
// полуоткрытым интервалом [start, end): requested_start < end AND
// requested_end > start, т.е. слоты, граничащие ровно по краю, конфликтом
// не считаются. Отменённые бронирования исключаются всегда.
//
// Если передан staffUserID, выборка сужается до этого сотрудника.
// Без staffUserID выборка остаётся по всему арендатору - решение о том,
// что бронирования без сотрудника ни с кем не конфликтуют, принимает
// вызывающий usecase, не выполняя запрос вовсе.
//
// excludeID исключает собственную запись при повторной проверке на update.
//
// Внутри транзакции выборка блокируется FOR UPDATE, чтобы закрыть гонку
// "проверили-затем-вставили" между конкурентными созданиями.
func (r *Repository) FindConflicting(
	ctx context.Context,
	tenantID string,
	start, end time.Time,
	staffUserID *string,
	excludeID *string,
) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"tenant_id": tenantID}).
		Where(squirrel.NotEq{"status": domain.StatusCancelled}).
		Where(squirrel.Lt{"requested_start": end}).
		Where(squirrel.Gt{"requested_end": start}).
		OrderBy("requested_start ASC")

	if staffUserID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"staff_user_id": *staffUserID})
	}
	if excludeID != nil {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"id": *excludeID})
	}

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: FindConflicting - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: FindConflicting - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// scanBooking читает одну строку и реконструирует агрегат через
// валидирующий конструктор, чтобы повреждённые данные в БД были
// обнаружены, а не молча загружены.
func scanBooking(scan func(dest ...interface{}) error) (*domain.Booking, error) {
	var p domain.BookingParams

	err := scan(
		&p.ID,
		&p.TenantID,
		&p.CustomerID,
		&p.ServiceID,
		&p.StaffUserID,
		&p.Status,
		&p.RequestedStart,
		&p.RequestedEnd,
		&p.Notes,
		&p.Rating,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("%w: scan booking: %w", ErrScanRow, err)
	}

	booking, err := domain.NewBooking(p)
	if err != nil {
		return nil, fmt.Errorf("%w: id=%s: %v", ErrInvalidRow, p.ID, err)
	}
	return booking, nil
}

// scanBookings сканирует результаты запроса в слайс бронирований
func scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		booking, err := scanBooking(rows.Scan)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: rows error: %w", ErrScanRow, err)
	}

	return bookings, nil
}

// isExclusionViolation распознает нарушение exclusion constraint PostgreSQL
func isExclusionViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == exclusionViolation
	}
	return false
}
