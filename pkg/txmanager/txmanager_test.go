package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agendly/appointment-service/pkg/dbmetrics"
)

var errStorage = errors.New("storage: exec query failed")

// serializationErr имитирует ошибку драйвера с SQLSTATE 40001,
// обёрнутую репозиторием и use case так, как это происходит в проде
func serializationErr() error {
	pqErr := &pq.Error{Code: "40001", Message: "could not serialize access due to concurrent update"}
	repoErr := fmt.Errorf("%w: FindConflicting - execute query: %w", errStorage, pqErr)
	return fmt.Errorf("failed to find conflicts: %w", repoErr)
}

func TestIsSerializationFailure(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "plain error", err: errors.New("boom"), want: false},
		{name: "raw 40001", err: &pq.Error{Code: "40001"}, want: true},
		{name: "other sqlstate", err: &pq.Error{Code: "23P01"}, want: false},
		// Цепочка обёрток репозитория и use case не должна скрывать SQLSTATE
		{name: "wrapped through repository and usecase", err: serializationErr(), want: true},
		{name: "wrapped other sqlstate", err: fmt.Errorf("%w: exec: %w", errStorage, &pq.Error{Code: "23505"}), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsSerializationFailure(tt.err))
		})
	}
}

// fakeTx транзакция-заглушка: запросы не выполняются, commit/rollback всегда успешны
type fakeTx struct{}

func (fakeTx) ExecContext(context.Context, string, ...interface{}) (sql.Result, error) {
	return nil, nil
}

func (fakeTx) QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error) {
	return nil, nil
}

func (fakeTx) QueryRowContext(context.Context, string, ...interface{}) *sql.Row {
	return nil
}

func (fakeTx) Commit() error   { return nil }
func (fakeTx) Rollback() error { return nil }

type fakeBeginner struct {
	begins int
}

func (f *fakeBeginner) BeginTx(context.Context, *sql.TxOptions) (dbmetrics.TxExecutor, error) {
	f.begins++
	return fakeTx{}, nil
}

func TestRunSerializableRetriesOnSerializationFailure(t *testing.T) {
	db := &fakeBeginner{}
	attempts := 0

	// Первая попытка падает с обёрнутым 40001, вторая проходит
	err := runSerializable(context.Background(), db, func(context.Context) error {
		attempts++
		if attempts == 1 {
			return serializationErr()
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
	assert.Equal(t, 2, db.begins)
}

func TestRunSerializableGivesUpAfterMaxRetries(t *testing.T) {
	db := &fakeBeginner{}
	attempts := 0

	err := runSerializable(context.Background(), db, func(context.Context) error {
		attempts++
		return serializationErr()
	})

	require.Error(t, err)
	assert.Equal(t, maxSerializableRetries, attempts)
	// Итоговая ошибка сохраняет исходный SQLSTATE в цепочке
	assert.True(t, IsSerializationFailure(err))
}

func TestRunSerializableDoesNotRetryOtherErrors(t *testing.T) {
	db := &fakeBeginner{}
	attempts := 0
	boom := errors.New("boom")

	err := runSerializable(context.Background(), db, func(context.Context) error {
		attempts++
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, attempts)
}
