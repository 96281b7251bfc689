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

	"github.com/edspace/lesson-booking-service/pkg/dbmetrics"
)

type fakeTx struct {
	committed  bool
	rolledBack bool
}

func (t *fakeTx) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return nil, nil
}

func (t *fakeTx) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return nil, nil
}

func (t *fakeTx) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return nil
}

func (t *fakeTx) Commit() error {
	t.committed = true
	return nil
}

func (t *fakeTx) Rollback() error {
	t.rolledBack = true
	return nil
}

type fakeBeginner struct {
	begun int
	txs   []*fakeTx
}

func (d *fakeBeginner) BeginTx(ctx context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error) {
	d.begun++
	tx := &fakeTx{}
	d.txs = append(d.txs, tx)
	return tx, nil
}

// wrapLikeStorage оборачивает ошибку драйвера так же, как это делают
// репозиторий и usecase: сентинел через %w, исходная ошибка в цепочке
func wrapLikeStorage(driverErr error) error {
	repoErr := fmt.Errorf("%w: TryReserve - execute update: %w",
		errors.New("slot repository: exec query error"), driverErr)
	return fmt.Errorf("%w: failed to reserve seat: %w",
		errors.New("create_booking: internal error"), repoErr)
}

func TestDoSerializableRetriesSerializationConflict(t *testing.T) {
	db := &fakeBeginner{}
	m := NewTransactionManager(db)

	attempts := 0
	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		attempts++
		return wrapLikeStorage(&pq.Error{Code: "40001"})
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRetryExhausted)
	assert.Equal(t, maxSerializableRetries, attempts)
	assert.Equal(t, maxSerializableRetries, db.begun)
	for _, tx := range db.txs {
		assert.True(t, tx.rolledBack)
		assert.False(t, tx.committed)
	}
}

func TestDoSerializableSucceedsAfterConflict(t *testing.T) {
	db := &fakeBeginner{}
	m := NewTransactionManager(db)

	attempts := 0
	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		attempts++
		if attempts == 1 {
			return wrapLikeStorage(&pq.Error{Code: "40P01"})
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
	assert.True(t, db.txs[1].committed)
}

func TestDoSerializableReturnsBusinessErrorWithoutRetry(t *testing.T) {
	db := &fakeBeginner{}
	m := NewTransactionManager(db)

	businessErr := errors.New("slot is full")
	attempts := 0
	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		attempts++
		return businessErr
	})

	assert.ErrorIs(t, err, businessErr)
	assert.Equal(t, 1, attempts)
	assert.True(t, db.txs[0].rolledBack)
}

func TestDoCommitsOnSuccess(t *testing.T) {
	db := &fakeBeginner{}
	m := NewTransactionManager(db)

	err := m.Do(context.Background(), func(ctx context.Context) error {
		return nil
	})

	require.NoError(t, err)
	require.Len(t, db.txs, 1)
	assert.True(t, db.txs[0].committed)
}

func TestIsSerializationError(t *testing.T) {
	assert.True(t, IsSerializationError(&pq.Error{Code: "40001"}))
	assert.True(t, IsSerializationError(&pq.Error{Code: "40P01"}))
	assert.True(t, IsSerializationError(wrapLikeStorage(&pq.Error{Code: "40001"})))
	assert.False(t, IsSerializationError(&pq.Error{Code: "23505"}))
	assert.False(t, IsSerializationError(errors.New("plain error")))
}
