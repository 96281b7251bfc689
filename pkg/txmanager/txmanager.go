package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/edspace/lesson-booking-service/pkg/dbmetrics"
)

var (
	// ErrRetryExhausted возвращается, когда сериализуемая транзакция не смогла
	// закоммититься за отведенное число попыток из-за конфликтов сериализации.
	// Безопасно повторить запрос целиком.
	ErrRetryExhausted = errors.New("txmanager: serialization retries exhausted")
)

const (
	// maxSerializableRetries максимальное число попыток для сериализуемых транзакций
	maxSerializableRetries = 3

	// retryBaseDelay базовая задержка перед повторной попыткой
	retryBaseDelay = 10 * time.Millisecond
)

// TxBeginner интерфейс для начала транзакций
type TxBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error)
}

// TransactionManager менеджер транзакций поверх dbmetrics.DB
type TransactionManager struct {
	db TxBeginner
}

// NewTransactionManager создает новый менеджер транзакций
func NewTransactionManager(db TxBeginner) *TransactionManager {
	return &TransactionManager{db: db}
}

// Do выполняет fn в транзакции с уровнем изоляции Read Committed
func (m *TransactionManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.runOnce(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted}, fn)
}

// DoReadOnly выполняет fn в read-only транзакции
func (m *TransactionManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.runOnce(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted, ReadOnly: true}, fn)
}

// DoSerializable выполняет fn в сериализуемой транзакции.
// При конфликте сериализации (SQLSTATE 40001/40P01) повторяет транзакцию
// до maxSerializableRetries раз, после чего возвращает ErrRetryExhausted.
func (m *TransactionManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	opts := &sql.TxOptions{Isolation: sql.LevelSerializable}

	var lastErr error
	for attempt := 1; attempt <= maxSerializableRetries; attempt++ {
		err := m.runOnce(ctx, opts, fn)
		if err == nil {
			return nil
		}
		if !IsSerializationError(err) {
			return err
		}

		lastErr = err
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(retryBaseDelay * time.Duration(attempt)):
		}
	}

	return fmt.Errorf("%w: after %d attempts: %v", ErrRetryExhausted, maxSerializableRetries, lastErr)
}

func (m *TransactionManager) runOnce(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context) error) error {
	tx, err := m.db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("txmanager: begin transaction: %w", err)
	}

	txCtx := dbmetrics.WithExecutor(ctx, tx)

	if err := fn(txCtx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			return fmt.Errorf("txmanager: rollback failed: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("txmanager: commit transaction: %w", err)
	}
	return nil
}

// IsSerializationError проверяет, является ли ошибка конфликтом сериализации
// или дедлоком Postgres (SQLSTATE 40001, 40P01)
func IsSerializationError(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "40001" || pqErr.Code == "40P01"
	}
	return false
}
