package waitlist

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/edspace/lesson-booking-service/internal/domain"
	"github.com/edspace/lesson-booking-service/pkg/dbmetrics"
	"github.com/edspace/lesson-booking-service/pkg/psqlbuilder"
)

var entryColumns = []string{
	"id",
	"student_id",
	"slot_id",
	"priority",
	"created_at",
	"expires_at",
}

// Repository репозиторий для работы с листом ожидания
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория листа ожидания
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает запись в листе ожидания.
// Нарушение уникального индекса (student_id, slot_id) возвращается
// как ErrDuplicateEntry.
func (r *Repository) Create(ctx context.Context, entry *domain.WaitingListEntry) (*domain.WaitingListEntry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("waiting_list_entries").
		Columns(
			"student_id",
			"slot_id",
			"priority",
			"expires_at",
		).
		Values(
			entry.StudentID,
			entry.SlotID,
			entry.Priority,
			entry.ExpiresAt,
		).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %w", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&entry.ID,
		&createdAt,
	)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return nil, ErrDuplicateEntry
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	entry.CreatedAt = createdAt.Time

	return entry, nil
}

// GetActiveBySlot получает непросроченные записи очереди слота в порядке
// промоушена: приоритет по убыванию, затем FIFO по времени создания.
// Внутри транзакции блокирует строки (FOR UPDATE), чтобы два конкурентных
// промоушена не обработали одну и ту же запись.
func (r *Repository) GetActiveBySlot(ctx context.Context, slotID int64, now time.Time) ([]*domain.WaitingListEntry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(entryColumns...).
		From("waiting_list_entries").
		Where(squirrel.Eq{"slot_id": slotID}).
		Where(squirrel.Gt{"expires_at": now}).
		OrderBy("priority DESC, created_at ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveBySlot - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveBySlot - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanEntries(rows)
}

// FindBySlotAndStudent получает запись студента в очереди слота
func (r *Repository) FindBySlotAndStudent(ctx context.Context, slotID, studentID int64) (*domain.WaitingListEntry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(entryColumns...).
		From("waiting_list_entries").
		Where(squirrel.Eq{"slot_id": slotID, "student_id": studentID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: FindBySlotAndStudent - build select query: %w", ErrBuildQuery, err)
	}

	var entry domain.WaitingListEntry
	var createdAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&entry.ID,
		&entry.StudentID,
		&entry.SlotID,
		&entry.Priority,
		&createdAt,
		&entry.ExpiresAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrEntryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: FindBySlotAndStudent - scan entry: %w", ErrScanRow, err)
	}

	entry.CreatedAt = createdAt.Time

	return &entry, nil
}

// Delete удаляет запись по ID
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("waiting_list_entries").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %w", ErrBuildQuery, err)
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
		return ErrEntryNotFound
	}

	return nil
}

// DeleteBySlotAndStudent удаляет запись студента из очереди слота
// (самостоятельный выход из листа ожидания), возвращает ID
// удаленной записи
func (r *Repository) DeleteBySlotAndStudent(ctx context.Context, slotID, studentID int64) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("waiting_list_entries").
		Where(squirrel.Eq{"slot_id": slotID, "student_id": studentID}).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: DeleteBySlotAndStudent - build delete query: %w", ErrBuildQuery, err)
	}

	var id int64
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrEntryNotFound
		}
		return 0, fmt.Errorf("%w: DeleteBySlotAndStudent - scan deleted id: %w", ErrScanRow, err)
	}

	return id, nil
}

// DeleteExpired удаляет все просроченные записи, возвращает их количество.
// Вызывается периодическим sweep'ом, работает независимо от промоушена.
func (r *Repository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("waiting_list_entries").
		Where(squirrel.LtOrEq{"expires_at": now}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: DeleteExpired - build delete query: %w", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteExpired - execute delete: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteExpired - get rows affected: %w", ErrExecQuery, err)
	}

	return rowsAffected, nil
}

// scanEntries сканирует результаты запроса в слайс записей
func (r *Repository) scanEntries(rows *sql.Rows) ([]*domain.WaitingListEntry, error) {
	entries := make([]*domain.WaitingListEntry, 0)

	for rows.Next() {
		var entry domain.WaitingListEntry
		var createdAt sql.NullTime

		err := rows.Scan(
			&entry.ID,
			&entry.StudentID,
			&entry.SlotID,
			&entry.Priority,
			&createdAt,
			&entry.ExpiresAt,
		)

		if err != nil {
			return nil, fmt.Errorf("%w: scanEntries - scan row: %w", ErrScanRow, err)
		}

		entry.CreatedAt = createdAt.Time

		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanEntries - rows error: %w", ErrScanRow, err)
	}

	return entries, nil
}
