package slot

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/edspace/lesson-booking-service/internal/domain"
	"github.com/edspace/lesson-booking-service/pkg/dbmetrics"
	"github.com/edspace/lesson-booking-service/pkg/psqlbuilder"
)

var slotColumns = []string{
	"id",
	"branch_id",
	"teacher_id",
	"room_id",
	"service_type_id",
	"slot_date",
	"start_time",
	"end_time",
	"capacity",
	"booked_count",
	"is_active",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы со слотами
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория слотов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новый слот
func (r *Repository) Create(ctx context.Context, slot *domain.Slot) (*domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("slots").
		Columns(
			"branch_id",
			"teacher_id",
			"room_id",
			"service_type_id",
			"slot_date",
			"start_time",
			"end_time",
			"capacity",
		).
		Values(
			slot.BranchID,
			slot.TeacherID,
			slot.RoomID,
			slot.ServiceTypeID,
			slot.SlotDate,
			slot.StartTime,
			slot.EndTime,
			slot.Capacity,
		).
		Suffix("RETURNING id, booked_count, is_active, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %w", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&slot.ID,
		&slot.BookedCount,
		&slot.IsActive,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	slot.CreatedAt = createdAt.Time
	slot.UpdatedAt = updatedAt.Time

	return slot, nil
}

// GetByID получает слот по ID.
// Внутри транзакции берет блокировку строки (FOR UPDATE), чтобы статус слота
// не менялся между проверками и резервированием места.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(slotColumns...).
		From("slots").
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %w", ErrBuildQuery, err)
	}

	return r.scanSlot(executor.QueryRowContext(ctx, query, args...), "GetByID")
}

// GetByBranchAndDate получает активные слоты филиала на дату,
// отсортированные по времени начала
func (r *Repository) GetByBranchAndDate(ctx context.Context, branchID int64, date time.Time) ([]*domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(slotColumns...).
		From("slots").
		Where(squirrel.Eq{"branch_id": branchID, "slot_date": date, "is_active": true}).
		OrderBy("start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByBranchAndDate - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByBranchAndDate - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	slots := make([]*domain.Slot, 0)
	for rows.Next() {
		slot, err := r.scanSlotRow(rows)
		if err != nil {
			return nil, err
		}
		slots = append(slots, slot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetByBranchAndDate - rows error: %w", ErrScanRow, err)
	}

	return slots, nil
}

// TryReserve атомарно занимает одно место в слоте.
//
// Проверка и инкремент выполняются одним UPDATE с условием
// booked_count < capacity, поэтому два конкурентных вызова на слот
// с одним свободным местом получат ровно один успех: проигравший
// увидит 0 затронутых строк и ErrSlotFull. Раздельные read-then-write
// здесь недопустимы - это классическая гонка lost update.
func (r *Repository) TryReserve(ctx context.Context, slotID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("slots").
		Set("booked_count", squirrel.Expr("booked_count + 1")).
		Where(squirrel.Eq{"id": slotID, "is_active": true}).
		Where(squirrel.Expr("booked_count < capacity")).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: TryReserve - build update query: %w", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: TryReserve - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: TryReserve - get rows affected: %w", ErrExecQuery, err)
	}

	if rowsAffected == 1 {
		return nil
	}

	// 0 строк: выясняем причину - слот не найден, деактивирован или заполнен
	return r.classifyReserveFailure(ctx, executor, slotID)
}

func (r *Repository) classifyReserveFailure(ctx context.Context, executor DBExecutor, slotID int64) error {
	query, args, err := psqlbuilder.Select("is_active", "booked_count", "capacity").
		From("slots").
		Where(squirrel.Eq{"id": slotID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: classifyReserveFailure - build select query: %w", ErrBuildQuery, err)
	}

	var isActive bool
	var bookedCount, capacity int
	err = executor.QueryRowContext(ctx, query, args...).Scan(&isActive, &bookedCount, &capacity)

	if err == sql.ErrNoRows {
		return ErrSlotNotFound
	}
	if err != nil {
		return fmt.Errorf("%w: classifyReserveFailure - scan slot: %w", ErrScanRow, err)
	}

	if !isActive {
		return ErrSlotInactive
	}
	if bookedCount >= capacity {
		return ErrSlotFull
	}

	// Слот существует, активен и не заполнен, но UPDATE ничего не затронул -
	// место заняли между UPDATE и SELECT. Считаем слот заполненным.
	return ErrSlotFull
}

// Release освобождает одно место в слоте.
// Декремент защищён условием booked_count > 0 и никогда не уводит счётчик
// ниже нуля.
func (r *Repository) Release(ctx context.Context, slotID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("slots").
		Set("booked_count", squirrel.Expr("booked_count - 1")).
		Where(squirrel.Eq{"id": slotID}).
		Where(squirrel.Expr("booked_count > 0")).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Release - build update query: %w", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Release - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Release - get rows affected: %w", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		// Либо слот не существует, либо освобождать нечего
		exists, err := r.exists(ctx, executor, slotID)
		if err != nil {
			return err
		}
		if !exists {
			return ErrSlotNotFound
		}
		return ErrNoReservedSeats
	}

	return nil
}

// Deactivate помечает слот неактивным (мягкое удаление)
func (r *Repository) Deactivate(ctx context.Context, slotID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("slots").
		Set("is_active", false).
		Where(squirrel.Eq{"id": slotID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Deactivate - build update query: %w", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Deactivate - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Deactivate - get rows affected: %w", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrSlotNotFound
	}

	return nil
}

func (r *Repository) exists(ctx context.Context, executor DBExecutor, slotID int64) (bool, error) {
	query, args, err := psqlbuilder.Select("1").
		From("slots").
		Where(squirrel.Eq{"id": slotID}).
		ToSql()

	if err != nil {
		return false, fmt.Errorf("%w: exists - build select query: %w", ErrBuildQuery, err)
	}

	var one int
	err = executor.QueryRowContext(ctx, query, args...).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: exists - scan: %w", ErrScanRow, err)
	}
	return true, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *Repository) scanSlot(row rowScanner, method string) (*domain.Slot, error) {
	var slot domain.Slot
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&slot.ID,
		&slot.BranchID,
		&slot.TeacherID,
		&slot.RoomID,
		&slot.ServiceTypeID,
		&slot.SlotDate,
		&slot.StartTime,
		&slot.EndTime,
		&slot.Capacity,
		&slot.BookedCount,
		&slot.IsActive,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan slot: %w", ErrScanRow, method, err)
	}

	slot.CreatedAt = createdAt.Time
	slot.UpdatedAt = updatedAt.Time

	return &slot, nil
}

func (r *Repository) scanSlotRow(rows *sql.Rows) (*domain.Slot, error) {
	return r.scanSlot(rows, "scanSlotRow")
}
