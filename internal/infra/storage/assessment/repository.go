package assessment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/edspace/lesson-booking-service/internal/domain"
	"github.com/edspace/lesson-booking-service/pkg/dbmetrics"
	"github.com/edspace/lesson-booking-service/pkg/psqlbuilder"
)

var assessmentColumns = []string{
	"id",
	"booking_id",
	"student_id",
	"teacher_id",
	"score",
	"remarks",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с оценками
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория оценок
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает оценку. Нарушение уникального ограничения booking_id
// возвращается как ErrDuplicateAssessment.
func (r *Repository) Create(ctx context.Context, assessment *domain.Assessment) (*domain.Assessment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("assessments").
		Columns(
			"booking_id",
			"student_id",
			"teacher_id",
			"score",
			"remarks",
		).
		Values(
			assessment.BookingID,
			assessment.StudentID,
			assessment.TeacherID,
			assessment.Score,
			assessment.Remarks,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %w", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&assessment.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return nil, ErrDuplicateAssessment
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	assessment.CreatedAt = createdAt.Time
	assessment.UpdatedAt = updatedAt.Time

	return assessment, nil
}

// GetByID получает оценку по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Assessment, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id}, "GetByID")
}

// GetByBookingID получает оценку по ID бронирования
func (r *Repository) GetByBookingID(ctx context.Context, bookingID int64) (*domain.Assessment, error) {
	return r.getOne(ctx, squirrel.Eq{"booking_id": bookingID}, "GetByBookingID")
}

func (r *Repository) getOne(ctx context.Context, where squirrel.Eq, method string) (*domain.Assessment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(assessmentColumns...).
		From("assessments").
		Where(where).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %w", ErrBuildQuery, method, err)
	}

	var assessment domain.Assessment
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&assessment.ID,
		&assessment.BookingID,
		&assessment.StudentID,
		&assessment.TeacherID,
		&assessment.Score,
		&assessment.Remarks,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrAssessmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan assessment: %w", ErrScanRow, method, err)
	}

	assessment.CreatedAt = createdAt.Time
	assessment.UpdatedAt = updatedAt.Time

	return &assessment, nil
}

// Update обновляет поля оценки. Nil-поля не меняются.
func (r *Repository) Update(ctx context.Context, id int64, score *float64, remarks *string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	updateBuilder := psqlbuilder.Update("assessments").
		Where(squirrel.Eq{"id": id})

	if score != nil {
		updateBuilder = updateBuilder.Set("score", *score)
	}
	if remarks != nil {
		updateBuilder = updateBuilder.Set("remarks", *remarks)
	}

	query, args, err := updateBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: Update - build update query: %w", ErrBuildQuery, err)
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
		return ErrAssessmentNotFound
	}

	return nil
}
