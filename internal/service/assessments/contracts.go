package assessments

import (
	"context"

	"github.com/edspace/lesson-booking-service/internal/domain"
)

// AssessmentRepository интерфейс репозитория оценок
type AssessmentRepository interface {
	Create(ctx context.Context, assessment *domain.Assessment) (*domain.Assessment, error)
	GetByID(ctx context.Context, id int64) (*domain.Assessment, error)
	GetByBookingID(ctx context.Context, bookingID int64) (*domain.Assessment, error)
	Update(ctx context.Context, id int64, score *float64, remarks *string) error
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
}

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Slot, error)
}

// AuditRecorder интерфейс для записи аудита операций
type AuditRecorder interface {
	RecordAsync(userID int64, entityType string, entityID int64, action string, oldValues, newValues map[string]interface{})
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
