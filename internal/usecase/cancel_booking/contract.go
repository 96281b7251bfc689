package cancel_booking

import (
	"context"

	"github.com/edspace/lesson-booking-service/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	Cancel(ctx context.Context, id int64, reason string) error
}

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Slot, error)
	Release(ctx context.Context, slotID int64) error
}

// PolicyEngine интерфейс проверки окна отмены
type PolicyEngine interface {
	Check(slot *domain.Slot) error
}

// WaitlistPromoter интерфейс продвижения очереди ожидания
// после освобождения места
type WaitlistPromoter interface {
	TryPromote(ctx context.Context, slotID int64) ([]*domain.Booking, error)
}

// NotificationSender интерфейс отправки уведомлений
type NotificationSender interface {
	SendAsync(userID int64, notifType string, payload map[string]interface{})
}

// AuditRecorder интерфейс для записи аудита операций
type AuditRecorder interface {
	RecordAsync(userID int64, entityType string, entityID int64, action string, oldValues, newValues map[string]interface{})
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
