package waitlist

import (
	"context"
	"time"

	"github.com/edspace/lesson-booking-service/internal/domain"
	"github.com/edspace/lesson-booking-service/internal/integrations/catalogservice"
)

// WaitlistRepository интерфейс репозитория очереди ожидания
type WaitlistRepository interface {
	Create(ctx context.Context, entry *domain.WaitingListEntry) (*domain.WaitingListEntry, error)
	GetActiveBySlot(ctx context.Context, slotID int64, now time.Time) ([]*domain.WaitingListEntry, error)
	FindBySlotAndStudent(ctx context.Context, slotID, studentID int64) (*domain.WaitingListEntry, error)
	Delete(ctx context.Context, id int64) error
	DeleteBySlotAndStudent(ctx context.Context, slotID, studentID int64) (int64, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Slot, error)
	TryReserve(ctx context.Context, slotID int64) error
	Release(ctx context.Context, slotID int64) error
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
}

// MonthlyGuard интерфейс проверки месячного лимита бронирований
type MonthlyGuard interface {
	Check(ctx context.Context, studentID int64, slotDate time.Time, excludeBookingID *int64) error
}

// CatalogServiceClient интерфейс клиента сервиса каталога
type CatalogServiceClient interface {
	GetBranch(ctx context.Context, id int64) (*catalogservice.Branch, error)
	GetTeacher(ctx context.Context, id int64) (*catalogservice.Teacher, error)
	GetServiceType(ctx context.Context, id int64) (*catalogservice.ServiceType, error)
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

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
