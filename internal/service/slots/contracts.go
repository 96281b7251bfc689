package slots

import (
	"context"
	"time"

	"github.com/edspace/lesson-booking-service/internal/domain"
	catalogModels "github.com/edspace/lesson-booking-service/internal/integrations/catalogservice"
)

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	Create(ctx context.Context, slot *domain.Slot) (*domain.Slot, error)
	GetByID(ctx context.Context, id int64) (*domain.Slot, error)
	GetByBranchAndDate(ctx context.Context, branchID int64, date time.Time) ([]*domain.Slot, error)
	Deactivate(ctx context.Context, slotID int64) error
}

// CatalogServiceClient интерфейс клиента сервиса каталога
type CatalogServiceClient interface {
	GetBranch(ctx context.Context, id int64) (*catalogModels.Branch, error)
	GetTeacher(ctx context.Context, id int64) (*catalogModels.Teacher, error)
	GetServiceType(ctx context.Context, id int64) (*catalogModels.ServiceType, error)
}

// TimeProvider интерфейс для получения текущего времени
type TimeProvider interface {
	Now() time.Time
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
