package bookings

import (
	"context"

	"github.com/edspace/lesson-booking-service/internal/domain"
	"github.com/edspace/lesson-booking-service/internal/integrations/catalogservice"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByStudentID(ctx context.Context, studentID int64, status *domain.BookingStatus) ([]*domain.Booking, error)
	GetByBranchWithFilter(ctx context.Context, filter domain.BranchBookingsFilter) ([]*domain.Booking, error)
}

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Slot, error)
}

// CatalogServiceClient интерфейс клиента CatalogService
type CatalogServiceClient interface {
	GetTeacher(ctx context.Context, teacherID int64) (*catalogservice.Teacher, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
