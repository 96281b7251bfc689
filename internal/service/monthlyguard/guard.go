package monthlyguard

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrMonthlyLimit возвращается, когда у студента уже есть активное
	// бронирование в том же календарном месяце
	ErrMonthlyLimit = errors.New("monthlyguard: student already has an active booking this month")

	// ErrInternal возвращается при внутренних ошибках
	ErrInternal = errors.New("monthlyguard: internal error")
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	CountActiveInMonth(ctx context.Context, studentID int64, monthStart, monthEnd time.Time, excludeBookingID *int64) (int, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Guard проверяет правило "одно активное бронирование в календарный месяц".
// Учитываются бронирования в статусах confirmed/completed по всем филиалам.
// Правило можно отключить настройкой booking.allow_multiple_per_month.
type Guard struct {
	bookingRepo   BookingRepository
	allowMultiple bool
	logger        Logger
}

// NewGuard создает новый экземпляр guard'а
func NewGuard(bookingRepo BookingRepository, allowMultiple bool, logger Logger) *Guard {
	return &Guard{
		bookingRepo:   bookingRepo,
		allowMultiple: allowMultiple,
		logger:        logger,
	}
}

// Check возвращает ErrMonthlyLimit, если у студента уже есть учитываемое
// бронирование в календарном месяце slotDate. excludeBookingID исключает
// переносимое бронирование, чтобы перенос внутри месяца не блокировал сам себя.
func (g *Guard) Check(ctx context.Context, studentID int64, slotDate time.Time, excludeBookingID *int64) error {
	if g.allowMultiple {
		return nil
	}

	monthStart, monthEnd := monthBounds(slotDate)

	count, err := g.bookingRepo.CountActiveInMonth(ctx, studentID, monthStart, monthEnd, excludeBookingID)
	if err != nil {
		g.logger.Error("monthlyguard: failed to count bookings for student=%d: %v", studentID, err)
		return fmt.Errorf("%w: failed to count bookings: %w", ErrInternal, err)
	}

	if count > 0 {
		g.logger.Warn("monthlyguard: student=%d already has %d booking(s) in %s",
			studentID, count, slotDate.Format("2006-01"))
		return ErrMonthlyLimit
	}

	return nil
}

// monthBounds возвращает первый и последний день календарного месяца даты
func monthBounds(date time.Time) (time.Time, time.Time) {
	monthStart := time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, date.Location())
	monthEnd := monthStart.AddDate(0, 1, -1)
	return monthStart, monthEnd
}
