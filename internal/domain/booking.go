package domain

import "time"

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
	StatusCompleted BookingStatus = "completed"
	StatusNoShow    BookingStatus = "no_show"
)

// Booking represents a student's claim on one capacity unit of a slot
type Booking struct {
	ID        int64
	StudentID int64
	SlotID    int64
	Status    BookingStatus

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the booking has not been cancelled
func (b *Booking) IsActive() bool {
	return b.Status != StatusCancelled
}

// CanBeCancelled returns true if the booking can still be cancelled
func (b *Booking) CanBeCancelled() bool {
	return b.Status == StatusConfirmed
}

// CanBeRescheduled returns true if the booking can be moved to another slot
func (b *Booking) CanBeRescheduled() bool {
	return b.Status == StatusConfirmed
}

// IsTerminal returns true if the booking reached a terminal state
func (b *Booking) IsTerminal() bool {
	return b.Status == StatusCancelled || b.Status == StatusCompleted || b.Status == StatusNoShow
}

// HoldsCapacity returns true if the booking counts against its slot's capacity.
// Completed and no-show bookings keep their seat: the seat was consumed.
func (b *Booking) HoldsCapacity() bool {
	return b.Status == StatusConfirmed || b.Status == StatusCompleted || b.Status == StatusNoShow
}

// CountsForMonthlyLimit returns true if the booking counts against the
// one-booking-per-calendar-month rule
func (b *Booking) CountsForMonthlyLimit() bool {
	return b.Status == StatusConfirmed || b.Status == StatusCompleted
}

// BranchBookingsFilter фильтр для получения бронирований филиала
type BranchBookingsFilter struct {
	BranchID        int64          // Обязательный параметр
	StartDate       *time.Time     // Начало периода (опционально)
	EndDate         *time.Time     // Конец периода (опционально)
	Status          *BookingStatus // Фильтр по статусу (опционально)
	IncludeInactive bool           // Включать ли отмененные бронирования
}
