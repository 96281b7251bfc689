package domain

import (
	"time"

	"github.com/edspace/lesson-booking-service/pkg/types"
)

// Slot represents a fixed-capacity, time-boxed teaching resource:
// a branch + teacher + date + time range with a seat limit
type Slot struct {
	ID            int64
	BranchID      int64
	TeacherID     int64
	RoomID        *int64 // NULL = no dedicated room
	ServiceTypeID *int64 // NULL = generic lesson
	SlotDate      time.Time
	StartTime     types.TimeString
	EndTime       types.TimeString
	Capacity      int
	BookedCount   int // confirmed + completed + no_show bookings
	IsActive      bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsFull returns true if the slot has no free seats left
func (s *Slot) IsFull() bool {
	return s.BookedCount >= s.Capacity
}

// AvailableSeats returns the number of free seats
func (s *Slot) AvailableSeats() int {
	if s.BookedCount >= s.Capacity {
		return 0
	}
	return s.Capacity - s.BookedCount
}

// StartDateTime combines the slot's date and start time into a single instant
func (s *Slot) StartDateTime() (time.Time, error) {
	return s.StartTime.OnDate(s.SlotDate)
}

// IsInPast returns true if the slot's start has already passed
func (s *Slot) IsInPast(now time.Time) bool {
	start, err := s.StartDateTime()
	if err != nil {
		return false
	}
	return !start.After(now)
}

// MonthOf returns the first day of the slot's calendar month.
// Used by the monthly duplicate rule.
func (s *Slot) MonthOf() time.Time {
	return time.Date(s.SlotDate.Year(), s.SlotDate.Month(), 1, 0, 0, 0, 0, s.SlotDate.Location())
}
