package domain

import "time"

// Business rule constants
const (
	// CancellationNoticeHours минимальное время до начала слота, при котором
	// ещё разрешена отмена или перенос бронирования
	CancellationNoticeHours = 24

	// WaitlistEntryTTL время жизни записи в листе ожидания
	WaitlistEntryTTL = 7 * 24 * time.Hour

	MinWaitlistPriority = 1
	MaxWaitlistPriority = 10

	MinAssessmentScore = 0.0
	MaxAssessmentScore = 9.0

	MinSlotCapacity = 1

	MaxRemarksLength            = 1000
	MaxCancellationReasonLength = 500
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// CapacityHoldingStatuses статусы, при которых бронирование занимает место в слоте.
// Используется при подсчёте booked_count.
var CapacityHoldingStatuses = []BookingStatus{
	StatusConfirmed,
	StatusCompleted,
	StatusNoShow,
}

// MonthlyCountedStatuses статусы, учитываемые правилом
// "одно бронирование в календарный месяц"
var MonthlyCountedStatuses = []BookingStatus{
	StatusConfirmed,
	StatusCompleted,
}
