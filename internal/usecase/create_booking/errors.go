package create_booking

import "errors"

var (
	// ErrSlotNotFound возвращается, когда слот не найден
	ErrSlotNotFound = errors.New("create_booking: slot not found")

	// ErrSlotInactive возвращается при попытке бронирования
	// в деактивированный слот
	ErrSlotInactive = errors.New("create_booking: slot is inactive")

	// ErrPastSlot возвращается при попытке бронирования слота,
	// который уже начался
	ErrPastSlot = errors.New("create_booking: slot is in the past")

	// ErrMonthlyLimit возвращается, когда у студента уже есть
	// активное бронирование в этом календарном месяце
	ErrMonthlyLimit = errors.New("create_booking: student already has a booking this month")

	// ErrDuplicateBooking возвращается при повторном бронировании
	// того же слота тем же студентом
	ErrDuplicateBooking = errors.New("create_booking: student already has an active booking for this slot")

	// ErrBranchNotFound возвращается, когда филиал слота не найден или неактивен
	ErrBranchNotFound = errors.New("create_booking: branch not found")

	// ErrTeacherNotFound возвращается, когда преподаватель слота не найден или неактивен
	ErrTeacherNotFound = errors.New("create_booking: teacher not found")

	// ErrServiceTypeNotFound возвращается, когда тип занятия не найден или неактивен
	ErrServiceTypeNotFound = errors.New("create_booking: service type not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
