package reschedule_booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("reschedule_booking: booking not found")

	// ErrSlotNotFound возвращается, когда новый слот не найден или неактивен
	ErrSlotNotFound = errors.New("reschedule_booking: slot not found")

	// ErrAccessDenied возвращается при недостатке прав на перенос
	ErrAccessDenied = errors.New("reschedule_booking: access denied")

	// ErrNotReschedulable возвращается при попытке перенести
	// отмененное или завершенное бронирование
	ErrNotReschedulable = errors.New("reschedule_booking: booking cannot be rescheduled")

	// ErrPastSlot возвращается, когда новый слот уже начался
	ErrPastSlot = errors.New("reschedule_booking: new slot is in the past")

	// ErrSameSlot возвращается при переносе в тот же слот
	ErrSameSlot = errors.New("reschedule_booking: new slot is the same as the current one")

	// ErrBranchNotFound возвращается, когда филиал нового слота
	// не найден или неактивен
	ErrBranchNotFound = errors.New("reschedule_booking: branch not found")

	// ErrTeacherNotFound возвращается, когда преподаватель нового слота
	// не найден или неактивен
	ErrTeacherNotFound = errors.New("reschedule_booking: teacher not found")

	// ErrServiceTypeNotFound возвращается, когда тип занятия нового слота
	// не найден или неактивен
	ErrServiceTypeNotFound = errors.New("reschedule_booking: service type not found")

	// ErrSlotFull возвращается, когда в новом слоте нет мест
	ErrSlotFull = errors.New("reschedule_booking: new slot is full")

	// ErrMonthlyLimit возвращается, когда перенос нарушил бы
	// месячный лимит бронирований
	ErrMonthlyLimit = errors.New("reschedule_booking: student already has a booking in the target month")

	// ErrDuplicateBooking возвращается, когда у студента уже есть
	// активное бронирование нового слота
	ErrDuplicateBooking = errors.New("reschedule_booking: student already has an active booking for the new slot")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("reschedule_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("reschedule_booking: internal error")
)
