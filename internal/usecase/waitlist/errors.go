package waitlist

import "errors"

var (
	// ErrSlotNotFound возвращается, когда слот не найден или неактивен
	ErrSlotNotFound = errors.New("waitlist: slot not found")

	// ErrPastSlot возвращается для слота, который уже начался
	ErrPastSlot = errors.New("waitlist: slot is in the past")

	// ErrBranchNotFound возвращается, когда филиал слота не найден или неактивен
	ErrBranchNotFound = errors.New("waitlist: branch not found")

	// ErrServiceTypeNotFound возвращается, когда тип занятия слота
	// не найден или неактивен
	ErrServiceTypeNotFound = errors.New("waitlist: service type not found")

	// ErrSlotNotFull возвращается при попытке встать в очередь
	// к слоту со свободными местами
	ErrSlotNotFull = errors.New("waitlist: slot still has free seats")

	// ErrSlotFull возвращается при конвертации, когда мест не осталось
	ErrSlotFull = errors.New("waitlist: slot is full")

	// ErrAlreadyQueued возвращается при повторной постановке в очередь
	ErrAlreadyQueued = errors.New("waitlist: student is already queued for this slot")

	// ErrEntryNotFound возвращается, когда записи в очереди нет
	ErrEntryNotFound = errors.New("waitlist: entry not found")

	// ErrMonthlyLimit возвращается, когда конвертация нарушила бы
	// месячный лимит бронирований студента
	ErrMonthlyLimit = errors.New("waitlist: student already has a booking this month")

	// ErrDuplicateBooking возвращается, когда у студента уже есть
	// активное бронирование этого слота
	ErrDuplicateBooking = errors.New("waitlist: student already has an active booking for this slot")

	// ErrAccessDenied возвращается при недостатке прав на операцию
	ErrAccessDenied = errors.New("waitlist: access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("waitlist: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("waitlist: internal error")
)
