package mark_attendance

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("mark_attendance: booking not found")

	// ErrAccessDenied возвращается, когда отметку ставит
	// не преподаватель слота
	ErrAccessDenied = errors.New("mark_attendance: access denied")

	// ErrNotConfirmed возвращается при попытке отметить посещение
	// для неподтвержденного бронирования
	ErrNotConfirmed = errors.New("mark_attendance: booking is not confirmed")

	// ErrSlotNotStarted возвращается, когда занятие еще не началось
	ErrSlotNotStarted = errors.New("mark_attendance: slot has not started yet")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("mark_attendance: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("mark_attendance: internal error")
)
