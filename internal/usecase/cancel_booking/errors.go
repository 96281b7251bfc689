package cancel_booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("cancel_booking: booking not found")

	// ErrAccessDenied возвращается при недостатке прав на отмену
	ErrAccessDenied = errors.New("cancel_booking: access denied")

	// ErrNotCancellable возвращается при попытке отменить
	// уже отмененное или завершенное бронирование
	ErrNotCancellable = errors.New("cancel_booking: booking cannot be cancelled")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("cancel_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("cancel_booking: internal error")
)
