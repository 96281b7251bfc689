package slot

import "errors"

var (
	// ErrSlotNotFound возвращается, когда слот не найден
	ErrSlotNotFound = errors.New("slot.repository: slot not found")

	// ErrSlotFull возвращается, когда в слоте не осталось свободных мест
	ErrSlotFull = errors.New("slot.repository: slot is full")

	// ErrSlotInactive возвращается при попытке бронирования в деактивированный слот
	ErrSlotInactive = errors.New("slot.repository: slot is inactive")

	// ErrNoReservedSeats возвращается при попытке освободить место в слоте,
	// у которого booked_count уже равен нулю
	ErrNoReservedSeats = errors.New("slot.repository: no reserved seats to release")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("slot.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("slot.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("slot.repository: failed to scan row")
)
