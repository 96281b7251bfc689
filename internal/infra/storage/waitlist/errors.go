package waitlist

import "errors"

var (
	// ErrEntryNotFound возвращается, когда запись листа ожидания не найдена
	ErrEntryNotFound = errors.New("waitlist.repository: entry not found")

	// ErrDuplicateEntry возвращается при попытке повторной постановки
	// студента в очередь на тот же слот
	ErrDuplicateEntry = errors.New("waitlist.repository: entry already exists for this student and slot")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("waitlist.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("waitlist.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("waitlist.repository: failed to scan row")
)
