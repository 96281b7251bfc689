package slots

import "errors"

var (
	// ErrBranchNotFound возвращается, когда филиал не найден или неактивен
	ErrBranchNotFound = errors.New("slots.service: branch not found")

	// ErrTeacherNotFound возвращается, когда преподаватель не найден
	ErrTeacherNotFound = errors.New("slots.service: teacher not found")

	// ErrServiceTypeNotFound возвращается, когда тип занятия не найден
	ErrServiceTypeNotFound = errors.New("slots.service: service type not found")

	// ErrAccessDenied возвращается при недостатке прав на операцию
	ErrAccessDenied = errors.New("slots.service: access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("slots.service: invalid input")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("slots.service: internal error")
)
