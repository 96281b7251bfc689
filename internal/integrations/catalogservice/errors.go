package catalogservice

import "errors"

var (
	// ErrBranchNotFound возвращается, когда филиал не найден
	ErrBranchNotFound = errors.New("catalogservice client: branch not found")

	// ErrTeacherNotFound возвращается, когда преподаватель не найден
	ErrTeacherNotFound = errors.New("catalogservice client: teacher not found")

	// ErrServiceTypeNotFound возвращается, когда тип занятия не найден
	ErrServiceTypeNotFound = errors.New("catalogservice client: service type not found")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("catalogservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("catalogservice client: invalid response")
)
