package assessments

import "errors"

var (
	// ErrAssessmentNotFound возвращается, когда оценка не найдена
	ErrAssessmentNotFound = errors.New("assessments.service: assessment not found")

	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("assessments.service: booking not found")

	// ErrBookingNotCompleted возвращается при попытке оценить
	// незавершенное занятие
	ErrBookingNotCompleted = errors.New("assessments.service: booking is not completed")

	// ErrAlreadyAssessed возвращается, когда оценка для бронирования
	// уже существует
	ErrAlreadyAssessed = errors.New("assessments.service: booking already assessed")

	// ErrAccessDenied возвращается при недостатке прав на операцию
	ErrAccessDenied = errors.New("assessments.service: access denied")

	// ErrInvalidScore возвращается при некорректной оценке -
	// допустимы значения от 0 до 9 с шагом 0.5
	ErrInvalidScore = errors.New("assessments.service: invalid score")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("assessments.service: invalid input")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("assessments.service: internal error")
)
