package assessment

import "errors"

var (
	// ErrAssessmentNotFound возвращается, когда оценка не найдена
	ErrAssessmentNotFound = errors.New("assessment.repository: assessment not found")

	// ErrDuplicateAssessment возвращается при попытке создать вторую оценку
	// для одного бронирования - нарушение уникального ограничения booking_id
	ErrDuplicateAssessment = errors.New("assessment.repository: assessment already exists for this booking")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("assessment.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("assessment.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("assessment.repository: failed to scan row")
)
