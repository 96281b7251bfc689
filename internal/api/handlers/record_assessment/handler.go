package record_assessment

import (
	"errors"
	"net/http"

	"github.com/edspace/lesson-booking-service/internal/api/handlers"
	"github.com/edspace/lesson-booking-service/internal/api/middleware"
	"github.com/edspace/lesson-booking-service/internal/service/assessments"
	"github.com/edspace/lesson-booking-service/internal/service/assessments/models"
)

const (
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgMissingUserID       = "отсутствует ID пользователя"
	msgBookingNotFound     = "бронирование не найдено"
	msgBookingNotCompleted = "оценить можно только завершенное занятие"
	msgAlreadyAssessed     = "оценка для этого бронирования уже существует"
	msgForbidden           = "доступ запрещен"
	msgInvalidScore        = "оценка должна быть от 0 до 9 с шагом 0.5"
)

type Handler struct {
	service AssessmentService
	logger  Logger
}

func NewHandler(service AssessmentService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/assessments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	teacherID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /assessments - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req models.RecordAssessmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /assessments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.TeacherID = teacherID

	result, err := h.service.Record(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, assessments.ErrInvalidScore):
			h.logger.Warn("POST /assessments - Invalid score: booking_id=%d, score=%v", req.BookingID, req.Score)
			handlers.RespondBadRequest(w, msgInvalidScore)

		case errors.Is(err, assessments.ErrInvalidInput):
			h.logger.Warn("POST /assessments - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		case errors.Is(err, assessments.ErrBookingNotFound):
			h.logger.Warn("POST /assessments - Booking not found: booking_id=%d", req.BookingID)
			handlers.RespondNotFound(w, msgBookingNotFound)

		case errors.Is(err, assessments.ErrBookingNotCompleted):
			h.logger.Warn("POST /assessments - Booking not completed: booking_id=%d", req.BookingID)
			handlers.RespondUnprocessable(w, msgBookingNotCompleted)

		case errors.Is(err, assessments.ErrAccessDenied):
			h.logger.Warn("POST /assessments - Access denied: booking_id=%d, user_id=%d", req.BookingID, teacherID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, assessments.ErrAlreadyAssessed):
			h.logger.Warn("POST /assessments - Already assessed: booking_id=%d", req.BookingID)
			handlers.RespondConflict(w, msgAlreadyAssessed)

		default:
			h.logger.Error("POST /assessments - Failed to record assessment: booking_id=%d, error=%v", req.BookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /assessments - Assessment recorded: assessment_id=%d, booking_id=%d", result.ID, result.BookingID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
