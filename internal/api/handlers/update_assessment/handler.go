package update_assessment

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/edspace/lesson-booking-service/internal/api/handlers"
	"github.com/edspace/lesson-booking-service/internal/api/middleware"
	"github.com/edspace/lesson-booking-service/internal/service/assessments"
	"github.com/edspace/lesson-booking-service/internal/service/assessments/models"
)

const (
	msgInvalidAssessmentID = "некорректный ID оценки"
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgMissingUserID       = "отсутствует ID пользователя"
	msgNotFound            = "оценка не найдена"
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

// Handle PUT /api/v1/assessments/{assessmentId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	assessmentID, err := strconv.ParseInt(vars["assessmentId"], 10, 64)
	if err != nil {
		h.logger.Warn("PUT /assessments/{id} - Invalid assessment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAssessmentID)
		return
	}

	teacherID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PUT /assessments/{id} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req models.UpdateAssessmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /assessments/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.AssessmentID = assessmentID
	req.TeacherID = teacherID

	result, err := h.service.Update(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, assessments.ErrInvalidScore):
			h.logger.Warn("PUT /assessments/{id} - Invalid score: assessment_id=%d", assessmentID)
			handlers.RespondBadRequest(w, msgInvalidScore)

		case errors.Is(err, assessments.ErrInvalidInput):
			h.logger.Warn("PUT /assessments/{id} - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		case errors.Is(err, assessments.ErrAssessmentNotFound):
			h.logger.Warn("PUT /assessments/{id} - Assessment not found: assessment_id=%d", assessmentID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, assessments.ErrAccessDenied):
			h.logger.Warn("PUT /assessments/{id} - Access denied: assessment_id=%d, user_id=%d", assessmentID, teacherID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("PUT /assessments/{id} - Failed to update assessment: assessment_id=%d, error=%v", assessmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /assessments/{id} - Assessment updated: assessment_id=%d", result.ID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
