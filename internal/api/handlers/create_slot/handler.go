package create_slot

import (
	"errors"
	"net/http"

	"github.com/edspace/lesson-booking-service/internal/api/handlers"
	"github.com/edspace/lesson-booking-service/internal/api/middleware"
	"github.com/edspace/lesson-booking-service/internal/service/slots"
	"github.com/edspace/lesson-booking-service/internal/service/slots/models"
)

const (
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgMissingUserID       = "отсутствует ID пользователя"
	msgForbidden           = "доступ запрещен"
	msgBranchNotFound      = "филиал не найден"
	msgTeacherNotFound     = "преподаватель не найден"
	msgServiceTypeNotFound = "тип занятия не найден"
)

type Handler struct {
	service SlotService
	logger  Logger
}

func NewHandler(service SlotService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/slots
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /slots - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req models.CreateSlotRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /slots - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.CallerID = callerID

	result, err := h.service.CreateSlot(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, slots.ErrInvalidInput):
			h.logger.Warn("POST /slots - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		case errors.Is(err, slots.ErrAccessDenied):
			h.logger.Warn("POST /slots - Access denied: user_id=%d, branch_id=%d", callerID, req.BranchID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, slots.ErrBranchNotFound):
			h.logger.Warn("POST /slots - Branch not found: branch_id=%d", req.BranchID)
			handlers.RespondNotFound(w, msgBranchNotFound)

		case errors.Is(err, slots.ErrTeacherNotFound):
			h.logger.Warn("POST /slots - Teacher not found: teacher_id=%d", req.TeacherID)
			handlers.RespondNotFound(w, msgTeacherNotFound)

		case errors.Is(err, slots.ErrServiceTypeNotFound):
			h.logger.Warn("POST /slots - Service type not found")
			handlers.RespondNotFound(w, msgServiceTypeNotFound)

		default:
			h.logger.Error("POST /slots - Failed to create slot: user_id=%d, error=%v", callerID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /slots - Slot created successfully: slot_id=%d, branch_id=%d", result.ID, result.BranchID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
