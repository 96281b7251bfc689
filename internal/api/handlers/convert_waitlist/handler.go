package convert_waitlist

import (
	"errors"
	"net/http"
	"time"

	"github.com/edspace/lesson-booking-service/internal/api/handlers"
	"github.com/edspace/lesson-booking-service/internal/api/middleware"
	"github.com/edspace/lesson-booking-service/internal/usecase/waitlist"
	"github.com/edspace/lesson-booking-service/pkg/txmanager"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgForbidden          = "доступ запрещен"
	msgSlotNotFound       = "слот не найден"
	msgBranchNotFound     = "филиал слота не найден или неактивен"
	msgServiceNotFound    = "тип занятия слота не найден или неактивен"
	msgPastSlot           = "занятие уже началось"
	msgEntryNotFound      = "запись в очереди не найдена"
	msgSlotFull           = "в слоте не осталось свободных мест"
	msgMonthlyLimit       = "у студента уже есть бронирование в этом месяце"
	msgDuplicateBooking   = "у студента уже есть бронирование этого слота"
)

// ConvertRequest HTTP request model
type ConvertRequest struct {
	SlotID    int64 `json:"slotId"`
	StudentID int64 `json:"studentId"`
}

// ConvertResponse HTTP response model
type ConvertResponse struct {
	ID        int64  `json:"id"`
	StudentID int64  `json:"studentId"`
	SlotID    int64  `json:"slotId"`
	Status    string `json:"status"`
	CreatedAt string `json:"createdAt"`
}

type Handler struct {
	useCase WaitlistUseCase
	logger  Logger
}

func NewHandler(useCase WaitlistUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/waiting-list/convert-to-booking
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /waiting-list/convert-to-booking - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req ConvertRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /waiting-list/convert-to-booking - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.ConvertToBooking(r.Context(), &waitlist.ConvertRequest{
		CallerID:  callerID,
		StudentID: req.StudentID,
		SlotID:    req.SlotID,
	})
	if err != nil {
		switch {
		case errors.Is(err, waitlist.ErrAccessDenied):
			h.logger.Warn("POST /waiting-list/convert-to-booking - Access denied: user_id=%d, slot_id=%d", callerID, req.SlotID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, waitlist.ErrSlotNotFound):
			h.logger.Warn("POST /waiting-list/convert-to-booking - Slot not found: slot_id=%d", req.SlotID)
			handlers.RespondNotFound(w, msgSlotNotFound)

		case errors.Is(err, waitlist.ErrBranchNotFound):
			h.logger.Warn("POST /waiting-list/convert-to-booking - Branch not found: slot_id=%d", req.SlotID)
			handlers.RespondNotFound(w, msgBranchNotFound)

		case errors.Is(err, waitlist.ErrServiceTypeNotFound):
			h.logger.Warn("POST /waiting-list/convert-to-booking - Service type not found: slot_id=%d", req.SlotID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, waitlist.ErrPastSlot):
			h.logger.Warn("POST /waiting-list/convert-to-booking - Past slot: slot_id=%d", req.SlotID)
			handlers.RespondUnprocessable(w, msgPastSlot)

		case errors.Is(err, waitlist.ErrEntryNotFound):
			h.logger.Warn("POST /waiting-list/convert-to-booking - Entry not found: student_id=%d, slot_id=%d",
				req.StudentID, req.SlotID)
			handlers.RespondNotFound(w, msgEntryNotFound)

		case errors.Is(err, waitlist.ErrSlotFull):
			h.logger.Warn("POST /waiting-list/convert-to-booking - Slot full: slot_id=%d", req.SlotID)
			handlers.RespondConflict(w, msgSlotFull)

		case errors.Is(err, waitlist.ErrMonthlyLimit):
			h.logger.Warn("POST /waiting-list/convert-to-booking - Monthly limit: student_id=%d", req.StudentID)
			handlers.RespondConflict(w, msgMonthlyLimit)

		case errors.Is(err, waitlist.ErrDuplicateBooking):
			h.logger.Warn("POST /waiting-list/convert-to-booking - Duplicate booking: student_id=%d, slot_id=%d",
				req.StudentID, req.SlotID)
			handlers.RespondConflict(w, msgDuplicateBooking)

		case errors.Is(err, waitlist.ErrInvalidInput):
			h.logger.Warn("POST /waiting-list/convert-to-booking - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		case errors.Is(err, txmanager.ErrRetryExhausted):
			h.logger.Warn("POST /waiting-list/convert-to-booking - Serialization retries exhausted: slot_id=%d", req.SlotID)
			handlers.RespondServiceUnavailable(w)

		default:
			h.logger.Error("POST /waiting-list/convert-to-booking - Failed to convert: student_id=%d, slot_id=%d, error=%v",
				req.StudentID, req.SlotID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /waiting-list/convert-to-booking - Converted successfully: booking_id=%d, student_id=%d, slot_id=%d",
		result.BookingID, result.StudentID, result.SlotID)
	handlers.RespondJSON(w, http.StatusCreated, &ConvertResponse{
		ID:        result.BookingID,
		StudentID: result.StudentID,
		SlotID:    result.SlotID,
		Status:    result.Status,
		CreatedAt: result.CreatedAt.Format(time.RFC3339),
	})
}
