package enqueue_waitlist

import (
	"errors"
	"net/http"
	"time"

	"github.com/edspace/lesson-booking-service/internal/api/handlers"
	"github.com/edspace/lesson-booking-service/internal/api/middleware"
	"github.com/edspace/lesson-booking-service/internal/usecase/waitlist"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgSlotNotFound       = "слот не найден"
	msgPastSlot           = "занятие уже началось"
	msgSlotNotFull        = "в слоте есть свободные места, бронируйте напрямую"
	msgAlreadyQueued      = "студент уже находится в очереди на этот слот"
)

// EnqueueRequest HTTP request model
type EnqueueRequest struct {
	SlotID   int64 `json:"slotId"`
	Priority int   `json:"priority"`
}

// EnqueueResponse HTTP response model
type EnqueueResponse struct {
	ID        int64  `json:"id"`
	StudentID int64  `json:"studentId"`
	SlotID    int64  `json:"slotId"`
	Priority  int    `json:"priority"`
	CreatedAt string `json:"createdAt"`
	ExpiresAt string `json:"expiresAt"`
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

// Handle POST /api/v1/waiting-list
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /waiting-list - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req EnqueueRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /waiting-list - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Enqueue(r.Context(), &waitlist.EnqueueRequest{
		StudentID: userID,
		SlotID:    req.SlotID,
		Priority:  req.Priority,
	})
	if err != nil {
		switch {
		case errors.Is(err, waitlist.ErrSlotNotFound):
			h.logger.Warn("POST /waiting-list - Slot not found: slot_id=%d", req.SlotID)
			handlers.RespondNotFound(w, msgSlotNotFound)

		case errors.Is(err, waitlist.ErrPastSlot):
			h.logger.Warn("POST /waiting-list - Past slot: slot_id=%d", req.SlotID)
			handlers.RespondUnprocessable(w, msgPastSlot)

		case errors.Is(err, waitlist.ErrSlotNotFull):
			h.logger.Warn("POST /waiting-list - Slot not full: slot_id=%d", req.SlotID)
			handlers.RespondConflict(w, msgSlotNotFull)

		case errors.Is(err, waitlist.ErrAlreadyQueued):
			h.logger.Warn("POST /waiting-list - Already queued: user_id=%d, slot_id=%d", userID, req.SlotID)
			handlers.RespondConflict(w, msgAlreadyQueued)

		case errors.Is(err, waitlist.ErrInvalidInput):
			h.logger.Warn("POST /waiting-list - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("POST /waiting-list - Failed to enqueue: user_id=%d, slot_id=%d, error=%v",
				userID, req.SlotID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /waiting-list - Enqueued successfully: entry_id=%d, user_id=%d, slot_id=%d",
		result.EntryID, userID, req.SlotID)
	handlers.RespondJSON(w, http.StatusCreated, &EnqueueResponse{
		ID:        result.EntryID,
		StudentID: result.StudentID,
		SlotID:    result.SlotID,
		Priority:  result.Priority,
		CreatedAt: result.CreatedAt.Format(time.RFC3339),
		ExpiresAt: result.ExpiresAt.Format(time.RFC3339),
	})
}
