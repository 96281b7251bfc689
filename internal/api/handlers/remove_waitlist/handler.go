package remove_waitlist

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/edspace/lesson-booking-service/internal/api/handlers"
	"github.com/edspace/lesson-booking-service/internal/api/middleware"
	"github.com/edspace/lesson-booking-service/internal/usecase/waitlist"
)

const (
	msgInvalidSlotID = "некорректный ID слота"
	msgMissingUserID = "отсутствует ID пользователя"
	msgNotFound      = "запись в очереди не найдена"
)

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

// Handle DELETE /api/v1/waiting-list/{slotId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	slotID, err := strconv.ParseInt(vars["slotId"], 10, 64)
	if err != nil {
		h.logger.Warn("DELETE /waiting-list/{id} - Invalid slot ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSlotID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("DELETE /waiting-list/{id} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	err = h.useCase.Remove(r.Context(), &waitlist.RemoveRequest{
		StudentID: userID,
		SlotID:    slotID,
	})
	if err != nil {
		switch {
		case errors.Is(err, waitlist.ErrEntryNotFound):
			h.logger.Warn("DELETE /waiting-list/{id} - Entry not found: user_id=%d, slot_id=%d", userID, slotID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, waitlist.ErrInvalidInput):
			h.logger.Warn("DELETE /waiting-list/{id} - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidSlotID)

		default:
			h.logger.Error("DELETE /waiting-list/{id} - Failed to remove: user_id=%d, slot_id=%d, error=%v",
				userID, slotID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /waiting-list/{id} - Removed successfully: user_id=%d, slot_id=%d", userID, slotID)
	w.WriteHeader(http.StatusNoContent)
}
