package cancel_booking

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/edspace/lesson-booking-service/internal/api/handlers"
	"github.com/edspace/lesson-booking-service/internal/api/middleware"
	"github.com/edspace/lesson-booking-service/internal/service/policy"
	cancelBooking "github.com/edspace/lesson-booking-service/internal/usecase/cancel_booking"
	"github.com/edspace/lesson-booking-service/pkg/txmanager"
)

const (
	msgInvalidBookingID   = "некорректный ID бронирования"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgNotFound           = "бронирование не найдено"
	msgForbidden          = "доступ запрещен"
	msgNotCancellable     = "бронирование нельзя отменить"
	msgWindowViolation    = "отмена возможна не позднее чем за 24 часа до начала занятия"
)

type Handler struct {
	useCase CancelBookingUseCase
	logger  Logger
}

func NewHandler(useCase CancelBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PUT /api/v1/bookings/{bookingId}/cancel
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	bookingID, err := strconv.ParseInt(vars["bookingId"], 10, 64)
	if err != nil {
		h.logger.Warn("PUT /bookings/{id}/cancel - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PUT /bookings/{id}/cancel - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CancelBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /bookings/{id}/cancel - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &cancelBooking.Request{
		BookingID: bookingID,
		CallerID:  userID,
		Reason:    req.Reason,
	})
	if err != nil {
		var windowErr *policy.WindowViolationError

		switch {
		case errors.Is(err, cancelBooking.ErrBookingNotFound):
			h.logger.Warn("PUT /bookings/{id}/cancel - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, cancelBooking.ErrAccessDenied):
			h.logger.Warn("PUT /bookings/{id}/cancel - Access denied: booking_id=%d, user_id=%d", bookingID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, cancelBooking.ErrNotCancellable):
			h.logger.Warn("PUT /bookings/{id}/cancel - Not cancellable: booking_id=%d", bookingID)
			handlers.RespondConflict(w, msgNotCancellable)

		case errors.As(err, &windowErr):
			h.logger.Warn("PUT /bookings/{id}/cancel - Window violation: booking_id=%d, remaining=%.1fh",
				bookingID, windowErr.RemainingHours)
			handlers.RespondUnprocessable(w, fmt.Sprintf("%s (до начала %.1f ч.)", msgWindowViolation, windowErr.RemainingHours))

		case errors.Is(err, policy.ErrCancellationWindow):
			h.logger.Warn("PUT /bookings/{id}/cancel - Window violation: booking_id=%d", bookingID)
			handlers.RespondUnprocessable(w, msgWindowViolation)

		case errors.Is(err, cancelBooking.ErrInvalidInput):
			h.logger.Warn("PUT /bookings/{id}/cancel - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		case errors.Is(err, txmanager.ErrRetryExhausted):
			h.logger.Warn("PUT /bookings/{id}/cancel - Serialization retries exhausted: booking_id=%d", bookingID)
			handlers.RespondServiceUnavailable(w)

		default:
			h.logger.Error("PUT /bookings/{id}/cancel - Failed to cancel booking: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /bookings/{id}/cancel - Booking cancelled successfully: booking_id=%d, user_id=%d, promoted=%d",
		bookingID, userID, len(result.PromotedStudentIDs))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
