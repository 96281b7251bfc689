package reschedule_booking

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/edspace/lesson-booking-service/internal/api/handlers"
	"github.com/edspace/lesson-booking-service/internal/api/middleware"
	"github.com/edspace/lesson-booking-service/internal/service/policy"
	rescheduleBooking "github.com/edspace/lesson-booking-service/internal/usecase/reschedule_booking"
	"github.com/edspace/lesson-booking-service/pkg/txmanager"
)

const (
	msgInvalidBookingID   = "некорректный ID бронирования"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgNotFound           = "бронирование не найдено"
	msgSlotNotFound       = "новый слот не найден"
	msgForbidden          = "доступ запрещен"
	msgNotReschedulable   = "бронирование нельзя перенести"
	msgPastSlot           = "новый слот уже начался"
	msgSameSlot           = "новый слот совпадает с текущим"
	msgSlotFull           = "в новом слоте не осталось свободных мест"
	msgBranchNotFound     = "филиал нового слота не найден или неактивен"
	msgTeacherNotFound    = "преподаватель нового слота не найден или неактивен"
	msgServiceNotFound    = "тип занятия нового слота не найден или неактивен"
	msgMonthlyLimit       = "у студента уже есть бронирование в целевом месяце"
	msgDuplicateBooking   = "у студента уже есть бронирование нового слота"
	msgWindowViolation    = "перенос возможен не позднее чем за 24 часа до начала занятия"
)

type Handler struct {
	useCase RescheduleBookingUseCase
	logger  Logger
}

func NewHandler(useCase RescheduleBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PUT /api/v1/bookings/{bookingId}/reschedule
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	bookingID, err := strconv.ParseInt(vars["bookingId"], 10, 64)
	if err != nil {
		h.logger.Warn("PUT /bookings/{id}/reschedule - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PUT /bookings/{id}/reschedule - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req RescheduleBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /bookings/{id}/reschedule - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &rescheduleBooking.Request{
		BookingID: bookingID,
		CallerID:  userID,
		NewSlotID: req.NewSlotID,
		Reason:    req.Reason,
	})
	if err != nil {
		var windowErr *policy.WindowViolationError

		switch {
		case errors.Is(err, rescheduleBooking.ErrBookingNotFound):
			h.logger.Warn("PUT /bookings/{id}/reschedule - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, rescheduleBooking.ErrSlotNotFound):
			h.logger.Warn("PUT /bookings/{id}/reschedule - New slot not found: slot_id=%d", req.NewSlotID)
			handlers.RespondNotFound(w, msgSlotNotFound)

		case errors.Is(err, rescheduleBooking.ErrAccessDenied):
			h.logger.Warn("PUT /bookings/{id}/reschedule - Access denied: booking_id=%d, user_id=%d", bookingID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, rescheduleBooking.ErrNotReschedulable):
			h.logger.Warn("PUT /bookings/{id}/reschedule - Not reschedulable: booking_id=%d", bookingID)
			handlers.RespondConflict(w, msgNotReschedulable)

		case errors.Is(err, rescheduleBooking.ErrPastSlot):
			h.logger.Warn("PUT /bookings/{id}/reschedule - Past slot: slot_id=%d", req.NewSlotID)
			handlers.RespondUnprocessable(w, msgPastSlot)

		case errors.Is(err, rescheduleBooking.ErrSameSlot):
			h.logger.Warn("PUT /bookings/{id}/reschedule - Same slot: booking_id=%d, slot_id=%d", bookingID, req.NewSlotID)
			handlers.RespondBadRequest(w, msgSameSlot)

		case errors.Is(err, rescheduleBooking.ErrSlotFull):
			h.logger.Warn("PUT /bookings/{id}/reschedule - New slot full: slot_id=%d", req.NewSlotID)
			handlers.RespondConflict(w, msgSlotFull)

		case errors.Is(err, rescheduleBooking.ErrMonthlyLimit):
			h.logger.Warn("PUT /bookings/{id}/reschedule - Monthly limit: booking_id=%d", bookingID)
			handlers.RespondConflict(w, msgMonthlyLimit)

		case errors.Is(err, rescheduleBooking.ErrBranchNotFound):
			h.logger.Warn("PUT /bookings/{id}/reschedule - Branch not found: slot_id=%d", req.NewSlotID)
			handlers.RespondNotFound(w, msgBranchNotFound)

		case errors.Is(err, rescheduleBooking.ErrTeacherNotFound):
			h.logger.Warn("PUT /bookings/{id}/reschedule - Teacher not found: slot_id=%d", req.NewSlotID)
			handlers.RespondNotFound(w, msgTeacherNotFound)

		case errors.Is(err, rescheduleBooking.ErrServiceTypeNotFound):
			h.logger.Warn("PUT /bookings/{id}/reschedule - Service type not found: slot_id=%d", req.NewSlotID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, rescheduleBooking.ErrDuplicateBooking):
			h.logger.Warn("PUT /bookings/{id}/reschedule - Duplicate booking: booking_id=%d, slot_id=%d", bookingID, req.NewSlotID)
			handlers.RespondConflict(w, msgDuplicateBooking)

		case errors.As(err, &windowErr):
			h.logger.Warn("PUT /bookings/{id}/reschedule - Window violation: booking_id=%d, remaining=%.1fh",
				bookingID, windowErr.RemainingHours)
			handlers.RespondUnprocessable(w, fmt.Sprintf("%s (до начала %.1f ч.)", msgWindowViolation, windowErr.RemainingHours))

		case errors.Is(err, policy.ErrCancellationWindow):
			h.logger.Warn("PUT /bookings/{id}/reschedule - Window violation: booking_id=%d", bookingID)
			handlers.RespondUnprocessable(w, msgWindowViolation)

		case errors.Is(err, rescheduleBooking.ErrInvalidInput):
			h.logger.Warn("PUT /bookings/{id}/reschedule - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		case errors.Is(err, txmanager.ErrRetryExhausted):
			h.logger.Warn("PUT /bookings/{id}/reschedule - Serialization retries exhausted: booking_id=%d", bookingID)
			handlers.RespondServiceUnavailable(w)

		default:
			h.logger.Error("PUT /bookings/{id}/reschedule - Failed to reschedule: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /bookings/{id}/reschedule - Booking rescheduled: old_booking_id=%d, new_booking_id=%d, user_id=%d",
		result.OldBookingID, result.BookingID, userID)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
