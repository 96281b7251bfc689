package mark_attendance

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/edspace/lesson-booking-service/internal/api/handlers"
	"github.com/edspace/lesson-booking-service/internal/api/middleware"
	markAttendance "github.com/edspace/lesson-booking-service/internal/usecase/mark_attendance"
)

const (
	msgInvalidBookingID   = "некорректный ID бронирования"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgNotFound           = "бронирование не найдено"
	msgForbidden          = "доступ запрещен"
	msgNotConfirmed       = "бронирование не подтверждено"
	msgSlotNotStarted     = "занятие еще не началось"
)

// MarkAttendanceRequest HTTP request model
type MarkAttendanceRequest struct {
	Attended bool `json:"attended"`
}

// MarkAttendanceResponse HTTP response model
type MarkAttendanceResponse struct {
	ID        int64  `json:"id"`
	StudentID int64  `json:"studentId"`
	SlotID    int64  `json:"slotId"`
	Status    string `json:"status"`
}

type Handler struct {
	useCase MarkAttendanceUseCase
	logger  Logger
}

func NewHandler(useCase MarkAttendanceUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PUT /api/v1/bookings/{bookingId}/attendance
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	bookingID, err := strconv.ParseInt(vars["bookingId"], 10, 64)
	if err != nil {
		h.logger.Warn("PUT /bookings/{id}/attendance - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PUT /bookings/{id}/attendance - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req MarkAttendanceRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /bookings/{id}/attendance - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &markAttendance.Request{
		BookingID: bookingID,
		TeacherID: userID,
		Attended:  req.Attended,
	})
	if err != nil {
		switch {
		case errors.Is(err, markAttendance.ErrBookingNotFound):
			h.logger.Warn("PUT /bookings/{id}/attendance - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, markAttendance.ErrAccessDenied):
			h.logger.Warn("PUT /bookings/{id}/attendance - Access denied: booking_id=%d, user_id=%d", bookingID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, markAttendance.ErrNotConfirmed):
			h.logger.Warn("PUT /bookings/{id}/attendance - Not confirmed: booking_id=%d", bookingID)
			handlers.RespondConflict(w, msgNotConfirmed)

		case errors.Is(err, markAttendance.ErrSlotNotStarted):
			h.logger.Warn("PUT /bookings/{id}/attendance - Slot not started: booking_id=%d", bookingID)
			handlers.RespondUnprocessable(w, msgSlotNotStarted)

		case errors.Is(err, markAttendance.ErrInvalidInput):
			h.logger.Warn("PUT /bookings/{id}/attendance - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("PUT /bookings/{id}/attendance - Failed to mark attendance: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /bookings/{id}/attendance - Attendance marked: booking_id=%d, status=%s", bookingID, result.Status)
	handlers.RespondJSON(w, http.StatusOK, &MarkAttendanceResponse{
		ID:        result.BookingID,
		StudentID: result.StudentID,
		SlotID:    result.SlotID,
		Status:    result.Status,
	})
}
