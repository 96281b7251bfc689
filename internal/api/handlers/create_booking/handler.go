package create_booking

import (
	"errors"
	"net/http"

	"github.com/edspace/lesson-booking-service/internal/api/handlers"
	"github.com/edspace/lesson-booking-service/internal/api/middleware"
	createBooking "github.com/edspace/lesson-booking-service/internal/usecase/create_booking"
	"github.com/edspace/lesson-booking-service/pkg/txmanager"
)

const (
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgMissingUserID       = "отсутствует ID пользователя"
	msgSlotNotFound        = "слот не найден"
	msgSlotInactive        = "слот недоступен для бронирования"
	msgPastSlot            = "занятие уже началось"
	msgMonthlyLimit        = "у студента уже есть бронирование в этом месяце"
	msgDuplicateBooking    = "у студента уже есть бронирование этого слота"
	msgSlotFull            = "в слоте не осталось свободных мест"
	msgBranchNotFound      = "филиал не найден"
	msgTeacherNotFound     = "преподаватель не найден"
	msgServiceTypeNotFound = "тип занятия не найден"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &createBooking.Request{
		StudentID: userID,
		SlotID:    req.SlotID,
	})
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrSlotNotFound):
			h.logger.Warn("POST /bookings - Slot not found: slot_id=%d", req.SlotID)
			handlers.RespondNotFound(w, msgSlotNotFound)

		case errors.Is(err, createBooking.ErrSlotInactive):
			h.logger.Warn("POST /bookings - Slot inactive: slot_id=%d", req.SlotID)
			handlers.RespondConflict(w, msgSlotInactive)

		case errors.Is(err, createBooking.ErrPastSlot):
			h.logger.Warn("POST /bookings - Past slot: slot_id=%d", req.SlotID)
			handlers.RespondUnprocessable(w, msgPastSlot)

		case errors.Is(err, createBooking.ErrMonthlyLimit):
			h.logger.Warn("POST /bookings - Monthly limit: user_id=%d, slot_id=%d", userID, req.SlotID)
			handlers.RespondConflict(w, msgMonthlyLimit)

		case errors.Is(err, createBooking.ErrDuplicateBooking):
			h.logger.Warn("POST /bookings - Duplicate booking: user_id=%d, slot_id=%d", userID, req.SlotID)
			handlers.RespondConflict(w, msgDuplicateBooking)

		case errors.Is(err, createBooking.ErrBranchNotFound):
			h.logger.Warn("POST /bookings - Branch not found: slot_id=%d", req.SlotID)
			handlers.RespondNotFound(w, msgBranchNotFound)

		case errors.Is(err, createBooking.ErrTeacherNotFound):
			h.logger.Warn("POST /bookings - Teacher not found: slot_id=%d", req.SlotID)
			handlers.RespondNotFound(w, msgTeacherNotFound)

		case errors.Is(err, createBooking.ErrServiceTypeNotFound):
			h.logger.Warn("POST /bookings - Service type not found: slot_id=%d", req.SlotID)
			handlers.RespondNotFound(w, msgServiceTypeNotFound)

		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		case errors.Is(err, txmanager.ErrRetryExhausted):
			h.logger.Warn("POST /bookings - Serialization retries exhausted: user_id=%d, slot_id=%d", userID, req.SlotID)
			handlers.RespondServiceUnavailable(w)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: user_id=%d, slot_id=%d, error=%v",
				userID, req.SlotID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	// Слот заполнен: бронирование не создано, студенту доступна очередь
	if result.Outcome == createBooking.OutcomeSlotFull {
		h.logger.Info("POST /bookings - Slot full: user_id=%d, slot_id=%d", userID, req.SlotID)
		handlers.RespondJSON(w, http.StatusConflict, &SlotFullResponse{
			SlotID:            result.SlotID,
			Message:           msgSlotFull,
			WaitlistAvailable: result.WaitlistAvailable,
		})
		return
	}

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%d, user_id=%d, slot_id=%d",
		result.BookingID, userID, req.SlotID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
