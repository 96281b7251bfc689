package mark_attendance

import (
	"context"
	"errors"
	"fmt"

	"github.com/edspace/lesson-booking-service/internal/domain"
	bookingRepo "github.com/edspace/lesson-booking-service/internal/infra/storage/booking"
	slotRepo "github.com/edspace/lesson-booking-service/internal/infra/storage/slot"
	auditClient "github.com/edspace/lesson-booking-service/internal/integrations/auditservice"
)

// UseCase use case для отметки посещения занятия.
// Неявка не освобождает место - штраф вместимости сохраняется.
type UseCase struct {
	bookingRepo   BookingRepository
	slotRepo      SlotRepository
	auditRecorder AuditRecorder
	txManager     TransactionManager
	timeProvider  TimeProvider
	logger        Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	slotRepo SlotRepository,
	auditRecorder AuditRecorder,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:   bookingRepo,
		slotRepo:      slotRepo,
		auditRecorder: auditRecorder,
		txManager:     txManager,
		timeProvider:  &RealTimeProvider{},
		logger:        logger,
	}
}

// Execute выполняет use case отметки посещения
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("MarkAttendance: booking=%d, teacher=%d, attended=%t", req.BookingID, req.TeacherID, req.Attended)

	if req.BookingID <= 0 || req.TeacherID <= 0 {
		uc.logger.Warn("MarkAttendance: invalid request")
		return nil, fmt.Errorf("%w: bookingID and teacherID must be positive", ErrInvalidInput)
	}

	targetStatus := domain.StatusCompleted
	if !req.Attended {
		targetStatus = domain.StatusNoShow
	}

	var result *domain.Booking

	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		// Получаем бронирование с блокировкой (FOR UPDATE)
		booking, err := uc.bookingRepo.GetByID(txCtx, req.BookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				uc.logger.Warn("MarkAttendance: booking id=%d not found", req.BookingID)
				return ErrBookingNotFound
			}
			return fmt.Errorf("%w: failed to get booking: %w", ErrInternal, err)
		}

		slot, err := uc.slotRepo.GetByID(txCtx, booking.SlotID)
		if err != nil {
			if errors.Is(err, slotRepo.ErrSlotNotFound) {
				return fmt.Errorf("%w: slot id=%d missing for booking id=%d", ErrInternal, booking.SlotID, booking.ID)
			}
			return fmt.Errorf("%w: failed to get slot: %w", ErrInternal, err)
		}

		// Отметку ставит только преподаватель слота
		if slot.TeacherID != req.TeacherID {
			uc.logger.Warn("MarkAttendance: teacher=%d is not the teacher of slot=%d", req.TeacherID, slot.ID)
			return ErrAccessDenied
		}

		// Отметить можно только подтвержденное бронирование
		if booking.Status != domain.StatusConfirmed {
			uc.logger.Warn("MarkAttendance: booking id=%d has status=%s", req.BookingID, booking.Status)
			return ErrNotConfirmed
		}

		// Посещение отмечается после начала занятия
		if !slot.IsInPast(uc.timeProvider.Now()) {
			uc.logger.Warn("MarkAttendance: slot id=%d has not started yet", slot.ID)
			return ErrSlotNotStarted
		}

		if err := uc.bookingRepo.UpdateStatus(txCtx, booking.ID, targetStatus); err != nil {
			return fmt.Errorf("%w: failed to update status: %w", ErrInternal, err)
		}

		result = booking
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("MarkAttendance: booking id=%d marked as %s", result.ID, targetStatus)

	action := auditClient.ActionComplete
	if targetStatus == domain.StatusNoShow {
		action = auditClient.ActionNoShow
	}
	uc.auditRecorder.RecordAsync(req.TeacherID, auditClient.EntityBooking, result.ID, action, map[string]interface{}{
		"status": string(domain.StatusConfirmed),
	}, map[string]interface{}{
		"status": string(targetStatus),
	})

	return &Response{
		BookingID: result.ID,
		StudentID: result.StudentID,
		SlotID:    result.SlotID,
		Status:    string(targetStatus),
	}, nil
}
