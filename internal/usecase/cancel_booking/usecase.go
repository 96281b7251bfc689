package cancel_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/edspace/lesson-booking-service/internal/domain"
	bookingRepo "github.com/edspace/lesson-booking-service/internal/infra/storage/booking"
	slotRepo "github.com/edspace/lesson-booking-service/internal/infra/storage/slot"
	auditClient "github.com/edspace/lesson-booking-service/internal/integrations/auditservice"
	notifyClient "github.com/edspace/lesson-booking-service/internal/integrations/notifyservice"
)

// UseCase use case для отмены бронирования
type UseCase struct {
	bookingRepo   BookingRepository
	slotRepo      SlotRepository
	policyEngine  PolicyEngine
	promoter      WaitlistPromoter
	notifySender  NotificationSender
	auditRecorder AuditRecorder
	txManager     TransactionManager
	logger        Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	slotRepo SlotRepository,
	policyEngine PolicyEngine,
	promoter WaitlistPromoter,
	notifySender NotificationSender,
	auditRecorder AuditRecorder,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:   bookingRepo,
		slotRepo:      slotRepo,
		policyEngine:  policyEngine,
		promoter:      promoter,
		notifySender:  notifySender,
		auditRecorder: auditRecorder,
		txManager:     txManager,
		logger:        logger,
	}
}

// Execute выполняет use case отмены бронирования.
// Отмена и освобождение места коммитятся в одной транзакции;
// продвижение очереди ожидания выполняется после коммита и
// не откатывает отмену при сбое.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CancelBooking: booking=%d, user=%d", req.BookingID, req.CallerID)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CancelBooking: validation failed: %v", err)
		return nil, err
	}

	var cancelled *domain.Booking
	var slotID int64

	// 2. Отмена и освобождение места в сериализуемой транзакции
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 2.1. Получаем бронирование с блокировкой (FOR UPDATE)
		booking, err := uc.bookingRepo.GetByID(txCtx, req.BookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				uc.logger.Warn("CancelBooking: booking id=%d not found", req.BookingID)
				return ErrBookingNotFound
			}
			return fmt.Errorf("%w: failed to get booking: %w", ErrInternal, err)
		}

		// 2.2. Получаем слот с блокировкой
		slot, err := uc.slotRepo.GetByID(txCtx, booking.SlotID)
		if err != nil {
			if errors.Is(err, slotRepo.ErrSlotNotFound) {
				return fmt.Errorf("%w: slot id=%d missing for booking id=%d", ErrInternal, booking.SlotID, booking.ID)
			}
			return fmt.Errorf("%w: failed to get slot: %w", ErrInternal, err)
		}

		// 2.3. Отменить может владелец или преподаватель слота
		if booking.StudentID != req.CallerID && slot.TeacherID != req.CallerID {
			uc.logger.Warn("CancelBooking: access denied for user=%d to booking id=%d", req.CallerID, req.BookingID)
			return ErrAccessDenied
		}

		// 2.4. Отменить можно только подтвержденное бронирование
		if !booking.CanBeCancelled() {
			uc.logger.Warn("CancelBooking: booking id=%d has status=%s", req.BookingID, booking.Status)
			return ErrNotCancellable
		}

		// 2.5. Окно отмены: не позднее чем за 24 часа до начала занятия
		if err := uc.policyEngine.Check(slot); err != nil {
			uc.logger.Warn("CancelBooking: policy violation for booking id=%d: %v", req.BookingID, err)
			return err
		}

		// 2.6. Отменяем бронирование и освобождаем место
		if err := uc.bookingRepo.Cancel(txCtx, booking.ID, req.Reason); err != nil {
			return fmt.Errorf("%w: failed to cancel booking: %w", ErrInternal, err)
		}

		if err := uc.slotRepo.Release(txCtx, booking.SlotID); err != nil {
			return fmt.Errorf("%w: failed to release seat: %w", ErrInternal, err)
		}

		cancelled = booking
		slotID = booking.SlotID
		return nil
	})

	if err != nil {
		return nil, err
	}

	// 3. Перечитываем отмененное бронирование для актуальных полей
	updated, err := uc.bookingRepo.GetByID(ctx, req.BookingID)
	if err != nil {
		uc.logger.Error("CancelBooking: failed to re-read booking id=%d: %v", req.BookingID, err)
		updated = cancelled
	}

	uc.logger.Info("CancelBooking: successfully cancelled booking id=%d", req.BookingID)

	// 4. Продвигаем очередь ожидания на освободившееся место
	promoted, err := uc.promoter.TryPromote(ctx, slotID)
	if err != nil {
		// Отмена уже закоммичена, продвижение догонит при следующем освобождении
		uc.logger.Error("CancelBooking: waitlist promotion failed for slot id=%d: %v", slotID, err)
	}

	promotedIDs := make([]int64, 0, len(promoted))
	for _, b := range promoted {
		promotedIDs = append(promotedIDs, b.StudentID)
	}

	// 5. Уведомление и аудит после коммита
	uc.notifySender.SendAsync(cancelled.StudentID, notifyClient.TypeBookingCancelled, map[string]interface{}{
		"booking_id": cancelled.ID,
		"slot_id":    slotID,
		"reason":     req.Reason,
	})
	uc.auditRecorder.RecordAsync(req.CallerID, auditClient.EntityBooking, cancelled.ID, auditClient.ActionCancel, map[string]interface{}{
		"status": string(domain.StatusConfirmed),
	}, map[string]interface{}{
		"status": string(domain.StatusCancelled),
		"reason": req.Reason,
	})

	resp := &Response{
		BookingID:          updated.ID,
		StudentID:          updated.StudentID,
		SlotID:             updated.SlotID,
		Status:             string(updated.Status),
		CancellationReason: req.Reason,
		PromotedStudentIDs: promotedIDs,
	}
	if updated.CancelledAt != nil {
		resp.CancelledAt = *updated.CancelledAt
	}

	return resp, nil
}
