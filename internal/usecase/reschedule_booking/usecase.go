package reschedule_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/edspace/lesson-booking-service/internal/domain"
	bookingRepo "github.com/edspace/lesson-booking-service/internal/infra/storage/booking"
	slotRepo "github.com/edspace/lesson-booking-service/internal/infra/storage/slot"
	auditClient "github.com/edspace/lesson-booking-service/internal/integrations/auditservice"
	catalogClient "github.com/edspace/lesson-booking-service/internal/integrations/catalogservice"
	notifyClient "github.com/edspace/lesson-booking-service/internal/integrations/notifyservice"
	"github.com/edspace/lesson-booking-service/internal/service/monthlyguard"
)

// UseCase use case для переноса бронирования в другой слот
type UseCase struct {
	bookingRepo   BookingRepository
	slotRepo      SlotRepository
	monthlyGuard  MonthlyGuard
	catalogClient CatalogServiceClient
	policyEngine  PolicyEngine
	promoter      WaitlistPromoter
	notifySender  NotificationSender
	auditRecorder AuditRecorder
	txManager     TransactionManager
	timeProvider  TimeProvider
	logger        Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	slotRepo SlotRepository,
	monthlyGuard MonthlyGuard,
	catalogClient CatalogServiceClient,
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
		monthlyGuard:  monthlyGuard,
		catalogClient: catalogClient,
		policyEngine:  policyEngine,
		promoter:      promoter,
		notifySender:  notifySender,
		auditRecorder: auditRecorder,
		txManager:     txManager,
		timeProvider:  &RealTimeProvider{},
		logger:        logger,
	}
}

// Execute выполняет use case переноса бронирования.
// Резерв места в новом слоте, освобождение старого и отмена
// старого бронирования выполняются в одной сериализуемой
// транзакции - перенос либо завершается целиком, либо не
// меняет ничего.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("RescheduleBooking: booking=%d, user=%d, newSlot=%d", req.BookingID, req.CallerID, req.NewSlotID)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("RescheduleBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем новый слот без блокировки для предварительных
	// проверок каталога
	newSlotPreview, err := uc.slotRepo.GetByID(ctx, req.NewSlotID)
	if err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			uc.logger.Warn("RescheduleBooking: new slot id=%d not found", req.NewSlotID)
			return nil, ErrSlotNotFound
		}
		return nil, fmt.Errorf("%w: failed to get new slot: %w", ErrInternal, err)
	}

	// 3. Проверяем справочники каталога до открытия транзакции -
	// внешние HTTP-вызовы внутри сериализуемой транзакции недопустимы
	if err := uc.checkCatalogReferences(ctx, newSlotPreview); err != nil {
		return nil, err
	}

	var newBooking *domain.Booking
	var oldBooking *domain.Booking
	var oldSlotID int64

	// 4. Перенос в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 4.1. Получаем бронирование с блокировкой (FOR UPDATE)
		booking, err := uc.bookingRepo.GetByID(txCtx, req.BookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				uc.logger.Warn("RescheduleBooking: booking id=%d not found", req.BookingID)
				return ErrBookingNotFound
			}
			return fmt.Errorf("%w: failed to get booking: %w", ErrInternal, err)
		}

		if booking.SlotID == req.NewSlotID {
			return ErrSameSlot
		}

		// 4.2. Получаем старый слот с блокировкой
		oldSlot, err := uc.slotRepo.GetByID(txCtx, booking.SlotID)
		if err != nil {
			if errors.Is(err, slotRepo.ErrSlotNotFound) {
				return fmt.Errorf("%w: slot id=%d missing for booking id=%d", ErrInternal, booking.SlotID, booking.ID)
			}
			return fmt.Errorf("%w: failed to get old slot: %w", ErrInternal, err)
		}

		// 4.3. Перенести может владелец или преподаватель слота
		if booking.StudentID != req.CallerID && oldSlot.TeacherID != req.CallerID {
			uc.logger.Warn("RescheduleBooking: access denied for user=%d to booking id=%d", req.CallerID, req.BookingID)
			return ErrAccessDenied
		}

		// 4.4. Перенести можно только подтвержденное бронирование
		if !booking.CanBeRescheduled() {
			uc.logger.Warn("RescheduleBooking: booking id=%d has status=%s", req.BookingID, booking.Status)
			return ErrNotReschedulable
		}

		// 4.5. Окно отмены действует и на старый слот переноса
		if err := uc.policyEngine.Check(oldSlot); err != nil {
			uc.logger.Warn("RescheduleBooking: policy violation for booking id=%d: %v", req.BookingID, err)
			return err
		}

		// 4.6. Получаем новый слот с блокировкой
		newSlot, err := uc.slotRepo.GetByID(txCtx, req.NewSlotID)
		if err != nil {
			if errors.Is(err, slotRepo.ErrSlotNotFound) {
				uc.logger.Warn("RescheduleBooking: new slot id=%d not found", req.NewSlotID)
				return ErrSlotNotFound
			}
			return fmt.Errorf("%w: failed to get new slot: %w", ErrInternal, err)
		}

		if !newSlot.IsActive {
			return ErrSlotNotFound
		}

		if newSlot.IsInPast(uc.timeProvider.Now()) {
			return ErrPastSlot
		}

		// 4.7. Месячный лимит без учета переносимого бронирования
		if err := uc.monthlyGuard.Check(txCtx, booking.StudentID, newSlot.SlotDate, &booking.ID); err != nil {
			if errors.Is(err, monthlyguard.ErrMonthlyLimit) {
				uc.logger.Warn("RescheduleBooking: student=%d already booked in month of %s",
					booking.StudentID, newSlot.SlotDate.Format(domain.DateFormat))
				return ErrMonthlyLimit
			}
			return fmt.Errorf("%w: monthly limit check failed: %w", ErrInternal, err)
		}

		// 4.8. Резервируем место в новом слоте
		if err := uc.slotRepo.TryReserve(txCtx, req.NewSlotID); err != nil {
			if errors.Is(err, slotRepo.ErrSlotFull) {
				uc.logger.Warn("RescheduleBooking: new slot id=%d is full", req.NewSlotID)
				return ErrSlotFull
			}
			if errors.Is(err, slotRepo.ErrSlotNotFound) || errors.Is(err, slotRepo.ErrSlotInactive) {
				return ErrSlotNotFound
			}
			return fmt.Errorf("%w: failed to reserve seat: %w", ErrInternal, err)
		}

		// 4.9. Освобождаем место в старом слоте и отменяем старое бронирование
		if err := uc.slotRepo.Release(txCtx, booking.SlotID); err != nil {
			return fmt.Errorf("%w: failed to release old seat: %w", ErrInternal, err)
		}

		if err := uc.bookingRepo.Cancel(txCtx, booking.ID, req.Reason); err != nil {
			return fmt.Errorf("%w: failed to cancel old booking: %w", ErrInternal, err)
		}

		// 4.10. Создаем новое бронирование
		created, err := uc.bookingRepo.Create(txCtx, &domain.Booking{
			StudentID: booking.StudentID,
			SlotID:    req.NewSlotID,
			Status:    domain.StatusConfirmed,
		})
		if err != nil {
			if errors.Is(err, bookingRepo.ErrDuplicateBooking) {
				return ErrDuplicateBooking
			}
			return fmt.Errorf("%w: failed to create new booking: %w", ErrInternal, err)
		}

		oldBooking = booking
		oldSlotID = booking.SlotID
		newBooking = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("RescheduleBooking: moved booking id=%d to new booking id=%d, slot=%d",
		oldBooking.ID, newBooking.ID, newBooking.SlotID)

	// 5. Продвигаем очередь ожидания на место в старом слоте
	promoted, err := uc.promoter.TryPromote(ctx, oldSlotID)
	if err != nil {
		uc.logger.Error("RescheduleBooking: waitlist promotion failed for slot id=%d: %v", oldSlotID, err)
	}

	promotedIDs := make([]int64, 0, len(promoted))
	for _, b := range promoted {
		promotedIDs = append(promotedIDs, b.StudentID)
	}

	// 6. Уведомление и аудит после коммита
	uc.notifySender.SendAsync(newBooking.StudentID, notifyClient.TypeBookingRescheduled, map[string]interface{}{
		"booking_id":  newBooking.ID,
		"old_slot_id": oldSlotID,
		"new_slot_id": newBooking.SlotID,
		"reason":      req.Reason,
	})
	uc.auditRecorder.RecordAsync(req.CallerID, auditClient.EntityBooking, newBooking.ID, auditClient.ActionReschedule, map[string]interface{}{
		"booking_id": oldBooking.ID,
		"slot_id":    oldSlotID,
	}, map[string]interface{}{
		"booking_id": newBooking.ID,
		"slot_id":    newBooking.SlotID,
		"reason":     req.Reason,
	})

	return &Response{
		BookingID:          newBooking.ID,
		OldBookingID:       oldBooking.ID,
		StudentID:          newBooking.StudentID,
		OldSlotID:          oldSlotID,
		NewSlotID:          newBooking.SlotID,
		Status:             string(newBooking.Status),
		CreatedAt:          newBooking.CreatedAt,
		PromotedStudentIDs: promotedIDs,
	}, nil
}

// checkCatalogReferences проверяет активность филиала, преподавателя
// и типа занятия нового слота
func (uc *UseCase) checkCatalogReferences(ctx context.Context, slot *domain.Slot) error {
	branch, err := uc.catalogClient.GetBranch(ctx, slot.BranchID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrBranchNotFound) {
			uc.logger.Warn("RescheduleBooking: branch id=%d not found", slot.BranchID)
			return ErrBranchNotFound
		}
		uc.logger.Error("RescheduleBooking: failed to get branch id=%d: %v", slot.BranchID, err)
		return fmt.Errorf("%w: failed to get branch: %w", ErrInternal, err)
	}
	if !branch.IsActive {
		uc.logger.Warn("RescheduleBooking: branch id=%d is inactive", slot.BranchID)
		return ErrBranchNotFound
	}

	teacher, err := uc.catalogClient.GetTeacher(ctx, slot.TeacherID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrTeacherNotFound) {
			uc.logger.Warn("RescheduleBooking: teacher id=%d not found", slot.TeacherID)
			return ErrTeacherNotFound
		}
		uc.logger.Error("RescheduleBooking: failed to get teacher id=%d: %v", slot.TeacherID, err)
		return fmt.Errorf("%w: failed to get teacher: %w", ErrInternal, err)
	}
	if !teacher.IsActive {
		uc.logger.Warn("RescheduleBooking: teacher id=%d is inactive", slot.TeacherID)
		return ErrTeacherNotFound
	}

	if slot.ServiceTypeID != nil {
		serviceType, err := uc.catalogClient.GetServiceType(ctx, *slot.ServiceTypeID)
		if err != nil {
			if errors.Is(err, catalogClient.ErrServiceTypeNotFound) {
				uc.logger.Warn("RescheduleBooking: service type id=%d not found", *slot.ServiceTypeID)
				return ErrServiceTypeNotFound
			}
			uc.logger.Error("RescheduleBooking: failed to get service type id=%d: %v", *slot.ServiceTypeID, err)
			return fmt.Errorf("%w: failed to get service type: %w", ErrInternal, err)
		}
		if !serviceType.IsActive {
			uc.logger.Warn("RescheduleBooking: service type id=%d is inactive", *slot.ServiceTypeID)
			return ErrServiceTypeNotFound
		}
	}

	return nil
}
