package waitlist

import (
	"context"
	"errors"
	"fmt"

	"github.com/edspace/lesson-booking-service/internal/domain"
	bookingRepo "github.com/edspace/lesson-booking-service/internal/infra/storage/booking"
	slotRepo "github.com/edspace/lesson-booking-service/internal/infra/storage/slot"
	waitlistRepo "github.com/edspace/lesson-booking-service/internal/infra/storage/waitlist"
	auditClient "github.com/edspace/lesson-booking-service/internal/integrations/auditservice"
	catalogClient "github.com/edspace/lesson-booking-service/internal/integrations/catalogservice"
	notifyClient "github.com/edspace/lesson-booking-service/internal/integrations/notifyservice"
	"github.com/edspace/lesson-booking-service/internal/service/monthlyguard"
)

// UseCase операции очереди ожидания: постановка, выход,
// принудительная конвертация, автопродвижение и чистка
// просроченных записей
type UseCase struct {
	waitlistRepo  WaitlistRepository
	slotRepo      SlotRepository
	bookingRepo   BookingRepository
	monthlyGuard  MonthlyGuard
	catalogClient CatalogServiceClient
	notifySender  NotificationSender
	auditRecorder AuditRecorder
	txManager     TransactionManager
	timeProvider  TimeProvider
	logger        Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	waitlistRepo WaitlistRepository,
	slotRepo SlotRepository,
	bookingRepo BookingRepository,
	monthlyGuard MonthlyGuard,
	catalogClient CatalogServiceClient,
	notifySender NotificationSender,
	auditRecorder AuditRecorder,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		waitlistRepo:  waitlistRepo,
		slotRepo:      slotRepo,
		bookingRepo:   bookingRepo,
		monthlyGuard:  monthlyGuard,
		catalogClient: catalogClient,
		notifySender:  notifySender,
		auditRecorder: auditRecorder,
		txManager:     txManager,
		timeProvider:  &RealTimeProvider{},
		logger:        logger,
	}
}

// Enqueue ставит студента в очередь ожидания заполненного слота
func (uc *UseCase) Enqueue(ctx context.Context, req *EnqueueRequest) (*EnqueueResponse, error) {
	uc.logger.Info("WaitlistEnqueue: student=%d, slot=%d, priority=%d", req.StudentID, req.SlotID, req.Priority)

	if err := validateEnqueueRequest(req); err != nil {
		uc.logger.Warn("WaitlistEnqueue: validation failed: %v", err)
		return nil, err
	}

	slot, err := uc.getBookableSlot(ctx, req.SlotID)
	if err != nil {
		return nil, err
	}

	// В очередь можно встать только к заполненному слоту
	if !slot.IsFull() {
		uc.logger.Warn("WaitlistEnqueue: slot id=%d has %d free seats", req.SlotID, slot.AvailableSeats())
		return nil, ErrSlotNotFull
	}

	now := uc.timeProvider.Now()
	entry := &domain.WaitingListEntry{
		StudentID: req.StudentID,
		SlotID:    req.SlotID,
		Priority:  req.Priority,
		ExpiresAt: now.Add(domain.WaitlistEntryTTL),
	}

	created, err := uc.waitlistRepo.Create(ctx, entry)
	if err != nil {
		if errors.Is(err, waitlistRepo.ErrDuplicateEntry) {
			uc.logger.Warn("WaitlistEnqueue: student=%d already queued for slot=%d", req.StudentID, req.SlotID)
			return nil, ErrAlreadyQueued
		}
		uc.logger.Error("WaitlistEnqueue: failed to create entry: %v", err)
		return nil, fmt.Errorf("%w: failed to create entry: %w", ErrInternal, err)
	}

	uc.logger.Info("WaitlistEnqueue: created entry id=%d for student=%d, slot=%d", created.ID, created.StudentID, created.SlotID)

	uc.notifySender.SendAsync(req.StudentID, notifyClient.TypeWaitlistEnqueued, map[string]interface{}{
		"slot_id":  req.SlotID,
		"priority": req.Priority,
	})
	uc.auditRecorder.RecordAsync(req.StudentID, auditClient.EntityWaitlist, created.ID, auditClient.ActionEnqueue, nil, map[string]interface{}{
		"slot_id":  created.SlotID,
		"priority": created.Priority,
	})

	return &EnqueueResponse{
		EntryID:   created.ID,
		StudentID: created.StudentID,
		SlotID:    created.SlotID,
		Priority:  created.Priority,
		CreatedAt: created.CreatedAt,
		ExpiresAt: created.ExpiresAt,
	}, nil
}

// Remove убирает студента из очереди ожидания слота
func (uc *UseCase) Remove(ctx context.Context, req *RemoveRequest) error {
	uc.logger.Info("WaitlistRemove: student=%d, slot=%d", req.StudentID, req.SlotID)

	if req.StudentID <= 0 || req.SlotID <= 0 {
		return fmt.Errorf("%w: studentID and slotID must be positive", ErrInvalidInput)
	}

	entryID, err := uc.waitlistRepo.DeleteBySlotAndStudent(ctx, req.SlotID, req.StudentID)
	if err != nil {
		if errors.Is(err, waitlistRepo.ErrEntryNotFound) {
			uc.logger.Warn("WaitlistRemove: no entry for student=%d, slot=%d", req.StudentID, req.SlotID)
			return ErrEntryNotFound
		}
		uc.logger.Error("WaitlistRemove: failed to delete entry: %v", err)
		return fmt.Errorf("%w: failed to delete entry: %w", ErrInternal, err)
	}

	uc.logger.Info("WaitlistRemove: removed entry id=%d", entryID)

	uc.auditRecorder.RecordAsync(req.StudentID, auditClient.EntityWaitlist, entryID, auditClient.ActionRemove, map[string]interface{}{
		"slot_id": req.SlotID,
	}, nil)

	return nil
}

// ConvertToBooking принудительно конвертирует запись очереди
// в бронирование. Доступно сотрудникам филиала слота, правила
// месячного лимита и вместимости сохраняются.
func (uc *UseCase) ConvertToBooking(ctx context.Context, req *ConvertRequest) (*ConvertResponse, error) {
	uc.logger.Info("WaitlistConvert: caller=%d, student=%d, slot=%d", req.CallerID, req.StudentID, req.SlotID)

	if err := validateConvertRequest(req); err != nil {
		uc.logger.Warn("WaitlistConvert: validation failed: %v", err)
		return nil, err
	}

	// Проверяем каталог и права до транзакции: внешние вызовы
	slot, err := uc.getBookableSlot(ctx, req.SlotID)
	if err != nil {
		return nil, err
	}

	if err := uc.checkSlotCatalog(ctx, slot); err != nil {
		return nil, err
	}

	if err := uc.checkBranchStaff(ctx, slot.BranchID, req.CallerID); err != nil {
		uc.logger.Warn("WaitlistConvert: access denied for user=%d to branch=%d", req.CallerID, slot.BranchID)
		return nil, err
	}

	var result *domain.Booking

	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		lockedSlot, err := uc.slotRepo.GetByID(txCtx, req.SlotID)
		if err != nil {
			if errors.Is(err, slotRepo.ErrSlotNotFound) {
				return ErrSlotNotFound
			}
			return fmt.Errorf("%w: failed to lock slot: %w", ErrInternal, err)
		}
		if !lockedSlot.IsActive {
			return ErrSlotNotFound
		}

		entry, err := uc.waitlistRepo.FindBySlotAndStudent(txCtx, req.SlotID, req.StudentID)
		if err != nil {
			if errors.Is(err, waitlistRepo.ErrEntryNotFound) {
				return ErrEntryNotFound
			}
			return fmt.Errorf("%w: failed to find entry: %w", ErrInternal, err)
		}

		if err := uc.monthlyGuard.Check(txCtx, req.StudentID, lockedSlot.SlotDate, nil); err != nil {
			if errors.Is(err, monthlyguard.ErrMonthlyLimit) {
				return ErrMonthlyLimit
			}
			return fmt.Errorf("%w: monthly limit check failed: %w", ErrInternal, err)
		}

		if err := uc.slotRepo.TryReserve(txCtx, req.SlotID); err != nil {
			if errors.Is(err, slotRepo.ErrSlotFull) {
				return ErrSlotFull
			}
			if errors.Is(err, slotRepo.ErrSlotNotFound) || errors.Is(err, slotRepo.ErrSlotInactive) {
				return ErrSlotNotFound
			}
			return fmt.Errorf("%w: failed to reserve seat: %w", ErrInternal, err)
		}

		booking := &domain.Booking{
			StudentID: req.StudentID,
			SlotID:    req.SlotID,
			Status:    domain.StatusConfirmed,
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrDuplicateBooking) {
				return ErrDuplicateBooking
			}
			return fmt.Errorf("%w: failed to create booking: %w", ErrInternal, err)
		}

		if err := uc.waitlistRepo.Delete(txCtx, entry.ID); err != nil {
			return fmt.Errorf("%w: failed to delete entry: %w", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("WaitlistConvert: created booking id=%d for student=%d", result.ID, result.StudentID)

	uc.notifySender.SendAsync(req.StudentID, notifyClient.TypeWaitlistPromoted, map[string]interface{}{
		"booking_id": result.ID,
		"slot_id":    result.SlotID,
	})
	uc.auditRecorder.RecordAsync(req.CallerID, auditClient.EntityWaitlist, result.ID, auditClient.ActionPromote, nil, map[string]interface{}{
		"booking_id": result.ID,
		"slot_id":    result.SlotID,
		"student_id": result.StudentID,
	})

	return &ConvertResponse{
		BookingID: result.ID,
		StudentID: result.StudentID,
		SlotID:    result.SlotID,
		Status:    string(result.Status),
		CreatedAt: result.CreatedAt,
	}, nil
}

// TryPromote продвигает очередь ожидания слота на освободившиеся
// места. Кандидаты обрабатываются по убыванию приоритета, при
// равном приоритете - в порядке постановки. Устаревшие записи
// удаляются: и когда место студенту больше не нужно, и когда
// продвижение нарушило бы месячный лимит.
func (uc *UseCase) TryPromote(ctx context.Context, slotID int64) ([]*domain.Booking, error) {
	// Проверяем каталог до транзакции: внешние HTTP-вызовы
	// внутри сериализуемой транзакции недопустимы
	preview, err := uc.slotRepo.GetByID(ctx, slotID)
	if err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			return nil, ErrSlotNotFound
		}
		return nil, fmt.Errorf("%w: failed to get slot: %w", ErrInternal, err)
	}

	if !preview.IsActive || preview.IsInPast(uc.timeProvider.Now()) || preview.IsFull() {
		return nil, nil
	}

	if err := uc.checkSlotCatalog(ctx, preview); err != nil {
		if errors.Is(err, ErrBranchNotFound) || errors.Is(err, ErrServiceTypeNotFound) {
			uc.logger.Warn("TryPromote: slot id=%d references a deactivated catalog resource", slotID)
			return nil, nil
		}
		return nil, err
	}

	var promoted []*domain.Booking

	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		promoted = nil

		slot, err := uc.slotRepo.GetByID(txCtx, slotID)
		if err != nil {
			if errors.Is(err, slotRepo.ErrSlotNotFound) {
				return ErrSlotNotFound
			}
			return fmt.Errorf("%w: failed to lock slot: %w", ErrInternal, err)
		}

		now := uc.timeProvider.Now()
		if !slot.IsActive || slot.IsInPast(now) || slot.IsFull() {
			return nil
		}

		entries, err := uc.waitlistRepo.GetActiveBySlot(txCtx, slotID, now)
		if err != nil {
			return fmt.Errorf("%w: failed to get entries: %w", ErrInternal, err)
		}

		for _, entry := range entries {
			if err := uc.monthlyGuard.Check(txCtx, entry.StudentID, slot.SlotDate, nil); err != nil {
				if errors.Is(err, monthlyguard.ErrMonthlyLimit) {
					// Студент уже занят в этом месяце, запись устарела
					uc.logger.Info("TryPromote: removing student=%d from queue, monthly limit reached", entry.StudentID)
					if err := uc.waitlistRepo.Delete(txCtx, entry.ID); err != nil {
						return fmt.Errorf("%w: failed to delete stale entry: %w", ErrInternal, err)
					}
					continue
				}
				return fmt.Errorf("%w: monthly limit check failed: %w", ErrInternal, err)
			}

			if err := uc.slotRepo.TryReserve(txCtx, slotID); err != nil {
				if errors.Is(err, slotRepo.ErrSlotFull) {
					return nil
				}
				return fmt.Errorf("%w: failed to reserve seat: %w", ErrInternal, err)
			}

			booking := &domain.Booking{
				StudentID: entry.StudentID,
				SlotID:    slotID,
				Status:    domain.StatusConfirmed,
			}

			created, err := uc.bookingRepo.Create(txCtx, booking)
			if err != nil {
				if errors.Is(err, bookingRepo.ErrDuplicateBooking) {
					// Место уже есть, запись в очереди устарела
					if err := uc.slotRepo.Release(txCtx, slotID); err != nil {
						return fmt.Errorf("%w: failed to release seat: %w", ErrInternal, err)
					}
					if err := uc.waitlistRepo.Delete(txCtx, entry.ID); err != nil {
						return fmt.Errorf("%w: failed to delete stale entry: %w", ErrInternal, err)
					}
					continue
				}
				return fmt.Errorf("%w: failed to create booking: %w", ErrInternal, err)
			}

			if err := uc.waitlistRepo.Delete(txCtx, entry.ID); err != nil {
				return fmt.Errorf("%w: failed to delete entry: %w", ErrInternal, err)
			}

			promoted = append(promoted, created)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	for _, booking := range promoted {
		uc.logger.Info("TryPromote: promoted student=%d to booking id=%d, slot=%d",
			booking.StudentID, booking.ID, booking.SlotID)
		uc.notifySender.SendAsync(booking.StudentID, notifyClient.TypeWaitlistPromoted, map[string]interface{}{
			"booking_id": booking.ID,
			"slot_id":    booking.SlotID,
		})
		uc.auditRecorder.RecordAsync(booking.StudentID, auditClient.EntityWaitlist, booking.ID, auditClient.ActionPromote, nil, map[string]interface{}{
			"booking_id": booking.ID,
			"slot_id":    booking.SlotID,
		})
	}

	return promoted, nil
}

// Sweep удаляет просроченные записи очереди ожидания.
// Запускается периодически фоновым воркером.
func (uc *UseCase) Sweep(ctx context.Context) (int64, error) {
	removed, err := uc.waitlistRepo.DeleteExpired(ctx, uc.timeProvider.Now())
	if err != nil {
		uc.logger.Error("WaitlistSweep: failed to delete expired entries: %v", err)
		return 0, fmt.Errorf("%w: failed to delete expired entries: %w", ErrInternal, err)
	}

	if removed > 0 {
		uc.logger.Info("WaitlistSweep: removed %d expired entries", removed)
	}

	return removed, nil
}

// Вспомогательные методы

// getBookableSlot возвращает активный будущий слот
func (uc *UseCase) getBookableSlot(ctx context.Context, slotID int64) (*domain.Slot, error) {
	slot, err := uc.slotRepo.GetByID(ctx, slotID)
	if err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			uc.logger.Warn("Waitlist: slot id=%d not found", slotID)
			return nil, ErrSlotNotFound
		}
		uc.logger.Error("Waitlist: failed to get slot id=%d: %v", slotID, err)
		return nil, fmt.Errorf("%w: failed to get slot: %w", ErrInternal, err)
	}

	if !slot.IsActive {
		uc.logger.Warn("Waitlist: slot id=%d is inactive", slotID)
		return nil, ErrSlotNotFound
	}

	if slot.IsInPast(uc.timeProvider.Now()) {
		uc.logger.Warn("Waitlist: slot id=%d is in the past", slotID)
		return nil, ErrPastSlot
	}

	return slot, nil
}

// checkSlotCatalog проверяет активность филиала и типа занятия слота
func (uc *UseCase) checkSlotCatalog(ctx context.Context, slot *domain.Slot) error {
	branch, err := uc.catalogClient.GetBranch(ctx, slot.BranchID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrBranchNotFound) {
			uc.logger.Warn("Waitlist: branch id=%d not found", slot.BranchID)
			return ErrBranchNotFound
		}
		return fmt.Errorf("%w: failed to get branch: %w", ErrInternal, err)
	}
	if !branch.IsActive {
		uc.logger.Warn("Waitlist: branch id=%d is inactive", slot.BranchID)
		return ErrBranchNotFound
	}

	if slot.ServiceTypeID != nil {
		serviceType, err := uc.catalogClient.GetServiceType(ctx, *slot.ServiceTypeID)
		if err != nil {
			if errors.Is(err, catalogClient.ErrServiceTypeNotFound) {
				uc.logger.Warn("Waitlist: service type id=%d not found", *slot.ServiceTypeID)
				return ErrServiceTypeNotFound
			}
			return fmt.Errorf("%w: failed to get service type: %w", ErrInternal, err)
		}
		if !serviceType.IsActive {
			uc.logger.Warn("Waitlist: service type id=%d is inactive", *slot.ServiceTypeID)
			return ErrServiceTypeNotFound
		}
	}

	return nil
}

// checkBranchStaff проверяет, что пользователь - активный преподаватель филиала
func (uc *UseCase) checkBranchStaff(ctx context.Context, branchID int64, userID int64) error {
	teacher, err := uc.catalogClient.GetTeacher(ctx, userID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrTeacherNotFound) {
			return ErrAccessDenied
		}
		return fmt.Errorf("%w: failed to get teacher: %w", ErrInternal, err)
	}

	if !teacher.IsActive || teacher.BranchID != branchID {
		return ErrAccessDenied
	}

	return nil
}
