package create_booking

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

// UseCase use case для создания бронирования
type UseCase struct {
	bookingRepo   BookingRepository
	slotRepo      SlotRepository
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
	bookingRepo BookingRepository,
	slotRepo SlotRepository,
	monthlyGuard MonthlyGuard,
	catalogClient CatalogServiceClient,
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
		notifySender:  notifySender,
		auditRecorder: auditRecorder,
		txManager:     txManager,
		timeProvider:  &RealTimeProvider{},
		logger:        logger,
	}
}

// Execute выполняет use case создания бронирования.
// Резерв места и запись бронирования выполняются в сериализуемой
// транзакции - гонка за последнее место исключена.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: student=%d, slot=%d", req.StudentID, req.SlotID)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем слот без блокировки для предварительных проверок каталога
	slot, err := uc.slotRepo.GetByID(ctx, req.SlotID)
	if err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			uc.logger.Warn("CreateBooking: slot id=%d not found", req.SlotID)
			return nil, ErrSlotNotFound
		}
		uc.logger.Error("CreateBooking: failed to get slot id=%d: %v", req.SlotID, err)
		return nil, fmt.Errorf("%w: failed to get slot: %w", ErrInternal, err)
	}

	// 3. Проверяем справочники каталога до открытия транзакции -
	// внешние HTTP-вызовы внутри сериализуемой транзакции недопустимы
	if err := uc.checkCatalogReferences(ctx, slot); err != nil {
		return nil, err
	}

	var result *domain.Booking
	slotFull := false

	// 4. Выполняем операции с БД в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 4.1. Перечитываем слот с блокировкой (FOR UPDATE)
		lockedSlot, err := uc.slotRepo.GetByID(txCtx, req.SlotID)
		if err != nil {
			if errors.Is(err, slotRepo.ErrSlotNotFound) {
				return ErrSlotNotFound
			}
			return fmt.Errorf("%w: failed to lock slot: %w", ErrInternal, err)
		}

		if !lockedSlot.IsActive {
			uc.logger.Warn("CreateBooking: slot id=%d is inactive", req.SlotID)
			return ErrSlotInactive
		}

		if lockedSlot.IsInPast(uc.timeProvider.Now()) {
			uc.logger.Warn("CreateBooking: slot id=%d is in the past", req.SlotID)
			return ErrPastSlot
		}

		// 4.2. Месячный лимит: одно активное бронирование на календарный месяц
		if err := uc.monthlyGuard.Check(txCtx, req.StudentID, lockedSlot.SlotDate, nil); err != nil {
			if errors.Is(err, monthlyguard.ErrMonthlyLimit) {
				uc.logger.Warn("CreateBooking: student=%d already booked in month of %s",
					req.StudentID, lockedSlot.SlotDate.Format(domain.DateFormat))
				return ErrMonthlyLimit
			}
			return fmt.Errorf("%w: monthly limit check failed: %w", ErrInternal, err)
		}

		// 4.3. Атомарный резерв места
		if err := uc.slotRepo.TryReserve(txCtx, req.SlotID); err != nil {
			if errors.Is(err, slotRepo.ErrSlotFull) {
				uc.logger.Info("CreateBooking: slot id=%d is full, waitlist available", req.SlotID)
				slotFull = true
				return nil
			}
			if errors.Is(err, slotRepo.ErrSlotInactive) {
				return ErrSlotInactive
			}
			if errors.Is(err, slotRepo.ErrSlotNotFound) {
				return ErrSlotNotFound
			}
			return fmt.Errorf("%w: failed to reserve seat: %w", ErrInternal, err)
		}

		// 4.4. Создаем бронирование
		booking := &domain.Booking{
			StudentID: req.StudentID,
			SlotID:    req.SlotID,
			Status:    domain.StatusConfirmed,
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrDuplicateBooking) {
				uc.logger.Warn("CreateBooking: student=%d already booked slot=%d", req.StudentID, req.SlotID)
				return ErrDuplicateBooking
			}
			return fmt.Errorf("%w: failed to create booking: %w", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	// 5. Слот заполнен: бронирование не создано, предлагаем очередь ожидания
	if slotFull {
		return &Response{
			Outcome:           OutcomeSlotFull,
			SlotID:            req.SlotID,
			WaitlistAvailable: true,
		}, nil
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%d", result.ID)

	// 6. Уведомление и аудит после коммита, ошибки не влияют на результат
	uc.notifySender.SendAsync(req.StudentID, notifyClient.TypeBookingConfirmed, map[string]interface{}{
		"booking_id": result.ID,
		"slot_id":    result.SlotID,
	})
	uc.auditRecorder.RecordAsync(req.StudentID, auditClient.EntityBooking, result.ID, auditClient.ActionCreate, nil, map[string]interface{}{
		"slot_id": result.SlotID,
		"status":  string(result.Status),
	})

	return &Response{
		Outcome:   OutcomeConfirmed,
		BookingID: result.ID,
		StudentID: result.StudentID,
		SlotID:    result.SlotID,
		Status:    string(result.Status),
		CreatedAt: result.CreatedAt,
	}, nil
}

// checkCatalogReferences проверяет активность филиала, преподавателя
// и типа занятия слота
func (uc *UseCase) checkCatalogReferences(ctx context.Context, slot *domain.Slot) error {
	branch, err := uc.catalogClient.GetBranch(ctx, slot.BranchID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrBranchNotFound) {
			uc.logger.Warn("CreateBooking: branch id=%d not found", slot.BranchID)
			return ErrBranchNotFound
		}
		uc.logger.Error("CreateBooking: failed to get branch id=%d: %v", slot.BranchID, err)
		return fmt.Errorf("%w: failed to get branch: %w", ErrInternal, err)
	}
	if !branch.IsActive {
		uc.logger.Warn("CreateBooking: branch id=%d is inactive", slot.BranchID)
		return ErrBranchNotFound
	}

	teacher, err := uc.catalogClient.GetTeacher(ctx, slot.TeacherID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrTeacherNotFound) {
			uc.logger.Warn("CreateBooking: teacher id=%d not found", slot.TeacherID)
			return ErrTeacherNotFound
		}
		uc.logger.Error("CreateBooking: failed to get teacher id=%d: %v", slot.TeacherID, err)
		return fmt.Errorf("%w: failed to get teacher: %w", ErrInternal, err)
	}
	if !teacher.IsActive {
		uc.logger.Warn("CreateBooking: teacher id=%d is inactive", slot.TeacherID)
		return ErrTeacherNotFound
	}

	if slot.ServiceTypeID != nil {
		serviceType, err := uc.catalogClient.GetServiceType(ctx, *slot.ServiceTypeID)
		if err != nil {
			if errors.Is(err, catalogClient.ErrServiceTypeNotFound) {
				uc.logger.Warn("CreateBooking: service type id=%d not found", *slot.ServiceTypeID)
				return ErrServiceTypeNotFound
			}
			uc.logger.Error("CreateBooking: failed to get service type id=%d: %v", *slot.ServiceTypeID, err)
			return fmt.Errorf("%w: failed to get service type: %w", ErrInternal, err)
		}
		if !serviceType.IsActive {
			uc.logger.Warn("CreateBooking: service type id=%d is inactive", *slot.ServiceTypeID)
			return ErrServiceTypeNotFound
		}
	}

	return nil
}
