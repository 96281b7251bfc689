package slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/edspace/lesson-booking-service/internal/domain"
	catalogClient "github.com/edspace/lesson-booking-service/internal/integrations/catalogservice"
	"github.com/edspace/lesson-booking-service/internal/service/slots/models"
)

// Service управление расписанием: просмотр доступных слотов
// и создание слотов сотрудниками филиала.
type Service struct {
	slotRepo      SlotRepository
	catalogClient CatalogServiceClient
	timeProvider  TimeProvider
	logger        Logger
}

// NewService создает новый экземпляр сервиса слотов
func NewService(
	slotRepo SlotRepository,
	catalogClient CatalogServiceClient,
	timeProvider TimeProvider,
	logger Logger,
) *Service {
	return &Service{
		slotRepo:      slotRepo,
		catalogClient: catalogClient,
		timeProvider:  timeProvider,
		logger:        logger,
	}
}

// GetAvailableSlots возвращает активные слоты филиала на дату,
// в которых остались свободные места
func (s *Service) GetAvailableSlots(ctx context.Context, req *models.GetAvailableSlotsRequest) (*models.SlotListResponse, error) {
	s.logger.Info("GetAvailableSlots: fetching slots for branch=%d, date=%s", req.BranchID, req.Date.Format(domain.DateFormat))

	if _, err := s.catalogClient.GetBranch(ctx, req.BranchID); err != nil {
		if errors.Is(err, catalogClient.ErrBranchNotFound) {
			s.logger.Warn("GetAvailableSlots: branch=%d not found", req.BranchID)
			return nil, ErrBranchNotFound
		}
		s.logger.Error("GetAvailableSlots: failed to get branch=%d: %v", req.BranchID, err)
		return nil, fmt.Errorf("%w: GetAvailableSlots - failed to get branch: %w", ErrInternal, err)
	}

	allSlots, err := s.slotRepo.GetByBranchAndDate(ctx, req.BranchID, req.Date)
	if err != nil {
		s.logger.Error("GetAvailableSlots: repository error for branch=%d: %v", req.BranchID, err)
		return nil, fmt.Errorf("%w: GetAvailableSlots - repository error: %w", ErrInternal, err)
	}

	now := s.timeProvider.Now()
	available := make([]*domain.Slot, 0, len(allSlots))
	for _, slot := range allSlots {
		if slot.IsActive && !slot.IsFull() && !slot.IsInPast(now) {
			available = append(available, slot)
		}
	}

	s.logger.Info("GetAvailableSlots: found %d available slots for branch=%d", len(available), req.BranchID)
	return models.FromDomainSlotList(available), nil
}

// CreateSlot создает новый слот в расписании.
// Доступно только активным преподавателям филиала.
func (s *Service) CreateSlot(ctx context.Context, req *models.CreateSlotRequest) (*models.SlotResponse, error) {
	s.logger.Info("CreateSlot: creating slot for branch=%d, teacher=%d, date=%s", req.BranchID, req.TeacherID, req.SlotDate)

	slot, err := req.ToDomainSlot()
	if err != nil {
		s.logger.Warn("CreateSlot: invalid request for branch=%d: %v", req.BranchID, err)
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	if err := s.validateSlot(slot); err != nil {
		s.logger.Warn("CreateSlot: validation failed for branch=%d: %v", req.BranchID, err)
		return nil, err
	}

	if err := s.checkBranchStaff(ctx, req.BranchID, req.CallerID); err != nil {
		s.logger.Warn("CreateSlot: access denied for user=%d to branch=%d", req.CallerID, req.BranchID)
		return nil, err
	}

	if err := s.checkReferences(ctx, slot); err != nil {
		return nil, err
	}

	created, err := s.slotRepo.Create(ctx, slot)
	if err != nil {
		s.logger.Error("CreateSlot: repository error for branch=%d: %v", req.BranchID, err)
		return nil, fmt.Errorf("%w: CreateSlot - repository error: %w", ErrInternal, err)
	}

	s.logger.Info("CreateSlot: created slot id=%d for branch=%d", created.ID, created.BranchID)
	return models.FromDomainSlot(created), nil
}

// Вспомогательные методы

func (s *Service) validateSlot(slot *domain.Slot) error {
	if slot.Capacity < domain.MinSlotCapacity {
		return fmt.Errorf("%w: capacity must be at least %d", ErrInvalidInput, domain.MinSlotCapacity)
	}
	if !slot.StartTime.IsBefore(slot.EndTime) {
		return fmt.Errorf("%w: start time must be before end time", ErrInvalidInput)
	}
	if slot.IsInPast(s.timeProvider.Now()) {
		return fmt.Errorf("%w: slot must start in the future", ErrInvalidInput)
	}
	return nil
}

// checkBranchStaff проверяет, что пользователь - активный преподаватель филиала
func (s *Service) checkBranchStaff(ctx context.Context, branchID int64, userID int64) error {
	teacher, err := s.catalogClient.GetTeacher(ctx, userID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrTeacherNotFound) {
			return ErrAccessDenied
		}
		return fmt.Errorf("%w: checkBranchStaff - failed to get teacher: %w", ErrInternal, err)
	}

	if !teacher.IsActive || teacher.BranchID != branchID {
		return ErrAccessDenied
	}

	return nil
}

// checkReferences проверяет активность филиала, преподавателя
// и типа занятия, указанных в слоте
func (s *Service) checkReferences(ctx context.Context, slot *domain.Slot) error {
	branch, err := s.catalogClient.GetBranch(ctx, slot.BranchID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrBranchNotFound) {
			return ErrBranchNotFound
		}
		return fmt.Errorf("%w: checkReferences - failed to get branch: %w", ErrInternal, err)
	}
	if !branch.IsActive {
		return ErrBranchNotFound
	}

	teacher, err := s.catalogClient.GetTeacher(ctx, slot.TeacherID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrTeacherNotFound) {
			return ErrTeacherNotFound
		}
		return fmt.Errorf("%w: checkReferences - failed to get teacher: %w", ErrInternal, err)
	}
	if !teacher.IsActive || teacher.BranchID != slot.BranchID {
		return ErrTeacherNotFound
	}

	if slot.ServiceTypeID != nil {
		serviceType, err := s.catalogClient.GetServiceType(ctx, *slot.ServiceTypeID)
		if err != nil {
			if errors.Is(err, catalogClient.ErrServiceTypeNotFound) {
				return ErrServiceTypeNotFound
			}
			return fmt.Errorf("%w: checkReferences - failed to get service type: %w", ErrInternal, err)
		}
		if !serviceType.IsActive {
			return ErrServiceTypeNotFound
		}
	}

	return nil
}
