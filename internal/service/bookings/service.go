package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/edspace/lesson-booking-service/internal/domain"
	bookingRepo "github.com/edspace/lesson-booking-service/internal/infra/storage/booking"
	slotRepo "github.com/edspace/lesson-booking-service/internal/infra/storage/slot"
	catalogClient "github.com/edspace/lesson-booking-service/internal/integrations/catalogservice"
	"github.com/edspace/lesson-booking-service/internal/service/bookings/models"
)

// Service read-сторона бронирований: просмотр с проверкой прав доступа.
// Все изменения состояния проходят через usecases, не через этот сервис.
type Service struct {
	bookingRepo   BookingRepository
	slotRepo      SlotRepository
	catalogClient CatalogServiceClient
	logger        Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	slotRepo SlotRepository,
	catalogClient CatalogServiceClient,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:   bookingRepo,
		slotRepo:      slotRepo,
		catalogClient: catalogClient,
		logger:        logger,
	}
}

// GetByID получает бронирование по ID.
// Доступно владельцу бронирования и преподавателю слота.
func (s *Service) GetByID(ctx context.Context, id int64, callerID int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for user=%d", id, callerID)

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %w", ErrInternal, err)
	}

	if err := s.checkBookingAccess(ctx, booking, callerID); err != nil {
		s.logger.Warn("GetByID: access denied for user=%d to booking id=%d", callerID, id)
		return nil, err
	}

	return models.FromDomainBooking(booking), nil
}

// GetStudentBookings получает историю бронирований студента.
// Студент видит только свою историю; преподаватели запрашивают
// бронирования через филиал.
func (s *Service) GetStudentBookings(ctx context.Context, req *models.GetStudentBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetStudentBookings: fetching bookings for student=%d, status=%v", req.StudentID, req.Status)

	if req.CallerID != req.StudentID {
		s.logger.Warn("GetStudentBookings: access denied for user=%d to student=%d history", req.CallerID, req.StudentID)
		return nil, ErrAccessDenied
	}

	var domainStatus *domain.BookingStatus
	if req.Status != nil {
		status, err := models.ToDomainBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetStudentBookings: invalid status=%s for student=%d", *req.Status, req.StudentID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	bookings, err := s.bookingRepo.GetByStudentID(ctx, req.StudentID, domainStatus)
	if err != nil {
		s.logger.Error("GetStudentBookings: repository error for student=%d: %v", req.StudentID, err)
		return nil, fmt.Errorf("%w: GetStudentBookings - repository error: %w", ErrInternal, err)
	}

	s.logger.Info("GetStudentBookings: fetched %d bookings for student=%d", len(bookings), req.StudentID)
	return models.FromDomainBookingList(bookings), nil
}

// GetBranchBookings получает бронирования филиала с фильтрацией.
// Доступно только активным преподавателям этого филиала.
func (s *Service) GetBranchBookings(ctx context.Context, req *models.GetBranchBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetBranchBookings: fetching bookings for branch=%d, user=%d", req.BranchID, req.CallerID)

	if err := s.checkBranchStaff(ctx, req.BranchID, req.CallerID); err != nil {
		return nil, err
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetBranchBookings: invalid filter for branch=%d: %v", req.BranchID, err)
		return nil, fmt.Errorf("%w: invalid filter", ErrInvalidInput)
	}

	bookings, err := s.bookingRepo.GetByBranchWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetBranchBookings: repository error for branch=%d: %v", req.BranchID, err)
		return nil, fmt.Errorf("%w: GetBranchBookings - repository error: %w", ErrInternal, err)
	}

	s.logger.Info("GetBranchBookings: fetched %d bookings for branch=%d", len(bookings), req.BranchID)
	return models.FromDomainBookingList(bookings), nil
}

// Вспомогательные методы

// checkBookingAccess разрешает доступ владельцу бронирования
// и преподавателю слота
func (s *Service) checkBookingAccess(ctx context.Context, booking *domain.Booking, callerID int64) error {
	if booking.StudentID == callerID {
		return nil
	}

	slot, err := s.slotRepo.GetByID(ctx, booking.SlotID)
	if err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			return ErrSlotNotFound
		}
		return fmt.Errorf("%w: checkBookingAccess - failed to get slot: %w", ErrInternal, err)
	}

	if slot.TeacherID == callerID {
		return nil
	}

	return ErrAccessDenied
}

// checkBranchStaff проверяет, что пользователь - активный преподаватель филиала
func (s *Service) checkBranchStaff(ctx context.Context, branchID int64, userID int64) error {
	teacher, err := s.catalogClient.GetTeacher(ctx, userID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrTeacherNotFound) {
			s.logger.Warn("checkBranchStaff: user=%d is not a teacher", userID)
			return ErrAccessDenied
		}
		s.logger.Error("checkBranchStaff: failed to get teacher id=%d: %v", userID, err)
		return fmt.Errorf("%w: checkBranchStaff - failed to get teacher: %w", ErrInternal, err)
	}

	if !teacher.IsActive || teacher.BranchID != branchID {
		s.logger.Warn("checkBranchStaff: user=%d is not active staff of branch=%d", userID, branchID)
		return ErrAccessDenied
	}

	return nil
}
