package assessments

import (
	"context"
	"errors"
	"fmt"

	"github.com/edspace/lesson-booking-service/internal/domain"
	assessmentRepo "github.com/edspace/lesson-booking-service/internal/infra/storage/assessment"
	bookingRepo "github.com/edspace/lesson-booking-service/internal/infra/storage/booking"
	slotRepo "github.com/edspace/lesson-booking-service/internal/infra/storage/slot"
	auditClient "github.com/edspace/lesson-booking-service/internal/integrations/auditservice"
	"github.com/edspace/lesson-booking-service/internal/service/assessments/models"
)

// Service выставление и изменение оценок за завершенные занятия.
// Оценку ставит преподаватель слота, ровно одну на бронирование.
type Service struct {
	assessmentRepo AssessmentRepository
	bookingRepo    BookingRepository
	slotRepo       SlotRepository
	auditRecorder  AuditRecorder
	logger         Logger
}

// NewService создает новый экземпляр сервиса оценок
func NewService(
	assessmentRepo AssessmentRepository,
	bookingRepo BookingRepository,
	slotRepo SlotRepository,
	auditRecorder AuditRecorder,
	logger Logger,
) *Service {
	return &Service{
		assessmentRepo: assessmentRepo,
		bookingRepo:    bookingRepo,
		slotRepo:       slotRepo,
		auditRecorder:  auditRecorder,
		logger:         logger,
	}
}

// Record выставляет оценку за завершенное занятие
func (s *Service) Record(ctx context.Context, req *models.RecordAssessmentRequest) (*models.AssessmentResponse, error) {
	s.logger.Info("Record: recording assessment for booking=%d by teacher=%d", req.BookingID, req.TeacherID)

	if err := s.validateScoreAndRemarks(req.Score, req.Remarks); err != nil {
		s.logger.Warn("Record: validation failed for booking=%d: %v", req.BookingID, err)
		return nil, err
	}

	booking, err := s.bookingRepo.GetByID(ctx, req.BookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("Record: booking=%d not found", req.BookingID)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("Record: failed to get booking=%d: %v", req.BookingID, err)
		return nil, fmt.Errorf("%w: Record - failed to get booking: %w", ErrInternal, err)
	}

	if booking.Status != domain.StatusCompleted {
		s.logger.Warn("Record: booking=%d has status=%s, assessment requires completed", req.BookingID, booking.Status)
		return nil, ErrBookingNotCompleted
	}

	if err := s.checkSlotTeacher(ctx, booking.SlotID, req.TeacherID); err != nil {
		s.logger.Warn("Record: teacher=%d is not the teacher of booking=%d slot", req.TeacherID, req.BookingID)
		return nil, err
	}

	assessment := &domain.Assessment{
		BookingID: booking.ID,
		StudentID: booking.StudentID,
		TeacherID: req.TeacherID,
		Score:     req.Score,
		Remarks:   req.Remarks,
	}

	created, err := s.assessmentRepo.Create(ctx, assessment)
	if err != nil {
		if errors.Is(err, assessmentRepo.ErrDuplicateAssessment) {
			s.logger.Warn("Record: booking=%d already assessed", req.BookingID)
			return nil, ErrAlreadyAssessed
		}
		s.logger.Error("Record: repository error for booking=%d: %v", req.BookingID, err)
		return nil, fmt.Errorf("%w: Record - repository error: %w", ErrInternal, err)
	}

	s.auditRecorder.RecordAsync(req.TeacherID, auditClient.EntityAssessment, created.ID, auditClient.ActionCreate, nil, map[string]interface{}{
		"booking_id": created.BookingID,
		"score":      created.Score,
	})

	s.logger.Info("Record: created assessment id=%d for booking=%d", created.ID, created.BookingID)
	return models.FromDomainAssessment(created), nil
}

// Update изменяет оценку или комментарий существующей оценки.
// Доступно только автору оценки.
func (s *Service) Update(ctx context.Context, req *models.UpdateAssessmentRequest) (*models.AssessmentResponse, error) {
	s.logger.Info("Update: updating assessment=%d by teacher=%d", req.AssessmentID, req.TeacherID)

	if req.Score == nil && req.Remarks == nil {
		s.logger.Warn("Update: empty update for assessment=%d", req.AssessmentID)
		return nil, fmt.Errorf("%w: nothing to update", ErrInvalidInput)
	}

	if req.Score != nil && !domain.IsValidScore(*req.Score) {
		s.logger.Warn("Update: invalid score=%v for assessment=%d", *req.Score, req.AssessmentID)
		return nil, ErrInvalidScore
	}

	if req.Remarks != nil {
		if err := s.validateRemarks(*req.Remarks); err != nil {
			s.logger.Warn("Update: invalid remarks for assessment=%d: %v", req.AssessmentID, err)
			return nil, err
		}
	}

	assessment, err := s.assessmentRepo.GetByID(ctx, req.AssessmentID)
	if err != nil {
		if errors.Is(err, assessmentRepo.ErrAssessmentNotFound) {
			s.logger.Warn("Update: assessment=%d not found", req.AssessmentID)
			return nil, ErrAssessmentNotFound
		}
		s.logger.Error("Update: failed to get assessment=%d: %v", req.AssessmentID, err)
		return nil, fmt.Errorf("%w: Update - failed to get assessment: %w", ErrInternal, err)
	}

	if assessment.TeacherID != req.TeacherID {
		s.logger.Warn("Update: access denied for teacher=%d to assessment=%d", req.TeacherID, req.AssessmentID)
		return nil, ErrAccessDenied
	}

	if err := s.assessmentRepo.Update(ctx, req.AssessmentID, req.Score, req.Remarks); err != nil {
		s.logger.Error("Update: repository error for assessment=%d: %v", req.AssessmentID, err)
		return nil, fmt.Errorf("%w: Update - repository error: %w", ErrInternal, err)
	}

	updated, err := s.assessmentRepo.GetByID(ctx, req.AssessmentID)
	if err != nil {
		s.logger.Error("Update: failed to re-read assessment=%d: %v", req.AssessmentID, err)
		return nil, fmt.Errorf("%w: Update - failed to re-read assessment: %w", ErrInternal, err)
	}

	s.auditRecorder.RecordAsync(req.TeacherID, auditClient.EntityAssessment, updated.ID, auditClient.ActionUpdate, map[string]interface{}{
		"score":   assessment.Score,
		"remarks": assessment.Remarks,
	}, map[string]interface{}{
		"score":   updated.Score,
		"remarks": updated.Remarks,
	})

	s.logger.Info("Update: updated assessment id=%d", updated.ID)
	return models.FromDomainAssessment(updated), nil
}

// Вспомогательные методы

func (s *Service) validateScoreAndRemarks(score float64, remarks string) error {
	if !domain.IsValidScore(score) {
		return ErrInvalidScore
	}
	return s.validateRemarks(remarks)
}

func (s *Service) validateRemarks(remarks string) error {
	if remarks == "" {
		return fmt.Errorf("%w: remarks must not be empty", ErrInvalidInput)
	}
	if len(remarks) > domain.MaxRemarksLength {
		return fmt.Errorf("%w: remarks exceed %d characters", ErrInvalidInput, domain.MaxRemarksLength)
	}
	return nil
}

// checkSlotTeacher проверяет, что пользователь - преподаватель слота
func (s *Service) checkSlotTeacher(ctx context.Context, slotID int64, teacherID int64) error {
	slot, err := s.slotRepo.GetByID(ctx, slotID)
	if err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			return fmt.Errorf("%w: checkSlotTeacher - slot not found", ErrInternal)
		}
		return fmt.Errorf("%w: checkSlotTeacher - failed to get slot: %w", ErrInternal, err)
	}

	if slot.TeacherID != teacherID {
		return ErrAccessDenied
	}

	return nil
}
