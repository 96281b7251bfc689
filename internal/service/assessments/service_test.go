package assessments

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/edspace/lesson-booking-service/internal/domain"
	assessmentRepo "github.com/edspace/lesson-booking-service/internal/infra/storage/assessment"
	"github.com/edspace/lesson-booking-service/internal/service/assessments/models"
)

// Mocks

type MockAssessmentRepository struct {
	mock.Mock
}

func (m *MockAssessmentRepository) Create(ctx context.Context, assessment *domain.Assessment) (*domain.Assessment, error) {
	args := m.Called(ctx, assessment)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Assessment), args.Error(1)
}

func (m *MockAssessmentRepository) GetByID(ctx context.Context, id int64) (*domain.Assessment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Assessment), args.Error(1)
}

func (m *MockAssessmentRepository) GetByBookingID(ctx context.Context, bookingID int64) (*domain.Assessment, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Assessment), args.Error(1)
}

func (m *MockAssessmentRepository) Update(ctx context.Context, id int64, score *float64, remarks *string) error {
	args := m.Called(ctx, id, score, remarks)
	return args.Error(0)
}

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

type MockSlotRepository struct {
	mock.Mock
}

func (m *MockSlotRepository) GetByID(ctx context.Context, id int64) (*domain.Slot, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Slot), args.Error(1)
}

type MockAuditRecorder struct {
	mock.Mock
}

func (m *MockAuditRecorder) RecordAsync(userID int64, entityType string, entityID int64, action string, oldValues, newValues map[string]interface{}) {
	m.Called(userID, entityType, entityID, action, oldValues, newValues)
}

type nopLogger struct{}

func (l *nopLogger) Info(format string, v ...interface{})  {}
func (l *nopLogger) Warn(format string, v ...interface{})  {}
func (l *nopLogger) Error(format string, v ...interface{}) {}

// Helpers

type testEnv struct {
	assessments *MockAssessmentRepository
	bookings    *MockBookingRepository
	slots       *MockSlotRepository
	audit       *MockAuditRecorder
	svc         *Service
}

func newTestEnv() *testEnv {
	env := &testEnv{
		assessments: new(MockAssessmentRepository),
		bookings:    new(MockBookingRepository),
		slots:       new(MockSlotRepository),
		audit:       new(MockAuditRecorder),
	}
	env.svc = NewService(env.assessments, env.bookings, env.slots, env.audit, &nopLogger{})
	return env
}

func completedBooking() *domain.Booking {
	return &domain.Booking{ID: 100, StudentID: 42, SlotID: 10, Status: domain.StatusCompleted}
}

// Record

func TestRecordSuccess(t *testing.T) {
	env := newTestEnv()
	env.bookings.On("GetByID", mock.Anything, int64(100)).Return(completedBooking(), nil)
	env.slots.On("GetByID", mock.Anything, int64(10)).Return(&domain.Slot{ID: 10, TeacherID: 7}, nil)

	created := &domain.Assessment{ID: 1, BookingID: 100, StudentID: 42, TeacherID: 7, Score: 7.5, Remarks: "хороший прогресс"}
	env.assessments.On("Create", mock.Anything, mock.MatchedBy(func(a *domain.Assessment) bool {
		return a.BookingID == 100 && a.StudentID == 42 && a.TeacherID == 7 && a.Score == 7.5
	})).Return(created, nil)
	env.audit.On("RecordAsync", int64(7), mock.Anything, int64(1), mock.Anything, mock.Anything, mock.Anything).Return()

	resp, err := env.svc.Record(context.Background(), &models.RecordAssessmentRequest{
		BookingID: 100, Score: 7.5, Remarks: "хороший прогресс", TeacherID: 7,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.ID)
	assert.Equal(t, 7.5, resp.Score)
	env.assessments.AssertExpectations(t)
}

func TestRecordRejectsInvalidScore(t *testing.T) {
	env := newTestEnv()

	_, err := env.svc.Record(context.Background(), &models.RecordAssessmentRequest{
		BookingID: 100, Score: 6.3, Remarks: "комментарий", TeacherID: 7,
	})
	assert.ErrorIs(t, err, ErrInvalidScore)

	_, err = env.svc.Record(context.Background(), &models.RecordAssessmentRequest{
		BookingID: 100, Score: 9.5, Remarks: "комментарий", TeacherID: 7,
	})
	assert.ErrorIs(t, err, ErrInvalidScore)
}

func TestRecordRequiresRemarks(t *testing.T) {
	env := newTestEnv()

	_, err := env.svc.Record(context.Background(), &models.RecordAssessmentRequest{
		BookingID: 100, Score: 7, Remarks: "", TeacherID: 7,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestRecordRejectsNonCompletedBooking(t *testing.T) {
	env := newTestEnv()
	booking := completedBooking()
	booking.Status = domain.StatusConfirmed
	env.bookings.On("GetByID", mock.Anything, int64(100)).Return(booking, nil)

	_, err := env.svc.Record(context.Background(), &models.RecordAssessmentRequest{
		BookingID: 100, Score: 7, Remarks: "комментарий", TeacherID: 7,
	})
	assert.ErrorIs(t, err, ErrBookingNotCompleted)
}

func TestRecordDeniesForeignTeacher(t *testing.T) {
	env := newTestEnv()
	env.bookings.On("GetByID", mock.Anything, int64(100)).Return(completedBooking(), nil)
	env.slots.On("GetByID", mock.Anything, int64(10)).Return(&domain.Slot{ID: 10, TeacherID: 7}, nil)

	_, err := env.svc.Record(context.Background(), &models.RecordAssessmentRequest{
		BookingID: 100, Score: 7, Remarks: "комментарий", TeacherID: 99,
	})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestRecordRejectsSecondAssessment(t *testing.T) {
	env := newTestEnv()
	env.bookings.On("GetByID", mock.Anything, int64(100)).Return(completedBooking(), nil)
	env.slots.On("GetByID", mock.Anything, int64(10)).Return(&domain.Slot{ID: 10, TeacherID: 7}, nil)
	env.assessments.On("Create", mock.Anything, mock.Anything).
		Return(nil, assessmentRepo.ErrDuplicateAssessment)

	_, err := env.svc.Record(context.Background(), &models.RecordAssessmentRequest{
		BookingID: 100, Score: 7, Remarks: "комментарий", TeacherID: 7,
	})
	assert.ErrorIs(t, err, ErrAlreadyAssessed)
}

// Update

func TestUpdateScoreOnly(t *testing.T) {
	env := newTestEnv()
	existing := &domain.Assessment{ID: 1, BookingID: 100, TeacherID: 7, Score: 6, Remarks: "старый комментарий"}
	env.assessments.On("GetByID", mock.Anything, int64(1)).Return(existing, nil).Once()

	newScore := 8.5
	env.assessments.On("Update", mock.Anything, int64(1), &newScore, (*string)(nil)).Return(nil)

	updated := &domain.Assessment{ID: 1, BookingID: 100, TeacherID: 7, Score: 8.5, Remarks: "старый комментарий"}
	env.assessments.On("GetByID", mock.Anything, int64(1)).Return(updated, nil).Once()
	env.audit.On("RecordAsync", int64(7), mock.Anything, int64(1), mock.Anything, mock.Anything, mock.Anything).Return()

	resp, err := env.svc.Update(context.Background(), &models.UpdateAssessmentRequest{
		AssessmentID: 1, Score: &newScore, TeacherID: 7,
	})

	require.NoError(t, err)
	assert.Equal(t, 8.5, resp.Score)
	env.assessments.AssertExpectations(t)
}

func TestUpdateRejectsEmptyRemarks(t *testing.T) {
	env := newTestEnv()

	empty := ""
	_, err := env.svc.Update(context.Background(), &models.UpdateAssessmentRequest{
		AssessmentID: 1, Remarks: &empty, TeacherID: 7,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
	env.assessments.AssertNotCalled(t, "Update")
}

func TestUpdateRejectsEmptyUpdate(t *testing.T) {
	env := newTestEnv()

	_, err := env.svc.Update(context.Background(), &models.UpdateAssessmentRequest{
		AssessmentID: 1, TeacherID: 7,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdateDeniesNonAuthor(t *testing.T) {
	env := newTestEnv()
	existing := &domain.Assessment{ID: 1, BookingID: 100, TeacherID: 7, Score: 6}
	env.assessments.On("GetByID", mock.Anything, int64(1)).Return(existing, nil)

	newScore := 8.0
	_, err := env.svc.Update(context.Background(), &models.UpdateAssessmentRequest{
		AssessmentID: 1, Score: &newScore, TeacherID: 99,
	})
	assert.ErrorIs(t, err, ErrAccessDenied)
	env.assessments.AssertNotCalled(t, "Update")
}

func TestUpdateNotFound(t *testing.T) {
	env := newTestEnv()
	env.assessments.On("GetByID", mock.Anything, int64(404)).
		Return(nil, assessmentRepo.ErrAssessmentNotFound)

	newScore := 8.0
	_, err := env.svc.Update(context.Background(), &models.UpdateAssessmentRequest{
		AssessmentID: 404, Score: &newScore, TeacherID: 7,
	})
	assert.ErrorIs(t, err, ErrAssessmentNotFound)
}
