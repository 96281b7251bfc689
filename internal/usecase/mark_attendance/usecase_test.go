package mark_attendance

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/edspace/lesson-booking-service/internal/domain"
	"github.com/edspace/lesson-booking-service/pkg/types"
)

// Mocks

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

func (m *MockBookingRepository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
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

type fakeTxManager struct{}

func (f *fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type nopLogger struct{}

func (l *nopLogger) Info(format string, v ...interface{})  {}
func (l *nopLogger) Warn(format string, v ...interface{})  {}
func (l *nopLogger) Error(format string, v ...interface{}) {}

// Helpers

func newTestUseCase(bookings *MockBookingRepository, slots *MockSlotRepository, audit *MockAuditRecorder) *UseCase {
	return NewUseCase(bookings, slots, audit, &fakeTxManager{}, &nopLogger{})
}

func confirmedBooking() *domain.Booking {
	return &domain.Booking{ID: 100, StudentID: 42, SlotID: 10, Status: domain.StatusConfirmed}
}

func startedSlot() *domain.Slot {
	pastDate := time.Now().AddDate(0, 0, -1)
	return &domain.Slot{
		ID:        10,
		TeacherID: 7,
		SlotDate:  time.Date(pastDate.Year(), pastDate.Month(), pastDate.Day(), 0, 0, 0, 0, time.UTC),
		StartTime: types.TimeString("10:00"),
		IsActive:  true,
	}
}

func upcomingSlot() *domain.Slot {
	futureDate := time.Now().AddDate(0, 0, 7)
	slot := startedSlot()
	slot.SlotDate = time.Date(futureDate.Year(), futureDate.Month(), futureDate.Day(), 0, 0, 0, 0, time.UTC)
	return slot
}

// Tests

func TestExecuteMarksCompleted(t *testing.T) {
	bookings := new(MockBookingRepository)
	slots := new(MockSlotRepository)
	audit := new(MockAuditRecorder)

	bookings.On("GetByID", mock.Anything, int64(100)).Return(confirmedBooking(), nil)
	slots.On("GetByID", mock.Anything, int64(10)).Return(startedSlot(), nil)
	bookings.On("UpdateStatus", mock.Anything, int64(100), domain.StatusCompleted).Return(nil)
	audit.On("RecordAsync", int64(7), mock.Anything, int64(100), mock.Anything, mock.Anything, mock.Anything).Return()

	uc := newTestUseCase(bookings, slots, audit)
	resp, err := uc.Execute(context.Background(), &Request{BookingID: 100, TeacherID: 7, Attended: true})

	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCompleted), resp.Status)
	bookings.AssertExpectations(t)
}

func TestExecuteMarksNoShow(t *testing.T) {
	bookings := new(MockBookingRepository)
	slots := new(MockSlotRepository)
	audit := new(MockAuditRecorder)

	bookings.On("GetByID", mock.Anything, int64(100)).Return(confirmedBooking(), nil)
	slots.On("GetByID", mock.Anything, int64(10)).Return(startedSlot(), nil)
	bookings.On("UpdateStatus", mock.Anything, int64(100), domain.StatusNoShow).Return(nil)
	audit.On("RecordAsync", int64(7), mock.Anything, int64(100), mock.Anything, mock.Anything, mock.Anything).Return()

	uc := newTestUseCase(bookings, slots, audit)
	resp, err := uc.Execute(context.Background(), &Request{BookingID: 100, TeacherID: 7, Attended: false})

	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusNoShow), resp.Status)
}

func TestExecuteDeniesForeignTeacher(t *testing.T) {
	bookings := new(MockBookingRepository)
	slots := new(MockSlotRepository)

	bookings.On("GetByID", mock.Anything, int64(100)).Return(confirmedBooking(), nil)
	slots.On("GetByID", mock.Anything, int64(10)).Return(startedSlot(), nil)

	uc := newTestUseCase(bookings, slots, new(MockAuditRecorder))
	_, err := uc.Execute(context.Background(), &Request{BookingID: 100, TeacherID: 99, Attended: true})

	assert.ErrorIs(t, err, ErrAccessDenied)
	bookings.AssertNotCalled(t, "UpdateStatus")
}

func TestExecuteRejectsBeforeSlotStart(t *testing.T) {
	bookings := new(MockBookingRepository)
	slots := new(MockSlotRepository)

	bookings.On("GetByID", mock.Anything, int64(100)).Return(confirmedBooking(), nil)
	slots.On("GetByID", mock.Anything, int64(10)).Return(upcomingSlot(), nil)

	uc := newTestUseCase(bookings, slots, new(MockAuditRecorder))
	_, err := uc.Execute(context.Background(), &Request{BookingID: 100, TeacherID: 7, Attended: true})

	assert.ErrorIs(t, err, ErrSlotNotStarted)
}

func TestExecuteRejectsNonConfirmedBooking(t *testing.T) {
	bookings := new(MockBookingRepository)
	slots := new(MockSlotRepository)

	booking := confirmedBooking()
	booking.Status = domain.StatusCompleted
	bookings.On("GetByID", mock.Anything, int64(100)).Return(booking, nil)
	slots.On("GetByID", mock.Anything, int64(10)).Return(startedSlot(), nil)

	uc := newTestUseCase(bookings, slots, new(MockAuditRecorder))
	_, err := uc.Execute(context.Background(), &Request{BookingID: 100, TeacherID: 7, Attended: true})

	assert.ErrorIs(t, err, ErrNotConfirmed)
}
