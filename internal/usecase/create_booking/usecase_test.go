package create_booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/edspace/lesson-booking-service/internal/domain"
	slotRepo "github.com/edspace/lesson-booking-service/internal/infra/storage/slot"
	"github.com/edspace/lesson-booking-service/internal/integrations/catalogservice"
	"github.com/edspace/lesson-booking-service/internal/service/monthlyguard"
	"github.com/edspace/lesson-booking-service/pkg/types"
)

// Mocks

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	args := m.Called(ctx, booking)
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

func (m *MockSlotRepository) TryReserve(ctx context.Context, slotID int64) error {
	args := m.Called(ctx, slotID)
	return args.Error(0)
}

type MockMonthlyGuard struct {
	mock.Mock
}

func (m *MockMonthlyGuard) Check(ctx context.Context, studentID int64, slotDate time.Time, excludeBookingID *int64) error {
	args := m.Called(ctx, studentID, slotDate, excludeBookingID)
	return args.Error(0)
}

type MockCatalogClient struct {
	mock.Mock
}

func (m *MockCatalogClient) GetBranch(ctx context.Context, id int64) (*catalogservice.Branch, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogservice.Branch), args.Error(1)
}

func (m *MockCatalogClient) GetTeacher(ctx context.Context, id int64) (*catalogservice.Teacher, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogservice.Teacher), args.Error(1)
}

func (m *MockCatalogClient) GetServiceType(ctx context.Context, id int64) (*catalogservice.ServiceType, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogservice.ServiceType), args.Error(1)
}

type MockNotificationSender struct {
	mock.Mock
}

func (m *MockNotificationSender) SendAsync(userID int64, notifType string, payload map[string]interface{}) {
	m.Called(userID, notifType, payload)
}

type MockAuditRecorder struct {
	mock.Mock
}

func (m *MockAuditRecorder) RecordAsync(userID int64, entityType string, entityID int64, action string, oldValues, newValues map[string]interface{}) {
	m.Called(userID, entityType, entityID, action, oldValues, newValues)
}

// fakeTxManager выполняет функцию транзакции напрямую, без БД
type fakeTxManager struct{}

func (f *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type nopLogger struct{}

func (l *nopLogger) Info(format string, v ...interface{})  {}
func (l *nopLogger) Warn(format string, v ...interface{})  {}
func (l *nopLogger) Error(format string, v ...interface{}) {}

// Helpers

func futureSlot(id int64) *domain.Slot {
	futureDate := time.Now().AddDate(0, 0, 14)
	return &domain.Slot{
		ID:          id,
		BranchID:    1,
		TeacherID:   2,
		SlotDate:    time.Date(futureDate.Year(), futureDate.Month(), futureDate.Day(), 0, 0, 0, 0, time.UTC),
		StartTime:   types.TimeString("10:00"),
		EndTime:     types.TimeString("11:00"),
		Capacity:    3,
		BookedCount: 1,
		IsActive:    true,
	}
}

func newTestUseCase(
	bookingRepo *MockBookingRepository,
	slotRepository *MockSlotRepository,
	guard *MockMonthlyGuard,
	catalog *MockCatalogClient,
	notify *MockNotificationSender,
	audit *MockAuditRecorder,
) *UseCase {
	return NewUseCase(bookingRepo, slotRepository, guard, catalog, notify, audit, &fakeTxManager{}, &nopLogger{})
}

func expectActiveCatalog(catalog *MockCatalogClient) {
	catalog.On("GetBranch", mock.Anything, int64(1)).
		Return(&catalogservice.Branch{ID: 1, IsActive: true}, nil)
	catalog.On("GetTeacher", mock.Anything, int64(2)).
		Return(&catalogservice.Teacher{ID: 2, BranchID: 1, IsActive: true}, nil)
}

// Tests

func TestExecuteSuccess(t *testing.T) {
	bookingRepository := new(MockBookingRepository)
	slotRepository := new(MockSlotRepository)
	guard := new(MockMonthlyGuard)
	catalog := new(MockCatalogClient)
	notify := new(MockNotificationSender)
	audit := new(MockAuditRecorder)

	slot := futureSlot(10)
	slotRepository.On("GetByID", mock.Anything, int64(10)).Return(slot, nil)
	expectActiveCatalog(catalog)
	guard.On("Check", mock.Anything, int64(42), slot.SlotDate, (*int64)(nil)).Return(nil)
	slotRepository.On("TryReserve", mock.Anything, int64(10)).Return(nil)

	created := &domain.Booking{ID: 100, StudentID: 42, SlotID: 10, Status: domain.StatusConfirmed, CreatedAt: time.Now()}
	bookingRepository.On("Create", mock.Anything, mock.MatchedBy(func(b *domain.Booking) bool {
		return b.StudentID == 42 && b.SlotID == 10 && b.Status == domain.StatusConfirmed
	})).Return(created, nil)

	notify.On("SendAsync", int64(42), mock.Anything, mock.Anything).Return()
	audit.On("RecordAsync", int64(42), mock.Anything, int64(100), mock.Anything, mock.Anything, mock.Anything).Return()

	uc := newTestUseCase(bookingRepository, slotRepository, guard, catalog, notify, audit)
	resp, err := uc.Execute(context.Background(), &Request{StudentID: 42, SlotID: 10})

	require.NoError(t, err)
	assert.Equal(t, OutcomeConfirmed, resp.Outcome)
	assert.Equal(t, int64(100), resp.BookingID)
	assert.False(t, resp.WaitlistAvailable)
	bookingRepository.AssertExpectations(t)
	notify.AssertExpectations(t)
}

func TestExecuteSlotFull(t *testing.T) {
	bookingRepository := new(MockBookingRepository)
	slotRepository := new(MockSlotRepository)
	guard := new(MockMonthlyGuard)
	catalog := new(MockCatalogClient)
	notify := new(MockNotificationSender)
	audit := new(MockAuditRecorder)

	slot := futureSlot(10)
	slot.BookedCount = slot.Capacity
	slotRepository.On("GetByID", mock.Anything, int64(10)).Return(slot, nil)
	expectActiveCatalog(catalog)
	guard.On("Check", mock.Anything, int64(42), slot.SlotDate, (*int64)(nil)).Return(nil)
	slotRepository.On("TryReserve", mock.Anything, int64(10)).Return(slotRepo.ErrSlotFull)

	uc := newTestUseCase(bookingRepository, slotRepository, guard, catalog, notify, audit)
	resp, err := uc.Execute(context.Background(), &Request{StudentID: 42, SlotID: 10})

	// заполненный слот - не ошибка, а отдельный исход с предложением очереди
	require.NoError(t, err)
	assert.Equal(t, OutcomeSlotFull, resp.Outcome)
	assert.True(t, resp.WaitlistAvailable)
	assert.Zero(t, resp.BookingID)
	bookingRepository.AssertNotCalled(t, "Create")
	notify.AssertNotCalled(t, "SendAsync")
}

func TestExecuteMonthlyLimit(t *testing.T) {
	bookingRepository := new(MockBookingRepository)
	slotRepository := new(MockSlotRepository)
	guard := new(MockMonthlyGuard)
	catalog := new(MockCatalogClient)
	notify := new(MockNotificationSender)
	audit := new(MockAuditRecorder)

	slot := futureSlot(10)
	slotRepository.On("GetByID", mock.Anything, int64(10)).Return(slot, nil)
	expectActiveCatalog(catalog)
	guard.On("Check", mock.Anything, int64(42), slot.SlotDate, (*int64)(nil)).
		Return(monthlyguard.ErrMonthlyLimit)

	uc := newTestUseCase(bookingRepository, slotRepository, guard, catalog, notify, audit)
	_, err := uc.Execute(context.Background(), &Request{StudentID: 42, SlotID: 10})

	assert.ErrorIs(t, err, ErrMonthlyLimit)
	slotRepository.AssertNotCalled(t, "TryReserve")
}

func TestExecutePastSlot(t *testing.T) {
	bookingRepository := new(MockBookingRepository)
	slotRepository := new(MockSlotRepository)
	guard := new(MockMonthlyGuard)
	catalog := new(MockCatalogClient)
	notify := new(MockNotificationSender)
	audit := new(MockAuditRecorder)

	slot := futureSlot(10)
	pastDate := time.Now().AddDate(0, 0, -1)
	slot.SlotDate = time.Date(pastDate.Year(), pastDate.Month(), pastDate.Day(), 0, 0, 0, 0, time.UTC)
	slotRepository.On("GetByID", mock.Anything, int64(10)).Return(slot, nil)
	expectActiveCatalog(catalog)

	uc := newTestUseCase(bookingRepository, slotRepository, guard, catalog, notify, audit)
	_, err := uc.Execute(context.Background(), &Request{StudentID: 42, SlotID: 10})

	assert.ErrorIs(t, err, ErrPastSlot)
}

func TestExecuteSlotNotFound(t *testing.T) {
	bookingRepository := new(MockBookingRepository)
	slotRepository := new(MockSlotRepository)
	guard := new(MockMonthlyGuard)
	catalog := new(MockCatalogClient)
	notify := new(MockNotificationSender)
	audit := new(MockAuditRecorder)

	slotRepository.On("GetByID", mock.Anything, int64(99)).Return(nil, slotRepo.ErrSlotNotFound)

	uc := newTestUseCase(bookingRepository, slotRepository, guard, catalog, notify, audit)
	_, err := uc.Execute(context.Background(), &Request{StudentID: 42, SlotID: 99})

	assert.ErrorIs(t, err, ErrSlotNotFound)
}

func TestExecuteInvalidInput(t *testing.T) {
	uc := newTestUseCase(
		new(MockBookingRepository),
		new(MockSlotRepository),
		new(MockMonthlyGuard),
		new(MockCatalogClient),
		new(MockNotificationSender),
		new(MockAuditRecorder),
	)

	_, err := uc.Execute(context.Background(), &Request{StudentID: 0, SlotID: 10})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(context.Background(), &Request{StudentID: 42, SlotID: -1})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
