package waitlist

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/edspace/lesson-booking-service/internal/domain"
	bookingRepo "github.com/edspace/lesson-booking-service/internal/infra/storage/booking"
	slotRepo "github.com/edspace/lesson-booking-service/internal/infra/storage/slot"
	waitlistRepo "github.com/edspace/lesson-booking-service/internal/infra/storage/waitlist"
	"github.com/edspace/lesson-booking-service/internal/integrations/catalogservice"
	"github.com/edspace/lesson-booking-service/internal/service/monthlyguard"
	"github.com/edspace/lesson-booking-service/pkg/types"
)

// Mocks

type MockWaitlistRepository struct {
	mock.Mock
}

func (m *MockWaitlistRepository) Create(ctx context.Context, entry *domain.WaitingListEntry) (*domain.WaitingListEntry, error) {
	args := m.Called(ctx, entry)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WaitingListEntry), args.Error(1)
}

func (m *MockWaitlistRepository) GetActiveBySlot(ctx context.Context, slotID int64, now time.Time) ([]*domain.WaitingListEntry, error) {
	args := m.Called(ctx, slotID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.WaitingListEntry), args.Error(1)
}

func (m *MockWaitlistRepository) FindBySlotAndStudent(ctx context.Context, slotID, studentID int64) (*domain.WaitingListEntry, error) {
	args := m.Called(ctx, slotID, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WaitingListEntry), args.Error(1)
}

func (m *MockWaitlistRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockWaitlistRepository) DeleteBySlotAndStudent(ctx context.Context, slotID, studentID int64) (int64, error) {
	args := m.Called(ctx, slotID, studentID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockWaitlistRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
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

func (m *MockSlotRepository) Release(ctx context.Context, slotID int64) error {
	args := m.Called(ctx, slotID)
	return args.Error(0)
}

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

type fakeTxManager struct{}

func (f *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type nopLogger struct{}

func (l *nopLogger) Info(format string, v ...interface{})  {}
func (l *nopLogger) Warn(format string, v ...interface{})  {}
func (l *nopLogger) Error(format string, v ...interface{}) {}

// Helpers

type testEnv struct {
	waitlist *MockWaitlistRepository
	slots    *MockSlotRepository
	bookings *MockBookingRepository
	guard    *MockMonthlyGuard
	catalog  *MockCatalogClient
	notify   *MockNotificationSender
	audit    *MockAuditRecorder
	uc       *UseCase
}

func newTestEnv() *testEnv {
	env := &testEnv{
		waitlist: new(MockWaitlistRepository),
		slots:    new(MockSlotRepository),
		bookings: new(MockBookingRepository),
		guard:    new(MockMonthlyGuard),
		catalog:  new(MockCatalogClient),
		notify:   new(MockNotificationSender),
		audit:    new(MockAuditRecorder),
	}
	env.uc = NewUseCase(env.waitlist, env.slots, env.bookings, env.guard,
		env.catalog, env.notify, env.audit, &fakeTxManager{}, &nopLogger{})
	return env
}

// expectActiveBranch настраивает каталог на активный филиал слота
func (e *testEnv) expectActiveBranch() {
	e.catalog.On("GetBranch", mock.Anything, int64(1)).
		Return(&catalogservice.Branch{ID: 1, IsActive: true}, nil)
}

func futureSlot(booked, capacity int) *domain.Slot {
	futureDate := time.Now().AddDate(0, 0, 14)
	return &domain.Slot{
		ID:          10,
		BranchID:    1,
		TeacherID:   7,
		SlotDate:    time.Date(futureDate.Year(), futureDate.Month(), futureDate.Day(), 0, 0, 0, 0, time.UTC),
		StartTime:   types.TimeString("10:00"),
		EndTime:     types.TimeString("11:00"),
		Capacity:    capacity,
		BookedCount: booked,
		IsActive:    true,
	}
}

// Enqueue

func TestEnqueueSuccess(t *testing.T) {
	env := newTestEnv()
	env.slots.On("GetByID", mock.Anything, int64(10)).Return(futureSlot(3, 3), nil)

	created := &domain.WaitingListEntry{ID: 1, StudentID: 42, SlotID: 10, Priority: 5,
		CreatedAt: time.Now(), ExpiresAt: time.Now().Add(domain.WaitlistEntryTTL)}
	env.waitlist.On("Create", mock.Anything, mock.MatchedBy(func(e *domain.WaitingListEntry) bool {
		return e.StudentID == 42 && e.SlotID == 10 && e.Priority == 5 && !e.ExpiresAt.IsZero()
	})).Return(created, nil)
	env.notify.On("SendAsync", int64(42), mock.Anything, mock.Anything).Return()
	env.audit.On("RecordAsync", int64(42), mock.Anything, int64(1), mock.Anything, mock.Anything, mock.Anything).Return()

	resp, err := env.uc.Enqueue(context.Background(), &EnqueueRequest{StudentID: 42, SlotID: 10, Priority: 5})

	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.EntryID)
	env.waitlist.AssertExpectations(t)
}

func TestEnqueueRejectsSlotWithFreeSeats(t *testing.T) {
	env := newTestEnv()
	env.slots.On("GetByID", mock.Anything, int64(10)).Return(futureSlot(2, 3), nil)

	_, err := env.uc.Enqueue(context.Background(), &EnqueueRequest{StudentID: 42, SlotID: 10, Priority: 5})

	assert.ErrorIs(t, err, ErrSlotNotFull)
	env.waitlist.AssertNotCalled(t, "Create")
}

func TestEnqueueRejectsDuplicate(t *testing.T) {
	env := newTestEnv()
	env.slots.On("GetByID", mock.Anything, int64(10)).Return(futureSlot(3, 3), nil)
	env.waitlist.On("Create", mock.Anything, mock.Anything).Return(nil, waitlistRepo.ErrDuplicateEntry)

	_, err := env.uc.Enqueue(context.Background(), &EnqueueRequest{StudentID: 42, SlotID: 10, Priority: 5})

	assert.ErrorIs(t, err, ErrAlreadyQueued)
}

func TestEnqueueValidatesPriority(t *testing.T) {
	env := newTestEnv()

	_, err := env.uc.Enqueue(context.Background(), &EnqueueRequest{StudentID: 42, SlotID: 10, Priority: 0})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = env.uc.Enqueue(context.Background(), &EnqueueRequest{StudentID: 42, SlotID: 10, Priority: 11})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

// TryPromote

func TestTryPromoteFillsFreedSeats(t *testing.T) {
	env := newTestEnv()
	// два свободных места, три кандидата в порядке приоритета
	slot := futureSlot(1, 3)
	env.slots.On("GetByID", mock.Anything, int64(10)).Return(slot, nil)
	env.expectActiveBranch()

	entries := []*domain.WaitingListEntry{
		{ID: 1, StudentID: 51, SlotID: 10, Priority: 9},
		{ID: 2, StudentID: 52, SlotID: 10, Priority: 5},
		{ID: 3, StudentID: 53, SlotID: 10, Priority: 5},
	}
	env.waitlist.On("GetActiveBySlot", mock.Anything, int64(10), mock.Anything).Return(entries, nil)

	env.guard.On("Check", mock.Anything, mock.Anything, slot.SlotDate, (*int64)(nil)).Return(nil)
	env.slots.On("TryReserve", mock.Anything, int64(10)).Return(nil).Twice()
	env.slots.On("TryReserve", mock.Anything, int64(10)).Return(slotRepo.ErrSlotFull).Once()

	env.bookings.On("Create", mock.Anything, mock.MatchedBy(func(b *domain.Booking) bool {
		return b.StudentID == 51
	})).Return(&domain.Booking{ID: 201, StudentID: 51, SlotID: 10, Status: domain.StatusConfirmed}, nil)
	env.bookings.On("Create", mock.Anything, mock.MatchedBy(func(b *domain.Booking) bool {
		return b.StudentID == 52
	})).Return(&domain.Booking{ID: 202, StudentID: 52, SlotID: 10, Status: domain.StatusConfirmed}, nil)

	env.waitlist.On("Delete", mock.Anything, int64(1)).Return(nil)
	env.waitlist.On("Delete", mock.Anything, int64(2)).Return(nil)
	env.notify.On("SendAsync", mock.Anything, mock.Anything, mock.Anything).Return()
	env.audit.On("RecordAsync", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return()

	promoted, err := env.uc.TryPromote(context.Background(), 10)

	require.NoError(t, err)
	require.Len(t, promoted, 2)
	assert.Equal(t, int64(51), promoted[0].StudentID)
	assert.Equal(t, int64(52), promoted[1].StudentID)
	// третий кандидат остался в очереди
	env.waitlist.AssertNotCalled(t, "Delete", mock.Anything, int64(3))
}

func TestTryPromoteDropsMonthlyLimitViolator(t *testing.T) {
	env := newTestEnv()
	slot := futureSlot(2, 3)
	env.slots.On("GetByID", mock.Anything, int64(10)).Return(slot, nil)
	env.expectActiveBranch()

	entries := []*domain.WaitingListEntry{
		{ID: 1, StudentID: 51, SlotID: 10, Priority: 9},
		{ID: 2, StudentID: 52, SlotID: 10, Priority: 5},
	}
	env.waitlist.On("GetActiveBySlot", mock.Anything, int64(10), mock.Anything).Return(entries, nil)

	// первый кандидат уже занят в этом месяце: его запись удаляется,
	// место достаётся второму
	env.guard.On("Check", mock.Anything, int64(51), slot.SlotDate, (*int64)(nil)).
		Return(monthlyguard.ErrMonthlyLimit)
	env.guard.On("Check", mock.Anything, int64(52), slot.SlotDate, (*int64)(nil)).Return(nil)

	env.slots.On("TryReserve", mock.Anything, int64(10)).Return(nil)
	env.bookings.On("Create", mock.Anything, mock.Anything).
		Return(&domain.Booking{ID: 202, StudentID: 52, SlotID: 10, Status: domain.StatusConfirmed}, nil)
	env.waitlist.On("Delete", mock.Anything, int64(1)).Return(nil)
	env.waitlist.On("Delete", mock.Anything, int64(2)).Return(nil)
	env.notify.On("SendAsync", mock.Anything, mock.Anything, mock.Anything).Return()
	env.audit.On("RecordAsync", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return()

	promoted, err := env.uc.TryPromote(context.Background(), 10)

	require.NoError(t, err)
	require.Len(t, promoted, 1)
	assert.Equal(t, int64(52), promoted[0].StudentID)
	env.waitlist.AssertCalled(t, "Delete", mock.Anything, int64(1))
	env.bookings.AssertNumberOfCalls(t, "Create", 1)
}

func TestTryPromoteRemovesStaleEntry(t *testing.T) {
	env := newTestEnv()
	slot := futureSlot(2, 3)
	env.slots.On("GetByID", mock.Anything, int64(10)).Return(slot, nil)
	env.expectActiveBranch()

	entries := []*domain.WaitingListEntry{
		{ID: 1, StudentID: 51, SlotID: 10, Priority: 9},
	}
	env.waitlist.On("GetActiveBySlot", mock.Anything, int64(10), mock.Anything).Return(entries, nil)
	env.guard.On("Check", mock.Anything, int64(51), slot.SlotDate, (*int64)(nil)).Return(nil)
	env.slots.On("TryReserve", mock.Anything, int64(10)).Return(nil)

	// у студента уже есть бронирование слота - запись устарела
	env.bookings.On("Create", mock.Anything, mock.Anything).Return(nil, bookingRepo.ErrDuplicateBooking)
	env.slots.On("Release", mock.Anything, int64(10)).Return(nil)
	env.waitlist.On("Delete", mock.Anything, int64(1)).Return(nil)

	promoted, err := env.uc.TryPromote(context.Background(), 10)

	require.NoError(t, err)
	assert.Empty(t, promoted)
	env.slots.AssertCalled(t, "Release", mock.Anything, int64(10))
	env.waitlist.AssertCalled(t, "Delete", mock.Anything, int64(1))
}

func TestTryPromoteNoopOnSlotWithoutFreeSeats(t *testing.T) {
	env := newTestEnv()
	env.slots.On("GetByID", mock.Anything, int64(10)).Return(futureSlot(3, 3), nil)

	promoted, err := env.uc.TryPromote(context.Background(), 10)

	require.NoError(t, err)
	assert.Empty(t, promoted)
	env.waitlist.AssertNotCalled(t, "GetActiveBySlot")
}

func TestTryPromoteSkipsSlotInInactiveBranch(t *testing.T) {
	env := newTestEnv()
	env.slots.On("GetByID", mock.Anything, int64(10)).Return(futureSlot(1, 3), nil)
	env.catalog.On("GetBranch", mock.Anything, int64(1)).
		Return(&catalogservice.Branch{ID: 1, IsActive: false}, nil)

	promoted, err := env.uc.TryPromote(context.Background(), 10)

	require.NoError(t, err)
	assert.Empty(t, promoted)
	env.waitlist.AssertNotCalled(t, "GetActiveBySlot")
	env.slots.AssertNotCalled(t, "TryReserve")
}

// Remove

func TestRemoveDeletesEntry(t *testing.T) {
	env := newTestEnv()
	env.waitlist.On("DeleteBySlotAndStudent", mock.Anything, int64(10), int64(42)).
		Return(int64(5), nil)
	env.audit.On("RecordAsync", int64(42), mock.Anything, int64(5), mock.Anything, mock.Anything, mock.Anything).Return()

	err := env.uc.Remove(context.Background(), &RemoveRequest{StudentID: 42, SlotID: 10})

	require.NoError(t, err)
	env.waitlist.AssertExpectations(t)
	env.audit.AssertExpectations(t)
}

func TestRemoveUnknownEntry(t *testing.T) {
	env := newTestEnv()
	env.waitlist.On("DeleteBySlotAndStudent", mock.Anything, int64(10), int64(42)).
		Return(int64(0), waitlistRepo.ErrEntryNotFound)

	err := env.uc.Remove(context.Background(), &RemoveRequest{StudentID: 42, SlotID: 10})

	assert.ErrorIs(t, err, ErrEntryNotFound)
	env.audit.AssertNotCalled(t, "RecordAsync")
}

// ConvertToBooking

func TestConvertCreatesBooking(t *testing.T) {
	env := newTestEnv()
	slot := futureSlot(3, 3)
	env.slots.On("GetByID", mock.Anything, int64(10)).Return(slot, nil)
	env.expectActiveBranch()
	env.catalog.On("GetTeacher", mock.Anything, int64(77)).
		Return(&catalogservice.Teacher{ID: 77, BranchID: 1, IsActive: true}, nil)

	entry := &domain.WaitingListEntry{ID: 5, StudentID: 42, SlotID: 10, Priority: 5}
	env.waitlist.On("FindBySlotAndStudent", mock.Anything, int64(10), int64(42)).Return(entry, nil)
	env.guard.On("Check", mock.Anything, int64(42), slot.SlotDate, (*int64)(nil)).Return(nil)
	env.slots.On("TryReserve", mock.Anything, int64(10)).Return(nil)
	env.bookings.On("Create", mock.Anything, mock.Anything).
		Return(&domain.Booking{ID: 301, StudentID: 42, SlotID: 10, Status: domain.StatusConfirmed}, nil)
	env.waitlist.On("Delete", mock.Anything, int64(5)).Return(nil)
	env.notify.On("SendAsync", int64(42), mock.Anything, mock.Anything).Return()
	env.audit.On("RecordAsync", int64(77), mock.Anything, int64(301), mock.Anything, mock.Anything, mock.Anything).Return()

	resp, err := env.uc.ConvertToBooking(context.Background(), &ConvertRequest{CallerID: 77, StudentID: 42, SlotID: 10})

	require.NoError(t, err)
	assert.Equal(t, int64(301), resp.BookingID)
	env.waitlist.AssertCalled(t, "Delete", mock.Anything, int64(5))
}

func TestConvertRejectsInactiveBranch(t *testing.T) {
	env := newTestEnv()
	env.slots.On("GetByID", mock.Anything, int64(10)).Return(futureSlot(3, 3), nil)
	env.catalog.On("GetBranch", mock.Anything, int64(1)).
		Return(&catalogservice.Branch{ID: 1, IsActive: false}, nil)

	_, err := env.uc.ConvertToBooking(context.Background(), &ConvertRequest{CallerID: 77, StudentID: 42, SlotID: 10})

	assert.ErrorIs(t, err, ErrBranchNotFound)
	env.catalog.AssertNotCalled(t, "GetTeacher")
	env.slots.AssertNotCalled(t, "TryReserve")
}

func TestConvertRejectsInactiveServiceType(t *testing.T) {
	env := newTestEnv()
	serviceTypeID := int64(3)
	slot := futureSlot(3, 3)
	slot.ServiceTypeID = &serviceTypeID
	env.slots.On("GetByID", mock.Anything, int64(10)).Return(slot, nil)
	env.expectActiveBranch()
	env.catalog.On("GetServiceType", mock.Anything, int64(3)).
		Return(&catalogservice.ServiceType{ID: 3, IsActive: false}, nil)

	_, err := env.uc.ConvertToBooking(context.Background(), &ConvertRequest{CallerID: 77, StudentID: 42, SlotID: 10})

	assert.ErrorIs(t, err, ErrServiceTypeNotFound)
	env.slots.AssertNotCalled(t, "TryReserve")
}

// Sweep

func TestSweepDeletesExpiredEntries(t *testing.T) {
	env := newTestEnv()
	env.waitlist.On("DeleteExpired", mock.Anything, mock.Anything).Return(int64(3), nil)

	removed, err := env.uc.Sweep(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(3), removed)
}
