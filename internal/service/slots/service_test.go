package slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/edspace/lesson-booking-service/internal/domain"
	"github.com/edspace/lesson-booking-service/internal/integrations/catalogservice"
	"github.com/edspace/lesson-booking-service/internal/service/slots/models"
	"github.com/edspace/lesson-booking-service/pkg/types"
)

// Mocks

type MockSlotRepository struct {
	mock.Mock
}

func (m *MockSlotRepository) Create(ctx context.Context, slot *domain.Slot) (*domain.Slot, error) {
	args := m.Called(ctx, slot)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Slot), args.Error(1)
}

func (m *MockSlotRepository) GetByID(ctx context.Context, id int64) (*domain.Slot, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Slot), args.Error(1)
}

func (m *MockSlotRepository) GetByBranchAndDate(ctx context.Context, branchID int64, date time.Time) ([]*domain.Slot, error) {
	args := m.Called(ctx, branchID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Slot), args.Error(1)
}

func (m *MockSlotRepository) Deactivate(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
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

type fakeTimeProvider struct {
	now time.Time
}

func (p *fakeTimeProvider) Now() time.Time {
	return p.now
}

type nopLogger struct{}

func (l *nopLogger) Info(format string, v ...interface{})  {}
func (l *nopLogger) Warn(format string, v ...interface{})  {}
func (l *nopLogger) Error(format string, v ...interface{}) {}

// Tests

func TestGetAvailableSlotsFiltersUnavailable(t *testing.T) {
	slotRepository := new(MockSlotRepository)
	catalog := new(MockCatalogClient)
	now := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	svc := NewService(slotRepository, catalog, &fakeTimeProvider{now: now}, &nopLogger{})

	date := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	catalog.On("GetBranch", mock.Anything, int64(1)).
		Return(&catalogservice.Branch{ID: 1, IsActive: true}, nil)

	slots := []*domain.Slot{
		// свободный будущий слот - попадает в ответ
		{ID: 1, BranchID: 1, SlotDate: date, StartTime: types.TimeString("10:00"), EndTime: types.TimeString("11:00"), Capacity: 3, BookedCount: 1, IsActive: true},
		// заполненный
		{ID: 2, BranchID: 1, SlotDate: date, StartTime: types.TimeString("11:00"), EndTime: types.TimeString("12:00"), Capacity: 2, BookedCount: 2, IsActive: true},
		// деактивированный
		{ID: 3, BranchID: 1, SlotDate: date, StartTime: types.TimeString("12:00"), EndTime: types.TimeString("13:00"), Capacity: 3, BookedCount: 0, IsActive: false},
		// уже начался
		{ID: 4, BranchID: 1, SlotDate: date, StartTime: types.TimeString("08:00"), EndTime: types.TimeString("09:00"), Capacity: 3, BookedCount: 0, IsActive: true},
	}
	slotRepository.On("GetByBranchAndDate", mock.Anything, int64(1), date).Return(slots, nil)

	resp, err := svc.GetAvailableSlots(context.Background(), &models.GetAvailableSlotsRequest{BranchID: 1, Date: date})

	require.NoError(t, err)
	require.Equal(t, 1, resp.Total)
	assert.Equal(t, int64(1), resp.Slots[0].ID)
	assert.Equal(t, 2, resp.Slots[0].AvailableSeats)
}

func TestGetAvailableSlotsUnknownBranch(t *testing.T) {
	slotRepository := new(MockSlotRepository)
	catalog := new(MockCatalogClient)
	svc := NewService(slotRepository, catalog, &fakeTimeProvider{now: time.Now()}, &nopLogger{})

	catalog.On("GetBranch", mock.Anything, int64(99)).
		Return(nil, catalogservice.ErrBranchNotFound)

	_, err := svc.GetAvailableSlots(context.Background(), &models.GetAvailableSlotsRequest{BranchID: 99, Date: time.Now()})

	assert.ErrorIs(t, err, ErrBranchNotFound)
	slotRepository.AssertNotCalled(t, "GetByBranchAndDate")
}

func TestCreateSlotSuccess(t *testing.T) {
	slotRepository := new(MockSlotRepository)
	catalog := new(MockCatalogClient)
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	svc := NewService(slotRepository, catalog, &fakeTimeProvider{now: now}, &nopLogger{})

	catalog.On("GetTeacher", mock.Anything, int64(7)).
		Return(&catalogservice.Teacher{ID: 7, BranchID: 1, IsActive: true}, nil)
	catalog.On("GetBranch", mock.Anything, int64(1)).
		Return(&catalogservice.Branch{ID: 1, IsActive: true}, nil)

	created := &domain.Slot{
		ID: 5, BranchID: 1, TeacherID: 7,
		SlotDate:  time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
		StartTime: types.TimeString("10:00"), EndTime: types.TimeString("11:00"),
		Capacity: 3, IsActive: true,
	}
	slotRepository.On("Create", mock.Anything, mock.MatchedBy(func(s *domain.Slot) bool {
		return s.BranchID == 1 && s.TeacherID == 7 && s.Capacity == 3 && s.IsActive && s.BookedCount == 0
	})).Return(created, nil)

	resp, err := svc.CreateSlot(context.Background(), &models.CreateSlotRequest{
		BranchID: 1, TeacherID: 7,
		SlotDate: "2025-06-15", StartTime: "10:00", EndTime: "11:00",
		Capacity: 3, CallerID: 7,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(5), resp.ID)
	assert.Equal(t, 3, resp.AvailableSeats)
	slotRepository.AssertExpectations(t)
}

func TestCreateSlotRejectsInvalidTimes(t *testing.T) {
	svc := NewService(new(MockSlotRepository), new(MockCatalogClient),
		&fakeTimeProvider{now: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)}, &nopLogger{})

	_, err := svc.CreateSlot(context.Background(), &models.CreateSlotRequest{
		BranchID: 1, TeacherID: 7,
		SlotDate: "2025-06-15", StartTime: "11:00", EndTime: "10:00",
		Capacity: 3, CallerID: 7,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.CreateSlot(context.Background(), &models.CreateSlotRequest{
		BranchID: 1, TeacherID: 7,
		SlotDate: "2025-06-15", StartTime: "10:00", EndTime: "11:00",
		Capacity: 0, CallerID: 7,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCreateSlotDeniesForeignBranchTeacher(t *testing.T) {
	slotRepository := new(MockSlotRepository)
	catalog := new(MockCatalogClient)
	svc := NewService(slotRepository, catalog,
		&fakeTimeProvider{now: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)}, &nopLogger{})

	// преподаватель другого филиала
	catalog.On("GetTeacher", mock.Anything, int64(7)).
		Return(&catalogservice.Teacher{ID: 7, BranchID: 2, IsActive: true}, nil)

	_, err := svc.CreateSlot(context.Background(), &models.CreateSlotRequest{
		BranchID: 1, TeacherID: 7,
		SlotDate: "2025-06-15", StartTime: "10:00", EndTime: "11:00",
		Capacity: 3, CallerID: 7,
	})
	assert.ErrorIs(t, err, ErrAccessDenied)
	slotRepository.AssertNotCalled(t, "Create")
}
