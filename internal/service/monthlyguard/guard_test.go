package monthlyguard

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) CountActiveInMonth(ctx context.Context, studentID int64, monthStart, monthEnd time.Time, excludeBookingID *int64) (int, error) {
	args := m.Called(ctx, studentID, monthStart, monthEnd, excludeBookingID)
	return args.Int(0), args.Error(1)
}

type nopLogger struct{}

func (l *nopLogger) Info(format string, v ...interface{})  {}
func (l *nopLogger) Warn(format string, v ...interface{})  {}
func (l *nopLogger) Error(format string, v ...interface{}) {}

func TestCheckAllowsFirstBookingInMonth(t *testing.T) {
	repo := new(MockBookingRepository)
	guard := NewGuard(repo, false, &nopLogger{})

	slotDate := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	monthStart := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	monthEnd := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)

	repo.On("CountActiveInMonth", mock.Anything, int64(42), monthStart, monthEnd, (*int64)(nil)).
		Return(0, nil)

	err := guard.Check(context.Background(), 42, slotDate, nil)
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestCheckRejectsSecondBookingInMonth(t *testing.T) {
	repo := new(MockBookingRepository)
	guard := NewGuard(repo, false, &nopLogger{})

	slotDate := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	repo.On("CountActiveInMonth", mock.Anything, int64(42), mock.Anything, mock.Anything, (*int64)(nil)).
		Return(1, nil)

	err := guard.Check(context.Background(), 42, slotDate, nil)
	assert.ErrorIs(t, err, ErrMonthlyLimit)
}

func TestCheckSkippedWhenMultipleAllowed(t *testing.T) {
	repo := new(MockBookingRepository)
	guard := NewGuard(repo, true, &nopLogger{})

	err := guard.Check(context.Background(), 42, time.Now(), nil)
	require.NoError(t, err)
	repo.AssertNotCalled(t, "CountActiveInMonth")
}

func TestCheckPassesExcludedBooking(t *testing.T) {
	repo := new(MockBookingRepository)
	guard := NewGuard(repo, false, &nopLogger{})

	excludeID := int64(7)
	slotDate := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	repo.On("CountActiveInMonth", mock.Anything, int64(42), mock.Anything, mock.Anything, &excludeID).
		Return(0, nil)

	err := guard.Check(context.Background(), 42, slotDate, &excludeID)
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestMonthBoundsDecember(t *testing.T) {
	start, end := monthBounds(time.Date(2025, 12, 20, 15, 30, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC), end)
}
