package policy

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edspace/lesson-booking-service/internal/domain"
	"github.com/edspace/lesson-booking-service/pkg/types"
)

type fakeTimeProvider struct {
	now time.Time
}

func (p *fakeTimeProvider) Now() time.Time {
	return p.now
}

func slotStartingAt(start time.Time) *domain.Slot {
	return &domain.Slot{
		SlotDate:  time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location()),
		StartTime: types.NewTimeString(start),
	}
}

func TestCheckAllowsWellBeforeWindow(t *testing.T) {
	start := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	tp := &fakeTimeProvider{now: start.Add(-48 * time.Hour)}
	engine := NewEngineWithTimeProvider(tp)

	assert.NoError(t, engine.Check(slotStartingAt(start)))

	ok, err := engine.CanCancelOrReschedule(slotStartingAt(start))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCheckRejectsExactly24HoursBefore(t *testing.T) {
	start := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	// ровно 24 часа до начала - уже поздно, требуется строго больше
	tp := &fakeTimeProvider{now: start.Add(-24 * time.Hour)}
	engine := NewEngineWithTimeProvider(tp)

	err := engine.Check(slotStartingAt(start))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCancellationWindow)

	var violation *WindowViolationError
	require.True(t, errors.As(err, &violation))
	assert.InDelta(t, 24.0, violation.RemainingHours, 0.01)
}

func TestCheckAllowsJustOutsideWindow(t *testing.T) {
	start := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	tp := &fakeTimeProvider{now: start.Add(-24*time.Hour - time.Minute)}
	engine := NewEngineWithTimeProvider(tp)

	assert.NoError(t, engine.Check(slotStartingAt(start)))
}

func TestCheckReportsZeroRemainingAfterStart(t *testing.T) {
	start := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	tp := &fakeTimeProvider{now: start.Add(2 * time.Hour)}
	engine := NewEngineWithTimeProvider(tp)

	err := engine.Check(slotStartingAt(start))
	require.Error(t, err)

	var violation *WindowViolationError
	require.True(t, errors.As(err, &violation))
	assert.Equal(t, 0.0, violation.RemainingHours)
}
