package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeStringFromString(t *testing.T) {
	ts, err := NewTimeStringFromString("10:30")
	require.NoError(t, err)
	assert.Equal(t, "10:30", ts.String())

	_, err = NewTimeStringFromString("25:00")
	assert.ErrorIs(t, err, ErrInvalidTimeFormat)

	_, err = NewTimeStringFromString("1030")
	assert.ErrorIs(t, err, ErrInvalidTimeFormat)

	_, err = NewTimeStringFromString("")
	assert.ErrorIs(t, err, ErrInvalidTimeFormat)
}

func TestTimeStringOnDate(t *testing.T) {
	ts := TimeString("14:45")
	date := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	combined, err := ts.OnDate(date)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 10, 14, 45, 0, 0, time.UTC), combined)
}

func TestTimeStringComparison(t *testing.T) {
	assert.True(t, TimeString("09:00").IsBefore("10:30"))
	assert.False(t, TimeString("10:30").IsBefore("10:30"))
	assert.True(t, TimeString("18:00").IsAfter("09:15"))
}

func TestTimeStringAddMinutes(t *testing.T) {
	ts := TimeString("10:30")

	shifted, err := ts.AddMinutes(45)
	require.NoError(t, err)
	assert.Equal(t, TimeString("11:15"), shifted)
}

func TestTimeStringScan(t *testing.T) {
	var ts TimeString

	// Postgres TIME приходит с секундами
	require.NoError(t, ts.Scan("10:30:00"))
	assert.Equal(t, TimeString("10:30"), ts)

	require.NoError(t, ts.Scan([]byte("08:15")))
	assert.Equal(t, TimeString("08:15"), ts)

	require.NoError(t, ts.Scan(nil))
	assert.True(t, ts.IsZero())

	assert.Error(t, ts.Scan(42))
}
