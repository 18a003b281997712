package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartOfDay(t *testing.T) {
	ny, err := Location("America/New_York")
	require.NoError(t, err)

	// 03:30 UTC on March 10 is still March 9 in New York.
	ts := time.Date(2024, 3, 10, 3, 30, 0, 0, time.UTC)

	start := StartOfDay(ts, ny)
	assert.Equal(t, 9, start.Day())
	assert.Equal(t, 0, start.Hour())
	assert.Equal(t, "2024-03-09", DayKey(ts, ny))
	assert.Equal(t, "2024-03-10", DayKey(ts, time.UTC))
}

func TestLocation(t *testing.T) {
	loc, err := Location("")
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)

	_, err = Location("Mars/Olympus_Mons")
	assert.Error(t, err)

	a, err := Location("Europe/Madrid")
	require.NoError(t, err)
	b, err := Location("Europe/Madrid")
	require.NoError(t, err)
	assert.Same(t, a, b)
}

func TestFixed(t *testing.T) {
	base := time.Date(2024, 1, 1, 23, 0, 0, 0, time.UTC)
	c := NewFixed(base)
	assert.Equal(t, base, c.Now())

	c.Advance(2 * time.Hour)
	assert.Equal(t, "2024-01-02", DayKey(c.Now(), time.UTC))
}
