package dbtime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClock(t *testing.T) {
	assert.True(t, EndsAfter("07:00", "08:00"))
	assert.False(t, EndsAfter("08:00", "08:00"))
	assert.False(t, EndsAfter("bad", "08:00"))

	assert.True(t, Overlaps("07:00", "09:00", "08:30", "10:00"))
	assert.False(t, Overlaps("07:00", "08:00", "08:00", "09:00"), "touching slots do not overlap")

	c, err := ParseClock(" 06:05 ")
	require.NoError(t, err)
	assert.Equal(t, "06:05", c.String())
}

func TestDates(t *testing.T) {
	d, err := ParseDatePtr("")
	require.NoError(t, err)
	assert.Nil(t, d)

	d, err = ParseDatePtr("2026-10-19")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC), *d)

	_, err = ParseDate("19/10/2026")
	assert.Error(t, err)

	assert.Equal(t, time.UTC, LoadLocation("Not/AZone"))
	assert.Equal(t, time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC), StartOfMonth(time.Date(2026, 10, 19, 15, 0, 0, 0, time.UTC)))
}
