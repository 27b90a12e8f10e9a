package roster

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSplitReminderWindowSameDay(t *testing.T) {
	now := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	w := splitReminderWindow(now, 30*time.Minute)

	assert.False(t, w.Split)
	assert.Equal(t, "2024-03-15", w.Day)
	assert.Equal(t, "10:00:00", w.From)
	assert.Equal(t, "10:30:00", w.Until)
	assert.Empty(t, w.NextDay)
}

func TestSplitReminderWindowCrossesMidnight(t *testing.T) {
	now := time.Date(2024, 3, 15, 23, 50, 0, 0, time.UTC)
	w := splitReminderWindow(now, 30*time.Minute)

	assert.True(t, w.Split)
	assert.Equal(t, "2024-03-15", w.Day)
	assert.Equal(t, "23:50:00", w.From)
	assert.Equal(t, "2024-03-16", w.NextDay)
	assert.Equal(t, "00:20:00", w.Until)
}

func TestSplitReminderWindowCrossesMonthBoundary(t *testing.T) {
	now := time.Date(2024, 2, 29, 23, 45, 0, 0, time.UTC)
	w := splitReminderWindow(now, time.Hour)

	assert.True(t, w.Split)
	assert.Equal(t, "2024-02-29", w.Day)
	assert.Equal(t, "2024-03-01", w.NextDay)
	assert.Equal(t, "00:45:00", w.Until)
}

func TestSplitReminderWindowEndingExactlyAtMidnight(t *testing.T) {
	now := time.Date(2024, 3, 15, 23, 30, 0, 0, time.UTC)
	w := splitReminderWindow(now, 30*time.Minute)

	// [23:30, 00:00) of the next day holds no next-day wall-clock
	// times, but the bound itself lands on the next date.
	assert.True(t, w.Split)
	assert.Equal(t, "00:00:00", w.Until)
	assert.Equal(t, "2024-03-16", w.NextDay)
}
