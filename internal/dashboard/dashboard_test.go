package dashboard

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"classtrack/internal/roster"
)

type memRepo struct {
	row      Row
	sessions []roster.Session
	queries  int
}

func (m *memRepo) StatsRow(_ context.Context, _ string, _ time.Time, _ int) (Row, error) {
	m.queries++
	return m.row, nil
}

func (m *memRepo) SessionsOn(_ context.Context, _ string, _ time.Time) ([]roster.Session, error) {
	return m.sessions, nil
}

type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemCache() *memCache { return &memCache{data: make(map[string][]byte)} }

func (c *memCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.data[key], nil
}

func (c *memCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

var sampleRow = Row{
	TotalSessions:     20,
	CompletedSessions: 15,
	AvgAttendance:     82.456,
	ActiveClasses:     4,
	TotalStudents:     57,
	TodayTotal:        3,
	TodayComplete:     1,
	WeekTotal:         8,
	WeekComplete:      6,
}

func TestStatsDerivation(t *testing.T) {
	repo := &memRepo{row: sampleRow}
	agg := NewAggregator(repo, nil, time.Minute)

	got, err := agg.Stats(context.Background(), "i-1", time.Now(), false)
	require.NoError(t, err)

	assert.Equal(t, 20, got.TotalSessions)
	assert.Equal(t, 15, got.CompletedSessions)
	assert.Equal(t, 75.0, got.CompletionRate)
	assert.Equal(t, 82.46, got.AverageAttendance)
	assert.Equal(t, 4, got.ActiveClasses)
	assert.Equal(t, 57, got.TotalStudents)
	assert.Equal(t, 30, got.PeriodDays)
	assert.Equal(t, DayBreakdown{Total: 3, Completed: 1, Pending: 2}, got.Today)
	assert.Equal(t, WeekBreakdown{Total: 8, Completed: 6, CompletionRate: 75.0}, got.ThisWeek)
}

func TestStatsEmptyWindow(t *testing.T) {
	// No completed sessions with nonzero enrollment: average must be
	// zero, not a division error.
	repo := &memRepo{row: Row{AvgAttendance: -1}}
	agg := NewAggregator(repo, nil, time.Minute)

	got, err := agg.Stats(context.Background(), "i-1", time.Now(), false)
	require.NoError(t, err)
	assert.Zero(t, got.AverageAttendance)
	assert.Zero(t, got.CompletionRate)
	assert.Zero(t, got.ThisWeek.CompletionRate)
}

func TestStatsCacheIsPureMemo(t *testing.T) {
	ctx := context.Background()
	asOf := time.Date(2024, time.June, 5, 0, 0, 0, 0, time.UTC)

	uncachedRepo := &memRepo{row: sampleRow}
	uncached, err := NewAggregator(uncachedRepo, nil, time.Minute).Stats(ctx, "i-1", asOf, false)
	require.NoError(t, err)

	cachedRepo := &memRepo{row: sampleRow}
	agg := NewAggregator(cachedRepo, newMemCache(), time.Minute)

	first, err := agg.Stats(ctx, "i-1", asOf, false)
	require.NoError(t, err)
	second, err := agg.Stats(ctx, "i-1", asOf, false)
	require.NoError(t, err)

	// Cached and uncached paths return identical statistics.
	assert.Equal(t, uncached, first)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, cachedRepo.queries, "second call must come from cache")
}

func TestStatsForceBypassesCache(t *testing.T) {
	ctx := context.Background()
	asOf := time.Date(2024, time.June, 5, 0, 0, 0, 0, time.UTC)
	repo := &memRepo{row: sampleRow}
	agg := NewAggregator(repo, newMemCache(), time.Minute)

	_, err := agg.Stats(ctx, "i-1", asOf, false)
	require.NoError(t, err)
	_, err = agg.Stats(ctx, "i-1", asOf, true)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.queries)
}

func TestStatsCacheKeyVariesByInstructorAndDate(t *testing.T) {
	ctx := context.Background()
	repo := &memRepo{row: sampleRow}
	agg := NewAggregator(repo, newMemCache(), time.Minute)

	asOf := time.Date(2024, time.June, 5, 0, 0, 0, 0, time.UTC)
	_, err := agg.Stats(ctx, "i-1", asOf, false)
	require.NoError(t, err)
	_, err = agg.Stats(ctx, "i-2", asOf, false)
	require.NoError(t, err)
	_, err = agg.Stats(ctx, "i-1", asOf.AddDate(0, 0, 1), false)
	require.NoError(t, err)
	assert.Equal(t, 3, repo.queries)
}

func TestWeekStart(t *testing.T) {
	// 2024-06-05 is a Wednesday; the week began Monday 2024-06-03.
	wed := time.Date(2024, time.June, 5, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, time.June, 3, 0, 0, 0, 0, time.UTC), WeekStart(wed))

	mon := time.Date(2024, time.June, 3, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, mon, WeekStart(mon))

	sun := time.Date(2024, time.June, 9, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, mon, WeekStart(sun))
}

func TestSessionState(t *testing.T) {
	at := func(hhmm string) time.Time {
		parsed, err := time.Parse("15:04", hhmm)
		require.NoError(t, err)
		return time.Date(2024, time.June, 5, parsed.Hour(), parsed.Minute(), 0, 0, time.UTC)
	}

	base := roster.Session{StartTime: "10:00", EndTime: "11:30", Status: roster.StatusScheduled}

	tests := []struct {
		name    string
		session roster.Session
		now     time.Time
		want    string
	}{
		{"before start", base, at("09:15"), StateUpcoming},
		{"during window", base, at("10:30"), StateReadyToStart},
		{"after end", base, at("12:00"), StateMissed},
		{"ongoing wins", roster.Session{StartTime: "10:00", EndTime: "11:30", Status: roster.StatusOngoing}, at("09:00"), StateInProgress},
		{"completed wins", roster.Session{StartTime: "10:00", EndTime: "11:30", Status: roster.StatusCompleted}, at("10:30"), StateCompleted},
		{"cancelled", roster.Session{StartTime: "10:00", EndTime: "11:30", Status: roster.StatusCancelled}, at("10:30"), StateCancelled},
		{"dismissed", roster.Session{StartTime: "10:00", EndTime: "11:30", Status: roster.StatusDismissed}, at("10:30"), StateCancelled},
		{"bad times", roster.Session{StartTime: "", EndTime: "", Status: roster.StatusScheduled}, at("10:30"), StateUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SessionState(tt.session, tt.now))
		})
	}
}

func TestTodaySessionsAttachState(t *testing.T) {
	repo := &memRepo{sessions: []roster.Session{
		{ID: "s-1", StartTime: "09:00", EndTime: "10:00", Status: roster.StatusCompleted, AttendanceCount: 18, TotalStudents: 24},
		{ID: "s-2", StartTime: "14:00", EndTime: "15:30", Status: roster.StatusScheduled},
	}}
	agg := NewAggregator(repo, nil, time.Minute)

	now := time.Date(2024, time.June, 5, 12, 0, 0, 0, time.UTC)
	views, err := agg.TodaySessions(context.Background(), "i-1", now, now)
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, StateCompleted, views[0].State)
	assert.Equal(t, 75.0, views[0].AttendancePercentage)
	assert.Equal(t, StateUpcoming, views[1].State)
	assert.Zero(t, views[1].AttendancePercentage)
}
