package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"time"

	"classtrack/internal/roster"
)

// Stats is the rollup for one instructor over a trailing window.
type Stats struct {
	TotalSessions     int     `json:"total_sessions"`
	CompletedSessions int     `json:"completed_sessions"`
	CompletionRate    float64 `json:"completion_rate"`
	AverageAttendance float64 `json:"average_attendance"`
	TotalStudents     int     `json:"total_students"`
	ActiveClasses     int     `json:"active_classes"`
	PeriodDays        int     `json:"period_days"`
	Today             DayBreakdown  `json:"today"`
	ThisWeek          WeekBreakdown `json:"this_week"`
}

// DayBreakdown is the same-day subtotal.
type DayBreakdown struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Pending   int `json:"pending"`
}

// WeekBreakdown is the current-week subtotal. The week starts Monday.
type WeekBreakdown struct {
	Total          int     `json:"total"`
	Completed      int     `json:"completed"`
	CompletionRate float64 `json:"completion_rate"`
}

// Row is the raw result of the aggregation query.
type Row struct {
	TotalSessions     int
	CompletedSessions int
	// AvgAttendance is negative when no completed session with nonzero
	// enrollment exists in the window.
	AvgAttendance float64
	ActiveClasses int
	TotalStudents int
	TodayTotal    int
	TodayComplete int
	WeekTotal     int
	WeekComplete  int
}

// Repository runs the aggregation query.
type Repository interface {
	StatsRow(ctx context.Context, instructorID string, asOf time.Time, days int) (Row, error)
	SessionsOn(ctx context.Context, instructorID string, date time.Time) ([]roster.Session, error)
}

// Cache memoizes computed stats. A nil Cache disables memoization
// without changing results.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Aggregator computes dashboard statistics with optional caching.
type Aggregator struct {
	repo  Repository
	cache Cache
	ttl   time.Duration
	days  int
}

// NewAggregator creates an aggregator over a trailing 30-day window.
// cache may be nil.
func NewAggregator(repo Repository, cache Cache, ttl time.Duration) *Aggregator {
	return &Aggregator{repo: repo, cache: cache, ttl: ttl, days: 30}
}

// Stats returns the rollup for an instructor as of a date. force
// bypasses the cache. Cache failures degrade to a recompute.
func (a *Aggregator) Stats(ctx context.Context, instructorID string, asOf time.Time, force bool) (Stats, error) {
	asOf = asOf.UTC().Truncate(24 * time.Hour)
	key := fmt.Sprintf("dashboard:stats:%s:%s", instructorID, asOf.Format("2006-01-02"))

	if a.cache != nil && !force {
		if raw, err := a.cache.Get(ctx, key); err == nil && raw != nil {
			var cached Stats
			if err := json.Unmarshal(raw, &cached); err == nil {
				return cached, nil
			}
		}
	}

	row, err := a.repo.StatsRow(ctx, instructorID, asOf, a.days)
	if err != nil {
		return Stats{}, err
	}
	stats := build(row, a.days)

	if a.cache != nil {
		if raw, err := json.Marshal(stats); err == nil {
			if err := a.cache.Set(ctx, key, raw, a.ttl); err != nil {
				log.Printf("dashboard cache set failed for %s: %v", key, err)
			}
		}
	}
	return stats, nil
}

// TodaySessions returns an instructor's sessions for a date with a
// derived state attached.
func (a *Aggregator) TodaySessions(ctx context.Context, instructorID string, date, now time.Time) ([]SessionView, error) {
	sessions, err := a.repo.SessionsOn(ctx, instructorID, date)
	if err != nil {
		return nil, err
	}
	views := make([]SessionView, 0, len(sessions))
	for _, s := range sessions {
		views = append(views, SessionView{
			Session:              s,
			State:                SessionState(s, now),
			AttendancePercentage: percentage(s.AttendanceCount, s.TotalStudents),
		})
	}
	return views, nil
}

// build derives the public stats from one query row.
func build(row Row, days int) Stats {
	avg := row.AvgAttendance
	if avg < 0 {
		avg = 0
	}
	return Stats{
		TotalSessions:     row.TotalSessions,
		CompletedSessions: row.CompletedSessions,
		CompletionRate:    percentage(row.CompletedSessions, row.TotalSessions),
		AverageAttendance: round2(avg),
		TotalStudents:     row.TotalStudents,
		ActiveClasses:     row.ActiveClasses,
		PeriodDays:        days,
		Today: DayBreakdown{
			Total:     row.TodayTotal,
			Completed: row.TodayComplete,
			Pending:   row.TodayTotal - row.TodayComplete,
		},
		ThisWeek: WeekBreakdown{
			Total:          row.WeekTotal,
			Completed:      row.WeekComplete,
			CompletionRate: percentage(row.WeekComplete, row.WeekTotal),
		},
	}
}

// WeekStart returns the Monday of d's week.
func WeekStart(d time.Time) time.Time {
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}

func percentage(part, whole int) float64 {
	if whole <= 0 {
		return 0
	}
	return round2(float64(part) * 100 / float64(whole))
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
