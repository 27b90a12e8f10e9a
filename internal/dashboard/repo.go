package dashboard

import (
	"context"
	"database/sql"
	"time"

	"classtrack/internal/roster"
)

// SQLRepository runs the aggregation against Postgres.
type SQLRepository struct {
	db     *sql.DB
	roster *roster.Repository
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB, rosterRepo *roster.Repository) *SQLRepository {
	return &SQLRepository{db: db, roster: rosterRepo}
}

// statsQuery computes every rollup in one pass over the window.
const statsQuery = `
WITH session_stats AS (
	SELECT
		COUNT(*) AS total_sessions,
		COUNT(*) FILTER (WHERE status = 'completed') AS completed_sessions,
		COALESCE(AVG(attendance_count * 100.0 / total_students)
			FILTER (WHERE status = 'completed' AND total_students > 0), -1) AS avg_attendance,
		COUNT(DISTINCT class_id) AS active_classes,
		COUNT(*) FILTER (WHERE date = $2) AS today_total,
		COUNT(*) FILTER (WHERE date = $2 AND status = 'completed') AS today_completed,
		COUNT(*) FILTER (WHERE date >= $4 AND date <= $2) AS week_total,
		COUNT(*) FILTER (WHERE date >= $4 AND date <= $2 AND status = 'completed') AS week_completed
	FROM class_sessions
	WHERE created_by = $1 AND date >= $3 AND date <= $2
),
student_stats AS (
	SELECT COUNT(DISTINCT a.student_id) AS total_students
	FROM attendance a
	JOIN class_sessions cs ON cs.session_id = a.session_id
	WHERE cs.created_by = $1 AND cs.date >= $3 AND cs.date <= $2
)
SELECT ss.total_sessions, ss.completed_sessions, ss.avg_attendance,
       ss.active_classes, st.total_students,
       ss.today_total, ss.today_completed, ss.week_total, ss.week_completed
FROM session_stats ss, student_stats st
`

// StatsRow runs the aggregation for one instructor.
func (r *SQLRepository) StatsRow(ctx context.Context, instructorID string, asOf time.Time, days int) (Row, error) {
	cutoff := asOf.AddDate(0, 0, -days)
	weekStart := WeekStart(asOf)

	var row Row
	err := r.db.QueryRowContext(ctx, statsQuery, instructorID, asOf, cutoff, weekStart).Scan(
		&row.TotalSessions, &row.CompletedSessions, &row.AvgAttendance,
		&row.ActiveClasses, &row.TotalStudents,
		&row.TodayTotal, &row.TodayComplete, &row.WeekTotal, &row.WeekComplete,
	)
	return row, err
}

// SessionsOn delegates to the roster repository.
func (r *SQLRepository) SessionsOn(ctx context.Context, instructorID string, date time.Time) ([]roster.Session, error) {
	return r.roster.SessionsOn(ctx, instructorID, date)
}
