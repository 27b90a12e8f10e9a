package roster

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Repository persists roster data in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// InstructorByID returns one instructor or nil when absent.
func (r *Repository) InstructorByID(ctx context.Context, instructorID string) (*Instructor, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT instructor_id, name, email, password_hash, created_at
		FROM instructors WHERE instructor_id = $1
	`, instructorID)
	var in Instructor
	if err := row.Scan(&in.ID, &in.Name, &in.Email, &in.PasswordHash, &in.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &in, nil
}

// SessionOwner returns the creating instructor of a session, or "" when
// the session does not exist.
func (r *Repository) SessionOwner(ctx context.Context, sessionID string) (string, error) {
	var owner string
	err := r.db.QueryRowContext(ctx,
		`SELECT created_by FROM class_sessions WHERE session_id = $1`, sessionID).Scan(&owner)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return owner, err
}

// InstructorAssigned reports whether an instructor is assigned to a class.
func (r *Repository) InstructorAssigned(ctx context.Context, classID, instructorID string) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, `
		SELECT 1 FROM class_instructors WHERE class_id = $1 AND instructor_id = $2
	`, classID, instructorID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

// ClassByID fetches one class, or nil when it does not exist.
func (r *Repository) ClassByID(ctx context.Context, classID string) (*Class, error) {
	var cls Class
	err := r.db.QueryRowContext(ctx, `
		SELECT class_id, class_name, created_at FROM classes WHERE class_id = $1
	`, classID).Scan(&cls.ID, &cls.Name, &cls.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cls, nil
}

// ClassSessions returns every session of one class ordered by date and
// start time.
func (r *Repository) ClassSessions(ctx context.Context, classID string) ([]Session, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT s.session_id, s.class_id, c.class_name, s.created_by, s.date,
		       to_char(s.start_time, 'HH24:MI'), to_char(s.end_time, 'HH24:MI'),
		       s.status, s.attendance_count, s.total_students, s.created_at
		FROM class_sessions s
		JOIN classes c ON c.class_id = s.class_id
		WHERE s.class_id = $1
		ORDER BY s.date, s.start_time
	`, classID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSessions(rows)
}

// SessionByID fetches a single session with its class name, or nil when
// the session does not exist.
func (r *Repository) SessionByID(ctx context.Context, sessionID string) (*Session, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT s.session_id, s.class_id, c.class_name, s.created_by, s.date,
		       to_char(s.start_time, 'HH24:MI'), to_char(s.end_time, 'HH24:MI'),
		       s.status, s.attendance_count, s.total_students, s.created_at
		FROM class_sessions s
		JOIN classes c ON c.class_id = s.class_id
		WHERE s.session_id = $1
	`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	sessions, err := scanSessions(rows)
	if err != nil || len(sessions) == 0 {
		return nil, err
	}
	return &sessions[0], nil
}

// SessionsOn returns an instructor's sessions for one date ordered by
// start time, with class names joined in.
func (r *Repository) SessionsOn(ctx context.Context, instructorID string, date time.Time) ([]Session, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT s.session_id, s.class_id, c.class_name, s.created_by, s.date,
		       to_char(s.start_time, 'HH24:MI'), to_char(s.end_time, 'HH24:MI'),
		       s.status, s.attendance_count, s.total_students, s.created_at
		FROM class_sessions s
		JOIN classes c ON c.class_id = s.class_id
		WHERE s.created_by = $1 AND s.date = $2
		ORDER BY s.start_time
	`, instructorID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSessions(rows)
}

// reminderWindow is the [now, now+lead) interval split into per-date
// wall-clock bounds, since sessions store date and start time in
// separate columns.
type reminderWindow struct {
	Day     string
	From    string
	NextDay string
	Until   string
	Split   bool
}

// splitReminderWindow computes the query bounds for a lead window. A
// window that crosses midnight yields bounds on two dates.
func splitReminderWindow(now time.Time, lead time.Duration) reminderWindow {
	end := now.Add(lead)
	w := reminderWindow{
		Day:   now.Format("2006-01-02"),
		From:  now.Format("15:04:05"),
		Until: end.Format("15:04:05"),
	}
	endDay := end.Format("2006-01-02")
	if endDay != w.Day {
		w.Split = true
		w.NextDay = endDay
	}
	return w
}

// UpcomingSessions returns scheduled sessions starting within the lead
// window from now, across all instructors. Used by the reminder job.
func (r *Repository) UpcomingSessions(ctx context.Context, now time.Time, lead time.Duration) ([]Session, error) {
	const selectSessions = `
		SELECT s.session_id, s.class_id, c.class_name, s.created_by, s.date,
		       to_char(s.start_time, 'HH24:MI'), to_char(s.end_time, 'HH24:MI'),
		       s.status, s.attendance_count, s.total_students, s.created_at
		FROM class_sessions s
		JOIN classes c ON c.class_id = s.class_id
		WHERE s.status = 'scheduled' AND `

	w := splitReminderWindow(now, lead)

	var (
		rows *sql.Rows
		err  error
	)
	if w.Split {
		rows, err = r.db.QueryContext(ctx, selectSessions+`
			((s.date = $1::date AND s.start_time >= $2::time)
			 OR (s.date = $3::date AND s.start_time < $4::time))
			ORDER BY s.date, s.start_time
		`, w.Day, w.From, w.NextDay, w.Until)
	} else {
		rows, err = r.db.QueryContext(ctx, selectSessions+`
			s.date = $1::date AND s.start_time >= $2::time AND s.start_time < $3::time
			ORDER BY s.start_time
		`, w.Day, w.From, w.Until)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSessions(rows)
}

// SaveRefreshToken stores a refresh token for rotation checks.
func (r *Repository) SaveRefreshToken(ctx context.Context, userID, token string, expiresAt time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO refresh_tokens (token, user_id, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (token) DO NOTHING
	`, token, userID, expiresAt)
	return err
}

// RefreshTokenValid reports whether a stored refresh token is known,
// unrevoked and unexpired.
func (r *Repository) RefreshTokenValid(ctx context.Context, token string, now time.Time) (bool, error) {
	var revoked bool
	var expiresAt time.Time
	err := r.db.QueryRowContext(ctx,
		`SELECT revoked, expires_at FROM refresh_tokens WHERE token = $1`, token).
		Scan(&revoked, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return !revoked && now.Before(expiresAt), nil
}

// RevokeRefreshToken marks a token revoked.
func (r *Repository) RevokeRefreshToken(ctx context.Context, token string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE refresh_tokens SET revoked = TRUE WHERE token = $1`, token)
	return err
}

func scanSessions(rows *sql.Rows) ([]Session, error) {
	var res []Session
	for rows.Next() {
		var s Session
		if err := rows.Scan(&s.ID, &s.ClassID, &s.ClassName, &s.CreatedBy, &s.Date,
			&s.StartTime, &s.EndTime, &s.Status, &s.AttendanceCount, &s.TotalStudents, &s.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, s)
	}
	return res, rows.Err()
}
