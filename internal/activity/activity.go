package activity

import (
	"context"
	"log"
	"time"
)

// User types recorded in the audit trail.
const (
	UserInstructor = "instructor"
	UserStudent    = "student"
	UserAdmin      = "admin"
)

// Activity types.
const (
	TypeLogin            = "login"
	TypeLogout           = "logout"
	TypeFailedLogin      = "failed_login"
	TypePasswordChange   = "password_change"
	TypeCreateSession    = "create_session"
	TypeStartAttendance  = "start_attendance"
	TypeEndAttendance    = "end_attendance"
	TypeMarkAttendance   = "mark_attendance"
	TypeEditAttendance   = "edit_attendance"
	TypeViewReport       = "view_report"
	TypeExportReport     = "export_report"
	TypeChangeSettings   = "change_settings"
	TypeSessionReminder  = "session_reminder"
	TypeUnauthorized     = "unauthorized_access"
	TypePermissionDenied = "permission_denied"
	TypeMultipleLogins   = "multiple_login_attempts"
)

// suspiciousTypes are the security-relevant activity types surfaced by Suspicious.
var suspiciousTypes = []string{
	TypeFailedLogin,
	TypeUnauthorized,
	TypePermissionDenied,
	TypeMultipleLogins,
}

// Entry is one immutable audit record.
type Entry struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	UserType     string    `json:"user_type"`
	ActivityType string    `json:"activity_type"`
	Description  string    `json:"description,omitempty"`
	IPAddress    string    `json:"ip_address,omitempty"`
	UserAgent    string    `json:"user_agent,omitempty"`
	RequestID    string    `json:"request_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Repository persists audit entries.
type Repository interface {
	Insert(ctx context.Context, e Entry) error
	ForUser(ctx context.Context, userID string, activityType string, limit int) ([]Entry, error)
	Since(ctx context.Context, cutoff time.Time, userType string, activityTypes []string) ([]Entry, error)
	CountSince(ctx context.Context, cutoff time.Time, userType string, activityTypes []string) (int, error)
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// Log appends audit entries and answers retrieval queries.
type Log struct {
	repo Repository
}

// NewLog creates an activity log.
func NewLog(repo Repository) *Log {
	return &Log{repo: repo}
}

// Record appends one entry on a best-effort basis. A failed write is
// reported locally and never returned, so callers' primary actions are
// not aborted by audit failures.
func (l *Log) Record(ctx context.Context, e Entry) {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	if err := l.repo.Insert(ctx, e); err != nil {
		log.Printf("activity log write failed (%s/%s): %v", e.UserID, e.ActivityType, err)
	}
}

// ForUser returns recent entries for one user, optionally filtered by type.
func (l *Log) ForUser(ctx context.Context, userID, activityType string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	return l.repo.ForUser(ctx, userID, activityType, limit)
}

// Recent returns entries from the trailing window, optionally filtered by user type.
func (l *Log) Recent(ctx context.Context, hours int, userType string) ([]Entry, error) {
	if hours <= 0 {
		hours = 24
	}
	cutoff := time.Now().UTC().Add(-time.Duration(hours) * time.Hour)
	return l.repo.Since(ctx, cutoff, userType, nil)
}

// Suspicious returns security-relevant entries from the trailing window.
func (l *Log) Suspicious(ctx context.Context, hours int) ([]Entry, error) {
	if hours <= 0 {
		hours = 24
	}
	cutoff := time.Now().UTC().Add(-time.Duration(hours) * time.Hour)
	return l.repo.Since(ctx, cutoff, "", suspiciousTypes)
}

// LoginHistory returns the most recent logins for a user.
func (l *Log) LoginHistory(ctx context.Context, userID string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 10
	}
	return l.repo.ForUser(ctx, userID, TypeLogin, limit)
}

// Cleanup deletes entries older than retentionDays and returns the count removed.
func (l *Log) Cleanup(ctx context.Context, retentionDays int) (int64, error) {
	if retentionDays <= 0 {
		retentionDays = 90
	}
	cutoff := time.Now().UTC().AddDate(0, 0, -retentionDays)
	return l.repo.DeleteBefore(ctx, cutoff)
}
