package roster

import "time"

// Session statuses.
const (
	StatusScheduled = "scheduled"
	StatusOngoing   = "ongoing"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
	StatusDismissed = "dismissed"
)

// Instructor is a staff user who owns classes and sessions.
type Instructor struct {
	ID           string    `json:"instructor_id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Class is a taught course group.
type Class struct {
	ID        string    `json:"class_id"`
	Name      string    `json:"class_name"`
	CreatedAt time.Time `json:"created_at"`
}

// Session is one scheduled occurrence of a class on a date.
type Session struct {
	ID              string    `json:"session_id"`
	ClassID         string    `json:"class_id"`
	ClassName       string    `json:"class_name,omitempty"`
	CreatedBy       string    `json:"created_by"`
	Date            time.Time `json:"date"`
	StartTime       string    `json:"start_time"`
	EndTime         string    `json:"end_time"`
	Status          string    `json:"status"`
	AttendanceCount int       `json:"attendance_count"`
	TotalStudents   int       `json:"total_students"`
	CreatedAt       time.Time `json:"created_at"`
}

// RefreshToken is a persisted refresh token for rotation checks.
type RefreshToken struct {
	Token     string
	UserID    string
	ExpiresAt time.Time
	Revoked   bool
}
