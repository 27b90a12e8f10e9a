package dashboard

import (
	"time"

	"classtrack/internal/roster"
)

// Derived session states for the today view.
const (
	StateInProgress   = "in_progress"
	StateCompleted    = "completed"
	StateCancelled    = "cancelled"
	StateUpcoming     = "upcoming"
	StateMissed       = "missed"
	StateReadyToStart = "ready_to_start"
	StateUnknown      = "unknown"
)

// SessionView is a session with its derived state for the dashboard.
type SessionView struct {
	roster.Session
	State                string  `json:"state"`
	AttendancePercentage float64 `json:"attendance_percentage"`
}

// SessionState classifies a session relative to the wall clock. Stored
// status wins; otherwise the start/end times decide.
func SessionState(s roster.Session, now time.Time) string {
	switch s.Status {
	case roster.StatusOngoing:
		return StateInProgress
	case roster.StatusCompleted:
		return StateCompleted
	case roster.StatusCancelled, roster.StatusDismissed:
		return StateCancelled
	}

	start, errStart := time.Parse("15:04", s.StartTime)
	end, errEnd := time.Parse("15:04", s.EndTime)
	if errStart != nil || errEnd != nil {
		return StateUnknown
	}

	clock := now.Hour()*60 + now.Minute()
	startMin := start.Hour()*60 + start.Minute()
	endMin := end.Hour()*60 + end.Minute()

	switch {
	case clock < startMin:
		return StateUpcoming
	case clock > endMin:
		return StateMissed
	default:
		return StateReadyToStart
	}
}
