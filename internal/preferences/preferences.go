package preferences

import (
	"context"
	"time"
)

// NotificationSettings is the per-instructor alert configuration. Fields
// absent from a stored document fall back to the defaults.
type NotificationSettings struct {
	EmailNotifications     bool `json:"email_notifications"`
	PushNotifications      bool `json:"push_notifications"`
	AttendanceAlerts       bool `json:"attendance_alerts"`
	SessionReminders       bool `json:"session_reminders"`
	LowAttendanceThreshold int  `json:"low_attendance_threshold"`
}

// Preference is one instructor's settings document.
type Preference struct {
	ID                     string               `json:"id"`
	InstructorID           string               `json:"instructor_id"`
	Theme                  string               `json:"theme"`
	DashboardLayout        string               `json:"dashboard_layout"`
	Notifications          NotificationSettings `json:"notification_settings"`
	AutoRefreshInterval    int                  `json:"auto_refresh_interval"`
	DefaultSessionDuration int                  `json:"default_session_duration"`
	Timezone               string               `json:"timezone"`
	Language               string               `json:"language"`
	CreatedAt              time.Time            `json:"created_at"`
	UpdatedAt              time.Time            `json:"updated_at"`
}

// Notification kinds accepted by ShouldNotify.
const (
	KindEmail           = "email"
	KindPush            = "push"
	KindAttendanceAlert = "attendance_alert"
	KindSessionReminder = "session_reminder"
)

// Defaults returns the documented default preference set.
func Defaults(instructorID string) Preference {
	return Preference{
		InstructorID:    instructorID,
		Theme:           "light",
		DashboardLayout: "default",
		Notifications: NotificationSettings{
			EmailNotifications:     true,
			PushNotifications:      true,
			AttendanceAlerts:       true,
			SessionReminders:       true,
			LowAttendanceThreshold: 75,
		},
		AutoRefreshInterval:    30,
		DefaultSessionDuration: 90,
		Timezone:               "UTC",
		Language:               "en",
	}
}

// IsDarkMode reports whether the dark theme is active.
func (p Preference) IsDarkMode() bool {
	return p.Theme == "dark"
}

// ShouldNotify reports whether a notification of the given kind should be
// sent. Unknown kinds default to true.
func (p Preference) ShouldNotify(kind string) bool {
	switch kind {
	case KindEmail:
		return p.Notifications.EmailNotifications
	case KindPush:
		return p.Notifications.PushNotifications
	case KindAttendanceAlert:
		return p.Notifications.AttendanceAlerts
	case KindSessionReminder:
		return p.Notifications.SessionReminders
	}
	return true
}

// NotificationUpdate is a partial change to NotificationSettings; nil
// fields are left untouched.
type NotificationUpdate struct {
	EmailNotifications     *bool `json:"email_notifications"`
	PushNotifications      *bool `json:"push_notifications"`
	AttendanceAlerts       *bool `json:"attendance_alerts"`
	SessionReminders       *bool `json:"session_reminders"`
	LowAttendanceThreshold *int  `json:"low_attendance_threshold"`
}

// Update is a partial change to a Preference; nil fields are left
// untouched, and Notifications merges key-by-key rather than replacing
// the document.
type Update struct {
	Theme                  *string             `json:"theme"`
	DashboardLayout        *string             `json:"dashboard_layout"`
	Notifications          *NotificationUpdate `json:"notification_settings"`
	AutoRefreshInterval    *int                `json:"auto_refresh_interval"`
	DefaultSessionDuration *int                `json:"default_session_duration"`
	Timezone               *string             `json:"timezone"`
	Language               *string             `json:"language"`
}

// Merge applies a partial update to a preference document.
func Merge(p Preference, u Update) Preference {
	if u.Theme != nil {
		p.Theme = *u.Theme
	}
	if u.DashboardLayout != nil {
		p.DashboardLayout = *u.DashboardLayout
	}
	if u.AutoRefreshInterval != nil {
		p.AutoRefreshInterval = *u.AutoRefreshInterval
	}
	if u.DefaultSessionDuration != nil {
		p.DefaultSessionDuration = *u.DefaultSessionDuration
	}
	if u.Timezone != nil {
		p.Timezone = *u.Timezone
	}
	if u.Language != nil {
		p.Language = *u.Language
	}
	if u.Notifications != nil {
		n := u.Notifications
		if n.EmailNotifications != nil {
			p.Notifications.EmailNotifications = *n.EmailNotifications
		}
		if n.PushNotifications != nil {
			p.Notifications.PushNotifications = *n.PushNotifications
		}
		if n.AttendanceAlerts != nil {
			p.Notifications.AttendanceAlerts = *n.AttendanceAlerts
		}
		if n.SessionReminders != nil {
			p.Notifications.SessionReminders = *n.SessionReminders
		}
		if n.LowAttendanceThreshold != nil {
			p.Notifications.LowAttendanceThreshold = *n.LowAttendanceThreshold
		}
	}
	return p
}

// Repository persists preference documents.
type Repository interface {
	Get(ctx context.Context, instructorID string) (*Preference, error)
	Save(ctx context.Context, p Preference) (Preference, error)
}

// Service answers preference reads and applies partial updates.
type Service struct {
	repo Repository
}

// NewService creates a preferences service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Get returns the stored document for an instructor, creating the
// default row lazily on first access.
func (s *Service) Get(ctx context.Context, instructorID string) (Preference, error) {
	existing, err := s.repo.Get(ctx, instructorID)
	if err != nil {
		return Preference{}, err
	}
	if existing != nil {
		return *existing, nil
	}
	return s.repo.Save(ctx, Defaults(instructorID))
}

// Update merges the provided fields into the stored document. Fields not
// present in the update keep their stored values.
func (s *Service) Update(ctx context.Context, instructorID string, u Update) (Preference, error) {
	current, err := s.Get(ctx, instructorID)
	if err != nil {
		return Preference{}, err
	}
	merged := Merge(current, u)
	merged.UpdatedAt = time.Now().UTC()
	return s.repo.Save(ctx, merged)
}

// Reset restores every field to its default value.
func (s *Service) Reset(ctx context.Context, instructorID string) (Preference, error) {
	current, err := s.Get(ctx, instructorID)
	if err != nil {
		return Preference{}, err
	}
	reset := Defaults(instructorID)
	reset.ID = current.ID
	reset.CreatedAt = current.CreatedAt
	reset.UpdatedAt = time.Now().UTC()
	return s.repo.Save(ctx, reset)
}
