package settings

// Settings categories.
const (
	CategoryGeneral         = "general"
	CategoryFaceRecognition = "face_recognition"
	CategoryCamera          = "camera"
	CategorySession         = "session"
	CategoryAttendance      = "attendance"
	CategoryDashboard       = "dashboard"
	CategoryReports         = "reports"
	CategoryNotifications   = "notifications"
	CategoryMetrics         = "metrics"
	CategorySecurity        = "security"
	CategoryEmail           = "email"
)

// Defaults returns the seed rows inserted on first startup.
func Defaults() []Setting {
	return []Setting{
		{Key: "face_recognition_threshold", Value: "0.6", Description: "Threshold for face recognition accuracy", Category: CategoryFaceRecognition},
		{Key: "face_encoding_version", Value: "1.0", Description: "Face encoding algorithm version", Category: CategoryFaceRecognition, IsSystem: true},
		{Key: "camera_quality_threshold", Value: "720", Description: "Minimum camera quality requirement", Category: CategoryCamera},

		{Key: "session_timeout_minutes", Value: "30", Description: "Session timeout in minutes", Category: CategorySession},
		{Key: "max_session_duration", Value: "180", Description: "Maximum session duration in minutes", Category: CategorySession},
		{Key: "auto_mark_late_threshold", Value: "10", Description: "Minutes after start time to mark as late", Category: CategoryAttendance},

		{Key: "auto_refresh_interval", Value: "30", Description: "Dashboard auto-refresh interval in seconds", Category: CategoryDashboard},

		{Key: "attendance_report_limit", Value: "1000", Description: "Maximum records in attendance report", Category: CategoryReports},

		{Key: "notification_retention_days", Value: "30", Description: "Days to keep notifications", Category: CategoryNotifications},
		{Key: "activity_log_retention_days", Value: "90", Description: "Days to keep activity log entries", Category: CategoryMetrics},
		{Key: "system_metrics_retention_days", Value: "90", Description: "Days to keep system metrics", Category: CategoryMetrics},

		{Key: "password_min_length", Value: "8", Description: "Minimum password length", Category: CategorySecurity},
		{Key: "max_login_attempts", Value: "5", Description: "Maximum failed login attempts before lockout", Category: CategorySecurity},
		{Key: "lockout_duration_minutes", Value: "15", Description: "Account lockout duration in minutes", Category: CategorySecurity},

		{Key: "smtp_enabled", Value: "false", Description: "Enable email notifications", Category: CategoryEmail},
		{Key: "smtp_server", Value: "", Description: "SMTP server address", Category: CategoryEmail},
		{Key: "smtp_port", Value: "587", Description: "SMTP server port", Category: CategoryEmail},

		{Key: "system_name", Value: "Face Recognition Attendance System", Description: "System name", Category: CategoryGeneral},
		{Key: "institution_name", Value: "", Description: "Institution name", Category: CategoryGeneral},
		{Key: "timezone", Value: "UTC", Description: "System timezone", Category: CategoryGeneral},
	}
}
