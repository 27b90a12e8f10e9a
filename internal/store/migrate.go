package store

import "database/sql"

// migrate creates the schema if it does not exist yet. Safe to run on every startup.
func migrate(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS instructors (
		instructor_id  TEXT PRIMARY KEY,
		name           TEXT NOT NULL,
		email          TEXT UNIQUE NOT NULL,
		password_hash  TEXT NOT NULL,
		created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS students (
		student_id  TEXT PRIMARY KEY,
		name        TEXT NOT NULL,
		email       TEXT UNIQUE NOT NULL,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS classes (
		class_id    TEXT PRIMARY KEY,
		class_name  TEXT NOT NULL,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS class_instructors (
		class_id       TEXT NOT NULL REFERENCES classes(class_id),
		instructor_id  TEXT NOT NULL REFERENCES instructors(instructor_id),
		PRIMARY KEY (class_id, instructor_id)
	);

	CREATE TABLE IF NOT EXISTS class_sessions (
		session_id        TEXT PRIMARY KEY,
		class_id          TEXT NOT NULL REFERENCES classes(class_id),
		created_by        TEXT NOT NULL REFERENCES instructors(instructor_id),
		date              DATE NOT NULL,
		start_time        TIME NOT NULL,
		end_time          TIME NOT NULL,
		status            TEXT NOT NULL DEFAULT 'scheduled',
		attendance_count  INT NOT NULL DEFAULT 0,
		total_students    INT NOT NULL DEFAULT 0,
		created_at        TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	CREATE INDEX IF NOT EXISTS idx_sessions_instructor_date ON class_sessions(created_by, date);

	CREATE TABLE IF NOT EXISTS attendance (
		id          TEXT PRIMARY KEY,
		session_id  TEXT NOT NULL REFERENCES class_sessions(session_id),
		student_id  TEXT NOT NULL REFERENCES students(student_id),
		status      TEXT NOT NULL DEFAULT 'present',
		marked_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (session_id, student_id)
	);
	CREATE INDEX IF NOT EXISTS idx_attendance_session ON attendance(session_id);

	CREATE TABLE IF NOT EXISTS refresh_tokens (
		token       TEXT PRIMARY KEY,
		user_id     TEXT NOT NULL,
		expires_at  TIMESTAMPTZ NOT NULL,
		revoked     BOOLEAN NOT NULL DEFAULT FALSE
	);

	CREATE TABLE IF NOT EXISTS settings (
		setting_key    TEXT PRIMARY KEY,
		setting_value  TEXT NOT NULL DEFAULT '',
		description    TEXT,
		category       TEXT NOT NULL DEFAULT 'general',
		is_system      BOOLEAN NOT NULL DEFAULT FALSE,
		created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS activity_log (
		id             TEXT PRIMARY KEY,
		user_id        TEXT NOT NULL,
		user_type      TEXT NOT NULL,
		activity_type  TEXT NOT NULL,
		description    TEXT,
		ip_address     TEXT,
		user_agent     TEXT,
		request_id     TEXT,
		created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	CREATE INDEX IF NOT EXISTS idx_activity_user_time ON activity_log(user_id, created_at);
	CREATE INDEX IF NOT EXISTS idx_activity_type_time ON activity_log(activity_type, created_at);

	CREATE TABLE IF NOT EXISTS holidays (
		id            TEXT PRIMARY KEY,
		name          TEXT NOT NULL,
		date          DATE NOT NULL,
		description   TEXT,
		is_recurring  BOOLEAN NOT NULL DEFAULT FALSE,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS lecturer_preferences (
		id                        TEXT PRIMARY KEY,
		instructor_id             TEXT UNIQUE NOT NULL REFERENCES instructors(instructor_id),
		theme                     TEXT NOT NULL DEFAULT 'light',
		dashboard_layout          TEXT NOT NULL DEFAULT 'default',
		notification_settings     JSONB NOT NULL DEFAULT '{}',
		auto_refresh_interval     INT NOT NULL DEFAULT 30,
		default_session_duration  INT NOT NULL DEFAULT 90,
		timezone                  TEXT NOT NULL DEFAULT 'UTC',
		language                  TEXT NOT NULL DEFAULT 'en',
		created_at                TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at                TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	`
	_, err := db.Exec(schema)
	return err
}
