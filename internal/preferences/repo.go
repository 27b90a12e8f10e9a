package preferences

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SQLRepository persists preference documents in Postgres. The
// notification settings travel as a JSONB column.
type SQLRepository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *SQLRepository {
	return &SQLRepository{db: db}
}

// Get returns the stored document for an instructor, or nil when absent.
func (r *SQLRepository) Get(ctx context.Context, instructorID string) (*Preference, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, instructor_id, theme, dashboard_layout, notification_settings,
		       auto_refresh_interval, default_session_duration, timezone, language,
		       created_at, updated_at
		FROM lecturer_preferences WHERE instructor_id = $1
	`, instructorID)

	var p Preference
	var rawNotifications []byte
	err := row.Scan(&p.ID, &p.InstructorID, &p.Theme, &p.DashboardLayout, &rawNotifications,
		&p.AutoRefreshInterval, &p.DefaultSessionDuration, &p.Timezone, &p.Language,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	// Missing keys in a stored document fall back to defaults.
	p.Notifications = Defaults(instructorID).Notifications
	if len(rawNotifications) > 0 {
		if err := json.Unmarshal(rawNotifications, &p.Notifications); err != nil {
			return nil, fmt.Errorf("decode notification settings: %w", err)
		}
	}
	return &p, nil
}

// Save inserts or overwrites the document for an instructor.
func (r *SQLRepository) Save(ctx context.Context, p Preference) (Preference, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = now
	}

	rawNotifications, err := json.Marshal(p.Notifications)
	if err != nil {
		return Preference{}, fmt.Errorf("encode notification settings: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO lecturer_preferences
			(id, instructor_id, theme, dashboard_layout, notification_settings,
			 auto_refresh_interval, default_session_duration, timezone, language,
			 created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		ON CONFLICT (instructor_id) DO UPDATE SET
			theme = EXCLUDED.theme,
			dashboard_layout = EXCLUDED.dashboard_layout,
			notification_settings = EXCLUDED.notification_settings,
			auto_refresh_interval = EXCLUDED.auto_refresh_interval,
			default_session_duration = EXCLUDED.default_session_duration,
			timezone = EXCLUDED.timezone,
			language = EXCLUDED.language,
			updated_at = EXCLUDED.updated_at
	`, p.ID, p.InstructorID, p.Theme, p.DashboardLayout, rawNotifications,
		p.AutoRefreshInterval, p.DefaultSessionDuration, p.Timezone, p.Language,
		p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return Preference{}, err
	}
	return p, nil
}
