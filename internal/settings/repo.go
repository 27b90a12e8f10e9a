package settings

import (
	"context"
	"database/sql"
	"errors"
)

// SQLRepository persists settings in Postgres.
type SQLRepository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *SQLRepository {
	return &SQLRepository{db: db}
}

const settingColumns = `setting_key, setting_value, COALESCE(description, ''), category, is_system, created_at, updated_at`

// Get returns one setting or nil when absent.
func (r *SQLRepository) Get(ctx context.Context, key string) (*Setting, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+settingColumns+` FROM settings WHERE setting_key = $1
	`, key)
	var s Setting
	if err := row.Scan(&s.Key, &s.Value, &s.Description, &s.Category, &s.IsSystem, &s.CreatedAt, &s.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

// Upsert inserts or overwrites a setting row.
func (r *SQLRepository) Upsert(ctx context.Context, s Setting) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO settings (setting_key, setting_value, description, category, is_system, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		ON CONFLICT (setting_key) DO UPDATE SET
			setting_value = EXCLUDED.setting_value,
			description = EXCLUDED.description,
			category = EXCLUDED.category,
			updated_at = EXCLUDED.updated_at
	`, s.Key, s.Value, s.Description, s.Category, s.IsSystem, s.CreatedAt, s.UpdatedAt)
	return err
}

// InsertIfAbsent inserts a row only when the key does not exist yet.
func (r *SQLRepository) InsertIfAbsent(ctx context.Context, s Setting) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO settings (setting_key, setting_value, description, category, is_system, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		ON CONFLICT (setting_key) DO NOTHING
	`, s.Key, s.Value, s.Description, s.Category, s.IsSystem, s.CreatedAt, s.UpdatedAt)
	return err
}

// Delete removes a setting row.
func (r *SQLRepository) Delete(ctx context.Context, key string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM settings WHERE setting_key = $1`, key)
	return err
}

// ByCategory lists settings in one category ordered by key.
func (r *SQLRepository) ByCategory(ctx context.Context, category string) ([]Setting, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+settingColumns+` FROM settings WHERE category = $1 ORDER BY setting_key
	`, category)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSettings(rows)
}

// AllEditable lists all non-system settings ordered by category then key.
func (r *SQLRepository) AllEditable(ctx context.Context) ([]Setting, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+settingColumns+` FROM settings WHERE NOT is_system ORDER BY category, setting_key
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSettings(rows)
}

func scanSettings(rows *sql.Rows) ([]Setting, error) {
	var res []Setting
	for rows.Next() {
		var s Setting
		if err := rows.Scan(&s.Key, &s.Value, &s.Description, &s.Category, &s.IsSystem, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		res = append(res, s)
	}
	return res, rows.Err()
}
