package activity

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SQLRepository persists audit entries in Postgres.
type SQLRepository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *SQLRepository {
	return &SQLRepository{db: db}
}

const entryColumns = `id, user_id, user_type, activity_type, COALESCE(description, ''),
	COALESCE(ip_address, ''), COALESCE(user_agent, ''), COALESCE(request_id, ''), created_at`

// Insert writes one entry.
func (r *SQLRepository) Insert(ctx context.Context, e Entry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO activity_log (id, user_id, user_type, activity_type, description, ip_address, user_agent, request_id, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`, e.ID, e.UserID, e.UserType, e.ActivityType, e.Description, e.IPAddress, e.UserAgent, e.RequestID, e.CreatedAt)
	return err
}

// ForUser returns entries for one user, newest first.
func (r *SQLRepository) ForUser(ctx context.Context, userID, activityType string, limit int) ([]Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM activity_log WHERE user_id = $1`
	args := []any{userID}
	if activityType != "" {
		query += ` AND activity_type = $2`
		args = append(args, activityType)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d`, len(args)+1)
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEntries(rows)
}

// Since returns entries at or after cutoff, newest first, with optional filters.
func (r *SQLRepository) Since(ctx context.Context, cutoff time.Time, userType string, activityTypes []string) ([]Entry, error) {
	query, args := sinceQuery(`SELECT `+entryColumns+` FROM activity_log`, cutoff, userType, activityTypes)
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEntries(rows)
}

// CountSince counts entries at or after cutoff with optional filters.
func (r *SQLRepository) CountSince(ctx context.Context, cutoff time.Time, userType string, activityTypes []string) (int, error) {
	query, args := sinceQuery(`SELECT COUNT(*) FROM activity_log`, cutoff, userType, activityTypes)
	var count int
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&count)
	return count, err
}

// DeleteBefore removes entries older than cutoff and returns the count removed.
func (r *SQLRepository) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM activity_log WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func sinceQuery(base string, cutoff time.Time, userType string, activityTypes []string) (string, []any) {
	query := base + ` WHERE created_at >= $1`
	args := []any{cutoff}
	if userType != "" {
		args = append(args, userType)
		query += fmt.Sprintf(` AND user_type = $%d`, len(args))
	}
	if len(activityTypes) > 0 {
		placeholders := ""
		for i, t := range activityTypes {
			args = append(args, t)
			if i > 0 {
				placeholders += ","
			}
			placeholders += fmt.Sprintf("$%d", len(args))
		}
		query += ` AND activity_type IN (` + placeholders + `)`
	}
	return query, args
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	var res []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.UserID, &e.UserType, &e.ActivityType, &e.Description,
			&e.IPAddress, &e.UserAgent, &e.RequestID, &e.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, e)
	}
	return res, rows.Err()
}
