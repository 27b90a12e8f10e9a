package holiday

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// SQLRepository persists holidays in Postgres.
type SQLRepository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *SQLRepository {
	return &SQLRepository{db: db}
}

const holidayColumns = `id, name, date, COALESCE(description, ''), is_recurring, created_at`

// Insert writes a new holiday and returns it with generated fields set.
func (r *SQLRepository) Insert(ctx context.Context, h Holiday) (Holiday, error) {
	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO holidays (id, name, date, description, is_recurring)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING created_at
	`, h.ID, h.Name, h.Date, h.Description, h.IsRecurring)
	if err := row.Scan(&h.CreatedAt); err != nil {
		return Holiday{}, err
	}
	return h, nil
}

// Update overwrites an existing holiday row.
func (r *SQLRepository) Update(ctx context.Context, h Holiday) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE holidays SET name = $2, date = $3, description = $4, is_recurring = $5
		WHERE id = $1
	`, h.ID, h.Name, h.Date, h.Description, h.IsRecurring)
	return err
}

// Delete removes a holiday, reporting whether a row existed.
func (r *SQLRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM holidays WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// Get returns one holiday by id or nil when absent.
func (r *SQLRepository) Get(ctx context.Context, id string) (*Holiday, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+holidayColumns+` FROM holidays WHERE id = $1`, id)
	var h Holiday
	if err := row.Scan(&h.ID, &h.Name, &h.Date, &h.Description, &h.IsRecurring, &h.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &h, nil
}

// ByDate returns holidays stored on an exact date.
func (r *SQLRepository) ByDate(ctx context.Context, d time.Time) ([]Holiday, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+holidayColumns+` FROM holidays WHERE date = $1 ORDER BY name`, d)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanHolidays(rows)
}

// InRange returns holidays whose stored date falls in [start, end].
func (r *SQLRepository) InRange(ctx context.Context, start, end time.Time) ([]Holiday, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+holidayColumns+` FROM holidays WHERE date >= $1 AND date <= $2 ORDER BY date
	`, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanHolidays(rows)
}

// Recurring returns all annually-recurring holidays.
func (r *SQLRepository) Recurring(ctx context.Context) ([]Holiday, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+holidayColumns+` FROM holidays WHERE is_recurring ORDER BY date`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanHolidays(rows)
}

// All returns every stored holiday ordered by date.
func (r *SQLRepository) All(ctx context.Context) ([]Holiday, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+holidayColumns+` FROM holidays ORDER BY date`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanHolidays(rows)
}

func scanHolidays(rows *sql.Rows) ([]Holiday, error) {
	var res []Holiday
	for rows.Next() {
		var h Holiday
		if err := rows.Scan(&h.ID, &h.Name, &h.Date, &h.Description, &h.IsRecurring, &h.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, h)
	}
	return res, rows.Err()
}
