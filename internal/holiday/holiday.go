package holiday

import (
	"context"
	"errors"
	"sort"
	"time"
)

// ErrNotFound is returned when a holiday id does not exist.
var ErrNotFound = errors.New("holiday not found")

// Holiday is one exclusion date. Recurring holidays repeat annually on
// the same month and day; the stored year is the year of first entry.
type Holiday struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Date        time.Time `json:"date"`
	Description string    `json:"description,omitempty"`
	IsRecurring bool      `json:"is_recurring"`
	CreatedAt   time.Time `json:"created_at"`
}

// Repository persists holiday rows.
type Repository interface {
	Insert(ctx context.Context, h Holiday) (Holiday, error)
	Update(ctx context.Context, h Holiday) error
	Delete(ctx context.Context, id string) (bool, error)
	Get(ctx context.Context, id string) (*Holiday, error)
	ByDate(ctx context.Context, d time.Time) ([]Holiday, error)
	InRange(ctx context.Context, start, end time.Time) ([]Holiday, error)
	Recurring(ctx context.Context) ([]Holiday, error)
	All(ctx context.Context) ([]Holiday, error)
}

// Calendar answers holiday and working-day queries.
type Calendar struct {
	repo Repository
}

// NewCalendar creates a calendar over a repository.
func NewCalendar(repo Repository) *Calendar {
	return &Calendar{repo: repo}
}

// Create stores a new holiday.
func (c *Calendar) Create(ctx context.Context, h Holiday) (Holiday, error) {
	h.Date = dateOnly(h.Date)
	return c.repo.Insert(ctx, h)
}

// Update overwrites an existing holiday's fields.
func (c *Calendar) Update(ctx context.Context, h Holiday) (*Holiday, error) {
	existing, err := c.repo.Get(ctx, h.ID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrNotFound
	}
	h.Date = dateOnly(h.Date)
	h.CreatedAt = existing.CreatedAt
	if err := c.repo.Update(ctx, h); err != nil {
		return nil, err
	}
	return &h, nil
}

// Delete removes a holiday by id.
func (c *Calendar) Delete(ctx context.Context, id string) error {
	ok, err := c.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

// All lists every stored holiday; when year is nonzero the result is the
// expanded calendar for that year (recurring entries projected).
func (c *Calendar) All(ctx context.Context, year int) ([]Holiday, error) {
	if year == 0 {
		return c.repo.All(ctx)
	}
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
	return c.Between(ctx, start, end)
}

// Upcoming returns the expanded calendar for the next N days from asOf.
func (c *Calendar) Upcoming(ctx context.Context, asOf time.Time, days int) ([]Holiday, error) {
	if days <= 0 {
		days = 30
	}
	start := dateOnly(asOf)
	return c.Between(ctx, start, start.AddDate(0, 0, days))
}

// IsHoliday checks one date: an exact stored match wins, otherwise
// recurring holidays match on (month, day) across any year. Returns the
// matching holiday or nil.
func (c *Calendar) IsHoliday(ctx context.Context, d time.Time) (*Holiday, error) {
	d = dateOnly(d)
	exact, err := c.repo.ByDate(ctx, d)
	if err != nil {
		return nil, err
	}
	if len(exact) > 0 {
		return &exact[0], nil
	}

	recurring, err := c.repo.Recurring(ctx)
	if err != nil {
		return nil, err
	}
	for i, h := range recurring {
		if h.Date.Month() == d.Month() && h.Date.Day() == d.Day() {
			return &recurring[i], nil
		}
	}
	return nil, nil
}

// Between returns every holiday falling in [start, end]: stored rows in
// range plus recurring rows projected onto each overlapping year.
// Projections that do not exist (Feb 29 outside leap years) are skipped.
// The result is de-duplicated by (date, name) and sorted by date.
func (c *Calendar) Between(ctx context.Context, start, end time.Time) ([]Holiday, error) {
	start, end = dateOnly(start), dateOnly(end)

	stored, err := c.repo.InRange(ctx, start, end)
	if err != nil {
		return nil, err
	}
	recurring, err := c.repo.Recurring(ctx)
	if err != nil {
		return nil, err
	}
	return expand(stored, recurring, start, end), nil
}

// WorkingDays counts days in [start, end] that are weekdays and not
// holidays. Both endpoints are included.
func (c *Calendar) WorkingDays(ctx context.Context, start, end time.Time) (int, error) {
	start, end = dateOnly(start), dateOnly(end)
	if end.Before(start) {
		return 0, nil
	}

	holidays, err := c.Between(ctx, start, end)
	if err != nil {
		return 0, err
	}
	offDays := make(map[string]bool, len(holidays))
	for _, h := range holidays {
		offDays[h.Date.Format("2006-01-02")] = true
	}

	count := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			continue
		}
		if offDays[d.Format("2006-01-02")] {
			continue
		}
		count++
	}
	return count, nil
}

// expand merges stored in-range holidays with yearly projections of
// recurring ones.
func expand(stored, recurring []Holiday, start, end time.Time) []Holiday {
	type key struct {
		date string
		name string
	}
	seen := make(map[key]bool, len(stored))
	out := make([]Holiday, 0, len(stored))

	for _, h := range stored {
		k := key{h.Date.Format("2006-01-02"), h.Name}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, h)
	}

	for _, h := range recurring {
		for year := start.Year(); year <= end.Year(); year++ {
			projected, ok := projectToYear(h.Date, year)
			if !ok {
				continue
			}
			if projected.Before(start) || projected.After(end) {
				continue
			}
			k := key{projected.Format("2006-01-02"), h.Name}
			if seen[k] {
				continue
			}
			seen[k] = true
			occurrence := h
			occurrence.Date = projected
			out = append(out, occurrence)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// projectToYear maps a recurring holiday's (month, day) onto a target
// year. ok is false when the day does not exist in that year.
func projectToYear(d time.Time, year int) (time.Time, bool) {
	projected := time.Date(year, d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	if projected.Month() != d.Month() || projected.Day() != d.Day() {
		return time.Time{}, false
	}
	return projected, true
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
