package holiday

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memRepo struct {
	rows []Holiday
}

func (m *memRepo) Insert(_ context.Context, h Holiday) (Holiday, error) {
	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	h.CreatedAt = time.Now().UTC()
	m.rows = append(m.rows, h)
	return h, nil
}

func (m *memRepo) Update(_ context.Context, h Holiday) error {
	for i := range m.rows {
		if m.rows[i].ID == h.ID {
			m.rows[i] = h
		}
	}
	return nil
}

func (m *memRepo) Delete(_ context.Context, id string) (bool, error) {
	for i := range m.rows {
		if m.rows[i].ID == id {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (m *memRepo) Get(_ context.Context, id string) (*Holiday, error) {
	for i := range m.rows {
		if m.rows[i].ID == id {
			return &m.rows[i], nil
		}
	}
	return nil, nil
}

func (m *memRepo) ByDate(_ context.Context, d time.Time) ([]Holiday, error) {
	var res []Holiday
	for _, h := range m.rows {
		if h.Date.Equal(d) {
			res = append(res, h)
		}
	}
	return res, nil
}

func (m *memRepo) InRange(_ context.Context, start, end time.Time) ([]Holiday, error) {
	var res []Holiday
	for _, h := range m.rows {
		if !h.Date.Before(start) && !h.Date.After(end) {
			res = append(res, h)
		}
	}
	return res, nil
}

func (m *memRepo) Recurring(_ context.Context) ([]Holiday, error) {
	var res []Holiday
	for _, h := range m.rows {
		if h.IsRecurring {
			res = append(res, h)
		}
	}
	return res, nil
}

func (m *memRepo) All(_ context.Context) ([]Holiday, error) {
	return append([]Holiday(nil), m.rows...), nil
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func calendarWith(t *testing.T, holidays ...Holiday) *Calendar {
	t.Helper()
	repo := &memRepo{}
	cal := NewCalendar(repo)
	for _, h := range holidays {
		_, err := cal.Create(context.Background(), h)
		require.NoError(t, err)
	}
	return cal
}

func TestIsHolidayRecurring(t *testing.T) {
	cal := calendarWith(t, Holiday{Name: "Christmas", Date: day(2020, time.December, 25), IsRecurring: true})
	ctx := context.Background()

	for _, d := range []time.Time{day(2024, time.December, 25), day(2025, time.December, 25)} {
		got, err := cal.IsHoliday(ctx, d)
		require.NoError(t, err)
		require.NotNil(t, got, "expected %s to match", d)
		assert.Equal(t, "Christmas", got.Name)
	}

	got, err := cal.IsHoliday(ctx, day(2024, time.December, 24))
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestIsHolidayExactMatchWins(t *testing.T) {
	cal := calendarWith(t,
		Holiday{Name: "Graduation", Date: day(2024, time.June, 14)},
	)
	got, err := cal.IsHoliday(context.Background(), day(2024, time.June, 14))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Graduation", got.Name)

	// Same month/day in a different year is not a match for one-off entries.
	got, err = cal.IsHoliday(context.Background(), day(2025, time.June, 14))
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestBetweenProjectsRecurring(t *testing.T) {
	cal := calendarWith(t,
		Holiday{Name: "New Year", Date: day(2020, time.January, 1), IsRecurring: true},
		Holiday{Name: "Sports Day", Date: day(2024, time.March, 4)},
	)

	got, err := cal.Between(context.Background(), day(2023, time.December, 1), day(2025, time.January, 31))
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, day(2024, time.January, 1), got[0].Date)
	assert.Equal(t, day(2024, time.March, 4), got[1].Date)
	assert.Equal(t, day(2025, time.January, 1), got[2].Date)
}

func TestBetweenSkipsInvalidLeapProjections(t *testing.T) {
	cal := calendarWith(t, Holiday{Name: "Leap Fest", Date: day(2024, time.February, 29), IsRecurring: true})

	got, err := cal.Between(context.Background(), day(2025, time.January, 1), day(2025, time.December, 31))
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = cal.Between(context.Background(), day(2028, time.January, 1), day(2028, time.December, 31))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, day(2028, time.February, 29), got[0].Date)
}

func TestBetweenDeduplicates(t *testing.T) {
	// A one-off row on the same (date, name) as a recurring projection
	// must appear once.
	cal := calendarWith(t,
		Holiday{Name: "Christmas", Date: day(2024, time.December, 25)},
		Holiday{Name: "Christmas", Date: day(2020, time.December, 25), IsRecurring: true},
	)

	got, err := cal.Between(context.Background(), day(2024, time.December, 1), day(2024, time.December, 31))
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestWorkingDays(t *testing.T) {
	ctx := context.Background()

	// 2024-01-01 is a Monday; the week has two weekend days.
	cal := calendarWith(t)
	got, err := cal.WorkingDays(ctx, day(2024, time.January, 1), day(2024, time.January, 7))
	require.NoError(t, err)
	assert.Equal(t, 5, got)

	// A recurring holiday on a weekday removes one.
	cal = calendarWith(t, Holiday{Name: "New Year", Date: day(2020, time.January, 1), IsRecurring: true})
	got, err = cal.WorkingDays(ctx, day(2024, time.January, 1), day(2024, time.January, 7))
	require.NoError(t, err)
	assert.Equal(t, 4, got)

	// A holiday on a weekend changes nothing.
	cal = calendarWith(t, Holiday{Name: "Epiphany", Date: day(2024, time.January, 6)})
	got, err = cal.WorkingDays(ctx, day(2024, time.January, 1), day(2024, time.January, 7))
	require.NoError(t, err)
	assert.Equal(t, 5, got)

	// Inverted range is zero.
	got, err = cal.WorkingDays(ctx, day(2024, time.January, 7), day(2024, time.January, 1))
	require.NoError(t, err)
	assert.Equal(t, 0, got)
}

func TestUpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	repo := &memRepo{}
	cal := NewCalendar(repo)

	created, err := cal.Create(ctx, Holiday{Name: "Founders Day", Date: day(2024, time.May, 2)})
	require.NoError(t, err)

	created.Name = "Founders' Day"
	updated, err := cal.Update(ctx, created)
	require.NoError(t, err)
	assert.Equal(t, "Founders' Day", updated.Name)

	require.NoError(t, cal.Delete(ctx, created.ID))
	assert.ErrorIs(t, cal.Delete(ctx, created.ID), ErrNotFound)

	_, err = cal.Update(ctx, Holiday{ID: "missing"})
	assert.ErrorIs(t, err, ErrNotFound)
}
