package handler

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"classtrack/internal/api"
	"classtrack/internal/holiday"
)

const dateLayout = "2006-01-02"

func parseDateQuery(c *gin.Context, name string) (time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		api.Fail(c, api.ValidationFailed(name+" is required", map[string]string{name: "required, format YYYY-MM-DD"}))
		return time.Time{}, false
	}
	d, err := time.Parse(dateLayout, raw)
	if err != nil {
		api.Fail(c, api.ValidationFailed("invalid "+name, map[string]string{name: "format YYYY-MM-DD"}))
		return time.Time{}, false
	}
	return d, true
}

// ListHolidays returns holidays for a year, defaulting to the current one.
func (h *Handler) ListHolidays(c *gin.Context) {
	year := time.Now().UTC().Year()
	if raw := c.Query("year"); raw != "" {
		parsed, err := time.Parse("2006", raw)
		if err != nil {
			api.Fail(c, api.ValidationFailed("invalid year", map[string]string{"year": "format YYYY"}))
			return
		}
		year = parsed.Year()
	}

	rows, err := h.holidays.All(c.Request.Context(), year)
	if err != nil {
		api.Fail(c, err)
		return
	}
	api.OK(c, "Holidays retrieved", rows)
}

type holidayRequest struct {
	Name        string `json:"name" binding:"required"`
	Date        string `json:"date" binding:"required"`
	Description string `json:"description"`
	IsRecurring bool   `json:"is_recurring"`
}

// CreateHoliday adds a calendar entry.
func (h *Handler) CreateHoliday(c *gin.Context) {
	var req holidayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Fail(c, api.ValidationFailed(err.Error(), nil))
		return
	}
	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		api.Fail(c, api.ValidationFailed("invalid date", map[string]string{"date": "format YYYY-MM-DD"}))
		return
	}

	created, err := h.holidays.Create(c.Request.Context(), holiday.Holiday{
		Name:        req.Name,
		Date:        date,
		Description: req.Description,
		IsRecurring: req.IsRecurring,
	})
	if err != nil {
		api.Fail(c, err)
		return
	}
	api.Created(c, "Holiday created", created)
}

// UpdateHoliday replaces a calendar entry.
func (h *Handler) UpdateHoliday(c *gin.Context) {
	var req holidayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Fail(c, api.ValidationFailed(err.Error(), nil))
		return
	}
	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		api.Fail(c, api.ValidationFailed("invalid date", map[string]string{"date": "format YYYY-MM-DD"}))
		return
	}

	updated, err := h.holidays.Update(c.Request.Context(), holiday.Holiday{
		ID:          c.Param("id"),
		Name:        req.Name,
		Date:        date,
		Description: req.Description,
		IsRecurring: req.IsRecurring,
	})
	if err != nil {
		if errors.Is(err, holiday.ErrNotFound) {
			api.Fail(c, api.NotFound("holiday"))
			return
		}
		api.Fail(c, err)
		return
	}
	api.OK(c, "Holiday updated", updated)
}

// DeleteHoliday removes a calendar entry.
func (h *Handler) DeleteHoliday(c *gin.Context) {
	if err := h.holidays.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, holiday.ErrNotFound) {
			api.Fail(c, api.NotFound("holiday"))
			return
		}
		api.Fail(c, err)
		return
	}
	api.OK(c, "Holiday deleted", nil)
}

// CheckHoliday reports whether a given date is a holiday.
func (h *Handler) CheckHoliday(c *gin.Context) {
	date, ok := parseDateQuery(c, "date")
	if !ok {
		return
	}

	match, err := h.holidays.IsHoliday(c.Request.Context(), date)
	if err != nil {
		api.Fail(c, err)
		return
	}
	api.OK(c, "Holiday check complete", gin.H{
		"date":       date.Format(dateLayout),
		"is_holiday": match != nil,
		"holiday":    match,
	})
}

// WorkingDays counts Monday-Friday days in a range, excluding holidays.
func (h *Handler) WorkingDays(c *gin.Context) {
	start, ok := parseDateQuery(c, "start")
	if !ok {
		return
	}
	end, ok := parseDateQuery(c, "end")
	if !ok {
		return
	}

	days, err := h.holidays.WorkingDays(c.Request.Context(), start, end)
	if err != nil {
		api.Fail(c, err)
		return
	}
	api.OK(c, "Working days calculated", gin.H{
		"start":        start.Format(dateLayout),
		"end":          end.Format(dateLayout),
		"working_days": days,
	})
}
