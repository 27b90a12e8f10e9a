package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"classtrack/internal/api"
	"classtrack/internal/auth"
)

// DashboardStats returns the 30-day rollup for the caller. Pass
// ?fresh=true to bypass the cache; ?date= shifts the window end.
func (h *Handler) DashboardStats(c *gin.Context) {
	claims, _ := auth.ClaimsFrom(c)
	force := c.Query("fresh") == "true"

	asOf := time.Now().UTC()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse(dateLayout, raw)
		if err != nil {
			api.Fail(c, api.ValidationFailed("invalid date", map[string]string{"date": "format YYYY-MM-DD"}))
			return
		}
		asOf = parsed
	}

	stats, err := h.stats.Stats(c.Request.Context(), claims.UserID, asOf, force)
	if err != nil {
		api.Fail(c, err)
		return
	}
	api.OK(c, "Dashboard statistics retrieved", stats)
}

// TodaySessions lists the caller's sessions for today with derived state.
func (h *Handler) TodaySessions(c *gin.Context) {
	claims, _ := auth.ClaimsFrom(c)
	now := time.Now().UTC()

	sessions, err := h.stats.TodaySessions(c.Request.Context(), claims.UserID, now, now)
	if err != nil {
		api.Fail(c, err)
		return
	}
	api.OK(c, "Today's sessions retrieved", gin.H{
		"date":     now.Format(dateLayout),
		"sessions": sessions,
		"count":    len(sessions),
	})
}

// ClassSessions lists a class's sessions. Assignment to the class is
// enforced by middleware.
func (h *Handler) ClassSessions(c *gin.Context) {
	classID := c.Param("id")
	cls, err := h.roster.ClassByID(c.Request.Context(), classID)
	if err != nil {
		api.Fail(c, err)
		return
	}
	if cls == nil {
		api.Fail(c, api.NotFound("class"))
		return
	}

	sessions, err := h.roster.ClassSessions(c.Request.Context(), classID)
	if err != nil {
		api.Fail(c, err)
		return
	}
	api.OK(c, "Class sessions retrieved", gin.H{
		"class":    cls,
		"sessions": sessions,
		"count":    len(sessions),
	})
}

// GetSession returns one session. Ownership is enforced by middleware.
func (h *Handler) GetSession(c *gin.Context) {
	session, err := h.roster.SessionByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		api.Fail(c, err)
		return
	}
	if session == nil {
		api.Fail(c, api.NotFound("session"))
		return
	}
	api.OK(c, "Session retrieved", session)
}
