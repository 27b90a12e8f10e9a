package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"classtrack/internal/activity"
	"classtrack/internal/auth"
	"classtrack/internal/dashboard"
	"classtrack/internal/holiday"
	"classtrack/internal/preferences"
	"classtrack/internal/roster"
	"classtrack/internal/settings"
)

// Handler owns the API route implementations and their dependencies.
type Handler struct {
	tokens    *auth.Manager
	accessTTL time.Duration
	roster    *roster.Repository
	settings  *settings.Store
	holidays  *holiday.Calendar
	prefs     *preferences.Service
	stats     *dashboard.Aggregator
	audit     *activity.Log
	ownership *auth.OwnershipRegistry
}

// New creates a handler.
func New(
	tokens *auth.Manager,
	accessTTL time.Duration,
	rosterRepo *roster.Repository,
	settingsStore *settings.Store,
	holidays *holiday.Calendar,
	prefs *preferences.Service,
	stats *dashboard.Aggregator,
	audit *activity.Log,
	ownership *auth.OwnershipRegistry,
) *Handler {
	return &Handler{
		tokens:    tokens,
		accessTTL: accessTTL,
		roster:    rosterRepo,
		settings:  settingsStore,
		holidays:  holidays,
		prefs:     prefs,
		stats:     stats,
		audit:     audit,
		ownership: ownership,
	}
}

// Register mounts all routes. public carries no auth middleware;
// protected requires a valid instructor token and rate limiting.
func (h *Handler) Register(public, protected *gin.RouterGroup) {
	public.POST("/auth/login", h.Login)
	public.POST("/auth/refresh", h.Refresh)

	protected.POST("/auth/logout", h.Logout)

	protected.GET("/settings", h.ListSettings)
	protected.GET("/settings/:key", h.GetSetting)
	protected.PUT("/settings/:key", h.PutSetting)
	protected.DELETE("/settings/:key", h.DeleteSetting)

	protected.GET("/holidays", h.ListHolidays)
	protected.POST("/holidays", h.CreateHoliday)
	protected.PUT("/holidays/:id", h.UpdateHoliday)
	protected.DELETE("/holidays/:id", h.DeleteHoliday)
	protected.GET("/holidays/check", h.CheckHoliday)
	protected.GET("/holidays/working-days", h.WorkingDays)

	protected.GET("/preferences", h.GetPreferences)
	protected.PUT("/preferences", h.UpdatePreferences)
	protected.POST("/preferences/reset", h.ResetPreferences)

	protected.GET("/dashboard/stats", h.DashboardStats)
	protected.GET("/dashboard/sessions/today", h.TodaySessions)
	protected.GET("/sessions/:id",
		auth.RequireOwnership(h.ownership, auth.ResourceSession, "id"), h.GetSession)
	protected.GET("/classes/:id/sessions",
		auth.RequireOwnership(h.ownership, auth.ResourceClass, "id"), h.ClassSessions)

	protected.GET("/activity", h.ListActivity)
	protected.GET("/activity/suspicious", h.SuspiciousActivity)
}

// record appends an audit entry for the current request, best-effort.
func (h *Handler) record(c *gin.Context, activityType, description string) {
	userID, userType := "", ""
	if claims, ok := auth.ClaimsFrom(c); ok {
		userID, userType = claims.UserID, claims.UserType
	}
	h.recordAs(c, userID, userType, activityType, description)
}

// recordAs appends an audit entry for an explicit user, best-effort.
func (h *Handler) recordAs(c *gin.Context, userID, userType, activityType, description string) {
	h.audit.Record(c.Request.Context(), activity.Entry{
		UserID:       userID,
		UserType:     userType,
		ActivityType: activityType,
		Description:  description,
		IPAddress:    c.ClientIP(),
		UserAgent:    c.Request.UserAgent(),
	})
}
