package handler

import (
	"github.com/gin-gonic/gin"

	"classtrack/internal/api"
	"classtrack/internal/auth"
	"classtrack/internal/preferences"
)

// GetPreferences returns the caller's preferences, creating defaults on
// first access.
func (h *Handler) GetPreferences(c *gin.Context) {
	claims, _ := auth.ClaimsFrom(c)
	pref, err := h.prefs.Get(c.Request.Context(), claims.UserID)
	if err != nil {
		api.Fail(c, err)
		return
	}
	api.OK(c, "Preferences retrieved", pref)
}

// UpdatePreferences applies a partial update. Absent fields keep their
// stored values.
func (h *Handler) UpdatePreferences(c *gin.Context) {
	var req preferences.Update
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Fail(c, api.ValidationFailed(err.Error(), nil))
		return
	}

	claims, _ := auth.ClaimsFrom(c)
	pref, err := h.prefs.Update(c.Request.Context(), claims.UserID, req)
	if err != nil {
		api.Fail(c, err)
		return
	}
	api.OK(c, "Preferences updated", pref)
}

// ResetPreferences restores the caller's preferences to defaults.
func (h *Handler) ResetPreferences(c *gin.Context) {
	claims, _ := auth.ClaimsFrom(c)
	pref, err := h.prefs.Reset(c.Request.Context(), claims.UserID)
	if err != nil {
		api.Fail(c, err)
		return
	}
	api.OK(c, "Preferences reset to defaults", pref)
}
