package handler

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"

	"classtrack/internal/activity"
	"classtrack/internal/api"
	"classtrack/internal/settings"
)

// ListSettings returns editable settings, optionally filtered by category.
func (h *Handler) ListSettings(c *gin.Context) {
	var (
		rows []settings.Setting
		err  error
	)
	if category := c.Query("category"); category != "" {
		rows, err = h.settings.ByCategory(c.Request.Context(), category)
	} else {
		rows, err = h.settings.AllEditable(c.Request.Context())
	}
	if err != nil {
		api.Fail(c, err)
		return
	}
	api.OK(c, "Settings retrieved", rows)
}

// GetSetting returns a single setting by key.
func (h *Handler) GetSetting(c *gin.Context) {
	key := c.Param("key")
	row, err := h.settings.Describe(c.Request.Context(), key)
	if err != nil {
		api.Fail(c, err)
		return
	}
	if row == nil {
		api.Fail(c, api.NotFound("setting"))
		return
	}
	api.OK(c, "Setting retrieved", row)
}

type putSettingRequest struct {
	Value       string `json:"setting_value" binding:"required"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// PutSetting creates or updates a setting. System settings are rejected.
func (h *Handler) PutSetting(c *gin.Context) {
	key := c.Param("key")
	var req putSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Fail(c, api.ValidationFailed(err.Error(), nil))
		return
	}

	row, err := h.settings.Set(c.Request.Context(), key, req.Value, settings.SetOptions{
		Description: req.Description,
		Category:    req.Category,
	})
	if err != nil {
		if errors.Is(err, settings.ErrProtectedSetting) {
			api.Fail(c, api.Protected("System settings cannot be modified"))
			return
		}
		api.Fail(c, err)
		return
	}

	h.record(c, activity.TypeChangeSettings, fmt.Sprintf("updated setting %s", key))
	api.OK(c, "Setting saved", row)
}

// DeleteSetting removes a non-system setting.
func (h *Handler) DeleteSetting(c *gin.Context) {
	key := c.Param("key")
	if err := h.settings.Delete(c.Request.Context(), key); err != nil {
		switch {
		case errors.Is(err, settings.ErrNotFound):
			api.Fail(c, api.NotFound("setting"))
		case errors.Is(err, settings.ErrProtectedSetting):
			api.Fail(c, api.Protected("System settings cannot be deleted"))
		default:
			api.Fail(c, err)
		}
		return
	}

	h.record(c, activity.TypeChangeSettings, fmt.Sprintf("deleted setting %s", key))
	api.OK(c, "Setting deleted", nil)
}
