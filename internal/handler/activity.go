package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"classtrack/internal/api"
)

func intQuery(c *gin.Context, name string, def int) int {
	raw := c.Query(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return def
	}
	return n
}

// ListActivity returns recent audit entries, paginated.
func (h *Handler) ListActivity(c *gin.Context) {
	hours := intQuery(c, "hours", 24)
	page := intQuery(c, "page", 1)
	perPage := intQuery(c, "per_page", 20)
	if perPage > 100 {
		perPage = 100
	}

	entries, err := h.audit.Recent(c.Request.Context(), hours, c.Query("user_type"))
	if err != nil {
		api.Fail(c, err)
		return
	}
	if t := c.Query("type"); t != "" {
		filtered := entries[:0]
		for _, e := range entries {
			if e.ActivityType == t {
				filtered = append(filtered, e)
			}
		}
		entries = filtered
	}

	total := len(entries)
	offset := (page - 1) * perPage
	if offset > total {
		offset = total
	}
	end := offset + perPage
	if end > total {
		end = total
	}

	api.Paginated(c, "Activity retrieved", entries[offset:end], api.NewPagination(page, perPage, total))
}

// SuspiciousActivity returns security-relevant entries from the last window.
func (h *Handler) SuspiciousActivity(c *gin.Context) {
	hours := intQuery(c, "hours", 24)

	entries, err := h.audit.Suspicious(c.Request.Context(), hours)
	if err != nil {
		api.Fail(c, err)
		return
	}
	api.OK(c, "Suspicious activity retrieved", gin.H{
		"entries": entries,
		"count":   len(entries),
	})
}
