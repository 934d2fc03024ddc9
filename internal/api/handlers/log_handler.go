package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pnt-health-station-api-server/internal/store"
)

type LogHandler struct {
	Logs store.LogStore
}

// GetActivityLogs trả về nhật ký thao tác, mới nhất trước.
func (h *LogHandler) GetActivityLogs(c *gin.Context) {
	entries, err := h.Logs.ListLogs(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query activity logs"})
		return
	}

	for i, k := 0, len(entries)-1; i < k; i, k = i+1, k-1 {
		entries[i], entries[k] = entries[k], entries[i]
	}

	c.JSON(http.StatusOK, entries)
}
