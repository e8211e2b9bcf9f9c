package handlers

import (
	"net/http"

	"taskmanager/internal/logger"

	"github.com/gin-gonic/gin"
)

const recentTaskCount = 5

// Dashboard renders the home page with recent tasks and counters.
func (h *Handler) Dashboard(c *gin.Context) {
	ctx := c.Request.Context()

	dbFlash := &Flash{Kind: "error", Message: "Database error: Unable to load dashboard"}

	stats, err := h.Tasks.Stats(ctx)
	if err != nil {
		logger.Error("task stats failed", "error", err)
		h.render(c, http.StatusInternalServerError, "dashboard", gin.H{"Flash": dbFlash})
		return
	}

	recent, err := h.Tasks.Recent(ctx, recentTaskCount)
	if err != nil {
		logger.Error("recent tasks failed", "error", err)
		h.render(c, http.StatusInternalServerError, "dashboard", gin.H{"Stats": stats, "Flash": dbFlash})
		return
	}

	h.render(c, http.StatusOK, "dashboard", gin.H{
		"Stats": stats,
		"Tasks": recent,
	})
}
