package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	appName   string
	startedAt time.Time
}

func NewHealthHandler(appName string, startedAt time.Time) *HealthHandler {
	return &HealthHandler{appName: appName, startedAt: startedAt}
}

// Check is a liveness probe. All real dependencies are remote HTTP APIs
// reached per request, so there is nothing local to ping.
func (h *HealthHandler) Check(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"app":        h.appName,
		"status":     "ok",
		"uptime_sec": int(time.Since(h.startedAt).Seconds()),
	})
}
