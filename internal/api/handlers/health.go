package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/playmatatu/flickfog/internal/match"
)

var startTime = time.Now()

const version = "1.0.0"

// HealthCheck returns server health status
func HealthCheck(c *gin.Context) {
	live := 0
	if match.Manager != nil {
		live = match.Manager.Count()
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "flickfog-api",
		"version": version,
		"uptime":  time.Since(startTime).String(),
		"matches": live,
	})
}
