package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/playmatatu/flickfog/internal/admin"
	"github.com/playmatatu/flickfog/internal/match"
)

// GetAdminMatches lists the matches held in memory.
func GetAdminMatches() gin.HandlerFunc {
	return func(c *gin.Context) {
		if match.Manager == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Match service not ready"})
			return
		}
		matches := match.Manager.List()
		c.JSON(http.StatusOK, gin.H{"matches": matches, "count": len(matches)})
	}
}

// EndAdminMatch stops a match's tick loop and drops it from memory.
func EndAdminMatch(db *sqlx.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if match.Manager == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Match service not ready"})
			return
		}
		matchID := c.Param("id")
		err := match.Manager.End(matchID)
		admin.LogAdminAction(db, c.ClientIP(), c.FullPath(), "end_match", map[string]interface{}{"match_id": matchID}, err == nil)
		if err != nil {
			if errors.Is(err, match.ErrMatchNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Match not found"})
				return
			}
			log.Printf("[ADMIN] end match %s failed: %v", matchID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to end match"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Match ended", "match_id": matchID})
	}
}

// GetAdminConfig returns runtime config overrides.
func GetAdminConfig(db *sqlx.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if db == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Database unavailable"})
			return
		}
		configs, err := admin.GetAllRuntimeConfig(db)
		if err != nil {
			log.Printf("[ADMIN] Failed to get runtime config: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load config"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"config": configs})
	}
}

// UpdateAdminConfig stores a runtime config override. Overrides are applied
// on the next start.
func UpdateAdminConfig(db *sqlx.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Value string `json:"value" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "value required"})
			return
		}
		if db == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Database unavailable"})
			return
		}

		key := c.Param("key")
		err := admin.UpdateRuntimeConfigValue(db, key, req.Value, "admin")
		admin.LogAdminAction(db, c.ClientIP(), c.FullPath(), "update_config", map[string]interface{}{"key": key, "value": req.Value}, err == nil)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Config updated", "key": key, "value": req.Value})
	}
}

// GetAdminAudit returns the admin audit log
func GetAdminAudit(db *sqlx.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if db == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Database unavailable"})
			return
		}
		limit, offset := pagination(c, 50, 500)
		logs, err := admin.GetAdminAuditLogs(db, limit, offset)
		if err != nil {
			log.Printf("[ADMIN] Failed to get audit logs: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load audit logs"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"logs": logs, "limit": limit, "offset": offset})
	}
}
