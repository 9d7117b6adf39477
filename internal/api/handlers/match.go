package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/playmatatu/flickfog/internal/auth"
	"github.com/playmatatu/flickfog/internal/config"
	"github.com/playmatatu/flickfog/internal/game"
	"github.com/playmatatu/flickfog/internal/match"
)

// CreateMatch seats one or two humans in a new match and returns their seat
// tokens. A single human is matched against the bot.
func CreateMatch(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			PlayerIDs []string `json:"player_ids" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request. player_ids required."})
			return
		}
		if match.Manager == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Match service not ready"})
			return
		}

		humans := make([]game.PlayerID, 0, len(req.PlayerIDs))
		for _, raw := range req.PlayerIDs {
			id := normalizePlayerID(raw)
			if id == "" {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid player id"})
				return
			}
			humans = append(humans, game.PlayerID(id))
		}

		m, seats, err := match.Manager.CreateMatch(humans)
		if err != nil {
			switch {
			case errors.Is(err, game.ErrNoPlayers), errors.Is(err, game.ErrTooManyPlayers), errors.Is(err, game.ErrDuplicatePlayer):
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			default:
				log.Printf("[ERROR] CreateMatch failed: %v", err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create match"})
			}
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"match_id": m.ID,
			"seats":    seats,
			"phase":    m.Phase(),
		})
	}
}

// GetMatchState returns the caller's view of a match. The seat token in ?pt=
// identifies the caller.
func GetMatchState(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		matchID := c.Param("id")
		token := c.Query("pt")
		if token == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "pt required"})
			return
		}
		if match.Manager == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Match service not ready"})
			return
		}

		claims, err := auth.ParseSeatToken(cfg.JWTSecret, token)
		if err != nil || claims.MatchID != matchID {
			c.JSON(http.StatusForbidden, gin.H{"error": "Invalid player token"})
			return
		}
		m, err := match.Manager.Get(matchID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Match not found"})
			return
		}
		view, err := m.View(game.PlayerID(claims.PlayerID))
		if err != nil {
			c.JSON(http.StatusForbidden, gin.H{"error": "Invalid player token"})
			return
		}

		resp := gin.H{"match_id": m.ID, "state": view}
		if out := m.Outcome(); out != nil {
			resp["outcome"] = out
		}
		c.JSON(http.StatusOK, resp)
	}
}
