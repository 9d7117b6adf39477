package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/playmatatu/flickfog/internal/game"
	"github.com/playmatatu/flickfog/internal/models"
)

// GetPlayerResults returns a player's finished matches, newest first, with
// win/loss/draw totals.
func GetPlayerResults(db *sqlx.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		playerID := normalizePlayerID(c.Param("id"))
		if playerID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid player id"})
			return
		}
		if db == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Match history unavailable"})
			return
		}
		limit, offset := pagination(c, 25, 200)

		var results []models.MatchResult
		err := db.Select(&results, `
			SELECT match_id, player_id, result, score, reason, recorded_at
			FROM match_results
			WHERE player_id = $1
			ORDER BY recorded_at DESC
			LIMIT $2 OFFSET $3
		`, playerID, limit, offset)
		if err != nil {
			log.Printf("[DB] GetPlayerResults failed for %s: %v", playerID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load results"})
			return
		}

		var totals struct {
			Played int `db:"played" json:"played"`
			Won    int `db:"won" json:"won"`
			Lost   int `db:"lost" json:"lost"`
			Drawn  int `db:"drawn" json:"drawn"`
		}
		err = db.Get(&totals, `
			SELECT COUNT(*) AS played,
				COUNT(*) FILTER (WHERE result = $2) AS won,
				COUNT(*) FILTER (WHERE result = $3) AS lost,
				COUNT(*) FILTER (WHERE result = $4) AS drawn
			FROM match_results
			WHERE player_id = $1
		`, playerID, string(game.ResultWon), string(game.ResultLost), string(game.ResultDraw))
		if err != nil {
			log.Printf("[DB] GetPlayerResults totals failed for %s: %v", playerID, err)
		}

		if results == nil {
			results = []models.MatchResult{}
		}
		c.JSON(http.StatusOK, gin.H{
			"player_id": playerID,
			"results":   results,
			"totals":    totals,
			"limit":     limit,
			"offset":    offset,
		})
	}
}
