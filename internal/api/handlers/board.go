package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/playmatatu/flickfog/internal/game"
)

// GetBoard returns the board constants shared with presentation layers.
func GetBoard(c *gin.Context) {
	c.JSON(http.StatusOK, game.BoardConstants())
}
