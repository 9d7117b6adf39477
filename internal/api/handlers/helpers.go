package handlers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

const maxPlayerIDLength = 64

// normalizePlayerID trims id and returns "" when it is not a usable player
// id: letters, digits, '-', '_' and '.' only.
func normalizePlayerID(id string) string {
	id = strings.TrimSpace(id)
	if id == "" || len(id) > maxPlayerIDLength {
		return ""
	}
	for _, char := range id {
		switch {
		case char >= 'a' && char <= 'z', char >= 'A' && char <= 'Z', char >= '0' && char <= '9':
		case char == '-', char == '_', char == '.':
		default:
			return ""
		}
	}
	return id
}

// pagination reads limit/offset query params, capping limit at max.
func pagination(c *gin.Context, def, max int) (int, int) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(def)))
	if err != nil || limit <= 0 {
		limit = def
	}
	if limit > max {
		limit = max
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}
	return limit, offset
}
