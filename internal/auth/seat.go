package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

var ErrInvalidSeatToken = errors.New("invalid seat token")

// SeatClaims identifies one seat of one match.
type SeatClaims struct {
	MatchID  string
	PlayerID string
}

// IssueSeatToken signs an HS256 token binding playerID to matchID.
func IssueSeatToken(secret, matchID, playerID string, ttl time.Duration) (string, error) {
	exp := time.Now().Add(ttl)
	claims := jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(exp)}
	custom := jwt.MapClaims{"match_id": matchID, "player_id": playerID, "exp": claims.ExpiresAt.Unix()}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, custom)
	return token.SignedString([]byte(secret))
}

// ParseSeatToken validates a seat token and returns its claims.
func ParseSeatToken(secret, token string) (SeatClaims, error) {
	parsed, err := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || !parsed.Valid {
		return SeatClaims{}, ErrInvalidSeatToken
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return SeatClaims{}, ErrInvalidSeatToken
	}
	matchID, _ := claims["match_id"].(string)
	playerID, _ := claims["player_id"].(string)
	if matchID == "" || playerID == "" {
		return SeatClaims{}, ErrInvalidSeatToken
	}
	return SeatClaims{MatchID: matchID, PlayerID: playerID}, nil
}
