package match

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/playmatatu/flickfog/internal/game"
	"github.com/redis/go-redis/v9"
)

// StartIdleWorker marks players inactive once their idle deadline in the
// match_idle sorted set has passed.
func (mm *MatchManager) StartIdleWorker(ctx context.Context) {
	if mm.rdb == nil || mm.config == nil {
		log.Println("[IDLE] Redis or config missing; idle worker not started")
		return
	}

	log.Println("[IDLE] Idle worker started")
	go func() {
		ticker := time.NewTicker(time.Duration(mm.config.IdleWorkerPollInterval) * time.Second)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				log.Println("[IDLE] Idle worker stopping")
				return
			case <-ticker.C:
				mm.sweepIdle(ctx, time.Now().Unix())
			}
		}
	}()
}

func (mm *MatchManager) sweepIdle(ctx context.Context, now int64) {
	members, err := mm.rdb.ZRangeByScore(ctx, idleSet, &redis.ZRangeBy{Min: "-inf", Max: fmt.Sprintf("%d", now)}).Result()
	if err != nil {
		log.Printf("[IDLE] Failed to fetch idle members: %v", err)
		return
	}
	for _, m := range members {
		// Attempt to remove (race-safe)
		if removed, _ := mm.rdb.ZRem(ctx, idleSet, m).Result(); removed > 0 {
			mm.expireIdle(m)
		}
	}
}

// expireIdle marks the player behind an expired member inactive. Returns
// false when the member no longer maps to a running match.
func (mm *MatchManager) expireIdle(member string) bool {
	matchID, playerID := parseMember(member)
	if matchID == "" || playerID == "" {
		return false
	}
	m, err := mm.Get(matchID)
	if err != nil || m.Over() {
		return false
	}
	pid := game.PlayerID(playerID)
	if !m.IsSeated(pid) {
		return false
	}

	log.Printf("[IDLE] player %s inactive in match %s", playerID, matchID)
	if err := m.PlayerLeft(pid); err != nil {
		log.Printf("[IDLE] PlayerLeft failed: match=%s player=%s err=%v", matchID, playerID, err)
		return false
	}
	mm.publish(map[string]interface{}{
		"type":     "player_inactive",
		"match_id": matchID,
		"player":   playerID,
		"message":  "Player inactive",
	})
	return true
}

func idleMember(matchID string, playerID game.PlayerID) string {
	return fmt.Sprintf("m:%s:p:%s", matchID, playerID)
}

// parseMember expects member format m:<matchID>:p:<playerID>
func parseMember(m string) (string, string) {
	parts := strings.SplitN(m, ":", 4)
	if len(parts) == 4 && parts[0] == "m" && parts[2] == "p" {
		return parts[1], parts[3]
	}
	return "", ""
}
