package ws

import (
	"context"
	"encoding/json"
	"log"

	"github.com/playmatatu/flickfog/internal/config"
	"github.com/redis/go-redis/v9"
)

var rdbClient *redis.Client
var wsConfig *config.Config

func SetRedisClient(r *redis.Client, cfg *config.Config) {
	rdbClient = r
	wsConfig = cfg
}

// matchEvent is the payload published on match_events.
type matchEvent struct {
	Type    string `json:"type"`
	MatchID string `json:"match_id"`
	Player  string `json:"player"`
	Message string `json:"message"`
}

// StartMatchEventSubscriber subscribes to match_events and relays notices to
// the connected seats. State and game_over frames are pushed directly by the
// match, so only notices are relayed here.
func StartMatchEventSubscriber(ctx context.Context) {
	if rdbClient == nil {
		log.Println("[WS] Redis client not set; match event subscriber not started")
		return
	}

	pubsub := rdbClient.Subscribe(ctx, "match_events")
	ch := pubsub.Channel()
	go func() {
		defer pubsub.Close()
		log.Println("[WS] match_events subscriber started")
		for msg := range ch {
			handleMatchEvent(GameHub, []byte(msg.Payload))
		}
	}()
}

// handleMatchEvent returns true when the event was relayed to a room.
func handleMatchEvent(h *Hub, payload []byte) bool {
	var ev matchEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		log.Printf("[WS] invalid event payload: %v", err)
		return false
	}
	log.Printf("[WS] event received: type=%s match_id=%s", ev.Type, ev.MatchID)

	switch ev.Type {
	case "player_inactive", "match_expired":
		if h.RoomSize(ev.MatchID) == 0 {
			log.Printf("[WS] no room for match %s; %s will not be broadcast", ev.MatchID, ev.Type)
			return false
		}
		message := ev.Message
		if message == "" && ev.Type == "match_expired" {
			message = "Match expired before it started"
		}
		h.BroadcastToMatch(ev.MatchID, NoticeMessage{Type: ev.Type, Player: ev.Player, Message: message})
		return true

	case "game_over":
		// already delivered by the match broadcaster
		return false

	default:
		log.Printf("[WS] unknown event type: %s", ev.Type)
		return false
	}
}
