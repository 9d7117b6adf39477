package ws

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/playmatatu/flickfog/internal/game"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // origins are checked by middleware.WebSocketCORSCheck
	},
}

type frame struct {
	kind int
	data []byte
}

// Client represents a connected WebSocket client
type Client struct {
	conn     *websocket.Conn
	playerID game.PlayerID
	matchID  string
	codec    Codec
	send     chan frame
}

// Hub maintains the set of active clients
type Hub struct {
	rooms      map[string]map[game.PlayerID]*Client // matchID -> playerID -> Client
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
}

// NewHub creates a new Hub
func NewHub() *Hub {
	return &Hub{
		rooms:      make(map[string]map[game.PlayerID]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Message types
type WSMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type StateMessage struct {
	Type  string    `json:"type"`
	State game.View `json:"state"`
}

type GameOverMessage struct {
	Type    string        `json:"type"`
	Outcome *game.Outcome `json:"outcome"`
}

type NoticeMessage struct {
	Type    string `json:"type"`
	Player  string `json:"player,omitempty"`
	Message string `json:"message"`
}

// BroadcastViews sends every connected seat its own view.
func (h *Hub) BroadcastViews(matchID string, views map[game.PlayerID]game.View) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	room, exists := h.rooms[matchID]
	if !exists {
		return
	}
	for pid, view := range views {
		if client, ok := room[pid]; ok {
			client.enqueue(StateMessage{Type: "game_state", State: view})
		}
	}
}

// BroadcastGameOver sends the outcome to every connected seat of a match.
func (h *Hub) BroadcastGameOver(matchID string, out *game.Outcome) {
	h.BroadcastToMatch(matchID, GameOverMessage{Type: "game_over", Outcome: out})
}

// BroadcastToMatch sends a message to all players in a match
func (h *Hub) BroadcastToMatch(matchID string, message interface{}) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.rooms[matchID] {
		client.enqueue(message)
	}
}

// SendToPlayer sends a message to one seat of a match
func (h *Hub) SendToPlayer(matchID string, playerID game.PlayerID, message interface{}) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if client, exists := h.rooms[matchID][playerID]; exists {
		client.enqueue(message)
	} else {
		log.Printf("[WS] SendToPlayer no client for player %s in match %s", playerID, matchID)
	}
}

// RoomSize returns the number of connected seats of a match.
func (h *Hub) RoomSize(matchID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[matchID])
}

// enqueue encodes message with the client's codec and queues it without
// blocking; a full buffer drops the frame.
func (c *Client) enqueue(message interface{}) {
	data, err := c.codec.Encode(message)
	if err != nil {
		log.Printf("[WS] Error encoding message for player %s: %v", c.playerID, err)
		return
	}
	select {
	case c.send <- frame{kind: c.codec.FrameType(), data: data}:
	default:
		log.Printf("[WS] Client send buffer full for player %s in match %s, dropping message", c.playerID, c.matchID)
	}
}

// writePump writes messages to the WebSocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case f, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				// Channel closed: connection is being replaced or cleaned up.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(f.kind, f.data); err != nil {
				log.Printf("[WS] write error for player %s: %v", c.playerID, err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Printf("[WS] ping error for player %s: %v", c.playerID, err)
				return
			}
		}
	}
}

// sendError sends an error message to the client
func (c *Client) sendError(message string) {
	c.enqueue(NoticeMessage{Type: "error", Message: message})
}
