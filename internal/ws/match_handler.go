package ws

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/playmatatu/flickfog/internal/auth"
	"github.com/playmatatu/flickfog/internal/game"
	"github.com/playmatatu/flickfog/internal/match"
)

// GameHub is the single hub for all matches.
var GameHub *Hub

func init() {
	GameHub = NewHub()
	go runGameHub(GameHub)
}

// HandleWebSocket upgrades a seat holder's connection to the match socket.
func HandleWebSocket(c *gin.Context) {
	matchID := c.Param("id")
	playerToken := c.Query("pt")

	if matchID == "" || playerToken == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "match id and pt required"})
		return
	}
	if wsConfig == nil || match.Manager == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "match service not ready"})
		return
	}

	claims, err := auth.ParseSeatToken(wsConfig.JWTSecret, playerToken)
	if err != nil || claims.MatchID != matchID {
		c.JSON(http.StatusForbidden, gin.H{"error": "invalid player token"})
		return
	}
	m, err := match.Manager.Get(matchID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "match not found"})
		return
	}
	playerID := game.PlayerID(claims.PlayerID)
	if !m.IsSeated(playerID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "invalid player token"})
		return
	}
	codec, err := codecFor(c.Query("enc"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[WS] Upgrade error: %v", err)
		return
	}

	client := &Client{
		conn:     conn,
		playerID: playerID,
		matchID:  matchID,
		codec:    codec,
		send:     make(chan frame, 256),
	}

	GameHub.register <- client

	go client.writePump()
	go client.readPump()
}

// runGameHub serializes client registration for all matches.
func runGameHub(h *Hub) {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			room, exists := h.rooms[client.matchID]
			if !exists {
				room = make(map[game.PlayerID]*Client)
				h.rooms[client.matchID] = room
			}
			if old, exists := room[client.playerID]; exists {
				log.Printf("[WS] Player %s reconnecting to %s - closing old connection", client.playerID, client.matchID)
				if err := old.conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "replaced by new connection"), time.Now().Add(5*time.Second)); err != nil {
					log.Printf("[WS] Error writing close control to old client %s: %v", old.playerID, err)
				}
				old.conn.Close()
			}
			room[client.playerID] = client
			h.mu.Unlock()

			log.Printf("[WS] Player %s connected to match %s", client.playerID, client.matchID)

			m, err := match.Manager.Get(client.matchID)
			if err != nil {
				client.sendError("Match not found")
				continue
			}
			m.PlayerJoined(client.playerID)
			match.Manager.Touch(client.matchID, client.playerID)
			if view, err := m.View(client.playerID); err == nil {
				client.enqueue(StateMessage{Type: "game_state", State: view})
			}
			if out := m.Outcome(); out != nil {
				client.enqueue(GameOverMessage{Type: "game_over", Outcome: out})
			}

		case client := <-h.unregister:
			h.mu.Lock()
			current := false
			if room, ok := h.rooms[client.matchID]; ok && room[client.playerID] == client {
				current = true
				delete(room, client.playerID)
				if len(room) == 0 {
					delete(h.rooms, client.matchID)
				}
				close(client.send)
			}
			h.mu.Unlock()

			if !current {
				continue
			}
			log.Printf("[WS] Player %s disconnected from match %s", client.playerID, client.matchID)
			if m, err := match.Manager.Get(client.matchID); err == nil && !m.Over() {
				m.PlayerLeft(client.playerID)
			}
		}
	}
}

// readPump reads action messages from one seat.
func (c *Client) readPump() {
	defer func() {
		GameHub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(65536)
	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		kind, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[WS] unexpected close for player %s: %v", c.playerID, err)
			} else {
				log.Printf("[WS] read error for player %s: %v", c.playerID, err)
			}
			break
		}

		if match.Manager != nil {
			match.Manager.Touch(c.matchID, c.playerID)
		}

		msg, err := decodeInbound(kind, message)
		if err != nil {
			c.sendError("Malformed message")
			continue
		}
		c.handleMessage(msg)
	}
}

// handleMessage dispatches one inbound message.
func (c *Client) handleMessage(msg WSMessage) {
	m, err := match.Manager.Get(c.matchID)
	if err != nil {
		c.sendError("Match not found")
		return
	}

	if msg.Type == "get_state" {
		if view, err := m.View(c.playerID); err == nil {
			c.enqueue(StateMessage{Type: "game_state", State: view})
		}
		return
	}

	action, err := game.ParseAction(msg.Type, msg.Data)
	if err != nil {
		c.sendError(err.Error())
		return
	}
	if err := m.Apply(c.playerID, action); err != nil {
		switch {
		case errors.Is(err, match.ErrMatchOver):
			c.sendError("Match is over")
		case errors.Is(err, game.ErrInvalidAction):
			c.sendError(err.Error())
		default:
			log.Printf("[WS] %s from %s in %s failed: %v", msg.Type, c.playerID, c.matchID, err)
			c.sendError("Action failed")
		}
	}
}
