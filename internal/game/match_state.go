package game

import (
	"errors"
	"fmt"
)

// PlayerID identifies a seat occupant (a human or the bot).
type PlayerID string

// Phase is the match phase. Phases only ever move forward.
type Phase string

const (
	PhaseWaiting  Phase = "WAITING"
	PhaseClaiming Phase = "CLAIMING"
	PhasePlaying  Phase = "PLAYING"
	PhaseGameOver Phase = "GAME_OVER"
)

var (
	ErrNoPlayers       = errors.New("at least one player is required")
	ErrTooManyPlayers  = errors.New("at most two players are supported")
	ErrDuplicatePlayer = errors.New("duplicate player id")
)

// Piece is a puck on the board. Scored pieces are parked off-board rather
// than removed so ids keep indexing Pieces.
type Piece struct {
	ID        int               `json:"id"`
	X         float64           `json:"x"`
	Y         float64           `json:"y"`
	VelocityX float64           `json:"velocityX"`
	VelocityY float64           `json:"velocityY"`
	OwnerID   PlayerID          `json:"ownerId,omitempty"` // empty until claimed
	IsVisible map[PlayerID]bool `json:"isVisible"`
}

// Owned reports whether the piece has been claimed.
func (p *Piece) Owned() bool {
	return p.OwnerID != ""
}

// InPlay reports whether the piece is still inside the playable vertical band.
func (p *Piece) InPlay() bool {
	return p.Y >= -PieceRadius && p.Y <= BoardHeight+PieceRadius
}

// PlayerState is the per-seat state.
type PlayerState struct {
	PaddleX  float64 `json:"paddleX"`
	Score    int     `json:"score"`
	Ready    bool    `json:"ready"`
	Inactive bool    `json:"inactive"`
}

// GameState is the single root of a match. The host owns it and hands it to
// the functions in this package one call at a time.
type GameState struct {
	Pieces         []Piece                   `json:"pieces"`
	Players        map[PlayerID]*PlayerState `json:"players"`
	PlayerIDs      [2]PlayerID               `json:"playerIds"` // [0] = top seat, [1] = bottom seat
	GamePhase      Phase                     `json:"gamePhase"`
	WinnerPlayerID PlayerID                  `json:"winnerPlayerId,omitempty"`

	BotLastActionTimestamp int64       `json:"botLastActionTimestamp"`
	BotAction              *BotCommand `json:"botAction"`
}

// Setup seats the players and lays out the pieces. A lone human gets the bot
// as an opponent in seat 1.
func Setup(playerIDs []PlayerID) (*GameState, error) {
	ids := make([]PlayerID, 0, 2)
	for _, id := range playerIDs {
		if id == "" {
			return nil, fmt.Errorf("%w: empty id", ErrNoPlayers)
		}
		if id == BotID {
			return nil, fmt.Errorf("%w: %s is reserved", ErrDuplicatePlayer, BotID)
		}
		for _, seen := range ids {
			if seen == id {
				return nil, fmt.Errorf("%w: %s", ErrDuplicatePlayer, id)
			}
		}
		ids = append(ids, id)
	}

	switch len(ids) {
	case 0:
		return nil, ErrNoPlayers
	case 1:
		ids = append(ids, BotID)
	case 2:
	default:
		return nil, ErrTooManyPlayers
	}

	g := &GameState{
		Players:   make(map[PlayerID]*PlayerState, 2),
		PlayerIDs: [2]PlayerID{ids[0], ids[1]},
		GamePhase: PhaseWaiting,
	}
	for _, id := range g.PlayerIDs {
		g.Players[id] = &PlayerState{
			PaddleX: BoardWidth / 2,
			Ready:   id == BotID,
		}
	}
	g.Pieces = initialPieces(InitialPiecesCount, g.PlayerIDs)
	return g, nil
}

func initialPieces(count int, seats [2]PlayerID) []Piece {
	pieces := make([]Piece, count)
	spacing := BoardWidth / float64(count+1)
	for i := range pieces {
		visible := make(map[PlayerID]bool, len(seats))
		for _, id := range seats {
			visible[id] = true
		}
		pieces[i] = Piece{
			ID:        i,
			X:         spacing * float64(i+1),
			Y:         CenterLine,
			IsVisible: visible,
		}
	}
	return pieces
}

// SeatOf returns the seat index of a player, or -1 if the player is not seated.
func (g *GameState) SeatOf(id PlayerID) int {
	for i, seat := range g.PlayerIDs {
		if seat == id && id != "" {
			return i
		}
	}
	return -1
}

// HasBot reports whether the bot occupies a seat.
func (g *GameState) HasBot() bool {
	return g.SeatOf(BotID) >= 0
}

// piece returns the piece with the given id or nil.
func (g *GameState) piece(id int) *Piece {
	if id < 0 || id >= len(g.Pieces) {
		return nil
	}
	return &g.Pieces[id]
}

func (g *GameState) activeSeats() []int {
	var seats []int
	for i, id := range g.PlayerIDs {
		if p := g.Players[id]; p != nil && !p.Inactive {
			seats = append(seats, i)
		}
	}
	return seats
}
