package game

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

// ErrInvalidAction covers every validation failure. Validation always runs
// before any mutation, so a failed action leaves the state untouched.
var ErrInvalidAction = errors.New("invalid action")

// Action is the closed set of inbound player actions.
type Action interface {
	Name() string
	isAction()
}

type SetReady struct{}

type ClaimPiece struct {
	PieceID int     `json:"pieceId"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
}

type MovePaddle struct {
	X float64 `json:"x"`
}

type Flick struct {
	PieceID   int     `json:"pieceId"`
	VelocityX float64 `json:"velocityX"`
	VelocityY float64 `json:"velocityY"`
}

// ClearBotAction acknowledges that the host dispatched the pending bot command.
type ClearBotAction struct{}

func (SetReady) Name() string       { return "setReady" }
func (ClaimPiece) Name() string     { return "claimPiece" }
func (MovePaddle) Name() string     { return "movePaddle" }
func (Flick) Name() string          { return "flick" }
func (ClearBotAction) Name() string { return "clearBotAction" }

func (SetReady) isAction()       {}
func (ClaimPiece) isAction()     {}
func (MovePaddle) isAction()     {}
func (Flick) isAction()          {}
func (ClearBotAction) isAction() {}

// ParseAction decodes a wire action by name.
func ParseAction(name string, data json.RawMessage) (Action, error) {
	var a Action
	switch name {
	case "setReady":
		return SetReady{}, nil
	case "clearBotAction":
		return ClearBotAction{}, nil
	case "claimPiece":
		var v ClaimPiece
		if err := unmarshalData(data, &v); err != nil {
			return nil, err
		}
		a = v
	case "movePaddle":
		var v MovePaddle
		if err := unmarshalData(data, &v); err != nil {
			// movePaddle also accepts a bare number
			var x float64
			if json.Unmarshal(data, &x) != nil {
				return nil, err
			}
			v.X = x
		}
		a = v
	case "flick":
		var v Flick
		if err := unmarshalData(data, &v); err != nil {
			return nil, err
		}
		a = v
	default:
		return nil, fmt.Errorf("%w: unknown action %q", ErrInvalidAction, name)
	}
	return a, nil
}

func unmarshalData(data json.RawMessage, v interface{}) error {
	if len(data) == 0 {
		return fmt.Errorf("%w: missing payload", ErrInvalidAction)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidAction, err)
	}
	return nil
}

// Apply validates and applies one action on behalf of a player.
func (g *GameState) Apply(playerID PlayerID, action Action) error {
	switch a := action.(type) {
	case SetReady:
		return g.setReady(playerID)
	case ClaimPiece:
		return g.claimPiece(playerID, a)
	case MovePaddle:
		g.movePaddle(playerID, a.X)
		return nil
	case Flick:
		return g.flick(playerID, a)
	case ClearBotAction:
		g.BotAction = nil
		return nil
	case nil:
		return fmt.Errorf("%w: nil action", ErrInvalidAction)
	default:
		return fmt.Errorf("%w: unsupported action %T", ErrInvalidAction, action)
	}
}

func (g *GameState) setReady(playerID PlayerID) error {
	if g.GamePhase != PhaseWaiting {
		return fmt.Errorf("%w: setReady in phase %s", ErrInvalidAction, g.GamePhase)
	}
	player, ok := g.Players[playerID]
	if !ok {
		return fmt.Errorf("%w: unknown player %s", ErrInvalidAction, playerID)
	}
	player.Ready = true

	for _, p := range g.Players {
		if !p.Ready {
			return nil
		}
	}
	g.GamePhase = PhaseClaiming
	return nil
}

func (g *GameState) claimPiece(playerID PlayerID, a ClaimPiece) error {
	if g.GamePhase != PhaseClaiming {
		return fmt.Errorf("%w: claimPiece in phase %s", ErrInvalidAction, g.GamePhase)
	}
	piece := g.piece(a.PieceID)
	if piece == nil {
		return fmt.Errorf("%w: no piece %d", ErrInvalidAction, a.PieceID)
	}
	if piece.Owned() {
		return fmt.Errorf("%w: piece %d already owned", ErrInvalidAction, a.PieceID)
	}
	seat := g.SeatOf(playerID)
	switch {
	case !finite(a.X, a.Y):
		return fmt.Errorf("%w: non-finite claim position", ErrInvalidAction)
	case seat < 0:
		return fmt.Errorf("%w: unknown player %s", ErrInvalidAction, playerID)
	case seat == 0 && a.Y >= CenterLine, seat == 1 && a.Y <= CenterLine:
		return fmt.Errorf("%w: y=%.2f outside seat %d territory", ErrInvalidAction, a.Y, seat)
	case a.Y < ScoreZoneHeight, a.Y > BoardHeight-ScoreZoneHeight:
		return fmt.Errorf("%w: y=%.2f inside a scoring zone", ErrInvalidAction, a.Y)
	case a.X < PieceRadius, a.X > BoardWidth-PieceRadius:
		return fmt.Errorf("%w: x=%.2f off the board", ErrInvalidAction, a.X)
	}

	piece.OwnerID = playerID
	piece.X = a.X
	piece.Y = a.Y
	g.updateVisibility(piece)

	for i := range g.Pieces {
		if !g.Pieces[i].Owned() {
			return nil
		}
	}
	g.GamePhase = PhasePlaying
	return nil
}

// movePaddle never fails: unknown callers and calls outside CLAIMING/PLAYING
// are silently ignored.
func (g *GameState) movePaddle(playerID PlayerID, x float64) {
	if g.GamePhase != PhaseClaiming && g.GamePhase != PhasePlaying {
		return
	}
	player, ok := g.Players[playerID]
	if !ok || !finite(x) {
		return
	}
	player.PaddleX = clamp(x, PaddleWidth/2, BoardWidth-PaddleWidth/2)
}

func (g *GameState) flick(playerID PlayerID, a Flick) error {
	if g.GamePhase != PhasePlaying {
		return fmt.Errorf("%w: flick in phase %s", ErrInvalidAction, g.GamePhase)
	}
	piece := g.piece(a.PieceID)
	if piece == nil {
		return fmt.Errorf("%w: no piece %d", ErrInvalidAction, a.PieceID)
	}
	if piece.OwnerID != playerID {
		return fmt.Errorf("%w: piece %d not owned by %s", ErrInvalidAction, a.PieceID, playerID)
	}
	if !finite(a.VelocityX, a.VelocityY) {
		return fmt.Errorf("%w: non-finite velocity", ErrInvalidAction)
	}
	piece.VelocityX = clamp(a.VelocityX, -MaxVelocity, MaxVelocity)
	piece.VelocityY = clamp(a.VelocityY, -MaxVelocity, MaxVelocity)
	return nil
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
