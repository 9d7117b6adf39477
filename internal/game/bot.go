package game

import (
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
)

// BotTuning holds the knobs of the bot's offensive heuristic.
type BotTuning struct {
	StationaryThreshold float64 // a piece slower than this on both axes may be flicked
	FlickSpeedMin       float64 // forward speed of a flick before the random spread
	FlickSpeedSpread    float64
	LateralSpread       float64 // vx is drawn from [-LateralSpread/2, LateralSpread/2)
	ClaimOffset         float64 // distance from the center line into the bot's half
}

// DefaultBotTuning mirrors the reference bot.
func DefaultBotTuning() BotTuning {
	return BotTuning{
		StationaryThreshold: 1,
		FlickSpeedMin:       10,
		FlickSpeedSpread:    5,
		LateralSpread:       10,
		ClaimOffset:         PieceRadius * 2,
	}
}

// Validate rejects tunings that would leave the bot unable to claim: its
// claim must land strictly inside its own half and outside the scoring zone.
func (t BotTuning) Validate() error {
	if limit := CenterLine - ScoreZoneHeight; t.ClaimOffset <= 0 || t.ClaimOffset > limit {
		return fmt.Errorf("claim_offset %.2f must be in (0, %.2f]", t.ClaimOffset, limit)
	}
	return nil
}

// BotCommand is the bot's single pending command. The host dispatches it as
// the bot seat and then applies ClearBotAction.
type BotCommand struct {
	Action Action
}

// BotCommandView is the wire shape of a pending bot command.
type BotCommandView struct {
	Name string      `json:"name"`
	Data interface{} `json:"data"`
}

func (c *BotCommand) view() *BotCommandView {
	if c == nil || c.Action == nil {
		return nil
	}
	v := &BotCommandView{Name: c.Action.Name(), Data: c.Action}
	if mp, ok := c.Action.(MovePaddle); ok {
		v.Data = mp.X
	}
	return v
}

// MarshalJSON renders the command as {"name": ..., "data": ...}.
func (c BotCommand) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.view())
}

// Bot is the scripted opponent. It reads the same GameState a human sees and
// only ever emits regular actions through GameState.BotAction.
type Bot struct {
	rng    *rand.Rand
	tuning BotTuning
}

func NewBot(rng *rand.Rand, tuning BotTuning) *Bot {
	return &Bot{rng: rng, tuning: tuning}
}

// Decide fills GameState.BotAction when the slot is free and the cooldown has
// elapsed. now is the host's game clock in milliseconds.
func (b *Bot) Decide(g *GameState, now int64) {
	seat := g.SeatOf(BotID)
	if seat < 0 || g.BotAction != nil {
		return
	}
	if now-g.BotLastActionTimestamp < BotActionCooldown {
		return
	}

	switch g.GamePhase {
	case PhaseClaiming:
		b.claim(g, seat, now)
	case PhasePlaying:
		b.defend(g, seat)
		b.attack(g, seat, now)
	}
}

func (b *Bot) claim(g *GameState, seat int, now int64) {
	for i := range g.Pieces {
		p := &g.Pieces[i]
		if p.Owned() {
			continue
		}
		g.BotAction = &BotCommand{Action: ClaimPiece{
			PieceID: p.ID,
			X:       p.X,
			Y:       CenterLine - forward(seat)*b.tuning.ClaimOffset,
		}}
		g.BotLastActionTimestamp = now
		return
	}
}

// defend moves the paddle under the first opponent piece that is past the
// center line and heading for the bot, or back to the middle.
func (b *Bot) defend(g *GameState, seat int) {
	opponent := g.PlayerIDs[1-seat]
	target := BoardWidth / 2
	for i := range g.Pieces {
		p := &g.Pieces[i]
		if p.OwnerID != opponent || !p.InPlay() {
			continue
		}
		if p.VelocityY*forward(seat) < 0 && onOwnSide(seat, p.Y, false) {
			target = p.X
			break
		}
	}
	g.BotAction = &BotCommand{Action: MovePaddle{X: target}}
}

// attack flicks the first resting bot piece toward the opponent. It replaces
// the paddle command for this round.
func (b *Bot) attack(g *GameState, seat int, now int64) {
	for i := range g.Pieces {
		p := &g.Pieces[i]
		if p.OwnerID != BotID || !p.InPlay() {
			continue
		}
		if math.Abs(p.VelocityX) >= b.tuning.StationaryThreshold || math.Abs(p.VelocityY) >= b.tuning.StationaryThreshold {
			continue
		}
		vx := (b.rng.Float64() - 0.5) * b.tuning.LateralSpread
		vy := forward(seat) * (b.tuning.FlickSpeedMin + b.rng.Float64()*b.tuning.FlickSpeedSpread)
		g.BotAction = &BotCommand{Action: Flick{PieceID: p.ID, VelocityX: vx, VelocityY: vy}}
		g.BotLastActionTimestamp = now
		return
	}
}
