package match

import (
	"errors"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/playmatatu/flickfog/internal/game"
)

var (
	ErrMatchNotFound = errors.New("match not found")
	ErrMatchOver     = errors.New("match is over")
	ErrNotSeated     = errors.New("player is not seated in this match")
)

// Broadcaster pushes per-seat views to connected clients. Implementations
// must not block; Match calls them while holding its lock.
type Broadcaster interface {
	BroadcastViews(matchID string, views map[game.PlayerID]game.View)
	BroadcastGameOver(matchID string, out *game.Outcome)
}

// Hooks let the owner of a match observe accepted actions and the end of the
// match. They run after the match lock is released.
type Hooks struct {
	OnMove     func(m *Match, playerID game.PlayerID, a game.Action)
	OnChange   func(m *Match)
	OnGameOver func(m *Match, out *game.Outcome)
}

// Options configures a new match.
type Options struct {
	TickRate    int
	Seed        int64
	BotTuning   game.BotTuning
	Broadcaster Broadcaster
	Hooks       Hooks
}

// Match hosts one game. Every action and tick is applied under mu so the core
// never sees concurrent access.
type Match struct {
	ID        string
	CreatedAt time.Time

	state *game.GameState
	bot   *game.Bot
	clock int64 // game clock in milliseconds, derived from ticks
	ticks int64
	rate  int

	outcome     *game.Outcome
	endedAt     time.Time
	broadcaster Broadcaster
	hooks       Hooks

	mu sync.Mutex
}

// New seats the players and returns a match in WAITING.
func New(id string, playerIDs []game.PlayerID, opts Options) (*Match, error) {
	state, err := game.Setup(playerIDs)
	if err != nil {
		return nil, err
	}
	rate := opts.TickRate
	if rate <= 0 {
		rate = 60
	}
	m := &Match{
		ID:          id,
		CreatedAt:   time.Now(),
		state:       state,
		rate:        rate,
		broadcaster: opts.Broadcaster,
		hooks:       opts.Hooks,
	}
	if state.HasBot() {
		m.bot = game.NewBot(rand.New(rand.NewSource(opts.Seed)), opts.BotTuning)
	}
	return m, nil
}

// Seats returns the seated player ids, top seat first.
func (m *Match) Seats() [2]game.PlayerID {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.PlayerIDs
}

// Humans returns the seated players other than the bot.
func (m *Match) Humans() []game.PlayerID {
	seats := m.Seats()
	out := make([]game.PlayerID, 0, 2)
	for _, id := range seats {
		if id != "" && id != game.BotID {
			out = append(out, id)
		}
	}
	return out
}

// IsSeated reports whether id occupies a seat.
func (m *Match) IsSeated(id game.PlayerID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.SeatOf(id) >= 0
}

func (m *Match) Phase() game.Phase {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.GamePhase
}

// Outcome returns the final outcome, or nil while the match is running.
func (m *Match) Outcome() *game.Outcome {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.outcome
}

func (m *Match) Over() bool {
	return m.Outcome() != nil
}

// EndedAt returns when the match reached GAME_OVER, or the zero time.
func (m *Match) EndedAt() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.endedAt
}

// View returns the snapshot as seen by one seat.
func (m *Match) View(observer game.PlayerID) (game.View, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state.SeatOf(observer) < 0 {
		return game.View{}, ErrNotSeated
	}
	return m.state.ViewFor(observer), nil
}

// Apply validates and applies an action sent by a seated human. The bot seat
// cannot be driven from outside.
func (m *Match) Apply(playerID game.PlayerID, a game.Action) error {
	if playerID == game.BotID {
		return fmt.Errorf("%w: the bot seat is server controlled", game.ErrInvalidAction)
	}
	if _, ok := a.(game.ClearBotAction); ok {
		return fmt.Errorf("%w: clearBotAction is issued by the host", game.ErrInvalidAction)
	}

	m.mu.Lock()
	if m.outcome != nil {
		m.mu.Unlock()
		return ErrMatchOver
	}
	if err := m.state.Apply(playerID, a); err != nil {
		m.mu.Unlock()
		return err
	}
	m.broadcastLocked()
	m.mu.Unlock()

	m.afterMove(playerID, a)
	m.changed()
	return nil
}

// Tick advances the game clock by one tick. A bot command queued on the
// previous tick is dispatched first so clients see it for one frame.
func (m *Match) Tick() {
	m.mu.Lock()
	if m.outcome != nil {
		m.mu.Unlock()
		return
	}
	m.ticks++
	m.clock = m.ticks * 1000 / int64(m.rate)

	var dispatched game.Action
	if cmd := m.state.BotAction; cmd != nil {
		if err := m.state.Apply(game.BotID, cmd.Action); err != nil {
			log.Printf("[BOT] match %s: %s rejected: %v", m.ID, cmd.Action.Name(), err)
		} else {
			dispatched = cmd.Action
		}
		m.state.Apply(game.BotID, game.ClearBotAction{})
	}

	phase := m.state.GamePhase
	out := m.state.Update(m.clock, m.bot)
	if out != nil {
		m.outcome = out
		m.endedAt = time.Now()
	}

	if phase == game.PhasePlaying || dispatched != nil || m.state.BotAction != nil || out != nil {
		m.broadcastLocked()
	}
	if out != nil && m.broadcaster != nil {
		m.broadcaster.BroadcastGameOver(m.ID, out)
	}
	periodic := m.ticks%int64(m.rate) == 0
	m.mu.Unlock()

	if dispatched != nil {
		m.afterMove(game.BotID, dispatched)
	}
	if out != nil {
		log.Printf("[MATCH] %s over: reason=%s winner=%q scores=%v", m.ID, out.Reason, out.Winner, out.Scores)
		m.finish(out)
		return
	}
	if periodic || dispatched != nil {
		m.changed()
	}
}

// PlayerJoined marks a seated player active again.
func (m *Match) PlayerJoined(id game.PlayerID) error {
	m.mu.Lock()
	if m.state.SeatOf(id) < 0 {
		m.mu.Unlock()
		return ErrNotSeated
	}
	m.state.PlayerJoined(id)
	m.broadcastLocked()
	m.mu.Unlock()
	m.changed()
	return nil
}

// PlayerLeft marks a seated player inactive, ending the match when no
// opponent remains active.
func (m *Match) PlayerLeft(id game.PlayerID) error {
	m.mu.Lock()
	if m.state.SeatOf(id) < 0 {
		m.mu.Unlock()
		return ErrNotSeated
	}
	out := m.state.PlayerLeft(id)
	if out != nil && m.outcome == nil {
		m.outcome = out
		m.endedAt = time.Now()
	} else {
		out = nil
	}
	m.broadcastLocked()
	if out != nil && m.broadcaster != nil {
		m.broadcaster.BroadcastGameOver(m.ID, out)
	}
	m.mu.Unlock()

	if out != nil {
		log.Printf("[MATCH] %s over: %s left, winner=%q", m.ID, id, out.Winner)
		m.finish(out)
		return nil
	}
	m.changed()
	return nil
}

// Snapshot returns a deep copy of the authoritative state.
func (m *Match) Snapshot() game.GameState {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *m.state
	cp.Pieces = make([]game.Piece, len(m.state.Pieces))
	for i, p := range m.state.Pieces {
		vis := make(map[game.PlayerID]bool, len(p.IsVisible))
		for k, v := range p.IsVisible {
			vis[k] = v
		}
		p.IsVisible = vis
		cp.Pieces[i] = p
	}
	cp.Players = make(map[game.PlayerID]*game.PlayerState, len(m.state.Players))
	for id, p := range m.state.Players {
		ps := *p
		cp.Players[id] = &ps
	}
	if m.state.BotAction != nil {
		cmd := *m.state.BotAction
		cp.BotAction = &cmd
	}
	return cp
}

func (m *Match) broadcastLocked() {
	if m.broadcaster == nil {
		return
	}
	views := make(map[game.PlayerID]game.View, 2)
	for _, id := range m.state.PlayerIDs {
		if id == "" || id == game.BotID {
			continue
		}
		views[id] = m.state.ViewFor(id)
	}
	m.broadcaster.BroadcastViews(m.ID, views)
}

func (m *Match) afterMove(playerID game.PlayerID, a game.Action) {
	if m.hooks.OnMove == nil {
		return
	}
	switch a.(type) {
	case game.ClaimPiece, game.Flick:
		m.hooks.OnMove(m, playerID, a)
	}
}

func (m *Match) changed() {
	if m.hooks.OnChange != nil {
		m.hooks.OnChange(m)
	}
}

func (m *Match) finish(out *game.Outcome) {
	m.changed()
	if m.hooks.OnGameOver != nil {
		m.hooks.OnGameOver(m, out)
	}
}
