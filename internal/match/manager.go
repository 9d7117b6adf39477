package match

import (
	"context"
	"encoding/json"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/playmatatu/flickfog/internal/auth"
	"github.com/playmatatu/flickfog/internal/config"
	"github.com/playmatatu/flickfog/internal/game"
	"github.com/playmatatu/flickfog/internal/models"
	"github.com/redis/go-redis/v9"
)

const (
	eventsChannel = "match_events"
	idleSet       = "match_idle"
)

// MatchManager owns every live match on this instance.
type MatchManager struct {
	matches     map[string]*Match
	cancels     map[string]context.CancelFunc
	rdb         *redis.Client  // snapshots, idle set, events
	db          *sqlx.DB       // match history
	config      *config.Config // Application config
	tuning      game.BotTuning
	broadcaster Broadcaster
	autoRun     bool
	mu          sync.RWMutex
}

// Seat is a human seat handed back to the client that created the match.
type Seat struct {
	PlayerID game.PlayerID `json:"player_id"`
	Token    string        `json:"token"`
}

// Summary is the admin listing entry of a live match.
type Summary struct {
	ID        string           `json:"id"`
	Seats     [2]game.PlayerID `json:"seats"`
	Phase     game.Phase       `json:"phase"`
	CreatedAt time.Time        `json:"created_at"`
	Outcome   *game.Outcome    `json:"outcome,omitempty"`
}

var (
	// Global match manager instance
	Manager *MatchManager
)

// InitializeManager initializes the global match manager and its background jobs
func InitializeManager(db *sqlx.DB, rdb *redis.Client, cfg *config.Config, tuning game.BotTuning, b Broadcaster) {
	Manager = NewMatchManager(db, rdb, cfg, tuning, b)
	go Manager.StartExpiryChecker(context.Background())
}

// NewMatchManager creates a new match manager. db and rdb may be nil.
func NewMatchManager(db *sqlx.DB, rdb *redis.Client, cfg *config.Config, tuning game.BotTuning, b Broadcaster) *MatchManager {
	return &MatchManager{
		matches:     make(map[string]*Match),
		cancels:     make(map[string]context.CancelFunc),
		rdb:         rdb,
		db:          db,
		config:      cfg,
		tuning:      tuning,
		broadcaster: b,
		autoRun:     true,
	}
}

func (mm *MatchManager) GetConfig() *config.Config {
	return mm.config
}

// CreateMatch seats the given humans (the bot fills a lone seat), starts the
// tick loop and returns a seat token per human.
func (mm *MatchManager) CreateMatch(humans []game.PlayerID) (*Match, []Seat, error) {
	id := uuid.NewString()
	m, err := New(id, humans, Options{
		TickRate:    mm.config.TickRateHz,
		Seed:        time.Now().UnixNano(),
		BotTuning:   mm.tuning,
		Broadcaster: mm.broadcaster,
		Hooks: Hooks{
			OnMove:     mm.RecordMove,
			OnChange:   mm.saveSnapshot,
			OnGameOver: mm.handleGameOver,
		},
	})
	if err != nil {
		return nil, nil, err
	}

	ttl := time.Duration(mm.config.SeatTokenTTLMinutes) * time.Minute
	var seats []Seat
	for _, pid := range m.Humans() {
		tok, err := auth.IssueSeatToken(mm.config.JWTSecret, id, string(pid), ttl)
		if err != nil {
			return nil, nil, err
		}
		seats = append(seats, Seat{PlayerID: pid, Token: tok})
	}

	mm.insertMatchRow(m)

	ctx, cancel := context.WithCancel(context.Background())
	mm.mu.Lock()
	mm.matches[id] = m
	mm.cancels[id] = cancel
	mm.mu.Unlock()

	if mm.autoRun {
		go m.Run(ctx)
	}
	mm.saveSnapshot(m)

	log.Printf("[MATCH] created %s seats=%v", id, m.Seats())
	return m, seats, nil
}

// Get returns a live match by id.
func (mm *MatchManager) Get(id string) (*Match, error) {
	mm.mu.RLock()
	defer mm.mu.RUnlock()
	m, ok := mm.matches[id]
	if !ok {
		return nil, ErrMatchNotFound
	}
	return m, nil
}

// List returns the live matches, oldest first.
func (mm *MatchManager) List() []Summary {
	mm.mu.RLock()
	ms := make([]*Match, 0, len(mm.matches))
	for _, m := range mm.matches {
		ms = append(ms, m)
	}
	mm.mu.RUnlock()

	out := make([]Summary, 0, len(ms))
	for _, m := range ms {
		out = append(out, Summary{
			ID:        m.ID,
			Seats:     m.Seats(),
			Phase:     m.Phase(),
			CreatedAt: m.CreatedAt,
			Outcome:   m.Outcome(),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (mm *MatchManager) Count() int {
	mm.mu.RLock()
	defer mm.mu.RUnlock()
	return len(mm.matches)
}

// End stops the tick loop of a match and forgets it.
func (mm *MatchManager) End(id string) error {
	mm.mu.Lock()
	m, ok := mm.matches[id]
	if !ok {
		mm.mu.Unlock()
		return ErrMatchNotFound
	}
	if cancel := mm.cancels[id]; cancel != nil {
		cancel()
	}
	delete(mm.matches, id)
	delete(mm.cancels, id)
	mm.mu.Unlock()

	mm.clearIdle(m)
	log.Printf("[MATCH] removed %s", id)
	return nil
}

// Touch re-arms the idle deadline of a seated human.
func (mm *MatchManager) Touch(matchID string, playerID game.PlayerID) {
	if mm.rdb == nil || mm.config == nil || playerID == game.BotID {
		return
	}
	deadline := time.Now().Add(time.Duration(mm.config.IdleForfeitSeconds) * time.Second).Unix()
	member := idleMember(matchID, playerID)
	if err := mm.rdb.ZAdd(context.Background(), idleSet, redis.Z{Score: float64(deadline), Member: member}).Err(); err != nil {
		log.Printf("[REDIS] idle touch failed for %s: %v", member, err)
	}
}

func (mm *MatchManager) clearIdle(m *Match) {
	if mm.rdb == nil {
		return
	}
	for _, pid := range m.Humans() {
		mm.rdb.ZRem(context.Background(), idleSet, idleMember(m.ID, pid))
	}
}

// saveSnapshot mirrors the authoritative state to Redis. The mirror is for
// inspection only and is never read back into a match.
func (mm *MatchManager) saveSnapshot(m *Match) {
	if mm.rdb == nil {
		return
	}
	snap := m.Snapshot()
	data, err := json.Marshal(snap)
	if err != nil {
		log.Printf("[REDIS] marshal snapshot %s: %v", m.ID, err)
		return
	}
	ttl := time.Duration(mm.config.SnapshotTTLMinutes) * time.Minute
	if err := mm.rdb.SetEx(context.Background(), "match:"+m.ID+":state", data, ttl).Err(); err != nil {
		log.Printf("[REDIS] save snapshot %s: %v", m.ID, err)
	}
}

func (mm *MatchManager) publish(payload map[string]interface{}) {
	if mm.rdb == nil {
		return
	}
	b, _ := json.Marshal(payload)
	if n, err := mm.rdb.Publish(context.Background(), eventsChannel, b).Result(); err != nil {
		log.Printf("[REDIS] publish %v failed: %v", payload["type"], err)
	} else {
		log.Printf("[REDIS] published %v for match %v subscribers=%d", payload["type"], payload["match_id"], n)
	}
}

func (mm *MatchManager) handleGameOver(m *Match, out *game.Outcome) {
	mm.saveOutcome(m, out)
	mm.clearIdle(m)
	mm.publish(map[string]interface{}{
		"type":     "game_over",
		"match_id": m.ID,
		"winner":   out.Winner,
		"reason":   out.Reason,
		"scores":   out.Scores,
		"results":  out.Results,
	})
}

// insertMatchRow records the match at creation. It's best-effort and logs errors.
func (mm *MatchManager) insertMatchRow(m *Match) {
	if mm.db == nil {
		return
	}
	seats := m.Seats()
	_, err := mm.db.Exec(`INSERT INTO matches (id, player_top, player_bottom, has_bot, status, created_at) VALUES ($1,$2,$3,$4,$5,$6)`,
		m.ID, string(seats[0]), string(seats[1]), seats[1] == game.BotID, models.MatchStatusActive, m.CreatedAt)
	if err != nil {
		log.Printf("[DB] Failed to insert match %s: %v", m.ID, err)
	}
}

// RecordMove records an accepted claim or flick in match_moves. It's
// best-effort and logs errors.
func (mm *MatchManager) RecordMove(m *Match, playerID game.PlayerID, a game.Action) {
	if mm == nil || mm.db == nil {
		return
	}

	payload, err := json.Marshal(a)
	if err != nil {
		log.Printf("[DB] Failed to marshal move for match %s: %v", m.ID, err)
		return
	}

	// Determine next move number
	var maxMove int
	if err := mm.db.Get(&maxMove, `SELECT COALESCE(MAX(move_number), 0) FROM match_moves WHERE match_id = $1`, m.ID); err != nil {
		log.Printf("[DB] Failed to get max move number for match %s: %v", m.ID, err)
		return
	}

	_, err = mm.db.Exec(`INSERT INTO match_moves (match_id, player_id, move_number, move_type, payload, created_at) VALUES ($1,$2,$3,$4,$5::jsonb,NOW())`,
		m.ID, string(playerID), maxMove+1, a.Name(), string(payload))
	if err != nil {
		log.Printf("[DB] Failed to record move for match %s: %v", m.ID, err)
	}
}

// saveOutcome updates the match row and writes one result row per human.
func (mm *MatchManager) saveOutcome(m *Match, out *game.Outcome) {
	if mm.db == nil {
		return
	}
	seats := m.Seats()
	log.Printf("[DB] saveOutcome called for match=%s reason=%s winner=%q", m.ID, out.Reason, out.Winner)

	tx, err := mm.db.Beginx()
	if err != nil {
		log.Printf("[DB] Failed to begin outcome tx for match %s: %v", m.ID, err)
		return
	}
	defer tx.Rollback()

	var winner interface{}
	if out.Winner != "" {
		winner = string(out.Winner)
	}
	if _, err := tx.Exec(`UPDATE matches SET status=$1, winner_id=$2, reason=$3, top_score=$4, bottom_score=$5, completed_at=NOW() WHERE id=$6`,
		models.MatchStatusCompleted, winner, string(out.Reason), out.Scores[seats[0]], out.Scores[seats[1]], m.ID); err != nil {
		log.Printf("[DB] Failed to update match %s: %v", m.ID, err)
		return
	}
	for _, pid := range m.Humans() {
		if _, err := tx.Exec(`INSERT INTO match_results (match_id, player_id, result, score, reason, recorded_at) VALUES ($1,$2,$3,$4,$5,NOW()) ON CONFLICT (match_id, player_id) DO NOTHING`,
			m.ID, string(pid), string(out.Results[pid]), out.Scores[pid], string(out.Reason)); err != nil {
			log.Printf("[DB] Failed to insert result for %s in match %s: %v", pid, m.ID, err)
			return
		}
	}
	if err := tx.Commit(); err != nil {
		log.Printf("[DB] Failed to commit outcome for match %s: %v", m.ID, err)
	}
}

// StartExpiryChecker periodically drops matches nobody started and finished
// matches past their retention window.
func (mm *MatchManager) StartExpiryChecker(ctx context.Context) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			mm.checkExpiredMatches(now)
		}
	}
}

// checkExpiredMatches returns how many matches were removed.
func (mm *MatchManager) checkExpiredMatches(now time.Time) int {
	expiry := time.Duration(mm.config.MatchExpiryMinutes) * time.Minute

	// Collect candidates under read lock
	mm.mu.RLock()
	var stale, finished []*Match
	for _, m := range mm.matches {
		if ended := m.EndedAt(); !ended.IsZero() {
			if now.Sub(ended) >= expiry {
				finished = append(finished, m)
			}
			continue
		}
		if m.Phase() == game.PhaseWaiting && now.Sub(m.CreatedAt) >= expiry {
			stale = append(stale, m)
		}
	}
	mm.mu.RUnlock()

	for _, m := range stale {
		log.Printf("[MATCH] %s expired in WAITING", m.ID)
		if mm.db != nil {
			if _, err := mm.db.Exec(`UPDATE matches SET status=$1, completed_at=NOW() WHERE id=$2`, models.MatchStatusExpired, m.ID); err != nil {
				log.Printf("[DB] Failed to expire match %s: %v", m.ID, err)
			}
		}
		mm.publish(map[string]interface{}{"type": "match_expired", "match_id": m.ID})
		mm.End(m.ID)
	}
	for _, m := range finished {
		mm.End(m.ID)
	}
	return len(stale) + len(finished)
}
