package game

import (
	"encoding/json"
	"math/rand"
	"testing"
)

func newTestBot(seed int64) *Bot {
	return NewBot(rand.New(rand.NewSource(seed)), DefaultBotTuning())
}

// soloClaiming returns alice versus the bot, in CLAIMING.
func soloClaiming(t *testing.T) *GameState {
	t.Helper()
	g, err := Setup([]PlayerID{"alice"})
	if err != nil {
		t.Fatalf("Setup failed: %v", err)
	}
	mustApply(t, g, "alice", SetReady{})
	if g.GamePhase != PhaseClaiming {
		t.Fatalf("expected CLAIMING, got %s", g.GamePhase)
	}
	return g
}

// soloPlaying returns alice (pieces 0-2) versus the bot (3-4), in PLAYING.
func soloPlaying(t *testing.T) *GameState {
	t.Helper()
	g := soloClaiming(t)
	for i := 0; i < 3; i++ {
		mustApply(t, g, "alice", ClaimPiece{PieceID: i, X: g.Pieces[i].X, Y: 40})
	}
	for i := 3; i < 5; i++ {
		mustApply(t, g, BotID, ClaimPiece{PieceID: i, X: g.Pieces[i].X, Y: 160})
	}
	if g.GamePhase != PhasePlaying {
		t.Fatalf("expected PLAYING, got %s", g.GamePhase)
	}
	return g
}

func TestBotRespectsCooldown(t *testing.T) {
	g := soloClaiming(t)
	b := newTestBot(1)

	b.Decide(g, BotActionCooldown-1)
	if g.BotAction != nil {
		t.Fatalf("bot acted before its cooldown: %+v", g.BotAction)
	}

	b.Decide(g, BotActionCooldown)
	if g.BotAction == nil {
		t.Fatal("bot should act once the cooldown elapsed")
	}
	if g.BotLastActionTimestamp != BotActionCooldown {
		t.Errorf("timestamp not stamped, got %d", g.BotLastActionTimestamp)
	}

	mustApply(t, g, BotID, ClearBotAction{})
	b.Decide(g, BotActionCooldown+500)
	if g.BotAction != nil {
		t.Error("bot acted twice inside one cooldown window")
	}
}

func TestBotSingleSlot(t *testing.T) {
	g := soloClaiming(t)
	b := newTestBot(1)

	b.Decide(g, 1000)
	first := g.BotAction
	b.Decide(g, 5000)
	if g.BotAction != first {
		t.Error("pending command must not be replaced before it is cleared")
	}
}

func TestBotClaimsLowestUnownedOnItsSide(t *testing.T) {
	g := soloClaiming(t)
	mustApply(t, g, "alice", ClaimPiece{PieceID: 0, X: 10, Y: 40})
	b := newTestBot(1)

	b.Decide(g, 1000)

	claim, ok := g.BotAction.Action.(ClaimPiece)
	if !ok {
		t.Fatalf("expected claimPiece, got %T", g.BotAction.Action)
	}
	if claim.PieceID != 1 {
		t.Errorf("expected piece 1, got %d", claim.PieceID)
	}
	if claim.Y <= CenterLine {
		t.Errorf("bot sits in the bottom seat, claim y=%.1f must be below the center line", claim.Y)
	}
	mustApply(t, g, BotID, claim)
	if g.Pieces[1].OwnerID != BotID {
		t.Error("bot claim should be valid")
	}
}

func TestBotDefendsAgainstIncomingPiece(t *testing.T) {
	g := soloPlaying(t)
	for i := 3; i < 5; i++ {
		g.Pieces[i].VelocityX = 5 // bot pieces in motion: no flick this round
	}
	incoming := &g.Pieces[1]
	incoming.X, incoming.Y = 72, 150
	incoming.VelocityY = 3

	before := g.BotLastActionTimestamp
	newTestBot(1).Decide(g, 2000)

	mp, ok := g.BotAction.Action.(MovePaddle)
	if !ok {
		t.Fatalf("expected movePaddle, got %T", g.BotAction.Action)
	}
	if mp.X != 72 {
		t.Errorf("expected paddle target 72, got %.2f", mp.X)
	}
	if g.BotLastActionTimestamp != before {
		t.Error("paddle commands should not stamp the cooldown")
	}
}

func TestBotCentersPaddleWhenNothingIncoming(t *testing.T) {
	g := soloPlaying(t)
	for i := 3; i < 5; i++ {
		g.Pieces[i].VelocityX = 5
	}
	// moving away from the bot
	g.Pieces[1].Y, g.Pieces[1].VelocityY = 150, -3

	newTestBot(1).Decide(g, 2000)

	mp, ok := g.BotAction.Action.(MovePaddle)
	if !ok || mp.X != BoardWidth/2 {
		t.Errorf("expected centered paddle, got %+v", g.BotAction.Action)
	}
}

func TestBotFlicksRestingPieceTowardOpponent(t *testing.T) {
	g := soloPlaying(t)
	newTestBot(7).Decide(g, 2000)

	f, ok := g.BotAction.Action.(Flick)
	if !ok {
		t.Fatalf("expected flick, got %T", g.BotAction.Action)
	}
	if f.PieceID != 3 {
		t.Errorf("expected first resting bot piece 3, got %d", f.PieceID)
	}
	if f.VelocityY > -10 || f.VelocityY <= -15 {
		t.Errorf("bottom seat flicks upward with speed in [10,15), got vy=%.4f", f.VelocityY)
	}
	if f.VelocityX < -5 || f.VelocityX >= 5 {
		t.Errorf("lateral speed out of range: %.4f", f.VelocityX)
	}
	if g.BotLastActionTimestamp != 2000 {
		t.Errorf("flick should stamp the cooldown, got %d", g.BotLastActionTimestamp)
	}
	mustApply(t, g, BotID, f)
}

func TestBotIgnoresPiecesOutOfPlay(t *testing.T) {
	g := soloPlaying(t)
	g.Pieces[3].Y = -10
	g.Pieces[4].Y = 210
	// an opponent piece already scored must not attract the paddle
	g.Pieces[0].X, g.Pieces[0].Y, g.Pieces[0].VelocityY = 20, 210, 3

	newTestBot(1).Decide(g, 2000)

	mp, ok := g.BotAction.Action.(MovePaddle)
	if !ok {
		t.Fatalf("expected movePaddle only, got %T", g.BotAction.Action)
	}
	if mp.X != BoardWidth/2 {
		t.Errorf("expected centered paddle, got %.2f", mp.X)
	}
}

func TestBotQuietOutsideClaimingAndPlaying(t *testing.T) {
	g, err := Setup([]PlayerID{"alice"})
	if err != nil {
		t.Fatal(err)
	}
	newTestBot(1).Decide(g, 5000)
	if g.BotAction != nil {
		t.Errorf("bot should wait in WAITING, got %+v", g.BotAction)
	}

	g = setupTwoPlayers(t)
	mustApply(t, g, "alice", SetReady{})
	mustApply(t, g, "bob", SetReady{})
	newTestBot(1).Decide(g, 5000)
	if g.BotAction != nil {
		t.Error("no bot command in a match without a bot seat")
	}
}

func TestBotCommandWireShape(t *testing.T) {
	cmd := BotCommand{Action: MovePaddle{X: 42}}
	b, err := json.Marshal(cmd)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `{"name":"movePaddle","data":42}` {
		t.Errorf("unexpected encoding %s", b)
	}

	cmd = BotCommand{Action: Flick{PieceID: 3, VelocityX: 1, VelocityY: -12}}
	b, err = json.Marshal(cmd)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `{"name":"flick","data":{"pieceId":3,"velocityX":1,"velocityY":-12}}` {
		t.Errorf("unexpected encoding %s", b)
	}
}

func TestBotGameRunsToCompletion(t *testing.T) {
	g := soloClaiming(t)
	b := newTestBot(99)
	// alice claims her half and then idles; the bot flicks every second.
	for i := 0; i < 2; i++ {
		mustApply(t, g, "alice", ClaimPiece{PieceID: i, X: g.Pieces[i].X, Y: 40})
	}

	var now int64
	var out *Outcome
	for tick := 0; tick < 60*600 && out == nil; tick++ {
		now += 16
		out = g.Update(now, b)
		if g.BotAction != nil {
			_ = g.Apply(BotID, g.BotAction.Action)
			mustApply(t, g, BotID, ClearBotAction{})
		}
	}
	if g.GamePhase != PhasePlaying && g.GamePhase != PhaseGameOver {
		t.Fatalf("bot should have finished claiming, phase %s", g.GamePhase)
	}
	for i := range g.Pieces {
		if !g.Pieces[i].Owned() {
			t.Errorf("piece %d left unowned", i)
		}
	}
}

func TestBotTuningValidate(t *testing.T) {
	if err := DefaultBotTuning().Validate(); err != nil {
		t.Errorf("default tuning must be valid: %v", err)
	}
	for _, offset := range []float64{0, -5, CenterLine - ScoreZoneHeight + 0.5, CenterLine} {
		tuning := DefaultBotTuning()
		tuning.ClaimOffset = offset
		if err := tuning.Validate(); err == nil {
			t.Errorf("claim offset %.1f should be rejected", offset)
		}
	}
}

func TestBotClaimsAtDeepestValidOffset(t *testing.T) {
	tuning := DefaultBotTuning()
	tuning.ClaimOffset = CenterLine - ScoreZoneHeight
	if err := tuning.Validate(); err != nil {
		t.Fatalf("deepest offset should be valid: %v", err)
	}
	g := soloClaiming(t)
	b := NewBot(rand.New(rand.NewSource(1)), tuning)

	b.Decide(g, BotActionCooldown)
	claim, ok := g.BotAction.Action.(ClaimPiece)
	if !ok {
		t.Fatalf("expected claimPiece, got %T", g.BotAction.Action)
	}
	if claim.Y != BoardHeight-ScoreZoneHeight {
		t.Errorf("expected claim at y=%.0f, got %.2f", BoardHeight-ScoreZoneHeight, claim.Y)
	}
	mustApply(t, g, BotID, claim)
	if g.Pieces[claim.PieceID].OwnerID != BotID {
		t.Error("deepest-offset claim should be accepted")
	}
}
