package game

import (
	"math/rand"
	"testing"
)

// park moves every piece except keep out of the playable band.
func park(g *GameState, keep ...int) {
	kept := make(map[int]bool, len(keep))
	for _, k := range keep {
		kept[k] = true
	}
	for i := range g.Pieces {
		if kept[i] {
			continue
		}
		g.Pieces[i].Y = -PieceRadius * 2
		g.Pieces[i].VelocityX, g.Pieces[i].VelocityY = 0, 0
	}
}

func TestStepNoopOutsidePlaying(t *testing.T) {
	g := setupTwoPlayers(t)
	g.Pieces[0].VelocityX = 5
	if out := g.Step(); out != nil {
		t.Errorf("unexpected outcome %v", out)
	}
	if g.Pieces[0].X != BoardWidth/6 {
		t.Errorf("pieces must not move before PLAYING, x=%.4f", g.Pieces[0].X)
	}
}

func TestRightWallBounce(t *testing.T) {
	g := playingState(t)
	p := &g.Pieces[0]
	p.X, p.Y = 96, 100
	p.VelocityX, p.VelocityY = 10, 0

	g.Step()

	if p.X != 95 {
		t.Errorf("expected x clamped to 95, got %.4f", p.X)
	}
	if !near(p.VelocityX, -10*Friction*BounceDamping) || !near(p.VelocityX, -7.84) {
		t.Errorf("expected vx=-7.84, got %.6f", p.VelocityX)
	}
}

func TestLeftWallBounce(t *testing.T) {
	g := playingState(t)
	p := &g.Pieces[0]
	p.X, p.Y = 6, 60
	p.VelocityX = -5

	g.Step()

	if p.X != PieceRadius {
		t.Errorf("expected x clamped to %.1f, got %.4f", PieceRadius, p.X)
	}
	if !near(p.VelocityX, 5*Friction*BounceDamping) {
		t.Errorf("expected vx=%.4f, got %.6f", 5*Friction*BounceDamping, p.VelocityX)
	}
}

func TestFrictionSnapsToZero(t *testing.T) {
	g := playingState(t)
	p := &g.Pieces[0]
	p.X, p.Y = 50, 60
	p.VelocityX, p.VelocityY = 0.1, -0.05

	g.Step()

	if p.VelocityX != 0 || p.VelocityY != 0 {
		t.Errorf("slow piece should stop, got (%.4f, %.4f)", p.VelocityX, p.VelocityY)
	}
	if p.X != 50 || p.Y != 60 {
		t.Errorf("stopped piece should not move, got (%.4f, %.4f)", p.X, p.Y)
	}
}

func TestPieceScoresAgainstOwner(t *testing.T) {
	g := playingState(t)
	p := &g.Pieces[3] // bob's
	p.X, p.Y = 50, 4

	g.Step()

	if g.Players["alice"].Score != 1 {
		t.Errorf("expected alice credited with 1, got %d", g.Players["alice"].Score)
	}
	if g.Players["bob"].Score != 0 {
		t.Errorf("owner must not be credited, got %d", g.Players["bob"].Score)
	}
	if p.Y != -10 {
		t.Errorf("scored piece should park at y=-10, got %.2f", p.Y)
	}
	if p.InPlay() {
		t.Error("scored piece should be out of play")
	}

	// parked pieces are inert
	p.VelocityY = 5
	g.Step()
	if p.Y != -10 || g.Players["alice"].Score != 1 {
		t.Errorf("parked piece moved or rescored: y=%.2f score=%d", p.Y, g.Players["alice"].Score)
	}
}

func TestTopPieceScoresInBottomZone(t *testing.T) {
	g := playingState(t)
	p := &g.Pieces[0] // alice's
	p.X, p.Y = 50, 188
	p.VelocityY = 5

	g.Step()

	if g.Players["bob"].Score != 1 {
		t.Errorf("expected bob credited, got %d", g.Players["bob"].Score)
	}
	if p.Y != BoardHeight+PieceRadius*2 {
		t.Errorf("expected y=%.1f, got %.2f", BoardHeight+PieceRadius*2, p.Y)
	}
}

func TestOwnPieceInOwnZoneDoesNotScore(t *testing.T) {
	g := playingState(t)
	p := &g.Pieces[0] // alice's, in alice's band
	p.X, p.Y = 50, 4

	g.Step()

	if g.Players["alice"].Score != 0 || g.Players["bob"].Score != 0 {
		t.Errorf("no score expected, got alice=%d bob=%d", g.Players["alice"].Score, g.Players["bob"].Score)
	}
	if p.Y != 4 {
		t.Errorf("piece should stay, got y=%.2f", p.Y)
	}
}

func TestPaddleDeflection(t *testing.T) {
	g := playingState(t)
	g.Players["alice"].PaddleX = 50
	p := &g.Pieces[3] // bob's, heading into alice's paddle
	p.X, p.Y = 60, 20
	p.VelocityX, p.VelocityY = 0, -3

	g.Step()

	wantVY := 3 * Friction * BounceDamping
	if !near(p.VelocityY, wantVY) {
		t.Errorf("expected vy=%.6f, got %.6f", wantVY, p.VelocityY)
	}
	wantVX := (60.0 - 50.0) / (PaddleWidth / 2) * DeflectionFactor
	if !near(p.VelocityX, wantVX) {
		t.Errorf("expected vx=%.6f, got %.6f", wantVX, p.VelocityX)
	}
}

func TestPaddleDeflectionLeftOfCenter(t *testing.T) {
	g := playingState(t)
	g.Players["bob"].PaddleX = 40
	p := &g.Pieces[0] // alice's, heading into bob's paddle
	p.X, p.Y = 30, 180
	p.VelocityX, p.VelocityY = 0, 4

	g.Step()

	if !near(p.VelocityY, -4*Friction*BounceDamping) {
		t.Errorf("expected reflected vy, got %.6f", p.VelocityY)
	}
	want := (30.0 - 40.0) / (PaddleWidth / 2) * DeflectionFactor
	if !near(p.VelocityX, want) {
		t.Errorf("expected vx=%.6f, got %.6f", want, p.VelocityX)
	}
}

func TestOwnPaddleIgnored(t *testing.T) {
	g := playingState(t)
	g.Players["alice"].PaddleX = 50
	p := &g.Pieces[0] // alice's own piece over her paddle
	p.X, p.Y = 50, 20
	p.VelocityY = -3

	g.Step()

	if p.VelocityY >= 0 {
		t.Errorf("own paddle must not reflect, vy=%.4f", p.VelocityY)
	}
}

func TestPaddleMissOutsideWidth(t *testing.T) {
	g := playingState(t)
	g.Players["alice"].PaddleX = 15
	p := &g.Pieces[3]
	p.X, p.Y = 80, 20
	p.VelocityY = -3

	g.Step()

	if p.VelocityY >= 0 || p.VelocityX != 0 {
		t.Errorf("piece outside paddle width should pass, got v=(%.4f, %.4f)", p.VelocityX, p.VelocityY)
	}
}

func TestVisibilityFollowsCenterLine(t *testing.T) {
	g := playingState(t)
	p := &g.Pieces[0] // alice's
	p.X, p.Y = 50, 95
	p.VelocityY = 10

	g.Step()

	if p.Y <= CenterLine {
		t.Fatalf("piece should cross the center line, y=%.2f", p.Y)
	}
	if p.IsVisible["alice"] {
		t.Error("owner should lose sight once the piece crosses")
	}
	if !p.IsVisible["bob"] {
		t.Error("opponent should see the incoming piece")
	}

	p.VelocityY = -10
	g.Step()
	if p.Y > CenterLine {
		t.Fatalf("piece should be back on alice's side, y=%.2f", p.Y)
	}
	if !p.IsVisible["alice"] || p.IsVisible["bob"] {
		t.Errorf("piece back home should be visible only to alice: %v", p.IsVisible)
	}
}

func TestVisibilityOnCenterLine(t *testing.T) {
	g := playingState(t)
	p := g.Pieces[0]
	p.Y = CenterLine
	vis := g.Visibility(p)
	if !vis["alice"] || vis["bob"] {
		t.Errorf("owner sees a piece on the line, opponent does not: %v", vis)
	}

	q := g.Pieces[3]
	q.Y = CenterLine
	vis = g.Visibility(q)
	if !vis["bob"] || vis["alice"] {
		t.Errorf("bottom owner sees a piece on the line: %v", vis)
	}
}

func TestVisibilityIsPureFunctionOfSnapshot(t *testing.T) {
	g := playingState(t)
	rng := rand.New(rand.NewSource(3))
	for i := range g.Pieces {
		seat := g.SeatOf(g.Pieces[i].OwnerID)
		g.Pieces[i].VelocityX = rng.Float64()*20 - 10
		g.Pieces[i].VelocityY = forward(seat) * (5 + rng.Float64()*10)
	}
	for tick := 0; tick < 300 && g.GamePhase == PhasePlaying; tick++ {
		g.Step()
		for i := range g.Pieces {
			p := g.Pieces[i]
			again := g.Visibility(p)
			for _, id := range g.PlayerIDs {
				if again[id] != p.IsVisible[id] {
					t.Fatalf("tick %d piece %d: stored %v, re-derived %v", tick, i, p.IsVisible, again)
				}
			}
		}
	}
}

func TestScoresNonDecreasingAndPaddlesInRange(t *testing.T) {
	g := playingState(t)
	rng := rand.New(rand.NewSource(11))
	prev := map[PlayerID]int{}
	for tick := 0; tick < 3000 && g.GamePhase == PhasePlaying; tick++ {
		id := g.PlayerIDs[tick%2]
		_ = g.Apply(id, MovePaddle{X: rng.Float64()*200 - 50})
		if tick%30 == 0 {
			piece := rng.Intn(len(g.Pieces))
			owner := g.Pieces[piece].OwnerID
			_ = g.Apply(owner, Flick{PieceID: piece, VelocityX: rng.Float64()*40 - 20, VelocityY: forward(g.SeatOf(owner)) * 20})
		}
		g.Step()
		for _, pid := range g.PlayerIDs {
			pl := g.Players[pid]
			if pl.Score < prev[pid] {
				t.Fatalf("score of %s decreased on tick %d", pid, tick)
			}
			prev[pid] = pl.Score
			if pl.PaddleX < 15 || pl.PaddleX > 85 {
				t.Fatalf("paddle of %s out of range: %.2f", pid, pl.PaddleX)
			}
		}
		for i := range g.Pieces {
			y := g.Pieces[i].Y
			if y < -2*PieceRadius || y > BoardHeight+2*PieceRadius {
				t.Fatalf("piece %d left the allowed range: y=%.2f", i, y)
			}
		}
	}
}

func TestGameOverWhenAllScored(t *testing.T) {
	g := playingState(t)
	park(g, 3)
	g.Pieces[3].X, g.Pieces[3].Y = 50, 4

	out := g.Step()

	if out == nil {
		t.Fatal("expected outcome once every piece left play")
	}
	if g.GamePhase != PhaseGameOver {
		t.Errorf("expected GAME_OVER, got %s", g.GamePhase)
	}
	if g.WinnerPlayerID != "alice" || out.Winner != "alice" {
		t.Errorf("expected alice to win, got %q / %q", g.WinnerPlayerID, out.Winner)
	}
	if out.Results["alice"] != ResultWon || out.Results["bob"] != ResultLost {
		t.Errorf("unexpected results %v", out.Results)
	}
	if out.Scores["alice"] != 1 || out.Scores["bob"] != 0 {
		t.Errorf("unexpected scores %v", out.Scores)
	}

	if again := g.Step(); again != nil {
		t.Error("GAME_OVER must be terminal")
	}
}

func TestGameOverDraw(t *testing.T) {
	g := playingState(t)
	g.Players["alice"].Score = 1
	park(g, 0)
	g.Pieces[0].X, g.Pieces[0].Y = 50, 195

	out := g.Step()

	if out == nil {
		t.Fatal("expected outcome")
	}
	if g.WinnerPlayerID != "" {
		t.Errorf("equal scores should have no winner, got %q", g.WinnerPlayerID)
	}
	for _, id := range g.PlayerIDs {
		if out.Results[id] != ResultDraw {
			t.Errorf("expected DRAW for %s, got %s", id, out.Results[id])
		}
	}
}
