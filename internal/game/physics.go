package game

import "math"

// Step advances every in-play piece by one tick. It is a no-op outside
// PLAYING. When the last piece leaves the playable band the match moves to
// GAME_OVER and the returned Outcome is non-nil.
func (g *GameState) Step() *Outcome {
	if g.GamePhase != PhasePlaying {
		return nil
	}

	for i := range g.Pieces {
		p := &g.Pieces[i]
		if !p.InPlay() {
			continue
		}
		g.stepPiece(p)
	}

	if len(g.Pieces) == 0 {
		return nil
	}
	for i := range g.Pieces {
		if g.Pieces[i].InPlay() {
			return nil
		}
	}
	return g.finishByScore()
}

func (g *GameState) stepPiece(p *Piece) {
	// friction
	p.VelocityX = applyFriction(p.VelocityX)
	p.VelocityY = applyFriction(p.VelocityY)

	// translation
	p.X += p.VelocityX
	p.Y += p.VelocityY

	// side walls
	if p.X < PieceRadius {
		p.X = PieceRadius
		p.VelocityX = -p.VelocityX * BounceDamping
	} else if p.X > BoardWidth-PieceRadius {
		p.X = BoardWidth - PieceRadius
		p.VelocityX = -p.VelocityX * BounceDamping
	}

	g.checkScore(p)
	g.checkPaddles(p)
	g.updateVisibility(p)
}

func applyFriction(v float64) float64 {
	v *= Friction
	if math.Abs(v) < RestVelocity {
		return 0
	}
	return v
}

// checkScore credits the receiving seat when a piece reaches its scoring band
// and parks the piece just outside the playable band.
func (g *GameState) checkScore(p *Piece) {
	top, bottom := g.PlayerIDs[0], g.PlayerIDs[1]
	switch {
	case p.Y < ScoreZoneHeight && p.OwnerID == bottom:
		g.credit(top)
		p.Y = -PieceRadius * 2
	case p.Y > BoardHeight-ScoreZoneHeight && p.OwnerID == top:
		g.credit(bottom)
		p.Y = BoardHeight + PieceRadius*2
	}
}

func (g *GameState) credit(id PlayerID) {
	if player, ok := g.Players[id]; ok {
		player.Score++
	}
}

// checkPaddles bounces the piece off every paddle it does not own. The x
// deflection grows linearly with the hit offset from the paddle center.
func (g *GameState) checkPaddles(p *Piece) {
	for seat, id := range g.PlayerIDs {
		if p.OwnerID == id {
			continue
		}
		player, ok := g.Players[id]
		if !ok {
			continue
		}
		if math.Abs(p.Y-paddleY(seat)) >= PieceRadius+PaddleHeight/2 {
			continue
		}
		if p.X <= player.PaddleX-PaddleWidth/2 || p.X >= player.PaddleX+PaddleWidth/2 {
			continue
		}
		p.VelocityY = -p.VelocityY * BounceDamping
		offset := (p.X - player.PaddleX) / (PaddleWidth / 2)
		p.VelocityX += offset * DeflectionFactor
	}
}
