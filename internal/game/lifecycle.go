package game

// PlayerJoined clears the inactive flag of a seated player.
func (g *GameState) PlayerJoined(id PlayerID) {
	if p, ok := g.Players[id]; ok {
		p.Inactive = false
	}
}

// PlayerLeft marks a seated player inactive. When at most one active seat
// remains the match is forced to GAME_OVER and the remaining active seat, if
// any, wins. Returns nil when the match was not ended by this call.
func (g *GameState) PlayerLeft(id PlayerID) *Outcome {
	if p, ok := g.Players[id]; ok {
		p.Inactive = true
	}
	if g.GamePhase == PhaseGameOver {
		return nil
	}

	active := g.activeSeats()
	if len(active) > 1 {
		return nil
	}
	var winner PlayerID
	if len(active) == 1 {
		winner = g.PlayerIDs[active[0]]
	}
	return g.finishByForfeit(winner)
}

// Update runs one host tick: physics while PLAYING, then the bot.
// now is the host's game clock in milliseconds.
func (g *GameState) Update(now int64, bot *Bot) *Outcome {
	out := g.Step()
	if bot != nil {
		bot.Decide(g, now)
	}
	return out
}
