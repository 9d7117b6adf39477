package game

// Result is a per-player match result reported to the host.
type Result string

const (
	ResultWon  Result = "WON"
	ResultLost Result = "LOST"
	ResultDraw Result = "DRAW"
)

// Reason tells how a match ended.
type Reason string

const (
	ReasonAllScored  Reason = "all_scored"
	ReasonPlayerLeft Reason = "player_left"
)

// Outcome is produced exactly once, at the GAME_OVER transition.
type Outcome struct {
	Reason  Reason              `json:"reason"`
	Winner  PlayerID            `json:"winner,omitempty"`
	Scores  map[PlayerID]int    `json:"scores"`
	Results map[PlayerID]Result `json:"results"`
}

// finishByScore ends the match by strict score comparison; equal scores are a draw.
func (g *GameState) finishByScore() *Outcome {
	g.GamePhase = PhaseGameOver
	top, bottom := g.PlayerIDs[0], g.PlayerIDs[1]
	s0, s1 := g.score(top), g.score(bottom)

	out := g.newOutcome(ReasonAllScored)
	switch {
	case s0 > s1:
		g.WinnerPlayerID = top
		out.Results[top], out.Results[bottom] = ResultWon, ResultLost
	case s1 > s0:
		g.WinnerPlayerID = bottom
		out.Results[top], out.Results[bottom] = ResultLost, ResultWon
	default:
		g.WinnerPlayerID = ""
		out.Results[top], out.Results[bottom] = ResultDraw, ResultDraw
	}
	out.Winner = g.WinnerPlayerID
	return out
}

// finishByForfeit ends the match in favour of the remaining active seat, if any.
// There is no draw here: a seat that is not the winner lost.
func (g *GameState) finishByForfeit(winner PlayerID) *Outcome {
	g.GamePhase = PhaseGameOver
	g.WinnerPlayerID = winner

	out := g.newOutcome(ReasonPlayerLeft)
	out.Winner = winner
	for _, id := range g.PlayerIDs {
		if id == winner {
			out.Results[id] = ResultWon
		} else {
			out.Results[id] = ResultLost
		}
	}
	return out
}

func (g *GameState) newOutcome(reason Reason) *Outcome {
	out := &Outcome{
		Reason:  reason,
		Scores:  make(map[PlayerID]int, 2),
		Results: make(map[PlayerID]Result, 2),
	}
	for _, id := range g.PlayerIDs {
		out.Scores[id] = g.score(id)
	}
	return out
}

func (g *GameState) score(id PlayerID) int {
	if p, ok := g.Players[id]; ok {
		return p.Score
	}
	return 0
}
