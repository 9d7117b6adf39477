package game

// updateVisibility recomputes fog-of-war for one piece. Unowned pieces are
// visible to both seats. An owned piece is visible to its owner while it sits
// on the owner's half (seat 0 = upper half) and to the opponent once it has
// crossed into the opponent's half.
func (g *GameState) updateVisibility(p *Piece) {
	if p.IsVisible == nil {
		p.IsVisible = make(map[PlayerID]bool, 2)
	}
	if !p.Owned() {
		for _, id := range g.PlayerIDs {
			p.IsVisible[id] = true
		}
		return
	}

	owner := g.SeatOf(p.OwnerID)
	if owner < 0 {
		return
	}
	opponent := 1 - owner

	p.IsVisible[p.OwnerID] = onOwnSide(owner, p.Y, true)
	if id := g.PlayerIDs[opponent]; id != "" {
		p.IsVisible[id] = onOwnSide(opponent, p.Y, false)
	}
}

// onOwnSide reports whether y lies on the seat's half. inclusive decides
// whether the center line itself counts.
func onOwnSide(seat int, y float64, inclusive bool) bool {
	if seat == 0 {
		if inclusive {
			return y <= CenterLine
		}
		return y < CenterLine
	}
	if inclusive {
		return y >= CenterLine
	}
	return y > CenterLine
}

// Visibility re-derives the visibility mapping of a piece without mutating it.
func (g *GameState) Visibility(p Piece) map[PlayerID]bool {
	cp := p
	cp.IsVisible = make(map[PlayerID]bool, 2)
	g.updateVisibility(&cp)
	return cp.IsVisible
}
