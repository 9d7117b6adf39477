package game

// PieceView is a piece as one observer may see it. Hidden pieces carry only
// their id and owner.
type PieceView struct {
	ID        int      `json:"id"`
	OwnerID   PlayerID `json:"ownerId,omitempty"`
	Hidden    bool     `json:"hidden"`
	InPlay    bool     `json:"inPlay"`
	X         float64  `json:"x"`
	Y         float64  `json:"y"`
	VelocityX float64  `json:"velocityX"`
	VelocityY float64  `json:"velocityY"`
}

// View is the per-observer snapshot sent to a seat after every mutation.
type View struct {
	Observer       PlayerID                 `json:"observer"`
	Pieces         []PieceView              `json:"pieces"`
	Players        map[PlayerID]PlayerState `json:"players"`
	PlayerIDs      [2]PlayerID              `json:"playerIds"`
	GamePhase      Phase                    `json:"gamePhase"`
	WinnerPlayerID PlayerID                 `json:"winnerPlayerId,omitempty"`
	BotAction      *BotCommandView          `json:"botAction"`
}

// ViewFor builds the snapshot for one observer, withholding the position and
// velocity of every piece the observer cannot see.
func (g *GameState) ViewFor(observer PlayerID) View {
	v := View{
		Observer:       observer,
		Pieces:         make([]PieceView, len(g.Pieces)),
		Players:        make(map[PlayerID]PlayerState, len(g.Players)),
		PlayerIDs:      g.PlayerIDs,
		GamePhase:      g.GamePhase,
		WinnerPlayerID: g.WinnerPlayerID,
		BotAction:      g.BotAction.view(),
	}
	for id, p := range g.Players {
		v.Players[id] = *p
	}
	for i := range g.Pieces {
		p := &g.Pieces[i]
		pv := PieceView{ID: p.ID, OwnerID: p.OwnerID, InPlay: p.InPlay()}
		if p.IsVisible[observer] {
			pv.X, pv.Y = p.X, p.Y
			pv.VelocityX, pv.VelocityY = p.VelocityX, p.VelocityY
		} else {
			pv.Hidden = true
		}
		v.Pieces[i] = pv
	}
	return v
}
