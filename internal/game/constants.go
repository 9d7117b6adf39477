package game

// Board geometry and physics constants.
// Presentation layers read these through GET /api/v1/board so the client and
// the simulation never carry diverging copies.

const (
	BoardWidth  = 100.0
	BoardHeight = 200.0
	CenterLine  = BoardHeight / 2

	PieceRadius   = 5.0
	PaddleWidth   = 30.0
	PaddleHeight  = 5.0
	PaddleInset   = 15.0
	TopPaddleY    = PaddleInset               // seat 0
	BottomPaddleY = BoardHeight - PaddleInset // seat 1

	ScoreZoneHeight    = 10.0
	InitialPiecesCount = 5

	Friction      = 0.98
	BounceDamping = 0.8
	MaxVelocity   = 15.0
	RestVelocity  = 0.1 // below this a velocity component snaps to zero

	// DeflectionFactor is the max vx added by a paddle hit at the paddle edge.
	DeflectionFactor = 2.0

	BotID             PlayerID = "bot"
	BotActionCooldown          = 1000 // game-clock milliseconds
)

// Constants is the JSON shape of the board constants.
type Constants struct {
	BoardWidth         float64    `json:"boardWidth"`
	BoardHeight        float64    `json:"boardHeight"`
	CenterLine         float64    `json:"centerLine"`
	PieceRadius        float64    `json:"pieceRadius"`
	PaddleWidth        float64    `json:"paddleWidth"`
	PaddleHeight       float64    `json:"paddleHeight"`
	PaddleY            [2]float64 `json:"paddleY"`
	ScoreZoneHeight    float64    `json:"scoreZoneHeight"`
	InitialPiecesCount int        `json:"initialPiecesCount"`
	Friction           float64    `json:"friction"`
	BounceDamping      float64    `json:"bounceDamping"`
	MaxVelocity        float64    `json:"maxVelocity"`
	BotActionCooldown  int64      `json:"botActionCooldown"`
}

// BoardConstants returns the published constants.
func BoardConstants() Constants {
	return Constants{
		BoardWidth:         BoardWidth,
		BoardHeight:        BoardHeight,
		CenterLine:         CenterLine,
		PieceRadius:        PieceRadius,
		PaddleWidth:        PaddleWidth,
		PaddleHeight:       PaddleHeight,
		PaddleY:            [2]float64{TopPaddleY, BottomPaddleY},
		ScoreZoneHeight:    ScoreZoneHeight,
		InitialPiecesCount: InitialPiecesCount,
		Friction:           Friction,
		BounceDamping:      BounceDamping,
		MaxVelocity:        MaxVelocity,
		BotActionCooldown:  BotActionCooldown,
	}
}

// paddleY returns the paddle line for a seat index.
func paddleY(seat int) float64 {
	if seat == 0 {
		return TopPaddleY
	}
	return BottomPaddleY
}

// forward is +1 for the top seat (plays toward increasing y) and -1 for the bottom seat.
func forward(seat int) float64 {
	if seat == 0 {
		return 1
	}
	return -1
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
