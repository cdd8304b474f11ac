package chess

type State string

const (
	StateNone       State = "none"
	StateInProgress State = "in_progress"
	StateCheckmate  State = "checkmate"
	StateStalemate  State = "stalemate"
	StateDrawByRule State = "draw_by_rule"
)

func (s State) Terminal() bool {
	return s == StateCheckmate || s == StateStalemate || s == StateDrawByRule
}

type Winner string

const (
	WinnerNone  Winner = "none"
	WinnerWhite Winner = "white"
	WinnerBlack Winner = "black"
	WinnerDraw  Winner = "draw"
)

func winnerOf(c Color) Winner {
	if c == White {
		return WinnerWhite
	}
	return WinnerBlack
}

type DrawRule string

const (
	NoDrawRule           DrawRule = ""
	FiftyMoveRule        DrawRule = "fifty_move_rule"
	ThreefoldRepetition  DrawRule = "threefold_repetition"
	InsufficientMaterial DrawRule = "insufficient_material"
)

const (
	fiftyMoveHalfmoves = 100
	repetitionLimit    = 3
)

// Evaluation is the outcome of evaluating a position.
type Evaluation struct {
	State    State
	Winner   Winner
	DrawRule DrawRule
	InCheck  bool
}

// evaluate classifies the board given its legal move set and how often the
// current position has occurred. Checkmate and stalemate take precedence
// over the draw rules.
func evaluate(b *Board, legal []Move, repetitions int) Evaluation {
	inCheck := b.InCheck()
	switch {
	case len(legal) == 0 && inCheck:
		return Evaluation{State: StateCheckmate, Winner: winnerOf(b.turn.Opposite()), InCheck: true}
	case len(legal) == 0:
		return Evaluation{State: StateStalemate, Winner: WinnerDraw}
	case b.halfmove >= fiftyMoveHalfmoves:
		return Evaluation{State: StateDrawByRule, Winner: WinnerDraw, DrawRule: FiftyMoveRule, InCheck: inCheck}
	case repetitions >= repetitionLimit:
		return Evaluation{State: StateDrawByRule, Winner: WinnerDraw, DrawRule: ThreefoldRepetition, InCheck: inCheck}
	case insufficientMaterial(b):
		return Evaluation{State: StateDrawByRule, Winner: WinnerDraw, DrawRule: InsufficientMaterial, InCheck: inCheck}
	}
	return Evaluation{State: StateInProgress, Winner: WinnerNone, InCheck: inCheck}
}

// insufficientMaterial covers K v K, K+minor v K and K+B v K+B with bishops
// on the same square color.
func insufficientMaterial(b *Board) bool {
	var minors [2]int
	bishopShade := [2]int{-1, -1}
	for sq := Square(0); sq < 64; sq++ {
		p := b.cells[sq]
		switch p.Type {
		case NoPieceType, King:
		case Knight:
			minors[p.Color]++
		case Bishop:
			minors[p.Color]++
			bishopShade[p.Color] = (sq.Row() + sq.Column()) & 1
		default:
			return false
		}
	}
	total := minors[White] + minors[Black]
	switch {
	case total <= 1:
		return true
	case minors[White] == 1 && minors[Black] == 1:
		return bishopShade[White] >= 0 && bishopShade[White] == bishopShade[Black]
	}
	return false
}

// positionKey identifies a position for repetition counting: placement,
// side to move, castling rights, and the en passant square only when an en
// passant capture is actually available.
func positionKey(b *Board, legal []Move) string {
	ep := "-"
	for _, m := range legal {
		if m.EnPassant {
			ep = m.To.String()
			break
		}
	}
	side := "w"
	if b.turn == Black {
		side = "b"
	}
	return b.placement() + " " + side + " " + b.castling.String() + " " + ep
}
