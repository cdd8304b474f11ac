package chess

const StartingFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

type CastlingRights uint8

const (
	WhiteKingSide CastlingRights = 1 << iota
	WhiteQueenSide
	BlackKingSide
	BlackQueenSide

	NoCastlingRights  CastlingRights = 0
	AllCastlingRights                = WhiteKingSide | WhiteQueenSide | BlackKingSide | BlackQueenSide
)

func (r CastlingRights) Has(right CastlingRights) bool {
	return r&right != 0
}

func (r CastlingRights) String() string {
	if r == NoCastlingRights {
		return "-"
	}
	b := make([]byte, 0, 4)
	if r.Has(WhiteKingSide) {
		b = append(b, 'K')
	}
	if r.Has(WhiteQueenSide) {
		b = append(b, 'Q')
	}
	if r.Has(BlackKingSide) {
		b = append(b, 'k')
	}
	if r.Has(BlackQueenSide) {
		b = append(b, 'q')
	}
	return string(b)
}

func castlingRight(c Color, side CastleSide) CastlingRights {
	switch {
	case c == White && side == KingSide:
		return WhiteKingSide
	case c == White && side == QueenSide:
		return WhiteQueenSide
	case c == Black && side == KingSide:
		return BlackKingSide
	case c == Black && side == QueenSide:
		return BlackQueenSide
	}
	return NoCastlingRights
}

// homeRow is the back row of a color: row 7 (rank 1) for white.
func homeRow(c Color) int {
	if c == White {
		return 7
	}
	return 0
}

// castleRookSquares returns where the rook starts and lands for a castle.
func castleRookSquares(c Color, side CastleSide) (from, to Square) {
	row := homeRow(c)
	if side == KingSide {
		return NewSquare(7, row), NewSquare(5, row)
	}
	return NewSquare(0, row), NewSquare(3, row)
}

// rightsCleared holds, per square, the rights lost when a move starts or
// ends there.
var rightsCleared = func() [64]CastlingRights {
	var t [64]CastlingRights
	t[NewSquare(4, 7)] = WhiteKingSide | WhiteQueenSide
	t[NewSquare(7, 7)] = WhiteKingSide
	t[NewSquare(0, 7)] = WhiteQueenSide
	t[NewSquare(4, 0)] = BlackKingSide | BlackQueenSide
	t[NewSquare(7, 0)] = BlackKingSide
	t[NewSquare(0, 0)] = BlackQueenSide
	return t
}()

// Board is the full position. It is a plain value: copying a Board yields an
// independent position.
type Board struct {
	cells     [64]Piece
	turn      Color
	castling  CastlingRights
	enPassant Square
	halfmove  int
	fullmove  int
}

// NewBoard returns the standard starting position.
func NewBoard() *Board {
	b, err := ParseFEN(StartingFEN)
	if err != nil {
		panic(err)
	}
	return b
}

func (b *Board) PieceAt(sq Square) Piece {
	if sq < 0 || sq > 63 {
		return NoPiece
	}
	return b.cells[sq]
}

func (b *Board) Turn() Color                    { return b.turn }
func (b *Board) CastlingRights() CastlingRights { return b.castling }
func (b *Board) EnPassant() Square              { return b.enPassant }
func (b *Board) HalfmoveClock() int             { return b.halfmove }
func (b *Board) FullmoveNumber() int            { return b.fullmove }

// KingSquare returns the square of the king of color c, or NoSquare.
func (b *Board) KingSquare(c Color) Square {
	king := Piece{King, c}
	for sq := Square(0); sq < 64; sq++ {
		if b.cells[sq] == king {
			return sq
		}
	}
	return NoSquare
}

// InCheck reports whether the side to move is in check.
func (b *Board) InCheck() bool {
	king := b.KingSquare(b.turn)
	return king != NoSquare && b.IsSquareAttacked(king, b.turn.Opposite())
}

type offset struct{ dc, dr int }

var (
	knightOffsets = []offset{{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2}}
	kingOffsets   = []offset{{1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1}, {0, -1}, {1, -1}}
	rookDirs      = []offset{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	bishopDirs    = []offset{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
)

// pawnDir is the row delta of a pawn advance: white moves toward row 0.
func pawnDir(c Color) int {
	if c == White {
		return -1
	}
	return 1
}

func step(sq Square, o offset) Square {
	return NewSquare(sq.Column()+o.dc, sq.Row()+o.dr)
}

// IsSquareAttacked reports whether any piece of color by attacks sq. Only
// piece geometry is considered; whether the attacker is pinned does not
// matter, so the test never recurses into legality filtering.
func (b *Board) IsSquareAttacked(sq Square, by Color) bool {
	// Pawns of color by attack sq from one row behind it.
	for _, dc := range [2]int{-1, 1} {
		from := NewSquare(sq.Column()+dc, sq.Row()-pawnDir(by))
		if from != NoSquare && b.cells[from] == (Piece{Pawn, by}) {
			return true
		}
	}
	for _, o := range knightOffsets {
		if from := step(sq, o); from != NoSquare && b.cells[from] == (Piece{Knight, by}) {
			return true
		}
	}
	for _, o := range kingOffsets {
		if from := step(sq, o); from != NoSquare && b.cells[from] == (Piece{King, by}) {
			return true
		}
	}
	if b.attackedAlong(sq, by, rookDirs, Rook) || b.attackedAlong(sq, by, bishopDirs, Bishop) {
		return true
	}
	return false
}

// attackedAlong walks each ray from sq and checks the first occupied square
// for a slider of the given kind or a queen.
func (b *Board) attackedAlong(sq Square, by Color, dirs []offset, slider PieceType) bool {
	for _, d := range dirs {
		for to := step(sq, d); to != NoSquare; to = step(to, d) {
			p := b.cells[to]
			if p.IsEmpty() {
				continue
			}
			if p.Color == by && (p.Type == slider || p.Type == Queen) {
				return true
			}
			break
		}
	}
	return false
}

// Material sums StandardPieceValues for both sides.
func (b *Board) Material() MaterialCount {
	var count MaterialCount
	for _, p := range b.cells {
		if p.IsEmpty() {
			continue
		}
		v := StandardPieceValues[p.Type.String()]
		if p.Color == White {
			count.White += v
		} else {
			count.Black += v
		}
	}
	return count
}
