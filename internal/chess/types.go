package chess

import "fmt"

type Color uint8

const (
	White Color = iota
	Black
)

func (c Color) Opposite() Color {
	return c ^ 1
}

func (c Color) String() string {
	if c == White {
		return "white"
	}
	return "black"
}

type PieceType uint8

const (
	NoPieceType PieceType = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

var pieceTypeNames = [...]string{"", "pawn", "knight", "bishop", "rook", "queen", "king"}

func (t PieceType) String() string {
	if int(t) < len(pieceTypeNames) {
		return pieceTypeNames[t]
	}
	return fmt.Sprintf("PieceType(%d)", uint8(t))
}

// Piece is a colored piece. The zero value is an empty square.
type Piece struct {
	Type  PieceType
	Color Color
}

var NoPiece = Piece{}

func (p Piece) IsEmpty() bool {
	return p.Type == NoPieceType
}

const pieceLetters = " pnbrqk"

// Letter returns the FEN letter of the piece, uppercase for white. Empty
// squares return 0.
func (p Piece) Letter() byte {
	if p.IsEmpty() {
		return 0
	}
	l := pieceLetters[p.Type]
	if p.Color == White {
		l -= 'a' - 'A'
	}
	return l
}

func pieceFromLetter(l byte) (Piece, bool) {
	color := White
	if l >= 'a' && l <= 'z' {
		color = Black
		l -= 'a' - 'A'
	}
	switch l {
	case 'P':
		return Piece{Pawn, color}, true
	case 'N':
		return Piece{Knight, color}, true
	case 'B':
		return Piece{Bishop, color}, true
	case 'R':
		return Piece{Rook, color}, true
	case 'Q':
		return Piece{Queen, color}, true
	case 'K':
		return Piece{King, color}, true
	}
	return NoPiece, false
}

// Square indexes the board as row*8+column. Column 0 is file a and row 0 is
// rank 8, so index order is the same as FEN reading order.
type Square int8

const NoSquare Square = -1

func NewSquare(column, row int) Square {
	if column < 0 || column > 7 || row < 0 || row > 7 {
		return NoSquare
	}
	return Square(row*8 + column)
}

func (s Square) Column() int { return int(s) & 7 }
func (s Square) Row() int    { return int(s) >> 3 }

func (s Square) String() string {
	if s == NoSquare {
		return "-"
	}
	return string([]byte{byte('a' + s.Column()), byte('8' - s.Row())})
}

func (s Square) Coord() Coord {
	return Coord{Row: s.Row(), Column: s.Column()}
}

// ParseSquare parses algebraic coordinates such as "e4".
func ParseSquare(sq string) (Square, error) {
	if len(sq) != 2 || sq[0] < 'a' || sq[0] > 'h' || sq[1] < '1' || sq[1] > '8' {
		return NoSquare, fmt.Errorf("%w: %q", ErrInvalidSquare, sq)
	}
	return NewSquare(int(sq[0]-'a'), int('8'-sq[1])), nil
}

// Coord is the {row, column} wire shape used by the front-end and the
// move-search service.
type Coord struct {
	Row    int `json:"row"`
	Column int `json:"column"`
}

func (c Coord) Square() Square {
	return NewSquare(c.Column, c.Row)
}

type CastleSide uint8

const (
	NoCastle CastleSide = iota
	KingSide
	QueenSide
)

func (c CastleSide) String() string {
	switch c {
	case KingSide:
		return "king_side"
	case QueenSide:
		return "queen_side"
	}
	return ""
}

type Move struct {
	From      Square
	To        Square
	Captured  Square // differs from To only for en passant
	Promotion PieceType
	Castle    CastleSide
	EnPassant bool
}

func (m Move) IsCapture() bool {
	return m.Captured != NoSquare
}

type GameStatus string

const (
	StatusActive   GameStatus = "active"
	StatusDraw     GameStatus = "draw"
	StatusWhiteWon GameStatus = "white_won"
	StatusBlackWon GameStatus = "black_won"
)

type MoveResult struct {
	From      string `json:"from"`
	To        string `json:"to"`
	UCI       string `json:"uci"`
	SAN       string `json:"san"`
	Notation  string `json:"notation"`
	FEN       string `json:"fen"`
	Check     bool   `json:"check"`
	Checkmate bool   `json:"checkmate"`
	Draw      bool   `json:"draw"`
	GameOver  bool   `json:"gameOver"`
	Result    string `json:"result"`
}

// MaterialCount represents the material count for both sides
type MaterialCount struct {
	White int `json:"white"`
	Black int `json:"black"`
}

// StandardPieceValues maps piece types to their standard values
var StandardPieceValues = map[string]int{
	"pawn":   1,
	"knight": 3,
	"bishop": 3,
	"rook":   5,
	"queen":  9,
	"king":   0, // King has no material value
}
