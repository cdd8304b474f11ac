package chess

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseFEN decodes a six-field FEN string into a new Board. It never touches
// any existing board, so a failed decode leaves callers' state untouched.
func ParseFEN(fen string) (*Board, error) {
	parts := strings.Fields(fen)
	if len(parts) != 6 {
		return nil, fmt.Errorf("%w: expected 6 fields, got %d", ErrInvalidFEN, len(parts))
	}

	b := &Board{enPassant: NoSquare}

	ranks := strings.Split(parts[0], "/")
	if len(ranks) != 8 {
		return nil, fmt.Errorf("%w: expected 8 ranks, got %d", ErrInvalidFEN, len(ranks))
	}
	for row, rank := range ranks {
		col := 0
		for i := 0; i < len(rank); i++ {
			ch := rank[i]
			if ch >= '1' && ch <= '8' {
				col += int(ch - '0')
				continue
			}
			p, ok := pieceFromLetter(ch)
			if !ok {
				return nil, fmt.Errorf("%w: illegal piece letter %q", ErrInvalidFEN, ch)
			}
			if col > 7 {
				return nil, fmt.Errorf("%w: rank %d is too long", ErrInvalidFEN, 8-row)
			}
			if p.Type == Pawn && (row == 0 || row == 7) {
				return nil, fmt.Errorf("%w: pawn on back rank %d", ErrInvalidFEN, 8-row)
			}
			b.cells[NewSquare(col, row)] = p
			col++
		}
		if col != 8 {
			return nil, fmt.Errorf("%w: rank %d has %d files", ErrInvalidFEN, 8-row, col)
		}
	}

	for _, c := range [2]Color{White, Black} {
		n := 0
		for _, p := range b.cells {
			if p == (Piece{King, c}) {
				n++
			}
		}
		if n != 1 {
			return nil, fmt.Errorf("%w: %s has %d kings", ErrInvalidFEN, c, n)
		}
	}

	switch parts[1] {
	case "w":
		b.turn = White
	case "b":
		b.turn = Black
	default:
		return nil, fmt.Errorf("%w: side to move must be 'w' or 'b'", ErrInvalidFEN)
	}

	castling, err := parseCastling(parts[2])
	if err != nil {
		return nil, err
	}
	for _, c := range [2]Color{White, Black} {
		for _, side := range [2]CastleSide{KingSide, QueenSide} {
			right := castlingRight(c, side)
			if !castling.Has(right) {
				continue
			}
			rookFrom, _ := castleRookSquares(c, side)
			if b.cells[NewSquare(4, homeRow(c))] != (Piece{King, c}) || b.cells[rookFrom] != (Piece{Rook, c}) {
				return nil, fmt.Errorf("%w: castling right %s without king and rook at home", ErrInvalidFEN, right)
			}
		}
	}
	b.castling = castling

	// The side that just moved cannot have left its king attacked.
	if b.IsSquareAttacked(b.KingSquare(b.turn.Opposite()), b.turn) {
		return nil, fmt.Errorf("%w: %s king is in check with %s to move", ErrInvalidFEN, b.turn.Opposite(), b.turn)
	}

	if parts[3] != "-" {
		sq, err := ParseSquare(parts[3])
		if err != nil {
			return nil, fmt.Errorf("%w: en passant square %q", ErrInvalidFEN, parts[3])
		}
		// The target sits behind a pawn of the side that just moved.
		want := 5
		if b.turn == White {
			want = 2
		}
		if sq.Row() != want {
			return nil, fmt.Errorf("%w: en passant square %s on wrong rank", ErrInvalidFEN, sq)
		}
		b.enPassant = sq
	}

	b.halfmove, err = strconv.Atoi(parts[4])
	if err != nil || b.halfmove < 0 {
		return nil, fmt.Errorf("%w: halfmove clock %q", ErrInvalidFEN, parts[4])
	}
	b.fullmove, err = strconv.Atoi(parts[5])
	if err != nil || b.fullmove < 1 {
		return nil, fmt.Errorf("%w: fullmove number %q", ErrInvalidFEN, parts[5])
	}

	return b, nil
}

func parseCastling(s string) (CastlingRights, error) {
	if s == "-" {
		return NoCastlingRights, nil
	}
	var rights CastlingRights
	order := "KQkq"
	last := -1
	for i := 0; i < len(s); i++ {
		idx := strings.IndexByte(order, s[i])
		if idx < 0 || idx <= last {
			return 0, fmt.Errorf("%w: castling field %q", ErrInvalidFEN, s)
		}
		last = idx
		rights |= CastlingRights(1) << idx
	}
	return rights, nil
}

// FEN encodes the board as a FEN string.
func (b *Board) FEN() string {
	var sb strings.Builder
	sb.WriteString(b.placement())
	if b.turn == White {
		sb.WriteString(" w ")
	} else {
		sb.WriteString(" b ")
	}
	sb.WriteString(b.castling.String())
	sb.WriteByte(' ')
	sb.WriteString(b.enPassant.String())
	fmt.Fprintf(&sb, " %d %d", b.halfmove, b.fullmove)
	return sb.String()
}

// placement is the first FEN field.
func (b *Board) placement() string {
	var sb strings.Builder
	for row := 0; row < 8; row++ {
		if row > 0 {
			sb.WriteByte('/')
		}
		empty := 0
		for col := 0; col < 8; col++ {
			p := b.cells[NewSquare(col, row)]
			if p.IsEmpty() {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			sb.WriteByte(p.Letter())
		}
		if empty > 0 {
			sb.WriteByte(byte('0' + empty))
		}
	}
	return sb.String()
}
