package chess

// undo holds what makeMove overwrites so unmakeMove can restore it.
type undo struct {
	moved     Piece
	captured  Piece
	castling  CastlingRights
	enPassant Square
	halfmove  int
	fullmove  int
}

// Apply plays m without checking legality. Callers must only pass moves
// taken from LegalMoves.
func (b *Board) Apply(m Move) {
	b.makeMove(m)
}

func (b *Board) makeMove(m Move) undo {
	u := undo{
		moved:     b.cells[m.From],
		castling:  b.castling,
		enPassant: b.enPassant,
		halfmove:  b.halfmove,
		fullmove:  b.fullmove,
	}
	p := u.moved

	if m.Captured != NoSquare {
		u.captured = b.cells[m.Captured]
		b.cells[m.Captured] = NoPiece
	}
	b.cells[m.From] = NoPiece
	if m.Promotion != NoPieceType {
		p.Type = m.Promotion
	}
	b.cells[m.To] = p

	if m.Castle != NoCastle {
		rookFrom, rookTo := castleRookSquares(p.Color, m.Castle)
		b.cells[rookTo] = b.cells[rookFrom]
		b.cells[rookFrom] = NoPiece
	}

	b.enPassant = NoSquare
	if u.moved.Type == Pawn && (m.To.Row()-m.From.Row() == 2 || m.From.Row()-m.To.Row() == 2) {
		b.enPassant = NewSquare(m.From.Column(), (m.From.Row()+m.To.Row())/2)
	}

	b.castling &^= rightsCleared[m.From] | rightsCleared[m.To]

	if u.moved.Type == Pawn || m.Captured != NoSquare {
		b.halfmove = 0
	} else {
		b.halfmove++
	}
	if b.turn == Black {
		b.fullmove++
	}
	b.turn = b.turn.Opposite()
	return u
}

func (b *Board) unmakeMove(m Move, u undo) {
	b.turn = b.turn.Opposite()
	if m.Castle != NoCastle {
		rookFrom, rookTo := castleRookSquares(b.turn, m.Castle)
		b.cells[rookFrom] = b.cells[rookTo]
		b.cells[rookTo] = NoPiece
	}
	b.cells[m.To] = NoPiece
	if m.Captured != NoSquare {
		b.cells[m.Captured] = u.captured
	}
	b.cells[m.From] = u.moved

	b.castling = u.castling
	b.enPassant = u.enPassant
	b.halfmove = u.halfmove
	b.fullmove = u.fullmove
}
