package chess

var promotionPieces = [...]PieceType{Queen, Rook, Bishop, Knight}

// LegalMoves returns every legal move for the side to move, in board-scan
// order. The board is used as scratch space for make/unmake and is restored
// before returning.
func (b *Board) LegalMoves() []Move {
	pseudo := b.pseudoLegalMoves(make([]Move, 0, 48))
	us := b.turn
	legal := pseudo[:0]
	for _, m := range pseudo {
		u := b.makeMove(m)
		king := b.KingSquare(us)
		if king == NoSquare || !b.IsSquareAttacked(king, us.Opposite()) {
			legal = append(legal, m)
		}
		b.unmakeMove(m, u)
	}
	return legal
}

func (b *Board) pseudoLegalMoves(moves []Move) []Move {
	for sq := Square(0); sq < 64; sq++ {
		p := b.cells[sq]
		if p.IsEmpty() || p.Color != b.turn {
			continue
		}
		switch p.Type {
		case Pawn:
			moves = b.pawnMoves(moves, sq)
		case Knight:
			moves = b.stepMoves(moves, sq, knightOffsets)
		case Bishop:
			moves = b.slideMoves(moves, sq, bishopDirs)
		case Rook:
			moves = b.slideMoves(moves, sq, rookDirs)
		case Queen:
			moves = b.slideMoves(moves, sq, rookDirs)
			moves = b.slideMoves(moves, sq, bishopDirs)
		case King:
			moves = b.stepMoves(moves, sq, kingOffsets)
			moves = b.castleMoves(moves, sq)
		}
	}
	return moves
}

// target classifies a destination: ok is false for off-board or own pieces.
func (b *Board) target(from, to Square) (m Move, ok bool) {
	if to == NoSquare {
		return Move{}, false
	}
	m = Move{From: from, To: to, Captured: NoSquare}
	occ := b.cells[to]
	if occ.IsEmpty() {
		return m, true
	}
	if occ.Color == b.turn {
		return Move{}, false
	}
	m.Captured = to
	return m, true
}

func (b *Board) stepMoves(moves []Move, from Square, offsets []offset) []Move {
	for _, o := range offsets {
		if m, ok := b.target(from, step(from, o)); ok {
			moves = append(moves, m)
		}
	}
	return moves
}

func (b *Board) slideMoves(moves []Move, from Square, dirs []offset) []Move {
	for _, d := range dirs {
		for to := step(from, d); to != NoSquare; to = step(to, d) {
			m, ok := b.target(from, to)
			if !ok {
				break
			}
			moves = append(moves, m)
			if m.IsCapture() {
				break
			}
		}
	}
	return moves
}

func (b *Board) pawnMoves(moves []Move, from Square) []Move {
	dir := pawnDir(b.turn)
	lastRow := homeRow(b.turn.Opposite())
	startRow := homeRow(b.turn) + dir

	add := func(m Move) {
		if m.To.Row() != lastRow {
			moves = append(moves, m)
			return
		}
		for _, promo := range promotionPieces {
			m.Promotion = promo
			moves = append(moves, m)
		}
	}

	one := NewSquare(from.Column(), from.Row()+dir)
	if one != NoSquare && b.cells[one].IsEmpty() {
		add(Move{From: from, To: one, Captured: NoSquare})
		if from.Row() == startRow {
			two := NewSquare(from.Column(), from.Row()+2*dir)
			if b.cells[two].IsEmpty() {
				moves = append(moves, Move{From: from, To: two, Captured: NoSquare})
			}
		}
	}

	for _, dc := range [2]int{-1, 1} {
		to := NewSquare(from.Column()+dc, from.Row()+dir)
		if to == NoSquare {
			continue
		}
		occ := b.cells[to]
		switch {
		case !occ.IsEmpty() && occ.Color != b.turn:
			add(Move{From: from, To: to, Captured: to})
		case occ.IsEmpty() && to == b.enPassant:
			victim := NewSquare(to.Column(), from.Row())
			if b.cells[victim] == (Piece{Pawn, b.turn.Opposite()}) {
				moves = append(moves, Move{From: from, To: to, Captured: victim, EnPassant: true})
			}
		}
	}
	return moves
}

func (b *Board) castleMoves(moves []Move, from Square) []Move {
	us := b.turn
	row := homeRow(us)
	if from != NewSquare(4, row) {
		return moves
	}
	them := us.Opposite()
	for _, side := range [2]CastleSide{KingSide, QueenSide} {
		if !b.castling.Has(castlingRight(us, side)) {
			continue
		}
		rookFrom, _ := castleRookSquares(us, side)
		if b.cells[rookFrom] != (Piece{Rook, us}) {
			continue
		}
		// Squares between king and rook must be empty; the king's own path
		// (start, transit, destination) must not be attacked.
		var between, path []int
		if side == KingSide {
			between, path = []int{5, 6}, []int{4, 5, 6}
		} else {
			between, path = []int{1, 2, 3}, []int{4, 3, 2}
		}
		open := true
		for _, col := range between {
			if !b.cells[NewSquare(col, row)].IsEmpty() {
				open = false
				break
			}
		}
		if !open {
			continue
		}
		for _, col := range path {
			if b.IsSquareAttacked(NewSquare(col, row), them) {
				open = false
				break
			}
		}
		if !open {
			continue
		}
		to := NewSquare(path[2], row)
		moves = append(moves, Move{From: from, To: to, Captured: NoSquare, Castle: side})
	}
	return moves
}
