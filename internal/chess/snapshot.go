package chess

// MoveView is the JSON form of a legal or played move.
type MoveView struct {
	From      Coord  `json:"from"`
	To        Coord  `json:"to"`
	Capture   *Coord `json:"capture,omitempty"`
	Promotion string `json:"promotion,omitempty"`
	Castle    string `json:"castle,omitempty"`
	EnPassant bool   `json:"enPassant,omitempty"`
	UCI       string `json:"uci"`
	Notation  string `json:"notation"`
}

func NewMoveView(m Move) MoveView {
	v := MoveView{
		From:      m.From.Coord(),
		To:        m.To.Coord(),
		Castle:    m.Castle.String(),
		EnPassant: m.EnPassant,
		UCI:       m.UCI(),
		Notation:  m.Notation(),
	}
	if m.IsCapture() {
		c := m.Captured.Coord()
		v.Capture = &c
	}
	if m.Promotion != NoPieceType {
		v.Promotion = m.Promotion.String()
	}
	return v
}

func NewMoveViews(moves []Move) []MoveView {
	views := make([]MoveView, len(moves))
	for i, m := range moves {
		views[i] = NewMoveView(m)
	}
	return views
}

// Snapshot is a read-only copy of everything the presentation layer needs.
type Snapshot struct {
	Cells        [8][8]string  `json:"cells"` // [row][column], FEN letters, "" when empty
	FEN          string        `json:"fen"`
	Turn         string        `json:"turn"`
	IsWhitesTurn bool          `json:"isWhitesTurn"`
	State        State         `json:"state"`
	Status       GameStatus    `json:"status"`
	Winner       Winner        `json:"winnerSide"`
	DrawReason   string        `json:"drawReason,omitempty"`
	InCheck      bool          `json:"inCheck"`
	IsGameOver   bool          `json:"isGameOver"`
	MoveCount    int           `json:"moveCount"`
	Material     MaterialCount `json:"material"`
	LegalMoves   []MoveView    `json:"legalMoves"`
}

func (e *Engine) Snapshot() Snapshot {
	s := Snapshot{
		FEN:          e.board.FEN(),
		Turn:         e.board.Turn().String(),
		IsWhitesTurn: e.IsWhitesTurn(),
		State:        e.eval.State,
		Status:       e.GetStatus(),
		Winner:       e.eval.Winner,
		DrawReason:   e.GetDrawReason(),
		InCheck:      e.eval.InCheck,
		IsGameOver:   e.IsGameOver(),
		MoveCount:    len(e.history),
		Material:     e.board.Material(),
		LegalMoves:   NewMoveViews(e.LegalMoves()),
	}
	for sq := Square(0); sq < 64; sq++ {
		if l := e.board.cells[sq].Letter(); l != 0 {
			s.Cells[sq.Row()][sq.Column()] = string(l)
		}
	}
	return s
}
