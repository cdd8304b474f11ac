package chess

import (
	"fmt"

	"github.com/rs/zerolog/log"
)

// Record is one applied move in the game record.
type Record struct {
	Move     Move   `json:"-"`
	UCI      string `json:"uci"`
	SAN      string `json:"san"`
	Notation string `json:"notation"`
	Color    string `json:"color"`
	FEN      string `json:"fen"`
}

// Engine owns one game: the board, the game record and the evaluator state.
// It is not safe for concurrent use; the owner serializes access.
type Engine struct {
	board    *Board
	startFEN string
	history  []Record
	seen     map[string]int
	legal    []Move
	eval     Evaluation
}

func NewEngine() *Engine {
	e, err := NewEngineFromFEN(StartingFEN)
	if err != nil {
		panic(err)
	}
	return e
}

func NewEngineFromFEN(fen string) (*Engine, error) {
	board, err := ParseFEN(fen)
	if err != nil {
		return nil, err
	}
	e := &Engine{}
	e.load(board)
	return e, nil
}

func (e *Engine) load(board *Board) {
	e.board = board
	e.startFEN = board.FEN()
	e.history = nil
	e.seen = make(map[string]int)
	e.eval = Evaluation{State: StateNone, Winner: WinnerNone}
	e.refresh()
}

// refresh recomputes the legal set and runs the evaluator for the current
// position.
func (e *Engine) refresh() {
	e.legal = e.board.LegalMoves()
	key := positionKey(e.board, e.legal)
	e.seen[key]++
	e.eval = evaluate(e.board, e.legal, e.seen[key])
}

// Restart discards the game and returns to the standard starting position.
func (e *Engine) Restart() {
	e.load(NewBoard())
}

// LegalMoves returns a copy of the legal move set. It is empty once the game
// is over.
func (e *Engine) LegalMoves() []Move {
	if e.eval.State.Terminal() {
		return nil
	}
	return append([]Move(nil), e.legal...)
}

// LegalMovesFrom returns the legal moves of the piece on from.
func (e *Engine) LegalMovesFrom(from Square) []Move {
	if e.eval.State.Terminal() {
		return nil
	}
	var moves []Move
	for _, m := range e.legal {
		if m.From == from {
			moves = append(moves, m)
		}
	}
	return moves
}

// Resolve finds the legal move from -> to. With no promotion given, a
// promoting pawn becomes a queen.
func (e *Engine) Resolve(from, to Square, promotion PieceType) (Move, error) {
	if e.eval.State.Terminal() {
		return Move{}, ErrGameOver
	}
	if promotion == NoPieceType {
		promotion = Queen
	}
	for _, m := range e.legal {
		if m.From == from && m.To == to && (m.Promotion == NoPieceType || m.Promotion == promotion) {
			return m, nil
		}
	}
	return Move{}, fmt.Errorf("%w: %s to %s", ErrIllegalMove, from, to)
}

// Apply commits m, which must be in the current legal set.
func (e *Engine) Apply(m Move) (*MoveResult, error) {
	if e.eval.State.Terminal() {
		return nil, ErrGameOver
	}
	if !e.isLegal(m) {
		return nil, fmt.Errorf("%w: %s", ErrIllegalMove, m.UCI())
	}

	before := e.board.FEN()
	san, err := standardSAN(before, m)
	if err != nil {
		log.Warn().Err(err).Str("fen", before).Str("move", m.UCI()).Msg("Failed to render SAN")
		san = m.UCI()
	}
	mover := e.board.Turn()

	e.board.Apply(m)
	e.refresh()

	after := e.board.FEN()
	e.history = append(e.history, Record{
		Move:     m,
		UCI:      m.UCI(),
		SAN:      san,
		Notation: m.Notation(),
		Color:    mover.String(),
		FEN:      after,
	})

	result := &MoveResult{
		From:      m.From.String(),
		To:        m.To.String(),
		UCI:       m.UCI(),
		SAN:       san,
		Notation:  m.Notation(),
		FEN:       after,
		Check:     e.eval.InCheck,
		Checkmate: e.eval.State == StateCheckmate,
		Draw:      e.eval.Winner == WinnerDraw,
		GameOver:  e.eval.State.Terminal(),
	}
	if result.GameOver {
		result.Result = e.resultString()
	}
	return result, nil
}

func (e *Engine) isLegal(m Move) bool {
	for _, l := range e.legal {
		if l == m {
			return true
		}
	}
	return false
}

// MakeMove resolves algebraic squares against the legal set and applies
// the move.
func (e *Engine) MakeMove(from, to string, promotion PieceType) (*MoveResult, error) {
	fromSq, err := ParseSquare(from)
	if err != nil {
		return nil, err
	}
	toSq, err := ParseSquare(to)
	if err != nil {
		return nil, err
	}
	m, err := e.Resolve(fromSq, toSq, promotion)
	if err != nil {
		return nil, err
	}
	return e.Apply(m)
}

// ResolveRemote turns a move suggested by the search service into a legal
// move. A capture square, when given, must agree with the legal move.
func (e *Engine) ResolveRemote(from, to Coord, capture *Coord) (Move, error) {
	fromSq, toSq := from.Square(), to.Square()
	if fromSq == NoSquare || toSq == NoSquare {
		return Move{}, fmt.Errorf("%w: coordinates out of range", ErrIllegalMove)
	}
	m, err := e.Resolve(fromSq, toSq, NoPieceType)
	if err != nil {
		return Move{}, err
	}
	if capture != nil && capture.Square() != m.Captured {
		return Move{}, fmt.Errorf("%w: capture square %s does not match %s", ErrIllegalMove, capture.Square(), m.UCI())
	}
	return m, nil
}

func (e *Engine) resultString() string {
	switch e.eval.Winner {
	case WinnerWhite:
		return "1-0"
	case WinnerBlack:
		return "0-1"
	case WinnerDraw:
		return "1/2-1/2"
	}
	return "*"
}

// Board returns a copy of the current position.
func (e *Engine) Board() *Board {
	b := *e.board
	return &b
}

func (e *Engine) History() []Record {
	return append([]Record(nil), e.history...)
}

func (e *Engine) Evaluation() Evaluation {
	return e.eval
}

func (e *Engine) IsGameOver() bool {
	return e.eval.State.Terminal()
}

func (e *Engine) IsCheck() bool {
	return e.eval.InCheck
}

func (e *Engine) IsWhitesTurn() bool {
	return e.board.Turn() == White
}

func (e *Engine) GetFEN() string {
	return e.board.FEN()
}

func (e *Engine) StartFEN() string {
	return e.startFEN
}

// GetPGN returns the game's movetext in PGN.
func (e *Engine) GetPGN() (string, error) {
	moves := make([]Move, len(e.history))
	for i, r := range e.history {
		moves[i] = r.Move
	}
	return exportPGN(e.startFEN, moves)
}

func (e *Engine) GetStatus() GameStatus {
	switch e.eval.Winner {
	case WinnerWhite:
		return StatusWhiteWon
	case WinnerBlack:
		return StatusBlackWon
	case WinnerDraw:
		return StatusDraw
	default:
		return StatusActive
	}
}

func (e *Engine) GetActiveColor() string {
	return e.board.Turn().String()
}

func (e *Engine) IsDrawn() bool {
	return e.eval.Winner == WinnerDraw
}

// GetDrawReason returns why the game is drawn, or "" if it is not.
func (e *Engine) GetDrawReason() string {
	switch {
	case e.eval.State == StateStalemate:
		return "stalemate"
	case e.eval.State == StateDrawByRule:
		return string(e.eval.DrawRule)
	}
	return ""
}

func (e *Engine) GetMaterialCount() MaterialCount {
	return e.board.Material()
}

// GetMaterialBalance returns white material minus black material.
func (e *Engine) GetMaterialBalance() int {
	c := e.board.Material()
	return c.White - c.Black
}

func (e *Engine) GetPieceValues() map[string]int {
	values := make(map[string]int, len(StandardPieceValues))
	for k, v := range StandardPieceValues {
		values[k] = v
	}
	return values
}

// ValidateFEN checks fen without changing the engine.
func (e *Engine) ValidateFEN(fen string) error {
	_, err := ParseFEN(fen)
	return err
}
