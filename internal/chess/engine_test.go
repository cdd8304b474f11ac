package chess

import (
	"errors"
	"strings"
	"testing"
)

func TestNewEngine(t *testing.T) {
	engine := NewEngine()
	if engine == nil {
		t.Fatal("Expected non-nil engine")
	}

	if engine.GetFEN() != StartingFEN {
		t.Errorf("Expected FEN %s, got %s", StartingFEN, engine.GetFEN())
	}

	if engine.GetStatus() != StatusActive {
		t.Errorf("Expected status %s, got %s", StatusActive, engine.GetStatus())
	}

	if engine.GetActiveColor() != "white" {
		t.Errorf("Expected active color white, got %s", engine.GetActiveColor())
	}

	if engine.Evaluation().State != StateInProgress {
		t.Errorf("Expected state %s, got %s", StateInProgress, engine.Evaluation().State)
	}
}

func TestMakeMove(t *testing.T) {
	engine := NewEngine()

	result, err := engine.MakeMove("e2", "e4", NoPieceType)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if result.From != "e2" || result.To != "e4" {
		t.Errorf("Expected e2-e4, got %s-%s", result.From, result.To)
	}

	if result.SAN != "e4" {
		t.Errorf("Expected SAN e4, got %s", result.SAN)
	}

	if result.Notation != "e2>4" {
		t.Errorf("Expected notation e2>4, got %s", result.Notation)
	}

	if result.FEN != "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1" {
		t.Errorf("Unexpected FEN %s", result.FEN)
	}

	if result.Check || result.Checkmate || result.GameOver {
		t.Errorf("Expected quiet continuation, got %+v", result)
	}

	// e2 is empty now
	_, err = engine.MakeMove("e2", "e4", NoPieceType)
	if !errors.Is(err, ErrIllegalMove) {
		t.Errorf("Expected ErrIllegalMove, got %v", err)
	}
}

func TestMakeMoveInvalidSquare(t *testing.T) {
	engine := NewEngine()

	_, err := engine.MakeMove("z9", "e4", NoPieceType)
	if !errors.Is(err, ErrInvalidSquare) {
		t.Errorf("Expected ErrInvalidSquare, got %v", err)
	}

	_, err = engine.MakeMove("e2", "z9", NoPieceType)
	if !errors.Is(err, ErrInvalidSquare) {
		t.Errorf("Expected ErrInvalidSquare, got %v", err)
	}
}

func TestIllegalMoveLeavesStateUnchanged(t *testing.T) {
	engine := NewEngine()
	before := engine.GetFEN()

	if _, err := engine.MakeMove("e2", "e5", NoPieceType); err == nil {
		t.Fatal("Expected error for e2-e5")
	}
	if _, err := engine.Apply(Move{From: mustSquare(t, "d1"), To: mustSquare(t, "h5"), Captured: NoSquare}); !errors.Is(err, ErrIllegalMove) {
		t.Fatalf("Expected ErrIllegalMove for blocked queen, got %v", err)
	}

	if engine.GetFEN() != before {
		t.Errorf("Board changed after rejected moves: %s", engine.GetFEN())
	}
	if len(engine.History()) != 0 {
		t.Errorf("Expected empty history, got %d entries", len(engine.History()))
	}
}

func TestNewEngineFromFEN(t *testing.T) {
	validFEN := "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1"
	engine, err := NewEngineFromFEN(validFEN)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if engine.GetFEN() != validFEN {
		t.Errorf("Expected FEN %s, got %s", validFEN, engine.GetFEN())
	}

	if engine.GetActiveColor() != "black" {
		t.Errorf("Expected active color black, got %s", engine.GetActiveColor())
	}
}

func TestNewEngineFromInvalidFEN(t *testing.T) {
	_, err := NewEngineFromFEN("invalid-fen")
	if !errors.Is(err, ErrInvalidFEN) {
		t.Errorf("Expected ErrInvalidFEN, got %v", err)
	}
}

func TestParsePromotion(t *testing.T) {
	tests := []struct {
		input    string
		expected PieceType
	}{
		{"q", Queen},
		{"r", Rook},
		{"b", Bishop},
		{"n", Knight},
		{"x", NoPieceType},
		{"", NoPieceType},
	}

	for _, test := range tests {
		result := ParsePromotion(test.input)
		if result != test.expected {
			t.Errorf("ParsePromotion(%s) = %v, expected %v", test.input, result, test.expected)
		}
	}
}

func TestValidateFEN(t *testing.T) {
	engine := NewEngine()

	if err := engine.ValidateFEN(StartingFEN); err != nil {
		t.Errorf("Expected no error for valid FEN, got %v", err)
	}

	if err := engine.ValidateFEN("invalid-fen"); err == nil {
		t.Error("Expected error for invalid FEN")
	}
}

func TestPromotionDefaultsToQueen(t *testing.T) {
	engine, err := NewEngineFromFEN("8/4P3/8/8/8/8/k7/4K3 w - - 0 1")
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}

	result, err := engine.MakeMove("e7", "e8", NoPieceType)
	if err != nil {
		t.Fatalf("Expected promotion to succeed, got %v", err)
	}
	if result.UCI != "e7e8q" {
		t.Errorf("Expected e7e8q, got %s", result.UCI)
	}
	if got := engine.Board().PieceAt(mustSquare(t, "e8")); got != (Piece{Queen, White}) {
		t.Errorf("Expected white queen on e8, got %+v", got)
	}
}

func TestUnderPromotion(t *testing.T) {
	engine, err := NewEngineFromFEN("8/4P3/8/8/8/8/k7/4K3 w - - 0 1")
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}

	if _, err := engine.MakeMove("e7", "e8", Knight); err != nil {
		t.Fatalf("Expected knight promotion to succeed, got %v", err)
	}
	if got := engine.Board().PieceAt(mustSquare(t, "e8")); got != (Piece{Knight, White}) {
		t.Errorf("Expected white knight on e8, got %+v", got)
	}
}

func TestRestart(t *testing.T) {
	engine := NewEngine()
	for _, mv := range [][2]string{{"f2", "f3"}, {"e7", "e5"}, {"g2", "g4"}, {"d8", "h4"}} {
		if _, err := engine.MakeMove(mv[0], mv[1], NoPieceType); err != nil {
			t.Fatalf("Move %s-%s failed: %v", mv[0], mv[1], err)
		}
	}
	if !engine.IsGameOver() {
		t.Fatal("Expected game over after fool's mate")
	}

	engine.Restart()
	engine.Restart()

	if engine.GetFEN() != StartingFEN {
		t.Errorf("Expected starting FEN after restart, got %s", engine.GetFEN())
	}
	if engine.IsGameOver() || len(engine.History()) != 0 || !engine.IsWhitesTurn() {
		t.Errorf("Expected fresh game after restart, got over=%v history=%d white=%v",
			engine.IsGameOver(), len(engine.History()), engine.IsWhitesTurn())
	}
	if len(engine.LegalMoves()) != 20 {
		t.Errorf("Expected 20 legal moves after restart, got %d", len(engine.LegalMoves()))
	}
}

func TestHistoryOrder(t *testing.T) {
	engine := NewEngine()
	plies := [][2]string{{"e2", "e4"}, {"e7", "e5"}, {"g1", "f3"}, {"b8", "c6"}}
	for _, mv := range plies {
		if _, err := engine.MakeMove(mv[0], mv[1], NoPieceType); err != nil {
			t.Fatalf("Move %s-%s failed: %v", mv[0], mv[1], err)
		}
	}

	history := engine.History()
	if len(history) != len(plies) {
		t.Fatalf("Expected %d history entries, got %d", len(plies), len(history))
	}
	for i, rec := range history {
		want := "white"
		if i%2 == 1 {
			want = "black"
		}
		if rec.Color != want {
			t.Errorf("Ply %d: expected %s, got %s", i, want, rec.Color)
		}
		if rec.UCI != plies[i][0]+plies[i][1] {
			t.Errorf("Ply %d: expected %s%s, got %s", i, plies[i][0], plies[i][1], rec.UCI)
		}
	}
	if history[2].SAN != "Nf3" || history[2].Notation != UnrepresentableMarker {
		t.Errorf("Expected Nf3 with unrepresentable compact token, got %s / %s", history[2].SAN, history[2].Notation)
	}
}

func TestGetPGN(t *testing.T) {
	engine := NewEngine()
	for _, mv := range [][2]string{{"e2", "e4"}, {"e7", "e5"}, {"g1", "f3"}} {
		if _, err := engine.MakeMove(mv[0], mv[1], NoPieceType); err != nil {
			t.Fatalf("Move %s-%s failed: %v", mv[0], mv[1], err)
		}
	}

	pgn, err := engine.GetPGN()
	if err != nil {
		t.Fatalf("GetPGN failed: %v", err)
	}
	if !strings.Contains(pgn, "1. e4 e5 2. Nf3") {
		t.Errorf("Expected movetext in PGN, got %q", pgn)
	}
}

func TestResolveRemote(t *testing.T) {
	engine, err := NewEngineFromFEN("rnbqkbnr/ppp1pppp/8/3p4/4P3/8/PPPP1PPP/RNBQKBNR w KQkq d6 0 2")
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}

	e4 := Coord{Row: 4, Column: 4}
	d5 := Coord{Row: 3, Column: 3}

	m, err := engine.ResolveRemote(e4, d5, &d5)
	if err != nil {
		t.Fatalf("Expected exd5 to resolve, got %v", err)
	}
	if !m.IsCapture() || m.Captured != d5.Square() {
		t.Errorf("Expected capture on d5, got %+v", m)
	}

	// Capture omitted is accepted.
	if _, err := engine.ResolveRemote(e4, d5, nil); err != nil {
		t.Errorf("Expected exd5 without capture field to resolve, got %v", err)
	}

	wrong := Coord{Row: 4, Column: 3}
	if _, err := engine.ResolveRemote(e4, d5, &wrong); !errors.Is(err, ErrIllegalMove) {
		t.Errorf("Expected ErrIllegalMove for mismatched capture, got %v", err)
	}

	if _, err := engine.ResolveRemote(e4, Coord{Row: 2, Column: 4}, nil); !errors.Is(err, ErrIllegalMove) {
		t.Errorf("Expected ErrIllegalMove for e4-e6, got %v", err)
	}

	if _, err := engine.ResolveRemote(Coord{Row: 8, Column: 0}, d5, nil); !errors.Is(err, ErrIllegalMove) {
		t.Errorf("Expected ErrIllegalMove for off-board coordinate, got %v", err)
	}
}

func TestSnapshot(t *testing.T) {
	engine := NewEngine()
	snap := engine.Snapshot()

	if snap.Cells[0][4] != "k" || snap.Cells[7][4] != "K" || snap.Cells[4][4] != "" {
		t.Errorf("Unexpected cells: row0=%v row7=%v", snap.Cells[0], snap.Cells[7])
	}
	if !snap.IsWhitesTurn || snap.Winner != WinnerNone || snap.IsGameOver {
		t.Errorf("Unexpected snapshot flags: %+v", snap)
	}
	if len(snap.LegalMoves) != 20 {
		t.Errorf("Expected 20 legal moves in snapshot, got %d", len(snap.LegalMoves))
	}

	// Mutating the snapshot must not reach the engine.
	snap.Cells[7][4] = ""
	if engine.Board().PieceAt(mustSquare(t, "e1")) != (Piece{King, White}) {
		t.Error("Snapshot mutation leaked into the engine")
	}
}

func mustSquare(t *testing.T, s string) Square {
	t.Helper()
	sq, err := ParseSquare(s)
	if err != nil {
		t.Fatalf("ParseSquare(%q): %v", s, err)
	}
	return sq
}
