package chess

import (
	"fmt"

	notnil "github.com/notnil/chess"
)

// standardSAN renders m in standard algebraic notation for the position
// given by fen (the position before the move).
func standardSAN(fen string, m Move) (string, error) {
	opt, err := notnil.FEN(fen)
	if err != nil {
		return "", fmt.Errorf("load position: %w", err)
	}
	game := notnil.NewGame(opt)
	pos := game.Position()
	mv, err := notnil.UCINotation{}.Decode(pos, m.UCI())
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", m.UCI(), err)
	}
	// Decoded moves carry no check tags; the generated ones do.
	for _, vm := range game.ValidMoves() {
		if vm.S1() == mv.S1() && vm.S2() == mv.S2() && vm.Promo() == mv.Promo() {
			return notnil.AlgebraicNotation{}.Encode(pos, vm), nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrIllegalMove, m.UCI())
}

// exportPGN replays moves from the start FEN and returns the movetext.
func exportPGN(startFEN string, moves []Move) (string, error) {
	opt, err := notnil.FEN(startFEN)
	if err != nil {
		return "", fmt.Errorf("load position: %w", err)
	}
	game := notnil.NewGame(opt)
	for i, m := range moves {
		mv, err := notnil.UCINotation{}.Decode(game.Position(), m.UCI())
		if err != nil {
			return "", fmt.Errorf("decode ply %d (%s): %w", i+1, m.UCI(), err)
		}
		if err := game.Move(mv); err != nil {
			return "", fmt.Errorf("replay ply %d (%s): %w", i+1, m.UCI(), err)
		}
	}
	return game.String(), nil
}
