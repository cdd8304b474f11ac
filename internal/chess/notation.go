package chess

import "fmt"

// UnrepresentableMarker stands in for moves the compact notation cannot
// express.
const UnrepresentableMarker = "<invalid>"

// CompactNotation renders the history-panel token: source square, '>' for a
// quiet move or 'x' for a capture, then the destination rank digit for a move
// along a file or the destination file letter for a move along a rank.
// Moves that change both file and rank return UnrepresentableMarker together
// with ErrUnrepresentableNotation.
func CompactNotation(m Move) (string, error) {
	marker := byte('>')
	if m.IsCapture() {
		marker = 'x'
	}
	from := m.From.String()
	switch {
	case m.From.Column() == m.To.Column():
		return fmt.Sprintf("%s%c%c", from, marker, '8'-m.To.Row()), nil
	case m.From.Row() == m.To.Row():
		return fmt.Sprintf("%s%c%c", from, marker, 'a'+m.To.Column()), nil
	}
	return UnrepresentableMarker, fmt.Errorf("%w: %s", ErrUnrepresentableNotation, m.UCI())
}

// Notation is CompactNotation without the error.
func (m Move) Notation() string {
	s, _ := CompactNotation(m)
	return s
}

// UCI returns the long algebraic form, e.g. "e2e4" or "e7e8q".
func (m Move) UCI() string {
	s := m.From.String() + m.To.String()
	if m.Promotion != NoPieceType {
		s += string(pieceLetters[m.Promotion])
	}
	return s
}

func (m Move) String() string {
	return m.UCI()
}

// ParsePromotion maps a UCI promotion letter to a piece type.
func ParsePromotion(p string) PieceType {
	switch p {
	case "q":
		return Queen
	case "r":
		return Rook
	case "b":
		return Bishop
	case "n":
		return Knight
	default:
		return NoPieceType
	}
}
