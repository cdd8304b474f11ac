package chess

import "errors"

var (
	ErrIllegalMove             = errors.New("illegal move")
	ErrGameOver                = errors.New("game is over")
	ErrInvalidFEN              = errors.New("invalid FEN")
	ErrInvalidSquare           = errors.New("invalid square")
	ErrUnrepresentableNotation = errors.New("move not representable in compact notation")
)
