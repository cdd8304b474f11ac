package search

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrInvalidDifficulty = errors.New("invalid difficulty")

// Difficulty is the search depth preset sent to the remote service.
type Difficulty int

const (
	Easy   Difficulty = 1
	Medium Difficulty = 2
	Hard   Difficulty = 3
)

func (d Difficulty) Valid() bool {
	return d >= Easy && d <= Hard
}

func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "easy"
	case Medium:
		return "medium"
	case Hard:
		return "hard"
	}
	return fmt.Sprintf("Difficulty(%d)", int(d))
}

// ParseDifficulty accepts a preset name or its number.
func ParseDifficulty(s string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy":
		return Easy, nil
	case "medium":
		return Medium, nil
	case "hard":
		return Hard, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || !Difficulty(n).Valid() {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDifficulty, s)
	}
	return Difficulty(n), nil
}
