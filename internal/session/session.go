package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/justinabrahms/cez/internal/chess"
	"github.com/justinabrahms/cez/internal/search"
	"github.com/rs/zerolog/log"
)

var (
	ErrNotFound        = errors.New("session not found")
	ErrSearchPending   = errors.New("engine move already pending")
	ErrTooManySessions = errors.New("too many active sessions")
)

// MoveSearcher asks a remote service for a move in a FEN position.
type MoveSearcher interface {
	SearchMove(ctx context.Context, fen string, difficulty search.Difficulty) (*search.Response, error)
}

// Session owns one game. All access to the engine goes through the session
// lock; the lock is not held during a remote search.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu         sync.Mutex
	engine     *chess.Engine
	pending    bool
	lastActive time.Time
	now        func() time.Time
}

// Summary is the listing view of a session.
type Summary struct {
	ID         string              `json:"id"`
	FEN        string              `json:"fen"`
	Turn       string              `json:"turn"`
	Status     chess.GameStatus    `json:"status"`
	State      chess.State         `json:"state"`
	MoveCount  int                 `json:"moveCount"`
	Material   chess.MaterialCount `json:"materialCount"`
	Pending    bool                `json:"enginePending"`
	CreatedAt  time.Time           `json:"createdAt"`
	LastActive time.Time           `json:"lastActive"`
}

func newSession(id string, engine *chess.Engine, now func() time.Time) *Session {
	t := now()
	return &Session{
		ID:         id,
		CreatedAt:  t,
		engine:     engine,
		lastActive: t,
		now:        now,
	}
}

func (s *Session) touch() {
	s.lastActive = s.now()
}

// PlayUserMove applies a move given in algebraic squares and returns the
// position it produced.
func (s *Session) PlayUserMove(from, to string, promotion chess.PieceType) (*chess.MoveResult, chess.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending {
		return nil, chess.Snapshot{}, ErrSearchPending
	}
	s.touch()
	result, err := s.engine.MakeMove(from, to, promotion)
	if err != nil {
		return nil, chess.Snapshot{}, err
	}
	return result, s.engine.Snapshot(), nil
}

// RequestEngineMove asks searcher for a move in the current position and
// applies it. The board is unchanged when the search fails, is cancelled, or
// suggests a move that is not legal.
func (s *Session) RequestEngineMove(ctx context.Context, searcher MoveSearcher, difficulty search.Difficulty) (*chess.MoveResult, chess.Snapshot, error) {
	s.mu.Lock()
	if s.pending {
		s.mu.Unlock()
		return nil, chess.Snapshot{}, ErrSearchPending
	}
	if s.engine.IsGameOver() {
		s.mu.Unlock()
		return nil, chess.Snapshot{}, chess.ErrGameOver
	}
	fen := s.engine.GetFEN()
	s.pending = true
	s.touch()
	s.mu.Unlock()

	resp, err := searcher.SearchMove(ctx, fen, difficulty)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = false
	s.touch()

	if err != nil {
		return nil, chess.Snapshot{}, err
	}
	if err := ctx.Err(); err != nil {
		return nil, chess.Snapshot{}, fmt.Errorf("%w: %w", search.ErrRemoteService, err)
	}
	if resp == nil {
		return nil, chess.Snapshot{}, fmt.Errorf("%w: empty response", search.ErrRemoteService)
	}

	m, err := s.engine.ResolveRemote(resp.From, resp.To, resp.Capture)
	if err != nil {
		log.Warn().
			Err(err).
			Str("sessionID", s.ID).
			Str("fen", fen).
			Interface("from", resp.From).
			Interface("to", resp.To).
			Msg("Rejected move from search service")
		return nil, chess.Snapshot{}, err
	}
	result, err := s.engine.Apply(m)
	if err != nil {
		return nil, chess.Snapshot{}, err
	}
	return result, s.engine.Snapshot(), nil
}

// Restart returns the session to the standard starting position.
func (s *Session) Restart() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending {
		return ErrSearchPending
	}
	s.engine.Restart()
	s.touch()
	return nil
}

func (s *Session) Snapshot() chess.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Snapshot()
}

// LegalMovesFrom lists the legal moves of the piece on the given square.
func (s *Session) LegalMovesFrom(square string) ([]chess.MoveView, error) {
	sq, err := chess.ParseSquare(square)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return chess.NewMoveViews(s.engine.LegalMovesFrom(sq)), nil
}

func (s *Session) History() []chess.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.History()
}

func (s *Session) PGN() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.GetPGN()
}

func (s *Session) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

func (s *Session) Summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Summary{
		ID:         s.ID,
		FEN:        s.engine.GetFEN(),
		Turn:       s.engine.GetActiveColor(),
		Status:     s.engine.GetStatus(),
		State:      s.engine.Evaluation().State,
		MoveCount:  len(s.engine.History()),
		Material:   s.engine.GetMaterialCount(),
		Pending:    s.pending,
		CreatedAt:  s.CreatedAt,
		LastActive: s.lastActive,
	}
}

// idleSince reports whether the session has been untouched since cutoff.
// Sessions waiting on a search are never idle.
func (s *Session) idleSince(cutoff time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.pending && s.lastActive.Before(cutoff)
}
