package session

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/justinabrahms/cez/internal/chess"
	"github.com/rs/zerolog/log"
)

// Manager keeps the live sessions in memory.
type Manager struct {
	ttl         time.Duration
	maxSessions int
	now         func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager creates a manager. A zero ttl disables expiry and a zero
// maxSessions disables the limit.
func NewManager(ttl time.Duration, maxSessions int) *Manager {
	return &Manager{
		ttl:         ttl,
		maxSessions: maxSessions,
		now:         time.Now,
		sessions:    make(map[string]*Session),
	}
}

// Create starts a session from fen, or from the standard position when fen
// is empty.
func (m *Manager) Create(fen string) (*Session, error) {
	var engine *chess.Engine
	if fen == "" {
		engine = chess.NewEngine()
	} else {
		var err error
		engine, err = chess.NewEngineFromFEN(fen)
		if err != nil {
			return nil, err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.maxSessions > 0 && len(m.sessions) >= m.maxSessions {
		return nil, ErrTooManySessions
	}
	s := newSession(uuid.NewString(), engine, m.now)
	m.sessions[s.ID] = s

	log.Info().Str("sessionID", s.ID).Str("fen", engine.GetFEN()).Msg("Session created")
	return s, nil
}

func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return ErrNotFound
	}
	delete(m.sessions, id)
	return nil
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// List returns summaries of all sessions, oldest first.
func (m *Manager) List() []Summary {
	m.mu.RLock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.mu.RUnlock()

	summaries := make([]Summary, len(sessions))
	for i, s := range sessions {
		summaries[i] = s.Summary()
	}
	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].CreatedAt.Equal(summaries[j].CreatedAt) {
			return summaries[i].ID < summaries[j].ID
		}
		return summaries[i].CreatedAt.Before(summaries[j].CreatedAt)
	})
	return summaries
}

// Sweep removes sessions idle for longer than the TTL and returns their IDs.
func (m *Manager) Sweep() []string {
	if m.ttl <= 0 {
		return nil
	}
	cutoff := m.now().Add(-m.ttl)

	m.mu.Lock()
	defer m.mu.Unlock()

	var expired []string
	for id, s := range m.sessions {
		if s.idleSince(cutoff) {
			delete(m.sessions, id)
			expired = append(expired, id)
		}
	}
	return expired
}

// Run sweeps expired sessions every interval until ctx is done. onExpire, if
// set, is called with each removed session ID.
func (m *Manager) Run(ctx context.Context, interval time.Duration, onExpire func(id string)) {
	if m.ttl <= 0 || interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Session janitor stopped")
			return
		case <-ticker.C:
			expired := m.Sweep()
			for _, id := range expired {
				if onExpire != nil {
					onExpire(id)
				}
			}
			if len(expired) > 0 {
				log.Info().Int("expired", len(expired)).Int("active", m.Len()).Msg("Expired idle sessions")
			}
		}
	}
}
