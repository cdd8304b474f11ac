package web

import (
	"net/http"

	"github.com/justinabrahms/cez/internal/chess"
	"github.com/justinabrahms/cez/internal/session"
)

// GameIndex represents a game available for spectating
type GameIndex struct {
	session.Summary
	SpectatorCount int `json:"spectatorCount"`
}

// GetActiveGamesHandler lists live games, oldest first. Finished games are
// included only with ?all=1.
func (s *Service) GetActiveGamesHandler(w http.ResponseWriter, r *http.Request) {
	includeFinished := r.URL.Query().Get("all") == "1"

	games := []GameIndex{}
	for _, sum := range s.sessions.List() {
		if !includeFinished && sum.Status != chess.StatusActive {
			continue
		}
		idx := GameIndex{Summary: sum}
		if s.hub != nil {
			idx.SpectatorCount = s.hub.Watchers(sum.ID)
		}
		games = append(games, idx)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"games": games,
		"total": len(games),
	})
}

// GetSpectatorGameHandler returns game data optimized for spectators
func (s *Service) GetSpectatorGameHandler(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	snap := sess.Snapshot()
	spectators := 0
	if s.hub != nil {
		spectators = s.hub.Watchers(sess.ID)
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"id":             sess.ID,
		"game":           snap,
		"history":        sess.History(),
		"materialCount":  snap.Material,
		"spectatorCount": spectators,
	})
}
