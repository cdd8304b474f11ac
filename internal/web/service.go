package web

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/justinabrahms/cez/internal/chess"
	"github.com/justinabrahms/cez/internal/config"
	"github.com/justinabrahms/cez/internal/search"
	"github.com/justinabrahms/cez/internal/session"
	"github.com/rs/zerolog/log"
)

// Searcher is the remote move-search client.
type Searcher interface {
	session.MoveSearcher
	TestConnection(ctx context.Context) error
}

type Service struct {
	sessions *session.Manager
	searcher Searcher
	hub      *Hub
	config   *config.Config
}

func NewService(sessions *session.Manager, searcher Searcher, hub *Hub, config *config.Config) *Service {
	return &Service{
		sessions: sessions,
		searcher: searcher,
		hub:      hub,
		config:   config,
	}
}

func (s *Service) HealthHandler(w http.ResponseWriter, r *http.Request) {
	resp := map[string]interface{}{
		"status":   "ok",
		"sessions": s.sessions.Len(),
	}
	if r.URL.Query().Get("search") == "1" {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()
		if err := s.searcher.TestConnection(ctx); err != nil {
			log.Warn().Err(err).Msg("Search service health check failed")
			resp["search"] = "unreachable"
		} else {
			resp["search"] = "ok"
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

type ValidatePositionRequest struct {
	FEN string `json:"fen" validate:"required,max=100"`
}

func (s *Service) ValidatePositionHandler(w http.ResponseWriter, r *http.Request) {
	var req ValidatePositionRequest
	if err := decodeRequest(r, &req, false); err != nil {
		writeError(w, err)
		return
	}

	if _, err := chess.ParseFEN(req.FEN); err != nil {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"valid": false,
			"error": err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"valid": true})
}

type CreateGameRequest struct {
	FEN string `json:"fen,omitempty" validate:"omitempty,max=100"`
}

type GameResponse struct {
	ID   string         `json:"id"`
	Game chess.Snapshot `json:"game"`
}

func (s *Service) CreateGameHandler(w http.ResponseWriter, r *http.Request) {
	var req CreateGameRequest
	if err := decodeRequest(r, &req, true); err != nil {
		writeError(w, err)
		return
	}

	sess, err := s.sessions.Create(req.FEN)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, GameResponse{ID: sess.ID, Game: sess.Snapshot()})
}

func (s *Service) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, err := s.sessions.Get(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return nil, false
	}
	return sess, true
}

func (s *Service) GetGameHandler(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, GameResponse{ID: sess.ID, Game: sess.Snapshot()})
}

func (s *Service) LegalMovesHandler(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	from := r.URL.Query().Get("from")
	if from == "" {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"moves": sess.Snapshot().LegalMoves,
		})
		return
	}

	moves, err := sess.LegalMovesFrom(from)
	if err != nil {
		writeError(w, err)
		return
	}
	if moves == nil {
		moves = []chess.MoveView{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"from":  from,
		"moves": moves,
	})
}

type MakeMoveRequest struct {
	From      string `json:"from" validate:"required,len=2"`
	To        string `json:"to" validate:"required,len=2"`
	Promotion string `json:"promotion,omitempty" validate:"omitempty,oneof=q r b n"`
}

type MoveResponse struct {
	Move *chess.MoveResult `json:"move"`
	Game chess.Snapshot    `json:"game"`
}

func (s *Service) MakeMoveHandler(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	var req MakeMoveRequest
	if err := decodeRequest(r, &req, false); err != nil {
		writeError(w, err)
		return
	}

	result, snap, err := sess.PlayUserMove(req.From, req.To, chess.ParsePromotion(req.Promotion))
	if err != nil {
		writeError(w, err)
		return
	}

	log.Info().
		Str("gameID", sess.ID).
		Str("san", result.SAN).
		Str("resultFEN", result.FEN).
		Bool("check", result.Check).
		Bool("checkmate", result.Checkmate).
		Msg("Move executed successfully")

	s.respondMove(w, sess.ID, result, snap)
}

type EngineMoveRequest struct {
	Difficulty int `json:"difficulty,omitempty" validate:"omitempty,min=1,max=3"`
}

func (s *Service) EngineMoveHandler(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	var req EngineMoveRequest
	if err := decodeRequest(r, &req, true); err != nil {
		writeError(w, err)
		return
	}
	difficulty := search.Difficulty(req.Difficulty)
	if difficulty == 0 {
		difficulty = search.Difficulty(s.config.Search.DefaultDifficulty)
	}

	result, snap, err := sess.RequestEngineMove(r.Context(), s.searcher, difficulty)
	if err != nil {
		writeError(w, err)
		return
	}

	log.Info().
		Str("gameID", sess.ID).
		Str("san", result.SAN).
		Str("difficulty", difficulty.String()).
		Msg("Engine move applied")

	s.respondMove(w, sess.ID, result, snap)
}

// respondMove reports a move together with the position it produced.
func (s *Service) respondMove(w http.ResponseWriter, gameID string, result *chess.MoveResult, snap chess.Snapshot) {
	s.broadcast(gameID, UpdateMove, MoveResponse{Move: result, Game: snap})
	if result.GameOver {
		s.broadcast(gameID, UpdateGameEnd, map[string]interface{}{
			"result":     result.Result,
			"state":      snap.State,
			"winnerSide": snap.Winner,
			"drawReason": snap.DrawReason,
		})
	}
	writeJSON(w, http.StatusOK, MoveResponse{Move: result, Game: snap})
}

func (s *Service) RestartHandler(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	if err := sess.Restart(); err != nil {
		writeError(w, err)
		return
	}

	snap := sess.Snapshot()
	s.broadcast(sess.ID, UpdateRestart, snap)
	writeJSON(w, http.StatusOK, GameResponse{ID: sess.ID, Game: snap})
}

func (s *Service) DeleteGameHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := s.sessions.Delete(id); err != nil {
		writeError(w, err)
		return
	}
	s.broadcast(id, UpdateClosed, nil)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Service) HistoryHandler(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	history := sess.History()
	if history == nil {
		history = []chess.Record{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"gameId": sess.ID,
		"moves":  history,
	})
}

func (s *Service) PGNHandler(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	pgn, err := sess.PGN()
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/x-chess-pgn")
	w.Write([]byte(pgn))
}

func (s *Service) broadcast(gameID, kind string, data interface{}) {
	if s.hub == nil {
		return
	}
	s.hub.BroadcastGameUpdate(GameUpdate{GameID: gameID, Type: kind, Data: data})
}

// SessionExpired notifies watchers that the janitor removed a game.
func (s *Service) SessionExpired(id string) {
	log.Info().Str("gameID", id).Msg("Session expired")
	s.broadcast(id, UpdateClosed, map[string]string{"reason": "expired"})
}
