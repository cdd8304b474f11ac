package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/justinabrahms/cez/internal/chess"
	"github.com/justinabrahms/cez/internal/search"
	"github.com/justinabrahms/cez/internal/session"
	"github.com/rs/zerolog/log"
)

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

// statusFor maps domain errors to an HTTP status and a stable error code.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, errInvalidRequest):
		return http.StatusBadRequest, "invalid_request"
	case errors.Is(err, chess.ErrInvalidFEN):
		return http.StatusBadRequest, "invalid_fen"
	case errors.Is(err, chess.ErrInvalidSquare):
		return http.StatusBadRequest, "invalid_square"
	case errors.Is(err, search.ErrInvalidDifficulty):
		return http.StatusBadRequest, "invalid_difficulty"
	case errors.Is(err, session.ErrNotFound):
		return http.StatusNotFound, "game_not_found"
	case errors.Is(err, chess.ErrGameOver):
		return http.StatusConflict, "game_over"
	case errors.Is(err, session.ErrSearchPending):
		return http.StatusConflict, "engine_move_pending"
	case errors.Is(err, chess.ErrIllegalMove):
		return http.StatusUnprocessableEntity, "illegal_move"
	case errors.Is(err, search.ErrRemoteService):
		return http.StatusBadGateway, "search_unavailable"
	case errors.Is(err, session.ErrTooManySessions):
		return http.StatusServiceUnavailable, "too_many_games"
	}
	return http.StatusInternalServerError, "internal_error"
}

func writeError(w http.ResponseWriter, err error) {
	status, code := statusFor(err)
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Int("status", status).Msg("Request failed")
	} else {
		log.Debug().Err(err).Int("status", status).Msg("Request rejected")
	}
	writeJSON(w, status, ErrorResponse{Error: err.Error(), Code: code})
}
