package web

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
)

// corsMiddleware allows the board front-end to call the API from any origin.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("elapsed", time.Since(start)).
			Msg("Handled request")
	})
}

// NewRouter wires the API, the WebSocket endpoint and, when staticDir is set,
// the front-end files.
func NewRouter(s *Service, staticDir string) *mux.Router {
	router := mux.NewRouter()
	router.Use(corsMiddleware)
	router.Use(loggingMiddleware)

	// Preflight requests need a matching route for the middleware to run.
	router.Methods(http.MethodOptions).HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", s.HealthHandler).Methods("GET")
	api.HandleFunc("/positions/validate", s.ValidatePositionHandler).Methods("POST")
	api.HandleFunc("/games", s.CreateGameHandler).Methods("POST")
	api.HandleFunc("/games/{id}", s.GetGameHandler).Methods("GET")
	api.HandleFunc("/games/{id}", s.DeleteGameHandler).Methods("DELETE")
	api.HandleFunc("/games/{id}/legal-moves", s.LegalMovesHandler).Methods("GET")
	api.HandleFunc("/games/{id}/moves", s.MakeMoveHandler).Methods("POST")
	api.HandleFunc("/games/{id}/engine-move", s.EngineMoveHandler).Methods("POST")
	api.HandleFunc("/games/{id}/restart", s.RestartHandler).Methods("POST")
	api.HandleFunc("/games/{id}/history", s.HistoryHandler).Methods("GET")
	api.HandleFunc("/games/{id}/pgn", s.PGNHandler).Methods("GET")
	api.HandleFunc("/spectator/games", s.GetActiveGamesHandler).Methods("GET")
	api.HandleFunc("/spectator/games/{id}", s.GetSpectatorGameHandler).Methods("GET")

	if s.hub != nil {
		router.HandleFunc("/ws", s.WebSocketHandler(s.hub))
	}

	if staticDir != "" {
		router.PathPrefix("/").Handler(http.FileServer(http.Dir(staticDir)))
	}
	return router
}
