package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/justinabrahms/cez/internal/config"
	"github.com/justinabrahms/cez/internal/search"
	"github.com/justinabrahms/cez/internal/session"
	"github.com/justinabrahms/cez/internal/web"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Parse command line flags
	var showHelp bool
	var configPath string
	flag.BoolVar(&showHelp, "help", false, "Show help information")
	flag.BoolVar(&showHelp, "h", false, "Show help information")
	flag.StringVar(&configPath, "config", "", "Path to config file (default: ./config.yaml)")
	flag.Parse()

	if showHelp {
		showHelpMessage()
		return
	}

	// Setup logging
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

	// Load config
	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.LoadFile(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	setupLogging(cfg.Development)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	searcher := search.NewClient(cfg.Search.BaseURL, cfg.Search.Timeout)
	sessions := session.NewManager(cfg.Session.TTL, cfg.Session.MaxSessions)

	hub := web.NewHub()
	go hub.Run(ctx)

	service := web.NewService(sessions, searcher, hub, cfg)
	go sessions.Run(ctx, cfg.Session.SweepInterval, service.SessionExpired)

	// Create server
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      web.NewRouter(service, cfg.Server.StaticDir),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.Search.Timeout + 15*time.Second, // engine moves wait on the search service
		IdleTimeout:  60 * time.Second,
	}

	// Start server
	go func() {
		log.Info().
			Str("addr", srv.Addr).
			Str("searchURL", searcher.BaseURL()).
			Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	<-ctx.Done()
	log.Info().Msg("Shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

func setupLogging(dev config.DevelopmentConfig) {
	level, err := zerolog.ParseLevel(dev.LogLevel)
	if err != nil {
		log.Warn().Str("level", dev.LogLevel).Msg("Unknown log level, using info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if dev.Debug {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}

func showHelpMessage() {
	fmt.Println(`Cez Game Server

DESCRIPTION:
    Chess rule engine and game service for the Cez board.
    Validates and applies moves, detects checkmate, stalemate and draws,
    and asks the remote search service for the computer's replies.
    Provides a REST API for game operations and a WebSocket feed per game.

USAGE:
    cez-server [OPTIONS]

OPTIONS:
    -h, --help       Show this help message
    -config PATH     Read configuration from PATH instead of ./config.yaml

CONFIGURATION:
    The server is configured via config.yaml in the current directory or
    ./config. Every key can be overridden with a CEZ_ environment variable,
    e.g. CEZ_SEARCH_BASE_URL or CEZ_SERVER_PORT.

    Example config.yaml:
        server:
          host: localhost
          port: 8080
          static_dir: ""          # serve the board front-end when set

        search:
          base_url: http://localhost:8000
          timeout: 30s
          default_difficulty: 1   # 1 easy, 2 medium, 3 hard

        session:
          ttl: 2h                 # 0 keeps games forever
          max_sessions: 1000      # 0 means unlimited
          sweep_interval: 1m

        development:
          debug: false
          log_level: info

API ENDPOINTS:
    GET    /api/health                       - Service health (?search=1 pings the search service)
    POST   /api/positions/validate           - Check a FEN string
    POST   /api/games                        - Start a game, optionally from a FEN
    GET    /api/games/{id}                   - Board snapshot
    DELETE /api/games/{id}                   - End a game
    GET    /api/games/{id}/legal-moves       - Legal moves (?from=e2 for one piece)
    POST   /api/games/{id}/moves             - Play a move {"from","to","promotion"}
    POST   /api/games/{id}/engine-move       - Ask the search service to move {"difficulty"}
    POST   /api/games/{id}/restart           - Reset to the starting position
    GET    /api/games/{id}/history           - Move list
    GET    /api/games/{id}/pgn               - PGN export
    GET    /api/spectator/games              - Games in progress (?all=1 includes finished)
    GET    /api/spectator/games/{id}         - Game with history for spectators
    GET    /ws?gameId={id}                   - Live updates for a game

BEHAVIOR:
    - Generates and validates moves with its own rule engine
    - Games live in memory and expire after session.ttl of inactivity
    - A failed or cancelled engine move leaves the board unchanged
    - Graceful shutdown on SIGINT/SIGTERM

EXAMPLES:
    # Start with default configuration
    cez-server

    # Point at a different search service
    CEZ_SEARCH_BASE_URL=http://search:8000 cez-server

    # Create a game via API
    curl -X POST http://localhost:8080/api/games \
      -H "Content-Type: application/json" \
      -d '{"fen": "4k3/8/8/8/8/8/8/R3K3 w - - 0 1"}'`)
}
