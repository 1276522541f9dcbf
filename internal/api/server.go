// Package api serves the game catalog, matches and stored tournaments over
// HTTP.
package api

import (
	"context"
	"encoding/json"
	"log"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/MJE43/game-arena/internal/arena"
	"github.com/MJE43/game-arena/internal/config"
	"github.com/MJE43/game-arena/internal/games"
	"github.com/MJE43/game-arena/internal/scripting"
	"github.com/MJE43/game-arena/internal/store"
)

// Server handles HTTP requests
type Server struct {
	db           store.DB
	cfg          config.Config
	errorHandler *ErrorHandler
	logger       *log.Logger
	startTime    time.Time
	httpServer   *http.Server
}

// NewServer creates a new API server
func NewServer(db store.DB, cfg config.Config) *Server {
	logger := log.New(os.Stdout, "[API] ", log.LstdFlags|log.Lshortfile)
	return NewServerWithLogger(db, cfg, logger)
}

// NewServerWithLogger is NewServer with a caller-supplied logger.
func NewServerWithLogger(db store.DB, cfg config.Config, logger *log.Logger) *Server {
	s := &Server{
		db:           db,
		cfg:          cfg,
		errorHandler: NewErrorHandler(logger),
		logger:       logger,
		startTime:    time.Now(),
	}
	logger.Printf("server_created games=%d database_enabled=%t workers=%d engine_version=%s",
		len(games.List()), db != nil, cfg.Workers, EngineVersion)
	return s
}

// Routes sets up the HTTP routes with proper middleware
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.LoggingMiddleware)
	r.Use(s.errorHandler.RecoveryHandler)
	r.Use(middleware.Timeout(5 * time.Minute))
	r.Use(s.CORSMiddleware)

	r.Get("/health", s.handleHealthCheck)
	r.Get("/health/live", s.handleLiveness)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/games", s.handleListGames)
		r.Post("/matches", s.handleMatch)

		r.Route("/tournaments", func(r chi.Router) {
			r.Post("/", s.handleCreateTournament)
			r.Get("/", s.handleListTournaments)
			r.Get("/{id}", s.handleGetTournament)
			r.Get("/{id}/matrix.csv", s.handleMatrixCSV)
			r.Get("/{id}/standings.csv", s.handleStandingsCSV)
			r.Delete("/{id}", s.handleDeleteTournament)
		})
	})

	return r
}

func (s *Server) arenaConfig() arena.Config {
	return arena.Config{
		Workers:   s.cfg.Workers,
		BatchSize: s.cfg.BatchSize,
		MaxTurns:  s.cfg.MaxTurns,
		Logger:    s.logger,
	}
}

func (s *Server) gameOptions(seeds *Seeds) games.Options {
	opts := games.Options{
		MaxTurns: s.cfg.MaxTurns,
		Script:   scripting.Options{CallTimeout: s.cfg.ScriptTimeout},
	}
	if seeds != nil {
		opts.Seeds.Server = seeds.Server
		opts.Seeds.Client = seeds.Client
	}
	return opts
}

// writeJSON writes a JSON response with proper headers
func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Engine-Version", EngineVersion)
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Printf("response_encode_failed status=%d err=%v", status, err)
	}
}

// Start begins serving on addr in a goroutine. It returns once the socket
// is bound, with the address actually bound.
func (s *Server) Start(addr string) (string, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return "", err
	}
	s.httpServer = &http.Server{
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if err := s.httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.logger.Printf("server_stopped err=%v", err)
		}
	}()
	s.logger.Printf("server_started addr=%s engine_version=%s", ln.Addr(), EngineVersion)
	return ln.Addr().String(), nil
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
