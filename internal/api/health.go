package api

import (
	"context"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/MJE43/game-arena/internal/games"
)

// HealthStatus represents the overall health status
type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusDegraded  HealthStatus = "degraded"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

// HealthCheckResponse is the body of GET /health.
type HealthCheckResponse struct {
	Status        HealthStatus           `json:"status"`
	Timestamp     string                 `json:"timestamp"`
	EngineVersion string                 `json:"engine_version"`
	GitCommit     string                 `json:"git_commit,omitempty"`
	BuildTime     string                 `json:"build_time,omitempty"`
	Uptime        string                 `json:"uptime"`
	Games         int                    `json:"games"`
	Checks        map[string]HealthCheck `json:"checks"`
	Limits        RunLimits              `json:"limits"`
	RequestID     string                 `json:"request_id,omitempty"`
}

// HealthCheck represents an individual health check
type HealthCheck struct {
	Status      HealthStatus `json:"status"`
	Message     string       `json:"message,omitempty"`
	LastChecked string       `json:"last_checked"`
	Duration    string       `json:"duration,omitempty"`
}

// RunLimits reports how this server executes tournaments.
type RunLimits struct {
	Workers        int    `json:"workers"`
	BatchSize      int    `json:"batch_size"`
	MaxTurns       int    `json:"max_turns"`
	MaxRepetitions int    `json:"max_repetitions"`
	ScriptTimeout  string `json:"script_timeout"`
	Goroutines     int    `json:"goroutines"`
}

// healthCheckFunc reports a status and a message for one dependency.
type healthCheckFunc func(ctx context.Context) (HealthStatus, string)

func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	checkers := map[string]healthCheckFunc{
		"games":    checkGames,
		"database": s.checkDatabase,
	}

	checks := make(map[string]HealthCheck, len(checkers))
	overall := HealthStatusHealthy
	for name, check := range checkers {
		result := runCheck(r.Context(), check)
		checks[name] = result
		overall = worse(overall, result.Status)
	}

	response := HealthCheckResponse{
		Status:        overall,
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		EngineVersion: EngineVersion,
		GitCommit:     GitCommit,
		BuildTime:     BuildTime,
		Uptime:        time.Since(s.startTime).String(),
		Games:         len(games.List()),
		Checks:        checks,
		Limits:        s.runLimits(),
		RequestID:     middleware.GetReqID(r.Context()),
	}

	statusCode := http.StatusOK
	if overall == HealthStatusUnhealthy {
		statusCode = http.StatusServiceUnavailable
	}
	s.writeJSON(w, statusCode, response)
}

// handleLiveness answers while the process is up.
func (s *Server) handleLiveness(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"alive":          true,
		"timestamp":      time.Now().UTC().Format(time.RFC3339),
		"engine_version": EngineVersion,
		"uptime":         time.Since(s.startTime).String(),
		"request_id":     middleware.GetReqID(r.Context()),
	})
}

func runCheck(ctx context.Context, check healthCheckFunc) HealthCheck {
	start := time.Now()
	status, message := check(ctx)
	return HealthCheck{
		Status:      status,
		Message:     message,
		LastChecked: time.Now().UTC().Format(time.RFC3339),
		Duration:    time.Since(start).String(),
	}
}

// worse folds one check into the overall status.
func worse(overall, check HealthStatus) HealthStatus {
	switch {
	case overall == HealthStatusUnhealthy || check == HealthStatusHealthy:
		return overall
	case check == HealthStatusUnhealthy:
		return HealthStatusUnhealthy
	default:
		return HealthStatusDegraded
	}
}

func checkGames(context.Context) (HealthStatus, string) {
	n := len(games.List())
	if n == 0 {
		return HealthStatusDegraded, "no games registered"
	}
	return HealthStatusHealthy, fmt.Sprintf("%d games registered", n)
}

func (s *Server) checkDatabase(ctx context.Context) (HealthStatus, string) {
	if s.db == nil {
		return HealthStatusUnhealthy, "store not initialized"
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := s.db.Ping(ctx); err != nil {
		return HealthStatusUnhealthy, fmt.Sprintf("store ping failed: %v", err)
	}
	return HealthStatusHealthy, "store reachable"
}

func (s *Server) runLimits() RunLimits {
	return RunLimits{
		Workers:        s.cfg.Workers,
		BatchSize:      s.cfg.BatchSize,
		MaxTurns:       s.cfg.MaxTurns,
		MaxRepetitions: s.cfg.MaxRepetitions,
		ScriptTimeout:  s.cfg.ScriptTimeout.String(),
		Goroutines:     runtime.NumGoroutine(),
	}
}
