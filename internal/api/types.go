package api

import (
	"github.com/MJE43/game-arena/internal/arena"
	"github.com/MJE43/game-arena/internal/games"
	"github.com/MJE43/game-arena/internal/report"
	"github.com/MJE43/game-arena/internal/store"
)

// EngineError represents a structured error response with context
type EngineError struct {
	Type      string         `json:"type"`
	Message   string         `json:"message"`
	Context   map[string]any `json:"context,omitempty"`
	RequestID string         `json:"request_id,omitempty"`
	Timestamp string         `json:"timestamp,omitempty"`
}

// Error implements the error interface
func (e EngineError) Error() string {
	return e.Message
}

// Error types with proper categorization
const (
	// Input validation errors
	ErrTypeValidation    = "validation_error"
	ErrTypeInvalidParams = "invalid_params"
	ErrTypeScript        = "script_error"

	// Lookup errors
	ErrTypeGameNotFound       = "game_not_found"
	ErrTypeActorNotFound      = "actor_not_found"
	ErrTypeTournamentNotFound = "tournament_not_found"

	// Match errors
	ErrTypeInvalidAction = "invalid_action"
	ErrTypeActorFailure  = "actor_failure"
	ErrTypeTurnLimit     = "turn_limit"

	// System errors
	ErrTypeTimeout  = "timeout"
	ErrTypeInternal = "internal_error"
)

// ErrorCategory represents error categories for monitoring
type ErrorCategory string

const (
	CategoryValidation ErrorCategory = "validation"
	CategoryNotFound   ErrorCategory = "not_found"
	CategoryMatch      ErrorCategory = "match"
	CategorySystem     ErrorCategory = "system"
	CategoryTimeout    ErrorCategory = "timeout"
)

// GetErrorCategory returns the category for an error type
func GetErrorCategory(errType string) ErrorCategory {
	switch errType {
	case ErrTypeValidation, ErrTypeInvalidParams, ErrTypeScript:
		return CategoryValidation
	case ErrTypeGameNotFound, ErrTypeActorNotFound, ErrTypeTournamentNotFound:
		return CategoryNotFound
	case ErrTypeInvalidAction, ErrTypeActorFailure, ErrTypeTurnLimit:
		return CategoryMatch
	case ErrTypeTimeout:
		return CategoryTimeout
	default:
		return CategorySystem
	}
}

// VersionInfo contains engine version information
type VersionInfo struct {
	EngineVersion string `json:"engine_version"`
	GitCommit     string `json:"git_commit,omitempty"`
	BuildTime     string `json:"build_time,omitempty"`
}

// GamesResponse represents the games catalog response
type GamesResponse struct {
	Games         []games.Spec `json:"games"`
	EngineVersion string       `json:"engine_version"`
}

// Seeds optionally pins the randomness of a run.
type Seeds struct {
	Server string `json:"server"`
	Client string `json:"client"`
}

// MatchRequest plays a single match.
type MatchRequest struct {
	Game   string          `json:"game"`
	Actors []games.Entrant `json:"actors"`
	Seeds  *Seeds          `json:"seeds,omitempty"`
}

// MatchResponse represents a finished match
type MatchResponse struct {
	Result        *games.MatchResult `json:"result"`
	EngineVersion string             `json:"engine_version"`
}

// TournamentRequest runs, ranks and stores a round robin.
type TournamentRequest struct {
	Game        string          `json:"game"`
	Actors      []games.Entrant `json:"actors,omitempty"`
	Repetitions int             `json:"repetitions"`
	Seeds       *Seeds          `json:"seeds,omitempty"`
}

// TournamentResponse is a stored tournament with its derived views.
type TournamentResponse struct {
	Tournament    *store.Tournament `json:"tournament"`
	Ranking       *arena.Ranking    `json:"ranking"`
	Ratings       []report.Rating   `json:"ratings"`
	EngineVersion string            `json:"engine_version"`
}
