package api

import (
	"fmt"

	"github.com/MJE43/game-arena/internal/games"
)

// Request limits.
const (
	maxTournamentActors = 32
	maxScriptBytes      = 64 << 10
	maxRequestBytes     = 4 << 20
)

// ValidationError names the request field that failed validation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// ValidateMatchRequest checks a match request against the game's player
// count.
func ValidateMatchRequest(req *MatchRequest, spec games.Spec) error {
	if len(req.Actors) != spec.Players {
		return invalid("actors", "%s needs exactly %d actors, got %d", spec.ID, spec.Players, len(req.Actors))
	}
	if err := validateEntrants(req.Actors); err != nil {
		return err
	}
	return validateSeeds(req.Seeds)
}

// ValidateTournamentRequest checks repetitions and entrants. An empty actor
// list enters the game's whole roster.
func ValidateTournamentRequest(req *TournamentRequest, maxRepetitions int) error {
	if req.Repetitions <= 0 {
		return invalid("repetitions", "must be positive, got %d", req.Repetitions)
	}
	if req.Repetitions > maxRepetitions {
		return invalid("repetitions", "at most %d allowed, got %d", maxRepetitions, req.Repetitions)
	}
	if len(req.Actors) > maxTournamentActors {
		return invalid("actors", "at most %d actors allowed, got %d", maxTournamentActors, len(req.Actors))
	}
	if err := validateEntrants(req.Actors); err != nil {
		return err
	}
	return validateSeeds(req.Seeds)
}

func validateEntrants(entrants []games.Entrant) error {
	for i, e := range entrants {
		field := fmt.Sprintf("actors[%d]", i)
		if e.Name == "" && e.Script == "" {
			return invalid(field, "name or script is required")
		}
		if len(e.Script) > maxScriptBytes {
			return invalid(field, "script exceeds %d bytes", maxScriptBytes)
		}
	}
	return nil
}

func validateSeeds(seeds *Seeds) error {
	if seeds == nil {
		return nil
	}
	if seeds.Server == "" {
		return invalid("seeds.server", "server seed is required when seeds are given")
	}
	if seeds.Client == "" {
		return invalid("seeds.client", "client seed is required when seeds are given")
	}
	return nil
}
