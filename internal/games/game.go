// Package games is the catalog of playable games. Each entry hides its
// concrete player, action, view and outcome types behind a uniform API so
// the HTTP server and CLI can run any registered game by id.
package games

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/MJE43/game-arena/internal/arena"
	"github.com/MJE43/game-arena/internal/engine"
	"github.com/MJE43/game-arena/internal/scripting"
)

// Spec describes a catalog entry.
type Spec struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Players     int      `json:"players"`
	Actors      []string `json:"actors"`
	Scriptable  bool     `json:"scriptable"`
}

// Entrant selects a built-in actor by name, or supplies a script that is
// entered under Name.
type Entrant struct {
	Name   string `json:"name"`
	Script string `json:"script,omitempty"`
}

// Options carry per-run settings that are not part of arena.Config.
type Options struct {
	// Seeds drive deals and randomized actors. Zero means fresh random seeds.
	Seeds    engine.Seeds
	MaxTurns int
	Script   scripting.Options
}

func (o Options) seeds() engine.Seeds {
	if o.Seeds == (engine.Seeds{}) {
		return engine.RandomSeeds()
	}
	return o.Seeds
}

// MatchResult is the outcome of a single match.
type MatchResult struct {
	Game    string                 `json:"game"`
	Actors  []string               `json:"actors"`
	Outcome arena.TwoPlayerOutcome `json:"outcome"`
	Winner  string                 `json:"winner,omitempty"`
	Detail  any                    `json:"detail,omitempty"`
}

// Game is a type-erased catalog entry.
type Game interface {
	Spec() Spec
	Match(ctx context.Context, entrants []Entrant, opts Options) (*MatchResult, error)
	Tournament(ctx context.Context, entrants []Entrant, repetitions int, cfg arena.Config, opts Options) (*arena.Ranking, error)
}

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Game)
)

// Register adds a game to the catalog, replacing any entry with the same id.
func Register(game Game) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[game.Spec().ID] = game
}

// Get retrieves a game by id.
func Get(id string) (Game, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	game, ok := registry[id]
	return game, ok
}

// Find is Get with an error suitable for returning to callers.
func Find(id string) (Game, error) {
	game, ok := Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrGameNotFound, id)
	}
	return game, nil
}

// List returns all registered specs ordered by id.
func List() []Spec {
	registryMu.RLock()
	defer registryMu.RUnlock()
	specs := make([]Spec, 0, len(registry))
	for _, g := range registry {
		specs = append(specs, g.Spec())
	}
	sort.Slice(specs, func(i, j int) bool { return specs[i].ID < specs[j].ID })
	return specs
}
