package games

import (
	"context"
	"fmt"

	"github.com/MJE43/game-arena/internal/arena"
	"github.com/MJE43/game-arena/internal/engine"
	"github.com/MJE43/game-arena/internal/scripting"
)

// Entry adapts a concrete two-player game to the catalog.
type Entry[P arena.PlayerID, A, V any, O arena.TwoPlayerResult] struct {
	Info Spec
	// NewFactory returns the game factory for one run.
	NewFactory func(seeds engine.Seeds) arena.IndexedFactory[P, A, V, O]
	// Roster returns fresh built-in actors.
	Roster func(seeds engine.Seeds) []arena.Actor[V, A]
	// Codec enables scripted actors when both functions are set.
	Codec scripting.Codec[V, A]
	// Detail summarizes a finished game. Optional.
	Detail func(arena.Game[P, A, V, O]) any
}

func (e *Entry[P, A, V, O]) scriptable() bool {
	return e.Codec.EncodeView != nil && e.Codec.DecodeAction != nil
}

func (e *Entry[P, A, V, O]) Spec() Spec {
	spec := e.Info
	spec.Players = 2
	spec.Scriptable = e.scriptable()
	spec.Actors = nil
	for _, a := range e.Roster(engine.Seeds{}) {
		spec.Actors = append(spec.Actors, a.Name())
	}
	return spec
}

// actors resolves entrants in order. No entrants means the whole roster.
func (e *Entry[P, A, V, O]) actors(entrants []Entrant, seeds engine.Seeds, opts scripting.Options) ([]arena.Actor[V, A], error) {
	roster := e.Roster(seeds)
	if len(entrants) == 0 {
		return roster, nil
	}

	actors := make([]arena.Actor[V, A], 0, len(entrants))
	for i, ent := range entrants {
		if ent.Script != "" {
			a, err := e.scriptActor(i, ent, opts)
			if err != nil {
				return nil, err
			}
			actors = append(actors, a)
			continue
		}

		found := false
		for _, a := range roster {
			if a.Name() == ent.Name {
				actors = append(actors, a.Clone())
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("%w: %q in %s", ErrActorNotFound, ent.Name, e.Info.ID)
		}
	}
	return actors, nil
}

func (e *Entry[P, A, V, O]) scriptActor(i int, ent Entrant, opts scripting.Options) (arena.Actor[V, A], error) {
	if !e.scriptable() {
		return nil, fmt.Errorf("%w: %s", ErrNotScriptable, e.Info.ID)
	}
	name := ent.Name
	if name == "" {
		name = fmt.Sprintf("script-%d", i+1)
	}
	program, err := scripting.Compile(name, ent.Script)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrScript, err)
	}
	a, err := scripting.NewActor(program, e.Codec, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrScript, err)
	}
	return a, nil
}

func (e *Entry[P, A, V, O]) Match(ctx context.Context, entrants []Entrant, opts Options) (*MatchResult, error) {
	seeds := opts.seeds()
	actors, err := e.actors(entrants, seeds, opts.Script)
	if err != nil {
		return nil, err
	}
	m, err := arena.NewMatch(e.NewFactory(seeds).At(0), actors...)
	if err != nil {
		return nil, err
	}
	outcome, err := m.LimitTurns(opts.MaxTurns).Play(ctx)
	if err != nil {
		return nil, err
	}

	res := &MatchResult{Game: e.Info.ID, Outcome: outcome.TwoPlayer()}
	for _, a := range actors {
		res.Actors = append(res.Actors, a.Name())
	}
	switch res.Outcome {
	case arena.FirstWins:
		res.Winner = res.Actors[0]
	case arena.SecondWins:
		res.Winner = res.Actors[1]
	}
	if e.Detail != nil {
		res.Detail = e.Detail(m.Game())
	}
	return res, nil
}

func (e *Entry[P, A, V, O]) Tournament(ctx context.Context, entrants []Entrant, repetitions int, cfg arena.Config, opts Options) (*arena.Ranking, error) {
	seeds := opts.seeds()
	actors, err := e.actors(entrants, seeds, opts.Script)
	if err != nil {
		return nil, err
	}
	if cfg.MaxTurns == 0 {
		cfg.MaxTurns = opts.MaxTurns
	}
	return arena.RunIndexedTournament(ctx, e.NewFactory(seeds), actors, repetitions, cfg)
}
