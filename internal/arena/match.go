package arena

import (
	"context"
	"fmt"
)

// Match binds one game to exactly one actor per player slot.
type Match[P PlayerID, A, V, O any] struct {
	game     Game[P, A, V, O]
	actors   []Actor[V, A]
	maxTurns int
}

// NewMatch builds a fresh game from newGame and seats actors in slot order.
// The match takes ownership of the actors; pass clones when the same
// strategy plays elsewhere.
func NewMatch[P PlayerID, A, V, O any](newGame Factory[P, A, V, O], actors ...Actor[V, A]) (*Match[P, A, V, O], error) {
	game := newGame()
	if len(actors) != game.Players() {
		return nil, fmt.Errorf("%w: game seats %d, got %d", ErrPlayerCount, game.Players(), len(actors))
	}
	return &Match[P, A, V, O]{game: game, actors: actors}, nil
}

// LimitTurns aborts Play with ErrTurnLimit after n turns. Zero disables it.
func (m *Match[P, A, V, O]) LimitTurns(n int) *Match[P, A, V, O] {
	m.maxTurns = n
	return m
}

// Game exposes the match's game, for inspection after Play returns.
func (m *Match[P, A, V, O]) Game() Game[P, A, V, O] {
	return m.game
}

// Play drives the game to a terminal outcome, one turn at a time.
func (m *Match[P, A, V, O]) Play(ctx context.Context) (O, error) {
	var zero O
	for turn := 1; ; turn++ {
		if m.maxTurns > 0 && turn > m.maxTurns {
			return zero, fmt.Errorf("%w: %d turns", ErrTurnLimit, m.maxTurns)
		}
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		player := m.game.Next()
		slot := player.Index()
		if slot < 0 || slot >= len(m.actors) {
			return zero, fmt.Errorf("%w: slot %d of %d", ErrPlayerOutOfRange, slot, len(m.actors))
		}
		actor := m.actors[slot]

		action, err := actor.Decide(m.game.ViewFor(player))
		if err != nil {
			return zero, &MatchError{
				Turn:  turn,
				Slot:  slot,
				Actor: actor.Name(),
				Err:   &ActorError{Actor: actor.Name(), Err: err},
			}
		}
		if err := m.game.Apply(action, player); err != nil {
			return zero, &MatchError{Turn: turn, Slot: slot, Actor: actor.Name(), Err: err}
		}

		if outcome, done := m.game.Outcome(); done {
			return outcome, nil
		}
	}
}

// Play runs a single match of newGame between actors.
func Play[P PlayerID, A, V, O any](ctx context.Context, newGame Factory[P, A, V, O], actors ...Actor[V, A]) (O, error) {
	m, err := NewMatch(newGame, actors...)
	if err != nil {
		var zero O
		return zero, err
	}
	return m.Play(ctx)
}
