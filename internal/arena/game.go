// Package arena runs turn-based games between interchangeable actors and
// aggregates repeated round-robin matchups into rankable statistics.
package arena

// PlayerID identifies one player slot of a game. Index must be in
// [0, Players()) for every id a game yields.
type PlayerID interface {
	comparable
	Index() int
}

// Game is one in-progress game instance. A Game is owned by a single Match
// and is never shared between goroutines.
type Game[P PlayerID, A, V, O any] interface {
	// Players returns the fixed number of player slots for this game type.
	Players() int

	// Next returns the player expected to act. A freshly constructed game
	// starts from the game's initial player.
	Next() P

	// Apply validates action for player and mutates the state. A rejected
	// action leaves the state untouched and returns *InvalidActionError.
	Apply(action A, player P) error

	// ViewFor returns what player is allowed to see of the current state.
	ViewFor(player P) V

	// Outcome reports the terminal result once the game has concluded.
	Outcome() (O, bool)
}

// Factory builds a game in its canonical initial state.
type Factory[P PlayerID, A, V, O any] func() Game[P, A, V, O]

// Actor turns views into actions. Implementations may keep private memory
// between decisions but must not share it with their clones.
type Actor[V, A any] interface {
	Decide(view V) (A, error)
	Clone() Actor[V, A]
	Name() string
}

// IndexedFactory builds the game for the match at a fixed position in a
// tournament sweep. Seeded games derive their randomness from index so a
// sweep replays identically however its matches are scheduled.
type IndexedFactory[P PlayerID, A, V, O any] func(index uint64) Game[P, A, V, O]

// Indexed adapts a Factory that needs no match index.
func Indexed[P PlayerID, A, V, O any](newGame Factory[P, A, V, O]) IndexedFactory[P, A, V, O] {
	return func(uint64) Game[P, A, V, O] { return newGame() }
}

// At fixes the index, for running a single match.
func (f IndexedFactory[P, A, V, O]) At(index uint64) Factory[P, A, V, O] {
	return func() Game[P, A, V, O] { return f(index) }
}

// SeededActor is an Actor whose randomness is keyed by a nonce. Tournaments
// call CloneAt with a nonce unique to the match and seat instead of Clone.
type SeededActor[V, A any] interface {
	Actor[V, A]
	CloneAt(nonce uint64) Actor[V, A]
}

// cloneAt clones a for one seat of the match at index.
func cloneAt[V, A any](a Actor[V, A], index uint64, seat int) Actor[V, A] {
	if s, ok := a.(SeededActor[V, A]); ok {
		return s.CloneAt(2*index + uint64(seat))
	}
	return a.Clone()
}
