package rps

import (
	"fmt"
	"sync/atomic"

	"github.com/MJE43/game-arena/internal/arena"
	"github.com/MJE43/game-arena/internal/engine"
)

// Actor is an rps strategy.
type Actor = arena.Actor[View, Choice]

// Fixed always plays the same move.
type Fixed struct {
	choice Choice
}

func NewFixed(c Choice) *Fixed {
	return &Fixed{choice: c}
}

func (f *Fixed) Decide(View) (Choice, error) { return f.choice, nil }
func (f *Fixed) Clone() Actor { return f }
func (f *Fixed) Name() string { return f.choice.String() }

// Random draws every move from a seeded stream. Each clone reads its own
// nonce so repeated matches do not replay the same sequence.
type Random struct {
	seeds  engine.Seeds
	nonces *atomic.Uint64
	stream *engine.Stream
}

func NewRandom(seeds engine.Seeds) *Random {
	r := &Random{seeds: seeds, nonces: new(atomic.Uint64)}
	r.stream = engine.NewStream(seeds, 0)
	return r
}

func (r *Random) Decide(View) (Choice, error) {
	return Choice(r.stream.Intn(3)) + Rock, nil
}

// Clone starts the next stream in call order. Tournaments use CloneAt.
func (r *Random) Clone() Actor {
	return r.CloneAt(r.nonces.Add(1))
}

func (r *Random) CloneAt(nonce uint64) Actor {
	return &Random{
		seeds:  r.seeds,
		nonces: r.nonces,
		stream: engine.NewStream(r.seeds, nonce),
	}
}

func (r *Random) Name() string { return "Random" }

// Cycle plays Rock, Paper, Scissors, Rock, ... across its decisions.
type Cycle struct {
	next Choice
}

func NewCycle() *Cycle {
	return &Cycle{next: Rock}
}

func (c *Cycle) Decide(View) (Choice, error) {
	choice := c.next
	c.next = c.next%Scissors + 1
	return choice, nil
}

func (c *Cycle) Clone() Actor {
	clone := *c
	return &clone
}

func (c *Cycle) Name() string { return "Cycle" }

// Roster returns the built-in strategies in a stable order.
func Roster(seeds engine.Seeds) []Actor {
	return []Actor{
		NewFixed(Rock),
		NewFixed(Paper),
		NewFixed(Scissors),
		NewRandom(seeds),
		NewCycle(),
	}
}

// Lookup returns the built-in strategy with the given name.
func Lookup(name string, seeds engine.Seeds) (Actor, error) {
	for _, a := range Roster(seeds) {
		if a.Name() == name {
			return a, nil
		}
	}
	return nil, fmt.Errorf("rps: no actor named %q", name)
}
