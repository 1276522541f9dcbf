package offiziersskat

import (
	"fmt"
	"sync/atomic"

	"github.com/MJE43/game-arena/internal/arena"
	"github.com/MJE43/game-arena/internal/engine"
)

// Actor is an Offiziersskat strategy.
type Actor = arena.Actor[View, Action]

func decide(view View, trump func(SelectTrumpView) Trump, play func(PlayView) int) (Action, error) {
	switch v := view.(type) {
	case SelectTrumpView:
		return ChooseTrump{Trump: trump(v)}, nil
	case PlayView:
		return PlayStack{Stack: play(v)}, nil
	default:
		return nil, fmt.Errorf("offiziersskat: unexpected view %T", view)
	}
}

// FirstLegal names diamonds and always plays its lowest legal stack.
type FirstLegal struct{}

func (FirstLegal) Decide(view View) (Action, error) {
	return decide(view,
		func(SelectTrumpView) Trump { return TrumpDiamonds },
		func(v PlayView) int { return v.LegalStacks()[0] },
	)
}

func (f FirstLegal) Clone() Actor { return f }
func (FirstLegal) Name() string { return "FirstLegal" }

// Random picks the contract and every card uniformly.
type Random struct {
	seeds  engine.Seeds
	nonces *atomic.Uint64
	stream *engine.Stream
}

func NewRandom(seeds engine.Seeds) *Random {
	return &Random{seeds: seeds, nonces: new(atomic.Uint64), stream: engine.NewStream(seeds, 0)}
}

func (r *Random) Decide(view View) (Action, error) {
	return decide(view,
		func(SelectTrumpView) Trump { return Trump(r.stream.Intn(int(Grand))) + TrumpDiamonds },
		func(v PlayView) int {
			legal := v.LegalStacks()
			return legal[r.stream.Intn(len(legal))]
		},
	)
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

// Greedy takes a trick with its cheapest winning card and otherwise throws
// its cheapest card. As chooser it names the suit it sees most often.
type Greedy struct{}

func (Greedy) Decide(view View) (Action, error) {
	return decide(view, greedyTrump, greedyPlay)
}

func (g Greedy) Clone() Actor { return g }
func (Greedy) Name() string { return "Greedy" }

func greedyTrump(v SelectTrumpView) Trump {
	var counts [4]int
	for _, c := range v.Cards {
		if c.Rank != Jack {
			counts[c.Suit]++
		}
	}
	best, bestCount := Grand, 0
	for s := Diamonds; s <= Clubs; s++ {
		if counts[s] > bestCount {
			best, bestCount = SuitTrump(s), counts[s]
		}
	}
	return best
}

func greedyPlay(v PlayView) int {
	legal := v.LegalStacks()
	cheapest := func(stacks []int) int {
		pick := stacks[0]
		for _, s := range stacks[1:] {
			if v.Trump.sortKey(*v.Own[s].Top) < v.Trump.sortKey(*v.Own[pick].Top) {
				pick = s
			}
		}
		return pick
	}

	if v.Lead != nil {
		var winners []int
		for _, s := range legal {
			if v.Trump.Beats(*v.Own[s].Top, *v.Lead) {
				winners = append(winners, s)
			}
		}
		if len(winners) > 0 {
			return cheapest(winners)
		}
	}
	return cheapest(legal)
}

// Roster returns the built-in strategies in a stable order.
func Roster(seeds engine.Seeds) []Actor {
	return []Actor{FirstLegal{}, NewRandom(seeds), Greedy{}}
}

// Lookup returns the built-in strategy with the given name.
func Lookup(name string, seeds engine.Seeds) (Actor, error) {
	for _, a := range Roster(seeds) {
		if a.Name() == name {
			return a, nil
		}
	}
	return nil, fmt.Errorf("offiziersskat: no actor named %q", name)
}
