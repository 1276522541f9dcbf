package arena

import (
	"fmt"
	"sort"
)

// Ranking is the tournament result reordered by ascending weight.
type Ranking struct {
	// Names are the actor names, weakest first.
	Names []string `json:"names"`
	// Weights[k] belongs to Names[k].
	Weights []uint64 `json:"weights"`
	// Order[k] is the entry index of the actor ranked at position k.
	Order  []int        `json:"order"`
	Matrix *StatsMatrix `json:"matrix"`
}

// Standing summarizes one actor's results across the whole matrix.
type Standing struct {
	// Place is 1 for the strongest actor.
	Place  int    `json:"place"`
	Name   string `json:"name"`
	Seed   int    `json:"seed"`
	Weight uint64 `json:"weight"`
	Wins   uint64 `json:"wins"`
	Losses uint64 `json:"losses"`
	Draws  uint64 `json:"draws"`
	Games  uint64 `json:"games"`
}

// Weights scores every actor as two points per win plus one per draw. An
// actor collects its row cells from the first slot and its column cells from
// the second slot, so a diagonal cell counts from both sides.
func Weights(m *StatsMatrix) []uint64 {
	n := m.Size()
	weights := make([]uint64, n)
	for row := 0; row < n; row++ {
		for col := 0; col < n; col++ {
			c := m.At(row, col)
			weights[row] += 2*c.FirstWins() + c.Draws()
			weights[col] += 2*c.SecondWins() + c.Draws()
		}
	}
	return weights
}

// Rank sorts actors by ascending weight, keeping entry order for ties, and
// permutes the matrix to match. Weights are keyed by entry index; duplicate
// names are still rejected because downstream consumers key on names.
func Rank(names []string, m *StatsMatrix) (*Ranking, error) {
	if m == nil || len(names) != m.Size() {
		return nil, fmt.Errorf("%w: %d names", ErrMatrixSize, len(names))
	}
	if err := checkUniqueNames(names); err != nil {
		return nil, err
	}

	weights := Weights(m)
	order := make([]int, len(names))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return weights[order[a]] < weights[order[b]]
	})

	permuted, err := m.Permute(order)
	if err != nil {
		return nil, err
	}

	r := &Ranking{
		Names:   make([]string, len(order)),
		Weights: make([]uint64, len(order)),
		Order:   order,
		Matrix:  permuted,
	}
	for k, idx := range order {
		r.Names[k] = names[idx]
		r.Weights[k] = weights[idx]
	}
	return r, nil
}

// Standings lists actors strongest first.
func (r *Ranking) Standings() []Standing {
	n := len(r.Names)
	out := make([]Standing, 0, n)
	for k := n - 1; k >= 0; k-- {
		s := Standing{
			Place:  n - k,
			Name:   r.Names[k],
			Seed:   r.Order[k],
			Weight: r.Weights[k],
		}
		for other := 0; other < n; other++ {
			asFirst := r.Matrix.At(k, other)
			asSecond := r.Matrix.At(other, k)
			s.Wins += asFirst.FirstWins() + asSecond.SecondWins()
			s.Losses += asFirst.SecondWins() + asSecond.FirstWins()
			s.Draws += asFirst.Draws() + asSecond.Draws()
			s.Games += asFirst.Total() + asSecond.Total()
		}
		out = append(out, s)
	}
	return out
}

func checkUniqueNames(names []string) error {
	seen := make(map[string]int, len(names))
	for i, name := range names {
		if prev, ok := seen[name]; ok {
			return fmt.Errorf("%w: %q at positions %d and %d", ErrDuplicateActorName, name, prev, i)
		}
		seen[name] = i
	}
	return nil
}
