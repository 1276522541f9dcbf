package store

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/MJE43/game-arena/internal/arena"
	"github.com/MJE43/game-arena/internal/engine"
)

// NewTournament builds a record from a finished ranking.
func NewTournament(game string, repetitions int, seeds engine.Seeds, r *arena.Ranking, elapsed time.Duration, engineVersion string) *Tournament {
	t := &Tournament{
		Game:           game,
		Repetitions:    repetitions,
		ActorCount:     len(r.Names),
		ServerSeedHash: computeServerHash(seeds.Server),
		ClientSeed:     seeds.Client,
		EngineVersion:  engineVersion,
		DurationMS:     elapsed.Milliseconds(),
	}
	for _, s := range r.Standings() {
		t.Standings = append(t.Standings, Standing(s))
	}
	n := r.Matrix.Size()
	for row := 0; row < n; row++ {
		for col := 0; col < n; col++ {
			c := r.Matrix.At(row, col)
			t.Cells = append(t.Cells, Cell{
				Row:        row,
				Col:        col,
				FirstWins:  c.FirstWins(),
				SecondWins: c.SecondWins(),
				Draws:      c.Draws(),
			})
		}
	}
	return t
}

// Ranking rebuilds the ranked view from a fully loaded record.
func (t *Tournament) Ranking() (*arena.Ranking, error) {
	n := len(t.Standings)
	if len(t.Cells) != n*n {
		return nil, fmt.Errorf("%w: %d cells for %d standings", arena.ErrMatrixSize, len(t.Cells), n)
	}

	r := &arena.Ranking{
		Names:   make([]string, n),
		Weights: make([]uint64, n),
		Order:   make([]int, n),
		Matrix:  arena.NewStatsMatrix(n),
	}
	for _, s := range t.Standings {
		pos := n - s.Place
		if pos < 0 || pos >= n {
			return nil, fmt.Errorf("%w: place %d of %d", arena.ErrMatrixSize, s.Place, n)
		}
		r.Names[pos] = s.Name
		r.Weights[pos] = s.Weight
		r.Order[pos] = s.Seed
	}
	for _, c := range t.Cells {
		if c.Row < 0 || c.Row >= n || c.Col < 0 || c.Col >= n {
			return nil, fmt.Errorf("%w: cell (%d,%d)", arena.ErrMatrixSize, c.Row, c.Col)
		}
		r.Matrix.Set(c.Row, c.Col, arena.NewOutcomeStats(c.FirstWins, c.SecondWins, c.Draws))
	}
	return r, nil
}

func computeServerHash(serverSeed string) string {
	if serverSeed == "" {
		return ""
	}
	hash := sha256.Sum256([]byte(serverSeed))
	return hex.EncodeToString(hash[:])
}
