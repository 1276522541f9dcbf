package arena

import (
	"encoding/json"
	"fmt"
	"sync/atomic"
)

// TwoPlayerOutcome is the canonical result of a two-player game.
type TwoPlayerOutcome uint8

const (
	FirstWins TwoPlayerOutcome = iota + 1
	SecondWins
	Draw
)

// TwoPlayer lets TwoPlayerOutcome serve directly as a game outcome.
func (o TwoPlayerOutcome) TwoPlayer() TwoPlayerOutcome {
	return o
}

func (o TwoPlayerOutcome) String() string {
	switch o {
	case FirstWins:
		return "first_wins"
	case SecondWins:
		return "second_wins"
	case Draw:
		return "draw"
	default:
		return "unknown"
	}
}

// MarshalText encodes the outcome by name.
func (o TwoPlayerOutcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText parses a name written by MarshalText.
func (o *TwoPlayerOutcome) UnmarshalText(text []byte) error {
	for _, v := range []TwoPlayerOutcome{FirstWins, SecondWins, Draw} {
		if string(text) == v.String() {
			*o = v
			return nil
		}
	}
	return fmt.Errorf("arena: unknown outcome %q", text)
}

// TwoPlayerResult is implemented by outcomes of two-player games.
type TwoPlayerResult interface {
	TwoPlayer() TwoPlayerOutcome
}

// OutcomeStats counts results for one ordered pair of actors.
type OutcomeStats struct {
	firstWins  uint64
	secondWins uint64
	draws      uint64
}

// NewOutcomeStats rebuilds stats from stored counters.
func NewOutcomeStats(firstWins, secondWins, draws uint64) OutcomeStats {
	return OutcomeStats{firstWins: firstWins, secondWins: secondWins, draws: draws}
}

func (s OutcomeStats) FirstWins() uint64 { return s.firstWins }
func (s OutcomeStats) SecondWins() uint64 { return s.secondWins }
func (s OutcomeStats) Draws() uint64 { return s.draws }

// Total is the number of games recorded.
func (s OutcomeStats) Total() uint64 {
	return s.firstWins + s.secondWins + s.draws
}

// Decisive is the number of games that were not drawn.
func (s OutcomeStats) Decisive() uint64 {
	return s.firstWins + s.secondWins
}

func (s *OutcomeStats) record(o TwoPlayerOutcome) bool {
	switch o {
	case FirstWins:
		s.firstWins++
	case SecondWins:
		s.secondWins++
	case Draw:
		s.draws++
	default:
		return false
	}
	return true
}

// merge adds other into s. Safe for concurrent callers on the same cell.
func (s *OutcomeStats) merge(other OutcomeStats) {
	atomic.AddUint64(&s.firstWins, other.firstWins)
	atomic.AddUint64(&s.secondWins, other.secondWins)
	atomic.AddUint64(&s.draws, other.draws)
}

type outcomeStatsJSON struct {
	FirstWins  uint64 `json:"first_wins"`
	SecondWins uint64 `json:"second_wins"`
	Draws      uint64 `json:"draws"`
	Total      uint64 `json:"total"`
}

func (s OutcomeStats) MarshalJSON() ([]byte, error) {
	return json.Marshal(outcomeStatsJSON{
		FirstWins:  s.firstWins,
		SecondWins: s.secondWins,
		Draws:      s.draws,
		Total:      s.Total(),
	})
}

func (s *OutcomeStats) UnmarshalJSON(data []byte) error {
	var raw outcomeStatsJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = NewOutcomeStats(raw.FirstWins, raw.SecondWins, raw.Draws)
	return nil
}

// StatsMatrix is a square row-major table of OutcomeStats. Row i, column j
// holds the games actor i played in the first slot against actor j.
type StatsMatrix struct {
	size  int
	cells []OutcomeStats
}

// NewStatsMatrix returns a zeroed n×n matrix.
func NewStatsMatrix(n int) *StatsMatrix {
	if n < 0 {
		n = 0
	}
	return &StatsMatrix{size: n, cells: make([]OutcomeStats, n*n)}
}

// Size returns the number of actors the matrix covers.
func (m *StatsMatrix) Size() int {
	return m.size
}

// At returns a copy of cell (row, col).
func (m *StatsMatrix) At(row, col int) OutcomeStats {
	return *m.cell(row, col)
}

// Set overwrites cell (row, col).
func (m *StatsMatrix) Set(row, col int, s OutcomeStats) {
	*m.cell(row, col) = s
}

func (m *StatsMatrix) cell(row, col int) *OutcomeStats {
	if row < 0 || row >= m.size || col < 0 || col >= m.size {
		panic(fmt.Sprintf("arena: cell (%d, %d) outside %d×%d matrix", row, col, m.size, m.size))
	}
	return &m.cells[row*m.size+col]
}

// Permute returns a new matrix whose row and column k are row and column
// order[k] of m.
func (m *StatsMatrix) Permute(order []int) (*StatsMatrix, error) {
	if len(order) != m.size {
		return nil, fmt.Errorf("%w: order has %d entries for %d actors", ErrMatrixSize, len(order), m.size)
	}
	seen := make([]bool, m.size)
	for _, idx := range order {
		if idx < 0 || idx >= m.size || seen[idx] {
			return nil, fmt.Errorf("%w: order is not a permutation", ErrMatrixSize)
		}
		seen[idx] = true
	}

	out := NewStatsMatrix(m.size)
	for r, src := range order {
		for c, dst := range order {
			out.Set(r, c, m.At(src, dst))
		}
	}
	return out, nil
}

// Rows returns the matrix as nested slices.
func (m *StatsMatrix) Rows() [][]OutcomeStats {
	rows := make([][]OutcomeStats, m.size)
	for r := range rows {
		rows[r] = make([]OutcomeStats, m.size)
		copy(rows[r], m.cells[r*m.size:(r+1)*m.size])
	}
	return rows
}

func (m *StatsMatrix) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.Rows())
}

func (m *StatsMatrix) UnmarshalJSON(data []byte) error {
	var rows [][]OutcomeStats
	if err := json.Unmarshal(data, &rows); err != nil {
		return err
	}
	n := len(rows)
	out := NewStatsMatrix(n)
	for r, row := range rows {
		if len(row) != n {
			return fmt.Errorf("%w: row %d has %d cells for %d actors", ErrMatrixSize, r, len(row), n)
		}
		copy(out.cells[r*n:(r+1)*n], row)
	}
	*m = *out
	return nil
}
