package arena

import (
	"encoding/json"
	"errors"
	"reflect"
	"sort"
	"testing"
)

// sampleMatrix: "weak" loses every decisive game, "strong" edges out "mid"
// only through the self-play cells.
func sampleMatrix() ([]string, *StatsMatrix) {
	names := []string{"strong", "weak", "mid"}
	m := NewStatsMatrix(3)
	m.Set(0, 0, NewOutcomeStats(2, 2, 0))
	m.Set(0, 1, NewOutcomeStats(4, 0, 0))
	m.Set(0, 2, NewOutcomeStats(1, 1, 2))
	m.Set(1, 0, NewOutcomeStats(0, 4, 0))
	m.Set(1, 1, NewOutcomeStats(0, 0, 4))
	m.Set(1, 2, NewOutcomeStats(0, 3, 1))
	m.Set(2, 0, NewOutcomeStats(1, 1, 2))
	m.Set(2, 1, NewOutcomeStats(3, 0, 1))
	m.Set(2, 2, NewOutcomeStats(2, 2, 0))
	return names, m
}

func TestWeights(t *testing.T) {
	_, m := sampleMatrix()
	got := Weights(m)
	// strong: row 4+8+4 + col 4+8+4 = 32
	// weak:   row 0+4+1 + col 0+4+1 = 10
	// mid:    row 4+7+4 + col 4+7+4 = 30
	want := []uint64{32, 10, 30}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected weights %v, got %v", want, got)
	}
}

func TestRankOrdersAscendingAndPermutesMatrix(t *testing.T) {
	names, m := sampleMatrix()
	r, err := Rank(names, m)
	if err != nil {
		t.Fatalf("Rank failed: %v", err)
	}

	if want := []string{"weak", "mid", "strong"}; !reflect.DeepEqual(r.Names, want) {
		t.Fatalf("Expected order %v, got %v", want, r.Names)
	}
	if want := []int{1, 2, 0}; !reflect.DeepEqual(r.Order, want) {
		t.Errorf("Expected entry order %v, got %v", want, r.Order)
	}
	if want := []uint64{10, 30, 32}; !reflect.DeepEqual(r.Weights, want) {
		t.Errorf("Expected weights %v, got %v", want, r.Weights)
	}

	for a := range r.Order {
		for b := range r.Order {
			if got, want := r.Matrix.At(a, b), m.At(r.Order[a], r.Order[b]); got != want {
				t.Errorf("Cell (%s,%s) = %+v, want %+v", r.Names[a], r.Names[b], got, want)
			}
		}
	}
}

func TestRankIsStableAndIdempotent(t *testing.T) {
	names := []string{"c", "a", "b"}
	m := NewStatsMatrix(3)
	for i := 0; i < 3; i++ {
		m.Set(i, i, NewOutcomeStats(0, 0, 3))
	}

	first, err := Rank(names, m)
	if err != nil {
		t.Fatalf("Rank failed: %v", err)
	}
	if !reflect.DeepEqual(first.Names, names) {
		t.Errorf("Ties must keep entry order, got %v", first.Names)
	}

	second, err := Rank(names, m)
	if err != nil {
		t.Fatalf("Rank failed: %v", err)
	}
	if !reflect.DeepEqual(first.Order, second.Order) {
		t.Errorf("Ranking not deterministic: %v vs %v", first.Order, second.Order)
	}
}

func TestRankPreservesNameSet(t *testing.T) {
	names, m := sampleMatrix()
	r, err := Rank(names, m)
	if err != nil {
		t.Fatalf("Rank failed: %v", err)
	}
	in := append([]string(nil), names...)
	out := append([]string(nil), r.Names...)
	sort.Strings(in)
	sort.Strings(out)
	if !reflect.DeepEqual(in, out) {
		t.Errorf("Ranked names %v are not a permutation of %v", r.Names, names)
	}
}

func TestRankRejectsBadInput(t *testing.T) {
	_, m := sampleMatrix()

	if _, err := Rank([]string{"a", "b"}, m); !errors.Is(err, ErrMatrixSize) {
		t.Errorf("Expected ErrMatrixSize, got %v", err)
	}
	if _, err := Rank([]string{"a", "b", "a"}, m); !errors.Is(err, ErrDuplicateActorName) {
		t.Errorf("Expected ErrDuplicateActorName, got %v", err)
	}
	if _, err := Rank(nil, nil); !errors.Is(err, ErrMatrixSize) {
		t.Errorf("Expected ErrMatrixSize for nil matrix, got %v", err)
	}
}

func TestStandings(t *testing.T) {
	names, m := sampleMatrix()
	r, err := Rank(names, m)
	if err != nil {
		t.Fatalf("Rank failed: %v", err)
	}

	standings := r.Standings()
	if len(standings) != 3 {
		t.Fatalf("Expected 3 standings, got %d", len(standings))
	}
	top := standings[0]
	if top.Place != 1 || top.Name != "strong" || top.Seed != 0 || top.Weight != 32 {
		t.Errorf("Unexpected leader: %+v", top)
	}
	// strong appears in 3 row cells and 3 column cells of 4 games each.
	if top.Games != 24 {
		t.Errorf("Expected 24 games, got %d", top.Games)
	}
	if 2*top.Wins+top.Draws != top.Weight {
		t.Errorf("Weight %d disagrees with wins %d and draws %d", top.Weight, top.Wins, top.Draws)
	}
	if top.Wins+top.Losses+top.Draws != top.Games {
		t.Errorf("Results do not add up: %+v", top)
	}
	if last := standings[2]; last.Name != "weak" || last.Place != 3 {
		t.Errorf("Unexpected last place: %+v", last)
	}
}

func TestPermuteRejectsNonPermutation(t *testing.T) {
	m := NewStatsMatrix(2)
	if _, err := m.Permute([]int{0, 0}); !errors.Is(err, ErrMatrixSize) {
		t.Errorf("Expected ErrMatrixSize, got %v", err)
	}
	if _, err := m.Permute([]int{0}); !errors.Is(err, ErrMatrixSize) {
		t.Errorf("Expected ErrMatrixSize, got %v", err)
	}
}

func TestOutcomeStatsJSONRoundTrip(t *testing.T) {
	s := NewOutcomeStats(1, 2, 3)
	data, err := s.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON failed: %v", err)
	}
	if want := `{"first_wins":1,"second_wins":2,"draws":3,"total":6}`; string(data) != want {
		t.Errorf("Expected %s, got %s", want, data)
	}
	var back OutcomeStats
	if err := back.UnmarshalJSON(data); err != nil {
		t.Fatalf("UnmarshalJSON failed: %v", err)
	}
	if back != s {
		t.Errorf("Expected %+v, got %+v", s, back)
	}
}

func TestStatsMatrixJSON(t *testing.T) {
	_, m := sampleMatrix()
	data, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	var back StatsMatrix
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if !reflect.DeepEqual(back.Rows(), m.Rows()) {
		t.Errorf("Expected %v, got %v", m.Rows(), back.Rows())
	}

	if err := json.Unmarshal([]byte(`[[{"first_wins":1}],[]]`), &back); !errors.Is(err, ErrMatrixSize) {
		t.Errorf("Expected ErrMatrixSize for a ragged matrix, got %v", err)
	}
}

func TestTwoPlayerOutcomeText(t *testing.T) {
	for _, o := range []TwoPlayerOutcome{FirstWins, SecondWins, Draw} {
		text, err := o.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText(%v): %v", o, err)
		}
		var back TwoPlayerOutcome
		if err := back.UnmarshalText(text); err != nil || back != o {
			t.Errorf("UnmarshalText(%s) = %v, %v", text, back, err)
		}
	}
	var o TwoPlayerOutcome
	if err := o.UnmarshalText([]byte("unknown")); err == nil {
		t.Error("Expected an error for an unknown outcome")
	}
}
