package rps

import (
	"context"
	"errors"
	"testing"

	"github.com/MJE43/game-arena/internal/arena"
	"github.com/MJE43/game-arena/internal/engine"
)

func TestPayoff(t *testing.T) {
	tests := []struct {
		one, two Choice
		want     arena.TwoPlayerOutcome
	}{
		{Rock, Scissors, arena.FirstWins},
		{Scissors, Paper, arena.FirstWins},
		{Paper, Rock, arena.FirstWins},
		{Rock, Paper, arena.SecondWins},
		{Paper, Scissors, arena.SecondWins},
		{Scissors, Rock, arena.SecondWins},
		{Rock, Rock, arena.Draw},
		{Paper, Paper, arena.Draw},
		{Scissors, Scissors, arena.Draw},
	}

	for _, tt := range tests {
		t.Run(tt.one.String()+"_vs_"+tt.two.String(), func(t *testing.T) {
			var one, two Actor = NewFixed(tt.one), NewFixed(tt.two)
			got, err := arena.Play(context.Background(), Factory, one, two)
			if err != nil {
				t.Fatalf("Play failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestNextOrder(t *testing.T) {
	g := New()
	if g.Next() != One {
		t.Fatalf("Fresh game should start with player one, got %v", g.Next())
	}
	if _, done := g.Outcome(); done {
		t.Fatal("Fresh game must not be over")
	}
	if err := g.Apply(Rock, One); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if g.Next() != Two {
		t.Fatalf("Expected player two after one chose, got %v", g.Next())
	}
	if err := g.Apply(Paper, Two); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if out, done := g.Outcome(); !done || out != arena.SecondWins {
		t.Errorf("Expected second_wins, got %v (done=%v)", out, done)
	}

	if New().Next() != One {
		t.Error("A new game must restart from player one")
	}
}

func TestApplyRejects(t *testing.T) {
	tests := []struct {
		name   string
		setup  []Choice
		player Player
		choice Choice
	}{
		{name: "rechoose", setup: []Choice{Rock}, player: One, choice: Paper},
		{name: "zero choice", player: One, choice: 0},
		{name: "unknown choice", player: Two, choice: 9},
		{name: "unknown player", player: 5, choice: Rock},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New()
			for _, c := range tt.setup {
				if err := g.Apply(c, g.Next()); err != nil {
					t.Fatalf("setup Apply failed: %v", err)
				}
			}
			before := *g
			err := g.Apply(tt.choice, tt.player)
			if !arena.IsInvalidAction(err) {
				t.Fatalf("Expected invalid action, got %v", err)
			}
			var iae *arena.InvalidActionError[Player, Choice, View]
			if !errors.As(err, &iae) || iae.Player != tt.player || iae.Action != tt.choice {
				t.Errorf("Error does not carry player and action: %v", err)
			}
			if *g != before {
				t.Error("Rejected action changed the state")
			}
		})
	}
}

func TestTournamentScenario(t *testing.T) {
	actors := []Actor{NewFixed(Rock), NewFixed(Paper)}
	tour, err := arena.NewTournament(Factory, actors, arena.Config{Workers: 2, BatchSize: 3})
	if err != nil {
		t.Fatalf("NewTournament failed: %v", err)
	}
	m, err := tour.Run(context.Background(), 4)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	want := map[[2]int]arena.OutcomeStats{
		{0, 0}: arena.NewOutcomeStats(0, 0, 4),
		{0, 1}: arena.NewOutcomeStats(0, 4, 0),
		{1, 0}: arena.NewOutcomeStats(4, 0, 0),
		{1, 1}: arena.NewOutcomeStats(0, 0, 4),
	}
	for cell, stats := range want {
		if got := m.At(cell[0], cell[1]); got != stats {
			t.Errorf("Cell %v: expected %+v, got %+v", cell, stats, got)
		}
	}

	r, err := arena.Rank(tour.Names(), m)
	if err != nil {
		t.Fatalf("Rank failed: %v", err)
	}
	if r.Names[0] != "Rock" || r.Names[1] != "Paper" {
		t.Errorf("Expected Rock ranked below Paper, got %v", r.Names)
	}
}

func TestRosterTournament(t *testing.T) {
	ranking, err := arena.RunTournament(context.Background(), Factory, Roster(engine.Seeds{Server: "roster", Client: "test"}), 30, arena.Config{})
	if err != nil {
		t.Fatalf("RunTournament failed: %v", err)
	}
	if len(ranking.Names) != 5 {
		t.Fatalf("Expected 5 ranked actors, got %v", ranking.Names)
	}
	for r := 0; r < 5; r++ {
		for c := 0; c < 5; c++ {
			if total := ranking.Matrix.At(r, c).Total(); total != 30 {
				t.Errorf("Cell (%d,%d) holds %d games, want 30", r, c, total)
			}
		}
	}
}

func TestRandomClonesDiverge(t *testing.T) {
	root := NewRandom(engine.Seeds{Server: "random", Client: "clones"})
	a, b := root.Clone(), root.Clone()

	same := true
	for i := 0; i < 20; i++ {
		ca, _ := a.Decide(View{})
		cb, _ := b.Decide(View{})
		if !ca.Valid() || !cb.Valid() {
			t.Fatalf("Random produced invalid choices %v %v", ca, cb)
		}
		if ca != cb {
			same = false
		}
	}
	if same {
		t.Error("Two clones produced identical sequences")
	}
}

func TestRandomCloneAtIsKeyedByNonce(t *testing.T) {
	root := NewRandom(engine.Seeds{Server: "random", Client: "nonce"})
	root.Clone() // advances the call-order counter only
	a, b, c := root.CloneAt(7), root.CloneAt(7), root.CloneAt(8)

	sameAB, sameAC := true, true
	for i := 0; i < 20; i++ {
		ca, _ := a.Decide(View{})
		cb, _ := b.Decide(View{})
		cc, _ := c.Decide(View{})
		sameAB = sameAB && ca == cb
		sameAC = sameAC && ca == cc
	}
	if !sameAB {
		t.Error("Clones at the same nonce diverged")
	}
	if sameAC {
		t.Error("Clones at different nonces produced identical sequences")
	}
}

func TestCycle(t *testing.T) {
	c := NewCycle()
	want := []Choice{Rock, Paper, Scissors, Rock}
	for i, w := range want {
		got, _ := c.Decide(View{})
		if got != w {
			t.Fatalf("Decision %d: expected %v, got %v", i, w, got)
		}
	}

	clone := c.Clone()
	if got, _ := clone.Decide(View{}); got != Paper {
		t.Errorf("Clone should continue from Paper, got %v", got)
	}
	if got, _ := c.Decide(View{}); got != Paper {
		t.Errorf("Original should be unaffected by its clone, got %v", got)
	}
}

func TestParseChoice(t *testing.T) {
	tests := []struct {
		in      string
		want    Choice
		wantErr bool
	}{
		{in: "Rock", want: Rock},
		{in: "paper", want: Paper},
		{in: " SCISSORS ", want: Scissors},
		{in: "lizard", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseChoice(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseChoice(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseChoice(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestLookup(t *testing.T) {
	seeds := engine.Seeds{Server: "a", Client: "b"}
	a, err := Lookup("Scissors", seeds)
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if c, _ := a.Decide(View{}); c != Scissors {
		t.Errorf("Expected Scissors, got %v", c)
	}
	if _, err := Lookup("Lizard", seeds); err == nil {
		t.Error("Expected an error for an unknown actor")
	}
}
