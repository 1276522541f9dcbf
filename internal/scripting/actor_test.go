package scripting

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/MJE43/game-arena/internal/arena"
	"github.com/MJE43/game-arena/internal/games/rps"
)

var rpsCodec = Codec[rps.View, rps.Choice]{
	EncodeView: JSONView[rps.View],
	DecodeAction: func(raw any) (rps.Choice, error) {
		s, ok := raw.(string)
		if !ok {
			return 0, fmt.Errorf("expected a string, got %T", raw)
		}
		return rps.ParseChoice(s)
	},
}

func newRPSActor(t *testing.T, name, source string, opts Options) *Actor[rps.View, rps.Choice] {
	t.Helper()
	p, err := Compile(name, source)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	a, err := NewActor(p, rpsCodec, opts)
	if err != nil {
		t.Fatalf("NewActor failed: %v", err)
	}
	return a
}

func TestScriptDecides(t *testing.T) {
	a := newRPSActor(t, "paper.js", `function decide(view) { return "paper" }`, Options{})
	got, err := a.Decide(rps.View{})
	if err != nil {
		t.Fatalf("Decide failed: %v", err)
	}
	if got != rps.Paper {
		t.Errorf("Expected Paper, got %v", got)
	}
	if a.Name() != "paper.js" {
		t.Errorf("Expected name paper.js, got %q", a.Name())
	}
}

func TestScriptInTournament(t *testing.T) {
	script := newRPSActor(t, "scissors", `var decide = () => "Scissors";`, Options{})
	actors := []rps.Actor{rps.NewFixed(rps.Paper), script}

	ranking, err := arena.RunTournament(context.Background(), rps.Factory, actors, 5, arena.Config{Workers: 2})
	if err != nil {
		t.Fatalf("RunTournament failed: %v", err)
	}
	if ranking.Names[1] != "scissors" {
		t.Errorf("Expected the script to rank above Paper, got %v", ranking.Names)
	}
}

func TestScriptMemoryIsPerClone(t *testing.T) {
	source := `
		let moves = ["rock", "paper", "scissors"];
		let turn = 0;
		function decide(view) {
			log("turn", turn);
			return moves[turn++ % 3];
		}
	`
	a := newRPSActor(t, "cycle", source, Options{})
	for _, want := range []rps.Choice{rps.Rock, rps.Paper} {
		if got, err := a.Decide(rps.View{}); err != nil || got != want {
			t.Fatalf("Expected %v, got %v (%v)", want, got, err)
		}
	}

	clone := a.Clone()
	if got, _ := clone.Decide(rps.View{}); got != rps.Rock {
		t.Errorf("Clone should start from a fresh runtime, got %v", got)
	}
	if got, _ := a.Decide(rps.View{}); got != rps.Scissors {
		t.Errorf("Original lost its memory, got %v", got)
	}

	logs := a.Logs()
	if len(logs) != 3 || logs[2].Message != "turn 2" {
		t.Errorf("Unexpected logs: %+v", logs)
	}
	if n := len(clone.(*Actor[rps.View, rps.Choice]).Logs()); n != 1 {
		t.Errorf("Clone should only hold its own log line, got %d", n)
	}
}

func TestScriptLogBufferIsBounded(t *testing.T) {
	a := newRPSActor(t, "chatty", `function decide() { for (let i = 0; i < 10; i++) console.log(i); return "rock" }`, Options{MaxLogs: 4})
	if _, err := a.Decide(rps.View{}); err != nil {
		t.Fatalf("Decide failed: %v", err)
	}
	logs := a.Logs()
	if len(logs) != 4 || logs[0].Message != "6" {
		t.Errorf("Expected the last 4 lines, got %+v", logs)
	}
}

func TestScriptTimeout(t *testing.T) {
	a := newRPSActor(t, "spin", `
		let calls = 0;
		function decide() {
			if (calls++ === 0) { while (true) {} }
			return "rock";
		}
	`, Options{CallTimeout: 50 * time.Millisecond})

	start := time.Now()
	_, err := a.Decide(rps.View{})
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("Expected ErrTimeout, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("Timeout took %v", elapsed)
	}

	if got, err := a.Decide(rps.View{}); err != nil || got != rps.Rock {
		t.Errorf("Runtime should recover after a timeout, got %v (%v)", got, err)
	}
}

func TestScriptErrors(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		wantErr string
	}{
		{name: "no decide", source: `const x = 1;`, wantErr: "decide() function is not defined"},
		{name: "decide not a function", source: `var decide = 3;`, wantErr: "decide() function is not defined"},
		{name: "top level throws", source: `throw new Error("boom")`, wantErr: "boom"},
		{name: "require blocked", source: `const fs = require("fs"); function decide() {}`, wantErr: "script execution error"},
		{name: "eval blocked", source: `eval("1"); function decide() {}`, wantErr: "script execution error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Compile(tt.name, tt.source)
			if err != nil {
				t.Fatalf("Compile failed: %v", err)
			}
			_, err = NewActor(p, rpsCodec, Options{})
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestCompileRejectsSyntaxErrors(t *testing.T) {
	if _, err := Compile("broken", `function decide( {`); err == nil {
		t.Error("Expected a syntax error")
	}
}

func TestScriptFailureAbortsMatch(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{name: "throws", source: `function decide() { throw new Error("nope") }`},
		{name: "bad action", source: `function decide() { return "lizard" }`},
		{name: "wrong type", source: `function decide() { return 7 }`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			script := newRPSActor(t, tt.name, tt.source, Options{})
			_, err := arena.Play(context.Background(), rps.Factory, rps.Actor(rps.NewFixed(rps.Rock)), rps.Actor(script))
			if !arena.IsActorFailure(err) {
				t.Fatalf("Expected an actor failure, got %v", err)
			}
			var me *arena.MatchError
			if !errors.As(err, &me) || me.Slot != 1 || me.Actor != tt.name {
				t.Errorf("Expected failure attributed to slot 1 (%s), got %v", tt.name, err)
			}
		})
	}
}

func TestJSONView(t *testing.T) {
	type view struct {
		Turn  int      `json:"turn"`
		Cards []string `json:"cards"`
	}
	got, err := JSONView(view{Turn: 3, Cards: []string{"♥A"}})
	if err != nil {
		t.Fatalf("JSONView failed: %v", err)
	}
	m, ok := got.(map[string]any)
	if !ok || m["turn"] != float64(3) {
		t.Errorf("Unexpected encoding: %#v", got)
	}
}
