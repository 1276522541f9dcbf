// Package rps is the two-player rock-paper-scissors game.
package rps

import (
	"fmt"
	"strings"

	"github.com/MJE43/game-arena/internal/arena"
)

// Player is a seat at the table.
type Player uint8

const (
	One Player = iota
	Two
)

func (p Player) Index() int { return int(p) }

func (p Player) String() string {
	if p == One {
		return "one"
	}
	return "two"
}

// Choice is a player's single move. The zero value is not a legal move.
type Choice uint8

const (
	Rock Choice = iota + 1
	Paper
	Scissors
)

var choiceNames = map[Choice]string{
	Rock:     "Rock",
	Paper:    "Paper",
	Scissors: "Scissors",
}

func (c Choice) String() string {
	if name, ok := choiceNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Choice(%d)", uint8(c))
}

// Valid reports whether c is one of the three moves.
func (c Choice) Valid() bool {
	return c >= Rock && c <= Scissors
}

// Beats reports whether c wins against other.
func (c Choice) Beats(other Choice) bool {
	switch c {
	case Rock:
		return other == Scissors
	case Paper:
		return other == Rock
	case Scissors:
		return other == Paper
	}
	return false
}

// ParseChoice accepts move names case-insensitively.
func ParseChoice(s string) (Choice, error) {
	for c, name := range choiceNames {
		if strings.EqualFold(strings.TrimSpace(s), name) {
			return c, nil
		}
	}
	return 0, fmt.Errorf("rps: unknown choice %q", s)
}

func (c Choice) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("rps: invalid choice %d", uint8(c))
	}
	return []byte(c.String()), nil
}

func (c *Choice) UnmarshalText(text []byte) error {
	parsed, err := ParseChoice(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// View is what a player sees before choosing: nothing. The opponent's
// choice stays hidden.
type View struct{}

// Game records at most one choice per player.
type Game struct {
	choices [2]Choice
}

// New returns a game with no choices made.
func New() *Game {
	return &Game{}
}

// Factory builds fresh games for matches and tournaments.
var Factory arena.Factory[Player, Choice, View, arena.TwoPlayerOutcome] = func() arena.Game[Player, Choice, View, arena.TwoPlayerOutcome] {
	return New()
}

func (g *Game) Players() int { return 2 }

// Next yields the first player that has not chosen yet. Once both have
// chosen the game is over and One is returned.
func (g *Game) Next() Player {
	for _, p := range []Player{One, Two} {
		if g.choices[p] == 0 {
			return p
		}
	}
	return One
}

func (g *Game) Apply(choice Choice, player Player) error {
	if player > Two {
		return arena.NewInvalidAction(player, choice, View{}, "no such player")
	}
	if !choice.Valid() {
		return arena.NewInvalidAction(player, choice, View{}, "not a move")
	}
	if g.choices[player] != 0 {
		return arena.NewInvalidAction(player, choice, View{}, "already chose %s", g.choices[player])
	}
	g.choices[player] = choice
	return nil
}

func (g *Game) ViewFor(Player) View { return View{} }

func (g *Game) Outcome() (arena.TwoPlayerOutcome, bool) {
	a, b := g.choices[One], g.choices[Two]
	if a == 0 || b == 0 {
		return 0, false
	}
	switch {
	case a.Beats(b):
		return arena.FirstWins, true
	case b.Beats(a):
		return arena.SecondWins, true
	default:
		return arena.Draw, true
	}
}

// Choices returns the moves made so far, zero for a player yet to choose.
func (g *Game) Choices() (one, two Choice) {
	return g.choices[One], g.choices[Two]
}
