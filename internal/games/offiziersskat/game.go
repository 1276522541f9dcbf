// Package offiziersskat is a two-player skat variant played from open
// stacks. Each player holds eight stacks of a face-down card under a
// face-up card. Player one picks trump from four visible cards, then
// sixteen tricks are played; more than 60 of the 120 card points wins.
package offiziersskat

import (
	"github.com/MJE43/game-arena/internal/arena"
	"github.com/MJE43/game-arena/internal/engine"
)

const (
	stacks       = 8
	totalTricks  = 16
	winningScore = 61
)

type pile struct {
	top, under Card
	cards      uint8
}

func (p *pile) take() Card {
	c := p.top
	p.cards--
	if p.cards == 1 {
		p.top = p.under
	}
	return c
}

// Trick is a completed trick.
type Trick struct {
	Leader Player `json:"leader"`
	Lead   Card   `json:"lead"`
	Follow Card   `json:"follow"`
	Winner Player `json:"winner"`
	Points int    `json:"points"`
}

// Game is a single deal. The zero value is not usable; build one with New,
// NewSeeded or NewDealt.
type Game struct {
	phase  Phase
	trump  Trump
	piles  [2][stacks]pile
	scores [2]int
	next   Player
	lead   *Card
	tricks []Trick
}

type outcome = arena.TwoPlayerOutcome

// New deals from fresh random seeds.
func New() *Game {
	return NewSeeded(engine.RandomSeeds(), 0)
}

// NewSeeded deals deterministically from seeds and nonce.
func NewSeeded(seeds engine.Seeds, nonce uint64) *Game {
	deck := Deck()
	var shuffled [32]Card
	for i, idx := range engine.Permutation(len(deck), seeds, nonce) {
		shuffled[i] = deck[idx]
	}
	return NewDealt(shuffled)
}

// NewDealt deals cards in order: player one's face-down cards for stacks
// 0-7, then player one's face-up cards, then the same for player two.
func NewDealt(cards [32]Card) *Game {
	g := &Game{phase: PhaseSelectTrump, tricks: make([]Trick, 0, totalTricks)}
	for p := 0; p < 2; p++ {
		for s := 0; s < stacks; s++ {
			g.piles[p][s] = pile{
				under: cards[p*16+s],
				top:   cards[p*16+stacks+s],
				cards: 2,
			}
		}
	}
	return g
}

// Factory deals every game from fresh random seeds.
var Factory arena.Factory[Player, Action, View, outcome] = func() arena.Game[Player, Action, View, outcome] {
	return New()
}

// SeededFactory deals reproducible games: the game at index n uses nonce n.
func SeededFactory(seeds engine.Seeds) arena.IndexedFactory[Player, Action, View, outcome] {
	return func(index uint64) arena.Game[Player, Action, View, outcome] {
		return NewSeeded(seeds, index)
	}
}

func (g *Game) Players() int { return 2 }

// Next is player one while trump is open, afterwards whoever must play to
// the current trick.
func (g *Game) Next() Player {
	if g.phase == PhaseSelectTrump {
		return One
	}
	return g.next
}

func (g *Game) Apply(action Action, player Player) error {
	if player > Two {
		return arena.NewInvalidAction(player, action, View(nil), "no such player")
	}
	reject := func(format string, args ...any) error {
		return arena.NewInvalidAction(player, action, g.ViewFor(player), format, args...)
	}
	if g.phase == PhaseOver {
		return reject("game is over")
	}
	if player != g.Next() {
		return reject("not player %s's turn", player)
	}

	switch a := action.(type) {
	case ChooseTrump:
		if g.phase != PhaseSelectTrump {
			return reject("trump already chosen")
		}
		if !a.Trump.Valid() {
			return reject("unknown trump %d", a.Trump)
		}
		g.trump = a.Trump
		g.phase = PhasePlay
		g.next = One
		return nil

	case PlayStack:
		if g.phase != PhasePlay {
			return reject("trump not chosen yet")
		}
		if a.Stack < 0 || a.Stack >= stacks {
			return reject("stack %d out of range", a.Stack)
		}
		if g.piles[player][a.Stack].cards == 0 {
			return reject("stack %d is empty", a.Stack)
		}
		if !g.isLegal(player, a.Stack) {
			return reject("must follow %s", *g.lead)
		}
		g.play(player, a.Stack)
		return nil

	default:
		return reject("unsupported action %T", action)
	}
}

func (g *Game) isLegal(player Player, stack int) bool {
	for _, s := range legalStacks(g.tops(player), g.lead, g.trump) {
		if s == stack {
			return true
		}
	}
	return false
}

func (g *Game) play(player Player, stack int) {
	card := g.piles[player][stack].take()
	if g.lead == nil {
		g.lead = &card
		g.next = player.Other()
		return
	}

	leader := player.Other()
	trick := Trick{Leader: leader, Lead: *g.lead, Follow: card, Winner: leader}
	if g.trump.Beats(card, *g.lead) {
		trick.Winner = player
	}
	trick.Points = trick.Lead.Points() + trick.Follow.Points()
	g.scores[trick.Winner] += trick.Points
	g.tricks = append(g.tricks, trick)

	g.lead = nil
	g.next = trick.Winner
	if len(g.tricks) == totalTricks {
		g.phase = PhaseOver
	}
}

func (g *Game) tops(player Player) [stacks]*Card {
	var tops [stacks]*Card
	for i := range g.piles[player] {
		if p := g.piles[player][i]; p.cards > 0 {
			top := p.top
			tops[i] = &top
		}
	}
	return tops
}

func (g *Game) stackViews(player Player) [stacks]StackView {
	var views [stacks]StackView
	tops := g.tops(player)
	for i := range views {
		views[i] = StackView{Top: tops[i], FaceDown: g.piles[player][i].cards == 2}
	}
	return views
}

func (g *Game) ViewFor(player Player) View {
	if g.phase == PhaseSelectTrump {
		if player != One {
			return SelectTrumpView{}
		}
		cards := make([]Card, 4)
		for i := range cards {
			cards[i] = g.piles[One][i].top
		}
		return SelectTrumpView{Cards: cards}
	}

	v := PlayView{
		Player:        player,
		Trump:         g.trump,
		Trick:         len(g.tricks) + 1,
		Own:           g.stackViews(player),
		Opponent:      g.stackViews(player.Other()),
		Score:         g.scores[player],
		OpponentScore: g.scores[player.Other()],
	}
	if g.lead != nil {
		lead := *g.lead
		v.Lead = &lead
	}
	return v
}

func (g *Game) Outcome() (outcome, bool) {
	if g.phase != PhaseOver {
		return 0, false
	}
	switch {
	case g.scores[One] >= winningScore:
		return arena.FirstWins, true
	case g.scores[Two] >= winningScore:
		return arena.SecondWins, true
	default:
		return arena.Draw, true
	}
}

// Summary describes a game's progress for reports.
type Summary struct {
	Phase  Phase   `json:"phase"`
	Trump  Trump   `json:"trump"`
	Scores [2]int  `json:"scores"`
	Tricks []Trick `json:"tricks"`
}

func (g *Game) Summary() Summary {
	return Summary{
		Phase:  g.phase,
		Trump:  g.trump,
		Scores: g.scores,
		Tricks: append([]Trick(nil), g.tricks...),
	}
}
