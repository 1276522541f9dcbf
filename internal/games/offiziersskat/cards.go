package offiziersskat

import (
	"fmt"
	"strings"
)

// Suit in ascending jack strength: the jack of clubs is the highest trump.
type Suit uint8

const (
	Diamonds Suit = iota
	Hearts
	Spades
	Clubs
)

var suitNames = [...]string{"diamonds", "hearts", "spades", "clubs"}
var suitSymbols = [...]string{"♦", "♥", "♠", "♣"}

func (s Suit) String() string {
	if int(s) < len(suitNames) {
		return suitNames[s]
	}
	return fmt.Sprintf("Suit(%d)", uint8(s))
}

func (s Suit) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Rank in plain trick-taking order, Seven lowest and Ace highest. Jacks are
// always trump and are ordered by suit instead.
type Rank uint8

const (
	Seven Rank = iota
	Eight
	Nine
	Queen
	King
	Ten
	Ace
	Jack
)

var rankNames = [...]string{"7", "8", "9", "Q", "K", "10", "A", "J"}

func (r Rank) String() string {
	if int(r) < len(rankNames) {
		return rankNames[r]
	}
	return fmt.Sprintf("Rank(%d)", uint8(r))
}

func (r Rank) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// Points is the card value counted toward the 120 in the deck.
func (r Rank) Points() int {
	switch r {
	case Ace:
		return 11
	case Ten:
		return 10
	case King:
		return 4
	case Queen:
		return 3
	case Jack:
		return 2
	default:
		return 0
	}
}

// Card is one of the 32 skat cards.
type Card struct {
	Suit Suit `json:"suit"`
	Rank Rank `json:"rank"`
}

// String returns a short form like "♣J" or "♥10".
func (c Card) String() string {
	return suitSymbols[c.Suit%4] + c.Rank.String()
}

func (c Card) Points() int {
	return c.Rank.Points()
}

// Deck returns the 32 cards ordered by suit, then rank.
func Deck() [32]Card {
	var deck [32]Card
	i := 0
	for s := Diamonds; s <= Clubs; s++ {
		for r := Seven; r <= Jack; r++ {
			deck[i] = Card{Suit: s, Rank: r}
			i++
		}
	}
	return deck
}

// Trump is the contract chosen before play. The zero value means none has
// been chosen yet.
type Trump uint8

const (
	TrumpDiamonds Trump = iota + 1
	TrumpHearts
	TrumpSpades
	TrumpClubs
	// Grand makes only the jacks trump.
	Grand
)

// SuitTrump returns the contract naming s as trump.
func SuitTrump(s Suit) Trump {
	return Trump(s) + TrumpDiamonds
}

// Suit returns the trump suit. ok is false for Grand and the zero value.
func (t Trump) Suit() (s Suit, ok bool) {
	if t >= TrumpDiamonds && t <= TrumpClubs {
		return Suit(t - TrumpDiamonds), true
	}
	return 0, false
}

func (t Trump) Valid() bool {
	return t >= TrumpDiamonds && t <= Grand
}

func (t Trump) String() string {
	if t == Grand {
		return "grand"
	}
	if s, ok := t.Suit(); ok {
		return s.String()
	}
	return "none"
}

func (t Trump) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *Trump) UnmarshalText(text []byte) error {
	parsed, err := ParseTrump(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ParseTrump accepts "grand" or a suit name, case-insensitively.
func ParseTrump(s string) (Trump, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "grand" {
		return Grand, nil
	}
	for i, suit := range suitNames {
		if name == suit {
			return SuitTrump(Suit(i)), nil
		}
	}
	return 0, fmt.Errorf("offiziersskat: unknown trump %q", s)
}

// IsTrump reports whether c belongs to the trump group.
func (t Trump) IsTrump(c Card) bool {
	if c.Rank == Jack {
		return true
	}
	s, ok := t.Suit()
	return ok && c.Suit == s
}

// follows reports whether c answers a trick led with led.
func (t Trump) follows(c, led Card) bool {
	if t.IsTrump(led) {
		return t.IsTrump(c)
	}
	return !t.IsTrump(c) && c.Suit == led.Suit
}

// Beats reports whether follow takes a trick led with led.
func (t Trump) Beats(follow, led Card) bool {
	ft, lt := t.IsTrump(follow), t.IsTrump(led)
	switch {
	case ft && !lt:
		return true
	case lt && !ft:
		return false
	case ft && lt:
		return trumpStrength(follow) > trumpStrength(led)
	default:
		return follow.Suit == led.Suit && follow.Rank > led.Rank
	}
}

func trumpStrength(c Card) int {
	if c.Rank == Jack {
		return int(Jack) + 1 + int(c.Suit)
	}
	return int(c.Rank)
}

// sortKey orders cards cheapest first: points, then strength.
func (t Trump) sortKey(c Card) int {
	key := c.Points() * 100
	if t.IsTrump(c) {
		key += 50 + trumpStrength(c)
	} else {
		key += int(c.Rank)
	}
	return key
}
