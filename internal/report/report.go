// Package report turns tournament rankings into rates, ratings and
// exportable tables.
package report

import (
	"github.com/shopspring/decimal"

	"github.com/MJE43/game-arena/internal/arena"
)

// Places is the precision rates are rounded to.
const Places = 4

// WinRate is the share of decisive games won by the first-slot actor. It is
// undefined when every game in the cell was drawn or none were played.
func WinRate(s arena.OutcomeStats) (decimal.Decimal, bool) {
	decisive := s.Decisive()
	if decisive == 0 {
		return decimal.Zero, false
	}
	return ratio(s.FirstWins(), decisive), true
}

// ScoreShare is the first-slot actor's share of the available points, with
// two points per game: a win takes both, a draw splits them.
func ScoreShare(s arena.OutcomeStats) (decimal.Decimal, bool) {
	total := s.Total()
	if total == 0 {
		return decimal.Zero, false
	}
	return ratio(2*s.FirstWins()+s.Draws(), 2*total), true
}

// StandingRate is an actor's win rate over all of its decisive games.
func StandingRate(s arena.Standing) (decimal.Decimal, bool) {
	decisive := s.Wins + s.Losses
	if decisive == 0 {
		return decimal.Zero, false
	}
	return ratio(s.Wins, decisive), true
}

func ratio(num, den uint64) decimal.Decimal {
	return decimal.NewFromInt(int64(num)).DivRound(decimal.NewFromInt(int64(den)), Places)
}

// formatRate renders a rate, or an empty string when it is undefined.
func formatRate(d decimal.Decimal, ok bool) string {
	if !ok {
		return ""
	}
	return d.StringFixed(Places)
}
