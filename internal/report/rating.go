package report

import (
	glicko "github.com/zelenin/go-glicko2"

	"github.com/MJE43/game-arena/internal/arena"
)

// Glicko-2 defaults for an unrated actor.
const (
	DefaultRating     = 1500
	DefaultDeviation  = 350
	DefaultVolatility = 0.06
)

// Rating is an actor's Glicko-2 estimate after one rating period.
type Rating struct {
	Name       string  `json:"name"`
	Rating     float64 `json:"rating"`
	Deviation  float64 `json:"deviation"`
	Volatility float64 `json:"volatility"`
}

// Ratings treats the whole tournament as a single Glicko-2 rating period in
// which every game of every off-diagonal cell is one match. Self-play cells
// carry no information about relative strength and are skipped. The result
// follows the ranking order.
func Ratings(r *arena.Ranking) []Rating {
	n := len(r.Names)
	players := make([]*glicko.Player, n)
	for i := range players {
		players[i] = glicko.NewPlayer(glicko.NewRating(DefaultRating, DefaultDeviation, DefaultVolatility))
	}

	period := glicko.NewRatingPeriod()
	for row := 0; row < n; row++ {
		for col := 0; col < n; col++ {
			if row == col {
				continue
			}
			s := r.Matrix.At(row, col)
			first, second := players[row], players[col]
			for k := uint64(0); k < s.FirstWins(); k++ {
				period.AddMatch(first, second, glicko.MATCH_RESULT_WIN)
			}
			for k := uint64(0); k < s.SecondWins(); k++ {
				period.AddMatch(first, second, glicko.MATCH_RESULT_LOSS)
			}
			for k := uint64(0); k < s.Draws(); k++ {
				period.AddMatch(first, second, glicko.MATCH_RESULT_DRAW)
			}
		}
	}
	period.Calculate()

	out := make([]Rating, n)
	for i, p := range players {
		rt := p.Rating()
		out[i] = Rating{
			Name:       r.Names[i],
			Rating:     rt.R(),
			Deviation:  rt.Rd(),
			Volatility: rt.Sigma(),
		}
	}
	return out
}
