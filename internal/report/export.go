package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/MJE43/game-arena/internal/arena"
)

// WriteMatrixCSV writes the ranked matrix with one "first/second/draws"
// cell per ordered pair. The header row names the second-slot actors.
func WriteMatrixCSV(w io.Writer, r *arena.Ranking) error {
	return writeGrid(w, r, func(s arena.OutcomeStats) string {
		return fmt.Sprintf("%d/%d/%d", s.FirstWins(), s.SecondWins(), s.Draws())
	})
}

// WriteWinRateCSV writes the first-slot win rate of every cell. Cells
// without a decisive game are left empty.
func WriteWinRateCSV(w io.Writer, r *arena.Ranking) error {
	return writeGrid(w, r, func(s arena.OutcomeStats) string {
		return formatRate(WinRate(s))
	})
}

func writeGrid(w io.Writer, r *arena.Ranking, cell func(arena.OutcomeStats) string) error {
	n := len(r.Names)
	if r.Matrix == nil || r.Matrix.Size() != n {
		return fmt.Errorf("%w: %d names", arena.ErrMatrixSize, n)
	}

	cw := csv.NewWriter(w)
	header := make([]string, 0, n+1)
	header = append(header, "first\\second")
	header = append(header, r.Names...)
	if err := cw.Write(header); err != nil {
		return err
	}

	record := make([]string, n+1)
	for row := 0; row < n; row++ {
		record[0] = r.Names[row]
		for col := 0; col < n; col++ {
			record[col+1] = cell(r.Matrix.At(row, col))
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

var standingsHeader = []string{"place", "name", "weight", "wins", "losses", "draws", "games", "win_rate"}

// WriteStandingsCSV writes one row per actor, strongest first.
func WriteStandingsCSV(w io.Writer, r *arena.Ranking) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(standingsHeader); err != nil {
		return err
	}
	for _, s := range r.Standings() {
		err := cw.Write([]string{
			strconv.Itoa(s.Place),
			s.Name,
			strconv.FormatUint(s.Weight, 10),
			strconv.FormatUint(s.Wins, 10),
			strconv.FormatUint(s.Losses, 10),
			strconv.FormatUint(s.Draws, 10),
			strconv.FormatUint(s.Games, 10),
			formatRate(StandingRate(s)),
		})
		if err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteTable prints the standings followed by the matrix as aligned text.
func WriteTable(w io.Writer, r *arena.Ranking) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, "#\tACTOR\tWEIGHT\tW\tL\tD\tWIN%")
	for _, s := range r.Standings() {
		rate := "-"
		if d, ok := StandingRate(s); ok {
			rate = d.Shift(2).StringFixed(1)
		}
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%d\t%d\t%s\n",
			s.Place, s.Name, s.Weight, s.Wins, s.Losses, s.Draws, rate)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	n := len(r.Names)
	if n == 0 {
		return nil
	}
	fmt.Fprintln(w)

	// Matrix rows print strongest first, like the standings.
	fmt.Fprint(tw, "1st \\ 2nd")
	for col := n - 1; col >= 0; col-- {
		fmt.Fprintf(tw, "\t%s", r.Names[col])
	}
	fmt.Fprintln(tw)
	for row := n - 1; row >= 0; row-- {
		fmt.Fprint(tw, r.Names[row])
		for col := n - 1; col >= 0; col-- {
			s := r.Matrix.At(row, col)
			fmt.Fprintf(tw, "\t%d/%d/%d", s.FirstWins(), s.SecondWins(), s.Draws())
		}
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}
