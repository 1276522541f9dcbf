package arena

import (
	"context"
	"fmt"
	"io"
	"log"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"
)

// Config tunes how a tournament is executed. Zero values pick defaults.
type Config struct {
	// Workers bounds the number of matches running at once.
	Workers int
	// BatchSize is the number of repetitions of one cell handled per job.
	BatchSize int
	// MaxTurns aborts any single match that runs longer. Zero means no limit.
	MaxTurns int
	Logger   *log.Logger
}

const defaultBatchSize = 64

func (c Config) withDefaults() Config {
	if c.Workers <= 0 {
		c.Workers = runtime.GOMAXPROCS(0)
	}
	if c.BatchSize <= 0 {
		c.BatchSize = defaultBatchSize
	}
	if c.Logger == nil {
		c.Logger = log.New(io.Discard, "", 0)
	}
	return c
}

// Tournament plays every ordered pair of actors, including each actor
// against itself, a fixed number of times.
type Tournament[P PlayerID, A, V any, O TwoPlayerResult] struct {
	newGame IndexedFactory[P, A, V, O]
	actors  []Actor[V, A]
	cfg     Config
}

// NewTournament validates the entry list. Actor names must be unique.
func NewTournament[P PlayerID, A, V any, O TwoPlayerResult](newGame Factory[P, A, V, O], actors []Actor[V, A], cfg Config) (*Tournament[P, A, V, O], error) {
	return NewIndexedTournament(Indexed(newGame), actors, cfg)
}

// NewIndexedTournament is NewTournament for games built from their position
// in the sweep. Match (row, col, rep) of an N-actor, R-repetition sweep gets
// index (row*N+col)*R+rep, and seat s of that match clones SeededActors
// with nonce 2*index+s.
func NewIndexedTournament[P PlayerID, A, V any, O TwoPlayerResult](newGame IndexedFactory[P, A, V, O], actors []Actor[V, A], cfg Config) (*Tournament[P, A, V, O], error) {
	if len(actors) == 0 {
		return nil, ErrNoActors
	}
	if players := newGame(0).Players(); players != 2 {
		return nil, fmt.Errorf("%w: game seats %d", ErrNotTwoPlayer, players)
	}
	names := make([]string, len(actors))
	for i, a := range actors {
		names[i] = a.Name()
	}
	if err := checkUniqueNames(names); err != nil {
		return nil, err
	}
	return &Tournament[P, A, V, O]{
		newGame: newGame,
		actors:  actors,
		cfg:     cfg.withDefaults(),
	}, nil
}

// Names returns the actor names in entry order.
func (t *Tournament[P, A, V, O]) Names() []string {
	names := make([]string, len(t.actors))
	for i, a := range t.actors {
		names[i] = a.Name()
	}
	return names
}

// cellJob is a contiguous run of repetitions for one matrix cell.
type cellJob struct {
	row, col int
	first    int
	count    int
	// base is the sweep index of repetition first.
	base uint64
}

// Run plays all N²×repetitions matches and returns the statistics matrix in
// entry order. The first failure cancels the sweep and no matrix is returned.
func (t *Tournament[P, A, V, O]) Run(ctx context.Context, repetitions int) (*StatsMatrix, error) {
	if repetitions < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidRepetitions, repetitions)
	}

	start := time.Now()
	n := len(t.actors)
	matrix := NewStatsMatrix(n)
	t.cfg.Logger.Printf(
		"tournament_start actors=%d repetitions=%d matches=%d workers=%d batch_size=%d",
		n, repetitions, n*n*repetitions, t.cfg.Workers, t.cfg.BatchSize,
	)

	g, gctx := errgroup.WithContext(ctx)
	jobs := make(chan cellJob, t.cfg.Workers*2)

	g.Go(func() error {
		defer close(jobs)
		for row := 0; row < n; row++ {
			for col := 0; col < n; col++ {
				for first := 0; first < repetitions; first += t.cfg.BatchSize {
					job := cellJob{
						row:   row,
						col:   col,
						first: first,
						count: min(t.cfg.BatchSize, repetitions-first),
						base:  uint64((row*n+col)*repetitions + first),
					}
					select {
					case jobs <- job:
					case <-gctx.Done():
						return gctx.Err()
					}
				}
			}
		}
		return nil
	})

	for w := 0; w < t.cfg.Workers; w++ {
		g.Go(func() error {
			for job := range jobs {
				if err := t.runJob(gctx, matrix, job); err != nil {
					return err
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		t.cfg.Logger.Printf("tournament_aborted duration=%v error=%q", time.Since(start), err.Error())
		return nil, err
	}

	t.cfg.Logger.Printf("tournament_complete actors=%d repetitions=%d duration=%v", n, repetitions, time.Since(start))
	return matrix, nil
}

// runJob plays one batch with fresh games and fresh clones per repetition,
// then folds the batch into its cell.
func (t *Tournament[P, A, V, O]) runJob(ctx context.Context, matrix *StatsMatrix, job cellJob) error {
	first, second := t.actors[job.row], t.actors[job.col]
	fail := func(rep int, err error) error {
		return &TournamentError{
			Row:        job.row,
			Col:        job.col,
			First:      first.Name(),
			Second:     second.Name(),
			Repetition: rep,
			Err:        err,
		}
	}

	var local OutcomeStats
	for rep := job.first; rep < job.first+job.count; rep++ {
		index := job.base + uint64(rep-job.first)
		match, err := NewMatch(t.newGame.At(index), cloneAt(first, index, 0), cloneAt(second, index, 1))
		if err != nil {
			return fail(rep, err)
		}
		outcome, err := match.LimitTurns(t.cfg.MaxTurns).Play(ctx)
		if err != nil {
			return fail(rep, err)
		}
		if !local.record(outcome.TwoPlayer()) {
			return fail(rep, fmt.Errorf("%w: %v", ErrUnclassifiedOutcome, outcome))
		}
	}

	matrix.cell(job.row, job.col).merge(local)
	return nil
}

// RunTournament plays a full round robin and ranks the result.
func RunTournament[P PlayerID, A, V any, O TwoPlayerResult](ctx context.Context, newGame Factory[P, A, V, O], actors []Actor[V, A], repetitions int, cfg Config) (*Ranking, error) {
	return RunIndexedTournament(ctx, Indexed(newGame), actors, repetitions, cfg)
}

// RunIndexedTournament is RunTournament for an IndexedFactory.
func RunIndexedTournament[P PlayerID, A, V any, O TwoPlayerResult](ctx context.Context, newGame IndexedFactory[P, A, V, O], actors []Actor[V, A], repetitions int, cfg Config) (*Ranking, error) {
	t, err := NewIndexedTournament(newGame, actors, cfg)
	if err != nil {
		return nil, err
	}
	matrix, err := t.Run(ctx, repetitions)
	if err != nil {
		return nil, err
	}
	return Rank(t.Names(), matrix)
}
