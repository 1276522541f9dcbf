// Command arena runs game tournaments from the command line and serves the
// HTTP API.
//
//	arena games
//	arena match -game rps -actors Rock,Paper
//	arena run -game offiziersskat -reps 200 -save
//	arena serve -addr :8080
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"go.uber.org/multierr"

	"github.com/MJE43/game-arena/internal/api"
	"github.com/MJE43/game-arena/internal/arena"
	"github.com/MJE43/game-arena/internal/config"
	"github.com/MJE43/game-arena/internal/engine"
	"github.com/MJE43/game-arena/internal/games"
	"github.com/MJE43/game-arena/internal/report"
	"github.com/MJE43/game-arena/internal/scripting"
	"github.com/MJE43/game-arena/internal/store"
)

var errUsage = errors.New("usage: arena <games|match|run|serve> [flags]")

func main() {
	logger := log.New(os.Stderr, "[ARENA] ", log.LstdFlags)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, logger); err != nil {
		logger.Printf("error: %v", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer, logger *log.Logger) error {
	if len(args) == 0 {
		return errUsage
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	switch args[0] {
	case "games":
		return listGames(stdout)
	case "match":
		return playMatch(ctx, cfg, args[1:], stdout)
	case "run":
		return runTournament(ctx, cfg, args[1:], stdout, logger)
	case "serve":
		return serve(ctx, cfg, args[1:], logger)
	default:
		return fmt.Errorf("unknown command %q: %w", args[0], errUsage)
	}
}

func listGames(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tSCRIPTABLE\tACTORS")
	for _, spec := range games.List() {
		fmt.Fprintf(tw, "%s\t%s\t%t\t%s\n", spec.ID, spec.Name, spec.Scriptable, strings.Join(spec.Actors, ","))
	}
	return tw.Flush()
}

// entrantFlags are shared by match and run.
type entrantFlags struct {
	game    string
	actors  string
	scripts stringList
	server  string
	client  string
}

func (e *entrantFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&e.game, "game", "rps", "game id")
	fs.StringVar(&e.actors, "actors", "", "comma-separated roster actors (default: whole roster)")
	fs.Var(&e.scripts, "script", "JavaScript actor file, entered under its base name (repeatable)")
	fs.StringVar(&e.server, "seed-server", "", "server seed (default: random)")
	fs.StringVar(&e.client, "seed-client", "", "client seed (default: random)")
}

func (e *entrantFlags) entrants() ([]games.Entrant, error) {
	var out []games.Entrant
	for _, name := range strings.Split(e.actors, ",") {
		if name = strings.TrimSpace(name); name != "" {
			out = append(out, games.Entrant{Name: name})
		}
	}
	for _, path := range e.scripts {
		src, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read script: %w", err)
		}
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		out = append(out, games.Entrant{Name: name, Script: string(src)})
	}
	return out, nil
}

func (e *entrantFlags) seeds() engine.Seeds {
	if e.server == "" && e.client == "" {
		return engine.RandomSeeds()
	}
	return engine.Seeds{Server: e.server, Client: e.client}
}

func gameOptions(cfg config.Config, seeds engine.Seeds) games.Options {
	return games.Options{
		Seeds:    seeds,
		MaxTurns: cfg.MaxTurns,
		Script:   scripting.Options{CallTimeout: cfg.ScriptTimeout},
	}
}

func playMatch(ctx context.Context, cfg config.Config, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("match", flag.ContinueOnError)
	var ef entrantFlags
	ef.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	game, err := games.Find(ef.game)
	if err != nil {
		return err
	}
	entrants, err := ef.entrants()
	if err != nil {
		return err
	}
	result, err := game.Match(ctx, entrants, gameOptions(cfg, ef.seeds()))
	if err != nil {
		return err
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func runTournament(ctx context.Context, cfg config.Config, args []string, stdout io.Writer, logger *log.Logger) (err error) {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	var ef entrantFlags
	ef.register(fs)
	reps := fs.Int("reps", 100, "repetitions per ordered pair")
	format := fs.String("format", "table", "output: table, csv, winrate or standings")
	save := fs.Bool("save", false, "store the result")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "SQLite database path for -save")
	fs.IntVar(&cfg.Workers, "workers", cfg.Workers, "concurrent matches")
	fs.IntVar(&cfg.BatchSize, "batch", cfg.BatchSize, "repetitions per job")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *reps > cfg.MaxRepetitions {
		return fmt.Errorf("%w: %d exceeds the limit of %d", arena.ErrInvalidRepetitions, *reps, cfg.MaxRepetitions)
	}

	game, err := games.Find(ef.game)
	if err != nil {
		return err
	}
	entrants, err := ef.entrants()
	if err != nil {
		return err
	}
	seeds := ef.seeds()

	tcfg := arena.Config{
		Workers:   cfg.Workers,
		BatchSize: cfg.BatchSize,
		MaxTurns:  cfg.MaxTurns,
		Logger:    logger,
	}
	start := time.Now()
	ranking, err := game.Tournament(ctx, entrants, *reps, tcfg, gameOptions(cfg, seeds))
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	switch *format {
	case "table":
		err = report.WriteTable(stdout, ranking)
	case "csv":
		err = report.WriteMatrixCSV(stdout, ranking)
	case "winrate":
		err = report.WriteWinRateCSV(stdout, ranking)
	case "standings":
		err = report.WriteStandingsCSV(stdout, ranking)
	default:
		err = fmt.Errorf("unknown format %q", *format)
	}
	if err != nil || !*save {
		return err
	}

	db, err := openStore(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, db.Close()) }()

	rec := store.NewTournament(ef.game, *reps, seeds, ranking, elapsed, api.EngineVersion)
	if err := db.SaveTournament(ctx, rec); err != nil {
		return err
	}
	logger.Printf("tournament_saved id=%s game=%s db=%s", rec.ID, rec.Game, cfg.DBPath)
	return nil
}

func openStore(ctx context.Context, path string) (*store.SQLiteDB, error) {
	db, err := store.NewSQLiteDB(path)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(ctx); err != nil {
		return nil, multierr.Append(err, db.Close())
	}
	return db, nil
}

func serve(ctx context.Context, cfg config.Config, args []string, logger *log.Logger) (err error) {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "listen address")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "SQLite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	db, err := openStore(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, db.Close()) }()

	server := api.NewServer(db, cfg)
	addr, err := server.Start(cfg.Addr)
	if err != nil {
		return err
	}
	logger.Printf("serving addr=%s db=%s games=%d", addr, cfg.DBPath, len(games.List()))

	<-ctx.Done()
	logger.Printf("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// stringList collects a repeatable flag.
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}
