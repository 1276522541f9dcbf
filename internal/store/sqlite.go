package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pressly/goose/v3"
	"github.com/sethvargo/go-retry"
	"go.uber.org/multierr"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// SQLiteDB implements the DB interface using SQLite
type SQLiteDB struct {
	db      *sql.DB
	backoff func() retry.Backoff
}

// NewSQLiteDB opens path, or a private in-memory database for ":memory:".
func NewSQLiteDB(path string) (*SQLiteDB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Every pooled connection to ":memory:" would see its own empty database.
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	// Enable WAL mode
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, multierr.Append(fmt.Errorf("failed to enable WAL mode: %w", err), db.Close())
	}
	if _, err := db.Exec("PRAGMA busy_timeout=1000"); err != nil {
		return nil, multierr.Append(fmt.Errorf("failed to set busy timeout: %w", err), db.Close())
	}

	return &SQLiteDB{
		db: db,
		backoff: func() retry.Backoff {
			return retry.WithMaxRetries(5, retry.NewExponential(20*time.Millisecond))
		},
	}, nil
}

// Close closes the database connection
func (s *SQLiteDB) Close() error {
	return s.db.Close()
}

func (s *SQLiteDB) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Migrate applies all pending embedded migrations. Running it again is a
// no-op.
func (s *SQLiteDB) Migrate(ctx context.Context) error {
	migrations, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}
	provider, err := goose.NewProvider(goose.DialectSQLite3, s.db, migrations)
	if err != nil {
		return fmt.Errorf("create migration provider: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// isBusy reports SQLITE_BUSY and SQLITE_LOCKED failures, which are worth
// retrying.
func isBusy(err error) bool {
	var coded interface{ Code() int }
	if errors.As(err, &coded) {
		switch coded.Code() & 0xff {
		case 5, 6:
			return true
		}
	}
	msg := err.Error()
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "SQLITE_BUSY")
}

// write runs fn, retrying with backoff while the database is busy.
func (s *SQLiteDB) write(ctx context.Context, fn func(ctx context.Context) error) error {
	return retry.Do(ctx, s.backoff(), func(ctx context.Context) error {
		err := fn(ctx)
		if err != nil && isBusy(err) {
			return retry.RetryableError(err)
		}
		return err
	})
}

// inTx runs fn in a transaction, rolling back if fn fails.
func (s *SQLiteDB) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		return multierr.Append(err, tx.Rollback())
	}
	return tx.Commit()
}

// SaveTournament inserts t with its standings and cells. An empty ID is
// replaced by a fresh UUID; a zero CreatedAt by the current time.
func (s *SQLiteDB) SaveTournament(ctx context.Context, t *Tournament) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}

	return s.write(ctx, func(ctx context.Context) error {
		return s.inTx(ctx, func(tx *sql.Tx) error {
			_, err := tx.ExecContext(ctx, `INSERT INTO tournaments (
				id, game, repetitions, actor_count, server_seed_hash, client_seed,
				engine_version, duration_ms, created_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				t.ID, t.Game, t.Repetitions, t.ActorCount, t.ServerSeedHash, t.ClientSeed,
				t.EngineVersion, t.DurationMS, t.CreatedAt,
			)
			if err != nil {
				return fmt.Errorf("insert tournament: %w", err)
			}

			standing, err := tx.PrepareContext(ctx, `INSERT INTO standings
				(tournament_id, place, name, seed, weight, wins, losses, draws, games)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
			if err != nil {
				return err
			}
			defer standing.Close()
			for _, st := range t.Standings {
				if _, err := standing.ExecContext(ctx, t.ID, st.Place, st.Name, st.Seed,
					st.Weight, st.Wins, st.Losses, st.Draws, st.Games); err != nil {
					return fmt.Errorf("insert standing %q: %w", st.Name, err)
				}
			}

			cell, err := tx.PrepareContext(ctx, `INSERT INTO cells
				(tournament_id, row_idx, col_idx, first_wins, second_wins, draws)
				VALUES (?, ?, ?, ?, ?, ?)`)
			if err != nil {
				return err
			}
			defer cell.Close()
			for _, c := range t.Cells {
				if _, err := cell.ExecContext(ctx, t.ID, c.Row, c.Col, c.FirstWins, c.SecondWins, c.Draws); err != nil {
					return fmt.Errorf("insert cell (%d,%d): %w", c.Row, c.Col, err)
				}
			}
			return nil
		})
	})
}

const tournamentColumns = `id, game, repetitions, actor_count, server_seed_hash, client_seed,
	engine_version, duration_ms, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanTournament(row scanner) (*Tournament, error) {
	var t Tournament
	err := row.Scan(
		&t.ID, &t.Game, &t.Repetitions, &t.ActorCount, &t.ServerSeedHash, &t.ClientSeed,
		&t.EngineVersion, &t.DurationMS, &t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// GetTournament loads a tournament with its standings and cells.
func (s *SQLiteDB) GetTournament(ctx context.Context, id string) (*Tournament, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+tournamentColumns+` FROM tournaments WHERE id = ?`, id)
	t, err := scanTournament(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	if t.Standings, err = s.standings(ctx, id); err != nil {
		return nil, err
	}
	if t.Cells, err = s.cells(ctx, id); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *SQLiteDB) standings(ctx context.Context, id string) ([]Standing, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT place, name, seed, weight, wins, losses, draws, games
		FROM standings WHERE tournament_id = ? ORDER BY place`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query standings: %w", err)
	}
	defer rows.Close()

	var out []Standing
	for rows.Next() {
		var st Standing
		if err := rows.Scan(&st.Place, &st.Name, &st.Seed, &st.Weight, &st.Wins, &st.Losses, &st.Draws, &st.Games); err != nil {
			return nil, fmt.Errorf("failed to scan standing: %w", err)
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

func (s *SQLiteDB) cells(ctx context.Context, id string) ([]Cell, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT row_idx, col_idx, first_wins, second_wins, draws
		FROM cells WHERE tournament_id = ? ORDER BY row_idx, col_idx`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query cells: %w", err)
	}
	defer rows.Close()

	var out []Cell
	for rows.Next() {
		var c Cell
		if err := rows.Scan(&c.Row, &c.Col, &c.FirstWins, &c.SecondWins, &c.Draws); err != nil {
			return nil, fmt.Errorf("failed to scan cell: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// ListTournaments retrieves tournament summaries, newest first, with
// pagination and an optional game filter.
func (s *SQLiteDB) ListTournaments(ctx context.Context, query TournamentsQuery) (*TournamentsList, error) {
	whereClause := ""
	args := []any{}
	if query.Game != "" {
		whereClause = "WHERE game = ?"
		args = append(args, query.Game)
	}

	var totalCount int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM tournaments "+whereClause, args...).Scan(&totalCount); err != nil {
		return nil, fmt.Errorf("failed to get total count: %w", err)
	}

	if query.PerPage <= 0 {
		query.PerPage = 50
	}
	if query.Page <= 0 {
		query.Page = 1
	}
	totalPages := (totalCount + query.PerPage - 1) / query.PerPage
	offset := (query.Page - 1) * query.PerPage

	rows, err := s.db.QueryContext(ctx, `SELECT `+tournamentColumns+`
		FROM tournaments `+whereClause+`
		ORDER BY created_at DESC, rowid DESC
		LIMIT ? OFFSET ?`, append(args, query.PerPage, offset)...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tournaments: %w", err)
	}
	defer rows.Close()

	list := &TournamentsList{
		Tournaments: []Tournament{},
		TotalCount:  totalCount,
		Page:        query.Page,
		PerPage:     query.PerPage,
		TotalPages:  totalPages,
	}
	for rows.Next() {
		t, err := scanTournament(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tournament: %w", err)
		}
		list.Tournaments = append(list.Tournaments, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tournaments: %w", err)
	}
	return list, nil
}

// DeleteTournament removes a tournament and everything stored with it.
func (s *SQLiteDB) DeleteTournament(ctx context.Context, id string) error {
	return s.write(ctx, func(ctx context.Context) error {
		return s.inTx(ctx, func(tx *sql.Tx) error {
			for _, table := range []string{"cells", "standings"} {
				if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE tournament_id = ?", id); err != nil {
					return fmt.Errorf("delete %s: %w", table, err)
				}
			}
			res, err := tx.ExecContext(ctx, "DELETE FROM tournaments WHERE id = ?", id)
			if err != nil {
				return fmt.Errorf("delete tournament: %w", err)
			}
			if n, err := res.RowsAffected(); err != nil {
				return err
			} else if n == 0 {
				return fmt.Errorf("%w: %s", ErrNotFound, id)
			}
			return nil
		})
	})
}
