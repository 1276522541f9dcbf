package store

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("tournament not found")

// DB represents the database interface
type DB interface {
	Close() error
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	SaveTournament(ctx context.Context, t *Tournament) error
	GetTournament(ctx context.Context, id string) (*Tournament, error)
	ListTournaments(ctx context.Context, query TournamentsQuery) (*TournamentsList, error)
	DeleteTournament(ctx context.Context, id string) error
}

// TournamentsQuery represents query parameters for listing tournaments
type TournamentsQuery struct {
	Game    string `json:"game,omitempty"`
	Page    int    `json:"page"`
	PerPage int    `json:"perPage"`
}

// TournamentsList is one page of tournament summaries. Standings and cells
// are only loaded by GetTournament.
type TournamentsList struct {
	Tournaments []Tournament `json:"tournaments"`
	TotalCount  int          `json:"totalCount"`
	Page        int          `json:"page"`
	PerPage     int          `json:"perPage"`
	TotalPages  int          `json:"totalPages"`
}

// Tournament is a persisted, ranked tournament.
type Tournament struct {
	ID             string    `json:"id" db:"id"`
	Game           string    `json:"game" db:"game"`
	Repetitions    int       `json:"repetitions" db:"repetitions"`
	ActorCount     int       `json:"actor_count" db:"actor_count"`
	ServerSeedHash string    `json:"server_seed_hash" db:"server_seed_hash"` // SHA256 hash only
	ClientSeed     string    `json:"client_seed" db:"client_seed"`
	EngineVersion  string    `json:"engine_version" db:"engine_version"`
	DurationMS     int64     `json:"duration_ms" db:"duration_ms"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`

	Standings []Standing `json:"standings,omitempty"`
	Cells     []Cell     `json:"cells,omitempty"`
}

// Standing is one actor's final placement. Place 1 is the strongest.
type Standing struct {
	Place  int    `json:"place" db:"place"`
	Name   string `json:"name" db:"name"`
	Seed   int    `json:"seed" db:"seed"`
	Weight uint64 `json:"weight" db:"weight"`
	Wins   uint64 `json:"wins" db:"wins"`
	Losses uint64 `json:"losses" db:"losses"`
	Draws  uint64 `json:"draws" db:"draws"`
	Games  uint64 `json:"games" db:"games"`
}

// Cell is one entry of the ranked matrix. Row and Col are ranked
// positions, 0 being the weakest actor.
type Cell struct {
	Row        int    `json:"row" db:"row_idx"`
	Col        int    `json:"col" db:"col_idx"`
	FirstWins  uint64 `json:"first_wins" db:"first_wins"`
	SecondWins uint64 `json:"second_wins" db:"second_wins"`
	Draws      uint64 `json:"draws" db:"draws"`
}
