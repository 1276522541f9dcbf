package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/MJE43/game-arena/internal/arena"
	"github.com/MJE43/game-arena/internal/engine"
)

func newTestDB(t *testing.T) *SQLiteDB {
	t.Helper()
	db, err := NewSQLiteDB(":memory:")
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}
	return db
}

func testRanking(t *testing.T) *arena.Ranking {
	t.Helper()
	m := arena.NewStatsMatrix(3)
	m.Set(0, 0, arena.NewOutcomeStats(0, 0, 4))
	m.Set(0, 1, arena.NewOutcomeStats(0, 4, 0))
	m.Set(0, 2, arena.NewOutcomeStats(4, 0, 0))
	m.Set(1, 0, arena.NewOutcomeStats(4, 0, 0))
	m.Set(1, 1, arena.NewOutcomeStats(0, 0, 4))
	m.Set(1, 2, arena.NewOutcomeStats(0, 3, 1))
	m.Set(2, 0, arena.NewOutcomeStats(0, 4, 0))
	m.Set(2, 1, arena.NewOutcomeStats(2, 1, 1))
	m.Set(2, 2, arena.NewOutcomeStats(0, 0, 4))
	r, err := arena.Rank([]string{"Rock", "Paper", "Scissors"}, m)
	if err != nil {
		t.Fatalf("Rank failed: %v", err)
	}
	return r
}

func TestSaveAndGetTournament(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	ranking := testRanking(t)

	rec := NewTournament("rps", 4, engine.Seeds{Server: "server", Client: "client"}, ranking, 1500*time.Millisecond, "test")
	if err := db.SaveTournament(ctx, rec); err != nil {
		t.Fatalf("SaveTournament failed: %v", err)
	}
	if rec.ID == "" || rec.CreatedAt.IsZero() {
		t.Fatalf("SaveTournament should assign ID and CreatedAt, got %+v", rec)
	}

	got, err := db.GetTournament(ctx, rec.ID)
	if err != nil {
		t.Fatalf("GetTournament failed: %v", err)
	}
	if got.Game != "rps" || got.Repetitions != 4 || got.ActorCount != 3 || got.DurationMS != 1500 {
		t.Errorf("Unexpected record: %+v", got)
	}
	if got.ClientSeed != "client" || got.ServerSeedHash != computeServerHash("server") || got.ServerSeedHash == "server" {
		t.Errorf("Seeds not stored as expected: %q %q", got.ServerSeedHash, got.ClientSeed)
	}
	if !got.CreatedAt.Equal(rec.CreatedAt) {
		t.Errorf("CreatedAt mismatch: %v vs %v", got.CreatedAt, rec.CreatedAt)
	}
	if !reflect.DeepEqual(got.Standings, rec.Standings) {
		t.Errorf("Standings mismatch:\n got %+v\nwant %+v", got.Standings, rec.Standings)
	}
	if !reflect.DeepEqual(got.Cells, rec.Cells) {
		t.Errorf("Cells mismatch:\n got %+v\nwant %+v", got.Cells, rec.Cells)
	}

	rebuilt, err := got.Ranking()
	if err != nil {
		t.Fatalf("Ranking failed: %v", err)
	}
	if !reflect.DeepEqual(rebuilt.Names, ranking.Names) || !reflect.DeepEqual(rebuilt.Weights, ranking.Weights) || !reflect.DeepEqual(rebuilt.Order, ranking.Order) {
		t.Errorf("Rebuilt ranking differs: %+v vs %+v", rebuilt, ranking)
	}
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			if rebuilt.Matrix.At(r, c) != ranking.Matrix.At(r, c) {
				t.Errorf("Cell (%d,%d) differs", r, c)
			}
		}
	}
}

func TestGetTournamentNotFound(t *testing.T) {
	db := newTestDB(t)
	if _, err := db.GetTournament(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestListTournaments(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	ranking := testRanking(t)

	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	games := []string{"rps", "offiziersskat", "rps"}
	for i, game := range games {
		rec := NewTournament(game, 4, engine.Seeds{}, ranking, 0, "test")
		rec.ID = fmt.Sprintf("t%d", i+1)
		rec.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		if err := db.SaveTournament(ctx, rec); err != nil {
			t.Fatalf("Failed to save %s: %v", rec.ID, err)
		}
	}

	result, err := db.ListTournaments(ctx, TournamentsQuery{Page: 1, PerPage: 10})
	if err != nil {
		t.Fatalf("Failed to list tournaments: %v", err)
	}
	if result.TotalCount != 3 || len(result.Tournaments) != 3 {
		t.Fatalf("Expected 3 tournaments, got %d (%d)", len(result.Tournaments), result.TotalCount)
	}
	if result.Tournaments[0].ID != "t3" {
		t.Errorf("Expected newest first, got %s", result.Tournaments[0].ID)
	}
	if result.Tournaments[0].Standings != nil {
		t.Error("List should not load standings")
	}

	result, err = db.ListTournaments(ctx, TournamentsQuery{Game: "rps", Page: 1, PerPage: 10})
	if err != nil {
		t.Fatalf("Failed to list rps tournaments: %v", err)
	}
	if result.TotalCount != 2 {
		t.Errorf("Expected 2 rps tournaments, got %d", result.TotalCount)
	}
	for _, tr := range result.Tournaments {
		if tr.Game != "rps" {
			t.Errorf("Filter leaked game %s", tr.Game)
		}
	}

	result, err = db.ListTournaments(ctx, TournamentsQuery{Page: 2, PerPage: 2})
	if err != nil {
		t.Fatalf("Failed to list page 2: %v", err)
	}
	if result.TotalPages != 2 || len(result.Tournaments) != 1 || result.Tournaments[0].ID != "t1" {
		t.Errorf("Unexpected page 2: %+v", result)
	}

	result, err = db.ListTournaments(ctx, TournamentsQuery{Game: "chess"})
	if err != nil {
		t.Fatalf("Failed to list: %v", err)
	}
	if result.TotalCount != 0 || result.Tournaments == nil || result.PerPage != 50 || result.Page != 1 {
		t.Errorf("Unexpected empty page: %+v", result)
	}
}

func TestDeleteTournament(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	rec := NewTournament("rps", 4, engine.Seeds{}, testRanking(t), 0, "test")
	if err := db.SaveTournament(ctx, rec); err != nil {
		t.Fatalf("SaveTournament failed: %v", err)
	}
	if err := db.DeleteTournament(ctx, rec.ID); err != nil {
		t.Fatalf("DeleteTournament failed: %v", err)
	}
	if _, err := db.GetTournament(ctx, rec.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound after delete, got %v", err)
	}

	var cells int
	if err := db.db.QueryRow("SELECT COUNT(*) FROM cells WHERE tournament_id = ?", rec.ID).Scan(&cells); err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if cells != 0 {
		t.Errorf("Expected cells to be deleted, %d remain", cells)
	}

	if err := db.DeleteTournament(ctx, rec.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound on second delete, got %v", err)
	}
}

func TestSaveRollsBackOnFailure(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	rec := NewTournament("rps", 4, engine.Seeds{}, testRanking(t), 0, "test")
	rec.ID = "dup"
	if err := db.SaveTournament(ctx, rec); err != nil {
		t.Fatalf("SaveTournament failed: %v", err)
	}

	broken := NewTournament("rps", 4, engine.Seeds{}, testRanking(t), 0, "test")
	broken.ID = "broken"
	broken.Standings = append(broken.Standings, broken.Standings[0])
	if err := db.SaveTournament(ctx, broken); err == nil {
		t.Fatal("Expected duplicate standing to fail")
	}
	if _, err := db.GetTournament(ctx, "broken"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Failed save left a tournament row behind: %v", err)
	}
}

func TestWriteRetriesWhenBusy(t *testing.T) {
	db := newTestDB(t)

	calls := 0
	err := db.write(context.Background(), func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("database is locked (5) (SQLITE_BUSY)")
		}
		return nil
	})
	if err != nil || calls != 3 {
		t.Errorf("Expected success on third attempt, got %v after %d calls", err, calls)
	}

	calls = 0
	boom := errors.New("constraint failed")
	err = db.write(context.Background(), func(context.Context) error {
		calls++
		return boom
	})
	if !errors.Is(err, boom) || calls != 1 {
		t.Errorf("Non-busy errors must not be retried, got %v after %d calls", err, calls)
	}
}

func TestMigrationIdempotency(t *testing.T) {
	path := filepath.Join(t.TempDir(), "arena.db")
	db, err := NewSQLiteDB(path)
	if err != nil {
		t.Fatalf("Failed to create database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if err := db.Migrate(ctx); err != nil {
			t.Fatalf("Migrate run %d failed: %v", i+1, err)
		}
	}

	rec := NewTournament("rps", 1, engine.Seeds{Client: "c"}, testRanking(t), 0, "test")
	if err := db.SaveTournament(ctx, rec); err != nil {
		t.Fatalf("Failed to save after repeated migrations: %v", err)
	}
	got, err := db.GetTournament(ctx, rec.ID)
	if err != nil {
		t.Fatalf("Failed to get after repeated migrations: %v", err)
	}
	if got.ClientSeed != "c" {
		t.Errorf("Data integrity issue after migrations: got client seed %q", got.ClientSeed)
	}
	if err := db.Ping(ctx); err != nil {
		t.Errorf("Ping failed: %v", err)
	}
}
