// Package config reads arena settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"runtime"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the settings shared by the CLI and the HTTP server.
type Config struct {
	Addr           string
	DBPath         string
	Workers        int
	BatchSize      int
	MaxTurns       int
	MaxRepetitions int
	ScriptTimeout  time.Duration
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Addr:           ":8080",
		DBPath:         "arena.db",
		Workers:        runtime.GOMAXPROCS(0),
		BatchSize:      64,
		MaxTurns:       10000,
		MaxRepetitions: 100000,
		ScriptTimeout:  time.Second,
	}
}

// Load reads the given dotenv files (".env" when none are named) and then
// the ARENA_* variables. Missing dotenv files are not an error, and
// variables already set in the environment win over file values.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("config: load %s: %w", f, err)
		}
	}

	cfg := Default()
	cfg.Addr = envString("ARENA_ADDR", cfg.Addr)
	cfg.DBPath = envString("ARENA_DB_PATH", cfg.DBPath)

	var err error
	if cfg.Workers, err = envInt("ARENA_WORKERS", cfg.Workers); err != nil {
		return Config{}, err
	}
	if cfg.BatchSize, err = envInt("ARENA_BATCH_SIZE", cfg.BatchSize); err != nil {
		return Config{}, err
	}
	if cfg.MaxTurns, err = envInt("ARENA_MAX_TURNS", cfg.MaxTurns); err != nil {
		return Config{}, err
	}
	if cfg.MaxRepetitions, err = envInt("ARENA_MAX_REPETITIONS", cfg.MaxRepetitions); err != nil {
		return Config{}, err
	}
	ms, err := envInt("ARENA_SCRIPT_TIMEOUT_MS", int(cfg.ScriptTimeout/time.Millisecond))
	if err != nil {
		return Config{}, err
	}
	cfg.ScriptTimeout = time.Duration(ms) * time.Millisecond

	return cfg, cfg.Validate()
}

// Validate rejects settings the arena cannot run with.
func (c Config) Validate() error {
	switch {
	case c.Addr == "":
		return errors.New("config: ARENA_ADDR is empty")
	case c.DBPath == "":
		return errors.New("config: ARENA_DB_PATH is empty")
	case c.Workers <= 0:
		return fmt.Errorf("config: workers must be positive, got %d", c.Workers)
	case c.BatchSize <= 0:
		return fmt.Errorf("config: batch size must be positive, got %d", c.BatchSize)
	case c.MaxTurns <= 0:
		return fmt.Errorf("config: max turns must be positive, got %d", c.MaxTurns)
	case c.MaxRepetitions <= 0:
		return fmt.Errorf("config: max repetitions must be positive, got %d", c.MaxRepetitions)
	case c.ScriptTimeout <= 0:
		return fmt.Errorf("config: script timeout must be positive, got %s", c.ScriptTimeout)
	}
	return nil
}

func envString(k, def string) string {
	if s := os.Getenv(k); s != "" {
		return s
	}
	return def
}

func envInt(k string, def int) (int, error) {
	s := os.Getenv(k)
	if s == "" {
		return def, nil
	}
	var v int
	if _, err := fmt.Sscanf(s, "%d", &v); err != nil {
		return 0, fmt.Errorf("config: %s=%q is not an integer", k, s)
	}
	return v, nil
}
