// Package backend selects and opens the configured data store.
package backend

import (
	"fmt"
	"log/slog"

	"strike/internal/config"
	"strike/internal/storage"
	"strike/internal/store"
	"strike/internal/store/memory"
)

// Type represents the kind of data backend
type Type string

const (
	SQLite Type = "sqlite"
	Memory Type = "memory"
)

// String implements fmt.Stringer
func (t Type) String() string {
	return string(t)
}

// IsValid returns true if the backend type is valid
func (t Type) IsValid() bool {
	switch t {
	case SQLite, Memory:
		return true
	default:
		return false
	}
}

// CleanupFunc releases resources held by a store
type CleanupFunc func() error

// Open creates the store named by cfg.DataBackend. The returned cleanup
// function is never nil.
func Open(cfg *config.Config, logger *slog.Logger) (store.Store, CleanupFunc, error) {
	if logger == nil {
		logger = slog.Default()
	}

	t := Type(cfg.DataBackend)
	if !t.IsValid() {
		return nil, nil, fmt.Errorf("invalid backend type: %s", cfg.DataBackend)
	}

	switch t {
	case SQLite:
		repo, err := storage.NewRepository(cfg.SQLiteDBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("initialize SQLite repository: %w", err)
		}
		logger.Info("Initialized SQLite backend", "db_path", cfg.SQLiteDBPath)
		return repo, repo.Close, nil

	default:
		if cfg.SeedFile != "" {
			mem, err := memory.NewFromFile(cfg.SeedFile)
			if err != nil {
				return nil, nil, fmt.Errorf("seed memory store: %w", err)
			}
			logger.Info("Initialized memory backend", "seed_file", cfg.SeedFile)
			return mem, func() error { return nil }, nil
		}
		logger.Info("Initialized memory backend")
		return memory.New(), func() error { return nil }, nil
	}
}
