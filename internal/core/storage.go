package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"pipelinetracker/internal/infra/persistence/memory"
	"pipelinetracker/internal/infra/persistence/postgres"
	"pipelinetracker/internal/infra/persistence/sqlite"
)

// StorageDriver identifies a concrete persistent storage implementation.
type StorageDriver string

const (
	StorageSQLite   StorageDriver = "sqlite"   // embedded sqlite file
	StoragePostgres StorageDriver = "postgres" // PostgreSQL server
	StorageMemory   StorageDriver = "memory"   // process memory, lost on exit
)

// ErrMissingDatabaseURL is returned when no connection string is configured.
var ErrMissingDatabaseURL = errors.New("DATABASE_URL is not set")

// ParseDatabaseURL picks the storage driver for a connection string and
// returns the driver-specific DSN.
//
//	postgres://... | postgresql://...  PostgreSQL, DSN passed through
//	sqlite://<path> | file:<path>       SQLite database file at <path>
//	memory://                           in-process store
func ParseDatabaseURL(databaseURL string) (StorageDriver, string, error) {
	databaseURL = strings.TrimSpace(databaseURL)
	switch {
	case databaseURL == "":
		return "", "", ErrMissingDatabaseURL
	case strings.HasPrefix(databaseURL, "postgres://"), strings.HasPrefix(databaseURL, "postgresql://"):
		return StoragePostgres, databaseURL, nil
	case strings.HasPrefix(databaseURL, "memory://"):
		return StorageMemory, "", nil
	case strings.HasPrefix(databaseURL, "sqlite://"):
		path := strings.TrimPrefix(databaseURL, "sqlite://")
		if path == "" {
			return "", "", fmt.Errorf("database url %q has no sqlite path", databaseURL)
		}
		return StorageSQLite, path, nil
	case strings.HasPrefix(databaseURL, "file:"):
		path := strings.TrimPrefix(databaseURL, "file:")
		if path == "" {
			return "", "", fmt.Errorf("database url %q has no sqlite path", databaseURL)
		}
		return StorageSQLite, path, nil
	default:
		return "", "", fmt.Errorf("unsupported database url scheme in %q", redact(databaseURL))
	}
}

// OpenPersistentStore opens the backend named by the connection string.
func OpenPersistentStore(ctx context.Context, databaseURL string) (PersistentStore, error) {
	driver, dsn, err := ParseDatabaseURL(databaseURL)
	if err != nil {
		return nil, err
	}
	switch driver {
	case StoragePostgres:
		store, err := postgres.Open(ctx, dsn)
		if err != nil {
			return nil, err
		}
		return store, nil
	case StorageSQLite:
		store, err := sqlite.Open(ctx, dsn)
		if err != nil {
			return nil, err
		}
		return store, nil
	case StorageMemory:
		return memory.NewStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %s", driver)
	}
}

// redact drops everything after the scheme so credentials never reach logs.
func redact(databaseURL string) string {
	if i := strings.Index(databaseURL, "://"); i >= 0 {
		return databaseURL[:i+3] + "..."
	}
	if i := strings.Index(databaseURL, ":"); i >= 0 {
		return databaseURL[:i+1] + "..."
	}
	return "..."
}
