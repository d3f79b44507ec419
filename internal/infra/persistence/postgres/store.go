// Package postgres opens the pipeline tracker store on PostgreSQL through the
// pgx database/sql driver and applies the schema on startup.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver

	"pipelinetracker/internal/infra/persistence/schema"
	"pipelinetracker/internal/infra/persistence/sqlstore"
	"pipelinetracker/pkg/domain"
)

const (
	defaultDriver = "pgx"
	defaultDSN    = "postgres://localhost/pipelinetracker?sslmode=disable"
)

var (
	sqlOpen = sql.Open
	openMu  sync.Mutex
)

// Open connects to the DSN (falling back to defaultDSN), verifies the
// connection and applies the schema.
func Open(ctx context.Context, dsn string) (*sqlstore.Store, error) {
	if dsn == "" {
		dsn = defaultDSN
	}
	openMu.Lock()
	db, err := sqlOpen(defaultDriver, dsn)
	openMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if err := schema.Apply(ctx, db, schema.Postgres); err != nil {
		_ = db.Close()
		return nil, err
	}
	return sqlstore.New(db, sqlstore.Dialect{Name: schema.Postgres, Classify: Classify}), nil
}

// Classify maps Postgres constraint violations onto domain constraint errors.
func Classify(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	var kind domain.ConstraintKind
	switch pgErr.Code {
	case pgerrcode.UniqueViolation:
		kind = domain.ConstraintUnique
	case pgerrcode.ForeignKeyViolation:
		kind = domain.ConstraintForeignKey
	case pgerrcode.NotNullViolation:
		kind = domain.ConstraintNotNull
	default:
		return err
	}
	return &domain.ConstraintError{Kind: kind, Constraint: pgErr.ConstraintName, Err: err}
}

// OverrideSQLOpen swaps the sqlOpen function for tests and returns a restore function.
func OverrideSQLOpen(fn func(driverName, dataSourceName string) (*sql.DB, error)) func() {
	openMu.Lock()
	defer openMu.Unlock()
	prev := sqlOpen
	sqlOpen = fn
	return func() {
		openMu.Lock()
		defer openMu.Unlock()
		sqlOpen = prev
	}
}
