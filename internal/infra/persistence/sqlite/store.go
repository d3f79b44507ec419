// Package sqlite opens the pipeline tracker store on a SQLite database file
// using the pure Go modernc driver.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"pipelinetracker/internal/infra/persistence/schema"
	"pipelinetracker/internal/infra/persistence/sqlstore"
	"pipelinetracker/pkg/domain"
)

const defaultPath = "pipelinetracker.db"

// Open creates (if needed) and opens the SQLite database at path, enables
// foreign key enforcement and applies the schema.
func Open(ctx context.Context, path string) (*sqlstore.Store, error) {
	if path == "" {
		path = defaultPath
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create dirs: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// A single connection keeps writers serialised and the pragmas in effect.
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, `PRAGMA foreign_keys = ON`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	if err := schema.Apply(ctx, db, schema.SQLite); err != nil {
		_ = db.Close()
		return nil, err
	}
	return sqlstore.New(db, sqlstore.Dialect{Name: schema.SQLite, Classify: Classify}), nil
}

func dsn(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_time_format=sqlite"
}

// Classify maps SQLite constraint failures onto domain constraint errors.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	var constraint *domain.ConstraintError
	if errors.As(err, &constraint) {
		return err
	}
	if kind, ok := constraintKind(err); ok {
		return &domain.ConstraintError{Kind: kind, Err: err}
	}
	return err
}

func constraintKind(err error) (domain.ConstraintKind, bool) {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return domain.ConstraintUnique, true
		case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
			return domain.ConstraintForeignKey, true
		case sqlite3.SQLITE_CONSTRAINT_NOTNULL:
			return domain.ConstraintNotNull, true
		}
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return domain.ConstraintUnique, true
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return domain.ConstraintForeignKey, true
	case strings.Contains(msg, "NOT NULL constraint failed"):
		return domain.ConstraintNotNull, true
	}
	return "", false
}
