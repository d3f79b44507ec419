// Package schema holds the pipeline tracker DDL for each supported SQL dialect
// and applies it to a database at startup.
package schema

import (
	"bufio"
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"strings"
)

// Dialect names a supported SQL engine.
type Dialect string

const (
	// Postgres selects the PostgreSQL DDL.
	Postgres Dialect = "postgres"
	// SQLite selects the SQLite DDL.
	SQLite Dialect = "sqlite"
)

//go:embed postgres.sql
var postgresDDL string

//go:embed sqlite.sql
var sqliteDDL string

// Tables lists the managed tables in dependency order, parents first.
var Tables = []string{
	"pipeline_stages",
	"pipeline_methods",
	"pipeline_details",
	"responsible_actors",
	"method_actor_association",
}

// DDL returns the raw DDL script for the dialect.
func DDL(d Dialect) (string, error) {
	switch d {
	case Postgres:
		return postgresDDL, nil
	case SQLite:
		return sqliteDDL, nil
	default:
		return "", fmt.Errorf("unsupported sql dialect %q", d)
	}
}

// Statements returns the executable DDL statements for the dialect.
func Statements(d Dialect) ([]string, error) {
	ddl, err := DDL(d)
	if err != nil {
		return nil, err
	}
	return SplitStatements(ddl), nil
}

// Apply executes every DDL statement for the dialect. Statements are
// idempotent so Apply is safe to run on every start.
func Apply(ctx context.Context, db *sql.DB, d Dialect) error {
	stmts, err := Statements(d)
	if err != nil {
		return err
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("execute ddl: %w", err)
		}
	}
	return nil
}

// SplitStatements splits a semicolon-terminated DDL script into executable statements.
// It drops blank lines and single-line comments that start with "--".
func SplitStatements(ddl string) []string {
	scanner := bufio.NewScanner(strings.NewReader(ddl))
	var stmts []string
	var current strings.Builder

	flush := func() {
		stmt := strings.TrimSpace(current.String())
		if stmt != "" {
			stmts = append(stmts, stmt)
		}
		current.Reset()
	}

	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "--") {
			continue
		}
		current.WriteString(line)
		current.WriteByte('\n')
		if strings.HasSuffix(trimmed, ";") {
			flush()
		}
	}

	if tail := strings.TrimSpace(current.String()); tail != "" {
		stmts = append(stmts, tail)
	}

	return stmts
}
