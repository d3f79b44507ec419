// Package sqlstore implements the domain persistent store over database/sql.
// Dialect packages supply the driver, the DDL flavour and error classification.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"pipelinetracker/internal/infra/persistence/schema"
	"pipelinetracker/pkg/domain"
)

// Compile-time contract assertion ensuring the store satisfies the domain interface.
var _ domain.PersistentStore = (*Store)(nil)

// Dialect describes the SQL engine behind a Store.
type Dialect struct {
	Name schema.Dialect
	// Classify maps a driver error to a *domain.ConstraintError when it
	// reports a violated constraint and returns it unchanged otherwise.
	Classify func(error) error
}

// Store persists pipeline records in relational tables.
type Store struct {
	db      *sql.DB
	dialect Dialect
}

// New wraps an open database whose schema has already been applied.
func New(db *sql.DB, dialect Dialect) *Store {
	return &Store{db: db, dialect: dialect}
}

// DB exposes the underlying sql.DB for integration testing hooks.
func (s *Store) DB() *sql.DB { return s.db }

// Dialect reports the engine the store talks to.
func (s *Store) Dialect() schema.Dialect { return s.dialect.Name }

// Close releases the database handle.
func (s *Store) Close() error { return s.db.Close() }

// RunInTransaction executes fn inside a database transaction. The transaction
// commits when fn returns nil and rolls back on every other exit path.
func (s *Store) RunInTransaction(ctx context.Context, fn func(domain.Transaction) error) error {
	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = sqlTx.Rollback()
		}
	}()
	if err := fn(&transaction{ctx: ctx, tx: sqlTx, store: s}); err != nil {
		return err
	}
	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", s.classify(err))
	}
	committed = true
	return nil
}

// View executes fn against a transaction that is always rolled back.
func (s *Store) View(ctx context.Context, fn func(domain.TransactionView) error) error {
	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = sqlTx.Rollback() }()
	return fn(&transaction{ctx: ctx, tx: sqlTx, store: s})
}

func (s *Store) classify(err error) error {
	if err == nil || s.dialect.Classify == nil {
		return err
	}
	return s.dialect.Classify(err)
}

// rebind rewrites ? placeholders to the dialect's positional form.
func (s *Store) rebind(query string) string {
	if s.dialect.Name != schema.Postgres {
		return query
	}
	return Rebind(query)
}

// Rebind converts ? placeholders into $1, $2, ... placeholders.
func Rebind(query string) string {
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] != '?' {
			b.WriteByte(query[i])
			continue
		}
		n++
		b.WriteByte('$')
		b.WriteString(strconv.Itoa(n))
	}
	return b.String()
}

type transaction struct {
	ctx   context.Context
	tx    *sql.Tx
	store *Store
}

func (t *transaction) exec(query string, args ...any) (int, error) {
	res, err := t.tx.ExecContext(t.ctx, t.store.rebind(query), args...)
	if err != nil {
		return 0, t.store.classify(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(affected), nil
}

func (t *transaction) query(query string, args ...any) (*sql.Rows, error) {
	return t.tx.QueryContext(t.ctx, t.store.rebind(query), args...)
}

func (t *transaction) queryRow(query string, args ...any) *sql.Row {
	return t.tx.QueryRowContext(t.ctx, t.store.rebind(query), args...)
}

func (t *transaction) exists(table, id string) (bool, error) {
	var one int
	err := t.queryRow(`SELECT 1 FROM `+table+` WHERE id = ?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("lookup %s: %w", table, err)
	}
	return true, nil
}

func (t *transaction) filePaths(query string, args ...any) ([]string, error) {
	rows, err := t.query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("select file paths: %w", err)
	}
	defer func() { _ = rows.Close() }()
	var paths []string
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return nil, fmt.Errorf("scan file path: %w", err)
		}
		paths = append(paths, path)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate file paths: %w", err)
	}
	return paths, nil
}

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func nullString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	v := ns.String
	return &v
}
