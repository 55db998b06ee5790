/*
Package store is the entity store of the todo app.

All entities are append-only: rows are inserted once and never updated or
deleted. Mutable state is modelled by revision rows, the current state of
an entity being its revision with the highest id.

The same implementation serves postgres and sqlite; the dialect of the
underlying csql.DB decides about placeholders, array columns and DDL types.
*/
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/relabs-tech/todoapp/core/csql"
)

// ErrCorruptRow is returned when a stored row violates the schema, for
// example an enum column holding an unknown value
var ErrCorruptRow = errors.New("corrupt row")

// querier is implemented by *sql.DB and *sql.Tx
type querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

type scanner interface {
	Scan(dest ...interface{}) error
}

// Store provides access to all entities
type Store struct {
	db  *csql.DB
	now func() int64
}

// New returns a store on db. Call Migrate before first use.
func New(db *csql.DB) *Store {
	return &Store{
		db:  db,
		now: func() int64 { return time.Now().UnixMilli() },
	}
}

// DB returns the underlying database
func (s *Store) DB() *csql.DB {
	return s.db
}

// Conn returns a connection which executes every statement on its own
func (s *Store) Conn() *Conn {
	return &Conn{q: s.db, db: s.db, now: s.now}
}

// Begin starts a transaction. The transaction must be finished with
// Commit or Rollback; Rollback after Commit is a no-op.
func (s *Store) Begin(ctx context.Context) (*Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	return &Tx{Conn: &Conn{q: tx, db: s.db, now: s.now}, tx: tx}, nil
}

// Migrate creates all tables and indices which do not exist yet
func (s *Store) Migrate(ctx context.Context) error {
	for _, stmt := range ddl(s.db) {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("execute ddl: %w", err)
		}
	}
	return nil
}

// Conn executes entity operations, either directly on the database or within a transaction
type Conn struct {
	q   querier
	db  *csql.DB
	now func() int64
}

// Tx is a Conn within a database transaction
type Tx struct {
	*Conn
	tx *sql.Tx
}

// Commit commits the transaction
func (t *Tx) Commit() error {
	return t.tx.Commit()
}

// Rollback aborts the transaction
func (t *Tx) Rollback() error {
	err := t.tx.Rollback()
	if errors.Is(err, sql.ErrTxDone) {
		return nil
	}
	return err
}

// SQL returns the underlying transaction, for callers which need to write
// their own tables within the same transaction
func (t *Tx) SQL() *sql.Tx {
	return t.tx
}

// insert inserts values into all columns of t but the id and returns the new id
func (c *Conn) insert(ctx context.Context, t table, values ...interface{}) (int64, error) {
	cols := t.columns[1:]
	if len(cols) != len(values) {
		return 0, fmt.Errorf("insert %s: %d values for %d columns", t.name, len(values), len(cols))
	}
	marks := make([]string, len(values))
	for i := range values {
		marks[i] = c.db.Dialect.Placeholder(i + 1)
	}
	query := "INSERT INTO " + c.db.Table(t.name) + "(" + strings.Join(cols, ", ") + ") VALUES(" +
		strings.Join(marks, ", ") + ") RETURNING " + t.id()

	var id int64
	if err := c.q.QueryRowContext(ctx, query, values...).Scan(&id); err != nil {
		return 0, fmt.Errorf("insert %s: %w", t.name, err)
	}
	return id, nil
}

// byID fetches the row with the given id. It returns nil and no error if there is no such row.
func byID[T any](ctx context.Context, c *Conn, t table, id int64, scan func(scanner) (T, error)) (*T, error) {
	query := "SELECT " + t.selectList() + " FROM " + c.db.Table(t.name) + " " + t.alias +
		" WHERE " + t.alias + "." + t.id() + " = " + c.db.Dialect.Placeholder(1)
	v, err := scan(c.q.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get %s %d: %w", t.name, id, err)
	}
	return &v, nil
}

// latestBy fetches the row with the highest id where column equals value.
// It returns nil and no error if there is no such row.
func latestBy[T any](ctx context.Context, c *Conn, t table, column string, value int64, scan func(scanner) (T, error)) (*T, error) {
	query := "SELECT " + t.selectList() + " FROM " + c.db.Table(t.name) + " " + t.alias +
		" WHERE " + t.alias + "." + column + " = " + c.db.Dialect.Placeholder(1) +
		" ORDER BY " + t.alias + "." + t.id() + " DESC LIMIT 1"
	v, err := scan(c.q.QueryRowContext(ctx, query, value))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest %s for %s %d: %w", t.name, column, value, err)
	}
	return &v, nil
}

// list runs q and scans all rows
func list[T any](ctx context.Context, c *Conn, q *selectQuery, scan func(scanner) (T, error)) ([]T, error) {
	query := q.sql()
	rows, err := c.q.QueryContext(ctx, query, q.args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", q.t.name, err)
	}
	defer rows.Close()

	res := []T{}
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", q.t.name, err)
		}
		res = append(res, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query %s: %w", q.t.name, err)
	}
	return res, nil
}

func nullInt64(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	i := v.Int64
	return &i
}

func corrupt(t table, id int64, err error) error {
	return fmt.Errorf("%w: %s %d: %v", ErrCorruptRow, t.name, id, err)
}
