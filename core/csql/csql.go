package csql

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	_ "github.com/lib/pq" // load database driver for postgres
	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite" // load database driver for sqlite
)

// Dialect identifies the SQL flavour spoken by a database
type Dialect int

// supported dialects
const (
	Postgres Dialect = iota
	SQLite
)

func (d Dialect) String() string {
	switch d {
	case Postgres:
		return "postgres"
	case SQLite:
		return "sqlite"
	}
	return "dialect(" + strconv.Itoa(int(d)) + ")"
}

// ParseDialect returns the dialect for a driver name as used in configuration
func ParseDialect(driver string) (Dialect, error) {
	switch strings.ToLower(driver) {
	case "", "postgres", "postgresql":
		return Postgres, nil
	case "sqlite", "sqlite3":
		return SQLite, nil
	}
	return 0, fmt.Errorf("unsupported database driver '%s'", driver)
}

// Placeholder returns the positional parameter marker for the n-th argument, starting at 1
func (d Dialect) Placeholder(n int) string {
	if d == SQLite {
		return "?"
	}
	return "$" + strconv.Itoa(n)
}

// DB encapsulates a standard sql.DB with a schema and a dialect
type DB struct {
	*sql.DB
	Schema  string
	Dialect Dialect
}

// ErrNoRows is returned by Scan when QueryRow doesn't return a
// row. In such a case, QueryRow returns a placeholder *Row value that
// defers this error until a Scan.
var ErrNoRows = sql.ErrNoRows

// OpenPostgres opens a postgres database with a schema.
// The schema gets created if it does not exist yet.
func OpenPostgres(ctx context.Context, dataSourceName, password, schema string) (*DB, error) {
	logrus.Infoln("connecting to postgres database:", dataSourceName)
	if password != "" {
		dataSourceName += " password=" + password
	}
	db, err := sql.Open("postgres", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err = db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if len(schema) == 0 {
		schema = "public"
	} else {
		logrus.Infoln("selected database schema:", schema)
		if _, err = db.ExecContext(ctx, `CREATE schema IF NOT EXISTS `+schema+`;`); err != nil {
			db.Close()
			return nil, fmt.Errorf("create schema %s: %w", schema, err)
		}
	}
	return &DB{DB: db, Schema: schema, Dialect: Postgres}, nil
}

// OpenSQLite opens an embedded sqlite database at path. The special path
// ":memory:" opens a private in-memory database.
//
// sqlite allows a single writer only, hence the pool is limited to one
// connection. Callers must not use the pool while holding a transaction.
func OpenSQLite(ctx context.Context, path string) (*DB, error) {
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	if path == ":memory:" {
		dsn = "file::memory:?_pragma=foreign_keys(1)"
	} else {
		dsn += "&_pragma=journal_mode(WAL)"
	}
	logrus.Infoln("opening sqlite database:", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err = db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	return &DB{DB: db, Dialect: SQLite}, nil
}

// Table returns the qualified name of table
func (db *DB) Table(name string) string {
	if db.Dialect == Postgres {
		return db.Schema + `."` + name + `"`
	}
	return `"` + name + `"`
}

// ClearSchema clears all the data contained in the database's schema
// Technically this is done by dropping the schema and then recreating it.
// It is not supported for sqlite, where a new in-memory database serves
// the same purpose.
func (db *DB) ClearSchema(ctx context.Context) error {
	if db.Dialect != Postgres {
		return fmt.Errorf("clear schema is not supported for %s", db.Dialect)
	}
	if db.Schema == "public" {
		return fmt.Errorf("refuse to drop public schema")
	}
	_, err := db.ExecContext(ctx, `DROP SCHEMA `+db.Schema+` CASCADE;
	CREATE schema IF NOT EXISTS `+db.Schema+`;`)
	if err != nil {
		return fmt.Errorf("clear schema %s: %w", db.Schema, err)
	}
	return nil
}
