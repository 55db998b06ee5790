package csql

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDialect(t *testing.T) {
	d, err := ParseDialect("")
	require.NoError(t, err)
	assert.Equal(t, Postgres, d)

	d, err = ParseDialect("SQLite")
	require.NoError(t, err)
	assert.Equal(t, SQLite, d)

	_, err = ParseDialect("mysql")
	assert.Error(t, err)
}

func TestPlaceholder(t *testing.T) {
	assert.Equal(t, "$3", Postgres.Placeholder(3))
	assert.Equal(t, "?", SQLite.Placeholder(3))
}

func TestOpenSQLiteMemory(t *testing.T) {
	ctx := context.Background()
	db, err := OpenSQLite(ctx, ":memory:")
	require.NoError(t, err)
	defer db.Close()

	assert.Equal(t, SQLite, db.Dialect)
	assert.Equal(t, `"goal"`, db.Table("goal"))

	_, err = db.ExecContext(ctx, `CREATE TABLE t (id INTEGER PRIMARY KEY AUTOINCREMENT, v TEXT)`)
	require.NoError(t, err)
	var id int64
	require.NoError(t, db.QueryRowContext(ctx, `INSERT INTO t(v) VALUES(?) RETURNING id`, "x").Scan(&id))
	assert.Equal(t, int64(1), id)

	assert.Error(t, db.ClearSchema(ctx))
}

func TestPostgresTable(t *testing.T) {
	db := &DB{Schema: "todo", Dialect: Postgres}
	assert.Equal(t, `todo."goal_data"`, db.Table("goal_data"))
}
