package store

import (
	"database/sql/driver"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/lib/pq"

	"github.com/relabs-tech/todoapp/core/csql"
)

// int64Array stores a list of integers. Postgres keeps it in a native
// bigint[] column, sqlite as JSON text.
type int64Array struct {
	dialect csql.Dialect
	values  *[]int64
}

func (c *Conn) int64Array(values *[]int64) int64Array {
	return int64Array{dialect: c.db.Dialect, values: values}
}

// Value implements driver.Valuer
func (a int64Array) Value() (driver.Value, error) {
	values := *a.values
	if values == nil {
		values = []int64{}
	}
	if a.dialect == csql.Postgres {
		return pq.Array(values).Value()
	}
	b, err := json.Marshal(values)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner
func (a int64Array) Scan(src interface{}) error {
	if a.dialect == csql.Postgres {
		var arr pq.Int64Array
		if err := arr.Scan(src); err != nil {
			return err
		}
		*a.values = []int64(arr)
		if *a.values == nil {
			*a.values = []int64{}
		}
		return nil
	}
	var b []byte
	switch v := src.(type) {
	case string:
		b = []byte(v)
	case []byte:
		b = v
	case nil:
		*a.values = []int64{}
		return nil
	default:
		return fmt.Errorf("cannot scan %T into integer list", src)
	}
	values := []int64{}
	if err := json.Unmarshal(b, &values); err != nil {
		return fmt.Errorf("cannot decode integer list: %w", err)
	}
	*a.values = values
	return nil
}
