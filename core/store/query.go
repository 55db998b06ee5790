// Copyright 2021 Dalarub & Ettrich GmbH - All Rights Reserved
// Unauthorized copying of this file, via any medium is strictly prohibited
// Proprietary and confidential
// info@dalarub.com
//

package store

import (
	"strings"

	"github.com/lib/pq"

	"github.com/relabs-tech/todoapp/core/api"
	"github.com/relabs-tech/todoapp/core/csql"
)

// DefaultCount is the page size used when a filter does not specify one
const DefaultCount = 100

// MaxCount is the largest page size a filter may request
const MaxCount = 1000

// table describes an entity table. columns lists all columns in scan order,
// the id column first.
type table struct {
	name    string
	alias   string
	columns []string
}

func (t table) id() string {
	return t.columns[0]
}

func (t table) selectList() string {
	cols := make([]string, len(t.columns))
	for i, c := range t.columns {
		cols[i] = t.alias + "." + c
	}
	return strings.Join(cols, ", ")
}

// selectQuery composes a parameterized SELECT from filter predicates.
// Values never end up in the SQL text, they are always passed as arguments.
type selectQuery struct {
	db     *csql.DB
	t      table
	joins  []string
	where  []string
	args   []interface{}
	order  string
	limit  int64
	offset int64
}

func newSelect(db *csql.DB, t table) *selectQuery {
	return &selectQuery{
		db:    db,
		t:     t,
		order: t.alias + "." + t.id(),
		limit: DefaultCount,
	}
}

func (q *selectQuery) column(c string) string {
	if strings.Contains(c, ".") {
		return c
	}
	return q.t.alias + "." + c
}

// arg registers value v and returns its placeholder
func (q *selectQuery) arg(v interface{}) string {
	q.args = append(q.args, v)
	return q.db.Dialect.Placeholder(len(q.args))
}

// in restricts column to values. A nil slice means no restriction, an empty
// non-nil slice matches nothing.
func in[T int64 | string](q *selectQuery, column string, values []T) {
	if values == nil {
		return
	}
	if len(values) == 0 {
		q.where = append(q.where, "1 = 0")
		return
	}
	if q.db.Dialect == csql.Postgres {
		q.where = append(q.where, q.column(column)+" = ANY("+q.arg(pq.Array(values))+")")
		return
	}
	marks := make([]string, len(values))
	for i, v := range values {
		marks[i] = q.arg(v)
	}
	q.where = append(q.where, q.column(column)+" IN ("+strings.Join(marks, ", ")+")")
}

func (q *selectQuery) min(column string, v *int64) {
	if v != nil {
		q.where = append(q.where, q.column(column)+" >= "+q.arg(*v))
	}
}

func (q *selectQuery) max(column string, v *int64) {
	if v != nil {
		q.where = append(q.where, q.column(column)+" <= "+q.arg(*v))
	}
}

func (q *selectQuery) equal(column string, v *bool) {
	if v != nil {
		q.where = append(q.where, q.column(column)+" = "+q.arg(*v))
	}
}

func (q *selectQuery) notNull(column string, v *bool) {
	if v == nil {
		return
	}
	if *v {
		q.where = append(q.where, q.column(column)+" IS NOT NULL")
	} else {
		q.where = append(q.where, q.column(column)+" IS NULL")
	}
}

// recent keeps only the row with the highest id per partition
func (q *selectQuery) recent(partition ...string) {
	q.joins = append(q.joins, "INNER JOIN (SELECT max("+q.t.id()+") AS recent_id FROM "+
		q.db.Table(q.t.name)+" GROUP BY "+strings.Join(partition, ", ")+") recent ON recent.recent_id = "+
		q.t.alias+"."+q.t.id())
}

// page applies the filters shared by all entities
func (q *selectQuery) page(ids []int64, p api.Page) {
	in(q, q.t.id(), ids)
	q.min("creation_time", p.MinCreationTime)
	q.max("creation_time", p.MaxCreationTime)
	in(q, "creator_user_id", p.CreatorUserID)
	if p.Count != nil && *p.Count > 0 {
		q.limit = *p.Count
		if q.limit > MaxCount {
			q.limit = MaxCount
		}
	}
	if p.Offset != nil && *p.Offset > 0 {
		q.offset = *p.Offset
	}
}

func (q *selectQuery) sql() string {
	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(q.t.selectList())
	b.WriteString(" FROM ")
	b.WriteString(q.db.Table(q.t.name))
	b.WriteString(" ")
	b.WriteString(q.t.alias)
	for _, j := range q.joins {
		b.WriteString(" ")
		b.WriteString(j)
	}
	if len(q.where) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(q.where, " AND "))
	}
	b.WriteString(" ORDER BY ")
	b.WriteString(q.order)
	b.WriteString(" LIMIT ")
	b.WriteString(q.arg(q.limit))
	b.WriteString(" OFFSET ")
	b.WriteString(q.arg(q.offset))
	return b.String()
}

func int64s[T ~int64](values []T) []int64 {
	if values == nil {
		return nil
	}
	res := make([]int64, len(values))
	for i, v := range values {
		res[i] = int64(v)
	}
	return res
}
