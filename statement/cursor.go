package statement

import (
	"iter"

	"github.com/Konsultn-Engineering/chstmt/database"
)

// Cursor iterates the rows captured by one Statement execution. It reads a
// frozen snapshot and can be rewound any number of times. Once its
// statement executes again or frees its result the cursor is stale and
// yields no rows.
type Cursor struct {
	stmt       *Statement
	generation uint64
	snapshot   database.RowSet

	started bool
	pos     int
	current database.Row
}

func newCursor(s *Statement, rs database.RowSet) *Cursor {
	return &Cursor{stmt: s, generation: s.generation, snapshot: rs}
}

// Stale reports whether the statement has moved past this cursor's rows.
func (c *Cursor) Stale() bool {
	return c.stmt == nil || c.stmt.generation != c.generation
}

func (c *Cursor) rows() []database.Row {
	if c.Stale() {
		return nil
	}
	return c.snapshot.Rows
}

// Next advances to the next row. The first call starts iteration from the
// beginning of the snapshot.
func (c *Cursor) Next() bool {
	if !c.started {
		c.started = true
		c.pos = 0
	}
	rows := c.rows()
	if c.pos >= len(rows) {
		c.current = nil
		return false
	}
	c.current = rows[c.pos]
	c.pos++
	return true
}

// Row returns the row Next moved to.
func (c *Cursor) Row() database.Row { return c.current }

// Rewind restarts iteration from the first row.
func (c *Cursor) Rewind() {
	c.started = false
	c.pos = 0
	c.current = nil
}

// Rows returns an iterator over every row from the beginning. Each call
// starts over.
func (c *Cursor) Rows() iter.Seq[database.Row] {
	return func(yield func(database.Row) bool) {
		c.Rewind()
		for c.Next() {
			if !yield(c.current) {
				return
			}
		}
	}
}

// All returns every row from the beginning.
func (c *Cursor) All() []database.Row {
	rows := c.rows()
	out := make([]database.Row, len(rows))
	copy(out, rows)
	return out
}

func (c *Cursor) Len() int { return len(c.rows()) }

// Columns returns the result columns in server order.
func (c *Cursor) Columns() []string {
	if c.Stale() {
		return nil
	}
	return c.snapshot.Columns
}

// RowsAffected returns the count reported by a write.
func (c *Cursor) RowsAffected() int64 {
	if c.Stale() {
		return 0
	}
	return c.snapshot.RowsAffected
}
