package database

import (
	"context"
	"fmt"
)

// Row is one result row keyed by column name.
type Row map[string]any

// RowSet is the fully materialized result of one statement execution.
// Columns keeps the column order reported by the server.
type RowSet struct {
	Columns      []string
	Rows         []Row
	RowsAffected int64
}

func (rs RowSet) Len() int { return len(rs.Rows) }

// Client dispatches literal SQL to the database. Select is the read path,
// Write the mutation path; Write may return an empty RowSet.
type Client interface {
	Select(ctx context.Context, query string) (RowSet, error)
	Write(ctx context.Context, query string) (RowSet, error)
}

// Database is a Client that also owns a connection.
type Database interface {
	Client
	PingContext(ctx context.Context) error
	Close() error
}

type Rows interface {
	Next() bool
	Scan(dest ...interface{}) error
	Close() error
	Columns() ([]string, error)
	Err() error
}

// Collect drains rows into a RowSet and closes them.
func Collect(rows Rows) (rs RowSet, err error) {
	defer func() {
		if cerr := rows.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	columns, err := rows.Columns()
	if err != nil {
		return RowSet{}, fmt.Errorf("read columns: %w", err)
	}
	rs.Columns = columns

	vals := make([]any, len(columns))
	ptrs := make([]any, len(columns))
	for i := range vals {
		ptrs[i] = &vals[i]
	}

	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return RowSet{}, err
		}
		row := make(Row, len(columns))
		for i, col := range columns {
			row[col] = normalize(vals[i])
		}
		rs.Rows = append(rs.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return RowSet{}, err
	}
	return rs, nil
}

// normalize copies driver-owned byte slices into strings.
func normalize(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}
