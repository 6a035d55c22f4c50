package database

import (
	"context"
	"database/sql"
)

// SqlDatabase implements Database for *sql.DB.
type SqlDatabase struct {
	db *sql.DB
}

// NewSqlDatabase creates a new SqlDatabase.
func NewSqlDatabase(db *sql.DB) *SqlDatabase {
	return &SqlDatabase{db: db}
}

// Select runs a query and materializes every returned row.
func (s *SqlDatabase) Select(ctx context.Context, query string) (RowSet, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return RowSet{}, err
	}
	return Collect(rows)
}

// Write executes a statement that returns no rows.
func (s *SqlDatabase) Write(ctx context.Context, query string) (RowSet, error) {
	res, err := s.db.ExecContext(ctx, query)
	if err != nil {
		return RowSet{}, err
	}
	// Not every driver reports affected rows.
	n, _ := res.RowsAffected()
	return RowSet{RowsAffected: n}, nil
}

// PingContext verifies the connection to the database is alive.
func (s *SqlDatabase) PingContext(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database.
func (s *SqlDatabase) Close() error { return s.db.Close() }

// DB returns the wrapped handle.
func (s *SqlDatabase) DB() *sql.DB { return s.db }

// Assert that SqlDatabase implements the Database interface.
var _ Database = (*SqlDatabase)(nil)
