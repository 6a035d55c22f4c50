package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxDatabase implements Database for pgxpool.Pool.
type PgxDatabase struct {
	pool *pgxpool.Pool
}

// NewPgxDatabase creates a new PgxDatabase.
func NewPgxDatabase(pool *pgxpool.Pool) *PgxDatabase {
	return &PgxDatabase{pool: pool}
}

// Select runs a query and materializes every returned row. The query is
// sent with the simple protocol since all parameters are already literals.
func (p *PgxDatabase) Select(ctx context.Context, query string) (RowSet, error) {
	rows, err := p.pool.Query(ctx, query, pgx.QueryExecModeSimpleProtocol)
	if err != nil {
		return RowSet{}, err
	}
	return Collect(&PgxRows{rows: rows})
}

// Write executes a statement that returns no rows.
func (p *PgxDatabase) Write(ctx context.Context, query string) (RowSet, error) {
	cmdTag, err := p.pool.Exec(ctx, query, pgx.QueryExecModeSimpleProtocol)
	if err != nil {
		return RowSet{}, err
	}
	return RowSet{RowsAffected: cmdTag.RowsAffected()}, nil
}

// PingContext verifies the connection to the database is alive.
func (p *PgxDatabase) PingContext(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

// Close closes the database.
func (p *PgxDatabase) Close() error {
	p.pool.Close()
	return nil
}

// PgxRows implements Rows for pgx.Rows.
type PgxRows struct {
	rows              pgx.Rows
	fieldDescriptions []pgconn.FieldDescription
}

// Next prepares the next result row for reading.
func (p *PgxRows) Next() bool { return p.rows.Next() }

// Scan copies the columns from the current row into the provided destinations.
func (p *PgxRows) Scan(dest ...any) error {
	vals, err := p.rows.Values()
	if err != nil {
		return err
	}
	for i := range dest {
		if i >= len(vals) {
			break
		}
		ptr, ok := dest[i].(*any)
		if !ok {
			return fmt.Errorf("scan destination %d is %T, want *any", i, dest[i])
		}
		*ptr = vals[i]
	}
	return nil
}

// Close closes the rows iterator.
func (p *PgxRows) Close() error { p.rows.Close(); return nil }

// Err returns any error hit during iteration.
func (p *PgxRows) Err() error { return p.rows.Err() }

// Columns returns the column names.
func (p *PgxRows) Columns() ([]string, error) {
	if p.fieldDescriptions == nil {
		p.fieldDescriptions = p.rows.FieldDescriptions()
	}
	columns := make([]string, len(p.fieldDescriptions))
	for i, fd := range p.fieldDescriptions {
		columns[i] = fd.Name
	}
	return columns, nil
}

// Assert that PgxDatabase implements the Database interface.
var _ Database = (*PgxDatabase)(nil)
