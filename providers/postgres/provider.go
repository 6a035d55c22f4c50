package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Konsultn-Engineering/chstmt/connector"
	"github.com/Konsultn-Engineering/chstmt/database"
	"github.com/Konsultn-Engineering/chstmt/dialect"
)

// Provider opens pgx pools. Importing this package registers it as the
// "pgx" and "postgres" providers.
type Provider struct{}

func init() {
	connector.Register("pgx", &Provider{})
	connector.Register("postgres", &Provider{})
}

func (p *Provider) Name() string { return "pgx" }

func (p *Provider) Connect(ctx context.Context, cfg connector.Config) (connector.Connection, error) {
	d, err := dialect.Lookup(cfg.DialectName())
	if err != nil {
		return nil, err
	}

	dsn := cfg.DSN
	if dsn == "" {
		if dsn, err = connector.PostgresDSN(cfg); err != nil {
			return nil, err
		}
	}

	// Apply defaults
	if cfg.Pool.MaxOpen <= 0 {
		cfg.Pool.MaxOpen = 10
	}
	if cfg.Pool.MaxIdle < 0 {
		cfg.Pool.MaxIdle = 0
	}
	if cfg.Pool.MaxLifetime == 0 {
		cfg.Pool.MaxLifetime = time.Hour
	}
	if cfg.Pool.MaxIdleTime == 0 {
		cfg.Pool.MaxIdleTime = 30 * time.Minute
	}

	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}

	poolCfg.MaxConns = int32(cfg.Pool.MaxOpen)
	poolCfg.MinConns = int32(cfg.Pool.MaxIdle)
	poolCfg.MaxConnLifetime = cfg.Pool.MaxLifetime
	poolCfg.MaxConnIdleTime = cfg.Pool.MaxIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return &PgxConnection{pool: pool, dialect: d}, nil
}

// PgxConnection is a connector.Connection over a pgx pool.
type PgxConnection struct {
	pool    *pgxpool.Pool
	dialect dialect.Dialect
}

// Client returns a database abstraction over the pool.
func (p *PgxConnection) Client() database.Database {
	return database.NewPgxDatabase(p.pool)
}

func (p *PgxConnection) Dialect() dialect.Dialect {
	return p.dialect
}

// Health checks the connection health.
func (p *PgxConnection) Health(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

// Stats returns connection pool statistics.
func (p *PgxConnection) Stats() connector.ConnectionStats {
	s := p.pool.Stat()
	return connector.ConnectionStats{
		MaxOpen:         int(s.MaxConns()),
		OpenConnections: int(s.TotalConns()),
		InUse:           int(s.AcquiredConns()),
		Idle:            int(s.IdleConns()),
		WaitCount:       s.EmptyAcquireCount(),
	}
}

// Close closes the connection pool.
func (p *PgxConnection) Close() error {
	p.pool.Close()
	return nil
}

var _ connector.Connection = (*PgxConnection)(nil)
