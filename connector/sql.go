package connector

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/Konsultn-Engineering/chstmt/database"
	"github.com/Konsultn-Engineering/chstmt/dialect"
)

// sqlProvider opens connections through database/sql with a registered
// driver. ClickHouse is reachable this way over its MySQL or PostgreSQL
// compatible ports, with Config.Dialect set to clickhouse.
type sqlProvider struct {
	driver string
	name   string
	dsn    func(Config) (string, error)
}

func (p sqlProvider) Name() string { return p.name }

func (p sqlProvider) Connect(ctx context.Context, cfg Config) (Connection, error) {
	d, err := dialect.Lookup(cfg.DialectName())
	if err != nil {
		return nil, err
	}

	dsn := cfg.DSN
	if dsn == "" {
		if dsn, err = p.dsn(cfg); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open(p.driver, dsn)
	if err != nil {
		return nil, err
	}
	applyPool(db, cfg.Pool)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLConnection{db: db, dialect: d}, nil
}

func applyPool(db *sql.DB, pool PoolConfig) {
	if pool.MaxOpen > 0 {
		db.SetMaxOpenConns(pool.MaxOpen)
	}
	if pool.MaxIdle > 0 {
		db.SetMaxIdleConns(pool.MaxIdle)
	}
	if pool.MaxLifetime > 0 {
		db.SetConnMaxLifetime(pool.MaxLifetime)
	}
	if pool.MaxIdleTime > 0 {
		db.SetConnMaxIdleTime(pool.MaxIdleTime)
	}
}

// applicationName tags server-side sessions so they can be traced back to
// one client process.
var applicationName = "chstmt-" + uuid.NewString()[:8]

// PostgresDSN builds a libpq-style URL from cfg.
func PostgresDSN(cfg Config) (string, error) {
	b := NewDSNBuilder("postgres").
		Auth(cfg.Username, cfg.Password).
		Host(cfg.Host, portOr(cfg.Port, 5432)).
		Database(cfg.Database).
		WithPostgresDefaults().
		Param("sslmode", cfg.SSLMode).
		Param("application_name", applicationName).
		Params(cfg.Params)
	if err := b.Validate(); err != nil {
		return "", err
	}
	return b.Build(), nil
}

func mysqlDSN(cfg Config) (string, error) {
	mc := mysql.NewConfig()
	mc.User = cfg.Username
	mc.Passwd = cfg.Password
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(cfg.Host, strconv.Itoa(portOr(cfg.Port, 3306)))
	mc.DBName = cfg.Database
	if cfg.ConnectTimeout > 0 {
		mc.Timeout = cfg.ConnectTimeout
	}
	if cfg.QueryTimeout > 0 {
		mc.ReadTimeout = cfg.QueryTimeout
		mc.WriteTimeout = cfg.QueryTimeout
	}
	if len(cfg.Params) > 0 {
		mc.Params = make(map[string]string, len(cfg.Params))
		for k, v := range cfg.Params {
			mc.Params[k] = v
		}
	}
	return mc.FormatDSN(), nil
}

func sqliteDSN(cfg Config) (string, error) {
	if cfg.Database == "" {
		return "", fmt.Errorf("database is required")
	}
	if len(cfg.Params) == 0 {
		return cfg.Database, nil
	}
	q := url.Values{}
	for k, v := range cfg.Params {
		q.Set(k, v)
	}
	return "file:" + cfg.Database + "?" + q.Encode(), nil
}

func portOr(port, def int) int {
	if port > 0 {
		return port
	}
	return def
}

// SQLConnection is a Connection over *sql.DB.
type SQLConnection struct {
	db      *sql.DB
	dialect dialect.Dialect
}

// NewSQLConnection wraps an already opened handle.
func NewSQLConnection(db *sql.DB, d dialect.Dialect) *SQLConnection {
	return &SQLConnection{db: db, dialect: d}
}

func (c *SQLConnection) Client() database.Database {
	return database.NewSqlDatabase(c.db)
}

func (c *SQLConnection) Dialect() dialect.Dialect { return c.dialect }

func (c *SQLConnection) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return c.db.PingContext(ctx)
}

func (c *SQLConnection) Stats() ConnectionStats {
	s := c.db.Stats()
	return ConnectionStats{
		MaxOpen:         s.MaxOpenConnections,
		OpenConnections: s.OpenConnections,
		InUse:           s.InUse,
		Idle:            s.Idle,
		WaitCount:       s.WaitCount,
	}
}

func (c *SQLConnection) Close() error { return c.db.Close() }
