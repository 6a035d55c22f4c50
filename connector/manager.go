package connector

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/Konsultn-Engineering/chstmt/logging"
)

// registry maps provider names to providers. Lookups are case-insensitive.
type registry struct {
	mu        sync.RWMutex
	providers map[string]Provider
}

var providers = &registry{providers: make(map[string]Provider)}

func init() {
	Register("pq", sqlProvider{driver: "postgres", name: "pq", dsn: PostgresDSN})
	Register("mysql", sqlProvider{driver: "mysql", name: "mysql", dsn: mysqlDSN})
	Register("sqlite3", sqlProvider{driver: "sqlite3", name: "sqlite3", dsn: sqliteDSN})
}

func (r *registry) add(name string, p Provider) {
	r.mu.Lock()
	r.providers[strings.ToLower(name)] = p
	r.mu.Unlock()
}

func (r *registry) get(name string) (Provider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.providers[strings.ToLower(name)]
	return p, ok
}

func (r *registry) names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Register makes a provider available under name, replacing any previous
// registration. Provider packages call it from init.
func Register(name string, provider Provider) {
	providers.add(name, provider)
}

// Providers lists registered provider names in sorted order.
func Providers() []string {
	return providers.names()
}

type standardConnector struct {
	provider Provider
	config   Config
}

// New validates config and binds it to its provider without connecting.
func New(config Config) (Connector, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	provider, ok := providers.get(config.Provider)
	if !ok {
		return nil, fmt.Errorf("provider %s not registered (have %s)",
			config.Provider, strings.Join(Providers(), ", "))
	}
	return &standardConnector{provider: provider, config: config}, nil
}

// Open is New followed by Connect.
func Open(ctx context.Context, config Config) (Connection, error) {
	c, err := New(config)
	if err != nil {
		return nil, err
	}
	return c.Connect(ctx)
}

func (c *standardConnector) Connect(ctx context.Context) (Connection, error) {
	if c.config.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.ConnectTimeout)
		defer cancel()
	}

	logging.Debug("connecting",
		"provider", c.provider.Name(),
		"dialect", c.config.DialectName(),
		"host", c.config.Host,
		"database", c.config.Database,
		"dsn", RedactDSN(c.config.DSN))

	connect := func(ctx context.Context) (Connection, error) {
		return c.provider.Connect(ctx, c.config)
	}
	if c.config.Retry == nil {
		return connect(ctx)
	}
	conn, err := retryConnect(ctx, *c.config.Retry, connect)
	if err != nil {
		return nil, fmt.Errorf("failed to connect after %d attempts: %w", c.config.Retry.MaxRetries, err)
	}
	return conn, nil
}

func (c *standardConnector) Close() error {
	return nil
}
