package dialect

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Dialect is the quoting platform the rewriter consults when it renders
// string literals.
type Dialect interface {
	Name() string
	QuoteIdentifier(name string) string
	QuoteStringLiteral(s string) string
}

var (
	mu       sync.RWMutex
	dialects = map[string]func() Dialect{
		"clickhouse": NewClickHouseDialect,
		"postgres":   NewPostgresDialect,
		"pgx":        NewPostgresDialect,
		"pq":         NewPostgresDialect,
		"mysql":      NewMySQLDialect,
		"sqlite3":    NewSQLiteDialect,
	}
)

// Register makes a dialect available to Lookup under name.
func Register(name string, factory func() Dialect) {
	mu.Lock()
	defer mu.Unlock()
	dialects[strings.ToLower(name)] = factory
}

// Lookup returns the dialect registered under name.
func Lookup(name string) (Dialect, error) {
	mu.RLock()
	factory, ok := dialects[strings.ToLower(name)]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("dialect %s not registered", name)
	}
	return factory(), nil
}

// Names lists the registered dialect names in sorted order.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(dialects))
	for name := range dialects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
