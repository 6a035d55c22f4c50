package connector

import (
	"context"
	"fmt"
	"math/rand"
	"sync"

	"github.com/Konsultn-Engineering/chstmt/database"
	"github.com/Konsultn-Engineering/chstmt/dialect"
)

// Cluster routes the read path to replicas and the write path to the
// primary. It is itself a Connection, so a statement built on
// cluster.Client() splits its traffic without knowing about replicas.
type Cluster struct {
	strategy string
	primary  Connection
	replicas []Connection
	mu       sync.Mutex
	readIdx  int
}

// OpenCluster connects the primary and every replica.
func OpenCluster(ctx context.Context, cfg ClusterConfig) (*Cluster, error) {
	if err := cfg.ValidateCluster(); err != nil {
		return nil, err
	}

	primary, err := Open(ctx, cfg.Primary)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to primary: %w", err)
	}

	var replicas []Connection
	for i, replicaCfg := range cfg.Replicas {
		replica, err := Open(ctx, replicaCfg)
		if err != nil {
			// Close previously created connections on failure
			primary.Close()
			for _, r := range replicas {
				r.Close()
			}
			return nil, fmt.Errorf("failed to connect to replica %d: %w", i, err)
		}
		replicas = append(replicas, replica)
	}

	return NewCluster(cfg.ReadStrategy, primary, replicas...), nil
}

// NewCluster assembles a cluster from open connections.
func NewCluster(strategy string, primary Connection, replicas ...Connection) *Cluster {
	return &Cluster{strategy: strategy, primary: primary, replicas: replicas}
}

// Primary returns the primary connection.
func (pc *Cluster) Primary() Connection {
	return pc.primary
}

// Replicas returns all replica connections.
func (pc *Cluster) Replicas() []Connection {
	out := make([]Connection, len(pc.replicas))
	copy(out, pc.replicas)
	return out
}

// Read returns a connection for read operations based on the configured strategy.
func (pc *Cluster) Read() Connection {
	if len(pc.replicas) == 0 {
		return pc.primary
	}

	switch pc.strategy {
	case "random":
		return pc.replicas[rand.Intn(len(pc.replicas))]
	case "round_robin":
		pc.mu.Lock()
		idx := pc.readIdx % len(pc.replicas)
		pc.readIdx++
		pc.mu.Unlock()
		return pc.replicas[idx]
	default:
		return pc.primary
	}
}

// Write returns a connection for write operations (always primary).
func (pc *Cluster) Write() Connection {
	return pc.primary
}

// Client returns a database client that sends Select to Read() and Write
// to the primary.
func (pc *Cluster) Client() database.Database {
	return &clusterClient{cluster: pc}
}

// Dialect returns the primary's dialect.
func (pc *Cluster) Dialect() dialect.Dialect {
	return pc.primary.Dialect()
}

// Health checks the health of all connections in the cluster.
func (pc *Cluster) Health(ctx context.Context) error {
	if err := pc.primary.Health(ctx); err != nil {
		return fmt.Errorf("primary health check failed: %w", err)
	}

	for i, replica := range pc.replicas {
		if err := replica.Health(ctx); err != nil {
			return fmt.Errorf("replica %d health check failed: %w", i, err)
		}
	}

	return nil
}

// Stats returns aggregated statistics from all connections.
func (pc *Cluster) Stats() ConnectionStats {
	stats := pc.primary.Stats()

	for _, replica := range pc.replicas {
		stats = stats.Add(replica.Stats())
	}

	return stats
}

// Close closes all connections in the cluster.
func (pc *Cluster) Close() error {
	var lastErr error

	if err := pc.primary.Close(); err != nil {
		lastErr = err
	}

	for _, replica := range pc.replicas {
		if err := replica.Close(); err != nil {
			lastErr = err
		}
	}

	return lastErr
}

type clusterClient struct {
	cluster *Cluster
}

func (c *clusterClient) Select(ctx context.Context, query string) (database.RowSet, error) {
	return c.cluster.Read().Client().Select(ctx, query)
}

func (c *clusterClient) Write(ctx context.Context, query string) (database.RowSet, error) {
	return c.cluster.Write().Client().Write(ctx, query)
}

func (c *clusterClient) PingContext(ctx context.Context) error {
	return c.cluster.Health(ctx)
}

func (c *clusterClient) Close() error {
	return c.cluster.Close()
}

var _ Connection = (*Cluster)(nil)
