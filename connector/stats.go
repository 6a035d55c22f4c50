package connector

import "fmt"

// ConnectionStats is a snapshot of a connection pool.
type ConnectionStats struct {
	MaxOpen         int
	OpenConnections int
	InUse           int
	Idle            int
	WaitCount       int64
}

// Add sums two snapshots, used to report a cluster as one pool.
func (s ConnectionStats) Add(o ConnectionStats) ConnectionStats {
	return ConnectionStats{
		MaxOpen:         s.MaxOpen + o.MaxOpen,
		OpenConnections: s.OpenConnections + o.OpenConnections,
		InUse:           s.InUse + o.InUse,
		Idle:            s.Idle + o.Idle,
		WaitCount:       s.WaitCount + o.WaitCount,
	}
}

func (s ConnectionStats) String() string {
	return fmt.Sprintf("open=%d/%d in_use=%d idle=%d waits=%d",
		s.OpenConnections, s.MaxOpen, s.InUse, s.Idle, s.WaitCount)
}
