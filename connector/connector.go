package connector

import (
	"context"

	"github.com/Konsultn-Engineering/chstmt/database"
	"github.com/Konsultn-Engineering/chstmt/dialect"
)

// Connection is an open database handle together with the quoting dialect
// statements against it should use.
type Connection interface {
	Client() database.Database
	Dialect() dialect.Dialect
	Health(ctx context.Context) error
	Stats() ConnectionStats
	Close() error
}

type Connector interface {
	Connect(ctx context.Context) (Connection, error)
	Close() error
}
