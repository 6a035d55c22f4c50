package connector

import (
	"context"
)

// Provider opens connections for one driver.
type Provider interface {
	Connect(ctx context.Context, config Config) (Connection, error)
	Name() string
}
