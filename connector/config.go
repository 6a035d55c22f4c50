package connector

import (
	"fmt"
	"time"
)

// Config represents database connection configuration.
type Config struct {
	Provider       string            `json:"provider" yaml:"provider" mapstructure:"provider"`
	Dialect        string            `json:"dialect" yaml:"dialect" mapstructure:"dialect"`
	DSN            string            `json:"dsn" yaml:"dsn" mapstructure:"dsn"`
	Host           string            `json:"host" yaml:"host" mapstructure:"host"`
	Port           int               `json:"port" yaml:"port" mapstructure:"port"`
	Database       string            `json:"database" yaml:"database" mapstructure:"database"`
	Username       string            `json:"username" yaml:"username" mapstructure:"username"`
	Password       string            `json:"password" yaml:"password" mapstructure:"password"`
	SSLMode        string            `json:"ssl_mode" yaml:"ssl_mode" mapstructure:"ssl_mode"`
	Params         map[string]string `json:"params" yaml:"params" mapstructure:"params"`
	Pool           PoolConfig        `json:"pool" yaml:"pool" mapstructure:"pool"`
	ConnectTimeout time.Duration     `json:"connect_timeout" yaml:"connect_timeout" mapstructure:"connect_timeout"`
	QueryTimeout   time.Duration     `json:"query_timeout" yaml:"query_timeout" mapstructure:"query_timeout"`
	Retry          *RetryConfig      `json:"retry,omitempty" yaml:"retry,omitempty" mapstructure:"retry"`
}

// PoolConfig defines connection pool settings.
type PoolConfig struct {
	MaxOpen     int           `json:"max_open" yaml:"max_open" mapstructure:"max_open"`
	MaxIdle     int           `json:"max_idle" yaml:"max_idle" mapstructure:"max_idle"`
	MaxLifetime time.Duration `json:"max_lifetime" yaml:"max_lifetime" mapstructure:"max_lifetime"`
	MaxIdleTime time.Duration `json:"max_idle_time" yaml:"max_idle_time" mapstructure:"max_idle_time"`
}

// RetryConfig defines connection retry behavior.
type RetryConfig struct {
	MaxRetries int           `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`
	BaseDelay  time.Duration `json:"base_delay" yaml:"base_delay" mapstructure:"base_delay"`
	MaxDelay   time.Duration `json:"max_delay" yaml:"max_delay" mapstructure:"max_delay"`
	Backoff    float64       `json:"backoff" yaml:"backoff" mapstructure:"backoff"`
}

// ClusterConfig defines a primary with read replicas.
type ClusterConfig struct {
	Primary      Config   `json:"primary" yaml:"primary" mapstructure:"primary"`
	Replicas     []Config `json:"replicas" yaml:"replicas" mapstructure:"replicas"`
	ReadStrategy string   `json:"read_strategy" yaml:"read_strategy" mapstructure:"read_strategy"`
}

// Validate checks that the configuration names a provider and somewhere to
// connect to.
func (c *Config) Validate() error {
	if c.Provider == "" {
		return fmt.Errorf("provider is required")
	}
	if c.DSN != "" {
		return nil
	}
	if c.Provider == "sqlite3" {
		if c.Database == "" {
			return fmt.Errorf("database is required")
		}
		return nil
	}
	if c.Host == "" {
		return fmt.Errorf("host is required")
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	return nil
}

// DialectName is the quoting dialect for the configuration: the explicit
// Dialect if set, else the provider name.
func (c *Config) DialectName() string {
	if c.Dialect != "" {
		return c.Dialect
	}
	return c.Provider
}

// ValidateCluster validates cluster configuration.
func (cc *ClusterConfig) ValidateCluster() error {
	if err := cc.Primary.Validate(); err != nil {
		return fmt.Errorf("primary: %w", err)
	}
	for i := range cc.Replicas {
		if err := cc.Replicas[i].Validate(); err != nil {
			return fmt.Errorf("replica %d: %w", i, err)
		}
	}

	validStrategies := map[string]bool{
		"round_robin": true,
		"random":      true,
		"primary":     true,
	}

	if cc.ReadStrategy != "" && !validStrategies[cc.ReadStrategy] {
		return fmt.Errorf("invalid read strategy: %s", cc.ReadStrategy)
	}

	return nil
}
