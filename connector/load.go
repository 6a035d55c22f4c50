package connector

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

var AppFs = afero.NewOsFs()

const EnvPrefix = "CHSTMT"

// envKeys lists every Config key settable from the environment. Nested keys
// map to CHSTMT_POOL_MAX_OPEN, CHSTMT_RETRY_MAX_RETRIES and so on.
var envKeys = []string{
	"provider", "dialect", "dsn", "host", "port", "database", "username", "password", "ssl_mode",
	"connect_timeout", "query_timeout",
	"pool.max_open", "pool.max_idle", "pool.max_lifetime", "pool.max_idle_time",
	"retry.max_retries", "retry.base_delay", "retry.max_delay", "retry.backoff",
}

// LoadConfig reads connection configuration. Sources, lowest priority first:
// defaults, a .chstmt.yaml found in the working directory or the user's
// config directory (or the explicit path), .env and .env.local files, and
// CHSTMT_* environment variables.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetFs(AppFs)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(".chstmt")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := homedir.Dir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "chstmt"))
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("provider", "mysql")
	v.SetDefault("dialect", "clickhouse")
	v.SetDefault("host", "localhost")
	v.SetDefault("port", 9004)
	v.SetDefault("database", "default")
	v.SetDefault("username", "default")
	v.SetDefault("pool.max_open", 10)
	v.SetDefault("pool.max_idle", 2)
	v.SetDefault("connect_timeout", "10s")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	if err := loadDotEnv(); err != nil {
		return nil, err
	}
	// Keys that only appear in the environment need binding for Unmarshal.
	for _, key := range envKeys {
		_ = v.BindEnv(key)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

// loadDotEnv loads .env and then .env.local, which wins. Variables already
// set in the process environment are left alone by .env.
func loadDotEnv() error {
	if exists, _ := afero.Exists(AppFs, ".env"); exists {
		if err := loadEnvFile(".env", false); err != nil {
			return err
		}
	}
	if exists, _ := afero.Exists(AppFs, ".env.local"); exists {
		if err := loadEnvFile(".env.local", true); err != nil {
			return err
		}
	}
	return nil
}

func loadEnvFile(name string, override bool) error {
	f, err := AppFs.Open(name)
	if err != nil {
		return err
	}
	defer f.Close()

	env, err := godotenv.Parse(f)
	if err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	for k, val := range env {
		if _, set := os.LookupEnv(k); set && !override {
			continue
		}
		if err := os.Setenv(k, val); err != nil {
			return err
		}
	}
	return nil
}
