// Package config loads runtime settings from TAILORBOOK_* environment variables.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Prefix is prepended to every variable name.
const Prefix = "TAILORBOOK_"

// Storage drivers accepted by Config.Storage.
const (
	// StorageMemory keeps state in process memory only.
	StorageMemory = "memory"
	// StorageSQLite snapshots state to a SQLite file.
	StorageSQLite = "sqlite"
	// StoragePostgres snapshots state to a Postgres table.
	StoragePostgres = "postgres"
)

// Config is the full runtime configuration.
type Config struct {
	Storage          string `env:"STORAGE" envDefault:"memory"`
	SQLitePath       string `env:"SQLITE_PATH" envDefault:"tailorbook.db"`
	PostgresDSN      string `env:"POSTGRES_DSN"`
	Blob             Blob   `envPrefix:"BLOB_"`
	Log              Log    `envPrefix:"LOG_"`
	CompanyName      string `env:"COMPANY_NAME" envDefault:"LYZMA CREATIONS"`
	CompanyLogo      string `env:"COMPANY_LOGO"`
	SeedDemo         bool   `env:"SEED_DEMO"`
	MetricsNamespace string `env:"METRICS_NAMESPACE" envDefault:"tailorbook"`
}

// Blob configures gallery image storage.
type Blob struct {
	Driver      string        `env:"DRIVER" envDefault:"none"`
	FSRoot      string        `env:"FS_ROOT" envDefault:"./images"`
	S3Bucket    string        `env:"S3_BUCKET"`
	S3Region    string        `env:"S3_REGION" envDefault:"us-east-1"`
	S3Endpoint  string        `env:"S3_ENDPOINT"`
	S3PathStyle bool          `env:"S3_PATH_STYLE"`
	URLTTL      time.Duration `env:"URL_TTL" envDefault:"15m"`
}

// Log configures the slog handler.
type Log struct {
	Level  string `env:"LEVEL" envDefault:"info"`
	Format string `env:"FORMAT" envDefault:"text"`
}

// Load parses the process environment.
func Load() (Config, error) {
	return parse(env.Options{Prefix: Prefix})
}

// LoadFrom parses vars instead of the process environment. Keys include the prefix.
func LoadFrom(vars map[string]string) (Config, error) {
	return parse(env.Options{Prefix: Prefix, Environment: vars})
}

func parse(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.Storage = strings.ToLower(strings.TrimSpace(cfg.Storage))
	cfg.Blob.Driver = strings.ToLower(strings.TrimSpace(cfg.Blob.Driver))
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects unknown drivers and log settings.
func (c Config) Validate() error {
	switch c.Storage {
	case StorageMemory, StorageSQLite, StoragePostgres:
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage)
	}
	switch c.Blob.Driver {
	case "none", "memory", "fs", "s3":
	default:
		return fmt.Errorf("unknown blob driver %q", c.Blob.Driver)
	}
	if c.Blob.Driver == "s3" && c.Blob.S3Bucket == "" {
		return fmt.Errorf("%sBLOB_S3_BUCKET required for s3 blob driver", Prefix)
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}
	return nil
}

// SlogLevel maps Level onto slog.
func (l Log) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(l.Level))); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", l.Level, err)
	}
	return lvl, nil
}
