package config

import (
	"fmt"
	"strings"
)

// StoreBackend selects the listing store implementation.
type StoreBackend string

const (
	// StoreBackendSQLite keeps listings in a local SQLite file.
	StoreBackendSQLite StoreBackend = "sqlite"
	// StoreBackendPostgres keeps listings in PostgreSQL.
	StoreBackendPostgres StoreBackend = "postgres"
	// StoreBackendRedis keeps listings in Redis next to the sessions.
	StoreBackendRedis StoreBackend = "redis"
)

// UnmarshalText implements encoding.TextUnmarshaler for StoreBackend.
func (b *StoreBackend) UnmarshalText(text []byte) error {
	v := StoreBackend(strings.ToLower(strings.TrimSpace(string(text))))
	switch v {
	case StoreBackendSQLite, StoreBackendPostgres, StoreBackendRedis:
		*b = v
		return nil
	default:
		return fmt.Errorf("invalid StoreBackend: %q (valid options: sqlite, postgres, redis)", string(text))
	}
}

// StoreConfig selects and configures the listing store.
type StoreConfig struct {
	Backend StoreBackend `env:"STORE_BACKEND" envDefault:"sqlite"`

	// SQLitePath is the database file used by the sqlite backend.
	SQLitePath string `env:"SQLITE_PATH" envDefault:"guildboard.db"`

	// ListingKeyPrefix namespaces listing keys in Redis.
	ListingKeyPrefix string `env:"LISTING_KEY_PREFIX" envDefault:"listing:"`
}

// Sanitize applies guardrails to store configuration values.
func (s *StoreConfig) Sanitize() {
	if s.Backend == "" {
		s.Backend = StoreBackendSQLite
	}
	if s.SQLitePath == "" {
		s.SQLitePath = "guildboard.db"
	}
	if s.ListingKeyPrefix == "" {
		s.ListingKeyPrefix = "listing:"
	}
}

// DBConfig contains PostgreSQL database configuration.
type DBConfig struct {
	Host     string `env:"HOST"                    envDefault:"localhost"`
	Port     int    `env:"PORT"                    envDefault:"5432"`
	User     string `env:"USER"                    envDefault:"guildboard"`
	Password string `env:"PASSWORD"                envDefault:"guildboard"`
	Name     string `env:"NAME"                    envDefault:"guildboard"`
	SSLMode  string `env:"SSL_MODE"                envDefault:"disable"` // Use 'disable' for local dev, 'require' for production
	// RunMigrationsOnStart controls whether the application automatically applies migrations during startup.
	RunMigrationsOnStart bool `env:"RUN_MIGRATIONS_ON_START" envDefault:"true"`
}

// RedisConfig contains Redis configuration.
type RedisConfig struct {
	URI                string   `env:"URI"                  envDefault:"localhost:6379"`
	Password           string   `env:"PASSWORD"             envDefault:""`
	SentinelNodes      []string `env:"SENTINEL_NODES"       envDefault:"localhost:26379"`
	SentinelMasterName string   `env:"SENTINEL_MASTER_NAME" envDefault:"mymaster"`
	SentinelPassword   string   `env:"SENTINEL_PASSWORD"    envDefault:""`
	UseSentinel        bool     `env:"USE_SENTINEL"         envDefault:"false"`
	ClusterNodes       []string `env:"CLUSTER_NODES"        envDefault:""`
	UseCluster         bool     `env:"USE_CLUSTER"          envDefault:"false"`
	// Embedded runs an in-process Redis instead of connecting anywhere. Sessions and
	// Redis listings are lost on restart; only honoured in dev mode.
	Embedded bool `env:"EMBEDDED" envDefault:"false"`
}
