package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	// Import pgx driver for database/sql compatibility in tests.
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/guildboard/guildboard/internal/migrate"
)

// TestDBConfig holds configuration for test database.
type TestDBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

// DefaultTestDBConfig returns default test database configuration.
// Defaults to port 55432 (local test DB from docker-compose test profile).
// CI/CD environments should set TEST_DB_PORT=5432 explicitly.
func DefaultTestDBConfig() TestDBConfig {
	return TestDBConfig{
		Host:     getEnvOrDefault("TEST_DB_HOST", "localhost"),
		Port:     getEnvOrDefault("TEST_DB_PORT", "55432"),
		User:     getEnvOrDefault("TEST_DB_USER", "guildboard"),
		Password: getEnvOrDefault("TEST_DB_PASSWORD", "guildboard"),
		DBName:   getEnvOrDefault("TEST_DB_NAME", "guildboard"),
	}
}

// DSN renders the config as a pgx connection string.
func (c TestDBConfig) DSN() string {
	hostPort := net.JoinHostPort(c.Host, c.Port)
	return fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=%s",
		c.User, c.Password, hostPort, c.DBName, getEnvOrDefault("DB_SSL_MODE", "disable"))
}

// SetupTestDB opens the Postgres test database, applies migrations and empties the listings table.
func SetupTestDB(t TestingTB) *sql.DB {
	t.Helper()
	SkipIfNoTestDB(t)

	db, err := sql.Open("pgx", DefaultTestDBConfig().DSN())
	if err != nil {
		t.Fatal("Failed to open database:", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err = db.PingContext(ctx); err != nil {
		t.Fatal("Failed to connect to test database. Make sure PostgreSQL is running (docker-compose up -d):", err)
	}

	if migrateErr := migrate.Run(ctx, db, migrate.Postgres); migrateErr != nil {
		t.Fatal("Failed to run migrations:", migrateErr)
	}

	CleanupTestDB(t, db)
	return db
}

// CleanupTestDB removes all test data from the database.
func CleanupTestDB(t TestingTB, db *sql.DB) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if _, err := db.ExecContext(ctx, "DELETE FROM listings"); err != nil {
		t.Fatalf("Failed to clean up table listings: %v", err)
	}
}

// TestingTB is an interface that covers both *testing.T and *testing.B.
type TestingTB interface {
	Helper()
	Skip(args ...any)
	Skipf(format string, args ...any)
	Fatal(args ...any)
	Fatalf(format string, args ...any)
	Logf(format string, args ...any)
}

// SkipIfNoTestDB skips the test if test database is not available.
// Set TEST_REQUIRE_DB to turn the skip into a failure.
func SkipIfNoTestDB(t TestingTB) {
	t.Helper()

	db, err := sql.Open("pgx", DefaultTestDBConfig().DSN())
	if err != nil {
		if requireDB() {
			t.Fatal("Test database not available:", err)
		}
		t.Skip("Test database not available:", err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			t.Logf("test db close failed: %v", cerr)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if pingErr := db.PingContext(ctx); pingErr != nil {
		if requireDB() {
			t.Fatal("Test database not available:", pingErr)
		}
		t.Skip("Test database not available:", pingErr)
	}
}

// getEnvOrDefault returns environment variable value or default.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// envBool parses common truthy values from env vars.
func envBool(key string) bool {
	v := strings.ToLower(os.Getenv(key))
	return v == "1" || v == "true" || v == "yes" || v == "y"
}

func requireDB() bool { return envBool("TEST_REQUIRE_DB") || envBool("TEST_REQUIRE_INFRA") }

// FixedTimeFunc returns a function that always returns the same time.
func FixedTimeFunc(t time.Time) func() time.Time {
	return func() time.Time {
		return t
	}
}

// TestTime returns a fixed time for testing.
func TestTime() time.Time {
	return time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
}
