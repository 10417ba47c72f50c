// Package testutil provides utilities for integration testing
package testutil

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/Hiro-mackay/pdfops/internal/infrastructure/database"
	"github.com/Hiro-mackay/pdfops/internal/infrastructure/sqlite"
	"github.com/Hiro-mackay/pdfops/pkg/config"
)

var (
	testRedis    *redis.Client
	testPool     *pgxpool.Pool
	setupOnce    sync.Once
	pgOnce       sync.Once
	teardownOnce sync.Once
)

// TestConfig holds test environment configuration
type TestConfig struct {
	// DatabaseURL is optional; PostgreSQL-backed tests are skipped without it
	DatabaseURL string
	// RedisURL is optional; rate limiting and token revocation are disabled without it
	RedisURL     string
	JWTSecretKey string
}

// DefaultTestConfig returns default test configuration
func DefaultTestConfig() TestConfig {
	return TestConfig{
		DatabaseURL:  os.Getenv("TEST_DATABASE_URL"),
		RedisURL:     os.Getenv("TEST_REDIS_URL"),
		JWTSecretKey: "test-secret-key-for-integration-tests",
	}
}

// AppConfig returns an application config for an in-memory test server
func (c TestConfig) AppConfig() *config.Config {
	cfg := config.Default()
	cfg.Database.Driver = "sqlite"
	cfg.Redis.URL = c.RedisURL
	cfg.JWT.SecretKey = c.JWTSecretKey
	cfg.JWT.Issuer = "pdfops-test"
	cfg.JWT.Audience = []string{"pdfops-api-test"}
	cfg.JWT.AccessTokenExpiry = 15 * time.Minute
	cfg.Geo.Enabled = false
	cfg.History.AsyncTracking = false
	cfg.History.ArchiveEnabled = false
	return cfg
}

// SetupTestEnvironment connects to the optional test Redis
func SetupTestEnvironment(t *testing.T) *redis.Client {
	t.Helper()

	config := DefaultTestConfig()
	if config.RedisURL == "" {
		return nil
	}

	setupOnce.Do(func() {
		opt, err := redis.ParseURL(config.RedisURL)
		if err != nil {
			log.Fatalf("Failed to parse Redis URL: %v", err)
		}
		testRedis = redis.NewClient(opt)

		if err := testRedis.Ping(context.Background()).Err(); err != nil {
			log.Fatalf("Failed to ping Redis: %v", err)
		}
	})

	return testRedis
}

// CleanupTestEnvironment closes test connections
func CleanupTestEnvironment() {
	teardownOnce.Do(func() {
		if testRedis != nil {
			testRedis.Close()
		}
		if testPool != nil {
			testPool.Close()
		}
	})
}

// NewTestDB opens an in-memory SQLite database closed at test end
func NewTestDB(t *testing.T) *sqlite.DB {
	t.Helper()

	db, err := sqlite.OpenMemory(context.Background())
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// MigrationsDir returns the absolute path of the repository migrations
func MigrationsDir() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..", "migrations")
}

// SetupTestPostgres connects to TEST_DATABASE_URL and applies migrations once
// The test is skipped when no database is configured
func SetupTestPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()

	config := DefaultTestConfig()
	if config.DatabaseURL == "" {
		t.Skip("TEST_DATABASE_URL is not set")
	}

	pgOnce.Do(func() {
		migrator, err := database.NewMigrator(MigrationsDir(), config.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to create migrator: %v", err)
		}
		if _, err := migrator.Up(); err != nil {
			log.Fatalf("Failed to apply migrations: %v", err)
		}
		_ = migrator.Close()

		testPool, err = pgxpool.New(context.Background(), config.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to connect to test database: %v", err)
		}
		if err := testPool.Ping(context.Background()); err != nil {
			log.Fatalf("Failed to ping test database: %v", err)
		}
	})

	return testPool
}

// TruncatePostgresTables clears specified PostgreSQL tables for test isolation
// Sequences keep counting so deleted IDs are never handed out again
func TruncatePostgresTables(t *testing.T, pool *pgxpool.Pool, tables ...string) {
	t.Helper()

	query := fmt.Sprintf("TRUNCATE TABLE %s CASCADE", strings.Join(tables, ", "))
	if _, err := pool.Exec(context.Background(), query); err != nil {
		t.Fatalf("Failed to truncate tables %v: %v", tables, err)
	}
}

// TruncateTables clears specified tables for test isolation
func TruncateTables(t *testing.T, db *sqlite.DB, tables ...string) {
	t.Helper()
	ctx := context.Background()

	for _, table := range tables {
		if _, err := db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			t.Fatalf("Failed to truncate table %s: %v", table, err)
		}
	}
}

// FlushRedis clears Redis test database
func FlushRedis(t *testing.T, client *redis.Client) {
	t.Helper()
	if client == nil {
		return
	}

	if err := client.FlushDB(context.Background()).Err(); err != nil {
		t.Fatalf("Failed to flush Redis: %v", err)
	}
}
