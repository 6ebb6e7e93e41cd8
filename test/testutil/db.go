package testutil

import (
	"database/sql"
	"os"
	"strconv"
	"testing"

	"github.com/scoutdb/codescout/internal/config"
	"github.com/scoutdb/codescout/internal/db"
)

// OpenTestDB connects to the postgres instance named by TEST_DB_HOST and
// applies migrations. Tests calling it are skipped when the variable is
// unset so the unit suite stays self-contained. TEST_DB_PORT, TEST_DB_USER,
// TEST_DB_PASSWORD and TEST_DB_NAME override the defaults.
func OpenTestDB(t *testing.T) (*sql.DB, func()) {
	t.Helper()
	host := os.Getenv("TEST_DB_HOST")
	if host == "" {
		t.Skip("TEST_DB_HOST not set, skipping postgres test")
	}
	port := 5432
	if v := os.Getenv("TEST_DB_PORT"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			t.Fatalf("bad TEST_DB_PORT %q: %v", v, err)
		}
		port = p
	}
	conn, err := db.Open(config.DatabaseConfig{
		Host:     host,
		Port:     port,
		User:     envOr("TEST_DB_USER", "codescout"),
		Password: envOr("TEST_DB_PASSWORD", "codescout_pass"),
		DBName:   envOr("TEST_DB_NAME", "codescout_test"),
		SSLMode:  "disable",
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.ApplyMigrations(conn); err != nil {
		t.Fatalf("migrations: %v", err)
	}
	return conn, func() {
		_ = conn.Close()
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
