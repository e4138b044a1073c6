package testutil

import (
	"database/sql"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/themizzi/swaglabs/internal/config"
	"github.com/themizzi/swaglabs/internal/database"
)

// localPostgres is used for every POSTGRES_* variable left unset
var localPostgres = map[string]string{
	"POSTGRES_USER":     "postgres",
	"POSTGRES_PASSWORD": "postgres",
	"POSTGRES_DB":       "postgres",
	"POSTGRES_HOSTNAME": "localhost",
}

// TestDatabase is a migrated schema private to one test
type TestDatabase struct {
	DB         *sql.DB
	SchemaName string
	admin      *sql.DB
}

// SetupTestDatabase creates and migrates a throwaway schema. The schema is
// dropped when the test finishes.
func SetupTestDatabase(t *testing.T) *TestDatabase {
	t.Helper()

	pgConfig, err := config.LoadPostgresConfig(func(key string) string {
		if value := os.Getenv(key); value != "" {
			return value
		}
		return localPostgres[key]
	})
	if err != nil {
		t.Fatalf("Failed to load postgres config: %v", err)
	}

	admin, err := database.Open(pgConfig)
	if err != nil {
		t.Fatalf("Failed to connect to postgres: %v", err)
	}

	td := &TestDatabase{
		SchemaName: "carts_" + strings.ReplaceAll(uuid.NewString(), "-", ""),
		admin:      admin,
	}
	t.Cleanup(func() { td.Teardown(t) })

	if _, err := admin.Exec(fmt.Sprintf("CREATE SCHEMA %s", td.SchemaName)); err != nil {
		t.Fatalf("Failed to create schema %s: %v", td.SchemaName, err)
	}

	td.DB, err = sql.Open("postgres", fmt.Sprintf("%s search_path=%s", pgConfig.ConnectionString(), td.SchemaName))
	if err != nil {
		t.Fatalf("Failed to open schema %s: %v", td.SchemaName, err)
	}
	td.DB.SetMaxOpenConns(5)
	td.DB.SetConnMaxLifetime(time.Minute)

	if err := database.RunMigrations(td.DB); err != nil {
		t.Fatalf("Failed to run migrations in %s: %v", td.SchemaName, err)
	}
	return td
}

// Teardown drops the schema and closes both connections. It is safe to call twice.
func (td *TestDatabase) Teardown(t *testing.T) {
	t.Helper()

	if td.DB != nil {
		td.DB.Close()
		td.DB = nil
	}
	if td.admin == nil {
		return
	}
	if _, err := td.admin.Exec(fmt.Sprintf("DROP SCHEMA IF EXISTS %s CASCADE", td.SchemaName)); err != nil {
		t.Logf("Warning: failed to drop schema %s: %v", td.SchemaName, err)
	}
	td.admin.Close()
	td.admin = nil
}
