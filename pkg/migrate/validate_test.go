package migrate_test

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/arjunmehra/shopkart-backend/pkg/migrate"
)

func TestValidateDirAcceptsShippedMigrations(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("shipped migrations failed validation: %v", err)
	}
}

func TestValidateDirRejectsTableCreatedTwice(t *testing.T) {
	dir := t.TempDir()

	first := "-- +goose Up\nCREATE TABLE orders (id UUID PRIMARY KEY);\n-- +goose Down\nDROP TABLE orders;\n"
	second := "-- +goose Up\nCREATE TABLE orders (id UUID PRIMARY KEY);\n-- +goose Down\nDROP TABLE orders;\n"

	if err := os.WriteFile(filepath.Join(dir, "20250101000000_create_orders.sql"), []byte(first), 0o644); err != nil {
		t.Fatalf("write migration: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "20250201000000_create_orders_again.sql"), []byte(second), 0o644); err != nil {
		t.Fatalf("write migration: %v", err)
	}

	if err := migrate.ValidateDir(dir); err == nil {
		t.Fatalf("expected duplicate table DDL to fail validation")
	}
}

func TestShippedMigrationsCreateEachTableOnce(t *testing.T) {
	tables := []string{
		"warehouses",
		"inventory_records",
		"shipping_rules",
		"orders",
		"order_line_items",
		"payments",
		"checkout_attempts",
	}

	files, err := filepath.Glob(filepath.Join("migrations", "*.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(files) == 0 {
		t.Fatalf("no migration files found")
	}

	counts := map[string]int{}
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			t.Fatalf("read %s: %v", file, err)
		}
		for _, table := range tables {
			if containsCreateTable(string(data), table) {
				counts[table]++
			}
		}
	}

	for _, table := range tables {
		if counts[table] != 1 {
			t.Errorf("table %q created %d times, want exactly once", table, counts[table])
		}
	}
}

func containsCreateTable(sql, table string) bool {
	re := regexp.MustCompile(`(?i)CREATE TABLE (?:IF NOT EXISTS )?` + table + `\b`)
	return re.MatchString(sql)
}
