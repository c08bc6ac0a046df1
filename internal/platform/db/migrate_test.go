package db

import (
	"os"
	"path/filepath"
	"testing"
)

func writeMigrations(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, sql := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(sql), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return dir
}

func TestMigratorLoad_VersionOrder(t *testing.T) {
	// Directory listing order is alphabetical; versions must still win.
	dir := writeMigrations(t, map[string]string{
		"010_overlays.sql":  "CREATE TABLE catalog_overlay (item_id INTEGER);",
		"002_relations.sql": "CREATE TABLE catalog_relation (main_item_id INTEGER);",
		"001_init.sql":      "CREATE TABLE catalog_item (id INTEGER);",
		"005_quotation.sql": "CREATE TABLE quotation (id UUID);",
	})

	migs, err := NewMigrator(nil, dir).Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	want := []int{1, 2, 5, 10}
	if len(migs) != len(want) {
		t.Fatalf("loaded %d migrations, want %d", len(migs), len(want))
	}
	for i, v := range want {
		if migs[i].Version != v {
			t.Errorf("position %d: version %d, want %d", i, migs[i].Version, v)
		}
	}
	if migs[0].Name != "001_init.sql" {
		t.Errorf("first name = %s", migs[0].Name)
	}
	if migs[0].SQL != "CREATE TABLE catalog_item (id INTEGER);" {
		t.Errorf("first sql = %q", migs[0].SQL)
	}
}

func TestMigratorLoad_IgnoresUnversionedFiles(t *testing.T) {
	dir := writeMigrations(t, map[string]string{
		"001_init.sql": "SELECT 1;",
		"README.md":    "notes",
		"seed.sql":     "SELECT 2;",
		"init_001.sql": "SELECT 3;",
	})

	migs, err := NewMigrator(nil, dir).Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(migs) != 1 || migs[0].Version != 1 {
		t.Fatalf("migrations = %+v, want only version 1", migs)
	}
}

func TestMigratorLoad_MissingDir(t *testing.T) {
	if _, err := NewMigrator(nil, "/nonexistent/migrations").Load(); err == nil {
		t.Error("expected error for missing directory")
	}
}
