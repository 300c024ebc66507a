package db

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMigrations_SortedAndFiltered(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"002_windows.sql": "CREATE TABLE b (id INT);",
		"001_core.sql":    "CREATE TABLE a (id INT);",
		"notes.txt":       "ignore me",
		"README.sql":      "no numeric prefix",
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	m := NewMigrator(nil, dir)
	migrations, err := m.LoadMigrations()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(migrations) != 2 {
		t.Fatalf("got %d migrations, want 2", len(migrations))
	}
	if migrations[0].Version != 1 || migrations[0].Name != "core" {
		t.Errorf("first = %+v", migrations[0])
	}
	if migrations[1].Version != 2 || migrations[1].Name != "windows" {
		t.Errorf("second = %+v", migrations[1])
	}
	if migrations[0].SQL == "" {
		t.Error("expected SQL body to be loaded")
	}
}

func TestLoadMigrations_MissingDir(t *testing.T) {
	m := NewMigrator(nil, "/does/not/exist")
	if _, err := m.LoadMigrations(); err == nil {
		t.Error("expected error for missing directory")
	}
}
