package db

import (
	"os"
	"path/filepath"
	"testing"
)

func TestOpenMemory(t *testing.T) {
	d, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory() error: %v", err)
	}
	defer d.Close()

	// Verify tables exist by counting rows in each one.
	tables := []string{"bookmarks", "downloads", "preferences"}

	for _, table := range tables {
		var count int
		err := d.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&count)
		if err != nil {
			t.Errorf("table %s: %v", table, err)
		}
	}
}

func TestMigrateIdempotent(t *testing.T) {
	d, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory() error: %v", err)
	}
	defer d.Close()

	// Running migrate again should not fail.
	if err := d.migrate(); err != nil {
		t.Fatalf("second migrate() error: %v", err)
	}
}

func TestOpenDirCreatesFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")

	d, err := OpenDir(dir)
	if err != nil {
		t.Fatalf("OpenDir() error: %v", err)
	}
	defer d.Close()

	want := filepath.Join(dir, FileName)
	if d.Path() != want {
		t.Errorf("Path() = %q, want %q", d.Path(), want)
	}
	if _, err := os.Stat(want); err != nil {
		t.Errorf("database file not created: %v", err)
	}
}

func TestBookmarkPrimaryKey(t *testing.T) {
	d, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory() error: %v", err)
	}
	defer d.Close()

	if _, err := d.Exec(`INSERT INTO bookmarks (visitor_id, resource_id) VALUES ('v', 'r1')`); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	if _, err := d.Exec(`INSERT INTO bookmarks (visitor_id, resource_id) VALUES ('v', 'r1')`); err == nil {
		t.Error("expected duplicate bookmark to be rejected")
	}
}
