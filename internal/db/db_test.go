package db

import (
	"path/filepath"
	"testing"
)

func TestOpenCreatesSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "livepad.db")
	d, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer d.Close()

	if d.Path() != path {
		t.Errorf("Path() = %q, want %q", d.Path(), path)
	}

	var name string
	err = d.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name='kv'`).Scan(&name)
	if err != nil {
		t.Fatalf("kv table missing: %v", err)
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "livepad.db")
	first, err := Open(path)
	if err != nil {
		t.Fatalf("first Open: %v", err)
	}
	if _, err := first.Exec(`INSERT INTO kv (key, value) VALUES ('html', '<p>x</p>')`); err != nil {
		t.Fatalf("insert: %v", err)
	}
	first.Close()

	second, err := Open(path)
	if err != nil {
		t.Fatalf("second Open: %v", err)
	}
	defer second.Close()

	var value string
	if err := second.QueryRow(`SELECT value FROM kv WHERE key = 'html'`).Scan(&value); err != nil {
		t.Fatalf("select: %v", err)
	}
	if value != "<p>x</p>" {
		t.Errorf("value = %q, want %q", value, "<p>x</p>")
	}
}

func TestOpenMemory(t *testing.T) {
	d, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	defer d.Close()

	if d.Path() != ":memory:" {
		t.Errorf("Path() = %q", d.Path())
	}
	if _, err := d.Exec(`INSERT INTO kv (key, value) VALUES ('css', '')`); err != nil {
		t.Fatalf("insert: %v", err)
	}
}
