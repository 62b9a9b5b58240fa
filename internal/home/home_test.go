package home

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNew(t *testing.T) {
	t.Run("explicit path", func(t *testing.T) {
		d, err := New("/tmp/lectern-test")
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}
		if d.Path() != "/tmp/lectern-test" {
			t.Errorf("Path() = %s, want /tmp/lectern-test", d.Path())
		}
	})

	t.Run("default path", func(t *testing.T) {
		d, err := New("")
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}
		if filepath.Base(d.Path()) != DefaultDirName {
			t.Errorf("default path base = %s, want %s", filepath.Base(d.Path()), DefaultDirName)
		}
	})
}

func TestPaths(t *testing.T) {
	d, _ := New("/tmp/lectern-test")

	if got := d.DataPath(); got != "/tmp/lectern-test/data" {
		t.Errorf("DataPath() = %s", got)
	}
	if got := d.ConfigPath(); got != "/tmp/lectern-test/config.yaml" {
		t.Errorf("ConfigPath() = %s", got)
	}
	if got := d.ResourcePath("ch1.pdf"); got != "/tmp/lectern-test/data/resources/ch1.pdf" {
		t.Errorf("ResourcePath() = %s", got)
	}
	if got := d.UnsyncedPath("a.json"); got != "/tmp/lectern-test/data/unsynced/a.json" {
		t.Errorf("UnsyncedPath() = %s", got)
	}
	if got := d.StoreDataDir(); got != "/tmp/lectern-test/docstore" {
		t.Errorf("StoreDataDir() = %s", got)
	}
}

func TestEnsureExists(t *testing.T) {
	tmpDir := t.TempDir()
	d, err := New(filepath.Join(tmpDir, "home"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if d.Exists() {
		t.Error("Exists() = true before EnsureExists")
	}

	if err := d.EnsureExists(); err != nil {
		t.Fatalf("EnsureExists() error = %v", err)
	}

	if !d.Exists() {
		t.Error("Exists() = false after EnsureExists")
	}

	for _, dir := range []string{d.ResourcesDir(), d.UnsyncedDir(), d.ExportsDir(), d.StoreDataDir()} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Errorf("expected directory %s: %v", dir, err)
			continue
		}
		if !info.IsDir() {
			t.Errorf("%s is not a directory", dir)
		}
	}

	// Idempotent
	if err := d.EnsureExists(); err != nil {
		t.Errorf("second EnsureExists() error = %v", err)
	}
}

func TestConfigExists(t *testing.T) {
	tmpDir := t.TempDir()
	d, _ := New(tmpDir)

	if d.ConfigExists() {
		t.Error("ConfigExists() = true with no config file")
	}

	if err := os.WriteFile(d.ConfigPath(), []byte("llm:\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if !d.ConfigExists() {
		t.Error("ConfigExists() = false after writing config")
	}
}
