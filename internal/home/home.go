// Package home manages the lectern home directory layout: uploaded
// resource files, locally retained artifacts, and the default config file.
package home

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// DefaultDirName is the default name for the lectern home directory.
	DefaultDirName = ".lectern"

	// DataDirName is the subdirectory for uploaded resources and artifacts.
	DataDirName = "data"

	// ConfigFileName is the default config file name.
	ConfigFileName = "config.yaml"
)

// Dir represents the lectern home directory structure.
type Dir struct {
	path string
}

// New creates a new Dir with the given path.
// If path is empty, uses the default (~/.lectern).
func New(path string) (*Dir, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		path = filepath.Join(home, DefaultDirName)
	}

	return &Dir{path: path}, nil
}

// Path returns the root path of the home directory.
func (d *Dir) Path() string {
	return d.path
}

// DataPath returns the path to the data directory.
func (d *Dir) DataPath() string {
	return filepath.Join(d.path, DataDirName)
}

// ConfigPath returns the path to the default config file.
func (d *Dir) ConfigPath() string {
	return filepath.Join(d.path, ConfigFileName)
}

// ResourcesDir returns the directory holding uploaded resource files.
func (d *Dir) ResourcesDir() string {
	return filepath.Join(d.DataPath(), "resources")
}

// ResourcePath returns the path for a stored resource file.
func (d *Dir) ResourcePath(fileName string) string {
	return filepath.Join(d.ResourcesDir(), fileName)
}

// UnsyncedDir returns the directory where artifacts are retained locally
// when the document store is unreachable at persistence time.
func (d *Dir) UnsyncedDir() string {
	return filepath.Join(d.DataPath(), "unsynced")
}

// UnsyncedPath returns the local path for an unsynced artifact.
func (d *Dir) UnsyncedPath(fileName string) string {
	return filepath.Join(d.UnsyncedDir(), fileName)
}

// ExportsDir returns the directory for exported artifact files.
func (d *Dir) ExportsDir() string {
	return filepath.Join(d.path, "exports")
}

// StoreDataDir returns the host directory mounted into the document
// store container.
func (d *Dir) StoreDataDir() string {
	return filepath.Join(d.path, "docstore")
}

// EnsureExists creates the home directory and subdirectories if they don't exist.
func (d *Dir) EnsureExists() error {
	for _, dir := range []string{d.ResourcesDir(), d.UnsyncedDir(), d.ExportsDir(), d.StoreDataDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// Exists returns true if the home directory exists.
func (d *Dir) Exists() bool {
	_, err := os.Stat(d.path)
	return err == nil
}

// ConfigExists returns true if the config file exists in the home directory.
func (d *Dir) ConfigExists() bool {
	_, err := os.Stat(d.ConfigPath())
	return err == nil
}
