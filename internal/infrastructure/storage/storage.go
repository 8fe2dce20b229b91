// Package storage persists the order cache and the load history.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

// Supported drivers
const (
	DriverSQLite = "sqlite"
	DriverBunt   = "bunt"
)

// Options selects and locates a storage backend.
type Options struct {
	Driver       string
	DatabasePath string
	BuntPath     string
}

// Open creates the repository for the configured driver, creating parent
// directories for file-backed stores.
func Open(opts Options) (Repository, error) {
	switch opts.Driver {
	case DriverSQLite, "":
		if err := ensureDir(opts.DatabasePath); err != nil {
			return nil, err
		}
		return NewStorage(opts.DatabasePath)
	case DriverBunt:
		if err := ensureDir(opts.BuntPath); err != nil {
			return nil, err
		}
		return NewBuntStore(opts.BuntPath)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", opts.Driver)
	}
}

func ensureDir(path string) error {
	if path == "" || path == ":memory:" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create storage directory %s: %w", dir, err)
	}
	return nil
}
