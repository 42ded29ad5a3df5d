// Package files provides shared filesystem helpers used by the durable
// installed-server store and the external config mirror.
package files

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/scoutmcp/scout/internal/perms"
)

// EnsureDir creates a directory with standard permissions if it doesn't exist,
// and verifies the existing path is a directory if it does.
func EnsureDir(path string) error {
	info, err := os.Stat(path)
	switch {
	case err == nil:
		if !info.IsDir() {
			return fmt.Errorf("path exists but is not a directory: %s", path)
		}
		return nil
	case os.IsNotExist(err):
		if err := os.MkdirAll(path, perms.RegularDir); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", path, err)
		}
		return nil
	default:
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}
}

// WriteAtomic writes data to path via a temporary file in the same directory,
// renaming it into place so readers never observe a partially written file.
func WriteAtomic(path string, data []byte, mode os.FileMode) error {
	dir := filepath.Dir(path)
	if err := EnsureDir(dir); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file in %s: %w", dir, err)
	}
	tmpPath := tmp.Name()
	defer func() {
		_ = os.Remove(tmpPath) // Clean up on any error.
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write temporary file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temporary file: %w", err)
	}
	if err := os.Chmod(tmpPath, mode); err != nil {
		return fmt.Errorf("failed to set permissions on temporary file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename temporary file to %s: %w", path, err)
	}

	return nil
}
