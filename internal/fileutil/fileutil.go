package fileutil

import (
	"fmt"
	"os"
	"path/filepath"
)

// IsRegularFile reports whether path exists and is a regular file (after
// following symlinks).
func IsRegularFile(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}

// MoveFile renames src over dst. Callers keep both in the same directory, so
// the rename is atomic and never crosses filesystems.
func MoveFile(src, dst string) error {
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("move %s: %w", filepath.Base(src), err)
	}
	return nil
}
