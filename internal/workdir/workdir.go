package workdir

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"xspf2mp4/internal/logging"
)

// Suffix marks a segment directory inside the output directory.
const Suffix = "_work"

// LockName is the lock file a running conversion holds inside its directory.
const LockName = ".lock"

// Dir describes one segment directory.
type Dir struct {
	Name     string
	Path     string
	ModTime  time.Time
	Size     int64
	Segments int
}

// Playlist returns the playlist stem the directory belongs to.
func (d Dir) Playlist() string {
	return strings.TrimSuffix(d.Name, Suffix)
}

// Path returns the segment directory for a playlist stem.
func Path(outputDir, stem string) string {
	return filepath.Join(outputDir, stem+Suffix)
}

// List returns the segment directories in outputDir, oldest first. A missing
// output directory has none.
func List(outputDir string) ([]Dir, error) {
	outputDir = strings.TrimSpace(outputDir)
	if outputDir == "" {
		return nil, nil
	}
	entries, err := os.ReadDir(outputDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read output directory: %w", err)
	}

	var dirs []Dir
	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasSuffix(entry.Name(), Suffix) || entry.Name() == Suffix {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		path := filepath.Join(outputDir, entry.Name())
		size, segments := measure(path)
		dirs = append(dirs, Dir{
			Name:     entry.Name(),
			Path:     path,
			ModTime:  info.ModTime(),
			Size:     size,
			Segments: segments,
		})
	}
	sort.Slice(dirs, func(i, j int) bool { return dirs[i].ModTime.Before(dirs[j].ModTime) })
	return dirs, nil
}

// CleanupError pairs a directory with the reason it was not removed.
type CleanupError struct {
	Path string
	Err  error
}

// CleanResult reports what Clean did.
type CleanResult struct {
	Removed []Dir
	// Busy lists directories skipped because a conversion holds their lock.
	Busy   []Dir
	Errors []CleanupError
}

// Clean removes segment directories in outputDir last modified more than
// maxAge ago. A zero maxAge removes every unlocked directory. With dryRun
// set, directories are reported as removed but left in place.
func Clean(ctx context.Context, outputDir string, maxAge time.Duration, dryRun bool, logger *slog.Logger) (CleanResult, error) {
	var result CleanResult
	dirs, err := List(outputDir)
	if err != nil {
		return result, err
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	cutoff := time.Now().Add(-maxAge)

	for _, dir := range dirs {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if maxAge > 0 && !dir.ModTime.Before(cutoff) {
			continue
		}

		lock := flock.New(filepath.Join(dir.Path, LockName))
		locked, err := lock.TryLock()
		if err != nil {
			result.Errors = append(result.Errors, CleanupError{Path: dir.Path, Err: err})
			continue
		}
		if !locked {
			result.Busy = append(result.Busy, dir)
			continue
		}
		if dryRun {
			_ = lock.Unlock()
			result.Removed = append(result.Removed, dir)
			continue
		}
		if err := removeHeld(dir.Path, lock); err != nil {
			result.Errors = append(result.Errors, CleanupError{Path: dir.Path, Err: err})
			logging.WarnWithContext(logger, "failed to remove work directory", "work_dir_cleanup_failed",
				logging.String("path", dir.Path),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check output directory permissions"),
			)
			continue
		}
		result.Removed = append(result.Removed, dir)
		logger.Info("removed work directory",
			logging.String("path", dir.Path),
			logging.Duration("age", time.Since(dir.ModTime)),
			logging.Int64("size_bytes", dir.Size),
			logging.String(logging.FieldEventType, "work_dir_cleanup"),
		)
	}
	return result, nil
}

// beforeUnlock runs after a held directory is removed, just before its lock
// is released. Tests replace it.
var beforeUnlock = func(string) {}

// removeHeld deletes path while lock is still held so a conversion cannot
// start inside a directory that is being removed. Platforms that refuse to
// delete a locked file get a second attempt once the lock is released.
func removeHeld(path string, lock *flock.Flock) error {
	held := os.RemoveAll(path)
	beforeUnlock(path)
	if err := lock.Unlock(); err != nil && held == nil {
		return fmt.Errorf("unlock %s: %w", path, err)
	}
	if held == nil {
		return nil
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return os.RemoveAll(path)
}

// measure sums file sizes below path and counts part_*.mp4 segments.
func measure(path string) (int64, int) {
	var (
		size     int64
		segments int
	)
	_ = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if info, err := d.Info(); err == nil {
			size += info.Size()
		}
		if strings.HasPrefix(d.Name(), "part_") && strings.HasSuffix(d.Name(), ".mp4") {
			segments++
		}
		return nil
	})
	return size, segments
}
