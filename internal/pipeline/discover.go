package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DiscoverPlaylists lists the .xspf files directly inside dir, sorted by
// name. Matching ignores extension case.
func DiscoverPlaylists(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read input directory: %w", err)
	}
	var playlists []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if !strings.EqualFold(filepath.Ext(entry.Name()), ".xspf") {
			continue
		}
		playlists = append(playlists, filepath.Join(dir, entry.Name()))
	}
	if len(playlists) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoPlaylists, dir)
	}
	sort.Strings(playlists)
	return playlists, nil
}
