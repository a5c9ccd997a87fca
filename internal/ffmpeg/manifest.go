package ffmpeg

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FormatManifest renders a concat demuxer list. Paths are written absolute
// with forward slashes, one "file '<path>'" directive per segment.
func FormatManifest(segments []string) (string, error) {
	var b strings.Builder
	for _, segment := range segments {
		abs, err := filepath.Abs(segment)
		if err != nil {
			return "", fmt.Errorf("resolve segment %q: %w", segment, err)
		}
		b.WriteString("file '")
		b.WriteString(escapeManifestPath(filepath.ToSlash(abs)))
		b.WriteString("'\n")
	}
	return b.String(), nil
}

// WriteManifest writes the concat list for segments to path.
func WriteManifest(path string, segments []string) error {
	if len(segments) == 0 {
		return fmt.Errorf("write manifest: no segments")
	}
	content, err := FormatManifest(segments)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}

func escapeManifestPath(path string) string {
	return strings.ReplaceAll(path, "'", `'\''`)
}
