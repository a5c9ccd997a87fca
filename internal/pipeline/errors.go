package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoPlaylists is returned by DiscoverPlaylists for a directory without
	// any .xspf files.
	ErrNoPlaylists = errors.New("no .xspf playlists found")
	// ErrPlaylistBusy means another process holds the playlist's work directory.
	ErrPlaylistBusy = errors.New("playlist is already being converted")
)

// maxListedMissing caps how many missing files the error message lists.
const maxListedMissing = 50

// MissingFile identifies a track whose source is absent.
type MissingFile struct {
	Index int
	Path  string
}

// MissingSourceFileError lists every track whose source file does not exist.
type MissingSourceFileError struct {
	Playlist string
	Missing  []MissingFile
}

func (e *MissingSourceFileError) Error() string {
	var b strings.Builder
	b.WriteString("Missing files:")
	for i, m := range e.Missing {
		if i == maxListedMissing {
			fmt.Fprintf(&b, "\n  ... and %d more", len(e.Missing)-maxListedMissing)
			break
		}
		fmt.Fprintf(&b, "\n  [%d] %s", m.Index, m.Path)
	}
	return b.String()
}

// ErrorKind implements the error classifier.
func (e *MissingSourceFileError) ErrorKind() string { return "missing_source" }

// UnsupportedMediaKindError reports a track with an extension outside the
// audio and video sets.
type UnsupportedMediaKindError struct {
	Index int
	Path  string
	Ext   string
}

func (e *UnsupportedMediaKindError) Error() string {
	ext := e.Ext
	if ext == "" {
		ext = "no extension"
	}
	return fmt.Sprintf("unsupported item type for item %d: %s (%s)", e.Index, e.Path, ext)
}

// ErrorKind implements the error classifier.
func (e *UnsupportedMediaKindError) ErrorKind() string { return "unsupported_media" }

// ErrorClassifier is implemented by errors that carry a machine-readable kind.
type ErrorClassifier interface {
	ErrorKind() string
}

// ErrorKind returns the kind of err: the ErrorKind of the first classified
// error in its chain, "canceled" for context cancellation, "busy" for a held
// lock and "internal" otherwise. A nil error has no kind.
func ErrorKind(err error) string {
	if err == nil {
		return ""
	}
	var classified ErrorClassifier
	if errors.As(err, &classified) {
		return classified.ErrorKind()
	}
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	case errors.Is(err, ErrPlaylistBusy):
		return "busy"
	default:
		return "internal"
	}
}
