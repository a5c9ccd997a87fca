package ffmpeg

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupportedKind is returned by Normalize for tracks that are neither
// audio nor video.
var ErrUnsupportedKind = errors.New("unsupported media kind")

// TranscodeError reports a failed per-track normalisation.
type TranscodeError struct {
	Index  int
	Source string
	// ExitCode is -1 when ffmpeg could not be started.
	ExitCode int
	// Log holds the last lines ffmpeg printed.
	Log []string
	Err error
}

func (e *TranscodeError) Error() string {
	if e.ExitCode < 0 && e.Err != nil {
		return fmt.Sprintf("ffmpeg failed on item %d (%s): %v", e.Index, e.Source, e.Err)
	}
	return fmt.Sprintf("ffmpeg failed on item %d (%s) with code %d", e.Index, e.Source, e.ExitCode)
}

func (e *TranscodeError) Unwrap() error { return e.Err }

// ErrorKind implements the pipeline error classifier.
func (e *TranscodeError) ErrorKind() string { return "transcode" }

// LogText joins the captured log lines.
func (e *TranscodeError) LogText() string { return strings.Join(e.Log, "\n") }

// ConcatError reports a failed concatenation.
type ConcatError struct {
	ExitCode int
	Log      []string
	Err      error
}

func (e *ConcatError) Error() string {
	if e.ExitCode < 0 && e.Err != nil {
		return fmt.Sprintf("concatenation failed: %v", e.Err)
	}
	return fmt.Sprintf("concatenation failed with code %d", e.ExitCode)
}

func (e *ConcatError) Unwrap() error { return e.Err }

// ErrorKind implements the pipeline error classifier.
func (e *ConcatError) ErrorKind() string { return "concat" }

// LogText joins the captured log lines.
func (e *ConcatError) LogText() string { return strings.Join(e.Log, "\n") }
