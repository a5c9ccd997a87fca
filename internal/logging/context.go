package logging

import (
	"context"
	"log/slog"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldRunID identifies one CLI invocation across every playlist it touches.
	FieldRunID = "run_id"
	// FieldPlaylist is the playlist file being converted.
	FieldPlaylist = "playlist"
	// FieldStage is the pipeline stage (parse, verify, transcode, concat, finalize).
	FieldStage = "stage"
	// FieldTrackIndex is the 1-based position of the track being transcoded.
	FieldTrackIndex = "track_index"
	// FieldTrackCount is the number of tracks in the playlist.
	FieldTrackCount = "track_count"
	// FieldEventType classifies a log line for filtering.
	FieldEventType = "event_type"
	// FieldErrorHint carries a short remediation hint on warnings and errors.
	FieldErrorHint = "error_hint"
	// FieldErrorKind is the machine-readable failure category.
	FieldErrorKind = "error_kind"
)

type contextKey int

const (
	runIDKey contextKey = iota
	playlistKey
)

// WithRunID attaches a run identifier to ctx.
func WithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromContext returns the run identifier stored by WithRunID.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	v, ok := ctx.Value(runIDKey).(string)
	return v, ok && v != ""
}

// WithPlaylist attaches the playlist path to ctx.
func WithPlaylist(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, playlistKey, path)
}

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 2)
	if id, ok := RunIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldRunID, id))
	}
	if playlist, ok := ctx.Value(playlistKey).(string); ok && playlist != "" {
		fields = append(fields, slog.String(FieldPlaylist, playlist))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	args := make([]any, len(fields))
	for i, f := range fields {
		args[i] = f
	}
	return logger.With(args...)
}
