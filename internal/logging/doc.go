// Package logging assembles structured slog loggers and formatting helpers used
// across xspf2mp4.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes context helpers so pipeline code can tag log lines
// with the run ID, playlist, and stage. The console handler renders playlist
// and track progress as a readable prefix; the JSON handler keeps every field.
package logging
