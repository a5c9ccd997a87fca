// Package ffprobe provides a typed wrapper around ffprobe JSON output.
//
// Inspect runs ffprobe and decodes its streams and format sections. The
// converter uses Mismatches to sanity-check a finished MP4 against the
// segment profile; the inspect command uses Duration to fill in tracks whose
// playlist entry carries no duration.
package ffprobe
