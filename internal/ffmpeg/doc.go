// Package ffmpeg drives the external ffmpeg binary.
//
// Normalize renders one playlist track into a segment that matches the
// configured Profile: audio is muxed over a generated solid-colour frame,
// video is rescaled and resampled. Concat joins homogeneous segments through
// the concat demuxer with stream copy. Both stream every line ffmpeg prints
// to the caller and keep the last lines for error reports.
//
// Commands go through a Runner so tests can substitute a fake binary.
package ffmpeg
