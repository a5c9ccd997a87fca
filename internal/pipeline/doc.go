// Package pipeline converts XSPF playlists into single MP4 files.
//
// A Converter runs one playlist at a time: parse, check that every source
// exists, normalise each track into a segment in <output>/<stem>_work, then
// concatenate the segments into <output>/<stem>.mp4. Any failure aborts the
// playlist and leaves no output file behind. ConvertBatch runs several
// playlists in order and records failures without stopping.
//
// Progress is reported through an Observer. Start runs a job on its own
// goroutine and turns those callbacks into a channel of Events so an
// interactive front end stays responsive while ffmpeg works.
package pipeline
