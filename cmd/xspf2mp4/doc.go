// Command xspf2mp4 converts XSPF playlists into single MP4 files with
// ffmpeg.
//
// Subcommands cover one-off and batch conversion, playlist inspection,
// environment status, the run history ledger, and configuration helpers.
// Conversions run on a worker goroutine; this package renders its events as
// a progress bar on a terminal or as plain lines otherwise.
package main
