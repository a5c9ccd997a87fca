// Package deps locates and checks the external binaries xspf2mp4 shells out
// to. ffmpeg and ffprobe are looked up next to the base directory and the
// executable before falling back to PATH, so a portable install can ship its
// own build alongside the tool.
package deps
