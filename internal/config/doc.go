// Package config loads, normalizes, and validates xspf2mp4 configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), anchors the input/output directories to the base directory
// (the executable's folder unless configured), reads TOML files, and honours
// environment fallbacks such as XSPF2MP4_FFMPEG. The Config value is passed
// explicitly into the pipeline; nothing in this repository reads process-wide
// settings after Load returns.
package config
