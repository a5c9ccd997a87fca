// Package logs reads the persistent log file for the `xspf2mp4 logs`
// command: the last N lines, then optionally every line appended afterwards
// until the context ends.
package logs
