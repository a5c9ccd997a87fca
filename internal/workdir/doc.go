// Package workdir manages the per-playlist segment directories that a
// conversion leaves in the output directory. Failed conversions keep their
// `<stem>_work` directory for inspection; this package lists them and
// removes the stale ones while skipping any a running conversion still
// holds locked.
package workdir
