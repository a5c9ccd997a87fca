// Package history persists a ledger of conversion runs in SQLite.
//
// Every playlist conversion, successful or not, is recorded with its run ID,
// output path, failure kind and the per-track segments that were produced.
// The CLI reads it back for the history command. Writes retry briefly when
// another process holds the database.
package history
