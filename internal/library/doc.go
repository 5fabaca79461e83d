// Package library persists scan jobs and library items in SQLite.
//
// Items are keyed by their current filesystem path. When a file is organized
// into the library the record is re-keyed to the destination path and the
// record under the old source path is removed in the same transaction.
package library
