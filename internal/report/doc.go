// Package report renders duplicate sets for people and for other programs.
//
// The console writer lists each duplicate next to the original it copies.
// File targets (plain text, CSV, JSON and SQLite) are written through
// filelock so a report on disk is always complete. WriteAll writes every
// requested target even when some of them fail, and returns a *WriteError
// naming the ones that did.
package report
