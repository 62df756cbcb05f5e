// Package database stores run history in SQLite.
//
// Every completed run is saved as one row in runs, holding the full report as
// JSON, plus one row per article in article_results so that an article's
// sentiment and verdict can be followed across runs. The database is a single
// file in the XDG data directory, opened through modernc.org/sqlite.
package database
