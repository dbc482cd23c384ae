// Package database implements the on-device media index as an SQLite
// database. It stores one row per indexed media file and answers the
// filtered, recency-ordered queries the enumerator builds records from.
// The selection predicate (positive size, MIME allow-list, music flag) is
// evaluated inside SQL, not in process.
package database
