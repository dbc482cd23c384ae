// Package indexer populates the media index from the media directory. A
// parallel walker classifies files by extension, reads audio tags and media
// durations, and hands finished rows to the database in one batch per scan.
package indexer
