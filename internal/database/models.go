package database

import (
	"database/sql"

	"media-store/internal/mediatypes"
)

// MediaRow is a raw index entry as written by the scanner. Nullable
// attributes stay nullable here; the enumerator substitutes defaults.
type MediaRow struct {
	ID         string
	Name       sql.NullString
	Path       string
	URI        string
	Size       int64
	DateAdded  int64
	MimeType   sql.NullString
	DurationMs sql.NullInt64
	MediaType  mediatypes.MediaType
	IsMusic    bool
	Artist     sql.NullString
	Album      sql.NullString
}

// VideoRow is the raw attribute set the index returns per matched video.
type VideoRow struct {
	ID         string
	Name       sql.NullString
	Path       string
	URI        string
	Size       int64
	DateAdded  int64
	MimeType   sql.NullString
	DurationMs sql.NullInt64
}

// AudioRow is the raw attribute set the index returns per matched audio
// entry. Artist and album pass through as stored, possibly null.
type AudioRow struct {
	VideoRow
	Artist sql.NullString
	Album  sql.NullString
}

// IndexStats summarizes the current index contents.
type IndexStats struct {
	TotalFiles  int   `json:"totalFiles"`
	TotalVideos int   `json:"totalVideos"`
	TotalAudios int   `json:"totalAudios"`
	LastIndexed int64 `json:"lastIndexed"`
}
