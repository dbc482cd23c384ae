package media

import (
	"fmt"
	"os"

	"media-store/internal/database"
	"media-store/internal/logging"
	"media-store/internal/metrics"
)

// Index is the queryable media index the library enumerates. The index
// applies the selection predicate (positive size, MIME allow-list, music
// flag) and returns rows most recently added first.
type Index interface {
	VideoRows(mimeFilter []string) ([]database.VideoRow, error)
	AudioRows() ([]database.AudioRow, error)
}

// Library maps raw index rows into media records.
type Library struct {
	index Index
}

// NewLibrary creates a library over the given index.
func NewLibrary(index Index) *Library {
	return &Library{index: index}
}

// ListVideos enumerates video records matching the MIME allow-list, most
// recently added first. A nil or empty filter means all videos. Rows whose
// backing file no longer exists are dropped with a diagnostic; attribute
// defects never drop a row, they get the documented defaults. The only
// error returned is a whole-call index failure.
func (l *Library) ListVideos(mimeFilter []string) ([]*VideoRecord, error) {
	rows, err := l.index.VideoRows(mimeFilter)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIndexQuery, err)
	}

	records := make([]*VideoRecord, 0, len(rows))
	for _, row := range rows {
		if row.ID == "" {
			logging.Debug("ListVideos: dropping row with empty id (path: %s)", row.Path)
			continue
		}
		if !backingFileExists(row.Path) {
			logging.Debug("ListVideos: dropping %s, backing file missing", row.Path)
			metrics.RecordsSkipped.Inc()
			continue
		}
		records = append(records, mapVideoRow(row))
	}

	metrics.RecordsEnumerated.WithLabelValues("video").Add(float64(len(records)))
	return records, nil
}

// ListAudios enumerates music records, most recently added first. The index
// predicate already excludes non-music audio (voice recordings, ringtones).
func (l *Library) ListAudios() ([]*AudioRecord, error) {
	rows, err := l.index.AudioRows()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIndexQuery, err)
	}

	records := make([]*AudioRecord, 0, len(rows))
	for _, row := range rows {
		if row.ID == "" {
			logging.Debug("ListAudios: dropping row with empty id (path: %s)", row.Path)
			continue
		}
		if !backingFileExists(row.Path) {
			logging.Debug("ListAudios: dropping %s, backing file missing", row.Path)
			metrics.RecordsSkipped.Inc()
			continue
		}
		records = append(records, mapAudioRow(row))
	}

	metrics.RecordsEnumerated.WithLabelValues("audio").Add(float64(len(records)))
	return records, nil
}

// backingFileExists verifies a row's file is still present. Rows without a
// raw path cannot be verified and are trusted as the index reported them.
func backingFileExists(path string) bool {
	if path == "" {
		return true
	}
	_, err := os.Stat(path)
	return err == nil
}

func mapVideoRow(row database.VideoRow) *VideoRecord {
	name := UnknownName
	if row.Name.Valid && row.Name.String != "" {
		name = row.Name.String
	}

	mimeType := DefaultVideoMime
	if row.MimeType.Valid && row.MimeType.String != "" {
		mimeType = row.MimeType.String
	}

	// Duration lookup never aborts a row; malformed values become zero.
	var duration int64
	if row.DurationMs.Valid && row.DurationMs.Int64 > 0 {
		duration = row.DurationMs.Int64
	}

	uri := row.URI
	if uri == "" && row.Path != "" {
		uri = "file://" + row.Path
	}

	return &VideoRecord{
		ID:         row.ID,
		Name:       name,
		Size:       row.Size,
		Path:       row.Path,
		URI:        uri,
		DateAdded:  row.DateAdded,
		MimeType:   mimeType,
		DurationMs: duration,
		FolderPath: FolderOf(row.Path),
	}
}

func mapAudioRow(row database.AudioRow) *AudioRecord {
	name := UnknownName
	if row.Name.Valid && row.Name.String != "" {
		name = row.Name.String
	}

	mimeType := DefaultAudioMime
	if row.MimeType.Valid && row.MimeType.String != "" {
		mimeType = row.MimeType.String
	}

	var duration int64
	if row.DurationMs.Valid && row.DurationMs.Int64 > 0 {
		duration = row.DurationMs.Int64
	}

	uri := row.URI
	if uri == "" && row.Path != "" {
		uri = "file://" + row.Path
	}

	return &AudioRecord{
		ID:         row.ID,
		Name:       name,
		Size:       row.Size,
		Path:       row.Path,
		URI:        uri,
		DateAdded:  row.DateAdded,
		MimeType:   mimeType,
		DurationMs: duration,
		FolderPath: FolderOf(row.Path),
		Artist:     row.Artist.String,
		Album:      row.Album.String,
	}
}
