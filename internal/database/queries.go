package database

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"media-store/internal/logging"
	"media-store/internal/metrics"
)

// videoColumns is the attribute set consumed per video row.
const videoColumns = `id, name, path, uri, size, date_added, mime_type, duration_ms`

// buildVideoQuery assembles the video selection predicate: positive size,
// optional MIME allow-list where entries ending in "/*" match by prefix and
// others exactly, ordered most recently added first. The predicate runs
// inside SQL so the caller never sees rows it would discard.
func buildVideoQuery(mimeFilter []string) (string, []interface{}) {
	query := `SELECT ` + videoColumns + ` FROM files WHERE media_type = 'video' AND size > 0`
	var args []interface{}

	if len(mimeFilter) > 0 {
		var clauses []string
		for _, entry := range mimeFilter {
			if prefix, ok := strings.CutSuffix(entry, "*"); ok {
				clauses = append(clauses, `mime_type LIKE ?`)
				args = append(args, prefix+"%")
				continue
			}
			clauses = append(clauses, `mime_type = ?`)
			args = append(args, entry)
		}
		query += ` AND (` + strings.Join(clauses, " OR ") + `)`
	}

	query += ` ORDER BY date_added DESC, id`
	return query, args
}

// VideoRows queries the index for video rows matching the MIME allow-list.
func (d *Database) VideoRows(mimeFilter []string) ([]VideoRow, error) {
	start := time.Now()
	query, args := buildVideoQuery(mimeFilter)

	d.mu.RLock()
	rows, err := d.db.Query(query, args...)
	d.mu.RUnlock()

	if err != nil {
		metrics.IndexQueriesTotal.WithLabelValues("videos", "error").Inc()
		return nil, fmt.Errorf("video query failed: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logging.Warn("failed to close video rows: %v", err)
		}
	}()

	var result []VideoRow
	for rows.Next() {
		var row VideoRow
		if err := rows.Scan(&row.ID, &row.Name, &row.Path, &row.URI, &row.Size,
			&row.DateAdded, &row.MimeType, &row.DurationMs); err != nil {
			return nil, fmt.Errorf("video row scan failed: %w", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		metrics.IndexQueriesTotal.WithLabelValues("videos", "error").Inc()
		return nil, fmt.Errorf("video row iteration failed: %w", err)
	}

	metrics.IndexQueriesTotal.WithLabelValues("videos", "ok").Inc()
	metrics.IndexQueryDuration.WithLabelValues("videos").Observe(time.Since(start).Seconds())
	logging.Debug("VideoRows: %d rows (filter: %v) in %v", len(result), mimeFilter, time.Since(start))
	return result, nil
}

// AudioRows returns every indexed music row with a positive size, most
// recently added first. Audio rows not flagged as music (voice recordings,
// ringtones) are excluded by the predicate.
func (d *Database) AudioRows() ([]AudioRow, error) {
	start := time.Now()
	query := `SELECT ` + videoColumns + `, artist, album FROM files
		WHERE media_type = 'audio' AND size > 0 AND is_music = 1
		ORDER BY date_added DESC, id`

	d.mu.RLock()
	rows, err := d.db.Query(query)
	d.mu.RUnlock()

	if err != nil {
		metrics.IndexQueriesTotal.WithLabelValues("audios", "error").Inc()
		return nil, fmt.Errorf("audio query failed: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logging.Warn("failed to close audio rows: %v", err)
		}
	}()

	var result []AudioRow
	for rows.Next() {
		var row AudioRow
		if err := rows.Scan(&row.ID, &row.Name, &row.Path, &row.URI, &row.Size,
			&row.DateAdded, &row.MimeType, &row.DurationMs, &row.Artist, &row.Album); err != nil {
			return nil, fmt.Errorf("audio row scan failed: %w", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		metrics.IndexQueriesTotal.WithLabelValues("audios", "error").Inc()
		return nil, fmt.Errorf("audio row iteration failed: %w", err)
	}

	metrics.IndexQueriesTotal.WithLabelValues("audios", "ok").Inc()
	metrics.IndexQueryDuration.WithLabelValues("audios").Observe(time.Since(start).Seconds())
	logging.Debug("AudioRows: %d rows in %v", len(result), time.Since(start))
	return result, nil
}

// PathForID resolves a video id to its backing file path.
// Returns sql.ErrNoRows (wrapped) when the id is not in the index.
func (d *Database) PathForID(id string) (string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var path string
	err := d.db.QueryRow(`SELECT path FROM files WHERE id = ?`, id).Scan(&path)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", fmt.Errorf("no index entry for id %s: %w", id, err)
		}
		return "", fmt.Errorf("path lookup failed for id %s: %w", id, err)
	}
	return path, nil
}
