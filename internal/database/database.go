package database

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite3 driver

	"media-store/internal/logging"
)

// Default timeout for database operations
const defaultTimeout = 5 * time.Second

// Database manages the SQLite-backed media index.
type Database struct {
	db     *sql.DB
	dbPath string
	mu     sync.RWMutex
}

// New opens (or creates) the media index database.
// dbPath must be the full path to the database file and its parent directory
// must already exist and be writable; use startup.LoadConfig for that.
// Pass ":memory:" for an in-memory index (tests).
func New(ctx context.Context, dbPath string) (*Database, error) {
	logging.Info("Media index path: %s", dbPath)

	// WAL mode and busy_timeout prevent "database is locked" errors when the
	// scanner writes while queries run.
	connStr := fmt.Sprintf("%s?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000", dbPath)
	if dbPath == ":memory:" {
		connStr = dbPath
	}

	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open media index: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logging.Error("failed to close media index after ping failure: %v", closeErr)
		}
		return nil, fmt.Errorf("failed to connect to media index: %w", err)
	}

	if dbPath == ":memory:" {
		// Every connection of an in-memory database is a separate database.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(time.Hour)
	}

	d := &Database{
		db:     db,
		dbPath: dbPath,
	}

	if err := d.initialize(ctx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logging.Error("failed to close media index after initialization failure: %v", closeErr)
		}
		return nil, fmt.Errorf("failed to initialize media index schema: %w", err)
	}

	logging.Info("Media index initialized at %s", dbPath)
	return d, nil
}

func (d *Database) initialize(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS files (
		id TEXT PRIMARY KEY,
		name TEXT,
		path TEXT NOT NULL UNIQUE,
		uri TEXT NOT NULL,
		size INTEGER NOT NULL DEFAULT 0,
		date_added INTEGER NOT NULL,
		mime_type TEXT,
		duration_ms INTEGER,
		media_type TEXT NOT NULL,
		is_music INTEGER NOT NULL DEFAULT 0,
		artist TEXT,
		album TEXT,
		updated_at INTEGER NOT NULL DEFAULT (strftime('%s', 'now'))
	);

	CREATE INDEX IF NOT EXISTS idx_files_media_type ON files(media_type);
	CREATE INDEX IF NOT EXISTS idx_files_date_added ON files(date_added);
	CREATE INDEX IF NOT EXISTS idx_files_mime_type ON files(mime_type);
	`

	initCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := d.db.ExecContext(initCtx, schema); err != nil {
		return fmt.Errorf("schema creation failed: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (d *Database) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.db.Close()
}

// ReplaceAll swaps the index contents for the given rows in one transaction.
// The scanner calls this after each full rescan of the media directory.
func (d *Database) ReplaceAll(rows []MediaRow) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("begin rescan transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
			logging.Error("rescan rollback failed: %v", err)
		}
	}()

	if _, err := tx.Exec(`DELETE FROM files`); err != nil {
		return fmt.Errorf("clear index: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO files (id, name, path, uri, size, date_added, mime_type, duration_ms, media_type, is_music, artist, album)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, row := range rows {
		_, err := stmt.Exec(
			row.ID, row.Name, row.Path, row.URI, row.Size, row.DateAdded,
			row.MimeType, row.DurationMs, string(row.MediaType), row.IsMusic,
			row.Artist, row.Album,
		)
		if err != nil {
			return fmt.Errorf("insert row %s: %w", row.Path, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit rescan: %w", err)
	}

	logging.Debug("Media index replaced: %d rows", len(rows))
	return nil
}

// Stats returns summary counts for the current index contents.
func (d *Database) Stats() (IndexStats, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var stats IndexStats
	row := d.db.QueryRow(`
		SELECT COUNT(*),
		       COUNT(CASE WHEN media_type = 'video' THEN 1 END),
		       COUNT(CASE WHEN media_type = 'audio' THEN 1 END),
		       COALESCE(MAX(updated_at), 0)
		FROM files`)
	if err := row.Scan(&stats.TotalFiles, &stats.TotalVideos, &stats.TotalAudios, &stats.LastIndexed); err != nil {
		return IndexStats{}, fmt.Errorf("stats query failed: %w", err)
	}
	return stats, nil
}
