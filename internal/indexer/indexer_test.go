package indexer

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"media-store/internal/database"
	"media-store/internal/mediatypes"
)

func testWalkerConfig() ParallelWalkerConfig {
	return ParallelWalkerConfig{
		NumWorkers:     2,
		ChannelBuffer:  16,
		SkipHidden:     true,
		ProbeDurations: false,
	}
}

func writeFile(t *testing.T, dir, name string, size int) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}
	content := make([]byte, size)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("Failed to create file: %v", err)
	}
	return path
}

func rowsByName(rows []database.MediaRow) map[string]database.MediaRow {
	m := make(map[string]database.MediaRow, len(rows))
	for _, row := range rows {
		m[filepath.Base(row.Path)] = row
	}
	return m
}

func TestWalk_IndexesMediaFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "movie.mp4", 100)
	writeFile(t, dir, "nested/clip.webm", 50)
	writeFile(t, dir, "song.mp3", 30)
	writeFile(t, dir, "notes.txt", 10)

	walker := NewParallelWalker(dir, testWalkerConfig())
	rows, err := walker.Walk()
	if err != nil {
		t.Fatalf("Walk() error: %v", err)
	}

	if len(rows) != 3 {
		t.Fatalf("Expected 3 media rows, got %d", len(rows))
	}

	byName := rowsByName(rows)
	movie, ok := byName["movie.mp4"]
	if !ok {
		t.Fatal("Expected movie.mp4 to be indexed")
	}
	if movie.MediaType != mediatypes.MediaTypeVideo {
		t.Errorf("Expected video type, got %s", movie.MediaType)
	}
	if movie.MimeType.String != "video/mp4" {
		t.Errorf("Expected video/mp4, got %q", movie.MimeType.String)
	}
	if movie.Size != 100 {
		t.Errorf("Expected size 100, got %d", movie.Size)
	}
	if movie.ID == "" {
		t.Error("Expected a derived row id")
	}
	if movie.URI != "file://"+movie.Path {
		t.Errorf("Expected file URI derived from path, got %q", movie.URI)
	}
	if movie.DateAdded == 0 {
		t.Error("Expected date_added from file mtime")
	}

	if _, ok := byName["notes.txt"]; ok {
		t.Error("Non-media file should not be indexed")
	}
}

func TestWalk_StableIDs(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "movie.mp4", 100)

	first, err := NewParallelWalker(dir, testWalkerConfig()).Walk()
	if err != nil {
		t.Fatalf("First Walk() error: %v", err)
	}
	second, err := NewParallelWalker(dir, testWalkerConfig()).Walk()
	if err != nil {
		t.Fatalf("Second Walk() error: %v", err)
	}

	if len(first) != 1 || len(second) != 1 {
		t.Fatalf("Expected 1 row per walk, got %d and %d", len(first), len(second))
	}
	// IDs derive from the path so thumbnails survive rescans.
	if first[0].ID != second[0].ID {
		t.Errorf("Expected stable id across rescans, got %s and %s", first[0].ID, second[0].ID)
	}
}

func TestWalk_SkipsEmptyAndHidden(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "empty.mp4", 0)
	writeFile(t, dir, ".hidden.mp4", 100)
	writeFile(t, dir, ".trash/deleted.mp4", 100)
	writeFile(t, dir, "kept.mp4", 100)

	walker := NewParallelWalker(dir, testWalkerConfig())
	rows, err := walker.Walk()
	if err != nil {
		t.Fatalf("Walk() error: %v", err)
	}

	if len(rows) != 1 {
		t.Fatalf("Expected only kept.mp4, got %d rows", len(rows))
	}
	if filepath.Base(rows[0].Path) != "kept.mp4" {
		t.Errorf("Expected kept.mp4, got %s", rows[0].Path)
	}
}

func TestWalk_MusicFlag(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "song.mp3", 100)
	writeFile(t, dir, "memo.amr", 100)

	walker := NewParallelWalker(dir, testWalkerConfig())
	rows, err := walker.Walk()
	if err != nil {
		t.Fatalf("Walk() error: %v", err)
	}

	byName := rowsByName(rows)
	if !byName["song.mp3"].IsMusic {
		t.Error("Expected song.mp3 flagged as music")
	}
	if byName["memo.amr"].IsMusic {
		t.Error("Voice recording must not be flagged as music")
	}
}

func TestWalk_TagFailureTolerated(t *testing.T) {
	// A file with an audio extension but no parseable tags still gets a row
	// with its filename-derived name.
	dir := t.TempDir()
	writeFile(t, dir, "garbage.mp3", 64)

	walker := NewParallelWalker(dir, testWalkerConfig())
	rows, err := walker.Walk()
	if err != nil {
		t.Fatalf("Walk() error: %v", err)
	}

	if len(rows) != 1 {
		t.Fatalf("Expected 1 row, got %d", len(rows))
	}
	if rows[0].Name.String != "garbage.mp3" {
		t.Errorf("Expected filename-derived name, got %q", rows[0].Name.String)
	}
	if rows[0].Artist.Valid {
		t.Errorf("Expected no artist for untagged file, got %q", rows[0].Artist.String)
	}
}

func TestScan_PopulatesIndex(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.mp4", 100)
	writeFile(t, dir, "b.mp4", 100)

	db, err := database.New(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("Failed to open index: %v", err)
	}
	defer db.Close()

	idx := New(db, dir, time.Hour)
	idx.config = testWalkerConfig()

	if err := idx.Scan(); err != nil {
		t.Fatalf("Scan() error: %v", err)
	}

	rows, err := db.VideoRows(nil)
	if err != nil {
		t.Fatalf("VideoRows() error: %v", err)
	}
	if len(rows) != 2 {
		t.Errorf("Expected 2 indexed videos, got %d", len(rows))
	}

	stats, err := db.Stats()
	if err != nil {
		t.Fatalf("Stats() error: %v", err)
	}
	if stats.TotalVideos != 2 {
		t.Errorf("Expected stats to report 2 videos, got %d", stats.TotalVideos)
	}
}

func TestScan_ReflectsDeletions(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "keep.mp4", 100)
	gone := writeFile(t, dir, "gone.mp4", 100)

	db, err := database.New(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("Failed to open index: %v", err)
	}
	defer db.Close()

	idx := New(db, dir, time.Hour)
	idx.config = testWalkerConfig()

	if err := idx.Scan(); err != nil {
		t.Fatalf("First Scan() error: %v", err)
	}
	if err := os.Remove(gone); err != nil {
		t.Fatalf("Failed to remove file: %v", err)
	}
	if err := idx.Scan(); err != nil {
		t.Fatalf("Second Scan() error: %v", err)
	}

	rows, err := db.VideoRows(nil)
	if err != nil {
		t.Fatalf("VideoRows() error: %v", err)
	}
	if len(rows) != 1 || filepath.Base(rows[0].Path) != "keep.mp4" {
		t.Errorf("Expected only keep.mp4 after rescan, got %v", rows)
	}
}

func TestIsRunning(t *testing.T) {
	db, err := database.New(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("Failed to open index: %v", err)
	}
	defer db.Close()

	idx := New(db, t.TempDir(), time.Hour)
	idx.config = testWalkerConfig()

	if idx.IsRunning() {
		t.Error("Expected no scan in progress before Scan()")
	}
	if err := idx.Scan(); err != nil {
		t.Fatalf("Scan() error: %v", err)
	}
	if idx.IsRunning() {
		t.Error("Expected scan to be finished after Scan() returns")
	}
}
