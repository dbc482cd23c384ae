package indexer

import (
	"context"
	"crypto/md5" //nolint:gosec // MD5 used for row id generation, not security
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"media-store/internal/database"
	"media-store/internal/logging"
	"media-store/internal/mediatypes"
	"media-store/internal/metrics"
	"media-store/internal/workers"

	"github.com/dhowden/tag"
)

// ParallelWalkerConfig configures the parallel directory walker.
type ParallelWalkerConfig struct {
	// NumWorkers is the number of parallel workers (0 = auto based on CPU).
	NumWorkers int
	// ChannelBuffer is the size of the work channel buffer.
	ChannelBuffer int
	// SkipHidden skips files and directories starting with ".".
	SkipHidden bool
	// ProbeDurations runs ffprobe per file to fill in durations. Disabled
	// in tests where ffprobe output would be meaningless.
	ProbeDurations bool
}

// DefaultParallelWalkerConfig returns defaults based on available resources.
// SCAN_WORKERS overrides the worker count.
func DefaultParallelWalkerConfig() ParallelWalkerConfig {
	return ParallelWalkerConfig{
		NumWorkers:     workers.ForIO(8),
		ChannelBuffer:  1000,
		SkipHidden:     true,
		ProbeDurations: true,
	}
}

// fileJob represents a file to be processed.
type fileJob struct {
	path string
	info os.FileInfo
}

// fileResult represents a processed file.
type fileResult struct {
	row *database.MediaRow
	err error
}

// ParallelWalker walks the media directory in parallel.
type ParallelWalker struct {
	config   ParallelWalkerConfig
	mediaDir string

	jobs    chan fileJob
	results chan fileResult

	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc

	filesProcessed atomic.Int64
	errorsCount    atomic.Int64
}

// NewParallelWalker creates a new parallel directory walker.
func NewParallelWalker(mediaDir string, config ParallelWalkerConfig) *ParallelWalker {
	ctx, cancel := context.WithCancel(context.Background())

	return &ParallelWalker{
		config:   config,
		mediaDir: mediaDir,
		jobs:     make(chan fileJob, config.ChannelBuffer),
		results:  make(chan fileResult, config.ChannelBuffer),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Walk performs a parallel walk of the media directory and returns the rows
// to store in the index.
func (pw *ParallelWalker) Walk() ([]database.MediaRow, error) {
	logging.Info("Starting parallel media scan with %d workers", pw.config.NumWorkers)
	startTime := time.Now()

	metrics.ScannerParallelWorkers.Set(float64(pw.config.NumWorkers))

	for i := 0; i < pw.config.NumWorkers; i++ {
		pw.wg.Add(1)
		go pw.worker(i)
	}

	var allRows []database.MediaRow
	var collectorWg sync.WaitGroup

	collectorWg.Add(1)
	go func() {
		defer collectorWg.Done()
		for result := range pw.results {
			if result.err != nil {
				pw.errorsCount.Add(1)
				logging.Debug("Error processing file: %v", result.err)
				continue
			}
			if result.row != nil {
				allRows = append(allRows, *result.row)
			}
		}
	}()

	err := pw.walkAndEnqueue()

	close(pw.jobs)
	pw.wg.Wait()
	close(pw.results)
	collectorWg.Wait()

	logging.Info("Parallel scan complete: %d media files in %v (errors: %d)",
		pw.filesProcessed.Load(), time.Since(startTime), pw.errorsCount.Load())

	return allRows, err
}

// walkAndEnqueue walks the directory tree and sends jobs to workers.
func (pw *ParallelWalker) walkAndEnqueue() error {
	return filepath.WalkDir(pw.mediaDir, func(path string, d fs.DirEntry, err error) error {
		select {
		case <-pw.ctx.Done():
			return fs.SkipAll
		default:
		}

		if err != nil {
			logging.Warn("Error accessing path %s: %v", path, err)
			return nil // Continue walking
		}

		if pw.config.SkipHidden && strings.HasPrefix(d.Name(), ".") && path != pw.mediaDir {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			logging.Warn("Error getting info for %s: %v", path, err)
			return nil
		}

		select {
		case pw.jobs <- fileJob{path: path, info: info}:
		case <-pw.ctx.Done():
			return fs.SkipAll
		}

		return nil
	})
}

// worker processes files from the jobs channel.
func (pw *ParallelWalker) worker(id int) {
	defer pw.wg.Done()

	logging.Debug("Scan worker %d started", id)

	for job := range pw.jobs {
		select {
		case <-pw.ctx.Done():
			return
		default:
		}

		result := pw.processFile(job)

		if result.err == nil && result.row != nil {
			pw.filesProcessed.Add(1)
		}

		select {
		case pw.results <- result:
		case <-pw.ctx.Done():
			return
		}
	}

	logging.Debug("Scan worker %d finished", id)
}

// processFile builds an index row from a single file. Files with
// unsupported extensions or zero size produce no row.
func (pw *ParallelWalker) processFile(job fileJob) fileResult {
	ext := strings.ToLower(filepath.Ext(job.info.Name()))
	mediaType := mediatypes.GetMediaType(ext)

	if mediaType == mediatypes.MediaTypeOther {
		return fileResult{}
	}
	if job.info.Size() <= 0 {
		logging.Debug("Skipping empty file: %s", job.path)
		return fileResult{}
	}

	absPath, err := filepath.Abs(job.path)
	if err != nil {
		absPath = job.path
	}

	row := &database.MediaRow{
		ID:        fmt.Sprintf("%x", md5.Sum([]byte(absPath))), //nolint:gosec // row id, not security
		Name:      sql.NullString{String: job.info.Name(), Valid: true},
		Path:      absPath,
		URI:       "file://" + absPath,
		Size:      job.info.Size(),
		DateAdded: job.info.ModTime().Unix(),
		MediaType: mediaType,
	}

	if mime := mediatypes.GetMimeType(ext); mime != "" {
		row.MimeType = sql.NullString{String: mime, Valid: true}
	}

	if pw.config.ProbeDurations {
		// Missing ffprobe or an unreadable container leaves the duration
		// null; the enumerator maps that to zero.
		if durationMs, err := probeDurationMs(absPath); err == nil && durationMs > 0 {
			row.DurationMs = sql.NullInt64{Int64: durationMs, Valid: true}
		} else if err != nil {
			logging.Debug("Duration probe failed for %s: %v", absPath, err)
		}
	}

	if mediaType == mediatypes.MediaTypeAudio {
		row.IsMusic = mediatypes.IsMusic(ext)
		readAudioTags(row, absPath)
	}

	return fileResult{row: row}
}

// readAudioTags fills artist, album, and a nicer display name from embedded
// tags. Tag failures are tolerated; the row keeps its filename-derived name.
func readAudioTags(row *database.MediaRow, path string) {
	f, err := os.Open(path)
	if err != nil {
		logging.Debug("Tag read open failed for %s: %v", path, err)
		return
	}
	defer f.Close()

	meta, err := tag.ReadFrom(f)
	if err != nil {
		logging.Debug("Tag parse failed for %s: %v", path, err)
		return
	}

	if title := meta.Title(); title != "" {
		row.Name = sql.NullString{String: title, Valid: true}
	}
	if artist := meta.Artist(); artist != "" {
		row.Artist = sql.NullString{String: artist, Valid: true}
	}
	if album := meta.Album(); album != "" {
		row.Album = sql.NullString{String: album, Valid: true}
	}
}

// Stop cancels the parallel walk.
func (pw *ParallelWalker) Stop() {
	pw.cancel()
}

// Stats returns current processing statistics.
func (pw *ParallelWalker) Stats() (files, errors int64) {
	return pw.filesProcessed.Load(), pw.errorsCount.Load()
}
