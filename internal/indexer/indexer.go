package indexer

import (
	"fmt"
	"sync/atomic"
	"time"

	"media-store/internal/database"
	"media-store/internal/logging"
	"media-store/internal/metrics"
)

// Indexer keeps the media index in sync with the media directory by
// rescanning on a fixed interval.
type Indexer struct {
	db       *database.Database
	mediaDir string
	interval time.Duration
	config   ParallelWalkerConfig

	running atomic.Bool
	stop    chan struct{}
}

// New creates an indexer over the given database and media directory.
func New(db *database.Database, mediaDir string, interval time.Duration) *Indexer {
	return &Indexer{
		db:       db,
		mediaDir: mediaDir,
		interval: interval,
		config:   DefaultParallelWalkerConfig(),
		stop:     make(chan struct{}),
	}
}

// Start runs an initial scan, then rescans on the configured interval until
// Stop is called. Blocks; run it in a goroutine.
func (i *Indexer) Start() error {
	if err := i.Scan(); err != nil {
		logging.Error("Initial media scan failed: %v", err)
	}

	ticker := time.NewTicker(i.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := i.Scan(); err != nil {
				logging.Error("Scheduled media scan failed: %v", err)
			}
		case <-i.stop:
			return nil
		}
	}
}

// Stop ends the rescan loop.
func (i *Indexer) Stop() {
	close(i.stop)
}

// Scan walks the media directory and replaces the index contents with what
// it finds. Concurrent calls are collapsed: a scan already in progress makes
// this a no-op.
func (i *Indexer) Scan() error {
	if !i.running.CompareAndSwap(false, true) {
		logging.Debug("Scan already running, skipping")
		return nil
	}
	defer i.running.Store(false)

	start := time.Now()
	metrics.ScannerRunsTotal.Inc()

	walker := NewParallelWalker(i.mediaDir, i.config)
	rows, err := walker.Walk()
	if err != nil {
		metrics.ScannerErrors.Inc()
		return fmt.Errorf("media scan failed: %w", err)
	}

	if err := i.db.ReplaceAll(rows); err != nil {
		metrics.ScannerErrors.Inc()
		return fmt.Errorf("media index update failed: %w", err)
	}

	metrics.ScannerFilesIndexed.Add(float64(len(rows)))
	metrics.ScannerLastRunTimestamp.Set(float64(time.Now().Unix()))
	logging.Info("Media scan stored %d rows in %v", len(rows), time.Since(start))
	return nil
}

// IsRunning reports whether a scan is currently in progress.
func (i *Indexer) IsRunning() bool {
	return i.running.Load()
}
