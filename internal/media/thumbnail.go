package media

import (
	"bytes"
	"crypto/md5" //nolint:gosec // MD5 used for cache key generation, not security
	"fmt"
	"image/jpeg"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"media-store/internal/logging"
	"media-store/internal/metrics"

	_ "image/gif"
	_ "image/png"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

// jpegQuality is the fixed encode quality for cached thumbnails.
const jpegQuality = 90

// frameOffset is how far into the video the extracted frame is taken from.
const frameOffset = "00:00:01"

// cacheSizeTTL is how long a computed cache size stays valid.
const cacheSizeTTL = 2 * time.Minute

// AssetResolver resolves a video id to the backing file path. The media
// index implements this.
type AssetResolver interface {
	PathForID(id string) (string, error)
}

// ThumbnailGenerator produces and caches JPEG thumbnails for videos. The
// cache holds one rendition per video id; requests at different dimensions
// after the first are served the originally cached bytes.
//
// The render strategy (libvips fast path or pure-Go fallback) is chosen once
// at construction, never per call.
type ThumbnailGenerator struct {
	cacheDir string
	resolver AssetResolver

	extract func(path string) ([]byte, error)
	render  func(frame []byte, width, height int) ([]byte, error)

	cachedSize      atomic.Int64
	cachedCount     atomic.Int64
	lastCacheUpdate atomic.Int64
	sizeMu          sync.Mutex
}

// NewThumbnailGenerator creates a generator writing to cacheDir. The cache
// directory is created here, once; a failure is logged but not fatal since
// generation still returns bytes in memory.
func NewThumbnailGenerator(cacheDir string, resolver AssetResolver) *ThumbnailGenerator {
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		logging.Warn("ThumbnailGenerator: failed to create cache dir: %v", err)
	}

	t := &ThumbnailGenerator{
		cacheDir: cacheDir,
		resolver: resolver,
		extract:  extractFrame,
	}

	if IsVipsAvailable() {
		logging.Info("ThumbnailGenerator: using libvips renderer, cache dir: %s", cacheDir)
		t.render = renderWithVips
	} else {
		logging.Info("ThumbnailGenerator: using pure-Go renderer, cache dir: %s", cacheDir)
		t.render = renderWithImaging
	}
	return t
}

// cacheKey derives the cache file name from the video id alone. Requested
// dimensions are deliberately not part of the key.
func cacheKey(videoID string) string {
	hash := md5.Sum([]byte(videoID)) //nolint:gosec // cache key, not security
	return fmt.Sprintf("%x.jpg", hash)
}

// Thumbnail returns cached thumbnail bytes for the video, generating and
// persisting them first when absent. Errors identify why no image could be
// produced; callers that only need presence treat any error as absence.
func (t *ThumbnailGenerator) Thumbnail(videoID string, width, height int) ([]byte, error) {
	cachePath := filepath.Join(t.cacheDir, cacheKey(videoID))

	if data, err := os.ReadFile(cachePath); err == nil {
		logging.Debug("Thumbnail cache hit: %s", videoID)
		metrics.ThumbnailCacheHits.Inc()
		return data, nil
	}
	metrics.ThumbnailCacheMisses.Inc()

	path, err := t.resolver.PathForID(videoID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAssetNotFound, err)
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAssetNotFound, err)
	}

	logging.Debug("Thumbnail generating: %s (%dx%d)", videoID, width, height)
	start := time.Now()

	frame, err := t.extract(path)
	if err != nil {
		metrics.ThumbnailGenFailures.Inc()
		return nil, fmt.Errorf("frame extraction failed for %s: %w", videoID, err)
	}

	data, err := t.render(frame, width, height)
	if err != nil {
		metrics.ThumbnailGenFailures.Inc()
		return nil, fmt.Errorf("thumbnail render failed for %s: %w", videoID, err)
	}

	metrics.ThumbnailGenDuration.Observe(time.Since(start).Seconds())

	// The caller already has the bytes; a failed cache write only costs a
	// regeneration later.
	if err := os.WriteFile(cachePath, data, 0o644); err != nil {
		logging.Warn("Failed to cache thumbnail %s: %v", cachePath, err)
	} else {
		logging.Debug("Thumbnail cached: %s", cachePath)
	}

	return data, nil
}

// extractFrame pulls the frame nearest one second into the video as PNG
// bytes via ffmpeg. Very short clips have no frame at the offset, so a
// second attempt reads from the start.
func extractFrame(filePath string) ([]byte, error) {
	ffmpegPath, err := exec.LookPath("ffmpeg")
	if err != nil {
		return nil, fmt.Errorf("ffmpeg not found: %w", err)
	}
	logging.Debug("Using ffmpeg: %s", ffmpegPath)

	cmd := exec.Command("ffmpeg",
		"-i", filePath,
		"-ss", frameOffset,
		"-vframes", "1",
		"-f", "image2pipe",
		"-vcodec", "png",
		"-",
	)

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		logging.Debug("FFmpeg first attempt failed for %s: %v, stderr: %s", filePath, err, stderr.String())

		cmd = exec.Command("ffmpeg",
			"-i", filePath,
			"-vframes", "1",
			"-f", "image2pipe",
			"-vcodec", "png",
			"-",
		)
		stdout.Reset()
		stderr.Reset()
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr

		if err := cmd.Run(); err != nil {
			return nil, fmt.Errorf("ffmpeg failed: %v, stderr: %s", err, stderr.String())
		}
	}

	if stdout.Len() == 0 {
		return nil, fmt.Errorf("ffmpeg produced no output for %s", filePath)
	}

	logging.Debug("FFmpeg output size: %d bytes", stdout.Len())
	return stdout.Bytes(), nil
}

// renderWithImaging decodes the extracted frame, crops and downsamples it to
// the target size, and encodes JPEG at the fixed quality.
func renderWithImaging(frame []byte, width, height int) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(frame))
	if err != nil {
		return nil, fmt.Errorf("failed to decode frame: %w", err)
	}

	thumb := imaging.Fill(img, width, height, imaging.Center, imaging.Lanczos)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, thumb, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("failed to encode thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}

// GetCacheSize returns the total size and file count of the thumbnail cache
// directory. Results are cached briefly since the walk is expensive on large
// caches; on a walk error the last known values are returned.
func (t *ThumbnailGenerator) GetCacheSize() (int64, int, error) {
	last := t.lastCacheUpdate.Load()
	if last > 0 && time.Now().Unix()-last < int64(cacheSizeTTL.Seconds()) {
		return t.cachedSize.Load(), int(t.cachedCount.Load()), nil
	}

	t.sizeMu.Lock()
	defer t.sizeMu.Unlock()

	// Another caller may have refreshed while we waited.
	last = t.lastCacheUpdate.Load()
	if last > 0 && time.Now().Unix()-last < int64(cacheSizeTTL.Seconds()) {
		return t.cachedSize.Load(), int(t.cachedCount.Load()), nil
	}

	var size int64
	var count int64
	err := filepath.WalkDir(t.cacheDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		size += info.Size()
		count++
		return nil
	})
	if err != nil {
		logging.Warn("Thumbnail cache size walk failed: %v", err)
		return t.cachedSize.Load(), int(t.cachedCount.Load()), err
	}

	t.cachedSize.Store(size)
	t.cachedCount.Store(count)
	t.lastCacheUpdate.Store(time.Now().Unix())
	metrics.ThumbnailCacheBytes.Set(float64(size))
	metrics.ThumbnailCacheFiles.Set(float64(count))
	return size, int(count), nil
}
