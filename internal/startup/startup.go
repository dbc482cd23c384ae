package startup

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"media-store/internal/logging"
)

// Build-time variables (injected via -ldflags)
var (
	Version   = "dev"
	Commit    = "unknown"
	GoVersion = runtime.Version()
)

// Config holds all service configuration.
type Config struct {
	MediaDir     string
	CacheDir     string
	DatabaseDir  string
	Port         string
	ScanInterval time.Duration
	FastRenderer bool

	// Derived paths
	DatabasePath string
	ThumbnailDir string
}

// LoadConfig loads and validates configuration from environment variables.
func LoadConfig() (*Config, error) {
	logging.Info("media-store %s (%s, %s/%s, %s)", Version, Commit, runtime.GOOS, runtime.GOARCH, GoVersion)

	mediaDir := getEnv("MEDIA_DIR", "/media")
	cacheDir := getEnv("CACHE_DIR", "/cache")
	databaseDir := getEnv("DATABASE_DIR", "/database")
	port := getEnv("PORT", "8080")
	scanIntervalStr := getEnv("SCAN_INTERVAL", "30m")
	fastRenderer := getEnvBool("THUMBNAIL_FAST", true)

	logging.Info("  MEDIA_DIR:      %s", mediaDir)
	logging.Info("  CACHE_DIR:      %s", cacheDir)
	logging.Info("  DATABASE_DIR:   %s", databaseDir)
	logging.Info("  PORT:           %s", port)
	logging.Info("  SCAN_INTERVAL:  %s", scanIntervalStr)
	logging.Info("  THUMBNAIL_FAST: %v", fastRenderer)
	logging.Info("  LOG_LEVEL:      %s", logging.GetLevel())

	scanInterval, err := time.ParseDuration(scanIntervalStr)
	if err != nil {
		logging.Warn("Invalid SCAN_INTERVAL, using default: 30m")
		scanInterval = 30 * time.Minute
	}

	mediaDir, err = filepath.Abs(mediaDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve media directory path: %w", err)
	}
	cacheDir, err = filepath.Abs(cacheDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve cache directory path: %w", err)
	}
	databaseDir, err = filepath.Abs(databaseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve database directory path: %w", err)
	}

	// The media directory only needs to be readable; the cache and database
	// directories must exist and be writable before anything else starts.
	if _, err := os.Stat(mediaDir); err != nil {
		logging.Warn("Media directory issue: %v", err)
	}
	if err := ensureDirectory(cacheDir); err != nil {
		return nil, fmt.Errorf("cache directory: %w", err)
	}
	if err := ensureDirectory(databaseDir); err != nil {
		return nil, fmt.Errorf("database directory: %w", err)
	}

	return &Config{
		MediaDir:     mediaDir,
		CacheDir:     cacheDir,
		DatabaseDir:  databaseDir,
		Port:         port,
		ScanInterval: scanInterval,
		FastRenderer: fastRenderer,
		DatabasePath: filepath.Join(databaseDir, "media.db"),
		ThumbnailDir: filepath.Join(cacheDir, "thumbnails"),
	}, nil
}

func ensureDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}
	probe := filepath.Join(dir, ".write-probe")
	if err := os.WriteFile(probe, nil, 0o644); err != nil {
		return fmt.Errorf("%s is not writable: %w", dir, err)
	}
	if err := os.Remove(probe); err != nil {
		logging.Warn("failed to remove write probe %s: %v", probe, err)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	switch strings.ToLower(value) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}
