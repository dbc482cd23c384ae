package media

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

// fakeResolver resolves ids from a fixed map.
type fakeResolver struct {
	paths map[string]string
}

func (f *fakeResolver) PathForID(id string) (string, error) {
	path, ok := f.paths[id]
	if !ok {
		return "", errors.New("no index entry")
	}
	return path, nil
}

// pngFrame returns an encoded PNG standing in for an extracted video frame.
func pngFrame(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 16), G: uint8(y * 16), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("Failed to encode test frame: %v", err)
	}
	return buf.Bytes()
}

func newTestGenerator(t *testing.T, ids ...string) (*ThumbnailGenerator, string) {
	t.Helper()
	cacheDir := t.TempDir()
	mediaDir := t.TempDir()

	paths := make(map[string]string, len(ids))
	for _, id := range ids {
		path := filepath.Join(mediaDir, id+".mp4")
		if err := os.WriteFile(path, []byte("fake video"), 0o644); err != nil {
			t.Fatalf("Failed to create backing file: %v", err)
		}
		paths[id] = path
	}

	gen := NewThumbnailGenerator(cacheDir, &fakeResolver{paths: paths})
	frame := pngFrame(t, 64, 48)
	gen.extract = func(string) ([]byte, error) { return frame, nil }
	return gen, cacheDir
}

func TestThumbnail_GeneratesJpeg(t *testing.T) {
	gen, _ := newTestGenerator(t, "vid-1")

	data, err := gen.Thumbnail("vid-1", 16, 16)
	if err != nil {
		t.Fatalf("Thumbnail() error: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("Expected thumbnail bytes")
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Generated thumbnail does not decode: %v", err)
	}
	if format != "jpeg" {
		t.Errorf("Expected jpeg encoding, got %s", format)
	}
	if img.Bounds().Dx() != 16 || img.Bounds().Dy() != 16 {
		t.Errorf("Expected 16x16 thumbnail, got %dx%d", img.Bounds().Dx(), img.Bounds().Dy())
	}
}

func TestThumbnail_CacheIdempotence(t *testing.T) {
	gen, _ := newTestGenerator(t, "vid-1")

	first, err := gen.Thumbnail("vid-1", 128, 128)
	if err != nil {
		t.Fatalf("First Thumbnail() error: %v", err)
	}

	// Break generation entirely; a second call at different dimensions must
	// still be served byte-identical bytes from the cache.
	gen.extract = func(string) ([]byte, error) { return nil, errors.New("extractor gone") }

	second, err := gen.Thumbnail("vid-1", 64, 64)
	if err != nil {
		t.Fatalf("Second Thumbnail() error: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Error("Expected cached bytes regardless of requested dimensions")
	}
}

func TestThumbnail_CachePersistedByID(t *testing.T) {
	gen, cacheDir := newTestGenerator(t, "vid-1")

	data, err := gen.Thumbnail("vid-1", 32, 32)
	if err != nil {
		t.Fatalf("Thumbnail() error: %v", err)
	}

	cached, err := os.ReadFile(filepath.Join(cacheDir, cacheKey("vid-1")))
	if err != nil {
		t.Fatalf("Expected cache file on disk: %v", err)
	}
	if !bytes.Equal(data, cached) {
		t.Error("Cache file content differs from returned bytes")
	}
}

func TestThumbnail_CachePurgeTolerated(t *testing.T) {
	gen, cacheDir := newTestGenerator(t, "vid-1")

	if _, err := gen.Thumbnail("vid-1", 32, 32); err != nil {
		t.Fatalf("Thumbnail() error: %v", err)
	}

	// The platform may purge the cache directory at any time; the next call
	// falls through to regeneration instead of failing.
	if err := os.Remove(filepath.Join(cacheDir, cacheKey("vid-1"))); err != nil {
		t.Fatalf("Failed to purge cache entry: %v", err)
	}

	data, err := gen.Thumbnail("vid-1", 32, 32)
	if err != nil {
		t.Fatalf("Thumbnail() after purge error: %v", err)
	}
	if len(data) == 0 {
		t.Error("Expected regenerated thumbnail after cache purge")
	}
}

func TestThumbnail_UnknownAsset(t *testing.T) {
	gen, _ := newTestGenerator(t)

	_, err := gen.Thumbnail("no-such-id", 128, 128)
	if !errors.Is(err, ErrAssetNotFound) {
		t.Errorf("Expected ErrAssetNotFound, got %v", err)
	}
}

func TestThumbnail_MissingBackingFile(t *testing.T) {
	cacheDir := t.TempDir()
	resolver := &fakeResolver{paths: map[string]string{
		"vid-1": filepath.Join(t.TempDir(), "deleted.mp4"),
	}}
	gen := NewThumbnailGenerator(cacheDir, resolver)

	_, err := gen.Thumbnail("vid-1", 128, 128)
	if !errors.Is(err, ErrAssetNotFound) {
		t.Errorf("Expected ErrAssetNotFound for deleted file, got %v", err)
	}
}

func TestThumbnail_UndecodableFrame(t *testing.T) {
	gen, cacheDir := newTestGenerator(t, "vid-1")
	gen.extract = func(string) ([]byte, error) { return []byte("not an image"), nil }

	if _, err := gen.Thumbnail("vid-1", 128, 128); err == nil {
		t.Fatal("Expected error for undecodable frame")
	}

	// A failed generation must not leave a cache entry behind.
	if _, err := os.Stat(filepath.Join(cacheDir, cacheKey("vid-1"))); !os.IsNotExist(err) {
		t.Error("Expected no cache file after failed generation")
	}
}

func TestCacheKey(t *testing.T) {
	if cacheKey("a") == cacheKey("b") {
		t.Error("Different ids must produce different cache keys")
	}
	if cacheKey("a") != cacheKey("a") {
		t.Error("Cache key must be deterministic")
	}
	if filepath.Ext(cacheKey("a")) != ".jpg" {
		t.Errorf("Expected .jpg cache files, got %s", cacheKey("a"))
	}
}

func TestGetCacheSize(t *testing.T) {
	gen, cacheDir := newTestGenerator(t)

	var total int64
	for i := 0; i < 3; i++ {
		content := bytes.Repeat([]byte("x"), 10*(i+1))
		total += int64(len(content))
		path := filepath.Join(cacheDir, fmt.Sprintf("thumb%d.jpg", i))
		if err := os.WriteFile(path, content, 0o644); err != nil {
			t.Fatalf("Failed to seed cache file: %v", err)
		}
	}

	size, count, err := gen.GetCacheSize()
	if err != nil {
		t.Fatalf("GetCacheSize() error: %v", err)
	}
	if size != total {
		t.Errorf("Expected size %d, got %d", total, size)
	}
	if count != 3 {
		t.Errorf("Expected count 3, got %d", count)
	}

	// Results are cached; a new file is not visible until the TTL lapses.
	if err := os.WriteFile(filepath.Join(cacheDir, "late.jpg"), []byte("xx"), 0o644); err != nil {
		t.Fatalf("Failed to seed late file: %v", err)
	}
	size2, count2, err := gen.GetCacheSize()
	if err != nil {
		t.Fatalf("Second GetCacheSize() error: %v", err)
	}
	if size2 != size || count2 != count {
		t.Errorf("Expected cached values (%d, %d), got (%d, %d)", size, count, size2, count2)
	}
}
