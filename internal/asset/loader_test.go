package asset

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dasgefolge/sil/internal/core/display"
	"github.com/dasgefolge/sil/internal/errors"
)

func encodePNG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.NRGBA{R: 200, G: 30, B: 30, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func logoServer(t *testing.T, status int, body []byte) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(status)
		_, _ = w.Write(body)
	}))
	t.Cleanup(server.Close)
	return server, &hits
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []display.Event
}

func (publisher *recordingPublisher) Publish(_ context.Context, event display.Event) error {
	publisher.mu.Lock()
	defer publisher.mu.Unlock()
	publisher.events = append(publisher.events, event)
	return nil
}

func TestLoadDownloadsOnceThenUsesCache(t *testing.T) {
	server, hits := logoServer(t, http.StatusOK, encodePNG(t, 8, 4))
	cacheDir := filepath.Join(t.TempDir(), "fidera")

	loader, err := NewLoader("fidera", Config{URL: server.URL, CacheDir: cacheDir}, nil)
	require.NoError(t, err)

	img, err := loader.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 8, 4), img.Bounds())
	assert.FileExists(t, filepath.Join(cacheDir, "gefolge.png"))

	_, err = loader.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), hits.Load())
}

func TestLoadPrefersExistingCache(t *testing.T) {
	cacheDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(cacheDir, "gefolge.png"), encodePNG(t, 3, 3), 0o644))
	server, hits := logoServer(t, http.StatusInternalServerError, nil)

	loader, err := NewLoader("fidera", Config{URL: server.URL, CacheDir: cacheDir}, nil)
	require.NoError(t, err)

	img, err := loader.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, img.Bounds().Dx())
	assert.Zero(t, hits.Load())
}

func TestLoadHTTPFailure(t *testing.T) {
	server, _ := logoServer(t, http.StatusNotFound, []byte("missing"))
	cacheDir := t.TempDir()

	loader, err := NewLoader("fidera", Config{URL: server.URL, CacheDir: cacheDir}, nil)
	require.NoError(t, err)

	_, err = loader.Load(context.Background())
	var assetErr *errors.AssetError
	require.True(t, errors.As(err, &assetErr))
	assert.Equal(t, "download", assetErr.Op)
	assert.NoFileExists(t, filepath.Join(cacheDir, "gefolge.png"))
}

func TestLoadDoesNotCacheUndecodableDownload(t *testing.T) {
	cacheDir := t.TempDir()
	portal, _ := logoServer(t, http.StatusOK, []byte("<html>captive portal</html>"))

	loader, err := NewLoader("fidera", Config{URL: portal.URL, CacheDir: cacheDir}, nil)
	require.NoError(t, err)
	_, err = loader.Load(context.Background())
	var assetErr *errors.AssetError
	require.True(t, errors.As(err, &assetErr))
	assert.Equal(t, "decode", assetErr.Op)
	assert.NoFileExists(t, filepath.Join(cacheDir, "gefolge.png"))

	server, hits := logoServer(t, http.StatusOK, encodePNG(t, 5, 5))
	loader, err = NewLoader("fidera", Config{URL: server.URL, CacheDir: cacheDir}, nil)
	require.NoError(t, err)
	img, err := loader.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, img.Bounds().Dx())
	assert.Equal(t, int32(1), hits.Load())
	assert.FileExists(t, filepath.Join(cacheDir, "gefolge.png"))
}

func TestLoadReplacesUnreadableCache(t *testing.T) {
	cacheDir := t.TempDir()
	cached := filepath.Join(cacheDir, "gefolge.png")
	require.NoError(t, os.WriteFile(cached, []byte("<html>captive portal</html>"), 0o644))
	server, hits := logoServer(t, http.StatusOK, encodePNG(t, 6, 2))

	loader, err := NewLoader("fidera", Config{URL: server.URL, CacheDir: cacheDir}, nil)
	require.NoError(t, err)
	img, err := loader.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 6, 2), img.Bounds())
	assert.Equal(t, int32(1), hits.Load())

	data, err := os.ReadFile(cached)
	require.NoError(t, err)
	_, _, err = image.Decode(bytes.NewReader(data))
	assert.NoError(t, err)

	entries, err := os.ReadDir(cacheDir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files must not be left behind")
}

func TestLoadScalesLargeImages(t *testing.T) {
	server, _ := logoServer(t, http.StatusOK, encodePNG(t, 400, 200))

	loader, err := NewLoader("fidera", Config{URL: server.URL, CacheDir: t.TempDir(), MaxWidth: 100, MaxHeight: 100}, nil)
	require.NoError(t, err)

	img, err := loader.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 100, 50), img.Bounds())
}

func TestRunPublishesLogo(t *testing.T) {
	server, _ := logoServer(t, http.StatusOK, encodePNG(t, 2, 2))
	loader, err := NewLoader("fidera", Config{URL: server.URL, CacheDir: t.TempDir()}, nil)
	require.NoError(t, err)

	publisher := &recordingPublisher{}
	loader.Run(context.Background(), publisher)

	require.Len(t, publisher.events, 1)
	assert.Equal(t, display.EventLogo, publisher.events[0].Type)
	assert.NotNil(t, publisher.events[0].Logo)
}

func TestRunPublishesFailure(t *testing.T) {
	server, _ := logoServer(t, http.StatusBadGateway, nil)
	loader, err := NewLoader("fidera", Config{URL: server.URL, CacheDir: t.TempDir()}, nil)
	require.NoError(t, err)

	publisher := &recordingPublisher{}
	loader.Run(context.Background(), publisher)

	require.Len(t, publisher.events, 1)
	assert.Equal(t, display.EventAssetFailed, publisher.events[0].Type)
	assert.Error(t, publisher.events[0].Err)
}

func TestRunPublishesFallbackAfterFailure(t *testing.T) {
	server, _ := logoServer(t, http.StatusBadGateway, nil)
	fallback := image.NewRGBA(image.Rect(0, 0, 1, 1))
	loader, err := NewLoader("fidera", Config{URL: server.URL, CacheDir: t.TempDir(), Fallback: fallback}, nil)
	require.NoError(t, err)

	publisher := &recordingPublisher{}
	loader.Run(context.Background(), publisher)

	require.Len(t, publisher.events, 2)
	assert.Equal(t, display.EventAssetFailed, publisher.events[0].Type)
	assert.Equal(t, display.EventLogo, publisher.events[1].Type)
	assert.Same(t, fallback, publisher.events[1].Logo)
}

func TestFit(t *testing.T) {
	tests := []struct {
		name                  string
		width, height         int
		maxWidth, maxHeight   int
		wantWidth, wantHeight int
	}{
		{"inside bounds", 50, 40, 100, 100, 50, 40},
		{"no bounds", 5000, 4000, 0, 0, 5000, 4000},
		{"too wide", 400, 200, 100, 100, 100, 50},
		{"too tall", 200, 400, 100, 100, 50, 100},
		{"both", 1000, 900, 200, 100, 111, 100},
		{"thin", 1000, 1, 10, 10, 10, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			width, height := Fit(tt.width, tt.height, tt.maxWidth, tt.maxHeight)
			assert.Equal(t, tt.wantWidth, width)
			assert.Equal(t, tt.wantHeight, height)
		})
	}
}
