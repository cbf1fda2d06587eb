// Package asset loads the logo image shown on the Logo screen, caching the
// downloaded file in the user's cache directory.
package asset

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"github.com/dasgefolge/sil/internal/core/display"
	"github.com/dasgefolge/sil/internal/errors"
)

const (
	cacheFileName   = "gefolge.png"
	maxDownloadSize = 16 << 20
	defaultTimeout  = 30 * time.Second
)

// Config configures a Loader.
type Config struct {
	// URL is fetched when the cache is empty.
	URL string
	// CacheDir holds the cached file. Empty means the user cache dir.
	CacheDir string
	// MaxWidth and MaxHeight bound the decoded image; larger images are
	// scaled down preserving the aspect ratio. Zero disables the bound.
	MaxWidth  int
	MaxHeight int
	Client    *http.Client
	// Fallback is published after a failure so the Logo screen is not empty.
	Fallback image.Image
}

// Loader fetches and decodes the logo.
type Loader struct {
	url       string
	cacheDir  string
	maxWidth  int
	maxHeight int
	client    *http.Client
	fallback  image.Image
	logger    *zerolog.Logger
}

// NewLoader creates a loader. appName names the directory below the cache dir.
func NewLoader(appName string, config Config, logger *zerolog.Logger) (*Loader, error) {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	cacheDir := config.CacheDir
	if cacheDir == "" {
		userCache, err := os.UserCacheDir()
		if err != nil {
			return nil, &errors.AssetError{Op: "resolve cache dir", Err: err}
		}
		cacheDir = filepath.Join(userCache, appName)
	}
	client := config.Client
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	return &Loader{
		url:       config.URL,
		cacheDir:  cacheDir,
		maxWidth:  config.MaxWidth,
		maxHeight: config.MaxHeight,
		client:    client,
		fallback:  config.Fallback,
		logger:    logger,
	}, nil
}

// CachePath is where the downloaded logo is stored.
func (loader *Loader) CachePath() string {
	return filepath.Join(loader.cacheDir, cacheFileName)
}

// Load returns the logo, reading the cache first and downloading it on a miss.
// Only bytes that decode are cached; an unreadable cache file is discarded
// and downloaded again.
func (loader *Loader) Load(ctx context.Context) (image.Image, error) {
	path := loader.CachePath()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		img, decodeErr := decode(data)
		if decodeErr == nil {
			loader.logger.Debug().Str("path", path).Msg("using cached logo")
			return loader.fit(img), nil
		}
		loader.logger.Warn().Err(decodeErr).Str("path", path).Msg("discarding unreadable cached logo")
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, &errors.AssetError{Op: "remove", Path: path, Err: err}
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, &errors.AssetError{Op: "read", Path: path, Err: err}
	}

	data, err = loader.download(ctx)
	if err != nil {
		return nil, err
	}
	img, err := decode(data)
	if err != nil {
		return nil, &errors.AssetError{Op: "decode", Path: loader.url, Err: err}
	}
	if err := loader.store(data); err != nil {
		loader.logger.Warn().Err(err).Msg("failed to cache logo")
	}
	return loader.fit(img), nil
}

func decode(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	return img, err
}

// Run loads the logo and publishes the result. A failure does not end the
// session; the Logo screen shows the fallback image, if any, instead.
func (loader *Loader) Run(ctx context.Context, publisher display.Publisher) {
	img, err := loader.Load(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		loader.logger.Warn().Err(err).Msg("failed to load logo")
		if publishErr := publisher.Publish(ctx, display.AssetFailedEvent(err)); publishErr != nil {
			loader.logger.Debug().Err(publishErr).Msg("failed to report logo failure")
		}
		if loader.fallback == nil {
			return
		}
		img = loader.fallback
	}

	bounds := img.Bounds()
	loader.logger.Info().
		Int("width", bounds.Dx()).
		Int("height", bounds.Dy()).
		Msg("logo loaded")
	if err := publisher.Publish(ctx, display.LogoEvent(img)); err != nil {
		loader.logger.Debug().Err(err).Msg("failed to publish logo")
	}
}

func (loader *Loader) download(ctx context.Context) ([]byte, error) {
	if loader.url == "" {
		return nil, &errors.AssetError{Op: "download", Err: fmt.Errorf("no logo url configured")}
	}
	loader.logger.Info().Str("url", loader.url).Msg("downloading logo")

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, loader.url, nil)
	if err != nil {
		return nil, &errors.AssetError{Op: "download", Path: loader.url, Err: err}
	}
	response, err := loader.client.Do(request)
	if err != nil {
		return nil, &errors.AssetError{Op: "download", Path: loader.url, Err: err}
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return nil, &errors.AssetError{Op: "download", Path: loader.url, Err: fmt.Errorf("unexpected status %s", response.Status)}
	}
	data, err := io.ReadAll(io.LimitReader(response.Body, maxDownloadSize))
	if err != nil {
		return nil, &errors.AssetError{Op: "download", Path: loader.url, Err: err}
	}
	return data, nil
}

// store writes data to a temporary file next to the cache file and renames
// it into place, so readers never see a partial file.
func (loader *Loader) store(data []byte) error {
	if err := os.MkdirAll(loader.cacheDir, 0o755); err != nil {
		return &errors.AssetError{Op: "create cache dir", Path: loader.cacheDir, Err: err}
	}
	tmp, err := os.CreateTemp(loader.cacheDir, cacheFileName+".*.tmp")
	if err != nil {
		return &errors.AssetError{Op: "write", Path: loader.cacheDir, Err: err}
	}
	tmpPath := tmp.Name()
	_, writeErr := tmp.Write(data)
	closeErr := tmp.Close()
	if writeErr == nil {
		writeErr = closeErr
	}
	if writeErr == nil {
		writeErr = os.Rename(tmpPath, loader.CachePath())
	}
	if writeErr != nil {
		_ = os.Remove(tmpPath)
		return &errors.AssetError{Op: "write", Path: loader.CachePath(), Err: writeErr}
	}
	return nil
}

// fit scales img down so it fits the configured bounds.
func (loader *Loader) fit(img image.Image) image.Image {
	bounds := img.Bounds()
	width, height := Fit(bounds.Dx(), bounds.Dy(), loader.maxWidth, loader.maxHeight)
	if width == bounds.Dx() && height == bounds.Dy() {
		return img
	}
	scaled := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(scaled, scaled.Bounds(), img, bounds, draw.Over, nil)
	return scaled
}

// Fit returns the largest size not exceeding the bounds with the same aspect
// ratio as width x height. Images already inside the bounds are not enlarged.
func Fit(width, height, maxWidth, maxHeight int) (int, int) {
	if width <= 0 || height <= 0 {
		return width, height
	}
	if maxWidth > 0 && width > maxWidth {
		height = max(1, height*maxWidth/width)
		width = maxWidth
	}
	if maxHeight > 0 && height > maxHeight {
		width = max(1, width*maxHeight/height)
		height = maxHeight
	}
	return width, height
}
