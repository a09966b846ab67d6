// Package imagecache downloads and memoizes cover images by URL.
//
// The cache is memory-only and unbounded: entries live for the process
// lifetime and are never evicted. Concurrent requests for the same URL are
// collapsed into a single download, and subscribers are notified once per
// newly cached URL so views showing the item can refresh.
package imagecache

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"golang.org/x/sync/singleflight"

	"github.com/hisame/anireleases/internal/metrics"
)

const (
	defaultTimeout = 20 * time.Second

	// maxImageBytes bounds a single download; AniList covers are far
	// smaller than this.
	maxImageBytes = 8 << 20
)

// Image is one decoded cover image held in memory.
type Image struct {
	Data        []byte
	ContentType string
	Width       int
	Height      int
}

// Cache maps cover URLs to downloaded images.
type Cache struct {
	httpClient *http.Client
	metrics    *metrics.Metrics
	log        *slog.Logger

	group singleflight.Group

	mu     sync.RWMutex
	images map[string]*Image
	subs   []func(url string)
}

// New creates an empty cache.
func New(timeout time.Duration, m *metrics.Metrics) *Cache {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Cache{
		httpClient: &http.Client{Timeout: timeout},
		metrics:    m,
		log:        slog.With("component", "image-cache"),
		images:     make(map[string]*Image),
	}
}

// Subscribe registers a callback invoked once per URL after its image is
// cached. Callbacks run on download goroutines and must not block.
func (c *Cache) Subscribe(fn func(url string)) {
	c.mu.Lock()
	c.subs = append(c.subs, fn)
	c.mu.Unlock()
}

// Get returns the cached image for a URL without triggering a download.
func (c *Cache) Get(url string) (*Image, bool) {
	if url == "" {
		return nil, false
	}
	c.mu.RLock()
	img, ok := c.images[url]
	c.mu.RUnlock()
	return img, ok
}

// Len reports how many images are cached.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.images)
}

// Request starts a background download for a URL unless it is already
// cached or in flight. Failures are logged and dropped.
func (c *Cache) Request(url string) {
	if url == "" {
		return
	}
	if _, ok := c.Get(url); ok {
		return
	}
	go func() {
		if _, err := c.Fetch(context.Background(), url); err != nil {
			c.log.Debug("cover download failed", "url", url, "error", err)
		}
	}()
}

// Fetch returns the image for a URL, downloading it if needed. Concurrent
// calls for the same URL share one download.
func (c *Cache) Fetch(ctx context.Context, url string) (*Image, error) {
	if url == "" {
		return nil, fmt.Errorf("empty image URL")
	}
	if img, ok := c.Get(url); ok {
		c.metrics.ImageCacheHits.Inc()
		return img, nil
	}
	c.metrics.ImageCacheMisses.Inc()

	v, err, _ := c.group.Do(url, func() (any, error) {
		// Re-check under the flight: a concurrent caller may have
		// already stored the image.
		if img, ok := c.Get(url); ok {
			return img, nil
		}
		img, err := c.download(ctx, url)
		if err != nil {
			c.metrics.ImageDownloadErrors.Inc()
			return nil, err
		}
		c.store(url, img)
		return img, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Image), nil
}

func (c *Cache) download(ctx context.Context, url string) (*Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}

	// Only responses that decode as an image are cached.
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("not a decodable image: %w", err)
	}

	return &Image{
		Data:        data,
		ContentType: "image/" + format,
		Width:       cfg.Width,
		Height:      cfg.Height,
	}, nil
}

func (c *Cache) store(url string, img *Image) {
	c.mu.Lock()
	c.images[url] = img
	subs := make([]func(string), len(c.subs))
	copy(subs, c.subs)
	c.mu.Unlock()

	c.metrics.ImageDownloads.Inc()
	c.metrics.ImagesCached.Set(float64(c.Len()))

	for _, fn := range subs {
		fn(url)
	}
}
