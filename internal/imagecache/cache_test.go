package imagecache

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hisame/anireleases/internal/metrics"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	return New(5*time.Second, metrics.New(prometheus.NewRegistry()))
}

// pngBytes encodes a small valid PNG for test servers.
func pngBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, width, height))); err != nil {
		t.Fatalf("encoding test image: %v", err)
	}
	return buf.Bytes()
}

func TestGetEmptyURL(t *testing.T) {
	c := newTestCache(t)
	if _, ok := c.Get(""); ok {
		t.Error("Get(\"\") reported a hit")
	}
}

func TestFetchCachesAndNotifies(t *testing.T) {
	data := pngBytes(t, 3, 5)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(data)
	}))
	defer srv.Close()

	c := newTestCache(t)

	var mu sync.Mutex
	var notified []string
	c.Subscribe(func(url string) {
		mu.Lock()
		notified = append(notified, url)
		mu.Unlock()
	})

	img, err := c.Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if img.ContentType != "image/png" {
		t.Errorf("ContentType = %q, want image/png", img.ContentType)
	}
	if img.Width != 3 || img.Height != 5 {
		t.Errorf("dimensions = %dx%d, want 3x5", img.Width, img.Height)
	}
	if !bytes.Equal(img.Data, data) {
		t.Error("cached bytes differ from the served image")
	}

	cached, ok := c.Get(srv.URL)
	if !ok || cached != img {
		t.Error("Get after Fetch did not return the cached image")
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}

	mu.Lock()
	defer mu.Unlock()
	if len(notified) != 1 || notified[0] != srv.URL {
		t.Errorf("subscriber notifications = %v, want exactly one for %s", notified, srv.URL)
	}
}

func TestFetchDeduplicatesInFlight(t *testing.T) {
	var requests atomic.Int32
	release := make(chan struct{})
	data := pngBytes(t, 1, 1)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		<-release
		w.Write(data)
	}))
	defer srv.Close()

	c := newTestCache(t)

	const callers = 8
	var wg sync.WaitGroup
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = c.Fetch(context.Background(), srv.URL)
		}(i)
	}

	// Give the goroutines time to pile onto the same flight, then let the
	// single upstream request finish.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Errorf("caller %d: %v", i, err)
		}
	}
	if n := requests.Load(); n != 1 {
		t.Errorf("upstream saw %d requests, want 1", n)
	}
}

func TestFetchRejectsNonImage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not an image</html>"))
	}))
	defer srv.Close()

	c := newTestCache(t)
	if _, err := c.Fetch(context.Background(), srv.URL); err == nil {
		t.Fatal("expected error for non-image body")
	}
	if c.Len() != 0 {
		t.Errorf("Len() = %d after failed fetch, want 0", c.Len())
	}
}

func TestFetchRejectsErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	c := newTestCache(t)
	if _, err := c.Fetch(context.Background(), srv.URL); err == nil {
		t.Fatal("expected error for 404 response")
	}
}

func TestRequestIsFireAndForget(t *testing.T) {
	data := pngBytes(t, 2, 2)
	done := make(chan struct{})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(data)
	}))
	defer srv.Close()

	c := newTestCache(t)
	c.Subscribe(func(string) { close(done) })

	c.Request(srv.URL)

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for the background download")
	}

	if _, ok := c.Get(srv.URL); !ok {
		t.Error("image not cached after Request completed")
	}

	// Requesting an already cached URL is a no-op.
	c.Request(srv.URL)
	c.Request("")
}
