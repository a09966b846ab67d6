package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds fetch and image-cache metrics for direct instrumentation in
// the catalog and cache layers.
type Metrics struct {
	FetchesTotal        prometheus.Counter
	FetchErrorsTotal    prometheus.Counter
	FetchDuration       prometheus.Histogram
	SnapshotItems       prometheus.Gauge
	ImageCacheHits      prometheus.Counter
	ImageCacheMisses    prometheus.Counter
	ImageDownloads      prometheus.Counter
	ImageDownloadErrors prometheus.Counter
	ImagesCached        prometheus.Gauge
}

// New creates and registers application metrics with the given registry.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		FetchesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "anireleases",
			Subsystem: "catalog",
			Name:      "fetches_total",
			Help:      "Total successful release fetches.",
		}),
		FetchErrorsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "anireleases",
			Subsystem: "catalog",
			Name:      "fetch_errors_total",
			Help:      "Release fetches that failed or were superseded.",
		}),
		FetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "anireleases",
			Subsystem: "catalog",
			Name:      "fetch_duration_seconds",
			Help:      "Duration of a full refresh (both media types).",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		SnapshotItems: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "anireleases",
			Subsystem: "catalog",
			Name:      "snapshot_items",
			Help:      "Items in the current release snapshot.",
		}),
		ImageCacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "anireleases",
			Subsystem: "images",
			Name:      "cache_hits_total",
			Help:      "Cover image lookups served from memory.",
		}),
		ImageCacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "anireleases",
			Subsystem: "images",
			Name:      "cache_misses_total",
			Help:      "Cover image lookups that required a download.",
		}),
		ImageDownloads: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "anireleases",
			Subsystem: "images",
			Name:      "downloads_total",
			Help:      "Cover image downloads completed and cached.",
		}),
		ImageDownloadErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "anireleases",
			Subsystem: "images",
			Name:      "download_errors_total",
			Help:      "Cover image downloads that failed or did not decode.",
		}),
		ImagesCached: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "anireleases",
			Subsystem: "images",
			Name:      "cached",
			Help:      "Cover images currently held in memory.",
		}),
	}

	reg.MustRegister(
		m.FetchesTotal,
		m.FetchErrorsTotal,
		m.FetchDuration,
		m.SnapshotItems,
		m.ImageCacheHits,
		m.ImageCacheMisses,
		m.ImageDownloads,
		m.ImageDownloadErrors,
		m.ImagesCached,
	)

	return m
}
