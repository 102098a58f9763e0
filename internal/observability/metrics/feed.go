package metrics

import (
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// FeedMetrics covers upstream requests and the feed cache.
type FeedMetrics struct {
	UpstreamRequests *prometheus.CounterVec   // by host and status code
	UpstreamDuration *prometheus.HistogramVec // by host
	CacheHits        *prometheus.CounterVec   // by feed
	CacheMisses      *prometheus.CounterVec   // by feed
	FetchErrors      *prometheus.CounterVec   // by feed and error category
	CacheEntries     prometheus.Gauge
	registry         *prometheus.Registry
}

// NewFeedMetrics creates and registers the feed collectors.
func NewFeedMetrics(registry *prometheus.Registry) (*FeedMetrics, error) {
	m := &FeedMetrics{registry: registry}
	m.initMetrics()
	if err := registry.Register(m); err != nil {
		return nil, fmt.Errorf("failed to register feed metrics: %w", err)
	}
	return m, nil
}

func (m *FeedMetrics) initMetrics() {
	m.UpstreamRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "astral_upstream_requests_total",
		Help: "Total number of requests sent to upstream APIs",
	}, []string{"host", "status_code"})

	m.UpstreamDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name: "astral_upstream_request_duration_seconds",
		Help: "Duration of upstream API requests",
		// 10ms to ~5s
		Buckets: prometheus.ExponentialBuckets(BucketStart10ms, BucketFactor2, BucketCount10),
	}, []string{"host"})

	m.CacheHits = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "astral_feed_cache_hits_total",
		Help: "Total number of feed cache hits",
	}, []string{"feed"})

	m.CacheMisses = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "astral_feed_cache_misses_total",
		Help: "Total number of feed cache misses",
	}, []string{"feed"})

	m.FetchErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "astral_feed_fetch_errors_total",
		Help: "Total number of failed feed fetches",
	}, []string{"feed", "category"})

	m.CacheEntries = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "astral_feed_cache_entries",
		Help: "Number of entries currently held by the feed cache",
	})
}

// ObserveUpstream records one upstream request. status 0 means no response.
func (m *FeedMetrics) ObserveUpstream(host string, status int, d time.Duration) {
	code := "none"
	if status > 0 {
		code = strconv.Itoa(status)
	}
	m.UpstreamRequests.WithLabelValues(host, code).Inc()
	m.UpstreamDuration.WithLabelValues(host).Observe(d.Seconds())
}

// RecordCacheHit increments the hit counter for feed.
func (m *FeedMetrics) RecordCacheHit(feed string) {
	m.CacheHits.WithLabelValues(feed).Inc()
}

// RecordCacheMiss increments the miss counter for feed.
func (m *FeedMetrics) RecordCacheMiss(feed string) {
	m.CacheMisses.WithLabelValues(feed).Inc()
}

// RecordFetchError counts a failed fetch by error category.
func (m *FeedMetrics) RecordFetchError(feed, category string) {
	m.FetchErrors.WithLabelValues(feed, category).Inc()
}

// SetCacheEntries updates the cache size gauge.
func (m *FeedMetrics) SetCacheEntries(n int) {
	m.CacheEntries.Set(float64(n))
}

// Collect implements the prometheus.Collector interface.
func (m *FeedMetrics) Collect(ch chan<- prometheus.Metric) {
	m.UpstreamRequests.Collect(ch)
	m.UpstreamDuration.Collect(ch)
	m.CacheHits.Collect(ch)
	m.CacheMisses.Collect(ch)
	m.FetchErrors.Collect(ch)
	ch <- m.CacheEntries
}

// Describe implements the prometheus.Collector interface.
func (m *FeedMetrics) Describe(ch chan<- *prometheus.Desc) {
	m.UpstreamRequests.Describe(ch)
	m.UpstreamDuration.Describe(ch)
	m.CacheHits.Describe(ch)
	m.CacheMisses.Describe(ch)
	m.FetchErrors.Describe(ch)
	ch <- m.CacheEntries.Desc()
}
