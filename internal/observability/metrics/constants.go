// Package metrics provides the Prometheus collectors for astral-forecast.
package metrics

import "time"

// Label values shared by the collectors.
const (
	// Feed names used as the "feed" label.
	FeedWeather = "weather"
	FeedAPOD    = "apod"
	FeedNEO     = "neo"

	StatusSuccess = "success"
	StatusError   = "error"
)

// Histogram bucket configuration constants.
const (
	// BucketStart1ms is the starting bucket for 1ms histograms (1ms to ~1s range).
	BucketStart1ms = 0.001
	// BucketStart10ms is the starting bucket for 10ms histograms (10ms to ~5s range).
	BucketStart10ms = 0.01
	// BucketStart64B is the starting bucket for 64 byte histograms.
	BucketStart64B = 64.0

	BucketFactor2 = 2
	BucketCount10 = 10
)

// ShutdownTimeout is the timeout for graceful shutdown operations.
const ShutdownTimeout = 5 * time.Second
