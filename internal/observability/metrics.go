// Package observability wires the Prometheus collectors of astral-forecast
// into a single registry and exposes it over HTTP.
package observability

import (
	"fmt"
	stdlog "log"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tphakala/astral-forecast/internal/httpclient"
	"github.com/tphakala/astral-forecast/internal/logger"
	"github.com/tphakala/astral-forecast/internal/observability/metrics"
)

// Metrics holds all the metric collectors for the application.
type Metrics struct {
	registry   *prometheus.Registry
	Feed       *metrics.FeedMetrics
	Stargazing *metrics.StargazingMetrics
	MQTT       *metrics.MQTTMetrics
	HTTP       *metrics.HTTPMetrics
}

// NewMetrics creates a registry with every collector registered.
// Each call returns an independent registry.
func NewMetrics() (*Metrics, error) {
	registry := prometheus.NewRegistry()

	if err := registry.Register(collectors.NewGoCollector()); err != nil {
		return nil, fmt.Errorf("failed to register Go collector: %w", err)
	}
	if err := registry.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{})); err != nil {
		return nil, fmt.Errorf("failed to register process collector: %w", err)
	}

	feedMetrics, err := metrics.NewFeedMetrics(registry)
	if err != nil {
		return nil, fmt.Errorf("failed to create feed metrics: %w", err)
	}

	stargazingMetrics, err := metrics.NewStargazingMetrics(registry)
	if err != nil {
		return nil, fmt.Errorf("failed to create stargazing metrics: %w", err)
	}

	mqttMetrics, err := metrics.NewMQTTMetrics(registry)
	if err != nil {
		return nil, fmt.Errorf("failed to create MQTT metrics: %w", err)
	}

	httpMetrics, err := metrics.NewHTTPMetrics(registry)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP metrics: %w", err)
	}

	return &Metrics{
		registry:   registry,
		Feed:       feedMetrics,
		Stargazing: stargazingMetrics,
		MQTT:       mqttMetrics,
		HTTP:       httpMetrics,
	}, nil
}

// Registry returns the underlying Prometheus registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns the /metrics HTTP handler.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		ErrorLog:      stdlog.New(os.Stderr, "metrics handler: ", stdlog.LstdFlags),
		ErrorHandling: promhttp.HTTPErrorOnError,
	})
}

// InstrumentClient records every upstream request of c in the feed metrics.
func (m *Metrics) InstrumentClient(c *httpclient.Client) {
	c.SetObserver(func(info httpclient.RequestInfo) {
		m.Feed.ObserveUpstream(info.Host, info.Status, info.Duration)
		if info.Err != nil {
			log.Debug("upstream request failed",
				logger.String("host", info.Host),
				logger.Error(info.Err))
		}
	})
}
