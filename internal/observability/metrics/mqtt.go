package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/tphakala/astral-forecast/internal/logger"
)

// MQTTMetrics contains the Prometheus metrics of the report publisher.
type MQTTMetrics struct {
	ConnectionStatus  prometheus.Gauge
	MessagesPublished prometheus.Counter
	Errors            prometheus.Counter
	LastConnectTime   prometheus.Gauge
	MessageSize       prometheus.Histogram
	PublishLatency    prometheus.Histogram
	registry          *prometheus.Registry
}

// NewMQTTMetrics creates and registers the MQTT collectors.
func NewMQTTMetrics(registry *prometheus.Registry) (*MQTTMetrics, error) {
	m := &MQTTMetrics{registry: registry}
	m.initMetrics()
	if err := registry.Register(m); err != nil {
		return nil, fmt.Errorf("failed to register MQTT metrics: %w", err)
	}
	return m, nil
}

func (m *MQTTMetrics) initMetrics() {
	m.ConnectionStatus = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "astral_mqtt_connection_status",
		Help: "Current MQTT connection status (1 for connected, 0 for disconnected)",
	})

	m.MessagesPublished = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "astral_mqtt_messages_published_total",
		Help: "Total number of reports published to MQTT",
	})

	m.Errors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "astral_mqtt_errors_total",
		Help: "Total number of MQTT errors encountered",
	})

	m.LastConnectTime = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "astral_mqtt_last_connect_time_seconds",
		Help: "Timestamp of the last successful MQTT connection",
	})

	m.MessageSize = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "astral_mqtt_message_size_bytes",
		Help:    "Size of published MQTT messages in bytes",
		Buckets: prometheus.ExponentialBuckets(BucketStart64B, BucketFactor2, BucketCount10),
	})

	m.PublishLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "astral_mqtt_publish_latency_seconds",
		Help:    "Latency of MQTT publish operations in seconds",
		Buckets: prometheus.ExponentialBuckets(BucketStart1ms, BucketFactor2, BucketCount10),
	})
}

// UpdateConnectionStatus updates the connection gauge and last connect time.
func (m *MQTTMetrics) UpdateConnectionStatus(connected bool) {
	log.Trace("mqtt connection status changed", logger.Bool("connected", connected))
	if connected {
		m.ConnectionStatus.Set(1)
		m.LastConnectTime.SetToCurrentTime()
		return
	}
	m.ConnectionStatus.Set(0)
}

// RecordPublish records a publish attempt of size bytes that took d.
func (m *MQTTMetrics) RecordPublish(size int, d time.Duration, err error) {
	if err != nil {
		m.Errors.Inc()
		return
	}
	m.MessagesPublished.Inc()
	m.MessageSize.Observe(float64(size))
	m.PublishLatency.Observe(d.Seconds())
}

// IncrementErrors increments the count of MQTT errors.
func (m *MQTTMetrics) IncrementErrors() {
	m.Errors.Inc()
}

// Collect implements the prometheus.Collector interface.
func (m *MQTTMetrics) Collect(ch chan<- prometheus.Metric) {
	ch <- m.ConnectionStatus
	ch <- m.MessagesPublished
	ch <- m.Errors
	ch <- m.LastConnectTime
	ch <- m.MessageSize
	ch <- m.PublishLatency
}

// Describe implements the prometheus.Collector interface.
func (m *MQTTMetrics) Describe(ch chan<- *prometheus.Desc) {
	ch <- m.ConnectionStatus.Desc()
	ch <- m.MessagesPublished.Desc()
	ch <- m.Errors.Desc()
	ch <- m.LastConnectTime.Desc()
	ch <- m.MessageSize.Desc()
	ch <- m.PublishLatency.Desc()
}
