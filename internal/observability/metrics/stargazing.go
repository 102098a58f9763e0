package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// StargazingMetrics exposes the latest nightly results per location.
type StargazingMetrics struct {
	NightlyScore  *prometheus.GaugeVec   // aggregate 0..100 by location
	Verdict       *prometheus.GaugeVec   // 0 poor .. 3 excellent by location
	ScoredHours   *prometheus.GaugeVec   // hours that produced a score, by location
	Reports       *prometheus.CounterVec // reports built by location and status
	Notifications *prometheus.CounterVec // notifications sent by status
	registry      *prometheus.Registry
}

// NewStargazingMetrics creates and registers the stargazing collectors.
func NewStargazingMetrics(registry *prometheus.Registry) (*StargazingMetrics, error) {
	m := &StargazingMetrics{registry: registry}
	m.initMetrics()
	if err := registry.Register(m); err != nil {
		return nil, fmt.Errorf("failed to register stargazing metrics: %w", err)
	}
	return m, nil
}

func (m *StargazingMetrics) initMetrics() {
	m.NightlyScore = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "astral_nightly_score",
		Help: "Latest aggregate stargazing score (0-100)",
	}, []string{"location"})

	m.Verdict = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "astral_nightly_verdict",
		Help: "Latest verdict band (0 poor, 1 mixed, 2 good, 3 excellent)",
	}, []string{"location"})

	m.ScoredHours = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "astral_scored_hours",
		Help: "Number of night hours scored in the latest report",
	}, []string{"location"})

	m.Reports = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "astral_reports_total",
		Help: "Total number of nightly reports built",
	}, []string{"location", "status"})

	m.Notifications = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "astral_notifications_total",
		Help: "Total number of clear-night notifications",
	}, []string{"status"})
}

// RecordReport stores the outcome of a report. ok is false when no hour could be scored.
func (m *StargazingMetrics) RecordReport(location string, score float64, ok bool, verdict, hours int) {
	if !ok {
		m.NightlyScore.DeleteLabelValues(location)
		m.Verdict.DeleteLabelValues(location)
	} else {
		m.NightlyScore.WithLabelValues(location).Set(score)
		m.Verdict.WithLabelValues(location).Set(float64(verdict))
	}
	m.ScoredHours.WithLabelValues(location).Set(float64(hours))
	m.Reports.WithLabelValues(location, StatusSuccess).Inc()
}

// RecordReportError counts a report that could not be built.
func (m *StargazingMetrics) RecordReportError(location string) {
	m.Reports.WithLabelValues(location, StatusError).Inc()
}

// RecordNotification counts a notification attempt.
func (m *StargazingMetrics) RecordNotification(err error) {
	status := StatusSuccess
	if err != nil {
		status = StatusError
	}
	m.Notifications.WithLabelValues(status).Inc()
}

// Collect implements the prometheus.Collector interface.
func (m *StargazingMetrics) Collect(ch chan<- prometheus.Metric) {
	m.NightlyScore.Collect(ch)
	m.Verdict.Collect(ch)
	m.ScoredHours.Collect(ch)
	m.Reports.Collect(ch)
	m.Notifications.Collect(ch)
}

// Describe implements the prometheus.Collector interface.
func (m *StargazingMetrics) Describe(ch chan<- *prometheus.Desc) {
	m.NightlyScore.Describe(ch)
	m.Verdict.Describe(ch)
	m.ScoredHours.Describe(ch)
	m.Reports.Describe(ch)
	m.Notifications.Describe(ch)
}
