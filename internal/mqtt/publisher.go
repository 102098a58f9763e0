package mqtt

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/tphakala/astral-forecast/internal/dashboard"
	"github.com/tphakala/astral-forecast/internal/errors"
)

// ReportPublisher publishes dashboard reports as JSON to
// <prefix>/<location slug>/tonight.
type ReportPublisher struct {
	client Client
	prefix string
}

// NewReportPublisher returns a publisher writing under prefix.
func NewReportPublisher(client Client, prefix string) *ReportPublisher {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		prefix = DefaultConfig().Topic
	}
	return &ReportPublisher{client: client, prefix: prefix}
}

// Topic returns the topic a location's report is published to.
func (p *ReportPublisher) Topic(slug string) string {
	return p.prefix + "/" + slug + "/tonight"
}

// PublishReport connects on demand and publishes report.
func (p *ReportPublisher) PublishReport(ctx context.Context, report *dashboard.Report) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return errors.New(err).
			Component("mqtt").
			Category(errors.CategoryMQTTPublish).
			Context("location", report.Location.Slug).
			Build()
	}

	if !p.client.IsConnected() {
		if err := p.client.Connect(ctx); err != nil {
			return err
		}
	}

	return p.client.Publish(ctx, p.Topic(report.Location.Slug), payload)
}
