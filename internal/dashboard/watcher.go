package dashboard

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/tphakala/astral-forecast/internal/locations"
	"github.com/tphakala/astral-forecast/internal/logger"
	"github.com/tphakala/astral-forecast/internal/observability/metrics"
	"github.com/tphakala/astral-forecast/internal/stargazing"
)

// Reporter builds a report for a location. *Service implements it.
type Reporter interface {
	Tonight(ctx context.Context, loc locations.Location) (*Report, error)
}

// Publisher sends a finished report somewhere, e.g. an MQTT broker.
type Publisher interface {
	PublishReport(ctx context.Context, report *Report) error
}

// Notifier delivers a short push message.
type Notifier interface {
	Notify(ctx context.Context, title, message string) error
}

// WatcherConfig configures a Watcher.
type WatcherConfig struct {
	Interval  time.Duration
	Locations []locations.Location
	// NotifyAt is the lowest verdict that triggers a notification.
	NotifyAt  stargazing.Verdict
	Publisher Publisher // optional
	Notifier  Notifier  // optional
	Metrics   *metrics.StargazingMetrics
}

// Watcher refreshes the reports of its locations on a fixed interval.
type Watcher struct {
	reporter Reporter
	cfg      WatcherConfig

	mu       sync.Mutex
	notified map[string]string // location slug -> report date already notified
}

// NewWatcher returns a Watcher polling reporter.
func NewWatcher(reporter Reporter, cfg WatcherConfig) *Watcher {
	if cfg.Interval <= 0 {
		cfg.Interval = 30 * time.Minute
	}
	return &Watcher{
		reporter: reporter,
		cfg:      cfg,
		notified: make(map[string]string),
	}
}

// Run polls immediately and then every interval until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	log := getLogger()
	log.Info("watcher started",
		logger.Int("locations", len(w.cfg.Locations)),
		logger.Duration("interval", w.cfg.Interval),
		logger.String("notify_at", w.cfg.NotifyAt.String()))

	ticker := time.NewTicker(w.cfg.Interval)
	defer ticker.Stop()

	for {
		w.Poll(ctx)

		select {
		case <-ctx.Done():
			log.Info("watcher stopped")
			return nil
		case <-ticker.C:
		}
	}
}

// Poll refreshes every location once. Failures are logged and counted;
// one location failing does not stop the others.
func (w *Watcher) Poll(ctx context.Context) {
	for _, loc := range w.cfg.Locations {
		if ctx.Err() != nil {
			return
		}
		w.pollLocation(ctx, loc)
	}
}

func (w *Watcher) pollLocation(ctx context.Context, loc locations.Location) {
	log := getLogger().With(logger.String("location", loc.Name))

	report, err := w.reporter.Tonight(ctx, loc)
	if err != nil {
		log.Warn("report refresh failed", logger.Error(err))
		return
	}

	if w.cfg.Publisher != nil {
		if err := w.cfg.Publisher.PublishReport(ctx, report); err != nil {
			log.Warn("failed to publish report", logger.Error(err))
		}
	}

	if w.cfg.Notifier != nil && w.shouldNotify(report) {
		err := w.cfg.Notifier.Notify(ctx, notificationTitle(report), notificationMessage(report))
		if w.cfg.Metrics != nil {
			w.cfg.Metrics.RecordNotification(err)
		}
		if err != nil {
			log.Warn("failed to send notification", logger.Error(err))
			return
		}
		w.markNotified(report)
		log.Info("clear night notification sent", logger.String("verdict", report.VerdictName()))
	}
}

// shouldNotify reports whether report meets the threshold and its night
// has not been notified yet.
func (w *Watcher) shouldNotify(report *Report) bool {
	if report.Verdict == nil || *report.Verdict < w.cfg.NotifyAt {
		return false
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.notified[report.Location.Slug] != report.Date
}

func (w *Watcher) markNotified(report *Report) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.notified[report.Location.Slug] = report.Date
}

func notificationTitle(r *Report) string {
	return fmt.Sprintf("%s: %s stargazing tonight", r.Location.Name, r.VerdictName())
}

func notificationMessage(r *Report) string {
	msg := fmt.Sprintf("Score %.1f/10. %s", r.Score10(), r.Headline)
	if r.Overview.Darkness != nil {
		msg += fmt.Sprintf(" Dark from %s to %s.",
			r.Overview.Darkness.Start.Format("15:04"), r.Overview.Darkness.End.Format("15:04"))
	}
	if r.Overview.MoonPhase != "" {
		msg += fmt.Sprintf(" Moon: %s (%.0f%%).", r.Overview.MoonPhase, r.Overview.MoonIllumination)
	}
	return msg
}
