// Package dashboard assembles the nightly stargazing report for a location
// from the weather, NEO and APOD feeds, and runs the watch loop that
// publishes it.
package dashboard

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tphakala/astral-forecast/internal/conf"
	"github.com/tphakala/astral-forecast/internal/feedcache"
	"github.com/tphakala/astral-forecast/internal/locations"
	"github.com/tphakala/astral-forecast/internal/logger"
	"github.com/tphakala/astral-forecast/internal/nasa"
	"github.com/tphakala/astral-forecast/internal/neo"
	"github.com/tphakala/astral-forecast/internal/observability/metrics"
	"github.com/tphakala/astral-forecast/internal/stargazing"
	"github.com/tphakala/astral-forecast/internal/weather"
)

const (
	componentName = "dashboard"
	dateLayout    = "2006-01-02"

	// Every catalog location is in Sweden.
	defaultZone = "Europe/Stockholm"
)

// NASASource provides the NASA feeds.
type NASASource interface {
	APOD(ctx context.Context, date time.Time) (*nasa.APOD, error)
	NEOFeed(ctx context.Context, date time.Time) ([]neo.Approach, error)
}

// Service builds reports, caching each feed for its configured TTL.
type Service struct {
	weather weather.Provider
	nasa    NASASource
	cache   *feedcache.Cache
	ttl     conf.CacheSettings
	metrics *metrics.StargazingMetrics
	now     func() time.Time
}

func getLogger() logger.Logger {
	return logger.Global().Module(componentName)
}

// NewService returns a Service. Zero TTLs take the package defaults.
func NewService(w weather.Provider, n NASASource, cache *feedcache.Cache, ttl conf.CacheSettings) *Service {
	if ttl.Weather <= 0 {
		ttl.Weather = conf.DefaultWeatherTTL
	}
	if ttl.NEO <= 0 {
		ttl.NEO = conf.DefaultNEOTTL
	}
	if ttl.APOD <= 0 {
		ttl.APOD = conf.DefaultAPODTTL
	}
	return &Service{
		weather: w,
		nasa:    n,
		cache:   cache,
		ttl:     ttl,
		now:     time.Now,
	}
}

// SetMetrics attaches report metrics. Nil disables them.
func (s *Service) SetMetrics(m *metrics.StargazingMetrics) {
	s.metrics = m
}

// today returns the current date in Sweden.
func (s *Service) today() time.Time {
	return s.now().In(loadZone(defaultZone))
}

// Forecast returns the cached or freshly fetched forecast for loc.
func (s *Service) Forecast(ctx context.Context, loc locations.Location) (*weather.Forecast, time.Time, error) {
	key := feedcache.Key(metrics.FeedWeather, loc.Slug)
	return feedcache.GetOrFetch(ctx, s.cache, metrics.FeedWeather, key, s.ttl.Weather,
		func(ctx context.Context) (*weather.Forecast, error) {
			return s.weather.Forecast(ctx, loc)
		})
}

// NEO returns the close approaches for date. A zero date means today.
func (s *Service) NEO(ctx context.Context, date time.Time) ([]neo.Approach, time.Time, error) {
	if date.IsZero() {
		date = s.today()
	}
	key := feedcache.Key(metrics.FeedNEO, date.Format(dateLayout))
	return feedcache.GetOrFetch(ctx, s.cache, metrics.FeedNEO, key, s.ttl.NEO,
		func(ctx context.Context) ([]neo.Approach, error) {
			return s.nasa.NEOFeed(ctx, date)
		})
}

// APOD returns the picture of the day for date. A zero date means today.
func (s *Service) APOD(ctx context.Context, date time.Time) (*nasa.APOD, time.Time, error) {
	param := "today"
	if !date.IsZero() {
		param = date.Format(dateLayout)
	}
	key := feedcache.Key(metrics.FeedAPOD, param)
	return feedcache.GetOrFetch(ctx, s.cache, metrics.FeedAPOD, key, s.ttl.APOD,
		func(ctx context.Context) (*nasa.APOD, error) {
			return s.nasa.APOD(ctx, date)
		})
}

// Tonight builds the report for loc. The three feeds are fetched
// concurrently. A weather failure fails the report; NEO and APOD failures
// are recorded in Report.Errors and leave their section empty.
func (s *Service) Tonight(ctx context.Context, loc locations.Location) (*Report, error) {
	start := time.Now()
	log := getLogger().With(logger.String("location", loc.Name))

	var (
		forecast   *weather.Forecast
		weatherAt  time.Time
		approaches []neo.Approach
		neoAt      time.Time
		neoErr     error
		apod       *nasa.APOD
		apodAt     time.Time
		apodErr    error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		forecast, weatherAt, err = s.Forecast(gctx, loc)
		return err
	})
	g.Go(func() error {
		approaches, neoAt, neoErr = s.NEO(gctx, time.Time{})
		return nil
	})
	g.Go(func() error {
		apod, apodAt, apodErr = s.APOD(gctx, time.Time{})
		return nil
	})

	if err := g.Wait(); err != nil {
		s.recordError(loc)
		log.Error("weather feed failed, report unavailable", logger.Error(err))
		return nil, err
	}

	night := forecast.NightHours()
	scores, err := stargazing.ComputeScores(night, forecast.Astro)
	if err != nil {
		s.recordError(loc)
		log.Error("forecast rejected by score engine", logger.String("date", forecast.Date), logger.Error(err))
		return nil, err
	}

	report := &Report{
		Location:    loc,
		Date:        forecast.Date,
		GeneratedAt: s.now(),
		Overview:    NewOverview(forecast, loc),
		NightHours:  night,
		FetchedAt:   map[string]time.Time{metrics.FeedWeather: weatherAt},
	}
	report.setScores(scores)

	if neoErr != nil {
		log.Warn("NEO feed failed, section degraded", logger.Error(neoErr))
		report.sectionError(SectionNEO, neoErr)
	} else {
		report.NEO = &NEOSection{Summary: neo.Summarize(approaches), Approaches: approaches}
		report.FetchedAt[metrics.FeedNEO] = neoAt
	}

	if apodErr != nil {
		log.Warn("APOD feed failed, section degraded", logger.Error(apodErr))
		report.sectionError(SectionAPOD, apodErr)
	} else {
		report.APOD = apod
		report.FetchedAt[metrics.FeedAPOD] = apodAt
	}

	if s.metrics != nil {
		s.metrics.RecordReport(loc.Slug, report.Score, report.HasScore, int(stargazing.VerdictFor(report.Score)), len(scores))
	}

	log.Info("report built",
		logger.String("date", report.Date),
		logger.Int("scored_hours", len(scores)),
		logger.Float64("score", report.Score),
		logger.String("verdict", report.VerdictName()),
		logger.Int("degraded_sections", len(report.Errors)),
		logger.Duration("duration", time.Since(start)))

	return report, nil
}

func (s *Service) recordError(loc locations.Location) {
	if s.metrics != nil {
		s.metrics.RecordReportError(loc.Slug)
	}
}

// loadZone returns the named zone, or UTC when the name is unknown.
func loadZone(name string) *time.Location {
	if name == "" {
		return time.UTC
	}
	zone, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return zone
}
