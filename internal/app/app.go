// Package app wires settings into the running components shared by every command.
package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/tphakala/astral-forecast/internal/buildinfo"
	"github.com/tphakala/astral-forecast/internal/conf"
	"github.com/tphakala/astral-forecast/internal/dashboard"
	"github.com/tphakala/astral-forecast/internal/feedcache"
	"github.com/tphakala/astral-forecast/internal/httpclient"
	"github.com/tphakala/astral-forecast/internal/locations"
	"github.com/tphakala/astral-forecast/internal/logger"
	"github.com/tphakala/astral-forecast/internal/mqtt"
	"github.com/tphakala/astral-forecast/internal/nasa"
	"github.com/tphakala/astral-forecast/internal/notification"
	"github.com/tphakala/astral-forecast/internal/observability"
	"github.com/tphakala/astral-forecast/internal/stargazing"
	"github.com/tphakala/astral-forecast/internal/weather"
)

const (
	// cacheCleanupInterval is how often expired feed entries are dropped.
	cacheCleanupInterval = 10 * time.Minute

	// SkipConfigAnnotation marks cobra commands that run without loading the configuration.
	SkipConfigAnnotation = "skip-config"
)

// Context carries what the root command resolves before a subcommand runs.
type Context struct {
	Build      *buildinfo.Context
	ConfigFile string
	Location   string // --location override
	Debug      bool

	Settings *conf.Settings
}

// App is the set of components built from Settings.
type App struct {
	Settings *conf.Settings
	Build    *buildinfo.Context

	Metrics *observability.Metrics
	HTTP    *httpclient.Client
	Cache   *feedcache.Cache
	NASA    *nasa.Client
	Service *dashboard.Service

	mqttClient mqtt.Client
	publisher  dashboard.Publisher
	notifier   dashboard.Notifier
}

func getLogger() logger.Logger {
	return logger.Global().Module("app")
}

// LoadSettings reads the configuration and applies command line overrides.
func (c *Context) LoadSettings() error {
	settings, err := conf.Load(c.ConfigFile)
	if err != nil {
		return err
	}
	if c.Debug {
		settings.Debug = true
	}
	if c.Location != "" {
		loc, err := locations.Lookup(c.Location)
		if err != nil {
			return err
		}
		settings.Location = loc.Name
	}
	c.Settings = settings
	return SetupLogging(settings)
}

// SetupLogging installs the global logger described by settings.
func SetupLogging(settings *conf.Settings) error {
	if settings.Debug {
		settings.Logging.DefaultLevel = string(logger.LogLevelDebug)
		if settings.Logging.Console != nil {
			settings.Logging.Console.Level = string(logger.LogLevelDebug)
		}
	}
	cl, err := logger.NewCentralLogger(&settings.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	logger.SetGlobal(cl)
	return nil
}

// Open builds the shared components. Close must be called when done.
func (c *Context) Open() (*App, error) {
	if c.Settings == nil {
		return nil, fmt.Errorf("settings not loaded")
	}
	return New(c.Settings, c.Build)
}

// New builds an App from settings.
func New(settings *conf.Settings, build *buildinfo.Context) (*App, error) {
	m, err := observability.NewMetrics()
	if err != nil {
		return nil, err
	}

	client := httpclient.New(&httpclient.Config{
		DefaultTimeout: settings.APIs.Timeout,
		UserAgent:      build.UserAgent(settings.APIs.UserAgent),
	})
	m.InstrumentClient(client)

	cache := feedcache.New(cacheCleanupInterval)
	cache.SetMetrics(m.Feed)

	var provider weather.Provider
	provider, err = weather.NewWeatherAPIProvider(client, settings.APIs.Weather)
	if err != nil {
		// NEO and APOD still work without a weather key
		getLogger().Warn("weather feed disabled", logger.Error(err))
		provider = unconfiguredWeather{err: err}
	}

	nasaClient := nasa.NewClient(client, settings)
	service := dashboard.NewService(provider, nasaClient, cache, settings.Cache)
	service.SetMetrics(m.Stargazing)

	a := &App{
		Settings: settings,
		Build:    build,
		Metrics:  m,
		HTTP:     client,
		Cache:    cache,
		NASA:     nasaClient,
		Service:  service,
	}

	if settings.MQTT.Enabled {
		a.mqttClient = mqtt.NewClient(settings.MQTT, m.MQTT)
		a.publisher = mqtt.NewReportPublisher(a.mqttClient, settings.MQTT.Topic)
	}

	if settings.Notify.Enabled {
		notifier, err := notification.NewServiceFromSettings(settings.Notify, settings.APIs.Timeout)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.notifier = notifier
	}

	return a, nil
}

// Watcher returns a watcher over the configured locations.
func (a *App) Watcher() (*dashboard.Watcher, error) {
	names := a.Settings.WatchedLocations()
	locs := make([]locations.Location, 0, len(names))
	for _, name := range names {
		loc, err := locations.Lookup(name)
		if err != nil {
			return nil, err
		}
		locs = append(locs, loc)
	}

	notifyAt, ok := stargazing.ParseVerdict(a.Settings.Watch.NotifyVerdict)
	if !ok {
		notifyAt = stargazing.VerdictExcellent
	}

	return dashboard.NewWatcher(a.Service, dashboard.WatcherConfig{
		Interval:  a.Settings.Watch.Interval,
		Locations: locs,
		NotifyAt:  notifyAt,
		Publisher: a.publisher,
		Notifier:  a.notifier,
		Metrics:   a.Metrics.Stargazing,
	}), nil
}

// Close releases network resources and flushes logs.
func (a *App) Close() {
	if a.mqttClient != nil {
		a.mqttClient.Disconnect()
	}
	a.HTTP.Close()
	if err := logger.Global().Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to flush logs: %v\n", err)
	}
}

// unconfiguredWeather fails every forecast with the reason the provider could not be built.
type unconfiguredWeather struct {
	err error
}

func (u unconfiguredWeather) Forecast(context.Context, locations.Location) (*weather.Forecast, error) {
	return nil, u.err
}
