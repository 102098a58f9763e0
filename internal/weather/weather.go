// Package weather fetches the hourly forecast and astronomy block for a
// location from weatherapi.com and normalizes them into stargazing records.
package weather

import (
	"context"
	"net/url"
	"time"

	"github.com/tphakala/astral-forecast/internal/conf"
	"github.com/tphakala/astral-forecast/internal/errors"
	"github.com/tphakala/astral-forecast/internal/httpclient"
	"github.com/tphakala/astral-forecast/internal/locations"
	"github.com/tphakala/astral-forecast/internal/logger"
	"github.com/tphakala/astral-forecast/internal/stargazing"
)

const componentName = "weather"

// Provider returns tonight's forecast for a location.
type Provider interface {
	Forecast(ctx context.Context, loc locations.Location) (*Forecast, error)
}

// Forecast is one day of hourly records plus that day's astronomy.
type Forecast struct {
	Location string                            `json:"location"`
	Date     string                            `json:"date"`     // YYYY-MM-DD in the location's zone
	Timezone string                            `json:"timezone"` // IANA name reported upstream
	Hours    []stargazing.HourlyRecord         `json:"hours"`
	Astro    stargazing.AstronomicalConditions `json:"astro"`
}

// NightHours returns the forecast hours after dark.
func (f *Forecast) NightHours() []stargazing.HourlyRecord {
	return stargazing.NightHours(f.Hours)
}

// WeatherAPIProvider implements Provider against weatherapi.com.
type WeatherAPIProvider struct {
	client   *httpclient.Client
	endpoint string
	key      string
}

func getLogger() logger.Logger {
	return logger.Global().Module(componentName)
}

// NewWeatherAPIProvider returns a provider using client. The API key is required.
func NewWeatherAPIProvider(client *httpclient.Client, settings conf.WeatherSettings) (*WeatherAPIProvider, error) {
	if settings.Key == "" {
		return nil, errors.Newf("weatherapi.com API key not configured, set ASTRAL_WEATHER_KEY").
			Component(componentName).
			Category(errors.CategoryConfiguration).
			Build()
	}
	endpoint := settings.Endpoint
	if endpoint == "" {
		endpoint = conf.DefaultWeatherEndpoint
	}
	return &WeatherAPIProvider{client: client, endpoint: endpoint, key: settings.Key}, nil
}

// Forecast fetches one day of forecast for loc.
func (p *WeatherAPIProvider) Forecast(ctx context.Context, loc locations.Location) (*Forecast, error) {
	start := time.Now()

	reqURL, err := httpclient.WithQuery(p.endpoint+"/forecast.json", url.Values{
		"key":    {p.key},
		"q":      {loc.Query()},
		"days":   {"1"},
		"aqi":    {"no"},
		"alerts": {"no"},
	})
	if err != nil {
		return nil, errors.New(err).
			Component(componentName).
			Category(errors.CategoryConfiguration).
			Context("endpoint", p.endpoint).
			Build()
	}

	body, err := p.client.FetchJSON(ctx, reqURL, componentName)
	if err != nil {
		return nil, err
	}

	forecast, err := Normalize(body)
	if err != nil {
		return nil, err
	}
	forecast.Location = loc.Name

	getLogger().Info("forecast fetched",
		logger.String("location", loc.Name),
		logger.String("date", forecast.Date),
		logger.Int("hours", len(forecast.Hours)),
		logger.Int("night_hours", len(forecast.NightHours())),
		logger.Duration("duration", time.Since(start)))

	return forecast, nil
}
