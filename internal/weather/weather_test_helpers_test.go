package weather

import (
	"net/http"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"

	"github.com/tphakala/astral-forecast/internal/conf"
	"github.com/tphakala/astral-forecast/internal/httpclient"
)

// newMockProvider returns a provider whose requests go to a mock transport.
func newMockProvider(t *testing.T) (*WeatherAPIProvider, *httpmock.MockTransport) {
	t.Helper()
	transport := httpmock.NewMockTransport()
	client := httpclient.New(&httpclient.Config{Transport: transport, RetryBackoff: time.Millisecond})
	t.Cleanup(client.Close)

	provider, err := NewWeatherAPIProvider(client, conf.WeatherSettings{
		Key:      "test-weather-key",
		Endpoint: conf.DefaultWeatherEndpoint,
	})
	if err != nil {
		t.Fatalf("failed to create provider: %v", err)
	}
	return provider, transport
}

// registerForecastResponder registers a mock responder for the forecast endpoint.
func registerForecastResponder(t *testing.T, transport *httpmock.MockTransport, statusCode int, body string) {
	t.Helper()
	transport.RegisterResponder(http.MethodGet, `=~^https://api\.weatherapi\.com/v1/forecast\.json`,
		httpmock.NewStringResponder(statusCode, body))
}

// forecastSuccessResponse is a trimmed forecast for Kiruna with two day and
// three night hours.
func forecastSuccessResponse() string {
	return `{
	"location": {"name": "Kiruna", "tz_id": "Europe/Stockholm", "localtime": "2024-03-10 18:00"},
	"forecast": {"forecastday": [{
		"date": "2024-03-10",
		"astro": {
			"sunrise": "06:41 AM", "sunset": "05:32 PM",
			"moonrise": "07:10 AM", "moonset": "06:02 PM",
			"moon_phase": "New Moon", "moon_illumination": 0
		},
		"hour": [
			{"time": "2024-03-10 00:00", "temp_c": -18.2, "cloud": 0, "humidity": 70, "is_day": 0, "vis_km": 10.0, "condition": {"text": "Clear"}},
			{"time": "2024-03-10 01:00", "temp_c": -18.9, "cloud": 20, "humidity": 75, "is_day": 0, "vis_km": 10.0, "condition": {"text": "Clear"}},
			{"time": "2024-03-10 12:00", "temp_c": -9.1, "cloud": 50, "humidity": 60, "is_day": 1, "vis_km": 10.0, "condition": {"text": "Partly cloudy"}},
			{"time": "2024-03-10 13:00", "temp_c": -8.7, "cloud": 60, "humidity": 58, "is_day": 1, "vis_km": 9.0, "condition": {"text": "Partly cloudy"}},
			{"time": "2024-03-10 23:00", "temp_c": -20.4, "cloud": 100, "humidity": 90, "is_day": 0, "vis_km": 5.0, "condition": {"text": "Overcast"}}
		]
	}]}
}`
}

func httpmockResponse(status int, body string) *http.Response {
	return httpmock.NewStringResponse(status, body)
}
