package weather

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/astral-forecast/internal/conf"
	"github.com/tphakala/astral-forecast/internal/errors"
	"github.com/tphakala/astral-forecast/internal/httpclient"
	"github.com/tphakala/astral-forecast/internal/locations"
	"github.com/tphakala/astral-forecast/internal/stargazing"
)

func mustLookup(t *testing.T, name string) locations.Location {
	t.Helper()
	loc, err := locations.Lookup(name)
	require.NoError(t, err)
	return loc
}

func TestWeatherAPIProvider_Forecast_Success(t *testing.T) {
	provider, transport := newMockProvider(t)
	registerForecastResponder(t, transport, http.StatusOK, forecastSuccessResponse())

	forecast, err := provider.Forecast(t.Context(), mustLookup(t, "Kiruna"))
	require.NoError(t, err)

	assert.Equal(t, "Kiruna", forecast.Location)
	assert.Equal(t, "2024-03-10", forecast.Date)
	require.Len(t, forecast.Hours, 5)
	assert.Len(t, forecast.NightHours(), 3)

	first := forecast.Hours[0]
	require.NotNil(t, first.CloudCover)
	assert.InDelta(t, 0.0, *first.CloudCover, 0.001)
	assert.InDelta(t, 10.0, *first.Visibility, 0.001)
	assert.InDelta(t, 70.0, *first.Humidity, 0.001)
	assert.InDelta(t, -18.2, *first.Temperature, 0.001)
	assert.False(t, first.IsDaytime)
	assert.Equal(t, "Clear", first.Condition)
	assert.Equal(t, 0, first.Time.Hour())

	assert.Equal(t, "New Moon", forecast.Astro.MoonPhase)
	assert.Equal(t, "0", forecast.Astro.MoonIllumination)
	assert.Equal(t, "05:32 PM", forecast.Astro.Sunset)

	// the request carried the expected query
	info := transport.GetCallCountInfo()
	assert.Equal(t, 1, info[`GET =~^https://api\.weatherapi\.com/v1/forecast\.json`])
}

func TestWeatherAPIProvider_QueryParameters(t *testing.T) {
	provider, transport := newMockProvider(t)

	var got *http.Request
	transport.RegisterResponder(http.MethodGet, `=~^https://api\.weatherapi\.com/v1/forecast\.json`,
		func(req *http.Request) (*http.Response, error) {
			got = req
			return httpmockResponse(http.StatusOK, forecastSuccessResponse()), nil
		})

	_, err := provider.Forecast(t.Context(), mustLookup(t, "Visby"))
	require.NoError(t, err)
	require.NotNil(t, got)

	q := got.URL.Query()
	assert.Equal(t, "test-weather-key", q.Get("key"))
	assert.Equal(t, "57.6348,18.2948", q.Get("q"))
	assert.Equal(t, "1", q.Get("days"))
	assert.Equal(t, "no", q.Get("aqi"))
	assert.Equal(t, "no", q.Get("alerts"))
}

func TestWeatherAPIProvider_HTTPError(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		category   errors.ErrorCategory
	}{
		{"unauthorized", http.StatusUnauthorized, errors.CategoryConfiguration},
		{"forbidden", http.StatusForbidden, errors.CategoryConfiguration},
		{"bad_request", http.StatusBadRequest, errors.CategoryValidation},
		{"service_unavailable", http.StatusServiceUnavailable, errors.CategoryHTTP},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider, transport := newMockProvider(t)
			registerForecastResponder(t, transport, tt.statusCode, `{"error":{"code":2006,"message":"API key is invalid."}}`)

			forecast, err := provider.Forecast(t.Context(), mustLookup(t, "Umeå"))
			require.Error(t, err)
			assert.Nil(t, forecast)
			assert.True(t, errors.IsCategory(err, tt.category), "got %v", err)
			assert.NotContains(t, err.Error(), "test-weather-key")
		})
	}
}

func TestNewWeatherAPIProvider_NoKey(t *testing.T) {
	_, err := NewWeatherAPIProvider(httpclient.New(nil), conf.WeatherSettings{})
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryConfiguration))
	assert.Contains(t, err.Error(), "ASTRAL_WEATHER_KEY")
}

func TestNormalize_MoonIlluminationForms(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"number", `42`, "42"},
		{"decimal", `12.5`, "12.5"},
		{"string", `"87"`, "87"},
		{"percent string", `"87%"`, "87%"},
		{"null", `null`, ""},
		{"object", `{}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := `{"forecast":{"forecastday":[{"date":"2024-03-10","astro":{"moon_illumination":` + tt.raw + `},"hour":[]}]}}`
			forecast, err := Normalize([]byte(body))
			require.NoError(t, err)
			assert.Equal(t, tt.want, forecast.Astro.MoonIllumination)
		})
	}
}

func TestNormalize_MissingFields(t *testing.T) {
	body := `{"forecast":{"forecastday":[{"date":"2024-03-10","astro":{},"hour":[
		{"time":"2024-03-10 22:00","is_day":0,"cloud":10},
		{"time":"not a time","is_day":0,"cloud":10,"humidity":50,"vis_km":10}
	]}]}}`

	forecast, err := Normalize([]byte(body))
	require.NoError(t, err)
	require.Len(t, forecast.Hours, 2)

	assert.NotNil(t, forecast.Hours[0].CloudCover)
	assert.Nil(t, forecast.Hours[0].Humidity, "absent fields stay absent")
	assert.Nil(t, forecast.Hours[0].Visibility)
	assert.Equal(t, "UTC", forecast.Timezone)
	assert.Equal(t, time.Date(2024, 3, 10, 22, 0, 0, 0, time.UTC), forecast.Hours[0].Time)

	assert.True(t, forecast.Hours[1].Time.IsZero())
	_, err = stargazing.ComputeScores(forecast.NightHours(), forecast.Astro)
	assert.ErrorIs(t, err, stargazing.ErrInvalidRecord, "the engine rejects hours without a timestamp")
}

func TestNormalize_Malformed(t *testing.T) {
	_, err := Normalize([]byte(`{"forecast":`))
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryFileParsing))

	_, err = Normalize([]byte(`{"forecast":{"forecastday":[]}}`))
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryFileParsing))
}

func TestForecastScoresEndToEnd(t *testing.T) {
	forecast, err := Normalize([]byte(forecastSuccessResponse()))
	require.NoError(t, err)

	scores, err := stargazing.ComputeScores(forecast.NightHours(), forecast.Astro)
	require.NoError(t, err)
	require.Len(t, scores, 3)

	// 00:00 clear, max visibility, 70% humidity, new moon
	assert.InDelta(t, 100*(0.40+0.30+0.15*0.30+0.15), scores[0].Score, 0.001)
	// 23:00 overcast, half visibility, 90% humidity
	assert.InDelta(t, 100*(0.30*0.5+0.15*0.10+0.15), scores[2].Score, 0.001)
}
