package nasa

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/astral-forecast/internal/conf"
	"github.com/tphakala/astral-forecast/internal/errors"
	"github.com/tphakala/astral-forecast/internal/httpclient"
)

const (
	apodURL = `=~^https://api\.nasa\.gov/planetary/apod`
	feedURL = `=~^https://api\.nasa\.gov/neo/rest/v1/feed`
)

func testSettings() *conf.Settings {
	s := &conf.Settings{}
	s.APIs.NASA = conf.NASASettings{
		APODKey:   "apod-key",
		NEOKey:    "neo-key",
		Endpoint:  conf.DefaultNASAEndpoint,
		RateLimit: 100,
		Burst:     10,
	}
	return s
}

func newMockClient(t *testing.T, settings *conf.Settings) (*Client, *httpmock.MockTransport) {
	t.Helper()
	transport := httpmock.NewMockTransport()
	hc := httpclient.New(&httpclient.Config{Transport: transport, RetryBackoff: time.Millisecond})
	t.Cleanup(hc.Close)
	return NewClient(hc, settings), transport
}

const apodResponse = `{
	"title": " The Horsehead Nebula ",
	"date": "2025-01-15",
	"explanation": "<p>The <b>Horsehead</b> is a dark nebula.</p>",
	"url": "https://apod.nasa.gov/apod/image/horse.jpg",
	"hdurl": "https://apod.nasa.gov/apod/image/horse_hd.jpg",
	"media_type": "image",
	"copyright": "\nJane\n Doe "
}`

func TestAPOD_Success(t *testing.T) {
	t.Parallel()

	client, transport := newMockClient(t, testSettings())
	transport.RegisterResponder(http.MethodGet, apodURL, httpmock.NewStringResponder(http.StatusOK, apodResponse))

	apod, err := client.APOD(t.Context(), time.Time{})
	require.NoError(t, err)

	assert.Equal(t, "The Horsehead Nebula", apod.Title)
	assert.Equal(t, "2025-01-15", apod.Date)
	assert.NotContains(t, apod.Explanation, "<")
	assert.Contains(t, apod.Explanation, "Horsehead")
	assert.Equal(t, "Jane Doe", apod.Copyright)
	assert.Equal(t, "https://apod.nasa.gov/apod/image/horse_hd.jpg", apod.ImageURL())
	assert.True(t, apod.IsImage())
}

func TestAPOD_QueryParams(t *testing.T) {
	t.Parallel()

	client, transport := newMockClient(t, testSettings())
	transport.RegisterResponderWithQuery(http.MethodGet, "https://api.nasa.gov/planetary/apod",
		map[string]string{"api_key": "apod-key", "date": "2024-12-24"},
		httpmock.NewStringResponder(http.StatusOK, apodResponse))

	_, err := client.APOD(t.Context(), time.Date(2024, 12, 24, 21, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 1, transport.GetTotalCallCount())
}

func TestAPOD_ImageURLFallback(t *testing.T) {
	t.Parallel()

	apod, err := ParseAPOD([]byte(`{"title":"Clip","url":"https://youtube.com/embed/x","media_type":"video"}`))
	require.NoError(t, err)
	assert.Equal(t, "https://youtube.com/embed/x", apod.ImageURL())
	assert.False(t, apod.IsImage())
}

func TestParseAPOD_Invalid(t *testing.T) {
	t.Parallel()

	for _, body := range []string{`not json`, `{"title":"no media"}`} {
		_, err := ParseAPOD([]byte(body))
		require.Error(t, err, body)
		assert.True(t, errors.IsCategory(err, errors.CategoryFileParsing), body)
	}
}

func TestAPOD_Forbidden(t *testing.T) {
	t.Parallel()

	client, transport := newMockClient(t, testSettings())
	transport.RegisterResponder(http.MethodGet, apodURL,
		httpmock.NewStringResponder(http.StatusForbidden, `{"error":{"code":"API_KEY_INVALID"}}`))

	_, err := client.APOD(t.Context(), time.Time{})
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryConfiguration))
	assert.Equal(t, 1, transport.GetTotalCallCount(), "bad keys are not retried")
	assert.NotContains(t, err.Error(), "apod-key")
}

func TestNEOFeed_Success(t *testing.T) {
	t.Parallel()

	client, transport := newMockClient(t, testSettings())
	transport.RegisterResponderWithQuery(http.MethodGet, "https://api.nasa.gov/neo/rest/v1/feed",
		map[string]string{"start_date": "2025-01-15", "end_date": "2025-01-15", "api_key": "neo-key"},
		httpmock.NewStringResponder(http.StatusOK, `{"near_earth_objects": {"2025-01-15": [
			{"name": "(2019 AB)", "is_potentially_hazardous_asteroid": true,
			 "close_approach_data": [{"close_approach_date": "2025-01-15", "miss_distance": {"lunar": "4.2"}}]}
		]}}`))

	approaches, err := client.NEOFeed(t.Context(), time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, approaches, 1)
	assert.Equal(t, "(2019 AB)", approaches[0].Name)
	assert.True(t, approaches[0].Hazardous)
}

func TestNEOFeed_KeyFallsBackToAPODKey(t *testing.T) {
	t.Parallel()

	settings := testSettings()
	settings.APIs.NASA.NEOKey = ""
	client, transport := newMockClient(t, settings)
	transport.RegisterResponderWithQuery(http.MethodGet, "https://api.nasa.gov/neo/rest/v1/feed",
		map[string]string{"start_date": "2025-01-15", "end_date": "2025-01-15", "api_key": "apod-key"},
		httpmock.NewStringResponder(http.StatusOK, `{"near_earth_objects": {}}`))

	approaches, err := client.NEOFeed(t.Context(), time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Empty(t, approaches)
}

func TestNewClient_DemoKey(t *testing.T) {
	t.Parallel()

	settings := testSettings()
	settings.APIs.NASA.APODKey = ""
	settings.APIs.NASA.NEOKey = ""
	client := NewClient(httpclient.New(nil), settings)

	assert.Equal(t, conf.DefaultNASAKey, client.apodKey)
	assert.Equal(t, conf.DefaultNASAKey, client.neoKey)
}

func TestNEOFeed_MalformedBody(t *testing.T) {
	t.Parallel()

	client, transport := newMockClient(t, testSettings())
	transport.RegisterResponder(http.MethodGet, feedURL, httpmock.NewStringResponder(http.StatusOK, `{"links": {}}`))

	_, err := client.NEOFeed(t.Context(), time.Time{})
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryFileParsing))
}

func TestRateLimiter_RespectsContext(t *testing.T) {
	t.Parallel()

	settings := testSettings()
	settings.APIs.NASA.RateLimit = 0.001
	settings.APIs.NASA.Burst = 1
	client, transport := newMockClient(t, settings)
	transport.RegisterResponder(http.MethodGet, apodURL, httpmock.NewStringResponder(http.StatusOK, apodResponse))

	_, err := client.APOD(t.Context(), time.Time{})
	require.NoError(t, err, "first request uses the burst token")

	ctx, cancel := context.WithTimeout(t.Context(), 50*time.Millisecond)
	defer cancel()
	_, err = client.APOD(ctx, time.Time{})
	require.Error(t, err)
	assert.Equal(t, 1, transport.GetTotalCallCount(), "second request never reaches upstream")
}
