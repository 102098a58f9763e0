package httpclient

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/astral-forecast/internal/errors"
)

const testURL = "https://api.example.test/v1/feed?api_key=0123456789abcdef"

func newMockClient(t *testing.T) (*Client, *httpmock.MockTransport) {
	t.Helper()
	transport := httpmock.NewMockTransport()
	client := New(&Config{Transport: transport, RetryBackoff: time.Millisecond})
	t.Cleanup(client.Close)
	return client, transport
}

func TestFetchJSON_Success(t *testing.T) {
	client, transport := newMockClient(t)
	transport.RegisterResponder(http.MethodGet, testURL,
		httpmock.NewStringResponder(http.StatusOK, `{"ok":true}`))

	body, err := client.FetchJSON(t.Context(), testURL, "weather")
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(body))
	assert.Equal(t, 1, transport.GetTotalCallCount())
}

func TestFetchJSON_RetriesServerErrors(t *testing.T) {
	client, transport := newMockClient(t)
	transport.RegisterResponder(http.MethodGet, testURL,
		httpmock.NewStringResponder(http.StatusServiceUnavailable, "busy").
			Then(httpmock.NewStringResponder(http.StatusOK, `{"ok":true}`)))

	body, err := client.FetchJSON(t.Context(), testURL, "weather")
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(body))
	assert.Equal(t, 2, transport.GetTotalCallCount())
}

func TestFetchJSON_GivesUpAfterMaxAttempts(t *testing.T) {
	client, transport := newMockClient(t)
	transport.RegisterResponder(http.MethodGet, testURL,
		httpmock.NewStringResponder(http.StatusBadGateway, "down"))

	_, err := client.FetchJSON(t.Context(), testURL, "nasa")
	require.Error(t, err)
	assert.Equal(t, defaultMaxAttempts, transport.GetTotalCallCount())
	assert.True(t, errors.IsCategory(err, errors.CategoryHTTP))
}

func TestFetchJSON_NoRetryOnClientErrors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		category errors.ErrorCategory
	}{
		{"unauthorized", http.StatusUnauthorized, errors.CategoryConfiguration},
		{"forbidden", http.StatusForbidden, errors.CategoryConfiguration},
		{"not found", http.StatusNotFound, errors.CategoryNotFound},
		{"bad request", http.StatusBadRequest, errors.CategoryValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, transport := newMockClient(t)
			transport.RegisterResponder(http.MethodGet, testURL,
				httpmock.NewStringResponder(tt.status, `{"error":"nope"}`))

			_, err := client.FetchJSON(t.Context(), testURL, "nasa")
			require.Error(t, err)
			assert.Equal(t, 1, transport.GetTotalCallCount(), "client errors must not be retried")
			assert.True(t, errors.IsCategory(err, tt.category))

			var ee *errors.EnhancedError
			require.ErrorAs(t, err, &ee)
			assert.Equal(t, tt.status, ee.GetContext()["status_code"])
			assert.NotContains(t, ee.GetContext()["url"], "0123456789abcdef", "api key must be scrubbed")
		})
	}
}

func TestFetchJSON_RetriesRateLimit(t *testing.T) {
	client, transport := newMockClient(t)
	transport.RegisterResponder(http.MethodGet, testURL,
		httpmock.NewStringResponder(http.StatusTooManyRequests, "slow down").
			Then(httpmock.NewStringResponder(http.StatusOK, `{}`)))

	_, err := client.FetchJSON(t.Context(), testURL, "nasa")
	require.NoError(t, err)
	assert.Equal(t, 2, transport.GetTotalCallCount())
}

func TestFetchJSON_RejectsHTML(t *testing.T) {
	client, transport := newMockClient(t)
	transport.RegisterResponder(http.MethodGet, testURL, func(req *http.Request) (*http.Response, error) {
		resp := httpmock.NewStringResponse(http.StatusOK, "<html>maintenance</html>")
		resp.Header.Set("Content-Type", "text/html; charset=utf-8")
		return resp, nil
	})

	_, err := client.FetchJSON(t.Context(), testURL, "weather")
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryFileParsing))
	assert.Equal(t, 1, transport.GetTotalCallCount())
}

func TestFetchJSON_NetworkErrorIsRetried(t *testing.T) {
	client, transport := newMockClient(t)
	transport.RegisterResponder(http.MethodGet, testURL,
		httpmock.NewErrorResponder(assert.AnError))

	_, err := client.FetchJSON(t.Context(), testURL, "weather")
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryNetwork))
	assert.Equal(t, defaultMaxAttempts, transport.GetTotalCallCount())
}

func TestFetchJSON_CancelledContext(t *testing.T) {
	client, transport := newMockClient(t)
	transport.RegisterResponder(http.MethodGet, testURL,
		httpmock.NewStringResponder(http.StatusOK, `{}`))

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, err := client.FetchJSON(ctx, testURL, "weather")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStatusCategory(t *testing.T) {
	assert.Equal(t, errors.CategoryConfiguration, StatusCategory(401))
	assert.Equal(t, errors.CategoryLimit, StatusCategory(429))
	assert.Equal(t, errors.CategoryNotFound, StatusCategory(404))
	assert.Equal(t, errors.CategoryHTTP, StatusCategory(500))
}
