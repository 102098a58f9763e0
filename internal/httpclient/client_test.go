package httpclient

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		cfg         *Config
		wantTimeout time.Duration
		wantUA      string
		wantTries   int
	}{
		{"nil config", nil, DefaultTimeout, defaultUserAgent, defaultMaxAttempts},
		{"zero values", &Config{}, DefaultTimeout, defaultUserAgent, defaultMaxAttempts},
		{"overrides", &Config{DefaultTimeout: 5 * time.Second, UserAgent: "astral-forecast/test", MaxAttempts: 1}, 5 * time.Second, "astral-forecast/test", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := New(tt.cfg)
			t.Cleanup(c.Close)
			assert.Equal(t, tt.wantTimeout, c.defaultTimeout)
			assert.Equal(t, tt.wantUA, c.userAgent)
			assert.Equal(t, tt.wantTries, c.maxAttempts)
		})
	}
}

func TestFetchJSON_Headers(t *testing.T) {
	transport := httpmock.NewMockTransport()
	client := New(&Config{Transport: transport, UserAgent: "stargazer/2.0"})
	t.Cleanup(client.Close)

	transport.RegisterResponder(http.MethodGet, testURL, func(req *http.Request) (*http.Response, error) {
		assert.Equal(t, "stargazer/2.0", req.Header.Get("User-Agent"))
		assert.Equal(t, "application/json", req.Header.Get("Accept"))
		return httpmock.NewStringResponse(http.StatusOK, `{}`), nil
	})

	_, err := client.FetchJSON(t.Context(), testURL, "weather")
	require.NoError(t, err)
}

func TestFetchJSON_DefaultTimeoutWithoutDeadline(t *testing.T) {
	client, transport := newMockClient(t)
	transport.RegisterResponder(http.MethodGet, testURL, func(req *http.Request) (*http.Response, error) {
		deadline, ok := req.Context().Deadline()
		assert.True(t, ok, "client adds a deadline")
		assert.WithinDuration(t, time.Now().Add(DefaultTimeout), deadline, time.Second)
		return httpmock.NewStringResponse(http.StatusOK, `{"forecast":{}}`), nil
	})

	// body is read after Do returns, so the timeout must outlive it
	body, err := client.FetchJSON(context.Background(), testURL, "weather")
	require.NoError(t, err)
	assert.JSONEq(t, `{"forecast":{}}`, string(body))
}

func TestFetchJSON_CallerDeadlineWins(t *testing.T) {
	client, transport := newMockClient(t)
	ctx, cancel := context.WithTimeout(t.Context(), time.Minute)
	defer cancel()
	want, _ := ctx.Deadline()

	transport.RegisterResponder(http.MethodGet, testURL, func(req *http.Request) (*http.Response, error) {
		got, ok := req.Context().Deadline()
		assert.True(t, ok)
		assert.Equal(t, want, got)
		return httpmock.NewStringResponse(http.StatusOK, `{}`), nil
	})

	_, err := client.FetchJSON(ctx, testURL, "nasa")
	require.NoError(t, err)
}

func TestDo_TimeoutReleasedOnClose(t *testing.T) {
	client, transport := newMockClient(t)
	transport.RegisterResponder(http.MethodGet, testURL,
		httpmock.NewStringResponder(http.StatusOK, "still here"))

	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, testURL, http.NoBody)
	require.NoError(t, err)
	resp, err := client.Do(context.Background(), req)
	require.NoError(t, err)

	wrapped, ok := resp.Body.(*cancelOnClose)
	require.True(t, ok, "body carries the timeout cancel func")

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "still here", string(body))

	cancelled := false
	cancel := wrapped.cancel
	wrapped.cancel = func() { cancelled = true; cancel() }
	require.NoError(t, resp.Body.Close())
	assert.True(t, cancelled)
}

func TestDo_NilRequest(t *testing.T) {
	client, _ := newMockClient(t)
	_, err := client.Do(t.Context(), nil)
	assert.Error(t, err)
}

func TestFetchJSON_ObserverSeesEveryAttempt(t *testing.T) {
	client, transport := newMockClient(t)
	transport.RegisterResponder(http.MethodGet, testURL,
		httpmock.NewStringResponder(http.StatusServiceUnavailable, "busy").
			Then(httpmock.NewStringResponder(http.StatusOK, `{"ok":true}`)))

	var (
		mu    sync.Mutex
		infos []RequestInfo
	)
	client.SetObserver(func(info RequestInfo) {
		mu.Lock()
		defer mu.Unlock()
		infos = append(infos, info)
	})

	_, err := client.FetchJSON(t.Context(), testURL, "nasa")
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, infos, 2)
	assert.Equal(t, http.StatusServiceUnavailable, infos[0].Status)
	assert.Equal(t, http.StatusOK, infos[1].Status)
	assert.Equal(t, "api.example.test", infos[1].Host)
	assert.Equal(t, "/v1/feed", infos[1].Path)
	assert.Contains(t, infos[0].String(), "status=503")
}

func TestFetchJSON_Concurrent(t *testing.T) {
	client, transport := newMockClient(t)
	transport.RegisterResponder(http.MethodGet, testURL,
		httpmock.NewStringResponder(http.StatusOK, `{"ok":true}`))

	const callers = 20
	var wg sync.WaitGroup
	for range callers {
		wg.Go(func() {
			_, err := client.FetchJSON(t.Context(), testURL, "weather")
			assert.NoError(t, err)
		})
	}
	wg.Wait()

	assert.Equal(t, callers, transport.GetTotalCallCount())
}

func TestWithQuery(t *testing.T) {
	t.Parallel()

	got, err := WithQuery("https://api.nasa.gov/planetary/apod?thumbs=true", url.Values{"api_key": {"DEMO_KEY"}})
	require.NoError(t, err)
	assert.Equal(t, "https://api.nasa.gov/planetary/apod?api_key=DEMO_KEY&thumbs=true", got)

	_, err = WithQuery("://bad", nil)
	assert.Error(t, err)
}
