// Package nasa talks to api.nasa.gov: the Astronomy Picture of the Day and
// the NeoWs near-Earth-object feed. Requests share one token bucket.
package nasa

import (
	"context"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/tphakala/astral-forecast/internal/conf"
	"github.com/tphakala/astral-forecast/internal/errors"
	"github.com/tphakala/astral-forecast/internal/httpclient"
	"github.com/tphakala/astral-forecast/internal/logger"
)

const (
	componentName = "nasa"
	dateLayout    = "2006-01-02"

	apodPath = "/planetary/apod"
	feedPath = "/neo/rest/v1/feed"
)

// Client fetches NASA feeds through a shared rate limiter.
type Client struct {
	http     *httpclient.Client
	endpoint string
	apodKey  string
	neoKey   string
	limiter  *rate.Limiter
}

func getLogger() logger.Logger {
	return logger.Global().Module(componentName)
}

// NewClient returns a client configured from settings. Missing keys fall
// back to NASA's shared DEMO_KEY, which is heavily rate limited upstream.
func NewClient(client *httpclient.Client, settings *conf.Settings) *Client {
	nasa := settings.APIs.NASA

	endpoint := nasa.Endpoint
	if endpoint == "" {
		endpoint = conf.DefaultNASAEndpoint
	}
	apodKey := nasa.APODKey
	if apodKey == "" {
		apodKey = conf.DefaultNASAKey
	}
	neoKey := settings.NEOKey()
	if neoKey == "" {
		neoKey = apodKey
	}

	limit := rate.Limit(nasa.RateLimit)
	if nasa.RateLimit <= 0 {
		limit = rate.Inf
	}
	burst := max(nasa.Burst, 1)

	if apodKey == conf.DefaultNASAKey {
		getLogger().Warn("using NASA DEMO_KEY, set ASTRAL_APOD_KEY for a personal quota")
	}

	return &Client{
		http:     client,
		endpoint: endpoint,
		apodKey:  apodKey,
		neoKey:   neoKey,
		limiter:  rate.NewLimiter(limit, burst),
	}
}

// get waits for a limiter token, then fetches path with params.
func (c *Client) get(ctx context.Context, path string, params url.Values, operation string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		category := errors.CategoryLimit
		if ctx.Err() != nil {
			category = errors.CategoryCancellation
		}
		return nil, errors.New(err).
			Component(componentName).
			Category(category).
			Context("operation", operation).
			Build()
	}

	reqURL, err := httpclient.WithQuery(c.endpoint+path, params)
	if err != nil {
		return nil, errors.New(err).
			Component(componentName).
			Category(errors.CategoryConfiguration).
			Context("endpoint", c.endpoint).
			Build()
	}

	start := time.Now()
	body, err := c.http.FetchJSON(ctx, reqURL, componentName)
	if err != nil {
		return nil, err
	}

	getLogger().Debug("NASA request completed",
		logger.String("operation", operation),
		logger.Int("bytes", len(body)),
		logger.Duration("duration", time.Since(start)))
	return body, nil
}

func formatDate(t time.Time) string {
	return t.Format(dateLayout)
}
