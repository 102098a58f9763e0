package httpclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tphakala/astral-forecast/internal/errors"
	"github.com/tphakala/astral-forecast/internal/logger"
)

// maxBodySize caps how much of a response body is read.
const maxBodySize = 8 << 20

func getLogger() logger.Logger {
	return logger.Global().Module("httpclient")
}

// FetchJSON GETs rawURL and returns the body of a 2xx response.
// Transient failures are retried with a linear backoff; configuration,
// not-found and other 4xx errors (except 429) are returned immediately.
// component names the caller in the returned EnhancedError.
func (c *Client) FetchJSON(ctx context.Context, rawURL, component string) ([]byte, error) {
	var lastErr error

	for attempt := 0; attempt < c.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, errors.New(err).
				Component(component).
				Category(errors.CategoryCancellation).
				URLContext(rawURL).
				Build()
		}

		body, err := c.fetchOnce(ctx, rawURL, component)
		if err == nil {
			return body, nil
		}
		lastErr = err

		if !retryable(err) || ctx.Err() != nil {
			return nil, err
		}

		if attempt < c.maxAttempts-1 {
			delay := time.Duration(attempt+1) * c.retryBackoff
			getLogger().Warn("request failed, retrying",
				logger.String("component", component),
				logger.Int("attempt", attempt+1),
				logger.Int("max_attempts", c.maxAttempts),
				logger.Int64("delay_ms", delay.Milliseconds()),
				logger.String("url", errors.ScrubURL(rawURL)),
				logger.Error(err))

			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, errors.New(ctx.Err()).
					Component(component).
					Category(errors.CategoryCancellation).
					URLContext(rawURL).
					Build()
			}
		}
	}

	return nil, lastErr
}

func (c *Client) fetchOnce(ctx context.Context, rawURL, component string) ([]byte, error) {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return nil, errors.Newf("failed to create HTTP request: %w", err).
			Component(component).
			Category(errors.CategoryValidation).
			URLContext(rawURL).
			Build()
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.Do(ctx, req)
	if err != nil {
		// url.Error repeats the request URL, keep only the cause
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		category := errors.CategoryNetwork
		switch {
		case errors.Is(err, context.Canceled):
			category = errors.CategoryCancellation
		case errors.Is(err, context.DeadlineExceeded):
			category = errors.CategoryTimeout
		}
		return nil, errors.Newf("HTTP request failed: %w", err).
			Component(component).
			Category(category).
			URLContext(rawURL).
			Timing("fetch", time.Since(start)).
			Build()
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			getLogger().Debug("failed to close response body", logger.Error(err))
		}
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, errors.Newf("failed to read response body: %w", err).
			Component(component).
			Category(errors.CategoryNetwork).
			URLContext(rawURL).
			Context("status_code", resp.StatusCode).
			Build()
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			getLogger().Error("upstream rejected credentials, check the API key",
				logger.String("component", component),
				logger.Int("status_code", resp.StatusCode),
				logger.String("url", errors.ScrubURL(rawURL)))
		}
		return nil, errors.Newf("%s API error (status %d): %s", component, resp.StatusCode, preview(body)).
			Component(component).
			Category(StatusCategory(resp.StatusCode)).
			URLContext(rawURL).
			Context("status_code", resp.StatusCode).
			Build()
	}

	if ct := strings.ToLower(resp.Header.Get("Content-Type")); strings.Contains(ct, "text/html") {
		return nil, errors.Newf("%s API returned non-JSON response (Content-Type: %s)", component, ct).
			Component(component).
			Category(errors.CategoryFileParsing).
			URLContext(rawURL).
			Context("status_code", resp.StatusCode).
			Build()
	}

	getLogger().Debug("upstream request successful",
		logger.String("component", component),
		logger.String("url", errors.ScrubURL(rawURL)),
		logger.Int("response_size", len(body)),
		logger.Duration("duration", time.Since(start)))

	return body, nil
}

// retryable reports whether another attempt could succeed.
func retryable(err error) bool {
	var ee *errors.EnhancedError
	if !errors.As(err, &ee) {
		return true
	}
	switch ee.Category {
	case errors.CategoryConfiguration, errors.CategoryNotFound, errors.CategoryValidation,
		errors.CategoryCancellation, errors.CategoryFileParsing:
		return false
	}
	if status, ok := ee.GetContext()["status_code"].(int); ok {
		if status >= 400 && status < 500 && status != http.StatusTooManyRequests {
			return false
		}
	}
	return true
}

// StatusCategory maps an HTTP status code to an error category.
func StatusCategory(statusCode int) errors.ErrorCategory {
	switch statusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return errors.CategoryConfiguration
	case http.StatusTooManyRequests:
		return errors.CategoryLimit
	case http.StatusNotFound:
		return errors.CategoryNotFound
	case http.StatusBadRequest:
		return errors.CategoryValidation
	default:
		return errors.CategoryHTTP
	}
}

func preview(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > 200 {
		s = s[:200] + "..."
	}
	return errors.ScrubURL(s)
}

// String implements fmt.Stringer for log output.
func (r RequestInfo) String() string {
	return fmt.Sprintf("%s %s%s status=%d duration=%s", r.Method, r.Host, r.Path, r.Status, r.Duration)
}
