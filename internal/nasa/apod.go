package nasa

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"
	"time"

	"github.com/k3a/html2text"

	"github.com/tphakala/astral-forecast/internal/errors"
)

// APOD is the Astronomy Picture of the Day.
type APOD struct {
	Title       string `json:"title"`
	Date        string `json:"date"`
	Explanation string `json:"explanation"` // plain text
	URL         string `json:"url"`
	HDURL       string `json:"hdurl,omitempty"`
	MediaType   string `json:"media_type"` // "image" or "video"
	Copyright   string `json:"copyright,omitempty"`
}

// ImageURL returns the HD image when NASA provides one, else the normal URL.
func (a *APOD) ImageURL() string {
	if a.HDURL != "" {
		return a.HDURL
	}
	return a.URL
}

// IsImage reports whether the entry can be shown as a banner image.
func (a *APOD) IsImage() bool {
	return a.MediaType == "" || a.MediaType == "image"
}

// APOD fetches the picture for date. A zero date asks for today's picture.
func (c *Client) APOD(ctx context.Context, date time.Time) (*APOD, error) {
	params := url.Values{"api_key": {c.apodKey}}
	if !date.IsZero() {
		params.Set("date", formatDate(date))
	}

	body, err := c.get(ctx, apodPath, params, "apod")
	if err != nil {
		return nil, err
	}
	return ParseAPOD(body)
}

// ParseAPOD decodes an APOD response and cleans its text fields.
func ParseAPOD(body []byte) (*APOD, error) {
	var apod APOD
	if err := json.Unmarshal(body, &apod); err != nil {
		return nil, errors.New(err).
			Component(componentName).
			Category(errors.CategoryFileParsing).
			Context("operation", "parse_apod").
			Build()
	}
	if apod.URL == "" && apod.HDURL == "" {
		return nil, errors.Newf("APOD response for %q has no media URL", apod.Date).
			Component(componentName).
			Category(errors.CategoryFileParsing).
			Context("operation", "parse_apod").
			Build()
	}

	apod.Title = strings.TrimSpace(apod.Title)
	apod.Explanation = strings.TrimSpace(html2text.HTML2Text(apod.Explanation))
	apod.Copyright = strings.Join(strings.Fields(apod.Copyright), " ")
	return &apod, nil
}
