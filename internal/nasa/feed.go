package nasa

import (
	"context"
	"net/url"
	"time"

	"github.com/tphakala/astral-forecast/internal/logger"
	"github.com/tphakala/astral-forecast/internal/neo"
)

// NEOFeed fetches the close approaches for a single day. A zero date means today.
func (c *Client) NEOFeed(ctx context.Context, date time.Time) ([]neo.Approach, error) {
	if date.IsZero() {
		date = time.Now()
	}
	day := formatDate(date)

	body, err := c.get(ctx, feedPath, url.Values{
		"start_date": {day},
		"end_date":   {day},
		"api_key":    {c.neoKey},
	}, "neo_feed")
	if err != nil {
		return nil, err
	}

	approaches, err := neo.Normalize(body, day)
	if err != nil {
		return nil, err
	}

	getLogger().Info("NEO feed fetched",
		logger.String("date", day),
		logger.Int("approaches", len(approaches)))
	return approaches, nil
}
