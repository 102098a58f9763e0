package weather

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"

	"github.com/tphakala/astral-forecast/internal/errors"
	"github.com/tphakala/astral-forecast/internal/logger"
	"github.com/tphakala/astral-forecast/internal/stargazing"
)

// hourLayout is the local timestamp format of forecast hours.
const hourLayout = "2006-01-02 15:04"

// forecastResponse is the subset of the weatherapi.com forecast payload we read.
type forecastResponse struct {
	Location struct {
		TzID string `json:"tz_id"`
	} `json:"location"`
	Forecast struct {
		ForecastDay []struct {
			Date  string      `json:"date"`
			Astro astroBlock  `json:"astro"`
			Hour  []hourBlock `json:"hour"`
		} `json:"forecastday"`
	} `json:"forecast"`
}

type astroBlock struct {
	Sunrise          string      `json:"sunrise"`
	Sunset           string      `json:"sunset"`
	Moonrise         string      `json:"moonrise"`
	Moonset          string      `json:"moonset"`
	MoonPhase        string      `json:"moon_phase"`
	MoonIllumination numericText `json:"moon_illumination"`
}

type hourBlock struct {
	Time      string   `json:"time"`
	TempC     *float64 `json:"temp_c"`
	Cloud     *float64 `json:"cloud"`
	Humidity  *float64 `json:"humidity"`
	IsDay     int      `json:"is_day"`
	VisKM     *float64 `json:"vis_km"`
	Condition struct {
		Text string `json:"text"`
	} `json:"condition"`
}

// numericText accepts a JSON string or number and keeps its text.
// The API has sent moon_illumination both ways.
type numericText string

func (n *numericText) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*n = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = numericText(s)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		// neither string nor number, treated as absent
		*n = ""
		return nil
	}
	*n = numericText(num.String())
	return nil
}

// Normalize converts a forecast payload into a Forecast. Hour timestamps are
// interpreted in the zone reported by the payload, falling back to UTC.
// An hour whose timestamp cannot be parsed keeps a zero Time.
func Normalize(body []byte) (*Forecast, error) {
	var raw forecastResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, errors.Newf("failed to parse forecast: %w", err).
			Component(componentName).
			Category(errors.CategoryFileParsing).
			Context("response_size", len(body)).
			Build()
	}
	if len(raw.Forecast.ForecastDay) == 0 {
		return nil, errors.Newf("forecast contains no days").
			Component(componentName).
			Category(errors.CategoryFileParsing).
			Build()
	}

	tz := time.UTC
	if raw.Location.TzID != "" {
		if loc, err := time.LoadLocation(raw.Location.TzID); err == nil {
			tz = loc
		} else {
			getLogger().Warn("unknown forecast timezone, using UTC",
				logger.String("tz_id", raw.Location.TzID),
				logger.Error(err))
		}
	}

	day := raw.Forecast.ForecastDay[0]
	forecast := &Forecast{
		Date:     day.Date,
		Timezone: tz.String(),
		Hours:    make([]stargazing.HourlyRecord, 0, len(day.Hour)),
		Astro: stargazing.AstronomicalConditions{
			Sunrise:          day.Astro.Sunrise,
			Sunset:           day.Astro.Sunset,
			Moonrise:         day.Astro.Moonrise,
			Moonset:          day.Astro.Moonset,
			MoonPhase:        day.Astro.MoonPhase,
			MoonIllumination: string(day.Astro.MoonIllumination),
		},
	}

	for _, h := range day.Hour {
		rec := stargazing.HourlyRecord{
			CloudCover:  h.Cloud,
			Visibility:  h.VisKM,
			Humidity:    h.Humidity,
			Temperature: h.TempC,
			IsDaytime:   h.IsDay != 0,
			Condition:   h.Condition.Text,
		}
		if t, err := time.ParseInLocation(hourLayout, h.Time, tz); err == nil {
			rec.Time = t
		} else {
			getLogger().Debug("unparsable forecast hour",
				logger.String("time", h.Time),
				logger.String("is_day", strconv.Itoa(h.IsDay)))
		}
		forecast.Hours = append(forecast.Hours, rec)
	}

	return forecast, nil
}
