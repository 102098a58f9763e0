// Package stargazing turns hourly weather and the day's astronomical
// conditions into a 0..100 stargazing score per night hour, a nightly
// aggregate and a verdict band.
//
// Everything in this package is pure: no I/O, no shared state, safe for
// concurrent use.
package stargazing

import "time"

// HourlyRecord is one normalized forecast hour. Nil numeric fields are absent.
type HourlyRecord struct {
	Time        time.Time `json:"time"`
	CloudCover  *float64  `json:"cloud_cover,omitempty"`   // percent
	Visibility  *float64  `json:"visibility_km,omitempty"` // kilometres
	Humidity    *float64  `json:"humidity,omitempty"`      // percent
	Temperature *float64  `json:"temp_c,omitempty"`        // °C, informational
	IsDaytime   bool      `json:"is_day"`
	Condition   string    `json:"condition,omitempty"`
}

// AstronomicalConditions holds the day's sun and moon facts as reported by the
// weather feed. MoonIllumination is numeric-as-text and may be malformed.
type AstronomicalConditions struct {
	Sunrise          string `json:"sunrise"`
	Sunset           string `json:"sunset"`
	Moonrise         string `json:"moonrise"`
	Moonset          string `json:"moonset"`
	MoonPhase        string `json:"moon_phase"`
	MoonIllumination string `json:"moon_illumination"`
}

// ScoreRecord is the stargazing score for one night hour.
type ScoreRecord struct {
	Time  time.Time `json:"time"`
	Score float64   `json:"score"`
}

// Float returns a pointer to v, for building records.
func Float(v float64) *float64 {
	return &v
}

// NightHours returns the records that are not daytime, preserving input order.
func NightHours(records []HourlyRecord) []HourlyRecord {
	night := make([]HourlyRecord, 0, len(records))
	for i := range records {
		if !records[i].IsDaytime {
			night = append(night, records[i])
		}
	}
	return night
}
