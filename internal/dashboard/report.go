package dashboard

import (
	"time"

	"github.com/tphakala/astral-forecast/internal/locations"
	"github.com/tphakala/astral-forecast/internal/nasa"
	"github.com/tphakala/astral-forecast/internal/neo"
	"github.com/tphakala/astral-forecast/internal/stargazing"
)

// Section names used in Report.Errors.
const (
	SectionNEO  = "neo"
	SectionAPOD = "apod"
)

// NoDataHeadline replaces the verdict headline when no hour could be scored.
const NoDataHeadline = "Not enough weather data to score tonight."

// Report is everything the dashboard shows for one location and night.
type Report struct {
	Location    locations.Location       `json:"location"`
	Date        string                   `json:"date"`
	GeneratedAt time.Time                `json:"generated_at"`
	Overview    Overview                 `json:"overview"`
	Scores      []stargazing.ScoreRecord `json:"scores"`

	// NightHours are the weather records of the night window, in time order.
	NightHours []stargazing.HourlyRecord `json:"night_hours"`

	// Score is the nightly mean, only meaningful when HasScore is true.
	Score    float64             `json:"score"`
	HasScore bool                `json:"has_score"`
	Verdict  *stargazing.Verdict `json:"verdict,omitempty"`
	Headline string              `json:"headline"`

	NEO  *NEOSection `json:"neo,omitempty"`
	APOD *nasa.APOD  `json:"apod,omitempty"`

	// Errors holds the failure of each degraded section, keyed by section name.
	Errors map[string]string `json:"errors,omitempty"`

	FetchedAt map[string]time.Time `json:"fetched_at,omitempty"`
}

// NEOSection is the near-Earth-object part of a report.
type NEOSection struct {
	Summary    neo.Summary    `json:"summary"`
	Approaches []neo.Approach `json:"approaches"`
}

// Score10 returns the nightly score on the 0..10 scale shown to users.
func (r *Report) Score10() float64 {
	return r.Score / 10
}

// VerdictName returns the verdict band, or "unknown" without a score.
func (r *Report) VerdictName() string {
	if r.Verdict == nil {
		return "unknown"
	}
	return r.Verdict.String()
}

// setScores fills the score fields from per-hour scores.
func (r *Report) setScores(scores []stargazing.ScoreRecord) {
	r.Scores = scores
	mean, ok := stargazing.Aggregate(scores)
	if !ok {
		r.Headline = NoDataHeadline
		return
	}
	v := stargazing.VerdictFor(mean)
	r.Score = mean
	r.HasScore = true
	r.Verdict = &v
	r.Headline = v.Headline()
}

func (r *Report) sectionError(section string, err error) {
	if r.Errors == nil {
		r.Errors = make(map[string]string)
	}
	r.Errors[section] = err.Error()
}
