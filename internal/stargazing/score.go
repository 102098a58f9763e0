package stargazing

import (
	"math"
	"strconv"
	"strings"

	"github.com/tphakala/astral-forecast/internal/errors"
)

// Component weights of the blended score. They sum to 1.
const (
	WeightCloud      = 0.40
	WeightVisibility = 0.30
	WeightHumidity   = 0.15
	WeightMoon       = 0.15
)

// DefaultMoonIllumination is used when the feed's illumination cannot be parsed.
const DefaultMoonIllumination = 50.0

// ErrInvalidRecord is returned when a night hour carries no timestamp.
var ErrInvalidRecord = errors.NewStd("hourly record has no timestamp")

// ComputeScores scores each night hour.
//
// An empty input, or a batch in which cloud cover, visibility or humidity is
// absent from every record, yields an empty result and no error. Hours without
// cloud cover are left out. Visibility is scored relative to the best
// visibility of the batch.
func ComputeScores(night []HourlyRecord, astro AstronomicalConditions) ([]ScoreRecord, error) {
	scores := make([]ScoreRecord, 0, len(night))
	if len(night) == 0 {
		return scores, nil
	}

	for i := range night {
		if night[i].Time.IsZero() {
			return nil, errors.New(ErrInvalidRecord).
				Component("stargazing").
				Category(errors.CategoryValidation).
				Context("index", i).
				Build()
		}
	}

	if !hasColumn(night, cloudOf) || !hasColumn(night, visibilityOf) || !hasColumn(night, humidityOf) {
		return scores, nil
	}

	maxVis, visUsable := maxVisibility(night)
	moon := 1 - clamp(ParseMoonIllumination(astro.MoonIllumination), 0, 100)/100

	for i := range night {
		cloud, ok := value(night[i].CloudCover)
		if !ok {
			continue
		}
		cloudNorm := 1 - clamp(cloud, 0, 100)/100

		// A missing humidity or visibility reading scores 0 on that component only.
		humNorm := 0.0
		if hum, ok := value(night[i].Humidity); ok {
			humNorm = 1 - clamp(hum, 0, 100)/100
		}
		visNorm := 0.0
		if vis, ok := value(night[i].Visibility); ok && visUsable {
			visNorm = clamp(vis/maxVis, 0, 1)
		}

		raw := WeightCloud*cloudNorm + WeightVisibility*visNorm + WeightHumidity*humNorm + WeightMoon*moon
		scores = append(scores, ScoreRecord{
			Time:  night[i].Time,
			Score: 100 * clamp(raw, 0, 1),
		})
	}

	return scores, nil
}

// ParseMoonIllumination reads a percentage such as "57", " 57 " or "57%".
// Empty, malformed, NaN or infinite input yields DefaultMoonIllumination.
// The result is not clamped.
func ParseMoonIllumination(raw string) float64 {
	s := strings.TrimSpace(raw)
	s = strings.TrimSpace(strings.TrimSuffix(s, "%"))
	if s == "" {
		return DefaultMoonIllumination
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return DefaultMoonIllumination
	}
	return v
}

// Aggregate returns the mean score of the night. ok is false when there is no data.
func Aggregate(scores []ScoreRecord) (mean float64, ok bool) {
	if len(scores) == 0 {
		return 0, false
	}
	var sum float64
	for i := range scores {
		sum += scores[i].Score
	}
	return sum / float64(len(scores)), true
}

func cloudOf(r *HourlyRecord) *float64      { return r.CloudCover }
func visibilityOf(r *HourlyRecord) *float64 { return r.Visibility }
func humidityOf(r *HourlyRecord) *float64   { return r.Humidity }

// hasColumn reports whether at least one record carries a usable value.
func hasColumn(records []HourlyRecord, field func(*HourlyRecord) *float64) bool {
	for i := range records {
		if _, ok := value(field(&records[i])); ok {
			return true
		}
	}
	return false
}

// maxVisibility returns the batch maximum and whether it can be used as a divisor.
func maxVisibility(records []HourlyRecord) (float64, bool) {
	maxVis := math.Inf(-1)
	for i := range records {
		if v, ok := value(records[i].Visibility); ok && v > maxVis {
			maxVis = v
		}
	}
	if maxVis <= 0 {
		return 0, false
	}
	return maxVis, true
}

func value(p *float64) (float64, bool) {
	if p == nil || math.IsNaN(*p) || math.IsInf(*p, 0) {
		return 0, false
	}
	return *p, true
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}
