package dashboard

import (
	"math"
	"time"

	"github.com/tphakala/astral-forecast/internal/locations"
	"github.com/tphakala/astral-forecast/internal/stargazing"
	"github.com/tphakala/astral-forecast/internal/suncalc"
	"github.com/tphakala/astral-forecast/internal/weather"
)

// Overview is the "tonight at a glance" strip.
type Overview struct {
	MoonPhase        string  `json:"moon_phase"`
	MoonIllumination float64 `json:"moon_illumination"` // percent, 50 when upstream sent garbage
	Sunset           string  `json:"sunset"`
	Sunrise          string  `json:"sunrise"`
	NightHours       int     `json:"night_hours"`

	MinNightCloud      *float64 `json:"min_night_cloud,omitempty"`
	MaxNightVisibility *float64 `json:"max_night_visibility_km,omitempty"`

	// Darkness is nil when the sun never reaches 18° below the horizon.
	Darkness *suncalc.Window `json:"darkness,omitempty"`
}

// NewOverview summarizes a forecast for loc.
func NewOverview(f *weather.Forecast, loc locations.Location) Overview {
	night := f.NightHours()
	o := Overview{
		MoonPhase:        f.Astro.MoonPhase,
		MoonIllumination: stargazing.ParseMoonIllumination(f.Astro.MoonIllumination),
		Sunset:           f.Astro.Sunset,
		Sunrise:          f.Astro.Sunrise,
		NightHours:       len(night),
	}

	for i := range night {
		if c := night[i].CloudCover; c != nil && (o.MinNightCloud == nil || *c < *o.MinNightCloud) {
			v := *c
			o.MinNightCloud = &v
		}
		if vis := night[i].Visibility; vis != nil && !math.IsNaN(*vis) &&
			(o.MaxNightVisibility == nil || *vis > *o.MaxNightVisibility) {
			v := *vis
			o.MaxNightVisibility = &v
		}
	}

	if day, ok := forecastDay(f); ok {
		sc := suncalc.NewSunCalc(loc.Latitude, loc.Longitude, day.Location())
		if w, ok := sc.DarknessWindow(day); ok {
			o.Darkness = &w
		}
	}
	return o
}

// forecastDay returns noon of the forecast date in the forecast's zone.
func forecastDay(f *weather.Forecast) (time.Time, bool) {
	zone := loadZone(f.Timezone)
	if d, err := time.ParseInLocation(dateLayout, f.Date, zone); err == nil {
		return d.Add(12 * time.Hour), true
	}
	for i := range f.Hours {
		if !f.Hours[i].Time.IsZero() {
			return f.Hours[i].Time, true
		}
	}
	return time.Time{}, false
}
