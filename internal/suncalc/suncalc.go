// internal/suncalc/suncalc.go

package suncalc

import (
	"fmt"
	"sync"
	"time"

	"github.com/sj14/astral/pkg/astral"
)

// Sun depression angles in degrees below the horizon.
const (
	civilDepression        = 6
	astronomicalDepression = 18
)

// SunEventTimes holds the calculated sun event times in the observer's zone
type SunEventTimes struct {
	CivilDawn time.Time // Civil dawn
	Sunrise   time.Time // Sunrise
	Sunset    time.Time // Sunset
	CivilDusk time.Time // Civil dusk
}

// Window is the stretch of a night when the sun is at least 18° below the horizon.
type Window struct {
	Start time.Time `json:"start"` // astronomical dusk
	End   time.Time `json:"end"`   // astronomical dawn of the following morning
}

// Duration returns the length of the window.
func (w Window) Duration() time.Duration {
	return w.End.Sub(w.Start)
}

// cacheEntry holds the cached sun event times for a given date
type cacheEntry struct {
	times SunEventTimes
	date  time.Time
}

// SunCalc handles caching and calculation of sun event times
type SunCalc struct {
	cache    map[string]cacheEntry // Cache of sun event times for dates
	lock     sync.RWMutex          // Lock for cache access
	observer astral.Observer       // Observer for sun event calculations
	zone     *time.Location        // Zone results are reported in
}

// NewSunCalc creates a new SunCalc instance. A nil zone reports times in UTC.
func NewSunCalc(latitude, longitude float64, zone *time.Location) *SunCalc {
	if zone == nil {
		zone = time.UTC
	}
	return &SunCalc{
		cache:    make(map[string]cacheEntry),
		observer: astral.Observer{Latitude: latitude, Longitude: longitude},
		zone:     zone,
	}
}

// calendarDay returns midnight UTC of date's calendar day in the observer's zone.
func (sc *SunCalc) calendarDay(date time.Time) time.Time {
	y, m, d := date.In(sc.zone).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// GetSunEventTimes returns the sun event times for a given date, using cache if available
func (sc *SunCalc) GetSunEventTimes(date time.Time) (SunEventTimes, error) {
	day := sc.calendarDay(date)
	dateKey := day.Format("2006-01-02")

	sc.lock.RLock()
	entry, exists := sc.cache[dateKey]
	sc.lock.RUnlock()

	if exists && entry.date.Equal(day) {
		return entry.times, nil
	}

	times, err := sc.calculateSunEventTimes(day)
	if err != nil {
		return SunEventTimes{}, err
	}

	sc.lock.Lock()
	sc.cache[dateKey] = cacheEntry{times: times, date: day}
	sc.lock.Unlock()

	return times, nil
}

// calculateSunEventTimes calculates the sun event times for a given date
func (sc *SunCalc) calculateSunEventTimes(day time.Time) (SunEventTimes, error) {
	civilDawn, err := astral.Dawn(sc.observer, day, civilDepression)
	if err != nil {
		return SunEventTimes{}, fmt.Errorf("failed to calculate civil dawn: %w", err)
	}

	sunrise, err := astral.Sunrise(sc.observer, day)
	if err != nil {
		return SunEventTimes{}, fmt.Errorf("failed to calculate sunrise: %w", err)
	}

	sunset, err := astral.Sunset(sc.observer, day)
	if err != nil {
		return SunEventTimes{}, fmt.Errorf("failed to calculate sunset: %w", err)
	}

	civilDusk, err := astral.Dusk(sc.observer, day, civilDepression)
	if err != nil {
		return SunEventTimes{}, fmt.Errorf("failed to calculate civil dusk: %w", err)
	}

	return SunEventTimes{
		CivilDawn: civilDawn.In(sc.zone),
		Sunrise:   sunrise.In(sc.zone),
		Sunset:    sunset.In(sc.zone),
		CivilDusk: civilDusk.In(sc.zone),
	}, nil
}

// DarknessWindow returns the astronomical night that begins on date's
// evening. ok is false when the sun never gets 18° below the horizon,
// which is the case for Swedish summers north of about 49°.
func (sc *SunCalc) DarknessWindow(date time.Time) (w Window, ok bool) {
	day := sc.calendarDay(date)

	dusk, err := astral.Dusk(sc.observer, day, astronomicalDepression)
	if err != nil {
		return Window{}, false
	}
	dawn, err := astral.Dawn(sc.observer, day.AddDate(0, 0, 1), astronomicalDepression)
	if err != nil {
		return Window{}, false
	}

	// Near the solstices the solver can land outside the night asked for
	w = Window{Start: dusk.In(sc.zone), End: dawn.In(sc.zone)}
	if !w.End.After(w.Start) || w.Duration() >= 24*time.Hour ||
		w.Start.Before(day) || w.Start.After(day.Add(36*time.Hour)) {
		return Window{}, false
	}
	return w, true
}

// GetSunriseTime returns the sunrise time for a given date
func (sc *SunCalc) GetSunriseTime(date time.Time) (time.Time, error) {
	sunEventTimes, err := sc.GetSunEventTimes(date)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to get sun event times: %w", err)
	}
	return sunEventTimes.Sunrise, nil
}

// GetSunsetTime returns the sunset time for a given date
func (sc *SunCalc) GetSunsetTime(date time.Time) (time.Time, error) {
	sunEventTimes, err := sc.GetSunEventTimes(date)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to get sun event times: %w", err)
	}
	return sunEventTimes.Sunset, nil
}
