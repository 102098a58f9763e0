package suncalc

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSunCalc(t *testing.T) {
	sc := NewSunCalc(testLatitude, testLongitude, nil)
	require.NotNil(t, sc)

	assert.InDelta(t, testLatitude, sc.observer.Latitude, 1e-9)
	assert.InDelta(t, testLongitude, sc.observer.Longitude, 1e-9)
	assert.Equal(t, time.UTC, sc.zone, "nil zone falls back to UTC")
}

func TestGetSunEventTimes(t *testing.T) {
	sc := newTestSunCalc()

	// First call to calculate and cache
	times1, err := sc.GetSunEventTimes(midsummerDate())
	require.NoError(t, err)

	assert.False(t, times1.Sunrise.IsZero(), "sunrise")
	assert.False(t, times1.Sunset.IsZero(), "sunset")
	assert.False(t, times1.CivilDawn.IsZero(), "civil dawn")
	assert.False(t, times1.CivilDusk.IsZero(), "civil dusk")
	assert.True(t, times1.Sunrise.Before(times1.Sunset))
	assert.True(t, times1.CivilDawn.Before(times1.Sunrise))
	assert.True(t, times1.Sunset.Before(times1.CivilDusk))

	// Second call to test cache
	times2, err := sc.GetSunEventTimes(midsummerDate())
	require.NoError(t, err)
	assert.True(t, times1.Sunrise.Equal(times2.Sunrise))
	assert.True(t, times1.Sunset.Equal(times2.Sunset))
}

func TestGetSunEventTimes_ReportsInZone(t *testing.T) {
	zone := stockholmZone(t)
	sc := NewSunCalc(testLatitude, testLongitude, zone)

	times, err := sc.GetSunEventTimes(time.Date(2024, 12, 21, 12, 0, 0, 0, zone))
	require.NoError(t, err)

	assert.Equal(t, zone, times.Sunset.Location())
	// Stockholm sunsets around 14:50 local at midwinter
	assert.Equal(t, 14, times.Sunset.Hour())
}

func TestGetSunriseAndSunsetTime(t *testing.T) {
	sc := newTestSunCalc()

	sunrise, err := sc.GetSunriseTime(midwinterDate())
	require.NoError(t, err)
	sunset, err := sc.GetSunsetTime(midwinterDate())
	require.NoError(t, err)

	day := sunset.Sub(sunrise)
	assert.Greater(t, day, 5*time.Hour)
	assert.Less(t, day, 7*time.Hour, "Stockholm midwinter day is about six hours")
}

func TestCacheConsistency(t *testing.T) {
	sc := newTestSunCalc()
	date := midsummerDate()

	times1, err := sc.GetSunEventTimes(date)
	require.NoError(t, err)

	sc.lock.RLock()
	entry, exists := sc.cache[date.Format("2006-01-02")]
	sc.lock.RUnlock()

	require.True(t, exists, "cache entry not found after calculation")
	assert.True(t, entry.date.Equal(date))
	assert.True(t, entry.times.Sunrise.Equal(times1.Sunrise))
}

func TestCacheKeyUsesObserverDay(t *testing.T) {
	zone := stockholmZone(t)
	sc := NewSunCalc(testLatitude, testLongitude, zone)

	// 23:30 UTC on the 20th is already the 21st in Stockholm
	_, err := sc.GetSunEventTimes(time.Date(2024, 12, 20, 23, 30, 0, 0, time.UTC))
	require.NoError(t, err)

	sc.lock.RLock()
	_, exists := sc.cache["2024-12-21"]
	sc.lock.RUnlock()
	assert.True(t, exists)
}

func TestDarknessWindow_Winter(t *testing.T) {
	zone := stockholmZone(t)
	sc := NewSunCalc(testLatitude, testLongitude, zone)

	w, ok := sc.DarknessWindow(time.Date(2024, 12, 21, 12, 0, 0, 0, zone))
	require.True(t, ok)

	assert.Equal(t, 21, w.Start.Day())
	assert.Equal(t, 22, w.End.Day())
	assert.Greater(t, w.Duration(), 11*time.Hour)
	assert.Less(t, w.Duration(), 16*time.Hour)
}

func TestDarknessWindow_WhiteNights(t *testing.T) {
	tests := []struct {
		name     string
		lat, lon float64
	}{
		{"Stockholm", testLatitude, testLongitude},
		{"Kiruna", 67.8558, 20.2253},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := NewSunCalc(tt.lat, tt.lon, time.UTC)
			_, ok := sc.DarknessWindow(midsummerDate())
			assert.False(t, ok, "no astronomical darkness at midsummer")
		})
	}
}
