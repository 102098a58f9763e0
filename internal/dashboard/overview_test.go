package dashboard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/astral-forecast/internal/stargazing"
)

func TestNewOverview(t *testing.T) {
	t.Parallel()

	f := clearForecast(t)
	o := NewOverview(f, mustLocation(t, "Stockholm"))

	assert.Equal(t, "New Moon", o.MoonPhase)
	assert.InDelta(t, 0.0, o.MoonIllumination, 0)
	assert.Equal(t, "02:48 PM", o.Sunset)
	assert.Equal(t, 3, o.NightHours)

	require.NotNil(t, o.MinNightCloud)
	assert.InDelta(t, 0.0, *o.MinNightCloud, 0)
	require.NotNil(t, o.MaxNightVisibility)
	assert.InDelta(t, 10.0, *o.MaxNightVisibility, 0)

	require.NotNil(t, o.Darkness, "Stockholm has astronomical night in December")
	assert.Equal(t, 21, o.Darkness.Start.Day())
	assert.Equal(t, "Europe/Stockholm", o.Darkness.Start.Location().String())
	assert.True(t, o.Darkness.End.After(o.Darkness.Start))
}

func TestNewOverview_IgnoresDaytimeHours(t *testing.T) {
	t.Parallel()

	f := clearForecast(t)
	// Daytime hour has the best values but must not count
	f.Hours[0].Visibility = stargazing.Float(50)
	f.Hours[3].CloudCover = stargazing.Float(100)
	f.Hours[1].CloudCover = stargazing.Float(40)
	f.Hours[2].CloudCover = stargazing.Float(60)

	o := NewOverview(f, mustLocation(t, "Stockholm"))
	assert.InDelta(t, 40.0, *o.MinNightCloud, 0)
	assert.InDelta(t, 10.0, *o.MaxNightVisibility, 0)
}

func TestNewOverview_MalformedMoonAndMissingValues(t *testing.T) {
	t.Parallel()

	f := clearForecast(t)
	f.Astro.MoonIllumination = "not-a-number"
	for i := range f.Hours {
		f.Hours[i].CloudCover = nil
		f.Hours[i].Visibility = nil
	}

	o := NewOverview(f, mustLocation(t, "Stockholm"))
	assert.InDelta(t, stargazing.DefaultMoonIllumination, o.MoonIllumination, 0)
	assert.Nil(t, o.MinNightCloud)
	assert.Nil(t, o.MaxNightVisibility)
}

func TestNewOverview_MidsummerHasNoDarkness(t *testing.T) {
	t.Parallel()

	f := clearForecast(t)
	f.Date = "2024-06-21"
	o := NewOverview(f, mustLocation(t, "Kiruna"))
	assert.Nil(t, o.Darkness)
}

func TestForecastDay_FallsBackToFirstHour(t *testing.T) {
	t.Parallel()

	f := clearForecast(t)
	f.Date = ""
	day, ok := forecastDay(f)
	require.True(t, ok)
	assert.Equal(t, 12, day.Hour())

	f.Hours = nil
	_, ok = forecastDay(f)
	assert.False(t, ok)
}

func TestLoadZone(t *testing.T) {
	t.Parallel()

	assert.Equal(t, time.UTC, loadZone(""))
	assert.Equal(t, time.UTC, loadZone("Mars/Olympus_Mons"))
	assert.Equal(t, "Europe/Stockholm", loadZone("Europe/Stockholm").String())
}
