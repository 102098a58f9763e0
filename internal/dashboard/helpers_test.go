package dashboard

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tphakala/astral-forecast/internal/conf"
	"github.com/tphakala/astral-forecast/internal/feedcache"
	"github.com/tphakala/astral-forecast/internal/locations"
	"github.com/tphakala/astral-forecast/internal/nasa"
	"github.com/tphakala/astral-forecast/internal/neo"
	"github.com/tphakala/astral-forecast/internal/stargazing"
	"github.com/tphakala/astral-forecast/internal/weather"
)

type fakeWeather struct {
	calls    atomic.Int32
	forecast *weather.Forecast
	err      error
}

func (f *fakeWeather) Forecast(_ context.Context, loc locations.Location) (*weather.Forecast, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	out := *f.forecast
	out.Location = loc.Name
	return &out, nil
}

type fakeNASA struct {
	apodCalls atomic.Int32
	neoCalls  atomic.Int32
	apod      *nasa.APOD
	apodErr   error
	neo       []neo.Approach
	neoErr    error
}

func (f *fakeNASA) APOD(context.Context, time.Time) (*nasa.APOD, error) {
	f.apodCalls.Add(1)
	return f.apod, f.apodErr
}

func (f *fakeNASA) NEOFeed(context.Context, time.Time) ([]neo.Approach, error) {
	f.neoCalls.Add(1)
	return f.neo, f.neoErr
}

func mustLocation(t *testing.T, name string) locations.Location {
	t.Helper()
	loc, err := locations.Lookup(name)
	if err != nil {
		t.Fatalf("lookup %s: %v", name, err)
	}
	return loc
}

func mustZone(t *testing.T) *time.Location {
	t.Helper()
	zone, err := time.LoadLocation("Europe/Stockholm")
	if err != nil {
		t.Fatalf("load zone: %v", err)
	}
	return zone
}

// clearForecast is a Stockholm midwinter night with two perfect hours
// (score 100) and one fully overcast hour.
func clearForecast(t *testing.T) *weather.Forecast {
	t.Helper()
	zone := mustZone(t)
	at := func(h int) time.Time { return time.Date(2024, 12, 21, h, 0, 0, 0, zone) }
	f := stargazing.Float

	return &weather.Forecast{
		Date:     "2024-12-21",
		Timezone: "Europe/Stockholm",
		Hours: []stargazing.HourlyRecord{
			{Time: at(12), CloudCover: f(0), Visibility: f(10), Humidity: f(0), IsDaytime: true},
			{Time: at(21), CloudCover: f(0), Visibility: f(10), Humidity: f(0)},
			{Time: at(22), CloudCover: f(0), Visibility: f(10), Humidity: f(0)},
			{Time: at(23), CloudCover: f(100), Visibility: f(5), Humidity: f(100)},
		},
		Astro: stargazing.AstronomicalConditions{
			Sunrise:          "08:44 AM",
			Sunset:           "02:48 PM",
			MoonPhase:        "New Moon",
			MoonIllumination: "0",
		},
	}
}

func sampleAPOD() *nasa.APOD {
	return &nasa.APOD{Title: "Horsehead", Date: "2024-12-21", URL: "https://apod.nasa.gov/x.jpg", MediaType: "image"}
}

func sampleApproaches() []neo.Approach {
	return []neo.Approach{
		{Name: "near", MissDistanceLunar: stargazing.Float(2), DiameterAvgKM: stargazing.Float(0.1)},
		{Name: "big", Hazardous: true, MissDistanceLunar: stargazing.Float(40), DiameterAvgKM: stargazing.Float(1.2)},
	}
}

func newTestService(t *testing.T, w *fakeWeather, n *fakeNASA) *Service {
	t.Helper()
	svc := NewService(w, n, feedcache.New(0), conf.CacheSettings{})
	svc.now = func() time.Time { return time.Date(2024, 12, 21, 18, 0, 0, 0, time.UTC) }
	return svc
}

type recordingPublisher struct {
	mu      sync.Mutex
	reports []*Report
	err     error
}

func (p *recordingPublisher) PublishReport(_ context.Context, r *Report) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reports = append(p.reports, r)
	return p.err
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.reports)
}

type recordingNotifier struct {
	mu     sync.Mutex
	titles []string
	err    error
}

func (n *recordingNotifier) Notify(_ context.Context, title, _ string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.titles = append(n.titles, title)
	return n.err
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.titles)
}
