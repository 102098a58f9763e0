package suncalc

import (
	"testing"
	"time"
)

// Stockholm coordinates for testing
const (
	testLatitude  = 59.3293
	testLongitude = 18.0686
)

func stockholmZone(t testing.TB) *time.Location {
	t.Helper()
	zone, err := time.LoadLocation("Europe/Stockholm")
	if err != nil {
		t.Fatalf("failed to load zone: %v", err)
	}
	return zone
}

// newTestSunCalc creates a SunCalc instance for Stockholm in UTC.
func newTestSunCalc() *SunCalc {
	return NewSunCalc(testLatitude, testLongitude, time.UTC)
}

// midsummerDate returns June 21, 2024 UTC - a date with predictable sun events.
func midsummerDate() time.Time {
	return time.Date(2024, 6, 21, 0, 0, 0, 0, time.UTC)
}

// midwinterDate returns December 21, 2024 UTC.
func midwinterDate() time.Time {
	return time.Date(2024, 12, 21, 0, 0, 0, 0, time.UTC)
}
