package stargazing

import (
	"math"
	"strings"
)

// Verdict is a qualitative band for a nightly score.
type Verdict int

const (
	VerdictPoor Verdict = iota
	VerdictMixed
	VerdictGood
	VerdictExcellent
)

// Band thresholds on the 0..10 scale, lower bounds inclusive.
const (
	ThresholdExcellent = 8.0
	ThresholdGood      = 6.0
	ThresholdMixed     = 4.0
)

// VerdictFor maps a 0..100 score to its band. NaN maps to VerdictPoor.
func VerdictFor(score float64) Verdict {
	if math.IsNaN(score) {
		return VerdictPoor
	}
	s := score / 10
	switch {
	case s >= ThresholdExcellent:
		return VerdictExcellent
	case s >= ThresholdGood:
		return VerdictGood
	case s >= ThresholdMixed:
		return VerdictMixed
	default:
		return VerdictPoor
	}
}

// ParseVerdict converts a band name back to a Verdict, ignoring case.
func ParseVerdict(name string) (Verdict, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "excellent":
		return VerdictExcellent, true
	case "good":
		return VerdictGood, true
	case "mixed":
		return VerdictMixed, true
	case "poor":
		return VerdictPoor, true
	}
	return VerdictPoor, false
}

// String returns the band name.
func (v Verdict) String() string {
	switch v {
	case VerdictExcellent:
		return "excellent"
	case VerdictGood:
		return "good"
	case VerdictMixed:
		return "mixed"
	default:
		return "poor"
	}
}

// Headline is the one-line sentence shown next to the nightly score.
func (v Verdict) Headline() string {
	switch v {
	case VerdictExcellent:
		return "Incredible night, go outside!"
	case VerdictGood:
		return "Pretty good, worth a look."
	case VerdictMixed:
		return "Meh, sky conditions mixed."
	default:
		return "Not a great night for stargazing."
	}
}

// MarshalText encodes the verdict as its band name.
func (v Verdict) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}
