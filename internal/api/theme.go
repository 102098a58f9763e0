package api

import "github.com/tphakala/astral-forecast/internal/conf"

// Theme is the colour set handed to the dashboard template.
type Theme struct {
	Name       string
	Background string
	Surface    string
	Text       string
	Muted      string
	Accent     string // cloud and visibility bars
	ScoreLine  string // score bars
	Hazard     string // potentially hazardous objects
}

// Built-in presets, night is the default.
var themePresets = map[string]Theme{
	"night": {
		Name:       "night",
		Background: "#2C324E",
		Surface:    "#4C3E78",
		Text:       "#EDE8FA",
		Muted:      "#B9B3D6",
		Accent:     "#79B6DC",
		ScoreLine:  "#BE8BFC",
		Hazard:     "#BF1863",
	},
	"dawn": {
		Name:       "dawn",
		Background: "#F5F2FC",
		Surface:    "#FFFFFF",
		Text:       "#2C324E",
		Muted:      "#5E5A78",
		Accent:     "#4C3E78",
		ScoreLine:  "#BE8BFC",
		Hazard:     "#BF1863",
	},
}

// ThemeFromSettings returns the named preset with any configured overrides.
// Unknown names fall back to "night".
func ThemeFromSettings(s conf.ThemeSettings) Theme {
	t, ok := themePresets[s.Name]
	if !ok {
		t = themePresets["night"]
	}
	override := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	override(&t.Background, s.Background)
	override(&t.Surface, s.Surface)
	override(&t.Text, s.Text)
	override(&t.Accent, s.Accent)
	override(&t.ScoreLine, s.ScoreLine)
	return t
}
