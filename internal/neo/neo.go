// Package neo flattens the NASA NeoWs daily feed into one row per close
// approach and summarizes the day's objects.
package neo

import (
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/antonholmquist/jason"

	"github.com/tphakala/astral-forecast/internal/errors"
)

const componentName = "neo"

// Approach is one close approach of one object. Nil numeric fields are absent.
type Approach struct {
	Name              string   `json:"name"`
	AbsoluteMagnitude *float64 `json:"absolute_magnitude,omitempty"`
	Hazardous         bool     `json:"hazardous"`
	DiameterMinKM     *float64 `json:"diameter_km_min,omitempty"`
	DiameterMaxKM     *float64 `json:"diameter_km_max,omitempty"`
	DiameterAvgKM     *float64 `json:"diameter_km_avg,omitempty"`
	VelocityKMS       *float64 `json:"velocity_km_s,omitempty"`
	MissDistanceKM    *float64 `json:"miss_distance_km,omitempty"`
	MissDistanceLunar *float64 `json:"miss_distance_lunar,omitempty"`
	ApproachDate      string   `json:"approach_date,omitempty"`
}

// Normalize parses a NeoWs feed body. The objects listed under date are
// used; when that key is missing the earliest date in the feed is taken.
// A feed without any date group yields no approaches and no error.
func Normalize(body []byte, date string) ([]Approach, error) {
	root, err := jason.NewObjectFromBytes(body)
	if err != nil {
		return nil, errors.New(err).
			Component(componentName).
			Category(errors.CategoryFileParsing).
			Context("operation", "parse_neo_feed").
			Build()
	}

	groups, err := root.GetObject("near_earth_objects")
	if err != nil {
		return nil, errors.Newf("NeoWs response has no near_earth_objects: %w", err).
			Component(componentName).
			Category(errors.CategoryFileParsing).
			Build()
	}

	byDate := groups.Map()
	if len(byDate) == 0 {
		return []Approach{}, nil
	}

	key := date
	if _, ok := byDate[key]; !ok {
		keys := make([]string, 0, len(byDate))
		for k := range byDate {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		key = keys[0]
	}

	objects, err := groups.GetObjectArray(key)
	if err != nil {
		return nil, errors.Newf("NeoWs date group %s is not a list: %w", key, err).
			Component(componentName).
			Category(errors.CategoryFileParsing).
			Context("date", key).
			Build()
	}

	approaches := make([]Approach, 0, len(objects))
	for _, obj := range objects {
		base := Approach{
			AbsoluteMagnitude: number(obj, "absolute_magnitude_h"),
			DiameterMinKM:     number(obj, "estimated_diameter", "kilometers", "estimated_diameter_min"),
			DiameterMaxKM:     number(obj, "estimated_diameter", "kilometers", "estimated_diameter_max"),
		}
		base.Name, _ = obj.GetString("name")
		base.Hazardous, _ = obj.GetBoolean("is_potentially_hazardous_asteroid")
		if base.DiameterMinKM != nil && base.DiameterMaxKM != nil {
			avg := (*base.DiameterMinKM + *base.DiameterMaxKM) / 2
			base.DiameterAvgKM = &avg
		}

		passes, err := obj.GetObjectArray("close_approach_data")
		if err != nil {
			continue
		}
		for _, pass := range passes {
			a := base
			a.VelocityKMS = number(pass, "relative_velocity", "kilometers_per_second")
			a.MissDistanceKM = number(pass, "miss_distance", "kilometers")
			a.MissDistanceLunar = number(pass, "miss_distance", "lunar")
			a.ApproachDate, _ = pass.GetString("close_approach_date")
			approaches = append(approaches, a)
		}
	}

	return approaches, nil
}

// number reads a numeric field that NeoWs may send as a JSON number or as text.
func number(obj *jason.Object, keys ...string) *float64 {
	v, err := obj.GetValue(keys...)
	if err != nil {
		return nil
	}
	f, err := v.Float64()
	if err != nil {
		s, serr := v.String()
		if serr != nil {
			return nil
		}
		if f, err = strconv.ParseFloat(strings.TrimSpace(s), 64); err != nil {
			return nil
		}
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}
