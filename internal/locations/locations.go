// Package locations holds the fixed catalog of Swedish stargazing locations.
package locations

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/tphakala/astral-forecast/internal/errors"
)

// Location is a named observing site.
type Location struct {
	Name      string  `json:"name"`
	Slug      string  `json:"slug"`
	Region    string  `json:"region"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Query returns the "lat,lon" form accepted by weather providers.
func (l Location) Query() string {
	return formatCoord(l.Latitude) + "," + formatCoord(l.Longitude)
}

// catalog is ordered south to north within the list shown to users.
var catalog = []Location{
	{Name: "Malmö", Region: "Skåne", Latitude: 55.6050, Longitude: 13.0038},
	{Name: "Göteborg", Region: "Västra Götaland", Latitude: 57.7089, Longitude: 11.9746},
	{Name: "Visby", Region: "Gotland", Latitude: 57.6348, Longitude: 18.2948},
	{Name: "Stockholm", Region: "Stockholm", Latitude: 59.3293, Longitude: 18.0686},
	{Name: "Uppsala", Region: "Uppsala", Latitude: 59.8586, Longitude: 17.6389},
	{Name: "Östersund", Region: "Jämtland", Latitude: 63.1792, Longitude: 14.6357},
	{Name: "Umeå", Region: "Västerbotten", Latitude: 63.8258, Longitude: 20.2630},
	{Name: "Luleå", Region: "Norrbotten", Latitude: 65.5848, Longitude: 22.1547},
	{Name: "Kiruna", Region: "Norrbotten", Latitude: 67.8558, Longitude: 20.2253},
	{Name: "Abisko", Region: "Norrbotten", Latitude: 68.3495, Longitude: 18.8312},
}

func init() {
	for i := range catalog {
		catalog[i].Slug = Slug(catalog[i].Name)
	}
}

// All returns a copy of the catalog in display order.
func All() []Location {
	out := make([]Location, len(catalog))
	copy(out, catalog)
	return out
}

// Names returns the display names in catalog order.
func Names() []string {
	names := make([]string, len(catalog))
	for i := range catalog {
		names[i] = catalog[i].Name
	}
	return names
}

// Lookup finds a location by name or slug, ignoring case and diacritics,
// so "Göteborg", "göteborg" and "goteborg" all match.
func Lookup(name string) (Location, error) {
	slug := Slug(name)
	if slug != "" {
		for i := range catalog {
			if catalog[i].Slug == slug {
				return catalog[i], nil
			}
		}
	}
	return Location{}, errors.Newf("unknown location %q", name).
		Component("locations").
		Category(errors.CategoryNotFound).
		Context("location", name).
		Build()
}

// Slug folds a name to lowercase ASCII with dashes, e.g. "Östersund" -> "ostersund".
func Slug(name string) string {
	folded, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), name)
	if err != nil {
		folded = name
	}

	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(folded)) {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(r)
			dash = false
		case unicode.IsSpace(r) || r == '-' || r == '_':
			if b.Len() > 0 && !dash {
				b.WriteByte('-')
				dash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}
