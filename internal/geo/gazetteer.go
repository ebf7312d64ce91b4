package geo

import (
	"fmt"
	"os"
	"strings"

	"github.com/YAQOOBM6874/Smart-IR-System/internal/domain"
	"gopkg.in/yaml.v3"
)

// abbreviations maps dateline shorthand to the names the geocoder knows.
var abbreviations = map[string]string{
	"usa":          "United States",
	"uk":           "United Kingdom",
	"west-germany": "Germany",
	"ussr":         "Russia",
	"u.a.e":        "United Arab Emirates",
}

// fallbackCities are well-known coordinates used when the geocoding service
// is unreachable or returns nothing for a major city.
var fallbackCities = map[string]domain.GeoPoint{
	"new york":    {Lat: 40.7128, Lon: -74.0060},
	"london":      {Lat: 51.5074, Lon: -0.1278},
	"tokyo":       {Lat: 35.6762, Lon: 139.6503},
	"paris":       {Lat: 48.8566, Lon: 2.3522},
	"washington":  {Lat: 38.9072, Lon: -77.0369},
	"chicago":     {Lat: 41.8781, Lon: -87.6298},
	"frankfurt":   {Lat: 50.1109, Lon: 8.6821},
	"zurich":      {Lat: 47.3769, Lon: 8.5417},
	"hong kong":   {Lat: 22.3193, Lon: 114.1694},
	"singapore":   {Lat: 1.3521, Lon: 103.8198},
	"sydney":      {Lat: -33.8688, Lon: 151.2093},
	"toronto":     {Lat: 43.6532, Lon: -79.3832},
	"brussels":    {Lat: 50.8503, Lon: 4.3517},
	"geneva":      {Lat: 46.2044, Lon: 6.1432},
}

// Gazetteer holds local place knowledge: name abbreviations and fallback
// coordinates for major cities. The built-in tables can be extended from a
// YAML file.
type Gazetteer struct {
	abbreviations map[string]string
	cities        map[string]domain.GeoPoint
}

func NewGazetteer() *Gazetteer {
	g := &Gazetteer{
		abbreviations: make(map[string]string, len(abbreviations)),
		cities:        make(map[string]domain.GeoPoint, len(fallbackCities)),
	}
	for k, v := range abbreviations {
		g.abbreviations[k] = v
	}
	for k, v := range fallbackCities {
		g.cities[k] = v
	}
	return g
}

type gazetteerFile struct {
	Abbreviations map[string]string `yaml:"abbreviations"`
	Cities        map[string]struct {
		Lat float64 `yaml:"lat"`
		Lon float64 `yaml:"lon"`
	} `yaml:"cities"`
}

// LoadOverrides merges entries from a YAML file into the built-in tables.
func (g *Gazetteer) LoadOverrides(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read gazetteer file: %w", err)
	}

	var file gazetteerFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse gazetteer file %s: %w", path, err)
	}

	for k, v := range file.Abbreviations {
		g.abbreviations[strings.ToLower(k)] = v
	}
	for k, v := range file.Cities {
		g.cities[strings.ToLower(k)] = domain.GeoPoint{Lat: v.Lat, Lon: v.Lon}
	}
	return nil
}

// Expand replaces a known abbreviation with its full name, otherwise
// returns the input unchanged.
func (g *Gazetteer) Expand(name string) string {
	if full, ok := g.abbreviations[strings.ToLower(name)]; ok {
		return full
	}
	return name
}

// FallbackLookup matches name against the fallback city table. A city key
// matches when it appears anywhere inside the lowercased name, so
// "New York City" still resolves.
func (g *Gazetteer) FallbackLookup(name string) (Location, bool) {
	lower := strings.ToLower(name)
	for city, pt := range g.cities {
		if strings.Contains(lower, city) {
			return Location{
				Name:             name,
				FormattedAddress: name,
				Coordinates:      pt,
			}, true
		}
	}
	return Location{}, false
}
