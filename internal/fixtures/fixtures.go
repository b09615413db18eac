// Package fixtures loads the mock data the dashboard is seeded with.
package fixtures

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/i474232898/weather-dashboard/internal/settings"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

//go:embed data.yaml
var embedded []byte

// Forecast is the static forecast for a single location.
type Forecast struct {
	Location string                   `yaml:"location"`
	Daily    []weather.ForecastDay    `yaml:"daily"`
	Hourly   []weather.HourlyForecast `yaml:"hourly"`
}

// Data is everything the pages are seeded from.
type Data struct {
	Pool           []weather.Snapshot     `yaml:"pool"`
	Locations      []weather.Location     `yaml:"locations"`
	Popular        []weather.SearchResult `yaml:"popular"`
	RecentSearches []string               `yaml:"recentSearches"`
	Forecast       Forecast               `yaml:"forecast"`
	Settings       *settings.Bag          `yaml:"settings"`
}

// Default parses the embedded data set.
func Default() (*Data, error) {
	return Parse(embedded)
}

// Load reads a data set from path, or the embedded one when path is empty.
func Load(path string) (*Data, error) {
	if path == "" {
		return Default()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixtures %s: %w", path, err)
	}
	return Parse(raw)
}

// Parse decodes a YAML data set. Missing settings fall back to defaults.
func Parse(raw []byte) (*Data, error) {
	var d Data
	if err := yaml.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("decode fixtures: %w", err)
	}
	if d.Settings == nil {
		def := settings.Defaults()
		d.Settings = &def
	}
	return &d, nil
}

// Home returns the coordinates of the saved location with the given name.
func (d *Data) Home(name string) (*weather.Coordinates, bool) {
	for _, l := range d.Locations {
		if strings.EqualFold(l.Name, name) && l.Coordinates != nil {
			c := *l.Coordinates
			return &c, true
		}
	}
	return nil, false
}
