// Package display derives presentation-only values from a snapshot. Nothing
// here is stored; every render recomputes it.
package display

import (
	"fmt"
	"math"

	"github.com/i474232898/weather-dashboard/internal/settings"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

// Metric is one tile of the metrics grid.
type Metric struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Card is the summary card for the current snapshot.
type Card struct {
	Location    string       `json:"location"`
	Description string       `json:"description"`
	Condition   string       `json:"condition"`
	Icon        weather.Icon `json:"icon"`
	Glyph       string       `json:"glyph"`
	Temperature string       `json:"temperature"`
	High        string       `json:"high"`
	Low         string       `json:"low"`
	Humidity    string       `json:"humidity"`
	Wind        string       `json:"wind"`
}

// FeelsLike jitters the temperature by up to two degrees either way.
func FeelsLike(temperature float64, rnd weather.Rand) float64 {
	return math.Round(temperature + (rnd.Float64()*4 - 2))
}

// HighLow returns a high two to four degrees above and a low two to four
// degrees below the temperature.
func HighLow(temperature float64, rnd weather.Rand) (high, low float64) {
	high = temperature + float64(rnd.IntN(3)) + 2
	low = temperature - float64(rnd.IntN(3)) - 2
	return high, low
}

// VisibilityKm is 5 when the condition mentions rain, else 10.
func VisibilityKm(condition string) int {
	if weather.Mentions(condition, "rain") {
		return 5
	}
	return 10
}

// NewCard builds the summary card in the selected units.
func NewCard(s weather.Snapshot, prefs settings.Bag, rnd weather.Rand) Card {
	high, low := HighLow(s.Temperature, rnd)
	icon := weather.IconFor(s.Condition)
	return Card{
		Location:    s.Location,
		Description: s.Description,
		Condition:   s.Condition,
		Icon:        icon,
		Glyph:       icon.Glyph(),
		Temperature: settings.FormatTemperature(s.Temperature, prefs.TemperatureUnit),
		High:        settings.FormatTemperature(high, prefs.TemperatureUnit),
		Low:         settings.FormatTemperature(low, prefs.TemperatureUnit),
		Humidity:    fmt.Sprintf("%d%%", int(math.Round(s.Humidity))),
		Wind:        settings.FormatWind(s.WindSpeed, prefs.WindUnit),
	}
}

// Metrics builds the Feels Like, Wind, Humidity and Visibility tiles.
func Metrics(s weather.Snapshot, prefs settings.Bag, rnd weather.Rand) []Metric {
	return []Metric{
		{Label: "Feels Like", Value: settings.FormatTemperature(FeelsLike(s.Temperature, rnd), prefs.TemperatureUnit)},
		{Label: "Wind", Value: settings.FormatWind(s.WindSpeed, prefs.WindUnit)},
		{Label: "Humidity", Value: fmt.Sprintf("%d%%", int(math.Round(s.Humidity)))},
		{Label: "Visibility", Value: fmt.Sprintf("%d km", VisibilityKm(s.Condition))},
	}
}
