package settings

import (
	"fmt"
	"math"
)

// Option is a selectable value shown on the settings page.
type Option struct {
	Value   string `json:"value"`
	Label   string `json:"label"`
	Example string `json:"example,omitempty"`
}

// IntervalOption is a selectable auto-refresh interval in minutes.
type IntervalOption struct {
	Value int    `json:"value"`
	Label string `json:"label"`
}

// Options lists every selectable value, grouped by setting.
type Options struct {
	Temperature      []Option         `json:"temperature"`
	Wind             []Option         `json:"wind"`
	RefreshIntervals []IntervalOption `json:"refreshIntervals"`
}

// AvailableOptions returns the option lists with examples rendered for a
// 22°C, 15 km/h reference reading.
func AvailableOptions() Options {
	return Options{
		Temperature: []Option{
			{Value: "celsius", Label: "Celsius (°C)", Example: FormatTemperature(22, "celsius")},
			{Value: "fahrenheit", Label: "Fahrenheit (°F)", Example: FormatTemperature(22, "fahrenheit")},
			{Value: "kelvin", Label: "Kelvin (K)", Example: FormatTemperature(22, "kelvin")},
		},
		Wind: []Option{
			{Value: "kmh", Label: "Kilometers per hour", Example: FormatWind(15, "kmh")},
			{Value: "mph", Label: "Miles per hour", Example: FormatWind(15, "mph")},
			{Value: "ms", Label: "Meters per second", Example: FormatWind(15, "ms")},
			{Value: "knots", Label: "Knots", Example: FormatWind(15, "knots")},
		},
		RefreshIntervals: []IntervalOption{
			{Value: 1, Label: "1 minute"},
			{Value: 5, Label: "5 minutes"},
			{Value: 10, Label: "10 minutes"},
			{Value: 15, Label: "15 minutes"},
			{Value: 30, Label: "30 minutes"},
		},
	}
}

// FormatTemperature renders a Celsius reading in the given unit, rounded.
func FormatTemperature(celsius float64, unit string) string {
	switch unit {
	case "fahrenheit":
		return fmt.Sprintf("%d°F", round(celsius*9/5+32))
	case "kelvin":
		return fmt.Sprintf("%dK", round(celsius+273.15))
	default:
		return fmt.Sprintf("%d°C", round(celsius))
	}
}

// FormatWind renders a km/h reading in the given unit, rounded.
func FormatWind(kmh float64, unit string) string {
	switch unit {
	case "mph":
		return fmt.Sprintf("%d mph", round(kmh/1.609344))
	case "ms":
		return fmt.Sprintf("%d m/s", round(kmh/3.6))
	case "knots":
		return fmt.Sprintf("%d kn", round(kmh/1.852))
	default:
		return fmt.Sprintf("%d km/h", round(kmh))
	}
}

func round(v float64) int {
	return int(math.Round(v))
}
