package weather

import "strings"

// Icon is the visual category selected from a free-text condition.
type Icon string

const (
	IconRain         Icon = "rain"
	IconSnow         Icon = "snow"
	IconCloud        Icon = "cloud"
	IconClear        Icon = "clear"
	IconPartlyCloudy Icon = "partly-cloudy"
)

var glyphs = map[Icon]string{
	IconRain:         "🌧️",
	IconSnow:         "❄️",
	IconCloud:        "☁️",
	IconClear:        "☀️",
	IconPartlyCloudy: "⛅",
}

// Glyph returns the emoji shown for the icon.
func (i Icon) Glyph() string {
	if g, ok := glyphs[i]; ok {
		return g
	}
	return glyphs[IconPartlyCloudy]
}

// IconFor maps a condition to an icon. Keywords are checked in priority
// order rain, snow, cloud, clear/sunny; anything else is partly cloudy.
func IconFor(condition string) Icon {
	c := strings.ToLower(condition)
	switch {
	case HasAny(c, "rain"):
		return IconRain
	case HasAny(c, "snow"):
		return IconSnow
	case HasAny(c, "cloud"):
		return IconCloud
	case HasAny(c, "clear", "sunny"):
		return IconClear
	default:
		return IconPartlyCloudy
	}
}

// HasAny returns true if s contains any of the substrings.
func HasAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// Mentions reports whether the condition contains any keyword, ignoring case.
func Mentions(condition string, keywords ...string) bool {
	return HasAny(strings.ToLower(condition), keywords...)
}
