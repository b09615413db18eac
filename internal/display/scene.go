package display

import "github.com/i474232898/weather-dashboard/internal/weather"

const (
	particleCount = 150
	starCount     = 200
	warmAbove     = 25.0
	starsBelow    = 10.0
)

// Vec3 is a position in scene units.
type Vec3 [3]float64

// RGB is a colour with channels in [0, 1].
type RGB [3]float64

// Cloud is one floating cloud of the scene.
type Cloud struct {
	Position Vec3    `json:"position"`
	Speed    float64 `json:"speed"`
	Opacity  float64 `json:"opacity"`
	Color    string  `json:"color"`
	Segments int     `json:"segments"`
}

// Particles is the point cloud drifting through the scene.
type Particles struct {
	Count     int    `json:"count"`
	Color     RGB    `json:"color"`
	Positions []Vec3 `json:"positions"`
}

// Scene is the configuration handed to the client-side renderer.
type Scene struct {
	Background  string    `json:"background"`
	SphereColor string    `json:"sphereColor"`
	Clouds      []Cloud   `json:"clouds"`
	Stars       int       `json:"stars"`
	Particles   Particles `json:"particles"`
}

var sceneClouds = []Cloud{
	{Position: Vec3{-4, 2, -2}, Speed: 0.2, Opacity: 0.4, Color: "#ffffff", Segments: 20},
	{Position: Vec3{4, 3, -1}, Speed: 0.3, Opacity: 0.3, Color: "#f0f0f0", Segments: 15},
	{Position: Vec3{0, 4, -3}, Speed: 0.15, Opacity: 0.5, Color: "#ffffff", Segments: 25},
}

// NewScene derives the scene for a condition and temperature. Particle
// positions are drawn from rnd.
func NewScene(condition string, temperature float64, rnd weather.Rand) Scene {
	sc := Scene{
		Background:  pick(condition, temperature, "#263238", "#E8F5E8", "#607D8B", "#FF8A65", "#4FC3F7"),
		SphereColor: pick(condition, temperature, "#4FC3F7", "#E3F2FD", "#90A4AE", "#FFB74D", "#81C784"),
		Clouds:      []Cloud{},
	}

	if weather.Mentions(condition, "cloud", "rain") {
		sc.Clouds = append(sc.Clouds, sceneClouds...)
	}
	if temperature < starsBelow {
		sc.Stars = starCount
	}

	sc.Particles = Particles{
		Count:     particleCount,
		Color:     particleColor(condition),
		Positions: make([]Vec3, particleCount),
	}
	for i := range sc.Particles.Positions {
		sc.Particles.Positions[i] = Vec3{
			(rnd.Float64() - 0.5) * 20,
			rnd.Float64() * 10,
			(rnd.Float64() - 0.5) * 20,
		}
	}
	return sc
}

func pick(condition string, temperature float64, rain, snow, cloud, warm, mild string) string {
	switch {
	case weather.Mentions(condition, "rain"):
		return rain
	case weather.Mentions(condition, "snow"):
		return snow
	case weather.Mentions(condition, "cloud"):
		return cloud
	case temperature > warmAbove:
		return warm
	default:
		return mild
	}
}

func particleColor(condition string) RGB {
	switch {
	case weather.Mentions(condition, "rain"):
		return RGB{0.3, 0.6, 1.0}
	case weather.Mentions(condition, "snow"):
		return RGB{1.0, 1.0, 1.0}
	default:
		return RGB{1.0, 0.8, 0.2}
	}
}
