package httpapi

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-dashboard/internal/fixtures"
	"github.com/i474232898/weather-dashboard/internal/locations"
	"github.com/i474232898/weather-dashboard/internal/metrics"
	"github.com/i474232898/weather-dashboard/internal/search"
	"github.com/i474232898/weather-dashboard/internal/settings"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

var validate = validator.New()

const defaultWaitTimeout = 5 * time.Second

// Handler serves the dashboard pages and the JSON API.
type Handler struct {
	State     *weather.State
	Service   *weather.Service
	Locations *locations.Service
	Search    *search.Service
	Forecast  fixtures.Forecast
	Settings  *settings.Store
	Rand      weather.Rand

	// Metrics is optional.
	Metrics *metrics.Metrics

	// WaitTimeout bounds ?wait=true requests. Zero means 5s.
	WaitTimeout time.Duration
}

// RegisterRoutes wires the pages and the API into the Fiber app. Pages need
// the app to be configured with Views.
func RegisterRoutes(app *fiber.App, h *Handler) {
	if h.Rand == nil {
		h.Rand = weather.DefaultRand
	}
	if h.WaitTimeout <= 0 {
		h.WaitTimeout = defaultWaitTimeout
	}

	h.registerPages(app)
	h.registerAPI(app.Group("/api/v1"))
}

func (h *Handler) refreshed(trigger string) {
	h.State.Refresh()
	if h.Metrics != nil {
		h.Metrics.Refreshed(trigger)
	}
}

func (h *Handler) locationsChanged() {
	if h.Metrics != nil {
		h.Metrics.SetLocations(h.Locations.Len())
	}
}
