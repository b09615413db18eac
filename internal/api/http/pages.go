package httpapi

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-dashboard/internal/display"
	"github.com/i474232898/weather-dashboard/internal/locations"
	"github.com/i474232898/weather-dashboard/internal/search"
	"github.com/i474232898/weather-dashboard/internal/settings"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

const layout = "layouts/main"

func (h *Handler) registerPages(app *fiber.App) {
	app.Get("/", h.todayPage)
	app.Post("/refresh", h.refreshPage)
	app.Get("/forecast", h.forecastPage)
	app.Get("/locations", h.locationsPage)
	app.Post("/locations", h.addLocationPage)
	app.Post("/locations/:id/favorite", h.favoritePage)
	app.Post("/locations/:id/delete", h.deletePage)
	app.Get("/search", h.searchPage)
	app.Get("/settings", h.settingsPage)
	app.Post("/settings", h.updateSettingPage)
}

// render fills the values the layout needs and renders page inside it.
func (h *Handler) render(c *fiber.Ctx, page, title string, data fiber.Map) error {
	prefs := h.Settings.Get()
	data["Page"] = page
	data["Title"] = title
	data["DarkMode"] = prefs.DarkMode
	return c.Render(page, data, layout)
}

func (h *Handler) todayPage(c *fiber.Ctx) error {
	res := h.State.Result()
	data := fiber.Map{"Phase": string(res.Phase())}

	switch res.Phase() {
	case weather.PhaseLoading:
		data["AutoReload"] = true
	case weather.PhaseFailed:
		data["Error"] = weather.ErrFetchFailed.Error()
	case weather.PhaseReady:
		if res.Data == nil {
			data["Phase"] = string(weather.PhaseFailed)
			data["Error"] = "Please try again"
			break
		}
		prefs := h.Settings.Get()
		data["Card"] = display.NewCard(*res.Data, prefs, h.Rand)
		data["Metrics"] = display.Metrics(*res.Data, prefs, h.Rand)
		data["Scene"] = display.NewScene(res.Data.Condition, res.Data.Temperature, h.Rand)
	}

	return h.render(c, "today", "Today's Weather", data)
}

func (h *Handler) refreshPage(c *fiber.Ctx) error {
	h.refreshed("manual")
	return c.Redirect("/", fiber.StatusSeeOther)
}

// forecastRow is a forecast day in the selected units.
type forecastRow struct {
	weather.ForecastDay
	Glyph       string
	HighText    string
	LowText     string
	Wind        string
	PrecipClass string
}

type hourRow struct {
	weather.HourlyForecast
	Glyph       string
	TempText    string
}

func (h *Handler) forecastPage(c *fiber.Ctx) error {
	prefs := h.Settings.Get()

	days := make([]forecastRow, 0, len(h.Forecast.Daily))
	for _, d := range h.Forecast.Daily {
		days = append(days, forecastRow{
			ForecastDay: d,
			Glyph:       weather.IconFor(d.Condition).Glyph(),
			HighText:    settings.FormatTemperature(d.High, prefs.TemperatureUnit),
			LowText:     settings.FormatTemperature(d.Low, prefs.TemperatureUnit),
			Wind:        settings.FormatWind(d.WindSpeed, prefs.WindUnit),
			PrecipClass: weather.PrecipitationClass(d.Precipitation),
		})
	}

	hours := make([]hourRow, 0, len(h.Forecast.Hourly))
	for _, hr := range h.Forecast.Hourly {
		hours = append(hours, hourRow{
			HourlyForecast: hr,
			Glyph:          weather.IconFor(hr.Condition).Glyph(),
			TempText:       settings.FormatTemperature(hr.Temperature, prefs.TemperatureUnit),
		})
	}

	summary := weather.SummarizeForecast(h.Forecast.Daily)
	return h.render(c, "forecast", "Forecast", fiber.Map{
		"Location": h.Forecast.Location,
		"Days":     days,
		"Hours":    hours,
		"Summary":  summary,
		"High":     settings.FormatTemperature(summary.High, prefs.TemperatureUnit),
		"Low":      settings.FormatTemperature(summary.Low, prefs.TemperatureUnit),
		"Wind":     settings.FormatWind(summary.AvgWindSpeed, prefs.WindUnit),
	})
}

func (h *Handler) locationsPage(c *fiber.Ctx) error {
	view := h.Locations.View(c.Query("q"))
	return h.render(c, "locations", "Locations", fiber.Map{
		"View":  view,
		"Empty": len(view.Favorites) == 0 && len(view.Others) == 0,
	})
}

func (h *Handler) addLocationPage(c *fiber.Ctx) error {
	var req addLocationRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid form")
	}
	if _, err := h.addFromSearch(req); err != nil {
		return err
	}
	return c.Redirect("/locations", fiber.StatusSeeOther)
}

func (h *Handler) favoritePage(c *fiber.Ctx) error {
	if _, err := h.Locations.ToggleFavorite(c.Params("id")); err != nil {
		if errors.Is(err, locations.ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		return err
	}
	return c.Redirect("/locations", fiber.StatusSeeOther)
}

func (h *Handler) deletePage(c *fiber.Ctx) error {
	if h.Locations.Remove(c.Params("id")) {
		h.locationsChanged()
	}
	return c.Redirect("/locations", fiber.StatusSeeOther)
}

func (h *Handler) searchPage(c *fiber.Ctx) error {
	var q searchQuery
	if err := c.QueryParser(&q); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err := validate.Struct(q); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	data := fiber.Map{"Query": q.Q}
	if q.Q == "" {
		data["Popular"] = search.Annotate(h.Search.Popular())
		data["Recent"] = h.Search.Recent()
	} else {
		data["Results"] = search.Annotate(h.Search.Search(q.Q))
	}
	return h.render(c, "search", "Search", data)
}

func (h *Handler) settingsPage(c *fiber.Ctx) error {
	return h.render(c, "settings", "Settings", fiber.Map{
		"Settings": h.Settings.Get(),
		"Options":  settings.AvailableOptions(),
	})
}

// settingForm is a single-key settings update.
type settingForm struct {
	Key   string `form:"key" validate:"required"`
	Value string `form:"value"`
}

func (h *Handler) updateSettingPage(c *fiber.Ctx) error {
	var f settingForm
	if err := c.BodyParser(&f); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid form")
	}
	if err := validate.Struct(f); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if _, err := h.Settings.Set(f.Key, f.Value); err != nil {
		return settingsError(err)
	}
	return c.Redirect("/settings", fiber.StatusSeeOther)
}
