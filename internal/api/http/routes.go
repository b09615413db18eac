package httpapi

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-dashboard/internal/display"
	"github.com/i474232898/weather-dashboard/internal/listing"
	"github.com/i474232898/weather-dashboard/internal/locations"
	"github.com/i474232898/weather-dashboard/internal/search"
	"github.com/i474232898/weather-dashboard/internal/settings"
	"github.com/i474232898/weather-dashboard/internal/store"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

func (h *Handler) registerAPI(v1 fiber.Router) {
	v1.Get("/weather", h.getWeather)
	v1.Post("/weather/refresh", h.refreshWeather)
	v1.Get("/weather/history", h.getHistory)
	v1.Get("/weather/scene", h.getScene)

	v1.Get("/forecast", h.getForecast)

	v1.Get("/locations", h.listLocations)
	v1.Post("/locations", h.addLocation)
	v1.Patch("/locations/:id/favorite", h.toggleFavorite)
	v1.Delete("/locations/:id", h.deleteLocation)

	v1.Get("/search", h.searchLocations)

	v1.Get("/settings", h.getSettings)
	v1.Put("/settings", h.putSettings)
	v1.Get("/settings/options", h.getSettingsOptions)
}

// weatherResponse is the wire form of weather.Result.
type weatherResponse struct {
	Phase   weather.Phase     `json:"phase"`
	Loading bool              `json:"loading"`
	Error   *string           `json:"error"`
	Data    *weather.Snapshot `json:"data"`
	Card    *display.Card     `json:"card,omitempty"`
}

func (h *Handler) toResponse(res weather.Result) weatherResponse {
	out := weatherResponse{
		Phase:   res.Phase(),
		Loading: res.Loading,
	}
	if res.Err != nil {
		// Only the generic kind reaches clients.
		msg := weather.ErrFetchFailed.Error()
		out.Error = &msg
		return out
	}
	if !res.Loading && res.Data != nil {
		out.Data = res.Data
		card := display.NewCard(*res.Data, h.Settings.Get(), h.Rand)
		out.Card = &card
	}
	return out
}

func (h *Handler) getWeather(c *fiber.Ctx) error {
	wait := false
	if raw := c.Query("wait"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "wait must be a boolean")
		}
		wait = v
	}

	res := h.State.Result()
	if wait && res.Loading {
		ctx, cancel := context.WithTimeout(c.UserContext(), h.WaitTimeout)
		defer cancel()
		// On timeout the still-loading result is returned as is.
		res, _ = h.State.Wait(ctx)
	}

	return c.JSON(h.toResponse(res))
}

func (h *Handler) refreshWeather(c *fiber.Ctx) error {
	h.refreshed("manual")
	return c.Status(fiber.StatusAccepted).JSON(h.toResponse(h.State.Result()))
}

func (h *Handler) getScene(c *fiber.Ctx) error {
	res := h.State.Result()
	if res.Phase() != weather.PhaseReady || res.Data == nil {
		return fiber.NewError(fiber.StatusServiceUnavailable, "weather data is not available yet")
	}
	return c.JSON(display.NewScene(res.Data.Condition, res.Data.Temperature, h.Rand))
}

func (h *Handler) getHistory(c *fiber.Ctx) error {
	var req historyQuery
	if err := req.bind(c); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	if err := validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	records, err := h.Service.GetRange(req.Location, req.From, req.To)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "no weather history for requested range")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch weather history")
	}

	return c.JSON(fiber.Map{
		"location": req.Location,
		"from":     req.From,
		"to":       req.To,
		"records":  records,
	})
}

func (h *Handler) getForecast(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"location": h.Forecast.Location,
		"daily":    h.Forecast.Daily,
		"hourly":   h.Forecast.Hourly,
		"summary":  weather.SummarizeForecast(h.Forecast.Daily),
	})
}

func (h *Handler) listLocations(c *fiber.Ctx) error {
	return c.JSON(h.Locations.View(c.Query("q")))
}

// addLocationRequest names a search result by id, as returned for query.
type addLocationRequest struct {
	ID    string `json:"id" form:"id" validate:"required"`
	Query string `json:"query" form:"q"`
}

func (h *Handler) addFromSearch(req addLocationRequest) (weather.Location, error) {
	if err := validate.Struct(req); err != nil {
		return weather.Location{}, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	result, ok := h.Search.Find(req.Query, req.ID)
	if !ok {
		return weather.Location{}, fiber.NewError(fiber.StatusNotFound, "search result not found")
	}
	loc, err := h.Locations.Add(result)
	if err != nil {
		if errors.Is(err, listing.ErrDuplicate) {
			return weather.Location{}, fiber.NewError(fiber.StatusConflict, err.Error())
		}
		return weather.Location{}, err
	}
	h.locationsChanged()
	return loc, nil
}

func (h *Handler) addLocation(c *fiber.Ctx) error {
	var req addLocationRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	loc, err := h.addFromSearch(req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(loc)
}

func (h *Handler) toggleFavorite(c *fiber.Ctx) error {
	loc, err := h.Locations.ToggleFavorite(c.Params("id"))
	if err != nil {
		if errors.Is(err, locations.ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		return err
	}
	return c.JSON(loc)
}

func (h *Handler) deleteLocation(c *fiber.Ctx) error {
	// Removing an unknown id is a no-op.
	if h.Locations.Remove(c.Params("id")) {
		h.locationsChanged()
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// searchQuery holds query parameters for the search endpoint.
type searchQuery struct {
	Q string `query:"q" validate:"max=100"`
}

func (h *Handler) searchLocations(c *fiber.Ctx) error {
	var q searchQuery
	if err := c.QueryParser(&q); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err := validate.Struct(q); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	if q.Q == "" {
		return c.JSON(fiber.Map{
			"query":   "",
			"results": []search.Hit{},
			"popular": search.Annotate(h.Search.Popular()),
			"recent":  h.Search.Recent(),
		})
	}
	return c.JSON(fiber.Map{
		"query":   q.Q,
		"results": search.Annotate(h.Search.Search(q.Q)),
	})
}

func (h *Handler) getSettings(c *fiber.Ctx) error {
	return c.JSON(h.Settings.Get())
}

func (h *Handler) putSettings(c *fiber.Ctx) error {
	bag := h.Settings.Get()
	// Fields missing from the body keep their current value.
	if err := c.BodyParser(&bag); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	updated, err := h.Settings.Replace(bag)
	if err != nil {
		return settingsError(err)
	}
	return c.JSON(updated)
}

func settingsError(err error) error {
	if errors.Is(err, settings.ErrInvalidValue) || errors.Is(err, settings.ErrUnknownSetting) {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return err
}

func (h *Handler) getSettingsOptions(c *fiber.Ctx) error {
	return c.JSON(settings.AvailableOptions())
}

// historyQuery holds query parameters for the history endpoint.
type historyQuery struct {
	Location string    `validate:"required"`
	From     time.Time `validate:"required"`
	To       time.Time `validate:"required,gtefield=From"`
}

func (h *historyQuery) bind(c *fiber.Ctx) error {
	h.Location = c.Query("location")

	fromStr := c.Query("from")
	toStr := c.Query("to")
	if fromStr == "" || toStr == "" {
		return errors.New("from and to query parameters are required")
	}

	from, err := parseTime(fromStr)
	if err != nil {
		return err
	}
	to, err := parseTime(toStr)
	if err != nil {
		return err
	}

	h.From = from
	h.To = to
	return nil
}

// parseTime tries to parse either RFC3339 or Unix seconds.
func parseTime(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts, nil
	}
	if unix, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(unix, 0).UTC(), nil
	}
	return time.Time{}, errors.New("invalid time format; use RFC3339 or unix seconds")
}
