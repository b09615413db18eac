package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/i474232898/weather-dashboard/internal/fixtures"
	"github.com/i474232898/weather-dashboard/internal/locations"
	"github.com/i474232898/weather-dashboard/internal/metrics"
	"github.com/i474232898/weather-dashboard/internal/search"
	"github.com/i474232898/weather-dashboard/internal/settings"
	"github.com/i474232898/weather-dashboard/internal/store"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

// fixedRand always picks the same index and returns the same float.
type fixedRand struct {
	i int
}

func (r fixedRand) IntN(n int) int {
	if r.i >= n {
		return n - 1
	}
	return r.i
}

func (fixedRand) Float64() float64 { return 0.5 }

type failingSource struct{}

func (failingSource) Fetch(context.Context) (weather.Snapshot, error) {
	return weather.Snapshot{}, errors.New("upstream down")
}

// newTestApp wires a handler around the embedded fixtures. By default the
// source always returns Tokyo and fetches resolve immediately.
func newTestApp(t *testing.T, source weather.Source, delay time.Duration) (*fiber.App, *Handler) {
	t.Helper()

	data, err := fixtures.Default()
	if err != nil {
		t.Fatalf("fixtures: %v", err)
	}
	if source == nil {
		source = weather.NewPoolSource(data.Pool, fixedRand{i: 1})
	}

	svc := weather.NewService(store.NewMemoryStore(10, time.Hour), source)
	state := weather.NewState(svc, weather.WithDelay(delay))
	t.Cleanup(state.Close)

	prefs, err := settings.NewStore(*data.Settings)
	if err != nil {
		t.Fatalf("settings: %v", err)
	}
	home, _ := data.Home("New York")

	h := &Handler{
		State:     state,
		Service:   svc,
		Locations: locations.NewService(data.Locations, home),
		Search:    search.NewService(data.Popular, data.RecentSearches),
		Forecast:  data.Forecast,
		Settings:  prefs,
		Rand:      fixedRand{},
		Metrics:   metrics.New(),
	}

	app := fiber.New(fiber.Config{
		Views:        NewViews(),
		ErrorHandler: ErrorHandler,
	})
	RegisterRoutes(app, h)
	return app, h
}

func waitSettled(t *testing.T, h *Handler) weather.Result {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	res, err := h.State.Wait(ctx)
	if err != nil {
		t.Fatalf("state did not settle: %v", err)
	}
	return res
}

func do(t *testing.T, app *fiber.App, method, target, body string) *http.Response {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return resp
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode body: %v", err)
	}
}

func expectStatus(t *testing.T, resp *http.Response, want int) {
	t.Helper()
	if resp.StatusCode != want {
		t.Fatalf("expected status %d, got %d", want, resp.StatusCode)
	}
}

func TestGetWeatherWaitsForResolution(t *testing.T) {
	app, _ := newTestApp(t, nil, 10*time.Millisecond)

	resp := do(t, app, http.MethodGet, "/api/v1/weather?wait=true", "")
	expectStatus(t, resp, http.StatusOK)

	var body weatherResponse
	decode(t, resp, &body)

	want := weather.Snapshot{Location: "Tokyo", Temperature: 28, Condition: "sunny", Humidity: 45, WindSpeed: 8, Description: "Clear skies and warm weather"}
	if body.Phase != weather.PhaseReady || body.Loading || body.Error != nil {
		t.Fatalf("expected ready result, got %+v", body)
	}
	if body.Data == nil || *body.Data != want {
		t.Fatalf("expected %+v, got %+v", want, body.Data)
	}
	if body.Card == nil || body.Card.Temperature != "28°C" {
		t.Fatalf("unexpected card %+v", body.Card)
	}
}

func TestGetWeatherRejectsBadWaitFlag(t *testing.T) {
	app, _ := newTestApp(t, nil, time.Hour)

	resp := do(t, app, http.MethodGet, "/api/v1/weather?wait=maybe", "")
	expectStatus(t, resp, http.StatusBadRequest)

	var body map[string]any
	decode(t, resp, &body)
	if body["error"] != true {
		t.Fatalf("expected JSON error body, got %v", body)
	}
}

func TestGetWeatherFailure(t *testing.T) {
	app, h := newTestApp(t, failingSource{}, 0)
	waitSettled(t, h)

	resp := do(t, app, http.MethodGet, "/api/v1/weather", "")
	expectStatus(t, resp, http.StatusOK)

	var body weatherResponse
	decode(t, resp, &body)
	if body.Phase != weather.PhaseFailed || body.Data != nil {
		t.Fatalf("expected failed result without data, got %+v", body)
	}
	if body.Error == nil || *body.Error != weather.ErrFetchFailed.Error() {
		t.Fatalf("expected generic error message, got %v", body.Error)
	}
}

func TestRefreshWeather(t *testing.T) {
	app, h := newTestApp(t, nil, time.Hour)

	resp := do(t, app, http.MethodPost, "/api/v1/weather/refresh", "")
	expectStatus(t, resp, http.StatusAccepted)

	var body weatherResponse
	decode(t, resp, &body)
	if !body.Loading || body.Phase != weather.PhaseLoading {
		t.Fatalf("expected loading after refresh, got %+v", body)
	}
	if got := testutil.ToFloat64(h.Metrics.RefreshesTotal.WithLabelValues("manual")); got != 1 {
		t.Fatalf("expected one manual refresh, got %v", got)
	}
}

func TestScene(t *testing.T) {
	app, h := newTestApp(t, nil, time.Hour)

	resp := do(t, app, http.MethodGet, "/api/v1/weather/scene", "")
	expectStatus(t, resp, http.StatusServiceUnavailable)

	app, h = newTestApp(t, nil, 0)
	waitSettled(t, h)

	resp = do(t, app, http.MethodGet, "/api/v1/weather/scene", "")
	expectStatus(t, resp, http.StatusOK)

	var scene struct {
		Background string `json:"background"`
		Stars      int    `json:"stars"`
		Particles  struct {
			Count int `json:"count"`
		} `json:"particles"`
	}
	decode(t, resp, &scene)
	if scene.Background != "#FF8A65" || scene.Stars != 0 || scene.Particles.Count != 150 {
		t.Fatalf("unexpected scene for sunny 28: %+v", scene)
	}
}

func TestHistory(t *testing.T) {
	app, h := newTestApp(t, nil, 0)
	waitSettled(t, h)

	now := time.Now().UTC()
	from := now.Add(-time.Hour).Format(time.RFC3339)
	to := now.Add(time.Hour).Format(time.RFC3339)

	// Missing range.
	resp := do(t, app, http.MethodGet, "/api/v1/weather/history?location=Tokyo", "")
	expectStatus(t, resp, http.StatusBadRequest)

	// Range ends before it starts.
	resp = do(t, app, http.MethodGet, fmt.Sprintf("/api/v1/weather/history?location=Tokyo&from=%s&to=%s", to, from), "")
	expectStatus(t, resp, http.StatusBadRequest)

	// Missing location.
	resp = do(t, app, http.MethodGet, fmt.Sprintf("/api/v1/weather/history?from=%s&to=%s", from, to), "")
	expectStatus(t, resp, http.StatusBadRequest)

	resp = do(t, app, http.MethodGet, fmt.Sprintf("/api/v1/weather/history?location=Atlantis&from=%s&to=%s", from, to), "")
	expectStatus(t, resp, http.StatusNotFound)

	resp = do(t, app, http.MethodGet, fmt.Sprintf("/api/v1/weather/history?location=tokyo&from=%d&to=%d", now.Add(-time.Hour).Unix(), now.Add(time.Hour).Unix()), "")
	expectStatus(t, resp, http.StatusOK)

	var body struct {
		Records []weather.Record `json:"records"`
	}
	decode(t, resp, &body)
	if len(body.Records) != 1 || body.Records[0].Snapshot.Location != "Tokyo" {
		t.Fatalf("expected one Tokyo record, got %+v", body.Records)
	}
}

func TestForecastEndpoint(t *testing.T) {
	app, _ := newTestApp(t, nil, time.Hour)

	resp := do(t, app, http.MethodGet, "/api/v1/forecast", "")
	expectStatus(t, resp, http.StatusOK)

	var body struct {
		Daily   []weather.ForecastDay    `json:"daily"`
		Hourly  []weather.HourlyForecast `json:"hourly"`
		Summary weather.ForecastSummary  `json:"summary"`
	}
	decode(t, resp, &body)
	if len(body.Daily) != 7 || len(body.Hourly) != 8 {
		t.Fatalf("unexpected forecast sizes %d/%d", len(body.Daily), len(body.Hourly))
	}
	if body.Summary.High != 26 || body.Summary.Low != 12 {
		t.Fatalf("unexpected summary %+v", body.Summary)
	}
}

func TestLocationsFavoriteAndDelete(t *testing.T) {
	app, h := newTestApp(t, nil, time.Hour)

	resp := do(t, app, http.MethodPatch, "/api/v1/locations/2/favorite", "")
	expectStatus(t, resp, http.StatusOK)
	var loc weather.Location
	decode(t, resp, &loc)
	if !loc.IsFavorite || loc.Name != "London" {
		t.Fatalf("expected London to become a favorite, got %+v", loc)
	}

	resp = do(t, app, http.MethodPatch, "/api/v1/locations/999/favorite", "")
	expectStatus(t, resp, http.StatusNotFound)

	resp = do(t, app, http.MethodDelete, "/api/v1/locations/4", "")
	expectStatus(t, resp, http.StatusNoContent)
	if h.Locations.Len() != 3 {
		t.Fatalf("expected 3 locations after delete, got %d", h.Locations.Len())
	}

	// Deleting an unknown id is a no-op.
	resp = do(t, app, http.MethodDelete, "/api/v1/locations/4", "")
	expectStatus(t, resp, http.StatusNoContent)
	if h.Locations.Len() != 3 {
		t.Fatalf("expected 3 locations after no-op delete, got %d", h.Locations.Len())
	}

	resp = do(t, app, http.MethodGet, "/api/v1/locations", "")
	expectStatus(t, resp, http.StatusOK)
	var view locations.View
	decode(t, resp, &view)
	if len(view.Favorites) != 3 || len(view.Others) != 0 {
		t.Fatalf("unexpected view %d/%d", len(view.Favorites), len(view.Others))
	}
	if got := testutil.ToFloat64(h.Metrics.Locations); got != 3 {
		t.Fatalf("expected locations gauge at 3, got %v", got)
	}
}

func TestAddLocation(t *testing.T) {
	app, h := newTestApp(t, nil, time.Hour)

	resp := do(t, app, http.MethodPost, "/api/v1/locations", `{"id":"100","query":"berlin"}`)
	expectStatus(t, resp, http.StatusCreated)
	var loc weather.Location
	decode(t, resp, &loc)
	if loc.Name != "Berlin" || loc.Country != "Sample Country" || loc.IsFavorite || loc.ID == "" {
		t.Fatalf("unexpected added location %+v", loc)
	}
	if h.Locations.Len() != 5 {
		t.Fatalf("expected 5 locations, got %d", h.Locations.Len())
	}

	resp = do(t, app, http.MethodPost, "/api/v1/locations", `{"id":"6"}`)
	expectStatus(t, resp, http.StatusCreated)

	resp = do(t, app, http.MethodPost, "/api/v1/locations", `{"id":"nope","query":"berlin"}`)
	expectStatus(t, resp, http.StatusNotFound)

	resp = do(t, app, http.MethodPost, "/api/v1/locations", `{}`)
	expectStatus(t, resp, http.StatusBadRequest)
}

func TestSearchEndpoint(t *testing.T) {
	app, _ := newTestApp(t, nil, time.Hour)

	type searchBody struct {
		Results []search.Hit `json:"results"`
		Popular []search.Hit `json:"popular"`
		Recent  []string     `json:"recent"`
	}

	resp := do(t, app, http.MethodGet, "/api/v1/search", "")
	expectStatus(t, resp, http.StatusOK)
	var empty searchBody
	decode(t, resp, &empty)
	if len(empty.Results) != 0 || len(empty.Popular) != 6 || len(empty.Recent) != 4 {
		t.Fatalf("unexpected empty-query body %d/%d/%d", len(empty.Results), len(empty.Popular), len(empty.Recent))
	}

	resp = do(t, app, http.MethodGet, "/api/v1/search?q=zz", "")
	var short searchBody
	decode(t, resp, &short)
	if len(short.Results) != 0 {
		t.Fatalf("expected no results for a short unmatched query, got %d", len(short.Results))
	}

	resp = do(t, app, http.MethodGet, "/api/v1/search?q=paris", "")
	var paris searchBody
	decode(t, resp, &paris)
	if len(paris.Results) != 3 || paris.Results[0].Name != "Paris" || paris.Results[1].ID != "100" {
		t.Fatalf("unexpected results %+v", paris.Results)
	}

	resp = do(t, app, http.MethodGet, "/api/v1/search?q="+strings.Repeat("a", 101), "")
	expectStatus(t, resp, http.StatusBadRequest)
}

func TestSettingsEndpoints(t *testing.T) {
	app, h := newTestApp(t, nil, time.Hour)

	resp := do(t, app, http.MethodPut, "/api/v1/settings", `{"temperatureUnit":"fahrenheit"}`)
	expectStatus(t, resp, http.StatusOK)
	var bag settings.Bag
	decode(t, resp, &bag)
	if bag.TemperatureUnit != "fahrenheit" || bag.WindUnit != "kmh" {
		t.Fatalf("expected partial update, got %+v", bag)
	}

	resp = do(t, app, http.MethodPut, "/api/v1/settings", `{"windUnit":"furlongs"}`)
	expectStatus(t, resp, http.StatusBadRequest)
	if h.Settings.Get().WindUnit != "kmh" {
		t.Fatalf("invalid update must leave settings unchanged, got %+v", h.Settings.Get())
	}

	resp = do(t, app, http.MethodGet, "/api/v1/settings", "")
	expectStatus(t, resp, http.StatusOK)

	resp = do(t, app, http.MethodGet, "/api/v1/settings/options", "")
	expectStatus(t, resp, http.StatusOK)
	var opts settings.Options
	decode(t, resp, &opts)
	if len(opts.Temperature) != 3 || len(opts.Wind) != 4 || len(opts.RefreshIntervals) != 5 {
		t.Fatalf("unexpected options %+v", opts)
	}
}
