package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	httpapi "github.com/i474232898/weather-dashboard/internal/api/http"
	"github.com/i474232898/weather-dashboard/internal/config"
	"github.com/i474232898/weather-dashboard/internal/fixtures"
	"github.com/i474232898/weather-dashboard/internal/locations"
	"github.com/i474232898/weather-dashboard/internal/metrics"
	"github.com/i474232898/weather-dashboard/internal/scheduler"
	"github.com/i474232898/weather-dashboard/internal/search"
	"github.com/i474232898/weather-dashboard/internal/settings"
	"github.com/i474232898/weather-dashboard/internal/store"
	"github.com/i474232898/weather-dashboard/internal/weather"
	"github.com/i474232898/weather-dashboard/internal/weather/providers"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Infof("No .env file found or error loading it: %v", err)
	}

	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	log.SetLevel(cfg.LogLevel)
	log.SetOutput(os.Stdout)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	data, err := fixtures.Load(cfg.FixturesFile)
	if err != nil {
		log.Fatalf("failed to load fixtures: %v", err)
	}

	reg := metrics.New()

	// In-memory history with configured retention.
	memStore := store.NewMemoryStore(cfg.StoreMaxHistory, cfg.StoreMaxAge)

	// Mock pool behind the resilience layer (backoff + circuit breaker).
	source := providers.NewGuarded("mock-pool",
		weather.NewPoolSource(data.Pool, weather.DefaultRand),
		providers.BackoffConfig{
			MaxRetries:      cfg.FetchMaxRetries,
			InitialInterval: 200 * time.Millisecond,
			MaxInterval:     2 * time.Second,
		},
		providers.BreakerConfig{MaxFailures: uint32(cfg.BreakerMaxFailures)},
	)

	service := weather.NewService(memStore, source)

	state := weather.NewState(service,
		weather.WithDelay(cfg.FetchDelay),
		weather.WithObserver(func(res weather.Result) {
			reg.ObserveResult(res)
			entry := log.WithField("phase", res.Phase())
			if res.Err != nil {
				entry.WithError(res.Err).Warn("weather state settled")
				return
			}
			entry.WithField("location", res.Data.Location).Info("weather state settled")
		}),
	)
	defer state.Close()

	prefs, err := settings.NewStore(*data.Settings)
	if err != nil {
		log.Fatalf("invalid settings in fixtures: %v", err)
	}

	home, ok := data.Home(cfg.HomeLocation)
	if !ok {
		log.WithField("home", cfg.HomeLocation).Warn("home location not among saved locations; distances disabled")
	}
	locs := locations.NewService(data.Locations, home)
	reg.SetLocations(locs.Len())

	// Scheduler that refreshes the weather while auto-refresh is on.
	sched := scheduler.New(state, func() { reg.Refreshed("auto") })
	if err := sched.Start(prefs.Get()); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()
	prefs.OnChange(func(b settings.Bag) {
		if err := sched.Apply(b); err != nil {
			log.WithError(err).Error("failed to reschedule auto-refresh")
		}
	})

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "weather-dashboard",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		Views:                 httpapi.NewViews(),
		ErrorHandler:          httpapi.ErrorHandler,
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	// Basic health endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "weather-dashboard",
			"breaker": source.State(),
			"weather": state.Result().Phase(),
		})
	})

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg.Registry, promhttp.HandlerOpts{})))

	httpapi.RegisterRoutes(app, &httpapi.Handler{
		State:       state,
		Service:     service,
		Locations:   locs,
		Search:      search.NewService(data.Popular, data.RecentSearches),
		Forecast:    data.Forecast,
		Settings:    prefs,
		Rand:        weather.DefaultRand,
		Metrics:     reg,
		WaitTimeout: cfg.WaitTimeout,
	})

	go func() {
		log.WithField("port", cfg.Port).Info("starting weather dashboard")
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Errorf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Errorf("error during shutdown: %v", err)
	}
}
