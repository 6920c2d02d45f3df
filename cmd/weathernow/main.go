package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	httpapi "github.com/i474232898/weathernow/internal/api/http"
	"github.com/i474232898/weathernow/internal/config"
	"github.com/i474232898/weathernow/internal/metrics"
	"github.com/i474232898/weathernow/internal/scheduler"
	"github.com/i474232898/weathernow/internal/store"
	"github.com/i474232898/weathernow/internal/weather"
	"github.com/i474232898/weathernow/internal/weather/providers"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	provider := providers.NewOpenWeatherProvider(httpClient, cfg.OpenWeatherAPIKey, cfg.OpenWeatherBaseURL)
	m := metrics.New()

	lookupOpts := []weather.Option{weather.WithObserver(m)}
	if cfg.DiscardStaleResponses {
		lookupOpts = append(lookupOpts, weather.WithStaleResponseDiscard())
	}

	// One lookup per browser session, kept in memory only.
	sessions := store.NewSessionStore(func() *weather.Lookup {
		return weather.NewLookup(provider, lookupOpts...)
	}, cfg.SessionMaxAge)

	m.TrackSessions(sessions.Len)

	// Scheduler that periodically evicts idle sessions.
	sched := scheduler.New(sessions, cfg.SessionSweepInterval)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "weathernow",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		ErrorHandler:          httpapi.ErrorHandler,
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())
	app.Use(cors.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "weathernow",
		})
	})
	app.Get("/metrics", adaptor.HTTPHandler(m.Handler()))

	// API routes.
	httpapi.RegisterRoutes(app, sessions)

	go func() {
		log.Printf("INFO: listening on :%s", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
