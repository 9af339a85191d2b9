package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/asiergaray/detour/internal/adapters/directions"
	"github.com/asiergaray/detour/internal/adapters/geocode"
	"github.com/asiergaray/detour/internal/adapters/http"
	natsadapter "github.com/asiergaray/detour/internal/adapters/nats"
	"github.com/asiergaray/detour/internal/adapters/postgres"
	"github.com/asiergaray/detour/internal/adapters/valkey"
	"github.com/asiergaray/detour/internal/core/ports"
	"github.com/asiergaray/detour/internal/core/usecases"
	"github.com/asiergaray/detour/internal/pkg/config"
	"github.com/asiergaray/detour/internal/pkg/logging"
	"github.com/asiergaray/detour/internal/pkg/metrics"
	"github.com/asiergaray/detour/internal/pkg/telemetry"
)

func main() {
	cfg, err := config.Load("detour-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// Structured logging
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logging.Setup(logLevel, "json")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.TempoAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	// Database
	db, err := postgres.New(ctx, cfg.Database.DSN(), int(cfg.Database.MaxConns))
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Cache
	cache, err := valkey.New(cfg.Valkey.Addr, "detour")
	if err != nil {
		slog.Warn("valkey unavailable", "error", err)
		cache = nil
	} else {
		defer cache.Close()
	}

	// NATS publisher for domain events
	var events ports.EventPublisher
	pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats unavailable", "error", err)
	} else {
		events = pub
		defer pub.Close()
	}

	// Raw NATS connection for WebSocket relay
	natsConn, err := natsadapter.RawConn(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats ws conn unavailable", "error", err)
	}

	// Repos
	attractionRepo := postgres.NewAttractionRepo(db)
	routeCacheRepo := postgres.NewRouteCacheRepo(db)

	// Geocoding chain: literal coordinates, then Google (when keyed), then
	// Nominatim. NewGoogle returns nil without a key, so append conditionally
	// to keep typed nils out of the chain.
	resolvers := []ports.Geocoder{geocode.NewLiteral()}
	if g := geocode.NewGoogle(cfg.Geocoder.GoogleAPIKey); g != nil {
		resolvers = append(resolvers, g)
	}
	if cfg.Geocoder.NominatimEnabled {
		resolvers = append(resolvers, geocode.NewNominatim())
	}
	geocoder := geocode.NewChain(resolvers...)

	// External route optimizer
	optimizer := directions.NewGoogleClient(cfg.Optimizer.GoogleAPIKey, cfg.Optimizer.MaxWaypoints)

	// Use cases. The valkey cache interface value must stay nil when the
	// client is nil, so wrap conditionally.
	var cacheSvc ports.CacheService
	if cache != nil {
		cacheSvc = cache
	}
	corridorSvc := usecases.NewCorridorService(attractionRepo, geocoder, cacheSvc, cfg.Valkey.CorridorTTL)
	sequenceSvc := usecases.NewSequenceService(attractionRepo, routeCacheRepo, optimizer, events)
	attractionSvc := usecases.NewAttractionService(attractionRepo, cacheSvc)

	deps := &http.Dependencies{
		Corridor:    corridorSvc,
		Sequences:   sequenceSvc,
		Attractions: attractionSvc,
		Defaults: http.CorridorDefaults{
			RadiusKm: cfg.Corridor.DefaultRadiusKm,
			Limit:    cfg.Corridor.DefaultLimit,
		},
		NATS:  natsConn,
		DB:    db,
		Cache: cache,
	}

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    1024 * 1024, // 1 MB max request body
		AppName:      "Detour API",
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:3000, http://localhost:5173",
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: false,
		MaxAge:           3600,
	}))

	http.SetupRoutes(app, deps)

	// Keep DB pool gauges fresh
	go func() {
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				metrics.UpdateDBPoolMetrics(db.Pool.Stat())
			case <-ctx.Done():
				return
			}
		}
	}()

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())

	// Give in-flight requests up to 10s to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}
