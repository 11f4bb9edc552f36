package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/corrupted-brain/Valley-Yatra/internal/cache"
	"github.com/corrupted-brain/Valley-Yatra/internal/config"
	"github.com/corrupted-brain/Valley-Yatra/internal/fare"
	"github.com/corrupted-brain/Valley-Yatra/internal/handler"
	"github.com/corrupted-brain/Valley-Yatra/internal/hub"
	"github.com/corrupted-brain/Valley-Yatra/internal/metrics"
	"github.com/corrupted-brain/Valley-Yatra/internal/middleware"
	"github.com/corrupted-brain/Valley-Yatra/internal/planner"
	"github.com/corrupted-brain/Valley-Yatra/internal/realtime"
	"github.com/corrupted-brain/Valley-Yatra/internal/simulator"
	"github.com/corrupted-brain/Valley-Yatra/internal/store"
	"github.com/corrupted-brain/Valley-Yatra/pkg/dataset"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("starting valleyyatra server",
		"log_level", cfg.LogLevel.String(),
		"http_addr", cfg.HTTPAddr,
		"simulator_enabled", cfg.SimulatorEnabled,
		"redis_enabled", cfg.RedisEnabled,
	)

	tables, err := dataset.NewLoader(cfg.DatasetDir, logger).Load()
	if err != nil {
		logger.Error("failed to load transit dataset", "error", err)
		os.Exit(1)
	}

	network := store.NewNetworkStore(tables)
	engine := planner.NewEngine(network)
	calculator := fare.NewCalculator(tables.FareStructures)
	tracking := realtime.NewStore(tables.TrackingSeed, tables.Alerts, cfg.SimulatorSeed)
	arrivals := realtime.NewArrivalBoard(tracking, network)
	collector := metrics.NewCollector()
	wsHub := hub.NewHub(logger)

	var redisCache *cache.RedisCache
	if cfg.RedisEnabled {
		redisCache, err = cache.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, logger)
		if err != nil {
			logger.Warn("redis unavailable, continuing without cache", "error", err)
			redisCache = nil
		} else {
			defer redisCache.Close()
		}
	}

	var sim *simulator.Simulator
	if cfg.SimulatorEnabled {
		sim = simulator.New(tracking, wsHub, cfg.SimulatorInterval, collector, logger)
	}

	transitHandler := handler.NewTransitHandler(network, engine, calculator, redisCache, collector, cfg.NearbyRadiusKM, logger)
	journeyHandler := handler.NewJourneyHandler(network, engine, calculator, redisCache, collector, cfg.CacheTTL, logger)
	fareHandler := handler.NewFareHandler(calculator, redisCache, collector, logger)
	realtimeHandler := handler.NewRealtimeHandler(tracking, arrivals, network, logger)
	wsHandler := handler.NewWSHandler(wsHub, tracking, collector, logger)

	var prober handler.ReadinessProber
	if sim != nil {
		prober = sim
	}
	healthHandler := handler.NewHealthHandler(prober, network)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /v1/stops", transitHandler.ListStops)
	mux.HandleFunc("GET /v1/stops/search", transitHandler.SearchStops)
	mux.HandleFunc("GET /v1/stops/nearby", transitHandler.NearbyStops)
	mux.HandleFunc("GET /v1/stops/{id}", transitHandler.GetStop)
	mux.HandleFunc("GET /v1/stops/{id}/routes", transitHandler.GetStopRoutes)
	mux.HandleFunc("GET /v1/stops/{id}/arrivals", realtimeHandler.GetStopArrivals)

	mux.HandleFunc("GET /v1/routes", transitHandler.ListRoutes)
	mux.HandleFunc("GET /v1/routes/search", transitHandler.SearchRoutes)
	mux.HandleFunc("GET /v1/routes/{id}", transitHandler.GetRoute)
	mux.HandleFunc("GET /v1/routes/{id}/stops", transitHandler.GetRouteStops)
	mux.HandleFunc("GET /v1/routes/{id}/fares", transitHandler.GetRouteFares)
	mux.HandleFunc("GET /v1/routes/{id}/tracking", realtimeHandler.GetRouteTracking)

	mux.HandleFunc("GET /v1/journeys", journeyHandler.PlanJourney)

	mux.HandleFunc("POST /v1/fares/journey", fareHandler.CalculateJourneyFare)
	mux.HandleFunc("POST /v1/fares/compare", fareHandler.CompareFares)
	mux.HandleFunc("GET /v1/fares/discounts", fareHandler.GetDiscounts)

	mux.HandleFunc("GET /v1/alerts", realtimeHandler.GetAlerts)
	mux.HandleFunc("GET /v1/buses/{number}/occupancy", realtimeHandler.GetBusOccupancy)
	mux.HandleFunc("GET /v1/status", realtimeHandler.GetStatus)
	mux.HandleFunc("GET /v1/sync", transitHandler.GetSync)

	mux.HandleFunc("/v1/ws", wsHandler.ServeWS)

	mux.HandleFunc("GET /healthz", healthHandler.Healthz)
	mux.HandleFunc("GET /readyz", healthHandler.Readyz)
	mux.Handle("GET /metrics", collector.Handler())

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitPerWindow, cfg.RateLimitWindow, cfg.RateLimitWhitelist, logger)

	var root http.Handler = mux
	root = handler.MetricsMiddleware(collector, root)
	root = rateLimiter.Middleware(root)
	root = handler.GzipMiddleware(root)
	root = handler.CORSMiddleware(root)

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      root,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go wsHub.Run(ctx)

	if sim != nil {
		go sim.Run(ctx)
	}

	if redisCache != nil && cfg.CacheWarmOnStart {
		warmer := cache.NewCacheWarmer(redisCache, network, engine, calculator, cfg.CacheTTL, logger)
		go func() {
			if err := warmer.WarmAll(ctx); err != nil {
				logger.Error("cache warming failed", "error", err)
			}
		}()
	}

	go func() {
		logger.Info("starting HTTP server", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server error", "error", err)
			cancel()
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutdown signal received")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}
