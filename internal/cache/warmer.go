package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/corrupted-brain/Valley-Yatra/internal/domain"
	"github.com/corrupted-brain/Valley-Yatra/internal/fare"
	"github.com/corrupted-brain/Valley-Yatra/internal/planner"
	"github.com/corrupted-brain/Valley-Yatra/internal/store"
)

// CacheWarmer pre-computes the payloads clients hit first: the full sync
// bundle, per-route stop lists and per-route fare tables. The network data is
// static for the process lifetime, so warming once at startup suffices.
type CacheWarmer struct {
	cache      *RedisCache
	network    *store.NetworkStore
	engine     *planner.Engine
	calculator *fare.Calculator
	ttl        time.Duration
	logger     *slog.Logger
}

func NewCacheWarmer(cache *RedisCache, network *store.NetworkStore, engine *planner.Engine, calculator *fare.Calculator, ttl time.Duration, logger *slog.Logger) *CacheWarmer {
	return &CacheWarmer{
		cache:      cache,
		network:    network,
		engine:     engine,
		calculator: calculator,
		ttl:        ttl,
		logger:     logger.With("component", "cache_warmer"),
	}
}

func (w *CacheWarmer) WarmAll(ctx context.Context) error {
	start := time.Now()
	w.logger.Info("starting cache warming")

	if err := w.warmSyncData(ctx); err != nil {
		w.logger.Error("failed to warm sync data", "error", err)
	}

	if err := w.warmRoutes(ctx); err != nil {
		w.logger.Error("failed to warm route data", "error", err)
	}

	if err := w.cache.SetJSON(ctx, KeyDiscounts, w.calculator.DiscountInfo(), w.ttl); err != nil {
		w.logger.Error("failed to warm discount info", "error", err)
	}

	w.logger.Info("cache warming completed", "duration_ms", time.Since(start).Milliseconds())
	return nil
}

type SyncData struct {
	Routes         []domain.BusRoute      `json:"routes"`
	Stops          []domain.BusStop       `json:"stops"`
	TransferPoints []domain.TransferPoint `json:"transfer_points"`
	Version        string                 `json:"version"`
	GeneratedAt    time.Time              `json:"generated_at"`
}

func (w *CacheWarmer) warmSyncData(ctx context.Context) error {
	start := time.Now()

	stats := w.network.Stats()
	syncData := &SyncData{
		Routes:         w.network.BusRoutes(),
		Stops:          w.network.BusStops(),
		TransferPoints: w.network.TransferPoints(),
		Version:        stats.LoadedAt.Format("2006-01-02"),
		GeneratedAt:    time.Now(),
	}

	if err := w.cache.SetJSONCompressed(ctx, KeySyncFull, syncData, w.ttl); err != nil {
		return err
	}

	w.logger.Info("warmed sync data",
		"routes", len(syncData.Routes),
		"stops", len(syncData.Stops),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

func (w *CacheWarmer) warmRoutes(ctx context.Context) error {
	start := time.Now()
	routes := w.network.BusRoutes()
	warmed := 0

	for _, route := range routes {
		stops := w.engine.GetRouteStops(route.ID)
		if len(stops) > 0 {
			if err := w.cache.SetJSON(ctx, KeyRouteStops(route.ID), stops, w.ttl); err != nil {
				w.logger.Debug("failed to cache route stops", "route_id", route.ID, "error", err)
				continue
			}
		}

		fares := w.calculator.RouteFareStructure(route.ID)
		if len(fares) > 0 {
			if err := w.cache.SetJSON(ctx, KeyRouteFares(route.ID), fares, w.ttl); err != nil {
				w.logger.Debug("failed to cache route fares", "route_id", route.ID, "error", err)
				continue
			}
		}

		warmed++
	}

	w.logger.Info("warmed route data",
		"routes_warmed", warmed,
		"total_routes", len(routes),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}
