package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/corrupted-brain/Valley-Yatra/internal/cache"
	"github.com/corrupted-brain/Valley-Yatra/internal/domain"
	"github.com/corrupted-brain/Valley-Yatra/internal/fare"
	"github.com/corrupted-brain/Valley-Yatra/internal/metrics"
	"github.com/corrupted-brain/Valley-Yatra/internal/planner"
	"github.com/corrupted-brain/Valley-Yatra/internal/store"
)

// TransitHandler serves the static network surface: stops, routes and the
// offline sync bundle. All reads come from the immutable NetworkStore;
// Redis only short-circuits the derived views (route stops, fare tables).
type TransitHandler struct {
	network         *store.NetworkStore
	engine          *planner.Engine
	calculator      *fare.Calculator
	cache           *cache.RedisCache
	collector       *metrics.Collector
	defaultRadiusKM float64
	logger          *slog.Logger
}

func NewTransitHandler(network *store.NetworkStore, engine *planner.Engine, calculator *fare.Calculator, redisCache *cache.RedisCache, collector *metrics.Collector, defaultRadiusKM float64, logger *slog.Logger) *TransitHandler {
	return &TransitHandler{
		network:         network,
		engine:          engine,
		calculator:      calculator,
		cache:           redisCache,
		collector:       collector,
		defaultRadiusKM: defaultRadiusKM,
		logger:          logger.With("handler", "transit"),
	}
}

type StopsResponse struct {
	Stops      []domain.BusStop `json:"stops"`
	Count      int              `json:"count"`
	ServerTime time.Time        `json:"server_time"`
}

func (h *TransitHandler) ListStops(w http.ResponseWriter, r *http.Request) {
	stops := h.network.BusStops()
	respondJSON(w, http.StatusOK, StopsResponse{
		Stops:      stops,
		Count:      len(stops),
		ServerTime: time.Now(),
	})
}

func (h *TransitHandler) SearchStops(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		respondError(w, http.StatusBadRequest, "missing q parameter")
		return
	}

	stops := h.network.SearchStops(query)

	h.logger.Debug("stop search", "query", query, "count", len(stops))

	respondJSON(w, http.StatusOK, StopsResponse{
		Stops:      stops,
		Count:      len(stops),
		ServerTime: time.Now(),
	})
}

func (h *TransitHandler) NearbyStops(w http.ResponseWriter, r *http.Request) {
	lat, ok := queryFloat(r, "lat")
	if !ok {
		respondError(w, http.StatusBadRequest, "missing or invalid lat parameter")
		return
	}
	lon, ok := queryFloat(r, "lon")
	if !ok {
		respondError(w, http.StatusBadRequest, "missing or invalid lon parameter")
		return
	}
	radius, ok := queryFloat(r, "radius_km")
	if !ok || radius <= 0 {
		radius = h.defaultRadiusKM
	}

	stops := h.engine.FindNearbyStops(lat, lon, radius)

	respondJSON(w, http.StatusOK, StopsResponse{
		Stops:      stops,
		Count:      len(stops),
		ServerTime: time.Now(),
	})
}

func (h *TransitHandler) GetStop(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid stop id")
		return
	}

	stop, ok := h.network.StopByID(id)
	if !ok {
		respondError(w, http.StatusNotFound, "stop not found")
		return
	}

	respondJSON(w, http.StatusOK, stop)
}

type RoutesResponse struct {
	Routes     []domain.BusRoute `json:"routes"`
	Count      int               `json:"count"`
	ServerTime time.Time         `json:"server_time"`
}

func (h *TransitHandler) GetStopRoutes(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid stop id")
		return
	}

	if _, ok := h.network.StopByID(id); !ok {
		respondError(w, http.StatusNotFound, "stop not found")
		return
	}

	routes := h.network.RoutesForStop(id)

	respondJSON(w, http.StatusOK, RoutesResponse{
		Routes:     routes,
		Count:      len(routes),
		ServerTime: time.Now(),
	})
}

func (h *TransitHandler) ListRoutes(w http.ResponseWriter, r *http.Request) {
	routes := h.network.BusRoutes()
	respondJSON(w, http.StatusOK, RoutesResponse{
		Routes:     routes,
		Count:      len(routes),
		ServerTime: time.Now(),
	})
}

func (h *TransitHandler) SearchRoutes(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		respondError(w, http.StatusBadRequest, "missing q parameter")
		return
	}

	routes := h.network.SearchRoutes(query)

	h.logger.Debug("route search", "query", query, "count", len(routes))

	respondJSON(w, http.StatusOK, RoutesResponse{
		Routes:     routes,
		Count:      len(routes),
		ServerTime: time.Now(),
	})
}

func (h *TransitHandler) GetRoute(w http.ResponseWriter, r *http.Request) {
	route, ok := resolveRoute(h.network, r)
	if !ok {
		respondError(w, http.StatusNotFound, "route not found")
		return
	}
	respondJSON(w, http.StatusOK, route)
}

type RouteStopsResponse struct {
	Route      domain.BusRoute      `json:"route"`
	Stops      []domain.StopOnRoute `json:"stops"`
	Count      int                  `json:"count"`
	ServerTime time.Time            `json:"server_time"`
}

func (h *TransitHandler) GetRouteStops(w http.ResponseWriter, r *http.Request) {
	route, ok := resolveRoute(h.network, r)
	if !ok {
		respondError(w, http.StatusNotFound, "route not found")
		return
	}

	var stops []domain.StopOnRoute
	if !h.tryGetFromCache(r.Context(), cache.KeyRouteStops(route.ID), &stops) {
		stops = h.engine.GetRouteStops(route.ID)
	}

	respondJSON(w, http.StatusOK, RouteStopsResponse{
		Route:      route,
		Stops:      stops,
		Count:      len(stops),
		ServerTime: time.Now(),
	})
}

type RouteFaresResponse struct {
	Route      domain.BusRoute        `json:"route"`
	Fares      []domain.FareStructure `json:"fares"`
	ServerTime time.Time              `json:"server_time"`
}

func (h *TransitHandler) GetRouteFares(w http.ResponseWriter, r *http.Request) {
	route, ok := resolveRoute(h.network, r)
	if !ok {
		respondError(w, http.StatusNotFound, "route not found")
		return
	}

	var fares []domain.FareStructure
	if !h.tryGetFromCache(r.Context(), cache.KeyRouteFares(route.ID), &fares) {
		fares = h.calculator.RouteFareStructure(route.ID)
	}

	respondJSON(w, http.StatusOK, RouteFaresResponse{
		Route:      route,
		Fares:      fares,
		ServerTime: time.Now(),
	})
}

// GetSync serves the full static network as one payload so clients can
// plan offline. The dataset never changes at runtime, so the bundle is
// aggressively cacheable.
func (h *TransitHandler) GetSync(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "public, max-age=3600")

	if h.cache != nil {
		var syncData cache.SyncData
		found, err := h.cache.GetJSONCompressed(r.Context(), cache.KeySyncFull, &syncData)
		if err == nil && found {
			h.collector.CacheHits.Inc()
			respondJSON(w, http.StatusOK, syncData)
			return
		}
		h.collector.CacheMisses.Inc()
	}

	respondJSON(w, http.StatusOK, cache.SyncData{
		Routes:         h.network.BusRoutes(),
		Stops:          h.network.BusStops(),
		TransferPoints: h.network.TransferPoints(),
		Version:        h.network.Stats().LoadedAt.Format("2006-01-02"),
		GeneratedAt:    time.Now(),
	})
}

func (h *TransitHandler) tryGetFromCache(ctx context.Context, key string, dest interface{}) bool {
	if h.cache == nil {
		return false
	}
	found, err := h.cache.GetJSON(ctx, key, dest)
	if err == nil && found {
		h.collector.CacheHits.Inc()
		return true
	}
	h.collector.CacheMisses.Inc()
	return false
}
