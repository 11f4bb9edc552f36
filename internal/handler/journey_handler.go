package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/corrupted-brain/Valley-Yatra/internal/cache"
	"github.com/corrupted-brain/Valley-Yatra/internal/domain"
	"github.com/corrupted-brain/Valley-Yatra/internal/fare"
	"github.com/corrupted-brain/Valley-Yatra/internal/metrics"
	"github.com/corrupted-brain/Valley-Yatra/internal/planner"
	"github.com/corrupted-brain/Valley-Yatra/internal/store"
)

// JourneyHandler is the HTTP boundary of the planning engine. Validation
// of from/to lives here; the engine itself assumes valid distinct stops.
type JourneyHandler struct {
	network    *store.NetworkStore
	engine     *planner.Engine
	calculator *fare.Calculator
	cache      *cache.RedisCache
	collector  *metrics.Collector
	cacheTTL   time.Duration
	logger     *slog.Logger
}

func NewJourneyHandler(network *store.NetworkStore, engine *planner.Engine, calculator *fare.Calculator, redisCache *cache.RedisCache, collector *metrics.Collector, cacheTTL time.Duration, logger *slog.Logger) *JourneyHandler {
	return &JourneyHandler{
		network:    network,
		engine:     engine,
		calculator: calculator,
		cache:      redisCache,
		collector:  collector,
		cacheTTL:   cacheTTL,
		logger:     logger.With("handler", "journey"),
	}
}

// JourneyFareSummary is the per-option fare enrichment added when the
// caller asks for a specific passenger type.
type JourneyFareSummary struct {
	JourneyID     string               `json:"journey_id"`
	PassengerType domain.PassengerType `json:"passenger_type"`
	TotalFare     int                  `json:"total_fare"`
}

type JourneyPlanResponse struct {
	FromStop   domain.BusStop         `json:"from_stop"`
	ToStop     domain.BusStop         `json:"to_stop"`
	Options    []domain.JourneyOption `json:"options"`
	Count      int                    `json:"count"`
	Fares      []JourneyFareSummary   `json:"fares,omitempty"`
	ServerTime time.Time              `json:"server_time"`
}

func (h *JourneyHandler) PlanJourney(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	fromID, ok := queryInt(r, "from")
	if !ok {
		respondError(w, http.StatusBadRequest, "missing or invalid from parameter")
		return
	}
	toID, ok := queryInt(r, "to")
	if !ok {
		respondError(w, http.StatusBadRequest, "missing or invalid to parameter")
		return
	}
	if fromID == toID {
		respondError(w, http.StatusBadRequest, "from and to must be different stops")
		return
	}

	fromStop, ok := h.network.StopByID(fromID)
	if !ok {
		respondError(w, http.StatusNotFound, "from stop not found")
		return
	}
	toStop, ok := h.network.StopByID(toID)
	if !ok {
		respondError(w, http.StatusNotFound, "to stop not found")
		return
	}

	passengerType, ok := parsePassengerType(r.URL.Query().Get("passenger_type"))
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid passenger_type: must be regular, student or senior")
		return
	}

	options, cacheHit := h.planWithCache(r, fromID, toID, fromStop, toStop)

	h.collector.JourneysPlanned.Inc()
	h.collector.JourneyOptions.Observe(float64(len(options)))
	h.collector.PlanDuration.Observe(time.Since(start).Seconds())

	response := JourneyPlanResponse{
		FromStop:   fromStop,
		ToStop:     toStop,
		Options:    options,
		Count:      len(options),
		ServerTime: time.Now(),
	}

	if passengerType != "" {
		response.Fares = h.fareSummaries(options, passengerType)
	}

	h.logger.Debug("journey planned",
		"from", fromID,
		"to", toID,
		"options", len(options),
		"cache_hit", cacheHit,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	respondJSON(w, http.StatusOK, response)
}

// planWithCache reads the option list through Redis when available. Fare
// enrichment is computed per request, so the cache key depends only on
// the stop pair.
func (h *JourneyHandler) planWithCache(r *http.Request, fromID, toID int, fromStop, toStop domain.BusStop) ([]domain.JourneyOption, bool) {
	if h.cache == nil {
		return h.engine.FindJourneyOptions(fromStop, toStop), false
	}

	ctx := r.Context()
	key := cache.KeyJourney(fromID, toID)

	var options []domain.JourneyOption
	found, err := h.cache.GetJSON(ctx, key, &options)
	if err == nil && found {
		h.collector.CacheHits.Inc()
		return options, true
	}
	h.collector.CacheMisses.Inc()

	options = h.engine.FindJourneyOptions(fromStop, toStop)

	if err := h.cache.SetJSON(ctx, key, options, h.cacheTTL); err != nil {
		h.logger.Debug("failed to cache journey options", "key", key, "error", err)
	}
	return options, false
}

func (h *JourneyHandler) fareSummaries(options []domain.JourneyOption, passengerType domain.PassengerType) []JourneyFareSummary {
	summaries := make([]JourneyFareSummary, 0, len(options))
	for _, option := range options {
		segments := make([]domain.FareSegment, 0, len(option.Segments))
		for _, seg := range option.Segments {
			segments = append(segments, domain.FareSegment{
				RouteID:     seg.Route.ID,
				RouteNumber: seg.Route.RouteNumber,
				RouteName:   seg.Route.RouteName,
				DistanceKM:  seg.DistanceKM,
			})
		}
		calc := h.calculator.CalculateJourneyFare(segments)
		summaries = append(summaries, JourneyFareSummary{
			JourneyID:     option.ID,
			PassengerType: passengerType,
			TotalFare:     h.calculator.FareForPassengerType(calc, passengerType),
		})
	}
	return summaries
}

// parsePassengerType returns ("", true) when the parameter is absent.
func parsePassengerType(v string) (domain.PassengerType, bool) {
	switch v {
	case "":
		return "", true
	case string(domain.PassengerRegular):
		return domain.PassengerRegular, true
	case string(domain.PassengerStudent):
		return domain.PassengerStudent, true
	case string(domain.PassengerSenior):
		return domain.PassengerSenior, true
	default:
		return "", false
	}
}
