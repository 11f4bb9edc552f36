package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/corrupted-brain/Valley-Yatra/internal/cache"
	"github.com/corrupted-brain/Valley-Yatra/internal/domain"
	"github.com/corrupted-brain/Valley-Yatra/internal/fare"
	"github.com/corrupted-brain/Valley-Yatra/internal/metrics"
)

type FareHandler struct {
	calculator *fare.Calculator
	cache      *cache.RedisCache
	collector  *metrics.Collector
	logger     *slog.Logger
}

func NewFareHandler(calculator *fare.Calculator, redisCache *cache.RedisCache, collector *metrics.Collector, logger *slog.Logger) *FareHandler {
	return &FareHandler{
		calculator: calculator,
		cache:      redisCache,
		collector:  collector,
		logger:     logger.With("handler", "fare"),
	}
}

type JourneyFareRequest struct {
	Segments      []domain.FareSegment `json:"segments"`
	PassengerType string               `json:"passenger_type,omitempty"`
}

type JourneyFareResponse struct {
	Calculation   domain.JourneyFareCalculation `json:"calculation"`
	PassengerType domain.PassengerType          `json:"passenger_type,omitempty"`
	SelectedFare  *int                          `json:"selected_fare,omitempty"`
	ServerTime    time.Time                     `json:"server_time"`
}

func (h *FareHandler) CalculateJourneyFare(w http.ResponseWriter, r *http.Request) {
	var req JourneyFareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if len(req.Segments) == 0 {
		respondError(w, http.StatusBadRequest, "segments must not be empty")
		return
	}
	for _, seg := range req.Segments {
		if seg.DistanceKM < 0 {
			respondError(w, http.StatusBadRequest, "segment distance_km must not be negative")
			return
		}
	}

	passengerType, ok := parsePassengerType(req.PassengerType)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid passenger_type: must be regular, student or senior")
		return
	}

	calc := h.calculator.CalculateJourneyFare(req.Segments)
	h.collector.FareCalculations.Inc()

	response := JourneyFareResponse{
		Calculation: calc,
		ServerTime:  time.Now(),
	}
	if passengerType != "" {
		selected := h.calculator.FareForPassengerType(calc, passengerType)
		response.PassengerType = passengerType
		response.SelectedFare = &selected
	}

	respondJSON(w, http.StatusOK, response)
}

type CompareFaresRequest struct {
	Options []CompareFaresOption `json:"options"`
}

type CompareFaresOption struct {
	JourneyID string               `json:"journey_id"`
	Segments  []domain.FareSegment `json:"segments"`
}

type CompareFaresResponse struct {
	Comparisons []domain.FareComparison `json:"comparisons"`
	ServerTime  time.Time               `json:"server_time"`
}

func (h *FareHandler) CompareFares(w http.ResponseWriter, r *http.Request) {
	var req CompareFaresRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if len(req.Options) == 0 {
		respondError(w, http.StatusBadRequest, "options must not be empty")
		return
	}

	inputs := make([]fare.ComparisonInput, 0, len(req.Options))
	for _, option := range req.Options {
		if option.JourneyID == "" {
			respondError(w, http.StatusBadRequest, "each option needs a journey_id")
			return
		}
		inputs = append(inputs, fare.ComparisonInput{
			JourneyID: option.JourneyID,
			Segments:  option.Segments,
		})
	}

	comparisons := h.calculator.CompareFares(inputs)
	h.collector.FareCalculations.Inc()

	respondJSON(w, http.StatusOK, CompareFaresResponse{
		Comparisons: comparisons,
		ServerTime:  time.Now(),
	})
}

type DiscountsResponse struct {
	Discounts  []domain.DiscountInfo `json:"discounts"`
	ServerTime time.Time             `json:"server_time"`
}

func (h *FareHandler) GetDiscounts(w http.ResponseWriter, r *http.Request) {
	var discounts []domain.DiscountInfo

	if h.cache != nil {
		found, err := h.cache.GetJSON(r.Context(), cache.KeyDiscounts, &discounts)
		if err == nil && found {
			h.collector.CacheHits.Inc()
			respondJSON(w, http.StatusOK, DiscountsResponse{
				Discounts:  discounts,
				ServerTime: time.Now(),
			})
			return
		}
		h.collector.CacheMisses.Inc()
	}

	respondJSON(w, http.StatusOK, DiscountsResponse{
		Discounts:  h.calculator.DiscountInfo(),
		ServerTime: time.Now(),
	})
}
