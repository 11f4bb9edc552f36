package handler

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/corrupted-brain/Valley-Yatra/internal/domain"
	"github.com/corrupted-brain/Valley-Yatra/internal/realtime"
	"github.com/corrupted-brain/Valley-Yatra/internal/store"
)

// RealtimeHandler serves the simulated live layer: arrivals, tracking,
// occupancy, alerts and overall system status.
type RealtimeHandler struct {
	tracking *realtime.Store
	arrivals *realtime.ArrivalBoard
	network  *store.NetworkStore
	logger   *slog.Logger
}

func NewRealtimeHandler(tracking *realtime.Store, arrivals *realtime.ArrivalBoard, network *store.NetworkStore, logger *slog.Logger) *RealtimeHandler {
	return &RealtimeHandler{
		tracking: tracking,
		arrivals: arrivals,
		network:  network,
		logger:   logger.With("handler", "realtime"),
	}
}

type ArrivalsResponse struct {
	Stop       domain.BusStop       `json:"stop"`
	Arrivals   []domain.LiveArrival `json:"arrivals"`
	Count      int                  `json:"count"`
	ServerTime time.Time            `json:"server_time"`
}

func (h *RealtimeHandler) GetStopArrivals(w http.ResponseWriter, r *http.Request) {
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

	arrivals := h.arrivals.LiveArrivals(id)

	respondJSON(w, http.StatusOK, ArrivalsResponse{
		Stop:       stop,
		Arrivals:   arrivals,
		Count:      len(arrivals),
		ServerTime: time.Now(),
	})
}

type TrackingResponse struct {
	Route      domain.BusRoute      `json:"route"`
	Buses      []domain.BusTracking `json:"buses"`
	Count      int                  `json:"count"`
	ServerTime time.Time            `json:"server_time"`
}

func (h *RealtimeHandler) GetRouteTracking(w http.ResponseWriter, r *http.Request) {
	route, ok := resolveRoute(h.network, r)
	if !ok {
		respondError(w, http.StatusNotFound, "route not found")
		return
	}

	buses := h.tracking.ForRoute(route.RouteNumber)

	respondJSON(w, http.StatusOK, TrackingResponse{
		Route:      route,
		Buses:      buses,
		Count:      len(buses),
		ServerTime: time.Now(),
	})
}

type AlertsResponse struct {
	Alerts     []domain.ServiceAlert `json:"alerts"`
	Count      int                   `json:"count"`
	ServerTime time.Time             `json:"server_time"`
}

// GetAlerts lists active alerts, optionally filtered by a comma
// separated routes parameter of route numbers.
func (h *RealtimeHandler) GetAlerts(w http.ResponseWriter, r *http.Request) {
	var routeNumbers []string
	if routesParam := strings.TrimSpace(r.URL.Query().Get("routes")); routesParam != "" {
		for _, part := range strings.Split(routesParam, ",") {
			if p := strings.TrimSpace(part); p != "" {
				routeNumbers = append(routeNumbers, p)
			}
		}
	}

	alerts := h.tracking.ActiveAlerts(routeNumbers)

	respondJSON(w, http.StatusOK, AlertsResponse{
		Alerts:     alerts,
		Count:      len(alerts),
		ServerTime: time.Now(),
	})
}

type OccupancyResponse struct {
	BusNumber           string                `json:"bus_number"`
	RouteNumber         string                `json:"route_number"`
	OccupancyLevel      domain.OccupancyLevel `json:"occupancy_level"`
	OccupancyPercentage int                   `json:"occupancy_percentage"`
	Capacity            int                   `json:"capacity,omitempty"`
	EstimatedPassengers int                   `json:"estimated_passengers,omitempty"`
	LastUpdated         time.Time             `json:"last_updated"`
}

func (h *RealtimeHandler) GetBusOccupancy(w http.ResponseWriter, r *http.Request) {
	number := r.PathValue("number")
	if number == "" {
		respondError(w, http.StatusBadRequest, "missing bus number")
		return
	}

	tracked, ok := h.tracking.ByBusNumber(number)
	if !ok {
		respondError(w, http.StatusNotFound, "bus not tracked")
		return
	}

	response := OccupancyResponse{
		BusNumber:           tracked.BusNumber,
		RouteNumber:         tracked.RouteNumber,
		OccupancyLevel:      tracked.OccupancyLevel,
		OccupancyPercentage: tracked.OccupancyLevel.Percentage(),
		LastUpdated:         tracked.LastUpdated,
	}
	if bus, ok := h.network.BusByNumber(number); ok {
		response.Capacity = bus.Capacity
		response.EstimatedPassengers = bus.Capacity * tracked.OccupancyLevel.Percentage() / 100
	}

	respondJSON(w, http.StatusOK, response)
}

func (h *RealtimeHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.tracking.SystemStatus())
}
