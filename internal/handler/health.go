package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/corrupted-brain/Valley-Yatra/internal/store"
)

// ReadinessProber reports whether a background component has produced
// its first useful state.
type ReadinessProber interface {
	IsReady() bool
}

type HealthHandler struct {
	simulator ReadinessProber
	network   *store.NetworkStore
}

// NewHealthHandler builds the health endpoints. simulator may be nil
// when the live layer is disabled; readiness then depends only on the
// network dataset, which is loaded before the server starts.
func NewHealthHandler(simulator ReadinessProber, network *store.NetworkStore) *HealthHandler {
	return &HealthHandler{
		simulator: simulator,
		network:   network,
	}
}

func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

type ReadyResponse struct {
	Ready      bool      `json:"ready"`
	Routes     int       `json:"routes"`
	Stops      int       `json:"stops"`
	ServerTime time.Time `json:"server_time"`
}

func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	ready := h.simulator == nil || h.simulator.IsReady()
	status := http.StatusOK
	if !ready {
		status = http.StatusServiceUnavailable
	}

	stats := h.network.Stats()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ReadyResponse{
		Ready:      ready,
		Routes:     stats.RoutesCount,
		Stops:      stats.StopsCount,
		ServerTime: time.Now(),
	})
}
