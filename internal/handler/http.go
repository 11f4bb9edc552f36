package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/corrupted-brain/Valley-Yatra/internal/domain"
	"github.com/corrupted-brain/Valley-Yatra/internal/store"
)

type errorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorResponse{Error: message})
}

// pathInt parses a numeric path segment such as a stop or route id.
func pathInt(r *http.Request, name string) (int, bool) {
	v := r.PathValue(name)
	if v == "" {
		return 0, false
	}
	id, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return id, true
}

func queryInt(r *http.Request, name string) (int, bool) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return 0, false
	}
	id, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return id, true
}

func queryFloat(r *http.Request, name string) (float64, bool) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// resolveRoute accepts the {id} segment as either a numeric route id or
// a route number like "KTM-01".
func resolveRoute(network *store.NetworkStore, r *http.Request) (domain.BusRoute, bool) {
	if id, ok := pathInt(r, "id"); ok {
		return network.RouteByID(id)
	}
	return network.RouteByNumber(r.PathValue("id"))
}
