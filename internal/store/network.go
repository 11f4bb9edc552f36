package store

import (
	"sort"
	"strings"
	"time"

	"github.com/corrupted-brain/Valley-Yatra/internal/domain"
	"github.com/corrupted-brain/Valley-Yatra/internal/geo"
	"github.com/corrupted-brain/Valley-Yatra/pkg/dataset"
)

// NetworkStore holds the static transit network tables in memory. It is built
// once at startup and never mutated afterwards, so reads need no locking;
// returned slices and structs are copies so callers cannot reach the backing
// data.
type NetworkStore struct {
	routes         []domain.BusRoute
	stops          []domain.BusStop
	routeStops     []domain.RouteStop
	transferPoints []domain.TransferPoint
	fareStructures []domain.FareStructure
	fleet          []domain.Bus

	routesByID      map[int]*domain.BusRoute
	routesByNumber  map[string]*domain.BusRoute
	stopsByID       map[int]*domain.BusStop
	stopsByRoute    map[int][]domain.RouteStop   // sorted by sequence
	routeStopByPair map[[2]int]*domain.RouteStop // (route_id, stop_id)
	routesByStop    map[int][]int                // stop_id -> route ids
	transferByStop  map[int]*domain.TransferPoint

	loadedAt time.Time
}

// NewNetworkStore indexes a loaded dataset
func NewNetworkStore(t *dataset.Tables) *NetworkStore {
	s := &NetworkStore{
		routes:          t.Routes,
		stops:           t.Stops,
		routeStops:      t.RouteStops,
		transferPoints:  t.TransferPoints,
		fareStructures:  t.FareStructures,
		fleet:           t.Fleet,
		routesByID:      make(map[int]*domain.BusRoute, len(t.Routes)),
		routesByNumber:  make(map[string]*domain.BusRoute, len(t.Routes)),
		stopsByID:       make(map[int]*domain.BusStop, len(t.Stops)),
		stopsByRoute:    make(map[int][]domain.RouteStop),
		routeStopByPair: make(map[[2]int]*domain.RouteStop, len(t.RouteStops)),
		routesByStop:    make(map[int][]int),
		transferByStop:  make(map[int]*domain.TransferPoint, len(t.TransferPoints)),
		loadedAt:        time.Now(),
	}

	for i := range s.routes {
		r := &s.routes[i]
		s.routesByID[r.ID] = r
		s.routesByNumber[r.RouteNumber] = r
	}
	for i := range s.stops {
		s.stopsByID[s.stops[i].ID] = &s.stops[i]
	}
	for i := range s.routeStops {
		rs := &s.routeStops[i]
		s.routeStopByPair[[2]int{rs.RouteID, rs.StopID}] = rs
		s.stopsByRoute[rs.RouteID] = append(s.stopsByRoute[rs.RouteID], *rs)
		s.routesByStop[rs.StopID] = append(s.routesByStop[rs.StopID], rs.RouteID)
	}
	for routeID := range s.stopsByRoute {
		stops := s.stopsByRoute[routeID]
		sort.Slice(stops, func(i, j int) bool {
			return stops[i].StopSequence < stops[j].StopSequence
		})
	}
	for i := range s.transferPoints {
		s.transferByStop[s.transferPoints[i].StopID] = &s.transferPoints[i]
	}

	return s
}

// BusRoutes returns every route
func (s *NetworkStore) BusRoutes() []domain.BusRoute {
	result := make([]domain.BusRoute, len(s.routes))
	copy(result, s.routes)
	return result
}

// BusStops returns every stop
func (s *NetworkStore) BusStops() []domain.BusStop {
	result := make([]domain.BusStop, len(s.stops))
	copy(result, s.stops)
	return result
}

// RouteStops returns the full route-stop join table
func (s *NetworkStore) RouteStops() []domain.RouteStop {
	result := make([]domain.RouteStop, len(s.routeStops))
	copy(result, s.routeStops)
	return result
}

// TransferPoints returns every transfer point in declaration order
func (s *NetworkStore) TransferPoints() []domain.TransferPoint {
	result := make([]domain.TransferPoint, len(s.transferPoints))
	copy(result, s.transferPoints)
	return result
}

// FareStructures returns every fare band in declaration order
func (s *NetworkStore) FareStructures() []domain.FareStructure {
	result := make([]domain.FareStructure, len(s.fareStructures))
	copy(result, s.fareStructures)
	return result
}

func (s *NetworkStore) RouteByID(id int) (domain.BusRoute, bool) {
	r, ok := s.routesByID[id]
	if !ok {
		return domain.BusRoute{}, false
	}
	return *r, true
}

func (s *NetworkStore) RouteByNumber(number string) (domain.BusRoute, bool) {
	r, ok := s.routesByNumber[number]
	if !ok {
		return domain.BusRoute{}, false
	}
	return *r, true
}

func (s *NetworkStore) StopByID(id int) (domain.BusStop, bool) {
	st, ok := s.stopsByID[id]
	if !ok {
		return domain.BusStop{}, false
	}
	return *st, true
}

// RouteStop looks up one stop's position on one route
func (s *NetworkStore) RouteStop(routeID, stopID int) (domain.RouteStop, bool) {
	rs, ok := s.routeStopByPair[[2]int{routeID, stopID}]
	if !ok {
		return domain.RouteStop{}, false
	}
	return *rs, true
}

// RouteStopsForRoute returns a route's stops sorted by sequence ascending
func (s *NetworkStore) RouteStopsForRoute(routeID int) []domain.RouteStop {
	stops, ok := s.stopsByRoute[routeID]
	if !ok {
		return nil
	}
	result := make([]domain.RouteStop, len(stops))
	copy(result, stops)
	return result
}

// RoutesForStop returns every route serving a stop
func (s *NetworkStore) RoutesForStop(stopID int) []domain.BusRoute {
	ids, ok := s.routesByStop[stopID]
	if !ok {
		return nil
	}
	result := make([]domain.BusRoute, 0, len(ids))
	for _, id := range ids {
		if r, ok := s.routesByID[id]; ok {
			result = append(result, *r)
		}
	}
	return result
}

// TransferPointForStop reports whether a stop is a transfer point
func (s *NetworkStore) TransferPointForStop(stopID int) (domain.TransferPoint, bool) {
	tp, ok := s.transferByStop[stopID]
	if !ok {
		return domain.TransferPoint{}, false
	}
	return *tp, true
}

// SearchStops matches a query against stop names, addresses and landmarks,
// case-insensitively.
func (s *NetworkStore) SearchStops(query string) []domain.BusStop {
	term := strings.ToLower(strings.TrimSpace(query))
	if term == "" {
		return nil
	}
	var result []domain.BusStop
	for _, stop := range s.stops {
		if strings.Contains(strings.ToLower(stop.StopName), term) ||
			strings.Contains(strings.ToLower(stop.Address), term) ||
			strings.Contains(strings.ToLower(stop.Landmarks), term) {
			result = append(result, stop)
		}
	}
	return result
}

// SearchRoutes matches a query against route numbers, names and terminals
func (s *NetworkStore) SearchRoutes(query string) []domain.BusRoute {
	term := strings.ToLower(strings.TrimSpace(query))
	if term == "" {
		return nil
	}
	var result []domain.BusRoute
	for _, route := range s.routes {
		if strings.Contains(strings.ToLower(route.RouteNumber), term) ||
			strings.Contains(strings.ToLower(route.RouteName), term) ||
			strings.Contains(strings.ToLower(route.StartLocation), term) ||
			strings.Contains(strings.ToLower(route.EndLocation), term) {
			result = append(result, route)
		}
	}
	return result
}

// NearbyStops returns stops within radiusKm of a point, nearest first
func (s *NetworkStore) NearbyStops(lat, lon, radiusKm float64) []domain.BusStop {
	type candidate struct {
		stop domain.BusStop
		dist float64
	}
	var candidates []candidate
	for _, stop := range s.stops {
		d := geo.DistanceKM(lat, lon, stop.Latitude, stop.Longitude)
		if d <= radiusKm {
			candidates = append(candidates, candidate{stop: stop, dist: d})
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].dist < candidates[j].dist
	})
	result := make([]domain.BusStop, 0, len(candidates))
	for _, c := range candidates {
		result = append(result, c.stop)
	}
	return result
}

// BusesForRoute returns the active fleet assigned to a route
func (s *NetworkStore) BusesForRoute(routeID int) []domain.Bus {
	var result []domain.Bus
	for _, bus := range s.fleet {
		if bus.RouteID == routeID && bus.Status == "active" {
			result = append(result, bus)
		}
	}
	return result
}

func (s *NetworkStore) BusByNumber(number string) (domain.Bus, bool) {
	for _, bus := range s.fleet {
		if bus.BusNumber == number {
			return bus, true
		}
	}
	return domain.Bus{}, false
}

type NetworkStats struct {
	RoutesCount         int       `json:"routes_count"`
	StopsCount          int       `json:"stops_count"`
	RouteStopsCount     int       `json:"route_stops_count"`
	TransferPointsCount int       `json:"transfer_points_count"`
	FareBandsCount      int       `json:"fare_bands_count"`
	FleetCount          int       `json:"fleet_count"`
	LoadedAt            time.Time `json:"loaded_at"`
}

func (s *NetworkStore) Stats() NetworkStats {
	return NetworkStats{
		RoutesCount:         len(s.routes),
		StopsCount:          len(s.stops),
		RouteStopsCount:     len(s.routeStops),
		TransferPointsCount: len(s.transferPoints),
		FareBandsCount:      len(s.fareStructures),
		FleetCount:          len(s.fleet),
		LoadedAt:            s.loadedAt,
	}
}
