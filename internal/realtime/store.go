package realtime

import (
	"math/rand/v2"
	"sort"
	"sync"
	"time"

	"github.com/corrupted-brain/Valley-Yatra/internal/domain"
)

// Store holds the mocked live-tracking state: simulated bus positions and
// service alerts. It is the only mutable state in the process and is owned by
// the simulator; the planning and fare core never reads it.
type Store struct {
	mu       sync.RWMutex
	tracking map[string]*domain.BusTracking // keyed by bus number
	byRoute  map[string][]string            // route number -> bus numbers
	alerts   []domain.ServiceAlert
	rng      *rand.Rand
}

// NewStore seeds the tracking state from the fixture dataset
func NewStore(seedTracking []domain.BusTracking, alerts []domain.ServiceAlert, seed uint64) *Store {
	s := &Store{
		tracking: make(map[string]*domain.BusTracking, len(seedTracking)),
		byRoute:  make(map[string][]string),
		alerts:   append([]domain.ServiceAlert{}, alerts...),
		rng:      rand.New(rand.NewPCG(seed, seed)),
	}
	for i := range seedTracking {
		t := seedTracking[i]
		s.tracking[t.BusNumber] = &t
		s.byRoute[t.RouteNumber] = append(s.byRoute[t.RouteNumber], t.BusNumber)
	}
	return s
}

// Snapshot returns a copy of every tracking entry
func (s *Store) Snapshot() []domain.BusTracking {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.BusTracking, 0, len(s.tracking))
	for _, t := range s.tracking {
		result = append(result, *t)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

// SnapshotForRoutes returns tracking entries for the given route numbers
func (s *Store) SnapshotForRoutes(routeNumbers []string) []domain.BusTracking {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []domain.BusTracking
	for _, routeNumber := range routeNumbers {
		for _, busNumber := range s.byRoute[routeNumber] {
			if t, ok := s.tracking[busNumber]; ok {
				result = append(result, *t)
			}
		}
	}
	return result
}

// ForRoute returns tracking entries for one route
func (s *Store) ForRoute(routeNumber string) []domain.BusTracking {
	return s.SnapshotForRoutes([]string{routeNumber})
}

// ByBusNumber looks up one bus's tracking entry
func (s *Store) ByBusNumber(busNumber string) (domain.BusTracking, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tracking[busNumber]
	if !ok {
		return domain.BusTracking{}, false
	}
	return *t, true
}

// HeadingTo returns tracking entries whose next stop is the given stop
func (s *Store) HeadingTo(stopID int) []domain.BusTracking {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []domain.BusTracking
	for _, t := range s.tracking {
		if t.NextStopID == stopID {
			result = append(result, *t)
		}
	}
	return result
}

// Jitter advances the simulation one tick: each bus's delay drifts by one
// minute (floored at zero), occupancy is re-rolled and the update time is
// stamped. Returns one delta per bus for broadcast.
func (s *Store) Jitter(now time.Time) []domain.TrackingDelta {
	s.mu.Lock()
	defer s.mu.Unlock()

	levels := []domain.OccupancyLevel{
		domain.OccupancyLow, domain.OccupancyMedium, domain.OccupancyHigh, domain.OccupancyFull,
	}

	deltas := make([]domain.TrackingDelta, 0, len(s.tracking))
	for _, t := range s.tracking {
		drift := -1
		if s.rng.Float64() > 0.7 {
			drift = 1
		}
		t.DelayMinutes += drift
		if t.DelayMinutes < 0 {
			t.DelayMinutes = 0
		}
		t.OccupancyLevel = levels[s.rng.IntN(len(levels))]
		t.LastUpdated = now

		entry := *t
		deltas = append(deltas, domain.TrackingDelta{
			Type:        domain.DeltaUpdate,
			Tracking:    &entry,
			RouteNumber: t.RouteNumber,
		})
	}
	return deltas
}

// ActiveAlerts returns active alerts, optionally restricted to routes,
// sorted by severity descending.
func (s *Store) ActiveAlerts(routeNumbers []string) []domain.ServiceAlert {
	s.mu.RLock()
	defer s.mu.RUnlock()

	filter := make(map[string]struct{}, len(routeNumbers))
	for _, r := range routeNumbers {
		filter[r] = struct{}{}
	}

	var result []domain.ServiceAlert
	for _, alert := range s.alerts {
		if !alert.IsActive {
			continue
		}
		if len(filter) > 0 && !affectsAny(alert, filter) {
			continue
		}
		result = append(result, alert)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Severity.Rank() > result[j].Severity.Rank()
	})
	return result
}

func affectsAny(alert domain.ServiceAlert, routes map[string]struct{}) bool {
	for _, r := range alert.AffectedRoutes {
		if _, ok := routes[r]; ok {
			return true
		}
	}
	return false
}

// SystemStatus summarizes feed health from tracked buses and alert counts
func (s *Store) SystemStatus() domain.SystemStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var active, critical int
	for _, alert := range s.alerts {
		if !alert.IsActive {
			continue
		}
		active++
		if alert.Severity == domain.SeverityCritical {
			critical++
		}
	}

	health := "good"
	if critical > 0 {
		health = "poor"
	} else if active > 2 {
		health = "degraded"
	}

	return domain.SystemStatus{
		TotalBusesTracked: len(s.tracking),
		ActiveAlerts:      active,
		SystemHealth:      health,
		LastUpdated:       time.Now(),
	}
}
