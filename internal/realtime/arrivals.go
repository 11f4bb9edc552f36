package realtime

import (
	"sort"
	"time"

	"github.com/corrupted-brain/Valley-Yatra/internal/domain"
	"github.com/corrupted-brain/Valley-Yatra/internal/store"
)

// ArrivalBoard combines simulated tracking with headway-derived scheduled
// arrivals to answer "when is the next bus" for a stop.
type ArrivalBoard struct {
	tracking *Store
	network  *store.NetworkStore
}

func NewArrivalBoard(tracking *Store, network *store.NetworkStore) *ArrivalBoard {
	return &ArrivalBoard{tracking: tracking, network: network}
}

// LiveArrivals lists upcoming arrivals at a stop sorted by ETA: tracked buses
// heading there first-hand, then one scheduled entry per other line serving
// the stop, estimated from the line's headway.
func (b *ArrivalBoard) LiveArrivals(stopID int) []domain.LiveArrival {
	now := time.Now()
	arrivals := make([]domain.LiveArrival, 0)
	seenRoutes := make(map[string]struct{})

	for _, t := range b.tracking.HeadingTo(stopID) {
		minutes := int(t.EstimatedArrivalTime.Sub(now).Minutes())
		if minutes < 1 {
			minutes = 1
		}
		arrivals = append(arrivals, domain.LiveArrival{
			RouteNumber:      t.RouteNumber,
			BusNumber:        t.BusNumber,
			EstimatedMinutes: minutes,
			DelayMinutes:     t.DelayMinutes,
			OccupancyLevel:   t.OccupancyLevel,
			IsRealTime:       true,
		})
		seenRoutes[t.RouteNumber] = struct{}{}
	}

	// Lines without a tracked bus still run on their headway; show the
	// schedule-derived next departure for each.
	for _, route := range b.network.RoutesForStop(stopID) {
		if _, ok := seenRoutes[route.RouteNumber]; ok {
			continue
		}
		var busNumber string
		if buses := b.network.BusesForRoute(route.ID); len(buses) > 0 {
			busNumber = buses[0].BusNumber
		}
		arrivals = append(arrivals, domain.LiveArrival{
			RouteNumber:      route.RouteNumber,
			BusNumber:        busNumber,
			EstimatedMinutes: route.FrequencyMinutes,
			OccupancyLevel:   domain.OccupancyLow,
			IsRealTime:       false,
		})
	}

	sort.SliceStable(arrivals, func(i, j int) bool {
		return arrivals[i].EstimatedMinutes < arrivals[j].EstimatedMinutes
	})
	return arrivals
}
