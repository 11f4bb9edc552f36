package realtime

import (
	"testing"
	"time"

	"github.com/corrupted-brain/Valley-Yatra/internal/domain"
	"github.com/corrupted-brain/Valley-Yatra/internal/store"
	"github.com/corrupted-brain/Valley-Yatra/pkg/dataset"
)

func arrivalsNetwork(t *testing.T) *store.NetworkStore {
	t.Helper()

	return store.NewNetworkStore(&dataset.Tables{
		Routes: []domain.BusRoute{
			{ID: 1, RouteNumber: "KTM-01", RouteName: "Ring Road", TotalDistanceKM: 10, EstimatedDurationMinutes: 40, FrequencyMinutes: 10},
			{ID: 2, RouteNumber: "KTM-02", RouteName: "City Circle", TotalDistanceKM: 8, EstimatedDurationMinutes: 35, FrequencyMinutes: 12},
		},
		Stops: []domain.BusStop{
			{ID: 5, StopName: "Kalanki", Latitude: 27.69, Longitude: 85.28},
		},
		RouteStops: []domain.RouteStop{
			{RouteID: 1, StopID: 5, StopSequence: 1},
			{RouteID: 2, StopID: 5, StopSequence: 1},
		},
		Fleet: []domain.Bus{
			{ID: 1, BusNumber: "BA-2-PA-2001", RouteID: 2, Capacity: 40, Status: "active"},
		},
	})
}

func TestLiveArrivalsMixesTrackedAndScheduled(t *testing.T) {
	network := arrivalsNetwork(t)
	tracking := NewStore([]domain.BusTracking{
		{
			ID:                   1,
			RouteID:              1,
			RouteNumber:          "KTM-01",
			BusNumber:            "BA-1-KHA-1001",
			NextStopID:           5,
			EstimatedArrivalTime: time.Now().Add(4 * time.Minute),
			DelayMinutes:         2,
			OccupancyLevel:       domain.OccupancyHigh,
		},
	}, nil, 1)

	board := NewArrivalBoard(tracking, network)
	arrivals := board.LiveArrivals(5)
	if len(arrivals) != 2 {
		t.Fatalf("arrivals = %d, want 2", len(arrivals))
	}

	// The tracked bus on KTM-01 arrives in ~4 min, ahead of the
	// headway-derived KTM-02 entry at 12 min.
	first := arrivals[0]
	if !first.IsRealTime || first.RouteNumber != "KTM-01" {
		t.Errorf("first arrival = %+v, want tracked KTM-01", first)
	}
	if first.EstimatedMinutes < 1 || first.EstimatedMinutes > 4 {
		t.Errorf("tracked ETA = %d, want within (0,4]", first.EstimatedMinutes)
	}
	if first.DelayMinutes != 2 || first.OccupancyLevel != domain.OccupancyHigh {
		t.Errorf("tracked arrival detail = %+v", first)
	}

	second := arrivals[1]
	if second.IsRealTime || second.RouteNumber != "KTM-02" {
		t.Errorf("second arrival = %+v, want scheduled KTM-02", second)
	}
	if second.EstimatedMinutes != 12 {
		t.Errorf("scheduled ETA = %d, want headway of 12", second.EstimatedMinutes)
	}
	if second.BusNumber != "BA-2-PA-2001" {
		t.Errorf("scheduled bus number = %q, want the route's active bus", second.BusNumber)
	}
}

func TestLiveArrivalsETAFloor(t *testing.T) {
	network := arrivalsNetwork(t)
	tracking := NewStore([]domain.BusTracking{
		{
			ID:                   1,
			RouteID:              1,
			RouteNumber:          "KTM-01",
			BusNumber:            "BA-1-KHA-1001",
			NextStopID:           5,
			EstimatedArrivalTime: time.Now().Add(-3 * time.Minute),
		},
	}, nil, 1)

	board := NewArrivalBoard(tracking, network)
	arrivals := board.LiveArrivals(5)

	for _, a := range arrivals {
		if a.IsRealTime && a.EstimatedMinutes != 1 {
			t.Errorf("overdue bus ETA = %d, want floor of 1", a.EstimatedMinutes)
		}
	}
}

func TestLiveArrivalsUnknownStop(t *testing.T) {
	board := NewArrivalBoard(NewStore(nil, nil, 1), arrivalsNetwork(t))

	arrivals := board.LiveArrivals(99)
	if arrivals == nil {
		t.Fatal("arrivals must be a non-nil slice")
	}
	if len(arrivals) != 0 {
		t.Errorf("arrivals = %d, want 0", len(arrivals))
	}
}
