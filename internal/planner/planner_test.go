package planner

import (
	"fmt"
	"testing"

	"github.com/corrupted-brain/Valley-Yatra/internal/domain"
	"github.com/corrupted-brain/Valley-Yatra/internal/store"
	"github.com/corrupted-brain/Valley-Yatra/pkg/dataset"
)

func testStop(id int, name string, major bool) domain.BusStop {
	return domain.BusStop{
		ID:          id,
		StopName:    name,
		Latitude:    27.70 + float64(id)*0.01,
		Longitude:   85.31 + float64(id)*0.01,
		IsMajorStop: major,
	}
}

func testRouteStop(routeID, stopID, seq int, km float64, minutes, fare int) domain.RouteStop {
	return domain.RouteStop{
		RouteID:                    routeID,
		StopID:                     stopID,
		StopSequence:               seq,
		DistanceFromStartKM:        km,
		EstimatedTravelTimeMinutes: minutes,
		FareFromStart:              fare,
	}
}

// newTestEngine builds a planner over a small synthetic network:
//
//	route 10 (every 10 min): A(1) -> B(2) -> C(3)
//	route 20 (every 12 min): C(3) -> D(4)
//	route 30 (every 15 min): C(3) -> E(5)
//	route 40 (every 10 min): E(5) -> F(6)
//
// C is a transfer point and major hub; E is a second major hub.
func newTestEngine(t *testing.T) *Engine {
	t.Helper()

	tables := &dataset.Tables{
		Routes: []domain.BusRoute{
			{ID: 10, RouteNumber: "R10", RouteName: "Valley Loop", TotalDistanceKM: 4, EstimatedDurationMinutes: 20, FrequencyMinutes: 10},
			{ID: 20, RouteNumber: "R20", RouteName: "South Line", TotalDistanceKM: 3, EstimatedDurationMinutes: 12, FrequencyMinutes: 12},
			{ID: 30, RouteNumber: "R30", RouteName: "East Line", TotalDistanceKM: 2, EstimatedDurationMinutes: 8, FrequencyMinutes: 15},
			{ID: 40, RouteNumber: "R40", RouteName: "Hill Link", TotalDistanceKM: 3, EstimatedDurationMinutes: 10, FrequencyMinutes: 10},
		},
		Stops: []domain.BusStop{
			testStop(1, "Asan", true),
			testStop(2, "Bagbazar", false),
			testStop(3, "Chabahil", true),
			testStop(4, "Dakshinkali", false),
			testStop(5, "Ekantakuna", true),
			testStop(6, "Futung", false),
		},
		RouteStops: []domain.RouteStop{
			testRouteStop(10, 1, 1, 0, 0, 0),
			testRouteStop(10, 2, 2, 2, 10, 15),
			testRouteStop(10, 3, 3, 4, 20, 30),
			testRouteStop(20, 3, 1, 0, 0, 0),
			testRouteStop(20, 4, 2, 3, 12, 20),
			testRouteStop(30, 3, 1, 0, 0, 0),
			testRouteStop(30, 5, 2, 2, 8, 15),
			testRouteStop(40, 5, 1, 0, 0, 0),
			testRouteStop(40, 6, 2, 3, 10, 18),
		},
		TransferPoints: []domain.TransferPoint{
			{StopID: 3, ConnectingRoutes: []int{10, 20, 30}, TransferTimeMinutes: 5, IsMajorHub: true},
			{StopID: 5, ConnectingRoutes: []int{30, 40}, TransferTimeMinutes: 4, IsMajorHub: true},
		},
	}

	return NewEngine(store.NewNetworkStore(tables))
}

func stopByID(t *testing.T, e *Engine, id int) domain.BusStop {
	t.Helper()
	stop, ok := e.network.StopByID(id)
	if !ok {
		t.Fatalf("fixture stop %d missing", id)
	}
	return stop
}

func TestDirectJourney(t *testing.T) {
	e := newTestEngine(t)

	options := e.FindJourneyOptions(stopByID(t, e, 1), stopByID(t, e, 3))
	if len(options) != 1 {
		t.Fatalf("options = %d, want 1", len(options))
	}

	got := options[0]
	if got.RouteComplexity != domain.ComplexityDirect {
		t.Errorf("complexity = %s, want direct", got.RouteComplexity)
	}
	if got.ID != "direct-10-1-3" {
		t.Errorf("id = %q, want direct-10-1-3", got.ID)
	}
	// 20 min ride plus half the 10 min headway.
	if got.TotalDurationMinutes != 25 {
		t.Errorf("duration = %v, want 25", got.TotalDurationMinutes)
	}
	if got.TotalFare != 30 {
		t.Errorf("fare = %d, want 30", got.TotalFare)
	}
	if got.TotalDistanceKM != 4 {
		t.Errorf("distance = %v, want 4", got.TotalDistanceKM)
	}
	if got.TransferCount != 0 || len(got.TransferPoints) != 0 {
		t.Errorf("direct option must have no transfers, got %d/%d",
			got.TransferCount, len(got.TransferPoints))
	}
}

func TestDirectJourneyRespectsDirection(t *testing.T) {
	e := newTestEngine(t)

	// Route 10 runs A -> C only; riding backwards is not an itinerary.
	options := e.FindJourneyOptions(stopByID(t, e, 3), stopByID(t, e, 1))
	if options == nil {
		t.Fatal("options must be a non-nil slice even when empty")
	}
	if len(options) != 0 {
		t.Errorf("options = %d, want 0", len(options))
	}
}

func TestHalfHeadwayIsFractional(t *testing.T) {
	e := newTestEngine(t)

	// Route 30's 15 min headway contributes 7.5 min of expected wait.
	options := e.FindJourneyOptions(stopByID(t, e, 3), stopByID(t, e, 5))
	if len(options) == 0 {
		t.Fatal("no options found")
	}
	if options[0].TotalDurationMinutes != 15.5 {
		t.Errorf("duration = %v, want 15.5", options[0].TotalDurationMinutes)
	}
}

func TestOneTransferJourney(t *testing.T) {
	e := newTestEngine(t)

	options := e.FindJourneyOptions(stopByID(t, e, 1), stopByID(t, e, 4))
	if len(options) != 1 {
		t.Fatalf("options = %d, want 1", len(options))
	}

	got := options[0]
	if got.RouteComplexity != domain.ComplexitySimple {
		t.Errorf("complexity = %s, want simple", got.RouteComplexity)
	}
	if got.ID != "transfer-10-20-1-4" {
		t.Errorf("id = %q, want transfer-10-20-1-4", got.ID)
	}
	if len(got.Segments) != 2 {
		t.Fatalf("segments = %d, want 2", len(got.Segments))
	}
	// Leg 1: 20 + 5 wait. Leg 2: 12 + 6 wait. Plus 5 min transfer.
	if got.TotalDurationMinutes != 48 {
		t.Errorf("duration = %v, want 48", got.TotalDurationMinutes)
	}
	if got.TotalFare != 50 {
		t.Errorf("fare = %d, want 50", got.TotalFare)
	}
	if got.TransferCount != 1 {
		t.Errorf("transfers = %d, want 1", got.TransferCount)
	}
	if len(got.TransferPoints) != 1 || got.TransferPoints[0].ID != 3 {
		t.Errorf("transfer point = %+v, want stop 3", got.TransferPoints)
	}
}

func TestTwoTransferJourney(t *testing.T) {
	e := newTestEngine(t)

	// A -> F needs R10 to hub C, R30 to hub E, then R40.
	options := e.FindJourneyOptions(stopByID(t, e, 1), stopByID(t, e, 6))
	if len(options) != 1 {
		t.Fatalf("options = %d, want 1", len(options))
	}

	got := options[0]
	if got.RouteComplexity != domain.ComplexityComplex {
		t.Errorf("complexity = %s, want complex", got.RouteComplexity)
	}
	if got.ID != "complex-10-30-40-1-6" {
		t.Errorf("id = %q, want complex-10-30-40-1-6", got.ID)
	}
	if len(got.Segments) != 3 || got.TransferCount != 2 {
		t.Errorf("segments/transfers = %d/%d, want 3/2", len(got.Segments), got.TransferCount)
	}
	if got.TotalFare != 63 {
		t.Errorf("fare = %d, want 63", got.TotalFare)
	}
}

func TestDirectRanksAboveTransfer(t *testing.T) {
	// A pair served by both a direct route and a two-leg combination.
	tables := &dataset.Tables{
		Routes: []domain.BusRoute{
			{ID: 1, RouteNumber: "D1", RouteName: "Direct", TotalDistanceKM: 5, EstimatedDurationMinutes: 25, FrequencyMinutes: 10},
			{ID: 2, RouteNumber: "L1", RouteName: "Leg One", TotalDistanceKM: 3, EstimatedDurationMinutes: 15, FrequencyMinutes: 10},
			{ID: 3, RouteNumber: "L2", RouteName: "Leg Two", TotalDistanceKM: 3, EstimatedDurationMinutes: 15, FrequencyMinutes: 10},
		},
		Stops: []domain.BusStop{
			testStop(1, "Origin", false),
			testStop(2, "Middle", false),
			testStop(3, "Destination", false),
		},
		RouteStops: []domain.RouteStop{
			testRouteStop(1, 1, 1, 0, 0, 0),
			testRouteStop(1, 3, 2, 5, 25, 25),
			testRouteStop(2, 1, 1, 0, 0, 0),
			testRouteStop(2, 2, 2, 3, 15, 15),
			testRouteStop(3, 2, 1, 0, 0, 0),
			testRouteStop(3, 3, 2, 3, 15, 15),
		},
		TransferPoints: []domain.TransferPoint{
			{StopID: 2, ConnectingRoutes: []int{2, 3}, TransferTimeMinutes: 5},
		},
	}
	e := NewEngine(store.NewNetworkStore(tables))

	options := e.FindJourneyOptions(stopByID(t, e, 1), stopByID(t, e, 3))
	if len(options) != 2 {
		t.Fatalf("options = %d, want 2", len(options))
	}
	if options[0].RouteComplexity != domain.ComplexityDirect {
		t.Errorf("best option = %s, want direct", options[0].RouteComplexity)
	}
	if options[0].RecommendedScore <= options[1].RecommendedScore {
		t.Errorf("scores not descending: %d then %d",
			options[0].RecommendedScore, options[1].RecommendedScore)
	}
}

func TestOptionsCappedAtFive(t *testing.T) {
	tables := &dataset.Tables{
		Stops: []domain.BusStop{
			testStop(1, "Origin", false),
			testStop(2, "Destination", false),
		},
	}
	for i := 1; i <= 7; i++ {
		tables.Routes = append(tables.Routes, domain.BusRoute{
			ID:                       i,
			RouteNumber:              fmt.Sprintf("P%d", i),
			RouteName:                fmt.Sprintf("Parallel %d", i),
			TotalDistanceKM:          5,
			EstimatedDurationMinutes: 20,
			FrequencyMinutes:         10,
		})
		tables.RouteStops = append(tables.RouteStops,
			testRouteStop(i, 1, 1, 0, 0, 0),
			testRouteStop(i, 2, 2, 5, 20, 20),
		)
	}
	e := NewEngine(store.NewNetworkStore(tables))

	options := e.FindJourneyOptions(stopByID(t, e, 1), stopByID(t, e, 2))
	if len(options) != 5 {
		t.Errorf("options = %d, want cap of 5", len(options))
	}
}

func TestScoreNeverNegative(t *testing.T) {
	tables := &dataset.Tables{
		Routes: []domain.BusRoute{
			{ID: 1, RouteNumber: "SLOW", RouteName: "Slow Line", TotalDistanceKM: 100, EstimatedDurationMinutes: 900, FrequencyMinutes: 60},
		},
		Stops: []domain.BusStop{
			testStop(1, "Origin", false),
			testStop(2, "Destination", false),
		},
		RouteStops: []domain.RouteStop{
			testRouteStop(1, 1, 1, 0, 0, 0),
			testRouteStop(1, 2, 2, 100, 900, 800),
		},
	}
	e := NewEngine(store.NewNetworkStore(tables))

	options := e.FindJourneyOptions(stopByID(t, e, 1), stopByID(t, e, 2))
	if len(options) != 1 {
		t.Fatalf("options = %d, want 1", len(options))
	}
	if options[0].RecommendedScore != 0 {
		t.Errorf("score = %d, want floor of 0", options[0].RecommendedScore)
	}
}

func TestGetRouteStops(t *testing.T) {
	e := newTestEngine(t)

	stops := e.GetRouteStops(10)
	if len(stops) != 3 {
		t.Fatalf("stops = %d, want 3", len(stops))
	}
	for i, s := range stops {
		if s.Sequence != i+1 {
			t.Errorf("stop %d sequence = %d, want %d", i, s.Sequence, i+1)
		}
	}
	if stops[2].FareFromStart != 30 || stops[2].TravelTimeMinutes != 20 {
		t.Errorf("terminal cumulative figures = %d/%d, want 30/20",
			stops[2].FareFromStart, stops[2].TravelTimeMinutes)
	}
}

func TestRouteDetails(t *testing.T) {
	e := newTestEngine(t)

	route, ok := e.RouteDetails("R10")
	if !ok || route.ID != 10 {
		t.Errorf("RouteDetails(R10) = %+v/%v, want route 10", route, ok)
	}
	if _, ok := e.RouteDetails("NOPE"); ok {
		t.Error("unknown route number should not resolve")
	}
}
