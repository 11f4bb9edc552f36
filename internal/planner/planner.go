package planner

import (
	"fmt"
	"math"
	"sort"

	"github.com/corrupted-brain/Valley-Yatra/internal/domain"
	"github.com/corrupted-brain/Valley-Yatra/internal/store"
)

// Engine enumerates and ranks itineraries between two stops across the static
// route network. Every operation is a pure function of the network tables; an
// empty result means no itinerary exists and is not an error.
//
// Callers must pass two distinct, known stops; the engine does not validate
// that precondition.
type Engine struct {
	network *store.NetworkStore
}

// NewEngine builds a planning engine over an explicit network store
func NewEngine(network *store.NetworkStore) *Engine {
	return &Engine{network: network}
}

// maxOptions caps the ranked result list
const maxOptions = 5

// FindJourneyOptions returns up to five feasible itineraries from fromStop to
// toStop, best first: direct rides, one-transfer combinations through any
// transfer point, and two-transfer combinations through pairs of major hubs.
func (e *Engine) FindJourneyOptions(fromStop, toStop domain.BusStop) []domain.JourneyOption {
	// Always a non-nil slice: "no itinerary" is ordinary data, not an error.
	options := make([]domain.JourneyOption, 0)
	options = append(options, e.findDirect(fromStop, toStop)...)
	options = append(options, e.findOneTransfer(fromStop, toStop)...)
	options = append(options, e.findTwoTransfer(fromStop, toStop)...)

	ranked := rank(options)
	if len(ranked) > maxOptions {
		ranked = ranked[:maxOptions]
	}
	return ranked
}

// findDirect returns one option per route that serves both stops in travel
// order. A route passing the stops in the opposite direction does not count.
func (e *Engine) findDirect(fromStop, toStop domain.BusStop) []domain.JourneyOption {
	var options []domain.JourneyOption

	for _, route := range e.network.BusRoutes() {
		fromRS, okFrom := e.network.RouteStop(route.ID, fromStop.ID)
		toRS, okTo := e.network.RouteStop(route.ID, toStop.ID)
		if !okFrom || !okTo || fromRS.StopSequence >= toRS.StopSequence {
			continue
		}

		segment := domain.RouteSegment{
			Route:           route,
			FromStop:        fromStop,
			ToStop:          toStop,
			FromSequence:    fromRS.StopSequence,
			ToSequence:      toRS.StopSequence,
			DurationMinutes: toRS.EstimatedTravelTimeMinutes - fromRS.EstimatedTravelTimeMinutes,
			DistanceKM:      toRS.DistanceFromStartKM - fromRS.DistanceFromStartKM,
			Fare:            toRS.FareFromStart - fromRS.FareFromStart,
		}

		options = append(options, domain.JourneyOption{
			ID:       fmt.Sprintf("direct-%d-%d-%d", route.ID, fromStop.ID, toStop.ID),
			Segments: []domain.RouteSegment{segment},
			// Half the headway models the expected wait for a rider
			// arriving at a random point in the service interval.
			TotalDurationMinutes: float64(segment.DurationMinutes) + float64(route.FrequencyMinutes)/2,
			TotalFare:            segment.Fare,
			TotalDistanceKM:      segment.DistanceKM,
			TransferCount:        0,
			TransferPoints:       []domain.BusStop{},
			RouteComplexity:      domain.ComplexityDirect,
		})
	}

	return options
}

// findOneTransfer pairs direct legs through every known transfer point,
// keeping combinations whose two legs ride different routes.
func (e *Engine) findOneTransfer(fromStop, toStop domain.BusStop) []domain.JourneyOption {
	var options []domain.JourneyOption

	for _, tp := range e.network.TransferPoints() {
		transferStop, ok := e.network.StopByID(tp.StopID)
		if !ok {
			continue
		}

		firstLegs := e.findDirect(fromStop, transferStop)
		secondLegs := e.findDirect(transferStop, toStop)

		for _, first := range firstLegs {
			for _, second := range secondLegs {
				if first.Segments[0].Route.ID == second.Segments[0].Route.ID {
					continue
				}
				options = append(options, domain.JourneyOption{
					ID: fmt.Sprintf("transfer-%d-%d-%d-%d",
						first.Segments[0].Route.ID, second.Segments[0].Route.ID, fromStop.ID, toStop.ID),
					Segments: append(append([]domain.RouteSegment{}, first.Segments...), second.Segments...),
					TotalDurationMinutes: first.TotalDurationMinutes + second.TotalDurationMinutes +
						float64(tp.TransferTimeMinutes),
					TotalFare:       first.TotalFare + second.TotalFare,
					TotalDistanceKM: first.TotalDistanceKM + second.TotalDistanceKM,
					TransferCount:   1,
					TransferPoints:  []domain.BusStop{transferStop},
					RouteComplexity: domain.ComplexitySimple,
				})
			}
		}
	}

	return options
}

// findTwoTransfer chains three direct legs through ordered pairs of major
// hubs. Restricting to major hubs bounds the combinatorics; all three legs
// must ride pairwise distinct routes.
func (e *Engine) findTwoTransfer(fromStop, toStop domain.BusStop) []domain.JourneyOption {
	var options []domain.JourneyOption

	var majorHubs []domain.TransferPoint
	for _, tp := range e.network.TransferPoints() {
		if tp.IsMajorHub {
			majorHubs = append(majorHubs, tp)
		}
	}

	for i := 0; i < len(majorHubs); i++ {
		for j := i + 1; j < len(majorHubs); j++ {
			firstHub, okFirst := e.network.StopByID(majorHubs[i].StopID)
			secondHub, okSecond := e.network.StopByID(majorHubs[j].StopID)
			if !okFirst || !okSecond {
				continue
			}

			firstLegs := e.findDirect(fromStop, firstHub)
			secondLegs := e.findDirect(firstHub, secondHub)
			thirdLegs := e.findDirect(secondHub, toStop)

			for _, first := range firstLegs {
				for _, second := range secondLegs {
					for _, third := range thirdLegs {
						a := first.Segments[0].Route.ID
						b := second.Segments[0].Route.ID
						c := third.Segments[0].Route.ID
						if a == b || a == c || b == c {
							continue
						}

						segments := append([]domain.RouteSegment{}, first.Segments...)
						segments = append(segments, second.Segments...)
						segments = append(segments, third.Segments...)

						options = append(options, domain.JourneyOption{
							ID: fmt.Sprintf("complex-%d-%d-%d-%d-%d", a, b, c, fromStop.ID, toStop.ID),
							Segments: segments,
							TotalDurationMinutes: first.TotalDurationMinutes +
								second.TotalDurationMinutes + third.TotalDurationMinutes +
								float64(majorHubs[i].TransferTimeMinutes) +
								float64(majorHubs[j].TransferTimeMinutes),
							TotalFare:       first.TotalFare + second.TotalFare + third.TotalFare,
							TotalDistanceKM: first.TotalDistanceKM + second.TotalDistanceKM + third.TotalDistanceKM,
							TransferCount:   2,
							TransferPoints:  []domain.BusStop{firstHub, secondHub},
							RouteComplexity: domain.ComplexityComplex,
						})
					}
				}
			}
		}
	}

	return options
}

// rank scores every option and sorts best first. The sort is stable so ties
// keep encounter order.
func rank(options []domain.JourneyOption) []domain.JourneyOption {
	for i := range options {
		options[i].RecommendedScore = score(&options[i])
	}
	sort.SliceStable(options, func(i, j int) bool {
		return options[i].RecommendedScore > options[j].RecommendedScore
	})
	return options
}

func score(option *domain.JourneyOption) int {
	s := 100

	switch option.RouteComplexity {
	case domain.ComplexityDirect:
		s += 30
	case domain.ComplexitySimple:
		s += 10
	default:
		s -= 20
	}

	s -= int(math.Floor(option.TotalDurationMinutes / 10))
	s -= option.TotalFare / 5
	s -= option.TransferCount * 15

	for _, segment := range option.Segments {
		if segment.FromStop.IsMajorStop {
			s += 5
		}
		if segment.ToStop.IsMajorStop {
			s += 5
		}
		if bonus := 20 - segment.Route.FrequencyMinutes; bonus > 0 {
			s += bonus
		}
	}

	if s < 0 {
		s = 0
	}
	return s
}

// RouteDetails looks up a route by its public number
func (e *Engine) RouteDetails(routeNumber string) (domain.BusRoute, bool) {
	return e.network.RouteByNumber(routeNumber)
}

// GetRouteStops returns a route's stops in travel order with their sequence
// positions and cumulative figures.
func (e *Engine) GetRouteStops(routeID int) []domain.StopOnRoute {
	routeStops := e.network.RouteStopsForRoute(routeID)

	result := make([]domain.StopOnRoute, 0, len(routeStops))
	for _, rs := range routeStops {
		stop, ok := e.network.StopByID(rs.StopID)
		if !ok {
			continue
		}
		result = append(result, domain.StopOnRoute{
			Stop:                stop,
			Sequence:            rs.StopSequence,
			DistanceFromStartKM: rs.DistanceFromStartKM,
			TravelTimeMinutes:   rs.EstimatedTravelTimeMinutes,
			FareFromStart:       rs.FareFromStart,
		})
	}
	return result
}

// FindNearbyStops returns stops within radiusKm of a point, nearest first
func (e *Engine) FindNearbyStops(lat, lon, radiusKm float64) []domain.BusStop {
	return e.network.NearbyStops(lat, lon, radiusKm)
}
