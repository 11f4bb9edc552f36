package domain

// RouteComplexity tags a journey option by how many transfers it needs
type RouteComplexity string

const (
	ComplexityDirect  RouteComplexity = "direct"
	ComplexitySimple  RouteComplexity = "simple"
	ComplexityComplex RouteComplexity = "complex"
)

// RouteSegment is one continuous ride on a single route between two of its
// stops. Duration, distance and fare are differences of the two endpoints'
// cumulative route-stop values.
type RouteSegment struct {
	Route           BusRoute `json:"route"`
	FromStop        BusStop  `json:"from_stop"`
	ToStop          BusStop  `json:"to_stop"`
	FromSequence    int      `json:"from_sequence"`
	ToSequence      int      `json:"to_sequence"`
	DurationMinutes int      `json:"duration_minutes"`
	DistanceKM      float64  `json:"distance_km"`
	Fare            int      `json:"fare"`
}

// JourneyOption is one complete candidate itinerary between an origin and a
// destination. Constructed fresh per planning request, never persisted.
type JourneyOption struct {
	ID                   string          `json:"id"`
	Segments             []RouteSegment  `json:"segments"`
	TotalDurationMinutes float64         `json:"total_duration_minutes"`
	TotalFare            int             `json:"total_fare"`
	TotalDistanceKM      float64         `json:"total_distance_km"`
	TransferCount        int             `json:"transfer_count"`
	TransferPoints       []BusStop       `json:"transfer_points"`
	RouteComplexity      RouteComplexity `json:"route_complexity"`
	RecommendedScore     int             `json:"recommended_score"`
}
