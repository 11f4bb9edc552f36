package domain

// BusRoute represents a fixed bus line with an ordered sequence of stops
type BusRoute struct {
	ID                       int     `json:"id" validate:"required"`
	RouteNumber              string  `json:"route_number" validate:"required"`
	RouteName                string  `json:"route_name" validate:"required"`
	StartLocation            string  `json:"start_location"`
	EndLocation              string  `json:"end_location"`
	TotalDistanceKM          float64 `json:"total_distance_km" validate:"gt=0"`
	EstimatedDurationMinutes int     `json:"estimated_duration_minutes" validate:"gt=0"`
	OperatingHoursStart      string  `json:"operating_hours_start"`
	OperatingHoursEnd        string  `json:"operating_hours_end"`
	FrequencyMinutes         int     `json:"frequency_minutes" validate:"gt=0"`
}

// StopFacilities lists amenities available at a stop
type StopFacilities struct {
	WheelchairAccessible bool `json:"wheelchair_accessible"`
	Shelter              bool `json:"shelter"`
	Seating              bool `json:"seating"`
	Restrooms            bool `json:"restrooms"`
}

// BusStop represents a physical bus stop location
type BusStop struct {
	ID          int            `json:"id" validate:"required"`
	StopName    string         `json:"stop_name" validate:"required"`
	StopCode    string         `json:"stop_code"`
	Latitude    float64        `json:"latitude" validate:"latitude"`
	Longitude   float64        `json:"longitude" validate:"longitude"`
	Address     string         `json:"address"`
	Landmarks   string         `json:"landmarks"`
	District    string         `json:"district"`
	Zone        string         `json:"zone"`
	IsMajorStop bool           `json:"is_major_stop"`
	Facilities  StopFacilities `json:"facilities"`
}

// RouteStop is the route-stop join: one stop's position along one route,
// with cumulative distance, travel time and fare measured from the route start.
// Within a route, sequence numbers are unique and increase monotonically
// with distance, time and fare.
type RouteStop struct {
	RouteID                    int     `json:"route_id" validate:"required"`
	StopID                     int     `json:"stop_id" validate:"required"`
	StopSequence               int     `json:"stop_sequence" validate:"gte=1"`
	DistanceFromStartKM        float64 `json:"distance_from_start_km" validate:"gte=0"`
	EstimatedTravelTimeMinutes int     `json:"estimated_travel_time_minutes" validate:"gte=0"`
	FareFromStart              int     `json:"fare_from_start" validate:"gte=0"`
}

// TransferPoint marks a stop where riders may switch routes.
// TransferTimeMinutes is the walking/waiting penalty applied per transfer.
type TransferPoint struct {
	StopID              int   `json:"stop_id" validate:"required"`
	ConnectingRoutes    []int `json:"connecting_routes" validate:"min=2"`
	TransferTimeMinutes int   `json:"transfer_time_minutes" validate:"gte=0"`
	IsMajorHub          bool  `json:"is_major_hub"`
}

// FareStructure is one distance band on a route with prices per passenger class.
// The range test is inclusive on both ends; bands for a route are expected to
// be non-overlapping, and the first declared match wins.
type FareStructure struct {
	ID                   int     `json:"id" validate:"required"`
	RouteID              int     `json:"route_id" validate:"required"`
	DistanceRangeStartKM float64 `json:"distance_range_start_km" validate:"gte=0"`
	DistanceRangeEndKM   float64 `json:"distance_range_end_km" validate:"gtfield=DistanceRangeStartKM"`
	BaseFare             int     `json:"base_fare" validate:"gt=0"`
	StudentFare          int     `json:"student_fare" validate:"gt=0"`
	SeniorFare           int     `json:"senior_fare" validate:"gt=0"`
	EffectiveFrom        string  `json:"effective_from"`
	EffectiveUntil       string  `json:"effective_until,omitempty"`
	IsActive             bool    `json:"is_active"`
}

// Bus is a fleet vehicle assigned to a route
type Bus struct {
	ID        int    `json:"id" validate:"required"`
	BusNumber string `json:"bus_number" validate:"required"`
	RouteID   int    `json:"route_id" validate:"required"`
	BusType   string `json:"bus_type"`
	Capacity  int    `json:"capacity" validate:"gt=0"`
	Operator  string `json:"operator"`
	Status    string `json:"status"`
}

// StopOnRoute is a stop viewed in the context of one route: the base stop plus
// its sequence position and cumulative figures on that route.
type StopOnRoute struct {
	Stop                BusStop `json:"stop"`
	Sequence            int     `json:"sequence"`
	DistanceFromStartKM float64 `json:"distance_from_start_km"`
	TravelTimeMinutes   int     `json:"travel_time_minutes"`
	FareFromStart       int     `json:"fare_from_start"`
}
