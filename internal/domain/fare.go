package domain

// PassengerType selects which fare column applies to a rider
type PassengerType string

const (
	PassengerRegular PassengerType = "regular"
	PassengerStudent PassengerType = "student"
	PassengerSenior  PassengerType = "senior"
)

// FareSegment is the fare calculator's view of one journey leg
type FareSegment struct {
	RouteID     int     `json:"route_id"`
	RouteNumber string  `json:"route_number"`
	RouteName   string  `json:"route_name"`
	DistanceKM  float64 `json:"distance_km"`
}

// FareBreakdown prices one segment for all three passenger classes
type FareBreakdown struct {
	BaseFare    int     `json:"base_fare"`
	StudentFare int     `json:"student_fare"`
	SeniorFare  int     `json:"senior_fare"`
	DistanceKM  float64 `json:"distance_km"`
	RouteNumber string  `json:"route_number"`
	RouteName   string  `json:"route_name"`
}

// FareSavings reports discount totals relative to the base fare
type FareSavings struct {
	StudentSavings    int `json:"student_savings"`
	SeniorSavings     int `json:"senior_savings"`
	StudentPercentage int `json:"student_percentage"`
	SeniorPercentage  int `json:"senior_percentage"`
}

// FareZone is a display-only band derived from total journey distance.
// Zones are informational and independent of the computed fares.
type FareZone struct {
	ZoneName      string `json:"zone_name"`
	DistanceRange string `json:"distance_range"`
	BaseFare      int    `json:"base_fare"`
}

// JourneyFareCalculation is the full fare breakdown for one journey
type JourneyFareCalculation struct {
	TotalBaseFare    int             `json:"total_base_fare"`
	TotalStudentFare int             `json:"total_student_fare"`
	TotalSeniorFare  int             `json:"total_senior_fare"`
	Segments         []FareBreakdown `json:"segments"`
	Savings          FareSavings     `json:"savings"`
	FareZones        []FareZone      `json:"fare_zones"`
}

// FareComparison relates one journey option's fares to the alternatives
type FareComparison struct {
	JourneyID              string                 `json:"journey_id"`
	FareCalculation        JourneyFareCalculation `json:"fare_calculation"`
	IsCheapest             bool                   `json:"is_cheapest"`
	SavingsVsMostExpensive int                    `json:"savings_vs_most_expensive"`
}

// DiscountInfo describes a discount policy for display
type DiscountInfo struct {
	PassengerType      PassengerType `json:"passenger_type"`
	DiscountPercentage int           `json:"discount_percentage"`
	Description        string        `json:"description"`
	Requirements       []string      `json:"requirements"`
}
