package fare

import (
	"math"
	"sort"

	"github.com/corrupted-brain/Valley-Yatra/internal/domain"
)

// Fallback pricing for segments no fare band covers. Student and senior
// fares in the fare table are explicit columns, not computed percentages;
// only the fallback path applies these exact discounts.
const (
	fallbackFarePerKM     = 2.5
	fallbackMinimumFare   = 10
	studentFallbackFactor = 0.7
	seniorFallbackFactor  = 0.85
)

// Calculator prices journeys against a fare band table. All operations are
// total: a segment no band covers falls back to distance-proportional pricing
// rather than failing.
type Calculator struct {
	structures []domain.FareStructure
}

// NewCalculator builds a calculator over an explicit fare band table
func NewCalculator(structures []domain.FareStructure) *Calculator {
	return &Calculator{structures: structures}
}

// CalculateSegmentFare prices one ride on one route. The band test is
// inclusive on both ends and the first declared match wins.
func (c *Calculator) CalculateSegmentFare(routeID int, distanceKm float64, routeNumber, routeName string) domain.FareBreakdown {
	for _, fs := range c.structures {
		if fs.RouteID == routeID && fs.IsActive &&
			distanceKm >= fs.DistanceRangeStartKM && distanceKm <= fs.DistanceRangeEndKM {
			return domain.FareBreakdown{
				BaseFare:    fs.BaseFare,
				StudentFare: fs.StudentFare,
				SeniorFare:  fs.SeniorFare,
				DistanceKM:  distanceKm,
				RouteNumber: routeNumber,
				RouteName:   routeName,
			}
		}
	}

	base := int(math.Ceil(distanceKm * fallbackFarePerKM))
	if base < fallbackMinimumFare {
		base = fallbackMinimumFare
	}
	return domain.FareBreakdown{
		BaseFare:    base,
		StudentFare: int(math.Ceil(float64(base) * studentFallbackFactor)),
		SeniorFare:  int(math.Ceil(float64(base) * seniorFallbackFactor)),
		DistanceKM:  distanceKm,
		RouteNumber: routeNumber,
		RouteName:   routeName,
	}
}

// CalculateJourneyFare prices every segment of a journey and aggregates
// totals, savings and the display fare zones.
func (c *Calculator) CalculateJourneyFare(segments []domain.FareSegment) domain.JourneyFareCalculation {
	breakdowns := make([]domain.FareBreakdown, 0, len(segments))
	var totalBase, totalStudent, totalSenior int

	for _, segment := range segments {
		b := c.CalculateSegmentFare(segment.RouteID, segment.DistanceKM, segment.RouteNumber, segment.RouteName)
		breakdowns = append(breakdowns, b)
		totalBase += b.BaseFare
		totalStudent += b.StudentFare
		totalSenior += b.SeniorFare
	}

	studentSavings := totalBase - totalStudent
	seniorSavings := totalBase - totalSenior
	var studentPct, seniorPct int
	if totalBase > 0 {
		studentPct = int(math.Round(float64(studentSavings) / float64(totalBase) * 100))
		seniorPct = int(math.Round(float64(seniorSavings) / float64(totalBase) * 100))
	}

	return domain.JourneyFareCalculation{
		TotalBaseFare:    totalBase,
		TotalStudentFare: totalStudent,
		TotalSeniorFare:  totalSenior,
		Segments:         breakdowns,
		Savings: domain.FareSavings{
			StudentSavings:    studentSavings,
			SeniorSavings:     seniorSavings,
			StudentPercentage: studentPct,
			SeniorPercentage:  seniorPct,
		},
		FareZones: fareZones(segments),
	}
}

// FareForPassengerType selects the journey total for a rider class.
// Unknown types pay the base fare.
func (c *Calculator) FareForPassengerType(calc domain.JourneyFareCalculation, passengerType domain.PassengerType) int {
	switch passengerType {
	case domain.PassengerStudent:
		return calc.TotalStudentFare
	case domain.PassengerSenior:
		return calc.TotalSeniorFare
	default:
		return calc.TotalBaseFare
	}
}

// ComparisonInput is one journey option presented for fare comparison
type ComparisonInput struct {
	JourneyID string
	Segments  []domain.FareSegment
}

// CompareFares prices each option, flags the cheapest one(s) and reports each
// option's savings relative to the most expensive base fare.
func (c *Calculator) CompareFares(options []ComparisonInput) []domain.FareComparison {
	comparisons := make([]domain.FareComparison, 0, len(options))
	for _, option := range options {
		comparisons = append(comparisons, domain.FareComparison{
			JourneyID:       option.JourneyID,
			FareCalculation: c.CalculateJourneyFare(option.Segments),
		})
	}
	if len(comparisons) == 0 {
		return comparisons
	}

	minFare := comparisons[0].FareCalculation.TotalBaseFare
	maxFare := minFare
	for _, comparison := range comparisons[1:] {
		base := comparison.FareCalculation.TotalBaseFare
		if base < minFare {
			minFare = base
		}
		if base > maxFare {
			maxFare = base
		}
	}

	for i := range comparisons {
		base := comparisons[i].FareCalculation.TotalBaseFare
		comparisons[i].IsCheapest = base == minFare
		comparisons[i].SavingsVsMostExpensive = maxFare - base
	}
	return comparisons
}

// RouteFareStructure returns a route's active bands sorted by range start
func (c *Calculator) RouteFareStructure(routeID int) []domain.FareStructure {
	var result []domain.FareStructure
	for _, fs := range c.structures {
		if fs.RouteID == routeID && fs.IsActive {
			result = append(result, fs)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].DistanceRangeStartKM < result[j].DistanceRangeStartKM
	})
	return result
}

// DistanceBasedFare prices a distance against the flat zone table, ignoring
// route-specific bands. Used by display layers that have no route context.
func (c *Calculator) DistanceBasedFare(distanceKm float64) domain.FareBreakdown {
	var base int
	switch {
	case distanceKm <= 5:
		base = 15
	case distanceKm <= 10:
		base = 20
	case distanceKm <= 15:
		base = 25
	case distanceKm <= 20:
		base = 30
	default:
		base = 35
	}
	return domain.FareBreakdown{
		BaseFare:    base,
		StudentFare: int(math.Ceil(float64(base) * studentFallbackFactor)),
		SeniorFare:  int(math.Ceil(float64(base) * seniorFallbackFactor)),
		DistanceKM:  distanceKm,
	}
}

// fareZones derives the cumulative display zone list from total journey
// distance. Zones are informational only and intentionally independent of the
// per-route fare bands.
func fareZones(segments []domain.FareSegment) []domain.FareZone {
	var total float64
	for _, segment := range segments {
		total += segment.DistanceKM
	}

	zones := []domain.FareZone{{ZoneName: "Zone 1", DistanceRange: "0-5 km", BaseFare: 15}}
	if total > 5 {
		zones = append(zones, domain.FareZone{ZoneName: "Zone 2", DistanceRange: "5-10 km", BaseFare: 20})
	}
	if total > 10 {
		zones = append(zones, domain.FareZone{ZoneName: "Zone 3", DistanceRange: "10-15 km", BaseFare: 25})
	}
	if total > 15 {
		zones = append(zones, domain.FareZone{ZoneName: "Zone 4", DistanceRange: "15+ km", BaseFare: 30})
	}
	return zones
}

// DiscountInfo describes the fixed discount policy for display
func (c *Calculator) DiscountInfo() []domain.DiscountInfo {
	return []domain.DiscountInfo{
		{
			PassengerType:      domain.PassengerStudent,
			DiscountPercentage: 30,
			Description:        "Student Discount",
			Requirements: []string{
				"Valid student ID card",
				"Currently enrolled in educational institution",
				"Age limit: Under 25 years",
			},
		},
		{
			PassengerType:      domain.PassengerSenior,
			DiscountPercentage: 15,
			Description:        "Senior Citizen Discount",
			Requirements: []string{
				"Age 60 years and above",
				"Valid citizenship certificate or senior citizen card",
				"Applicable on all routes",
			},
		},
	}
}
