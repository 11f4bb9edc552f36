package domain

import "time"

// OccupancyLevel describes how full a bus currently is
type OccupancyLevel string

const (
	OccupancyLow    OccupancyLevel = "low"
	OccupancyMedium OccupancyLevel = "medium"
	OccupancyHigh   OccupancyLevel = "high"
	OccupancyFull   OccupancyLevel = "full"
)

// Percentage maps an occupancy level to an approximate load figure
func (o OccupancyLevel) Percentage() int {
	switch o {
	case OccupancyLow:
		return 25
	case OccupancyMedium:
		return 55
	case OccupancyHigh:
		return 80
	case OccupancyFull:
		return 95
	default:
		return 0
	}
}

// BusTracking is one bus's simulated position and delay state
type BusTracking struct {
	ID                   int            `json:"id"`
	RouteID              int            `json:"route_id"`
	RouteNumber          string         `json:"route_number"`
	BusNumber            string         `json:"bus_number"`
	CurrentStopID        int            `json:"current_stop_id"`
	CurrentStopName      string         `json:"current_stop_name"`
	NextStopID           int            `json:"next_stop_id"`
	NextStopName         string         `json:"next_stop_name"`
	EstimatedArrivalTime time.Time      `json:"estimated_arrival_time"`
	DelayMinutes         int            `json:"delay_minutes"`
	OccupancyLevel       OccupancyLevel `json:"occupancy_level"`
	LastUpdated          time.Time      `json:"last_updated"`
}

// AlertType categorizes a service alert
type AlertType string

const (
	AlertDelay       AlertType = "delay"
	AlertDisruption  AlertType = "disruption"
	AlertMaintenance AlertType = "maintenance"
	AlertWeather     AlertType = "weather"
	AlertAccident    AlertType = "accident"
)

// AlertSeverity orders alerts for display, critical first
type AlertSeverity string

const (
	SeverityLow      AlertSeverity = "low"
	SeverityMedium   AlertSeverity = "medium"
	SeverityHigh     AlertSeverity = "high"
	SeverityCritical AlertSeverity = "critical"
)

// Rank converts a severity to a sortable weight
func (s AlertSeverity) Rank() int {
	switch s {
	case SeverityCritical:
		return 4
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	default:
		return 0
	}
}

// ServiceAlert is a rider-facing disruption notice
type ServiceAlert struct {
	ID             string        `json:"id"`
	Type           AlertType     `json:"type"`
	Severity       AlertSeverity `json:"severity"`
	Title          string        `json:"title"`
	Description    string        `json:"description"`
	AffectedRoutes []string      `json:"affected_routes"`
	AffectedStops  []string      `json:"affected_stops"`
	StartTime      time.Time     `json:"start_time"`
	EndTime        *time.Time    `json:"end_time,omitempty"`
	IsActive       bool          `json:"is_active"`
}

// LiveArrival is one upcoming arrival at a stop
type LiveArrival struct {
	RouteNumber      string         `json:"route_number"`
	BusNumber        string         `json:"bus_number"`
	EstimatedMinutes int            `json:"estimated_minutes"`
	DelayMinutes     int            `json:"delay_minutes"`
	OccupancyLevel   OccupancyLevel `json:"occupancy_level"`
	IsRealTime       bool           `json:"is_real_time"`
}

// DeltaType indicates whether a tracking entry was updated or removed
type DeltaType string

const (
	DeltaUpdate DeltaType = "update"
	DeltaRemove DeltaType = "remove"
)

// TrackingDelta represents a change in simulated tracking state
type TrackingDelta struct {
	Type        DeltaType    `json:"type"`
	Tracking    *BusTracking `json:"tracking,omitempty"`
	BusNumber   string       `json:"bus_number,omitempty"`
	RouteNumber string       `json:"route_number"`
}

// SystemStatus summarizes the health of the mocked tracking feed
type SystemStatus struct {
	TotalBusesTracked int       `json:"total_buses_tracked"`
	ActiveAlerts      int       `json:"active_alerts"`
	SystemHealth      string    `json:"system_health"`
	LastUpdated       time.Time `json:"last_updated"`
}
