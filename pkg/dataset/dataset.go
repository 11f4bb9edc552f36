package dataset

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/corrupted-brain/Valley-Yatra/internal/domain"
)

//go:embed data/*.json
var embedded embed.FS

// Tables is the full static transit dataset: the read-only reference data the
// planner and fare calculator are built on, plus the seed state for the mocked
// real-time layer.
type Tables struct {
	Routes         []domain.BusRoute
	Stops          []domain.BusStop
	RouteStops     []domain.RouteStop
	TransferPoints []domain.TransferPoint
	FareStructures []domain.FareStructure
	Fleet          []domain.Bus
	TrackingSeed   []domain.BusTracking
	Alerts         []domain.ServiceAlert
}

// trackingSeedRecord carries arrival offsets relative to load time, since the
// fixture file cannot hold meaningful absolute timestamps.
type trackingSeedRecord struct {
	ID              int                   `json:"id"`
	RouteID         int                   `json:"route_id"`
	RouteNumber     string                `json:"route_number"`
	BusNumber       string                `json:"bus_number"`
	CurrentStopID   int                   `json:"current_stop_id"`
	CurrentStopName string                `json:"current_stop_name"`
	NextStopID      int                   `json:"next_stop_id"`
	NextStopName    string                `json:"next_stop_name"`
	ArrivesIn       int                   `json:"arrives_in_minutes"`
	DelayMinutes    int                   `json:"delay_minutes"`
	OccupancyLevel  domain.OccupancyLevel `json:"occupancy_level"`
}

type alertRecord struct {
	ID                string               `json:"id"`
	Type              domain.AlertType     `json:"type"`
	Severity          domain.AlertSeverity `json:"severity"`
	Title             string               `json:"title"`
	Description       string               `json:"description"`
	AffectedRoutes    []string             `json:"affected_routes"`
	AffectedStops     []string             `json:"affected_stops"`
	StartedMinutesAgo int                  `json:"started_minutes_ago"`
	EndsInMinutes     *int                 `json:"ends_in_minutes"`
	IsActive          bool                 `json:"is_active"`
}

type fleetFile struct {
	Buses []domain.Bus `json:"buses"`
}

type Loader struct {
	fsys     fs.FS
	validate *validator.Validate
	logger   *slog.Logger
}

// NewLoader reads fixtures from the embedded dataset. If dir is non-empty the
// dataset is read from that directory instead, allowing an operator to swap in
// alternative network data without rebuilding.
func NewLoader(dir string, logger *slog.Logger) *Loader {
	var fsys fs.FS = embedded
	if dir != "" {
		fsys = os.DirFS(dir)
	}
	return &Loader{
		fsys:     fsys,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger.With("component", "dataset_loader"),
	}
}

// Load parses and validates every fixture file and returns the table set.
func (l *Loader) Load() (*Tables, error) {
	start := time.Now()
	l.logger.Info("loading transit dataset")

	t := &Tables{}

	if err := l.loadFile("bus-routes.json", &t.Routes); err != nil {
		return nil, err
	}
	if err := l.loadFile("bus-stops.json", &t.Stops); err != nil {
		return nil, err
	}
	if err := l.loadFile("route-stops.json", &t.RouteStops); err != nil {
		return nil, err
	}
	if err := l.loadFile("transfer-points.json", &t.TransferPoints); err != nil {
		return nil, err
	}
	if err := l.loadFile("fare-structure.json", &t.FareStructures); err != nil {
		return nil, err
	}

	var fleet fleetFile
	if err := l.loadFile("bus-fleet.json", &fleet); err != nil {
		return nil, err
	}
	t.Fleet = fleet.Buses

	var seeds []trackingSeedRecord
	if err := l.loadFile("bus-tracking.json", &seeds); err != nil {
		return nil, err
	}
	now := time.Now()
	t.TrackingSeed = make([]domain.BusTracking, 0, len(seeds))
	for _, s := range seeds {
		t.TrackingSeed = append(t.TrackingSeed, domain.BusTracking{
			ID:                   s.ID,
			RouteID:              s.RouteID,
			RouteNumber:          s.RouteNumber,
			BusNumber:            s.BusNumber,
			CurrentStopID:        s.CurrentStopID,
			CurrentStopName:      s.CurrentStopName,
			NextStopID:           s.NextStopID,
			NextStopName:         s.NextStopName,
			EstimatedArrivalTime: now.Add(time.Duration(s.ArrivesIn) * time.Minute),
			DelayMinutes:         s.DelayMinutes,
			OccupancyLevel:       s.OccupancyLevel,
			LastUpdated:          now,
		})
	}

	var alerts []alertRecord
	if err := l.loadFile("service-alerts.json", &alerts); err != nil {
		return nil, err
	}
	t.Alerts = make([]domain.ServiceAlert, 0, len(alerts))
	for _, a := range alerts {
		alert := domain.ServiceAlert{
			ID:             a.ID,
			Type:           a.Type,
			Severity:       a.Severity,
			Title:          a.Title,
			Description:    a.Description,
			AffectedRoutes: a.AffectedRoutes,
			AffectedStops:  a.AffectedStops,
			StartTime:      now.Add(-time.Duration(a.StartedMinutesAgo) * time.Minute),
			IsActive:       a.IsActive,
		}
		if a.EndsInMinutes != nil {
			end := now.Add(time.Duration(*a.EndsInMinutes) * time.Minute)
			alert.EndTime = &end
		}
		t.Alerts = append(t.Alerts, alert)
	}

	if err := l.validateTables(t); err != nil {
		return nil, err
	}

	l.logger.Info("transit dataset loaded",
		"routes", len(t.Routes),
		"stops", len(t.Stops),
		"route_stops", len(t.RouteStops),
		"transfer_points", len(t.TransferPoints),
		"fare_bands", len(t.FareStructures),
		"buses", len(t.Fleet),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return t, nil
}

func (l *Loader) loadFile(name string, dest interface{}) error {
	data, err := fs.ReadFile(l.fsys, "data/"+name)
	if err != nil {
		// Directory overrides keep the files at the top level.
		if alt, altErr := fs.ReadFile(l.fsys, name); altErr == nil {
			data = alt
		} else {
			return fmt.Errorf("read %s: %w", name, err)
		}
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	l.logger.Debug("parsed dataset file", "file", name, "bytes", len(data))
	return nil
}

// validateTables runs struct-level validation plus the relational invariants:
// route-stop references resolve, and per route the sequence numbers are unique
// and strictly increasing together with cumulative distance, time and fare.
func (l *Loader) validateTables(t *Tables) error {
	routesByID := make(map[int]domain.BusRoute, len(t.Routes))
	for _, r := range t.Routes {
		if err := l.validate.Struct(r); err != nil {
			return fmt.Errorf("route %d invalid: %w", r.ID, err)
		}
		if _, dup := routesByID[r.ID]; dup {
			return fmt.Errorf("duplicate route id %d", r.ID)
		}
		routesByID[r.ID] = r
	}

	stopsByID := make(map[int]domain.BusStop, len(t.Stops))
	for _, s := range t.Stops {
		if err := l.validate.Struct(s); err != nil {
			return fmt.Errorf("stop %d invalid: %w", s.ID, err)
		}
		if _, dup := stopsByID[s.ID]; dup {
			return fmt.Errorf("duplicate stop id %d", s.ID)
		}
		stopsByID[s.ID] = s
	}

	// Group route-stops per route preserving declaration order, which the
	// fixtures keep sorted by sequence.
	perRoute := make(map[int][]domain.RouteStop)
	for _, rs := range t.RouteStops {
		if err := l.validate.Struct(rs); err != nil {
			return fmt.Errorf("route-stop (%d,%d) invalid: %w", rs.RouteID, rs.StopID, err)
		}
		if _, ok := routesByID[rs.RouteID]; !ok {
			return fmt.Errorf("route-stop references unknown route %d", rs.RouteID)
		}
		if _, ok := stopsByID[rs.StopID]; !ok {
			return fmt.Errorf("route-stop references unknown stop %d", rs.StopID)
		}
		perRoute[rs.RouteID] = append(perRoute[rs.RouteID], rs)
	}
	for routeID, stops := range perRoute {
		for i := 1; i < len(stops); i++ {
			prev, cur := stops[i-1], stops[i]
			if cur.StopSequence <= prev.StopSequence ||
				cur.DistanceFromStartKM <= prev.DistanceFromStartKM ||
				cur.EstimatedTravelTimeMinutes <= prev.EstimatedTravelTimeMinutes ||
				cur.FareFromStart < prev.FareFromStart {
				return fmt.Errorf("route %d: non-monotonic route-stop at sequence %d", routeID, cur.StopSequence)
			}
		}
	}

	for _, tp := range t.TransferPoints {
		if err := l.validate.Struct(tp); err != nil {
			return fmt.Errorf("transfer point %d invalid: %w", tp.StopID, err)
		}
		if _, ok := stopsByID[tp.StopID]; !ok {
			return fmt.Errorf("transfer point references unknown stop %d", tp.StopID)
		}
		for _, routeID := range tp.ConnectingRoutes {
			if _, ok := routesByID[routeID]; !ok {
				return fmt.Errorf("transfer point %d references unknown route %d", tp.StopID, routeID)
			}
		}
	}

	for _, fsr := range t.FareStructures {
		if err := l.validate.Struct(fsr); err != nil {
			return fmt.Errorf("fare band %d invalid: %w", fsr.ID, err)
		}
		if _, ok := routesByID[fsr.RouteID]; !ok {
			return fmt.Errorf("fare band %d references unknown route %d", fsr.ID, fsr.RouteID)
		}
	}

	for _, b := range t.Fleet {
		if err := l.validate.Struct(b); err != nil {
			return fmt.Errorf("bus %s invalid: %w", b.BusNumber, err)
		}
		if _, ok := routesByID[b.RouteID]; !ok {
			return fmt.Errorf("bus %s references unknown route %d", b.BusNumber, b.RouteID)
		}
	}

	return nil
}
