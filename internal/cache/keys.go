package cache

import "fmt"

const (
	KeySyncFull  = "sync:full"
	KeyRoutes    = "routes"
	KeyStops     = "stops"
	KeyDiscounts = "fares:discounts"
)

func KeyJourney(fromStopID, toStopID int) string {
	return fmt.Sprintf("journey:%d:%d", fromStopID, toStopID)
}

func KeyRouteStops(routeID int) string {
	return fmt.Sprintf("route:%d:stops", routeID)
}

func KeyRouteFares(routeID int) string {
	return fmt.Sprintf("fares:route:%d", routeID)
}

func KeyStopRoutes(stopID int) string {
	return fmt.Sprintf("stop:%d:routes", stopID)
}
