package service

import (
	"context"
	"fmt"
	"math"
	"time"
)

// Route is the travel estimate between two points.
type Route struct {
	DistanceKm float64
	Duration   time.Duration
}

// Geocoder is the boundary contract to the maps collaborator. It is consumed
// once at order placement to snapshot addresses and the fare basis.
// Implementations must enforce their own timeout and surface failure rather
// than hang the caller.
type Geocoder interface {
	// ResolveAddress returns a formatted address for the coordinates.
	ResolveAddress(ctx context.Context, lat, lng float64) (string, error)

	// ComputeRoute estimates distance and duration between two points.
	ComputeRoute(ctx context.Context, originLat, originLng, destLat, destLng float64) (*Route, error)
}

// HaversineGeocoder is an offline Geocoder that estimates routes from
// great-circle distance. Used when no external maps provider is configured
// and as the deterministic implementation in tests.
type HaversineGeocoder struct {
	// AvgSpeedKmh is the assumed travel speed for duration estimates.
	AvgSpeedKmh float64
}

// NewHaversineGeocoder creates a HaversineGeocoder with a default city speed.
func NewHaversineGeocoder() *HaversineGeocoder {
	return &HaversineGeocoder{AvgSpeedKmh: 25}
}

// ResolveAddress formats the coordinates as an address placeholder.
func (g *HaversineGeocoder) ResolveAddress(ctx context.Context, lat, lng float64) (string, error) {
	return fmt.Sprintf("%.5f, %.5f", lat, lng), nil
}

// ComputeRoute estimates the route using haversine distance with a 1.4 road
// factor.
func (g *HaversineGeocoder) ComputeRoute(ctx context.Context, originLat, originLng, destLat, destLng float64) (*Route, error) {
	distKm := haversineKm(originLat, originLng, destLat, destLng) * 1.4
	speed := g.AvgSpeedKmh
	if speed <= 0 {
		speed = 25
	}
	duration := time.Duration(distKm / speed * float64(time.Hour))
	return &Route{DistanceKm: distKm, Duration: duration}, nil
}

const earthRadiusKm = 6371.0

func haversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180
	dLng := (lng2 - lng1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

// validCoordinates reports whether the pair is a plausible lat/lng.
func validCoordinates(lat, lng float64) bool {
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180 && !(lat == 0 && lng == 0)
}
