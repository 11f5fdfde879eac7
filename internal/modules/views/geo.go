// README: Geographic helpers; haversine route distance and a small generic sort.
package views

import (
	"math"

	"fleetbook/internal/modules/state"
)

const earthRadiusKm = 6371.0

// haversineKm gives the great-circle distance between two decimal-degree
// coordinate pairs, in kilometres.
func haversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := degreesToRadians(lat2 - lat1)
	dLng := degreesToRadians(lng2 - lng1)

	rLat1 := degreesToRadians(lat1)
	rLat2 := degreesToRadians(lat2)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rLat1)*math.Cos(rLat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

func degreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}

// RouteKm is the straight-line distance of a cab's route, from its derived
// origin to its derived destination. Zero when either end is unresolved.
func RouteKm(c state.Cab) float64 {
	if c.Location.Zero() || c.Destination.Zero() {
		return 0
	}
	return haversineKm(c.Location.Lat, c.Location.Lng, c.Destination.Lat, c.Destination.Lng)
}

// SortAscending orders a slice in place by the key the accessor reports.
// Insertion sort; the slices here are fleet-sized.
func SortAscending[T any](items []T, key func(T) float64) {
	for i := 1; i < len(items); i++ {
		item := items[i]
		j := i - 1
		for j >= 0 && key(items[j]) > key(item) {
			items[j+1] = items[j]
			j--
		}
		items[j+1] = item
	}
}
