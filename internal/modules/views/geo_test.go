package views

import (
	"math"
	"testing"

	"fleetbook/internal/modules/state"
	"fleetbook/internal/types"
)

func TestHaversineKm_KnownDistances(t *testing.T) {
	tests := []struct {
		name      string
		lat1      float64
		lng1      float64
		lat2      float64
		lng2      float64
		wantKm    float64
		tolerance float64
	}{
		{
			name: "same point",
			lat1: 27.3389, lng1: 88.6065,
			lat2:      27.3389, lng2: 88.6065,
			wantKm:    0,
			tolerance: 0.001,
		},
		{
			name: "Gangtok to Siliguri (~71km straight line)",
			lat1: 27.3389, lng1: 88.6065,
			lat2:      26.7271, lng2: 88.3953,
			wantKm:    71,
			tolerance: 5,
		},
		{
			name: "Delhi to Mumbai (~1150km)",
			lat1: 28.6139, lng1: 77.2090,
			lat2:      19.0760, lng2: 72.8777,
			wantKm:    1150,
			tolerance: 30,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := haversineKm(tt.lat1, tt.lng1, tt.lat2, tt.lng2)
			if math.Abs(got-tt.wantKm) > tt.tolerance {
				t.Errorf("haversineKm() = %f, want %f (±%f)", got, tt.wantKm, tt.tolerance)
			}
		})
	}
}

func TestHaversineKm_Symmetry(t *testing.T) {
	d1 := haversineKm(27.0, 88.0, 26.0, 89.0)
	d2 := haversineKm(26.0, 89.0, 27.0, 88.0)
	if math.Abs(d1-d2) > 0.0001 {
		t.Errorf("haversine is not symmetric: %f vs %f", d1, d2)
	}
}

func TestRouteKm(t *testing.T) {
	cab := state.Cab{
		Location:    types.Point{Lat: 27.3389, Lng: 88.6065},
		Destination: types.Point{Lat: 26.7271, Lng: 88.3953},
	}
	if got := RouteKm(cab); math.Abs(got-71) > 5 {
		t.Errorf("RouteKm = %f, want ~71", got)
	}
	// A cab with an unresolved endpoint has no route distance.
	cab.Destination = types.Point{}
	if got := RouteKm(cab); got != 0 {
		t.Errorf("RouteKm with unresolved endpoint = %f, want 0", got)
	}
}

func TestSortAscending(t *testing.T) {
	type fare struct {
		id    string
		price float64
	}
	fares := []fare{
		{id: "c", price: 500},
		{id: "a", price: 250},
		{id: "b", price: 350},
	}

	SortAscending(fares, func(f fare) float64 { return f.price })

	if fares[0].id != "a" || fares[1].id != "b" || fares[2].id != "c" {
		t.Errorf("unexpected sort order: %v", fares)
	}
}
