// README: Built-in seed data: locations, pickup points, seat layouts, admin marker.
package state

import "fleetbook/internal/types"

// DefaultPickupKey is the fallback pickup/drop list used when a location has
// no explicit points of its own.
const DefaultPickupKey = "Default"

// SeatLayouts maps each permitted seat count to its fixed seat-code layout
// (F = front row, M = middle, B = back).
var SeatLayouts = map[int][]string{
	4:  {"F1", "M1", "M2", "M3"},
	6:  {"F1", "M1", "M2", "B1", "B2", "B3"},
	7:  {"F1", "M1", "M2", "M3", "B1", "B2", "B3"},
	8:  {"F1", "F2", "M1", "M2", "M3", "B1", "B2", "B3"},
	10: {"F1", "F2", "M1", "M2", "M3", "M4", "B1", "B2", "B3", "B4"},
}

// LayoutFor returns a copy of the seat layout for a seat count.
func LayoutFor(seats int) ([]string, bool) {
	layout, ok := SeatLayouts[seats]
	if !ok {
		return nil, false
	}
	return append([]string(nil), layout...), true
}

var builtinLocations = []Location{
	{Name: "Gangtok", Lat: 27.3389, Lng: 88.6065},
	{Name: "Pelling", Lat: 27.3177, Lng: 88.2395},
	{Name: "Lachung", Lat: 27.6909, Lng: 88.7436},
	{Name: "Lachen", Lat: 27.7167, Lng: 88.5500},
	{Name: "Namchi", Lat: 27.1669, Lng: 88.3638},
	{Name: "Ravangla", Lat: 27.3068, Lng: 88.3617},
	{Name: "Darjeeling", Lat: 27.0360, Lng: 88.2627},
	{Name: "Kalimpong", Lat: 27.0594, Lng: 88.4695},
	{Name: "Siliguri", Lat: 26.7271, Lng: 88.3953},
	{Name: "Bagdogra", Lat: 26.6995, Lng: 88.3192},
}

var builtinPickupPoints = map[string][]string{
	DefaultPickupKey: {"Main Taxi Stand", "Bus Stand", "Town Center"},
	"Gangtok":        {"Deorali Taxi Stand", "Vajra Stand", "MG Marg", "Ranipool"},
	"Siliguri":       {"SNT Bus Stand", "Junction Station", "Sevoke More", "City Center"},
	"Bagdogra":       {"Airport Gate", "Bihar More"},
	"Darjeeling":     {"Chowk Bazaar Stand", "Railway Station", "Clubside"},
	"Pelling":        {"Upper Pelling", "Lower Pelling Stand"},
	"Namchi":         {"Central Park Stand", "Bhutia Gaon"},
}

// DefaultState returns a fresh canonical seed state. Every call yields an
// independent deep value, so callers can mutate the result freely.
func DefaultState() State {
	st := State{
		Admins: []Admin{
			{Username: "admin", Password: "admin@123", Role: "admin"},
		},
		Locations:    append([]Location(nil), builtinLocations...),
		PickupPoints: make(map[string][]string, len(builtinPickupPoints)),
		Coordinates:  map[string]types.Point{},
		Drivers:      []Driver{},
		Cabs:         []Cab{},
		Customers:    []Customer{},
		Trips:        []Trip{},
	}
	for k, v := range builtinPickupPoints {
		st.PickupPoints[k] = append([]string(nil), v...)
	}
	return st
}
