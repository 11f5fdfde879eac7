// README: Pure derived views over the booking state; recomputed on read, never persisted.
package views

import (
	"fleetbook/internal/modules/state"
	"fleetbook/internal/types"
)

// UnassignedDriver is the display sentinel for cabs with no driver.
const UnassignedDriver = "unassigned"

// BookedSeats returns the set of seat codes already sold for a cab on a
// date, flattened across every trip for that (cab, date) pair.
func BookedSeats(st state.State, cabID types.ID, date string) []string {
	var seats []string
	seen := map[string]bool{}
	for _, t := range st.Trips {
		if t.Car.ID != cabID || t.Booking.Date != date {
			continue
		}
		for _, s := range t.SelectedSeats {
			if !seen[s] {
				seen[s] = true
				seats = append(seats, s)
			}
		}
	}
	return seats
}

// AvailableSeats returns the layout seats not yet booked for (cab, date).
func AvailableSeats(st state.State, cab state.Cab, date string) []string {
	layout, ok := state.LayoutFor(cab.Seats)
	if !ok {
		return nil
	}
	booked := map[string]bool{}
	for _, s := range BookedSeats(st, cab.ID, date) {
		booked[s] = true
	}
	var free []string
	for _, s := range layout {
		if !booked[s] {
			free = append(free, s)
		}
	}
	return free
}

// EnrichedCab joins a cab with its driver's display name and the
// straight-line route distance.
type EnrichedCab struct {
	state.Cab
	DriverName string  `json:"driverName"`
	RouteKm    float64 `json:"routeKm"`
}

func EnrichedCabs(st state.State) []EnrichedCab {
	out := make([]EnrichedCab, 0, len(st.Cabs))
	for _, c := range st.Cabs {
		name := UnassignedDriver
		if c.DriverID != nil {
			if d, ok := st.DriverByID(*c.DriverID); ok {
				name = d.Name
			}
		}
		out = append(out, EnrichedCab{Cab: c, DriverName: name, RouteKm: RouteKm(c)})
	}
	return out
}

// Stats is the fleet-wide aggregate for the admin dashboard. Revenue uses
// each trip's snapshotted price, not the live cab price.
type Stats struct {
	Trips       int         `json:"trips"`
	Revenue     types.Money `json:"revenue"`
	BookedSeats int         `json:"bookedSeats"`
	TotalSeats  int         `json:"totalSeats"`
	Cabs        int         `json:"cabs"`
	Drivers     int         `json:"drivers"`
}

func FleetStats(st state.State) Stats {
	s := Stats{Cabs: len(st.Cabs), Drivers: len(st.Drivers), Trips: len(st.Trips)}
	var revenue int64
	for _, t := range st.Trips {
		revenue += t.Car.Price * int64(len(t.SelectedSeats))
		s.BookedSeats += len(t.SelectedSeats)
	}
	for _, c := range st.Cabs {
		s.TotalSeats += c.Seats
	}
	s.Revenue = types.Rupees(revenue)
	return s
}

// DriverTrips lists trips on the cab currently assigned to the driver. It
// reflects the current assignment only, not who drove at booking time.
func DriverTrips(st state.State, driverID types.ID) []state.Trip {
	var cabID types.ID
	found := false
	for _, c := range st.Cabs {
		if c.DriverID != nil && *c.DriverID == driverID {
			cabID = c.ID
			found = true
			break
		}
	}
	if !found {
		return nil
	}
	var trips []state.Trip
	for _, t := range st.Trips {
		if t.Car.ID == cabID {
			trips = append(trips, t)
		}
	}
	return trips
}

// ManifestRow is one physical departure: every trip on the same cab, route,
// and departure time for the requested date, with the passenger roll-up.
type ManifestRow struct {
	CabID      types.ID    `json:"cabId"`
	From       string      `json:"from"`
	To         string      `json:"to"`
	Departure  string      `json:"departure"`
	Passengers []string    `json:"passengers"`
	Seats      []string    `json:"seats"`
	Revenue    types.Money `json:"revenue"`
}

type journeyKey struct {
	cabID     types.ID
	from, to  string
	departure string
}

// JourneyManifest groups the date's trips into one row per departure.
// Row order follows first appearance in the trip list.
func JourneyManifest(st state.State, date string) []ManifestRow {
	index := map[journeyKey]int{}
	var rows []ManifestRow
	for _, t := range st.Trips {
		if t.Booking.Date != date {
			continue
		}
		key := journeyKey{cabID: t.Car.ID, from: t.Car.From, to: t.Car.To, departure: t.Car.Departure}
		i, ok := index[key]
		if !ok {
			i = len(rows)
			index[key] = i
			rows = append(rows, ManifestRow{
				CabID:     t.Car.ID,
				From:      t.Car.From,
				To:        t.Car.To,
				Departure: t.Car.Departure,
				Revenue:   types.Rupees(0),
			})
		}
		passenger := ""
		if c, ok := st.CustomerByID(t.CustomerID); ok {
			passenger = c.Name
		}
		rows[i].Passengers = append(rows[i].Passengers, passenger)
		rows[i].Seats = append(rows[i].Seats, t.SelectedSeats...)
		rows[i].Revenue.Amount += t.Car.Price * int64(len(t.SelectedSeats))
	}
	return rows
}

// PickupPointsFor returns the location's own points or the default list.
func PickupPointsFor(st state.State, location string) []string {
	if points, ok := st.PickupPoints[location]; ok && len(points) > 0 {
		return points
	}
	return st.PickupPoints[state.DefaultPickupKey]
}
