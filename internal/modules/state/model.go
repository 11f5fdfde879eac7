// README: Booking state aggregate and entity definitions (shape only, no behavior).
package state

import (
	"time"

	"fleetbook/internal/types"
)

// Admin is the seed credential record. Its presence in the persisted blob
// doubles as the structural validity marker on load.
type Admin struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type Location struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}

type Driver struct {
	ID       types.ID `json:"id"`
	Name     string   `json:"name"`
	Phone    string   `json:"phone"`
	Username string   `json:"username"`
	Password string   `json:"password"`
	Role     string   `json:"role"`
}

// Cab is a scheduled route/departure unit, not a physical car. Location and
// Destination are derived from From/To at mutation time and are not
// independently editable.
type Cab struct {
	ID           types.ID    `json:"id"`
	Type         string      `json:"type"`
	Registration string      `json:"registration"`
	From         string      `json:"from"`
	To           string      `json:"to"`
	Price        int64       `json:"price"`
	Seats        int         `json:"seats"`
	DriverID     *types.ID   `json:"driverId"`
	Departure    string      `json:"departure"`
	Location     types.Point `json:"location"`
	Destination  types.Point `json:"destination"`
}

type Customer struct {
	ID    types.ID `json:"id"`
	Name  string   `json:"name"`
	Phone string   `json:"phone"`
	Email string   `json:"email"`
}

// Booking is the search criteria a trip was confirmed against.
type Booking struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Date  string `json:"date"`
	Seats int    `json:"seats"`
}

// Trip embeds a snapshotted copy of the cab, not a reference, so later fleet
// edits never rewrite a confirmed booking's price or route.
type Trip struct {
	ID            types.ID  `json:"id"`
	CustomerID    types.ID  `json:"customerId"`
	Car           Cab       `json:"car"`
	Booking       Booking   `json:"booking"`
	SelectedSeats []string  `json:"selectedSeats"`
	Pickup        string    `json:"pickup"`
	Drop          string    `json:"drop"`
	CreatedAt     time.Time `json:"createdAt"`
}

// State is the single source of truth. Trips are kept most-recent-first.
// Coordinates holds overrides for locations added or moved at runtime; the
// seed locations carry their coordinates inline.
type State struct {
	Admins       []Admin                `json:"admins"`
	Locations    []Location             `json:"locations"`
	PickupPoints map[string][]string    `json:"pickupPoints"`
	Coordinates  map[string]types.Point `json:"coordinates"`
	Drivers      []Driver               `json:"drivers"`
	Cabs         []Cab                  `json:"cabs"`
	Customers    []Customer             `json:"customers"`
	Trips        []Trip                 `json:"trips"`
}

// Clone deep-copies the state. The reducer works on a clone so the caller's
// value is never mutated.
func (st State) Clone() State {
	out := st
	out.Admins = append([]Admin(nil), st.Admins...)
	out.Locations = append([]Location(nil), st.Locations...)
	out.Drivers = append([]Driver(nil), st.Drivers...)
	out.Customers = append([]Customer(nil), st.Customers...)

	out.PickupPoints = make(map[string][]string, len(st.PickupPoints))
	for k, v := range st.PickupPoints {
		out.PickupPoints[k] = append([]string(nil), v...)
	}
	out.Coordinates = make(map[string]types.Point, len(st.Coordinates))
	for k, v := range st.Coordinates {
		out.Coordinates[k] = v
	}

	out.Cabs = make([]Cab, len(st.Cabs))
	for i, c := range st.Cabs {
		out.Cabs[i] = cloneCab(c)
	}
	out.Trips = make([]Trip, len(st.Trips))
	for i, t := range st.Trips {
		t.Car = cloneCab(t.Car)
		t.SelectedSeats = append([]string(nil), t.SelectedSeats...)
		out.Trips[i] = t
	}
	return out
}

func cloneCab(c Cab) Cab {
	if c.DriverID != nil {
		id := *c.DriverID
		c.DriverID = &id
	}
	return c
}

// Redacted returns a clone with every stored credential blanked. Read models
// and broadcast payloads that leave the process go through this; passwords
// are write-only once stored.
func (st State) Redacted() State {
	out := st.Clone()
	for i := range out.Admins {
		out.Admins[i].Password = ""
	}
	for i := range out.Drivers {
		out.Drivers[i].Password = ""
	}
	return out
}

func (st State) LocationByName(name string) (Location, bool) {
	for _, l := range st.Locations {
		if l.Name == name {
			return l, true
		}
	}
	return Location{}, false
}

func (st State) CabByID(id types.ID) (Cab, bool) {
	for _, c := range st.Cabs {
		if c.ID == id {
			return cloneCab(c), true
		}
	}
	return Cab{}, false
}

func (st State) DriverByID(id types.ID) (Driver, bool) {
	for _, d := range st.Drivers {
		if d.ID == id {
			return d, true
		}
	}
	return Driver{}, false
}

func (st State) CustomerByID(id types.ID) (Customer, bool) {
	for _, c := range st.Customers {
		if c.ID == id {
			return c, true
		}
	}
	return Customer{}, false
}

func (st State) CustomerByPhone(phone string) (Customer, bool) {
	for _, c := range st.Customers {
		if c.Phone == phone {
			return c, true
		}
	}
	return Customer{}, false
}
