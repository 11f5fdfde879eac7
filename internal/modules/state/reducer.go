// README: Pure mutation reducer; (State, Action) -> State, rejections leave state unchanged.
package state

import (
	"errors"
	"fmt"

	"fleetbook/internal/types"
)

// ErrRejected wraps every validation rejection. The wrapped message is the
// caller-visible reason text; the input state is returned unchanged.
var ErrRejected = errors.New("rejected")

func rejectf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrRejected, fmt.Sprintf(format, args...))
}

// Reduce applies one action and returns the next state. It never mutates its
// input, performs no I/O, and never panics on a well-formed action: semantic
// failures come back as ErrRejected with the original state.
func Reduce(st State, a Action) (State, error) {
	switch act := a.(type) {
	case ReplaceState:
		return act.State.Clone(), nil
	case AddCab:
		return addCab(st, act.Cab)
	case UpdateCab:
		return updateCab(st, act.Cab)
	case DeleteCab:
		return deleteCab(st, act.ID)
	case AddDriver:
		return addDriver(st, act.Driver)
	case UpdateDriver:
		return updateDriver(st, act.Driver)
	case DeleteDriver:
		return deleteDriver(st, act.ID)
	case AddLocation:
		return addLocation(st, act.Name, act.Position)
	case UpdateLocation:
		return updateLocation(st, act.Name, act.NewName, act.Position)
	case DeleteLocation:
		return deleteLocation(st, act.Name)
	case AddPickupPoint:
		return addPickupPoint(st, act.Location, act.Point)
	case DeletePickupPoint:
		return deletePickupPoint(st, act.Location, act.Point)
	case AddCustomer:
		next := st.Clone()
		next.Customers = append(next.Customers, act.Customer)
		return next, nil
	case AddTrip:
		return addTrip(st, act.Trip)
	default:
		return st, rejectf("unknown action %T", a)
	}
}

func validateCab(st State, c Cab, selfID types.ID) error {
	if _, ok := st.LocationByName(c.From); !ok {
		return rejectf("unknown origin %q", c.From)
	}
	if _, ok := st.LocationByName(c.To); !ok {
		return rejectf("unknown destination %q", c.To)
	}
	if c.Price <= 0 {
		return rejectf("price must be a positive amount")
	}
	if _, ok := SeatLayouts[c.Seats]; !ok {
		return rejectf("unsupported seat count %d", c.Seats)
	}
	if c.DriverID != nil {
		if _, ok := st.DriverByID(*c.DriverID); !ok {
			return rejectf("unknown driver %d", *c.DriverID)
		}
		for _, other := range st.Cabs {
			if other.ID == selfID || other.DriverID == nil {
				continue
			}
			if *other.DriverID == *c.DriverID {
				return rejectf("driver %d is already assigned to cab %d", *c.DriverID, other.ID)
			}
		}
	}
	return nil
}

// deriveRoute stamps the cab's coordinates from its current from/to names.
func deriveRoute(st State, c *Cab) {
	if loc, ok := st.LocationByName(c.From); ok {
		c.Location = types.Point{Lat: loc.Lat, Lng: loc.Lng}
	}
	if loc, ok := st.LocationByName(c.To); ok {
		c.Destination = types.Point{Lat: loc.Lat, Lng: loc.Lng}
	}
}

func addCab(st State, c Cab) (State, error) {
	if err := validateCab(st, c, c.ID); err != nil {
		return st, err
	}
	next := st.Clone()
	deriveRoute(next, &c)
	next.Cabs = append(next.Cabs, c)
	return next, nil
}

func updateCab(st State, c Cab) (State, error) {
	idx := -1
	for i := range st.Cabs {
		if st.Cabs[i].ID == c.ID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return st, rejectf("unknown cab %d", c.ID)
	}
	if err := validateCab(st, c, c.ID); err != nil {
		return st, err
	}
	next := st.Clone()
	deriveRoute(next, &c)
	next.Cabs[idx] = c
	return next, nil
}

// deleteCab removes the cab only; historical trips keep their snapshot.
func deleteCab(st State, id types.ID) (State, error) {
	idx := -1
	for i := range st.Cabs {
		if st.Cabs[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return st, rejectf("unknown cab %d", id)
	}
	next := st.Clone()
	next.Cabs = append(next.Cabs[:idx], next.Cabs[idx+1:]...)
	return next, nil
}

func addDriver(st State, d Driver) (State, error) {
	if d.Username == "" {
		return st, rejectf("driver username is required")
	}
	for _, other := range st.Drivers {
		if other.Username == d.Username {
			return st, rejectf("username %q is taken", d.Username)
		}
	}
	d.Role = "driver"
	next := st.Clone()
	next.Drivers = append(next.Drivers, d)
	return next, nil
}

func updateDriver(st State, d Driver) (State, error) {
	idx := -1
	for i := range st.Drivers {
		if st.Drivers[i].ID == d.ID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return st, rejectf("unknown driver %d", d.ID)
	}
	for _, other := range st.Drivers {
		if other.ID != d.ID && other.Username == d.Username {
			return st, rejectf("username %q is taken", d.Username)
		}
	}
	d.Role = "driver"
	next := st.Clone()
	next.Drivers[idx] = d
	return next, nil
}

// deleteDriver clears the assignment on any cab driven by the deleted
// driver; the cab itself stays in the fleet.
func deleteDriver(st State, id types.ID) (State, error) {
	idx := -1
	for i := range st.Drivers {
		if st.Drivers[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return st, rejectf("unknown driver %d", id)
	}
	next := st.Clone()
	next.Drivers = append(next.Drivers[:idx], next.Drivers[idx+1:]...)
	for i := range next.Cabs {
		if next.Cabs[i].DriverID != nil && *next.Cabs[i].DriverID == id {
			next.Cabs[i].DriverID = nil
		}
	}
	return next, nil
}

func validPosition(p types.Point) bool {
	if p.Zero() {
		return false
	}
	return p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180
}

func addLocation(st State, name string, pos types.Point) (State, error) {
	if name == "" {
		return st, rejectf("location name is required")
	}
	if _, ok := st.LocationByName(name); ok {
		return st, rejectf("location %q already exists", name)
	}
	if !validPosition(pos) {
		return st, rejectf("location %q needs valid coordinates", name)
	}
	next := st.Clone()
	next.Locations = append(next.Locations, Location{Name: name, Lat: pos.Lat, Lng: pos.Lng})
	next.Coordinates[name] = pos
	return next, nil
}

// updateLocation renames and/or moves a location. A rename cascades to the
// pickup-point table, the coordinate overrides, every cab route, and every
// trip's embedded car and booking fields, re-deriving coordinates as it goes.
func updateLocation(st State, name, newName string, pos types.Point) (State, error) {
	idx := -1
	for i := range st.Locations {
		if st.Locations[i].Name == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return st, rejectf("unknown location %q", name)
	}
	if newName == "" {
		newName = name
	}
	if newName != name {
		if _, ok := st.LocationByName(newName); ok {
			return st, rejectf("location %q already exists", newName)
		}
	}
	if !pos.Zero() && !validPosition(pos) {
		return st, rejectf("location %q needs valid coordinates", newName)
	}

	next := st.Clone()
	loc := next.Locations[idx]
	loc.Name = newName
	if !pos.Zero() {
		loc.Lat, loc.Lng = pos.Lat, pos.Lng
	}
	next.Locations[idx] = loc

	if newName != name {
		if points, ok := next.PickupPoints[name]; ok {
			next.PickupPoints[newName] = points
			delete(next.PickupPoints, name)
		}
		delete(next.Coordinates, name)
	}
	if _, builtin := builtinByName(newName); !builtin || !pos.Zero() {
		next.Coordinates[newName] = types.Point{Lat: loc.Lat, Lng: loc.Lng}
	}

	for i := range next.Cabs {
		c := &next.Cabs[i]
		if c.From == name {
			c.From = newName
		}
		if c.To == name {
			c.To = newName
		}
		deriveRoute(next, c)
	}
	for i := range next.Trips {
		t := &next.Trips[i]
		if t.Booking.From == name {
			t.Booking.From = newName
		}
		if t.Booking.To == name {
			t.Booking.To = newName
		}
		if t.Car.From == name {
			t.Car.From = newName
		}
		if t.Car.To == name {
			t.Car.To = newName
		}
		deriveRoute(next, &t.Car)
	}
	return next, nil
}

func builtinByName(name string) (Location, bool) {
	for _, l := range builtinLocations {
		if l.Name == name {
			return l, true
		}
	}
	return Location{}, false
}

// deleteLocation does not rewrite cabs or trips still naming the location;
// they keep the stale display string.
func deleteLocation(st State, name string) (State, error) {
	idx := -1
	for i := range st.Locations {
		if st.Locations[i].Name == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return st, rejectf("unknown location %q", name)
	}
	next := st.Clone()
	next.Locations = append(next.Locations[:idx], next.Locations[idx+1:]...)
	delete(next.PickupPoints, name)
	delete(next.Coordinates, name)
	return next, nil
}

func pickupKeyKnown(st State, key string) bool {
	if key == DefaultPickupKey {
		return true
	}
	_, ok := st.LocationByName(key)
	return ok
}

func addPickupPoint(st State, location, point string) (State, error) {
	if point == "" {
		return st, rejectf("pickup point text is required")
	}
	if !pickupKeyKnown(st, location) {
		return st, rejectf("unknown location %q", location)
	}
	next := st.Clone()
	next.PickupPoints[location] = append(next.PickupPoints[location], point)
	return next, nil
}

// deletePickupPoint removes the first occurrence; point text is not unique.
func deletePickupPoint(st State, location, point string) (State, error) {
	if !pickupKeyKnown(st, location) {
		return st, rejectf("unknown location %q", location)
	}
	points := st.PickupPoints[location]
	idx := -1
	for i, p := range points {
		if p == point {
			idx = i
			break
		}
	}
	if idx < 0 {
		return st, rejectf("no pickup point %q under %q", point, location)
	}
	next := st.Clone()
	next.PickupPoints[location] = append(points[:idx:idx], points[idx+1:]...)
	return next, nil
}

// addTrip prepends the trip (most-recent-first). It checks structural
// references and the seat-count match only; seat uniqueness against
// concurrent trips is the workflow layer's re-read discipline, not
// re-checked here.
func addTrip(st State, t Trip) (State, error) {
	if _, ok := st.CustomerByID(t.CustomerID); !ok {
		return st, rejectf("unknown customer %d", t.CustomerID)
	}
	if _, ok := st.CabByID(t.Car.ID); !ok {
		return st, rejectf("unknown cab %d", t.Car.ID)
	}
	if len(t.SelectedSeats) != t.Booking.Seats {
		return st, rejectf("selected %d seats for a %d-seat booking", len(t.SelectedSeats), t.Booking.Seats)
	}
	next := st.Clone()
	next.Trips = append([]Trip{t}, next.Trips...)
	return next, nil
}
