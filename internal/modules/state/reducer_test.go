// README: Reducer tests (mutations, rejections, cascades, purity).
package state

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"fleetbook/internal/types"
)

func testDriver(id types.ID, username string) Driver {
	return Driver{ID: id, Name: "Karma Bhutia", Phone: "9832011111", Username: username, Password: "secret"}
}

func testCab(id types.ID, from, to string) Cab {
	return Cab{
		ID:           id,
		Type:         "SUV",
		Registration: "SK-01-T-2041",
		From:         from,
		To:           to,
		Price:        350,
		Seats:        10,
		Departure:    "7:30 AM",
	}
}

func mustReduce(t *testing.T, st State, a Action) State {
	t.Helper()
	next, err := Reduce(st, a)
	if err != nil {
		t.Fatalf("Reduce(%T): %v", a, err)
	}
	return next
}

func mustReject(t *testing.T, st State, a Action) {
	t.Helper()
	next, err := Reduce(st, a)
	if !errors.Is(err, ErrRejected) {
		t.Fatalf("Reduce(%T): want rejection, got err=%v", a, err)
	}
	if !reflect.DeepEqual(next, st) {
		t.Fatalf("Reduce(%T): rejected action changed the state", a)
	}
}

func TestReduceDoesNotMutateInput(t *testing.T) {
	st := DefaultState()
	st = mustReduce(t, st, AddDriver{Driver: testDriver(1, "karma")})
	before := st.Clone()

	_ = mustReduce(t, st, AddCab{Cab: testCab(10, "Gangtok", "Siliguri")})
	_ = mustReduce(t, st, DeleteDriver{ID: 1})
	if !reflect.DeepEqual(st, before) {
		t.Fatal("input state was mutated by Reduce")
	}
}

func TestAddCabDerivesRouteCoordinates(t *testing.T) {
	st := DefaultState()
	next := mustReduce(t, st, AddCab{Cab: testCab(10, "Gangtok", "Siliguri")})

	cab, ok := next.CabByID(10)
	if !ok {
		t.Fatal("cab not added")
	}
	gangtok, _ := st.LocationByName("Gangtok")
	siliguri, _ := st.LocationByName("Siliguri")
	if cab.Location.Lat != gangtok.Lat || cab.Location.Lng != gangtok.Lng {
		t.Errorf("origin coordinates not derived: %+v", cab.Location)
	}
	if cab.Destination.Lat != siliguri.Lat || cab.Destination.Lng != siliguri.Lng {
		t.Errorf("destination coordinates not derived: %+v", cab.Destination)
	}
}

func TestAddCabRejections(t *testing.T) {
	st := DefaultState()
	st = mustReduce(t, st, AddDriver{Driver: testDriver(1, "karma")})
	st = mustReduce(t, st, AddDriver{Driver: testDriver(2, "tashi")})
	one := types.ID(1)

	withDriver := testCab(10, "Gangtok", "Siliguri")
	withDriver.DriverID = &one
	st = mustReduce(t, st, AddCab{Cab: withDriver})

	cases := []struct {
		name string
		mut  func(*Cab)
	}{
		{"unknown origin", func(c *Cab) { c.From = "Atlantis" }},
		{"unknown destination", func(c *Cab) { c.To = "Atlantis" }},
		{"zero price", func(c *Cab) { c.Price = 0 }},
		{"negative price", func(c *Cab) { c.Price = -5 }},
		{"bad seat count", func(c *Cab) { c.Seats = 5 }},
		{"unknown driver", func(c *Cab) { id := types.ID(99); c.DriverID = &id }},
		{"driver already assigned", func(c *Cab) { c.DriverID = &one }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cab := testCab(11, "Gangtok", "Pelling")
			tc.mut(&cab)
			mustReject(t, st, AddCab{Cab: cab})
		})
	}
}

func TestUpdateCabReassignsDriver(t *testing.T) {
	st := DefaultState()
	st = mustReduce(t, st, AddDriver{Driver: testDriver(1, "karma")})
	st = mustReduce(t, st, AddCab{Cab: testCab(10, "Gangtok", "Siliguri")})

	updated := testCab(10, "Gangtok", "Darjeeling")
	one := types.ID(1)
	updated.DriverID = &one
	next := mustReduce(t, st, UpdateCab{Cab: updated})

	cab, _ := next.CabByID(10)
	if cab.To != "Darjeeling" {
		t.Errorf("To = %q, want Darjeeling", cab.To)
	}
	darj, _ := st.LocationByName("Darjeeling")
	if cab.Destination.Lat != darj.Lat {
		t.Errorf("destination not re-derived on update")
	}
	if cab.DriverID == nil || *cab.DriverID != 1 {
		t.Errorf("driver not assigned")
	}
	// A cab may keep its own driver across updates.
	_ = mustReduce(t, next, UpdateCab{Cab: updated})
}

func TestDeleteDriverClearsAssignment(t *testing.T) {
	st := DefaultState()
	st = mustReduce(t, st, AddDriver{Driver: testDriver(1, "karma")})
	st = mustReduce(t, st, AddDriver{Driver: testDriver(2, "tashi")})
	one, two := types.ID(1), types.ID(2)

	cabA := testCab(10, "Gangtok", "Siliguri")
	cabA.DriverID = &one
	cabB := testCab(11, "Gangtok", "Pelling")
	cabB.DriverID = &two
	st = mustReduce(t, st, AddCab{Cab: cabA})
	st = mustReduce(t, st, AddCab{Cab: cabB})

	next := mustReduce(t, st, DeleteDriver{ID: 1})

	if _, ok := next.DriverByID(1); ok {
		t.Fatal("driver still present")
	}
	a, _ := next.CabByID(10)
	if a.DriverID != nil {
		t.Errorf("cab 10 should be unassigned, got driver %d", *a.DriverID)
	}
	b, _ := next.CabByID(11)
	if b.DriverID == nil || *b.DriverID != 2 {
		t.Errorf("cab 11's assignment must not be touched")
	}
}

func TestDriverUsernameUnique(t *testing.T) {
	st := DefaultState()
	st = mustReduce(t, st, AddDriver{Driver: testDriver(1, "karma")})
	mustReject(t, st, AddDriver{Driver: testDriver(2, "karma")})

	st = mustReduce(t, st, AddDriver{Driver: testDriver(2, "tashi")})
	taken := testDriver(2, "karma")
	mustReject(t, st, UpdateDriver{Driver: taken})
}

func TestRedactedBlanksCredentials(t *testing.T) {
	st := DefaultState()
	d := testDriver(1, "karma")
	d.Password = "topsecret-credential"
	st = mustReduce(t, st, AddDriver{Driver: d})

	red := st.Redacted()
	if red.Drivers[0].Password != "" {
		t.Errorf("driver password survived redaction: %q", red.Drivers[0].Password)
	}
	if red.Admins[0].Password != "" {
		t.Errorf("admin password survived redaction: %q", red.Admins[0].Password)
	}
	if len(red.Admins) == 0 {
		t.Error("redaction dropped the admins marker")
	}
	if st.Drivers[0].Password != "topsecret-credential" {
		t.Error("redaction mutated the source state")
	}
}

func TestAddLocationRejections(t *testing.T) {
	st := DefaultState()
	cases := []struct {
		name string
		act  AddLocation
	}{
		{"duplicate name", AddLocation{Name: "Gangtok", Position: types.Point{Lat: 1, Lng: 1}}},
		{"empty name", AddLocation{Name: "", Position: types.Point{Lat: 1, Lng: 1}}},
		{"zero coordinates", AddLocation{Name: "Yuksom", Position: types.Point{}}},
		{"latitude out of range", AddLocation{Name: "Yuksom", Position: types.Point{Lat: 123, Lng: 88}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mustReject(t, st, tc.act)
		})
	}

	next := mustReduce(t, st, AddLocation{Name: "Yuksom", Position: types.Point{Lat: 27.3745, Lng: 88.2218}})
	if _, ok := next.LocationByName("Yuksom"); !ok {
		t.Fatal("location not added")
	}
	if _, ok := next.Coordinates["Yuksom"]; !ok {
		t.Error("custom coordinate override not recorded")
	}
}

// TestRenameLocationCascade is the rename scenario: an active trip exists
// with booking.to = "Gangtok" when the location becomes "Gangtok City".
func TestRenameLocationCascade(t *testing.T) {
	st := DefaultState()
	st = mustReduce(t, st, AddCab{Cab: testCab(10, "Siliguri", "Gangtok")})
	st = mustReduce(t, st, AddCustomer{Customer: Customer{ID: 500, Name: "Pema", Phone: "9832022222"}})
	cab, _ := st.CabByID(10)
	st = mustReduce(t, st, AddTrip{Trip: Trip{
		ID:            600,
		CustomerID:    500,
		Car:           cab,
		Booking:       Booking{From: "Siliguri", To: "Gangtok", Date: "2024-06-01", Seats: 2},
		SelectedSeats: []string{"F1", "M1"},
		Pickup:        "SNT Bus Stand",
		Drop:          "Deorali Taxi Stand",
		CreatedAt:     time.Now(),
	}})

	next := mustReduce(t, st, UpdateLocation{Name: "Gangtok", NewName: "Gangtok City"})

	if _, ok := next.LocationByName("Gangtok"); ok {
		t.Fatal("old name still present")
	}
	loc, ok := next.LocationByName("Gangtok City")
	if !ok {
		t.Fatal("new name missing")
	}

	cab, _ = next.CabByID(10)
	if cab.To != "Gangtok City" {
		t.Errorf("cab.To = %q", cab.To)
	}
	if cab.Destination.Lat != loc.Lat || cab.Destination.Lng != loc.Lng {
		t.Errorf("cab destination not re-derived after rename")
	}

	trip := next.Trips[0]
	if trip.Booking.To != "Gangtok City" {
		t.Errorf("trip booking.to = %q", trip.Booking.To)
	}
	if trip.Car.To != "Gangtok City" {
		t.Errorf("trip snapshot to = %q", trip.Car.To)
	}
	if trip.Car.Destination.Lat != loc.Lat {
		t.Errorf("trip snapshot destination not recomputed")
	}

	if _, ok := next.PickupPoints["Gangtok"]; ok {
		t.Error("pickup points still keyed by old name")
	}
	if len(next.PickupPoints["Gangtok City"]) == 0 {
		t.Error("pickup points not migrated to new name")
	}

	// Renaming onto an existing name must be refused.
	mustReject(t, next, UpdateLocation{Name: "Gangtok City", NewName: "Siliguri"})
}

func TestDeleteLocationKeepsStaleReferences(t *testing.T) {
	st := DefaultState()
	st = mustReduce(t, st, AddCab{Cab: testCab(10, "Gangtok", "Pelling")})
	next := mustReduce(t, st, DeleteLocation{Name: "Pelling"})

	if _, ok := next.LocationByName("Pelling"); ok {
		t.Fatal("location not deleted")
	}
	if _, ok := next.PickupPoints["Pelling"]; ok {
		t.Error("pickup points not removed with the location")
	}
	// No cascade: the cab keeps the stale display name.
	cab, _ := next.CabByID(10)
	if cab.To != "Pelling" {
		t.Errorf("cab.To = %q, stale name expected", cab.To)
	}
}

func TestPickupPoints(t *testing.T) {
	st := DefaultState()
	st = mustReduce(t, st, AddPickupPoint{Location: "Namchi", Point: "Solophok Junction"})
	if got := st.PickupPoints["Namchi"]; got[len(got)-1] != "Solophok Junction" {
		t.Errorf("point not appended: %v", got)
	}

	// Duplicate text is allowed; delete removes only the first occurrence.
	st = mustReduce(t, st, AddPickupPoint{Location: "Namchi", Point: "Solophok Junction"})
	st = mustReduce(t, st, DeletePickupPoint{Location: "Namchi", Point: "Solophok Junction"})
	count := 0
	for _, p := range st.PickupPoints["Namchi"] {
		if p == "Solophok Junction" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("expected one remaining occurrence, got %d", count)
	}

	mustReject(t, st, AddPickupPoint{Location: "Atlantis", Point: "Pier 4"})
	mustReject(t, st, DeletePickupPoint{Location: "Namchi", Point: "No Such Point"})

	// The Default key is always a valid target.
	st = mustReduce(t, st, AddPickupPoint{Location: DefaultPickupKey, Point: "Helipad"})
	if got := st.PickupPoints[DefaultPickupKey]; got[len(got)-1] != "Helipad" {
		t.Errorf("default list not extended: %v", got)
	}
}

func TestAddTrip(t *testing.T) {
	st := DefaultState()
	st = mustReduce(t, st, AddCab{Cab: testCab(10, "Gangtok", "Siliguri")})
	st = mustReduce(t, st, AddCustomer{Customer: Customer{ID: 500, Name: "Pema"}})
	cab, _ := st.CabByID(10)

	trip := Trip{
		ID:            600,
		CustomerID:    500,
		Car:           cab,
		Booking:       Booking{From: "Gangtok", To: "Siliguri", Date: "2024-06-01", Seats: 2},
		SelectedSeats: []string{"F1", "M1"},
	}
	st = mustReduce(t, st, AddTrip{Trip: trip})

	second := trip
	second.ID = 601
	second.SelectedSeats = []string{"M2", "B1"}
	st = mustReduce(t, st, AddTrip{Trip: second})

	// Most-recent-first ordering.
	if st.Trips[0].ID != 601 || st.Trips[1].ID != 600 {
		t.Errorf("trips not prepended: %v, %v", st.Trips[0].ID, st.Trips[1].ID)
	}

	bad := trip
	bad.SelectedSeats = []string{"F1"}
	mustReject(t, st, AddTrip{Trip: bad}) // seat count != requested

	bad = trip
	bad.CustomerID = 999
	mustReject(t, st, AddTrip{Trip: bad})

	bad = trip
	bad.Car.ID = 999
	mustReject(t, st, AddTrip{Trip: bad})
}

func TestDeleteCabKeepsTrips(t *testing.T) {
	st := DefaultState()
	st = mustReduce(t, st, AddCab{Cab: testCab(10, "Gangtok", "Siliguri")})
	st = mustReduce(t, st, AddCustomer{Customer: Customer{ID: 500}})
	cab, _ := st.CabByID(10)
	st = mustReduce(t, st, AddTrip{Trip: Trip{
		ID: 600, CustomerID: 500, Car: cab,
		Booking:       Booking{From: "Gangtok", To: "Siliguri", Date: "2024-06-01", Seats: 1},
		SelectedSeats: []string{"F1"},
	}})

	next := mustReduce(t, st, DeleteCab{ID: 10})
	if len(next.Trips) != 1 {
		t.Fatal("historical trip must survive cab deletion")
	}
	if next.Trips[0].Car.Price != 350 {
		t.Error("trip snapshot damaged by cab deletion")
	}
}

func TestResetIdempotence(t *testing.T) {
	st := DefaultState()
	st = mustReduce(t, st, AddDriver{Driver: testDriver(1, "karma")})

	once := mustReduce(t, st, ReplaceState{State: DefaultState()})
	twice := mustReduce(t, once, ReplaceState{State: DefaultState()})
	if !reflect.DeepEqual(once, twice) {
		t.Error("reset is not idempotent")
	}
	if len(twice.Drivers) != 0 {
		t.Error("reset did not clear drivers")
	}
	if len(twice.Admins) == 0 {
		t.Error("reset lost the admins marker")
	}
}
