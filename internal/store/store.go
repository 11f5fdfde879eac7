// README: Store owns the single State value and exposes the command/query API.
package store

import (
	"context"
	"log"
	"sync"
	"time"

	"fleetbook/internal/modules/state"
	"fleetbook/internal/modules/views"
	"fleetbook/internal/types"
)

// Persister makes the state durable after every successful mutation. A nil
// persister is valid (tests, ephemeral instances).
type Persister interface {
	Save(ctx context.Context, st state.State) error
}

// Listener observes every state change, local or synced. Called with a
// private clone, in dispatch order, on the mutating goroutine.
type Listener func(st state.State)

// Store serializes all writes through one mutex: the reducer owns every
// mutation, and no two mutations overlap within one instance. Cross-instance
// writes arrive through ApplySync and follow last-write-wins.
type Store struct {
	mu        sync.Mutex
	st        state.State
	persister Persister
	listeners []Listener
	lastID    types.ID
	now       func() time.Time
}

func New(initial state.State, p Persister) *Store {
	return &Store{st: initial.Clone(), persister: p, now: time.Now}
}

// SetClock overrides the timestamp source used for id generation.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// Subscribe registers a change listener. Not safe to call concurrently with
// dispatches; wire listeners during startup.
func (s *Store) Subscribe(fn Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// nextID derives a monotonic-ish id from the clock: wall millis, bumped past
// the previous id when two entities land in the same millisecond.
func (s *Store) nextID() types.ID {
	id := types.ID(s.now().UnixMilli())
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}

// dispatch runs one action through the reducer under the write lock. A
// persistence failure is logged, not rolled back: the in-memory state is
// authoritative and the next successful save catches up.
func (s *Store) dispatch(ctx context.Context, a state.Action) (state.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := state.Reduce(s.st, a)
	if err != nil {
		return state.State{}, err
	}
	s.st = next
	if s.persister != nil {
		if err := s.persister.Save(ctx, s.st); err != nil {
			log.Printf("store: persist failed: %v", err)
		}
	}
	s.notify()
	return s.st.Clone(), nil
}

func (s *Store) notify() {
	for _, fn := range s.listeners {
		fn(s.st.Clone())
	}
}

// ApplySync adopts a state written by a sibling instance. It replaces local
// state without re-persisting, so adopted writes do not echo back out.
func (s *Store) ApplySync(st state.State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := state.Reduce(s.st, state.ReplaceState{State: st})
	if err != nil {
		return
	}
	s.st = next
	s.notify()
}

// --- commands (§ store API) ---

func (s *Store) CreateCab(ctx context.Context, c state.Cab) (state.Cab, error) {
	s.mu.Lock()
	c.ID = s.nextID()
	s.mu.Unlock()
	next, err := s.dispatch(ctx, state.AddCab{Cab: c})
	if err != nil {
		return state.Cab{}, err
	}
	cab, _ := next.CabByID(c.ID)
	return cab, nil
}

func (s *Store) UpdateCab(ctx context.Context, c state.Cab) error {
	_, err := s.dispatch(ctx, state.UpdateCab{Cab: c})
	return err
}

func (s *Store) DeleteCab(ctx context.Context, id types.ID) error {
	_, err := s.dispatch(ctx, state.DeleteCab{ID: id})
	return err
}

func (s *Store) CreateDriver(ctx context.Context, d state.Driver) (state.Driver, error) {
	s.mu.Lock()
	d.ID = s.nextID()
	s.mu.Unlock()
	if _, err := s.dispatch(ctx, state.AddDriver{Driver: d}); err != nil {
		return state.Driver{}, err
	}
	d.Role = "driver"
	return d, nil
}

func (s *Store) UpdateDriver(ctx context.Context, d state.Driver) error {
	_, err := s.dispatch(ctx, state.UpdateDriver{Driver: d})
	return err
}

func (s *Store) DeleteDriver(ctx context.Context, id types.ID) error {
	_, err := s.dispatch(ctx, state.DeleteDriver{ID: id})
	return err
}

func (s *Store) CreateLocation(ctx context.Context, name string, pos types.Point) error {
	_, err := s.dispatch(ctx, state.AddLocation{Name: name, Position: pos})
	return err
}

func (s *Store) UpdateLocation(ctx context.Context, name, newName string, pos types.Point) error {
	_, err := s.dispatch(ctx, state.UpdateLocation{Name: name, NewName: newName, Position: pos})
	return err
}

func (s *Store) DeleteLocation(ctx context.Context, name string) error {
	_, err := s.dispatch(ctx, state.DeleteLocation{Name: name})
	return err
}

func (s *Store) AddPickupPoint(ctx context.Context, location, point string) error {
	_, err := s.dispatch(ctx, state.AddPickupPoint{Location: location, Point: point})
	return err
}

func (s *Store) DeletePickupPoint(ctx context.Context, location, point string) error {
	_, err := s.dispatch(ctx, state.DeletePickupPoint{Location: location, Point: point})
	return err
}

func (s *Store) CreateCustomer(ctx context.Context, c state.Customer) (state.Customer, error) {
	s.mu.Lock()
	c.ID = s.nextID()
	s.mu.Unlock()
	if _, err := s.dispatch(ctx, state.AddCustomer{Customer: c}); err != nil {
		return state.Customer{}, err
	}
	return c, nil
}

// CreateTrip stamps the id and timestamp and appends the trip. The caller
// (the booking workflow) is responsible for having re-read occupancy first.
func (s *Store) CreateTrip(ctx context.Context, t state.Trip) (state.Trip, error) {
	s.mu.Lock()
	t.ID = s.nextID()
	t.CreatedAt = s.now()
	s.mu.Unlock()
	if _, err := s.dispatch(ctx, state.AddTrip{Trip: t}); err != nil {
		return state.Trip{}, err
	}
	return t, nil
}

// Reset swaps the canonical seed state back in.
func (s *Store) Reset(ctx context.Context) error {
	_, err := s.dispatch(ctx, state.ReplaceState{State: state.DefaultState()})
	return err
}

// --- queries ---

// State returns a clone of the current state.
func (s *Store) State() state.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.Clone()
}

func (s *Store) CabByID(id types.ID) (state.Cab, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.CabByID(id)
}

// Occupancy is the booked-seat set for (cab, date).
func (s *Store) Occupancy(cabID types.ID, date string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return views.BookedSeats(s.st, cabID, date)
}

func (s *Store) DriverTrips(driverID types.ID) []state.Trip {
	s.mu.Lock()
	defer s.mu.Unlock()
	return views.DriverTrips(s.st, driverID)
}

// CustomerBundle is the read model for the customer-facing flow.
type CustomerBundle struct {
	Locations    []state.Location    `json:"locations"`
	PickupPoints map[string][]string `json:"pickupPoints"`
	Cabs         []views.EnrichedCab `json:"cabs"`
	Trips        []state.Trip        `json:"trips"`
	Customers    []state.Customer    `json:"customers"`
}

func (s *Store) CustomerView() CustomerBundle {
	st := s.State()
	return CustomerBundle{
		Locations:    st.Locations,
		PickupPoints: st.PickupPoints,
		Cabs:         views.EnrichedCabs(st),
		Trips:        st.Trips,
		Customers:    st.Customers,
	}
}

// AdminBundle is the read model for the admin dashboard: every entity plus
// the fleet statistics.
type AdminBundle struct {
	Locations    []state.Location    `json:"locations"`
	PickupPoints map[string][]string `json:"pickupPoints"`
	Drivers      []state.Driver      `json:"drivers"`
	Cabs         []views.EnrichedCab `json:"cabs"`
	Trips        []state.Trip        `json:"trips"`
	Customers    []state.Customer    `json:"customers"`
	Stats        views.Stats         `json:"stats"`
}

// AdminView builds the dashboard bundle. Driver credentials are blanked on
// the way out; they stay verbatim in the state itself.
func (s *Store) AdminView() AdminBundle {
	st := s.State().Redacted()
	return AdminBundle{
		Locations:    st.Locations,
		PickupPoints: st.PickupPoints,
		Drivers:      st.Drivers,
		Cabs:         views.EnrichedCabs(st),
		Trips:        st.Trips,
		Customers:    st.Customers,
		Stats:        views.FleetStats(st),
	}
}

// Manifest groups the date's trips into one row per physical departure.
func (s *Store) Manifest(date string) []views.ManifestRow {
	s.mu.Lock()
	defer s.mu.Unlock()
	return views.JourneyManifest(s.st, date)
}
