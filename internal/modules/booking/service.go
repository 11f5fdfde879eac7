// README: Booking workflow controller; walks one booking from search to confirmation.
package booking

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"fleetbook/internal/modules/state"
	"fleetbook/internal/modules/views"
	"fleetbook/internal/store"
	"fleetbook/internal/types"
)

var (
	ErrFlowNotFound = errors.New("booking flow not found")
	ErrBadStep      = errors.New("operation not allowed in current step")
	ErrCabGone      = errors.New("cab no longer exists")
	ErrNoMatch      = errors.New("cab does not serve the searched route")
	ErrSeatTaken    = errors.New("seat already booked")
	ErrBadSelection = errors.New("invalid seat selection")
	ErrNotResolved  = errors.New("customer identity not resolved")
)

// Flow is one customer's booking in progress. Criteria and cab are carried
// forward as immutable context once selected; later steps only add to it.
type Flow struct {
	ID       string        `json:"id"`
	Step     Step          `json:"step"`
	Criteria state.Booking `json:"criteria"`
	Cab      state.Cab     `json:"cab"`
	Seats    []string      `json:"seats"`
	Pickup   string        `json:"pickup"`
	Drop     string        `json:"drop"`
	Customer types.ID      `json:"customerId"`
}

// Service drives booking flows against the store. The store is read for
// availability and written exactly once per flow, at payment confirmation.
type Service struct {
	store *store.Store

	mu    sync.Mutex
	flows map[string]*Flow
}

func NewService(st *store.Store) *Service {
	return &Service{store: st, flows: map[string]*Flow{}}
}

func (s *Service) Start() Flow {
	f := &Flow{ID: uuid.NewString(), Step: StepSearching}
	s.mu.Lock()
	s.flows[f.ID] = f
	s.mu.Unlock()
	return *f
}

func (s *Service) Get(id string) (Flow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.flows[id]
	if !ok {
		return Flow{}, ErrFlowNotFound
	}
	return *f, nil
}

// CabOption is one search result: a cab on the requested route with its
// remaining availability for the requested date.
type CabOption struct {
	views.EnrichedCab
	AvailableSeats int `json:"availableSeats"`
}

// Search lists cabs on the route with enough free seats for the criteria.
// Read-only; the flow advances when a cab is selected.
func (s *Service) Search(criteria state.Booking) []CabOption {
	st := s.store.State()
	var out []CabOption
	for _, c := range views.EnrichedCabs(st) {
		if c.From != criteria.From || c.To != criteria.To {
			continue
		}
		free := len(views.AvailableSeats(st, c.Cab, criteria.Date))
		if free < criteria.Seats {
			continue
		}
		out = append(out, CabOption{EnrichedCab: c, AvailableSeats: free})
	}
	// Cheapest first.
	views.SortAscending(out, func(o CabOption) float64 { return float64(o.Price) })
	return out
}

// SelectCab moves searching -> selectingSeats, freezing the criteria and the
// chosen cab as flow context.
func (s *Service) SelectCab(id string, cabID types.ID, criteria state.Booking) (Flow, error) {
	if criteria.Seats <= 0 {
		return Flow{}, fmt.Errorf("%w: requested seat count must be positive", ErrBadSelection)
	}
	cab, ok := s.store.CabByID(cabID)
	if !ok {
		return Flow{}, ErrCabGone
	}
	if cab.From != criteria.From || cab.To != criteria.To {
		return Flow{}, ErrNoMatch
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.flows[id]
	if !ok {
		return Flow{}, ErrFlowNotFound
	}
	if !CanTransition(f.Step, StepSelectingSeats) {
		return Flow{}, fmt.Errorf("%w: %s", ErrBadStep, f.Step)
	}
	f.Step = StepSelectingSeats
	f.Criteria = criteria
	f.Cab = cab
	return *f, nil
}

// ConfirmSeats validates the selection against the cab layout and current
// occupancy, then advances to authentication (or straight to payment when an
// identity is already attached). The occupancy check here is what keeps a
// duplicate seat from ever reaching the reducer.
func (s *Service) ConfirmSeats(id string, seats []string, pickup, drop string) (Flow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.flows[id]
	if !ok {
		return Flow{}, ErrFlowNotFound
	}
	if f.Step != StepSelectingSeats {
		return Flow{}, fmt.Errorf("%w: %s", ErrBadStep, f.Step)
	}
	if len(seats) != f.Criteria.Seats {
		return Flow{}, fmt.Errorf("%w: selected %d of %d requested seats", ErrBadSelection, len(seats), f.Criteria.Seats)
	}
	if pickup == "" || drop == "" {
		return Flow{}, fmt.Errorf("%w: pickup and drop points are required", ErrBadSelection)
	}
	if err := s.checkSeats(f.Cab, f.Criteria.Date, seats); err != nil {
		return Flow{}, err
	}
	f.Seats = append([]string(nil), seats...)
	f.Pickup = pickup
	f.Drop = drop
	if f.Customer != 0 {
		f.Step = StepPaying
	} else {
		f.Step = StepAuthenticating
	}
	return *f, nil
}

func (s *Service) checkSeats(cab state.Cab, date string, seats []string) error {
	layout, ok := state.LayoutFor(cab.Seats)
	if !ok {
		return fmt.Errorf("%w: cab has no seat layout", ErrBadSelection)
	}
	valid := map[string]bool{}
	for _, code := range layout {
		valid[code] = true
	}
	taken := map[string]bool{}
	for _, code := range s.store.Occupancy(cab.ID, date) {
		taken[code] = true
	}
	seen := map[string]bool{}
	for _, code := range seats {
		if !valid[code] {
			return fmt.Errorf("%w: seat %s is not on this cab", ErrBadSelection, code)
		}
		if seen[code] {
			return fmt.Errorf("%w: seat %s selected twice", ErrBadSelection, code)
		}
		seen[code] = true
		if taken[code] {
			return fmt.Errorf("%w: %s", ErrSeatTaken, code)
		}
	}
	return nil
}

// AttachCustomer records an already-resolved identity, letting the flow skip
// the authenticating step.
func (s *Service) AttachCustomer(id string, customerID types.ID) (Flow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.flows[id]
	if !ok {
		return Flow{}, ErrFlowNotFound
	}
	if f.Step == StepConfirmed {
		return Flow{}, fmt.Errorf("%w: %s", ErrBadStep, f.Step)
	}
	f.Customer = customerID
	if f.Step == StepAuthenticating {
		f.Step = StepPaying
	}
	return *f, nil
}

// ResolveCustomer matches an existing customer by phone or signs a new one
// up, then advances to payment.
func (s *Service) ResolveCustomer(ctx context.Context, id string, c state.Customer) (Flow, error) {
	s.mu.Lock()
	f, ok := s.flows[id]
	if !ok {
		s.mu.Unlock()
		return Flow{}, ErrFlowNotFound
	}
	if f.Step != StepAuthenticating {
		s.mu.Unlock()
		return Flow{}, fmt.Errorf("%w: %s", ErrBadStep, f.Step)
	}
	s.mu.Unlock()

	if existing, ok := s.store.State().CustomerByPhone(c.Phone); ok && c.Phone != "" {
		return s.AttachCustomer(id, existing.ID)
	}
	created, err := s.store.CreateCustomer(ctx, c)
	if err != nil {
		return Flow{}, err
	}
	return s.AttachCustomer(id, created.ID)
}

// ConfirmPayment is the single point that writes a trip. It re-reads the
// freshest cab snapshot and occupancy immediately before dispatching, which
// narrows (but cannot close) the window against a sibling instance writing
// the same seats; see the bridge notes on last-write-wins.
func (s *Service) ConfirmPayment(ctx context.Context, id string) (state.Trip, error) {
	s.mu.Lock()
	f, ok := s.flows[id]
	if !ok {
		s.mu.Unlock()
		return state.Trip{}, ErrFlowNotFound
	}
	if f.Step != StepPaying {
		s.mu.Unlock()
		return state.Trip{}, fmt.Errorf("%w: %s", ErrBadStep, f.Step)
	}
	if f.Customer == 0 {
		s.mu.Unlock()
		return state.Trip{}, ErrNotResolved
	}
	flow := *f
	s.mu.Unlock()

	cab, ok := s.store.CabByID(flow.Cab.ID)
	if !ok {
		return state.Trip{}, ErrCabGone
	}
	if err := s.checkSeats(cab, flow.Criteria.Date, flow.Seats); err != nil {
		return state.Trip{}, err
	}

	trip, err := s.store.CreateTrip(ctx, state.Trip{
		CustomerID:    flow.Customer,
		Car:           cab,
		Booking:       flow.Criteria,
		SelectedSeats: flow.Seats,
		Pickup:        flow.Pickup,
		Drop:          flow.Drop,
	})
	if err != nil {
		return state.Trip{}, err
	}

	s.mu.Lock()
	if f, ok := s.flows[id]; ok {
		f.Step = StepConfirmed
	}
	s.mu.Unlock()
	return trip, nil
}

// Back steps the flow one stage backward, discarding only the selections
// made in the step being re-entered; earlier context survives.
func (s *Service) Back(id string) (Flow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.flows[id]
	if !ok {
		return Flow{}, ErrFlowNotFound
	}
	switch f.Step {
	case StepInfo:
		f.Step = StepSearching
	case StepSelectingSeats:
		*f = Flow{ID: f.ID, Step: StepSearching}
	case StepAuthenticating, StepPaying:
		f.Step = StepSelectingSeats
		f.Seats = nil
		f.Pickup = ""
		f.Drop = ""
	default:
		return Flow{}, fmt.Errorf("%w: %s", ErrBadStep, f.Step)
	}
	return *f, nil
}

// OpenInfo takes the side branch from searching.
func (s *Service) OpenInfo(id string) (Flow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.flows[id]
	if !ok {
		return Flow{}, ErrFlowNotFound
	}
	if !CanTransition(f.Step, StepInfo) {
		return Flow{}, fmt.Errorf("%w: %s", ErrBadStep, f.Step)
	}
	f.Step = StepInfo
	return *f, nil
}

// Reset clears all workflow context back to searching. The only exit from
// the confirmed step.
func (s *Service) Reset(id string) (Flow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.flows[id]
	if !ok {
		return Flow{}, ErrFlowNotFound
	}
	*f = Flow{ID: f.ID, Step: StepSearching}
	return *f, nil
}
