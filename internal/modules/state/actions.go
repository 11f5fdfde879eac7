// README: Closed set of reducer actions; every mutation is one of these.
package state

import "fleetbook/internal/types"

// Action is the sealed mutation variant accepted by Reduce. The isAction
// marker keeps the set closed to this package's types.
type Action interface {
	isAction()
}

// ReplaceState unconditionally swaps in the given state. Used for the full
// reset and for incoming cross-instance sync.
type ReplaceState struct {
	State State
}

type AddCab struct {
	Cab Cab
}

type UpdateCab struct {
	Cab Cab
}

type DeleteCab struct {
	ID types.ID
}

type AddDriver struct {
	Driver Driver
}

type UpdateDriver struct {
	Driver Driver
}

type DeleteDriver struct {
	ID types.ID
}

type AddLocation struct {
	Name     string
	Position types.Point
}

// UpdateLocation renames a location and/or moves its coordinates. A zero
// Position keeps the existing coordinates.
type UpdateLocation struct {
	Name     string
	NewName  string
	Position types.Point
}

type DeleteLocation struct {
	Name string
}

type AddPickupPoint struct {
	Location string
	Point    string
}

type DeletePickupPoint struct {
	Location string
	Point    string
}

type AddCustomer struct {
	Customer Customer
}

type AddTrip struct {
	Trip Trip
}

func (ReplaceState) isAction()      {}
func (AddCab) isAction()            {}
func (UpdateCab) isAction()         {}
func (DeleteCab) isAction()         {}
func (AddDriver) isAction()         {}
func (UpdateDriver) isAction()      {}
func (DeleteDriver) isAction()      {}
func (AddLocation) isAction()       {}
func (UpdateLocation) isAction()    {}
func (DeleteLocation) isAction()    {}
func (AddPickupPoint) isAction()    {}
func (DeletePickupPoint) isAction() {}
func (AddCustomer) isAction()       {}
func (AddTrip) isAction()           {}
