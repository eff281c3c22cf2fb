package order

import (
	"fmt"

	"marketplace/internal/pkg/errs"
)

// Status represents the lifecycle state of an order.
// It implements a state machine with a fixed transition table; every status
// change in the system goes through TransitionTo, which rejects any edge not
// present in the table.
//
// State transitions:
//
//	pending ──> confirmed ──> preparing ──> ready ──> assigned ──> picked_up ──> in_transit ──> delivered
//	   │            │             │           │           │             │             │
//	   ├─> rejected └─────────────┴───────────┴───────────┴─────────────┴─────> cancelled
//
// delivered, cancelled and rejected are terminal: no further transitions are
// allowed once an order reaches one of them.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Pending is the initial status of every newly created order.
	Pending

	// Confirmed indicates the vendor has accepted the order.
	Confirmed

	// Preparing indicates the vendor is preparing the order.
	Preparing

	// Ready indicates the order is ready for pickup and can be assigned to a courier.
	Ready

	// Assigned indicates a courier has been assigned to the order.
	Assigned

	// PickedUp indicates the courier has collected the order from the vendor.
	PickedUp

	// InTransit indicates the order is on its way to the customer.
	InTransit

	// Delivered is the successful terminal status. Reaching it unlocks rating.
	Delivered

	// Cancelled is the terminal status for orders cancelled by any actor.
	Cancelled

	// Rejected is the terminal status for orders declined by the vendor
	// before confirmation.
	Rejected
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:   "unknown",
		Pending:   "pending",
		Confirmed: "confirmed",
		Preparing: "preparing",
		Ready:     "ready",
		Assigned:  "assigned",
		PickedUp:  "picked_up",
		InTransit: "in_transit",
		Delivered: "delivered",
		Cancelled: "cancelled",
		Rejected:  "rejected",
	}
}

// transitions is the fixed table of legal status edges. Any transition request
// naming a destination not listed for the current status fails with a conflict.
func transitions() map[Status][]Status {
	return map[Status][]Status{
		Pending:   {Confirmed, Rejected, Cancelled},
		Confirmed: {Preparing, Cancelled},
		Preparing: {Ready, Cancelled},
		Ready:     {Assigned, Cancelled},
		Assigned:  {PickedUp, Cancelled},
		PickedUp:  {InTransit, Cancelled},
		InTransit: {Delivered, Cancelled},
		Delivered: {},
		Cancelled: {},
		Rejected:  {},
	}
}

// StatusFromString parses a status name as used on API surfaces and in storage.
func StatusFromString(s string) (Status, error) {
	for status, name := range getStatusStrings() {
		if name == s && status != Unknown {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status",
		fmt.Errorf("%q is not a valid status", s))
}

// Validate checks that the Status is one of the defined lifecycle states.
func (s Status) Validate() error {
	if _, ok := transitions()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the lowercase name of the status.
// It implements the fmt.Stringer interface and is safe on any value.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// IsTerminal reports whether the status permits no further transitions.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Cancelled || s == Rejected
}

// CanTransitionTo reports whether the edge (s, to) is in the transition table.
func (s Status) CanTransitionTo(to Status) bool {
	for _, allowed := range transitions()[s] {
		if allowed == to {
			return true
		}
	}
	return false
}

// TransitionTo validates the edge (s, to) against the transition table and
// returns the destination status. An illegal edge yields a conflict error and
// leaves the caller's state untouched.
func (s Status) TransitionTo(to Status) (Status, error) {
	if err := s.Validate(); err != nil {
		return Unknown, err
	}
	if err := to.Validate(); err != nil {
		return Unknown, err
	}

	if !s.CanTransitionTo(to) {
		return Unknown, errs.NewConflictErrorWithCause("conflicting order status",
			fmt.Errorf("cannot transition from %s to %s", s, to))
	}

	return to, nil
}
