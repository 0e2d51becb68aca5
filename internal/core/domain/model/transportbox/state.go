package transportbox

import (
	"fmt"
	"strings"

	"heblo/internal/pkg/errs"
)

// State is the lifecycle state of a transport box.
type State int

const (
	// Unknown represents an undefined state and catches uninitialized values.
	Unknown State = iota

	// New is the initial state: no code and no items.
	New

	// Opened means the box has a code and is being packed.
	Opened

	// InTransit means the box left the warehouse.
	InTransit

	// Received means the box arrived and waits for stock-up processing.
	Received

	// Stocked means the box contents were added to the stock.
	Stocked

	// Closed is the terminal state.
	Closed

	// Error is the recoverable side state for failed post-processing.
	Error

	// Reserve means the box is parked at a warehouse location.
	Reserve
)

var stateNames = map[State]string{
	New:       "New",
	Opened:    "Opened",
	InTransit: "InTransit",
	Received:  "Received",
	Stocked:   "Stocked",
	Closed:    "Closed",
	Error:     "Error",
	Reserve:   "Reserve",
}

// States returns all valid states in declaration order.
func States() []State {
	return []State{New, Opened, InTransit, Received, Stocked, Closed, Error, Reserve}
}

// ParseState converts a state name into a State. Matching is case-insensitive.
//
// Example:
//
//	s, err := transportbox.ParseState("intransit")
//	// s == transportbox.InTransit
func ParseState(name string) (State, error) {
	trimmed := strings.TrimSpace(name)
	for s, n := range stateNames {
		if strings.EqualFold(n, trimmed) {
			return s, nil
		}
	}

	return Unknown, errs.NewValueIsInvalidErrorWithCause(
		"state is invalid",
		fmt.Errorf("%q is not a valid state", name),
	)
}

// Validate checks if the State value is one of the defined states.
func (s State) Validate() error {
	if _, ok := stateNames[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("state is invalid", fmt.Errorf("%d is not a valid state", s))
	}
	return nil
}

// String returns the state name, or "Unknown" for undefined values.
func (s State) String() string {
	if n, ok := stateNames[s]; ok {
		return n
	}
	return "Unknown"
}

// AllowsItemChanges reports whether items may be added or removed in this state.
func (s State) AllowsItemChanges() bool {
	return s == Opened
}

// IsActive reports whether a box in this state still holds its code.
// Active boxes reserve their code so that no other box can be opened with it.
func (s State) IsActive() bool {
	return s != New && s != Closed && s != Unknown
}

// validReceiveState reports whether a box may be scheduled to end up in s after receiving.
func validReceiveState(s State) bool {
	return s == Stocked || s == Closed
}
