package transportbox

import (
	"errors"
	"fmt"
	"strings"

	"heblo/internal/pkg/errs"
)

// Operation names the aggregate method that performs a transition.
type Operation string

const (
	OpOpen           Operation = "Open"
	OpToTransit      Operation = "ToTransit"
	OpToReserve      Operation = "ToReserve"
	OpReset          Operation = "Reset"
	OpReceive        Operation = "Receive"
	OpRevertToOpened Operation = "RevertToOpened"
	OpToPick         Operation = "ToPick"
	OpClose          Operation = "Close"
	OpError          Operation = "Error"
)

// TransitionType classifies a transition for presentation and automation.
type TransitionType int

const (
	// TransitionNext moves the box forward in the normal flow.
	TransitionNext TransitionType = iota + 1

	// TransitionPrevious moves the box one step back.
	TransitionPrevious

	// TransitionEdgeCase is an exceptional or administrative transition.
	TransitionEdgeCase
)

func (t TransitionType) String() string {
	switch t {
	case TransitionNext:
		return "Next"
	case TransitionPrevious:
		return "Previous"
	case TransitionEdgeCase:
		return "EdgeCase"
	default:
		return "Unknown"
	}
}

// Condition is a box-state precondition of a transition.
// It returns nil when the transition may proceed.
type Condition func(b *TransportBox) error

var (
	// ErrBoxHasNoItems is the cause reported when a box without items is sent.
	ErrBoxHasNoItems = errors.New("box has no items")

	// ErrBoxHasNoCode is the cause reported when a box without a code is reopened.
	ErrBoxHasNoCode = errors.New("box has no code assigned")
)

func hasItems(b *TransportBox) error {
	if len(b.items) == 0 {
		return ErrBoxHasNoItems
	}
	return nil
}

func hasCode(b *TransportBox) error {
	if b.code.IsZero() {
		return ErrBoxHasNoCode
	}
	return nil
}

// Transition describes one allowed move out of a state.
type Transition struct {
	Target     State
	Type       TransitionType
	Operation  Operation
	SystemOnly bool
	Condition  Condition
}

// Check evaluates the transition condition against b.
func (t Transition) Check(b *TransportBox) error {
	if t.Condition == nil {
		return nil
	}
	return t.Condition(b)
}

// StateNode lists the transitions leaving a single state.
type StateNode struct {
	State     State
	Next      []Transition
	Previous  []Transition
	EdgeCases []Transition
}

// Transitions returns every transition of the node: next, previous, then edge cases.
func (n StateNode) Transitions() []Transition {
	all := make([]Transition, 0, len(n.Next)+len(n.Previous)+len(n.EdgeCases))
	all = append(all, n.Next...)
	all = append(all, n.Previous...)
	return append(all, n.EdgeCases...)
}

func next(target State, op Operation) Transition {
	return Transition{Target: target, Type: TransitionNext, Operation: op}
}

func previous(target State, op Operation) Transition {
	return Transition{Target: target, Type: TransitionPrevious, Operation: op}
}

func edge(target State, op Operation) Transition {
	return Transition{Target: target, Type: TransitionEdgeCase, Operation: op}
}

func (t Transition) when(c Condition) Transition {
	t.Condition = c
	return t
}

func (t Transition) systemOnly() Transition {
	t.SystemOnly = true
	return t
}

// stateNodes is built once and never modified afterwards.
var stateNodes = buildStateNodes()

func buildStateNodes() map[State]StateNode {
	toError := edge(Error, OpError)

	nodes := []StateNode{
		{
			State:     New,
			Next:      []Transition{next(Opened, OpOpen)},
			EdgeCases: []Transition{edge(Closed, OpClose)},
		},
		{
			State: Opened,
			Next: []Transition{
				next(InTransit, OpToTransit).when(hasItems),
				next(Reserve, OpToReserve),
			},
			Previous: []Transition{previous(New, OpReset)},
		},
		{
			State:    InTransit,
			Next:     []Transition{next(Received, OpReceive)},
			Previous: []Transition{previous(Opened, OpRevertToOpened).when(hasCode)},
		},
		{
			State:    Reserve,
			Next:     []Transition{next(Received, OpReceive)},
			Previous: []Transition{previous(Opened, OpRevertToOpened).when(hasCode)},
		},
		{
			State:     Received,
			Next:      []Transition{next(Stocked, OpToPick).systemOnly()},
			EdgeCases: []Transition{edge(Closed, OpClose)},
		},
		{
			State: Stocked,
			Next:  []Transition{next(Closed, OpClose)},
		},
		{
			State: Closed,
		},
		{
			State:     Error,
			EdgeCases: []Transition{edge(Stocked, OpToPick)},
		},
	}

	table := make(map[State]StateNode, len(nodes))
	for _, n := range nodes {
		n.EdgeCases = append(n.EdgeCases, toError)
		table[n.State] = n
	}
	return table
}

// Node returns the transition table entry for s.
func Node(s State) (StateNode, bool) {
	n, ok := stateNodes[s]
	return n, ok
}

// Lookup finds the transition performed by op from one state to another.
func Lookup(from State, op Operation, to State) (Transition, bool) {
	n, ok := stateNodes[from]
	if !ok {
		return Transition{}, false
	}
	for _, t := range n.Transitions() {
		if t.Operation == op && t.Target == to {
			return t, true
		}
	}
	return Transition{}, false
}

// Find returns the first transition from one state to another, whatever operation performs it.
func Find(from, to State) (Transition, bool) {
	n, ok := stateNodes[from]
	if !ok {
		return Transition{}, false
	}
	for _, t := range n.Transitions() {
		if t.Target == to {
			return t, true
		}
	}
	return Transition{}, false
}

// AllowedSources lists the states from which op can move a box into target,
// in the order returned by States.
func AllowedSources(op Operation, target State) []State {
	var sources []State
	for _, s := range States() {
		if _, ok := Lookup(s, op, target); ok {
			sources = append(sources, s)
		}
	}
	return sources
}

// TransitionError reports a rejected state change. It carries the current state,
// the requested state and the states from which the operation would have been allowed.
// Failed preconditions are reported through Cause.
type TransitionError struct {
	Operation Operation
	Current   State
	Target    State
	Allowed   []State
	Cause     error
}

func newTransitionError(op Operation, current, target State, cause error) *TransitionError {
	return &TransitionError{
		Operation: op,
		Current:   current,
		Target:    target,
		Allowed:   AllowedSources(op, target),
		Cause:     cause,
	}
}

func (e *TransitionError) Error() string {
	allowed := make([]string, 0, len(e.Allowed))
	for _, s := range e.Allowed {
		allowed = append(allowed, s.String())
	}

	msg := fmt.Sprintf(
		"%s: %s cannot move box from %s to %s, allowed from: [%s]",
		errs.ErrInvalidStateTransition.Error(),
		e.Operation,
		e.Current,
		e.Target,
		strings.Join(allowed, ", "),
	)
	if e.Cause != nil {
		msg += fmt.Sprintf(" (cause: %v)", e.Cause)
	}
	return msg
}

func (e *TransitionError) Unwrap() []error {
	if e.Cause == nil {
		return []error{errs.ErrInvalidStateTransition}
	}
	return []error{errs.ErrInvalidStateTransition, e.Cause}
}
