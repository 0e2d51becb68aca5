// Package transportbox implements the TransportBox aggregate: a physical container
// tracked from packing in the warehouse, through transit, to stock-up and closure.
//
// The package includes:
//   - TransportBox: the aggregate root owning items, state and state history
//   - TransportBoxItem: one product line packed into a box
//   - StateLog: an append-only audit entry written on every transition
//   - State: the lifecycle enum
//   - StateNode and Transition: the declarative transition table
//
// Lifecycle:
//
//	New       ──> Opened (Open), Closed (Close)
//	Opened    ──> InTransit (ToTransit), Reserve (ToReserve), New (Reset)
//	InTransit ──> Received (Receive), Opened (RevertToOpened)
//	Reserve   ──> Received (Receive), Opened (RevertToOpened)
//	Received  ──> Stocked (ToPick, system only), Closed (Close)
//	Stocked   ──> Closed (Close)
//	Error     ──> Stocked (ToPick)
//
// Any state may move to Error. Closed has no other outbound transition.
//
// Every mutator looks up the transition table for the current state; the table is
// the single source of both the allowed source states and the transition
// preconditions, so the metadata exposed to callers can never disagree with what
// the aggregate enforces.
package transportbox
