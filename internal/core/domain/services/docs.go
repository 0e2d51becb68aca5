// Package services provides domain services that implement logistics workflows
// which do not belong to a single TransportBox method.
//
// The package includes:
//   - ReceiveFinalizer: turns a received box into stock-up lines and drives it to
//     its post-receive state, or records the failure
package services
