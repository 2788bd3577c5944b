// Package services provides domain services that span more than one entity of the
// LogiFlow engine.
//
// The package includes:
//   - AccessGate: decides, on every navigation, whether a credential may open a view
//   - CapacityPolicy: enforces at most one active order per vehicle before any
//     assignment call is issued
//
// Both services are stateless. Callers supply everything they decide on.
package services
