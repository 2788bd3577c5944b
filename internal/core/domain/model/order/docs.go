// Package order provides the Order entity and its lifecycle state machine as seen
// by the LogiFlow synchronization engine.
//
// The package includes:
//   - Order: an immutable snapshot of a server-side order record
//   - Status: the lifecycle state machine with English and Spanish wire names
//   - Draft: a requester's order draft, validated before it is sent to the order service
//
// Key business rules:
//   - Status follows Pending -> Assigned -> InTransit -> Delivered
//   - Cancelled is reachable from Pending or Assigned
//   - Delivered and Cancelled are terminal
//   - Assigned and InTransit imply a bound vehicle, Pending implies none
//   - A vehicle holds at most one Assigned or InTransit order at a time
//
// The order service is authoritative. Orders in this package are never mutated in
// place: a transition is planned and checked here, performed remotely, and the
// confirmed record replaces the cached one.
package order
