// Package kernel provides the domain primitives shared by the order and fleet models.
//
// The package includes:
//   - ID: an opaque identifier assigned by a backend service, numeric or textual on the wire
//   - Location: a validated latitude/longitude pair
//   - Place: a free-text address with an optional Location
//
// All values are immutable and safe for concurrent use. Zero values are invalid and
// fail Validate, so data coming from the wire is checked once at the adapter boundary.
package kernel
