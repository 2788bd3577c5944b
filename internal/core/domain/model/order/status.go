package order

import (
	"fmt"
	"strings"

	"logiflow/internal/pkg/errs"
)

// Status represents the lifecycle state of an order.
//
// State transitions:
//
//	Pending ──> Assigned ──> InTransit ──> Delivered
//	   │           │  └──────────────────────^
//	   │           │
//	   └───────────┴──> Cancelled
//
// Pending is the initial state. Delivered and Cancelled are terminal.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Pending is the status of a freshly created order waiting for a driver.
	Pending

	// Assigned indicates a driver bound a vehicle to the order.
	Assigned

	// InTransit indicates the driver is on the way to the delivery place.
	InTransit

	// Delivered is terminal: the order reached its destination.
	Delivered

	// Cancelled is terminal: the order was withdrawn before transit.
	Cancelled
)

// Dialect selects the wire names used when talking to a backend.
type Dialect int

const (
	// English renders PENDING, ASSIGNED, IN_TRANSIT, DELIVERED, CANCELLED.
	English Dialect = iota

	// Spanish renders PENDIENTE, ASIGNADO, EN_RUTA, ENTREGADO, CANCELADO.
	Spanish
)

// ParseDialect maps a configuration value ("en", "es", "english", "spanish") to
// a Dialect.
func ParseDialect(s string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "en", "english":
		return English, nil
	case "es", "spanish":
		return Spanish, nil
	default:
		return English, errs.NewValueIsInvalidErrorWithCause(
			"dialect is invalid",
			fmt.Errorf("%q is not a known dialect", s),
		)
	}
}

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:   "Unknown",
		Pending:   "Pending",
		Assigned:  "Assigned",
		InTransit: "InTransit",
		Delivered: "Delivered",
		Cancelled: "Cancelled",
	}
}

func getWireNames() map[Dialect]map[Status]string {
	//nolint:exhaustive // Unknown has no wire name
	return map[Dialect]map[Status]string{
		English: {
			Pending:   "PENDING",
			Assigned:  "ASSIGNED",
			InTransit: "IN_TRANSIT",
			Delivered: "DELIVERED",
			Cancelled: "CANCELLED",
		},
		Spanish: {
			Pending:   "PENDIENTE",
			Assigned:  "ASIGNADO",
			InTransit: "EN_RUTA",
			Delivered: "ENTREGADO",
			Cancelled: "CANCELADO",
		},
	}
}

// getTransitions returns the edges of the state machine. Terminal states have none.
func getTransitions() map[Status][]Status {
	//nolint:exhaustive // terminal and unknown states have no outgoing edges
	return map[Status][]Status{
		Pending:   {Assigned, Cancelled},
		Assigned:  {InTransit, Delivered, Cancelled},
		InTransit: {Delivered},
	}
}

// ParseStatus converts a wire or display name into a Status.
//
// Accepted forms, case-insensitive and with surrounding whitespace ignored:
//   - English wire names: PENDING, ASSIGNED, IN_TRANSIT, DELIVERED, CANCELLED
//   - Spanish wire names: PENDIENTE, ASIGNADO, EN_RUTA, ENTREGADO, CANCELADO
//   - Display names: Pending, Assigned, InTransit, Delivered, Cancelled
//
// Returns:
//   - (status, nil) for a known name
//   - (Unknown, error) otherwise
//
// Example:
//
//	s, err := order.ParseStatus("EN_RUTA")
//	fmt.Println(s) // Output: "InTransit"
func ParseStatus(s string) (Status, error) {
	name := strings.ToUpper(strings.TrimSpace(s))

	for _, names := range getWireNames() {
		for status, wire := range names {
			if wire == name {
				return status, nil
			}
		}
	}
	for status, display := range getStatusStrings() {
		if status != Unknown && strings.ToUpper(display) == name {
			return status, nil
		}
	}

	return Unknown, errs.NewValueIsInvalidErrorWithCause(
		"status is invalid",
		fmt.Errorf("%q is not a known status", sanitizeName(s)),
	)
}

// Validate checks if the Status value is valid.
//
// Returns:
//   - nil if the status is one of Pending, Assigned, InTransit, Delivered, Cancelled
//   - error with details otherwise
func (s Status) Validate() error {
	if s <= Unknown || s > Cancelled {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the display name of the status. It is safe to call on any value.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// WireName renders the status in the given backend dialect.
// Unknown and invalid values render as an empty string.
func (s Status) WireName(dialect Dialect) string {
	return getWireNames()[dialect][s]
}

// IsTerminal reports whether no further transitions are possible.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Cancelled
}

// IsActive reports whether the status occupies a vehicle (Assigned or InTransit).
func (s Status) IsActive() bool {
	return s == Assigned || s == InTransit
}

// ValidateCanHaveVehicle checks the consistency between a status and the presence
// of a vehicle binding.
//
// Business Rules:
//   - Pending orders must not have a vehicle bound
//   - Assigned and InTransit orders must have a vehicle bound
//   - Delivered and Cancelled orders may or may not keep the binding
//
// Parameters:
//   - vehicle: whether the order has a vehicle bound
func (s Status) ValidateCanHaveVehicle(vehicle bool) error {
	if vehicle && s == Pending {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to have a vehicle", s.String()),
		)
	}

	if !vehicle && s.IsActive() {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to have no vehicle", s.String()),
		)
	}

	return nil
}

// TransitionTo checks that target is reachable from s in one step.
//
// Invalid transitions:
//   - any transition out of Delivered or Cancelled
//   - Assigned from anything but Pending
//   - any pair that is not an edge of the state machine
//
// Returns:
//   - (target, nil) on a valid transition
//   - (0, *InvalidTransitionError) otherwise
//
// Example:
//
//	next, err := order.Pending.TransitionTo(order.Delivered)
//	errors.Is(err, order.ErrInvalidTransition) // true
func (s Status) TransitionTo(target Status) (Status, error) {
	if err := target.Validate(); err != nil {
		return 0, NewInvalidTransitionError(s, target, "unknown target status")
	}
	if s.IsTerminal() {
		return 0, NewInvalidTransitionError(s, target, fmt.Sprintf("%s is terminal", s))
	}
	if target == Assigned && s != Pending {
		return 0, NewInvalidTransitionError(s, target, "only pending orders can be assigned")
	}

	for _, next := range getTransitions()[s] {
		if next == target {
			return target, nil
		}
	}

	return 0, NewInvalidTransitionError(s, target, "")
}

func sanitizeName(s string) string {
	const maxLen = 32
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	return s
}
