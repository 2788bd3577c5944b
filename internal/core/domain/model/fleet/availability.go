package fleet

import (
	"fmt"
	"strings"

	"logiflow/internal/pkg/errs"
)

// Availability tells whether a driver accepts new orders.
type Availability int

const (
	AvailabilityUnknown Availability = iota
	Available
	Unavailable
)

// ParseAvailability accepts the fleet service's wire names (DISPONIBLE,
// NO_DISPONIBLE) and their English equivalents (AVAILABLE, UNAVAILABLE).
func ParseAvailability(s string) (Availability, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DISPONIBLE", "AVAILABLE":
		return Available, nil
	case "NO_DISPONIBLE", "UNAVAILABLE":
		return Unavailable, nil
	default:
		return AvailabilityUnknown, errs.NewValueIsInvalidErrorWithCause(
			"availability is invalid",
			fmt.Errorf("%q is not a known availability", s),
		)
	}
}

// Validate rejects AvailabilityUnknown and out of range values.
func (a Availability) Validate() error {
	if a != Available && a != Unavailable {
		return errs.NewValueIsInvalidErrorWithCause(
			"availability is invalid",
			fmt.Errorf("%d is not a valid availability", a),
		)
	}
	return nil
}

// WireName returns the fleet service's name for the availability.
func (a Availability) WireName() string {
	switch a {
	case Available:
		return "DISPONIBLE"
	case Unavailable:
		return "NO_DISPONIBLE"
	default:
		return ""
	}
}

func (a Availability) String() string {
	switch a {
	case Available:
		return "Available"
	case Unavailable:
		return "Unavailable"
	default:
		return "Unknown"
	}
}

// Toggle returns the opposite availability. Unknown toggles to Available.
func (a Availability) Toggle() Availability {
	if a == Available {
		return Unavailable
	}
	return Available
}
