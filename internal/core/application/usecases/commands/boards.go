// Package commands contains the viewer actions that change state on the backends.
// Every command follows the same pattern: constructor-guarded input, local checks
// against the viewer's board before any network call, then the service calls.
// Handlers never write the order cache; they tell the board which record to
// expect and the push channel (or the fallback re-fetch) delivers it.
package commands

import (
	"logiflow/internal/core/domain/model/fleet"
	"logiflow/internal/core/domain/model/kernel"
	"logiflow/internal/core/domain/model/order"
	"logiflow/internal/core/domain/model/session"
)

// Boards are the live views commands act from. Dashboard views implement them.
type (
	// Board is any mounted view with a session.
	Board interface {
		// Session returns the viewer's session.
		Session() *session.Session

		// Expect registers the status an order should reach after an action.
		Expect(orderID kernel.ID, status order.Status)
	}

	// DriverBoard is the driver's view: its cached orders and resolved assignment.
	DriverBoard interface {
		Board

		// Assignment returns the driver profile and vehicle resolved for the session.
		Assignment() fleet.DriverAssignment

		// Order returns a cached order.
		Order(id kernel.ID) (*order.Order, bool)

		// Orders returns every cached order.
		Orders() []*order.Order
	}

	// AvailabilityBoard is a driver view whose availability can be updated.
	AvailabilityBoard interface {
		Session() *session.Session
		Assignment() fleet.DriverAssignment
		SetAvailability(availability fleet.Availability)
	}
)
