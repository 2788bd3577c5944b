package order

import (
	"errors"
	"fmt"
	"strings"

	"logiflow/internal/core/domain/model/kernel"
	"logiflow/internal/pkg/guard"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created through
	// RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via RestoreOrder constructor")
)

// Order is a snapshot of a server-side order record.
//
// The engine never owns orders: the order service creates them, assigns them and
// advances their status. An Order is therefore immutable once restored. A change
// is observed by restoring a new record and replacing the cached one.
//
// Order keeps what the service sent, even when status and vehicle binding do not
// agree. Use ValidateVehicleBinding to detect such records.
type Order struct {
	// id is the server-assigned identifier
	id kernel.ID

	// requesterID is the user who created the order (zero when not reported)
	requesterID kernel.ID

	// description is the free-text content of the order
	description string

	// pickup is where the driver collects the order (coordinates optional)
	pickup kernel.Place

	// delivery is the destination of the order
	delivery kernel.Place

	// status is the lifecycle state reported by the order service
	status Status

	// vehicleID is the bound vehicle (zero when unbound)
	vehicleID kernel.ID

	guard guard.ConstructorGuard
}

// RestoreOrder rebuilds an Order from a record received from a backend.
//
// Parameters:
//   - id: server-assigned identifier (required)
//   - requesterID: creator of the order (may be zero)
//   - description: free text
//   - pickup: pickup place, coordinates optional
//   - delivery: delivery place
//   - status: current lifecycle state (must be valid)
//   - vehicleID: bound vehicle (zero when unbound)
//
// Returns:
//   - *Order: the restored order
//   - error: validation error if the id or the status is invalid
//
// Example:
//
//	o, err := order.RestoreOrder(kernel.IDFromInt(42), requester, "Documents",
//	    pickup, delivery, order.Pending, kernel.ID{})
func RestoreOrder(
	id kernel.ID,
	requesterID kernel.ID,
	description string,
	pickup kernel.Place,
	delivery kernel.Place,
	status Status,
	vehicleID kernel.ID,
) (*Order, error) {
	o := &Order{
		requesterID: requesterID,
		description: strings.TrimSpace(description),
		pickup:      pickup,
		delivery:    delivery,
		vehicleID:   vehicleID,
		guard:       guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(id),
		o.setStatus(status),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// Validate ensures the Order instance was created through RestoreOrder.
func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

// IsEqual compares two orders by their identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's identifier.
func (o *Order) ID() kernel.ID {
	return o.id
}

// RequesterID returns the creator of the order, or the zero ID when unknown.
func (o *Order) RequesterID() kernel.ID {
	return o.requesterID
}

// Description returns the free-text description.
func (o *Order) Description() string {
	return o.description
}

// Pickup returns the pickup place.
func (o *Order) Pickup() kernel.Place {
	return o.pickup
}

// Delivery returns the delivery place.
func (o *Order) Delivery() kernel.Place {
	return o.delivery
}

// Status returns the lifecycle state reported by the order service.
func (o *Order) Status() Status {
	return o.status
}

// VehicleID returns the bound vehicle, or the zero ID when unbound.
func (o *Order) VehicleID() kernel.ID {
	return o.vehicleID
}

// HasVehicle reports whether a vehicle is bound to the order.
func (o *Order) HasVehicle() bool {
	return !o.vehicleID.IsZero()
}

// IsBoundTo reports whether the given vehicle is bound to the order.
func (o *Order) IsBoundTo(vehicleID kernel.ID) bool {
	return o.HasVehicle() && o.vehicleID.IsEqual(vehicleID)
}

// OccupiesVehicle reports whether the order is active on the given vehicle.
func (o *Order) OccupiesVehicle(vehicleID kernel.ID) bool {
	return o.status.IsActive() && o.IsBoundTo(vehicleID)
}

// ValidateVehicleBinding reports a record whose status and vehicle binding are
// inconsistent. See Status.ValidateCanHaveVehicle for the rules.
func (o *Order) ValidateVehicleBinding() error {
	return o.status.ValidateCanHaveVehicle(o.HasVehicle())
}

// CheckTransition verifies, without side effects, that an actor driving vehicleID
// may move the order to target.
//
// Business Rules:
//   - The edge must exist in the state machine (see Status.TransitionTo)
//   - Assigned requires the actor to have a vehicle
//   - Leaving Assigned or InTransit requires the order to be bound to the actor's vehicle
//
// Parameters:
//   - target: desired status
//   - vehicleID: the actor's vehicle, zero when the actor has none
//
// Returns:
//   - nil when the transition may be attempted
//   - *InvalidTransitionError otherwise
//
// Example:
//
//	if err := o.CheckTransition(order.Delivered, vehicle); err != nil {
//	    // reject before any network call
//	}
func (o *Order) CheckTransition(target Status, vehicleID kernel.ID) error {
	if _, err := o.status.TransitionTo(target); err != nil {
		return err
	}

	if target == Assigned && vehicleID.IsZero() {
		return NewInvalidTransitionError(o.status, target, "driver has no vehicle")
	}

	if o.status.IsActive() && !o.IsBoundTo(vehicleID) {
		return NewInvalidTransitionError(
			o.status,
			target,
			fmt.Sprintf("order %s is not bound to vehicle %s", o.id, vehicleID),
		)
	}

	return nil
}

func (o *Order) setID(id kernel.ID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	o.id = id
	return nil
}

func (o *Order) setStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}

	o.status = status
	return nil
}

// ActiveOn returns the first order in orders that occupies the given vehicle,
// skipping the order with id except.
func ActiveOn(orders []*Order, vehicleID kernel.ID, except kernel.ID) (*Order, bool) {
	for _, o := range orders {
		if o.id.IsEqual(except) {
			continue
		}
		if o.OccupiesVehicle(vehicleID) {
			return o, true
		}
	}
	return nil, false
}
