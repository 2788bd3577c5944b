package services

import (
	"logiflow/internal/core/domain/model/kernel"
	"logiflow/internal/core/domain/model/order"
)

// CapacityPolicy enforces that a vehicle holds at most one Assigned or InTransit
// order. It is a local, defensive check: the order service remains authoritative.
//
// Business rules:
//   - Orders confirmed active on the vehicle count against capacity
//   - Orders reserved for the vehicle (an assignment in flight or bound but not yet
//     confirmed) count against capacity
//   - The order being changed never counts against itself
//
// Example usage:
//
//	policy := services.NewCapacityPolicy()
//	if err := policy.Check(orderID, vehicleID, board.Orders(), reserved); err != nil {
//	    // errors.Is(err, order.ErrCapacityExceeded)
//	}
type CapacityPolicy struct{}

// NewCapacityPolicy creates a new CapacityPolicy instance.
func NewCapacityPolicy() CapacityPolicy {
	return CapacityPolicy{}
}

// Check verifies that vehicleID may take target.
//
// Parameters:
//   - target: the order about to be assigned
//   - vehicleID: the vehicle it would be bound to
//   - orders: the orders known to the caller
//   - reserved: orders reserved for vehicleID that the orders slice may not show yet
//
// Returns:
//   - nil if the vehicle is free
//   - *order.CapacityExceededError naming the occupying order otherwise
func (p CapacityPolicy) Check(target, vehicleID kernel.ID, orders []*order.Order, reserved []kernel.ID) error {
	if active, ok := order.ActiveOn(orders, vehicleID, target); ok {
		return order.NewCapacityExceededError(vehicleID, active.ID())
	}

	for _, id := range reserved {
		if !id.IsEqual(target) {
			return order.NewCapacityExceededError(vehicleID, id)
		}
	}

	return nil
}
