package order

import (
	"errors"
	"fmt"

	"logiflow/internal/core/domain/model/kernel"
)

var (
	// ErrInvalidTransition is returned when a status change is not an edge of the
	// lifecycle state machine or the actor does not hold the bound vehicle.
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrCapacityExceeded is returned when a vehicle already holds an active order.
	ErrCapacityExceeded = errors.New("capacity exceeded")
)

// InvalidTransitionError describes a rejected status change.
type InvalidTransitionError struct {
	From   Status
	To     Status
	Reason string
}

func NewInvalidTransitionError(from, to Status, reason string) *InvalidTransitionError {
	return &InvalidTransitionError{From: from, To: to, Reason: reason}
}

func (e *InvalidTransitionError) Error() string {
	msg := fmt.Sprintf("%s: %s -> %s", ErrInvalidTransition, e.From, e.To)
	if e.Reason != "" {
		msg += " (" + e.Reason + ")"
	}
	return msg
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// CapacityExceededError reports the order already occupying a vehicle.
type CapacityExceededError struct {
	VehicleID     kernel.ID
	ActiveOrderID kernel.ID
}

func NewCapacityExceededError(vehicleID, activeOrderID kernel.ID) *CapacityExceededError {
	return &CapacityExceededError{VehicleID: vehicleID, ActiveOrderID: activeOrderID}
}

func (e *CapacityExceededError) Error() string {
	return fmt.Sprintf("%s: vehicle %s already holds order %s", ErrCapacityExceeded, e.VehicleID, e.ActiveOrderID)
}

func (e *CapacityExceededError) Unwrap() error {
	return ErrCapacityExceeded
}
