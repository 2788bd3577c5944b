package commands

import (
	"errors"
	"fmt"

	"logiflow/internal/core/domain/model/kernel"
	"logiflow/internal/core/domain/model/order"
)

var (
	// ErrAssignmentFailed means the vehicle bind call failed. Nothing changed on
	// the backend; the whole operation may be retried.
	ErrAssignmentFailed = errors.New("assignment failed")

	// ErrStatusUpdateFailed means the status call failed. For an assignment the
	// vehicle is already bound; a retry skips the bind.
	ErrStatusUpdateFailed = errors.New("status update failed")
)

// AssignmentFailedError wraps the bind call's error.
type AssignmentFailedError struct {
	OrderID   kernel.ID
	VehicleID kernel.ID
	Cause     error
}

func NewAssignmentFailedError(orderID, vehicleID kernel.ID, cause error) *AssignmentFailedError {
	return &AssignmentFailedError{OrderID: orderID, VehicleID: vehicleID, Cause: cause}
}

func (e *AssignmentFailedError) Error() string {
	return fmt.Sprintf("%s: binding vehicle %s to order %s: %v", ErrAssignmentFailed, e.VehicleID, e.OrderID, e.Cause)
}

// Unwrap exposes both the sentinel and the transport cause to errors.Is/As.
func (e *AssignmentFailedError) Unwrap() []error {
	return []error{ErrAssignmentFailed, e.Cause}
}

// StatusUpdateFailedError wraps the status call's error. VehicleBound is true when
// the order was left bound to VehicleID with its status unchanged.
type StatusUpdateFailedError struct {
	OrderID      kernel.ID
	Target       order.Status
	VehicleID    kernel.ID
	VehicleBound bool
	Cause        error
}

func NewStatusUpdateFailedError(orderID kernel.ID, target order.Status, cause error) *StatusUpdateFailedError {
	return &StatusUpdateFailedError{OrderID: orderID, Target: target, Cause: cause}
}

func (e *StatusUpdateFailedError) Error() string {
	msg := fmt.Sprintf("%s: setting order %s to %s: %v", ErrStatusUpdateFailed, e.OrderID, e.Target, e.Cause)
	if e.VehicleBound {
		msg += fmt.Sprintf(" (vehicle %s is bound, retry the status step)", e.VehicleID)
	}
	return msg
}

func (e *StatusUpdateFailedError) Unwrap() []error {
	return []error{ErrStatusUpdateFailed, e.Cause}
}
