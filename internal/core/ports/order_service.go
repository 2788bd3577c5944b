// Package ports defines the contracts between the synchronization engine and the
// external collaborators it consumes: the order, fleet and query services, the
// push channel and the session store.
//
// Every service call takes the viewer's *session.Session so the adapter can forward
// the bearer credential. Adapters report transport failures with the errs package:
//   - no response at all: *errs.ServiceUnreachableError (errs.ErrServiceUnreachable)
//   - an error response: *errs.RequestRejectedError (errs.ErrRequestRejected)
//   - a lookup that found nothing: *errs.ObjectNotFoundError (errs.ErrObjectNotFound)
package ports

import (
	"context"

	"logiflow/internal/core/domain/model/kernel"
	"logiflow/internal/core/domain/model/order"
	"logiflow/internal/core/domain/model/session"
)

// OrderService is the authoritative order backend.
type OrderService interface {
	// ListOrders returns every order visible to the session.
	ListOrders(ctx context.Context, s *session.Session) ([]*order.Order, error)

	// ListOrdersForRequester returns the orders created by requesterID in the
	// order the service sent them (oldest first).
	ListOrdersForRequester(ctx context.Context, s *session.Session, requesterID kernel.ID) ([]*order.Order, error)

	// CreateOrder submits a draft and returns the created order.
	CreateOrder(ctx context.Context, s *session.Session, draft *order.Draft) (*order.Order, error)

	// BindVehicle binds vehicleID to orderID. It does not change the status.
	BindVehicle(ctx context.Context, s *session.Session, orderID, vehicleID kernel.ID) error

	// SetStatus sets the status of orderID. It does not touch the vehicle binding.
	SetStatus(ctx context.Context, s *session.Session, orderID kernel.ID, status order.Status) error
}
