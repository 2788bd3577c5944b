package ports

import (
	"context"

	"logiflow/internal/core/domain/model/fleet"
	"logiflow/internal/core/domain/model/order"
	"logiflow/internal/core/domain/model/session"
)

// OrdersWithFleet is the result of the supervisor query: every order, and a
// summary of each vehicle seen on them with its driver.
type OrdersWithFleet struct {
	Orders   []*order.Order
	Vehicles []fleet.VehicleSummary
}

// QueryGateway answers the supervisor's joined query in one round trip.
type QueryGateway interface {
	OrdersWithFleet(ctx context.Context, s *session.Session) (OrdersWithFleet, error)
}
