package views_test

import (
	"context"
	"sync"
	"testing"

	"logiflow/internal/core/domain/model/fleet"
	"logiflow/internal/core/domain/model/kernel"
	"logiflow/internal/core/domain/model/order"
	"logiflow/internal/core/domain/model/session"
	"logiflow/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderService struct{ mock.Mock }

func (m *MockOrderService) ListOrders(ctx context.Context, s *session.Session) ([]*order.Order, error) {
	args := m.Called(ctx, s)
	orders, _ := args.Get(0).([]*order.Order)
	return orders, args.Error(1)
}

func (m *MockOrderService) ListOrdersForRequester(
	ctx context.Context,
	s *session.Session,
	requesterID kernel.ID,
) ([]*order.Order, error) {
	args := m.Called(ctx, s, requesterID)
	orders, _ := args.Get(0).([]*order.Order)
	return orders, args.Error(1)
}

func (m *MockOrderService) CreateOrder(ctx context.Context, s *session.Session, draft *order.Draft) (*order.Order, error) {
	args := m.Called(ctx, s, draft)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *MockOrderService) BindVehicle(ctx context.Context, s *session.Session, orderID, vehicleID kernel.ID) error {
	args := m.Called(ctx, s, orderID, vehicleID)
	return args.Error(0)
}

func (m *MockOrderService) SetStatus(ctx context.Context, s *session.Session, orderID kernel.ID, status order.Status) error {
	args := m.Called(ctx, s, orderID, status)
	return args.Error(0)
}

type MockFleetService struct{ mock.Mock }

func (m *MockFleetService) ListDrivers(ctx context.Context, s *session.Session) ([]*fleet.DriverProfile, error) {
	args := m.Called(ctx, s)
	drivers, _ := args.Get(0).([]*fleet.DriverProfile)
	return drivers, args.Error(1)
}

func (m *MockFleetService) GetDriverVehicle(ctx context.Context, s *session.Session, driverID kernel.ID) (*fleet.Vehicle, error) {
	args := m.Called(ctx, s, driverID)
	v, _ := args.Get(0).(*fleet.Vehicle)
	return v, args.Error(1)
}

func (m *MockFleetService) SetAvailability(
	ctx context.Context,
	s *session.Session,
	driverID kernel.ID,
	availability fleet.Availability,
) error {
	args := m.Called(ctx, s, driverID, availability)
	return args.Error(0)
}

type MockQueryGateway struct{ mock.Mock }

func (m *MockQueryGateway) OrdersWithFleet(ctx context.Context, s *session.Session) (ports.OrdersWithFleet, error) {
	args := m.Called(ctx, s)
	result, _ := args.Get(0).(ports.OrdersWithFleet)
	return result, args.Error(1)
}

type fakeSubscription struct {
	events chan ports.OrderEvent
}

func (s *fakeSubscription) Events() <-chan ports.OrderEvent {
	return s.events
}

func (s *fakeSubscription) Close() error {
	return nil
}

// fakeChannel hands out subscriptions and broadcasts Push to all of them.
type fakeChannel struct {
	mu   sync.Mutex
	subs []*fakeSubscription
}

func (c *fakeChannel) Subscribe(_ context.Context) (ports.Subscription, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	sub := &fakeSubscription{events: make(chan ports.OrderEvent, 16)}
	c.subs = append(c.subs, sub)
	return sub, nil
}

func (c *fakeChannel) Push(o *order.Order) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, sub := range c.subs {
		sub.events <- ports.OrderEvent{OrderID: o.ID(), Order: o}
	}
}

func (c *fakeChannel) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.subs)
}

func newOrder(t *testing.T, id, requester int64, status order.Status, vehicle int64) *order.Order {
	t.Helper()

	var vehicleID kernel.ID
	if vehicle != 0 {
		vehicleID = kernel.IDFromInt(vehicle)
	}
	o, err := order.RestoreOrder(
		kernel.IDFromInt(id),
		kernel.IDFromInt(requester),
		"parcel",
		kernel.Place{},
		kernel.Place{},
		status,
		vehicleID,
	)
	require.NoError(t, err)
	return o
}

func ids(orders []*order.Order) []string {
	out := make([]string, 0, len(orders))
	for _, o := range orders {
		out = append(out, o.ID().String())
	}
	return out
}
