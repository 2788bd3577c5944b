package commands_test

import (
	"context"
	"sync"
	"testing"

	"logiflow/internal/core/domain/model/fleet"
	"logiflow/internal/core/domain/model/kernel"
	"logiflow/internal/core/domain/model/order"
	"logiflow/internal/core/domain/model/session"

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

type expectation struct {
	orderID kernel.ID
	status  order.Status
}

// fakeBoard is a driver board backed by a plain slice.
type fakeBoard struct {
	mu           sync.Mutex
	session      *session.Session
	assignment   fleet.DriverAssignment
	orders       []*order.Order
	expectations []expectation
}

func (b *fakeBoard) Session() *session.Session {
	return b.session
}

func (b *fakeBoard) Assignment() fleet.DriverAssignment {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.assignment
}

func (b *fakeBoard) SetAvailability(availability fleet.Availability) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.assignment = b.assignment.WithAvailability(availability)
}

func (b *fakeBoard) Expect(orderID kernel.ID, status order.Status) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.expectations = append(b.expectations, expectation{orderID: orderID, status: status})
}

func (b *fakeBoard) Order(id kernel.ID) (*order.Order, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, o := range b.orders {
		if o.ID().IsEqual(id) {
			return o, true
		}
	}
	return nil, false
}

func (b *fakeBoard) Orders() []*order.Order {
	b.mu.Lock()
	defer b.mu.Unlock()

	return append([]*order.Order(nil), b.orders...)
}

func (b *fakeBoard) Put(o *order.Order) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, cur := range b.orders {
		if cur.ID().IsEqual(o.ID()) {
			b.orders[i] = o
			return
		}
	}
	b.orders = append(b.orders, o)
}

func (b *fakeBoard) Expectations() []expectation {
	b.mu.Lock()
	defer b.mu.Unlock()

	return append([]expectation(nil), b.expectations...)
}

func newOrder(t *testing.T, id int64, status order.Status, vehicle int64) *order.Order {
	t.Helper()

	var vehicleID kernel.ID
	if vehicle != 0 {
		vehicleID = kernel.IDFromInt(vehicle)
	}
	o, err := order.RestoreOrder(kernel.IDFromInt(id), kernel.IDFromInt(1), "parcel", kernel.Place{}, kernel.Place{}, status, vehicleID)
	require.NoError(t, err)
	return o
}

func driverSession() *session.Session {
	return session.NewSession("driver-token", session.RoleDriver, "Ana", kernel.IDFromInt(500))
}

func requesterSession() *session.Session {
	return session.NewSession("requester-token", session.RoleRequester, "Luis", kernel.IDFromInt(300))
}

// driverBoard builds a board for driver 10 holding vehicle (0 for none).
func driverBoard(t *testing.T, vehicle int64, orders ...*order.Order) *fakeBoard {
	t.Helper()

	profile, err := fleet.RestoreDriverProfile(kernel.IDFromInt(10), kernel.IDFromInt(500), fleet.Available)
	require.NoError(t, err)

	var v *fleet.Vehicle
	if vehicle != 0 {
		v, err = fleet.RestoreVehicle(kernel.IDFromInt(vehicle), "Toyota", "Hilux", "PBA-1234")
		require.NoError(t, err)
	}

	assignment, err := fleet.NewDriverAssignment(profile, v)
	require.NoError(t, err)

	return &fakeBoard{session: driverSession(), assignment: assignment, orders: orders}
}
