package views_test

import (
	"testing"
	"time"

	"logiflow/internal/core/application/usecases/commands"
	"logiflow/internal/core/application/views"
	"logiflow/internal/core/domain/model/kernel"
	"logiflow/internal/core/domain/model/order"
	"logiflow/internal/core/domain/model/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	waitFor = time.Second
	tick    = 5 * time.Millisecond
)

func TestRequesterView(t *testing.T) {
	s := session.NewSession("token", session.RoleRequester, "luis", kernel.IDFromInt(300))
	orders := new(MockOrderService)
	orders.On("ListOrdersForRequester", mock.Anything, s, kernel.IDFromInt(300)).
		Return([]*order.Order{newOrder(t, 1, 300, order.Delivered, 7), newOrder(t, 2, 300, order.Pending, 0)}, nil)
	channel := &fakeChannel{}

	v, err := views.NewRequesterView(s, orders, channel, commands.NewCreateOrderCommandHandler(orders, nil), time.Second, nil)
	require.NoError(t, err)
	require.NoError(t, v.Mount(t.Context()))
	defer v.Unmount()

	assert.Equal(t, []string{"2", "1"}, ids(v.Snapshot().Orders))

	channel.Push(newOrder(t, 9, 301, order.Pending, 0))
	channel.Push(newOrder(t, 3, 300, order.Pending, 0))

	require.Eventually(t, func() bool { return len(v.Snapshot().Orders) == 3 }, waitFor, tick)
	assert.Equal(t, []string{"3", "2", "1"}, ids(v.Snapshot().Orders))
}

func TestRequesterView_CreateOrder(t *testing.T) {
	s := session.NewSession("token", session.RoleRequester, "luis", kernel.IDFromInt(300))
	created := newOrder(t, 5, 300, order.Pending, 0)

	orders := new(MockOrderService)
	orders.On("ListOrdersForRequester", mock.Anything, s, kernel.IDFromInt(300)).Return([]*order.Order{}, nil)
	orders.On("CreateOrder", mock.Anything, s, mock.AnythingOfType("*order.Draft")).Return(created, nil).Once()
	channel := &fakeChannel{}

	v, err := views.NewRequesterView(s, orders, channel, commands.NewCreateOrderCommandHandler(orders, nil), time.Second, nil)
	require.NoError(t, err)
	require.NoError(t, v.Mount(t.Context()))
	defer v.Unmount()

	loc, err := kernel.NewLocation(-0.18, -78.46)
	require.NoError(t, err)
	delivery, err := kernel.NewPlace("Home", &loc)
	require.NoError(t, err)
	cmd, err := commands.NewCreateOrderCommand("Documents", kernel.Place{}, delivery)
	require.NoError(t, err)

	got, err := v.CreateOrder(t.Context(), cmd)
	require.NoError(t, err)
	assert.Same(t, created, got)

	channel.Push(created)
	require.Eventually(t, func() bool { return len(v.Snapshot().Orders) == 1 }, waitFor, tick)
	orders.AssertExpectations(t)
}

func TestNewRequesterView_Validation(t *testing.T) {
	_, err := views.NewRequesterView(nil, new(MockOrderService), &fakeChannel{}, commands.CreateOrderCommandHandler{}, 0, nil)
	require.ErrorIs(t, err, session.ErrCredentialMissing)
}
