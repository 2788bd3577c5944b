package livesync_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"logiflow/internal/core/domain/model/kernel"
	"logiflow/internal/core/domain/model/order"
	"logiflow/internal/core/ports"

	"github.com/stretchr/testify/require"
)

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

func ids(orders []*order.Order) []string {
	out := make([]string, 0, len(orders))
	for _, o := range orders {
		out = append(out, o.ID().String())
	}
	return out
}

type fakeSubscription struct {
	events chan ports.OrderEvent
	closed atomic.Bool
}

func (s *fakeSubscription) Events() <-chan ports.OrderEvent {
	return s.events
}

func (s *fakeSubscription) Close() error {
	s.closed.Store(true)
	return nil
}

type fakeChannel struct {
	mu   sync.Mutex
	subs []*fakeSubscription
	err  error
}

func (c *fakeChannel) Subscribe(_ context.Context) (ports.Subscription, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.err != nil {
		return nil, c.err
	}
	sub := &fakeSubscription{events: make(chan ports.OrderEvent)}
	c.subs = append(c.subs, sub)
	return sub, nil
}

func (c *fakeChannel) Subscriptions() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.subs)
}

func (c *fakeChannel) Last() *fakeSubscription {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.subs[len(c.subs)-1]
}

// fakeLoader returns whatever was last set and counts calls. When gate is set,
// each call waits for a value on it.
type fakeLoader struct {
	mu     sync.Mutex
	orders []*order.Order
	err    error
	gate   chan struct{}
	calls  atomic.Int32
}

func (l *fakeLoader) Set(orders []*order.Order, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.orders, l.err = orders, err
}

func (l *fakeLoader) Load(ctx context.Context) ([]*order.Order, error) {
	l.calls.Add(1)

	l.mu.Lock()
	gate := l.gate
	l.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	return l.orders, l.err
}
