// Package views builds the three dashboards on top of livesync: what each role
// loads, which pushed events it keeps, and the read model it renders. A Registry
// keeps one mounted view per device and view path.
package views

import (
	"context"
	"slices"
	"time"

	"logiflow/internal/core/application/livesync"
	"logiflow/internal/core/domain/model/kernel"
	"logiflow/internal/core/domain/model/order"
	"logiflow/internal/core/domain/model/session"
)

// View is a mounted dashboard owned by one session.
type View interface {
	Session() *session.Session
	Mount(ctx context.Context) error
	Unmount()
	Mounted() bool
	Refresh() error
	Touch()
	IdleFor(now time.Time) time.Duration
}

// base carries what every view shares: the session and its dashboard.
type base struct {
	session   *session.Session
	dashboard *livesync.Dashboard
}

func (b *base) Session() *session.Session {
	return b.session
}

func (b *base) Mount(ctx context.Context) error {
	return b.dashboard.Mount(ctx)
}

func (b *base) Unmount() {
	b.dashboard.Unmount()
}

func (b *base) Mounted() bool {
	return b.dashboard.Mounted()
}

func (b *base) Refresh() error {
	return b.dashboard.Refresh()
}

func (b *base) Touch() {
	b.dashboard.Touch()
}

func (b *base) IdleFor(now time.Time) time.Duration {
	return b.dashboard.IdleFor(now)
}

// Expect forwards to the dashboard's reconciler.
func (b *base) Expect(orderID kernel.ID, status order.Status) {
	b.dashboard.Expect(orderID, status)
}

// Watch returns the dashboard's change notifications; see livesync.Dashboard.Watch.
func (b *base) Watch() (<-chan struct{}, func()) {
	return b.dashboard.Watch()
}

// newestFirst returns orders in reverse order. Backends list oldest first.
func newestFirst(orders []*order.Order) []*order.Order {
	out := slices.Clone(orders)
	slices.Reverse(out)
	return out
}
