package livesync

import (
	"sync"
	"time"

	"logiflow/internal/core/domain/model/kernel"
	"logiflow/internal/core/domain/model/order"
)

// DefaultReconcileDelay is how long a push confirmation is awaited before the
// fallback re-fetch.
const DefaultReconcileDelay = 500 * time.Millisecond

// Reconciler schedules one bounded fallback re-fetch per expected order change.
// A push event (or re-fetched record) showing the expected status cancels it.
// All timers die with Stop, which the owning Dashboard calls on unmount.
type Reconciler struct {
	mu      sync.Mutex
	delay   time.Duration
	refetch func()
	pending map[kernel.ID]*expectation
	stopped bool
}

type expectation struct {
	status order.Status
	timer  *time.Timer
}

// NewReconciler creates a Reconciler calling refetch when an expectation times out.
// A non-positive delay uses DefaultReconcileDelay.
func NewReconciler(delay time.Duration, refetch func()) *Reconciler {
	if delay <= 0 {
		delay = DefaultReconcileDelay
	}
	return &Reconciler{
		delay:   delay,
		refetch: refetch,
		pending: make(map[kernel.ID]*expectation),
	}
}

// Expect registers that orderID should reach status. A previous expectation for
// the same order is replaced. Expect after Stop does nothing.
func (r *Reconciler) Expect(orderID kernel.ID, status order.Status) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.stopped {
		return
	}
	if prev, ok := r.pending[orderID]; ok {
		prev.timer.Stop()
	}

	exp := &expectation{status: status}
	exp.timer = time.AfterFunc(r.delay, func() { r.expire(orderID, exp) })
	r.pending[orderID] = exp
}

// Observe cancels the expectation met by o, if any.
func (r *Reconciler) Observe(o *order.Order) {
	r.mu.Lock()
	defer r.mu.Unlock()

	exp, ok := r.pending[o.ID()]
	if !ok || exp.status != o.Status() {
		return
	}
	exp.timer.Stop()
	delete(r.pending, o.ID())
}

// Pending returns the number of outstanding expectations.
func (r *Reconciler) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.pending)
}

// Stop cancels every outstanding expectation. No refetch is triggered afterwards.
func (r *Reconciler) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.stopped = true
	for id, exp := range r.pending {
		exp.timer.Stop()
		delete(r.pending, id)
	}
}

func (r *Reconciler) expire(orderID kernel.ID, exp *expectation) {
	r.mu.Lock()
	current, ok := r.pending[orderID]
	if r.stopped || !ok || current != exp {
		r.mu.Unlock()
		return
	}
	delete(r.pending, orderID)
	r.mu.Unlock()

	r.refetch()
}
