package livesync_test

import (
	"sync/atomic"
	"testing"
	"time"

	"logiflow/internal/core/application/livesync"
	"logiflow/internal/core/domain/model/kernel"
	"logiflow/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
)

func TestReconciler(t *testing.T) {
	const delay = 20 * time.Millisecond

	t.Run("refetches once when no confirmation arrives", func(t *testing.T) {
		var refetches atomic.Int32
		r := livesync.NewReconciler(delay, func() { refetches.Add(1) })

		r.Expect(kernel.IDFromInt(42), order.Assigned)

		assert.Eventually(t, func() bool { return refetches.Load() == 1 }, time.Second, 5*time.Millisecond)
		assert.Equal(t, 0, r.Pending())
		time.Sleep(3 * delay)
		assert.Equal(t, int32(1), refetches.Load())
	})

	t.Run("a matching record cancels the fallback", func(t *testing.T) {
		var refetches atomic.Int32
		r := livesync.NewReconciler(delay, func() { refetches.Add(1) })

		r.Expect(kernel.IDFromInt(42), order.Assigned)
		r.Observe(newOrder(t, 42, order.Pending, 7))
		assert.Equal(t, 1, r.Pending())
		r.Observe(newOrder(t, 42, order.Assigned, 7))

		assert.Equal(t, 0, r.Pending())
		assert.Never(t, func() bool { return refetches.Load() > 0 }, 4*delay, 5*time.Millisecond)
	})

	t.Run("a newer expectation replaces the previous one", func(t *testing.T) {
		var refetches atomic.Int32
		r := livesync.NewReconciler(delay, func() { refetches.Add(1) })

		r.Expect(kernel.IDFromInt(1), order.Assigned)
		r.Expect(kernel.IDFromInt(1), order.InTransit)

		assert.Equal(t, 1, r.Pending())
		assert.Eventually(t, func() bool { return refetches.Load() == 1 }, time.Second, 5*time.Millisecond)
		time.Sleep(3 * delay)
		assert.Equal(t, int32(1), refetches.Load())
	})

	t.Run("stop cancels everything", func(t *testing.T) {
		var refetches atomic.Int32
		r := livesync.NewReconciler(delay, func() { refetches.Add(1) })

		r.Expect(kernel.IDFromInt(1), order.Assigned)
		r.Expect(kernel.IDFromInt(2), order.Delivered)
		r.Stop()
		r.Expect(kernel.IDFromInt(3), order.Delivered)

		assert.Equal(t, 0, r.Pending())
		assert.Never(t, func() bool { return refetches.Load() > 0 }, 4*delay, 5*time.Millisecond)
	})
}
