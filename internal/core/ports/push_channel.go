package ports

import (
	"context"

	"logiflow/internal/core/domain/model/kernel"
	"logiflow/internal/core/domain/model/order"
)

// OrderEvent is an "order changed" notification. Order is nil for signal-only
// events; consumers then re-fetch. OrderID is set whenever the event names an order.
type OrderEvent struct {
	OrderID kernel.ID
	Order   *order.Order
}

// IsSignal reports whether the event carries no record.
func (e OrderEvent) IsSignal() bool {
	return e.Order == nil
}

// PushChannel is a server-initiated event stream. Events carry no ordering or
// delivery guarantee.
type PushChannel interface {
	// Subscribe opens one subscription. The transport reconnects on its own;
	// the returned Subscription stays the same across reconnects.
	Subscribe(ctx context.Context) (Subscription, error)
}

// Subscription is one live stream of events.
type Subscription interface {
	// Events is closed after Close returns or when ctx passed to Subscribe is done.
	Events() <-chan OrderEvent

	// Close tears the subscription down. It is safe to call more than once.
	Close() error
}
