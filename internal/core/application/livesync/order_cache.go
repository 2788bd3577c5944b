package livesync

import (
	"logiflow/internal/core/domain/model/kernel"
	"logiflow/internal/core/domain/model/order"
)

// OrderCache is an ordered collection of orders, newest first, indexed by id.
// It is not safe for concurrent use; a Dashboard confines it to its task goroutine.
type OrderCache struct {
	orders []*order.Order
	index  map[kernel.ID]int
}

// NewOrderCache returns an empty cache.
func NewOrderCache() *OrderCache {
	return &OrderCache{index: make(map[kernel.ID]int)}
}

// Upsert replaces the order with the same id in place, or prepends o as the newest
// entry. Applying the same record twice leaves the cache as applying it once.
// It reports whether o was inserted.
func (c *OrderCache) Upsert(o *order.Order) bool {
	if i, ok := c.index[o.ID()]; ok {
		c.orders[i] = o
		return false
	}

	c.orders = append(c.orders, nil)
	copy(c.orders[1:], c.orders)
	c.orders[0] = o
	c.reindex()
	return true
}

// ReplaceAll discards the cache and loads orders in the given order. When an id
// appears more than once, the last record wins and keeps the first position.
func (c *OrderCache) ReplaceAll(orders []*order.Order) {
	c.orders = make([]*order.Order, 0, len(orders))
	c.index = make(map[kernel.ID]int, len(orders))

	for _, o := range orders {
		if o == nil {
			continue
		}
		if i, ok := c.index[o.ID()]; ok {
			c.orders[i] = o
			continue
		}
		c.index[o.ID()] = len(c.orders)
		c.orders = append(c.orders, o)
	}
}

// Get returns the cached order with the given id.
func (c *OrderCache) Get(id kernel.ID) (*order.Order, bool) {
	i, ok := c.index[id]
	if !ok {
		return nil, false
	}
	return c.orders[i], true
}

// Len returns the number of cached orders.
func (c *OrderCache) Len() int {
	return len(c.orders)
}

// Snapshot returns a copy of the ordered sequence. Orders themselves are immutable.
func (c *OrderCache) Snapshot() []*order.Order {
	out := make([]*order.Order, len(c.orders))
	copy(out, c.orders)
	return out
}

func (c *OrderCache) reindex() {
	for i, o := range c.orders {
		c.index[o.ID()] = i
	}
}
