package commands

import "time"

// SetClock replaces the handler's clock.
func (h *ChangeOrderStatusCommandHandler) SetClock(now func() time.Time) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.now = now
}

// PartialBinds returns how many binds are waiting for their status step.
func (h *ChangeOrderStatusCommandHandler) PartialBinds() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	return len(h.partial)
}
