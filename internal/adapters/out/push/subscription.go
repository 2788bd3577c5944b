// Package push holds the ports.PushChannel transports: websocket, AMQP fanout and
// Postgres LISTEN/NOTIFY. Each transport reconnects on its own behind a
// subscription whose identity never changes.
package push

import (
	"context"
	"log/slog"
	"sync"

	"logiflow/internal/adapters/out/wire"
	"logiflow/internal/core/ports"
)

const eventBuffer = 64

// subscription is the ports.Subscription shared by the transports. The transport
// goroutine owns the events channel and closes it when it returns.
type subscription struct {
	events chan ports.OrderEvent
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
	logger *slog.Logger

	once sync.Once
}

func newSubscription(ctx context.Context, logger *slog.Logger) *subscription {
	ctx, cancel := context.WithCancel(ctx)
	return &subscription{
		events: make(chan ports.OrderEvent, eventBuffer),
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
		logger: logger,
	}
}

func (s *subscription) Events() <-chan ports.OrderEvent {
	return s.events
}

// Close cancels the transport loop and waits for it to finish.
func (s *subscription) Close() error {
	s.once.Do(s.cancel)
	<-s.done
	return nil
}

// run starts loop on its own goroutine and closes the events channel after it.
func (s *subscription) run(loop func(ctx context.Context)) {
	go func() {
		defer close(s.done)
		defer close(s.events)
		loop(s.ctx)
	}()
}

// deliver decodes payload and forwards it. Undecodable payloads are logged and
// dropped. It returns false once the subscription is closing.
func (s *subscription) deliver(payload []byte) bool {
	ev, ok, err := wire.DecodeEvent(payload)
	if err != nil {
		s.logger.WarnContext(s.ctx, "dropping undecodable event", "error", err)
		return s.ctx.Err() == nil
	}
	if !ok {
		return s.ctx.Err() == nil
	}
	return s.emit(ev)
}

func (s *subscription) emit(ev ports.OrderEvent) bool {
	select {
	case s.events <- ev:
		return true
	case <-s.ctx.Done():
		return false
	}
}
