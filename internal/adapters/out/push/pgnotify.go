package push

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"logiflow/internal/core/ports"
	"logiflow/internal/pkg/errs"

	"github.com/lib/pq"
)

const pgService = "push-pgnotify"

var _ ports.PushChannel = (*PGNotifyChannel)(nil)

// PGNotifyConfig configures the LISTEN/NOTIFY transport.
type PGNotifyConfig struct {
	DSN     string
	Channel string

	MinReconnect time.Duration
	MaxReconnect time.Duration
	Logger       *slog.Logger
}

// PGNotifyChannel listens on a Postgres notification channel. Payloads use the
// same shapes as the other transports; an empty payload is a signal.
type PGNotifyChannel struct {
	cfg    PGNotifyConfig
	logger *slog.Logger
}

func NewPGNotifyChannel(cfg PGNotifyConfig) (*PGNotifyChannel, error) {
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, errs.NewValueIsRequiredError("push postgres dsn")
	}
	if strings.TrimSpace(cfg.Channel) == "" {
		cfg.Channel = "orders_update"
	}
	if cfg.MinReconnect <= 0 {
		cfg.MinReconnect = time.Second
	}
	if cfg.MaxReconnect < cfg.MinReconnect {
		cfg.MaxReconnect = 30 * time.Second
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &PGNotifyChannel{cfg: cfg, logger: logger.With("component", pgService, "channel", cfg.Channel)}, nil
}

// Subscribe opens a listener. pq.Listener reconnects by itself; after a
// reconnect it delivers a nil notification, forwarded as a signal.
func (c *PGNotifyChannel) Subscribe(ctx context.Context) (ports.Subscription, error) {
	if err := c.probe(ctx); err != nil {
		return nil, errs.NewServiceUnreachableErrorWithCause(pgService, err)
	}

	listener := pq.NewListener(c.cfg.DSN, c.cfg.MinReconnect, c.cfg.MaxReconnect, c.report)
	if err := listener.Listen(c.cfg.Channel); err != nil {
		_ = listener.Close()
		return nil, errs.NewServiceUnreachableErrorWithCause(pgService, err)
	}

	sub := newSubscription(ctx, c.logger)
	sub.run(func(ctx context.Context) {
		defer listener.Close()
		listen(ctx, sub, listener.Notify)
	})

	return sub, nil
}

// listen forwards notifications until ctx is done or notify closes.
func listen(ctx context.Context, sub *subscription, notify <-chan *pq.Notification) {
	for {
		select {
		case <-ctx.Done():
			return
		case n, ok := <-notify:
			if !ok {
				return
			}
			if n == nil {
				if !sub.emit(ports.OrderEvent{}) {
					return
				}
				continue
			}
			if !sub.deliver([]byte(n.Extra)) {
				return
			}
		}
	}
}

// probe opens and closes one connection. Listen blocks while the server is down,
// so an unreachable server is detected here first.
func (c *PGNotifyChannel) probe(ctx context.Context) error {
	connector, err := pq.NewConnector(c.cfg.DSN)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.MaxReconnect)
	defer cancel()

	conn, err := connector.Connect(ctx)
	if err != nil {
		return err
	}
	return conn.Close()
}

func (c *PGNotifyChannel) report(ev pq.ListenerEventType, err error) {
	switch ev {
	case pq.ListenerEventConnected:
		c.logger.Info("listener connected")
	case pq.ListenerEventDisconnected:
		c.logger.Warn("listener disconnected", "error", err)
	case pq.ListenerEventReconnected:
		c.logger.Info("listener reconnected")
	case pq.ListenerEventConnectionAttemptFailed:
		c.logger.Debug("listener connection attempt failed", "error", err)
	}
}
