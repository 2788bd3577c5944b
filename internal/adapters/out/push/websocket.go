package push

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"logiflow/internal/core/ports"
	"logiflow/internal/pkg/errs"

	"github.com/cenkalti/backoff/v4"
	"github.com/coder/websocket"
)

const (
	wsService   = "push-websocket"
	wsReadLimit = 1 << 20
)

var _ ports.PushChannel = (*WebSocketChannel)(nil)

// WebSocketConfig configures the websocket transport.
type WebSocketConfig struct {
	URL string

	// Token, when set, is sent as a bearer credential on every dial.
	Token string

	DialTimeout time.Duration

	// MaxBackoff caps the delay between reconnect attempts.
	MaxBackoff time.Duration
	Logger     *slog.Logger
}

// WebSocketChannel subscribes to a websocket that sends {event, data} frames.
type WebSocketChannel struct {
	cfg    WebSocketConfig
	logger *slog.Logger
}

func NewWebSocketChannel(cfg WebSocketConfig) (*WebSocketChannel, error) {
	if strings.TrimSpace(cfg.URL) == "" {
		return nil, errs.NewValueIsRequiredError("push websocket url")
	}
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = 10 * time.Second
	}
	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = 30 * time.Second
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &WebSocketChannel{cfg: cfg, logger: logger.With("component", wsService)}, nil
}

// Subscribe dials once and fails if that dial fails. Later drops are retried with
// exponential backoff until the subscription is closed.
func (c *WebSocketChannel) Subscribe(ctx context.Context) (ports.Subscription, error) {
	conn, err := c.dial(ctx)
	if err != nil {
		return nil, err
	}

	sub := newSubscription(ctx, c.logger)
	sub.run(func(ctx context.Context) {
		for {
			err := c.read(ctx, sub, conn)
			conn.CloseNow()
			if ctx.Err() != nil {
				return
			}
			c.logger.WarnContext(ctx, "websocket dropped, reconnecting", "error", err)

			// Events sent while disconnected are lost; a signal makes the
			// dashboard re-fetch once the stream is back.
			if conn, err = c.redial(ctx); err != nil {
				return
			}
			if !sub.emit(ports.OrderEvent{}) {
				conn.CloseNow()
				return
			}
		}
	})

	return sub, nil
}

func (c *WebSocketChannel) read(ctx context.Context, sub *subscription, conn *websocket.Conn) error {
	for {
		typ, frame, err := conn.Read(ctx)
		if err != nil {
			return err
		}
		if typ != websocket.MessageText {
			continue
		}
		if !sub.deliver(frame) {
			return ctx.Err()
		}
	}
}

func (c *WebSocketChannel) dial(ctx context.Context) (*websocket.Conn, error) {
	dialCtx, cancel := context.WithTimeout(ctx, c.cfg.DialTimeout)
	defer cancel()

	opts := &websocket.DialOptions{}
	if c.cfg.Token != "" {
		opts.HTTPHeader = http.Header{"Authorization": {"Bearer " + c.cfg.Token}}
	}

	conn, resp, err := websocket.Dial(dialCtx, c.cfg.URL, opts)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		return nil, errs.NewServiceUnreachableErrorWithCause(wsService, err)
	}

	conn.SetReadLimit(wsReadLimit)
	return conn, nil
}

func (c *WebSocketChannel) redial(ctx context.Context) (*websocket.Conn, error) {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 200 * time.Millisecond
	policy.MaxInterval = c.cfg.MaxBackoff
	policy.MaxElapsedTime = 0

	var conn *websocket.Conn
	err := backoff.RetryNotify(
		func() error {
			var err error
			conn, err = c.dial(ctx)
			return err
		},
		backoff.WithContext(policy, ctx),
		func(err error, next time.Duration) {
			c.logger.DebugContext(ctx, "websocket redial failed", "error", err, "retry_in", next)
		},
	)
	if err != nil {
		return nil, err
	}

	c.logger.InfoContext(ctx, "websocket reconnected")
	return conn, nil
}
