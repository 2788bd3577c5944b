package push

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"logiflow/internal/core/ports"
	"logiflow/internal/pkg/errs"

	"github.com/cenkalti/backoff/v4"
	amqp "github.com/rabbitmq/amqp091-go"
)

const amqpService = "push-amqp"

var _ ports.PushChannel = (*AMQPChannel)(nil)

// AMQPConfig configures the AMQP transport.
type AMQPConfig struct {
	URL      string
	Exchange string

	MaxBackoff time.Duration
	Logger     *slog.Logger
}

// AMQPChannel binds one exclusive, auto-deleted queue per subscription to a
// durable fanout exchange, so every dashboard sees every event.
type AMQPChannel struct {
	cfg    AMQPConfig
	logger *slog.Logger
}

func NewAMQPChannel(cfg AMQPConfig) (*AMQPChannel, error) {
	if strings.TrimSpace(cfg.URL) == "" {
		return nil, errs.NewValueIsRequiredError("push amqp url")
	}
	if strings.TrimSpace(cfg.Exchange) == "" {
		cfg.Exchange = "orders.events"
	}
	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = 30 * time.Second
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &AMQPChannel{cfg: cfg, logger: logger.With("component", amqpService, "exchange", cfg.Exchange)}, nil
}

// amqpSession is one live connection with its consumer.
type amqpSession struct {
	conn       *amqp.Connection
	deliveries <-chan amqp.Delivery
}

func (s amqpSession) close() {
	if s.conn != nil && !s.conn.IsClosed() {
		_ = s.conn.Close()
	}
}

// Subscribe connects once and fails if that attempt fails. A closed connection
// or channel is re-established with exponential backoff.
func (c *AMQPChannel) Subscribe(ctx context.Context) (ports.Subscription, error) {
	session, err := c.connect()
	if err != nil {
		return nil, errs.NewServiceUnreachableErrorWithCause(amqpService, err)
	}

	sub := newSubscription(ctx, c.logger)
	sub.run(func(ctx context.Context) {
		for {
			consume(ctx, sub, session.deliveries)
			session.close()
			if ctx.Err() != nil {
				return
			}
			c.logger.WarnContext(ctx, "amqp consumer stopped, reconnecting")

			if session, err = c.reconnect(ctx); err != nil {
				return
			}
			if !sub.emit(ports.OrderEvent{}) {
				session.close()
				return
			}
		}
	})

	return sub, nil
}

// consume forwards deliveries until the channel closes or ctx is done.
func consume(ctx context.Context, sub *subscription, deliveries <-chan amqp.Delivery) {
	for {
		select {
		case <-ctx.Done():
			return
		case d, ok := <-deliveries:
			if !ok {
				return
			}
			if !sub.deliver(d.Body) {
				return
			}
		}
	}
}

func (c *AMQPChannel) connect() (amqpSession, error) {
	conn, err := amqp.Dial(c.cfg.URL)
	if err != nil {
		return amqpSession{}, fmt.Errorf("dial: %w", err)
	}
	s := amqpSession{conn: conn}

	ch, err := conn.Channel()
	if err != nil {
		s.close()
		return amqpSession{}, fmt.Errorf("open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(c.cfg.Exchange, amqp.ExchangeFanout, true, false, false, false, nil); err != nil {
		s.close()
		return amqpSession{}, fmt.Errorf("declare exchange: %w", err)
	}

	q, err := ch.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		s.close()
		return amqpSession{}, fmt.Errorf("declare queue: %w", err)
	}

	if err := ch.QueueBind(q.Name, "", c.cfg.Exchange, false, nil); err != nil {
		s.close()
		return amqpSession{}, fmt.Errorf("bind queue: %w", err)
	}

	deliveries, err := ch.Consume(q.Name, "", true, true, false, false, nil)
	if err != nil {
		s.close()
		return amqpSession{}, fmt.Errorf("consume: %w", err)
	}

	s.deliveries = deliveries
	return s, nil
}

func (c *AMQPChannel) reconnect(ctx context.Context) (amqpSession, error) {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 500 * time.Millisecond
	policy.MaxInterval = c.cfg.MaxBackoff
	policy.MaxElapsedTime = 0

	var session amqpSession
	err := backoff.RetryNotify(
		func() error {
			var err error
			session, err = c.connect()
			return err
		},
		backoff.WithContext(policy, ctx),
		func(err error, next time.Duration) {
			c.logger.DebugContext(ctx, "amqp reconnect failed", "error", err, "retry_in", next)
		},
	)
	if err != nil {
		return amqpSession{}, err
	}

	c.logger.InfoContext(ctx, "amqp reconnected")
	return session, nil
}
