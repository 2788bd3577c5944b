package cmd

import (
	"fmt"
	"log/slog"

	bff "logiflow/internal/adapters/in/http"
	"logiflow/internal/adapters/out/fleetservice"
	"logiflow/internal/adapters/out/httpapi"
	"logiflow/internal/adapters/out/memory"
	"logiflow/internal/adapters/out/orderservice"
	"logiflow/internal/adapters/out/postgres/sessionrepo"
	"logiflow/internal/adapters/out/push"
	"logiflow/internal/adapters/out/querygateway"
	"logiflow/internal/core/application/sessions"
	"logiflow/internal/core/application/usecases/commands"
	"logiflow/internal/core/application/usecases/queries"
	"logiflow/internal/core/application/views"
	"logiflow/internal/core/domain/model/session"
	"logiflow/internal/core/ports"
	"logiflow/internal/jobs"
	"logiflow/internal/pkg/errs"

	"gorm.io/gorm"
)

// sessionStore is a session store that also expires old entries.
type sessionStore interface {
	ports.SessionStore
	jobs.SessionPurger
}

// CompositionRoot owns the long-lived components of the process.
type CompositionRoot struct {
	cfg    Config
	logger *slog.Logger

	resolver *session.Resolver
	store    sessionStore
	channel  ports.PushChannel

	orders  *orderservice.Client
	fleet   *fleetservice.Client
	gateway *querygateway.Client

	sessions *sessions.Manager
	registry *views.Registry
}

// NewCompositionRoot wires the adapters and application services. gormDB is
// required only when the session store is postgres.
func NewCompositionRoot(cfg Config, gormDB *gorm.DB, logger *slog.Logger) (*CompositionRoot, error) {
	if logger == nil {
		logger = slog.Default()
	}
	c := &CompositionRoot{cfg: cfg, logger: logger}

	c.resolver = session.NewResolver(session.ResolverConfig{
		ClaimKeys:   cfg.ClaimRoleKeys,
		DefaultRole: cfg.DefaultRole,
		Aliases:     cfg.RoleAliases,
	})

	store, err := c.createSessionStore(gormDB)
	if err != nil {
		return nil, err
	}
	c.store = store

	if c.channel, err = c.createPushChannel(); err != nil {
		return nil, err
	}
	if err := c.createServiceClients(); err != nil {
		return nil, err
	}

	if c.sessions, err = sessions.NewManager(c.resolver, c.store, logger); err != nil {
		return nil, err
	}

	deps := views.Deps{
		Orders:      c.orders,
		Queries:     c.gateway,
		Channel:     c.channel,
		CreateOrder: commands.NewCreateOrderCommandHandler(c.orders, logger),
		Driver: views.DriverServices{
			Resolve:         queries.NewResolveDriverQueryHandler(c.fleet, logger),
			ChangeStatus:    commands.NewChangeOrderStatusCommandHandler(c.orders, logger),
			SetAvailability: commands.NewSetAvailabilityCommandHandler(c.fleet, logger),
		},
		ReconcileDelay: cfg.ReconcileDelay,
		Logger:         logger,
	}
	if c.registry, err = views.NewRegistry(deps.Factories(), logger); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *CompositionRoot) createSessionStore(gormDB *gorm.DB) (sessionStore, error) {
	switch c.cfg.SessionStore {
	case StorePostgres:
		if gormDB == nil {
			return nil, errs.NewValueIsRequiredError("gorm db")
		}
		if err := sessionrepo.Migrate(gormDB); err != nil {
			return nil, fmt.Errorf("migrate sessions: %w", err)
		}
		return sessionrepo.NewGormSessionRepository(gormDB), nil
	default:
		return memory.NewSessionStore(), nil
	}
}

func (c *CompositionRoot) createPushChannel() (ports.PushChannel, error) {
	switch c.cfg.PushTransport {
	case PushAMQP:
		return push.NewAMQPChannel(push.AMQPConfig{
			URL:      c.cfg.AMQPURL,
			Exchange: c.cfg.AMQPExchange,
			Logger:   c.logger,
		})
	case PushPGNotify:
		return push.NewPGNotifyChannel(push.PGNotifyConfig{
			DSN:     c.cfg.DSN(),
			Channel: c.cfg.PGNotifyChannel,
			Logger:  c.logger,
		})
	default:
		return push.NewWebSocketChannel(push.WebSocketConfig{
			URL:    c.cfg.PushWebSocketURL,
			Token:  c.cfg.PushToken,
			Logger: c.logger,
		})
	}
}

func (c *CompositionRoot) createServiceClients() error {
	newAPI := func(service, baseURL string) (*httpapi.Client, error) {
		return httpapi.NewClient(httpapi.Config{
			Service: service,
			BaseURL: baseURL,
			Timeout: c.cfg.HTTPTimeout,
			Logger:  c.logger,
		})
	}

	orderAPI, err := newAPI("order-service", c.cfg.OrderServiceURL)
	if err != nil {
		return err
	}
	fleetAPI, err := newAPI("fleet-service", c.cfg.FleetServiceURL)
	if err != nil {
		return err
	}
	gatewayAPI, err := newAPI("query-gateway", c.cfg.QueryGatewayURL)
	if err != nil {
		return err
	}

	c.orders = orderservice.NewClient(orderAPI, c.cfg.StatusDialect)
	c.fleet = fleetservice.NewClient(fleetAPI)
	c.gateway = querygateway.NewClient(gatewayAPI, c.cfg.GraphQLPath)
	return nil
}

// CreateServer builds the BFF handlers.
func (c *CompositionRoot) CreateServer() (*bff.Server, error) {
	return bff.NewServer(bff.Config{
		Resolver:     c.resolver,
		Sessions:     c.sessions,
		Registry:     c.registry,
		DeviceCookie: c.cfg.DeviceCookie,
		SecureCookie: c.cfg.SecureCookie,
		Logger:       c.logger,
	})
}

// CreateJobManager builds the resync, sweep and session cleanup jobs.
func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(jobs.Schedules{
		Resync:         c.cfg.ResyncSchedule,
		Sweep:          c.cfg.SweepSchedule,
		IdleView:       c.cfg.ViewIdleTimeout,
		SessionCleanup: c.cfg.SessionCleanupSchedule,
		SessionMaxAge:  c.cfg.SessionMaxAge,
	}, c.registry, c.store, c.logger)
}

// Shutdown unmounts every view, closing their push subscriptions.
func (c *CompositionRoot) Shutdown() {
	c.registry.Shutdown()
}
