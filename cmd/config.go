package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"logiflow/internal/core/domain/model/order"
	"logiflow/internal/core/domain/model/session"
	"logiflow/internal/pkg/errs"
)

// Push transports.
const (
	PushWebSocket = "websocket"
	PushAMQP      = "amqp"
	PushPGNotify  = "pgnotify"
)

// Session stores.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

type Config struct {
	HTTPPort  string
	LogLevel  string
	LogFormat string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	OrderServiceURL string
	FleetServiceURL string
	QueryGatewayURL string
	GraphQLPath     string
	HTTPTimeout     time.Duration
	StatusDialect   order.Dialect

	ClaimRoleKeys []string
	DefaultRole   session.Role
	RoleAliases   map[string]session.Role

	PushTransport    string
	PushWebSocketURL string
	PushToken        string
	AMQPURL          string
	AMQPExchange     string
	PGNotifyChannel  string

	SessionStore  string
	DeviceCookie  string
	SecureCookie  bool
	SessionMaxAge time.Duration

	ReconcileDelay         time.Duration
	ViewIdleTimeout        time.Duration
	ResyncSchedule         string
	SweepSchedule          string
	SessionCleanupSchedule string
}

// DSN returns the Postgres connection string built from the DB_* settings.
func (c Config) DSN() string {
	return fmt.Sprintf(
		"host=%v port=%v user=%v password=%v dbname=%v sslmode=%v",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode,
	)
}

// NeedsDatabase reports whether any configured component talks to Postgres.
func (c Config) NeedsDatabase() bool {
	return c.SessionStore == StorePostgres || c.PushTransport == PushPGNotify
}

// LoadConfig reads the configuration through getenv, applying defaults for
// unset variables. Every malformed value is reported.
func LoadConfig(getenv func(string) string) (Config, error) {
	r := envReader{getenv: getenv}

	cfg := Config{
		HTTPPort:  r.str("HTTP_PORT", "8080"),
		LogLevel:  r.str("LOG_LEVEL", "info"),
		LogFormat: r.str("LOG_FORMAT", "json"),

		DBHost:     r.str("DB_HOST", "localhost"),
		DBPort:     r.str("DB_PORT", "5432"),
		DBUser:     r.str("DB_USER", ""),
		DBPassword: r.str("DB_PASSWORD", ""),
		DBName:     r.str("DB_NAME", ""),
		DBSslMode:  r.str("DB_SSLMODE", "disable"),

		OrderServiceURL: r.str("ORDER_SERVICE_URL", ""),
		FleetServiceURL: r.str("FLEET_SERVICE_URL", ""),
		QueryGatewayURL: r.str("QUERY_GATEWAY_URL", ""),
		GraphQLPath:     r.str("GRAPHQL_PATH", "/graphql"),
		HTTPTimeout:     r.duration("HTTP_TIMEOUT", 10*time.Second),

		ClaimRoleKeys: r.list("CLAIM_ROLE_KEYS", session.DefaultClaimKeys),
		DefaultRole:   session.NormalizeRole(r.str("DEFAULT_ROLE", string(session.RoleRequester)), nil),

		PushTransport:    strings.ToLower(r.str("PUSH_TRANSPORT", PushWebSocket)),
		PushWebSocketURL: r.str("PUSH_WEBSOCKET_URL", ""),
		PushToken:        r.str("PUSH_TOKEN", ""),
		AMQPURL:          r.str("AMQP_URL", ""),
		AMQPExchange:     r.str("AMQP_EXCHANGE", "orders.events"),
		PGNotifyChannel:  r.str("PGNOTIFY_CHANNEL", "orders_update"),

		SessionStore:  strings.ToLower(r.str("SESSION_STORE", StoreMemory)),
		DeviceCookie:  r.str("DEVICE_COOKIE", "logiflow_device"),
		SecureCookie:  r.boolean("SECURE_COOKIE", false),
		SessionMaxAge: r.duration("SESSION_MAX_AGE", 7*24*time.Hour),

		ReconcileDelay:         r.duration("RECONCILE_DELAY", 2*time.Second),
		ViewIdleTimeout:        r.duration("VIEW_IDLE_TIMEOUT", 15*time.Minute),
		ResyncSchedule:         r.str("RESYNC_SCHEDULE", "@every 1m"),
		SweepSchedule:          r.str("SWEEP_SCHEDULE", "@every 1m"),
		SessionCleanupSchedule: r.str("SESSION_CLEANUP_SCHEDULE", "@every 1h"),
	}

	if dialect, err := order.ParseDialect(r.str("STATUS_DIALECT", "en")); err != nil {
		r.fail(err)
	} else {
		cfg.StatusDialect = dialect
	}

	cfg.RoleAliases = session.DefaultAliases()
	if raw := r.str("ROLE_ALIASES", ""); raw != "" {
		aliases, err := session.ParseAliases(raw)
		if err != nil {
			r.fail(err)
		}
		for from, to := range aliases {
			cfg.RoleAliases[from] = to
		}
	}

	r.check(cfg)
	return cfg, r.err()
}

type envReader struct {
	getenv func(string) string
	errs   []error
}

func (r *envReader) str(key, def string) string {
	if v := strings.TrimSpace(r.getenv(key)); v != "" {
		return v
	}
	return def
}

func (r *envReader) duration(key string, def time.Duration) time.Duration {
	raw := r.str(key, "")
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 {
		r.fail(errs.NewValueIsInvalidErrorWithCause(key, fmt.Errorf("%q is not a duration", raw)))
		return def
	}
	return d
}

func (r *envReader) boolean(key string, def bool) bool {
	raw := r.str(key, "")
	if raw == "" {
		return def
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		r.fail(errs.NewValueIsInvalidErrorWithCause(key, err))
		return def
	}
	return b
}

func (r *envReader) list(key string, def []string) []string {
	raw := r.str(key, "")
	if raw == "" {
		return append([]string(nil), def...)
	}
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func (r *envReader) fail(err error) {
	r.errs = append(r.errs, err)
}

func (r *envReader) require(key, value string) {
	if value == "" {
		r.fail(errs.NewValueIsRequiredError(key))
	}
}

// check reports the settings the chosen transport and store depend on.
func (r *envReader) check(cfg Config) {
	r.require("ORDER_SERVICE_URL", cfg.OrderServiceURL)
	r.require("FLEET_SERVICE_URL", cfg.FleetServiceURL)
	r.require("QUERY_GATEWAY_URL", cfg.QueryGatewayURL)

	switch cfg.PushTransport {
	case PushWebSocket:
		r.require("PUSH_WEBSOCKET_URL", cfg.PushWebSocketURL)
	case PushAMQP:
		r.require("AMQP_URL", cfg.AMQPURL)
	case PushPGNotify:
	default:
		r.fail(errs.NewValueIsInvalidErrorWithCause("PUSH_TRANSPORT", fmt.Errorf("%q is not a known transport", cfg.PushTransport)))
	}

	switch cfg.SessionStore {
	case StoreMemory, StorePostgres:
	default:
		r.fail(errs.NewValueIsInvalidErrorWithCause("SESSION_STORE", fmt.Errorf("%q is not a known store", cfg.SessionStore)))
	}

	if cfg.NeedsDatabase() {
		r.require("DB_USER", cfg.DBUser)
		r.require("DB_NAME", cfg.DBName)
	}
}

func (r *envReader) err() error {
	return errors.Join(r.errs...)
}
