// Package http is the backend-for-frontend: sessions, the three dashboards and the
// driver's actions over echo.
package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"logiflow/internal/core/application/sessions"
	"logiflow/internal/core/application/usecases/commands"
	"logiflow/internal/core/application/views"
	"logiflow/internal/core/domain/model/fleet"
	"logiflow/internal/core/domain/model/kernel"
	"logiflow/internal/core/domain/model/order"
	"logiflow/internal/core/domain/model/session"
	"logiflow/internal/core/domain/services"
	"logiflow/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

const DefaultDeviceCookie = "logiflow_device"

// Config wires the server to the application layer.
type Config struct {
	Resolver services.SessionResolver
	Sessions *sessions.Manager
	Registry *views.Registry

	// ViewRoles lists the roles allowed per view path. Defaults to
	// services.DefaultViewRoles.
	ViewRoles map[string][]session.Role

	DeviceCookie string
	SecureCookie bool
	Logger       *slog.Logger
}

// Server handles the BFF routes. Each dashboard route is guarded by the access
// gate of its view and served from the device's mounted view.
type Server struct {
	sessions     *sessions.Manager
	registry     *views.Registry
	gates        map[string]*services.AccessGate
	deviceCookie string
	secureCookie bool
	logger       *slog.Logger
}

// NewServer creates a server with one access gate per view path.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Resolver == nil {
		return nil, errs.NewValueIsRequiredError("resolver")
	}
	if cfg.Sessions == nil {
		return nil, errs.NewValueIsRequiredError("session manager")
	}
	if cfg.Registry == nil {
		return nil, errs.NewValueIsRequiredError("view registry")
	}

	roles := cfg.ViewRoles
	if roles == nil {
		roles = services.DefaultViewRoles()
	}
	gates := make(map[string]*services.AccessGate, len(roles))
	for path, allowed := range roles {
		gate, err := services.NewAccessGate(cfg.Resolver, session.EntryPath, allowed...)
		if err != nil {
			return nil, err
		}
		gates[path] = gate
	}

	if cfg.DeviceCookie == "" {
		cfg.DeviceCookie = DefaultDeviceCookie
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Server{
		sessions:     cfg.Sessions,
		registry:     cfg.Registry,
		gates:        gates,
		deviceCookie: cfg.DeviceCookie,
		secureCookie: cfg.SecureCookie,
		logger:       logger.With("component", "http-server"),
	}, nil
}

// Register mounts every route on e.
func (s *Server) Register(e *echo.Echo) {
	e.GET("/health", s.Health)

	e.POST("/session", s.BeginSession)
	e.DELETE("/session", s.EndSession)

	client := e.Group(session.RequesterHome, s.requireView(session.RequesterHome))
	client.GET("/orders", s.GetRequesterOrders)
	client.POST("/orders", s.CreateOrder)
	client.GET("/stream", s.Stream)

	driver := e.Group(session.DriverHome, s.requireView(session.DriverHome))
	driver.GET("/board", s.GetDriverBoard)
	driver.POST("/orders/:id/status", s.ChangeOrderStatus)
	driver.POST("/availability", s.ToggleAvailability)
	driver.GET("/stream", s.Stream)

	admin := e.Group(session.SupervisorHome, s.requireView(session.SupervisorHome))
	admin.GET("/board", s.GetSupervisorBoard)
	admin.GET("/stream", s.Stream)
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Healthy")
}

// BeginSession handles POST /session: resolves and stores the credential for
// the device and tells the client where its dashboard is.
func (s *Server) BeginSession(ctx echo.Context) error {
	var req SessionRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{Code: http.StatusBadRequest, Message: "Invalid request body"})
	}

	token := strings.TrimSpace(req.Token)
	if token == "" {
		token = session.StripBearer(ctx.Request().Header.Get(echo.HeaderAuthorization))
	}

	device := s.deviceOf(ctx)
	if device == "" {
		device = newDeviceID()
	}

	sess, err := s.sessions.Begin(ctx.Request().Context(), device, token)
	if err != nil {
		return s.fail(ctx, err)
	}

	s.setDeviceCookie(ctx, device)
	return ctx.JSON(http.StatusOK, SessionResponse{
		Role:        sess.Role().String(),
		Home:        sess.HomePath(),
		DisplayName: sess.DisplayName(),
		UserID:      sess.UserID(),
	})
}

// EndSession handles DELETE /session: unmounts the device's views and forgets
// its credential.
func (s *Server) EndSession(ctx echo.Context) error {
	device := s.deviceOf(ctx)
	if device == "" {
		return ctx.NoContent(http.StatusNoContent)
	}

	closed := s.registry.Close(device)
	if err := s.sessions.End(ctx.Request().Context(), device); err != nil {
		return s.fail(ctx, err)
	}

	s.clearDeviceCookie(ctx)
	s.logger.InfoContext(ctx.Request().Context(), "session ended", "views_closed", closed)
	return ctx.NoContent(http.StatusNoContent)
}

// GetRequesterOrders handles GET /client/orders.
func (s *Server) GetRequesterOrders(ctx echo.Context) error {
	view, err := viewAs[*views.RequesterView](ctx)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, toRequesterBoard(view.Snapshot()))
}

// CreateOrder handles POST /client/orders.
func (s *Server) CreateOrder(ctx echo.Context) error {
	view, err := viewAs[*views.RequesterView](ctx)
	if err != nil {
		return s.fail(ctx, err)
	}

	var req NewOrderRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{Code: http.StatusBadRequest, Message: "Invalid request body"})
	}

	cmd, err := newCreateOrderCommand(req)
	if err != nil {
		return s.fail(ctx, err)
	}

	created, err := view.CreateOrder(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusCreated, toOrder(created))
}

// GetDriverBoard handles GET /driver/board.
func (s *Server) GetDriverBoard(ctx echo.Context) error {
	view, err := viewAs[*views.DriverView](ctx)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, toDriverBoard(view.Snapshot()))
}

// ChangeOrderStatus handles POST /driver/orders/:id/status?status=S. A 202 means
// the backend accepted the change; the board shows it once confirmed.
func (s *Server) ChangeOrderStatus(ctx echo.Context) error {
	view, err := viewAs[*views.DriverView](ctx)
	if err != nil {
		return s.fail(ctx, err)
	}

	orderID, err := kernel.NewID(ctx.Param("id"))
	if err != nil {
		return s.fail(ctx, err)
	}
	target, err := order.ParseStatus(ctx.QueryParam("status"))
	if err != nil {
		return s.fail(ctx, err)
	}

	if err := view.ChangeStatus(ctx.Request().Context(), orderID, target); err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusAccepted, StatusAccepted{OrderID: orderID, Status: target.String()})
}

// ToggleAvailability handles POST /driver/availability.
func (s *Server) ToggleAvailability(ctx echo.Context) error {
	view, err := viewAs[*views.DriverView](ctx)
	if err != nil {
		return s.fail(ctx, err)
	}

	availability, err := view.ToggleAvailability(ctx.Request().Context())
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, AvailabilityResponse{
		Availability: availability.WireName(),
		Online:       availability == fleet.Available,
	})
}

// GetSupervisorBoard handles GET /admin/board.
func (s *Server) GetSupervisorBoard(ctx echo.Context) error {
	view, err := viewAs[*views.SupervisorView](ctx)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, toSupervisorBoard(view.Snapshot()))
}

func newCreateOrderCommand(req NewOrderRequest) (commands.CreateOrderCommand, error) {
	pickup, err := kernel.NewPlace(req.PickupLocation, nil)
	if err != nil {
		return commands.CreateOrderCommand{}, err
	}

	var location *kernel.Location
	if req.Latitude != nil && req.Longitude != nil {
		loc, err := kernel.NewLocation(*req.Latitude, *req.Longitude)
		if err != nil {
			return commands.CreateOrderCommand{}, err
		}
		location = &loc
	}
	delivery, err := kernel.NewPlace(req.DeliveryLocation, location)
	if err != nil {
		return commands.CreateOrderCommand{}, err
	}

	return commands.NewCreateOrderCommand(req.Description, pickup, delivery)
}

var errViewMismatch = errors.New("mounted view does not serve this route")
