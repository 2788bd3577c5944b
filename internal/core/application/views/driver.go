package views

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"logiflow/internal/core/application/livesync"
	"logiflow/internal/core/application/usecases/commands"
	"logiflow/internal/core/application/usecases/queries"
	"logiflow/internal/core/domain/model/fleet"
	"logiflow/internal/core/domain/model/kernel"
	"logiflow/internal/core/domain/model/order"
	"logiflow/internal/core/domain/model/session"
	"logiflow/internal/core/ports"
	"logiflow/internal/pkg/errs"

	"golang.org/x/sync/errgroup"
)

// DriverSnapshot is the driver dashboard's read model.
type DriverSnapshot struct {
	Version    uint64
	Assignment fleet.DriverAssignment

	// Active is the Assigned or InTransit order on the driver's vehicle, if any.
	Active *order.Order

	// Pending lists the orders waiting for a driver.
	Pending []*order.Order

	// Delivered counts the delivered orders on the driver's vehicle.
	Delivered int

	Online bool

	// CanClaim reports whether the driver may take a pending order: online, with a
	// vehicle and nothing active on it.
	CanClaim bool

	LoadedAt time.Time
	Err      error
}

// DriverServices are the use cases a driver view acts through.
type DriverServices struct {
	Resolve         queries.ResolveDriverQueryHandler
	ChangeStatus    *commands.ChangeOrderStatusCommandHandler
	SetAvailability commands.SetAvailabilityCommandHandler
}

// DriverView shows a driver every order, derives the driver's active order and
// pending work, and runs the driver's actions.
//
// The driver assignment is resolved once, when the view mounts, and kept for the
// life of the view. Availability changes update it in place.
type DriverView struct {
	base

	services DriverServices
	logger   *slog.Logger

	mu         sync.RWMutex
	assignment fleet.DriverAssignment
}

// NewDriverView creates an unmounted driver view for s.
func NewDriverView(
	s *session.Session,
	orders ports.OrderService,
	channel ports.PushChannel,
	services DriverServices,
	reconcileDelay time.Duration,
	logger *slog.Logger,
) (*DriverView, error) {
	if s == nil {
		return nil, session.ErrCredentialMissing
	}
	if orders == nil {
		return nil, errs.NewValueIsRequiredError("order service")
	}
	if services.ChangeStatus == nil {
		return nil, errs.NewValueIsRequiredError("change status handler")
	}
	if logger == nil {
		logger = slog.Default()
	}

	dashboard, err := livesync.NewDashboard(livesync.Config{
		Name: session.DriverHome,
		Loader: func(ctx context.Context) ([]*order.Order, error) {
			return orders.ListOrders(ctx, s)
		},
		Channel:        channel,
		ReconcileDelay: reconcileDelay,
		Logger:         logger,
	})
	if err != nil {
		return nil, err
	}

	return &DriverView{
		base:     base{session: s, dashboard: dashboard},
		services: services,
		logger:   logger.With("component", "driver-view"),
	}, nil
}

// Mount resolves the driver assignment and mounts the dashboard in parallel.
//
// A driver without a fleet profile cannot use the view: the dashboard is unmounted
// and the resolution error returned. A failed initial order fetch leaves the view
// mounted, as for any dashboard.
func (v *DriverView) Mount(ctx context.Context) error {
	var assignErr, mountErr error

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a, err := v.services.Resolve.Handle(gctx, v.session, queries.NewResolveDriverQuery())
		if err != nil {
			assignErr = err
			return err
		}
		v.mu.Lock()
		v.assignment = a
		v.mu.Unlock()
		return nil
	})
	g.Go(func() error {
		mountErr = v.dashboard.Mount(gctx)
		return nil
	})
	_ = g.Wait()

	if !v.dashboard.Mounted() {
		return mountErr
	}
	if assignErr != nil {
		v.dashboard.Unmount()
		return fmt.Errorf("resolve driver: %w", assignErr)
	}
	if mountErr != nil {
		v.logger.WarnContext(ctx, "driver view mounted without orders", "error", mountErr)
	}
	return mountErr
}

// Assignment returns the resolved driver profile and vehicle.
func (v *DriverView) Assignment() fleet.DriverAssignment {
	v.mu.RLock()
	defer v.mu.RUnlock()

	return v.assignment
}

// SetAvailability records an accepted availability change.
func (v *DriverView) SetAvailability(availability fleet.Availability) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.assignment = v.assignment.WithAvailability(availability)
}

// Order returns a cached order.
func (v *DriverView) Order(id kernel.ID) (*order.Order, bool) {
	return v.dashboard.Snapshot().Get(id)
}

// Orders returns every cached order.
func (v *DriverView) Orders() []*order.Order {
	return v.dashboard.Snapshot().Orders
}

// Snapshot derives the driver's read model from the cache.
func (v *DriverView) Snapshot() DriverSnapshot {
	snap := v.dashboard.Snapshot()
	assignment := v.Assignment()
	vehicleID := assignment.VehicleID()

	out := DriverSnapshot{
		Version:    snap.Version,
		Assignment: assignment,
		Pending:    make([]*order.Order, 0),
		LoadedAt:   snap.LoadedAt,
		Err:        snap.Err,
	}
	if driver := assignment.Driver(); driver != nil {
		out.Online = driver.IsOnline()
	}

	for _, o := range snap.Orders {
		switch {
		case o.Status() == order.Pending:
			out.Pending = append(out.Pending, o)
		case !assignment.HasVehicle():
		case o.OccupiesVehicle(vehicleID):
			if out.Active == nil {
				out.Active = o
			}
		case o.Status() == order.Delivered && o.IsBoundTo(vehicleID):
			out.Delivered++
		}
	}

	out.CanClaim = out.Online && assignment.HasVehicle() && out.Active == nil
	return out
}

// ChangeStatus runs the status change saga for orderID.
func (v *DriverView) ChangeStatus(ctx context.Context, orderID kernel.ID, target order.Status) error {
	v.Touch()

	cmd, err := commands.NewChangeOrderStatusCommand(orderID, target)
	if err != nil {
		return err
	}
	return v.services.ChangeStatus.Handle(ctx, v, cmd)
}

// ToggleAvailability flips the driver between available and unavailable and
// returns the new value.
func (v *DriverView) ToggleAvailability(ctx context.Context) (fleet.Availability, error) {
	v.Touch()

	assignment := v.Assignment()
	if assignment.IsZero() {
		return fleet.AvailabilityUnknown, errs.NewObjectNotFoundError("driver profile", v.session.UserID())
	}

	next := assignment.Driver().Availability().Toggle()
	cmd, err := commands.NewSetAvailabilityCommand(next)
	if err != nil {
		return fleet.AvailabilityUnknown, err
	}
	if err = v.services.SetAvailability.Handle(ctx, v, cmd); err != nil {
		return assignment.Driver().Availability(), err
	}
	return next, nil
}
