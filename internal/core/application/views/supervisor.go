package views

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"logiflow/internal/core/application/livesync"
	"logiflow/internal/core/domain/model/fleet"
	"logiflow/internal/core/domain/model/order"
	"logiflow/internal/core/domain/model/session"
	"logiflow/internal/core/ports"
	"logiflow/internal/pkg/errs"
)

// KPIs are the supervisor's order counters.
type KPIs struct {
	Total      int
	Delivered  int
	InProgress int
}

// SupervisorSnapshot is the supervisor dashboard's read model.
type SupervisorSnapshot struct {
	Version  uint64
	Orders   []*order.Order
	KPIs     KPIs
	Vehicles []fleet.VehicleSummary
	LoadedAt time.Time
	Err      error
}

// SupervisorView shows every order with its vehicle and driver, newest first.
// Vehicle summaries come with each full fetch; pushed events only update orders.
type SupervisorView struct {
	base

	mu       sync.RWMutex
	vehicles []fleet.VehicleSummary
}

// NewSupervisorView creates an unmounted supervisor view for s.
func NewSupervisorView(
	s *session.Session,
	gateway ports.QueryGateway,
	channel ports.PushChannel,
	reconcileDelay time.Duration,
	logger *slog.Logger,
) (*SupervisorView, error) {
	if s == nil {
		return nil, session.ErrCredentialMissing
	}
	if gateway == nil {
		return nil, errs.NewValueIsRequiredError("query gateway")
	}

	v := &SupervisorView{}
	dashboard, err := livesync.NewDashboard(livesync.Config{
		Name: session.SupervisorHome,
		Loader: func(ctx context.Context) ([]*order.Order, error) {
			result, err := gateway.OrdersWithFleet(ctx, s)
			if err != nil {
				return nil, err
			}
			v.mu.Lock()
			v.vehicles = result.Vehicles
			v.mu.Unlock()
			return newestFirst(result.Orders), nil
		},
		Channel:        channel,
		ReconcileDelay: reconcileDelay,
		Logger:         logger,
	})
	if err != nil {
		return nil, err
	}

	v.base = base{session: s, dashboard: dashboard}
	return v, nil
}

// Snapshot returns the orders, their counters and the vehicle summaries.
func (v *SupervisorView) Snapshot() SupervisorSnapshot {
	snap := v.dashboard.Snapshot()

	v.mu.RLock()
	vehicles := append([]fleet.VehicleSummary(nil), v.vehicles...)
	v.mu.RUnlock()

	return SupervisorSnapshot{
		Version:  snap.Version,
		Orders:   snap.Orders,
		KPIs:     CountKPIs(snap.Orders),
		Vehicles: vehicles,
		LoadedAt: snap.LoadedAt,
		Err:      snap.Err,
	}
}

// CountKPIs counts all orders, delivered orders and orders in progress
// (Assigned or InTransit).
func CountKPIs(orders []*order.Order) KPIs {
	k := KPIs{Total: len(orders)}
	for _, o := range orders {
		switch {
		case o.Status() == order.Delivered:
			k.Delivered++
		case o.Status().IsActive():
			k.InProgress++
		}
	}
	return k
}
