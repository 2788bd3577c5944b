package views

import (
	"context"
	"log/slog"
	"time"

	"logiflow/internal/core/application/livesync"
	"logiflow/internal/core/application/usecases/commands"
	"logiflow/internal/core/domain/model/order"
	"logiflow/internal/core/domain/model/session"
	"logiflow/internal/core/ports"
	"logiflow/internal/pkg/errs"
)

// RequesterSnapshot is the requester dashboard's read model.
type RequesterSnapshot struct {
	Version  uint64
	Orders   []*order.Order
	LoadedAt time.Time
	Err      error
}

// RequesterView lists the orders of one requester, newest first, and creates new ones.
type RequesterView struct {
	base

	create commands.CreateOrderCommandHandler
}

// NewRequesterView creates an unmounted requester view for s.
func NewRequesterView(
	s *session.Session,
	orders ports.OrderService,
	channel ports.PushChannel,
	create commands.CreateOrderCommandHandler,
	reconcileDelay time.Duration,
	logger *slog.Logger,
) (*RequesterView, error) {
	if s == nil {
		return nil, session.ErrCredentialMissing
	}
	if orders == nil {
		return nil, errs.NewValueIsRequiredError("order service")
	}

	requesterID := s.UserID()
	dashboard, err := livesync.NewDashboard(livesync.Config{
		Name: session.RequesterHome,
		Loader: func(ctx context.Context) ([]*order.Order, error) {
			list, err := orders.ListOrdersForRequester(ctx, s, requesterID)
			if err != nil {
				return nil, err
			}
			return newestFirst(list), nil
		},
		Filter: func(o *order.Order) bool {
			return o.RequesterID().IsEqual(requesterID)
		},
		Channel:        channel,
		ReconcileDelay: reconcileDelay,
		Logger:         logger,
	})
	if err != nil {
		return nil, err
	}

	return &RequesterView{
		base:   base{session: s, dashboard: dashboard},
		create: create,
	}, nil
}

// Snapshot returns the current read model.
func (v *RequesterView) Snapshot() RequesterSnapshot {
	snap := v.dashboard.Snapshot()
	return RequesterSnapshot{
		Version:  snap.Version,
		Orders:   snap.Orders,
		LoadedAt: snap.LoadedAt,
		Err:      snap.Err,
	}
}

// CreateOrder submits a new order for the view's requester.
func (v *RequesterView) CreateOrder(ctx context.Context, cmd commands.CreateOrderCommand) (*order.Order, error) {
	v.Touch()
	return v.create.Handle(ctx, v, cmd)
}
