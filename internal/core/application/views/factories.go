package views

import (
	"log/slog"
	"time"

	"logiflow/internal/core/application/usecases/commands"
	"logiflow/internal/core/domain/model/session"
	"logiflow/internal/core/ports"
)

// Deps are the services and use cases the views are built from.
type Deps struct {
	Orders         ports.OrderService
	Queries        ports.QueryGateway
	Channel        ports.PushChannel
	CreateOrder    commands.CreateOrderCommandHandler
	Driver         DriverServices
	ReconcileDelay time.Duration
	Logger         *slog.Logger
}

// Factories maps each view path to the constructor of its view.
func (d Deps) Factories() map[string]Factory {
	return map[string]Factory{
		session.RequesterHome: func(s *session.Session) (View, error) {
			v, err := NewRequesterView(s, d.Orders, d.Channel, d.CreateOrder, d.ReconcileDelay, d.Logger)
			if err != nil {
				return nil, err
			}
			return v, nil
		},
		session.DriverHome: func(s *session.Session) (View, error) {
			v, err := NewDriverView(s, d.Orders, d.Channel, d.Driver, d.ReconcileDelay, d.Logger)
			if err != nil {
				return nil, err
			}
			return v, nil
		},
		session.SupervisorHome: func(s *session.Session) (View, error) {
			v, err := NewSupervisorView(s, d.Queries, d.Channel, d.ReconcileDelay, d.Logger)
			if err != nil {
				return nil, err
			}
			return v, nil
		},
	}
}
