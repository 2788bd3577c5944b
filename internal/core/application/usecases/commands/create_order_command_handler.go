package commands

import (
	"context"
	"fmt"
	"log/slog"

	"logiflow/internal/core/domain/model/order"
	"logiflow/internal/core/domain/model/session"
	"logiflow/internal/core/ports"
)

// CreateOrderCommandHandler opens orders on behalf of requesters.
//
// Example:
//
//	handler := NewCreateOrderCommandHandler(orderService, logger)
//	cmd, _ := NewCreateOrderCommand("Documents", pickup, delivery)
//
//	created, err := handler.Handle(ctx, requesterBoard, cmd)
//	if err != nil {
//	    return fmt.Errorf("order creation failed: %w", err)
//	}
//	// created is Pending; the board shows it once the push event lands
type CreateOrderCommandHandler struct {
	orders ports.OrderService
	logger *slog.Logger
}

// NewCreateOrderCommandHandler creates a handler for order creation.
func NewCreateOrderCommandHandler(orders ports.OrderService, logger *slog.Logger) CreateOrderCommandHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return CreateOrderCommandHandler{
		orders: orders,
		logger: logger.With("component", "create-order"),
	}
}

// Handle builds a draft for the session's user and submits it to the order service.
// The board is told to expect the new order as Pending; the created record is
// returned as the service reported it.
func (h *CreateOrderCommandHandler) Handle(ctx context.Context, board Board, cmd CreateOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	if board == nil || board.Session() == nil {
		return nil, session.ErrCredentialMissing
	}

	s := board.Session()
	if s.Role() != session.RoleRequester {
		return nil, session.NewRoleUnauthorizedError(s.Role(), "create orders")
	}

	draft, err := order.NewDraft(s.UserID(), cmd.Description(), cmd.Pickup(), cmd.Delivery())
	if err != nil {
		return nil, err
	}

	created, err := h.orders.CreateOrder(ctx, s, draft)
	if err != nil {
		h.logger.WarnContext(ctx, "order creation failed", "error", err)
		return nil, fmt.Errorf("create order: %w", err)
	}

	board.Expect(created.ID(), order.Pending)
	h.logger.InfoContext(ctx, "order created", "order_id", created.ID().String())
	return created, nil
}
