// Package orderservice is the HTTP adapter for ports.OrderService.
package orderservice

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"logiflow/internal/adapters/out/httpapi"
	"logiflow/internal/adapters/out/wire"
	"logiflow/internal/core/domain/model/kernel"
	"logiflow/internal/core/domain/model/order"
	"logiflow/internal/core/domain/model/session"
	"logiflow/internal/core/ports"
)

var _ ports.OrderService = (*Client)(nil)

// Client talks to the order service. Statuses are sent in the configured dialect
// and accepted in either.
type Client struct {
	api     *httpapi.Client
	dialect order.Dialect
}

func NewClient(api *httpapi.Client, dialect order.Dialect) *Client {
	return &Client{api: api, dialect: dialect}
}

// ListOrders calls GET /orders.
func (c *Client) ListOrders(ctx context.Context, s *session.Session) ([]*order.Order, error) {
	return c.list(ctx, s, "/orders")
}

// ListOrdersForRequester calls GET /orders/client/{id}.
func (c *Client) ListOrdersForRequester(
	ctx context.Context,
	s *session.Session,
	requesterID kernel.ID,
) ([]*order.Order, error) {
	if err := requesterID.Validate(); err != nil {
		return nil, err
	}
	return c.list(ctx, s, "/orders/client/"+httpapi.PathID(requesterID))
}

// CreateOrder calls POST /orders.
func (c *Client) CreateOrder(ctx context.Context, s *session.Session, draft *order.Draft) (*order.Order, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	var dto wire.OrderDTO
	err := c.api.Do(ctx, s, httpapi.Request{
		Method: http.MethodPost,
		Path:   "/orders",
		Body:   wire.NewCreateOrderRequest(draft),
	}, &dto)
	if err != nil {
		return nil, err
	}

	if dto.Status == "" {
		dto.Status = order.Pending.WireName(c.dialect)
	}
	if dto.ClientID.IsZero() {
		dto.ClientID = draft.RequesterID()
	}
	return dto.ToDomain()
}

// BindVehicle calls PUT /orders/{id}/assign/{vehicleId}.
func (c *Client) BindVehicle(ctx context.Context, s *session.Session, orderID, vehicleID kernel.ID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	if err := vehicleID.Validate(); err != nil {
		return err
	}

	return c.api.Do(ctx, s, httpapi.Request{
		Method: http.MethodPut,
		Path:   fmt.Sprintf("/orders/%s/assign/%s", httpapi.PathID(orderID), httpapi.PathID(vehicleID)),
	}, nil)
}

// SetStatus calls PATCH /orders/{id}/status?status=S.
func (c *Client) SetStatus(ctx context.Context, s *session.Session, orderID kernel.ID, status order.Status) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	if err := status.Validate(); err != nil {
		return err
	}

	return c.api.Do(ctx, s, httpapi.Request{
		Method: http.MethodPatch,
		Path:   fmt.Sprintf("/orders/%s/status", httpapi.PathID(orderID)),
		Query:  url.Values{"status": {status.WireName(c.dialect)}},
	}, nil)
}

func (c *Client) list(ctx context.Context, s *session.Session, path string) ([]*order.Order, error) {
	var dtos []wire.OrderDTO
	if err := c.api.Do(ctx, s, httpapi.Request{Method: http.MethodGet, Path: path}, &dtos); err != nil {
		return nil, err
	}
	orders, skipped := wire.OrdersToDomain(dtos)
	for _, err := range skipped {
		c.api.Logger().WarnContext(ctx, "Order record skipped", "path", path, "error", err)
	}
	return orders, nil
}
