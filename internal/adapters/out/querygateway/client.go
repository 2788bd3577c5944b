// Package querygateway is the GraphQL adapter for ports.QueryGateway.
package querygateway

import (
	"context"
	"net/http"
	"strings"

	"logiflow/internal/adapters/out/httpapi"
	"logiflow/internal/adapters/out/wire"
	"logiflow/internal/core/domain/model/fleet"
	"logiflow/internal/core/domain/model/order"
	"logiflow/internal/core/domain/model/session"
	"logiflow/internal/core/ports"
	"logiflow/internal/pkg/errs"
)

var _ ports.QueryGateway = (*Client)(nil)

// OrdersWithFleetQuery joins every order with its vehicle and the vehicle's driver.
const OrdersWithFleetQuery = `query OrdersWithFleet {
  orders {
    id
    description
    deliveryLocation
    status
    latitude
    longitude
    vehicle {
      id
      brand
      model
      plate
      driver {
        id
        status
      }
    }
  }
}`

type graphQLRequest struct {
	Query         string `json:"query"`
	OperationName string `json:"operationName,omitempty"`
}

type graphQLError struct {
	Message string `json:"message"`
}

type ordersResponse struct {
	Data struct {
		Orders []wire.OrderDTO `json:"orders"`
	} `json:"data"`
	Errors []graphQLError `json:"errors"`
}

type Client struct {
	api  *httpapi.Client
	path string
}

// NewClient creates a gateway client posting to path ("/graphql" when empty).
func NewClient(api *httpapi.Client, path string) *Client {
	if strings.TrimSpace(path) == "" {
		path = "/graphql"
	}
	return &Client{api: api, path: path}
}

// OrdersWithFleet runs OrdersWithFleetQuery. GraphQL errors in a 200 response are
// reported as a rejection; vehicles are de-duplicated in order of first appearance.
func (c *Client) OrdersWithFleet(ctx context.Context, s *session.Session) (ports.OrdersWithFleet, error) {
	var resp ordersResponse
	err := c.api.Do(ctx, s, httpapi.Request{
		Method: http.MethodPost,
		Path:   c.path,
		Body:   graphQLRequest{Query: OrdersWithFleetQuery, OperationName: "OrdersWithFleet"},
	}, &resp)
	if err != nil {
		return ports.OrdersWithFleet{}, err
	}

	if len(resp.Errors) > 0 {
		messages := make([]string, 0, len(resp.Errors))
		for _, e := range resp.Errors {
			messages = append(messages, e.Message)
		}
		return ports.OrdersWithFleet{}, errs.NewRequestRejectedError(
			c.api.Service(), http.StatusOK, strings.Join(messages, "; "),
		)
	}

	result, skipped := toResult(resp.Data.Orders)
	for _, err := range skipped {
		c.api.Logger().WarnContext(ctx, "Gateway record skipped", "error", err)
	}
	return result, nil
}

// toResult converts what it can. Orders and vehicles that do not convert are
// left out and reported in skipped.
func toResult(dtos []wire.OrderDTO) (ports.OrdersWithFleet, []error) {
	orders := make([]*order.Order, 0, len(dtos))
	var vehicles []fleet.VehicleSummary
	seen := make(map[string]struct{})

	var skipped []error
	for _, dto := range dtos {
		o, err := dto.ToDomain()
		if err != nil {
			skipped = append(skipped, err)
			continue
		}
		orders = append(orders, o)

		if dto.Vehicle == nil || dto.Vehicle.ID.IsZero() {
			continue
		}
		if _, ok := seen[dto.Vehicle.ID.String()]; ok {
			continue
		}
		summary, err := dto.Vehicle.Summary()
		if err != nil {
			skipped = append(skipped, err)
			continue
		}
		seen[dto.Vehicle.ID.String()] = struct{}{}
		vehicles = append(vehicles, summary)
	}

	return ports.OrdersWithFleet{Orders: orders, Vehicles: vehicles}, skipped
}
