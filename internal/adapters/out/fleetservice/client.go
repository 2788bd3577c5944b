// Package fleetservice is the HTTP adapter for ports.FleetService.
package fleetservice

import (
	"context"
	"net/http"
	"net/url"

	"logiflow/internal/adapters/out/httpapi"
	"logiflow/internal/adapters/out/wire"
	"logiflow/internal/core/domain/model/fleet"
	"logiflow/internal/core/domain/model/kernel"
	"logiflow/internal/core/domain/model/session"
	"logiflow/internal/core/ports"
	"logiflow/internal/pkg/errs"
)

var _ ports.FleetService = (*Client)(nil)

type Client struct {
	api *httpapi.Client
}

func NewClient(api *httpapi.Client) *Client {
	return &Client{api: api}
}

// ListDrivers calls GET /fleet/drivers.
func (c *Client) ListDrivers(ctx context.Context, s *session.Session) ([]*fleet.DriverProfile, error) {
	var dtos []wire.DriverDTO
	if err := c.api.Do(ctx, s, httpapi.Request{Method: http.MethodGet, Path: "/fleet/drivers"}, &dtos); err != nil {
		return nil, err
	}

	profiles := make([]*fleet.DriverProfile, 0, len(dtos))
	for _, dto := range dtos {
		p, err := dto.ToDomain()
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, nil
}

// GetDriverVehicle calls GET /fleet/drivers/{id}/vehicle. A 404 or an empty body
// means the driver has no vehicle.
func (c *Client) GetDriverVehicle(ctx context.Context, s *session.Session, driverID kernel.ID) (*fleet.Vehicle, error) {
	if err := driverID.Validate(); err != nil {
		return nil, err
	}

	var dto *wire.VehicleDTO
	err := c.api.Do(ctx, s, httpapi.Request{
		Method: http.MethodGet,
		Path:   "/fleet/drivers/" + httpapi.PathID(driverID) + "/vehicle",
	}, &dto)
	if httpapi.IsStatus(err, http.StatusNotFound) {
		return nil, errs.NewObjectNotFoundErrorWithCause("vehicle of driver", driverID, err)
	}
	if err != nil {
		return nil, err
	}
	if dto == nil || dto.ID.IsZero() {
		return nil, errs.NewObjectNotFoundError("vehicle of driver", driverID)
	}

	return dto.ToDomain()
}

// SetAvailability calls PATCH /fleet/drivers/{id}/status?status=S.
func (c *Client) SetAvailability(
	ctx context.Context,
	s *session.Session,
	driverID kernel.ID,
	availability fleet.Availability,
) error {
	if err := driverID.Validate(); err != nil {
		return err
	}
	if err := availability.Validate(); err != nil {
		return err
	}

	return c.api.Do(ctx, s, httpapi.Request{
		Method: http.MethodPatch,
		Path:   "/fleet/drivers/" + httpapi.PathID(driverID) + "/status",
		Query:  url.Values{"status": {availability.WireName()}},
	}, nil)
}
