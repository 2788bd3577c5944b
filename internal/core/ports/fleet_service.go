package ports

import (
	"context"

	"logiflow/internal/core/domain/model/fleet"
	"logiflow/internal/core/domain/model/kernel"
	"logiflow/internal/core/domain/model/session"
)

// FleetService is the driver and vehicle backend.
type FleetService interface {
	// ListDrivers returns all driver profiles. Each profile carries the user id
	// it belongs to, whichever field spelling the service used.
	ListDrivers(ctx context.Context, s *session.Session) ([]*fleet.DriverProfile, error)

	// GetDriverVehicle returns the vehicle assigned to driverID, or an
	// *errs.ObjectNotFoundError when the driver has none.
	GetDriverVehicle(ctx context.Context, s *session.Session, driverID kernel.ID) (*fleet.Vehicle, error)

	// SetAvailability changes whether driverID accepts new orders.
	SetAvailability(ctx context.Context, s *session.Session, driverID kernel.ID, availability fleet.Availability) error
}
