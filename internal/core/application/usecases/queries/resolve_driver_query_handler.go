package queries

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"logiflow/internal/core/domain/model/fleet"
	"logiflow/internal/core/domain/model/session"
	"logiflow/internal/core/ports"
	"logiflow/internal/pkg/errs"
)

// ResolveDriverQueryHandler correlates a driver session with the fleet service.
//
// Resolution:
//  1. List every driver profile and pick the one whose user id matches the session.
//  2. Fetch the vehicle assigned to that profile. A not-found answer means the
//     driver has no vehicle, which is not an error.
//
// Example:
//
//	handler := NewResolveDriverQueryHandler(fleetService, logger)
//	assignment, err := handler.Handle(ctx, s, NewResolveDriverQuery())
//	if errors.Is(err, errs.ErrObjectNotFound) {
//	    // the user has no driver profile
//	}
type ResolveDriverQueryHandler struct {
	fleet  ports.FleetService
	logger *slog.Logger
}

// NewResolveDriverQueryHandler creates a handler backed by the fleet service.
func NewResolveDriverQueryHandler(fleet ports.FleetService, logger *slog.Logger) ResolveDriverQueryHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return ResolveDriverQueryHandler{
		fleet:  fleet,
		logger: logger.With("component", "resolve-driver"),
	}
}

// Handle resolves the assignment of the session's user.
//
// Returns:
//   - the assignment, with a nil vehicle when none is assigned
//   - session.ErrRoleUnauthorized for a non-driver session
//   - errs.ErrValueIsRequired when the credential carries no user id
//   - errs.ErrObjectNotFound when no profile matches the user
//   - the fleet service error otherwise
func (h ResolveDriverQueryHandler) Handle(
	ctx context.Context,
	s *session.Session,
	query ResolveDriverQuery,
) (fleet.DriverAssignment, error) {
	if err := query.Validate(); err != nil {
		return fleet.DriverAssignment{}, err
	}
	if s == nil {
		return fleet.DriverAssignment{}, session.ErrCredentialMissing
	}
	if s.Role() != session.RoleDriver {
		return fleet.DriverAssignment{}, session.NewRoleUnauthorizedError(s.Role(), "open the driver board")
	}
	if s.UserID().IsZero() {
		return fleet.DriverAssignment{}, errs.NewValueIsRequiredError("user id")
	}

	drivers, err := h.fleet.ListDrivers(ctx, s)
	if err != nil {
		return fleet.DriverAssignment{}, fmt.Errorf("list drivers: %w", err)
	}

	profile, ok := fleet.FindByUserID(drivers, s.UserID())
	if !ok {
		return fleet.DriverAssignment{}, errs.NewObjectNotFoundError("driver profile", s.UserID())
	}

	vehicle, err := h.fleet.GetDriverVehicle(ctx, s, profile.ID())
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		h.logger.InfoContext(ctx, "driver has no vehicle", "driver_id", profile.ID().String())
		vehicle = nil
	case err != nil:
		return fleet.DriverAssignment{}, fmt.Errorf("get driver vehicle: %w", err)
	}

	return fleet.NewDriverAssignment(profile, vehicle)
}
