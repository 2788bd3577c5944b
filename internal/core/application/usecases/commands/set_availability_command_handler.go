package commands

import (
	"context"
	"fmt"
	"log/slog"

	"logiflow/internal/core/domain/model/session"
	"logiflow/internal/core/ports"
	"logiflow/internal/pkg/errs"
)

// SetAvailabilityCommandHandler updates a driver's availability on the fleet service
// and, once accepted, on the driver's board.
type SetAvailabilityCommandHandler struct {
	fleet  ports.FleetService
	logger *slog.Logger
}

func NewSetAvailabilityCommandHandler(fleet ports.FleetService, logger *slog.Logger) SetAvailabilityCommandHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return SetAvailabilityCommandHandler{
		fleet:  fleet,
		logger: logger.With("component", "set-availability"),
	}
}

// Handle sends the new availability for the board's driver. The board keeps its
// previous value when the service rejects the change.
func (h *SetAvailabilityCommandHandler) Handle(ctx context.Context, board AvailabilityBoard, cmd SetAvailabilityCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	if board == nil || board.Session() == nil {
		return session.ErrCredentialMissing
	}

	s := board.Session()
	if s.Role() != session.RoleDriver {
		return session.NewRoleUnauthorizedError(s.Role(), "change availability")
	}

	assignment := board.Assignment()
	if assignment.IsZero() {
		return errs.NewObjectNotFoundError("driver profile", s.UserID())
	}

	driverID := assignment.Driver().ID()
	if err := h.fleet.SetAvailability(ctx, s, driverID, cmd.Availability()); err != nil {
		h.logger.WarnContext(ctx, "availability update failed", "driver_id", driverID.String(), "error", err)
		return fmt.Errorf("set availability: %w", err)
	}

	board.SetAvailability(cmd.Availability())
	h.logger.InfoContext(ctx, "availability changed",
		"driver_id", driverID.String(),
		"availability", cmd.Availability().String(),
	)
	return nil
}
