package commands

import (
	"errors"

	"logiflow/internal/core/domain/model/fleet"
	"logiflow/internal/pkg/guard"
)

var ErrSetAvailabilityCommandIsNotConstructed = errors.New(
	"SetAvailabilityCommand must be created via NewSetAvailabilityCommand constructor",
)

// SetAvailabilityCommand asks to put the board's driver on or off duty.
type SetAvailabilityCommand struct {
	availability fleet.Availability

	guard guard.ConstructorGuard
}

func NewSetAvailabilityCommand(availability fleet.Availability) (SetAvailabilityCommand, error) {
	if err := availability.Validate(); err != nil {
		return SetAvailabilityCommand{}, err
	}

	return SetAvailabilityCommand{
		availability: availability,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

func (c SetAvailabilityCommand) Validate() error {
	return c.guard.Validate(ErrSetAvailabilityCommandIsNotConstructed)
}

func (c SetAvailabilityCommand) Availability() fleet.Availability {
	return c.availability
}
