package commands

import (
	"errors"
	"strings"

	"logiflow/internal/core/domain/model/kernel"
	"logiflow/internal/pkg/errs"
	"logiflow/internal/pkg/guard"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// CreateOrderCommand represents a requester's request to open a new order.
// The requester is taken from the session at handling time, never from the input.
//
// Example:
//
//	loc, _ := kernel.NewLocation(-0.1807, -78.4678)
//	delivery, _ := kernel.NewPlace("Av. Amazonas N34", &loc)
//	cmd, err := NewCreateOrderCommand("Documents", kernel.Place{}, delivery)
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//	created, err := handler.Handle(ctx, board, cmd)
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	description string
	pickup      kernel.Place
	delivery    kernel.Place

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand creates a command to register a new order.
// The description must not be blank and the delivery place must carry coordinates;
// the pickup place is optional.
func NewCreateOrderCommand(description string, pickup, delivery kernel.Place) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		pickup: pickup,
		guard:  guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setDescription(description),
		cmd.setDelivery(delivery),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrCreateOrderCommandIsNotConstructed if validation fails.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

// Description returns the free-text content of the order.
func (c CreateOrderCommand) Description() string {
	return c.description
}

// Pickup returns the pickup place.
func (c CreateOrderCommand) Pickup() kernel.Place {
	return c.pickup
}

// Delivery returns the delivery place.
func (c CreateOrderCommand) Delivery() kernel.Place {
	return c.delivery
}

func (c *CreateOrderCommand) setDescription(description string) error {
	description = strings.TrimSpace(description)
	if description == "" {
		return errs.NewValueIsRequiredError("description")
	}

	c.description = description
	return nil
}

func (c *CreateOrderCommand) setDelivery(delivery kernel.Place) error {
	if !delivery.HasLocation() {
		return errs.NewValueIsRequiredError("delivery coordinates")
	}

	c.delivery = delivery
	return nil
}
