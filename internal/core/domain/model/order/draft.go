package order

import (
	"errors"
	"strings"

	"logiflow/internal/core/domain/model/kernel"
	"logiflow/internal/pkg/errs"
	"logiflow/internal/pkg/guard"
)

// ErrDraftIsNotConstructed is returned when a Draft was not created through NewDraft.
var ErrDraftIsNotConstructed = errors.New("Draft must be created via NewDraft constructor")

// Draft is a requester's order before the order service accepts it.
//
// Business Rules:
//   - Requester ID is required
//   - Description cannot be blank
//   - Delivery place must carry coordinates
//   - Pickup coordinates are optional
type Draft struct {
	requesterID kernel.ID
	description string
	pickup      kernel.Place
	delivery    kernel.Place

	guard guard.ConstructorGuard
}

// NewDraft validates and creates a Draft. All violations are reported together.
//
// Example:
//
//	loc, _ := kernel.NewLocation(-0.18, -78.47)
//	delivery, _ := kernel.NewPlace("Av. Amazonas N24", &loc)
//	pickup, _ := kernel.NewPlace("Bodega central", nil)
//	d, err := order.NewDraft(userID, "Two boxes", pickup, delivery)
func NewDraft(requesterID kernel.ID, description string, pickup, delivery kernel.Place) (*Draft, error) {
	d := &Draft{
		pickup: pickup,
		guard:  guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		d.setRequesterID(requesterID),
		d.setDescription(description),
		d.setDelivery(delivery),
	); err != nil {
		return nil, err
	}

	return d, nil
}

// Validate ensures the Draft was created through NewDraft.
func (d *Draft) Validate() error {
	if d == nil {
		return ErrDraftIsNotConstructed
	}
	return d.guard.Validate(ErrDraftIsNotConstructed)
}

// RequesterID returns the user the order is created for.
func (d *Draft) RequesterID() kernel.ID {
	return d.requesterID
}

// Description returns the trimmed description.
func (d *Draft) Description() string {
	return d.description
}

// Pickup returns the pickup place.
func (d *Draft) Pickup() kernel.Place {
	return d.pickup
}

// Delivery returns the delivery place. It always has coordinates.
func (d *Draft) Delivery() kernel.Place {
	return d.delivery
}

func (d *Draft) setRequesterID(id kernel.ID) error {
	if id.IsZero() {
		return errs.NewValueIsRequiredError("requester id")
	}
	d.requesterID = id
	return nil
}

func (d *Draft) setDescription(description string) error {
	description = strings.TrimSpace(description)
	if description == "" {
		return errs.NewValueIsRequiredError("description")
	}
	d.description = description
	return nil
}

func (d *Draft) setDelivery(delivery kernel.Place) error {
	if !delivery.HasLocation() {
		return errs.NewValueIsRequiredError("delivery coordinates")
	}
	d.delivery = delivery
	return nil
}
