package fleet

import (
	"errors"
	"strings"

	"logiflow/internal/core/domain/model/kernel"
	"logiflow/internal/pkg/guard"
)

// ErrVehicleIsNotConstructed is returned for a Vehicle not created via RestoreVehicle.
var ErrVehicleIsNotConstructed = errors.New("Vehicle must be created via RestoreVehicle constructor")

// Vehicle is a fleet vehicle. Orders reference it by ID only.
type Vehicle struct {
	id    kernel.ID
	brand string
	model string
	plate string

	guard guard.ConstructorGuard
}

// RestoreVehicle rebuilds a vehicle received from the fleet service or the query
// gateway.
func RestoreVehicle(id kernel.ID, brand, model, plate string) (*Vehicle, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	return &Vehicle{
		id:    id,
		brand: strings.TrimSpace(brand),
		model: strings.TrimSpace(model),
		plate: strings.TrimSpace(plate),
		guard: guard.NewConstructorGuard(),
	}, nil
}

func (v *Vehicle) Validate() error {
	if v == nil {
		return ErrVehicleIsNotConstructed
	}
	return v.guard.Validate(ErrVehicleIsNotConstructed)
}

func (v *Vehicle) ID() kernel.ID {
	return v.id
}

func (v *Vehicle) Brand() string {
	return v.brand
}

func (v *Vehicle) Model() string {
	return v.model
}

func (v *Vehicle) Plate() string {
	return v.plate
}

// Label renders "Brand Model (PLATE)" for display.
func (v *Vehicle) Label() string {
	label := strings.TrimSpace(v.brand + " " + v.model)
	if v.plate != "" {
		label += " (" + v.plate + ")"
	}
	return label
}

// VehicleSummary is the supervisor's view of a vehicle and the driver on it.
type VehicleSummary struct {
	Vehicle            *Vehicle
	DriverID           kernel.ID
	DriverAvailability Availability
}
