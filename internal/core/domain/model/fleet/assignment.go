package fleet

import (
	"logiflow/internal/core/domain/model/kernel"
	"logiflow/internal/pkg/errs"
)

// DriverAssignment is the driver profile of a session and the vehicle assigned to
// it, resolved once per driver session. Vehicle is nil when the fleet service has
// no vehicle for the driver.
type DriverAssignment struct {
	driver  *DriverProfile
	vehicle *Vehicle
}

// NewDriverAssignment pairs a driver with its vehicle. vehicle may be nil.
func NewDriverAssignment(driver *DriverProfile, vehicle *Vehicle) (DriverAssignment, error) {
	if driver == nil {
		return DriverAssignment{}, errs.NewValueIsRequiredError("driver")
	}
	if err := driver.Validate(); err != nil {
		return DriverAssignment{}, err
	}
	return DriverAssignment{driver: driver, vehicle: vehicle}, nil
}

func (a DriverAssignment) Driver() *DriverProfile {
	return a.driver
}

func (a DriverAssignment) Vehicle() *Vehicle {
	return a.vehicle
}

// VehicleID returns the assigned vehicle's ID, or the zero ID without a vehicle.
func (a DriverAssignment) VehicleID() kernel.ID {
	if a.vehicle == nil {
		return kernel.ID{}
	}
	return a.vehicle.ID()
}

func (a DriverAssignment) HasVehicle() bool {
	return a.vehicle != nil
}

// IsZero reports whether the assignment has not been resolved.
func (a DriverAssignment) IsZero() bool {
	return a.driver == nil
}

// WithAvailability returns the assignment with the driver's availability replaced.
func (a DriverAssignment) WithAvailability(availability Availability) DriverAssignment {
	if a.driver == nil {
		return a
	}
	a.driver = a.driver.WithAvailability(availability)
	return a
}
