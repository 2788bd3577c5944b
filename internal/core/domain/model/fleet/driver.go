package fleet

import (
	"errors"

	"logiflow/internal/core/domain/model/kernel"
	"logiflow/internal/pkg/guard"
)

// ErrDriverProfileIsNotConstructed is returned for a DriverProfile not created via RestoreDriverProfile.
var ErrDriverProfileIsNotConstructed = errors.New("DriverProfile must be created via RestoreDriverProfile constructor")

// DriverProfile is a fleet service driver record. UserID correlates the profile
// with the user id carried by the driver's bearer credential.
type DriverProfile struct {
	id           kernel.ID
	userID       kernel.ID
	availability Availability

	guard guard.ConstructorGuard
}

// RestoreDriverProfile rebuilds a profile received from the fleet service.
// An unknown availability is kept: the record is still usable for correlation.
func RestoreDriverProfile(id, userID kernel.ID, availability Availability) (*DriverProfile, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	return &DriverProfile{
		id:           id,
		userID:       userID,
		availability: availability,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

func (d *DriverProfile) Validate() error {
	if d == nil {
		return ErrDriverProfileIsNotConstructed
	}
	return d.guard.Validate(ErrDriverProfileIsNotConstructed)
}

func (d *DriverProfile) ID() kernel.ID {
	return d.id
}

func (d *DriverProfile) UserID() kernel.ID {
	return d.userID
}

func (d *DriverProfile) Availability() Availability {
	return d.availability
}

// IsOnline reports whether the driver accepts new orders.
func (d *DriverProfile) IsOnline() bool {
	return d.availability == Available
}

// WithAvailability returns a copy of the profile with a new availability.
func (d *DriverProfile) WithAvailability(availability Availability) *DriverProfile {
	clone := *d
	clone.availability = availability
	return &clone
}

// FindByUserID returns the profile whose user id matches userID.
func FindByUserID(profiles []*DriverProfile, userID kernel.ID) (*DriverProfile, bool) {
	if userID.IsZero() {
		return nil, false
	}
	for _, p := range profiles {
		if p.userID.IsEqual(userID) {
			return p, true
		}
	}
	return nil, false
}
