package kernel

import "strings"

// Place is an address as typed or picked by a requester, optionally pinned to a
// geocoordinate.
type Place struct {
	address  string
	location *Location
}

// NewPlace creates a Place. A nil location means the place is text only.
func NewPlace(address string, location *Location) (Place, error) {
	if location != nil {
		if err := location.Validate(); err != nil {
			return Place{}, err
		}
		loc := *location
		location = &loc
	}
	return Place{address: strings.TrimSpace(address), location: location}, nil
}

// Address returns the free-text address.
func (p Place) Address() string {
	return p.address
}

// Location returns the pinned coordinate, if any.
func (p Place) Location() (Location, bool) {
	if p.location == nil {
		return Location{}, false
	}
	return *p.location, true
}

// HasLocation reports whether the place is pinned to a coordinate.
func (p Place) HasLocation() bool {
	return p.location != nil
}

// IsEqual compares address and coordinate.
func (p Place) IsEqual(other Place) bool {
	if p.address != other.address || p.HasLocation() != other.HasLocation() {
		return false
	}
	return p.location == nil || *p.location == *other.location
}
