// Package wire holds the JSON shapes shared by the service clients and the push
// transports, and their conversion into domain values.
package wire

import (
	"fmt"

	"logiflow/internal/core/domain/model/fleet"
	"logiflow/internal/core/domain/model/kernel"
	"logiflow/internal/core/domain/model/order"
)

// OrderDTO is an order as the order service and the query gateway send it.
// Latitude and Longitude pin the delivery place.
type OrderDTO struct {
	ID                kernel.ID   `json:"id"`
	ClientID          kernel.ID   `json:"clientId"`
	Description       string      `json:"description"`
	PickupLocation    string      `json:"pickupLocation"`
	DeliveryLocation  string      `json:"deliveryLocation"`
	Latitude          *float64    `json:"latitude,omitempty"`
	Longitude         *float64    `json:"longitude,omitempty"`
	Status            string      `json:"status"`
	AssignedVehicleID kernel.ID   `json:"assignedVehicleId"`
	Vehicle           *VehicleDTO `json:"vehicle,omitempty"`
}

// CreateOrderRequest is the body of POST /orders.
type CreateOrderRequest struct {
	ClientID         kernel.ID `json:"clientId"`
	Description      string    `json:"description"`
	PickupLocation   string    `json:"pickupLocation"`
	DeliveryLocation string    `json:"deliveryLocation"`
	Latitude         *float64  `json:"latitude,omitempty"`
	Longitude        *float64  `json:"longitude,omitempty"`
}

// VehicleDTO is a vehicle from the fleet service or nested in a gateway order.
type VehicleDTO struct {
	ID     kernel.ID  `json:"id"`
	Brand  string     `json:"brand"`
	Model  string     `json:"model"`
	Plate  string     `json:"plate"`
	Driver *DriverDTO `json:"driver,omitempty"`
}

// DriverDTO is a driver profile. Deployments disagree on the user id spelling,
// so both are read.
type DriverDTO struct {
	ID           kernel.ID `json:"id"`
	UserID       kernel.ID `json:"userId"`
	LegacyUserID kernel.ID `json:"user_id"`
	Status       string    `json:"status"`
}

// ToDomain converts the DTO into an order. The vehicle binding comes from
// assignedVehicleId or, for gateway results, from the nested vehicle.
func (d OrderDTO) ToDomain() (*order.Order, error) {
	status, err := order.ParseStatus(d.Status)
	if err != nil {
		return nil, fmt.Errorf("order %s: %w", d.ID, err)
	}

	delivery, err := d.deliveryPlace()
	if err != nil {
		return nil, fmt.Errorf("order %s: %w", d.ID, err)
	}
	pickup, err := kernel.NewPlace(d.PickupLocation, nil)
	if err != nil {
		return nil, fmt.Errorf("order %s: %w", d.ID, err)
	}

	vehicleID := d.AssignedVehicleID
	if vehicleID.IsZero() && d.Vehicle != nil {
		vehicleID = d.Vehicle.ID
	}

	return order.RestoreOrder(d.ID, d.ClientID, d.Description, pickup, delivery, status, vehicleID)
}

func (d OrderDTO) deliveryPlace() (kernel.Place, error) {
	if d.Latitude == nil || d.Longitude == nil {
		return kernel.NewPlace(d.DeliveryLocation, nil)
	}
	loc, err := kernel.NewLocation(*d.Latitude, *d.Longitude)
	if err != nil {
		return kernel.Place{}, err
	}
	return kernel.NewPlace(d.DeliveryLocation, &loc)
}

// OrdersToDomain converts a list. Records that do not convert are left out and
// reported in skipped, so one bad record does not hide the others.
func OrdersToDomain(dtos []OrderDTO) (orders []*order.Order, skipped []error) {
	orders = make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, err := dto.ToDomain()
		if err != nil {
			skipped = append(skipped, err)
			continue
		}
		orders = append(orders, o)
	}
	return orders, skipped
}

// NewCreateOrderRequest builds the request body for draft.
func NewCreateOrderRequest(draft *order.Draft) CreateOrderRequest {
	req := CreateOrderRequest{
		ClientID:         draft.RequesterID(),
		Description:      draft.Description(),
		PickupLocation:   draft.Pickup().Address(),
		DeliveryLocation: draft.Delivery().Address(),
	}
	if loc, ok := draft.Delivery().Location(); ok {
		lat, lon := loc.Latitude(), loc.Longitude()
		req.Latitude, req.Longitude = &lat, &lon
	}
	return req
}

// UserIDValue returns userId, falling back to user_id.
func (d DriverDTO) UserIDValue() kernel.ID {
	if !d.UserID.IsZero() {
		return d.UserID
	}
	return d.LegacyUserID
}

// ToDomain converts the DTO into a profile. An unknown status is kept as
// fleet.AvailabilityUnknown.
func (d DriverDTO) ToDomain() (*fleet.DriverProfile, error) {
	availability, _ := fleet.ParseAvailability(d.Status)
	return fleet.RestoreDriverProfile(d.ID, d.UserIDValue(), availability)
}

func (d VehicleDTO) ToDomain() (*fleet.Vehicle, error) {
	return fleet.RestoreVehicle(d.ID, d.Brand, d.Model, d.Plate)
}

// Summary converts a gateway vehicle and its driver into a fleet.VehicleSummary.
func (d VehicleDTO) Summary() (fleet.VehicleSummary, error) {
	v, err := d.ToDomain()
	if err != nil {
		return fleet.VehicleSummary{}, err
	}

	summary := fleet.VehicleSummary{Vehicle: v}
	if d.Driver != nil {
		summary.DriverID = d.Driver.ID
		summary.DriverAvailability, _ = fleet.ParseAvailability(d.Driver.Status)
	}
	return summary, nil
}
