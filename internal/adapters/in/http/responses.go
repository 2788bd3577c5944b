package http

import (
	"time"

	"logiflow/internal/core/application/views"
	"logiflow/internal/core/domain/model/fleet"
	"logiflow/internal/core/domain/model/kernel"
	"logiflow/internal/core/domain/model/order"
)

// Error is the body of every non-2xx response.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`

	// Redirect is set on 401 and 403: where the client should go.
	Redirect string `json:"redirect,omitempty"`

	// Retry names the step to retry, "status" after a partial assignment.
	Retry string `json:"retry,omitempty"`
}

type SessionRequest struct {
	Token string `json:"token"`
}

type SessionResponse struct {
	Role        string    `json:"role"`
	Home        string    `json:"home"`
	DisplayName string    `json:"displayName"`
	UserID      kernel.ID `json:"userId"`
}

type NewOrderRequest struct {
	Description      string   `json:"description"`
	PickupLocation   string   `json:"pickupLocation"`
	DeliveryLocation string   `json:"deliveryLocation"`
	Latitude         *float64 `json:"latitude"`
	Longitude        *float64 `json:"longitude"`
}

type Order struct {
	ID               kernel.ID `json:"id"`
	RequesterID      kernel.ID `json:"requesterId"`
	Description      string    `json:"description"`
	PickupLocation   string    `json:"pickupLocation"`
	DeliveryLocation string    `json:"deliveryLocation"`
	Latitude         *float64  `json:"latitude,omitempty"`
	Longitude        *float64  `json:"longitude,omitempty"`
	Status           string    `json:"status"`
	VehicleID        kernel.ID `json:"vehicleId"`
}

type Vehicle struct {
	ID    kernel.ID `json:"id"`
	Label string    `json:"label"`
	Brand string    `json:"brand"`
	Model string    `json:"model"`
	Plate string    `json:"plate"`
}

type Board struct {
	Version  uint64     `json:"version"`
	LoadedAt *time.Time `json:"loadedAt,omitempty"`

	// Error reports a failed fetch; the orders are the last ones loaded.
	Error string `json:"error,omitempty"`
}

type RequesterBoard struct {
	Board
	Orders []Order `json:"orders"`
}

type DriverBoard struct {
	Board
	DriverID     kernel.ID `json:"driverId"`
	Availability string    `json:"availability"`
	Online       bool      `json:"online"`
	Vehicle      *Vehicle  `json:"vehicle"`
	Active       *Order    `json:"active"`
	Pending      []Order   `json:"pending"`
	Delivered    int       `json:"delivered"`
	CanClaim     bool      `json:"canClaim"`
}

type KPIs struct {
	Total      int `json:"total"`
	Delivered  int `json:"delivered"`
	InProgress int `json:"inProgress"`
}

type VehicleSummary struct {
	Vehicle
	DriverID           kernel.ID `json:"driverId"`
	DriverAvailability string    `json:"driverAvailability"`
}

type SupervisorBoard struct {
	Board
	KPIs     KPIs             `json:"kpis"`
	Orders   []Order          `json:"orders"`
	Vehicles []VehicleSummary `json:"vehicles"`
}

type StatusAccepted struct {
	OrderID kernel.ID `json:"orderId"`
	Status  string    `json:"status"`
}

type AvailabilityResponse struct {
	Availability string `json:"availability"`
	Online       bool   `json:"online"`
}

func toOrder(o *order.Order) Order {
	resp := Order{
		ID:               o.ID(),
		RequesterID:      o.RequesterID(),
		Description:      o.Description(),
		PickupLocation:   o.Pickup().Address(),
		DeliveryLocation: o.Delivery().Address(),
		Status:           o.Status().String(),
		VehicleID:        o.VehicleID(),
	}
	if loc, ok := o.Delivery().Location(); ok {
		lat, lon := loc.Latitude(), loc.Longitude()
		resp.Latitude, resp.Longitude = &lat, &lon
	}
	return resp
}

func toOrders(orders []*order.Order) []Order {
	resp := make([]Order, 0, len(orders))
	for _, o := range orders {
		resp = append(resp, toOrder(o))
	}
	return resp
}

func toVehicle(v *fleet.Vehicle) *Vehicle {
	if v == nil {
		return nil
	}
	return &Vehicle{ID: v.ID(), Label: v.Label(), Brand: v.Brand(), Model: v.Model(), Plate: v.Plate()}
}

func toBoard(version uint64, loadedAt time.Time, err error) Board {
	b := Board{Version: version}
	if !loadedAt.IsZero() {
		b.LoadedAt = &loadedAt
	}
	if err != nil {
		_, body := errorResponse(err)
		b.Error = body.Message
	}
	return b
}

func toRequesterBoard(snap views.RequesterSnapshot) RequesterBoard {
	return RequesterBoard{
		Board:  toBoard(snap.Version, snap.LoadedAt, snap.Err),
		Orders: toOrders(snap.Orders),
	}
}

func toDriverBoard(snap views.DriverSnapshot) DriverBoard {
	resp := DriverBoard{
		Board:     toBoard(snap.Version, snap.LoadedAt, snap.Err),
		Online:    snap.Online,
		Vehicle:   toVehicle(snap.Assignment.Vehicle()),
		Pending:   toOrders(snap.Pending),
		Delivered: snap.Delivered,
		CanClaim:  snap.CanClaim,
	}
	if driver := snap.Assignment.Driver(); driver != nil {
		resp.DriverID = driver.ID()
		resp.Availability = driver.Availability().WireName()
	}
	if snap.Active != nil {
		active := toOrder(snap.Active)
		resp.Active = &active
	}
	return resp
}

func toSupervisorBoard(snap views.SupervisorSnapshot) SupervisorBoard {
	vehicles := make([]VehicleSummary, 0, len(snap.Vehicles))
	for _, v := range snap.Vehicles {
		summary := VehicleSummary{
			DriverID:           v.DriverID,
			DriverAvailability: v.DriverAvailability.WireName(),
		}
		if vehicle := toVehicle(v.Vehicle); vehicle != nil {
			summary.Vehicle = *vehicle
		}
		vehicles = append(vehicles, summary)
	}

	return SupervisorBoard{
		Board: toBoard(snap.Version, snap.LoadedAt, snap.Err),
		KPIs: KPIs{
			Total:      snap.KPIs.Total,
			Delivered:  snap.KPIs.Delivered,
			InProgress: snap.KPIs.InProgress,
		},
		Orders:   toOrders(snap.Orders),
		Vehicles: vehicles,
	}
}
