package domain

import "time"

// RiderStatus represents a rider's account standing.
type RiderStatus string

const (
	RiderStatusUnapproved RiderStatus = "UNAPPROVED"
	RiderStatusApproved   RiderStatus = "APPROVED"
	RiderStatusSuspended  RiderStatus = "SUSPENDED"
)

// RiderAvailability represents whether a rider is taking orders.
type RiderAvailability string

const (
	RiderOnline     RiderAvailability = "ONLINE"
	RiderOffline    RiderAvailability = "OFFLINE"
	RiderOnDelivery RiderAvailability = "ON_DELIVERY"
)

// VehicleClass is the pricing tier an order is quoted against and the vehicle
// type a rider operates.
type VehicleClass string

const (
	VehicleBicycle    VehicleClass = "BICYCLE"
	VehicleMotorcycle VehicleClass = "MOTORCYCLE"
	VehicleCar        VehicleClass = "CAR"
	VehicleVan        VehicleClass = "VAN"
)

// Rider represents an independent courier.
type Rider struct {
	ID           string
	Name         string
	Phone        string
	Status       RiderStatus
	Availability RiderAvailability
	VehicleClass VehicleClass
	ApprovedAt   time.Time
	CreatedAt    time.Time
}

// Eligible reports whether the rider may be considered for dispatch at all.
// The single-active-order check happens against the order store, not here.
func (r *Rider) Eligible(class VehicleClass) bool {
	return r.Status == RiderStatusApproved &&
		r.Availability == RiderOnline &&
		r.VehicleClass == class
}
