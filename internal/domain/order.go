package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus represents the current status of a delivery order.
type OrderStatus string

const (
	OrderStatusPending                  OrderStatus = "PENDING"
	OrderStatusProcessing               OrderStatus = "PROCESSING_ORDER"
	OrderStatusPendingRiderConfirmation OrderStatus = "PENDING_RIDER_CONFIRMATION"
	OrderStatusRiderAccepted            OrderStatus = "RIDER_ACCEPTED_ORDER"
	OrderStatusRiderAtPickup            OrderStatus = "RIDER_AT_PICK_UP"
	OrderStatusRiderPickedUp            OrderStatus = "RIDER_PICKED_UP_ORDER"
	OrderStatusArrived                  OrderStatus = "ORDER_ARRIVED"
	OrderStatusDelivered                OrderStatus = "ORDER_DELIVERED"
	OrderStatusCompleted                OrderStatus = "ORDER_COMPLETED"
	OrderStatusCancelled                OrderStatus = "ORDER_CANCELLED"
)

// Terminal reports whether the status is an end state. Orders in a terminal
// state accept no further transitions (late tips are not transitions).
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

// ActorRole identifies who is performing a domain operation.
type ActorRole string

const (
	RoleCustomer ActorRole = "CUSTOMER"
	RoleRider    ActorRole = "RIDER"
	RoleSystem   ActorRole = "SYSTEM"
)

// PaymentMethod represents how an order is paid for.
type PaymentMethod string

const (
	PaymentMethodCash   PaymentMethod = "CASH"
	PaymentMethodWallet PaymentMethod = "WALLET"
)

// PaymentBy represents which party pays for the order.
type PaymentBy string

const (
	PaymentBySender    PaymentBy = "SENDER"
	PaymentByRecipient PaymentBy = "RECIPIENT"
)

// edge is one legal status transition together with the roles allowed to
// perform it.
type edge struct {
	to    OrderStatus
	roles []ActorRole
}

// orderGraph is the legal forward path of an order. ORDER_CANCELLED is not
// listed here: it is reachable from every non-terminal state, see CanTransition.
var orderGraph = map[OrderStatus][]edge{
	OrderStatusPending: {
		{OrderStatusProcessing, []ActorRole{RoleSystem}},
	},
	OrderStatusProcessing: {
		{OrderStatusPendingRiderConfirmation, []ActorRole{RoleSystem}},
	},
	OrderStatusPendingRiderConfirmation: {
		{OrderStatusRiderAccepted, []ActorRole{RoleRider}},
		// A declined proposal goes back to dispatch.
		{OrderStatusProcessing, []ActorRole{RoleRider, RoleSystem}},
	},
	OrderStatusRiderAccepted: {
		{OrderStatusRiderAtPickup, []ActorRole{RoleRider}},
	},
	OrderStatusRiderAtPickup: {
		{OrderStatusRiderPickedUp, []ActorRole{RoleRider}},
	},
	OrderStatusRiderPickedUp: {
		{OrderStatusArrived, []ActorRole{RoleRider}},
	},
	OrderStatusArrived: {
		{OrderStatusDelivered, []ActorRole{RoleRider}},
	},
	OrderStatusDelivered: {
		{OrderStatusCompleted, []ActorRole{RoleCustomer, RoleSystem}},
	},
	OrderStatusCompleted: {},
	OrderStatusCancelled: {},
}

// CanTransition reports whether from -> to is a legal transition for the
// given actor role.
func CanTransition(from, to OrderStatus, role ActorRole) bool {
	if to == OrderStatusCancelled {
		if from.Terminal() {
			return false
		}
		return role == RoleCustomer || role == RoleSystem
	}
	for _, e := range orderGraph[from] {
		if e.to != to {
			continue
		}
		for _, r := range e.roles {
			if r == role {
				return true
			}
		}
	}
	return false
}

// RequiresProof reports whether a transition into the given status must carry
// a proof-of-action reference (pickup or delivery photo).
func RequiresProof(to OrderStatus) bool {
	return to == OrderStatusRiderPickedUp || to == OrderStatusDelivered
}

// RequiresReason reports whether a transition into the given status must
// carry a reason.
func RequiresReason(to OrderStatus) bool {
	return to == OrderStatusCancelled
}

// AtOrBeyond reports whether the status sits at or after the reference status
// on the forward path.
func (s OrderStatus) AtOrBeyond(ref OrderStatus) bool {
	rank := map[OrderStatus]int{
		OrderStatusPending:                  0,
		OrderStatusProcessing:               1,
		OrderStatusPendingRiderConfirmation: 2,
		OrderStatusRiderAccepted:            3,
		OrderStatusRiderAtPickup:            4,
		OrderStatusRiderPickedUp:            5,
		OrderStatusArrived:                  6,
		OrderStatusDelivered:                7,
		OrderStatusCompleted:                8,
	}
	sr, ok1 := rank[s]
	rr, ok2 := rank[ref]
	return ok1 && ok2 && sr >= rr
}

// Location is an address snapshot captured at order placement. Snapshots are
// immutable after creation so fares are never recalculated against a moved
// pin.
type Location struct {
	Address string
	Lat     float64
	Lng     float64
}

// Order represents one delivery request from placement to completion.
type Order struct {
	ID   string // internal id
	Code string // external-friendly short code

	CustomerID       string
	RiderID          string // set when a rider accepts; empty before
	CandidateRiderID string // proposed by dispatch, awaiting confirmation
	VehicleClass     VehicleClass

	Status        OrderStatus
	PaymentMethod PaymentMethod
	PaymentBy     PaymentBy
	Paid          bool

	Amount      decimal.Decimal
	PlatformFee decimal.Decimal
	Tip         decimal.Decimal
	Currency    string

	DistanceKm float64
	Duration   time.Duration

	Pickup    Location
	Delivery  Location
	Stopovers []Location

	CancelReason string
	CancelledAt  time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TimelineEntry is one append-only record of an order status transition.
// Entries are never mutated or deleted.
type TimelineEntry struct {
	ID        string
	OrderID   string
	Status    OrderStatus
	ProofURL  string
	Reason    string
	Meta      map[string]string
	CreatedAt time.Time
}
