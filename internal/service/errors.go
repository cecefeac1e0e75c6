package service

import "errors"

var (
	// ErrIllegalTransition is returned when the requested order status change
	// is not a legal successor for the acting role.
	ErrIllegalTransition = errors.New("illegal order status transition")

	// ErrProofRequired is returned when a pickup or delivery transition is
	// missing its proof-of-action reference.
	ErrProofRequired = errors.New("proof of action required for this transition")

	// ErrReasonRequired is returned when a cancellation is missing a reason.
	ErrReasonRequired = errors.New("cancellation reason required")

	// ErrNoEligibleRider is returned when dispatch found no candidate. The
	// caller may retry later or broaden the search radius.
	ErrNoEligibleRider = errors.New("no eligible rider available")

	// ErrAlreadyAssigned is returned when a concurrent dispatch won the
	// assignment race. The caller must re-fetch the order.
	ErrAlreadyAssigned = errors.New("order already assigned")

	// ErrOrderNoLongerPending is returned when the order left the PENDING
	// state (typically cancelled) while dispatch was mid-assignment.
	ErrOrderNoLongerPending = errors.New("order no longer pending")

	// ErrNotCandidateRider is returned when a rider responds to a proposal
	// that was not addressed to them.
	ErrNotCandidateRider = errors.New("rider is not the proposed candidate")

	// ErrRiderHasActiveOrder is returned when a rider already carries an
	// order in a non-terminal state.
	ErrRiderHasActiveOrder = errors.New("rider already has an active order")

	// ErrTransactionFinalized is returned when settling a transaction that
	// already reached a final non-success state.
	ErrTransactionFinalized = errors.New("transaction already finalized")

	// ErrInvalidSignature is returned when a payment webhook fails signature
	// verification. No state is mutated.
	ErrInvalidSignature = errors.New("invalid webhook signature")

	// ErrUnknownReference is returned when a payment callback references a
	// transaction this ledger never created.
	ErrUnknownReference = errors.New("unknown payment reference")

	// ErrAmountMismatch is returned when a payment callback's amount or
	// currency does not match the ledger entry it references. No state is
	// mutated.
	ErrAmountMismatch = errors.New("webhook amount does not match ledger entry")

	// ErrGeocodingUnavailable is returned when the geocoding collaborator
	// fails; order placement aborts cleanly.
	ErrGeocodingUnavailable = errors.New("geocoding collaborator unavailable")

	// ErrInvalidCustomerID is returned when the customer ID is empty.
	ErrInvalidCustomerID = errors.New("invalid customer id")

	// ErrInvalidRiderID is returned when the rider ID is empty.
	ErrInvalidRiderID = errors.New("invalid rider id")

	// ErrInvalidOrderCode is returned when the order code is empty.
	ErrInvalidOrderCode = errors.New("invalid order code")

	// ErrInvalidAmount is returned when a monetary amount is zero or negative.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInvalidLocation is returned when coordinates are out of range.
	ErrInvalidLocation = errors.New("invalid location")

	// ErrInvalidVehicleClass is returned when the vehicle class is unknown.
	ErrInvalidVehicleClass = errors.New("invalid vehicle class")

	// ErrOrderNotTippable is returned when adding a tip to an order that has
	// not been delivered.
	ErrOrderNotTippable = errors.New("order cannot receive a tip yet")
)
