package domain

import "testing"

func TestCanTransition_ForwardPath(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		from OrderStatus
		to   OrderStatus
		role ActorRole
		want bool
	}{
		{"system starts processing", OrderStatusPending, OrderStatusProcessing, RoleSystem, true},
		{"customer cannot start processing", OrderStatusPending, OrderStatusProcessing, RoleCustomer, false},
		{"system proposes rider", OrderStatusProcessing, OrderStatusPendingRiderConfirmation, RoleSystem, true},
		{"rider accepts proposal", OrderStatusPendingRiderConfirmation, OrderStatusRiderAccepted, RoleRider, true},
		{"customer cannot accept for rider", OrderStatusPendingRiderConfirmation, OrderStatusRiderAccepted, RoleCustomer, false},
		{"rider declines back to dispatch", OrderStatusPendingRiderConfirmation, OrderStatusProcessing, RoleRider, true},
		{"rider arrives at pickup", OrderStatusRiderAccepted, OrderStatusRiderAtPickup, RoleRider, true},
		{"rider picks up", OrderStatusRiderAtPickup, OrderStatusRiderPickedUp, RoleRider, true},
		{"rider reports arrival", OrderStatusRiderPickedUp, OrderStatusArrived, RoleRider, true},
		{"rider delivers", OrderStatusArrived, OrderStatusDelivered, RoleRider, true},
		{"customer completes", OrderStatusDelivered, OrderStatusCompleted, RoleCustomer, true},
		{"system completes", OrderStatusDelivered, OrderStatusCompleted, RoleSystem, true},
		{"no skipping ahead", OrderStatusRiderAccepted, OrderStatusDelivered, RoleRider, false},
		{"no going backwards", OrderStatusDelivered, OrderStatusRiderPickedUp, RoleRider, false},
		{"completed is terminal", OrderStatusCompleted, OrderStatusDelivered, RoleSystem, false},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := CanTransition(tc.from, tc.to, tc.role); got != tc.want {
				t.Errorf("CanTransition(%s, %s, %s) = %v, want %v", tc.from, tc.to, tc.role, got, tc.want)
			}
		})
	}
}

func TestCanTransition_Cancellation(t *testing.T) {
	t.Parallel()

	nonTerminal := []OrderStatus{
		OrderStatusPending,
		OrderStatusProcessing,
		OrderStatusPendingRiderConfirmation,
		OrderStatusRiderAccepted,
		OrderStatusRiderAtPickup,
		OrderStatusRiderPickedUp,
		OrderStatusArrived,
		OrderStatusDelivered,
	}

	for _, from := range nonTerminal {
		if !CanTransition(from, OrderStatusCancelled, RoleCustomer) {
			t.Errorf("customer must be able to cancel from %s", from)
		}
		if !CanTransition(from, OrderStatusCancelled, RoleSystem) {
			t.Errorf("system must be able to cancel from %s", from)
		}
		if CanTransition(from, OrderStatusCancelled, RoleRider) {
			t.Errorf("rider must not cancel from %s", from)
		}
	}

	for _, from := range []OrderStatus{OrderStatusCompleted, OrderStatusCancelled} {
		if CanTransition(from, OrderStatusCancelled, RoleCustomer) {
			t.Errorf("terminal state %s must not be cancellable", from)
		}
	}
}

func TestRequiresProofAndReason(t *testing.T) {
	t.Parallel()

	if !RequiresProof(OrderStatusRiderPickedUp) {
		t.Error("pickup requires proof")
	}
	if !RequiresProof(OrderStatusDelivered) {
		t.Error("delivery requires proof")
	}
	if RequiresProof(OrderStatusRiderAccepted) {
		t.Error("acceptance requires no proof")
	}
	if !RequiresReason(OrderStatusCancelled) {
		t.Error("cancellation requires a reason")
	}
	if RequiresReason(OrderStatusCompleted) {
		t.Error("completion requires no reason")
	}
}

func TestAtOrBeyond(t *testing.T) {
	t.Parallel()

	if !OrderStatusDelivered.AtOrBeyond(OrderStatusDelivered) {
		t.Error("a status is at itself")
	}
	if !OrderStatusCompleted.AtOrBeyond(OrderStatusDelivered) {
		t.Error("completed is beyond delivered")
	}
	if OrderStatusArrived.AtOrBeyond(OrderStatusDelivered) {
		t.Error("arrived is before delivered")
	}
	if OrderStatusCancelled.AtOrBeyond(OrderStatusDelivered) {
		t.Error("cancelled sits outside the forward path")
	}
}

func TestTerminal(t *testing.T) {
	t.Parallel()

	if !OrderStatusCompleted.Terminal() || !OrderStatusCancelled.Terminal() {
		t.Error("completed and cancelled are terminal")
	}
	if OrderStatusDelivered.Terminal() {
		t.Error("delivered is not terminal")
	}
}
