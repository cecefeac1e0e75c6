package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/seyifunmi-idowu/express-sub000/internal/domain"
	"github.com/seyifunmi-idowu/express-sub000/internal/service"
)

// ──────────────────────────────────────────────
// 1. FULL ORDER LIFECYCLE
// ──────────────────────────────────────────────

func TestOrderLifecycle_WalletOrder_SettlesOnDelivery(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	e.seedWallet("wallet-c1", "customer-1", "10000.00")
	e.seedWallet("wallet-r1", "rider-1", "0.00")
	e.seedRider("rider-1", domain.VehicleMotorcycle)

	ctx := context.Background()

	order, err := e.orderSvc.PlaceOrder(ctx, service.PlaceOrderRequest{
		CustomerID:    "customer-1",
		VehicleClass:  domain.VehicleMotorcycle,
		PaymentMethod: domain.PaymentMethodWallet,
		PaymentBy:     domain.PaymentBySender,
		Pickup:        service.LocationInput{Address: "12 Marina Rd", Lat: 6.45, Lng: 3.40},
		Delivery:      service.LocationInput{Address: "3 Allen Ave", Lat: 6.60, Lng: 3.35},
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if order.Status != domain.OrderStatusPending {
		t.Fatalf("expected PENDING, got %s", order.Status)
	}
	// 10 km, 30 min on MOTORCYCLE: 500 + 10*100 + 30*15 = 1950.
	if got := order.Amount.StringFixed(2); got != "1950.00" {
		t.Errorf("expected fare 1950.00, got %s", got)
	}
	if got := order.PlatformFee.StringFixed(2); got != "292.50" {
		t.Errorf("expected fee 292.50, got %s", got)
	}

	// Dispatch proposes the rider.
	proposed, err := e.dispatchSvc.Assign(ctx, order.ID)
	if err != nil {
		t.Fatalf("expected assignment, got: %v", err)
	}
	if proposed.Status != domain.OrderStatusPendingRiderConfirmation {
		t.Fatalf("expected PENDING_RIDER_CONFIRMATION, got %s", proposed.Status)
	}
	if proposed.CandidateRiderID != "rider-1" {
		t.Fatalf("expected candidate rider-1, got %q", proposed.CandidateRiderID)
	}
	if proposed.RiderID != "" {
		t.Error("rider must not be assigned before acceptance")
	}

	// Rider accepts and walks the delivery forward.
	steps := []struct {
		target domain.OrderStatus
		proof  string
	}{
		{domain.OrderStatusRiderAccepted, ""},
		{domain.OrderStatusRiderAtPickup, ""},
		{domain.OrderStatusRiderPickedUp, "https://cdn.example/pickup.jpg"},
		{domain.OrderStatusArrived, ""},
		{domain.OrderStatusDelivered, "https://cdn.example/dropoff.jpg"},
	}
	var current *domain.Order
	for _, step := range steps {
		current, err = e.orderSvc.Transition(ctx, service.TransitionRequest{
			OrderID:  order.ID,
			Target:   step.target,
			ActorID:  "rider-1",
			Role:     domain.RoleRider,
			ProofURL: step.proof,
		})
		if err != nil {
			t.Fatalf("transition to %s: %v", step.target, err)
		}
	}

	if current.RiderID != "rider-1" {
		t.Errorf("expected assigned rider rider-1, got %q", current.RiderID)
	}

	// Delivery settles the wallet payment.
	stored := e.orders.GetOrder(order.ID)
	if !stored.Paid {
		t.Fatal("expected order to be paid after delivery")
	}
	if got := e.wallets.GetWallet("wallet-c1").Balance().StringFixed(2); got != "8050.00" {
		t.Errorf("expected customer balance 8050.00, got %s", got)
	}
	if got := e.wallets.GetWallet("wallet-r1").Balance().StringFixed(2); got != "1657.50" {
		t.Errorf("expected rider balance 1657.50, got %s", got)
	}

	debit := e.txns.TransactionByReference("order-" + order.Code)
	if debit == nil || debit.Status != domain.TransactionStatusSuccess {
		t.Error("expected settled customer debit leg")
	}
	credit := e.txns.TransactionByReference("payout-" + order.Code)
	if credit == nil || credit.Status != domain.TransactionStatusSuccess {
		t.Error("expected settled rider payout leg")
	}

	// Customer confirms completion; rider goes back online.
	done, err := e.orderSvc.Transition(ctx, service.TransitionRequest{
		OrderID: order.ID,
		Target:  domain.OrderStatusCompleted,
		ActorID: "customer-1",
		Role:    domain.RoleCustomer,
	})
	if err != nil {
		t.Fatalf("completion: %v", err)
	}
	if !done.Status.Terminal() {
		t.Error("expected terminal status")
	}
	if e.riders.GetRider("rider-1").Availability != domain.RiderOnline {
		t.Error("expected rider back ONLINE after completion")
	}

	// Every hop is on the timeline, including the PROCESSING_ORDER step
	// dispatch walks through on its way to the proposal.
	statuses := e.timeline.EntriesFor(order.ID)
	if len(statuses) != 9 {
		t.Errorf("expected 9 timeline entries, got %d: %v", len(statuses), statuses)
	}
}

func TestOrderLifecycle_CashOrder_TouchesNoWallet(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	e.seedWallet("wallet-c1", "customer-1", "500.00")
	e.seedRider("rider-1", domain.VehicleMotorcycle)
	order := e.seedOrder("order-1", "customer-1", domain.OrderStatusDelivered, domain.PaymentMethodCash, "1950.00", "292.50")
	order.RiderID = "rider-1"

	done, err := e.orderSvc.Transition(context.Background(), service.TransitionRequest{
		OrderID: order.ID,
		Target:  domain.OrderStatusCompleted,
		ActorID: "customer-1",
		Role:    domain.RoleCustomer,
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if !done.Paid {
		t.Error("cash order must be marked paid at completion")
	}
	if e.txns.CountTransactions() != 0 {
		t.Errorf("cash must produce no ledger entries, got %d", e.txns.CountTransactions())
	}
	if got := e.wallets.GetWallet("wallet-c1").Balance().StringFixed(2); got != "500.00" {
		t.Errorf("expected untouched balance 500.00, got %s", got)
	}
}

// ──────────────────────────────────────────────
// 2. TRANSITION GUARDS
// ──────────────────────────────────────────────

func TestTransition_SameStatus_IsNoOp(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	order := e.seedOrder("order-1", "customer-1", domain.OrderStatusRiderAtPickup, domain.PaymentMethodCash, "800.00", "120.00")
	order.RiderID = "rider-1"

	got, err := e.orderSvc.Transition(context.Background(), service.TransitionRequest{
		OrderID: order.ID,
		Target:  domain.OrderStatusRiderAtPickup,
		ActorID: "rider-1",
		Role:    domain.RoleRider,
	})
	if err != nil {
		t.Fatalf("retried transition must not error, got: %v", err)
	}
	if got.Status != domain.OrderStatusRiderAtPickup {
		t.Errorf("unexpected status %s", got.Status)
	}
	if len(e.timeline.EntriesFor(order.ID)) != 0 {
		t.Error("no-op transition must not append to the timeline")
	}
}

func TestTransition_IllegalJump_Fails(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	order := e.seedOrder("order-1", "customer-1", domain.OrderStatusPending, domain.PaymentMethodCash, "800.00", "120.00")

	_, err := e.orderSvc.Transition(context.Background(), service.TransitionRequest{
		OrderID:  order.ID,
		Target:   domain.OrderStatusDelivered,
		ActorID:  "rider-1",
		Role:     domain.RoleRider,
		ProofURL: "https://cdn.example/p.jpg",
	})
	if !errors.Is(err, service.ErrIllegalTransition) {
		t.Errorf("expected ErrIllegalTransition, got: %v", err)
	}
}

func TestTransition_MissingProof_Fails(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	order := e.seedOrder("order-1", "customer-1", domain.OrderStatusRiderAtPickup, domain.PaymentMethodCash, "800.00", "120.00")
	order.RiderID = "rider-1"

	_, err := e.orderSvc.Transition(context.Background(), service.TransitionRequest{
		OrderID: order.ID,
		Target:  domain.OrderStatusRiderPickedUp,
		ActorID: "rider-1",
		Role:    domain.RoleRider,
	})
	if !errors.Is(err, service.ErrProofRequired) {
		t.Errorf("expected ErrProofRequired, got: %v", err)
	}
}

func TestTransition_OnlyCandidateCanAccept(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	order := e.seedOrder("order-1", "customer-1", domain.OrderStatusPendingRiderConfirmation, domain.PaymentMethodCash, "800.00", "120.00")
	order.CandidateRiderID = "rider-1"

	_, err := e.orderSvc.Transition(context.Background(), service.TransitionRequest{
		OrderID: order.ID,
		Target:  domain.OrderStatusRiderAccepted,
		ActorID: "rider-2",
		Role:    domain.RoleRider,
	})
	if !errors.Is(err, service.ErrNotCandidateRider) {
		t.Errorf("expected ErrNotCandidateRider, got: %v", err)
	}
}

func TestTransition_DeclineReturnsOrderToDispatch(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	order := e.seedOrder("order-1", "customer-1", domain.OrderStatusPendingRiderConfirmation, domain.PaymentMethodCash, "800.00", "120.00")
	order.CandidateRiderID = "rider-1"
	e.locks.AcquireRiderLock(context.Background(), "rider-1", time.Minute)

	declined, err := e.orderSvc.Transition(context.Background(), service.TransitionRequest{
		OrderID: order.ID,
		Target:  domain.OrderStatusProcessing,
		ActorID: "rider-1",
		Role:    domain.RoleRider,
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if declined.Status != domain.OrderStatusProcessing {
		t.Errorf("expected PROCESSING_ORDER, got %s", declined.Status)
	}
	if declined.CandidateRiderID != "" {
		t.Error("decline must clear the candidate")
	}
	if e.locks.IsRiderLocked("rider-1") {
		t.Error("decline must release the proposal lock")
	}
}

// ──────────────────────────────────────────────
// 3. CANCELLATION
// ──────────────────────────────────────────────

func TestCancel_BeforeAssignment_LeavesLedgerEmpty(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	e.seedWallet("wallet-c1", "customer-1", "10000.00")
	order := e.seedOrder("order-1", "customer-1", domain.OrderStatusPendingRiderConfirmation, domain.PaymentMethodWallet, "1950.00", "292.50")
	order.CandidateRiderID = "rider-1"

	cancelled, err := e.orderSvc.Cancel(context.Background(), service.CancelRequest{
		OrderID: order.ID,
		ActorID: "customer-1",
		Role:    domain.RoleCustomer,
		Reason:  "customer changed mind",
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if cancelled.Status != domain.OrderStatusCancelled {
		t.Errorf("expected ORDER_CANCELLED, got %s", cancelled.Status)
	}
	if cancelled.CancelReason != "customer changed mind" {
		t.Errorf("unexpected cancel reason %q", cancelled.CancelReason)
	}
	if cancelled.CancelledAt.IsZero() {
		t.Error("expected cancelled-at to be set")
	}
	if e.txns.CountTransactions() != 0 {
		t.Errorf("cancellation before settlement must not touch the ledger, got %d entries", e.txns.CountTransactions())
	}
	if got := e.wallets.GetWallet("wallet-c1").Balance().StringFixed(2); got != "10000.00" {
		t.Errorf("expected untouched balance 10000.00, got %s", got)
	}
}

func TestCancel_ProposedOrder_ReleasesRiderLock(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	order := e.seedOrder("order-1", "customer-1", domain.OrderStatusPendingRiderConfirmation, domain.PaymentMethodCash, "800.00", "120.00")
	order.CandidateRiderID = "rider-1"
	e.locks.AcquireRiderLock(context.Background(), "rider-1", time.Minute)

	_, err := e.orderSvc.Cancel(context.Background(), service.CancelRequest{
		OrderID: order.ID,
		ActorID: "customer-1",
		Role:    domain.RoleCustomer,
		Reason:  "changed plans",
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	// The candidate goes back to the dispatch pool immediately instead of
	// waiting out the proposal TTL.
	if e.locks.IsRiderLocked("rider-1") {
		t.Error("cancellation must release the candidate's proposal lock")
	}
}

func TestCancel_WithoutReason_Fails(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	order := e.seedOrder("order-1", "customer-1", domain.OrderStatusPending, domain.PaymentMethodCash, "800.00", "120.00")

	_, err := e.orderSvc.Cancel(context.Background(), service.CancelRequest{
		OrderID: order.ID,
		ActorID: "customer-1",
		Role:    domain.RoleCustomer,
	})
	if !errors.Is(err, service.ErrReasonRequired) {
		t.Errorf("expected ErrReasonRequired, got: %v", err)
	}
}

func TestCancel_TerminalOrder_Fails(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	order := e.seedOrder("order-1", "customer-1", domain.OrderStatusCompleted, domain.PaymentMethodCash, "800.00", "120.00")

	_, err := e.orderSvc.Cancel(context.Background(), service.CancelRequest{
		OrderID: order.ID,
		ActorID: "customer-1",
		Role:    domain.RoleCustomer,
		Reason:  "too late",
	})
	if !errors.Is(err, service.ErrIllegalTransition) {
		t.Errorf("expected ErrIllegalTransition, got: %v", err)
	}
}

func TestCancel_RiderRole_Rejected(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	order := e.seedOrder("order-1", "customer-1", domain.OrderStatusRiderAccepted, domain.PaymentMethodCash, "800.00", "120.00")
	order.RiderID = "rider-1"

	_, err := e.orderSvc.Cancel(context.Background(), service.CancelRequest{
		OrderID: order.ID,
		ActorID: "rider-1",
		Role:    domain.RoleRider,
		Reason:  "cannot make it",
	})
	if !errors.Is(err, service.ErrIllegalTransition) {
		t.Errorf("expected ErrIllegalTransition, got: %v", err)
	}
}

// ──────────────────────────────────────────────
// 4. TIPS
// ──────────────────────────────────────────────

func TestAddTip_AfterDelivery_PaysRiderInFull(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	e.seedWallet("wallet-c1", "customer-1", "5000.00")
	e.seedWallet("wallet-r1", "rider-1", "0.00")
	order := e.seedOrder("order-1", "customer-1", domain.OrderStatusCompleted, domain.PaymentMethodWallet, "1950.00", "292.50")
	order.RiderID = "rider-1"
	order.Paid = true

	tipped, err := e.orderSvc.AddTip(context.Background(), order.ID, "customer-1", decimalFromString(t, "500.00"))
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if got := tipped.Tip.StringFixed(2); got != "500.00" {
		t.Errorf("expected tip 500.00, got %s", got)
	}

	// Tips bypass the platform fee.
	if got := e.wallets.GetWallet("wallet-c1").Balance().StringFixed(2); got != "4500.00" {
		t.Errorf("expected customer balance 4500.00, got %s", got)
	}
	if got := e.wallets.GetWallet("wallet-r1").Balance().StringFixed(2); got != "500.00" {
		t.Errorf("expected rider balance 500.00, got %s", got)
	}

	// Second tip is rejected.
	_, err = e.orderSvc.AddTip(context.Background(), order.ID, "customer-1", decimalFromString(t, "100.00"))
	if !errors.Is(err, service.ErrOrderNotTippable) {
		t.Errorf("expected ErrOrderNotTippable, got: %v", err)
	}
}

func TestAddTip_InsufficientBalance_ClearsTipForRetry(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	e.seedWallet("wallet-c1", "customer-1", "100.00")
	e.seedWallet("wallet-r1", "rider-1", "0.00")
	order := e.seedOrder("order-1", "customer-1", domain.OrderStatusCompleted, domain.PaymentMethodWallet, "1950.00", "292.50")
	order.RiderID = "rider-1"
	order.Paid = true

	_, err := e.orderSvc.AddTip(context.Background(), order.ID, "customer-1", decimalFromString(t, "500.00"))
	if !errors.Is(err, domain.ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got: %v", err)
	}

	// The failed tip is taken back off the order so a later attempt is not
	// stuck behind the one-tip guard.
	if got := e.orders.GetOrder(order.ID).Tip; !got.IsZero() {
		t.Errorf("failed tip must be cleared, got %s", got.StringFixed(2))
	}
	if got := e.wallets.GetWallet("wallet-r1").Balance().StringFixed(2); got != "0.00" {
		t.Errorf("rider must not be paid, got %s", got)
	}

	// Once funded, the retry settles normally.
	e.seedWallet("wallet-c1", "customer-1", "1000.00")
	tipped, err := e.orderSvc.AddTip(context.Background(), order.ID, "customer-1", decimalFromString(t, "500.00"))
	if err != nil {
		t.Fatalf("retry must succeed once funded, got: %v", err)
	}
	if got := tipped.Tip.StringFixed(2); got != "500.00" {
		t.Errorf("expected tip 500.00, got %s", got)
	}
	if got := e.wallets.GetWallet("wallet-c1").Balance().StringFixed(2); got != "500.00" {
		t.Errorf("expected customer balance 500.00, got %s", got)
	}
	if got := e.wallets.GetWallet("wallet-r1").Balance().StringFixed(2); got != "500.00" {
		t.Errorf("expected rider balance 500.00, got %s", got)
	}
}

func TestAddTip_BeforeDelivery_Fails(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	order := e.seedOrder("order-1", "customer-1", domain.OrderStatusRiderPickedUp, domain.PaymentMethodWallet, "1950.00", "292.50")

	_, err := e.orderSvc.AddTip(context.Background(), order.ID, "customer-1", decimalFromString(t, "500.00"))
	if !errors.Is(err, service.ErrOrderNotTippable) {
		t.Errorf("expected ErrOrderNotTippable, got: %v", err)
	}
}
