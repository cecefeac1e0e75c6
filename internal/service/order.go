package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/seyifunmi-idowu/express-sub000/internal/domain"
	"github.com/seyifunmi-idowu/express-sub000/internal/redis"
	"github.com/seyifunmi-idowu/express-sub000/internal/repository"
)

// OrderService owns the order lifecycle: placement, status transitions,
// cancellation and late tips. Every transition is one atomic unit of
// status update + timeline append + activity event; side effects (settlement,
// notifications) run after the transaction commits.
type OrderService struct {
	tx           repository.TxRunner
	orderRepo    repository.OrderRepository
	timelineRepo repository.TimelineRepository
	geocoder     Geocoder
	pricing      *PricingService
	ledger       *LedgerService
	notifier     *NotificationService
	locks        redis.LockStoreInterface
}

// NewOrderService creates a new OrderService.
func NewOrderService(
	tx repository.TxRunner,
	orderRepo repository.OrderRepository,
	timelineRepo repository.TimelineRepository,
	geocoder Geocoder,
	pricing *PricingService,
	ledger *LedgerService,
	notifier *NotificationService,
	locks redis.LockStoreInterface,
) *OrderService {
	return &OrderService{
		tx:           tx,
		orderRepo:    orderRepo,
		timelineRepo: timelineRepo,
		geocoder:     geocoder,
		pricing:      pricing,
		ledger:       ledger,
		notifier:     notifier,
		locks:        locks,
	}
}

// LocationInput is a point supplied at order placement. Address may be empty,
// in which case the geocoder resolves it.
type LocationInput struct {
	Address string
	Lat     float64
	Lng     float64
}

// PlaceOrderRequest contains the parameters for placing an order.
type PlaceOrderRequest struct {
	CustomerID    string
	VehicleClass  domain.VehicleClass
	PaymentMethod domain.PaymentMethod
	PaymentBy     domain.PaymentBy
	Pickup        LocationInput
	Delivery      LocationInput
	Stopovers     []LocationInput
}

// PlaceOrder creates a new order in PENDING. Addresses and the route estimate
// are snapshotted once here; the fare is quoted from that snapshot and never
// recalculated.
func (s *OrderService) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*domain.Order, error) {
	if req.CustomerID == "" {
		return nil, ErrInvalidCustomerID
	}
	if !validCoordinates(req.Pickup.Lat, req.Pickup.Lng) || !validCoordinates(req.Delivery.Lat, req.Delivery.Lng) {
		return nil, ErrInvalidLocation
	}
	if req.PaymentMethod != domain.PaymentMethodCash && req.PaymentMethod != domain.PaymentMethodWallet {
		req.PaymentMethod = domain.PaymentMethodCash
	}
	if req.PaymentBy != domain.PaymentBySender && req.PaymentBy != domain.PaymentByRecipient {
		req.PaymentBy = domain.PaymentBySender
	}

	// Collaborator calls happen before any lock is taken.
	pickup, err := s.snapshotLocation(ctx, req.Pickup)
	if err != nil {
		return nil, err
	}
	delivery, err := s.snapshotLocation(ctx, req.Delivery)
	if err != nil {
		return nil, err
	}
	stopovers := make([]domain.Location, 0, len(req.Stopovers))
	for _, in := range req.Stopovers {
		if !validCoordinates(in.Lat, in.Lng) {
			return nil, ErrInvalidLocation
		}
		loc, err := s.snapshotLocation(ctx, in)
		if err != nil {
			return nil, err
		}
		stopovers = append(stopovers, loc)
	}

	route, err := s.geocoder.ComputeRoute(ctx, pickup.Lat, pickup.Lng, delivery.Lat, delivery.Lng)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGeocodingUnavailable, err)
	}

	quote, err := s.pricing.QuoteFare(req.VehicleClass, route.DistanceKm, route.Duration)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	order := &domain.Order{
		ID:            uuid.New().String(),
		Code:          newOrderCode(),
		CustomerID:    req.CustomerID,
		VehicleClass:  req.VehicleClass,
		Status:        domain.OrderStatusPending,
		PaymentMethod: req.PaymentMethod,
		PaymentBy:     req.PaymentBy,
		Amount:        quote.Amount,
		PlatformFee:   quote.PlatformFee,
		Tip:           decimal.Zero,
		Currency:      quote.Currency,
		DistanceKm:    route.DistanceKm,
		Duration:      route.Duration,
		Pickup:        pickup,
		Delivery:      delivery,
		Stopovers:     stopovers,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	err = s.tx.RunInTx(ctx, func(r repository.TxRepos) error {
		if err := r.Orders.Create(ctx, order); err != nil {
			return err
		}
		if err := r.Timeline.Append(ctx, newTimelineEntry(order.ID, domain.OrderStatusPending, "", "", now)); err != nil {
			return err
		}
		return r.Activity.Append(ctx, newActivityEntry("order", "order_placed", req.CustomerID, domain.RoleCustomer, order.ID, map[string]string{
			"code":   order.Code,
			"amount": order.Amount.StringFixed(2),
		}, now))
	})
	if err != nil {
		return nil, err
	}

	s.notifier.NotifyOrderPlaced(ctx, order)
	return order, nil
}

// TransitionRequest contains the parameters for advancing an order.
type TransitionRequest struct {
	OrderID  string
	Target   domain.OrderStatus
	ActorID  string
	Role     domain.ActorRole
	ProofURL string
	Reason   string
}

// effect is a side effect to perform after the transition transaction
// commits. A failing effect can never roll back the domain write.
type effect int

const (
	effectNone effect = iota
	effectNotifyAccepted
	effectNotifyStatus
	effectNotifyCancelled
	effectDelivered
)

// Transition advances an order along the legal state graph. Repeating a
// transition the order already completed is a no-op returning the current
// order, so rider retries collapse instead of erroring.
func (s *OrderService) Transition(ctx context.Context, req TransitionRequest) (*domain.Order, error) {
	if domain.RequiresProof(req.Target) && req.ProofURL == "" {
		return nil, ErrProofRequired
	}
	if domain.RequiresReason(req.Target) && req.Reason == "" {
		return nil, ErrReasonRequired
	}

	var order *domain.Order
	fx := effectNone
	releaseRider := ""

	err := s.tx.RunInTx(ctx, func(r repository.TxRepos) error {
		o, err := r.Orders.GetForUpdate(ctx, req.OrderID)
		if err != nil {
			return err
		}

		if o.Status == req.Target {
			order = o
			return nil
		}
		if !domain.CanTransition(o.Status, req.Target, req.Role) {
			return ErrIllegalTransition
		}

		now := time.Now()

		switch req.Target {
		case domain.OrderStatusRiderAccepted:
			if req.Role == domain.RoleRider && req.ActorID != o.CandidateRiderID {
				return ErrNotCandidateRider
			}
			o.RiderID = o.CandidateRiderID
			if err := r.Riders.UpdateAvailability(ctx, o.RiderID, domain.RiderOnDelivery); err != nil {
				return err
			}
			fx = effectNotifyAccepted

		case domain.OrderStatusProcessing:
			// Rider declined the proposal; back to dispatch.
			if req.Role == domain.RoleRider && req.ActorID != o.CandidateRiderID {
				return ErrNotCandidateRider
			}
			releaseRider = o.CandidateRiderID
			o.CandidateRiderID = ""
			fx = effectNotifyStatus

		case domain.OrderStatusCancelled:
			o.CancelReason = req.Reason
			o.CancelledAt = now
			releaseRider = o.CandidateRiderID
			if o.RiderID != "" {
				if err := r.Riders.UpdateAvailability(ctx, o.RiderID, domain.RiderOnline); err != nil {
					return err
				}
			}
			fx = effectNotifyCancelled

		case domain.OrderStatusCompleted:
			if o.RiderID != "" {
				if err := r.Riders.UpdateAvailability(ctx, o.RiderID, domain.RiderOnline); err != nil {
					return err
				}
			}
			if o.PaymentMethod == domain.PaymentMethodCash && !o.Paid {
				// Cash was collected at the door; no wallet is touched.
				o.Paid = true
			}
			fx = effectNotifyStatus

		case domain.OrderStatusDelivered:
			fx = effectDelivered

		default:
			fx = effectNotifyStatus
		}

		o.Status = req.Target
		o.UpdatedAt = now

		if err := r.Orders.Update(ctx, o); err != nil {
			return err
		}
		if err := r.Timeline.Append(ctx, newTimelineEntry(o.ID, req.Target, req.ProofURL, req.Reason, now)); err != nil {
			return err
		}
		if err := r.Activity.Append(ctx, newActivityEntry("order", "status_changed", req.ActorID, req.Role, o.ID, map[string]string{
			"code":   o.Code,
			"status": string(req.Target),
		}, now)); err != nil {
			return err
		}

		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	// The candidate's proposal lock would otherwise sit until its TTL,
	// keeping the rider out of the dispatch pool.
	if releaseRider != "" {
		s.locks.ReleaseRiderLock(ctx, releaseRider)
	}

	s.runEffect(ctx, fx, order)
	return order, nil
}

// runEffect executes post-commit side effects.
func (s *OrderService) runEffect(ctx context.Context, fx effect, order *domain.Order) {
	switch fx {
	case effectNotifyAccepted:
		s.notifier.NotifyOrderAccepted(ctx, order)

	case effectNotifyStatus:
		s.notifier.NotifyStatusUpdate(ctx, order)

	case effectNotifyCancelled:
		s.notifier.NotifyOrderCancelled(ctx, order)

	case effectDelivered:
		s.notifier.NotifyOrderDelivered(ctx, order)
		if order.PaymentMethod == domain.PaymentMethodWallet && !order.Paid {
			result, err := s.ledger.SettleOrder(ctx, order.ID)
			switch {
			case errors.Is(err, domain.ErrInsufficientBalance):
				s.notifier.NotifyPaymentFailed(ctx, result.CustomerDebit, order.CustomerID)
			case err == nil && result.CustomerDebit != nil:
				order.Paid = true
				s.notifier.NotifyPaymentSettled(ctx, result.CustomerDebit, order.CustomerID)
			}
		}
	}
}

// CancelRequest contains the parameters for cancelling an order.
type CancelRequest struct {
	OrderID string
	ActorID string
	Role    domain.ActorRole
	Reason  string
}

// Cancel moves an order to ORDER_CANCELLED from any non-terminal state.
func (s *OrderService) Cancel(ctx context.Context, req CancelRequest) (*domain.Order, error) {
	return s.Transition(ctx, TransitionRequest{
		OrderID: req.OrderID,
		Target:  domain.OrderStatusCancelled,
		ActorID: req.ActorID,
		Role:    req.Role,
		Reason:  req.Reason,
	})
}

// AddTip records a late tip on a delivered or completed order. One tip per
// order: the tip is recorded on the order row under lock before settling, so
// a concurrent call observes it and rejects. A settlement that fails for
// insufficient balance clears the recorded tip again so the customer can
// retry once funded.
func (s *OrderService) AddTip(ctx context.Context, orderID, customerID string, amount decimal.Decimal) (*domain.Order, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, ErrInvalidAmount
	}

	var order *domain.Order
	err := s.tx.RunInTx(ctx, func(r repository.TxRepos) error {
		o, err := r.Orders.GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if o.CustomerID != customerID {
			return ErrInvalidCustomerID
		}
		if !o.Status.AtOrBeyond(domain.OrderStatusDelivered) || !o.Tip.IsZero() {
			return ErrOrderNotTippable
		}

		o.Tip = amount
		o.UpdatedAt = time.Now()
		if err := r.Orders.Update(ctx, o); err != nil {
			return err
		}

		order = o
		return r.Activity.Append(ctx, newActivityEntry("order", "tip_added", customerID, domain.RoleCustomer, o.ID, map[string]string{
			"code":   o.Code,
			"amount": amount.StringFixed(2),
		}, time.Now()))
	})
	if err != nil {
		return nil, err
	}

	if order.PaymentMethod == domain.PaymentMethodWallet {
		if _, err := s.ledger.SettleTip(ctx, order.ID); err != nil {
			if errors.Is(err, domain.ErrInsufficientBalance) {
				if rerr := s.clearTip(ctx, order.ID); rerr != nil {
					return nil, errors.Join(err, rerr)
				}
			}
			return nil, err
		}
	}
	return order, nil
}

// clearTip takes the recorded tip back off an order after its settlement
// failed. The FAILED debit leg stays on the books as the audit trail.
func (s *OrderService) clearTip(ctx context.Context, orderID string) error {
	return s.tx.RunInTx(ctx, func(r repository.TxRepos) error {
		o, err := r.Orders.GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		o.Tip = decimal.Zero
		o.UpdatedAt = time.Now()
		return r.Orders.Update(ctx, o)
	})
}

// GetByCode retrieves an order by its external short code.
func (s *OrderService) GetByCode(ctx context.Context, code string) (*domain.Order, error) {
	if code == "" {
		return nil, ErrInvalidOrderCode
	}
	return s.orderRepo.GetByCode(ctx, code)
}

// Timeline retrieves an order's status history ordered by creation time.
func (s *OrderService) Timeline(ctx context.Context, orderID string) ([]*domain.TimelineEntry, error) {
	return s.timelineRepo.ListByOrder(ctx, orderID)
}

// ListByCustomer retrieves a customer's orders, newest first.
func (s *OrderService) ListByCustomer(ctx context.Context, customerID string) ([]*domain.Order, error) {
	if customerID == "" {
		return nil, ErrInvalidCustomerID
	}
	return s.orderRepo.ListByCustomer(ctx, customerID)
}

func (s *OrderService) snapshotLocation(ctx context.Context, in LocationInput) (domain.Location, error) {
	loc := domain.Location{Address: in.Address, Lat: in.Lat, Lng: in.Lng}
	if loc.Address == "" {
		address, err := s.geocoder.ResolveAddress(ctx, in.Lat, in.Lng)
		if err != nil {
			return loc, fmt.Errorf("%w: %v", ErrGeocodingUnavailable, err)
		}
		loc.Address = address
	}
	return loc, nil
}

// newOrderCode generates an external-friendly short code.
func newOrderCode() string {
	return "EX-" + strings.ToUpper(uuid.New().String()[:8])
}

func newTimelineEntry(orderID string, status domain.OrderStatus, proofURL, reason string, now time.Time) *domain.TimelineEntry {
	return &domain.TimelineEntry{
		ID:        uuid.New().String(),
		OrderID:   orderID,
		Status:    status,
		ProofURL:  proofURL,
		Reason:    reason,
		CreatedAt: now,
	}
}

func newActivityEntry(category, action, actorID string, role domain.ActorRole, targetID string, details map[string]string, now time.Time) *domain.ActivityEntry {
	return &domain.ActivityEntry{
		ID:        uuid.New().String(),
		Category:  category,
		Action:    action,
		Level:     domain.ActivityInfo,
		ActorID:   actorID,
		ActorRole: role,
		TargetID:  targetID,
		Context:   details,
		CreatedAt: now,
	}
}
