package service

import (
	"context"
	"time"

	"github.com/seyifunmi-idowu/express-sub000/internal/domain"
	"github.com/seyifunmi-idowu/express-sub000/internal/redis"
	"github.com/seyifunmi-idowu/express-sub000/internal/repository"
)

// DispatchConfig tunes candidate search and proposal locking.
type DispatchConfig struct {
	// SearchRadiusKm bounds the geo query around the pickup point.
	SearchRadiusKm float64
	// ProposalTTL is how long a proposed rider stays locked before the
	// proposal is considered abandoned.
	ProposalTTL time.Duration
	// OrderLockTTL guards one assignment pass per order at a time.
	OrderLockTTL time.Duration
}

// DefaultDispatchConfig returns the default dispatch tuning.
func DefaultDispatchConfig() DispatchConfig {
	return DispatchConfig{
		SearchRadiusKm: 5.0,
		ProposalTTL:    2 * time.Minute,
		OrderLockTTL:   30 * time.Second,
	}
}

// DispatchService proposes orders to riders. Candidates come from the redis
// geo index sorted by distance to pickup; the winner is recorded as the
// order's candidate and must still accept before becoming the assigned rider.
type DispatchService struct {
	tx        repository.TxRunner
	orderRepo repository.OrderRepository
	riderRepo repository.RiderRepository
	locations redis.LocationStoreInterface
	locks     redis.LockStoreInterface
	notifier  *NotificationService
	activity  *ActivityService
	config    DispatchConfig
}

// NewDispatchService creates a new DispatchService.
func NewDispatchService(
	tx repository.TxRunner,
	orderRepo repository.OrderRepository,
	riderRepo repository.RiderRepository,
	locations redis.LocationStoreInterface,
	locks redis.LockStoreInterface,
	notifier *NotificationService,
	activity *ActivityService,
	config DispatchConfig,
) *DispatchService {
	return &DispatchService{
		tx:        tx,
		orderRepo: orderRepo,
		riderRepo: riderRepo,
		locations: locations,
		locks:     locks,
		notifier:  notifier,
		activity:  activity,
		config:    config,
	}
}

// Assign finds the nearest eligible rider and proposes the order to them,
// moving it to PENDING_RIDER_CONFIRMATION. Concurrent calls for the same
// order collapse to one winner: the loser either fails the order advisory
// lock or observes the already-assigned candidate inside the transaction.
func (s *DispatchService) Assign(ctx context.Context, orderID string) (*domain.Order, error) {
	acquired, err := s.locks.AcquireOrderLock(ctx, orderID, s.config.OrderLockTTL)
	if err != nil {
		return nil, err
	}
	if !acquired {
		return nil, ErrAlreadyAssigned
	}
	defer s.locks.ReleaseOrderLock(ctx, orderID)

	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != domain.OrderStatusPending && order.Status != domain.OrderStatusProcessing {
		return nil, ErrOrderNoLongerPending
	}

	nearby, err := s.locations.FindNearbyRiders(ctx, order.Pickup.Lat, order.Pickup.Lng, s.config.SearchRadiusKm)
	if err != nil {
		return nil, err
	}

	candidateID, err := s.pickCandidate(ctx, order, nearby)
	if err != nil {
		return nil, err
	}
	if candidateID == "" {
		// No rider in range; park the order in PROCESSING for a retry pass.
		if order.Status == domain.OrderStatusPending {
			if _, err := s.markProcessing(ctx, orderID); err != nil {
				return nil, err
			}
		}
		return nil, ErrNoEligibleRider
	}

	var proposed *domain.Order
	err = s.tx.RunInTx(ctx, func(r repository.TxRepos) error {
		o, err := r.Orders.GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if o.Status != domain.OrderStatusPending && o.Status != domain.OrderStatusProcessing {
			return ErrOrderNoLongerPending
		}
		if o.CandidateRiderID != "" {
			return ErrAlreadyAssigned
		}

		now := time.Now()

		// A fresh PENDING order steps through PROCESSING_ORDER first; the
		// proposal edge only exists from there.
		if o.Status == domain.OrderStatusPending {
			if !domain.CanTransition(o.Status, domain.OrderStatusProcessing, domain.RoleSystem) {
				return ErrIllegalTransition
			}
			o.Status = domain.OrderStatusProcessing
			if err := r.Timeline.Append(ctx, newTimelineEntry(o.ID, o.Status, "", "", now)); err != nil {
				return err
			}
		}
		if !domain.CanTransition(o.Status, domain.OrderStatusPendingRiderConfirmation, domain.RoleSystem) {
			return ErrIllegalTransition
		}

		o.CandidateRiderID = candidateID
		o.Status = domain.OrderStatusPendingRiderConfirmation
		o.UpdatedAt = now

		if err := r.Orders.Update(ctx, o); err != nil {
			return err
		}
		if err := r.Timeline.Append(ctx, newTimelineEntry(o.ID, o.Status, "", "", now)); err != nil {
			return err
		}
		if err := r.Activity.Append(ctx, newActivityEntry("dispatch", "rider_proposed", "", domain.RoleSystem, o.ID, map[string]string{
			"code":     o.Code,
			"rider_id": candidateID,
		}, now)); err != nil {
			return err
		}

		proposed = o
		return nil
	})
	if err != nil {
		// The rider lock outlives a failed proposal only until its TTL;
		// release eagerly so the rider returns to the pool.
		s.locks.ReleaseRiderLock(ctx, candidateID)
		return nil, err
	}

	s.notifier.NotifyRiderProposed(ctx, proposed, candidateID)
	return proposed, nil
}

// pickCandidate walks nearby riders in distance order and returns the first
// eligible one it manages to lock. Riders already carrying an active order
// are skipped; a single rider never holds two deliveries.
func (s *DispatchService) pickCandidate(ctx context.Context, order *domain.Order, nearby []redis.RiderLocation) (string, error) {
	for _, loc := range nearby {
		rider, err := s.riderRepo.GetByID(ctx, loc.RiderID)
		if err != nil {
			if err == repository.ErrNotFound {
				continue
			}
			return "", err
		}
		if !rider.Eligible(order.VehicleClass) {
			continue
		}

		active, err := s.orderRepo.CountActiveByRider(ctx, rider.ID)
		if err != nil {
			return "", err
		}
		if active > 0 {
			continue
		}

		locked, err := s.locks.AcquireRiderLock(ctx, rider.ID, s.config.ProposalTTL)
		if err != nil {
			return "", err
		}
		if !locked {
			continue
		}
		return rider.ID, nil
	}
	return "", nil
}

// markProcessing moves a fresh PENDING order into PROCESSING.
func (s *DispatchService) markProcessing(ctx context.Context, orderID string) (*domain.Order, error) {
	var order *domain.Order
	err := s.tx.RunInTx(ctx, func(r repository.TxRepos) error {
		o, err := r.Orders.GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if o.Status != domain.OrderStatusPending {
			order = o
			return nil
		}

		now := time.Now()
		o.Status = domain.OrderStatusProcessing
		o.UpdatedAt = now
		if err := r.Orders.Update(ctx, o); err != nil {
			return err
		}
		if err := r.Timeline.Append(ctx, newTimelineEntry(o.ID, o.Status, "", "", now)); err != nil {
			return err
		}

		order = o
		return nil
	})
	return order, err
}

// ReleaseProposal frees a rider lock after a decline or timeout so dispatch
// can consider them again.
func (s *DispatchService) ReleaseProposal(ctx context.Context, riderID string) error {
	return s.locks.ReleaseRiderLock(ctx, riderID)
}
