package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/seyifunmi-idowu/express-sub000/internal/domain"
	"github.com/seyifunmi-idowu/express-sub000/internal/redis"
	"github.com/seyifunmi-idowu/express-sub000/internal/repository"
)

// RiderService handles rider registration, availability and the live
// location feed that dispatch reads from.
type RiderService struct {
	riderRepo repository.RiderRepository
	locations redis.LocationStoreInterface
	activity  *ActivityService
}

// NewRiderService creates a new RiderService.
func NewRiderService(riderRepo repository.RiderRepository, locations redis.LocationStoreInterface, activity *ActivityService) *RiderService {
	return &RiderService{riderRepo: riderRepo, locations: locations, activity: activity}
}

// RegisterRiderRequest contains the parameters for registering a rider.
type RegisterRiderRequest struct {
	Name         string
	Phone        string
	VehicleClass domain.VehicleClass
}

// Register creates a rider in UNAPPROVED standing. Approval is an operator
// action; unapproved riders are invisible to dispatch.
func (s *RiderService) Register(ctx context.Context, req RegisterRiderRequest) (*domain.Rider, error) {
	switch req.VehicleClass {
	case domain.VehicleBicycle, domain.VehicleMotorcycle, domain.VehicleCar, domain.VehicleVan:
	default:
		return nil, ErrInvalidVehicleClass
	}

	rider := &domain.Rider{
		ID:           uuid.New().String(),
		Name:         req.Name,
		Phone:        req.Phone,
		Status:       domain.RiderStatusUnapproved,
		Availability: domain.RiderOffline,
		VehicleClass: req.VehicleClass,
		CreatedAt:    time.Now(),
	}
	if err := s.riderRepo.Create(ctx, rider); err != nil {
		return nil, err
	}

	s.activity.Record(ctx, "rider", "rider_registered", domain.ActivityInfo,
		rider.ID, domain.RoleRider, rider.ID, map[string]string{"vehicle_class": string(req.VehicleClass)})

	return rider, nil
}

// UpdateLocation records a rider's position in the geo index.
func (s *RiderService) UpdateLocation(ctx context.Context, riderID string, lat, lng float64) error {
	if riderID == "" {
		return ErrInvalidRiderID
	}
	if !validCoordinates(lat, lng) {
		return ErrInvalidLocation
	}
	return s.locations.UpdateLocation(ctx, riderID, lat, lng)
}

// SetAvailability flips a rider between ONLINE and OFFLINE. Going offline
// also removes them from the geo index so dispatch stops seeing them
// immediately.
func (s *RiderService) SetAvailability(ctx context.Context, riderID string, availability domain.RiderAvailability) (*domain.Rider, error) {
	if riderID == "" {
		return nil, ErrInvalidRiderID
	}

	rider, err := s.riderRepo.GetByID(ctx, riderID)
	if err != nil {
		return nil, err
	}

	if err := s.riderRepo.UpdateAvailability(ctx, riderID, availability); err != nil {
		return nil, err
	}
	rider.Availability = availability

	if availability == domain.RiderOffline {
		if err := s.locations.RemoveLocation(ctx, riderID); err != nil {
			return nil, err
		}
	}

	return rider, nil
}

// GetByID retrieves a rider.
func (s *RiderService) GetByID(ctx context.Context, riderID string) (*domain.Rider, error) {
	if riderID == "" {
		return nil, ErrInvalidRiderID
	}
	return s.riderRepo.GetByID(ctx, riderID)
}

// GetAll retrieves all riders.
func (s *RiderService) GetAll(ctx context.Context) ([]*domain.Rider, error) {
	return s.riderRepo.GetAll(ctx)
}
