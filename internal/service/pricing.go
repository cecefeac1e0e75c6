package service

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/seyifunmi-idowu/express-sub000/internal/domain"
)

// ClassRate holds the fare rates for one vehicle class.
type ClassRate struct {
	Base      decimal.Decimal
	PerKm     decimal.Decimal
	PerMinute decimal.Decimal
	Minimum   decimal.Decimal
}

// PricingConfig contains the fare table and the platform fee percentage.
type PricingConfig struct {
	Rates      map[domain.VehicleClass]ClassRate
	FeePercent decimal.Decimal // e.g. 15 for a 15% platform fee
	Currency   string
}

// DefaultPricingConfig returns the default fare table.
func DefaultPricingConfig() PricingConfig {
	return PricingConfig{
		Rates: map[domain.VehicleClass]ClassRate{
			domain.VehicleBicycle: {
				Base:      decimal.NewFromInt(300),
				PerKm:     decimal.NewFromInt(60),
				PerMinute: decimal.NewFromInt(10),
				Minimum:   decimal.NewFromInt(500),
			},
			domain.VehicleMotorcycle: {
				Base:      decimal.NewFromInt(500),
				PerKm:     decimal.NewFromInt(100),
				PerMinute: decimal.NewFromInt(15),
				Minimum:   decimal.NewFromInt(800),
			},
			domain.VehicleCar: {
				Base:      decimal.NewFromInt(800),
				PerKm:     decimal.NewFromInt(150),
				PerMinute: decimal.NewFromInt(20),
				Minimum:   decimal.NewFromInt(1200),
			},
			domain.VehicleVan: {
				Base:      decimal.NewFromInt(1500),
				PerKm:     decimal.NewFromInt(250),
				PerMinute: decimal.NewFromInt(30),
				Minimum:   decimal.NewFromInt(2500),
			},
		},
		FeePercent: decimal.NewFromInt(15),
		Currency:   "NGN",
	}
}

// PricingService quotes fares per vehicle class from route estimates.
type PricingService struct {
	config PricingConfig
}

// NewPricingService creates a new PricingService.
func NewPricingService(config PricingConfig) *PricingService {
	return &PricingService{config: config}
}

// Quote is a fare estimate for an order.
type Quote struct {
	Amount      decimal.Decimal
	PlatformFee decimal.Decimal
	Currency    string
}

// QuoteFare computes the fare for a route on the given vehicle class. The
// quote is captured on the order at placement and never recalculated.
func (s *PricingService) QuoteFare(class domain.VehicleClass, distanceKm float64, duration time.Duration) (*Quote, error) {
	rate, ok := s.config.Rates[class]
	if !ok {
		return nil, ErrInvalidVehicleClass
	}

	distance := decimal.NewFromFloat(distanceKm)
	minutes := decimal.NewFromFloat(duration.Minutes())

	amount := rate.Base.
		Add(rate.PerKm.Mul(distance)).
		Add(rate.PerMinute.Mul(minutes)).
		Round(2)
	if amount.LessThan(rate.Minimum) {
		amount = rate.Minimum
	}

	fee := amount.Mul(s.config.FeePercent).Div(decimal.NewFromInt(100)).Round(2)

	return &Quote{Amount: amount, PlatformFee: fee, Currency: s.config.Currency}, nil
}
