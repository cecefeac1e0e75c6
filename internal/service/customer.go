package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/seyifunmi-idowu/express-sub000/internal/domain"
	"github.com/seyifunmi-idowu/express-sub000/internal/repository"
)

// CustomerService handles customer accounts.
type CustomerService struct {
	customerRepo repository.CustomerRepository
}

// NewCustomerService creates a new CustomerService.
func NewCustomerService(customerRepo repository.CustomerRepository) *CustomerService {
	return &CustomerService{customerRepo: customerRepo}
}

// Register creates a customer account.
func (s *CustomerService) Register(ctx context.Context, name, phone, email string) (*domain.Customer, error) {
	customer := &domain.Customer{
		ID:        uuid.New().String(),
		Name:      name,
		Phone:     phone,
		Email:     email,
		CreatedAt: time.Now(),
	}
	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// GetByID retrieves a customer.
func (s *CustomerService) GetByID(ctx context.Context, customerID string) (*domain.Customer, error) {
	if customerID == "" {
		return nil, ErrInvalidCustomerID
	}
	return s.customerRepo.GetByID(ctx, customerID)
}
