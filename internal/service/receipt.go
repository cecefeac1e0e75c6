package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/seyifunmi-idowu/express-sub000/internal/domain"
)

// Receipt is the customer-facing summary of a finished delivery.
type Receipt struct {
	ID            string
	OrderCode     string
	CustomerID    string
	RiderID       string
	Pickup        domain.Location
	Delivery      domain.Location
	DistanceKm    float64
	Duration      time.Duration
	Amount        decimal.Decimal
	Tip           decimal.Decimal
	Total         decimal.Decimal
	Currency      string
	PaymentMethod domain.PaymentMethod
	Paid          bool
	CreatedAt     time.Time
}

// ReceiptService builds receipts for delivered orders.
type ReceiptService struct{}

// NewReceiptService creates a new ReceiptService.
func NewReceiptService() *ReceiptService {
	return &ReceiptService{}
}

// Generate builds a receipt from a delivered or completed order.
func (s *ReceiptService) Generate(order *domain.Order) (*Receipt, error) {
	if !order.Status.AtOrBeyond(domain.OrderStatusDelivered) {
		return nil, ErrIllegalTransition
	}

	return &Receipt{
		ID:            uuid.New().String(),
		OrderCode:     order.Code,
		CustomerID:    order.CustomerID,
		RiderID:       order.RiderID,
		Pickup:        order.Pickup,
		Delivery:      order.Delivery,
		DistanceKm:    order.DistanceKm,
		Duration:      order.Duration,
		Amount:        order.Amount,
		Tip:           order.Tip,
		Total:         order.Amount.Add(order.Tip),
		Currency:      order.Currency,
		PaymentMethod: order.PaymentMethod,
		Paid:          order.Paid,
		CreatedAt:     time.Now(),
	}, nil
}

// Format renders the receipt as plain text for email or print.
func (s *ReceiptService) Format(r *Receipt) string {
	return `
=====================================
       DELIVERY RECEIPT
=====================================
Receipt ID: ` + r.ID + `
Order:      ` + r.OrderCode + `
Date:       ` + r.CreatedAt.Format("Jan 02, 2006 3:04 PM") + `

DELIVERY DETAILS
-------------------------------------
Pickup:   ` + r.Pickup.Address + `
Drop-off: ` + r.Delivery.Address + `
Distance: ` + fmt.Sprintf("%.2f km", r.DistanceKm) + `
Duration: ` + formatDuration(r.Duration) + `

CHARGES
-------------------------------------
Delivery Fee: ` + r.Currency + ` ` + r.Amount.StringFixed(2) + `
Tip:          ` + r.Currency + ` ` + r.Tip.StringFixed(2) + `
-------------------------------------
TOTAL:        ` + r.Currency + ` ` + r.Total.StringFixed(2) + `

PAYMENT
-------------------------------------
Method: ` + string(r.PaymentMethod) + `
Paid:   ` + fmt.Sprintf("%t", r.Paid) + `

=====================================
   Thank you for shipping with us!
=====================================
`
}

func formatDuration(d time.Duration) string {
	minutes := int(d.Minutes())
	return fmt.Sprintf("%d min", minutes)
}
