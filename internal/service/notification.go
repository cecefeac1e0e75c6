package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/seyifunmi-idowu/express-sub000/internal/domain"
)

// NotificationType represents the type of notification.
type NotificationType string

const (
	NotificationOrderPlaced     NotificationType = "ORDER_PLACED"
	NotificationRiderProposed   NotificationType = "RIDER_PROPOSED"
	NotificationOrderAccepted   NotificationType = "ORDER_ACCEPTED"
	NotificationStatusUpdate    NotificationType = "STATUS_UPDATE"
	NotificationOrderDelivered  NotificationType = "ORDER_DELIVERED"
	NotificationOrderCancelled  NotificationType = "ORDER_CANCELLED"
	NotificationPaymentSettled  NotificationType = "PAYMENT_SETTLED"
	NotificationPaymentFailed   NotificationType = "PAYMENT_FAILED"
	NotificationWalletFunded    NotificationType = "WALLET_FUNDED"
)

// Notification represents a message to be delivered to a user.
type Notification struct {
	ID          string
	Type        NotificationType
	RecipientID string // customer or rider ID
	Title       string
	Message     string
	Data        map[string]interface{}
	CreatedAt   time.Time
}

// Sender delivers a notification over some channel (push, SMS, email).
// Delivery is fire-and-forget; implementations enforce their own timeouts.
type Sender interface {
	Send(ctx context.Context, n Notification) error
}

// LogSender writes notifications to the process log. Stands in for the real
// push/SMS/email collaborators, which are out of scope for this core.
type LogSender struct{}

// Send logs the notification.
func (LogSender) Send(ctx context.Context, n Notification) error {
	log.Printf("notify [%s] -> %s: %s", n.Type, n.RecipientID, n.Message)
	return nil
}

// NotificationService handles notification delivery. Failures are logged and
// swallowed; they never block or roll back the domain operation.
type NotificationService struct {
	sender Sender
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(sender Sender) *NotificationService {
	return &NotificationService{sender: sender}
}

func (s *NotificationService) send(ctx context.Context, n Notification) {
	n.CreatedAt = time.Now()
	if err := s.sender.Send(ctx, n); err != nil {
		log.Printf("notification delivery failed: type=%s recipient=%s: %v", n.Type, n.RecipientID, err)
	}
}

// NotifyOrderPlaced tells the customer their order was accepted for dispatch.
func (s *NotificationService) NotifyOrderPlaced(ctx context.Context, order *domain.Order) {
	s.send(ctx, Notification{
		Type:        NotificationOrderPlaced,
		RecipientID: order.CustomerID,
		Title:       "Order Placed",
		Message:     fmt.Sprintf("Order %s placed. We are finding you a rider.", order.Code),
		Data:        map[string]interface{}{"order_code": order.Code},
	})
}

// NotifyRiderProposed tells a rider an order is waiting for their confirmation.
func (s *NotificationService) NotifyRiderProposed(ctx context.Context, order *domain.Order, riderID string) {
	s.send(ctx, Notification{
		Type:        NotificationRiderProposed,
		RecipientID: riderID,
		Title:       "New Delivery Request",
		Message:     fmt.Sprintf("Pickup at %s. Confirm to accept.", order.Pickup.Address),
		Data: map[string]interface{}{
			"order_code": order.Code,
			"pickup_lat": order.Pickup.Lat,
			"pickup_lng": order.Pickup.Lng,
		},
	})
}

// NotifyOrderAccepted tells the customer a rider accepted their order.
func (s *NotificationService) NotifyOrderAccepted(ctx context.Context, order *domain.Order) {
	s.send(ctx, Notification{
		Type:        NotificationOrderAccepted,
		RecipientID: order.CustomerID,
		Title:       "Rider Assigned",
		Message:     fmt.Sprintf("A rider accepted order %s and is heading to pickup.", order.Code),
		Data:        map[string]interface{}{"order_code": order.Code, "rider_id": order.RiderID},
	})
}

// NotifyStatusUpdate tells the customer about rider progress.
func (s *NotificationService) NotifyStatusUpdate(ctx context.Context, order *domain.Order) {
	s.send(ctx, Notification{
		Type:        NotificationStatusUpdate,
		RecipientID: order.CustomerID,
		Title:       "Order Update",
		Message:     fmt.Sprintf("Order %s is now %s.", order.Code, order.Status),
		Data:        map[string]interface{}{"order_code": order.Code, "status": string(order.Status)},
	})
}

// NotifyOrderDelivered tells the customer their order arrived.
func (s *NotificationService) NotifyOrderDelivered(ctx context.Context, order *domain.Order) {
	s.send(ctx, Notification{
		Type:        NotificationOrderDelivered,
		RecipientID: order.CustomerID,
		Title:       "Order Delivered",
		Message:     fmt.Sprintf("Order %s was delivered.", order.Code),
		Data:        map[string]interface{}{"order_code": order.Code},
	})
}

// NotifyOrderCancelled tells the affected parties about a cancellation.
func (s *NotificationService) NotifyOrderCancelled(ctx context.Context, order *domain.Order) {
	recipients := []string{order.CustomerID}
	if order.RiderID != "" {
		recipients = append(recipients, order.RiderID)
	} else if order.CandidateRiderID != "" {
		recipients = append(recipients, order.CandidateRiderID)
	}
	for _, r := range recipients {
		s.send(ctx, Notification{
			Type:        NotificationOrderCancelled,
			RecipientID: r,
			Title:       "Order Cancelled",
			Message:     fmt.Sprintf("Order %s was cancelled: %s", order.Code, order.CancelReason),
			Data:        map[string]interface{}{"order_code": order.Code},
		})
	}
}

// NotifyPaymentSettled tells the payer their wallet was charged.
func (s *NotificationService) NotifyPaymentSettled(ctx context.Context, txn *domain.Transaction, recipientID string) {
	s.send(ctx, Notification{
		Type:        NotificationPaymentSettled,
		RecipientID: recipientID,
		Title:       "Payment Settled",
		Message:     fmt.Sprintf("%s %s settled (ref %s).", txn.Currency, txn.Amount.StringFixed(2), txn.Reference),
		Data:        map[string]interface{}{"reference": txn.Reference},
	})
}

// NotifyPaymentFailed tells the payer a charge failed.
func (s *NotificationService) NotifyPaymentFailed(ctx context.Context, txn *domain.Transaction, recipientID string) {
	s.send(ctx, Notification{
		Type:        NotificationPaymentFailed,
		RecipientID: recipientID,
		Title:       "Payment Failed",
		Message:     fmt.Sprintf("%s %s could not be settled.", txn.Currency, txn.Amount.StringFixed(2)),
		Data:        map[string]interface{}{"reference": txn.Reference},
	})
}

// NotifyWalletFunded tells a user their wallet top-up landed.
func (s *NotificationService) NotifyWalletFunded(ctx context.Context, txn *domain.Transaction, recipientID string) {
	s.send(ctx, Notification{
		Type:        NotificationWalletFunded,
		RecipientID: recipientID,
		Title:       "Wallet Funded",
		Message:     fmt.Sprintf("Your wallet was credited with %s %s.", txn.Currency, txn.Amount.StringFixed(2)),
		Data:        map[string]interface{}{"reference": txn.Reference},
	})
}
