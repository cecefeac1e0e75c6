package tests

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/seyifunmi-idowu/express-sub000/internal/domain"
	"github.com/seyifunmi-idowu/express-sub000/internal/redis"
	"github.com/seyifunmi-idowu/express-sub000/internal/service"
)

// env wires the full service stack over mocks for scenario tests.
type env struct {
	orders    *MockOrderRepository
	timeline  *MockTimelineRepository
	wallets   *MockWalletRepository
	txns      *MockTransactionRepository
	riders    *MockRiderRepository
	customers *MockCustomerRepository
	activity  *MockActivityRepository
	txRunner  *MockTxRunner
	locations *MockLocationStore
	locks     *MockLockStore
	sender    *MockSender
	provider  *MockPaymentProvider
	geocoder  *MockGeocoder

	orderSvc    *service.OrderService
	dispatchSvc *service.DispatchService
	ledgerSvc   *service.LedgerService
	gatewaySvc  *service.GatewayService
	riderSvc    *service.RiderService
	walletSvc   *service.WalletService
}

const testWebhookSecret = "whsec-test"

func newEnv(t *testing.T) *env {
	t.Helper()

	e := &env{
		orders:    NewMockOrderRepository(),
		timeline:  NewMockTimelineRepository(),
		wallets:   NewMockWalletRepository(),
		txns:      NewMockTransactionRepository(),
		riders:    NewMockRiderRepository(),
		customers: NewMockCustomerRepository(),
		activity:  NewMockActivityRepository(),
		locations: NewMockLocationStore(),
		locks:     NewMockLockStore(),
		sender:    NewMockSender(),
		provider:  NewMockPaymentProvider(),
		geocoder:  NewMockGeocoder(10, 30*time.Minute),
	}
	e.txRunner = NewMockTxRunner(e.orders, e.timeline, e.wallets, e.txns, e.riders, e.activity)

	activitySvc := service.NewActivityService(e.activity)
	notifier := service.NewNotificationService(e.sender)
	pricing := service.NewPricingService(service.DefaultPricingConfig())

	e.ledgerSvc = service.NewLedgerService(e.txRunner, activitySvc)
	e.orderSvc = service.NewOrderService(e.txRunner, e.orders, e.timeline, e.geocoder, pricing, e.ledgerSvc, notifier, e.locks)
	e.dispatchSvc = service.NewDispatchService(e.txRunner, e.orders, e.riders, e.locations, e.locks, notifier, activitySvc, service.DefaultDispatchConfig())
	e.gatewaySvc = service.NewGatewayService(e.provider, testWebhookSecret, e.txRunner, e.wallets, e.txns, e.ledgerSvc, notifier, activitySvc)
	e.riderSvc = service.NewRiderService(e.riders, e.locations, activitySvc)
	e.walletSvc = service.NewWalletService(e.wallets, e.txns)

	return e
}

// decimalFromString parses a decimal or fails the test.
func decimalFromString(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal %q: %v", s, err)
	}
	return d
}

// seedWallet stores a wallet with the given balance.
func (e *env) seedWallet(id, userID, balance string) *domain.Wallet {
	w := domain.RestoreWallet(id, userID, "NGN", decimal.RequireFromString(balance), time.Now())
	e.wallets.AddWallet(w)
	return w
}

// seedRider stores an approved, online rider with a location near the test
// pickup point.
func (e *env) seedRider(id string, class domain.VehicleClass) *domain.Rider {
	r := &domain.Rider{
		ID:           id,
		Name:         "Rider " + id,
		Phone:        "0800000" + id,
		Status:       domain.RiderStatusApproved,
		Availability: domain.RiderOnline,
		VehicleClass: class,
		ApprovedAt:   time.Now(),
		CreatedAt:    time.Now(),
	}
	e.riders.AddRider(r)
	e.locations.AddRiderLocation(redis.RiderLocation{RiderID: id, Lat: 6.45, Lng: 3.40})
	return r
}

// seedOrder stores an order directly, bypassing placement.
func (e *env) seedOrder(id, customerID string, status domain.OrderStatus, method domain.PaymentMethod, amount, fee string) *domain.Order {
	o := &domain.Order{
		ID:            id,
		Code:          "EX-" + id,
		CustomerID:    customerID,
		VehicleClass:  domain.VehicleMotorcycle,
		Status:        status,
		PaymentMethod: method,
		PaymentBy:     domain.PaymentBySender,
		Amount:        decimal.RequireFromString(amount),
		PlatformFee:   decimal.RequireFromString(fee),
		Tip:           decimal.Zero,
		Currency:      "NGN",
		DistanceKm:    10,
		Duration:      30 * time.Minute,
		Pickup:        domain.Location{Address: "12 Marina Rd", Lat: 6.45, Lng: 3.40},
		Delivery:      domain.Location{Address: "3 Allen Ave", Lat: 6.60, Lng: 3.35},
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	e.orders.AddOrder(o)
	return o
}
