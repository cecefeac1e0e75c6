package tests

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/seyifunmi-idowu/express-sub000/internal/domain"
	"github.com/seyifunmi-idowu/express-sub000/internal/redis"
	"github.com/seyifunmi-idowu/express-sub000/internal/repository"
	"github.com/seyifunmi-idowu/express-sub000/internal/service"
)

// ──────────────────────────────────────────────
// MOCK ORDER REPOSITORY
// ──────────────────────────────────────────────

// MockOrderRepository is a mock implementation of OrderRepository.
type MockOrderRepository struct {
	mu     sync.RWMutex
	orders map[string]*domain.Order

	// Counters for verification
	CreateCallCount int32
	UpdateCallCount int32

	// Error injection
	CreateError error
	UpdateError error
}

// NewMockOrderRepository creates a new mock order repository.
func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{
		orders: make(map[string]*domain.Order),
	}
}

// AddOrder adds an order to the mock repository.
func (m *MockOrderRepository) AddOrder(order *domain.Order) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders[order.ID] = order
}

func (m *MockOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *order
	m.orders[order.ID] = &cp
	return nil
}

func (m *MockOrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	order, ok := m.orders[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	// Return a copy to avoid mutation issues.
	cp := *order
	return &cp, nil
}

func (m *MockOrderRepository) GetByCode(ctx context.Context, code string) (*domain.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, o := range m.orders {
		if o.Code == code {
			cp := *o
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockOrderRepository) GetForUpdate(ctx context.Context, id string) (*domain.Order, error) {
	return m.GetByID(ctx, id)
}

func (m *MockOrderRepository) Update(ctx context.Context, order *domain.Order) error {
	atomic.AddInt32(&m.UpdateCallCount, 1)
	if m.UpdateError != nil {
		return m.UpdateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.orders[order.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *order
	m.orders[order.ID] = &cp
	return nil
}

func (m *MockOrderRepository) CountActiveByRider(ctx context.Context, riderID string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	count := 0
	for _, o := range m.orders {
		if (o.RiderID == riderID || o.CandidateRiderID == riderID) && !o.Status.Terminal() {
			count++
		}
	}
	return count, nil
}

func (m *MockOrderRepository) ListByCustomer(ctx context.Context, customerID string) ([]*domain.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Order, 0)
	for _, o := range m.orders {
		if o.CustomerID == customerID {
			cp := *o
			result = append(result, &cp)
		}
	}
	return result, nil
}

// GetOrder returns the order by ID (for test assertions).
func (m *MockOrderRepository) GetOrder(id string) *domain.Order {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.orders[id]
}

// CountOrders returns the number of orders.
func (m *MockOrderRepository) CountOrders() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.orders)
}

// ──────────────────────────────────────────────
// MOCK TIMELINE REPOSITORY
// ──────────────────────────────────────────────

// MockTimelineRepository is a mock implementation of TimelineRepository.
type MockTimelineRepository struct {
	mu      sync.RWMutex
	entries []*domain.TimelineEntry

	// Counters
	AppendCallCount int32

	// Error injection
	AppendError error
}

// NewMockTimelineRepository creates a new mock timeline repository.
func NewMockTimelineRepository() *MockTimelineRepository {
	return &MockTimelineRepository{}
}

func (m *MockTimelineRepository) Append(ctx context.Context, entry *domain.TimelineEntry) error {
	atomic.AddInt32(&m.AppendCallCount, 1)
	if m.AppendError != nil {
		return m.AppendError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *entry
	m.entries = append(m.entries, &cp)
	return nil
}

func (m *MockTimelineRepository) ListByOrder(ctx context.Context, orderID string) ([]*domain.TimelineEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.TimelineEntry, 0)
	for _, e := range m.entries {
		if e.OrderID == orderID {
			cp := *e
			result = append(result, &cp)
		}
	}
	return result, nil
}

// EntriesFor returns the statuses recorded for an order, in append order.
func (m *MockTimelineRepository) EntriesFor(orderID string) []domain.OrderStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var statuses []domain.OrderStatus
	for _, e := range m.entries {
		if e.OrderID == orderID {
			statuses = append(statuses, e.Status)
		}
	}
	return statuses
}

// ──────────────────────────────────────────────
// MOCK WALLET REPOSITORY
// ──────────────────────────────────────────────

// MockWalletRepository is a mock implementation of WalletRepository.
type MockWalletRepository struct {
	mu      sync.RWMutex
	wallets map[string]*domain.Wallet

	// Counters
	CreateCallCount int32
	SaveCallCount   int32

	// Error injection
	CreateError error
	SaveError   error
}

// NewMockWalletRepository creates a new mock wallet repository.
func NewMockWalletRepository() *MockWalletRepository {
	return &MockWalletRepository{
		wallets: make(map[string]*domain.Wallet),
	}
}

// AddWallet adds a wallet to the mock repository.
func (m *MockWalletRepository) AddWallet(wallet *domain.Wallet) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.wallets[wallet.ID] = wallet
}

func (m *MockWalletRepository) Create(ctx context.Context, wallet *domain.Wallet) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *wallet
	m.wallets[wallet.ID] = &cp
	return nil
}

func (m *MockWalletRepository) GetByUserID(ctx context.Context, userID string) (*domain.Wallet, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, w := range m.wallets {
		if w.UserID == userID {
			cp := *w
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockWalletRepository) GetForUpdate(ctx context.Context, walletID string) (*domain.Wallet, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	wallet, ok := m.wallets[walletID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *wallet
	return &cp, nil
}

func (m *MockWalletRepository) Save(ctx context.Context, wallet *domain.Wallet) error {
	atomic.AddInt32(&m.SaveCallCount, 1)
	if m.SaveError != nil {
		return m.SaveError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.wallets[wallet.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *wallet
	m.wallets[wallet.ID] = &cp
	return nil
}

// GetWallet returns the wallet by ID (for test assertions).
func (m *MockWalletRepository) GetWallet(id string) *domain.Wallet {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.wallets[id]
}

// WalletFor returns the wallet owned by a user (for test assertions).
func (m *MockWalletRepository) WalletFor(userID string) *domain.Wallet {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, w := range m.wallets {
		if w.UserID == userID {
			return w
		}
	}
	return nil
}

// ──────────────────────────────────────────────
// MOCK TRANSACTION REPOSITORY
// ──────────────────────────────────────────────

// MockTransactionRepository is a mock implementation of TransactionRepository.
type MockTransactionRepository struct {
	mu   sync.RWMutex
	txns map[string]*domain.Transaction

	// Counters
	CreateCallCount int32
	UpdateCallCount int32

	// Error injection
	CreateError error
	UpdateError error
}

// NewMockTransactionRepository creates a new mock transaction repository.
func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{
		txns: make(map[string]*domain.Transaction),
	}
}

// AddTransaction adds a transaction to the mock repository.
func (m *MockTransactionRepository) AddTransaction(txn *domain.Transaction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.txns[txn.ID] = txn
}

func (m *MockTransactionRepository) Create(ctx context.Context, txn *domain.Transaction) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.txns {
		if t.Reference == txn.Reference {
			return repository.ErrDuplicateReference
		}
	}
	cp := *txn
	m.txns[txn.ID] = &cp
	return nil
}

func (m *MockTransactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	txn, ok := m.txns[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *txn
	return &cp, nil
}

func (m *MockTransactionRepository) GetForUpdate(ctx context.Context, id string) (*domain.Transaction, error) {
	return m.GetByID(ctx, id)
}

func (m *MockTransactionRepository) GetByReference(ctx context.Context, reference string) (*domain.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, t := range m.txns {
		if t.Reference == reference {
			cp := *t
			return &cp, nil
		}
	}
	return nil, nil // Absent reference is not an error.
}

func (m *MockTransactionRepository) FindPending(ctx context.Context, walletID string, category domain.TransactionCategory, amount string) (*domain.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, t := range m.txns {
		if t.WalletID == walletID && t.Category == category && t.Status == domain.TransactionStatusPending && t.Amount.StringFixed(2) == amount {
			cp := *t
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *MockTransactionRepository) ListByWallet(ctx context.Context, walletID string) ([]*domain.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Transaction, 0)
	for _, t := range m.txns {
		if t.WalletID == walletID {
			cp := *t
			result = append(result, &cp)
		}
	}
	return result, nil
}

func (m *MockTransactionRepository) Update(ctx context.Context, txn *domain.Transaction) error {
	atomic.AddInt32(&m.UpdateCallCount, 1)
	if m.UpdateError != nil {
		return m.UpdateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.txns[txn.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *txn
	m.txns[txn.ID] = &cp
	return nil
}

// CountTransactions returns the number of stored ledger entries.
func (m *MockTransactionRepository) CountTransactions() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.txns)
}

// TransactionByReference returns a stored entry for assertions.
func (m *MockTransactionRepository) TransactionByReference(reference string) *domain.Transaction {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, t := range m.txns {
		if t.Reference == reference {
			return t
		}
	}
	return nil
}

// ──────────────────────────────────────────────
// MOCK RIDER REPOSITORY
// ──────────────────────────────────────────────

// MockRiderRepository is a mock implementation of RiderRepository.
type MockRiderRepository struct {
	mu     sync.RWMutex
	riders map[string]*domain.Rider

	// Counters
	CreateCallCount             int32
	UpdateAvailabilityCallCount int32

	// Error injection
	CreateError             error
	UpdateAvailabilityError error
}

// NewMockRiderRepository creates a new mock rider repository.
func NewMockRiderRepository() *MockRiderRepository {
	return &MockRiderRepository{
		riders: make(map[string]*domain.Rider),
	}
}

// AddRider adds a rider to the mock repository.
func (m *MockRiderRepository) AddRider(rider *domain.Rider) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.riders[rider.ID] = rider
}

func (m *MockRiderRepository) Create(ctx context.Context, rider *domain.Rider) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *rider
	m.riders[rider.ID] = &cp
	return nil
}

func (m *MockRiderRepository) GetByID(ctx context.Context, id string) (*domain.Rider, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rider, ok := m.riders[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *rider
	return &cp, nil
}

func (m *MockRiderRepository) GetAll(ctx context.Context) ([]*domain.Rider, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Rider, 0, len(m.riders))
	for _, r := range m.riders {
		cp := *r
		result = append(result, &cp)
	}
	return result, nil
}

func (m *MockRiderRepository) UpdateAvailability(ctx context.Context, id string, availability domain.RiderAvailability) error {
	atomic.AddInt32(&m.UpdateAvailabilityCallCount, 1)
	if m.UpdateAvailabilityError != nil {
		return m.UpdateAvailabilityError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	rider, ok := m.riders[id]
	if !ok {
		return repository.ErrNotFound
	}
	rider.Availability = availability
	return nil
}

// GetRider returns rider for test assertions.
func (m *MockRiderRepository) GetRider(id string) *domain.Rider {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.riders[id]
}

// ──────────────────────────────────────────────
// MOCK CUSTOMER REPOSITORY
// ──────────────────────────────────────────────

// MockCustomerRepository is a mock implementation of CustomerRepository.
type MockCustomerRepository struct {
	mu        sync.RWMutex
	customers map[string]*domain.Customer

	// Error injection
	CreateError error
}

// NewMockCustomerRepository creates a new mock customer repository.
func NewMockCustomerRepository() *MockCustomerRepository {
	return &MockCustomerRepository{
		customers: make(map[string]*domain.Customer),
	}
}

func (m *MockCustomerRepository) Create(ctx context.Context, customer *domain.Customer) error {
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *customer
	m.customers[customer.ID] = &cp
	return nil
}

func (m *MockCustomerRepository) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	customer, ok := m.customers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *customer
	return &cp, nil
}

// ──────────────────────────────────────────────
// MOCK ACTIVITY REPOSITORY
// ──────────────────────────────────────────────

// MockActivityRepository is a mock implementation of ActivityRepository.
type MockActivityRepository struct {
	mu      sync.RWMutex
	entries []*domain.ActivityEntry

	// Counters
	AppendCallCount int32

	// Error injection
	AppendError error
}

// NewMockActivityRepository creates a new mock activity repository.
func NewMockActivityRepository() *MockActivityRepository {
	return &MockActivityRepository{}
}

func (m *MockActivityRepository) Append(ctx context.Context, entry *domain.ActivityEntry) error {
	atomic.AddInt32(&m.AppendCallCount, 1)
	if m.AppendError != nil {
		return m.AppendError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *entry
	m.entries = append(m.entries, &cp)
	return nil
}

func (m *MockActivityRepository) ListByTarget(ctx context.Context, targetID string) ([]*domain.ActivityEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.ActivityEntry, 0)
	for _, e := range m.entries {
		if e.TargetID == targetID {
			cp := *e
			result = append(result, &cp)
		}
	}
	return result, nil
}

// ActionsFor returns the recorded actions about an entity, in append order.
func (m *MockActivityRepository) ActionsFor(targetID string) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var actions []string
	for _, e := range m.entries {
		if e.TargetID == targetID {
			actions = append(actions, e.Action)
		}
	}
	return actions
}

// ──────────────────────────────────────────────
// MOCK TX RUNNER
// ──────────────────────────────────────────────

// MockTxRunner runs the callback against the shared mocks, serialized by a
// mutex to mirror the row-lock behavior of the real implementation. Rollback
// is not simulated; tests assert on committed state.
type MockTxRunner struct {
	mu    sync.Mutex
	Repos repository.TxRepos

	// Counters
	RunCallCount int32

	// Error injection
	RunError error
}

// NewMockTxRunner creates a MockTxRunner over the given mocks.
func NewMockTxRunner(orders *MockOrderRepository, timeline *MockTimelineRepository, wallets *MockWalletRepository, txns *MockTransactionRepository, riders *MockRiderRepository, activity *MockActivityRepository) *MockTxRunner {
	return &MockTxRunner{
		Repos: repository.TxRepos{
			Orders:       orders,
			Timeline:     timeline,
			Wallets:      wallets,
			Transactions: txns,
			Riders:       riders,
			Activity:     activity,
		},
	}
}

func (m *MockTxRunner) RunInTx(ctx context.Context, fn func(r repository.TxRepos) error) error {
	atomic.AddInt32(&m.RunCallCount, 1)
	if m.RunError != nil {
		return m.RunError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(m.Repos)
}

// ──────────────────────────────────────────────
// MOCK LOCATION STORE
// ──────────────────────────────────────────────

// MockLocationStore is a mock implementation of LocationStore.
type MockLocationStore struct {
	mu        sync.RWMutex
	locations []redis.RiderLocation

	// Counters
	UpdateLocationCallCount int32

	// Error injection
	UpdateLocationError   error
	FindNearbyRidersError error
}

// NewMockLocationStore creates a new mock location store.
func NewMockLocationStore() *MockLocationStore {
	return &MockLocationStore{
		locations: make([]redis.RiderLocation, 0),
	}
}

// AddRiderLocation adds a rider location to the mock store.
func (m *MockLocationStore) AddRiderLocation(loc redis.RiderLocation) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.locations = append(m.locations, loc)
}

func (m *MockLocationStore) UpdateLocation(ctx context.Context, riderID string, lat, lng float64) error {
	atomic.AddInt32(&m.UpdateLocationCallCount, 1)
	if m.UpdateLocationError != nil {
		return m.UpdateLocationError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, loc := range m.locations {
		if loc.RiderID == riderID {
			m.locations[i].Lat = lat
			m.locations[i].Lng = lng
			return nil
		}
	}
	m.locations = append(m.locations, redis.RiderLocation{
		RiderID: riderID,
		Lat:     lat,
		Lng:     lng,
	})
	return nil
}

func (m *MockLocationStore) FindNearbyRiders(ctx context.Context, lat, lng, radiusKm float64) ([]redis.RiderLocation, error) {
	if m.FindNearbyRidersError != nil {
		return nil, m.FindNearbyRidersError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	// Return all locations in insertion order (mock doesn't do real geo
	// filtering).
	result := make([]redis.RiderLocation, len(m.locations))
	copy(result, m.locations)
	return result, nil
}

func (m *MockLocationStore) RemoveLocation(ctx context.Context, riderID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, loc := range m.locations {
		if loc.RiderID == riderID {
			m.locations = append(m.locations[:i], m.locations[i+1:]...)
			return nil
		}
	}
	return nil
}

// HasLocation checks if a rider location exists.
func (m *MockLocationStore) HasLocation(riderID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, loc := range m.locations {
		if loc.RiderID == riderID {
			return true
		}
	}
	return false
}

// ──────────────────────────────────────────────
// MOCK LOCK STORE
// ──────────────────────────────────────────────

// MockLockStore is a mock implementation of LockStore.
type MockLockStore struct {
	mu    sync.Mutex
	locks map[string]time.Time

	// Counters
	AcquireCallCount int32
	ReleaseCallCount int32

	// Error injection
	AcquireError error

	// Force lock failure
	ForceAcquireFailure bool
}

// NewMockLockStore creates a new mock lock store.
func NewMockLockStore() *MockLockStore {
	return &MockLockStore{
		locks: make(map[string]time.Time),
	}
}

func (m *MockLockStore) acquire(key string, ttl time.Duration) (bool, error) {
	atomic.AddInt32(&m.AcquireCallCount, 1)
	if m.AcquireError != nil {
		return false, m.AcquireError
	}
	if m.ForceAcquireFailure {
		return false, nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if expiry, exists := m.locks[key]; exists {
		if time.Now().Before(expiry) {
			return false, nil // Lock still held.
		}
	}
	m.locks[key] = time.Now().Add(ttl)
	return true, nil
}

func (m *MockLockStore) release(key string) error {
	atomic.AddInt32(&m.ReleaseCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.locks, key)
	return nil
}

func (m *MockLockStore) AcquireRiderLock(ctx context.Context, riderID string, ttl time.Duration) (bool, error) {
	return m.acquire("lock:rider:"+riderID, ttl)
}

func (m *MockLockStore) ReleaseRiderLock(ctx context.Context, riderID string) error {
	return m.release("lock:rider:" + riderID)
}

func (m *MockLockStore) AcquireOrderLock(ctx context.Context, orderID string, ttl time.Duration) (bool, error) {
	return m.acquire("lock:order:"+orderID, ttl)
}

func (m *MockLockStore) ReleaseOrderLock(ctx context.Context, orderID string) error {
	return m.release("lock:order:" + orderID)
}

// IsRiderLocked checks if a rider is locked (for test assertions).
func (m *MockLockStore) IsRiderLocked(riderID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	expiry, exists := m.locks["lock:rider:"+riderID]
	return exists && time.Now().Before(expiry)
}

// ──────────────────────────────────────────────
// MOCK PAYMENT PROVIDER
// ──────────────────────────────────────────────

// MockPaymentProvider is a mock payment provider.
type MockPaymentProvider struct {
	mu sync.Mutex

	// Control behavior
	InitializeError error
	TransferError   error
	VerifyStatus    string

	// Counters
	InitializeCallCount int32
	TransferCallCount   int32
}

// NewMockPaymentProvider creates a new mock payment provider.
func NewMockPaymentProvider() *MockPaymentProvider {
	return &MockPaymentProvider{VerifyStatus: "success"}
}

func (m *MockPaymentProvider) Initialize(ctx context.Context, req service.InitializeRequest) (*service.InitializeResult, error) {
	atomic.AddInt32(&m.InitializeCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.InitializeError != nil {
		return nil, m.InitializeError
	}
	return &service.InitializeResult{
		AuthorizationURL: "https://checkout.example/" + req.Reference,
		AccessCode:       "access-" + req.Reference,
		Reference:        req.Reference,
	}, nil
}

func (m *MockPaymentProvider) Verify(ctx context.Context, reference string) (*service.VerifyResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return &service.VerifyResult{Reference: reference, Status: m.VerifyStatus}, nil
}

func (m *MockPaymentProvider) Transfer(ctx context.Context, req service.TransferRequest) (*service.TransferResult, error) {
	atomic.AddInt32(&m.TransferCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.TransferError != nil {
		return nil, m.TransferError
	}
	return &service.TransferResult{Reference: req.Reference, Status: "success"}, nil
}

// ──────────────────────────────────────────────
// MOCK GEOCODER
// ──────────────────────────────────────────────

// MockGeocoder is a deterministic Geocoder for tests.
type MockGeocoder struct {
	DistanceKm float64
	Duration   time.Duration

	// Error injection
	RouteError error
}

// NewMockGeocoder creates a geocoder returning a fixed route.
func NewMockGeocoder(distanceKm float64, duration time.Duration) *MockGeocoder {
	return &MockGeocoder{DistanceKm: distanceKm, Duration: duration}
}

func (m *MockGeocoder) ResolveAddress(ctx context.Context, lat, lng float64) (string, error) {
	return "mock address", nil
}

func (m *MockGeocoder) ComputeRoute(ctx context.Context, originLat, originLng, destLat, destLng float64) (*service.Route, error) {
	if m.RouteError != nil {
		return nil, m.RouteError
	}
	return &service.Route{DistanceKm: m.DistanceKm, Duration: m.Duration}, nil
}

// ──────────────────────────────────────────────
// MOCK NOTIFICATION SENDER
// ──────────────────────────────────────────────

// MockSender records delivered notifications.
type MockSender struct {
	mu   sync.Mutex
	sent []service.Notification

	// Error injection
	SendError error
}

// NewMockSender creates a new mock sender.
func NewMockSender() *MockSender {
	return &MockSender{}
}

func (m *MockSender) Send(ctx context.Context, n service.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SendError != nil {
		return m.SendError
	}
	m.sent = append(m.sent, n)
	return nil
}

// SentTypes returns the delivered notification types in order.
func (m *MockSender) SentTypes() []service.NotificationType {
	m.mu.Lock()
	defer m.mu.Unlock()
	types := make([]service.NotificationType, 0, len(m.sent))
	for _, n := range m.sent {
		types = append(types, n.Type)
	}
	return types
}

// ──────────────────────────────────────────────
// HELPER ERRORS
// ──────────────────────────────────────────────

var (
	ErrMockDBConstraint = errors.New("mock: unique constraint violation")
	ErrMockTimeout      = errors.New("mock: operation timeout")
)
