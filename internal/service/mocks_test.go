package service

import (
	"context"
	"sync"
	"time"

	"storefront/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/mock"
)

// MockCartAPI is a mock implementation of commerce.CartAPI.
type MockCartAPI struct {
	mock.Mock
}

func (m *MockCartAPI) CreateCart(ctx context.Context, regionID string) (*model.Cart, error) {
	args := m.Called(ctx, regionID)
	return cartArg(args, 0), args.Error(1)
}

func (m *MockCartAPI) RetrieveCart(ctx context.Context, cartID string) (*model.Cart, error) {
	args := m.Called(ctx, cartID)
	return cartArg(args, 0), args.Error(1)
}

func (m *MockCartAPI) UpdateCart(ctx context.Context, cartID string, update *model.CartUpdate) (*model.Cart, error) {
	args := m.Called(ctx, cartID, update)
	return cartArg(args, 0), args.Error(1)
}

func (m *MockCartAPI) AddLineItem(ctx context.Context, cartID string, item model.LineItemRequest) (*model.Cart, error) {
	args := m.Called(ctx, cartID, item)
	return cartArg(args, 0), args.Error(1)
}

func (m *MockCartAPI) AddShippingMethod(ctx context.Context, cartID, optionID string) (*model.Cart, error) {
	args := m.Called(ctx, cartID, optionID)
	return cartArg(args, 0), args.Error(1)
}

func (m *MockCartAPI) CreatePaymentSessions(ctx context.Context, cartID string) (*model.Cart, error) {
	args := m.Called(ctx, cartID)
	return cartArg(args, 0), args.Error(1)
}

func (m *MockCartAPI) SelectPaymentSession(ctx context.Context, cartID, providerID string) (*model.Cart, error) {
	args := m.Called(ctx, cartID, providerID)
	return cartArg(args, 0), args.Error(1)
}

func (m *MockCartAPI) CompleteCart(ctx context.Context, cartID string) (*model.CompleteCartResult, error) {
	args := m.Called(ctx, cartID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CompleteCartResult), args.Error(1)
}

func (m *MockCartAPI) ListShippingOptions(ctx context.Context, cartID string) ([]model.ShippingOption, error) {
	args := m.Called(ctx, cartID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ShippingOption), args.Error(1)
}

func cartArg(args mock.Arguments, i int) *model.Cart {
	if args.Get(i) == nil {
		return nil
	}
	return args.Get(i).(*model.Cart)
}

// MockCatalogAPI is a mock implementation of commerce.CatalogAPI.
type MockCatalogAPI struct {
	mock.Mock
}

func (m *MockCatalogAPI) ListProducts(ctx context.Context, query model.ProductQuery) (*model.ProductPage, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ProductPage), args.Error(1)
}

func (m *MockCatalogAPI) GetProductByHandle(ctx context.Context, handle, regionID string) (*model.Product, error) {
	args := m.Called(ctx, handle, regionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockCatalogAPI) GetCategoryByHandle(ctx context.Context, handle string) (*model.Category, error) {
	args := m.Called(ctx, handle)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Category), args.Error(1)
}

func (m *MockCatalogAPI) GetCollectionByHandle(ctx context.Context, handle string) (*model.Collection, error) {
	args := m.Called(ctx, handle)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Collection), args.Error(1)
}

func (m *MockCatalogAPI) ListCategories(ctx context.Context) ([]model.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Category), args.Error(1)
}

func (m *MockCatalogAPI) ListCollections(ctx context.Context) ([]model.Collection, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Collection), args.Error(1)
}

func (m *MockCatalogAPI) ListRegions(ctx context.Context) ([]model.Region, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Region), args.Error(1)
}

// MockSubscriptionService is a mock implementation of SubscriptionService.
type MockSubscriptionService struct {
	mock.Mock
}

func (m *MockSubscriptionService) AfterOrder(ctx context.Context, cart *model.Cart, order *model.Order) {
	m.Called(ctx, cart, order)
}

// MockSubscriptionAPI is a mock implementation of companion.SubscriptionAPI.
type MockSubscriptionAPI struct {
	mock.Mock
}

func (m *MockSubscriptionAPI) CreateSubscription(ctx context.Context, req *model.SubscriptionRequest) (*model.Subscription, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Subscription), args.Error(1)
}

// MockAlertDispatcher is a mock implementation of AlertDispatcher.
type MockAlertDispatcher struct {
	mock.Mock
}

func (m *MockAlertDispatcher) Dispatch(ctx context.Context, alert model.AdminAlert) {
	m.Called(ctx, alert)
}

// MockRecoveryService is a mock implementation of RecoveryService.
type MockRecoveryService struct {
	mock.Mock
}

func (m *MockRecoveryService) Record(ctx context.Context, failure *model.SubscriptionFailure) error {
	args := m.Called(ctx, failure)
	return args.Error(0)
}

func (m *MockRecoveryService) List(ctx context.Context, limit, offset int, unresolvedOnly bool) ([]model.SubscriptionFailure, error) {
	args := m.Called(ctx, limit, offset, unresolvedOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.SubscriptionFailure), args.Error(1)
}

func (m *MockRecoveryService) Get(ctx context.Context, id uuid.UUID) (*model.SubscriptionFailure, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SubscriptionFailure), args.Error(1)
}

func (m *MockRecoveryService) Resolve(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockArchiveWriter is a mock implementation of archive.Writer.
type MockArchiveWriter struct {
	mock.Mock
}

func (m *MockArchiveWriter) Write(ctx context.Context, key string, report any) (string, error) {
	args := m.Called(ctx, key, report)
	return args.String(0), args.Error(1)
}

// MockMFAAPI is a mock implementation of companion.MFAAPI.
type MockMFAAPI struct {
	mock.Mock
}

func (m *MockMFAAPI) Status(ctx context.Context) (*model.MFAStatus, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.MFAStatus), args.Error(1)
}

func (m *MockMFAAPI) InitializeEnrollment(ctx context.Context) (*model.MFASetup, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.MFASetup), args.Error(1)
}

func (m *MockMFAAPI) CompleteEnrollment(ctx context.Context, code string) (*model.MFAEnrollResult, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.MFAEnrollResult), args.Error(1)
}

func (m *MockMFAAPI) Disable(ctx context.Context, password, code string) error {
	args := m.Called(ctx, password, code)
	return args.Error(0)
}

func (m *MockMFAAPI) RegenerateBackupCodes(ctx context.Context, password string) ([]string, error) {
	args := m.Called(ctx, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockFailureRepository is a mock implementation of repository.FailureRepository.
type MockFailureRepository struct {
	mock.Mock
}

func (m *MockFailureRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if tx, ok := args.Get(0).(pgx.Tx); ok {
		return tx, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockFailureRepository) CreateFailure(ctx context.Context, tx pgx.Tx, failure *model.SubscriptionFailure) error {
	args := m.Called(ctx, tx, failure)
	return args.Error(0)
}

func (m *MockFailureRepository) CreateFailureItems(ctx context.Context, tx pgx.Tx, items []model.SubscriptionFailureItem) error {
	args := m.Called(ctx, tx, items)
	return args.Error(0)
}

func (m *MockFailureRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.SubscriptionFailure, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SubscriptionFailure), args.Error(1)
}

func (m *MockFailureRepository) List(ctx context.Context, limit, offset int, unresolvedOnly bool) ([]model.SubscriptionFailure, error) {
	args := m.Called(ctx, limit, offset, unresolvedOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.SubscriptionFailure), args.Error(1)
}

func (m *MockFailureRepository) MarkResolved(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	args := m.Called(ctx, id, at)
	return args.Bool(0), args.Error(1)
}

// MockTx is a minimal mock implementation of pgx.Tx for testing.
type MockTx struct {
	mock.Mock
}

func (m *MockTx) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockTx) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// Stub methods to satisfy pgx.Tx interface - these are not used in our tests
func (m *MockTx) Begin(ctx context.Context) (pgx.Tx, error) { return nil, nil }
func (m *MockTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (m *MockTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (m *MockTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (m *MockTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (m *MockTx) Exec(ctx context.Context, sql string, arguments ...any) (commandTag pgconn.CommandTag, err error) {
	return
}
func (m *MockTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (m *MockTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row { return nil }
func (m *MockTx) Conn() *pgx.Conn                                               { return nil }

// memStateStore is an in-memory CheckoutStateRepository.
type memStateStore struct {
	mu     sync.Mutex
	states map[string]*model.CheckoutState
	saves  int
}

func newMemStateStore() *memStateStore {
	return &memStateStore{states: map[string]*model.CheckoutState{}}
}

func (s *memStateStore) Load(ctx context.Context, sessionID string) (*model.CheckoutState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, ok := s.states[sessionID]
	if !ok {
		return nil, nil
	}
	copied := *state
	return &copied, nil
}

func (s *memStateStore) Save(ctx context.Context, sessionID string, state *model.CheckoutState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *state
	s.states[sessionID] = &copied
	s.saves++
	return nil
}

func (s *memStateStore) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, sessionID)
	return nil
}

func (s *memStateStore) put(sessionID string, state *model.CheckoutState) {
	s.states[sessionID] = state
}

// memCartSessions is an in-memory CartSessionRepository.
type memCartSessions struct {
	mu    sync.Mutex
	carts map[string]string
}

func newMemCartSessions() *memCartSessions {
	return &memCartSessions{carts: map[string]string{}}
}

func (s *memCartSessions) GetCartID(ctx context.Context, sessionID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.carts[sessionID], nil
}

func (s *memCartSessions) SetCartID(ctx context.Context, sessionID, cartID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.carts[sessionID] = cartID
	return nil
}

func (s *memCartSessions) ClearCartID(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, sessionID)
	return nil
}

// memDismissals is an in-memory DismissalRepository.
type memDismissals struct {
	entries map[string]time.Time
}

func newMemDismissals() *memDismissals {
	return &memDismissals{entries: map[string]time.Time{}}
}

func (d *memDismissals) Get(ctx context.Context, scope, key string) (*time.Time, error) {
	expiry, ok := d.entries[scope+"/"+key]
	if !ok {
		return nil, nil
	}
	return &expiry, nil
}

func (d *memDismissals) Set(ctx context.Context, scope, key string, expiry time.Time) error {
	d.entries[scope+"/"+key] = expiry
	return nil
}

// memWizards is an in-memory EnrollmentRepository.
type memWizards struct {
	wizards map[string]model.MFAWizard
}

func newMemWizards() *memWizards {
	return &memWizards{wizards: map[string]model.MFAWizard{}}
}

func (w *memWizards) Load(ctx context.Context, sessionID string) (*model.MFAWizard, error) {
	wizard, ok := w.wizards[sessionID]
	if !ok {
		return nil, nil
	}
	return &wizard, nil
}

func (w *memWizards) Save(ctx context.Context, sessionID string, wizard *model.MFAWizard) error {
	w.wizards[sessionID] = *wizard
	return nil
}

func (w *memWizards) Delete(ctx context.Context, sessionID string) error {
	delete(w.wizards, sessionID)
	return nil
}
