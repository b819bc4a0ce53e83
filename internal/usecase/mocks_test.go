//go:build !integration

package usecase_test

import (
	"context"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"service-sales-platform/internal/domain"
	"service-sales-platform/internal/domain/model"
	"service-sales-platform/internal/domain/ports/adapter"
	"service-sales-platform/internal/domain/ports/repository"
)

// newTestLogger creates a silent zerolog.Logger for use in tests.
func newTestLogger() *zerolog.Logger {
	logger := zerolog.New(io.Discard)
	return &logger
}

// --- Lead repo ---

type MockLeadRepo struct {
	mu       sync.RWMutex
	store    map[string]*model.Lead
	SaveFunc func(ctx context.Context, tx repository.Tx, l *model.Lead) error
}

var _ repository.LeadRepository = (*MockLeadRepo)(nil)

func NewMockLeadRepo() *MockLeadRepo {
	return &MockLeadRepo{store: make(map[string]*model.Lead)}
}

func (m *MockLeadRepo) Save(ctx context.Context, tx repository.Tx, l *model.Lead) error {
	if m.SaveFunc != nil {
		if err := m.SaveFunc(ctx, tx, l); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *l
	m.store[l.ID] = &cp
	return nil
}

func (m *MockLeadRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Lead, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	l, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *l
	return &cp, nil
}

func (m *MockLeadRepo) ListByUser(ctx context.Context, tx repository.Tx, userID string) ([]*model.Lead, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.Lead
	for _, l := range m.store {
		if l.UserID != nil && *l.UserID == userID {
			cp := *l
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MockLeadRepo) ListAll(ctx context.Context, tx repository.Tx, offset, limit int) ([]*model.Lead, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.Lead
	for _, l := range m.store {
		cp := *l
		out = append(out, &cp)
	}
	return out, nil
}

// --- Checkout repo ---

type MockCheckoutRepo struct {
	mu       sync.RWMutex
	store    map[string]*model.ServiceCheckout
	SaveFunc func(ctx context.Context, tx repository.Tx, c *model.ServiceCheckout) error
}

var _ repository.CheckoutRepository = (*MockCheckoutRepo)(nil)

func NewMockCheckoutRepo() *MockCheckoutRepo {
	return &MockCheckoutRepo{store: make(map[string]*model.ServiceCheckout)}
}

func (m *MockCheckoutRepo) Save(ctx context.Context, tx repository.Tx, c *model.ServiceCheckout) error {
	if m.SaveFunc != nil {
		if err := m.SaveFunc(ctx, tx, c); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *c
	m.store[c.ID] = &cp
	return nil
}

func (m *MockCheckoutRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.ServiceCheckout, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *MockCheckoutRepo) FindByOrderID(ctx context.Context, tx repository.Tx, orderID string) (*model.ServiceCheckout, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, c := range m.store {
		if c.OrderID == orderID {
			cp := *c
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockCheckoutRepo) MarkCaptured(ctx context.Context, tx repository.Tx, id, captureID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.store[id]
	if !ok {
		return false, domain.ErrNotFound
	}
	if c.Status != model.CheckoutStatusCreated {
		return false, nil
	}
	c.Status = model.CheckoutStatusCaptured
	c.CaptureID = captureID
	c.UpdatedAt = time.Now()
	return true, nil
}

func (m *MockCheckoutRepo) ListStaleCreated(ctx context.Context, tx repository.Tx, olderThan time.Time, limit int) ([]*model.ServiceCheckout, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.ServiceCheckout
	for _, c := range m.store {
		if c.Status == model.CheckoutStatusCreated && c.OrderID != "" && c.CreatedAt.Before(olderThan) {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

// MockTxManager runs the callback without a real transaction.
type MockTxManager struct{}

var _ repository.TransactionManager = (*MockTxManager)(nil)

func (MockTxManager) WithTx(ctx context.Context, fn func(ctx context.Context, tx repository.Tx) error) error {
	return fn(ctx, repository.NoTX)
}

// Len reports the number of stored checkout rows.
func (m *MockCheckoutRepo) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.store)
}

// --- Service repo ---

type MockServiceRepo struct {
	mu       sync.RWMutex
	store    map[string]*model.Service
	SaveFunc func(ctx context.Context, tx repository.Tx, s *model.Service) error
}

var _ repository.ServiceRepository = (*MockServiceRepo)(nil)

func NewMockServiceRepo() *MockServiceRepo {
	return &MockServiceRepo{store: make(map[string]*model.Service)}
}

func (m *MockServiceRepo) Save(ctx context.Context, tx repository.Tx, s *model.Service) error {
	if m.SaveFunc != nil {
		if err := m.SaveFunc(ctx, tx, s); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	m.store[s.ID] = &cp
	return nil
}

func (m *MockServiceRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Service, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *MockServiceRepo) FindBySubscriptionID(ctx context.Context, tx repository.Tx, subID string) (*model.Service, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, s := range m.store {
		if s.SubscriptionID == subID {
			cp := *s
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockServiceRepo) ListByEmail(ctx context.Context, tx repository.Tx, email string) ([]*model.Service, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.Service
	for _, s := range m.store {
		if s.Email == email {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MockServiceRepo) List(ctx context.Context, tx repository.Tx, f repository.ServiceFilter) ([]*model.Service, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.Service
	for _, s := range m.store {
		if f.Email != "" && s.Email != f.Email {
			continue
		}
		if f.Status != "" && s.Status != f.Status {
			continue
		}
		cp := *s
		out = append(out, &cp)
	}
	return out, nil
}

// --- Contact request repo ---

type MockContactRequestRepo struct {
	mu    sync.RWMutex
	store map[string]*model.ContactRequest
}

var _ repository.ContactRequestRepository = (*MockContactRequestRepo)(nil)

func NewMockContactRequestRepo() *MockContactRequestRepo {
	return &MockContactRequestRepo{store: make(map[string]*model.ContactRequest)}
}

func (m *MockContactRequestRepo) Save(ctx context.Context, tx repository.Tx, cr *model.ContactRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *cr
	m.store[cr.ID] = &cp
	return nil
}

func (m *MockContactRequestRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.ContactRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	cr, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *cr
	return &cp, nil
}

func (m *MockContactRequestRepo) FindByOrderID(ctx context.Context, tx repository.Tx, orderID string) (*model.ContactRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, cr := range m.store {
		if cr.PaypalOrderID == orderID {
			cp := *cr
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

// --- Storefront repos ---

type MockOrderRepo struct {
	mu    sync.RWMutex
	store map[string]*model.Order
}

var _ repository.OrderRepository = (*MockOrderRepo)(nil)

func NewMockOrderRepo() *MockOrderRepo {
	return &MockOrderRepo{store: make(map[string]*model.Order)}
}

func (m *MockOrderRepo) Save(ctx context.Context, tx repository.Tx, o *model.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *o
	m.store[o.ID] = &cp
	return nil
}

func (m *MockOrderRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	o, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (m *MockOrderRepo) ListByEmail(ctx context.Context, tx repository.Tx, email string) ([]*model.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.Order
	for _, o := range m.store {
		if o.Email == email {
			cp := *o
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MockOrderRepo) ListAll(ctx context.Context, tx repository.Tx, offset, limit int) ([]*model.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.Order
	for _, o := range m.store {
		cp := *o
		out = append(out, &cp)
	}
	return out, nil
}

type MockCouponRepo struct {
	mu    sync.RWMutex
	store map[string]*model.Coupon
}

var _ repository.CouponRepository = (*MockCouponRepo)(nil)

func NewMockCouponRepo() *MockCouponRepo {
	return &MockCouponRepo{store: make(map[string]*model.Coupon)}
}

func (m *MockCouponRepo) Save(ctx context.Context, tx repository.Tx, c *model.Coupon) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *c
	m.store[strings.ToUpper(c.Code)] = &cp
	return nil
}

func (m *MockCouponRepo) FindByCode(ctx context.Context, tx repository.Tx, code string) (*model.Coupon, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.store[strings.ToUpper(code)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *MockCouponRepo) ListAll(ctx context.Context, tx repository.Tx) ([]*model.Coupon, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.Coupon
	for _, c := range m.store {
		cp := *c
		out = append(out, &cp)
	}
	return out, nil
}

type MockProductRepo struct {
	mu    sync.RWMutex
	store map[string]*model.Product
}

var _ repository.ProductRepository = (*MockProductRepo)(nil)

func NewMockProductRepo() *MockProductRepo {
	return &MockProductRepo{store: make(map[string]*model.Product)}
}

func (m *MockProductRepo) Save(ctx context.Context, tx repository.Tx, p *model.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.store[p.ID] = &cp
	return nil
}

func (m *MockProductRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *MockProductRepo) List(ctx context.Context, tx repository.Tx, categoryID string, offset, limit int) ([]*model.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.Product
	for _, p := range m.store {
		if categoryID != "" && p.CategoryID != categoryID {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

// --- Payment gateway ---

type MockPaymentGateway struct {
	mu sync.Mutex

	CreateOrderFunc        func(ctx context.Context, amount float64, currency, returnURL, cancelURL string) (*adapter.GatewayOrder, error)
	CaptureOrderFunc       func(ctx context.Context, orderID string) (*adapter.GatewayCapture, error)
	CreateSubscriptionFunc func(ctx context.Context, planID, customID, returnURL, cancelURL string) (*adapter.GatewaySubscription, error)
	GetSubscriptionFunc    func(ctx context.Context, subscriptionID string) (*adapter.GatewaySubscription, error)

	CreateOrderCalls  int
	CaptureOrderCalls int
	CanceledSubs      []string
}

var _ adapter.PaymentGateway = (*MockPaymentGateway)(nil)

func (m *MockPaymentGateway) Name() string { return "mockpay" }

func (m *MockPaymentGateway) CreateOrder(ctx context.Context, amount float64, currency, returnURL, cancelURL string) (*adapter.GatewayOrder, error) {
	m.mu.Lock()
	m.CreateOrderCalls++
	m.mu.Unlock()
	if m.CreateOrderFunc != nil {
		return m.CreateOrderFunc(ctx, amount, currency, returnURL, cancelURL)
	}
	id := "ORDER-" + uuid.NewString()
	return &adapter.GatewayOrder{OrderID: id, Status: "CREATED", ApproveURL: "https://pay.example/approve/" + id}, nil
}

func (m *MockPaymentGateway) CaptureOrder(ctx context.Context, orderID string) (*adapter.GatewayCapture, error) {
	m.mu.Lock()
	m.CaptureOrderCalls++
	m.mu.Unlock()
	if m.CaptureOrderFunc != nil {
		return m.CaptureOrderFunc(ctx, orderID)
	}
	return &adapter.GatewayCapture{OrderID: orderID, Status: "COMPLETED", CaptureID: "CAP-" + orderID}, nil
}

func (m *MockPaymentGateway) CreateSubscription(ctx context.Context, planID, customID, returnURL, cancelURL string) (*adapter.GatewaySubscription, error) {
	if m.CreateSubscriptionFunc != nil {
		return m.CreateSubscriptionFunc(ctx, planID, customID, returnURL, cancelURL)
	}
	id := "SUB-" + uuid.NewString()
	return &adapter.GatewaySubscription{
		SubscriptionID: id,
		Status:         "APPROVAL_PENDING",
		ApproveURL:     "https://pay.example/subscribe/" + id,
		CustomID:       customID,
	}, nil
}

func (m *MockPaymentGateway) GetSubscription(ctx context.Context, subscriptionID string) (*adapter.GatewaySubscription, error) {
	if m.GetSubscriptionFunc != nil {
		return m.GetSubscriptionFunc(ctx, subscriptionID)
	}
	return &adapter.GatewaySubscription{SubscriptionID: subscriptionID, Status: "ACTIVE"}, nil
}

func (m *MockPaymentGateway) CancelSubscription(ctx context.Context, subscriptionID, reason string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CanceledSubs = append(m.CanceledSubs, subscriptionID)
	return nil
}
