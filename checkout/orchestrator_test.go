package checkout

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/Prabhu6626/Glonix-Website/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// In-memory fakes. The ledger fake mirrors the unique-insert semantics of the
// Mongo implementation so the concurrency tests exercise the real protocol.

type memLedger struct {
	mu      sync.Mutex
	records map[string]models.IdempotencyRecord
}

func newMemLedger() *memLedger {
	return &memLedger{records: make(map[string]models.IdempotencyRecord)}
}

func (l *memLedger) TryBegin(_ context.Context, key, userID string) (bool, models.IdempotencyRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if rec, ok := l.records[key]; ok {
		return true, rec, nil
	}
	rec := models.IdempotencyRecord{
		Key:       key,
		UserID:    userID,
		Status:    models.IdemPending,
		CreatedAt: time.Now(),
	}
	l.records[key] = rec
	return false, rec, nil
}

func (l *memLedger) Complete(_ context.Context, key, orderID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	rec, ok := l.records[key]
	if !ok || rec.Status != models.IdemPending {
		return fmt.Errorf("no pending record for %s", key)
	}
	rec.Status = models.IdemSucceeded
	rec.OrderID = orderID
	l.records[key] = rec
	return nil
}

func (l *memLedger) Fail(_ context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	rec, ok := l.records[key]
	if !ok {
		return fmt.Errorf("no record for %s", key)
	}
	rec.Status = models.IdemFailed
	l.records[key] = rec
	return nil
}

func (l *memLedger) status(key string) models.IdempotencyStatus {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.records[key].Status
}

type memOrders struct {
	mu        sync.Mutex
	orders    map[string]models.Order
	inserts   int
	insertErr error
}

func newMemOrders() *memOrders {
	return &memOrders{orders: make(map[string]models.Order)}
}

func (s *memOrders) Insert(_ context.Context, order models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.insertErr != nil {
		return s.insertErr
	}
	if err := order.ValidateTotals(); err != nil {
		return err
	}
	s.inserts++
	s.orders[order.OrderID] = order
	return nil
}

func (s *memOrders) GetByID(_ context.Context, orderID string) (models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.orders[orderID]
	if !ok {
		return models.Order{}, errors.New("order not found")
	}
	return order, nil
}

func (s *memOrders) insertCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inserts
}

type memCarts struct {
	mu      sync.Mutex
	cart    models.Cart
	cleared int
}

func (c *memCarts) Get(_ context.Context, userID string) (models.Cart, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	cart := c.cart
	cart.UserID = userID
	return cart, nil
}

func (c *memCarts) Clear(_ context.Context, _ string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cart.Items = nil
	c.cleared++
	return nil
}

type fakeCatalog struct {
	products map[string]models.Product
}

func (f *fakeCatalog) GetProduct(_ context.Context, productID string) (models.Product, error) {
	p, ok := f.products[productID]
	if !ok {
		return models.Product{}, errors.New("product not found")
	}
	return p, nil
}

type fakeGateway struct {
	intent    models.PaymentIntent
	createErr error
}

func (g *fakeGateway) CreateIntent(_ context.Context, amountMinor int64, currency, receipt string) (models.PaymentIntent, error) {
	if g.createErr != nil {
		return models.PaymentIntent{}, g.createErr
	}
	intent := g.intent
	intent.AmountMinor = amountMinor
	intent.Currency = currency
	intent.Receipt = receipt
	return intent, nil
}

func (g *fakeGateway) VerifySignature(_, _, signature string) bool {
	return signature == "valid-signature"
}

type fakeFunnel struct {
	mu        sync.Mutex
	confirmed int
}

func (f *fakeFunnel) OnOrderConfirmed(_ context.Context, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.confirmed++
	return nil
}

type fakeNotifier struct {
	mu     sync.Mutex
	orders []models.Order
}

func (n *fakeNotifier) NotifyOrderConfirmed(order models.Order) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.orders = append(n.orders, order)
}

type fixture struct {
	orch     *Orchestrator
	carts    *memCarts
	orders   *memOrders
	ledger   *memLedger
	funnel   *fakeFunnel
	notifier *fakeNotifier
}

// newFixture wires an orchestrator around a cart holding two Arduino Uno R3
// boards at 25.99 each.
func newFixture() *fixture {
	carts := &memCarts{
		cart: models.Cart{
			Items: []models.CartItem{{
				ProductID:      "prod-uno-r3",
				ProductName:    "Arduino Uno R3",
				ProductSKU:     "ARD-UNO-R3",
				UnitPriceMinor: 2599,
				Quantity:       2,
			}},
		},
	}
	catalog := &fakeCatalog{products: map[string]models.Product{
		"prod-uno-r3": {
			ProductID:     "prod-uno-r3",
			Name:          "Arduino Uno R3",
			SKU:           "ARD-UNO-R3",
			Price:         25.99,
			InStock:       true,
			StockQuantity: 10,
		},
	}}
	orders := newMemOrders()
	ledger := newMemLedger()
	funnel := &fakeFunnel{}
	notifier := &fakeNotifier{}
	gw := &fakeGateway{intent: models.PaymentIntent{GatewayOrderID: "order_gw123"}}

	return &fixture{
		orch:     NewOrchestrator(carts, catalog, orders, ledger, gw, funnel, notifier),
		carts:    carts,
		orders:   orders,
		ledger:   ledger,
		funnel:   funnel,
		notifier: notifier,
	}
}

func TestCreatePaymentIntentAmountFromCart(t *testing.T) {
	f := newFixture()

	intent, err := f.orch.CreatePaymentIntent(context.Background(), "user-1")
	require.NoError(t, err)

	// 2 x 2599 paise, shipping and tax are added at order time, not here.
	assert.Equal(t, int64(5198), intent.AmountMinor)
	assert.Equal(t, "INR", intent.Currency)
	assert.NotEmpty(t, intent.Receipt)
}

func TestCreatePaymentIntentEmptyCart(t *testing.T) {
	f := newFixture()
	f.carts.cart.Items = nil

	_, err := f.orch.CreatePaymentIntent(context.Background(), "user-1")
	assert.ErrorIs(t, err, ErrInvalidCart)
}

func TestCreatePaymentIntentOutOfStock(t *testing.T) {
	f := newFixture()
	f.carts.cart.Items[0].Quantity = 50 // more than the 10 in stock

	_, err := f.orch.CreatePaymentIntent(context.Background(), "user-1")
	assert.ErrorIs(t, err, ErrProductUnavailable)
}

func TestCreatePaymentIntentGatewayDown(t *testing.T) {
	f := newFixture()
	gw := &fakeGateway{createErr: errors.New("connection refused")}
	f.orch.gateway = gw

	_, err := f.orch.CreatePaymentIntent(context.Background(), "user-1")
	assert.ErrorIs(t, err, ErrGateway)
}

func TestVerifyAndFinalizeCreatesOrder(t *testing.T) {
	f := newFixture()
	payload := Payload{ShippingMethod: "standard", PaymentMethod: "razorpay"}

	order, err := f.orch.VerifyAndFinalize(context.Background(),
		"user-1", "order_gw123", "pay_abc", "valid-signature", payload)
	require.NoError(t, err)

	assert.Equal(t, int64(5198), order.SubtotalMinor)
	assert.Equal(t, int64(4900), order.ShippingMinor)
	assert.Equal(t, int64(935), order.TaxMinor) // 18% of 5198, truncated
	assert.Equal(t, int64(11033), order.TotalMinor)
	assert.Equal(t, models.OrderConfirmed, order.Status)
	assert.Equal(t, models.PaymentCompleted, order.PaymentStatus)
	assert.Equal(t, "order_gw123", order.GatewayOrderID)
	assert.Equal(t, "pay_abc", order.GatewayPaymentID)
	assert.NoError(t, order.ValidateTotals())

	key := IdempotencyKey("order_gw123", "pay_abc")
	assert.Equal(t, models.IdemSucceeded, f.ledger.status(key))
	assert.Equal(t, 1, f.carts.cleared)
	assert.Equal(t, 1, f.funnel.confirmed)
	assert.Len(t, f.notifier.orders, 1)
}

func TestVerifyAndFinalizeReplayReturnsSameOrder(t *testing.T) {
	f := newFixture()
	payload := Payload{ShippingMethod: "express", PaymentMethod: "razorpay"}

	first, err := f.orch.VerifyAndFinalize(context.Background(),
		"user-1", "order_gw123", "pay_abc", "valid-signature", payload)
	require.NoError(t, err)

	// Same identifiers again, even with a now-empty cart and a bad signature:
	// the ledger short-circuits before either is consulted.
	second, err := f.orch.VerifyAndFinalize(context.Background(),
		"user-1", "order_gw123", "pay_abc", "garbage", payload)
	require.NoError(t, err)

	assert.Equal(t, first.OrderID, second.OrderID)
	assert.Equal(t, 1, f.orders.insertCount())
}

func TestVerifyAndFinalizeReplayByOtherUserRejected(t *testing.T) {
	f := newFixture()
	payload := Payload{ShippingMethod: "express", PaymentMethod: "razorpay"}

	_, err := f.orch.VerifyAndFinalize(context.Background(),
		"user-1", "order_gw123", "pay_abc", "valid-signature", payload)
	require.NoError(t, err)

	// Another user submitting the same gateway identifiers must not be handed
	// user-1's order.
	_, err = f.orch.VerifyAndFinalize(context.Background(),
		"user-2", "order_gw123", "pay_abc", "valid-signature", payload)
	assert.ErrorIs(t, err, ErrVerificationFailed)
	assert.Equal(t, 1, f.orders.insertCount())
}

func TestVerifyAndFinalizeSignatureMismatch(t *testing.T) {
	f := newFixture()

	_, err := f.orch.VerifyAndFinalize(context.Background(),
		"user-1", "order_gw123", "pay_abc", "tampered", Payload{})
	assert.ErrorIs(t, err, ErrVerificationFailed)
	assert.Equal(t, 0, f.orders.insertCount())

	key := IdempotencyKey("order_gw123", "pay_abc")
	assert.Equal(t, models.IdemFailed, f.ledger.status(key))

	// A later attempt with the correct signature is still refused: the key is
	// burned and the client has to restart checkout.
	_, err = f.orch.VerifyAndFinalize(context.Background(),
		"user-1", "order_gw123", "pay_abc", "valid-signature", Payload{})
	assert.ErrorIs(t, err, ErrVerificationFailed)
	assert.Equal(t, 0, f.orders.insertCount())
}

func TestVerifyAndFinalizeEmptyCart(t *testing.T) {
	f := newFixture()
	f.carts.cart.Items = nil

	_, err := f.orch.VerifyAndFinalize(context.Background(),
		"user-1", "order_gw123", "pay_abc", "valid-signature", Payload{})
	assert.ErrorIs(t, err, ErrInvalidCart)

	key := IdempotencyKey("order_gw123", "pay_abc")
	assert.Equal(t, models.IdemFailed, f.ledger.status(key))
}

func TestVerifyAndFinalizeInsertFailureLeavesPending(t *testing.T) {
	f := newFixture()
	f.orders.insertErr = errors.New("connection reset")

	_, err := f.orch.VerifyAndFinalize(context.Background(),
		"user-1", "order_gw123", "pay_abc", "valid-signature", Payload{})
	assert.ErrorIs(t, err, ErrOrderPersistence)

	// The record stays pending for the reconciliation sweep; an immediate
	// retry backs off rather than risking a double insert.
	key := IdempotencyKey("order_gw123", "pay_abc")
	assert.Equal(t, models.IdemPending, f.ledger.status(key))

	_, err = f.orch.VerifyAndFinalize(context.Background(),
		"user-1", "order_gw123", "pay_abc", "valid-signature", Payload{})
	assert.ErrorIs(t, err, ErrDuplicateInFlight)
}

func TestVerifyAndFinalizeConcurrentSubmissions(t *testing.T) {
	f := newFixture()
	payload := Payload{ShippingMethod: "standard", PaymentMethod: "razorpay"}

	const attempts = 16
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	results := make([]models.Order, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = f.orch.VerifyAndFinalize(context.Background(),
				"user-1", "order_gw123", "pay_abc", "valid-signature", payload)
		}(i)
	}
	wg.Wait()

	// Exactly one order regardless of how the attempts interleave. Losers see
	// either the finished order (replay) or a duplicate-in-flight rejection.
	assert.Equal(t, 1, f.orders.insertCount())

	var winnerID string
	for i := range errs {
		switch {
		case errs[i] == nil:
			if winnerID == "" {
				winnerID = results[i].OrderID
			}
			assert.Equal(t, winnerID, results[i].OrderID)
		default:
			assert.ErrorIs(t, errs[i], ErrDuplicateInFlight)
		}
	}
	assert.NotEmpty(t, winnerID)
}
