// Package checkout drives a cart to a finalized order through the payment
// gateway. The one concurrency-critical invariant lives here: for any
// (gateway order, gateway payment) pair at most one order is ever created,
// enforced by the ledger's unique-key insert rather than anything in memory,
// since multiple service instances run concurrently.
package checkout

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/Prabhu6626/Glonix-Website/models"
	"github.com/Prabhu6626/Glonix-Website/utils"
)

// Consumer-side interfaces over the stores the orchestrator needs. The Mongo
// implementations live in their own packages; tests substitute in-memory ones.

type CartStore interface {
	Get(ctx context.Context, userID string) (models.Cart, error)
	Clear(ctx context.Context, userID string) error
}

type Catalog interface {
	GetProduct(ctx context.Context, productID string) (models.Product, error)
}

type OrderStore interface {
	Insert(ctx context.Context, order models.Order) error
	GetByID(ctx context.Context, orderID string) (models.Order, error)
}

type Ledger interface {
	TryBegin(ctx context.Context, key, userID string) (alreadyExists bool, rec models.IdempotencyRecord, err error)
	Complete(ctx context.Context, key, orderID string) error
	Fail(ctx context.Context, key string) error
}

type Gateway interface {
	CreateIntent(ctx context.Context, amountMinor int64, currency, receipt string) (models.PaymentIntent, error)
	VerifySignature(gatewayOrderID, gatewayPaymentID, signature string) bool
}

type FunnelTracker interface {
	OnOrderConfirmed(ctx context.Context, userID string) error
}

// Notifier delivers the order confirmation. Fire-and-forget: its failure
// must never roll back order creation.
type Notifier interface {
	NotifyOrderConfirmed(order models.Order)
}

// Payload carries the client-supplied parts of a checkout that the server
// cannot derive: addresses and chosen methods. Items and totals are always
// recomputed server-side from the cart snapshot.
type Payload struct {
	ShippingAddress models.Address `json:"shipping_address"`
	BillingAddress  models.Address `json:"billing_address"`
	ShippingMethod  string         `json:"shipping_method"`
	PaymentMethod   string         `json:"payment_method"`
}

const (
	currency = "INR"
	// GST, in basis points of the subtotal.
	taxRateBP = 1800
)

// Flat shipping rates in minor units, keyed by method.
var shippingRates = map[string]int64{
	"standard": 4900,
	"express":  14900,
	"pickup":   0,
}

type Orchestrator struct {
	carts    CartStore
	catalog  Catalog
	orders   OrderStore
	ledger   Ledger
	gateway  Gateway
	funnel   FunnelTracker
	notifier Notifier
}

func NewOrchestrator(carts CartStore, catalog Catalog, orders OrderStore, ledger Ledger, gw Gateway, funnel FunnelTracker, notifier Notifier) *Orchestrator {
	return &Orchestrator{
		carts:    carts,
		catalog:  catalog,
		orders:   orders,
		ledger:   ledger,
		gateway:  gw,
		funnel:   funnel,
		notifier: notifier,
	}
}

// CreatePaymentIntent validates the user's cart and asks the gateway for a
// payment intent over the cart subtotal. The amount comes from the server's
// own snapshot, never from the client. Nothing is persisted; the intent stays
// ephemeral until a verification attempt claims its ledger key.
func (o *Orchestrator) CreatePaymentIntent(ctx context.Context, userID string) (models.PaymentIntent, error) {
	cart, err := o.carts.Get(ctx, userID)
	if err != nil {
		return models.PaymentIntent{}, fmt.Errorf("load cart: %w", err)
	}
	if cart.IsEmpty() {
		return models.PaymentIntent{}, ErrInvalidCart
	}

	for _, it := range cart.Items {
		product, err := o.catalog.GetProduct(ctx, it.ProductID)
		if err != nil {
			return models.PaymentIntent{}, fmt.Errorf("%w: %s", ErrProductUnavailable, it.ProductID)
		}
		if !product.InStock || product.StockQuantity < it.Quantity {
			return models.PaymentIntent{}, fmt.Errorf("%w: %s", ErrProductUnavailable, it.ProductID)
		}
	}

	receipt := fmt.Sprintf("rcpt_%d", time.Now().UnixMilli())
	intent, err := o.gateway.CreateIntent(ctx, cart.SubtotalMinor(), currency, receipt)
	if err != nil {
		return models.PaymentIntent{}, fmt.Errorf("%w: %v", ErrGateway, err)
	}

	log.Printf("checkout: user %s %s intent %s amount %d", userID, StateIntentCreated, intent.GatewayOrderID, intent.AmountMinor)
	return intent, nil
}

// IdempotencyKey derives the ledger key for a verified payment from the
// gateway-confirmed identifiers.
func IdempotencyKey(gatewayOrderID, gatewayPaymentID string) string {
	return gatewayOrderID + ":" + gatewayPaymentID
}

// VerifyAndFinalize is the critical path: it verifies the gateway signature
// and, exactly once per payment, materializes the order, clears the cart and
// advances the funnel. Steps before the order insert are side-effect-free
// apart from claiming the ledger key.
func (o *Orchestrator) VerifyAndFinalize(ctx context.Context, userID, gatewayOrderID, gatewayPaymentID, signature string, payload Payload) (models.Order, error) {
	key := IdempotencyKey(gatewayOrderID, gatewayPaymentID)

	alreadyExists, rec, err := o.ledger.TryBegin(ctx, key, userID)
	if err != nil {
		return models.Order{}, fmt.Errorf("claim idempotency key: %w", err)
	}
	if alreadyExists {
		// The key belongs to whoever first submitted these gateway
		// identifiers; another user replaying them learns nothing.
		if rec.UserID != userID {
			log.Printf("checkout: user %s replayed key %s owned by another user", userID, key)
			return models.Order{}, ErrVerificationFailed
		}
		switch rec.Status {
		case models.IdemSucceeded:
			// Replay of a completed checkout: hand back the original order.
			order, err := o.orders.GetByID(ctx, rec.OrderID)
			if err != nil {
				return models.Order{}, fmt.Errorf("replay lookup for %s: %w", key, err)
			}
			return order, nil
		case models.IdemPending:
			return models.Order{}, ErrDuplicateInFlight
		default:
			// A failed record is a definitive prior rejection for these
			// identifiers; the client must restart from the cart.
			return models.Order{}, ErrVerificationFailed
		}
	}

	// From here this request owns the pending record and must drive it to
	// succeeded or failed; abandoning it would deadlock retries until the
	// stale sweep.
	log.Printf("checkout: user %s %s key %s", userID, StatePaymentSubmitted, key)

	if !o.gateway.VerifySignature(gatewayOrderID, gatewayPaymentID, signature) {
		if err := o.ledger.Fail(ctx, key); err != nil {
			log.Printf("checkout: mark failed for %s: %v", key, err)
		}
		log.Printf("checkout: user %s %s key %s (signature mismatch)", userID, StateFailed, key)
		return models.Order{}, ErrVerificationFailed
	}
	log.Printf("checkout: user %s %s key %s", userID, StateVerified, key)

	cart, err := o.carts.Get(ctx, userID)
	if err != nil {
		return models.Order{}, fmt.Errorf("load cart: %w", err)
	}
	if cart.IsEmpty() {
		if err := o.ledger.Fail(ctx, key); err != nil {
			log.Printf("checkout: mark failed for %s: %v", key, err)
		}
		return models.Order{}, ErrInvalidCart
	}

	order := o.buildOrder(userID, cart, gatewayOrderID, gatewayPaymentID, payload)
	if err := o.orders.Insert(ctx, order); err != nil {
		// Leave the record pending: the reconciliation sweep distinguishes a
		// crashed attempt from a true duplicate.
		return models.Order{}, fmt.Errorf("%w: %v", ErrOrderPersistence, err)
	}

	if err := o.ledger.Complete(ctx, key, order.OrderID); err != nil {
		// The order exists; a replay sees pending and backs off, so no
		// duplicate can appear. Still loud: reconciliation has to close this.
		log.Printf("ALERT checkout: order %s created but ledger completion failed for %s: %v", order.OrderID, key, err)
	}

	if err := o.carts.Clear(ctx, userID); err != nil {
		log.Printf("checkout: clear cart for %s: %v", userID, err)
	}
	if err := o.funnel.OnOrderConfirmed(ctx, userID); err != nil {
		log.Printf("checkout: funnel update for %s: %v", userID, err)
	}
	o.notifier.NotifyOrderConfirmed(order)

	log.Printf("checkout: user %s %s order %s total %d", userID, StateOrderCreated, order.OrderID, order.TotalMinor)
	return order, nil
}

// buildOrder recomputes every money field from the cart snapshot. Client
// totals are never trusted.
func (o *Orchestrator) buildOrder(userID string, cart models.Cart, gatewayOrderID, gatewayPaymentID string, payload Payload) models.Order {
	items := make([]models.OrderItem, 0, len(cart.Items))
	var subtotal int64
	for _, it := range cart.Items {
		line := models.OrderItem{
			ProductID:      it.ProductID,
			ProductName:    it.ProductName,
			ProductSKU:     it.ProductSKU,
			UnitPriceMinor: it.UnitPriceMinor,
			Quantity:       it.Quantity,
			TotalMinor:     it.UnitPriceMinor * int64(it.Quantity),
		}
		subtotal += line.TotalMinor
		items = append(items, line)
	}

	shipping := shippingRates["standard"]
	if rate, ok := shippingRates[payload.ShippingMethod]; ok {
		shipping = rate
	}
	tax := subtotal * taxRateBP / 10000

	now := time.Now()
	return models.Order{
		OrderID:          utils.GetUUID(),
		OrderNumber:      utils.NewOrderNumber(),
		UserID:           userID,
		Items:            items,
		ShippingAddress:  payload.ShippingAddress,
		BillingAddress:   payload.BillingAddress,
		ShippingMethod:   payload.ShippingMethod,
		PaymentMethod:    payload.PaymentMethod,
		SubtotalMinor:    subtotal,
		ShippingMinor:    shipping,
		TaxMinor:         tax,
		TotalMinor:       subtotal + shipping + tax,
		Currency:         currency,
		Status:           models.OrderConfirmed,
		PaymentStatus:    models.PaymentCompleted,
		GatewayOrderID:   gatewayOrderID,
		GatewayPaymentID: gatewayPaymentID,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}
