package models

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderConfirmed  OrderStatus = "confirmed"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

// Address is a shipping or billing address snapshot stored on the order.
type Address struct {
	FirstName string `bson:"first_name" json:"first_name"`
	LastName  string `bson:"last_name" json:"last_name"`
	Company   string `bson:"company,omitempty" json:"company,omitempty"`
	Address1  string `bson:"address1" json:"address1"`
	Address2  string `bson:"address2,omitempty" json:"address2,omitempty"`
	City      string `bson:"city" json:"city"`
	State     string `bson:"state" json:"state"`
	ZipCode   string `bson:"zip_code" json:"zip_code"`
	Country   string `bson:"country" json:"country"`
	Phone     string `bson:"phone,omitempty" json:"phone,omitempty"`
}

// OrderItem is an immutable line on a finalized order. All money fields are
// integer minor units.
type OrderItem struct {
	ProductID      string `bson:"productid" json:"product_id"`
	ProductName    string `bson:"product_name" json:"product_name"`
	ProductSKU     string `bson:"product_sku" json:"product_sku"`
	UnitPriceMinor int64  `bson:"unit_price_minor" json:"unit_price_minor"`
	Quantity       int    `bson:"quantity" json:"quantity"`
	TotalMinor     int64  `bson:"total_minor" json:"total_minor"`
}

// Order is the durable record of a completed checkout. The item list is
// immutable after creation; only status, payment status, tracking number and
// notes may change.
type Order struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	OrderID          string             `bson:"orderid" json:"order_id"`
	OrderNumber      string             `bson:"order_number" json:"order_number"`
	UserID           string             `bson:"userid" json:"user_id"`
	Items            []OrderItem        `bson:"items" json:"items"`
	ShippingAddress  Address            `bson:"shipping_address" json:"shipping_address"`
	BillingAddress   Address            `bson:"billing_address" json:"billing_address"`
	ShippingMethod   string             `bson:"shipping_method" json:"shipping_method"`
	PaymentMethod    string             `bson:"payment_method" json:"payment_method"`
	SubtotalMinor    int64              `bson:"subtotal_minor" json:"subtotal_minor"`
	ShippingMinor    int64              `bson:"shipping_minor" json:"shipping_minor"`
	TaxMinor         int64              `bson:"tax_minor" json:"tax_minor"`
	TotalMinor       int64              `bson:"total_minor" json:"total_minor"`
	Currency         string             `bson:"currency" json:"currency"`
	Status           OrderStatus        `bson:"status" json:"status"`
	PaymentStatus    PaymentStatus      `bson:"payment_status" json:"payment_status"`
	GatewayOrderID   string             `bson:"gateway_order_id,omitempty" json:"gateway_order_id,omitempty"`
	GatewayPaymentID string             `bson:"gateway_payment_id,omitempty" json:"gateway_payment_id,omitempty"`
	TrackingNumber   string             `bson:"tracking_number,omitempty" json:"tracking_number,omitempty"`
	Notes            string             `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt        time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt        time.Time          `bson:"updated_at" json:"updated_at"`
}

var (
	ErrNoItems    = errors.New("order must contain at least one item")
	ErrBadItem    = errors.New("order item has invalid quantity or line total")
	ErrBadTotals  = errors.New("order totals do not add up")
	ErrNoUser     = errors.New("order must reference a user")
	ErrNoCurrency = errors.New("order must carry a currency code")
)

// ValidateTotals enforces the order money invariants: every quantity is a
// positive integer, every line total equals price x quantity, and the grand
// total equals subtotal + shipping + tax.
func (o *Order) ValidateTotals() error {
	if o.UserID == "" {
		return ErrNoUser
	}
	if len(o.Items) == 0 {
		return ErrNoItems
	}
	if o.Currency == "" {
		return ErrNoCurrency
	}
	var subtotal int64
	for _, it := range o.Items {
		if it.Quantity < 1 {
			return ErrBadItem
		}
		if it.TotalMinor != it.UnitPriceMinor*int64(it.Quantity) {
			return ErrBadItem
		}
		subtotal += it.TotalMinor
	}
	if subtotal != o.SubtotalMinor {
		return ErrBadTotals
	}
	if o.TotalMinor != o.SubtotalMinor+o.ShippingMinor+o.TaxMinor {
		return ErrBadTotals
	}
	return nil
}
