package models

import "time"

// PaymentIntent mirrors a gateway-side payment request. The amount is integer
// minor currency units. Immutable once created; it is not persisted, the
// ledger record created at verification time is the durable trace.
type PaymentIntent struct {
	GatewayOrderID string    `json:"id"`
	AmountMinor    int64     `json:"amount"`
	Currency       string    `json:"currency"`
	Receipt        string    `json:"receipt"`
	CreatedAt      time.Time `json:"created_at"`
}

// Idempotency record statuses. At most one record per key ever moves from
// pending to succeeded; that transition is the at-most-once guarantee for
// order creation.
type IdempotencyStatus string

const (
	IdemPending   IdempotencyStatus = "pending"
	IdemSucceeded IdempotencyStatus = "succeeded"
	IdemFailed    IdempotencyStatus = "failed"
)

// IdempotencyRecord maps an idempotency key to the outcome of a checkout
// attempt. Records are kept for the audit window (TTL index), never deleted
// by application code.
type IdempotencyRecord struct {
	Key       string            `bson:"key" json:"key"`
	UserID    string            `bson:"userid" json:"userid"`
	Status    IdempotencyStatus `bson:"status" json:"status"`
	OrderID   string            `bson:"orderid,omitempty" json:"orderid,omitempty"`
	CreatedAt time.Time         `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time         `bson:"updated_at" json:"updated_at"`
	ExpiresAt time.Time         `bson:"expires_at" json:"expires_at"`
}
