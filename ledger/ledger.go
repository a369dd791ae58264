// Package ledger implements the idempotency ledger behind checkout
// finalization. The unique index on "key" is the only place concurrent
// submissions of the same payment are serialized; everything else in the
// checkout path relies on exactly one TryBegin winning per key.
package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/Prabhu6626/Glonix-Website/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const auditWindow = 30 * 24 * time.Hour

type Ledger struct {
	coll *mongo.Collection
}

func New(coll *mongo.Collection) *Ledger {
	return &Ledger{coll: coll}
}

// TryBegin claims the key by inserting a pending record. When the key already
// exists the existing record is returned with alreadyExists=true; the unique
// index guarantees that two racing callers cannot both insert.
func (l *Ledger) TryBegin(ctx context.Context, key, userID string) (bool, models.IdempotencyRecord, error) {
	now := time.Now()
	rec := models.IdempotencyRecord{
		Key:       key,
		UserID:    userID,
		Status:    models.IdemPending,
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(auditWindow),
	}

	_, err := l.coll.InsertOne(ctx, rec)
	if err == nil {
		return false, rec, nil
	}
	if !isDuplicateKeyError(err) {
		return false, models.IdempotencyRecord{}, fmt.Errorf("ledger insert: %w", err)
	}

	var existing models.IdempotencyRecord
	if err := l.coll.FindOne(ctx, bson.M{"key": key}).Decode(&existing); err != nil {
		return false, models.IdempotencyRecord{}, fmt.Errorf("ledger lookup: %w", err)
	}
	return true, existing, nil
}

// Complete marks the key succeeded with the order it produced. Only a pending
// record may transition; a second Complete for the same key is a no-op with
// an error so callers notice the at-most-once violation.
func (l *Ledger) Complete(ctx context.Context, key, orderID string) error {
	res, err := l.coll.UpdateOne(ctx,
		bson.M{"key": key, "status": models.IdemPending},
		bson.M{"$set": bson.M{
			"status":     models.IdemSucceeded,
			"orderid":    orderID,
			"updated_at": time.Now(),
		}},
	)
	if err != nil {
		return fmt.Errorf("ledger complete: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("ledger complete: key %q not pending", key)
	}
	return nil
}

// Fail marks the key failed (signature mismatch or definitive rejection).
func (l *Ledger) Fail(ctx context.Context, key string) error {
	_, err := l.coll.UpdateOne(ctx,
		bson.M{"key": key, "status": models.IdemPending},
		bson.M{"$set": bson.M{
			"status":     models.IdemFailed,
			"updated_at": time.Now(),
		}},
	)
	if err != nil {
		return fmt.Errorf("ledger fail: %w", err)
	}
	return nil
}

// FailStale times out pending records older than maxAge so an abandoned
// attempt cannot deadlock retries for its key forever.
func (l *Ledger) FailStale(ctx context.Context, maxAge time.Duration) (int64, error) {
	cutoff := time.Now().Add(-maxAge)
	res, err := l.coll.UpdateMany(ctx,
		bson.M{"status": models.IdemPending, "created_at": bson.M{"$lt": cutoff}},
		bson.M{"$set": bson.M{
			"status":     models.IdemFailed,
			"updated_at": time.Now(),
		}},
	)
	if err != nil {
		return 0, fmt.Errorf("ledger sweep: %w", err)
	}
	return res.ModifiedCount, nil
}

// helper to detect duplicate key errors from Mongo insert
func isDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	if we, ok := err.(mongo.WriteException); ok {
		for _, e := range we.WriteErrors {
			if e.Code == 11000 {
				return true
			}
		}
	}
	return false
}
