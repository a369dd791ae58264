package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Prabhu6626/Glonix-Website/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrOrderNotFound = errors.New("order not found")

// Store is the durable record of created orders. Orders are never deleted;
// after creation only status fields, tracking number and notes change.
type Store struct {
	coll *mongo.Collection
}

func NewStore(coll *mongo.Collection) *Store {
	return &Store{coll: coll}
}

// Insert persists a new order after checking its money invariants.
func (s *Store) Insert(ctx context.Context, order models.Order) error {
	if err := order.ValidateTotals(); err != nil {
		return fmt.Errorf("order invariant: %w", err)
	}
	if _, err := s.coll.InsertOne(ctx, order); err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (s *Store) GetByID(ctx context.Context, orderID string) (models.Order, error) {
	var order models.Order
	err := s.coll.FindOne(ctx, bson.M{"orderid": orderID}).Decode(&order)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Order{}, ErrOrderNotFound
		}
		return models.Order{}, fmt.Errorf("get order: %w", err)
	}
	return order, nil
}

func (s *Store) GetByUser(ctx context.Context, userID string) ([]models.Order, error) {
	opts := options.Find().SetSort(bson.M{"created_at": -1})
	cur, err := s.coll.Find(ctx, bson.M{"userid": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer cur.Close(ctx)

	orders := []models.Order{}
	if err := cur.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

// settledStatuses are the order states that count as a completed purchase.
// Pending never got paid and cancelled was unwound, so neither belongs here.
var settledStatuses = []models.OrderStatus{
	models.OrderConfirmed,
	models.OrderProcessing,
	models.OrderShipped,
	models.OrderDelivered,
}

// HasConfirmedOrder reports whether the user has at least one settled order.
// The funnel tracker uses this to decide whether a cart clear may regress the
// user's state.
func (s *Store) HasConfirmedOrder(ctx context.Context, userID string) (bool, error) {
	n, err := s.coll.CountDocuments(ctx, bson.M{
		"userid": userID,
		"status": bson.M{"$in": settledStatuses},
	}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count orders: %w", err)
	}
	return n > 0, nil
}

// List returns a page of orders for the admin surface, newest first,
// optionally filtered by status.
func (s *Store) List(ctx context.Context, skip, limit int64, status string) ([]models.Order, int64, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}

	total, err := s.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	opts := options.Find().
		SetSort(bson.M{"created_at": -1}).
		SetSkip(skip).
		SetLimit(limit)
	cur, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	defer cur.Close(ctx)

	orders := []models.Order{}
	if err := cur.All(ctx, &orders); err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	return orders, total, nil
}

// UpdateStatus mutates the mutable fields only. Empty arguments leave the
// corresponding field untouched.
func (s *Store) UpdateStatus(ctx context.Context, orderID string, status models.OrderStatus, trackingNumber, notes string) error {
	set := bson.M{"updated_at": time.Now()}
	if status != "" {
		set["status"] = status
	}
	if trackingNumber != "" {
		set["tracking_number"] = trackingNumber
	}
	if notes != "" {
		set["notes"] = notes
	}

	res, err := s.coll.UpdateOne(ctx, bson.M{"orderid": orderID}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrOrderNotFound
	}
	return nil
}
