package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store owns the Mongo client and the collections the service uses. It is
// constructed once in main, passed to each component, and closed on shutdown.
type Store struct {
	client *mongo.Client

	Users       *mongo.Collection
	Products    *mongo.Collection
	Carts       *mongo.Collection
	Orders      *mongo.Collection
	Idempotency *mongo.Collection
	Enquiries   *mongo.Collection
	Messages    *mongo.Collection
}

// Connect opens the Mongo client, verifies the connection and binds the
// collections.
func Connect(ctx context.Context, uri, database string) (*Store, error) {
	clientOpts := options.Client().
		ApplyURI(uri).
		SetConnectTimeout(10 * time.Second).
		SetServerSelectionTimeout(5 * time.Second).
		SetMaxPoolSize(100)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	d := client.Database(database)
	return &Store{
		client:      client,
		Users:       d.Collection("users"),
		Products:    d.Collection("products"),
		Carts:       d.Collection("carts"),
		Orders:      d.Collection("orders"),
		Idempotency: d.Collection("idempotency"),
		Enquiries:   d.Collection("enquiries"),
		Messages:    d.Collection("contact_messages"),
	}, nil
}

// Close disconnects the underlying client.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// EnsureIndexes creates the indexes the service relies on. The unique key on
// the idempotency collection is the one correctness-critical index: the
// checkout path depends on exactly one insert winning per key.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	idemIdxs := []mongo.IndexModel{
		{
			Keys:    bson.M{"key": 1},
			Options: options.Index().SetUnique(true).SetName("unique_key"),
		},
		{
			Keys:    bson.M{"expires_at": 1},
			Options: options.Index().SetExpireAfterSeconds(0).SetName("ttl_expires_at"),
		},
	}
	if _, err := s.Idempotency.Indexes().CreateMany(ctx, idemIdxs); err != nil {
		return fmt.Errorf("idempotency indexes: %w", err)
	}

	if _, err := s.Carts.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.M{"userid": 1},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return fmt.Errorf("carts index: %w", err)
	}

	if _, err := s.Orders.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.M{"userid": 1, "created_at": -1},
	}); err != nil {
		return fmt.Errorf("orders index: %w", err)
	}

	if _, err := s.Users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.M{"email": 1},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return fmt.Errorf("users index: %w", err)
	}

	return nil
}
