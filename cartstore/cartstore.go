package cartstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Prabhu6626/Glonix-Website/models"
	"github.com/Prabhu6626/Glonix-Website/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Catalog is the slice of the product catalog the cart store needs for
// add-time snapshots.
type Catalog interface {
	GetProduct(ctx context.Context, productID string) (models.Product, error)
}

var ErrProductNotFound = errors.New("product not found")

// Store keeps one cart document per user. Every mutation is a single
// atomic update on that document, which is all the serialization carts need:
// they are never shared between users.
type Store struct {
	coll    *mongo.Collection
	catalog Catalog
}

func New(coll *mongo.Collection, catalog Catalog) *Store {
	return &Store{coll: coll, catalog: catalog}
}

// Get returns the user's cart, creating an empty one on first access. It
// never reports "not found".
func (s *Store) Get(ctx context.Context, userID string) (models.Cart, error) {
	now := time.Now()
	filter := bson.M{"userid": userID}
	update := bson.M{
		"$setOnInsert": bson.M{
			"userid":     userID,
			"items":      []models.CartItem{},
			"created_at": now,
			"updated_at": now,
		},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var cart models.Cart
	if err := s.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&cart); err != nil {
		return models.Cart{}, fmt.Errorf("get cart: %w", err)
	}
	if cart.Items == nil {
		cart.Items = []models.CartItem{}
	}
	return cart, nil
}

// mergeLine alternates the two halves of a line merge until one matches. Each
// half is individually atomic and each refuses to act when the other's
// precondition holds, so two racing adds for the same product cannot both
// append; the loser's push matches nothing and its retried inc lands on the
// winner's line.
func mergeLine(inc, push func() (bool, error)) error {
	for attempt := 0; attempt < 3; attempt++ {
		matched, err := inc()
		if err != nil {
			return err
		}
		if matched {
			return nil
		}
		matched, err = push()
		if err != nil {
			return err
		}
		if matched {
			return nil
		}
	}
	return errors.New("cart line merge did not settle")
}

// AddItem merges qty into an existing line for the product or appends a new
// line with a fresh catalog snapshot. The merge is additive by design:
// calling it twice adds twice.
func (s *Store) AddItem(ctx context.Context, userID, productID string, qty int) error {
	if qty < 1 {
		return fmt.Errorf("quantity must be positive, got %d", qty)
	}

	product, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrProductNotFound, productID)
	}

	// Cart may not exist yet.
	if _, err := s.Get(ctx, userID); err != nil {
		return err
	}

	now := time.Now()
	item := models.CartItem{
		ProductID:      product.ProductID,
		ProductName:    product.Name,
		ProductSKU:     product.SKU,
		UnitPriceMinor: utils.MinorUnits(product.Price),
		Quantity:       qty,
		AddedAt:        now,
	}

	inc := func() (bool, error) {
		res, err := s.coll.UpdateOne(ctx,
			bson.M{"userid": userID, "items.productid": productID},
			bson.M{
				"$inc": bson.M{"items.$.quantity": qty},
				"$set": bson.M{"updated_at": now},
			},
		)
		if err != nil {
			return false, fmt.Errorf("add item: %w", err)
		}
		return res.MatchedCount > 0, nil
	}
	// The $ne guard keeps the append atomic with its precondition: if another
	// request slipped the same line in first, this matches nothing.
	push := func() (bool, error) {
		res, err := s.coll.UpdateOne(ctx,
			bson.M{"userid": userID, "items.productid": bson.M{"$ne": productID}},
			bson.M{
				"$push": bson.M{"items": item},
				"$set":  bson.M{"updated_at": now},
			},
		)
		if err != nil {
			return false, fmt.Errorf("add item: %w", err)
		}
		return res.MatchedCount > 0, nil
	}

	return mergeLine(inc, push)
}

// SetItems replaces the cart contents wholesale. Lines with qty <= 0 are
// dropped, prices are re-snapshotted from the catalog.
func (s *Store) SetItems(ctx context.Context, userID string, items []models.CartItem) error {
	now := time.Now()
	normalized := make([]models.CartItem, 0, len(items))
	for _, it := range items {
		if it.Quantity <= 0 {
			continue
		}
		product, err := s.catalog.GetProduct(ctx, it.ProductID)
		if err != nil {
			return fmt.Errorf("%w: %s", ErrProductNotFound, it.ProductID)
		}
		normalized = append(normalized, models.CartItem{
			ProductID:      product.ProductID,
			ProductName:    product.Name,
			ProductSKU:     product.SKU,
			UnitPriceMinor: utils.MinorUnits(product.Price),
			Quantity:       it.Quantity,
			AddedAt:        now,
		})
	}

	_, err := s.coll.UpdateOne(ctx,
		bson.M{"userid": userID},
		bson.M{
			"$set": bson.M{"items": normalized, "updated_at": now},
			"$setOnInsert": bson.M{
				"userid":     userID,
				"created_at": now,
			},
		},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("set items: %w", err)
	}
	return nil
}

// Clear empties the cart. The document stays; an emptied cart is state, not
// absence.
func (s *Store) Clear(ctx context.Context, userID string) error {
	now := time.Now()
	_, err := s.coll.UpdateOne(ctx,
		bson.M{"userid": userID},
		bson.M{
			"$set": bson.M{"items": []models.CartItem{}, "updated_at": now},
			"$setOnInsert": bson.M{
				"userid":     userID,
				"created_at": now,
			},
		},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}
