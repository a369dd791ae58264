package catalog

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

var ErrProductNotFound = errors.New("product not found")

// Store is the product catalog.
type Store struct {
	coll *mongo.Collection
}

func NewStore(coll *mongo.Collection) *Store {
	return &Store{coll: coll}
}

func (s *Store) GetProduct(ctx context.Context, productID string) (models.Product, error) {
	var p models.Product
	err := s.coll.FindOne(ctx, bson.M{"productid": productID}).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Product{}, ErrProductNotFound
		}
		return models.Product{}, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// List returns a page of products, optionally filtered by category or a
// case-insensitive name/SKU search.
func (s *Store) List(ctx context.Context, skip, limit int64, category, search string) ([]models.Product, int64, error) {
	filter := bson.M{}
	if category != "" {
		filter["category"] = category
	}
	if search != "" {
		filter["$or"] = []bson.M{
			{"name": bson.M{"$regex": search, "$options": "i"}},
			{"sku": bson.M{"$regex": search, "$options": "i"}},
		}
	}

	total, err := s.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	opts := options.Find().
		SetSort(bson.M{"created_at": -1}).
		SetSkip(skip).
		SetLimit(limit)
	cur, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer cur.Close(ctx)

	products := []models.Product{}
	if err := cur.All(ctx, &products); err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	return products, total, nil
}

func (s *Store) Create(ctx context.Context, p models.Product) error {
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now
	p.InStock = p.StockQuantity > 0
	if _, err := s.coll.InsertOne(ctx, p); err != nil {
		return fmt.Errorf("create product: %w", err)
	}
	return nil
}

func (s *Store) Update(ctx context.Context, productID string, set bson.M) error {
	set["updated_at"] = time.Now()
	if qty, ok := set["stock_quantity"]; ok {
		if n, ok := qty.(int); ok {
			set["in_stock"] = n > 0
		}
	}
	res, err := s.coll.UpdateOne(ctx, bson.M{"productid": productID}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrProductNotFound
	}
	return nil
}

// PushImages appends uploaded image paths to the product's gallery.
func (s *Store) PushImages(ctx context.Context, productID string, paths []string) error {
	res, err := s.coll.UpdateOne(ctx,
		bson.M{"productid": productID},
		bson.M{
			"$push": bson.M{"images": bson.M{"$each": paths}},
			"$set":  bson.M{"updated_at": time.Now()},
		},
	)
	if err != nil {
		return fmt.Errorf("push images: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, productID string) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"productid": productID})
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrProductNotFound
	}
	return nil
}
