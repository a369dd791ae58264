package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product is a catalog entry. Price is the display price in major currency
// units; every money computation downstream converts it to integer minor
// units first (see utils.MinorUnits) so totals never accumulate float drift.
type Product struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	ProductID       string             `bson:"productid" json:"productid"`
	Name            string             `bson:"name" json:"name"`
	SKU             string             `bson:"sku" json:"sku"`
	Category        string             `bson:"category" json:"category"`
	Price           float64            `bson:"price" json:"price"`
	Description     string             `bson:"description" json:"description"`
	LongDescription string             `bson:"long_description,omitempty" json:"long_description,omitempty"`
	Image           string             `bson:"image,omitempty" json:"image,omitempty"`
	Images          []string           `bson:"images,omitempty" json:"images,omitempty"`
	InStock         bool               `bson:"in_stock" json:"inStock"`
	StockQuantity   int                `bson:"stock_quantity" json:"stock_quantity"`
	Rating          float64            `bson:"rating" json:"rating"`
	ReviewsCount    int                `bson:"reviews_count" json:"reviews"`
	Specifications  map[string]string  `bson:"specifications,omitempty" json:"specifications,omitempty"`
	Features        []string           `bson:"features,omitempty" json:"features,omitempty"`
	Applications    []string           `bson:"applications,omitempty" json:"applications,omitempty"`
	CreatedAt       time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time          `bson:"updated_at" json:"updated_at"`
}
