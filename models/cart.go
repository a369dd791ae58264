package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartItem is one line of a user's in-progress purchase. Name, SKU and unit
// price are snapshots taken from the catalog at add-time.
type CartItem struct {
	ProductID      string    `bson:"productid" json:"productId"`
	ProductName    string    `bson:"product_name" json:"productName"`
	ProductSKU     string    `bson:"product_sku" json:"productSku"`
	UnitPriceMinor int64     `bson:"unit_price_minor" json:"unitPriceMinor"`
	Quantity       int       `bson:"quantity" json:"quantity"`
	AddedAt        time.Time `bson:"added_at" json:"addedAt"`
}

// Cart holds the line items for exactly one user. An empty cart is a real
// document with a zero-length item list, never an absent one.
type Cart struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID    string             `bson:"userid" json:"userId"`
	Items     []CartItem         `bson:"items" json:"items"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updatedAt"`
}

// IsEmpty reports whether the cart has no purchasable lines.
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// SubtotalMinor sums price x quantity over the current snapshot, in integer
// minor units.
func (c *Cart) SubtotalMinor() int64 {
	var sum int64
	for _, it := range c.Items {
		sum += it.UnitPriceMinor * int64(it.Quantity)
	}
	return sum
}
