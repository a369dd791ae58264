package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Funnel states track how far a user has moved through the purchase journey.
// The value lives on the user document but is mutated only by cart, enquiry
// and order events (see the funnel package), never directly by the user.
type FunnelState int

const (
	FunnelBrowsing FunnelState = 0 // new / just browsing
	FunnelEngaged  FunnelState = 1 // submitted an enquiry
	FunnelActive   FunnelState = 2 // has an active cart or a completed purchase
)

// User represents a registered customer or admin.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID       string             `bson:"userid" json:"userid"`
	Email        string             `bson:"email" json:"email"`
	FullName     string             `bson:"full_name" json:"full_name"`
	Company      string             `bson:"company,omitempty" json:"company,omitempty"`
	Phone        string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Role         string             `bson:"role" json:"role"` // "customer", "admin", "staff"
	PasswordHash string             `bson:"hashed_password" json:"-"`
	IsActive     bool               `bson:"is_active" json:"is_active"`
	FunnelState  FunnelState        `bson:"fabrication_status" json:"fabrication_status"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updated_at"`
}
