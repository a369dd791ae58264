package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EnquiryReply is an admin response attached to an enquiry.
type EnquiryReply struct {
	AdminID     string    `bson:"admin_id" json:"admin_id"`
	AdminName   string    `bson:"admin_name" json:"admin_name"`
	Message     string    `bson:"message" json:"message"`
	Attachments []string  `bson:"attachments,omitempty" json:"attachments,omitempty"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
}

// Enquiry is a design or product enquiry submitted by a customer.
type Enquiry struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	EnquiryID    string             `bson:"enquiryid" json:"enquiry_id"`
	UserID       string             `bson:"userid" json:"user_id"`
	EnquiryType  string             `bson:"enquiry_type" json:"enquiry_type"` // "design_enquiry" or "product_enquiry"
	Title        string             `bson:"title" json:"title"`
	Abstract     string             `bson:"abstract,omitempty" json:"abstract,omitempty"`
	Requirements string             `bson:"requirements,omitempty" json:"requirements,omitempty"`
	FileURL      string             `bson:"file_url,omitempty" json:"file_url,omitempty"`
	BudgetRange  string             `bson:"budget_range,omitempty" json:"budget_range,omitempty"`
	Timeline     string             `bson:"timeline,omitempty" json:"timeline,omitempty"`
	Priority     string             `bson:"priority" json:"priority"`
	Status       string             `bson:"status" json:"status"` // "new", "in_progress", "replied", "completed", "closed"
	Replied      bool               `bson:"replied" json:"replied"`
	Replies      []EnquiryReply     `bson:"replies" json:"replies"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updated_at"`
}

// ContactMessage is a message from the public contact form.
type ContactMessage struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name        string             `bson:"name" json:"name"`
	Email       string             `bson:"email" json:"email"`
	Company     string             `bson:"company,omitempty" json:"company,omitempty"`
	Phone       string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Subject     string             `bson:"subject" json:"subject"`
	Message     string             `bson:"message" json:"message"`
	ServiceType string             `bson:"service_type,omitempty" json:"service_type,omitempty"`
	Status      string             `bson:"status" json:"status"`
	Replied     bool               `bson:"replied" json:"replied"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
}
