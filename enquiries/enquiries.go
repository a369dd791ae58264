// Package enquiries handles customer design and product enquiries: submission,
// listing, and admin replies. Submitting an enquiry advances the user's
// purchase-funnel state from browsing to engaged.
package enquiries

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

var ErrEnquiryNotFound = errors.New("enquiry not found")

type Store struct {
	coll *mongo.Collection
}

func NewStore(coll *mongo.Collection) *Store {
	return &Store{coll: coll}
}

func (s *Store) Insert(ctx context.Context, e models.Enquiry) error {
	if _, err := s.coll.InsertOne(ctx, e); err != nil {
		return fmt.Errorf("insert enquiry: %w", err)
	}
	return nil
}

func (s *Store) GetByID(ctx context.Context, enquiryID string) (models.Enquiry, error) {
	var e models.Enquiry
	err := s.coll.FindOne(ctx, bson.M{"enquiryid": enquiryID}).Decode(&e)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Enquiry{}, ErrEnquiryNotFound
		}
		return models.Enquiry{}, fmt.Errorf("get enquiry: %w", err)
	}
	return e, nil
}

func (s *Store) GetByUser(ctx context.Context, userID string) ([]models.Enquiry, error) {
	opts := options.Find().SetSort(bson.M{"created_at": -1})
	cur, err := s.coll.Find(ctx, bson.M{"userid": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list enquiries: %w", err)
	}
	defer cur.Close(ctx)

	enquiries := []models.Enquiry{}
	if err := cur.All(ctx, &enquiries); err != nil {
		return nil, fmt.Errorf("list enquiries: %w", err)
	}
	return enquiries, nil
}

// List returns a page of enquiries for the admin surface, newest first,
// optionally filtered by status or type.
func (s *Store) List(ctx context.Context, skip, limit int64, status, enquiryType string) ([]models.Enquiry, int64, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	if enquiryType != "" {
		filter["enquiry_type"] = enquiryType
	}

	total, err := s.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count enquiries: %w", err)
	}

	opts := options.Find().
		SetSort(bson.M{"created_at": -1}).
		SetSkip(skip).
		SetLimit(limit)
	cur, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list enquiries: %w", err)
	}
	defer cur.Close(ctx)

	enquiries := []models.Enquiry{}
	if err := cur.All(ctx, &enquiries); err != nil {
		return nil, 0, fmt.Errorf("list enquiries: %w", err)
	}
	return enquiries, total, nil
}

// AddReply appends an admin reply and flips the enquiry to "replied".
func (s *Store) AddReply(ctx context.Context, enquiryID string, reply models.EnquiryReply) error {
	res, err := s.coll.UpdateOne(ctx,
		bson.M{"enquiryid": enquiryID},
		bson.M{
			"$push": bson.M{"replies": reply},
			"$set": bson.M{
				"replied":    true,
				"status":     "replied",
				"updated_at": time.Now(),
			},
		},
	)
	if err != nil {
		return fmt.Errorf("add reply: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrEnquiryNotFound
	}
	return nil
}

// UpdateStatus moves the enquiry through its workflow states.
func (s *Store) UpdateStatus(ctx context.Context, enquiryID, status string) error {
	res, err := s.coll.UpdateOne(ctx,
		bson.M{"enquiryid": enquiryID},
		bson.M{"$set": bson.M{"status": status, "updated_at": time.Now()}},
	)
	if err != nil {
		return fmt.Errorf("update enquiry: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrEnquiryNotFound
	}
	return nil
}
