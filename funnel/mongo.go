package funnel

import (
	"context"
	"fmt"
	"time"

	"github.com/Prabhu6626/Glonix-Website/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoStates stores the funnel state on the user document. The transition
// condition rides in the update filter, so concurrent events serialize at the
// document and a disallowed transition simply matches nothing.
type MongoStates struct {
	users *mongo.Collection
}

func NewMongoStates(users *mongo.Collection) *MongoStates {
	return &MongoStates{users: users}
}

func (m *MongoStates) SetStateIf(ctx context.Context, userID string, to models.FunnelState, from ...models.FunnelState) error {
	_, err := m.users.UpdateOne(ctx,
		bson.M{
			"userid":             userID,
			"fabrication_status": bson.M{"$in": from},
		},
		bson.M{"$set": bson.M{
			"fabrication_status": to,
			"updated_at":         time.Now(),
		}},
	)
	if err != nil {
		return fmt.Errorf("funnel transition: %w", err)
	}
	return nil
}
