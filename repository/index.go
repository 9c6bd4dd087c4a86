package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SetupIndexes creates the single-field owner indexes. Composite indexes are
// deliberately not created: every list query filters by one owner field and
// sorts client-side, which keeps operational setup to a minimum.
func SetupIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	ownerIndex := func(field string) []mongo.IndexModel {
		return []mongo.IndexModel{{
			Keys:    bson.D{{Key: field, Value: 1}},
			Options: options.Index().SetName(field + "_index"),
		}}
	}

	collections := map[string][]mongo.IndexModel{
		MemosCollection:         ownerIndex("user_id"),
		TemplatesCollection:     ownerIndex("user_id"),
		CategoriesCollection:    ownerIndex("user_id"),
		NotificationsCollection: ownerIndex("receiver_id"),
		SessionsCollection: {
			{
				Keys:    bson.D{{Key: "session_id", Value: 1}},
				Options: options.Index().SetName("session_id_index").SetUnique(true),
			},
			{
				Keys:    bson.D{{Key: "user_id", Value: 1}},
				Options: options.Index().SetName("user_id_index"),
			},
		},
		UsersCollection: {
			{
				Keys:    bson.D{{Key: "google_id", Value: 1}},
				Options: options.Index().SetName("google_id_index").SetUnique(true),
			},
			{
				Keys:    bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetName("email_index"),
			},
		},
	}

	for name, indexes := range collections {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, indexes); err != nil {
			return fmt.Errorf("failed to create indexes for %s: %w", name, err)
		}
	}
	return nil
}
