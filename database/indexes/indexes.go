// Package indexes declares the collection indexes the application relies
// on. The unique indexes are load-bearing: duplicate username, school ID,
// discount code and tracking-code detection all depend on them.
package indexes

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type spec struct {
	collection string
	model      mongo.IndexModel
}

func all() []spec {
	unique := options.Index().SetUnique(true)
	return []spec{
		{"users", mongo.IndexModel{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: unique,
		}},
		{"schools", mongo.IndexModel{
			Keys:    bson.D{{Key: "school_id", Value: 1}},
			Options: unique,
		}},
		{"orders", mongo.IndexModel{
			Keys:    bson.D{{Key: "tracking_code", Value: 1}},
			Options: unique,
		}},
		{"orders", mongo.IndexModel{
			Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
		}},
		{"discount_codes", mongo.IndexModel{
			Keys:    bson.D{{Key: "code", Value: 1}},
			Options: unique,
		}},
	}
}

// Ensure creates every declared index. Creation is idempotent.
func Ensure(ctx context.Context, db *mongo.Database) error {
	for _, s := range all() {
		if _, err := db.Collection(s.collection).Indexes().CreateOne(ctx, s.model); err != nil {
			return fmt.Errorf("indexes: %s: %w", s.collection, err)
		}
	}
	return nil
}
