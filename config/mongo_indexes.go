package config

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// EnsureMongoIndexes creates the match_audit indexes. Safe to call on every
// startup; index creation is idempotent.
func EnsureMongoIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	_, err := db.Collection("match_audit").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "candidate_id", Value: 1}, {Key: "evaluated_at", Value: -1}}},
		{Keys: bson.D{{Key: "project_id", Value: 1}, {Key: "evaluated_at", Value: -1}}},
	})
	return err
}
