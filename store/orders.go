package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storefront/models"
)

// OrderLedger is the append-only record of completed purchases. No update
// or delete is exposed.
type OrderLedger struct {
	Collection *mongo.Collection
}

// NewOrderLedger creates an OrderLedger backed by the "orders" collection.
func NewOrderLedger(client *mongo.Client) *OrderLedger {
	collection := client.Database("storefront").Collection("orders")
	return &OrderLedger{
		Collection: collection,
	}
}

// RecordPurchases appends every line of one checkout. Callers run it inside
// a transaction so the lines land all-or-nothing.
func (l *OrderLedger) RecordPurchases(ctx context.Context, records []models.OrderHistory) error {
	if len(records) == 0 {
		return nil
	}
	docs := make([]interface{}, len(records))
	for i := range records {
		docs[i] = records[i]
	}
	if _, err := l.Collection.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("insert order records: %w", err)
	}
	return nil
}

// ListForUser returns the user's purchase history, most recent first.
func (l *OrderLedger) ListForUser(ctx context.Context, userID primitive.ObjectID) ([]models.OrderHistory, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := l.Collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer cursor.Close(ctx)

	var records []models.OrderHistory
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("decode orders: %w", err)
	}
	return records, nil
}
