package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"storefront/models"
)

// ErrInvalidQuantity is returned when an add-to-cart quantity is not a
// positive integer.
var ErrInvalidQuantity = errors.New("quantity must be a positive integer")

// CartStore holds the pending, unpaid selection for each browsing session.
// One document per session id; every mutation is written through
// immediately. Not safe for concurrent mutation of the same session:
// last write wins, which matches a single-browser session.
type CartStore struct {
	Collection *mongo.Collection
}

// NewCartStore creates a CartStore backed by the "carts" collection.
func NewCartStore(client *mongo.Client) *CartStore {
	collection := client.Database("storefront").Collection("carts")
	return &CartStore{
		Collection: collection,
	}
}

// AddItem inserts a new entry, or adds the quantity onto an existing entry
// for the same product. Entries keep insertion order.
func (s *CartStore) AddItem(ctx context.Context, sessionID string, item models.CartItem) error {
	if item.Quantity < 1 {
		return ErrInvalidQuantity
	}
	if item.AddedAt.IsZero() {
		item.AddedAt = time.Now()
	}

	var cart models.Cart
	err := s.Collection.FindOne(ctx, bson.M{"session_id": sessionID}).Decode(&cart)
	if err != nil {
		if !errors.Is(err, mongo.ErrNoDocuments) {
			return fmt.Errorf("find cart: %w", err)
		}
		cart = models.Cart{
			SessionID: sessionID,
			Items:     []models.CartItem{item},
			UpdatedAt: time.Now(),
		}
		if _, err := s.Collection.InsertOne(ctx, cart); err != nil {
			return fmt.Errorf("create cart: %w", err)
		}
		return nil
	}

	cart.Items = mergeItem(cart.Items, item)
	return s.writeItems(ctx, cart.ID, cart.Items)
}

// RemoveItem deletes the entry for productID. Removing a product that is not
// in the cart is a no-op.
func (s *CartStore) RemoveItem(ctx context.Context, sessionID string, productID primitive.ObjectID) error {
	var cart models.Cart
	err := s.Collection.FindOne(ctx, bson.M{"session_id": sessionID}).Decode(&cart)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil
		}
		return fmt.Errorf("find cart: %w", err)
	}

	kept := cart.Items[:0]
	for _, item := range cart.Items {
		if item.ProductID != productID {
			kept = append(kept, item)
		}
	}
	if len(kept) == len(cart.Items) {
		return nil
	}
	return s.writeItems(ctx, cart.ID, kept)
}

// Entries returns the session's cart items in insertion order. A session
// with no cart yet gets an empty slice, not an error.
func (s *CartStore) Entries(ctx context.Context, sessionID string) ([]models.CartItem, error) {
	var cart models.Cart
	err := s.Collection.FindOne(ctx, bson.M{"session_id": sessionID}).Decode(&cart)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return []models.CartItem{}, nil
		}
		return nil, fmt.Errorf("find cart: %w", err)
	}
	return cart.Items, nil
}

// Clear drops the session's cart document. Called by the checkout
// orchestrator after the ledger write, inside the same transaction.
func (s *CartStore) Clear(ctx context.Context, sessionID string) error {
	if _, err := s.Collection.DeleteOne(ctx, bson.M{"session_id": sessionID}); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

func (s *CartStore) writeItems(ctx context.Context, cartID primitive.ObjectID, items []models.CartItem) error {
	update := bson.M{"$set": bson.M{"items": items, "updated_at": time.Now()}}
	if _, err := s.Collection.UpdateOne(ctx, bson.M{"_id": cartID}, update); err != nil {
		return fmt.Errorf("update cart: %w", err)
	}
	return nil
}

// mergeItem is additive: a repeat add of the same product bumps the existing
// entry's quantity and keeps its original position and price snapshot.
func mergeItem(items []models.CartItem, item models.CartItem) []models.CartItem {
	for i := range items {
		if items[i].ProductID == item.ProductID {
			items[i].Quantity += item.Quantity
			return items
		}
	}
	return append(items, item)
}
