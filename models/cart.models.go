package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartItem represents an item in the cart. PriceAtAdd snapshots the product
// price at the moment the item entered the cart, so a product deleted before
// checkout can still be charged and recorded at a known price.
type CartItem struct {
	ProductID  primitive.ObjectID `bson:"product_id" json:"product_id"`
	Quantity   int                `bson:"quantity" json:"quantity"`
	PriceAtAdd int64              `bson:"price_at_add" json:"price_at_add"`
	AddedAt    time.Time          `bson:"added_at" json:"added_at"`
}

// Cart represents one browsing session's unpaid selection. Items keep
// insertion order; a product appears at most once.
type Cart struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	SessionID string             `bson:"session_id" json:"session_id"`
	Items     []CartItem         `bson:"items" json:"items"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}
