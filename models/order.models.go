package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderHistory is one purchased line of a completed checkout. Records are
// append-only: never updated or deleted. PriceAtPurchase is a frozen
// snapshot; historical totals must not join back to live product prices.
type OrderHistory struct {
	ID primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	// CheckoutID groups all lines written by a single checkout.
	CheckoutID string             `bson:"checkout_id" json:"checkout_id"`
	UserID     primitive.ObjectID `bson:"user_id" json:"user_id"`
	// ProductID is nil when the product was deleted before checkout; the
	// line is still recorded with the price captured at add time.
	ProductID       *primitive.ObjectID `bson:"product_id" json:"product_id"`
	ProductName     string              `bson:"product_name" json:"product_name"`
	PriceAtPurchase int64               `bson:"price_at_purchase" json:"price_at_purchase"`
	Quantity        int                 `bson:"quantity" json:"quantity"`
	CreatedAt       time.Time           `bson:"created_at" json:"created_at"`
}
