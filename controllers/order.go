// controllers/order.go
package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"storefront/middleware"
	"storefront/models"
	"storefront/utils"
)

// OrderLedger lists a user's purchase history.
type OrderLedger interface {
	ListForUser(ctx context.Context, userID primitive.ObjectID) ([]models.OrderHistory, error)
}

// OrderController handles order-history requests
type OrderController struct {
	Ledger         OrderLedger
	UserCollection *mongo.Collection
}

// NewOrderController creates a new OrderController
func NewOrderController(ledger OrderLedger, client *mongo.Client) *OrderController {
	userCollection := client.Database("storefront").Collection("users")
	return &OrderController{
		Ledger:         ledger,
		UserCollection: userCollection,
	}
}

// GetOrders retrieves the authenticated user's purchase history, most
// recent first.
func (oc *OrderController) GetOrders(w http.ResponseWriter, r *http.Request) {
	claims, ok := r.Context().Value(middleware.UserContextKey).(*utils.Claims)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	// Find the user in the database
	var user models.User
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()
	if err := oc.UserCollection.FindOne(ctx, bson.M{"email": claims.Email}).Decode(&user); err != nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	records, err := oc.Ledger.ListForUser(ctx, user.ID)
	if err != nil {
		http.Error(w, "Failed to retrieve orders", http.StatusInternalServerError)
		return
	}
	if records == nil {
		records = []models.OrderHistory{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(records)
}
