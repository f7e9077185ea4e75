package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/middleware"
	"storefront/models"
	"storefront/pricing"
	"storefront/store"
)

// CartStore is what the cart handlers need from the session cart store.
type CartStore interface {
	AddItem(ctx context.Context, sessionID string, item models.CartItem) error
	RemoveItem(ctx context.Context, sessionID string, productID primitive.ObjectID) error
	Entries(ctx context.Context, sessionID string) ([]models.CartItem, error)
}

// CartController handles cart-related requests
type CartController struct {
	Carts   CartStore
	Catalog pricing.ProductLookup
}

// NewCartController creates a new CartController
func NewCartController(carts CartStore, catalog pricing.ProductLookup) *CartController {
	return &CartController{
		Carts:   carts,
		Catalog: catalog,
	}
}

// AddToCart adds a product to the session's cart. Adding a product already
// in the cart adds to its quantity.
func (cc *CartController) AddToCart(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := middleware.SessionID(r)
	if !ok {
		http.Error(w, "Session missing", http.StatusBadRequest)
		return
	}

	var input struct {
		ProductID string `json:"product_id"`
		Quantity  int    `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	productID, err := primitive.ObjectIDFromHex(input.ProductID)
	if err != nil {
		http.Error(w, "Invalid product ID", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	product, err := cc.Catalog.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, store.ErrProductNotFound) {
			http.Error(w, "Product not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Error loading product", http.StatusInternalServerError)
		return
	}

	item := models.CartItem{
		ProductID:  product.ID,
		Quantity:   input.Quantity,
		PriceAtAdd: product.Price,
		AddedAt:    time.Now(),
	}
	if err := cc.Carts.AddItem(ctx, sessionID, item); err != nil {
		if errors.Is(err, store.ErrInvalidQuantity) {
			http.Error(w, "Quantity must be a positive integer", http.StatusBadRequest)
			return
		}
		http.Error(w, "Error updating cart", http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode("Item added to cart")
}

// RemoveFromCart removes a product from the session's cart. Removing a
// product that is not in the cart succeeds quietly.
func (cc *CartController) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := middleware.SessionID(r)
	if !ok {
		http.Error(w, "Session missing", http.StatusBadRequest)
		return
	}

	params := mux.Vars(r)
	productID, err := primitive.ObjectIDFromHex(params["product_id"])
	if err != nil {
		http.Error(w, "Invalid product ID", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	if err := cc.Carts.RemoveItem(ctx, sessionID, productID); err != nil {
		http.Error(w, "Error updating cart", http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode("Item removed from cart")
}

// GetCart renders the session's cart with line subtotals and the cart
// total. Products deleted since they were added are left out of the total.
func (cc *CartController) GetCart(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := middleware.SessionID(r)
	if !ok {
		http.Error(w, "Session missing", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	entries, err := cc.Carts.Entries(ctx, sessionID)
	if err != nil {
		http.Error(w, "Error loading cart", http.StatusInternalServerError)
		return
	}

	summary, err := pricing.Calculate(ctx, entries, cc.Catalog)
	if err != nil {
		http.Error(w, "Error pricing cart", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(summary)
}
