// controllers/checkout.go
package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"storefront/checkout"
	"storefront/middleware"
	"storefront/models"
	"storefront/payments"
	"storefront/utils"
)

// CheckoutService runs the checkout sequence for one session.
type CheckoutService interface {
	Checkout(ctx context.Context, sessionID string, userID primitive.ObjectID, paymentToken string) (*checkout.Receipt, error)
}

// CheckoutController handles checkout requests
type CheckoutController struct {
	Service        CheckoutService
	UserCollection *mongo.Collection
	EmailService   *utils.EmailService
}

// NewCheckoutController creates a new CheckoutController
func NewCheckoutController(service CheckoutService, client *mongo.Client, emailService *utils.EmailService) *CheckoutController {
	userCollection := client.Database("storefront").Collection("users")
	return &CheckoutController{
		Service:        service,
		UserCollection: userCollection,
		EmailService:   emailService,
	}
}

// Checkout charges the session's cart and writes the order history. The
// request body carries only the payment token; the amount is computed
// server-side from the cart and current prices.
func (cc *CheckoutController) Checkout(w http.ResponseWriter, r *http.Request) {
	claims, ok := r.Context().Value(middleware.UserContextKey).(*utils.Claims)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	sessionID, ok := middleware.SessionID(r)
	if !ok {
		http.Error(w, "Session missing", http.StatusBadRequest)
		return
	}

	var input struct {
		PaymentToken string `json:"payment_token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.PaymentToken == "" {
		http.Error(w, "Payment token required", http.StatusBadRequest)
		return
	}

	// Find the user in the database
	var user models.User
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()
	if err := cc.UserCollection.FindOne(ctx, bson.M{"email": claims.Email}).Decode(&user); err != nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	receipt, err := cc.Service.Checkout(ctx, sessionID, user.ID, input.PaymentToken)
	if err != nil {
		switch {
		case errors.Is(err, checkout.ErrEmptyCart):
			http.Error(w, "Cart is empty", http.StatusBadRequest)
		case errors.Is(err, payments.ErrPaymentDeclined):
			http.Error(w, "Payment declined, please try another payment method", http.StatusPaymentRequired)
		case errors.Is(err, payments.ErrGatewayUnavailable):
			http.Error(w, "Payment service unavailable, please try again later", http.StatusBadGateway)
		case errors.Is(err, checkout.ErrPostPaymentPersistence):
			// Money moved but records are incomplete. Do not tell the
			// user to retry; support has the reconciliation log line.
			http.Error(w, "Your payment was received but the order could not be finalized. Please contact support.", http.StatusInternalServerError)
		default:
			http.Error(w, "Checkout failed", http.StatusInternalServerError)
		}
		return
	}

	// Send confirmation email to user
	go func(email string) {
		if err := cc.EmailService.SendOrderConfirmationEmail(email, receipt); err != nil {
			log.Printf("Failed to send email to %s: %v", email, err)
		}
	}(user.Email)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(receipt)
}
