// Package checkout turns a session cart into durable order history through
// a single payment attempt.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/models"
	"storefront/payments"
	"storefront/pricing"
)

var (
	// ErrEmptyCart means there is nothing to check out.
	ErrEmptyCart = errors.New("cart is empty, nothing to checkout")

	// ErrPostPaymentPersistence means the charge succeeded but the ledger
	// write did not complete after retries. The cart is left intact and
	// the failure needs operator reconciliation, not a user retry.
	ErrPostPaymentPersistence = errors.New("payment captured but order records incomplete, reconciliation required")
)

// CartStore is the slice of the session cart store checkout needs.
type CartStore interface {
	Entries(ctx context.Context, sessionID string) ([]models.CartItem, error)
	Clear(ctx context.Context, sessionID string) error
}

// Ledger appends the purchase records of one checkout.
type Ledger interface {
	RecordPurchases(ctx context.Context, records []models.OrderHistory) error
}

// TxRunner makes the ledger write and the cart clear one atomic unit.
type TxRunner interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Receipt summarizes a completed checkout.
type Receipt struct {
	CheckoutID    string                `json:"checkout_id"`
	TransactionID string                `json:"transaction_id"`
	Amount        int64                 `json:"amount"`
	Currency      string                `json:"currency"`
	Records       []models.OrderHistory `json:"records"`
}

// Orchestrator runs the checkout sequence: price the cart server-side,
// charge the gateway once, then persist order history and clear the cart
// atomically.
type Orchestrator struct {
	carts   CartStore
	catalog pricing.ProductLookup
	ledger  Ledger
	gateway payments.Gateway
	tx      TxRunner

	currency       string
	chargeTimeout  time.Duration
	persistRetries int
	retryDelay     time.Duration
}

// New creates an Orchestrator. currency is the store's single settlement
// currency, e.g. "usd".
func New(carts CartStore, catalog pricing.ProductLookup, ledger Ledger, gateway payments.Gateway, tx TxRunner, currency string) *Orchestrator {
	return &Orchestrator{
		carts:          carts,
		catalog:        catalog,
		ledger:         ledger,
		gateway:        gateway,
		tx:             tx,
		currency:       currency,
		chargeTimeout:  15 * time.Second,
		persistRetries: 3,
		retryDelay:     250 * time.Millisecond,
	}
}

// Checkout charges the session's cart and materializes it into order
// history for userID.
//
// The amount is always computed here from current prices; nothing
// client-supplied is trusted. A declined or unreachable gateway leaves the
// cart untouched so the user can retry. The charge itself is never retried:
// a second attempt on an ambiguous failure risks double-billing.
func (o *Orchestrator) Checkout(ctx context.Context, sessionID string, userID primitive.ObjectID, paymentToken string) (*Receipt, error) {
	entries, err := o.carts.Entries(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	if len(entries) == 0 {
		return nil, ErrEmptyCart
	}

	lines, total, err := pricing.PriceForCheckout(ctx, entries, o.catalog)
	if err != nil {
		return nil, err
	}

	checkoutID := uuid.NewString()
	chargeCtx, cancel := context.WithTimeout(ctx, o.chargeTimeout)
	defer cancel()
	result, err := o.gateway.Charge(chargeCtx, payments.ChargeRequest{
		Amount:      total,
		Currency:    o.currency,
		Token:       paymentToken,
		Description: fmt.Sprintf("storefront checkout %s", checkoutID),
	})
	if err != nil {
		if errors.Is(chargeCtx.Err(), context.DeadlineExceeded) {
			return nil, payments.ErrGatewayUnavailable
		}
		return nil, err
	}

	// Money has moved. From here on, every line must be recorded: the sum
	// of the records' price*quantity equals the amount just charged.
	now := time.Now()
	records := make([]models.OrderHistory, len(lines))
	for i, line := range lines {
		records[i] = models.OrderHistory{
			CheckoutID:      checkoutID,
			UserID:          userID,
			ProductID:       line.ProductID,
			ProductName:     line.Name,
			PriceAtPurchase: line.UnitPrice,
			Quantity:        line.Quantity,
			CreatedAt:       now,
		}
	}

	if err := o.persist(ctx, sessionID, records); err != nil {
		log.Printf("RECONCILE checkout=%s session=%s user=%s amount=%d txn=%s: %v",
			checkoutID, sessionID, userID.Hex(), total, result.TransactionID, err)
		return nil, ErrPostPaymentPersistence
	}

	return &Receipt{
		CheckoutID:    checkoutID,
		TransactionID: result.TransactionID,
		Amount:        total,
		Currency:      o.currency,
		Records:       records,
	}, nil
}

// persist writes all order records and clears the cart in one transaction,
// retrying a few times. Unlike the charge, this is safe to retry: the
// transaction either landed in full or not at all.
func (o *Orchestrator) persist(ctx context.Context, sessionID string, records []models.OrderHistory) error {
	var last error
	for attempt := 0; attempt < o.persistRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(o.retryDelay)
		}
		last = o.tx.WithTransaction(ctx, func(txCtx context.Context) error {
			if err := o.ledger.RecordPurchases(txCtx, records); err != nil {
				return err
			}
			return o.carts.Clear(txCtx, sessionID)
		})
		if last == nil {
			return nil
		}
	}
	return last
}
