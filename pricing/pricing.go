// Package pricing derives line and cart totals from cart entries and
// current catalog prices. All functions are pure apart from catalog reads;
// they never mutate the cart.
package pricing

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/models"
	"storefront/store"
)

// ProductLookup is the slice of the catalog that pricing needs.
type ProductLookup interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
}

// Line is one priced cart entry. ProductID is nil when the product no
// longer exists and the price fell back to the add-time snapshot.
type Line struct {
	ProductID *primitive.ObjectID `json:"product_id"`
	Name      string              `json:"name,omitempty"`
	Quantity  int                 `json:"quantity"`
	UnitPrice int64               `json:"unit_price"`
	Subtotal  int64               `json:"subtotal"`
}

// Summary is what the cart view renders.
type Summary struct {
	Lines []Line `json:"lines"`
	Total int64  `json:"total"`
	// ItemCount sums every entry's quantity, including entries whose
	// product has vanished. Display only, independent of pricing.
	ItemCount int `json:"item_count"`
}

// Calculate prices a cart for display. Entries whose product no longer
// exists are left out of Lines and Total rather than failing the whole
// calculation.
func Calculate(ctx context.Context, entries []models.CartItem, lookup ProductLookup) (*Summary, error) {
	summary := &Summary{Lines: []Line{}}
	for _, entry := range entries {
		summary.ItemCount += entry.Quantity

		product, err := lookup.GetByID(ctx, entry.ProductID)
		if errors.Is(err, store.ErrProductNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("price cart entry: %w", err)
		}

		id := product.ID
		line := Line{
			ProductID: &id,
			Name:      product.Name,
			Quantity:  entry.Quantity,
			UnitPrice: product.Price,
			Subtotal:  product.Price * int64(entry.Quantity),
		}
		summary.Lines = append(summary.Lines, line)
		summary.Total += line.Subtotal
	}
	return summary, nil
}

// PriceForCheckout prices every entry for charging. Unlike Calculate it
// never drops a line: a vanished product is priced at the entry's add-time
// snapshot, so the customer is charged exactly what the ledger will record.
func PriceForCheckout(ctx context.Context, entries []models.CartItem, lookup ProductLookup) ([]Line, int64, error) {
	lines := make([]Line, 0, len(entries))
	var total int64
	for _, entry := range entries {
		line := Line{Quantity: entry.Quantity}

		product, err := lookup.GetByID(ctx, entry.ProductID)
		switch {
		case err == nil:
			id := product.ID
			line.ProductID = &id
			line.Name = product.Name
			line.UnitPrice = product.Price
		case errors.Is(err, store.ErrProductNotFound):
			line.UnitPrice = entry.PriceAtAdd
		default:
			return nil, 0, fmt.Errorf("price checkout line: %w", err)
		}

		line.Subtotal = line.UnitPrice * int64(entry.Quantity)
		lines = append(lines, line)
		total += line.Subtotal
	}
	return lines, total, nil
}
